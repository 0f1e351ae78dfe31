package service

import (
	"math"
)

// CatalogElement is the pricing view of a catalog element the projects
// context needs: purchase price, installation price and time, and stock.
type CatalogElement struct {
	ID                      int64
	Name                    string
	PriceCents              int64
	InstallationCostCents   int64
	InstallationTimeMinutes int
	StockAmount             int
}

// CalcLine is one element quantity to price.
type CalcLine struct {
	ElementID int64
	Quantity  int
}

// OutOfStockLine reports a line whose requested quantity exceeds stock,
// carrying what is currently available.
type OutOfStockLine struct {
	ElementID int64
	Available int
}

// CostAndTime is the priced summary of a set of lines.
type CostAndTime struct {
	PurchaseCostCents     int64
	InstallationCostCents int64
	TotalCostCents        int64
	TotalTimeMinutes      int
	OutOfStock            []OutOfStockLine
}

// CalculateCostAndTime prices the given lines against the catalog elements.
// It is a pure function: stock problems are reported, never enforced here.
// Lines referencing elements absent from the catalog contribute nothing.
func CalculateCostAndTime(lines []CalcLine, elements map[int64]CatalogElement) CostAndTime {
	var result CostAndTime
	for _, line := range lines {
		element, ok := elements[line.ElementID]
		if !ok {
			continue
		}

		quantity := int64(line.Quantity)
		result.PurchaseCostCents += element.PriceCents * quantity
		result.InstallationCostCents += element.InstallationCostCents * quantity
		result.TotalTimeMinutes += element.InstallationTimeMinutes * line.Quantity

		if line.Quantity > element.StockAmount {
			result.OutOfStock = append(result.OutOfStock, OutOfStockLine{
				ElementID: line.ElementID,
				Available: element.StockAmount,
			})
		}
	}
	result.TotalCostCents = result.PurchaseCostCents + result.InstallationCostCents
	return result
}

// ApplyDiscounts applies percentage discounts sequentially, each one on the
// running total, and rounds to whole cents at the end. The result never goes
// below zero.
func ApplyDiscounts(totalCents int64, percents []float64) int64 {
	running := float64(totalCents)
	for _, percent := range percents {
		running -= running * percent / 100
	}
	discounted := int64(math.Round(running))
	if discounted < 0 {
		return 0
	}
	return discounted
}
