package service

import (
	"reflect"
	"testing"
)

func testElements() map[int64]CatalogElement {
	return map[int64]CatalogElement{
		1: {ID: 1, Name: "shelf board", PriceCents: 1000, InstallationCostCents: 200, InstallationTimeMinutes: 30, StockAmount: 100},
		2: {ID: 2, Name: "side panel", PriceCents: 2000, InstallationCostCents: 300, InstallationTimeMinutes: 45, StockAmount: 50},
		3: {ID: 3, Name: "cabinet frame", PriceCents: 10000, InstallationCostCents: 1000, InstallationTimeMinutes: 60, StockAmount: 20},
	}
}

func TestCalculateCostAndTime(t *testing.T) {
	lines := []CalcLine{
		{ElementID: 1, Quantity: 4},
		{ElementID: 2, Quantity: 2},
		{ElementID: 3, Quantity: 1},
	}

	got := CalculateCostAndTime(lines, testElements())

	if got.PurchaseCostCents != 18000 {
		t.Errorf("purchase cost = %d, want 18000", got.PurchaseCostCents)
	}
	if got.InstallationCostCents != 2400 {
		t.Errorf("installation cost = %d, want 2400", got.InstallationCostCents)
	}
	if got.TotalCostCents != 20400 {
		t.Errorf("total cost = %d, want 20400", got.TotalCostCents)
	}
	if got.TotalTimeMinutes != 270 {
		t.Errorf("total time = %d minutes, want 270", got.TotalTimeMinutes)
	}
	if len(got.OutOfStock) != 0 {
		t.Errorf("out of stock = %v, want empty", got.OutOfStock)
	}
}

func TestCalculateCostAndTimeEmptyProject(t *testing.T) {
	got := CalculateCostAndTime(nil, testElements())
	if got.TotalCostCents != 0 || got.TotalTimeMinutes != 0 {
		t.Fatalf("empty project priced at %d cents, %d minutes", got.TotalCostCents, got.TotalTimeMinutes)
	}
}

func TestCalculateCostAndTimeReportsOutOfStock(t *testing.T) {
	lines := []CalcLine{
		{ElementID: 2, Quantity: 51},
		{ElementID: 3, Quantity: 5},
	}

	got := CalculateCostAndTime(lines, testElements())

	want := []OutOfStockLine{{ElementID: 2, Available: 50}}
	if !reflect.DeepEqual(got.OutOfStock, want) {
		t.Fatalf("out of stock = %v, want %v", got.OutOfStock, want)
	}
	// Pricing still reflects the requested quantities.
	if got.PurchaseCostCents != 51*2000+5*10000 {
		t.Fatalf("purchase cost = %d, want %d", got.PurchaseCostCents, 51*2000+5*10000)
	}
}

func TestCalculateCostAndTimeUnknownElement(t *testing.T) {
	lines := []CalcLine{
		{ElementID: 999, Quantity: 1},
		{ElementID: 1, Quantity: 1},
	}

	got := CalculateCostAndTime(lines, testElements())

	if len(got.OutOfStock) != 0 {
		t.Fatalf("out of stock = %v, want empty for unknown element", got.OutOfStock)
	}
	if got.TotalCostCents != 1200 {
		t.Fatalf("total cost = %d, want only the known element priced", got.TotalCostCents)
	}
	if got.TotalTimeMinutes != 30 {
		t.Fatalf("total time = %d, want only the known element counted", got.TotalTimeMinutes)
	}
}

func TestApplyDiscounts(t *testing.T) {
	tests := []struct {
		name       string
		totalCents int64
		percents   []float64
		want       int64
	}{
		{"no discounts", 10000, nil, 10000},
		{"single discount", 10000, []float64{10}, 9000},
		{"compounding, not additive", 10000, []float64{10, 10}, 8100},
		{"order independent", 10000, []float64{25, 10}, 6750},
		{"full discount", 10000, []float64{100}, 0},
		{"rounds to whole cents", 9999, []float64{33.33}, 6666},
		{"zero total", 0, []float64{50}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ApplyDiscounts(tt.totalCents, tt.percents); got != tt.want {
				t.Errorf("ApplyDiscounts(%d, %v) = %d, want %d", tt.totalCents, tt.percents, got, tt.want)
			}
		})
	}
}

func TestApplyDiscountsNeverNegative(t *testing.T) {
	if got := ApplyDiscounts(100, []float64{100, 100, 100}); got != 0 {
		t.Fatalf("discounted total = %d, want clamped to 0", got)
	}
}
