package repository

import (
	"context"
)

// Element represents a catalog part with purchase and installation pricing.
// Monetary values are integer cents; installation time is stored in minutes.
type Element struct {
	ID                      int64   `db:"id"`
	Name                    string  `db:"name"`
	ColorID                 int64   `db:"color_id"`
	CategoryID              int64   `db:"category_id"`
	Width                   float64 `db:"width"`
	Length                  float64 `db:"length"`
	Depth                   float64 `db:"depth"`
	StockAmount             int     `db:"stock_amount"`
	PriceCents              int64   `db:"price_cents"`
	InstallationCostCents   int64   `db:"installation_cost_cents"`
	InstallationTimeMinutes int     `db:"installation_time_minutes"`
	CreatedAt               string  `db:"created_at"`
	UpdatedAt               string  `db:"updated_at"`
}

// CreateElementParams contains data for creating an element.
type CreateElementParams struct {
	Name                    string
	ColorID                 int64
	CategoryID              int64
	Width                   float64
	Length                  float64
	Depth                   float64
	StockAmount             int
	PriceCents              int64
	InstallationCostCents   int64
	InstallationTimeMinutes int
}

// UpdateElementParams contains data for updating an element.
// Nil fields are left unchanged.
type UpdateElementParams struct {
	ID                      int64
	Name                    *string
	ColorID                 *int64
	CategoryID              *int64
	Width                   *float64
	Length                  *float64
	Depth                   *float64
	StockAmount             *int
	PriceCents              *int64
	InstallationCostCents   *int64
	InstallationTimeMinutes *int
}

// ListElementsParams defines optional filters for listing elements.
type ListElementsParams struct {
	CategoryID *int64
	ColorID    *int64
}

// StockDecrement is one element quantity to subtract from stock.
type StockDecrement struct {
	ElementID int64
	Quantity  int
}

// Repository defines persistence operations for the element catalog.
type Repository interface {
	GetElementByID(ctx context.Context, id int64) (Element, error)
	GetElementsByIDs(ctx context.Context, ids []int64) ([]Element, error)
	ListElements(ctx context.Context, params ListElementsParams) ([]Element, error)
	CreateElement(ctx context.Context, params CreateElementParams) (Element, error)
	UpdateElement(ctx context.Context, params UpdateElementParams) (Element, error)
	DeleteElement(ctx context.Context, id int64) error

	// DecrementStock subtracts quantity from an element's stock, failing
	// with a conflict rather than letting stock go negative.
	DecrementStock(ctx context.Context, elementID int64, quantity int) error
	// DecrementStockBatch applies all decrements in one transaction; any
	// shortfall rolls the whole batch back.
	DecrementStockBatch(ctx context.Context, items []StockDecrement) error
}
