// Package transport defines request and response DTOs for the projects API.
package transport

import (
	catalogtransport "assembly_portal_backend/internal/catalog/transport"
)

// ProjectResponse is the API representation of a project.
type ProjectResponse struct {
	ID        int64   `json:"id"`
	UserID    int64   `json:"userId"`
	Name      string  `json:"name"`
	Status    string  `json:"status"`
	StartDate string  `json:"startDate"`
	EndDate   *string `json:"endDate,omitempty"`
	CreatedAt string  `json:"createdAt"`
	UpdatedAt string  `json:"updatedAt"`
}

// ProjectListResponse wraps a list of projects.
type ProjectListResponse struct {
	Items []ProjectResponse `json:"items"`
	Total int               `json:"total"`
}

// LineResponse is one element line on a project, enriched with catalog data.
type LineResponse struct {
	ElementID             int64                        `json:"elementId"`
	Name                  string                       `json:"name"`
	Quantity              int                          `json:"quantity"`
	UnitPriceCents        int64                        `json:"unitPriceCents"`
	InstallationCostCents int64                        `json:"installationCostCents"`
	InstallationTime      catalogtransport.InstallTime `json:"installationTime"`
	StockAmount           int                          `json:"stockAmount"`
}

// OutOfStockLine reports a line whose requested quantity exceeds the
// currently available stock.
type OutOfStockLine struct {
	ElementID int64 `json:"elementId"`
	Available int   `json:"available"`
}

// CostSummaryResponse is the raw priced summary of a project's lines.
type CostSummaryResponse struct {
	PurchaseCostCents     int64                        `json:"purchaseCostCents"`
	InstallationCostCents int64                        `json:"installationCostCents"`
	TotalCostCents        int64                        `json:"totalCostCents"`
	TotalTime             catalogtransport.InstallTime `json:"totalTime"`
	OutOfStock            []OutOfStockLine             `json:"outOfStock"`
}

// PricedSummaryResponse is the cost summary with the active discount chain
// folded in.
type PricedSummaryResponse struct {
	CostSummaryResponse
	DiscountedCostCents int64     `json:"discountedCostCents"`
	DiscountPercents    []float64 `json:"discountPercents"`
}

// ProjectDetailsResponse combines the project, its lines, and its pricing.
type ProjectDetailsResponse struct {
	Project ProjectResponse       `json:"project"`
	Lines   []LineResponse        `json:"lines"`
	Summary PricedSummaryResponse `json:"summary"`
}

// CreateProjectRequest defines payload for creating a project.
type CreateProjectRequest struct {
	Name string `json:"name" validate:"required,min=1,max=200"`
}

// ListProjectsRequest defines query filters for listing projects.
type ListProjectsRequest struct {
	Status string `form:"status" validate:"omitempty,oneof=open ordered closed"`
}

// AddElementRequest defines payload for adding an element to a project.
type AddElementRequest struct {
	ElementID int64 `json:"elementId" validate:"required,min=1"`
	Quantity  int   `json:"quantity" validate:"required,min=1"`
}

// RemoveElementRequest defines query parameters for removing element
// quantity from a project. Quantity defaults to 1 at the handler.
type RemoveElementRequest struct {
	Quantity int `form:"quantity" validate:"omitempty,min=1"`
}
