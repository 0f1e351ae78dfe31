// Package transport defines request and response DTOs for the catalog API.
package transport

// InstallTime expresses an installation duration as hours plus minutes.
// Stored internally as total minutes; split at the API boundary.
type InstallTime struct {
	Hours   int `json:"hours" validate:"min=0"`
	Minutes int `json:"minutes" validate:"min=0,max=59"`
}

// TotalMinutes returns the duration flattened to minutes.
func (t InstallTime) TotalMinutes() int {
	return t.Hours*60 + t.Minutes
}

// FromMinutes builds an InstallTime from a total minute count.
func FromMinutes(minutes int) InstallTime {
	return InstallTime{Hours: minutes / 60, Minutes: minutes % 60}
}

// ElementResponse is the API representation of a catalog element.
type ElementResponse struct {
	ID                    int64       `json:"id"`
	Name                  string      `json:"name"`
	ColorID               int64       `json:"colorId"`
	CategoryID            int64       `json:"categoryId"`
	Width                 float64     `json:"width"`
	Length                float64     `json:"length"`
	Depth                 float64     `json:"depth"`
	StockAmount           int         `json:"stockAmount"`
	PriceCents            int64       `json:"priceCents"`
	InstallationCostCents int64       `json:"installationCostCents"`
	InstallationTime      InstallTime `json:"installationTime"`
	CreatedAt             string      `json:"createdAt"`
	UpdatedAt             string      `json:"updatedAt"`
}

// ElementListResponse wraps a list of elements.
type ElementListResponse struct {
	Items []ElementResponse `json:"items"`
	Total int               `json:"total"`
}

// ListElementsRequest defines query filters for listing elements.
type ListElementsRequest struct {
	CategoryID *int64 `form:"categoryId" validate:"omitempty,min=1"`
	ColorID    *int64 `form:"colorId" validate:"omitempty,min=1"`
}

// CreateElementRequest defines payload for creating an element.
type CreateElementRequest struct {
	Name                  string      `json:"name" validate:"required,min=1,max=200"`
	ColorID               int64       `json:"colorId" validate:"required,min=1"`
	CategoryID            int64       `json:"categoryId" validate:"required,min=1"`
	Width                 float64     `json:"width" validate:"required,gt=0"`
	Length                float64     `json:"length" validate:"required,gt=0"`
	Depth                 float64     `json:"depth" validate:"required,gt=0"`
	StockAmount           int         `json:"stockAmount" validate:"min=0"`
	PriceCents            int64       `json:"priceCents" validate:"min=0"`
	InstallationCostCents int64       `json:"installationCostCents" validate:"min=0"`
	InstallationTime      InstallTime `json:"installationTime"`
}

// UpdateElementRequest defines payload for updating an element.
// Omitted fields are left unchanged.
type UpdateElementRequest struct {
	Name                  *string      `json:"name" validate:"omitempty,min=1,max=200"`
	ColorID               *int64       `json:"colorId" validate:"omitempty,min=1"`
	CategoryID            *int64       `json:"categoryId" validate:"omitempty,min=1"`
	Width                 *float64     `json:"width" validate:"omitempty,gt=0"`
	Length                *float64     `json:"length" validate:"omitempty,gt=0"`
	Depth                 *float64     `json:"depth" validate:"omitempty,gt=0"`
	StockAmount           *int         `json:"stockAmount" validate:"omitempty,min=0"`
	PriceCents            *int64       `json:"priceCents" validate:"omitempty,min=0"`
	InstallationCostCents *int64       `json:"installationCostCents" validate:"omitempty,min=0"`
	InstallationTime      *InstallTime `json:"installationTime"`
}
