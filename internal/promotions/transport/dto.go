// Package transport defines request and response DTOs for the promotions API.
package transport

// PromotionResponse is the API representation of a promotion.
type PromotionResponse struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Percent   float64 `json:"percent"`
	StartsAt  string  `json:"startsAt"`
	EndsAt    string  `json:"endsAt"`
	CreatedAt string  `json:"createdAt"`
	UpdatedAt string  `json:"updatedAt"`
}

// PromotionListResponse wraps a list of promotions.
type PromotionListResponse struct {
	Items []PromotionResponse `json:"items"`
	Total int                 `json:"total"`
}

// CreatePromotionRequest defines payload for creating a promotion.
// Percent is an exclusive-of-zero percentage up to a full discount.
type CreatePromotionRequest struct {
	Name     string  `json:"name" validate:"required,min=1,max=200"`
	Percent  float64 `json:"percent" validate:"required,gt=0,lte=100"`
	StartsAt string  `json:"startsAt" validate:"required"`
	EndsAt   string  `json:"endsAt" validate:"required"`
}
