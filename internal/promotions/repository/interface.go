package repository

import (
	"context"
)

// Promotion is a percentage discount active over a date window. Active
// promotions compound: each percentage applies to the running total.
type Promotion struct {
	ID        int64   `db:"id"`
	Name      string  `db:"name"`
	Percent   float64 `db:"percent"`
	StartsAt  string  `db:"starts_at"`
	EndsAt    string  `db:"ends_at"`
	CreatedAt string  `db:"created_at"`
	UpdatedAt string  `db:"updated_at"`
}

// CreatePromotionParams contains data for creating a promotion.
type CreatePromotionParams struct {
	Name     string
	Percent  float64
	StartsAt string
	EndsAt   string
}

// Repository defines persistence operations for promotions.
type Repository interface {
	CreatePromotion(ctx context.Context, params CreatePromotionParams) (Promotion, error)
	GetPromotionByID(ctx context.Context, id int64) (Promotion, error)
	ListPromotions(ctx context.Context) ([]Promotion, error)
	// ListActivePromotions returns promotions whose window covers now,
	// oldest first so discounts apply in creation order.
	ListActivePromotions(ctx context.Context) ([]Promotion, error)
	DeletePromotion(ctx context.Context, id int64) error
}
