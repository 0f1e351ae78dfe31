package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"assembly_portal_backend/platform/apperr"
)

const promotionNotFoundMessage = "promotion not found"

// Repo implements the promotions repository.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new promotions repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

const promotionColumns = `id, name, percent, starts_at, ends_at, created_at, updated_at`

func scanPromotion(row pgx.Row) (Promotion, error) {
	var promotion Promotion
	var startsAt, endsAt, createdAt, updatedAt time.Time
	if err := row.Scan(
		&promotion.ID, &promotion.Name, &promotion.Percent,
		&startsAt, &endsAt, &createdAt, &updatedAt,
	); err != nil {
		return Promotion{}, err
	}
	promotion.StartsAt = startsAt.Format(time.RFC3339)
	promotion.EndsAt = endsAt.Format(time.RFC3339)
	promotion.CreatedAt = createdAt.Format(time.RFC3339)
	promotion.UpdatedAt = updatedAt.Format(time.RFC3339)
	return promotion, nil
}

// CreatePromotion creates a promotion.
func (r *Repo) CreatePromotion(ctx context.Context, params CreatePromotionParams) (Promotion, error) {
	query := fmt.Sprintf(`
		INSERT INTO promotions (name, percent, starts_at, ends_at)
		VALUES ($1, $2, $3, $4)
		RETURNING %s`, promotionColumns)

	promotion, err := scanPromotion(r.pool.QueryRow(ctx, query,
		params.Name, params.Percent, params.StartsAt, params.EndsAt))
	if err != nil {
		return Promotion{}, fmt.Errorf("create promotion: %w", err)
	}
	return promotion, nil
}

// GetPromotionByID retrieves a promotion by ID.
func (r *Repo) GetPromotionByID(ctx context.Context, id int64) (Promotion, error) {
	query := fmt.Sprintf(`SELECT %s FROM promotions WHERE id = $1`, promotionColumns)

	promotion, err := scanPromotion(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Promotion{}, apperr.NotFound(promotionNotFoundMessage)
		}
		return Promotion{}, fmt.Errorf("get promotion by id: %w", err)
	}
	return promotion, nil
}

// ListPromotions lists every promotion, newest first.
func (r *Repo) ListPromotions(ctx context.Context) ([]Promotion, error) {
	query := fmt.Sprintf(`SELECT %s FROM promotions ORDER BY created_at DESC, id DESC`, promotionColumns)
	return r.queryPromotions(ctx, query)
}

// ListActivePromotions lists promotions whose window covers now, oldest
// first.
func (r *Repo) ListActivePromotions(ctx context.Context) ([]Promotion, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM promotions
		WHERE starts_at <= now() AND ends_at >= now()
		ORDER BY created_at ASC, id ASC`, promotionColumns)
	return r.queryPromotions(ctx, query)
}

func (r *Repo) queryPromotions(ctx context.Context, query string) ([]Promotion, error) {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list promotions: %w", err)
	}
	defer rows.Close()

	items := make([]Promotion, 0)
	for rows.Next() {
		promotion, err := scanPromotion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan promotion: %w", err)
		}
		items = append(items, promotion)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate promotions: %w", rows.Err())
	}

	return items, nil
}

// DeletePromotion deletes a promotion.
func (r *Repo) DeletePromotion(ctx context.Context, id int64) error {
	query := `DELETE FROM promotions WHERE id = $1`
	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete promotion: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(promotionNotFoundMessage)
	}
	return nil
}
