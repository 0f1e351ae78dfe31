package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"assembly_portal_backend/platform/apperr"
)

const elementNotFoundMessage = "element not found"

// Repo implements the catalog repository.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new catalog repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

const elementColumns = `id, name, color_id, category_id, width, length, depth,
	stock_amount, price_cents, installation_cost_cents, installation_time_minutes,
	created_at, updated_at`

func scanElement(row pgx.Row) (Element, error) {
	var element Element
	var createdAt, updatedAt time.Time
	if err := row.Scan(
		&element.ID, &element.Name, &element.ColorID, &element.CategoryID,
		&element.Width, &element.Length, &element.Depth,
		&element.StockAmount, &element.PriceCents, &element.InstallationCostCents,
		&element.InstallationTimeMinutes, &createdAt, &updatedAt,
	); err != nil {
		return Element{}, err
	}
	element.CreatedAt = createdAt.Format(time.RFC3339)
	element.UpdatedAt = updatedAt.Format(time.RFC3339)
	return element, nil
}

// GetElementByID retrieves an element by ID.
func (r *Repo) GetElementByID(ctx context.Context, id int64) (Element, error) {
	query := fmt.Sprintf(`SELECT %s FROM elements WHERE id = $1`, elementColumns)

	element, err := scanElement(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Element{}, apperr.NotFound(elementNotFoundMessage)
		}
		return Element{}, fmt.Errorf("get element by id: %w", err)
	}
	return element, nil
}

// GetElementsByIDs retrieves elements by IDs. Unknown IDs are simply absent
// from the result.
func (r *Repo) GetElementsByIDs(ctx context.Context, ids []int64) ([]Element, error) {
	query := fmt.Sprintf(`SELECT %s FROM elements WHERE id = ANY($1) ORDER BY id ASC`, elementColumns)

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("get elements by ids: %w", err)
	}
	defer rows.Close()

	items := make([]Element, 0, len(ids))
	for rows.Next() {
		element, err := scanElement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan element: %w", err)
		}
		items = append(items, element)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate elements by ids: %w", rows.Err())
	}

	return items, nil
}

// ListElements lists elements with optional category and color filters.
func (r *Repo) ListElements(ctx context.Context, params ListElementsParams) ([]Element, error) {
	whereClauses := []string{"TRUE"}
	args := []interface{}{}
	argIdx := 1

	if params.CategoryID != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("category_id = $%d", argIdx))
		args = append(args, *params.CategoryID)
		argIdx++
	}
	if params.ColorID != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("color_id = $%d", argIdx))
		args = append(args, *params.ColorID)
		argIdx++
	}

	query := fmt.Sprintf(`SELECT %s FROM elements WHERE %s ORDER BY name ASC, id ASC`,
		elementColumns, strings.Join(whereClauses, " AND "))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list elements: %w", err)
	}
	defer rows.Close()

	items := make([]Element, 0)
	for rows.Next() {
		element, err := scanElement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan element: %w", err)
		}
		items = append(items, element)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate elements: %w", rows.Err())
	}

	return items, nil
}

// CreateElement creates an element.
func (r *Repo) CreateElement(ctx context.Context, params CreateElementParams) (Element, error) {
	query := fmt.Sprintf(`
		INSERT INTO elements (
			name, color_id, category_id, width, length, depth,
			stock_amount, price_cents, installation_cost_cents, installation_time_minutes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING %s`, elementColumns)

	element, err := scanElement(r.pool.QueryRow(ctx, query,
		params.Name, params.ColorID, params.CategoryID,
		params.Width, params.Length, params.Depth,
		params.StockAmount, params.PriceCents, params.InstallationCostCents,
		params.InstallationTimeMinutes,
	))
	if err != nil {
		return Element{}, fmt.Errorf("create element: %w", err)
	}
	return element, nil
}

// UpdateElement updates an element. Nil params keep the current value.
func (r *Repo) UpdateElement(ctx context.Context, params UpdateElementParams) (Element, error) {
	query := fmt.Sprintf(`
		UPDATE elements
		SET name = COALESCE($2, name),
			color_id = COALESCE($3, color_id),
			category_id = COALESCE($4, category_id),
			width = COALESCE($5, width),
			length = COALESCE($6, length),
			depth = COALESCE($7, depth),
			stock_amount = COALESCE($8, stock_amount),
			price_cents = COALESCE($9, price_cents),
			installation_cost_cents = COALESCE($10, installation_cost_cents),
			installation_time_minutes = COALESCE($11, installation_time_minutes),
			updated_at = now()
		WHERE id = $1
		RETURNING %s`, elementColumns)

	element, err := scanElement(r.pool.QueryRow(ctx, query,
		params.ID, params.Name, params.ColorID, params.CategoryID,
		params.Width, params.Length, params.Depth,
		params.StockAmount, params.PriceCents, params.InstallationCostCents,
		params.InstallationTimeMinutes,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Element{}, apperr.NotFound(elementNotFoundMessage)
		}
		return Element{}, fmt.Errorf("update element: %w", err)
	}
	return element, nil
}

// DeleteElement deletes an element.
func (r *Repo) DeleteElement(ctx context.Context, id int64) error {
	query := `DELETE FROM elements WHERE id = $1`
	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete element: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(elementNotFoundMessage)
	}
	return nil
}

const decrementStockQuery = `
	UPDATE elements
	SET stock_amount = stock_amount - $2, updated_at = now()
	WHERE id = $1 AND stock_amount >= $2`

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (r *Repo) decrementStock(ctx context.Context, q execer, elementID int64, quantity int) error {
	result, err := q.Exec(ctx, decrementStockQuery, elementID, quantity)
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}
	if result.RowsAffected() > 0 {
		return nil
	}

	var available int
	if err := q.QueryRow(ctx, `SELECT stock_amount FROM elements WHERE id = $1`, elementID).Scan(&available); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperr.NotFound(elementNotFoundMessage)
		}
		return fmt.Errorf("check stock: %w", err)
	}
	return apperr.Conflict(fmt.Sprintf("insufficient stock for element %d", elementID)).
		WithDetails(map[string]interface{}{"elementId": elementID, "available": available})
}

// DecrementStock subtracts quantity from an element's stock. The guard on
// stock_amount keeps it from going negative under concurrent decrements.
func (r *Repo) DecrementStock(ctx context.Context, elementID int64, quantity int) error {
	return r.decrementStock(ctx, r.pool, elementID, quantity)
}

// DecrementStockBatch applies all decrements in one transaction.
func (r *Repo) DecrementStockBatch(ctx context.Context, items []StockDecrement) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin stock batch: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, item := range items {
		if err := r.decrementStock(ctx, tx, item.ElementID, item.Quantity); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit stock batch: %w", err)
	}
	return nil
}
