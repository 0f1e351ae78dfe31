package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"assembly_portal_backend/platform/apperr"
)

const projectNotFoundMessage = "project not found"

// Repo implements the projects repository.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new projects repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

const projectColumns = `id, user_id, name, status, start_date, end_date, created_at, updated_at`

func scanProject(row pgx.Row) (Project, error) {
	var project Project
	var startDate, createdAt, updatedAt time.Time
	var endDate *time.Time
	if err := row.Scan(
		&project.ID, &project.UserID, &project.Name, &project.Status,
		&startDate, &endDate, &createdAt, &updatedAt,
	); err != nil {
		return Project{}, err
	}
	project.StartDate = startDate.Format(time.RFC3339)
	if endDate != nil {
		formatted := endDate.Format(time.RFC3339)
		project.EndDate = &formatted
	}
	project.CreatedAt = createdAt.Format(time.RFC3339)
	project.UpdatedAt = updatedAt.Format(time.RFC3339)
	return project, nil
}

// CreateProject creates an open project starting now.
func (r *Repo) CreateProject(ctx context.Context, params CreateProjectParams) (Project, error) {
	query := fmt.Sprintf(`
		INSERT INTO projects (user_id, name, status, start_date)
		VALUES ($1, $2, '%s', now())
		RETURNING %s`, StatusOpen, projectColumns)

	project, err := scanProject(r.pool.QueryRow(ctx, query, params.UserID, params.Name))
	if err != nil {
		return Project{}, fmt.Errorf("create project: %w", err)
	}
	return project, nil
}

// GetProjectByID retrieves a project by ID.
func (r *Repo) GetProjectByID(ctx context.Context, id int64) (Project, error) {
	query := fmt.Sprintf(`SELECT %s FROM projects WHERE id = $1`, projectColumns)

	project, err := scanProject(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Project{}, apperr.NotFound(projectNotFoundMessage)
		}
		return Project{}, fmt.Errorf("get project by id: %w", err)
	}
	return project, nil
}

// ListProjects lists projects, optionally scoped to one user and status.
func (r *Repo) ListProjects(ctx context.Context, params ListProjectsParams) ([]Project, error) {
	whereClauses := []string{"TRUE"}
	args := []interface{}{}
	argIdx := 1

	if params.UserID != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("user_id = $%d", argIdx))
		args = append(args, *params.UserID)
		argIdx++
	}
	if params.Status != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *params.Status)
		argIdx++
	}

	query := fmt.Sprintf(`SELECT %s FROM projects WHERE %s ORDER BY created_at DESC, id DESC`,
		projectColumns, strings.Join(whereClauses, " AND "))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	items := make([]Project, 0)
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		items = append(items, project)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate projects: %w", rows.Err())
	}

	return items, nil
}

// GetProjectLines lists the element lines of a project.
func (r *Repo) GetProjectLines(ctx context.Context, projectID int64) ([]Line, error) {
	query := `
		SELECT project_id, element_id, quantity
		FROM project_elements
		WHERE project_id = $1
		ORDER BY element_id ASC`

	rows, err := r.pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("get project lines: %w", err)
	}
	defer rows.Close()

	items := make([]Line, 0)
	for rows.Next() {
		var line Line
		if err := rows.Scan(&line.ProjectID, &line.ElementID, &line.Quantity); err != nil {
			return nil, fmt.Errorf("scan project line: %w", err)
		}
		items = append(items, line)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate project lines: %w", rows.Err())
	}

	return items, nil
}

// AddLineQuantity upserts a line, incrementing quantity when it already
// exists. A single statement keeps concurrent adds from losing updates.
func (r *Repo) AddLineQuantity(ctx context.Context, projectID, elementID int64, quantity int) (Line, error) {
	query := `
		INSERT INTO project_elements (project_id, element_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (project_id, element_id)
		DO UPDATE SET quantity = project_elements.quantity + $3
		RETURNING project_id, element_id, quantity`

	var line Line
	if err := r.pool.QueryRow(ctx, query, projectID, elementID, quantity).Scan(
		&line.ProjectID, &line.ElementID, &line.Quantity,
	); err != nil {
		return Line{}, fmt.Errorf("add line quantity: %w", err)
	}
	return line, nil
}

// RemoveLineQuantity subtracts quantity from a line under a row lock,
// deleting the line once its quantity would reach zero.
func (r *Repo) RemoveLineQuantity(ctx context.Context, projectID, elementID int64, quantity int) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin remove line: %w", err)
	}
	defer tx.Rollback(ctx)

	var current int
	lockQuery := `
		SELECT quantity FROM project_elements
		WHERE project_id = $1 AND element_id = $2
		FOR UPDATE`
	if err := tx.QueryRow(ctx, lockQuery, projectID, elementID).Scan(&current); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Nothing to remove.
			return nil
		}
		return fmt.Errorf("lock project line: %w", err)
	}

	if current <= quantity {
		deleteQuery := `DELETE FROM project_elements WHERE project_id = $1 AND element_id = $2`
		if _, err := tx.Exec(ctx, deleteQuery, projectID, elementID); err != nil {
			return fmt.Errorf("delete project line: %w", err)
		}
	} else {
		updateQuery := `
			UPDATE project_elements SET quantity = quantity - $3
			WHERE project_id = $1 AND element_id = $2`
		if _, err := tx.Exec(ctx, updateQuery, projectID, elementID, quantity); err != nil {
			return fmt.Errorf("update project line: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit remove line: %w", err)
	}
	return nil
}

// CloseProject moves an open project to ordered and consumes stock for all
// its lines. The status guard and the per-element stock guards run in one
// transaction: a double close or a shortfall on any element rolls the whole
// order back.
func (r *Repo) CloseProject(ctx context.Context, projectID int64) (Project, []Line, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Project{}, nil, fmt.Errorf("begin close project: %w", err)
	}
	defer tx.Rollback(ctx)

	transitionQuery := fmt.Sprintf(`
		UPDATE projects
		SET status = '%s', end_date = now(), updated_at = now()
		WHERE id = $1 AND status = '%s'
		RETURNING %s`, StatusOrdered, StatusOpen, projectColumns)

	project, err := scanProject(tx.QueryRow(ctx, transitionQuery, projectID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Project{}, nil, r.transitionConflict(ctx, projectID, StatusOpen)
		}
		return Project{}, nil, fmt.Errorf("close project: %w", err)
	}

	linesQuery := `
		SELECT project_id, element_id, quantity
		FROM project_elements
		WHERE project_id = $1
		ORDER BY element_id ASC`
	rows, err := tx.Query(ctx, linesQuery, projectID)
	if err != nil {
		return Project{}, nil, fmt.Errorf("load lines for close: %w", err)
	}

	lines := make([]Line, 0)
	for rows.Next() {
		var line Line
		if err := rows.Scan(&line.ProjectID, &line.ElementID, &line.Quantity); err != nil {
			rows.Close()
			return Project{}, nil, fmt.Errorf("scan line for close: %w", err)
		}
		lines = append(lines, line)
	}
	rows.Close()
	if rows.Err() != nil {
		return Project{}, nil, fmt.Errorf("iterate lines for close: %w", rows.Err())
	}

	stockQuery := `
		UPDATE elements
		SET stock_amount = stock_amount - $2, updated_at = now()
		WHERE id = $1 AND stock_amount >= $2`
	for _, line := range lines {
		result, err := tx.Exec(ctx, stockQuery, line.ElementID, line.Quantity)
		if err != nil {
			return Project{}, nil, fmt.Errorf("consume stock: %w", err)
		}
		if result.RowsAffected() == 0 {
			var available int
			if err := tx.QueryRow(ctx, `SELECT stock_amount FROM elements WHERE id = $1`, line.ElementID).Scan(&available); err != nil {
				return Project{}, nil, fmt.Errorf("check stock: %w", err)
			}
			return Project{}, nil, apperr.Conflict(
				fmt.Sprintf("insufficient stock for element %d", line.ElementID)).
				WithDetails(map[string]interface{}{"elementId": line.ElementID, "available": available})
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return Project{}, nil, fmt.Errorf("commit close project: %w", err)
	}
	return project, lines, nil
}

// ConfirmProject moves an ordered project to its terminal closed status.
func (r *Repo) ConfirmProject(ctx context.Context, projectID int64) (Project, error) {
	query := fmt.Sprintf(`
		UPDATE projects
		SET status = '%s', updated_at = now()
		WHERE id = $1 AND status = '%s'
		RETURNING %s`, StatusClosed, StatusOrdered, projectColumns)

	project, err := scanProject(r.pool.QueryRow(ctx, query, projectID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Project{}, r.transitionConflict(ctx, projectID, StatusOrdered)
		}
		return Project{}, fmt.Errorf("confirm project: %w", err)
	}
	return project, nil
}

// transitionConflict distinguishes a missing project from one in the wrong
// status after a guarded transition matched no rows.
func (r *Repo) transitionConflict(ctx context.Context, projectID int64, wantStatus string) error {
	var status string
	query := `SELECT status FROM projects WHERE id = $1`
	if err := r.pool.QueryRow(ctx, query, projectID).Scan(&status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperr.NotFound(projectNotFoundMessage)
		}
		return fmt.Errorf("check project status: %w", err)
	}
	return apperr.Conflict(fmt.Sprintf("project is %s, must be %s", status, wantStatus))
}
