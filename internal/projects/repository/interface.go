package repository

import (
	"context"
)

// Project lifecycle statuses. A project starts open, becomes ordered when its
// owner closes it (stock is consumed at that point), and ends closed once an
// administrator confirms the order.
const (
	StatusOpen    = "open"
	StatusOrdered = "ordered"
	StatusClosed  = "closed"
)

// Project is an assembly project owned by a single user.
type Project struct {
	ID        int64   `db:"id"`
	UserID    int64   `db:"user_id"`
	Name      string  `db:"name"`
	Status    string  `db:"status"`
	StartDate string  `db:"start_date"`
	EndDate   *string `db:"end_date"`
	CreatedAt string  `db:"created_at"`
	UpdatedAt string  `db:"updated_at"`
}

// Line is one element entry on a project. Quantity is always positive;
// removing the last unit deletes the row.
type Line struct {
	ProjectID int64 `db:"project_id"`
	ElementID int64 `db:"element_id"`
	Quantity  int   `db:"quantity"`
}

// CreateProjectParams contains data for creating a project.
type CreateProjectParams struct {
	UserID int64
	Name   string
}

// ListProjectsParams filters project listing. A nil UserID lists every
// project (administrator view).
type ListProjectsParams struct {
	UserID *int64
	Status *string
}

// Repository defines persistence operations for projects and their lines.
type Repository interface {
	CreateProject(ctx context.Context, params CreateProjectParams) (Project, error)
	GetProjectByID(ctx context.Context, id int64) (Project, error)
	ListProjects(ctx context.Context, params ListProjectsParams) ([]Project, error)
	GetProjectLines(ctx context.Context, projectID int64) ([]Line, error)

	// AddLineQuantity adds quantity to the element's line, creating the
	// line when it does not exist yet. Atomic under concurrent adds.
	AddLineQuantity(ctx context.Context, projectID, elementID int64, quantity int) (Line, error)
	// RemoveLineQuantity subtracts quantity from the element's line and
	// deletes the line when nothing remains. Removing from a missing line
	// is a no-op.
	RemoveLineQuantity(ctx context.Context, projectID, elementID int64, quantity int) error

	// CloseProject transitions an open project to ordered and consumes
	// stock for every line in one transaction. Insufficient stock on any
	// element rolls everything back. Returns the consumed lines.
	CloseProject(ctx context.Context, projectID int64) (Project, []Line, error)
	// ConfirmProject transitions an ordered project to closed.
	ConfirmProject(ctx context.Context, projectID int64) (Project, error)
}
