// Package service provides business logic for assembly projects: ownership
// checks, the open/ordered/closed lifecycle, and pricing.
package service

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	catalogtransport "assembly_portal_backend/internal/catalog/transport"
	"assembly_portal_backend/internal/events"
	"assembly_portal_backend/internal/projects/repository"
	"assembly_portal_backend/internal/projects/transport"
	"assembly_portal_backend/platform/apperr"
	"assembly_portal_backend/platform/httpkit"
	"assembly_portal_backend/platform/logger"
)

// ElementCatalog is the catalog view the projects context depends on.
// Unknown IDs are simply absent from the result.
type ElementCatalog interface {
	ElementsByIDs(ctx context.Context, ids []int64) (map[int64]CatalogElement, error)
}

// DiscountProvider supplies the active discount percentages to apply to a
// project total, in application order.
type DiscountProvider interface {
	ActivePercents(ctx context.Context) ([]float64, error)
}

// StockDecrement is one element quantity to subtract from catalog stock.
type StockDecrement struct {
	ElementID int64
	Quantity  int
}

// StockConsumer subtracts quantities from catalog stock, all-or-nothing.
type StockConsumer interface {
	DecrementStockBatch(ctx context.Context, items []StockDecrement) error
}

// Service provides business logic for projects.
type Service struct {
	repo      repository.Repository
	catalog   ElementCatalog
	discounts DiscountProvider
	stock     StockConsumer
	bus       events.Bus
	log       *logger.Logger
}

// New creates a new projects service.
func New(repo repository.Repository, catalog ElementCatalog, discounts DiscountProvider, stock StockConsumer, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, catalog: catalog, discounts: discounts, stock: stock, bus: bus, log: log}
}

// authorizeRead loads the project and checks the caller may see it; owners
// and administrators both pass. Existence is checked before ownership so a
// non-owner probing a missing ID gets the same not found as everyone else.
func (s *Service) authorizeRead(ctx context.Context, identity httpkit.Identity, projectID int64) (repository.Project, error) {
	project, err := s.repo.GetProjectByID(ctx, projectID)
	if err != nil {
		return repository.Project{}, err
	}
	if project.UserID != identity.UserID() && !identity.IsAdministrator() {
		return repository.Project{}, apperr.Forbidden("project belongs to another user")
	}
	return project, nil
}

// authorizeOwner loads the project and checks the caller owns it. Mutations
// go through here: the admin role grants visibility, not editing rights over
// other users' projects.
func (s *Service) authorizeOwner(ctx context.Context, identity httpkit.Identity, projectID int64) (repository.Project, error) {
	project, err := s.repo.GetProjectByID(ctx, projectID)
	if err != nil {
		return repository.Project{}, err
	}
	if project.UserID != identity.UserID() {
		return repository.Project{}, apperr.Forbidden("project belongs to another user")
	}
	return project, nil
}

// CreateProject creates an open project owned by the caller.
func (s *Service) CreateProject(ctx context.Context, identity httpkit.Identity, req transport.CreateProjectRequest) (transport.ProjectResponse, error) {
	project, err := s.repo.CreateProject(ctx, repository.CreateProjectParams{
		UserID: identity.UserID(),
		Name:   strings.TrimSpace(req.Name),
	})
	if err != nil {
		return transport.ProjectResponse{}, err
	}

	s.log.Info("project created", "id", project.ID, "user_id", project.UserID)
	return toProjectResponse(project), nil
}

// ListProjects lists the caller's projects; administrators see every
// project.
func (s *Service) ListProjects(ctx context.Context, identity httpkit.Identity, req transport.ListProjectsRequest) (transport.ProjectListResponse, error) {
	params := repository.ListProjectsParams{}
	if !identity.IsAdministrator() {
		userID := identity.UserID()
		params.UserID = &userID
	}
	if req.Status != "" {
		status := req.Status
		params.Status = &status
	}

	items, err := s.repo.ListProjects(ctx, params)
	if err != nil {
		return transport.ProjectListResponse{}, err
	}

	responses := make([]transport.ProjectResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, toProjectResponse(item))
	}
	return transport.ProjectListResponse{Items: responses, Total: len(responses)}, nil
}

// GetProject retrieves one project the caller may see.
func (s *Service) GetProject(ctx context.Context, identity httpkit.Identity, projectID int64) (transport.ProjectResponse, error) {
	project, err := s.authorizeRead(ctx, identity, projectID)
	if err != nil {
		return transport.ProjectResponse{}, err
	}
	return toProjectResponse(project), nil
}

// GetProjectDetails retrieves a project with its lines and pricing. Catalog
// data and active discounts are loaded concurrently.
func (s *Service) GetProjectDetails(ctx context.Context, identity httpkit.Identity, projectID int64) (transport.ProjectDetailsResponse, error) {
	project, err := s.authorizeRead(ctx, identity, projectID)
	if err != nil {
		return transport.ProjectDetailsResponse{}, err
	}

	lines, err := s.repo.GetProjectLines(ctx, projectID)
	if err != nil {
		return transport.ProjectDetailsResponse{}, err
	}

	ids := make([]int64, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.ElementID)
	}

	var elements map[int64]CatalogElement
	var percents []float64

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		elements, err = s.catalog.ElementsByIDs(gctx, ids)
		return err
	})
	g.Go(func() error {
		var err error
		percents, err = s.discounts.ActivePercents(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return transport.ProjectDetailsResponse{}, err
	}

	summary := CalculateCostAndTime(toCalcLines(lines), elements)
	discounted := ApplyDiscounts(summary.TotalCostCents, percents)

	lineResponses := make([]transport.LineResponse, 0, len(lines))
	for _, line := range lines {
		element := elements[line.ElementID]
		lineResponses = append(lineResponses, transport.LineResponse{
			ElementID:             line.ElementID,
			Name:                  element.Name,
			Quantity:              line.Quantity,
			UnitPriceCents:        element.PriceCents,
			InstallationCostCents: element.InstallationCostCents,
			InstallationTime:      catalogtransport.FromMinutes(element.InstallationTimeMinutes),
			StockAmount:           element.StockAmount,
		})
	}

	if percents == nil {
		percents = []float64{}
	}

	return transport.ProjectDetailsResponse{
		Project: toProjectResponse(project),
		Lines:   lineResponses,
		Summary: transport.PricedSummaryResponse{
			CostSummaryResponse: toCostSummary(summary),
			DiscountedCostCents: discounted,
			DiscountPercents:    percents,
		},
	}, nil
}

// CalculateProjectCost prices a project's current lines without discounts.
// It is a plain read: stock problems are reported in the summary, nothing is
// decremented.
func (s *Service) CalculateProjectCost(ctx context.Context, identity httpkit.Identity, projectID int64) (transport.CostSummaryResponse, error) {
	if _, err := s.authorizeRead(ctx, identity, projectID); err != nil {
		return transport.CostSummaryResponse{}, err
	}

	lines, err := s.repo.GetProjectLines(ctx, projectID)
	if err != nil {
		return transport.CostSummaryResponse{}, err
	}

	ids := make([]int64, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.ElementID)
	}
	elements, err := s.catalog.ElementsByIDs(ctx, ids)
	if err != nil {
		return transport.CostSummaryResponse{}, err
	}

	return toCostSummary(CalculateCostAndTime(toCalcLines(lines), elements)), nil
}

// AddElement adds quantity of an element to an open project the caller owns.
// Re-adding an element accumulates its quantity on the existing line.
func (s *Service) AddElement(ctx context.Context, identity httpkit.Identity, projectID int64, req transport.AddElementRequest) (transport.LineResponse, error) {
	project, err := s.authorizeOwner(ctx, identity, projectID)
	if err != nil {
		return transport.LineResponse{}, err
	}
	if project.Status != repository.StatusOpen {
		return transport.LineResponse{}, apperr.Conflict("project is not open")
	}

	elements, err := s.catalog.ElementsByIDs(ctx, []int64{req.ElementID})
	if err != nil {
		return transport.LineResponse{}, err
	}
	element, ok := elements[req.ElementID]
	if !ok {
		return transport.LineResponse{}, apperr.NotFound("element not found")
	}

	line, err := s.repo.AddLineQuantity(ctx, projectID, req.ElementID, req.Quantity)
	if err != nil {
		return transport.LineResponse{}, err
	}

	s.log.Info("element added to project",
		"project_id", projectID, "element_id", req.ElementID, "quantity", line.Quantity)
	return transport.LineResponse{
		ElementID:             line.ElementID,
		Name:                  element.Name,
		Quantity:              line.Quantity,
		UnitPriceCents:        element.PriceCents,
		InstallationCostCents: element.InstallationCostCents,
		InstallationTime:      catalogtransport.FromMinutes(element.InstallationTimeMinutes),
		StockAmount:           element.StockAmount,
	}, nil
}

// RemoveElement removes quantity of an element from an open project the
// caller owns. Removing more than the line holds deletes the line; removing
// from a missing line is a no-op.
func (s *Service) RemoveElement(ctx context.Context, identity httpkit.Identity, projectID, elementID int64, quantity int) error {
	project, err := s.authorizeOwner(ctx, identity, projectID)
	if err != nil {
		return err
	}
	if project.Status != repository.StatusOpen {
		return apperr.Conflict("project is not open")
	}

	if err := s.repo.RemoveLineQuantity(ctx, projectID, elementID, quantity); err != nil {
		return err
	}

	s.log.Info("element removed from project",
		"project_id", projectID, "element_id", elementID, "quantity", quantity)
	return nil
}

// CloseProject orders an open project the caller owns: the status transition
// and all stock decrements commit in one transaction, then a ProjectOrdered
// event fans out to cache invalidation and notifications.
func (s *Service) CloseProject(ctx context.Context, identity httpkit.Identity, projectID int64) (transport.ProjectResponse, error) {
	if _, err := s.authorizeOwner(ctx, identity, projectID); err != nil {
		return transport.ProjectResponse{}, err
	}

	project, lines, err := s.repo.CloseProject(ctx, projectID)
	if err != nil {
		return transport.ProjectResponse{}, err
	}

	orderedLines := make([]events.OrderedLine, 0, len(lines))
	for _, line := range lines {
		orderedLines = append(orderedLines, events.OrderedLine{
			ElementID: line.ElementID,
			Quantity:  line.Quantity,
		})
	}
	s.bus.Publish(ctx, events.ProjectOrdered{
		BaseEvent:   events.NewBaseEvent(),
		ProjectID:   project.ID,
		UserID:      project.UserID,
		ProjectName: project.Name,
		Lines:       orderedLines,
	})

	s.log.Info("project ordered", "id", project.ID, "lines", len(lines))
	return toProjectResponse(project), nil
}

// UpdateProjectStock replays a project's lines against catalog stock as one
// all-or-nothing batch. Reconciliation entry point for administrators, for
// projects whose decrements did not land with the order.
func (s *Service) UpdateProjectStock(ctx context.Context, projectID int64) error {
	if _, err := s.repo.GetProjectByID(ctx, projectID); err != nil {
		return err
	}

	lines, err := s.repo.GetProjectLines(ctx, projectID)
	if err != nil {
		return err
	}

	items := make([]StockDecrement, 0, len(lines))
	for _, line := range lines {
		items = append(items, StockDecrement{ElementID: line.ElementID, Quantity: line.Quantity})
	}
	if err := s.stock.DecrementStockBatch(ctx, items); err != nil {
		return err
	}

	s.log.Info("project stock updated", "id", projectID, "lines", len(items))
	return nil
}

// ConfirmProject moves an ordered project to closed. Administrators only;
// the handler enforces the role, the repository enforces the transition.
func (s *Service) ConfirmProject(ctx context.Context, projectID int64) (transport.ProjectResponse, error) {
	project, err := s.repo.ConfirmProject(ctx, projectID)
	if err != nil {
		return transport.ProjectResponse{}, err
	}

	s.bus.Publish(ctx, events.ProjectConfirmed{
		BaseEvent: events.NewBaseEvent(),
		ProjectID: project.ID,
	})

	s.log.Info("project confirmed", "id", project.ID)
	return toProjectResponse(project), nil
}

func toCalcLines(lines []repository.Line) []CalcLine {
	calcLines := make([]CalcLine, 0, len(lines))
	for _, line := range lines {
		calcLines = append(calcLines, CalcLine{ElementID: line.ElementID, Quantity: line.Quantity})
	}
	return calcLines
}

func toCostSummary(summary CostAndTime) transport.CostSummaryResponse {
	outOfStock := make([]transport.OutOfStockLine, 0, len(summary.OutOfStock))
	for _, line := range summary.OutOfStock {
		outOfStock = append(outOfStock, transport.OutOfStockLine{
			ElementID: line.ElementID,
			Available: line.Available,
		})
	}
	return transport.CostSummaryResponse{
		PurchaseCostCents:     summary.PurchaseCostCents,
		InstallationCostCents: summary.InstallationCostCents,
		TotalCostCents:        summary.TotalCostCents,
		TotalTime:             catalogtransport.FromMinutes(summary.TotalTimeMinutes),
		OutOfStock:            outOfStock,
	}
}

func toProjectResponse(p repository.Project) transport.ProjectResponse {
	return transport.ProjectResponse{
		ID:        p.ID,
		UserID:    p.UserID,
		Name:      p.Name,
		Status:    p.Status,
		StartDate: p.StartDate,
		EndDate:   p.EndDate,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
