package service

import (
	"context"
	"testing"

	"assembly_portal_backend/internal/events"
	"assembly_portal_backend/internal/projects/repository"
	"assembly_portal_backend/internal/projects/transport"
	"assembly_portal_backend/platform/apperr"
	"assembly_portal_backend/platform/httpkit"
	"assembly_portal_backend/platform/logger"
)

type lineKey struct {
	projectID int64
	elementID int64
}

type fakeProjectsRepo struct {
	projects   map[int64]repository.Project
	lines      map[lineKey]int
	nextID     int64
	listParams repository.ListProjectsParams
}

func newFakeProjectsRepo() *fakeProjectsRepo {
	return &fakeProjectsRepo{
		projects: make(map[int64]repository.Project),
		lines:    make(map[lineKey]int),
		nextID:   1,
	}
}

func (f *fakeProjectsRepo) addProject(userID int64, status string) repository.Project {
	project := repository.Project{
		ID:     f.nextID,
		UserID: userID,
		Name:   "wardrobe",
		Status: status,
	}
	f.projects[project.ID] = project
	f.nextID++
	return project
}

func (f *fakeProjectsRepo) CreateProject(_ context.Context, params repository.CreateProjectParams) (repository.Project, error) {
	project := repository.Project{
		ID:     f.nextID,
		UserID: params.UserID,
		Name:   params.Name,
		Status: repository.StatusOpen,
	}
	f.projects[project.ID] = project
	f.nextID++
	return project, nil
}

func (f *fakeProjectsRepo) GetProjectByID(_ context.Context, id int64) (repository.Project, error) {
	project, ok := f.projects[id]
	if !ok {
		return repository.Project{}, apperr.NotFound("project not found")
	}
	return project, nil
}

func (f *fakeProjectsRepo) ListProjects(_ context.Context, params repository.ListProjectsParams) ([]repository.Project, error) {
	f.listParams = params
	items := make([]repository.Project, 0)
	for _, project := range f.projects {
		if params.UserID != nil && project.UserID != *params.UserID {
			continue
		}
		items = append(items, project)
	}
	return items, nil
}

func (f *fakeProjectsRepo) GetProjectLines(_ context.Context, projectID int64) ([]repository.Line, error) {
	items := make([]repository.Line, 0)
	for key, quantity := range f.lines {
		if key.projectID == projectID {
			items = append(items, repository.Line{ProjectID: projectID, ElementID: key.elementID, Quantity: quantity})
		}
	}
	return items, nil
}

func (f *fakeProjectsRepo) AddLineQuantity(_ context.Context, projectID, elementID int64, quantity int) (repository.Line, error) {
	key := lineKey{projectID, elementID}
	f.lines[key] += quantity
	return repository.Line{ProjectID: projectID, ElementID: elementID, Quantity: f.lines[key]}, nil
}

func (f *fakeProjectsRepo) RemoveLineQuantity(_ context.Context, projectID, elementID int64, quantity int) error {
	key := lineKey{projectID, elementID}
	current, ok := f.lines[key]
	if !ok {
		return nil
	}
	if current <= quantity {
		delete(f.lines, key)
		return nil
	}
	f.lines[key] = current - quantity
	return nil
}

func (f *fakeProjectsRepo) CloseProject(ctx context.Context, projectID int64) (repository.Project, []repository.Line, error) {
	project, ok := f.projects[projectID]
	if !ok {
		return repository.Project{}, nil, apperr.NotFound("project not found")
	}
	if project.Status != repository.StatusOpen {
		return repository.Project{}, nil, apperr.Conflict("project is " + project.Status + ", must be open")
	}
	project.Status = repository.StatusOrdered
	f.projects[projectID] = project
	lines, _ := f.GetProjectLines(ctx, projectID)
	return project, lines, nil
}

func (f *fakeProjectsRepo) ConfirmProject(_ context.Context, projectID int64) (repository.Project, error) {
	project, ok := f.projects[projectID]
	if !ok {
		return repository.Project{}, apperr.NotFound("project not found")
	}
	if project.Status != repository.StatusOrdered {
		return repository.Project{}, apperr.Conflict("project is " + project.Status + ", must be ordered")
	}
	project.Status = repository.StatusClosed
	f.projects[projectID] = project
	return project, nil
}

var _ repository.Repository = (*fakeProjectsRepo)(nil)

type fakeCatalog struct {
	elements map[int64]CatalogElement
}

func (f *fakeCatalog) ElementsByIDs(_ context.Context, ids []int64) (map[int64]CatalogElement, error) {
	found := make(map[int64]CatalogElement)
	for _, id := range ids {
		if element, ok := f.elements[id]; ok {
			found[id] = element
		}
	}
	return found, nil
}

type fakeDiscounts struct {
	percents []float64
}

func (f *fakeDiscounts) ActivePercents(_ context.Context) ([]float64, error) {
	return f.percents, nil
}

type fakeStock struct {
	batches [][]StockDecrement
	err     error
}

func (f *fakeStock) DecrementStockBatch(_ context.Context, items []StockDecrement) error {
	if f.err != nil {
		return f.err
	}
	f.batches = append(f.batches, items)
	return nil
}

type fakeBus struct {
	published []events.Event
}

func (f *fakeBus) Publish(_ context.Context, event events.Event) {
	f.published = append(f.published, event)
}

func (f *fakeBus) PublishSync(_ context.Context, event events.Event) error {
	f.published = append(f.published, event)
	return nil
}

func (f *fakeBus) Subscribe(string, events.Handler) {}

func newTestService(repo *fakeProjectsRepo, bus *fakeBus, percents []float64) *Service {
	return newTestServiceWithStock(repo, bus, percents, &fakeStock{})
}

func newTestServiceWithStock(repo *fakeProjectsRepo, bus *fakeBus, percents []float64, stock *fakeStock) *Service {
	catalog := &fakeCatalog{elements: testElements()}
	return New(repo, catalog, &fakeDiscounts{percents: percents}, stock, bus, logger.New("test"))
}

func owner(userID int64) httpkit.Identity {
	return httpkit.NewIdentity(userID, "standard")
}

func admin() httpkit.Identity {
	return httpkit.NewIdentity(999, httpkit.RoleAdministrator)
}

func TestGetProjectForbiddenForNonOwner(t *testing.T) {
	repo := newFakeProjectsRepo()
	project := repo.addProject(1, repository.StatusOpen)
	svc := newTestService(repo, &fakeBus{}, nil)

	if _, err := svc.GetProject(context.Background(), owner(2), project.ID); !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("err = %v, want forbidden", err)
	}
	if _, err := svc.GetProject(context.Background(), owner(1), project.ID); err != nil {
		t.Fatalf("owner get: %v", err)
	}
	if _, err := svc.GetProject(context.Background(), admin(), project.ID); err != nil {
		t.Fatalf("admin get: %v", err)
	}
}

func TestGetProjectMissingIsNotFoundEvenForNonOwner(t *testing.T) {
	repo := newFakeProjectsRepo()
	svc := newTestService(repo, &fakeBus{}, nil)

	if _, err := svc.GetProject(context.Background(), owner(2), 42); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestListProjectsScopedByRole(t *testing.T) {
	repo := newFakeProjectsRepo()
	repo.addProject(1, repository.StatusOpen)
	repo.addProject(2, repository.StatusOpen)
	svc := newTestService(repo, &fakeBus{}, nil)

	mine, err := svc.ListProjects(context.Background(), owner(1), transport.ListProjectsRequest{})
	if err != nil {
		t.Fatalf("list as owner: %v", err)
	}
	if mine.Total != 1 {
		t.Fatalf("owner sees %d projects, want 1", mine.Total)
	}
	if repo.listParams.UserID == nil || *repo.listParams.UserID != 1 {
		t.Fatalf("owner listing not scoped to user: %+v", repo.listParams)
	}

	all, err := svc.ListProjects(context.Background(), admin(), transport.ListProjectsRequest{})
	if err != nil {
		t.Fatalf("list as admin: %v", err)
	}
	if all.Total != 2 {
		t.Fatalf("admin sees %d projects, want 2", all.Total)
	}
	if repo.listParams.UserID != nil {
		t.Fatalf("admin listing unexpectedly scoped: %+v", repo.listParams)
	}
}

func TestAddElementAccumulatesQuantity(t *testing.T) {
	repo := newFakeProjectsRepo()
	project := repo.addProject(1, repository.StatusOpen)
	svc := newTestService(repo, &fakeBus{}, nil)

	first, err := svc.AddElement(context.Background(), owner(1), project.ID, transport.AddElementRequest{ElementID: 1, Quantity: 3})
	if err != nil {
		t.Fatalf("first add: %v", err)
	}
	if first.Quantity != 3 {
		t.Fatalf("quantity = %d, want 3", first.Quantity)
	}

	second, err := svc.AddElement(context.Background(), owner(1), project.ID, transport.AddElementRequest{ElementID: 1, Quantity: 2})
	if err != nil {
		t.Fatalf("second add: %v", err)
	}
	if second.Quantity != 5 {
		t.Fatalf("quantity = %d, want accumulated 5", second.Quantity)
	}
}

func TestAddElementRejectedWhenNotOpen(t *testing.T) {
	repo := newFakeProjectsRepo()
	project := repo.addProject(1, repository.StatusOrdered)
	svc := newTestService(repo, &fakeBus{}, nil)

	_, err := svc.AddElement(context.Background(), owner(1), project.ID, transport.AddElementRequest{ElementID: 1, Quantity: 1})
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("err = %v, want conflict", err)
	}
}

func TestAddElementUnknownElement(t *testing.T) {
	repo := newFakeProjectsRepo()
	project := repo.addProject(1, repository.StatusOpen)
	svc := newTestService(repo, &fakeBus{}, nil)

	_, err := svc.AddElement(context.Background(), owner(1), project.ID, transport.AddElementRequest{ElementID: 404, Quantity: 1})
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestRemoveElementDeletesDepletedLine(t *testing.T) {
	repo := newFakeProjectsRepo()
	project := repo.addProject(1, repository.StatusOpen)
	repo.lines[lineKey{project.ID, 1}] = 2
	svc := newTestService(repo, &fakeBus{}, nil)

	if err := svc.RemoveElement(context.Background(), owner(1), project.ID, 1, 3); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, ok := repo.lines[lineKey{project.ID, 1}]; ok {
		t.Fatal("line still present after removing more than it held")
	}
}

func TestRemoveElementMissingLineIsNoOp(t *testing.T) {
	repo := newFakeProjectsRepo()
	project := repo.addProject(1, repository.StatusOpen)
	svc := newTestService(repo, &fakeBus{}, nil)

	if err := svc.RemoveElement(context.Background(), owner(1), project.ID, 7, 1); err != nil {
		t.Fatalf("remove missing line: %v", err)
	}
}

func TestCloseProjectPublishesOrderedEvent(t *testing.T) {
	repo := newFakeProjectsRepo()
	project := repo.addProject(1, repository.StatusOpen)
	repo.lines[lineKey{project.ID, 1}] = 4
	bus := &fakeBus{}
	svc := newTestService(repo, bus, nil)

	closed, err := svc.CloseProject(context.Background(), owner(1), project.ID)
	if err != nil {
		t.Fatalf("close: %v", err)
	}
	if closed.Status != repository.StatusOrdered {
		t.Fatalf("status = %q, want %q", closed.Status, repository.StatusOrdered)
	}

	if len(bus.published) != 1 {
		t.Fatalf("published %d events, want 1", len(bus.published))
	}
	ordered, ok := bus.published[0].(events.ProjectOrdered)
	if !ok {
		t.Fatalf("published %T, want ProjectOrdered", bus.published[0])
	}
	if ordered.ProjectID != project.ID || len(ordered.Lines) != 1 || ordered.Lines[0].Quantity != 4 {
		t.Fatalf("unexpected event payload: %+v", ordered)
	}
}

func TestCloseProjectTwiceConflicts(t *testing.T) {
	repo := newFakeProjectsRepo()
	project := repo.addProject(1, repository.StatusOpen)
	svc := newTestService(repo, &fakeBus{}, nil)

	if _, err := svc.CloseProject(context.Background(), owner(1), project.ID); err != nil {
		t.Fatalf("first close: %v", err)
	}
	if _, err := svc.CloseProject(context.Background(), owner(1), project.ID); !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("err = %v, want conflict on second close", err)
	}
}

func TestCloseProjectForbiddenForNonOwner(t *testing.T) {
	repo := newFakeProjectsRepo()
	project := repo.addProject(1, repository.StatusOpen)
	bus := &fakeBus{}
	svc := newTestService(repo, bus, nil)

	if _, err := svc.CloseProject(context.Background(), owner(2), project.ID); !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("err = %v, want forbidden", err)
	}
	if len(bus.published) != 0 {
		t.Fatalf("published %d events on rejected close", len(bus.published))
	}
}

func TestMutationsForbiddenForAdministrator(t *testing.T) {
	repo := newFakeProjectsRepo()
	project := repo.addProject(1, repository.StatusOpen)
	bus := &fakeBus{}
	svc := newTestService(repo, bus, nil)

	if _, err := svc.AddElement(context.Background(), admin(), project.ID, transport.AddElementRequest{ElementID: 1, Quantity: 1}); !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("add as admin: err = %v, want forbidden", err)
	}
	if err := svc.RemoveElement(context.Background(), admin(), project.ID, 1, 1); !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("remove as admin: err = %v, want forbidden", err)
	}
	if _, err := svc.CloseProject(context.Background(), admin(), project.ID); !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("close as admin: err = %v, want forbidden", err)
	}
	if got := repo.projects[project.ID].Status; got != repository.StatusOpen {
		t.Fatalf("status = %q after rejected mutations, want open", got)
	}
}

func TestConfirmProject(t *testing.T) {
	repo := newFakeProjectsRepo()
	project := repo.addProject(1, repository.StatusOrdered)
	bus := &fakeBus{}
	svc := newTestService(repo, bus, nil)

	confirmed, err := svc.ConfirmProject(context.Background(), project.ID)
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if confirmed.Status != repository.StatusClosed {
		t.Fatalf("status = %q, want %q", confirmed.Status, repository.StatusClosed)
	}

	open := repo.addProject(1, repository.StatusOpen)
	if _, err := svc.ConfirmProject(context.Background(), open.ID); !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("err = %v, want conflict confirming open project", err)
	}
}

func TestGetProjectDetailsPricesLines(t *testing.T) {
	repo := newFakeProjectsRepo()
	project := repo.addProject(1, repository.StatusOpen)
	repo.lines[lineKey{project.ID, 1}] = 4
	repo.lines[lineKey{project.ID, 2}] = 2
	repo.lines[lineKey{project.ID, 3}] = 1
	svc := newTestService(repo, &fakeBus{}, []float64{10, 10})

	details, err := svc.GetProjectDetails(context.Background(), owner(1), project.ID)
	if err != nil {
		t.Fatalf("details: %v", err)
	}

	if details.Summary.PurchaseCostCents != 18000 {
		t.Errorf("purchase cost = %d, want 18000", details.Summary.PurchaseCostCents)
	}
	if details.Summary.InstallationCostCents != 2400 {
		t.Errorf("installation cost = %d, want 2400", details.Summary.InstallationCostCents)
	}
	if details.Summary.TotalCostCents != 20400 {
		t.Errorf("total cost = %d, want 20400", details.Summary.TotalCostCents)
	}
	if details.Summary.DiscountedCostCents != 16524 {
		t.Errorf("discounted cost = %d, want 16524", details.Summary.DiscountedCostCents)
	}
	if details.Summary.TotalTime.Hours != 4 || details.Summary.TotalTime.Minutes != 30 {
		t.Errorf("total time = %+v, want 4h30m", details.Summary.TotalTime)
	}
	if len(details.Lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(details.Lines))
	}
	for _, line := range details.Lines {
		if line.Name == "" {
			t.Errorf("line %d missing catalog name", line.ElementID)
		}
	}
}

func TestGetProjectDetailsReportsOutOfStock(t *testing.T) {
	repo := newFakeProjectsRepo()
	project := repo.addProject(1, repository.StatusOpen)
	repo.lines[lineKey{project.ID, 2}] = 51
	svc := newTestService(repo, &fakeBus{}, nil)

	details, err := svc.GetProjectDetails(context.Background(), owner(1), project.ID)
	if err != nil {
		t.Fatalf("details: %v", err)
	}

	if len(details.Summary.OutOfStock) != 1 {
		t.Fatalf("out of stock = %v, want one entry", details.Summary.OutOfStock)
	}
	entry := details.Summary.OutOfStock[0]
	if entry.ElementID != 2 || entry.Available != 50 {
		t.Fatalf("out of stock entry = %+v, want element 2 with 50 available", entry)
	}
}

func TestCalculateProjectCostSkipsDiscounts(t *testing.T) {
	repo := newFakeProjectsRepo()
	project := repo.addProject(1, repository.StatusOpen)
	repo.lines[lineKey{project.ID, 1}] = 4
	repo.lines[lineKey{project.ID, 2}] = 2
	repo.lines[lineKey{project.ID, 3}] = 1
	svc := newTestService(repo, &fakeBus{}, []float64{10, 10})

	summary, err := svc.CalculateProjectCost(context.Background(), owner(1), project.ID)
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}

	if summary.TotalCostCents != 20400 {
		t.Errorf("total cost = %d, want 20400", summary.TotalCostCents)
	}
	if summary.TotalTime.Hours != 4 || summary.TotalTime.Minutes != 30 {
		t.Errorf("total time = %+v, want 4h30m", summary.TotalTime)
	}
	if len(summary.OutOfStock) != 0 {
		t.Errorf("out of stock = %v, want empty", summary.OutOfStock)
	}
}

func TestUpdateProjectStockForwardsLines(t *testing.T) {
	repo := newFakeProjectsRepo()
	project := repo.addProject(1, repository.StatusOrdered)
	repo.lines[lineKey{project.ID, 1}] = 4
	stock := &fakeStock{}
	svc := newTestServiceWithStock(repo, &fakeBus{}, nil, stock)

	if err := svc.UpdateProjectStock(context.Background(), project.ID); err != nil {
		t.Fatalf("update stock: %v", err)
	}

	if len(stock.batches) != 1 {
		t.Fatalf("got %d batches, want 1", len(stock.batches))
	}
	batch := stock.batches[0]
	if len(batch) != 1 || batch[0].ElementID != 1 || batch[0].Quantity != 4 {
		t.Fatalf("unexpected batch: %+v", batch)
	}
}

func TestUpdateProjectStockMissingProject(t *testing.T) {
	repo := newFakeProjectsRepo()
	stock := &fakeStock{}
	svc := newTestServiceWithStock(repo, &fakeBus{}, nil, stock)

	if err := svc.UpdateProjectStock(context.Background(), 42); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
	if len(stock.batches) != 0 {
		t.Fatalf("decremented stock for missing project: %+v", stock.batches)
	}
}

func TestUpdateProjectStockPropagatesShortfall(t *testing.T) {
	repo := newFakeProjectsRepo()
	project := repo.addProject(1, repository.StatusOrdered)
	repo.lines[lineKey{project.ID, 2}] = 60
	stock := &fakeStock{err: apperr.Conflict("insufficient stock for element 2")}
	svc := newTestServiceWithStock(repo, &fakeBus{}, nil, stock)

	if err := svc.UpdateProjectStock(context.Background(), project.ID); !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("err = %v, want conflict", err)
	}
}
