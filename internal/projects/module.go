// Package projects provides the assembly projects bounded context module.
package projects

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"assembly_portal_backend/internal/events"
	apphttp "assembly_portal_backend/internal/http"
	"assembly_portal_backend/internal/projects/handler"
	"assembly_portal_backend/internal/projects/repository"
	"assembly_portal_backend/internal/projects/service"
	"assembly_portal_backend/platform/logger"
	"assembly_portal_backend/platform/validator"
)

// Module is the projects bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the projects module. The catalog,
// discount, and stock ports are anti-corruption adapters over the other
// contexts.
func NewModule(pool *pgxpool.Pool, catalog service.ElementCatalog, discounts service.DiscountProvider, stock service.StockConsumer, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, catalog, discounts, stock, bus, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "projects"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts project routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/projects")
	group.GET("", m.handler.ListProjects)
	group.POST("", m.handler.CreateProject)
	group.GET("/:id", m.handler.GetProject)
	group.GET("/:id/details", m.handler.GetProjectDetails)
	group.GET("/:id/cost", m.handler.CalculateProjectCost)
	group.POST("/:id/elements", m.handler.AddElement)
	group.DELETE("/:id/elements/:elementId", m.handler.RemoveElement)
	group.POST("/:id/close", m.handler.CloseProject)

	ctx.Admin.POST("/projects/:id/confirm", m.handler.ConfirmProject)
	ctx.Admin.POST("/projects/:id/stock", m.handler.UpdateProjectStock)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
