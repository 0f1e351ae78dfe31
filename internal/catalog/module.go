// Package catalog provides the element catalog bounded context module.
package catalog

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"assembly_portal_backend/internal/catalog/handler"
	"assembly_portal_backend/internal/catalog/repository"
	"assembly_portal_backend/internal/catalog/service"
	"assembly_portal_backend/internal/events"
	apphttp "assembly_portal_backend/internal/http"
	"assembly_portal_backend/platform/logger"
	"assembly_portal_backend/platform/validator"
)

// Module is the catalog bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the catalog module. The redis client is
// optional; without it element reads skip caching.
func NewModule(pool *pgxpool.Pool, rdb *redis.Client, cacheTTL time.Duration, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)

	var cache *service.ElementCache
	if rdb != nil {
		cache = service.NewElementCache(rdb, cacheTTL, log)
	}

	svc := service.New(repo, cache, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "catalog"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the repository for direct access if needed.
func (m *Module) Repository() repository.Repository {
	return m.repo
}

// RegisterRoutes mounts catalog routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// Public read-only endpoints
	ctx.V1.GET("/catalog/elements", m.handler.ListElements)
	ctx.V1.GET("/catalog/elements/:id", m.handler.GetElementByID)

	// Admin CRUD endpoints
	adminGroup := ctx.Admin.Group("/catalog")
	adminGroup.POST("/elements", m.handler.CreateElement)
	adminGroup.PUT("/elements/:id", m.handler.UpdateElement)
	adminGroup.DELETE("/elements/:id", m.handler.DeleteElement)
}

// RegisterHandlers subscribes to domain events for cache invalidation.
func (m *Module) RegisterHandlers(bus *events.InMemoryBus) {
	bus.Subscribe(events.ProjectOrdered{}.EventName(), m)
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.ProjectOrdered:
		ids := make([]int64, 0, len(e.Lines))
		for _, line := range e.Lines {
			ids = append(ids, line.ElementID)
		}
		m.service.InvalidateElements(ctx, ids...)
		return nil
	default:
		return nil
	}
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
