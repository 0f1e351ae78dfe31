// Package promotions provides the promotional discounts bounded context module.
package promotions

import (
	"github.com/jackc/pgx/v5/pgxpool"

	apphttp "assembly_portal_backend/internal/http"
	"assembly_portal_backend/internal/promotions/handler"
	"assembly_portal_backend/internal/promotions/repository"
	"assembly_portal_backend/internal/promotions/service"
	"assembly_portal_backend/platform/logger"
	"assembly_portal_backend/platform/validator"
)

// Module is the promotions bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the promotions module.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "promotions"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts promotion routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.GET("/promotions/active", m.handler.ListActivePromotions)

	adminGroup := ctx.Admin.Group("/promotions")
	adminGroup.GET("", m.handler.ListPromotions)
	adminGroup.POST("", m.handler.CreatePromotion)
	adminGroup.DELETE("/:id", m.handler.DeletePromotion)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
