// Package auth provides the authentication bounded context module.
package auth

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"assembly_portal_backend/internal/auth/handler"
	"assembly_portal_backend/internal/auth/repository"
	"assembly_portal_backend/internal/auth/service"
	"assembly_portal_backend/internal/events"
	apphttp "assembly_portal_backend/internal/http"
	"assembly_portal_backend/platform/config"
	"assembly_portal_backend/platform/logger"
	"assembly_portal_backend/platform/validator"
)

// Module is the auth bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the auth module.
func NewModule(pool *pgxpool.Pool, cfg config.AuthServiceConfig, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, cfg, bus, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "auth"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts auth routes. Credential endpoints carry the stricter
// auth rate limiter on top of the global one.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.V1.Group("/auth")
	group.Use(ctx.AuthRateLimiter.RateLimit())
	group.POST("/register", m.handler.Register)
	group.POST("/login", m.handler.Login)
	group.POST("/refresh", m.handler.Refresh)
	group.POST("/logout", m.handler.Logout)

	ctx.Protected.GET("/auth/me", m.handler.Me)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
