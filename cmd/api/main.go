package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"assembly_portal_backend/internal/adapters"
	"assembly_portal_backend/internal/auth"
	"assembly_portal_backend/internal/catalog"
	"assembly_portal_backend/internal/events"
	apphttp "assembly_portal_backend/internal/http"
	"assembly_portal_backend/internal/http/router"
	"assembly_portal_backend/internal/notification"
	"assembly_portal_backend/internal/projects"
	"assembly_portal_backend/internal/promotions"
	"assembly_portal_backend/internal/scheduler"
	"assembly_portal_backend/platform/config"
	"assembly_portal_backend/platform/db"
	"assembly_portal_backend/platform/logger"
	"assembly_portal_backend/platform/validator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, "migrations")
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	rdb := initRedis(cfg, log)
	if rdb != nil {
		defer rdb.Close()
	}

	taskClient, closeTasks := initTaskClient(cfg, log)
	if closeTasks != nil {
		defer closeTasks()
	}

	// Shared validator instance for dependency injection
	val := validator.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	// Notification module subscribes to domain events (not HTTP-facing)
	notificationModule := notification.NewModule(taskClient, log)
	notificationModule.RegisterHandlers(eventBus)

	authModule := auth.NewModule(pool, cfg, eventBus, val, log)
	catalogModule := catalog.NewModule(pool, rdb, cfg.GetCatalogCacheTTL(), val, log)
	catalogModule.RegisterHandlers(eventBus)
	promotionsModule := promotions.NewModule(pool, val, log)

	// Anti-corruption adapters give projects its catalog, discount, and
	// stock views
	elementProvider := adapters.NewCatalogElementProvider(catalogModule.Repository())
	discountProvider := adapters.NewPromotionDiscountProvider(promotionsModule.Service())
	stockConsumer := adapters.NewCatalogStockConsumer(catalogModule.Service())
	projectsModule := projects.NewModule(pool, elementProvider, discountProvider, stockConsumer, eventBus, val, log)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Modules: []apphttp.Module{
			authModule,
			catalogModule,
			promotionsModule,
			projectsModule,
		},
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func initRedis(cfg config.RedisConfig, log *logger.Logger) *redis.Client {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; catalog cache disabled")
		return nil
	}

	opt, err := redis.ParseURL(cfg.GetRedisURL())
	if err != nil {
		log.Error("failed to parse redis url", "error", err)
		return nil
	}
	return redis.NewClient(opt)
}

func initTaskClient(cfg config.RedisConfig, log *logger.Logger) (*scheduler.Client, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; background email tasks disabled")
		return nil, nil
	}

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize task client", "error", err)
		return nil, nil
	}
	return client, func() {
		_ = client.Close()
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
