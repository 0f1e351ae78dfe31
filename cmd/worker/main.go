package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"assembly_portal_backend/internal/email"
	"assembly_portal_backend/internal/scheduler"
	"assembly_portal_backend/platform/config"
	"assembly_portal_backend/platform/db"
	"assembly_portal_backend/platform/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting worker", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	var sender email.Sender = email.NoopSender{}
	if cfg.IsEmailEnabled() {
		sender = email.NewSMTPSender(cfg)
		log.Info("smtp sender initialized", "host", cfg.GetSMTPHost())
	} else {
		log.Warn("SMTP_HOST not configured; emails will be dropped")
	}

	worker, err := scheduler.NewWorker(cfg, pool, sender, log)
	if err != nil {
		log.Error("failed to initialize worker", "error", err)
		panic("failed to initialize worker: " + err.Error())
	}

	worker.Run(ctx)
	log.Info("worker stopped")
}
