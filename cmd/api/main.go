// Package main is the entry point for the inmogo API server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/inmogo/inmogo/internal/auth"
	"github.com/inmogo/inmogo/internal/cache"
	"github.com/inmogo/inmogo/internal/config"
	"github.com/inmogo/inmogo/internal/database"
	"github.com/inmogo/inmogo/internal/handlers"
	"github.com/inmogo/inmogo/internal/notify"
	"github.com/inmogo/inmogo/internal/ratelimit"
	"github.com/inmogo/inmogo/internal/repository"
	"github.com/inmogo/inmogo/internal/server"
	"github.com/inmogo/inmogo/internal/services"
	"github.com/inmogo/inmogo/internal/storage"
	"github.com/inmogo/inmogo/internal/validation"
	"github.com/inmogo/inmogo/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.New(os.Stdout, cfg.App.LogLevel)
	log.Info("starting inmogo API", "env", cfg.App.Env)

	ctx := context.Background()

	if !cfg.DatabaseEnabled() {
		return fmt.Errorf("database configuration required: set DB_HOST and DB_PASSWORD")
	}
	pool, err := database.NewPool(ctx, &cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	// Repositories.
	leadRepo := repository.NewPostgresLeadRepository(pool)
	propertyRepo := repository.NewPostgresPropertyRepository(pool)
	invoiceRepo := repository.NewPostgresInvoiceRepository(pool)
	activityRepo := repository.NewPostgresActivityRepository(pool)
	clientRepo := repository.NewPostgresClientRepository(pool)

	// Rate limiter: shared store when Redis is configured, in-process
	// otherwise.
	var limiter ratelimit.Limiter
	var redisClient *cache.RedisClient
	rateCfg := ratelimit.Config{Requests: cfg.Rate.Requests, Window: cfg.Rate.Window}
	if cfg.RedisEnabled() {
		redisClient, err = cache.NewRedisClient(ctx, &cfg.Redis)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer redisClient.Close()
		limiter = ratelimit.NewRedisLimiter(redisClient.Client(), rateCfg)
		log.Info("rate limiting via redis", "requests", cfg.Rate.Requests, "window", cfg.Rate.Window.String())
	} else {
		limiter = ratelimit.NewMemoryLimiter(rateCfg)
		log.Info("rate limiting in memory", "requests", cfg.Rate.Requests, "window", cfg.Rate.Window.String())
	}

	// Notifications.
	var mailer notify.Mailer
	if cfg.MailEnabled() {
		mailer = notify.NewHTTPMailer(cfg.Mail.Endpoint, cfg.Mail.APIKey, cfg.Mail.SendTimeout)
	} else {
		mailer = notify.NewLogMailer(log)
		log.Warn("no mail provider configured, logging outbound mail")
	}
	dispatcher, err := notify.NewDispatcher(mailer, notify.Config{
		From:        cfg.Mail.From,
		StaffTo:     cfg.Mail.StaffTo,
		SendTimeout: cfg.Mail.SendTimeout,
	}, log)
	if err != nil {
		return fmt.Errorf("failed to build notification dispatcher: %w", err)
	}

	// Identity.
	verifier, err := auth.NewJWTVerifier(cfg.Auth.JWTSecret, cfg.Auth.Issuer)
	if err != nil {
		return fmt.Errorf("failed to build verifier: %w", err)
	}

	store := storage.NewMemoryStore(cfg.Storage.BaseURL)

	// Services.
	leadSvc := services.NewLeadService(leadRepo, dispatcher, log)
	propertySvc := services.NewPropertyService(propertyRepo, activityRepo, store, dispatcher, cfg.Auth.AdminRole, log)
	invoiceSvc := services.NewInvoiceService(invoiceRepo, clientRepo, activityRepo, dispatcher, cfg.Auth.AdminRole, log)

	// Handlers.
	validator := validation.New()
	healthHandler := handlers.NewHealthHandler()
	healthHandler.RegisterCheck("database", func() bool {
		return pool.HealthCheck(ctx) == nil
	})
	if redisClient != nil {
		healthHandler.RegisterCheck("redis", func() bool {
			return redisClient.Ping(ctx) == nil
		})
	}

	srv := server.New(cfg, log, server.Handlers{
		Health:   healthHandler,
		Lead:     handlers.NewLeadHandler(leadSvc, validator, verifier, cfg.Auth.AdminRole),
		Property: handlers.NewPropertyHandler(propertySvc, validator, verifier),
		Invoice:  handlers.NewInvoiceHandler(invoiceSvc, validator, verifier),
		Auth:     handlers.NewAuthHandler(verifier),
	}, limiter)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Info("received signal", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	return nil
}
