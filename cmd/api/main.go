// Copyright (c) 2026 BookVault. All rights reserved.

// Command api is the entry point for the BookVault HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Wire domain services and HTTP handlers.
//  7. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bookvault/api/internal/api"
	"github.com/bookvault/api/internal/audit"
	"github.com/bookvault/api/internal/auth"
	"github.com/bookvault/api/internal/content"
	"github.com/bookvault/api/internal/core/author"
	"github.com/bookvault/api/internal/core/book"
	"github.com/bookvault/api/internal/core/copy"
	"github.com/bookvault/api/internal/metadata"
	"github.com/bookvault/api/internal/platform/config"
	"github.com/bookvault/api/internal/platform/constants"
	"github.com/bookvault/api/internal/platform/migration"
	pgstore "github.com/bookvault/api/internal/platform/postgres"
	redisstore "github.com/bookvault/api/internal/platform/redis"
	"github.com/bookvault/api/internal/platform/sec"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", constants.AppName))
	slog.SetDefault(log)

	log.Info("service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", constants.AppName))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	if cfg.IsProduction() && cfg.DevAuthEmail != "" {
		log.Warn("dev_auth_email_set_in_production")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// Application-lifetime context; cancels background middleware routines
	// on shutdown.
	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Domain Wiring ──────────────────────────────────────────────────
	resolver := sec.NewHeaderResolver(cfg.DevAuthEmail)
	recorder := audit.NewRecorder()
	pipeline := content.NewPipeline()

	metadataClient := metadata.NewClient(cfg.GoogleBooksBaseURL, cfg.GoogleBooksAPIKey, log)
	metadataCache := metadata.NewRedisCache(rdb, cfg.MetadataCacheTTL, log)

	userRepository := auth.NewPostgresUserRepository(pool)
	authService := auth.NewService(userRepository, log)
	authHandler := auth.NewHandler(authService)

	authorRepository := author.NewPostgresRepository()
	bookRepository := book.NewPostgresRepository(pool)
	bookService := book.NewService(bookRepository, authorRepository, recorder, metadataClient, metadataCache, pipeline, log)
	bookHandler := book.NewHandler(bookService)

	copyRepository := copy.NewPostgresRepository(pool)
	copyService := copy.NewService(copyRepository, recorder, log)
	copyHandler := copy.NewHandler(copyService)

	auditHandler := audit.NewHandler(recorder, pool)

	// ── 7. HTTP Server ────────────────────────────────────────────────────
	server := api.New(appCtx, api.Deps{
		Config:   cfg,
		Logger:   log,
		Pool:     pool,
		Redis:    rdb,
		Resolver: resolver,
		Gate:     authService,
		Auth:     authHandler,
		Books:    bookHandler,
		Copies:   copyHandler,
		Audit:    auditHandler,
	})

	// ── 8. Graceful Shutdown ──────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	log.Info("shutting down server", slog.Duration("timeout", constants.ShutdownTimeout))

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
