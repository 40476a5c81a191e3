// Copyright (c) 2026 BookVault. All rights reserved.

/*
Package api composes the HTTP surface of the BookVault server.

It wires the middleware chain, the public health probes, and the versioned
API groups:

  - /api/v1/me          — resolved identity required, account provisioned lazily
  - /api/v1/books       — registered account required
  - /api/v1/admin/...   — admin role required

Route groups apply the access-gate middleware; individual handlers never
check roles themselves.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	"github.com/bookvault/api/internal/audit"
	"github.com/bookvault/api/internal/auth"
	"github.com/bookvault/api/internal/core/book"
	"github.com/bookvault/api/internal/core/copy"
	"github.com/bookvault/api/internal/platform/config"
	"github.com/bookvault/api/internal/platform/constants"
	"github.com/bookvault/api/internal/platform/middleware"
	"github.com/bookvault/api/internal/platform/sec"
)

// Deps bundles everything the server needs.
type Deps struct {
	Config   *config.Config
	Logger   *slog.Logger
	Pool     *pgxpool.Pool
	Redis    *goredis.Client
	Resolver sec.IdentityResolver
	Gate     middleware.Gate

	Auth   *auth.Handler
	Books  *book.Handler
	Copies *copy.Handler
	Audit  *audit.Handler
}

// Server is the BookVault HTTP server.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// New builds the router and returns a ready-to-run server.
func New(ctx context.Context, deps Deps) *Server {
	router := chi.NewRouter()

	// Cross-cutting chain, outermost first.
	router.Use(chimiddleware.CleanPath)
	router.Use(middleware.RequestID())
	router.Use(middleware.StructuredLogger(deps.Logger))
	router.Use(chimiddleware.Timeout(constants.GlobalRequestTimeout))
	router.Use(middleware.RateLimit(ctx))
	router.Use(middleware.PanicRecovery(deps.Logger))
	router.Use(middleware.CORS(deps.Config))
	router.Use(middleware.Identify(deps.Resolver))

	// Public probes.
	health := newHealthHandler(deps.Pool, deps.Redis)
	router.Get("/health", health.liveness)
	router.Get("/ready", health.readiness)

	router.Route("/api/v1", func(api chi.Router) {
		// Profile: needs an identity but not a registered account.
		api.Mount("/me", deps.Auth.ProfileRoutes())

		// Catalog: registered accounts only.
		api.Group(func(authed chi.Router) {
			authed.Use(middleware.RequireUser(deps.Gate))
			authed.Mount("/books", deps.Books.Routes())
		})

		// Administration. Copy listing and registration nest under the book
		// they belong to; per-copy edits address the copy directly.
		api.Route("/admin", func(admin chi.Router) {
			admin.Use(middleware.RequireAdmin(deps.Gate))
			admin.Mount("/books", deps.Books.AdminRoutes(deps.Copies.BookRoutes()))
			admin.Mount("/copies", deps.Copies.AdminRoutes())
			admin.Mount("/users", deps.Auth.AdminRoutes())
			admin.Mount("/audit", deps.Audit.AdminRoutes())
		})
	})

	return &Server{
		httpServer: &http.Server{
			Addr:              ":" + deps.Config.ServerPort,
			Handler:           router,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
		logger: deps.Logger,
	}
}

// Start begins serving. It blocks until the listener fails or is closed.
func (s *Server) Start() error {
	s.logger.Info("http server listening", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
