// Copyright (c) 2026 FoDBot. All rights reserved.

/*
Package api wires the ops HTTP server: health checks, Prometheus metrics and
a read-only view of the reaction-role snapshot.

Architecture:

  - The bot's real interface is Discord. This server exists for operators and
    container orchestration only, and never mutates anything.
  - Only this package and cmd/fodbot import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/zmattingly/FoDBot-SQL/internal/platform/constants"
	"github.com/zmattingly/FoDBot-SQL/internal/platform/middleware"
)

// Server wraps the chi router and the [http.Server].
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// Handlers groups the route handlers.
type Handlers struct {
	// Liveness is the /health handler. It returns 200 while the process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler. It returns 200 when the ledger and the gateway are usable.
	Readiness http.HandlerFunc

	// Metrics serves the Prometheus registry.
	Metrics http.Handler

	// ReactionRoles exposes the current index snapshot.
	ReactionRoles *ReactionRoleHandler
}

// NewServer builds the router with the middleware chain and all routes.
// ctx bounds the rate limiter's background cleanup.
func NewServer(ctx context.Context, port string, log *slog.Logger, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(ctx, constants.DefaultRateLimitRPS, constants.DefaultRateLimitBurst))
	r.Use(middleware.PanicRecovery(log))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)
	r.Method(http.MethodGet, "/metrics", h.Metrics)

	// # Troubleshooting API
	r.Route("/api/v1", func(api chi.Router) {
		api.Mount("/reaction-roles", h.ReactionRoles.Routes())
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + port,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe starts the HTTP server. It blocks until the server is closed.
func (s *Server) ListenAndServe() error {
	s.log.Info("ops_server_starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
