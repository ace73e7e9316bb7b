package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/draftledger/internal/adapter/http/handler"
	"github.com/iho/draftledger/internal/adapter/http/middleware"
	"github.com/iho/draftledger/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	ImportHandler    *handler.ImportHandler
	HealthHandler    *handler.HealthHandler
	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
	// RateLimiter throttles uploads per client. Nil disables it.
	RateLimiter *middleware.RateLimiter
	Logger      zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.NewRecovery(cfg.Logger))
	r.Use(middleware.Metrics)

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1/imports", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if cfg.RateLimiter != nil {
				r.Use(cfg.RateLimiter.Limit)
			}
			r.Post("/", cfg.ImportHandler.Create)
		})

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", cfg.ImportHandler.Get)
			r.Post("/cancel", cfg.ImportHandler.Cancel)

			r.Group(func(r chi.Router) {
				// Replaying a confirm must not commit the drafts twice.
				if cfg.IdempotencyStore != nil {
					idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL, cfg.Logger)
					r.Use(idempotencyMiddleware.Wrap)
				}
				r.Post("/confirm", cfg.ImportHandler.Confirm)
			})
		})
	})

	return r
}
