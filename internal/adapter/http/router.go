package http

import (
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/iho/porket/internal/adapter/http/handler"
	"github.com/iho/porket/internal/adapter/http/middleware"
	"github.com/iho/porket/internal/infrastructure/metrics"
	"github.com/iho/porket/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	TransactionHandler *handler.TransactionHandler
	ReportHandler      *handler.ReportHandler
	ExportHandler      *handler.ExportHandler
	HealthHandler      *handler.HealthHandler
	UIHandler          *handler.UIHandler

	// IdempotencyStore enables Idempotency-Key handling on mutating routes.
	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
	// RateLimiter throttles mutating routes per client IP.
	RateLimiter *middleware.RateLimiter

	Metrics        *metrics.Metrics
	MetricsHandler http.Handler
	Logger         zerolog.Logger
	// Static serves /static/*; its root must contain a static/ directory.
	Static fs.FS
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery)
	if cfg.Metrics != nil {
		r.Use(middleware.NewMetricsMiddleware(cfg.Metrics).Wrap)
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}
	if cfg.Static != nil {
		r.Handle("/static/*", http.FileServerFS(cfg.Static))
	}

	// Reads
	r.Get("/", cfg.UIHandler.Index)
	r.Get("/ui/form", cfg.UIHandler.Form)
	r.Get("/ui/transactions", cfg.UIHandler.List)
	r.Get("/ui/summary", cfg.UIHandler.Summary)
	r.Get("/ui/chart", cfg.UIHandler.Chart)

	r.Get("/api/v1/transactions", cfg.TransactionHandler.List)
	r.Get("/api/v1/summary/monthly", cfg.ReportHandler.Monthly)
	r.Get("/api/v1/summary/categories", cfg.ReportHandler.Categories)
	r.Get("/api/v1/export", cfg.ExportHandler.Export)

	// Writes
	r.Group(func(r chi.Router) {
		if cfg.RateLimiter != nil {
			r.Use(cfg.RateLimiter.Limit)
		}
		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			var replays prometheus.Counter
			if cfg.Metrics != nil {
				replays = cfg.Metrics.IdempotentReplays
			}
			r.Use(middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL, replays).Wrap)
		}

		r.Post("/ui/transactions", cfg.UIHandler.CreateTransaction)
		r.Delete("/ui/transactions/{id}", cfg.UIHandler.DeleteTransaction)

		r.Post("/api/v1/transactions", cfg.TransactionHandler.Create)
		r.Delete("/api/v1/transactions/{id}", cfg.TransactionHandler.Delete)
	})

	return r
}
