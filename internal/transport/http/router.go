package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	apierrors "leagueforecast/internal/errors"
	"leagueforecast/internal/middleware"
)

// RouterDeps holds what NewRouter wires together
type RouterDeps struct {
	Store   Store
	Logger  *slog.Logger
	Version string

	// Metrics serves /metrics when set
	Metrics http.Handler
	// Telemetry traces and counts requests when set
	Telemetry *middleware.OTelMiddleware

	// RateLimit is requests per second across all clients; 0 disables it
	RateLimit float64
	RateBurst int
	Timeout   time.Duration

	IncludeStack bool
}

// NewRouter builds the report server's routes
func NewRouter(deps RouterDeps) chi.Router {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	errorHandler := apierrors.NewErrorHandler(logger, deps.IncludeStack)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	if deps.Telemetry != nil {
		r.Use(deps.Telemetry.Handler)
	}
	r.Use(middleware.StructuredLogger(logger.With(slog.String("component", "http"))))
	r.Use(errorHandler.Recoverer)
	r.Use(middleware.SecurityHeaders)
	if deps.Timeout > 0 {
		r.Use(chimw.Timeout(deps.Timeout))
	}
	if deps.RateLimit > 0 {
		burst := deps.RateBurst
		if burst <= 0 {
			burst = 1
		}
		r.Use(middleware.NewRateLimiter(deps.RateLimit, burst, logger).Handler)
	}

	r.NotFound(errorHandler.NotFound)
	r.MethodNotAllowed(errorHandler.MethodNotAllowed)

	health := NewHealthHandler(deps.Store, deps.Version, logger)
	r.Get("/healthz", health.Health)

	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		forecasts := NewForecastHandler(deps.Store, logger, errorHandler)
		r.Get("/runs", forecasts.Runs)
		r.Get("/standings", forecasts.Standings)

		feats := NewFeaturesHandler(deps.Store, logger, errorHandler)
		r.Get("/seasons", feats.Seasons)
		r.Get("/features", feats.Features)
	})

	return r
}
