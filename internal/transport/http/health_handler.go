package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"
)

// HealthHandler reports whether the server can reach its store
type HealthHandler struct {
	store   FeatureReader
	version string
	started time.Time
	logger  *slog.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(store FeatureReader, version string, logger *slog.Logger) *HealthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthHandler{
		store:   store,
		version: version,
		started: time.Now(),
		logger:  logger.With(slog.String("handler", "health")),
	}
}

// Health handles GET /healthz. A store that cannot be queried within two
// seconds makes the server unhealthy.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := map[string]interface{}{
		"status":  "healthy",
		"version": h.version,
		"uptime":  time.Since(h.started).Round(time.Second).String(),
	}

	if h.store != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if _, err := h.store.Seasons(ctx); err != nil {
			h.logger.ErrorContext(r.Context(), "store health check failed",
				slog.String("error", err.Error()))
			resp["status"] = "unhealthy"
			resp["store"] = err.Error()
			render.Status(r, http.StatusServiceUnavailable)
		} else {
			resp["store"] = "ok"
		}
	}

	render.JSON(w, r, resp)
}
