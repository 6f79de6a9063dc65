package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	apierrors "leagueforecast/internal/errors"
	"leagueforecast/internal/forecast"
	"leagueforecast/internal/store"
)

// ForecastHandler serves saved runs and their predicted tables
type ForecastHandler struct {
	store        PredictionReader
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewForecastHandler creates a new forecast handler
func NewForecastHandler(s PredictionReader, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ForecastHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ForecastHandler{
		store:        s,
		logger:       logger.With(slog.String("component", "forecast_handler")),
		errorHandler: errorHandler,
	}
}

// standingsResponse pairs a run with its table
type standingsResponse struct {
	Run       store.Run           `json:"run"`
	Standings []forecast.Standing `json:"standings"`
}

// Runs handles GET /api/v1/runs
func (h *ForecastHandler) Runs(w http.ResponseWriter, r *http.Request) {
	runs, err := h.store.Runs(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	if runs == nil {
		runs = []store.Run{}
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   runs,
		"count":  len(runs),
	})
}

// Standings handles GET /api/v1/standings. Without ?run the latest run is
// returned.
func (h *ForecastHandler) Standings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	runID := r.URL.Query().Get("run")

	h.logger.DebugContext(ctx, "fetching standings",
		slog.String("request_id", middleware.GetReqID(ctx)),
		slog.String("run", runID),
	)

	var (
		run store.Run
		err error
	)
	if runID == "" {
		run, err = h.store.LatestRun(ctx)
	} else {
		run, err = h.store.GetRun(ctx, runID)
	}
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	table, err := h.store.Predictions(ctx, run.ID)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	if table == nil {
		table = []forecast.Standing{}
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   standingsResponse{Run: run, Standings: table},
		"count":  len(table),
	})
}
