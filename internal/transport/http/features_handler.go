package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"leagueforecast/internal/config"
	apierrors "leagueforecast/internal/errors"
	"leagueforecast/internal/features"
)

// FeaturesHandler serves stored feature rows
type FeaturesHandler struct {
	store        FeatureReader
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewFeaturesHandler creates a new features handler
func NewFeaturesHandler(s FeatureReader, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *FeaturesHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &FeaturesHandler{
		store:        s,
		logger:       logger.With(slog.String("component", "features_handler")),
		errorHandler: errorHandler,
	}
}

// featureRow is the JSON form of a feature row. Missing values are null.
type featureRow struct {
	Team                     string   `json:"team"`
	Season                   string   `json:"season"`
	League                   string   `json:"league"`
	GamesPlayed              int      `json:"games_played"`
	Wins                     int      `json:"wins"`
	Draws                    int      `json:"draws"`
	Losses                   int      `json:"losses"`
	GoalsScored              int      `json:"goals_scored"`
	GoalsConceded            int      `json:"goals_conceded"`
	Points                   int      `json:"points"`
	GoalDifference           int      `json:"goal_difference"`
	FormPoints               int      `json:"form_points_last_10"`
	LeaguePosition           int      `json:"league_position"`
	PrevSeasonPoints         *float64 `json:"prev_season_points"`
	PrevSeasonGD             *float64 `json:"prev_season_gd"`
	PrevSeasonLeague         string   `json:"prev_season_league"`
	PrevSeasonForm           *float64 `json:"prev_season_form"`
	PrevPLAvgPoints          *float64 `json:"prev_pl_avg_points"`
	SyntheticTransferImpact  float64  `json:"synthetic_transfer_impact"`
	PromotedFromChampionship int      `json:"promoted_from_championship"`
	XG                       *float64 `json:"xg"`
	XGA                      *float64 `json:"xga"`
	XGDiff                   *float64 `json:"xg_diff"`
	PrevSeasonXG             *float64 `json:"prev_season_xg"`
	PrevSeasonXGA            *float64 `json:"prev_season_xga"`
	PrevSeasonXGDiff         *float64 `json:"prev_season_xg_diff"`
}

func nullable(o features.Optional) *float64 {
	if !o.Valid {
		return nil
	}
	v := o.Value
	return &v
}

func newFeatureRow(r features.TeamSeason) featureRow {
	return featureRow{
		Team:                     r.Team,
		Season:                   r.Season,
		League:                   r.League,
		GamesPlayed:              r.GamesPlayed,
		Wins:                     r.Wins,
		Draws:                    r.Draws,
		Losses:                   r.Losses,
		GoalsScored:              r.GoalsScored,
		GoalsConceded:            r.GoalsConceded,
		Points:                   r.Points,
		GoalDifference:           r.GoalDifference,
		FormPoints:               r.FormPoints,
		LeaguePosition:           r.LeaguePosition,
		PrevSeasonPoints:         nullable(r.PrevSeasonPoints),
		PrevSeasonGD:             nullable(r.PrevSeasonGD),
		PrevSeasonLeague:         r.PrevSeasonLeague,
		PrevSeasonForm:           nullable(r.PrevSeasonForm),
		PrevPLAvgPoints:          nullable(r.PrevPLAvgPoints),
		SyntheticTransferImpact:  r.SyntheticTransferImpact,
		PromotedFromChampionship: r.PromotedFromChampionship,
		XG:                       nullable(r.XG),
		XGA:                      nullable(r.XGA),
		XGDiff:                   nullable(r.XGDiff),
		PrevSeasonXG:             nullable(r.PrevSeasonXG),
		PrevSeasonXGA:            nullable(r.PrevSeasonXGA),
		PrevSeasonXGDiff:         nullable(r.PrevSeasonXGDiff),
	}
}

// Seasons handles GET /api/v1/seasons
func (h *FeaturesHandler) Seasons(w http.ResponseWriter, r *http.Request) {
	seasons, err := h.store.Seasons(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	if seasons == nil {
		seasons = []string{}
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   seasons,
		"count":  len(seasons),
	})
}

// Features handles GET /api/v1/features?season=YYYY/YYYY
func (h *FeaturesHandler) Features(w http.ResponseWriter, r *http.Request) {
	season := r.URL.Query().Get("season")
	if season == "" {
		h.errorHandler.HandleError(w, r, apierrors.ErrMissingParameter)
		return
	}
	if !config.ValidSeason(season) {
		h.errorHandler.HandleError(w, r, apierrors.InvalidParameter("season",
			fmt.Errorf("%q is not of the form YYYY/YYYY", season)))
		return
	}

	rows, err := h.store.TeamSeasons(r.Context(), season)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	if len(rows) == 0 {
		h.errorHandler.HandleError(w, r, apierrors.SeasonNotFound(season))
		return
	}

	data := make([]featureRow, len(rows))
	for i, row := range rows {
		data[i] = newFeatureRow(row)
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   data,
		"count":  len(data),
	})
}
