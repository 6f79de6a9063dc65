package forecast

import (
	"sort"

	"leagueforecast/internal/config"
	"leagueforecast/internal/features"
	"leagueforecast/internal/matches"
)

// FeatureNames are the model inputs, in column order
var FeatureNames = []string{
	"prev_season_gd",
	"promoted_from_championship",
	"prev_season_xG_diff",
	"prev_season_form",
	"prev_pl_avg_points",
	"adjusted_prev_points",
}

// Input is one model input row with the values it was derived from
type Input struct {
	Team           string
	League         string
	TransferImpact float64
	// PrevPoints is prev_season_points before the impact adjustment
	PrevPoints float64
	Vector     []float64
}

// AdjustedPoints applies a transfer impact to previous points
func AdjustedPoints(prevPoints, impact, factor float64) float64 {
	return prevPoints + impact*factor
}

// HistoricalVector builds the inputs of a completed season from its stored
// lag columns, with no transfer impact
func HistoricalVector(r features.TeamSeason, factor float64) []float64 {
	return []float64{
		r.PrevSeasonGD.Or(0),
		float64(r.PromotedFromChampionship),
		r.PrevSeasonXGDiff.Or(0),
		r.PrevSeasonForm.Or(0),
		r.PrevPLAvgPoints.Or(0),
		AdjustedPoints(r.PrevSeasonPoints.Or(0), 0, factor),
	}
}

// projector turns target-season rows into prediction inputs
type projector struct {
	mode     Projection
	factor   float64
	window   int
	history  map[string][]float64
	promoted features.Optional
}

func newProjector(rows []features.TeamSeason, opts Options) *projector {
	p := &projector{
		mode:     opts.Projection,
		factor:   opts.ImpactFactor,
		window:   opts.RollingWindow,
		history:  make(map[string][]float64),
		promoted: features.PromotedAverage(rows),
	}
	if p.mode == "" {
		p.mode = ProjectionRollForward
	}
	if p.window <= 0 {
		p.window = config.DefaultRollingWindow
	}

	// Premier League points per team, oldest season first, up to and
	// including the target season
	target := matches.SeasonStart(opts.TargetSeason)
	ordered := append([]features.TeamSeason(nil), rows...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return matches.SeasonStart(ordered[i].Season) < matches.SeasonStart(ordered[j].Season)
	})
	for _, r := range ordered {
		if r.League == config.LeaguePremier && matches.SeasonStart(r.Season) <= target {
			p.history[r.Team] = append(p.history[r.Team], float64(r.Points))
		}
	}
	return p
}

// project builds the input for row r of the target season
func (p *projector) project(r features.TeamSeason, impact float64) Input {
	promoted := 0.0
	if r.League == config.LeagueChampionship {
		promoted = 1
	}

	var gd, xgDiff, form, plAvg, prevPoints float64
	switch p.mode {
	case ProjectionAsIs:
		gd = r.PrevSeasonGD.Or(0)
		xgDiff = r.PrevSeasonXGDiff.Or(0)
		form = r.PrevSeasonForm.Or(0)
		plAvg = r.PrevPLAvgPoints.Or(0)
		prevPoints = r.PrevSeasonPoints.Or(0)
	default:
		gd = float64(r.GoalDifference)
		xgDiff = r.XGDiff.Or(0)
		form = float64(r.FormPoints)
		plAvg = p.promoted.Or(0)
		if r.League == config.LeaguePremier {
			plAvg = features.RollingMean(p.history[r.Team], p.window).Or(plAvg)
		}
		prevPoints = float64(r.Points)
	}

	return Input{
		Team:           r.Team,
		League:         r.League,
		TransferImpact: impact,
		PrevPoints:     prevPoints,
		Vector: []float64{
			gd,
			promoted,
			xgDiff,
			form,
			plAvg,
			AdjustedPoints(prevPoints, impact, p.factor),
		},
	}
}
