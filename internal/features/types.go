package features

import (
	"strconv"

	"leagueforecast/internal/config"
)

// Optional is a number that may be missing, the way a blank CSV cell is
type Optional struct {
	Value float64
	Valid bool
}

// Some wraps a present value
func Some(v float64) Optional {
	return Optional{Value: v, Valid: true}
}

// None is the missing value
var None = Optional{}

// Or returns the value, or def when missing
func (o Optional) Or(def float64) float64 {
	if !o.Valid {
		return def
	}
	return o.Value
}

// String formats the value for CSV output; missing values are blank
func (o Optional) String() string {
	if !o.Valid {
		return ""
	}
	return strconv.FormatFloat(o.Value, 'f', -1, 64)
}

// TeamSeason is the engineered feature row for one team in one season
type TeamSeason struct {
	Team   string
	Season string
	League string

	GamesPlayed    int
	Wins           int
	Draws          int
	Losses         int
	GoalsScored    int
	GoalsConceded  int
	Points         int
	GoalDifference int
	FormPoints     int
	LeaguePosition int

	PrevSeasonPoints Optional
	PrevSeasonGD     Optional
	PrevSeasonLeague string
	PrevSeasonForm   Optional
	PrevPLAvgPoints  Optional

	SyntheticTransferImpact  float64
	PromotedFromChampionship int

	XG               Optional
	XGA              Optional
	XGDiff           Optional
	PrevSeasonXG     Optional
	PrevSeasonXGA    Optional
	PrevSeasonXGDiff Optional
}

// Options tunes feature engineering
type Options struct {
	// FormWindow is the number of most recent matches counted as form
	FormWindow int
	// RollingWindow is the number of previous Premier League seasons averaged
	RollingWindow int
	// ImpactScale divides the season-on-season points change
	ImpactScale float64
	// ImpactClip bounds the synthetic transfer impact to ±ImpactClip
	ImpactClip float64
}

// DefaultOptions returns the standard settings
func DefaultOptions() Options {
	return Options{
		FormWindow:    10,
		RollingWindow: 3,
		ImpactScale:   5,
		ImpactClip:    10,
	}
}

// OptionsFromConfig collects the feature settings from the loaded config
func OptionsFromConfig(cfg config.FeaturesConfig) Options {
	return Options{
		FormWindow:    cfg.FormWindow,
		RollingWindow: cfg.RollingWindow,
		ImpactScale:   cfg.ImpactScale,
		ImpactClip:    cfg.ImpactClip,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.FormWindow <= 0 {
		o.FormWindow = def.FormWindow
	}
	if o.RollingWindow <= 0 {
		o.RollingWindow = def.RollingWindow
	}
	if o.ImpactScale <= 0 {
		o.ImpactScale = def.ImpactScale
	}
	if o.ImpactClip <= 0 {
		o.ImpactClip = def.ImpactClip
	}
	return o
}
