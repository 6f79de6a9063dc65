package forecast

import (
	"fmt"

	"leagueforecast/internal/config"
	"leagueforecast/internal/forest"
)

// Projection selects how a target-season row becomes a prediction input
type Projection string

const (
	// ProjectionRollForward treats the target season as the "previous"
	// season of the forecast: its points, goal difference, form and xG
	// difference feed the lag features
	ProjectionRollForward Projection = "rollforward"
	// ProjectionAsIs feeds the row's stored prev_* columns unchanged
	ProjectionAsIs Projection = "asis"
)

// Options configures training and prediction
type Options struct {
	TargetSeason  string
	HoldoutSeason string
	ImpactFactor  float64
	Teams         []string
	Projection    Projection
	RollingWindow int
	Model         config.ModelConfig
}

// OptionsFromConfig collects the forecast settings from the loaded config
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		TargetSeason:  cfg.Forecast.TargetSeason,
		HoldoutSeason: cfg.Forecast.HoldoutSeason,
		ImpactFactor:  cfg.Forecast.ImpactFactor,
		Teams:         cfg.Forecast.Teams,
		Projection:    Projection(cfg.Forecast.Projection),
		RollingWindow: cfg.Features.RollingWindow,
		Model:         cfg.Model,
	}
}

// DefaultOptions mirrors the config defaults
func DefaultOptions() Options {
	return Options{
		TargetSeason:  config.DefaultTargetSeason,
		ImpactFactor:  config.DefaultImpactFactor,
		Teams:         append([]string(nil), config.DefaultForecastTeams...),
		Projection:    ProjectionRollForward,
		RollingWindow: config.DefaultRollingWindow,
		Model: config.ModelConfig{
			Trees:           config.DefaultTrees,
			MaxDepth:        config.DefaultMaxDepth,
			MinSamplesSplit: 2,
			MinSamplesLeaf:  1,
			Seed:            config.DefaultSeed,
		},
	}
}

func (o Options) validate() error {
	if !config.ValidSeason(o.TargetSeason) {
		return fmt.Errorf("target season %q must be in the form YYYY/YYYY", o.TargetSeason)
	}
	switch o.Projection {
	case ProjectionRollForward, ProjectionAsIs:
	case "":
	default:
		return fmt.Errorf("unknown projection %q", o.Projection)
	}
	return nil
}

func (o Options) newForest() *forest.RandomForest {
	return forest.New(
		forest.WithNEstimators(o.Model.Trees),
		forest.WithMaxDepth(o.Model.MaxDepth),
		forest.WithMinSamplesSplit(o.Model.MinSamplesSplit),
		forest.WithMinSamplesLeaf(o.Model.MinSamplesLeaf),
		forest.WithMaxFeatures(o.Model.MaxFeatures),
		forest.WithBootstrap(!o.Model.NoBootstrap),
		forest.WithRandomState(o.Model.Seed),
		forest.WithWorkers(o.Model.Workers),
	)
}
