package forecast

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"leagueforecast/internal/config"
	apperrors "leagueforecast/internal/errors"
	"leagueforecast/internal/features"
	"leagueforecast/internal/forest"
	"leagueforecast/internal/infrastructure"
	"leagueforecast/internal/matches"
)

// Forecaster trains the models and predicts the season after TargetSeason
type Forecaster struct {
	opts    Options
	metrics *infrastructure.PipelineMetrics
	logger  *slog.Logger
}

// NewForecaster creates a forecaster. A nil logger uses slog.Default();
// metrics may be nil.
func NewForecaster(opts Options, metrics *infrastructure.PipelineMetrics, logger *slog.Logger) (*Forecaster, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if opts.Projection == "" {
		opts.Projection = ProjectionRollForward
	}
	return &Forecaster{
		opts:    opts,
		metrics: metrics,
		logger:  logger.With(slog.String("component", "forecast")),
	}, nil
}

// Result is a completed forecast
type Result struct {
	// Season is the season being predicted, the one after TargetSeason
	Season       string
	TargetSeason string
	Projection   Projection
	TrainRows    int
	Standings    []Standing
	Inputs       []Input
	// Missing lists configured teams with no TargetSeason row
	Missing     []string
	Importances map[string]float64
	CreatedAt   time.Time
}

// Train fits the three models on Premier League rows outside TargetSeason
func (f *Forecaster) Train(ctx context.Context, rows []features.TeamSeason) (*Model, int, error) {
	set := BuildTrainingSet(rows, f.opts.ImpactFactor, func(r features.TeamSeason) bool {
		return r.League == config.LeaguePremier && r.Season != f.opts.TargetSeason
	})
	if set.Len() == 0 {
		return nil, 0, fmt.Errorf("no Premier League rows outside %s: %w", f.opts.TargetSeason, apperrors.ErrEmptyTrainingSet)
	}
	model, err := trainModel(ctx, set, f.opts, f.metrics, f.logger)
	if err != nil {
		return nil, 0, err
	}
	return model, set.Len(), nil
}

// Forecast trains the models, gathers transfer impacts from source for the
// configured teams, and predicts their table. A nil source means no
// impacts.
func (f *Forecaster) Forecast(ctx context.Context, rows []features.TeamSeason, source ImpactSource) (*Result, error) {
	targetRows, missing := f.predictionRows(rows)
	for _, team := range missing {
		f.logger.WarnContext(ctx, "team has no row in target season", "team", team, "season", f.opts.TargetSeason)
	}
	if len(targetRows) == 0 {
		return nil, fmt.Errorf("no rows for %s: %w", f.opts.TargetSeason, apperrors.ErrEmptyPredictionSet)
	}

	model, trainRows, err := f.Train(ctx, rows)
	if err != nil {
		return nil, err
	}

	if source == nil {
		source = Impacts{}
	}
	impacts, err := source.Impacts(ctx, f.opts.Teams)
	if err != nil {
		return nil, fmt.Errorf("collect transfer impacts: %w", err)
	}

	proj := newProjector(rows, f.opts)
	inputs := make([]Input, len(targetRows))
	X := make([][]float64, len(targetRows))
	for i, r := range targetRows {
		inputs[i] = proj.project(r, impacts.For(r.Team))
		X[i] = inputs[i].Vector
	}

	points, gf, ga, err := model.Predict(ctx, X)
	if err != nil {
		return nil, err
	}
	preds := make([]Prediction, len(inputs))
	for i, in := range inputs {
		preds[i] = Prediction{
			Team:           in.Team,
			Points:         points[i],
			GoalsFor:       gf[i],
			GoalsAgainst:   ga[i],
			TransferImpact: in.TransferImpact,
		}
	}

	importances, err := model.Importances()
	if err != nil {
		return nil, err
	}

	_, start, _ := matches.ParseSeason(f.opts.TargetSeason)
	res := &Result{
		Season:       matches.FormatSeason(start + 1),
		TargetSeason: f.opts.TargetSeason,
		Projection:   f.opts.Projection,
		TrainRows:    trainRows,
		Standings:    Table(preds),
		Inputs:       inputs,
		Missing:      missing,
		Importances:  importances,
		CreatedAt:    time.Now().UTC(),
	}
	f.metrics.RecordRows(ctx, "train", "predicted", len(res.Standings))
	f.logger.InfoContext(ctx, "forecast complete",
		"season", res.Season,
		"teams", len(res.Standings),
		"train_rows", trainRows,
		"projection", string(res.Projection))
	return res, nil
}

// predictionRows returns TargetSeason rows for configured teams, in table
// order, and the configured teams that have no such row
func (f *Forecaster) predictionRows(rows []features.TeamSeason) ([]features.TeamSeason, []string) {
	wanted := make(map[string]bool, len(f.opts.Teams))
	for _, team := range f.opts.Teams {
		wanted[team] = true
	}

	found := make(map[string]bool)
	var out []features.TeamSeason
	for _, r := range rows {
		if r.Season != f.opts.TargetSeason || !wanted[r.Team] || found[r.Team] {
			continue
		}
		found[r.Team] = true
		out = append(out, r)
	}

	var missing []string
	for _, team := range f.opts.Teams {
		if !found[team] {
			missing = append(missing, team)
		}
	}
	return out, missing
}

// Evaluation reports hold-out error for each target
type Evaluation struct {
	HoldoutSeason string                    `json:"holdout_season"`
	TrainRows     int                       `json:"train_rows"`
	TestRows      int                       `json:"test_rows"`
	Metrics       map[string]forest.Metrics `json:"metrics"`
}

// Evaluate holds out one completed Premier League season, trains on the
// earlier ones and scores the held-out predictions. The hold-out season is
// HoldoutSeason, or by default the last Premier League season before
// TargetSeason.
func (f *Forecaster) Evaluate(ctx context.Context, rows []features.TeamSeason) (*Evaluation, error) {
	holdout := f.opts.HoldoutSeason
	if holdout == "" {
		holdout = lastSeasonBefore(rows, f.opts.TargetSeason)
	}
	if holdout == "" {
		return nil, fmt.Errorf("no Premier League season before %s: %w", f.opts.TargetSeason, apperrors.ErrEmptyPredictionSet)
	}
	cut := matches.SeasonStart(holdout)

	isPL := func(r features.TeamSeason) bool { return r.League == config.LeaguePremier }
	train := BuildTrainingSet(rows, f.opts.ImpactFactor, func(r features.TeamSeason) bool {
		return isPL(r) && matches.SeasonStart(r.Season) < cut
	})
	test := BuildTrainingSet(rows, f.opts.ImpactFactor, func(r features.TeamSeason) bool {
		return isPL(r) && r.Season == holdout
	})
	if train.Len() == 0 {
		return nil, fmt.Errorf("no Premier League rows before %s: %w", holdout, apperrors.ErrEmptyTrainingSet)
	}
	if test.Len() == 0 {
		return nil, fmt.Errorf("no Premier League rows in %s: %w", holdout, apperrors.ErrEmptyPredictionSet)
	}

	model, err := trainModel(ctx, train, f.opts, f.metrics, f.logger)
	if err != nil {
		return nil, err
	}
	points, gf, ga, err := model.Predict(ctx, test.X)
	if err != nil {
		return nil, err
	}

	eval := &Evaluation{
		HoldoutSeason: holdout,
		TrainRows:     train.Len(),
		TestRows:      test.Len(),
		Metrics:       make(map[string]forest.Metrics, len(Targets)),
	}
	predicted := map[string][]float64{TargetPoints: points, TargetGoalsFor: gf, TargetGoalsAgainst: ga}
	for _, target := range Targets {
		m, err := forest.Score(test.target(target), predicted[target])
		if err != nil {
			return nil, fmt.Errorf("score %s: %w", target, err)
		}
		eval.Metrics[target] = m
		f.metrics.RecordModelError(ctx, target, m.MAE)
		f.logger.InfoContext(ctx, "hold-out error",
			"target", target,
			"season", holdout,
			"mae", m.MAE,
			"rmse", m.RMSE,
			"r2", m.R2)
	}
	return eval, nil
}

// lastSeasonBefore returns the latest Premier League season starting
// before target, or ""
func lastSeasonBefore(rows []features.TeamSeason, target string) string {
	limit := matches.SeasonStart(target)
	best, bestStart := "", -1
	for _, r := range rows {
		if r.League != config.LeaguePremier {
			continue
		}
		start := matches.SeasonStart(r.Season)
		if start < limit && start > bestStart {
			best, bestStart = r.Season, start
		}
	}
	return best
}
