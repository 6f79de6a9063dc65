package forecast

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"leagueforecast/internal/features"
	"leagueforecast/internal/forest"
	"leagueforecast/internal/infrastructure"
)

// Model targets
const (
	TargetPoints       = "points"
	TargetGoalsFor     = "goals_for"
	TargetGoalsAgainst = "goals_against"
)

// Targets lists the model targets in training order
var Targets = []string{TargetPoints, TargetGoalsFor, TargetGoalsAgainst}

// TrainingSet holds the feature matrix and the three target columns
type TrainingSet struct {
	X            [][]float64
	Points       []float64
	GoalsFor     []float64
	GoalsAgainst []float64
}

// Len is the number of training rows
func (s TrainingSet) Len() int { return len(s.X) }

func (s TrainingSet) target(name string) []float64 {
	switch name {
	case TargetGoalsFor:
		return s.GoalsFor
	case TargetGoalsAgainst:
		return s.GoalsAgainst
	default:
		return s.Points
	}
}

// BuildTrainingSet collects rows passing keep into a training set
func BuildTrainingSet(rows []features.TeamSeason, factor float64, keep func(features.TeamSeason) bool) TrainingSet {
	var set TrainingSet
	for _, r := range rows {
		if !keep(r) {
			continue
		}
		set.X = append(set.X, HistoricalVector(r, factor))
		set.Points = append(set.Points, float64(r.Points))
		set.GoalsFor = append(set.GoalsFor, float64(r.GoalsScored))
		set.GoalsAgainst = append(set.GoalsAgainst, float64(r.GoalsConceded))
	}
	return set
}

// Model is the three fitted forests
type Model struct {
	forests map[string]*forest.RandomForest
}

// trainModel fits one forest per target with identical hyperparameters
func trainModel(ctx context.Context, set TrainingSet, opts Options, metrics *infrastructure.PipelineMetrics, logger *slog.Logger) (*Model, error) {
	m := &Model{forests: make(map[string]*forest.RandomForest, len(Targets))}
	for _, target := range Targets {
		start := time.Now()
		rf := opts.newForest()
		if err := rf.Fit(ctx, set.X, set.target(target)); err != nil {
			return nil, fmt.Errorf("fit %s model: %w", target, err)
		}
		elapsed := time.Since(start)
		metrics.RecordModelFit(ctx, target, elapsed)
		logger.InfoContext(ctx, "fitted model",
			"target", target,
			"rows", set.Len(),
			"trees", rf.NEstimators,
			"duration", elapsed)
		m.forests[target] = rf
	}
	return m, nil
}

// Predict returns points, goals for and goals against for each row of X
func (m *Model) Predict(ctx context.Context, X [][]float64) (points, gf, ga []float64, err error) {
	if points, err = m.forests[TargetPoints].Predict(ctx, X); err != nil {
		return nil, nil, nil, fmt.Errorf("predict points: %w", err)
	}
	if gf, err = m.forests[TargetGoalsFor].Predict(ctx, X); err != nil {
		return nil, nil, nil, fmt.Errorf("predict goals for: %w", err)
	}
	if ga, err = m.forests[TargetGoalsAgainst].Predict(ctx, X); err != nil {
		return nil, nil, nil, fmt.Errorf("predict goals against: %w", err)
	}
	return points, gf, ga, nil
}

// Importances returns the points model's feature importances by name
func (m *Model) Importances() (map[string]float64, error) {
	imp, err := m.forests[TargetPoints].FeatureImportances()
	if err != nil {
		return nil, err
	}
	out := make(map[string]float64, len(imp))
	for i, v := range imp {
		out[FeatureNames[i]] = v
	}
	return out, nil
}
