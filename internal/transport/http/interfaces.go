package http

import (
	"context"

	"leagueforecast/internal/features"
	"leagueforecast/internal/forecast"
	"leagueforecast/internal/store"
)

// PredictionReader reads saved forecast runs
type PredictionReader interface {
	LatestRun(ctx context.Context) (store.Run, error)
	GetRun(ctx context.Context, id string) (store.Run, error)
	Runs(ctx context.Context) ([]store.Run, error)
	Predictions(ctx context.Context, runID string) ([]forecast.Standing, error)
}

// FeatureReader reads stored team-season rows
type FeatureReader interface {
	Seasons(ctx context.Context) ([]string, error)
	TeamSeasons(ctx context.Context, season string) ([]features.TeamSeason, error)
}

// Store is everything the report server reads. *store.Store satisfies it.
type Store interface {
	PredictionReader
	FeatureReader
}

var _ Store = (*store.Store)(nil)
