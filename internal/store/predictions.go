package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	apperrors "leagueforecast/internal/errors"
	"leagueforecast/internal/forecast"
)

// createdLayout keeps every stored timestamp the same width so created_at
// sorts chronologically as text
const createdLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Run describes one saved forecast
type Run struct {
	ID           string    `json:"id"`
	Season       string    `json:"season"`
	TargetSeason string    `json:"target_season"`
	Projection   string    `json:"projection"`
	TrainRows    int       `json:"train_rows"`
	CreatedAt    time.Time `json:"created_at"`
}

// RunFromResult describes res as a new run with a fresh id
func RunFromResult(res *forecast.Result) Run {
	return Run{
		ID:           uuid.NewString(),
		Season:       res.Season,
		TargetSeason: res.TargetSeason,
		Projection:   string(res.Projection),
		TrainRows:    res.TrainRows,
		CreatedAt:    res.CreatedAt,
	}
}

// SavePredictions stores a run and its table. An empty run id is replaced
// by a new UUID; the saved run is returned.
func (s *Store) SavePredictions(ctx context.Context, run Run, table []forecast.Standing) (Run, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO prediction_runs (id, season, target_season, projection, train_rows, created_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			run.ID, run.Season, run.TargetSeason, run.Projection, run.TrainRows,
			run.CreatedAt.UTC().Format(createdLayout))
		if err != nil {
			return wrapf("failed to save run %s", err, run.ID)
		}

		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO predictions (run_id, position, team, points, goals_for, goals_against, goal_difference, transfer_impact)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return wrapf("failed to prepare prediction insert", err)
		}
		defer stmt.Close()

		for _, st := range table {
			_, err := stmt.ExecContext(ctx, run.ID, st.Position, st.Team, st.Points,
				st.GoalsFor, st.GoalsAgainst, st.GoalDifference, st.TransferImpact)
			if err != nil {
				return wrapf("failed to save prediction for %s", err, st.Team)
			}
		}
		return nil
	})
	if err != nil {
		return Run{}, err
	}

	s.logger.InfoContext(ctx, "saved prediction run", "run_id", run.ID, "teams", len(table))
	return run, nil
}

const runColumns = `id, season, target_season, projection, train_rows, created_at`

// LatestRun returns the most recently created run
func (s *Store) LatestRun(ctx context.Context) (Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+runColumns+` FROM prediction_runs ORDER BY created_at DESC, rowid DESC LIMIT 1`)
	return scanRun(row)
}

// GetRun returns the run with id
func (s *Store) GetRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM prediction_runs WHERE id = ?`, id)
	return scanRun(row)
}

// Runs lists runs newest first
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM prediction_runs ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, wrapf("failed to query runs", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row scanner) (Run, error) {
	var (
		run     Run
		created string
	)
	err := row.Scan(&run.ID, &run.Season, &run.TargetSeason, &run.Projection, &run.TrainRows, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, apperrors.ErrRunNotFound
	}
	if err != nil {
		return Run{}, wrapf("failed to scan run", err)
	}
	run.CreatedAt, err = time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return Run{}, wrapf("run %s has a malformed timestamp", err, run.ID)
	}
	return run, nil
}

// Predictions returns the table saved for runID in position order
func (s *Store) Predictions(ctx context.Context, runID string) ([]forecast.Standing, error) {
	if _, err := s.GetRun(ctx, runID); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT position, team, points, goals_for, goals_against, goal_difference, transfer_impact
		 FROM predictions WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, wrapf("failed to query predictions", err)
	}
	defer rows.Close()

	var out []forecast.Standing
	for rows.Next() {
		var st forecast.Standing
		if err := rows.Scan(&st.Position, &st.Team, &st.Points, &st.GoalsFor,
			&st.GoalsAgainst, &st.GoalDifference, &st.TransferImpact); err != nil {
			return nil, wrapf("failed to scan prediction", err)
		}
		out = append(out, st)
	}
	return out, rows.Err()
}
