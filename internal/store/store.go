package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	apperrors "leagueforecast/internal/errors"
)

// Store wraps the database handle
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens (creating if needed) the database at path and migrates it.
// ":memory:" gives a private in-memory database.
func Open(ctx context.Context, path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, apperrors.NewStorageError("failed to create database directory", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to open database", err)
	}
	// One connection keeps an in-memory database alive and serialises writers
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, apperrors.NewStorageError("failed to ping database", err)
	}

	s := &Store{db: db, logger: logger.With(slog.String("component", "store"))}
	if err := s.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}

	s.logger.Info("Database initialized successfully", slog.String("path", path))
	return s, nil
}

var schema = []string{
	`PRAGMA foreign_keys = ON`,
	`CREATE TABLE IF NOT EXISTS team_seasons (
		team TEXT NOT NULL,
		season TEXT NOT NULL,
		league TEXT NOT NULL,
		games_played INTEGER NOT NULL,
		wins INTEGER NOT NULL,
		draws INTEGER NOT NULL,
		losses INTEGER NOT NULL,
		goals_scored INTEGER NOT NULL,
		goals_conceded INTEGER NOT NULL,
		points INTEGER NOT NULL,
		goal_difference INTEGER NOT NULL,
		form_points INTEGER NOT NULL,
		league_position INTEGER NOT NULL,
		prev_season_points REAL,
		prev_season_gd REAL,
		prev_season_league TEXT NOT NULL DEFAULT '',
		prev_season_form REAL,
		prev_pl_avg_points REAL,
		synthetic_transfer_impact REAL NOT NULL DEFAULT 0,
		promoted_from_championship INTEGER NOT NULL DEFAULT 0,
		xg REAL,
		xga REAL,
		xg_diff REAL,
		prev_season_xg REAL,
		prev_season_xga REAL,
		prev_season_xg_diff REAL,
		PRIMARY KEY (team, season)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_team_seasons_season ON team_seasons (season, league)`,
	`CREATE TABLE IF NOT EXISTS prediction_runs (
		id TEXT PRIMARY KEY,
		season TEXT NOT NULL,
		target_season TEXT NOT NULL,
		projection TEXT NOT NULL,
		train_rows INTEGER NOT NULL,
		created_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS predictions (
		run_id TEXT NOT NULL REFERENCES prediction_runs (id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		team TEXT NOT NULL,
		points INTEGER NOT NULL,
		goals_for INTEGER NOT NULL,
		goals_against INTEGER NOT NULL,
		goal_difference INTEGER NOT NULL,
		transfer_impact REAL NOT NULL DEFAULT 0,
		PRIMARY KEY (run_id, team)
	)`,
}

// Migrate creates any missing tables and indexes
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return apperrors.NewStorageError("failed to migrate schema", err)
		}
	}
	return nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

// withTx runs fn in a transaction, rolling back on error
func (s *Store) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.NewStorageError("failed to begin transaction", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return apperrors.NewStorageError("failed to commit transaction", err)
	}
	return nil
}

func wrapf(format string, err error, args ...interface{}) error {
	return apperrors.NewStorageError(fmt.Sprintf(format, args...), err)
}
