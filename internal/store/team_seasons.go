package store

import (
	"context"
	"database/sql"

	"leagueforecast/internal/features"
)

const teamSeasonColumns = `team, season, league, games_played, wins, draws, losses,
	goals_scored, goals_conceded, points, goal_difference, form_points, league_position,
	prev_season_points, prev_season_gd, prev_season_league, prev_season_form,
	prev_pl_avg_points, synthetic_transfer_impact, promoted_from_championship,
	xg, xga, xg_diff, prev_season_xg, prev_season_xga, prev_season_xg_diff`

const upsertTeamSeason = `INSERT INTO team_seasons (` + teamSeasonColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (team, season) DO UPDATE SET
		league = excluded.league,
		games_played = excluded.games_played,
		wins = excluded.wins,
		draws = excluded.draws,
		losses = excluded.losses,
		goals_scored = excluded.goals_scored,
		goals_conceded = excluded.goals_conceded,
		points = excluded.points,
		goal_difference = excluded.goal_difference,
		form_points = excluded.form_points,
		league_position = excluded.league_position,
		prev_season_points = excluded.prev_season_points,
		prev_season_gd = excluded.prev_season_gd,
		prev_season_league = excluded.prev_season_league,
		prev_season_form = excluded.prev_season_form,
		prev_pl_avg_points = excluded.prev_pl_avg_points,
		synthetic_transfer_impact = excluded.synthetic_transfer_impact,
		promoted_from_championship = excluded.promoted_from_championship,
		xg = excluded.xg,
		xga = excluded.xga,
		xg_diff = excluded.xg_diff,
		prev_season_xg = excluded.prev_season_xg,
		prev_season_xga = excluded.prev_season_xga,
		prev_season_xg_diff = excluded.prev_season_xg_diff`

// SaveTeamSeasons inserts or replaces rows keyed by (team, season) in one
// transaction
func (s *Store) SaveTeamSeasons(ctx context.Context, rows []features.TeamSeason) error {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, upsertTeamSeason)
		if err != nil {
			return wrapf("failed to prepare team season upsert", err)
		}
		defer stmt.Close()

		for _, r := range rows {
			_, err := stmt.ExecContext(ctx,
				r.Team, r.Season, r.League, r.GamesPlayed, r.Wins, r.Draws, r.Losses,
				r.GoalsScored, r.GoalsConceded, r.Points, r.GoalDifference, r.FormPoints, r.LeaguePosition,
				nullable(r.PrevSeasonPoints), nullable(r.PrevSeasonGD), r.PrevSeasonLeague, nullable(r.PrevSeasonForm),
				nullable(r.PrevPLAvgPoints), r.SyntheticTransferImpact, r.PromotedFromChampionship,
				nullable(r.XG), nullable(r.XGA), nullable(r.XGDiff),
				nullable(r.PrevSeasonXG), nullable(r.PrevSeasonXGA), nullable(r.PrevSeasonXGDiff),
			)
			if err != nil {
				return wrapf("failed to save %s %s", err, r.Team, r.Season)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "saved team seasons", "rows", len(rows))
	return nil
}

// TeamSeasons returns the rows of one season, or every row when season is
// empty, ordered by season, league and position
func (s *Store) TeamSeasons(ctx context.Context, season string) ([]features.TeamSeason, error) {
	query := `SELECT ` + teamSeasonColumns + ` FROM team_seasons`
	var args []interface{}
	if season != "" {
		query += ` WHERE season = ?`
		args = append(args, season)
	}
	query += ` ORDER BY season, league DESC, league_position, team`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapf("failed to query team seasons", err)
	}
	defer rows.Close()

	var out []features.TeamSeason
	for rows.Next() {
		var (
			r                                            features.TeamSeason
			prevPoints, prevGD, prevForm, plAvg          sql.NullFloat64
			xg, xga, xgDiff, prevXG, prevXGA, prevXGDiff sql.NullFloat64
		)
		err := rows.Scan(
			&r.Team, &r.Season, &r.League, &r.GamesPlayed, &r.Wins, &r.Draws, &r.Losses,
			&r.GoalsScored, &r.GoalsConceded, &r.Points, &r.GoalDifference, &r.FormPoints, &r.LeaguePosition,
			&prevPoints, &prevGD, &r.PrevSeasonLeague, &prevForm,
			&plAvg, &r.SyntheticTransferImpact, &r.PromotedFromChampionship,
			&xg, &xga, &xgDiff, &prevXG, &prevXGA, &prevXGDiff,
		)
		if err != nil {
			return nil, wrapf("failed to scan team season", err)
		}
		r.PrevSeasonPoints = optional(prevPoints)
		r.PrevSeasonGD = optional(prevGD)
		r.PrevSeasonForm = optional(prevForm)
		r.PrevPLAvgPoints = optional(plAvg)
		r.XG = optional(xg)
		r.XGA = optional(xga)
		r.XGDiff = optional(xgDiff)
		r.PrevSeasonXG = optional(prevXG)
		r.PrevSeasonXGA = optional(prevXGA)
		r.PrevSeasonXGDiff = optional(prevXGDiff)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapf("failed to read team seasons", err)
	}
	return out, nil
}

// Seasons lists the stored seasons in ascending order
func (s *Store) Seasons(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT season FROM team_seasons ORDER BY season`)
	if err != nil {
		return nil, wrapf("failed to query seasons", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var season string
		if err := rows.Scan(&season); err != nil {
			return nil, wrapf("failed to scan season", err)
		}
		out = append(out, season)
	}
	return out, rows.Err()
}

func nullable(o features.Optional) sql.NullFloat64 {
	return sql.NullFloat64{Float64: o.Value, Valid: o.Valid}
}

func optional(n sql.NullFloat64) features.Optional {
	if !n.Valid {
		return features.None
	}
	return features.Some(n.Float64)
}
