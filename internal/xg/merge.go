package xg

import (
	"fmt"

	apperrors "leagueforecast/internal/errors"
	"leagueforecast/internal/features"
)

// Merge left-joins records onto rows by (Team, Season) and returns the
// enriched copy. Rows without a record keep their place with zero xG.
//
// After the join it sets xG_diff = xG - xGA, lags xG, xGA and xG_diff from
// each team's previous row, and fills every missing number with 0. Two
// records for the same team-season are an error.
func Merge(rows []features.TeamSeason, records []Record) ([]features.TeamSeason, error) {
	byKey := make(map[string]Record, len(records))
	for _, rec := range records {
		if _, dup := byKey[rec.Key()]; dup {
			return nil, fmt.Errorf("%s %s: %w", rec.Team, rec.Season, apperrors.ErrDuplicateXG)
		}
		byKey[rec.Key()] = rec
	}

	out := append([]features.TeamSeason(nil), rows...)
	for i := range out {
		out[i].XG, out[i].XGA, out[i].XGDiff = features.None, features.None, features.None
		rec, ok := byKey[out[i].Team+"|"+out[i].Season]
		if !ok {
			continue
		}
		out[i].XG = features.Some(rec.XG)
		out[i].XGA = features.Some(rec.XGA)
		out[i].XGDiff = features.Some(rec.XG - rec.XGA)
	}

	last := make(map[string]int)
	for i := range out {
		prev, ok := last[out[i].Team]
		last[out[i].Team] = i
		if !ok {
			out[i].PrevSeasonXG = features.None
			out[i].PrevSeasonXGA = features.None
			out[i].PrevSeasonXGDiff = features.None
			continue
		}
		out[i].PrevSeasonXG = out[prev].XG
		out[i].PrevSeasonXGA = out[prev].XGA
		out[i].PrevSeasonXGDiff = out[prev].XGDiff
	}

	features.FillMissing(out)
	return out, nil
}

// Coverage counts rows that found a record
func Coverage(rows []features.TeamSeason, records []Record) int {
	keys := make(map[string]bool, len(records))
	for _, rec := range records {
		keys[rec.Key()] = true
	}
	n := 0
	for _, r := range rows {
		if keys[r.Team+"|"+r.Season] {
			n++
		}
	}
	return n
}
