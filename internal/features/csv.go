package features

import (
	"fmt"
	"strconv"
	"strings"

	apperrors "leagueforecast/internal/errors"
	"leagueforecast/internal/matches"
)

// Column names of the feature table
const (
	ColTeam                     = "Team"
	ColSeason                   = "Season"
	ColLeague                   = "League"
	ColGamesPlayed              = "Games Played"
	ColWins                     = "Wins"
	ColDraws                    = "Draws"
	ColLosses                   = "Losses"
	ColGoalsScored              = "Goals Scored"
	ColGoalsConceded            = "Goals Conceded"
	ColPoints                   = "Points"
	ColGoalDifference           = "Goal Difference"
	ColFormPoints               = "Form Points Last 10"
	ColLeaguePosition           = "League Position"
	ColPrevSeasonPoints         = "prev_season_points"
	ColPrevSeasonGD             = "prev_season_gd"
	ColPrevSeasonLeague         = "prev_season_league"
	ColPrevSeasonForm           = "prev_season_form"
	ColPrevPLAvgPoints          = "prev_pl_avg_points"
	ColSyntheticTransferImpact  = "synthetic_transfer_impact"
	ColPromotedFromChampionship = "promoted_from_championship"
	ColXG                       = "xG"
	ColXGA                      = "xGA"
	ColXGDiff                   = "xG_diff"
	ColPrevSeasonXG             = "prev_season_xG"
	ColPrevSeasonXGA            = "prev_season_xGA"
	ColPrevSeasonXGDiff         = "prev_season_xG_diff"
)

var baseColumns = []string{
	ColTeam, ColSeason, ColLeague, ColGamesPlayed, ColWins, ColDraws, ColLosses,
	ColGoalsScored, ColGoalsConceded, ColPoints, ColGoalDifference, ColFormPoints,
	ColLeaguePosition, ColPrevSeasonPoints, ColPrevSeasonGD, ColPrevSeasonLeague,
	ColPrevSeasonForm, ColPrevPLAvgPoints, ColSyntheticTransferImpact,
	ColPromotedFromChampionship,
}

var xgColumns = []string{
	ColXG, ColXGA, ColXGDiff, ColPrevSeasonXG, ColPrevSeasonXGA, ColPrevSeasonXGDiff,
}

// Header returns the column names, with the xG block when withXG is set
func Header(withXG bool) []string {
	h := append([]string(nil), baseColumns...)
	if withXG {
		h = append(h, xgColumns...)
	}
	return h
}

// Record renders r in Header(withXG) order
func (r TeamSeason) Record(withXG bool) []string {
	rec := []string{
		r.Team,
		r.Season,
		r.League,
		strconv.Itoa(r.GamesPlayed),
		strconv.Itoa(r.Wins),
		strconv.Itoa(r.Draws),
		strconv.Itoa(r.Losses),
		strconv.Itoa(r.GoalsScored),
		strconv.Itoa(r.GoalsConceded),
		strconv.Itoa(r.Points),
		strconv.Itoa(r.GoalDifference),
		strconv.Itoa(r.FormPoints),
		strconv.Itoa(r.LeaguePosition),
		r.PrevSeasonPoints.String(),
		r.PrevSeasonGD.String(),
		r.PrevSeasonLeague,
		r.PrevSeasonForm.String(),
		r.PrevPLAvgPoints.String(),
		strconv.FormatFloat(r.SyntheticTransferImpact, 'f', -1, 64),
		strconv.Itoa(r.PromotedFromChampionship),
	}
	if withXG {
		rec = append(rec,
			r.XG.String(),
			r.XGA.String(),
			r.XGDiff.String(),
			r.PrevSeasonXG.String(),
			r.PrevSeasonXGA.String(),
			r.PrevSeasonXGDiff.String(),
		)
	}
	return rec
}

// Records renders every row for CSV output
func Records(rows []TeamSeason, withXG bool) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = r.Record(withXG)
	}
	return out
}

// ReadCSV loads a feature table written by the features or xg stage.
// hasXG reports whether the xG columns were present.
func ReadCSV(path string) (rows []TeamSeason, hasXG bool, err error) {
	table, err := matches.ReadCSVFile(path)
	if err != nil {
		return nil, false, err
	}
	return FromTable(table)
}

// FromTable converts a parsed CSV table into feature rows
func FromTable(table *matches.Table) (rows []TeamSeason, hasXG bool, err error) {
	for _, col := range baseColumns {
		if table.Index(col) < 0 {
			return nil, false, apperrors.MissingColumn("features", col)
		}
	}
	hasXG = true
	for _, col := range xgColumns {
		if table.Index(col) < 0 {
			hasXG = false
			break
		}
	}

	for i := range table.Rows {
		p := rowParser{table: table, row: i}
		r := TeamSeason{
			Team:                     strings.TrimSpace(table.Value(i, ColTeam)),
			Season:                   strings.TrimSpace(table.Value(i, ColSeason)),
			League:                   strings.TrimSpace(table.Value(i, ColLeague)),
			GamesPlayed:              p.integer(ColGamesPlayed),
			Wins:                     p.integer(ColWins),
			Draws:                    p.integer(ColDraws),
			Losses:                   p.integer(ColLosses),
			GoalsScored:              p.integer(ColGoalsScored),
			GoalsConceded:            p.integer(ColGoalsConceded),
			Points:                   p.integer(ColPoints),
			GoalDifference:           p.integer(ColGoalDifference),
			FormPoints:               p.integer(ColFormPoints),
			LeaguePosition:           p.integer(ColLeaguePosition),
			PrevSeasonPoints:         p.optional(ColPrevSeasonPoints),
			PrevSeasonGD:             p.optional(ColPrevSeasonGD),
			PrevSeasonLeague:         cleanLeague(table.Value(i, ColPrevSeasonLeague)),
			PrevSeasonForm:           p.optional(ColPrevSeasonForm),
			PrevPLAvgPoints:          p.optional(ColPrevPLAvgPoints),
			SyntheticTransferImpact:  p.optional(ColSyntheticTransferImpact).Or(0),
			PromotedFromChampionship: p.integer(ColPromotedFromChampionship),
		}
		if hasXG {
			r.XG = p.optional(ColXG)
			r.XGA = p.optional(ColXGA)
			r.XGDiff = p.optional(ColXGDiff)
			r.PrevSeasonXG = p.optional(ColPrevSeasonXG)
			r.PrevSeasonXGA = p.optional(ColPrevSeasonXGA)
			r.PrevSeasonXGDiff = p.optional(ColPrevSeasonXGDiff)
		}
		if p.err != nil {
			return nil, false, fmt.Errorf("features row %d: %w", i+2, p.err)
		}
		if r.Team == "" || r.Season == "" {
			return nil, false, fmt.Errorf("features row %d: team and season are required", i+2)
		}
		rows = append(rows, r)
	}
	return rows, hasXG, nil
}

// rowParser reads numeric cells of one row, keeping the first error
type rowParser struct {
	table *matches.Table
	row   int
	err   error
}

func (p *rowParser) optional(col string) Optional {
	s := strings.TrimSpace(p.table.Value(p.row, col))
	if s == "" || strings.EqualFold(s, "nan") {
		return None
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		if p.err == nil {
			p.err = fmt.Errorf("column %q: %w", col, err)
		}
		return None
	}
	return Some(v)
}

// integer accepts "12" and the "12.0" form float columns are written in
func (p *rowParser) integer(col string) int {
	o := p.optional(col)
	return int(o.Or(0))
}

// cleanLeague treats the "0" a zero-filled missing league becomes as missing
func cleanLeague(s string) string {
	s = strings.TrimSpace(s)
	if s == "0" || strings.EqualFold(s, "nan") {
		return ""
	}
	return s
}
