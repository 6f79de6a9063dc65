package features

import (
	"math"
	"sort"

	"leagueforecast/internal/config"
	"leagueforecast/internal/matches"
)

// Build derives the complete team-season feature table from match results.
//
// Rows are ordered by season, oldest first, and within a season by the
// order in which teams first appear as the home side in results. Only
// (season, team) pairs with at least one match produce a row.
func Build(results []matches.Result, opts Options) []TeamSeason {
	opts = opts.withDefaults()

	rows := Aggregate(results, opts.FormWindow)
	AssignPositions(rows)
	ApplyLags(rows)
	ApplyPremierLeagueAverage(rows, opts.RollingWindow)
	ApplySyntheticImpact(rows, opts.ImpactScale, opts.ImpactClip)
	ApplyPromotion(rows)
	return rows
}

// Aggregate computes the per team-season counting stats and form
func Aggregate(results []matches.Result, formWindow int) []TeamSeason {
	if formWindow <= 0 {
		formWindow = DefaultOptions().FormWindow
	}

	var teams []string
	seenTeam := make(map[string]bool)
	for _, r := range results {
		if !seenTeam[r.HomeTeam] {
			seenTeam[r.HomeTeam] = true
			teams = append(teams, r.HomeTeam)
		}
	}

	var seasons []string
	bySeason := make(map[string]map[string][]matches.Result)
	for _, r := range results {
		games, ok := bySeason[r.Season]
		if !ok {
			games = make(map[string][]matches.Result)
			bySeason[r.Season] = games
			seasons = append(seasons, r.Season)
		}
		games[r.HomeTeam] = append(games[r.HomeTeam], r)
		if r.AwayTeam != r.HomeTeam {
			games[r.AwayTeam] = append(games[r.AwayTeam], r)
		}
	}
	matches.SortSeasons(seasons)

	var rows []TeamSeason
	for _, season := range seasons {
		for _, team := range teams {
			games := bySeason[season][team]
			if len(games) == 0 {
				continue
			}
			sort.SliceStable(games, func(i, j int) bool {
				return games[i].Date.Before(games[j].Date)
			})
			rows = append(rows, aggregateTeam(team, season, games, formWindow))
		}
	}
	return rows
}

// aggregateTeam summarises one team's date-ordered matches in a season
func aggregateTeam(team, season string, games []matches.Result, formWindow int) TeamSeason {
	row := TeamSeason{
		Team:        team,
		Season:      season,
		League:      games[0].League,
		GamesPlayed: len(games),
	}

	for _, g := range games {
		switch g.PointsFor(team) {
		case 3:
			row.Wins++
		case 1:
			row.Draws++
		default:
			row.Losses++
		}
		scored, conceded := g.GoalsFor(team)
		row.GoalsScored += scored
		row.GoalsConceded += conceded
	}
	row.Points = 3*row.Wins + row.Draws
	row.GoalDifference = row.GoalsScored - row.GoalsConceded

	start := len(games) - formWindow
	if start < 0 {
		start = 0
	}
	for _, g := range games[start:] {
		row.FormPoints += g.PointsFor(team)
	}
	return row
}

// AssignPositions ranks teams by points within each (season, league) group.
// Tied teams share the best position of the tie.
func AssignPositions(rows []TeamSeason) {
	type group struct{ season, league string }
	points := make(map[group][]int)
	for _, r := range rows {
		g := group{r.Season, r.League}
		points[g] = append(points[g], r.Points)
	}

	for i := range rows {
		g := group{rows[i].Season, rows[i].League}
		better := 0
		for _, p := range points[g] {
			if p > rows[i].Points {
				better++
			}
		}
		rows[i].LeaguePosition = better + 1
	}
}

// ApplyLags copies each team's previous observed season into the prev_*
// columns. A team's first season has no lag.
func ApplyLags(rows []TeamSeason) {
	for _, idx := range byTeam(rows) {
		for k, i := range idx {
			if k == 0 {
				rows[i].PrevSeasonPoints = None
				rows[i].PrevSeasonGD = None
				rows[i].PrevSeasonLeague = ""
				rows[i].PrevSeasonForm = None
				continue
			}
			prev := rows[idx[k-1]]
			rows[i].PrevSeasonPoints = Some(float64(prev.Points))
			rows[i].PrevSeasonGD = Some(float64(prev.GoalDifference))
			rows[i].PrevSeasonLeague = prev.League
			rows[i].PrevSeasonForm = Some(float64(prev.FormPoints))
		}
	}
}

// ApplyPremierLeagueAverage sets prev_pl_avg_points on Premier League rows to
// the mean points of the team's up to window previous Premier League
// seasons. Rows left without a value get the mean points of promoted teams.
// ApplyLags must run first.
func ApplyPremierLeagueAverage(rows []TeamSeason, window int) {
	if window <= 0 {
		window = DefaultOptions().RollingWindow
	}

	for _, idx := range byTeam(rows) {
		var history []float64
		for _, i := range idx {
			rows[i].PrevPLAvgPoints = None
			if rows[i].League != config.LeaguePremier {
				continue
			}
			rows[i].PrevPLAvgPoints = RollingMean(history, window)
			history = append(history, float64(rows[i].Points))
		}
	}

	fill := PromotedAverage(rows)
	if !fill.Valid {
		return
	}
	for i := range rows {
		if !rows[i].PrevPLAvgPoints.Valid {
			rows[i].PrevPLAvgPoints = fill
		}
	}
}

// RollingMean averages the last window values of history, or returns None
// for an empty history.
func RollingMean(history []float64, window int) Optional {
	if len(history) == 0 {
		return None
	}
	start := len(history) - window
	if start < 0 {
		start = 0
	}
	sum := 0.0
	for _, v := range history[start:] {
		sum += v
	}
	return Some(sum / float64(len(history)-start))
}

// PromotedAverage is the mean points of rows for teams that came up from the
// Championship, or None when there are none.
func PromotedAverage(rows []TeamSeason) Optional {
	sum, n := 0.0, 0
	for _, r := range rows {
		if IsPromoted(r.PrevSeasonLeague, r.League) {
			sum += float64(r.Points)
			n++
		}
	}
	if n == 0 {
		return None
	}
	return Some(sum / float64(n))
}

// ApplySyntheticImpact derives a stand-in transfer impact for historical rows
// from the change in points against the team's previous observed season.
func ApplySyntheticImpact(rows []TeamSeason, scale, clip float64) {
	for _, idx := range byTeam(rows) {
		for k, i := range idx {
			if k == 0 {
				rows[i].SyntheticTransferImpact = 0
				continue
			}
			diff := float64(rows[i].Points - rows[idx[k-1]].Points)
			rows[i].SyntheticTransferImpact = math.Max(-clip, math.Min(clip, diff/scale))
		}
	}
}

// ApplyPromotion flags rows where the team moved up from the Championship
func ApplyPromotion(rows []TeamSeason) {
	for i := range rows {
		rows[i].PromotedFromChampionship = 0
		if IsPromoted(rows[i].PrevSeasonLeague, rows[i].League) {
			rows[i].PromotedFromChampionship = 1
		}
	}
}

// IsPromoted reports a Championship to Premier League move
func IsPromoted(prevLeague, league string) bool {
	return prevLeague == config.LeagueChampionship && league == config.LeaguePremier
}

// byTeam groups row indices by team, keeping table order within each team
func byTeam(rows []TeamSeason) map[string][]int {
	idx := make(map[string][]int)
	for i, r := range rows {
		idx[r.Team] = append(idx[r.Team], i)
	}
	return idx
}

// FillMissing replaces every missing number with 0. A missing previous
// league stays blank.
func FillMissing(rows []TeamSeason) {
	for i := range rows {
		r := &rows[i]
		for _, o := range []*Optional{
			&r.PrevSeasonPoints, &r.PrevSeasonGD, &r.PrevSeasonForm, &r.PrevPLAvgPoints,
			&r.XG, &r.XGA, &r.XGDiff, &r.PrevSeasonXG, &r.PrevSeasonXGA, &r.PrevSeasonXGDiff,
		} {
			if !o.Valid {
				*o = Some(0)
			}
		}
	}
}
