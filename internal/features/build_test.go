package features

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leagueforecast/internal/config"
	"leagueforecast/internal/matches"
)

const (
	pl = config.LeaguePremier
	ch = config.LeagueChampionship
)

func match(date, home, away string, hg, ag int, league string) matches.Result {
	d, err := matches.ParseDate(date)
	if err != nil {
		panic(err)
	}
	outcome := matches.Draw
	switch {
	case hg > ag:
		outcome = matches.HomeWin
	case hg < ag:
		outcome = matches.AwayWin
	}
	return matches.Result{
		Date: d, Season: matches.SeasonFor(d),
		HomeTeam: home, AwayTeam: away,
		HomeGoals: hg, AwayGoals: ag,
		Outcome: outcome, League: league,
	}
}

func find(t *testing.T, rows []TeamSeason, team, season string) TeamSeason {
	t.Helper()
	for _, r := range rows {
		if r.Team == team && r.Season == season {
			return r
		}
	}
	t.Fatalf("no row for %s %s", team, season)
	return TeamSeason{}
}

func TestAggregate_CountsAndForm(t *testing.T) {
	results := []matches.Result{
		match("19/08/23", "Arsenal", "Chelsea", 2, 0, pl),
		match("12/08/23", "Chelsea", "Arsenal", 1, 1, pl),
		match("26/08/23", "Arsenal", "Spurs", 0, 3, pl),
		match("02/09/23", "Spurs", "Arsenal", 1, 2, pl),
	}

	rows := Aggregate(results, 2)
	arsenal := find(t, rows, "Arsenal", "2023/2024")

	assert.Equal(t, pl, arsenal.League)
	assert.Equal(t, 4, arsenal.GamesPlayed)
	assert.Equal(t, 2, arsenal.Wins)
	assert.Equal(t, 1, arsenal.Draws)
	assert.Equal(t, 1, arsenal.Losses)
	assert.Equal(t, 5, arsenal.GoalsScored)
	assert.Equal(t, 5, arsenal.GoalsConceded)
	assert.Equal(t, 7, arsenal.Points)
	assert.Equal(t, 0, arsenal.GoalDifference)
	// Last two matches by date: loss to Spurs, win at Spurs
	assert.Equal(t, 3, arsenal.FormPoints)
}

func TestAggregate_Ordering(t *testing.T) {
	results := []matches.Result{
		match("10/08/24", "Leeds", "Arsenal", 1, 0, pl),
		match("12/08/23", "Arsenal", "Leeds", 1, 0, pl),
		match("15/08/23", "Chelsea", "Arsenal", 1, 0, pl),
	}
	rows := Aggregate(results, 10)

	var got []string
	for _, r := range rows {
		got = append(got, r.Season+" "+r.Team)
	}
	// Seasons oldest first; teams in order of first home appearance
	assert.Equal(t, []string{
		"2023/2024 Leeds",
		"2023/2024 Arsenal",
		"2023/2024 Chelsea",
		"2024/2025 Leeds",
		"2024/2025 Arsenal",
	}, got)
}

func TestAggregate_AwayOnlyTeamsAreDropped(t *testing.T) {
	rows := Aggregate([]matches.Result{match("12/08/23", "Arsenal", "Ghosts", 1, 0, pl)}, 10)
	require.Len(t, rows, 1)
	assert.Equal(t, "Arsenal", rows[0].Team)
}

func TestAggregate_LeagueFromFirstMatch(t *testing.T) {
	rows := Aggregate([]matches.Result{
		match("20/08/23", "Leeds", "Hull", 1, 0, pl),
		match("05/08/23", "Hull", "Leeds", 1, 0, ch),
	}, 10)
	assert.Equal(t, ch, find(t, rows, "Leeds", "2023/2024").League)
}

func TestAggregate_FormCapped(t *testing.T) {
	var results []matches.Result
	start := time.Date(2023, 8, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 15; i++ {
		d := start.AddDate(0, 0, 7*i).Format("02/01/06")
		results = append(results, match(d, "Arsenal", "Chelsea", 1, 0, pl))
	}
	rows := Aggregate(results, 10)
	arsenal := find(t, rows, "Arsenal", "2023/2024")
	assert.Equal(t, 45, arsenal.Points)
	assert.Equal(t, 30, arsenal.FormPoints)
	assert.LessOrEqual(t, arsenal.FormPoints, 3*10)
}

func TestAssignPositions_MinRank(t *testing.T) {
	rows := []TeamSeason{
		{Team: "A", Season: "2023/2024", League: pl, Points: 80},
		{Team: "B", Season: "2023/2024", League: pl, Points: 70},
		{Team: "C", Season: "2023/2024", League: pl, Points: 80},
		{Team: "D", Season: "2023/2024", League: pl, Points: 50},
		{Team: "E", Season: "2023/2024", League: ch, Points: 90},
		{Team: "F", Season: "2022/2023", League: pl, Points: 10},
	}
	AssignPositions(rows)

	got := map[string]int{}
	for _, r := range rows {
		got[r.Team] = r.LeaguePosition
	}
	assert.Equal(t, map[string]int{"A": 1, "C": 1, "B": 3, "D": 4, "E": 1, "F": 1}, got)
}

func TestApplyLags(t *testing.T) {
	rows := []TeamSeason{
		{Team: "Leeds", Season: "2021/2022", League: pl, Points: 38, GoalDifference: -37, FormPoints: 12},
		{Team: "Arsenal", Season: "2021/2022", League: pl, Points: 69},
		{Team: "Leeds", Season: "2023/2024", League: ch, Points: 90, GoalDifference: 38, FormPoints: 14},
	}
	ApplyLags(rows)

	assert.False(t, rows[0].PrevSeasonPoints.Valid)
	assert.Equal(t, "", rows[0].PrevSeasonLeague)
	assert.False(t, rows[1].PrevSeasonPoints.Valid)

	// Previous observed season, even with a gap in between
	assert.Equal(t, Some(38), rows[2].PrevSeasonPoints)
	assert.Equal(t, Some(-37), rows[2].PrevSeasonGD)
	assert.Equal(t, Some(12), rows[2].PrevSeasonForm)
	assert.Equal(t, pl, rows[2].PrevSeasonLeague)
}

func TestApplyPremierLeagueAverage(t *testing.T) {
	rows := []TeamSeason{
		{Team: "Arsenal", Season: "2020/2021", League: pl, Points: 61},
		{Team: "Arsenal", Season: "2021/2022", League: pl, Points: 69},
		{Team: "Arsenal", Season: "2022/2023", League: pl, Points: 84},
		{Team: "Arsenal", Season: "2023/2024", League: pl, Points: 89},
		{Team: "Arsenal", Season: "2024/2025", League: pl, Points: 74},
		{Team: "Leeds", Season: "2022/2023", League: ch, Points: 80},
		{Team: "Leeds", Season: "2023/2024", League: pl, Points: 40},
		{Team: "Leeds", Season: "2024/2025", League: pl, Points: 30},
	}
	ApplyLags(rows)
	ApplyPremierLeagueAverage(rows, 3)

	// Only Leeds 2023/2024 is a promoted row, so the fill value is 40
	assert.Equal(t, Some(40), rows[0].PrevPLAvgPoints)
	assert.Equal(t, Some(61), rows[1].PrevPLAvgPoints)
	assert.Equal(t, Some(65), rows[2].PrevPLAvgPoints)
	assert.InDelta(t, (61+69+84)/3.0, rows[3].PrevPLAvgPoints.Value, 1e-9)
	assert.InDelta(t, (69+84+89)/3.0, rows[4].PrevPLAvgPoints.Value, 1e-9)

	assert.Equal(t, Some(40), rows[5].PrevPLAvgPoints, "championship rows take the promoted mean")
	assert.Equal(t, Some(40), rows[6].PrevPLAvgPoints, "first PL season takes the promoted mean")
	assert.Equal(t, Some(40), rows[7].PrevPLAvgPoints)
}

func TestApplyPremierLeagueAverage_NoPromotedTeams(t *testing.T) {
	rows := []TeamSeason{{Team: "Arsenal", Season: "2020/2021", League: pl, Points: 61}}
	ApplyLags(rows)
	ApplyPremierLeagueAverage(rows, 3)
	assert.False(t, rows[0].PrevPLAvgPoints.Valid)
}

func TestApplySyntheticImpact(t *testing.T) {
	rows := []TeamSeason{
		{Team: "A", Points: 40},
		{Team: "A", Points: 50},
		{Team: "A", Points: 120},
		{Team: "A", Points: 0},
	}
	ApplySyntheticImpact(rows, 5, 10)

	assert.Equal(t, 0.0, rows[0].SyntheticTransferImpact)
	assert.Equal(t, 2.0, rows[1].SyntheticTransferImpact)
	assert.Equal(t, 10.0, rows[2].SyntheticTransferImpact)
	assert.Equal(t, -10.0, rows[3].SyntheticTransferImpact)
	for _, r := range rows {
		assert.GreaterOrEqual(t, r.SyntheticTransferImpact, -10.0)
		assert.LessOrEqual(t, r.SyntheticTransferImpact, 10.0)
	}
}

func TestApplyPromotion(t *testing.T) {
	rows := []TeamSeason{
		{PrevSeasonLeague: ch, League: pl},
		{PrevSeasonLeague: pl, League: pl},
		{PrevSeasonLeague: pl, League: ch},
		{PrevSeasonLeague: ch, League: ch},
		{PrevSeasonLeague: "", League: pl},
	}
	ApplyPromotion(rows)
	assert.Equal(t, 1, rows[0].PromotedFromChampionship)
	for _, r := range rows[1:] {
		assert.Equal(t, 0, r.PromotedFromChampionship)
	}
}

func TestBuild_EndToEnd(t *testing.T) {
	results := []matches.Result{
		// 2022/2023: Leeds in the Championship
		match("06/08/22", "Leeds", "Hull", 3, 0, ch),
		match("13/08/22", "Hull", "Leeds", 0, 1, ch),
		match("06/08/22", "Arsenal", "Chelsea", 2, 1, pl),
		match("13/08/22", "Chelsea", "Arsenal", 0, 0, pl),
		// 2023/2024: Leeds promoted
		match("12/08/23", "Arsenal", "Leeds", 1, 1, pl),
		match("19/08/23", "Leeds", "Chelsea", 2, 0, pl),
		match("26/08/23", "Chelsea", "Arsenal", 0, 4, pl),
	}

	rows := Build(results, Options{})
	require.Len(t, rows, 7)

	for _, r := range rows {
		assert.Equal(t, 3*r.Wins+r.Draws, r.Points, r.Team)
		assert.Equal(t, r.GoalsScored-r.GoalsConceded, r.GoalDifference, r.Team)
		assert.Equal(t, r.GamesPlayed, r.Wins+r.Draws+r.Losses, r.Team)
	}

	leeds := find(t, rows, "Leeds", "2023/2024")
	assert.Equal(t, 1, leeds.PromotedFromChampionship)
	assert.Equal(t, Some(6), leeds.PrevSeasonPoints)
	assert.Equal(t, ch, leeds.PrevSeasonLeague)
	assert.Equal(t, 4, leeds.Points)
	assert.Equal(t, Some(4), leeds.PrevPLAvgPoints, "promoted mean fills the first PL season")
	assert.InDelta(t, (4.0-6.0)/5, leeds.SyntheticTransferImpact, 1e-9)

	arsenal := find(t, rows, "Arsenal", "2023/2024")
	assert.Equal(t, Some(4), arsenal.PrevSeasonPoints)
	assert.Equal(t, Some(4), arsenal.PrevPLAvgPoints)
	assert.Equal(t, 1, arsenal.LeaguePosition)
}

func TestFillMissing(t *testing.T) {
	rows := []TeamSeason{{Team: "Leeds", PrevSeasonPoints: Some(38), XG: Some(1.5)}}
	FillMissing(rows)

	r := rows[0]
	assert.Equal(t, Some(38), r.PrevSeasonPoints)
	assert.Equal(t, Some(1.5), r.XG)
	assert.Equal(t, Some(0), r.PrevSeasonGD)
	assert.Equal(t, Some(0), r.PrevPLAvgPoints)
	assert.Equal(t, Some(0), r.PrevSeasonXGDiff)
	assert.Equal(t, "", r.PrevSeasonLeague)
}

func TestOptionsFromConfig(t *testing.T) {
	opts := OptionsFromConfig(config.FeaturesConfig{FormWindow: 5, RollingWindow: 2, ImpactScale: 4, ImpactClip: 8})
	assert.Equal(t, Options{FormWindow: 5, RollingWindow: 2, ImpactScale: 4, ImpactClip: 8}, opts)

	// Zero values fall back to the defaults
	assert.Equal(t, DefaultOptions(), OptionsFromConfig(config.FeaturesConfig{}).withDefaults())
}
