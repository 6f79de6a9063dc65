package xg

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "leagueforecast/internal/errors"
	"leagueforecast/internal/features"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestEmbedded(t *testing.T) {
	records := Embedded()
	require.Len(t, records, 100)

	teams := map[string]int{}
	seen := map[string]bool{}
	for _, r := range records {
		teams[r.Team]++
		assert.False(t, seen[r.Key()], "duplicate %s", r.Key())
		seen[r.Key()] = true
		assert.Regexp(t, `^20(20|21|22|23|24)/20(21|22|23|24|25)$`, r.Season)
	}
	assert.Len(t, teams, 20)
	for team, n := range teams {
		assert.Equal(t, 5, n, team)
	}

	assert.Contains(t, records, Record{Team: "Arsenal", Season: "2024/2025", XG: 59.9, XGA: 34.4})

	// Callers get a copy
	records[0].XG = -1
	assert.NotEqual(t, -1.0, Embedded()[0].XG)
}

func TestLoadCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "xg_data.csv")
	require.NoError(t, os.WriteFile(path, []byte(
		"Team,Season,xG,xGA\n"+
			"Arsenal,2023-24,76.1,27.9\n"+
			"Leeds,2022/2023,\"1,045.5\",60\n"), 0644))

	records, err := LoadCSV(path, quietLogger())
	require.NoError(t, err)
	assert.Equal(t, []Record{
		{Team: "Arsenal", Season: "2023/2024", XG: 76.1, XGA: 27.9},
		{Team: "Leeds", Season: "2022/2023", XG: 1045.5, XGA: 60},
	}, records)
}

func TestLoadCSV_Errors(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(content), 0644))
		return p
	}

	_, err := LoadCSV(write("nocol.csv", "Team,Season,xG\nA,2023/2024,1\n"), quietLogger())
	assert.ErrorIs(t, err, apperrors.ErrMissingColumn)

	_, err = LoadCSV(write("season.csv", "Team,Season,xG,xGA\nA,23,1,1\n"), quietLogger())
	assert.ErrorContains(t, err, "row 2")

	_, err = LoadCSV(write("neg.csv", "Team,Season,xG,xGA\nA,2023/2024,-1,1\n"), quietLogger())
	assert.Error(t, err)

	_, err = LoadCSV(write("team.csv", "Team,Season,xG,xGA\n,2023/2024,1,1\n"), quietLogger())
	assert.Error(t, err)
}

func TestWriteCSV_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "xg.csv")
	records := Embedded()[:3]
	require.NoError(t, WriteCSV(path, records))

	back, err := LoadCSV(path, quietLogger())
	require.NoError(t, err)
	assert.Equal(t, records, back)
}

const fbrefPage = `<html><body>
<table id="other"><thead><tr><th>Player</th><th>Goals</th></tr></thead></table>
<table id="results_overall">
<thead>
  <tr><th></th><th colspan="3">Expected</th></tr>
  <tr><th>Rk</th><th>Squad</th><th>MP</th><th>xG</th><th>xGA</th><th>xGD</th></tr>
</thead>
<tbody>
  <tr><th>1</th><td><a href="/squads/1">Liverpool</a></td><td>38</td><td>82.2</td><td>38.5</td><td>+43.7</td></tr>
  <tr class="thead"><th>Rk</th><td>Squad</td><td>MP</td><td>xG</td><td>xGA</td><td>xGD</td></tr>
  <tr><th>2</th><td>Manchester City</td><td>38</td><td>68.1</td><td>47.7</td><td>+20.4</td></tr>
  <tr><th>3</th><td>vs Nott'ham Forest</td><td>38</td><td>51.5</td><td>52.2</td><td>-0.7</td></tr>
  <tr><th>4</th><td></td><td>38</td><td>1</td><td>1</td><td>0</td></tr>
  <tr><th>5</th><td>Brentford</td><td>38</td><td>n/a</td><td>1</td><td>0</td></tr>
</tbody>
</table>
</body></html>`

func TestParseHTMLTable(t *testing.T) {
	records, err := ParseHTMLTable(strings.NewReader(fbrefPage), "2024-25", HTMLOptions{})
	require.NoError(t, err)
	assert.Equal(t, []Record{
		{Team: "Liverpool", Season: "2024/2025", XG: 82.2, XGA: 38.5},
		{Team: "Man City", Season: "2024/2025", XG: 68.1, XGA: 47.7},
		{Team: "Nott'm Forest", Season: "2024/2025", XG: 51.5, XGA: 52.2},
	}, records)
}

func TestParseHTMLTable_SelectorAndAliases(t *testing.T) {
	records, err := ParseHTMLTable(strings.NewReader(fbrefPage), "2024/2025", HTMLOptions{
		Selector: "table#results_overall",
		Aliases:  map[string]string{"Liverpool": "LFC"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, records)
	assert.Equal(t, "LFC", records[0].Team)
	assert.Equal(t, "Manchester City", records[1].Team)
}

func TestParseHTMLTable_Errors(t *testing.T) {
	_, err := ParseHTMLTable(strings.NewReader(fbrefPage), "2024", HTMLOptions{})
	assert.Error(t, err)

	_, err = ParseHTMLTable(strings.NewReader("<table><tr><th>Squad</th></tr></table>"), "2024/2025", HTMLOptions{})
	assert.ErrorIs(t, err, apperrors.ErrMissingColumn)
}

func TestOverlay(t *testing.T) {
	base := []Record{
		{Team: "Arsenal", Season: "2023/2024", XG: 76.1, XGA: 27.9},
		{Team: "Arsenal", Season: "2024/2025", XG: 59.9, XGA: 34.4},
	}
	out := Overlay(base, []Record{
		{Team: "Arsenal", Season: "2024/2025", XG: 61.0, XGA: 33.0},
		{Team: "Ipswich", Season: "2024/2025", XG: 35.2, XGA: 70.1},
	})

	assert.Equal(t, []Record{
		{Team: "Arsenal", Season: "2023/2024", XG: 76.1, XGA: 27.9},
		{Team: "Arsenal", Season: "2024/2025", XG: 61.0, XGA: 33.0},
		{Team: "Ipswich", Season: "2024/2025", XG: 35.2, XGA: 70.1},
	}, out)
	assert.Equal(t, 59.9, base[1].XG)
}

func TestMerge(t *testing.T) {
	rows := []features.TeamSeason{
		{Team: "Arsenal", Season: "2022/2023", Points: 84},
		{Team: "Leeds", Season: "2022/2023", Points: 31},
		{Team: "Arsenal", Season: "2023/2024", Points: 89, PrevSeasonPoints: features.Some(84)},
		{Team: "Leeds", Season: "2023/2024", Points: 90, PrevSeasonPoints: features.Some(31)},
	}
	records := []Record{
		{Team: "Arsenal", Season: "2022/2023", XG: 71.6, XGA: 42.0},
		{Team: "Arsenal", Season: "2023/2024", XG: 76.1, XGA: 27.9},
		{Team: "Leeds", Season: "2023/2024", XG: 60, XGA: 40},
		{Team: "Burnley", Season: "2023/2024", XG: 35, XGA: 70},
	}

	merged, err := Merge(rows, records)
	require.NoError(t, err)
	require.Len(t, merged, len(rows), "left join keeps every feature row and nothing else")

	arsenal := merged[2]
	assert.Equal(t, features.Some(76.1), arsenal.XG)
	assert.InDelta(t, 48.2, arsenal.XGDiff.Value, 1e-9)
	assert.Equal(t, features.Some(71.6), arsenal.PrevSeasonXG)
	assert.InDelta(t, 29.6, arsenal.PrevSeasonXGDiff.Value, 1e-9)
	assert.Equal(t, features.Some(84), arsenal.PrevSeasonPoints)

	// Missing records and first seasons are zero-filled
	leeds22 := merged[1]
	assert.Equal(t, features.Some(0), leeds22.XG)
	assert.Equal(t, features.Some(0), leeds22.PrevSeasonXG)
	assert.Equal(t, features.Some(0), leeds22.PrevSeasonPoints)

	leeds23 := merged[3]
	assert.Equal(t, features.Some(20), leeds23.XGDiff)
	assert.Equal(t, features.Some(0), leeds23.PrevSeasonXGDiff)

	// Input rows are untouched
	assert.False(t, rows[0].XG.Valid)
	assert.Equal(t, 3, Coverage(rows, records))
}

func TestMerge_Duplicate(t *testing.T) {
	rec := Record{Team: "Arsenal", Season: "2023/2024", XG: 1, XGA: 1}
	_, err := Merge(nil, []Record{rec, rec})
	assert.ErrorIs(t, err, apperrors.ErrDuplicateXG)
}
