package matches

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "leagueforecast/internal/errors"
	"leagueforecast/internal/shared/testutil"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func matchTable(rows ...[]string) *Table {
	return NewTable(RequiredColumns, rows)
}

func TestParser_Results(t *testing.T) {
	table := matchTable(
		[]string{"11/08/23", "Burnley", "Man City", "0", "3", "A", "Premier League"},
		[]string{"12/08/2023", "Arsenal", "Nott'm Forest", "2", "1", "H", "Premier League"},
		[]string{"", "", "", "", "", "", ""},
		[]string{"not a date", "Leeds", "Hull", "1", "1", "D", "Championship"},
		[]string{"13/08/23", "Leeds", "Leeds", "1", "1", "D", "Championship"},
		[]string{"14/08/23", "Hull", "Leeds", "1", "1", "X", "Championship"},
		[]string{"15/08/23", "Hull", "Leeds", "-1", "1", "A", "Championship"},
		[]string{"16/08/23", "Hull", "Leeds", "2.0", "1.0", "H", "Championship"},
	)

	results, skipped, err := NewParser(quietLogger()).Results(table)
	require.NoError(t, err)
	assert.Equal(t, 4, skipped)
	require.Len(t, results, 3)

	first := results[0]
	assert.Equal(t, "2023/2024", first.Season)
	assert.Equal(t, "Burnley", first.HomeTeam)
	assert.Equal(t, 3, first.AwayGoals)
	assert.Equal(t, AwayWin, first.Outcome)

	assert.Equal(t, 2, results[2].HomeGoals)
	assert.Equal(t, 1, results[2].AwayGoals)
}

func TestParser_LogsSkippedRows(t *testing.T) {
	logger, logs := testutil.NewTestLogger()
	table := matchTable(
		[]string{"11/08/23", "Burnley", "Man City", "0", "3", "A", "Premier League"},
		[]string{"31/02/23", "Leeds", "Hull", "1", "1", "D", "Championship"},
	)

	results, skipped, err := NewParser(logger).Results(table)
	require.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, 1, skipped)

	testutil.AssertLogContains(t, logs, slog.LevelWarn, "skipping match row")
	testutil.AssertLogAttr(t, logs, "row", int64(3))
	testutil.AssertNoErrors(t, logs)
}

func TestParser_MissingColumn(t *testing.T) {
	table := NewTable([]string{"Date", "HomeTeam"}, nil)
	_, _, err := NewParser(nil).Results(table)
	assert.ErrorIs(t, err, apperrors.ErrMissingColumn)
}

func TestResult_Points(t *testing.T) {
	r := Result{HomeTeam: "Arsenal", AwayTeam: "Chelsea", HomeGoals: 2, AwayGoals: 2, Outcome: Draw}
	assert.Equal(t, 1, r.PointsFor("Arsenal"))
	assert.Equal(t, 1, r.PointsFor("Chelsea"))
	assert.Equal(t, 0, r.PointsFor("Leeds"))

	r.Outcome = HomeWin
	assert.Equal(t, 3, r.PointsFor("Arsenal"))
	assert.Equal(t, 0, r.PointsFor("Chelsea"))

	r.Outcome = AwayWin
	assert.Equal(t, 0, r.PointsFor("Arsenal"))
	assert.Equal(t, 3, r.PointsFor("Chelsea"))

	scored, conceded := Result{HomeTeam: "A", AwayTeam: "B", HomeGoals: 4, AwayGoals: 1}.GoalsFor("B")
	assert.Equal(t, 1, scored)
	assert.Equal(t, 4, conceded)

	assert.True(t, r.Involves("Chelsea"))
	assert.False(t, r.Involves("Leeds"))
}
