package matches

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leagueforecast/internal/config"
	apperrors "leagueforecast/internal/errors"
)

func TestReadFile_Latin1AndLeague(t *testing.T) {
	path := filepath.Join(t.TempDir(), "E0_2324.csv")
	// 0xE9 is é in Latin-1; the file also starts with a UTF-8 BOM
	raw := []byte("\xef\xbb\xbfDiv,Date,HomeTeam,AwayTeam,FTHG,FTAG,FTR,Referee\n" +
		"E0,11/08/23,Burnley,Man City,0,3,A,C Pawson\n" +
		"E0,12/08/23,Arsenal,Nott'm Forest,2,1,H,M Oliver\xe9\n")
	require.NoError(t, os.WriteFile(path, raw, 0644))

	table, err := ReadFile(path, config.LeaguePremier)
	require.NoError(t, err)

	assert.Equal(t, []string{"Div", "Date", "HomeTeam", "AwayTeam", "FTHG", "FTAG", "FTR", "Referee", "League"}, table.Header)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "M Oliver\u00e9", table.Value(1, "Referee"))
	assert.Equal(t, config.LeaguePremier, table.Value(0, ColLeague))
	assert.Equal(t, "", table.Value(0, "Missing"))
}

func TestRead_HeaderCleanup(t *testing.T) {
	table, err := Read(strings.NewReader("Date,HomeTeam,,HomeTeam\n01/01/24,Leeds,,x\n02/01/24\n"))
	require.NoError(t, err)

	assert.Equal(t, []string{"Date", "HomeTeam", "Unnamed: 2", "HomeTeam.1"}, table.Header)
	// Short rows are padded to the header width
	assert.Equal(t, []string{"02/01/24", "", "", ""}, table.Rows[1])
}

func TestRead_Empty(t *testing.T) {
	table, err := Read(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, table.Header)
	assert.Empty(t, table.Rows)
}

func TestMerge(t *testing.T) {
	a := NewTable([]string{"Date", "HomeTeam", "B365H", "Unnamed: 3"}, [][]string{
		{"11/08/23", "Burnley", "8.0", ""},
	})
	a.AddColumn(ColLeague, config.LeaguePremier)

	b := NewTable([]string{"Date", "HomeTeam", "PSH"}, [][]string{
		{"04/08/23", "Sheffield Weds", "2.1"},
		{"05/08/23", "Blackburn", ""},
	})
	b.AddColumn(ColLeague, config.LeagueChampionship)

	merged := Merge(a, b)

	assert.Equal(t, []string{"Date", "HomeTeam", "B365H", "League", "PSH"}, merged.Header)
	require.Len(t, merged.Rows, 3)
	assert.Equal(t, []string{"11/08/23", "Burnley", "8.0", "Premier League", ""}, merged.Rows[0])
	assert.Equal(t, []string{"04/08/23", "Sheffield Weds", "", "Championship", "2.1"}, merged.Rows[1])
	assert.Equal(t, "Blackburn", merged.Value(2, ColHomeTeam))
}

func TestTable_Require(t *testing.T) {
	table := NewTable([]string{"Date", "HomeTeam"}, nil)
	assert.NoError(t, table.Require("Date"))

	err := table.Require(RequiredColumns...)
	assert.ErrorIs(t, err, apperrors.ErrMissingColumn)
}

func TestTable_WriteRoundTrip(t *testing.T) {
	table := NewTable([]string{"Date", "HomeTeam", "League"}, [][]string{
		{"11/08/23", "Nott'm Forest", "Premier League"},
		{"12/08/23", "Team, with comma", "Championship"},
	})

	path := filepath.Join(t.TempDir(), "out", "combined_data.csv")
	require.NoError(t, table.WriteFile(path))

	back, err := ReadCSVFile(path)
	require.NoError(t, err)
	assert.Equal(t, table.Header, back.Header)
	assert.Equal(t, table.Rows, back.Rows)

	var buf bytes.Buffer
	require.NoError(t, table.Write(&buf))
	assert.True(t, strings.HasPrefix(buf.String(), "Date,HomeTeam,League\n"))
}

func TestLeagueForDir(t *testing.T) {
	league, ok := LeagueForDir("/data/premier_league")
	assert.True(t, ok)
	assert.Equal(t, config.LeaguePremier, league)

	_, ok = LeagueForDir("/data/serie_a")
	assert.False(t, ok)
}
