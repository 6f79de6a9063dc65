package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// SeasonHeader is the minimal football-data.co.uk header the parser needs
const SeasonHeader = "Date,HomeTeam,AwayTeam,FTHG,FTAG,FTR"

// SeasonCSV renders a double round robin for teams, one match a week from
// 10 August of year. Scores are a deterministic function of the pairing.
func SeasonCSV(year int, teams []string) string {
	var b strings.Builder
	b.WriteString(SeasonHeader + "\n")
	day := time.Date(year, time.August, 10, 0, 0, 0, 0, time.UTC)
	for i, home := range teams {
		for j, away := range teams {
			if i == j {
				continue
			}
			hg := (i + 2*j + year) % 4
			ag := (2*i + j + year) % 3
			result := "D"
			if hg > ag {
				result = "H"
			} else if hg < ag {
				result = "A"
			}
			fmt.Fprintf(&b, "%s,%s,%s,%d,%d,%s\n", day.Format("02/01/06"), home, away, hg, ag, result)
			day = day.AddDate(0, 0, 7)
		}
	}
	return b.String()
}

// WriteSeason writes SeasonCSV(year, teams) to dir/name
func WriteSeason(t *testing.T, dir, name string, year int, teams []string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(SeasonCSV(year, teams)), 0644))
	return path
}

// SeasonCode is the football-data.co.uk file code of the season starting in
// year, e.g. 2324
func SeasonCode(year int) string {
	return fmt.Sprintf("%02d%02d", year%100, (year+1)%100)
}
