package exporter

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"leagueforecast/internal/forecast"
)

// PrintStandings writes the predicted table as aligned text, the way the
// train command shows it on the console
func PrintStandings(w io.Writer, season string, table []forecast.Standing) error {
	title := fmt.Sprintf("Predicted Premier League table %s", season)
	if _, err := fmt.Fprintf(w, "%s\n%s\n", title, strings.Repeat("=", len(title))); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Pos\tTeam\tPts\tGF\tGA\tGD\tImpact\t")
	for _, st := range table {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\t%+d\t%s\t\n",
			st.Position, st.Team, st.Points, st.GoalsFor, st.GoalsAgainst, st.GoalDifference,
			formatFloat(st.TransferImpact))
	}
	return tw.Flush()
}
