package app

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"leagueforecast/internal/pipeline"
)

var stepOrder = []string{
	pipeline.StepIDMerge,
	pipeline.StepIDFeatures,
	pipeline.StepIDXG,
	pipeline.StepIDTrain,
}

// WriteSummary prints the step outcomes and output files of a run
func WriteSummary(w io.Writer, state *pipeline.State) error {
	resp := state.Response()

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Run %s: %s (%s)\n", resp.ID, resp.Status, resp.Duration.Round(time.Millisecond))
	for _, id := range stepOrder {
		st, ok := resp.Steps[id]
		if !ok {
			continue
		}
		detail := st.Message
		if st.Error != "" {
			detail = st.Error
		}
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", id, st.CurrentStatus(),
			st.Duration().Round(time.Millisecond), detail)
	}

	names := make([]string, 0, len(resp.Outputs))
	for name := range resp.Outputs {
		names = append(names, name)
	}
	sort.Strings(names)
	if len(names) > 0 {
		fmt.Fprintln(tw, "Outputs:")
	}
	for _, name := range names {
		fmt.Fprintf(tw, "  %s\t%s\n", name, resp.Outputs[name])
	}
	return tw.Flush()
}

// SplitList splits a comma separated flag value, dropping blanks
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
