package forecast

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v2"
)

// ImpactSource supplies a transfer impact per team
type ImpactSource interface {
	Impacts(ctx context.Context, teams []string) (Impacts, error)
}

// Impacts maps team to transfer impact. Teams not listed have impact 0.
type Impacts map[string]float64

// Impacts returns the listed teams' values, so a fixed map is itself a source
func (m Impacts) Impacts(_ context.Context, teams []string) (Impacts, error) {
	out := make(Impacts, len(teams))
	for _, team := range teams {
		out[team] = m[team]
	}
	return out, nil
}

// For returns team's impact or 0
func (m Impacts) For(team string) float64 {
	return m[team]
}

// impactFile is the YAML layout:
//
//	impacts:
//	  Arsenal: 3
//	  Chelsea: -2.5
type impactFile struct {
	Impacts map[string]float64 `yaml:"impacts"`
}

// LoadImpacts reads a YAML impact file. A bare team: value mapping is
// accepted as well as one nested under "impacts".
func LoadImpacts(path string) (Impacts, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read impacts: %w", err)
	}

	var file impactFile
	if err := yaml.Unmarshal(data, &file); err == nil && file.Impacts != nil {
		return checkImpacts(file.Impacts)
	}

	var flat map[string]float64
	if err := yaml.Unmarshal(data, &flat); err != nil {
		return nil, fmt.Errorf("parse impacts %s: %w", path, err)
	}
	return checkImpacts(flat)
}

func checkImpacts(m map[string]float64) (Impacts, error) {
	out := make(Impacts, len(m))
	for team, v := range m {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("impact for %s is not a finite number", team)
		}
		out[team] = v
	}
	return out, nil
}

// Prompt texts
const (
	promptFormat   = "Enter transfer impact for %s: "
	invalidMessage = "Invalid input. Please enter a number or press Enter for 0."
)

// Prompter asks for each team's impact on a console. An empty answer
// means 0; anything that is not a finite number is asked again. At end of
// input every remaining team gets 0.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPrompter reads answers from in and writes prompts to out
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// Impacts prompts once per team, in the order given
func (p *Prompter) Impacts(ctx context.Context, teams []string) (Impacts, error) {
	fmt.Fprintln(p.out, "\n--- Interactive Transfer Impact Input ---")
	fmt.Fprintln(p.out, "Enter a numerical impact for each team's transfers.")
	fmt.Fprintln(p.out, "Example: 5 for a major signing, -5 for losing a star player, 0 for no change.")
	fmt.Fprintln(p.out, "Press Enter to use a default of 0.")

	out := make(Impacts, len(teams))
	eof := false
	for _, team := range teams {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if eof {
			out[team] = 0
			continue
		}

		for {
			fmt.Fprintf(p.out, promptFormat, team)
			line, err := p.in.ReadString('\n')
			if err != nil && !errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("read impact for %s: %w", team, err)
			}
			if errors.Is(err, io.EOF) {
				eof = true
			}

			v, ok := parseImpact(line)
			if ok {
				out[team] = v
				break
			}
			if eof {
				out[team] = 0
				break
			}
			fmt.Fprintln(p.out, invalidMessage)
		}
	}
	if eof {
		fmt.Fprintln(p.out)
	}
	return out, nil
}

// parseImpact accepts a blank line as 0 or a finite number
func parseImpact(line string) (float64, bool) {
	s := strings.TrimSpace(line)
	if s == "" {
		return 0, true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
