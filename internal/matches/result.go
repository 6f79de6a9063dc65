package matches

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"leagueforecast/internal/validation"
)

// Outcome codes in the FTR column
const (
	HomeWin = "H"
	Draw    = "D"
	AwayWin = "A"
)

// Result is one validated match
type Result struct {
	Date      time.Time `validate:"required"`
	Season    string    `validate:"season"`
	HomeTeam  string    `validate:"required"`
	AwayTeam  string    `validate:"required,nefield=HomeTeam"`
	HomeGoals int       `validate:"gte=0"`
	AwayGoals int       `validate:"gte=0"`
	Outcome   string    `validate:"oneof=H D A"`
	League    string    `validate:"required"`
}

// Involves reports whether team played in the match
func (r Result) Involves(team string) bool {
	return r.HomeTeam == team || r.AwayTeam == team
}

// PointsFor returns 3, 1 or 0 for team, and 0 when the team did not play
func (r Result) PointsFor(team string) int {
	switch {
	case r.HomeTeam == team:
		switch r.Outcome {
		case HomeWin:
			return 3
		case Draw:
			return 1
		}
	case r.AwayTeam == team:
		switch r.Outcome {
		case AwayWin:
			return 3
		case Draw:
			return 1
		}
	}
	return 0
}

// GoalsFor returns goals scored and conceded by team in the match
func (r Result) GoalsFor(team string) (scored, conceded int) {
	switch team {
	case r.HomeTeam:
		return r.HomeGoals, r.AwayGoals
	case r.AwayTeam:
		return r.AwayGoals, r.HomeGoals
	}
	return 0, 0
}

// Parser converts table rows into Results
type Parser struct {
	validate *validator.Validate
	logger   *slog.Logger
}

// NewParser creates a row parser. A nil logger uses slog.Default().
func NewParser(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{
		validate: validation.NewStructValidator(),
		logger:   logger.With(slog.String("component", "matches")),
	}
}

// Results converts every row of t. Blank rows are ignored; rows with an
// unparseable date or invalid fields are skipped with a warning and counted
// in skipped.
func (p *Parser) Results(t *Table) (results []Result, skipped int, err error) {
	if err := t.Require(RequiredColumns...); err != nil {
		return nil, 0, err
	}

	cols := make(map[string]int, len(RequiredColumns))
	for _, name := range RequiredColumns {
		cols[name] = t.Index(name)
	}

	for i, row := range t.Rows {
		if blankRow(row) {
			continue
		}
		res, err := p.parseRow(row, cols)
		if err != nil {
			skipped++
			p.logger.Warn("skipping match row",
				slog.Int("row", i+2),
				slog.String("error", err.Error()))
			continue
		}
		results = append(results, res)
	}
	return results, skipped, nil
}

func (p *Parser) parseRow(row []string, cols map[string]int) (Result, error) {
	date, err := ParseDate(row[cols[ColDate]])
	if err != nil {
		return Result{}, err
	}

	home, err := parseGoals(row[cols[ColFTHG]])
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", ColFTHG, err)
	}
	away, err := parseGoals(row[cols[ColFTAG]])
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", ColFTAG, err)
	}

	res := Result{
		Date:      date,
		Season:    SeasonFor(date),
		HomeTeam:  strings.TrimSpace(row[cols[ColHomeTeam]]),
		AwayTeam:  strings.TrimSpace(row[cols[ColAwayTeam]]),
		HomeGoals: home,
		AwayGoals: away,
		Outcome:   strings.TrimSpace(row[cols[ColFTR]]),
		League:    strings.TrimSpace(row[cols[ColLeague]]),
	}
	if err := p.validate.Struct(res); err != nil {
		return Result{}, fmt.Errorf("invalid match: %w", err)
	}
	return res, nil
}

// parseGoals accepts integers and the "2.0" form pandas writes for
// integer columns that contained blanks.
func parseGoals(s string) (int, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int(f)) {
		return 0, fmt.Errorf("invalid goal count %q", s)
	}
	return int(f), nil
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
