package xg

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "leagueforecast/internal/errors"
	"leagueforecast/internal/matches"
	"leagueforecast/internal/validation"
)

// Column names of the xG input file
const (
	ColTeam   = "Team"
	ColSeason = "Season"
	ColXG     = "xG"
	ColXGA    = "xGA"
)

// Record is one team's expected goals for and against over a season
type Record struct {
	Team   string  `validate:"required"`
	Season string  `validate:"season"`
	XG     float64 `validate:"gte=0"`
	XGA    float64 `validate:"gte=0"`
}

// Key identifies the team-season a record belongs to
func (r Record) Key() string {
	return r.Team + "|" + r.Season
}

// Embedded returns a copy of the built-in dataset
func Embedded() []Record {
	return append([]Record(nil), embedded...)
}

// Overlay returns base with every record in updates replacing the base
// record of the same team-season. Updates for new team-seasons are appended
// in their given order.
func Overlay(base, updates []Record) []Record {
	out := append([]Record(nil), base...)
	at := make(map[string]int, len(out))
	for i, rec := range out {
		at[rec.Key()] = i
	}
	for _, rec := range updates {
		if i, ok := at[rec.Key()]; ok {
			out[i] = rec
			continue
		}
		at[rec.Key()] = len(out)
		out = append(out, rec)
	}
	return out
}

// LoadCSV reads Team,Season,xG,xGA records. Seasons may be written in any
// form matches.ParseSeason accepts and are normalised to "YYYY/YYYY".
func LoadCSV(path string, logger *slog.Logger) ([]Record, error) {
	if logger == nil {
		logger = slog.Default()
	}

	table, err := matches.ReadCSVFile(path)
	if err != nil {
		return nil, err
	}
	for _, col := range []string{ColTeam, ColSeason, ColXG, ColXGA} {
		if table.Index(col) < 0 {
			return nil, apperrors.MissingColumn("xg", col)
		}
	}

	validate := validation.NewStructValidator()
	var records []Record
	for i := range table.Rows {
		rec, err := recordFromRow(table, i, validate)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", path, i+2, err)
		}
		records = append(records, rec)
	}

	logger.Info("Loaded xG records",
		slog.String("file", path),
		slog.Int("records", len(records)))
	return records, nil
}

func recordFromRow(table *matches.Table, i int, validate *validator.Validate) (Record, error) {
	season, _, err := matches.ParseSeason(table.Value(i, ColSeason))
	if err != nil {
		return Record{}, err
	}
	xg, err := parseFloat(table.Value(i, ColXG))
	if err != nil {
		return Record{}, fmt.Errorf("column %q: %w", ColXG, err)
	}
	xga, err := parseFloat(table.Value(i, ColXGA))
	if err != nil {
		return Record{}, fmt.Errorf("column %q: %w", ColXGA, err)
	}

	rec := Record{
		Team:   strings.TrimSpace(table.Value(i, ColTeam)),
		Season: season,
		XG:     xg,
		XGA:    xga,
	}
	if err := validate.Struct(rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// WriteCSV saves records in the layout LoadCSV reads
func WriteCSV(path string, records []Record) error {
	rows := make([][]string, len(records))
	for i, r := range records {
		rows[i] = []string{
			r.Team,
			r.Season,
			strconv.FormatFloat(r.XG, 'f', -1, 64),
			strconv.FormatFloat(r.XGA, 'f', -1, 64),
		}
	}
	return matches.NewTable([]string{ColTeam, ColSeason, ColXG, ColXGA}, rows).WriteFile(path)
}

func parseFloat(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	return strconv.ParseFloat(s, 64)
}
