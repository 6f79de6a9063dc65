package matches

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/charmap"

	"leagueforecast/internal/config"
	apperrors "leagueforecast/internal/errors"
)

// Column names used by the pipeline
const (
	ColDate     = "Date"
	ColHomeTeam = "HomeTeam"
	ColAwayTeam = "AwayTeam"
	ColFTHG     = "FTHG"
	ColFTAG     = "FTAG"
	ColFTR      = "FTR"
	ColLeague   = "League"
)

// RequiredColumns must be present in a merged match table
var RequiredColumns = []string{ColDate, ColHomeTeam, ColAwayTeam, ColFTHG, ColFTAG, ColFTR, ColLeague}

const (
	utf8BOM         = "\ufeff"
	utf8BOMAsLatin1 = "\u00ef\u00bb\u00bf"
)

// Table is a raw CSV table. Columns keep their file order and every row has
// exactly len(Header) cells.
type Table struct {
	Header []string
	Rows   [][]string

	index map[string]int
}

// NewTable creates a table from a header and rows, padding or truncating
// rows to the header width.
func NewTable(header []string, rows [][]string) *Table {
	t := &Table{Header: dedupeHeader(header)}
	for _, row := range rows {
		t.Rows = append(t.Rows, fitRow(row, len(t.Header)))
	}
	return t
}

// Index returns the position of column name, or -1
func (t *Table) Index(name string) int {
	if t.index == nil {
		t.index = make(map[string]int, len(t.Header))
		for i, h := range t.Header {
			t.index[h] = i
		}
	}
	if i, ok := t.index[name]; ok {
		return i
	}
	return -1
}

// Require checks that every column in names is present
func (t *Table) Require(names ...string) error {
	for _, name := range names {
		if t.Index(name) < 0 {
			return apperrors.MissingColumn("matches", name)
		}
	}
	return nil
}

// Value returns the cell of row i in column name, or "" when the column is absent
func (t *Table) Value(i int, name string) string {
	col := t.Index(name)
	if col < 0 {
		return ""
	}
	return t.Rows[i][col]
}

// AddColumn appends a column holding the same value in every row
func (t *Table) AddColumn(name, value string) {
	if col := t.Index(name); col >= 0 {
		for _, row := range t.Rows {
			row[col] = value
		}
		return
	}
	t.Header = append(t.Header, name)
	t.index = nil
	for i := range t.Rows {
		t.Rows[i] = append(t.Rows[i], value)
	}
}

// Read parses a UTF-8 CSV table
func Read(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return &Table{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = trimBOM(header[0])
	}

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(rows)+2, err)
		}
		rows = append(rows, record)
	}
	return NewTable(header, rows), nil
}

// ReadFile reads a raw football-data CSV. The file is decoded as Latin-1 and
// a League column holding league is appended.
func ReadFile(path, league string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	t, err := Read(charmap.ISO8859_1.NewDecoder().Reader(f))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	t.AddColumn(ColLeague, league)
	return t, nil
}

// ReadCSVFile reads a UTF-8 CSV written by WriteFile
func ReadCSVFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	t, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return t, nil
}

// Merge concatenates tables. The result carries the union of their columns in
// order of first appearance; cells of columns a table lacks are empty.
// Columns that are empty in every row are dropped.
func Merge(tables ...*Table) *Table {
	var header []string
	seen := make(map[string]int)
	for _, t := range tables {
		for _, h := range t.Header {
			if _, ok := seen[h]; !ok {
				seen[h] = len(header)
				header = append(header, h)
			}
		}
	}

	var rows [][]string
	for _, t := range tables {
		mapping := make([]int, len(t.Header))
		for i, h := range t.Header {
			mapping[i] = seen[h]
		}
		for _, src := range t.Rows {
			row := make([]string, len(header))
			for i, cell := range src {
				row[mapping[i]] = cell
			}
			rows = append(rows, row)
		}
	}

	merged := &Table{Header: header, Rows: rows}
	merged.DropEmptyColumns()
	return merged
}

// DropEmptyColumns removes columns whose cells are all blank
func (t *Table) DropEmptyColumns() {
	keep := make([]int, 0, len(t.Header))
	for col := range t.Header {
		for _, row := range t.Rows {
			if strings.TrimSpace(row[col]) != "" {
				keep = append(keep, col)
				break
			}
		}
	}
	if len(keep) == len(t.Header) {
		return
	}

	header := make([]string, len(keep))
	for i, col := range keep {
		header[i] = t.Header[col]
	}
	for r, row := range t.Rows {
		out := make([]string, len(keep))
		for i, col := range keep {
			out[i] = row[col]
		}
		t.Rows[r] = out
	}
	t.Header = header
	t.index = nil
}

// Write writes the table as UTF-8 CSV
func (t *Table) Write(w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(t.Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := writer.WriteAll(t.Rows); err != nil {
		return fmt.Errorf("write rows: %w", err)
	}
	return nil
}

// WriteFile writes the table to path, creating parent directories
func (t *Table) WriteFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := t.Write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// LeagueForDir maps a raw data directory name back to its league
func LeagueForDir(dir string) (string, bool) {
	base := filepath.Base(dir)
	for league, name := range config.LeagueDirs {
		if name == base {
			return league, true
		}
	}
	return "", false
}

func trimBOM(s string) string {
	s = strings.TrimPrefix(s, utf8BOM)
	return strings.TrimPrefix(s, utf8BOMAsLatin1)
}

// dedupeHeader names blank columns "Unnamed: N" and suffixes repeats with .1, .2
func dedupeHeader(header []string) []string {
	out := make([]string, len(header))
	counts := make(map[string]int)
	for i, h := range header {
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("Unnamed: %d", i)
		}
		if n := counts[h]; n > 0 {
			counts[h] = n + 1
			h = fmt.Sprintf("%s.%d", h, n)
		} else {
			counts[h] = 1
		}
		out[i] = h
	}
	return out
}

func fitRow(row []string, width int) []string {
	if len(row) == width {
		return row
	}
	out := make([]string, width)
	copy(out, row)
	return out
}
