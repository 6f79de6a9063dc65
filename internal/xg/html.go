package xg

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	apperrors "leagueforecast/internal/errors"
	"leagueforecast/internal/matches"
	"leagueforecast/internal/validation"
)

// HTML header cells read from a squad stats table
const (
	htmlSquad = "Squad"
	htmlXG    = "xG"
	htmlXGA   = "xGA"
)

// DefaultAliases maps fbref squad names to the names football-data uses
var DefaultAliases = map[string]string{
	"Manchester City":   "Man City",
	"Manchester Utd":    "Man United",
	"Manchester United": "Man United",
	"Newcastle Utd":     "Newcastle",
	"Nott'ham Forest":   "Nott'm Forest",
	"Nottingham Forest": "Nott'm Forest",
	"Tottenham Hotspur": "Tottenham",
	"Wolverhampton":     "Wolves",
	"West Ham United":   "West Ham",
	"Brighton & Hove":   "Brighton",
	"Sheffield Utd":     "Sheffield United",
	"Leeds United":      "Leeds",
	"Leicester City":    "Leicester",
	"Luton Town":        "Luton",
	"Ipswich Town":      "Ipswich",
	"Norwich City":      "Norwich",
	"Stoke City":        "Stoke",
	"Hull City":         "Hull",
	"Cardiff City":      "Cardiff",
	"Swansea City":      "Swansea",
	"Coventry City":     "Coventry",
}

// HTMLOptions controls ParseHTMLTable
type HTMLOptions struct {
	// Selector picks candidate tables; default "table"
	Selector string
	// Aliases renames squads; nil means DefaultAliases
	Aliases map[string]string
}

// ParseHTMLTable extracts records from the first table matched by
// opts.Selector that has Squad, xG and xGA header cells. Every record is
// assigned season. Rows without a squad or with non-numeric figures are
// ignored.
func ParseHTMLTable(r io.Reader, season string, opts HTMLOptions) ([]Record, error) {
	season, _, err := matches.ParseSeason(season)
	if err != nil {
		return nil, err
	}
	if opts.Selector == "" {
		opts.Selector = "table"
	}
	if opts.Aliases == nil {
		opts.Aliases = DefaultAliases
	}

	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, apperrors.NewParsingError("failed to parse HTML", err)
	}

	var (
		records []Record
		found   bool
	)
	validate := validation.NewStructValidator()

	doc.Find(opts.Selector).EachWithBreak(func(_ int, table *goquery.Selection) bool {
		cols := headerColumns(table)
		squad, okSquad := cols[htmlSquad]
		xgCol, okXG := cols[htmlXG]
		xgaCol, okXGA := cols[htmlXGA]
		if !okSquad || !okXG || !okXGA {
			return true
		}
		found = true

		table.Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
			if row.HasClass("thead") || row.HasClass("spacer") {
				return
			}
			var cells []string
			row.Children().Each(func(_ int, cell *goquery.Selection) {
				cells = append(cells, strings.TrimSpace(cell.Text()))
			})
			if squad >= len(cells) || xgCol >= len(cells) || xgaCol >= len(cells) {
				return
			}

			team := normaliseSquad(cells[squad], opts.Aliases)
			xg, errXG := parseFloat(cells[xgCol])
			xga, errXGA := parseFloat(cells[xgaCol])
			if team == "" || errXG != nil || errXGA != nil {
				return
			}
			rec := Record{Team: team, Season: season, XG: xg, XGA: xga}
			if validate.Struct(rec) != nil {
				return
			}
			records = append(records, rec)
		})
		return false
	})

	if !found {
		return nil, fmt.Errorf("no table with %s, %s and %s columns: %w",
			htmlSquad, htmlXG, htmlXGA, apperrors.ErrMissingColumn)
	}
	return records, nil
}

// headerColumns maps header text to column index using the last header
// row, which holds the column names when fbref adds a grouping row above.
// The first occurrence of a name wins.
func headerColumns(table *goquery.Selection) map[string]int {
	cols := make(map[string]int)
	header := table.Find("thead tr").Last()
	if header.Length() == 0 {
		header = table.Find("tr").First()
	}
	header.Children().Each(func(i int, cell *goquery.Selection) {
		name := strings.TrimSpace(cell.Text())
		if _, seen := cols[name]; !seen && name != "" {
			cols[name] = i
		}
	})
	return cols
}

// normaliseSquad strips the "vs " prefix of opponent tables and applies
// aliases
func normaliseSquad(name string, aliases map[string]string) string {
	name = strings.TrimSpace(strings.TrimPrefix(name, "vs "))
	if alias, ok := aliases[name]; ok {
		return alias
	}
	return name
}
