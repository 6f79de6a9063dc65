package matches

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Date layouts used by football-data.co.uk. Older files use two-digit years.
var dateLayouts = []string{"02/01/06", "02/01/2006"}

// ParseDate parses a match date in dd/mm/yy or dd/mm/yyyy form
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}

// SeasonFor returns the season a match date belongs to. Seasons start in
// August, so dates before August belong to the season that started the
// previous year.
func SeasonFor(date time.Time) string {
	y := date.Year()
	if date.Month() < time.August {
		return FormatSeason(y - 1)
	}
	return FormatSeason(y)
}

// FormatSeason renders the season starting in year as "YYYY/YYYY"
func FormatSeason(startYear int) string {
	return fmt.Sprintf("%d/%d", startYear, startYear+1)
}

var seasonForms = regexp.MustCompile(`^(\d{4})\s*[/-]\s*(\d{2}|\d{4})$`)

// ParseSeason normalises "2024/2025", "2024-2025", "2024/25" and "2024-25"
// to "2024/2025" and returns the start year.
func ParseSeason(s string) (string, int, error) {
	m := seasonForms.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return "", 0, fmt.Errorf("unrecognised season %q", s)
	}
	start, _ := strconv.Atoi(m[1])
	end, _ := strconv.Atoi(m[2])
	if len(m[2]) == 2 {
		end += (start / 100) * 100
		if end < start {
			end += 100
		}
	}
	if end != start+1 {
		return "", 0, fmt.Errorf("season %q does not span consecutive years", s)
	}
	return FormatSeason(start), start, nil
}

// SeasonStart returns the first year of a "YYYY/YYYY" season, or -1 when the
// season is malformed.
func SeasonStart(season string) int {
	_, start, err := ParseSeason(season)
	if err != nil {
		return -1
	}
	return start
}

// ShortCode returns the four digit code football-data uses in URLs, "2425"
// for "2024/2025".
func ShortCode(season string) (string, error) {
	_, start, err := ParseSeason(season)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%02d%02d", start%100, (start+1)%100), nil
}

// PreviousSeason returns the season before season
func PreviousSeason(season string) (string, error) {
	_, start, err := ParseSeason(season)
	if err != nil {
		return "", err
	}
	return FormatSeason(start - 1), nil
}

// SortSeasons orders seasons chronologically in place
func SortSeasons(seasons []string) {
	sort.SliceStable(seasons, func(i, j int) bool {
		return SeasonStart(seasons[i]) < SeasonStart(seasons[j])
	})
}
