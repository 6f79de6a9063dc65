package config

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// Application constants
const (
	AppName    = "League Forecast"
	AppVersion = "1.0.0"

	// EnvPrefix namespaces every environment variable (LEAGUE_MODEL_TREES etc.)
	EnvPrefix = "LEAGUE"

	// League names as they appear in the League column
	LeaguePremier      = "Premier League"
	LeagueChampionship = "Championship"

	// Network
	DefaultHTTPTimeout     = 30 * time.Second
	DefaultDownloadBaseURL = "https://www.football-data.co.uk/mmz4281"

	// Feature engineering
	DefaultFormWindow    = 10
	DefaultRollingWindow = 3
	DefaultImpactScale   = 5.0
	DefaultImpactClip    = 10.0

	// Random forest
	DefaultTrees    = 1000
	DefaultMaxDepth = 25
	DefaultSeed     = 42

	// Forecast
	DefaultTargetSeason = "2024/2025"
	DefaultImpactFactor = 6.0

	// Well-known file names
	CombinedDataFile     = "combined_data.csv"
	FeaturesFile         = "final_features_with_form.csv"
	XGDataFile           = "xg_data.csv"
	CompleteFeaturesFile = "final_features_complete.csv"
	PredictionsFile      = "predicted_table.csv"
	PredictionsWorkbook  = "predicted_table.xlsx"
	EvaluationFile       = "evaluation.csv"
	EvaluationHistory    = "evaluation_history.csv"
	DefaultStoreFile     = "league.db"
)

// DefaultForecastTeams is the 2025/26 Premier League line-up
var DefaultForecastTeams = []string{
	"Arsenal", "Man City", "Liverpool", "Man United", "Chelsea", "Tottenham", "Aston Villa",
	"Newcastle", "West Ham", "Crystal Palace", "Brighton", "Fulham", "Wolves", "Everton",
	"Brentford", "Bournemouth", "Nott'm Forest",
	"Leeds", "Burnley", "Sunderland",
}

// LeagueDirs maps a league name to its raw data directory under data/
var LeagueDirs = map[string]string{
	LeaguePremier:      "premier_league",
	LeagueChampionship: "championship",
}

var seasonPattern = regexp.MustCompile(`^(\d{4})/(\d{4})$`)

// parseSeasonStrict checks the canonical YYYY/YYYY form and returns the first year
func parseSeasonStrict(season string) (int, error) {
	m := seasonPattern.FindStringSubmatch(season)
	if m == nil {
		return 0, fmt.Errorf("season %q must be in the form YYYY/YYYY", season)
	}
	first, _ := strconv.Atoi(m[1])
	second, _ := strconv.Atoi(m[2])
	if second != first+1 {
		return 0, fmt.Errorf("season %q must span consecutive years", season)
	}
	return first, nil
}

// ValidSeason reports whether season is a canonical "YYYY/YYYY" season
func ValidSeason(season string) bool {
	_, err := parseSeasonStrict(season)
	return err == nil
}
