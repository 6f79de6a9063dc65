package exporter

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"leagueforecast/internal/config"
	"leagueforecast/internal/features"
	"leagueforecast/internal/matches"
)

// FeatureExporter writes team-season feature tables
type FeatureExporter struct {
	csvWriter *CSVWriter
}

// NewFeatureExporter creates a feature table exporter
func NewFeatureExporter(paths *config.Paths, logger *slog.Logger) *FeatureExporter {
	return &FeatureExporter{csvWriter: NewCSVWriter(paths, logger)}
}

// ExportFeatures streams the whole table to outputPath in the layout
// features.ReadCSV reads, and returns the resolved path
func (e *FeatureExporter) ExportFeatures(rows []features.TeamSeason, withXG bool, outputPath string) (string, error) {
	stream, err := e.csvWriter.CreateStreamWriter(outputPath, features.Header(withXG), false)
	if err != nil {
		return "", fmt.Errorf("failed to create feature stream: %w", err)
	}
	for _, r := range rows {
		if err := stream.WriteRecord(r.Record(withXG)); err != nil {
			stream.Close()
			return "", fmt.Errorf("failed to write %s %s: %w", r.Team, r.Season, err)
		}
	}
	if err := stream.Close(); err != nil {
		return "", fmt.Errorf("failed to close feature stream: %w", err)
	}
	return stream.Path(), nil
}

// ExportSeasonTables writes one file per season into outputDir, named
// features_2023_2024.csv, each ordered by league then position. Returns
// the written paths in season order.
func (e *FeatureExporter) ExportSeasonTables(rows []features.TeamSeason, withXG bool, outputDir string) ([]string, error) {
	bySeason := make(map[string][]features.TeamSeason)
	var seasons []string
	for _, r := range rows {
		if _, ok := bySeason[r.Season]; !ok {
			seasons = append(seasons, r.Season)
		}
		bySeason[r.Season] = append(bySeason[r.Season], r)
	}
	matches.SortSeasons(seasons)

	var written []string
	for _, season := range seasons {
		seasonRows := SortStandings(bySeason[season])

		records := features.Records(seasonRows, withXG)
		filename := fmt.Sprintf("features_%s.csv", strings.ReplaceAll(season, "/", "_"))
		path, err := e.csvWriter.WriteSimpleCSV(filepath.Join(outputDir, filename), features.Header(withXG), records)
		if err != nil {
			return nil, fmt.Errorf("failed to write season table for %s: %w", season, err)
		}
		written = append(written, path)
	}
	return written, nil
}

// SortStandings returns a copy ordered Premier League first, then by
// league position and team
func SortStandings(rows []features.TeamSeason) []features.TeamSeason {
	out := append([]features.TeamSeason(nil), rows...)
	leagueRank := func(l string) int {
		if l == config.LeaguePremier {
			return 0
		}
		return 1
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if leagueRank(a.League) != leagueRank(b.League) {
			return leagueRank(a.League) < leagueRank(b.League)
		}
		if a.LeaguePosition != b.LeaguePosition {
			return a.LeaguePosition < b.LeaguePosition
		}
		return a.Team < b.Team
	})
	return out
}
