package exporter

import (
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"time"

	"leagueforecast/internal/config"
	"leagueforecast/internal/forecast"
)

// StandingsHeaders are the predicted table columns
var StandingsHeaders = []string{
	"Position", "Team", "Predicted Points", "Predicted GF", "Predicted GA", "Predicted GD", "Transfer Impact",
}

// StandingsExporter handles predicted table and evaluation reports
type StandingsExporter struct {
	csvWriter *CSVWriter
}

// NewStandingsExporter creates a new standings exporter
func NewStandingsExporter(paths *config.Paths, logger *slog.Logger) *StandingsExporter {
	return &StandingsExporter{csvWriter: NewCSVWriter(paths, logger)}
}

// ExportStandings writes the predicted table with a BOM for Excel
func (s *StandingsExporter) ExportStandings(table []forecast.Standing, outputPath string) (string, error) {
	records := make([][]string, len(table))
	for i, st := range table {
		records[i] = standingRow(st)
	}
	return s.csvWriter.WriteCSV(outputPath, WriteOptions{
		Headers:   StandingsHeaders,
		Records:   records,
		BOMPrefix: true,
	})
}

func standingRow(st forecast.Standing) []string {
	return []string{
		formatInt(st.Position),
		st.Team,
		formatInt(st.Points),
		formatInt(st.GoalsFor),
		formatInt(st.GoalsAgainst),
		formatInt(st.GoalDifference),
		strconv.FormatFloat(st.TransferImpact, 'f', -1, 64),
	}
}

// ExportInputs writes the model inputs of each predicted team
func (s *StandingsExporter) ExportInputs(inputs []forecast.Input, outputPath string) (string, error) {
	headers := append([]string{"Team", "League", "transfer_impact"}, forecast.FeatureNames...)

	records := make([][]string, 0, len(inputs))
	for _, in := range inputs {
		row := []string{in.Team, in.League, strconv.FormatFloat(in.TransferImpact, 'f', -1, 64)}
		for _, v := range in.Vector {
			row = append(row, formatFloat(v))
		}
		records = append(records, row)
	}
	return s.csvWriter.WriteSimpleCSV(outputPath, headers, records)
}

var evaluationHeaders = []string{"Holdout Season", "Target", "Rows", "MAE", "RMSE", "R2"}

// ExportEvaluation writes one row per target with the hold-out errors
func (s *StandingsExporter) ExportEvaluation(eval *forecast.Evaluation, outputPath string) (string, error) {
	return s.csvWriter.WriteSimpleCSV(outputPath, evaluationHeaders, evaluationRows(eval))
}

// AppendEvaluationHistory adds the hold-out errors of one run to a running
// log, each row prefixed with the run time and the predicted season
func (s *StandingsExporter) AppendEvaluationHistory(eval *forecast.Evaluation, season string, at time.Time, outputPath string) (string, error) {
	headers := append([]string{"Run At", "Season"}, evaluationHeaders...)
	rows := evaluationRows(eval)
	stamp := at.UTC().Format(time.RFC3339)
	for i, row := range rows {
		rows[i] = append([]string{stamp, season}, row...)
	}
	return s.csvWriter.AppendToCSV(outputPath, headers, rows)
}

func evaluationRows(eval *forecast.Evaluation) [][]string {
	var records [][]string
	for _, target := range forecast.Targets {
		m, ok := eval.Metrics[target]
		if !ok {
			continue
		}
		records = append(records, []string{
			eval.HoldoutSeason, target, formatInt(m.N),
			formatFloat(m.MAE), formatFloat(m.RMSE), formatFloat(m.R2),
		})
	}
	return records
}

// ExportImportances writes feature importances, largest first
func (s *StandingsExporter) ExportImportances(importances map[string]float64, outputPath string) (string, error) {
	names := append([]string(nil), forecast.FeatureNames...)
	sort.SliceStable(names, func(i, j int) bool {
		return importances[names[i]] > importances[names[j]]
	})
	records := make([][]string, 0, len(names))
	for _, name := range names {
		if _, ok := importances[name]; !ok {
			continue
		}
		records = append(records, []string{name, fmt.Sprintf("%.4f", importances[name])})
	}
	return s.csvWriter.WriteSimpleCSV(outputPath, []string{"Feature", "Importance"}, records)
}
