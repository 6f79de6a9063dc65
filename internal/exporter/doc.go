// Package exporter writes pipeline outputs as CSV and XLSX reports.
//
// CSVWriter is the core writer, with headers, append mode, streaming and
// an optional UTF-8 BOM for Excel. Relative paths resolve into the reports
// directory; a "cache/" prefix resolves into the cache directory.
//
// FeatureExporter writes the team-season feature table, whole or split
// into one file per season. StandingsExporter writes the predicted table,
// the model inputs behind it and hold-out evaluation metrics.
// WriteStandingsXLSX renders the predicted table as a workbook.
//
// Example usage:
//
//	standings := exporter.NewStandingsExporter(paths, logger)
//	err := standings.ExportStandings(result.Standings, "predicted_table.csv")
package exporter
