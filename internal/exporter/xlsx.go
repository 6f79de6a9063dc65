package exporter

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"leagueforecast/internal/forecast"
)

const standingsSheet = "Predicted Table"

// WriteStandingsXLSX saves the predicted table as a workbook with a styled
// header row frozen at the top
func WriteStandingsXLSX(path, season string, table []forecast.Standing) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", standingsSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]interface{}, len(StandingsHeaders))
	for i, h := range StandingsHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(standingsSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, st := range table {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			st.Position, st.Team, st.Points, st.GoalsFor, st.GoalsAgainst, st.GoalDifference, st.TransferImpact,
		}
		if err := f.SetSheetRow(standingsSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	style, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"3D195B"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	lastHeader, err := excelize.CoordinatesToCellName(len(StandingsHeaders), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(standingsSheet, "A1", lastHeader, style); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	if err := f.SetColWidth(standingsSheet, "B", "B", 20); err != nil {
		return err
	}
	if err := f.SetColWidth(standingsSheet, "C", "G", 16); err != nil {
		return err
	}
	if err := f.SetPanes(standingsSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze header: %w", err)
	}

	if err := f.SetDocProps(&excelize.DocProperties{
		Title:   fmt.Sprintf("Predicted %s table", season),
		Creator: "leagueforecast",
	}); err != nil {
		return fmt.Errorf("failed to set document properties: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}
