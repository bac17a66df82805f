package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/SquareFill/internal/engine"
	"github.com/piwi3910/SquareFill/internal/model"
)

// Workbook sheet names.
const (
	sheetSummary = "Summary"
	sheetSquares = "Squares"
	sheetHistory = "History"
	sheetMoves   = "Neighbourhoods"
)

// ExportWorkbook writes a run report as an XLSX workbook with a summary
// sheet, the squares in creation order, the score history and the
// neighbourhood counters.
func ExportWorkbook(path string, report engine.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		return fmt.Errorf("failed to name summary sheet: %w", err)
	}
	for _, name := range []string{sheetSquares, sheetHistory, sheetMoves} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("failed to add sheet %s: %w", name, err)
		}
	}

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"E6E6E6"}},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	writers := []func(*excelize.File, engine.Report, int) error{
		writeSummarySheet,
		writeSquaresSheet,
		writeHistorySheet,
		writeMovesSheet,
	}
	for _, w := range writers {
		if err := w(f, report, header); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// writeRows fills sheet from A1 down, styling the first row as a header.
func writeRows(f *excelize.File, sheet string, header int, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil
	}
	last, err := excelize.CoordinatesToCellName(len(rows[0]), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, header); err != nil {
		return fmt.Errorf("failed to style %s header: %w", sheet, err)
	}
	return nil
}

func writeSummarySheet(f *excelize.File, report engine.Report, header int) error {
	sol := report.Solution
	s := report.Settings
	start, end := s.Temperatures(sol.Instance.N)
	rows := [][]interface{}{
		{"Field", "Value"},
		{"Run ID", sol.RunID},
		{"Instance", sol.Instance.Name},
		{"Grid Size", sol.Instance.N},
		{"Initial Points", len(sol.Instance.Points)},
		{"Squares", len(sol.Squares)},
		{"Base Score", sol.Score.Base},
		{"Score", sol.RealScore()},
		{"Iterations", report.Iterations},
		{"Elapsed (s)", report.Elapsed},
		{"Time Limit (s)", s.TimeLimit},
		{"Seed", s.Seed},
		{"Start Temperature", start},
		{"End Temperature", end},
		{"Objective", string(s.Objective)},
	}
	if err := writeRows(f, sheetSummary, header, rows); err != nil {
		return err
	}
	return f.SetColWidth(sheetSummary, "A", "B", 22)
}

func writeSquaresSheet(f *excelize.File, report engine.Report, header int) error {
	n := report.Solution.Instance.N
	rows := [][]interface{}{{
		"ID", "New X", "New Y", "Connect1 X", "Connect1 Y", "Diagonal X", "Diagonal Y",
		"Connect2 X", "Connect2 Y", "Diagonal Shape", "Weight", "Perimeter",
	}}
	squares := append([]model.Square(nil), report.Solution.Squares...)
	model.SortSquares(squares)
	for _, sq := range squares {
		c := sq.Corners()
		rows = append(rows, []interface{}{
			sq.ID, c[0].X, c[0].Y, c[1].X, c[1].Y, c[2].X, c[2].Y, c[3].X, c[3].Y,
			sq.IsDiagonal(), model.Weight(n, sq.NewPos), sq.Perimeter(),
		})
	}
	return writeRows(f, sheetSquares, header, rows)
}

func writeHistorySheet(f *excelize.File, report engine.Report, header int) error {
	rows := [][]interface{}{{"Elapsed (s)", "Iteration", "Base", "Objective", "Temperature", "Squares"}}
	for _, p := range report.History {
		rows = append(rows, []interface{}{p.Elapsed, p.Iteration, p.Base, p.Value, p.Temperature, p.Squares})
	}
	return writeRows(f, sheetHistory, header, rows)
}

func writeMovesSheet(f *excelize.File, report engine.Report, header int) error {
	rows := [][]interface{}{{"Move", "Tried", "Adopted", "Adoption Rate"}}
	for _, s := range report.Stats {
		rows = append(rows, []interface{}{s.Neighborhood.String(), s.Total, s.Adopted, s.AdoptionRate()})
	}
	if err := writeRows(f, sheetMoves, header, rows); err != nil {
		return err
	}
	return f.SetColWidth(sheetMoves, "A", "A", 18)
}
