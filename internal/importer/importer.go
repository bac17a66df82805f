// Package importer reads problem instances from the contest text format,
// CSV, Excel and DXF. It supports automatic delimiter detection, flexible
// column mapping, and case-insensitive header recognition for tabular input.
package importer

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/SquareFill/internal/model"
)

// ImportResult holds the results of an import operation.
type ImportResult struct {
	Instance model.Instance
	Errors   []string
	Warnings []string
}

// OK reports whether the import produced a usable instance.
func (r ImportResult) OK() bool {
	return len(r.Errors) == 0 && r.Instance.N > 0
}

// Err joins the error messages, or returns nil.
func (r ImportResult) Err() error {
	if len(r.Errors) == 0 {
		if r.Instance.N <= 0 {
			return fmt.Errorf("no instance found")
		}
		return nil
	}
	return fmt.Errorf("%s", strings.Join(r.Errors, "; "))
}

// ColumnMapping maps semantic column roles to their indices in the data.
type ColumnMapping struct {
	X int
	Y int
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"x": {"x", "col", "column", "px", "pos x", "x coordinate"},
	"y": {"y", "row", "py", "pos y", "y coordinate"},
}

// Import picks a reader by file extension. size is the grid size for
// formats that do not carry one; 0 infers it from the largest coordinate.
func Import(path string, size int) ImportResult {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ImportCSV(path, size)
	case ".xlsx", ".xls":
		return ImportExcel(path, size)
	case ".dxf":
		return ImportDXF(path, size)
	default:
		return ImportText(path)
	}
}

// ImportText reads the contest format: a line "N M" followed by M lines
// "x y".
func ImportText(path string) ImportResult {
	f, err := os.Open(path)
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("Cannot open file: %v", err)}}
	}
	defer f.Close()

	result := ImportTextFromReader(f)
	result.Instance.Name = instanceName(path)
	return result
}

// ImportTextFromReader reads the contest format from r. Fields may be split
// across lines freely.
func ImportTextFromReader(r io.Reader) ImportResult {
	result := ImportResult{}

	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)
	var values []int
	for scanner.Scan() {
		v, err := strconv.Atoi(scanner.Text())
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Token %d: Invalid integer '%s'", len(values)+1, scanner.Text()))
			return result
		}
		values = append(values, v)
	}
	if err := scanner.Err(); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read input: %v", err))
		return result
	}

	if len(values) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}
	if len(values) < 2 {
		result.Errors = append(result.Errors, "Missing point count after grid size")
		return result
	}

	n, m := values[0], values[1]
	if n <= 0 {
		result.Errors = append(result.Errors, fmt.Sprintf("Invalid grid size %d", n))
		return result
	}
	if m < 0 {
		result.Errors = append(result.Errors, fmt.Sprintf("Invalid point count %d", m))
		return result
	}
	coords := values[2:]
	if len(coords) < 2*m {
		result.Errors = append(result.Errors, fmt.Sprintf("Expected %d points, found %d", m, len(coords)/2))
		return result
	}
	if len(coords) > 2*m {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Ignoring %d trailing values", len(coords)-2*m))
	}

	points := make([]model.Pos, 0, m)
	for i := 0; i < m; i++ {
		points = append(points, model.Pos{X: coords[2*i], Y: coords[2*i+1]})
	}
	return finish(result, n, points)
}

// DetectCSVDelimiter reads the file content and determines the most likely CSV delimiter.
// It tries comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent (non-one) column count across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// DetectColumns examines a header row and returns a ColumnMapping.
// Returns the mapping and true if a header was detected, or the positional
// mapping (x, y) and false otherwise.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{X: -1, Y: -1}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized != alias {
					continue
				}
				isHeader = true
				switch role {
				case "x":
					if mapping.X == -1 {
						mapping.X = i
					}
				case "y":
					if mapping.Y == -1 {
						mapping.Y = i
					}
				}
			}
		}
	}

	if !isHeader {
		return ColumnMapping{X: 0, Y: 1}, false
	}
	return mapping, true
}

// getCell safely retrieves a cell value from a row by column index.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseCoord accepts integers and integral decimals such as "3.0".
func parseCoord(s string) (int, bool) {
	if v, err := strconv.Atoi(s); err == nil {
		return v, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

// parseRow extracts a point from a row. Returns the point and any error message.
func parseRow(row []string, mapping ColumnMapping, rowLabel string) (model.Pos, string) {
	xs := getCell(row, mapping.X)
	if xs == "" {
		return model.Pos{}, fmt.Sprintf("%s: Missing x value", rowLabel)
	}
	x, ok := parseCoord(xs)
	if !ok {
		return model.Pos{}, fmt.Sprintf("%s: Invalid x '%s'", rowLabel, xs)
	}
	ys := getCell(row, mapping.Y)
	if ys == "" {
		return model.Pos{}, fmt.Sprintf("%s: Missing y value", rowLabel)
	}
	y, ok := parseCoord(ys)
	if !ok {
		return model.Pos{}, fmt.Sprintf("%s: Invalid y '%s'", rowLabel, ys)
	}
	return model.Pos{X: x, Y: y}, ""
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ImportCSV imports points from a CSV file with x and y columns.
// It automatically detects the delimiter and maps columns by header names.
func ImportCSV(path string, size int) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		result.Warnings = append(result.Warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	result = importFromRows(records, "Line", size, result.Warnings)
	result.Instance.Name = instanceName(path)
	return result
}

// ImportCSVFromReader imports points from a CSV reader with a specific delimiter.
func ImportCSVFromReader(reader io.Reader, delimiter rune, size int) ImportResult {
	result := ImportResult{}

	csvReader := csv.NewReader(reader)
	csvReader.Comma = delimiter
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	return importFromRows(records, "Line", size, nil)
}

// ImportExcel imports points from the first sheet of an Excel workbook.
func ImportExcel(path string, size int) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}

	result = importFromRows(rows, "Row", size, nil)
	result.Instance.Name = instanceName(path)
	return result
}

// importFromRows is the shared import logic for both CSV and Excel data.
func importFromRows(rows [][]string, rowPrefix string, size int, initialWarnings []string) ImportResult {
	result := ImportResult{
		Warnings: initialWarnings,
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		missing := []string{}
		if mapping.X == -1 {
			missing = append(missing, "X")
		}
		if mapping.Y == -1 {
			missing = append(missing, "Y")
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
	} else if _, ok := parseCoord(getCell(rows[0], 0)); !ok {
		// An unrecognised header; keep the positional mapping.
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")
	}

	var points []model.Pos
	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		pt, errMsg := parseRow(row, mapping, rowLabel)
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		points = append(points, pt)
	}

	if len(points) == 0 && len(result.Errors) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
		return result
	}

	return finish(result, size, points)
}

// finish infers the grid size when needed, drops duplicates with a warning,
// and rejects points outside the grid.
func finish(result ImportResult, size int, points []model.Pos) ImportResult {
	if size <= 0 {
		for _, pt := range points {
			if pt.X+1 > size {
				size = pt.X + 1
			}
			if pt.Y+1 > size {
				size = pt.Y + 1
			}
		}
		if size > 0 {
			result.Warnings = append(result.Warnings, fmt.Sprintf("Inferred grid size %d", size))
		}
	}
	if size <= 0 {
		result.Errors = append(result.Errors, "Grid size must be positive")
		return result
	}

	seen := make(map[model.Pos]bool, len(points))
	kept := make([]model.Pos, 0, len(points))
	for i, pt := range points {
		if pt.X < 0 || pt.Y < 0 || pt.X >= size || pt.Y >= size {
			result.Errors = append(result.Errors, fmt.Sprintf("Point %d %v is outside the %dx%d grid", i+1, pt, size, size))
			continue
		}
		if seen[pt] {
			result.Warnings = append(result.Warnings, fmt.Sprintf("Point %d %v is a duplicate, skipping", i+1, pt))
			continue
		}
		seen[pt] = true
		kept = append(kept, pt)
	}

	result.Instance.N = size
	result.Instance.Points = kept
	return result
}

func instanceName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
