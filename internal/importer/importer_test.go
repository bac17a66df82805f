package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/SquareFill/internal/model"
)

// ─── Text Format Tests ─────────────────────────────────────

func TestImportTextFromReader_Basic(t *testing.T) {
	result := ImportTextFromReader(strings.NewReader("5 3\n0 0\n2 0\n0 2\n"))

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if result.Instance.N != 5 {
		t.Errorf("expected N 5, got %d", result.Instance.N)
	}
	want := []model.Pos{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 0, Y: 2}}
	if len(result.Instance.Points) != len(want) {
		t.Fatalf("expected %d points, got %d", len(want), len(result.Instance.Points))
	}
	for i, p := range want {
		if result.Instance.Points[i] != p {
			t.Errorf("point %d: expected %v, got %v", i, p, result.Instance.Points[i])
		}
	}
	if !result.OK() || result.Err() != nil {
		t.Errorf("expected OK result, got %v", result.Err())
	}
}

func TestImportTextFromReader_FreeWhitespace(t *testing.T) {
	result := ImportTextFromReader(strings.NewReader("  7\t2 1 1\n\n3 3  "))
	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Instance.Points) != 2 {
		t.Errorf("expected 2 points, got %d", len(result.Instance.Points))
	}
}

func TestImportTextFromReader_Errors(t *testing.T) {
	cases := map[string]string{
		"empty":         "",
		"no count":      "5",
		"bad token":     "5 1\n1 x\n",
		"short":         "5 2\n1 1\n",
		"zero size":     "0 0\n",
		"negative m":    "5 -1\n",
		"out of bounds": "5 1\n5 0\n",
	}
	for name, input := range cases {
		result := ImportTextFromReader(strings.NewReader(input))
		if len(result.Errors) == 0 {
			t.Errorf("%s: expected an error", name)
		}
		if result.Err() == nil {
			t.Errorf("%s: expected Err() to be non-nil", name)
		}
	}
}

func TestImportTextFromReader_DuplicateAndTrailing(t *testing.T) {
	result := ImportTextFromReader(strings.NewReader("5 3\n1 1\n1 1\n2 2\n9\n"))
	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Instance.Points) != 2 {
		t.Errorf("expected duplicate to be dropped, got %d points", len(result.Instance.Points))
	}
	if len(result.Warnings) != 2 {
		t.Errorf("expected 2 warnings, got %v", result.Warnings)
	}
}

func TestImportText_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "0001.txt")
	if err := os.WriteFile(path, []byte("3 1\n1 1\n"), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	result := Import(path, 0)
	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if result.Instance.Name != "0001" {
		t.Errorf("expected name '0001', got '%s'", result.Instance.Name)
	}
}

func TestImportText_FileNotFound(t *testing.T) {
	result := ImportText("/nonexistent/path/file.txt")
	if len(result.Errors) == 0 {
		t.Error("expected error for nonexistent file")
	}
}

// ─── DetectCSVDelimiter Tests ──────────────────────────────

func TestDetectCSVDelimiter_Comma(t *testing.T) {
	data := []byte("x,y\n1,2\n3,4\n")
	if got := DetectCSVDelimiter(data); got != ',' {
		t.Errorf("expected comma delimiter, got %q", got)
	}
}

func TestDetectCSVDelimiter_Semicolon(t *testing.T) {
	data := []byte("x;y\n1;2\n3;4\n")
	if got := DetectCSVDelimiter(data); got != ';' {
		t.Errorf("expected semicolon delimiter, got %q", got)
	}
}

func TestDetectCSVDelimiter_Tab(t *testing.T) {
	data := []byte("x\ty\n1\t2\n3\t4\n")
	if got := DetectCSVDelimiter(data); got != '\t' {
		t.Errorf("expected tab delimiter, got %q", got)
	}
}

// ─── DetectColumns Tests ───────────────────────────────────

func TestDetectColumns_StandardHeaders(t *testing.T) {
	mapping, isHeader := DetectColumns([]string{"X", "Y"})
	if !isHeader {
		t.Error("expected header to be detected")
	}
	if mapping.X != 0 || mapping.Y != 1 {
		t.Errorf("expected X at 0 and Y at 1, got %+v", mapping)
	}
}

func TestDetectColumns_ReorderedColumns(t *testing.T) {
	mapping, isHeader := DetectColumns([]string{"label", "Row", "Col"})
	if !isHeader {
		t.Error("expected header to be detected")
	}
	if mapping.X != 2 || mapping.Y != 1 {
		t.Errorf("expected X at 2 and Y at 1, got %+v", mapping)
	}
}

func TestDetectColumns_NoHeader(t *testing.T) {
	mapping, isHeader := DetectColumns([]string{"3", "4"})
	if isHeader {
		t.Error("expected no header")
	}
	if mapping.X != 0 || mapping.Y != 1 {
		t.Errorf("expected positional mapping, got %+v", mapping)
	}
}

// ─── CSV Import Tests ──────────────────────────────────────

func TestImportCSVFromReader_WithHeaders(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader("y,x\n1,2\n3,4\n"), ',', 10)
	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if result.Instance.N != 10 {
		t.Errorf("expected N 10, got %d", result.Instance.N)
	}
	if got := result.Instance.Points[0]; got != (model.Pos{X: 2, Y: 1}) {
		t.Errorf("expected (2, 1), got %v", got)
	}
}

func TestImportCSVFromReader_InferSize(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader("1,2\n6,3\n"), ',', 0)
	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if result.Instance.N != 7 {
		t.Errorf("expected inferred N 7, got %d", result.Instance.N)
	}
}

func TestImportCSVFromReader_UnknownHeaderSkipped(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader("a,b\n1,2\n"), ',', 5)
	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Instance.Points) != 1 {
		t.Errorf("expected 1 point, got %d", len(result.Instance.Points))
	}
}

func TestImportCSVFromReader_InvalidValues(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader("x,y\n1,2\n1.5,2\n,3\n4,4\n"), ',', 5)
	if len(result.Errors) != 2 {
		t.Errorf("expected 2 errors, got %v", result.Errors)
	}
	if len(result.Instance.Points) != 2 {
		t.Errorf("expected 2 valid points, got %d", len(result.Instance.Points))
	}
}

func TestImportCSVFromReader_DecimalIntegral(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader("2.0,3.0\n"), ',', 5)
	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if got := result.Instance.Points[0]; got != (model.Pos{X: 2, Y: 3}) {
		t.Errorf("expected (2, 3), got %v", got)
	}
}

func TestImportCSVFromReader_MissingColumn(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader("x,label\n1,a\n"), ',', 5)
	if len(result.Errors) == 0 {
		t.Error("expected error for missing Y column")
	}
}

func TestImportCSVFromReader_EmptyFile(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader(""), ',', 5)
	if len(result.Errors) == 0 {
		t.Error("expected error for empty input")
	}
}

func TestImportCSV_SemicolonFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "points.csv")
	if err := os.WriteFile(path, []byte("x;y\n0;0\n2;2\n"), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	result := Import(path, 3)
	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Instance.Points) != 2 {
		t.Errorf("expected 2 points, got %d", len(result.Instance.Points))
	}
	found := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "semicolon") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected semicolon warning, got %v", result.Warnings)
	}
}

func TestImportCSV_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	if err := os.WriteFile(path, []byte(""), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
	if result := ImportCSV(path, 5); len(result.Errors) == 0 {
		t.Error("expected error for empty file")
	}
}

// ─── Excel Import Tests ────────────────────────────────────

func createTestExcel(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "points.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	for i, row := range rows {
		for j, cell := range row {
			cellRef, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatalf("failed to create cell reference: %v", err)
			}
			if err := f.SetCellValue(sheet, cellRef, cell); err != nil {
				t.Fatalf("failed to set cell value: %v", err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save Excel file: %v", err)
	}
	return path
}

func TestImportExcel_WithHeaders(t *testing.T) {
	path := createTestExcel(t, [][]interface{}{
		{"X", "Y"},
		{1, 2},
		{3, 4},
	})

	result := Import(path, 5)
	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Instance.Points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(result.Instance.Points))
	}
	if result.Instance.Points[1] != (model.Pos{X: 3, Y: 4}) {
		t.Errorf("expected (3, 4), got %v", result.Instance.Points[1])
	}
	if result.Instance.Name != "points" {
		t.Errorf("expected name 'points', got '%s'", result.Instance.Name)
	}
}

func TestImportExcel_OutOfBounds(t *testing.T) {
	path := createTestExcel(t, [][]interface{}{
		{1, 2},
		{9, 9},
	})

	result := ImportExcel(path, 5)
	if len(result.Errors) != 1 {
		t.Errorf("expected 1 error, got %v", result.Errors)
	}
}

func TestImportExcel_FileNotFound(t *testing.T) {
	if result := ImportExcel("/nonexistent/path/file.xlsx", 5); len(result.Errors) == 0 {
		t.Error("expected error for nonexistent file")
	}
}

// ─── DXF Import Tests ──────────────────────────────────────

func TestImportDXF_FileNotFound(t *testing.T) {
	if result := ImportDXF("/nonexistent/path/file.dxf", 5); len(result.Errors) == 0 {
		t.Error("expected error for nonexistent file")
	}
}

func TestSnap(t *testing.T) {
	if p, ok := snap(2.004, 3.0); !ok || p != (model.Pos{X: 2, Y: 3}) {
		t.Errorf("expected (2, 3), got %v %v", p, ok)
	}
	if _, ok := snap(2.5, 3); ok {
		t.Error("expected 2.5 to be rejected")
	}
}
