package export

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportWorkbook_Sheets(t *testing.T) {
	report := buildTestReport(t)
	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, ExportWorkbook(path, report))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{sheetSummary, sheetSquares, sheetHistory, sheetMoves}, f.GetSheetList())

	rows, err := f.GetRows(sheetSquares)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "ID", rows[0][0])
	assert.Equal(t, []string{"1", "2", "2", "0", "2", "0", "0", "2", "0"}, rows[1][:9])

	rows, err = f.GetRows(sheetHistory)
	require.NoError(t, err)
	assert.Len(t, rows, len(report.History)+1)

	rows, err = f.GetRows(sheetMoves)
	require.NoError(t, err)
	require.Len(t, rows, len(report.Stats)+1)
	assert.Equal(t, "Add", rows[1][0])
	assert.Equal(t, "900", rows[1][1])

	runID, err := f.GetCellValue(sheetSummary, "B2")
	require.NoError(t, err)
	assert.Equal(t, "run-1", runID)
}
