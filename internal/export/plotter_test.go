package export

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/SquareFill/internal/engine"
	"github.com/piwi3910/SquareFill/internal/gcode"
)

func TestExportPlot(t *testing.T) {
	report := buildTestReport(t)
	path := filepath.Join(t.TempDir(), "plot.gcode")
	settings := gcode.DefaultPlotSettings()

	require.NoError(t, ExportPlot(path, report, settings))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	segs := gcode.Segments(gcode.Parse(string(data), settings.PenDownZ))
	assert.Len(t, segs, 4*len(report.Solution.Squares))
}

func TestExportPlot_NoSolution(t *testing.T) {
	err := ExportDefaultPlot(filepath.Join(t.TempDir(), "x.gcode"), engine.Report{})
	assert.Error(t, err)
}
