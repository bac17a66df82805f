package export

import (
	"fmt"
	"os"

	"github.com/piwi3910/SquareFill/internal/engine"
	"github.com/piwi3910/SquareFill/internal/gcode"
)

// ExportPlot writes pen plotter G-code tracing every square of the report.
func ExportPlot(path string, report engine.Report, settings gcode.PlotSettings) error {
	if report.Solution.Instance.N <= 0 {
		return fmt.Errorf("no solution to export")
	}
	code := gcode.New(settings).Generate(report.Solution)
	if err := os.WriteFile(path, []byte(code), 0644); err != nil {
		return fmt.Errorf("failed to write plot: %w", err)
	}
	return nil
}

// ExportDefaultPlot writes plotter G-code with the default plot settings.
func ExportDefaultPlot(path string, report engine.Report) error {
	return ExportPlot(path, report, gcode.DefaultPlotSettings())
}
