package export

import (
	"fmt"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"

	"github.com/piwi3910/SquareFill/internal/engine"
	"github.com/piwi3910/SquareFill/internal/model"
)

// DXF layer names.
const (
	layerInitial = "INITIAL_POINTS"
	layerCreated = "CREATED_POINTS"
	layerSquares = "SQUARES"
)

// dxfPointRadius is the radius of the circle marking a grid point, in cells.
const dxfPointRadius = 0.15

// ExportDXF writes the solution as a DXF drawing in grid units: one LINE per
// square edge and one CIRCLE per point, each kind on its own layer. Reading
// the drawing back with the DXF importer yields every point of the solution.
func ExportDXF(path string, sol model.Solution) error {
	if sol.Instance.N <= 0 {
		return fmt.Errorf("no solution to export")
	}

	d := dxf.NewDrawing()

	if _, err := d.AddLayer(layerSquares, color.Green, dxf.DefaultLineType, true); err != nil {
		return fmt.Errorf("failed to add layer %s: %w", layerSquares, err)
	}
	squares := append([]model.Square(nil), sol.Squares...)
	model.SortSquares(squares)
	for _, sq := range squares {
		c := sq.Corners()
		for i := range c {
			a, b := c[i], c[(i+1)%len(c)]
			if _, err := d.Line(float64(a.X), float64(a.Y), 0, float64(b.X), float64(b.Y), 0); err != nil {
				return fmt.Errorf("failed to draw square %d: %w", sq.ID, err)
			}
		}
	}

	if _, err := d.AddLayer(layerInitial, color.White, dxf.DefaultLineType, true); err != nil {
		return fmt.Errorf("failed to add layer %s: %w", layerInitial, err)
	}
	for _, p := range sol.Instance.Points {
		if _, err := d.Circle(float64(p.X), float64(p.Y), 0, dxfPointRadius); err != nil {
			return fmt.Errorf("failed to draw point %v: %w", p, err)
		}
	}

	if _, err := d.AddLayer(layerCreated, color.Red, dxf.DefaultLineType, true); err != nil {
		return fmt.Errorf("failed to add layer %s: %w", layerCreated, err)
	}
	for _, sq := range squares {
		if _, err := d.Circle(float64(sq.NewPos.X), float64(sq.NewPos.Y), 0, dxfPointRadius); err != nil {
			return fmt.Errorf("failed to draw point %v: %w", sq.NewPos, err)
		}
	}

	if err := d.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save DXF: %w", err)
	}
	return nil
}

// ExportDXFReport writes the solution of a run report as a DXF drawing.
func ExportDXFReport(path string, report engine.Report) error {
	return ExportDXF(path, report.Solution)
}
