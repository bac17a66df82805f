package gcode

import (
	"fmt"
	"strings"

	"github.com/piwi3910/SquareFill/internal/model"
)

// PlotSettings describes a pen plotter driven by plain G-code.
type PlotSettings struct {
	CellSize      float64 // Millimetres between neighbouring grid points
	OriginX       float64 // Machine position of grid point (0, 0)
	OriginY       float64
	PenUpZ        float64 // Travel height
	PenDownZ      float64 // Drawing height
	FeedRate      float64 // mm/min while drawing
	DecimalPlaces int
	MarkPoints    bool // Dab every created point after the squares
}

func DefaultPlotSettings() PlotSettings {
	return PlotSettings{
		CellSize:      5,
		PenUpZ:        3,
		PenDownZ:      0,
		FeedRate:      1500,
		DecimalPlaces: 3,
	}
}

// Generator produces plotter G-code from a solution.
type Generator struct {
	Settings PlotSettings
}

func New(settings PlotSettings) *Generator {
	return &Generator{Settings: settings}
}

// Generate traces every square of sol as a closed loop, in creation order.
func (g *Generator) Generate(sol model.Solution) string {
	var b strings.Builder

	squares := append([]model.Square(nil), sol.Squares...)
	model.SortSquares(squares)

	g.writeHeader(&b, sol, len(squares))
	for _, sq := range squares {
		g.writeSquare(&b, sq)
	}
	if g.Settings.MarkPoints {
		b.WriteString(g.comment("Created points"))
		for _, sq := range squares {
			g.writeDot(&b, sq.NewPos)
		}
	}
	g.writeFooter(&b)
	return b.String()
}

func (g *Generator) writeHeader(b *strings.Builder, sol model.Solution, count int) {
	name := sol.Instance.Name
	if name == "" {
		name = "instance"
	}
	b.WriteString(g.comment(fmt.Sprintf("SquareFill plot of %s", name)))
	b.WriteString(g.comment(fmt.Sprintf("Grid %dx%d, %d squares, score %d",
		sol.Instance.N, sol.Instance.N, count, sol.RealScore())))
	b.WriteString(g.comment(fmt.Sprintf("Cell %smm, feed %s mm/min",
		g.format(g.Settings.CellSize), g.format(g.Settings.FeedRate))))
	b.WriteString("\n")
	b.WriteString("G21\n")
	b.WriteString("G90\n")
	b.WriteString(fmt.Sprintf("G0 Z%s\n", g.format(g.Settings.PenUpZ)))
	b.WriteString("\n")
}

func (g *Generator) writeFooter(b *strings.Builder) {
	b.WriteString("\n")
	b.WriteString(g.comment("=== Plot complete ==="))
	b.WriteString(fmt.Sprintf("G0 Z%s\n", g.format(g.Settings.PenUpZ)))
	b.WriteString(fmt.Sprintf("G0 X%s Y%s\n", g.format(g.Settings.OriginX), g.format(g.Settings.OriginY)))
	b.WriteString("M2\n")
}

func (g *Generator) writeSquare(b *strings.Builder, sq model.Square) {
	kind := "axis"
	if sq.IsDiagonal() {
		kind = "diagonal"
	}
	b.WriteString(g.comment(fmt.Sprintf("--- Square %d (%s, perimeter %d) ---", sq.ID, kind, sq.Perimeter())))

	c := sq.Corners()
	x0, y0 := g.machine(c[0])
	b.WriteString(fmt.Sprintf("G0 X%s Y%s\n", g.format(x0), g.format(y0)))
	b.WriteString(fmt.Sprintf("G1 Z%s F%s\n", g.format(g.Settings.PenDownZ), g.format(g.Settings.FeedRate)))
	for i := 1; i <= len(c); i++ {
		x, y := g.machine(c[i%len(c)])
		b.WriteString(fmt.Sprintf("G1 X%s Y%s\n", g.format(x), g.format(y)))
	}
	b.WriteString(fmt.Sprintf("G0 Z%s\n", g.format(g.Settings.PenUpZ)))
}

func (g *Generator) writeDot(b *strings.Builder, p model.Pos) {
	x, y := g.machine(p)
	b.WriteString(fmt.Sprintf("G0 X%s Y%s\n", g.format(x), g.format(y)))
	b.WriteString(fmt.Sprintf("G1 Z%s F%s\n", g.format(g.Settings.PenDownZ), g.format(g.Settings.FeedRate)))
	b.WriteString(fmt.Sprintf("G0 Z%s\n", g.format(g.Settings.PenUpZ)))
}

// machine maps a grid point to plotter coordinates.
func (g *Generator) machine(p model.Pos) (float64, float64) {
	return g.Settings.OriginX + float64(p.X)*g.Settings.CellSize,
		g.Settings.OriginY + float64(p.Y)*g.Settings.CellSize
}

func (g *Generator) comment(text string) string {
	return "; " + text + "\n"
}

func (g *Generator) format(v float64) string {
	return fmt.Sprintf("%.*f", g.Settings.DecimalPlaces, v)
}
