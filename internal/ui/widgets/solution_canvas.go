package widgets

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/SquareFill/internal/model"
)

// Square colors, cycled by ID.
var squareColors = []color.NRGBA{
	{R: 76, G: 175, B: 80, A: 230},  // green
	{R: 33, G: 150, B: 243, A: 230}, // blue
	{R: 255, G: 152, B: 0, A: 230},  // orange
	{R: 156, G: 39, B: 176, A: 230}, // purple
	{R: 0, G: 188, B: 212, A: 230},  // cyan
	{R: 244, G: 67, B: 54, A: 230},  // red
	{R: 255, G: 235, B: 59, A: 230}, // yellow
	{R: 121, G: 85, B: 72, A: 230},  // brown
}

var (
	backgroundColor   = color.NRGBA{R: 250, G: 250, B: 245, A: 255}
	latticeColor      = color.NRGBA{R: 225, G: 225, B: 225, A: 255}
	initialPointColor = color.NRGBA{R: 30, G: 30, B: 30, A: 255}
)

// GridGeometry maps grid cells onto a square canvas of a given side.
type GridGeometry struct {
	N      int
	Side   float32
	Margin float32
}

// Spacing is the distance between neighbouring cells.
func (g GridGeometry) Spacing() float32 {
	if g.N <= 1 {
		return 0
	}
	return (g.Side - 2*g.Margin) / float32(g.N-1)
}

// At returns the canvas position of a cell. Y grows upwards on the grid.
func (g GridGeometry) At(p model.Pos) fyne.Position {
	s := g.Spacing()
	return fyne.NewPos(g.Margin+float32(p.X)*s, g.Margin+float32(g.N-1-p.Y)*s)
}

// SolutionCanvas renders a solution: lattice, square edges and points.
type SolutionCanvas struct {
	widget.BaseWidget
	solution model.Solution
	side     float32
}

func NewSolutionCanvas(sol model.Solution, side float32) *SolutionCanvas {
	sc := &SolutionCanvas{solution: sol, side: side}
	sc.ExtendBaseWidget(sc)
	return sc
}

// SetSolution replaces the drawn solution.
func (sc *SolutionCanvas) SetSolution(sol model.Solution) {
	sc.solution = sol
	sc.Refresh()
}

func (sc *SolutionCanvas) CreateRenderer() fyne.WidgetRenderer {
	return newSolutionCanvasRenderer(sc)
}

type solutionCanvasRenderer struct {
	sc      *SolutionCanvas
	objects []fyne.CanvasObject
}

func newSolutionCanvasRenderer(sc *SolutionCanvas) *solutionCanvasRenderer {
	r := &solutionCanvasRenderer{sc: sc}
	r.rebuild()
	return r
}

func (r *solutionCanvasRenderer) rebuild() {
	r.objects = nil

	sol := r.sc.solution
	side := r.sc.side
	n := sol.Instance.N

	bg := canvas.NewRectangle(backgroundColor)
	bg.StrokeColor = color.NRGBA{R: 100, G: 100, B: 100, A: 255}
	bg.StrokeWidth = 1
	bg.Resize(fyne.NewSize(side, side))
	r.objects = append(r.objects, bg)
	if n <= 0 {
		return
	}

	geo := GridGeometry{N: n, Side: side, Margin: 8}
	spacing := geo.Spacing()

	// Lattice, only when cells are far enough apart to read
	if spacing >= 6 {
		for i := 0; i < n; i++ {
			v := r.line(geo.At(model.Pos{X: i, Y: 0}), geo.At(model.Pos{X: i, Y: n - 1}), latticeColor, 0.5)
			h := r.line(geo.At(model.Pos{X: 0, Y: i}), geo.At(model.Pos{X: n - 1, Y: i}), latticeColor, 0.5)
			r.objects = append(r.objects, v, h)
		}
	}

	// Square edges
	for i, sq := range sol.Squares {
		col := squareColors[i%len(squareColors)]
		c := sq.Corners()
		for j := range c {
			r.objects = append(r.objects, r.line(geo.At(c[j]), geo.At(c[(j+1)%len(c)]), col, 1.5))
		}
	}

	// Points
	radius := spacing / 4
	if radius < 1.5 {
		radius = 1.5
	}
	for _, p := range sol.Instance.Points {
		r.objects = append(r.objects, r.dot(geo.At(p), radius, initialPointColor))
	}
	for i, sq := range sol.Squares {
		r.objects = append(r.objects, r.dot(geo.At(sq.NewPos), radius, squareColors[i%len(squareColors)]))
	}
}

func (r *solutionCanvasRenderer) line(a, b fyne.Position, col color.Color, width float32) *canvas.Line {
	l := canvas.NewLine(col)
	l.StrokeWidth = width
	l.Position1 = a
	l.Position2 = b
	return l
}

func (r *solutionCanvasRenderer) dot(center fyne.Position, radius float32, col color.Color) *canvas.Circle {
	c := canvas.NewCircle(col)
	c.Resize(fyne.NewSize(2*radius, 2*radius))
	c.Move(fyne.NewPos(center.X-radius, center.Y-radius))
	return c
}

func (r *solutionCanvasRenderer) Layout(size fyne.Size)        {}
func (r *solutionCanvasRenderer) Refresh()                     { r.rebuild() }
func (r *solutionCanvasRenderer) Destroy()                     {}
func (r *solutionCanvasRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *solutionCanvasRenderer) MinSize() fyne.Size {
	return fyne.NewSize(r.sc.side, r.sc.side)
}

// RenderSolution creates the canvas with a header line, or a placeholder when
// nothing is loaded.
func RenderSolution(sol *model.Solution, side float32) fyne.CanvasObject {
	if sol == nil || sol.Instance.N <= 0 {
		return widget.NewLabel("No instance loaded. Use File > Open Instance to begin.")
	}

	header := widget.NewLabel(fmt.Sprintf(
		"%d x %d grid, %d initial points, %d squares, score %d",
		sol.Instance.N, sol.Instance.N, len(sol.Instance.Points), len(sol.Squares), sol.RealScore(),
	))
	header.TextStyle = fyne.TextStyle{Bold: true}

	return container.NewVScroll(container.NewVBox(header, NewSolutionCanvas(*sol, side)))
}
