// Package export provides functionality for exporting solver results
// to various file formats.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/piwi3910/SquareFill/internal/engine"
	"github.com/piwi3910/SquareFill/internal/model"
)

// squareColor represents an RGB color for a drawn square.
type squareColor struct {
	R, G, B int
}

// squareColors mirrors the color scheme used in the UI solution canvas widget.
var squareColors = []squareColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	statsHeight  = 12.0
	drawAreaTop  = marginTop + headerHeight + 5.0
	qrSize       = 40.0
)

// RunMetadata is the data encoded into the summary page QR code.
type RunMetadata struct {
	RunID      string  `json:"run_id"`
	Instance   string  `json:"instance,omitempty"`
	N          int     `json:"n"`
	M          int     `json:"m"`
	Squares    int     `json:"squares"`
	Base       int     `json:"base"`
	RealScore  int     `json:"real_score"`
	Seed       uint64  `json:"seed"`
	Iterations int     `json:"iterations"`
	Elapsed    float64 `json:"elapsed"`
}

// NewRunMetadata condenses a report into its QR payload.
func NewRunMetadata(report engine.Report) RunMetadata {
	sol := report.Solution
	return RunMetadata{
		RunID:      sol.RunID,
		Instance:   sol.Instance.Name,
		N:          sol.Instance.N,
		M:          len(sol.Instance.Points),
		Squares:    len(sol.Squares),
		Base:       sol.Score.Base,
		RealScore:  sol.RealScore(),
		Seed:       report.Settings.Seed,
		Iterations: report.Iterations,
		Elapsed:    report.Elapsed,
	}
}

// ExportPDF generates a PDF document for a solver run. The first page
// renders the grid with every square drawn, followed by a summary page with
// run statistics and a QR code carrying the run metadata.
func ExportPDF(path string, report engine.Report) error {
	if report.Solution.Instance.N <= 0 {
		return fmt.Errorf("no solution to export")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	pdf.AddPage()
	renderGridPage(pdf, report.Solution)

	pdf.AddPage()
	if err := renderSummaryPage(pdf, report); err != nil {
		return err
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	return nil
}

// gridTransform maps grid coordinates onto the page. Y grows upwards on the
// grid and downwards on the page.
type gridTransform struct {
	n                int
	scale            float64
	offsetX, offsetY float64
}

func (g gridTransform) at(p model.Pos) (float64, float64) {
	return g.offsetX + float64(p.X)*g.scale, g.offsetY + float64(g.n-1-p.Y)*g.scale
}

func (g gridTransform) side() float64 { return float64(g.n-1) * g.scale }

// renderGridPage draws the solution on the current PDF page.
func renderGridPage(pdf *fpdf.Fpdf, sol model.Solution) {
	n := sol.Instance.N

	// Title
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("%s (%d x %d grid)", displayName(sol.Instance), n, n)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	// Stats line
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Initial points: %d | Squares: %d | Base score: %d | Score: %d",
		len(sol.Instance.Points), len(sol.Squares), sol.Score.Base, sol.RealScore())
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	// Calculate drawing area
	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - statsHeight

	cells := math.Max(1, float64(n-1))
	scale := math.Min(drawWidth/cells, drawHeight/cells)
	tr := gridTransform{n: n, scale: scale, offsetY: drawAreaTop}
	tr.offsetX = marginLeft + (drawWidth-tr.side())/2

	// Grid background and lattice
	pdf.SetFillColor(250, 250, 245)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.3)
	pdf.Rect(tr.offsetX, tr.offsetY, tr.side(), tr.side(), "FD")
	drawLattice(pdf, tr)

	// Squares
	for i, sq := range sol.Squares {
		col := squareColors[i%len(squareColors)]
		corners := sq.Corners()
		pts := make([]fpdf.PointType, len(corners))
		for j, c := range corners {
			x, y := tr.at(c)
			pts[j] = fpdf.PointType{X: x, Y: y}
		}
		pdf.SetDrawColor(col.R, col.G, col.B)
		pdf.SetLineWidth(lineWidth(scale))
		pdf.Polygon(pts, "D")
	}

	// Points: initial points dark, created points in their square's color
	r := pointRadius(scale)
	pdf.SetFillColor(30, 30, 30)
	for _, p := range sol.Instance.Points {
		x, y := tr.at(p)
		pdf.Circle(x, y, r, "F")
	}
	for i, sq := range sol.Squares {
		col := squareColors[i%len(squareColors)]
		pdf.SetFillColor(col.R, col.G, col.B)
		x, y := tr.at(sq.NewPos)
		pdf.Circle(x, y, r, "F")
	}

	drawDimensionAnnotations(pdf, tr)
}

// drawLattice draws faint lines through every grid row and column.
func drawLattice(pdf *fpdf.Fpdf, tr gridTransform) {
	if tr.scale < 1.5 {
		return
	}
	pdf.SetDrawColor(225, 225, 225)
	pdf.SetLineWidth(0.1)
	for i := 1; i < tr.n-1; i++ {
		v := float64(i) * tr.scale
		pdf.Line(tr.offsetX+v, tr.offsetY, tr.offsetX+v, tr.offsetY+tr.side())
		pdf.Line(tr.offsetX, tr.offsetY+v, tr.offsetX+tr.side(), tr.offsetY+v)
	}
}

// drawDimensionAnnotations labels the grid extent below and left of the grid.
func drawDimensionAnnotations(pdf *fpdf.Fpdf, tr gridTransform) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)

	label := fmt.Sprintf("x: 0 .. %d", tr.n-1)
	w := pdf.GetStringWidth(label)
	pdf.SetXY(tr.offsetX+(tr.side()-w)/2, tr.offsetY+tr.side()+1)
	pdf.CellFormat(w, 4, label, "", 0, "C", false, 0, "")

	label = fmt.Sprintf("y: 0 .. %d", tr.n-1)
	pdf.TransformBegin()
	pdf.TransformRotate(90, tr.offsetX-3, tr.offsetY+tr.side()/2)
	w = pdf.GetStringWidth(label)
	pdf.SetXY(tr.offsetX-3-w/2, tr.offsetY+tr.side()/2-2)
	pdf.CellFormat(w, 4, label, "", 0, "C", false, 0, "")
	pdf.TransformEnd()

	// Reset text color
	pdf.SetTextColor(0, 0, 0)
}

// renderSummaryPage draws the run statistics, neighbourhood table, settings
// and the run QR code.
func renderSummaryPage(pdf *fpdf.Fpdf, report engine.Report) error {
	sol := report.Solution

	// Title
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Solver Run Summary", "", 0, "L", false, 0, "")

	// Separator line
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Overall Statistics", "", 0, "L", false, 0, "")
	y += 9

	summaryItems := []struct {
		label string
		value string
	}{
		{"Run ID", sol.RunID},
		{"Grid Size", fmt.Sprintf("%d x %d", sol.Instance.N, sol.Instance.N)},
		{"Initial Points", fmt.Sprintf("%d", len(sol.Instance.Points))},
		{"Squares", fmt.Sprintf("%d", len(sol.Squares))},
		{"Base Score", fmt.Sprintf("%d", sol.Score.Base)},
		{"Score", fmt.Sprintf("%d", sol.RealScore())},
		{"Iterations", fmt.Sprintf("%d", report.Iterations)},
		{"Elapsed", fmt.Sprintf("%.2f s", report.Elapsed)},
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range summaryItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(45, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(90, 6, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}

	y += 5
	y = drawStatsTable(pdf, report.Stats, y)

	// Solver settings
	y += 8
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Solver Settings", "", 0, "L", false, 0, "")
	y += 9

	settings := report.Settings
	start, end := settings.Temperatures(sol.Instance.N)
	settingsItems := []struct {
		label string
		value string
	}{
		{"Time Limit", fmt.Sprintf("%.2f s", settings.TimeLimit)},
		{"Seed", fmt.Sprintf("%d", settings.Seed)},
		{"Temperature", fmt.Sprintf("%.1f -> %.1f", start, end)},
		{"Objective", string(settings.Objective)},
		{"Deletion Limit", fmt.Sprintf("%d", settings.DeletionLimit)},
		{"Multi-add Limit", fmt.Sprintf("%d", settings.MultipleAddLimit)},
	}

	pdf.SetFont("Helvetica", "", 9)
	for _, item := range settingsItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(50, 5, item.label+":", "", 0, "L", false, 0, "")
		pdf.CellFormat(40, 5, item.value, "", 0, "L", false, 0, "")
		y += 5
	}

	if err := drawRunQR(pdf, report); err != nil {
		return err
	}

	// Footer
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by SquareFill", "", 0, "C", false, 0, "")
	return nil
}

// drawStatsTable renders the per-neighbourhood counters and returns the y
// position below the table.
func drawStatsTable(pdf *fpdf.Fpdf, stats []engine.NeighborhoodStats, y float64) float64 {
	if len(stats) == 0 {
		return y
	}

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Neighbourhoods", "", 0, "L", false, 0, "")
	y += 9

	colWidths := []float64{45, 35, 35, 35}
	headers := []string{"Move", "Tried", "Adopted", "Rate"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	xPos := marginLeft
	for i, header := range headers {
		pdf.SetXY(xPos, y)
		pdf.CellFormat(colWidths[i], 6, header, "1", 0, "C", true, 0, "")
		xPos += colWidths[i]
	}
	y += 6

	pdf.SetFont("Helvetica", "", 9)
	for i, s := range stats {
		rowData := []string{
			s.Neighborhood.String(),
			fmt.Sprintf("%d", s.Total),
			fmt.Sprintf("%d", s.Adopted),
			fmt.Sprintf("%.1f%%", 100*s.AdoptionRate()),
		}

		// Alternate row background
		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}

		xPos = marginLeft
		for j, cell := range rowData {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], 6, cell, "1", 0, "C", true, 0, "")
			xPos += colWidths[j]
		}
		y += 6
	}
	return y
}

// drawRunQR places a QR code with the run metadata in the top right corner.
func drawRunQR(pdf *fpdf.Fpdf, report engine.Report) error {
	data, err := json.Marshal(NewRunMetadata(report))
	if err != nil {
		return fmt.Errorf("failed to encode run metadata: %w", err)
	}
	png, err := qrcode.Encode(string(data), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	imgName := "run_qr"
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(imgName, opts, bytes.NewReader(png))

	x := pageWidth - marginRight - qrSize
	y := marginTop + 18
	pdf.ImageOptions(imgName, x, y, qrSize, qrSize, false, opts, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetTextColor(80, 80, 80)
	pdf.SetXY(x, y+qrSize+1)
	pdf.CellFormat(qrSize, 4, "Run metadata", "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	return nil
}

// lineWidth returns a stroke width that stays readable on dense grids.
func lineWidth(scale float64) float64 {
	switch {
	case scale > 8:
		return 0.5
	case scale > 4:
		return 0.35
	default:
		return 0.2
	}
}

// pointRadius returns the dot radius for a grid spacing.
func pointRadius(scale float64) float64 {
	return math.Min(1.2, math.Max(0.3, scale/5))
}

func displayName(inst model.Instance) string {
	if inst.Name != "" {
		return inst.Name
	}
	return "Solution"
}
