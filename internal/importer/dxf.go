package importer

import (
	"fmt"
	"math"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"

	"github.com/piwi3910/SquareFill/internal/model"
)

// snapTolerance is how far a coordinate may sit from a grid cell and still
// be snapped onto it.
const snapTolerance = 0.01

// ImportDXF imports initial points from a DXF drawing. Every LINE endpoint
// and every CIRCLE centre becomes a point, so a drawing written by the DXF
// export reads back as the full point set of its solution.
func ImportDXF(path string, size int) ImportResult {
	result := ImportResult{}

	drawing, err := dxf.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open DXF file: %v", err))
		return result
	}

	entities := drawing.Entities()
	if len(entities) == 0 {
		result.Errors = append(result.Errors, "DXF file contains no entities")
		return result
	}

	seen := make(map[model.Pos]bool)
	var points []model.Pos
	add := func(x, y float64, what string) {
		pt, ok := snap(x, y)
		if !ok {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Skipped %s at (%.3f, %.3f): not on a grid cell", what, x, y))
			return
		}
		if seen[pt] {
			return
		}
		seen[pt] = true
		points = append(points, pt)
	}

	skipped := 0
	for _, ent := range entities {
		switch e := ent.(type) {
		case *entity.Line:
			add(e.Start[0], e.Start[1], "LINE start")
			add(e.End[0], e.End[1], "LINE end")

		case *entity.Circle:
			add(e.Center[0], e.Center[1], "CIRCLE centre")

		default:
			skipped++
		}
	}
	if skipped > 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Skipped %d unsupported entities", skipped))
	}

	if len(points) == 0 {
		result.Errors = append(result.Errors, "No points found in DXF file")
		return result
	}

	result = finish(result, size, points)
	result.Instance.Name = instanceName(path)
	return result
}

// snap rounds a drawing coordinate to the nearest grid cell.
func snap(x, y float64) (model.Pos, bool) {
	rx, ry := math.Round(x), math.Round(y)
	if math.Abs(rx-x) > snapTolerance || math.Abs(ry-y) > snapTolerance {
		return model.Pos{}, false
	}
	return model.Pos{X: int(rx), Y: int(ry)}, true
}
