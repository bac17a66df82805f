package gcode

import (
	"bufio"
	"strconv"
	"strings"
)

// MoveType classifies a plotter movement.
type MoveType int

const (
	MoveTravel  MoveType = iota // pen up, XY only
	MoveDraw                    // pen down, XY
	MovePenDown                 // Z towards the paper
	MovePenUp                   // Z away from the paper
)

// Move is a single parsed G0/G1 command in absolute coordinates.
type Move struct {
	Type     MoveType
	FromX    float64
	FromY    float64
	FromZ    float64
	ToX      float64
	ToY      float64
	ToZ      float64
	FeedRate float64
}

// Segment is a drawn line on the paper.
type Segment struct {
	X0, Y0, X1, Y1 float64
}

// Parse reads plotter G-code into moves. Lines other than G0/G1 are skipped
// and ';' or parenthesised comments are ignored. penDownZ is the highest Z
// at which the pen touches the paper.
func Parse(code string, penDownZ float64) []Move {
	var moves []Move
	x, y, z, feed := 0.0, 0.0, 0.0, 0.0

	sc := bufio.NewScanner(strings.NewReader(code))
	for sc.Scan() {
		fields := strings.Fields(strings.ToUpper(stripComment(sc.Text())))
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "G0", "G00", "G1", "G01":
		default:
			continue
		}

		nx, ny, nz, nf := x, y, z, feed
		for _, f := range fields[1:] {
			if len(f) < 2 {
				continue
			}
			v, err := strconv.ParseFloat(f[1:], 64)
			if err != nil {
				continue
			}
			switch f[0] {
			case 'X':
				nx = v
			case 'Y':
				ny = v
			case 'Z':
				nz = v
			case 'F':
				nf = v
			}
		}

		moves = append(moves, Move{
			Type:  classify(z, nz, penDownZ),
			FromX: x, FromY: y, FromZ: z,
			ToX: nx, ToY: ny, ToZ: nz,
			FeedRate: nf,
		})
		x, y, z, feed = nx, ny, nz, nf
	}
	return moves
}

func stripComment(line string) string {
	if i := strings.IndexByte(line, ';'); i >= 0 {
		line = line[:i]
	}
	if i := strings.IndexByte(line, '('); i >= 0 {
		if j := strings.IndexByte(line[i:], ')'); j >= 0 {
			line = line[:i] + line[i+j+1:]
		}
	}
	return line
}

func classify(fromZ, toZ, penDownZ float64) MoveType {
	const eps = 1e-6
	switch {
	case toZ < fromZ-eps:
		return MovePenDown
	case toZ > fromZ+eps:
		return MovePenUp
	case toZ <= penDownZ+eps:
		return MoveDraw
	default:
		return MoveTravel
	}
}

// Segments returns the lines the pen draws, skipping zero-length moves.
func Segments(moves []Move) []Segment {
	var segs []Segment
	for _, m := range moves {
		if m.Type != MoveDraw || (m.FromX == m.ToX && m.FromY == m.ToY) {
			continue
		}
		segs = append(segs, Segment{m.FromX, m.FromY, m.ToX, m.ToY})
	}
	return segs
}
