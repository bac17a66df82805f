package model

import "fmt"

// DirCount is the number of compass directions a point can link in.
const DirCount = 8

// Dir is one of the eight compass directions, numbered clockwise from Up.
type Dir uint8

const (
	DirUp Dir = iota
	DirUpRight
	DirRight
	DirDownRight
	DirDown
	DirDownLeft
	DirLeft
	DirUpLeft
)

var dirNames = [DirCount]string{"Up", "UpRight", "Right", "DownRight", "Down", "DownLeft", "Left", "UpLeft"}

// Up is +Y, Right is +X.
var dirDeltas = [DirCount]Pos{
	{X: 0, Y: 1},
	{X: 1, Y: 1},
	{X: 1, Y: 0},
	{X: 1, Y: -1},
	{X: 0, Y: -1},
	{X: -1, Y: -1},
	{X: -1, Y: 0},
	{X: -1, Y: 1},
}

// AllDirs lists the directions in clockwise order.
var AllDirs = [DirCount]Dir{DirUp, DirUpRight, DirRight, DirDownRight, DirDown, DirDownLeft, DirLeft, DirUpLeft}

func (d Dir) String() string {
	if int(d) >= DirCount {
		return fmt.Sprintf("Dir(%d)", uint8(d))
	}
	return dirNames[d]
}

// Next rotates one step clockwise.
func (d Dir) Next() Dir { return (d + 1) % DirCount }

// Prev rotates one step counter-clockwise.
func (d Dir) Prev() Dir { return (d + DirCount - 1) % DirCount }

// Rev returns the opposite direction.
func (d Dir) Rev() Dir { return (d + 4) % DirCount }

// IsDiagonal reports whether d is one of the four 45° directions.
func (d Dir) IsDiagonal() bool { return d%2 == 1 }

// Delta returns the unit step for d.
func (d Dir) Delta() Pos { return dirDeltas[d] }

// Pos is a cell on the integer grid.
type Pos struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Pos) String() string { return fmt.Sprintf("(%d, %d)", p.X, p.Y) }

func (p Pos) Add(q Pos) Pos { return Pos{X: p.X + q.X, Y: p.Y + q.Y} }

func (p Pos) Sub(q Pos) Pos { return Pos{X: p.X - q.X, Y: p.Y - q.Y} }

// Step moves one cell in direction d.
func (p Pos) Step(d Dir) Pos { return p.Add(d.Delta()) }

// Less orders positions by X, then Y.
func (p Pos) Less(q Pos) bool {
	if p.X != q.X {
		return p.X < q.X
	}
	return p.Y < q.Y
}

// IsAligned reports whether a and b are distinct and share a row, a column,
// or a 45° diagonal.
func IsAligned(a, b Pos) bool {
	if a == b {
		return false
	}
	if a.X == b.X || a.Y == b.Y {
		return true
	}
	return abs(a.X-b.X) == abs(a.Y-b.Y)
}

// DirBetween returns the direction of the straight walk from a to b.
// It panics if the positions are not aligned.
func DirBetween(a, b Pos) Dir {
	if !IsAligned(a, b) {
		panic(fmt.Sprintf("model: %v and %v are not aligned", a, b))
	}
	dx, dy := sign(b.X-a.X), sign(b.Y-a.Y)
	switch {
	case dy > 0 && dx > 0:
		return DirUpRight
	case dy > 0 && dx == 0:
		return DirUp
	case dy > 0:
		return DirUpLeft
	case dy == 0 && dx > 0:
		return DirRight
	case dy == 0:
		return DirLeft
	case dx > 0:
		return DirDownRight
	case dx == 0:
		return DirDown
	default:
		return DirDownLeft
	}
}

// Between returns the cells strictly between a and b in walk order.
// It panics if the positions are not aligned.
func Between(a, b Pos) []Pos {
	d := DirBetween(a, b)
	n := Distance(a, b) - 1
	cells := make([]Pos, 0, n)
	for cur := a.Step(d); cur != b; cur = cur.Step(d) {
		cells = append(cells, cur)
	}
	return cells
}

// Distance is the Chebyshev distance, i.e. the number of steps along an
// aligned segment.
func Distance(a, b Pos) int {
	dx, dy := abs(a.X-b.X), abs(a.Y-b.Y)
	if dx > dy {
		return dx
	}
	return dy
}

// Weight is the centre-weighted value of a cell on an n×n grid.
func Weight(n int, p Pos) int {
	c := (n - 1) / 2
	return (p.X-c)*(p.X-c) + (p.Y-c)*(p.Y-c) + 1
}

// TotalWeight sums Weight over every cell of an n×n grid.
func TotalWeight(n int) int {
	total := 0
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			total += Weight(n, Pos{X: x, Y: y})
		}
	}
	return total
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
