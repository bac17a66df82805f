package model

import (
	"fmt"
	"math"
	"sort"
)

// Square is a rectangle built from three existing points. NewPos is the
// corner it creates, Diagonal the corner opposite to it, and Connect the two
// corners adjacent to both. Connect is kept in canonical order so that equal
// squares compare equal with ==.
type Square struct {
	ID       int    `json:"id"`
	NewPos   Pos    `json:"new_pos"`
	Diagonal Pos    `json:"diagonal"`
	Connect  [2]Pos `json:"connect"`
}

func NewSquare(id int, newPos, diagonal Pos, connect [2]Pos) Square {
	if connect[1].Less(connect[0]) {
		connect[0], connect[1] = connect[1], connect[0]
	}
	return Square{
		ID:       id,
		NewPos:   newPos,
		Diagonal: diagonal,
		Connect:  connect,
	}
}

// Valid reports whether the four corners are aligned the way a rectangle
// needs them to be.
func (s Square) Valid() bool {
	return IsAligned(s.Diagonal, s.Connect[0]) &&
		IsAligned(s.Diagonal, s.Connect[1]) &&
		IsAligned(s.NewPos, s.Connect[0]) &&
		IsAligned(s.NewPos, s.Connect[1])
}

// MustBeValid panics when the corners are misaligned.
func (s Square) MustBeValid() {
	if !s.Valid() {
		panic(fmt.Sprintf("model: square %d has misaligned corners %v %v %v %v",
			s.ID, s.NewPos, s.Connect[0], s.Diagonal, s.Connect[1]))
	}
}

// Corners returns the corners in drawing order: new, connect[0], diagonal,
// connect[1].
func (s Square) Corners() [4]Pos {
	return [4]Pos{s.NewPos, s.Connect[0], s.Diagonal, s.Connect[1]}
}

// Perimeter is the total number of unit steps along the four edges.
func (s Square) Perimeter() int {
	return 2 * (Distance(s.NewPos, s.Connect[0]) + Distance(s.NewPos, s.Connect[1]))
}

// IsDiagonal reports whether the rectangle is rotated 45°.
func (s Square) IsDiagonal() bool {
	return DirBetween(s.NewPos, s.Connect[0]).IsDiagonal()
}

// CornerPenalty counts the corners that sit on an odd/odd cell relative to the
// grid centre.
func (s Square) CornerPenalty(n int) int {
	c := (n - 1) / 2
	penalty := 0
	for _, p := range s.Corners() {
		if abs(p.X-c)%2 == 1 && abs(p.Y-c)%2 == 1 {
			penalty++
		}
	}
	return penalty
}

// CommandKind tags a Command.
type CommandKind uint8

const (
	CommandAdd CommandKind = iota
	CommandDelete
)

func (k CommandKind) String() string {
	if k == CommandAdd {
		return "Add"
	}
	return "Delete"
}

// Command is one completed elementary state transition.
type Command struct {
	Kind   CommandKind `json:"kind"`
	Square Square      `json:"square"`
}

func AddCommand(s Square) Command    { return Command{Kind: CommandAdd, Square: s} }
func DeleteCommand(s Square) Command { return Command{Kind: CommandDelete, Square: s} }

func (c Command) String() string {
	return fmt.Sprintf("%s#%d%v", c.Kind, c.Square.ID, c.Square.NewPos)
}

// Score accumulates the terms the objectives are built from.
type Score struct {
	Base         int `json:"base"`
	PointPenalty int `json:"point_penalty"`
	EdgeLength   int `json:"edge_length"`
}

func (s *Score) Add(o Score) {
	s.Base += o.Base
	s.PointPenalty += o.PointPenalty
	s.EdgeLength += o.EdgeLength
}

func (s *Score) Sub(o Score) {
	s.Base -= o.Base
	s.PointPenalty -= o.PointPenalty
	s.EdgeLength -= o.EdgeLength
}

// SquareScore is the contribution of one square to a Score on an n×n grid.
func SquareScore(n int, s Square) Score {
	return Score{
		Base:         Weight(n, s.NewPos),
		PointPenalty: s.CornerPenalty(n),
		EdgeLength:   s.Perimeter(),
	}
}

// RealScore normalises a base score to the 1e6 scale used for comparing
// instances of different size.
func RealScore(n, m, base int) int {
	if m == 0 {
		return 0
	}
	s := TotalWeight(n)
	v := 1e6 * float64(n*n) * float64(base) / (float64(m) * float64(s))
	return int(math.Round(v))
}

// Instance is a problem: an n×n grid and its initial points.
type Instance struct {
	Name   string `json:"name,omitempty"`
	N      int    `json:"n"`
	Points []Pos  `json:"points"`
}

// Validate checks grid bounds and duplicate points.
func (in Instance) Validate() error {
	if in.N <= 0 {
		return fmt.Errorf("grid size must be positive, got %d", in.N)
	}
	seen := make(map[Pos]bool, len(in.Points))
	for i, p := range in.Points {
		if p.X < 0 || p.Y < 0 || p.X >= in.N || p.Y >= in.N {
			return fmt.Errorf("point %d %v is outside the %dx%d grid", i+1, p, in.N, in.N)
		}
		if seen[p] {
			return fmt.Errorf("point %d %v is a duplicate", i+1, p)
		}
		seen[p] = true
	}
	return nil
}

// Solution is the result of one solver run.
type Solution struct {
	RunID    string   `json:"run_id"`
	Instance Instance `json:"instance"`
	Squares  []Square `json:"squares"`
	Score    Score    `json:"score"`
}

// SortSquares orders squares by creation ID.
func SortSquares(squares []Square) {
	sort.Slice(squares, func(i, j int) bool { return squares[i].ID < squares[j].ID })
}

// RealScore returns the normalised score of the solution.
func (s Solution) RealScore() int {
	return RealScore(s.Instance.N, len(s.Instance.Points), s.Score.Base)
}

// PointCount is the number of points on the grid, initial and created.
func (s Solution) PointCount() int {
	return len(s.Instance.Points) + len(s.Squares)
}
