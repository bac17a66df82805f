package engine

import (
	"fmt"
	"sort"

	"github.com/piwi3910/SquareFill/internal/model"
)

// IDSource hands out square IDs in creation order.
type IDSource struct {
	last int
}

func (s *IDSource) Next() int {
	s.last++
	return s.last
}

// State is the grid plus the rectangles placed on it. Every change goes
// through PerformAdd or PerformDelete, which report what they did as
// commands so the change can be undone with Reverse.
type State struct {
	n         int
	initial   []model.Pos
	grid      *Grid
	squares   []model.Square
	index     map[int]int // Square ID -> position in squares
	score     model.Score
	ids       IDSource
	objective Objective

	// DeletionLimit rejects forward deletes whose cascade reaches this size.
	DeletionLimit int
}

// NewState places the initial points on an empty n×n grid.
func NewState(n int, points []model.Pos, objective Objective) *State {
	if objective == nil {
		objective = CenterObjective{}
	}
	st := &State{
		n:             n,
		initial:       append([]model.Pos(nil), points...),
		grid:          NewGrid(n),
		index:         make(map[int]int),
		objective:     objective,
		DeletionLimit: model.DefaultSettings().DeletionLimit,
	}
	for _, p := range points {
		st.grid.AddPoint(p, nil)
		st.score.Base += model.Weight(n, p)
	}
	return st
}

func (s *State) N() int { return s.n }

// Grid exposes the board for read access.
func (s *State) Grid() *Grid { return s.grid }

func (s *State) Score() model.Score { return s.score }

// Eval is the objective value of the current score at the given progress.
func (s *State) Eval(progress float64) float64 {
	return s.objective.Evaluate(s.score, progress)
}

func (s *State) Objective() Objective { return s.objective }

// SquareCount is the number of live squares.
func (s *State) SquareCount() int { return len(s.squares) }

// Squares returns the live squares ordered by ID.
func (s *State) Squares() []model.Square {
	out := append([]model.Square(nil), s.squares...)
	model.SortSquares(out)
	return out
}

// NewSquare builds a square with a fresh ID.
func (s *State) NewSquare(newPos, diagonal model.Pos, connect [2]model.Pos) model.Square {
	return model.NewSquare(s.ids.Next(), newPos, diagonal, connect)
}

// PerformAdd places sq if its new corner is free and all four edges can be
// drawn. On success it returns the single Add command; otherwise nothing
// changes and the result is empty. isReverse is set when restoring a square
// that was deleted earlier, in which case the edge checks are skipped.
func (s *State) PerformAdd(sq model.Square, isReverse bool) []model.Command {
	sq.MustBeValid()
	if !s.grid.InBounds(sq.NewPos) || s.grid.HasPoint(sq.NewPos) {
		return nil
	}
	for _, corner := range [3]model.Pos{sq.Connect[0], sq.Connect[1], sq.Diagonal} {
		if !s.grid.InBounds(corner) || !s.grid.HasPoint(corner) {
			return nil
		}
	}
	if !isReverse {
		if !s.grid.CanConnect(sq.Connect[0], sq.NewPos) ||
			!s.grid.CanConnect(sq.Connect[1], sq.NewPos) ||
			!s.grid.CanConnect(sq.Connect[0], sq.Diagonal) ||
			!s.grid.CanConnect(sq.Connect[1], sq.Diagonal) {
			return nil
		}
	}
	s.grid.CreateSquare(sq, isReverse)
	s.index[sq.ID] = len(s.squares)
	s.squares = append(s.squares, sq)
	s.score.Add(model.SquareScore(s.n, sq))
	return []model.Command{model.AddCommand(sq)}
}

type deleteFrame struct {
	sq       model.Square
	expanded bool
}

// PerformDelete removes sq and every square transitively built on its new
// corner, dependents first. One Delete command per removed square is
// appended to out in removal order. It panics if the new corner is absent.
func (s *State) PerformDelete(sq model.Square, out *[]model.Command) {
	if !s.grid.HasPoint(sq.NewPos) {
		panic(fmt.Sprintf("engine: delete of square %d at missing point %v", sq.ID, sq.NewPos))
	}
	stack := []deleteFrame{{sq: sq}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if !top.expanded {
			// Reached through more than one parent and already gone.
			if !s.grid.HasPoint(top.sq.NewPos) {
				stack = stack[:len(stack)-1]
				continue
			}
			top.expanded = true
			children := s.grid.Children(top.sq.NewPos)
			for i := len(children) - 1; i >= 0; i-- {
				child, ok := s.grid.AddedBy(children[i])
				if !ok {
					panic(fmt.Sprintf("engine: dependent %v has no creating square", children[i]))
				}
				stack = append(stack, deleteFrame{sq: child})
			}
			continue
		}
		victim := top.sq
		stack = stack[:len(stack)-1]
		s.removeSquare(victim)
		*out = append(*out, model.DeleteCommand(victim))
	}
}

func (s *State) removeSquare(sq model.Square) {
	s.grid.DeleteSquare(sq)

	k, ok := s.index[sq.ID]
	if !ok {
		panic(fmt.Sprintf("engine: square %d is not registered", sq.ID))
	}
	last := s.squares[len(s.squares)-1]
	s.squares[k] = last
	s.index[last.ID] = k
	s.squares = s.squares[:len(s.squares)-1]
	delete(s.index, sq.ID)

	s.score.Sub(model.SquareScore(s.n, sq))
}

// DeletionSize counts the points a delete at pos would remove, stopping as
// soon as the count reaches limit. A dependent reachable through several
// corners is counted once per path. The result is at least 1 and at most
// limit. It panics if pos holds no point.
func (s *State) DeletionSize(pos model.Pos, limit int) int {
	if !s.grid.HasPoint(pos) {
		panic(fmt.Sprintf("engine: deletion size of missing point %v", pos))
	}
	if limit < 1 {
		limit = 1
	}
	stack := []model.Pos{pos}
	count := 1
	for len(stack) > 0 && count < limit {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, ch := range s.grid.Children(p) {
			count++
			if count >= limit {
				return limit
			}
			stack = append(stack, ch)
		}
	}
	return count
}

// Apply executes a proposed command. Deletes whose cascade would reach
// DeletionLimit points are refused.
func (s *State) Apply(cmd model.Command) []model.Command {
	switch cmd.Kind {
	case model.CommandAdd:
		return s.PerformAdd(cmd.Square, false)
	case model.CommandDelete:
		if !s.grid.HasPoint(cmd.Square.NewPos) {
			return nil
		}
		if s.DeletionLimit > 0 && s.DeletionSize(cmd.Square.NewPos, s.DeletionLimit) >= s.DeletionLimit {
			return nil
		}
		var out []model.Command
		s.PerformDelete(cmd.Square, &out)
		return out
	default:
		panic(fmt.Sprintf("engine: unknown command kind %d", cmd.Kind))
	}
}

// Reverse undoes one command previously returned by this State. Commands must
// be reversed last first.
func (s *State) Reverse(cmd model.Command) {
	switch cmd.Kind {
	case model.CommandAdd:
		var discard []model.Command
		s.PerformDelete(cmd.Square, &discard)
	case model.CommandDelete:
		if len(s.PerformAdd(cmd.Square, true)) == 0 {
			panic(fmt.Sprintf("engine: cannot restore square %d at %v", cmd.Square.ID, cmd.Square.NewPos))
		}
	default:
		panic(fmt.Sprintf("engine: unknown command kind %d", cmd.Kind))
	}
}

// ReverseAll undoes cmds in reverse order.
func (s *State) ReverseAll(cmds []model.Command) {
	for i := len(cmds) - 1; i >= 0; i-- {
		s.Reverse(cmds[i])
	}
}

// SamplePoint picks an existing point uniformly at random.
func (s *State) SamplePoint(rng Random) (model.Pos, bool) {
	if s.grid.PointCount() == 0 {
		return model.Pos{}, false
	}
	return s.grid.PointAt(rng.Intn(s.grid.PointCount())), true
}

// SampleSquare picks a live square uniformly at random.
func (s *State) SampleSquare(rng Random) (model.Square, bool) {
	if len(s.squares) == 0 {
		return model.Square{}, false
	}
	return s.squares[rng.Intn(len(s.squares))], true
}

// Clone returns an independent deep copy. The copy continues the same ID
// sequence.
func (s *State) Clone() *State {
	cp := &State{
		n:             s.n,
		initial:       s.initial,
		grid:          s.grid.Clone(),
		squares:       append([]model.Square(nil), s.squares...),
		index:         make(map[int]int, len(s.index)),
		score:         s.score,
		ids:           s.ids,
		objective:     s.objective,
		DeletionLimit: s.DeletionLimit,
	}
	for id, k := range s.index {
		cp.index[id] = k
	}
	return cp
}

// Snapshot is an order-independent copy of everything that defines a state,
// suitable for deep equality checks.
type Snapshot struct {
	N       int
	Cells   []cell
	Edges   []uint8
	Squares []model.Square
	Score   model.Score
}

func (s *State) Snapshot() Snapshot {
	g := s.grid.Clone()
	return Snapshot{
		N:       s.n,
		Cells:   g.cells,
		Edges:   g.edges,
		Squares: s.Squares(),
		Score:   s.score,
	}
}

// Solution exports the current squares.
func (s *State) Solution(inst model.Instance) model.Solution {
	points := append([]model.Pos(nil), s.initial...)
	sort.Slice(points, func(i, j int) bool { return points[i].Less(points[j]) })
	if inst.N == 0 {
		inst = model.Instance{N: s.n, Points: points}
	}
	return model.Solution{
		Instance: inst,
		Squares:  s.Squares(),
		Score:    s.score,
	}
}
