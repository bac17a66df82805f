package engine

import (
	"fmt"

	"github.com/piwi3910/SquareFill/internal/model"
)

// Neighborhood is one of the local-search moves.
type Neighborhood int

const (
	NeighborhoodAdd Neighborhood = iota
	NeighborhoodDelete
	NeighborhoodChangeSquare
	NeighborhoodSplitSquare
	NeighborhoodMultipleAdd
)

// NeighborhoodCount is the number of moves.
const NeighborhoodCount = 5

// AllNeighborhoods lists every move in declaration order.
var AllNeighborhoods = [NeighborhoodCount]Neighborhood{
	NeighborhoodAdd,
	NeighborhoodDelete,
	NeighborhoodChangeSquare,
	NeighborhoodSplitSquare,
	NeighborhoodMultipleAdd,
}

func (n Neighborhood) String() string {
	switch n {
	case NeighborhoodAdd:
		return "Add"
	case NeighborhoodDelete:
		return "Delete"
	case NeighborhoodChangeSquare:
		return "ChangeSquare"
	case NeighborhoodSplitSquare:
		return "SplitSquare"
	case NeighborhoodMultipleAdd:
		return "MultipleAdd"
	default:
		return fmt.Sprintf("Neighborhood(%d)", int(n))
	}
}

// Generator proposes and commits moves against a State. Every move returns
// the commands it committed, in order; an empty result means nothing changed.
type Generator struct {
	State *State
	Rng   Random

	// MultipleAddLimit is the number of points one multi-add may visit.
	MultipleAddLimit int

	// Progress is the run fraction the objective is evaluated at when a
	// move decides it has recovered its starting score.
	Progress float64
}

func NewGenerator(st *State, rng Random, multipleAddLimit int) *Generator {
	return &Generator{State: st, Rng: rng, MultipleAddLimit: multipleAddLimit}
}

// Perform runs one move.
func (g *Generator) Perform(n Neighborhood) []model.Command {
	switch n {
	case NeighborhoodAdd:
		return g.performAdd()
	case NeighborhoodDelete:
		return g.performDelete()
	case NeighborhoodChangeSquare:
		return g.performChangeSquare()
	case NeighborhoodSplitSquare:
		return g.performSplitSquare()
	case NeighborhoodMultipleAdd:
		return g.performMultipleAdd()
	default:
		panic(fmt.Sprintf("engine: unknown neighborhood %d", int(n)))
	}
}

func (g *Generator) performAdd() []model.Command {
	pos, ok := g.State.SamplePoint(g.Rng)
	if !ok {
		return nil
	}
	return g.AttemptAdd(pos)
}

func (g *Generator) performDelete() []model.Command {
	sq, ok := g.State.SampleSquare(g.Rng)
	if !ok {
		return nil
	}
	return g.State.Apply(model.DeleteCommand(sq))
}

// performChangeSquare deletes a square and regrows from its diagonal corner
// until the score is back where it started.
func (g *Generator) performChangeSquare() []model.Command {
	sq, ok := g.State.SampleSquare(g.Rng)
	if !ok {
		return nil
	}
	return g.rebuild(sq)
}

// performSplitSquare only rebuilds squares whose diagonal corner has gained
// a closer neighbour towards one of its connect corners, so a smaller square
// now fits.
func (g *Generator) performSplitSquare() []model.Command {
	sq, ok := g.State.SampleSquare(g.Rng)
	if !ok {
		return nil
	}
	grid := g.State.Grid()
	for _, c := range sq.Connect {
		near, linked := grid.Nearest(sq.Diagonal, model.DirBetween(sq.Diagonal, c))
		if !linked || near != c {
			return g.rebuild(sq)
		}
	}
	return nil
}

func (g *Generator) rebuild(sq model.Square) []model.Command {
	start := g.State.Eval(g.Progress)
	cmds := g.State.Apply(model.DeleteCommand(sq))
	if len(cmds) == 0 {
		return nil
	}
	// The diagonal can vanish when it was itself built on the deleted point.
	if !g.State.Grid().HasPoint(sq.Diagonal) {
		return cmds
	}
	budget := g.MultipleAddLimit
	g.multipleAdd(sq.Diagonal, &budget, &cmds, func(score float64) bool { return score >= start })
	return cmds
}

func (g *Generator) performMultipleAdd() []model.Command {
	pos, ok := g.State.SamplePoint(g.Rng)
	if !ok {
		return nil
	}
	start := g.State.Eval(g.Progress)
	budget := g.MultipleAddLimit
	var cmds []model.Command
	g.multipleAdd(pos, &budget, &cmds, func(score float64) bool { return score > start })
	return cmds
}

// multipleAdd tries a single Add at pos and then recurses into each current
// neighbour of pos in random order. The budget is shared by the whole
// recursion and the walk stops as soon as done reports true for the
// running score.
func (g *Generator) multipleAdd(pos model.Pos, budget *int, out *[]model.Command, done func(float64) bool) {
	if *budget <= 0 || done(g.State.Eval(g.Progress)) {
		return
	}
	*budget--
	*out = append(*out, g.AttemptAdd(pos)...)

	for _, d := range g.shuffledDirs() {
		if *budget <= 0 || done(g.State.Eval(g.Progress)) {
			return
		}
		next, ok := g.State.Grid().Nearest(pos, d)
		if !ok {
			continue
		}
		g.multipleAdd(next, budget, out, done)
	}
}

// AttemptAdd tries every direction around pos, in random order, as the
// diagonal corner of a new square and commits the first that fits.
func (g *Generator) AttemptAdd(pos model.Pos) []model.Command {
	if !g.State.Grid().HasPoint(pos) {
		return nil
	}
	for _, d := range g.shuffledDirs() {
		if cmds := g.AttemptAddDir(pos, d); len(cmds) > 0 {
			return cmds
		}
	}
	return nil
}

// AttemptAddDir builds the square whose diagonal is pos and whose new corner
// lies in direction d, using the nearest points on either side of d as the
// connect corners.
func (g *Generator) AttemptAddDir(pos model.Pos, d model.Dir) []model.Command {
	grid := g.State.Grid()
	prev, okPrev := grid.Nearest(pos, d.Prev())
	next, okNext := grid.Nearest(pos, d.Next())
	if !okPrev || !okNext {
		return nil
	}
	newPos := next.Add(prev.Sub(pos))
	if !grid.InBounds(newPos) || grid.HasPoint(newPos) {
		return nil
	}
	sq := g.State.NewSquare(newPos, pos, [2]model.Pos{prev, next})
	return g.State.Apply(model.AddCommand(sq))
}

func (g *Generator) shuffledDirs() [model.DirCount]model.Dir {
	dirs := model.AllDirs
	g.Rng.Shuffle(len(dirs), func(i, j int) { dirs[i], dirs[j] = dirs[j], dirs[i] })
	return dirs
}
