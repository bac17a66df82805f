package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/SquareFill/internal/model"
)

func newTestState(n int, points ...model.Pos) *State {
	return NewState(n, points, CenterObjective{})
}

// cornerSquare is the square on (0,0),(2,0),(0,2) with its new corner at (2,2).
func cornerSquare(st *State) model.Square {
	return st.NewSquare(p(2, 2), p(0, 0), [2]model.Pos{p(2, 0), p(0, 2)})
}

// chainState builds k unit squares on a staircase where square i uses the
// new corner of square i-1 as its diagonal.
func chainState(t *testing.T, n, k int) (*State, []model.Square) {
	t.Helper()
	points := []model.Pos{p(0, 0)}
	for i := 1; i <= k; i++ {
		points = append(points, p(i, i-1), p(i-1, i))
	}
	st := newTestState(n, points...)
	var squares []model.Square
	for i := 1; i <= k; i++ {
		sq := st.NewSquare(p(i, i), p(i-1, i-1), [2]model.Pos{p(i, i-1), p(i-1, i)})
		require.Len(t, st.PerformAdd(sq, false), 1, "step %d", i)
		squares = append(squares, sq)
	}
	return st, squares
}

// recomputeScore sums the initial point weights and the score of every live
// square from scratch.
func recomputeScore(st *State) model.Score {
	var want model.Score
	for _, pt := range st.initial {
		want.Base += model.Weight(st.N(), pt)
	}
	for _, sq := range st.Squares() {
		want.Add(model.SquareScore(st.N(), sq))
	}
	return want
}

func TestState_AddSucceedsOnceAtAPosition(t *testing.T) {
	st := newTestState(5, p(0, 0), p(2, 0), p(0, 2))

	cmds := st.PerformAdd(cornerSquare(st), false)
	require.Len(t, cmds, 1)
	assert.Equal(t, model.CommandAdd, cmds[0].Kind)
	assert.True(t, st.Grid().HasPoint(p(2, 2)))

	assert.Empty(t, st.PerformAdd(cornerSquare(st), false))
	assert.Equal(t, 1, st.SquareCount())
	assert.NoError(t, st.Grid().CheckLinks())
}

func TestState_AddRaisesScoreByWeight(t *testing.T) {
	st := newTestState(5, p(0, 0), p(2, 0), p(0, 2), p(2, 4))
	// 9 + 5 + 5 + 5 for the initial points.
	assert.Equal(t, 24, st.Score().Base)
	require.Len(t, st.PerformAdd(cornerSquare(st), false), 1)

	assert.Equal(t, 24+model.Weight(5, p(2, 2)), st.Score().Base)
	assert.Equal(t, 25, st.Score().Base)
	assert.Equal(t, 8, st.Score().EdgeLength)
	assert.Equal(t, 25.0, st.Eval(0.5))
}

func TestState_AddRejectsBlockedEdges(t *testing.T) {
	// (1,0) sits on the edge (0,0)-(2,0).
	st := newTestState(5, p(0, 0), p(2, 0), p(0, 2), p(1, 0))
	before := st.Snapshot()
	assert.Empty(t, st.PerformAdd(cornerSquare(st), false))
	assert.Equal(t, before, st.Snapshot())
}

func TestState_AddRejectsMissingCornerOrOutOfBounds(t *testing.T) {
	st := newTestState(5, p(0, 0), p(2, 0))
	assert.Empty(t, st.PerformAdd(cornerSquare(st), false))

	st = newTestState(3, p(0, 0), p(2, 0), p(0, 2))
	sq := st.NewSquare(p(4, 2), p(2, 0), [2]model.Pos{p(4, 0), p(2, 2)})
	assert.Empty(t, st.PerformAdd(sq, false))
}

func TestState_AddMisalignedSquarePanics(t *testing.T) {
	st := newTestState(5, p(0, 0), p(2, 0), p(0, 2))
	bad := st.NewSquare(p(3, 2), p(0, 0), [2]model.Pos{p(2, 0), p(0, 2)})
	assert.Panics(t, func() { st.PerformAdd(bad, false) })
}

func TestState_AddDeleteRoundTrip(t *testing.T) {
	st := newTestState(5, p(0, 0), p(2, 0), p(0, 2))
	before := st.Snapshot()

	sq := cornerSquare(st)
	require.Len(t, st.PerformAdd(sq, false), 1)

	var cmds []model.Command
	st.PerformDelete(sq, &cmds)

	assert.Equal(t, []model.Command{model.DeleteCommand(sq)}, cmds)
	assert.Equal(t, before, st.Snapshot())
	assert.NoError(t, st.Grid().CheckLinks())
}

func TestState_DeleteCascadesToDependents(t *testing.T) {
	st := newTestState(5, p(0, 0), p(2, 0), p(0, 2), p(4, 2), p(2, 4))
	before := st.Snapshot()

	a := cornerSquare(st)
	require.Len(t, st.PerformAdd(a, false), 1)
	b := st.NewSquare(p(4, 4), p(2, 2), [2]model.Pos{p(4, 2), p(2, 4)})
	require.Len(t, st.PerformAdd(b, false), 1)
	assert.Equal(t, []model.Pos{p(4, 4)}, st.Grid().Children(p(2, 2)))

	var cmds []model.Command
	st.PerformDelete(a, &cmds)

	assert.Equal(t, []model.Command{model.DeleteCommand(b), model.DeleteCommand(a)}, cmds)
	assert.Equal(t, before, st.Snapshot())
	assert.NoError(t, st.Grid().CheckLinks())
}

func TestState_ReverseRestoresCascade(t *testing.T) {
	st, squares := chainState(t, 12, 8)
	full := st.Snapshot()

	var cmds []model.Command
	st.PerformDelete(squares[2], &cmds)
	require.Len(t, cmds, 6)
	assert.Equal(t, squares[7], cmds[0].Square, "deepest dependent goes first")
	assert.Equal(t, squares[2], cmds[5].Square, "root goes last")
	assert.Equal(t, 2, st.SquareCount())

	st.ReverseAll(cmds)
	assert.Equal(t, full, st.Snapshot())
	assert.NoError(t, st.Grid().CheckLinks())
}

func TestState_ReverseOfAddDeletesTheSquare(t *testing.T) {
	st := newTestState(5, p(0, 0), p(2, 0), p(0, 2))
	before := st.Snapshot()

	cmds := st.Apply(model.AddCommand(cornerSquare(st)))
	require.Len(t, cmds, 1)
	st.ReverseAll(cmds)

	assert.Equal(t, before, st.Snapshot())
}

func TestState_ReverseRestoresSquareThroughLaterPoint(t *testing.T) {
	st := newTestState(5, p(0, 0), p(2, 0), p(0, 2))
	sq := cornerSquare(st)
	require.Len(t, st.PerformAdd(sq, false), 1)

	// A point may land on an existing edge as long as no edge overlaps.
	st.Grid().AddPoint(p(1, 0), nil)
	with := st.Snapshot()

	cmds := st.Apply(model.DeleteCommand(sq))
	require.Len(t, cmds, 1)
	assert.NotPanics(t, func() { st.ReverseAll(cmds) })
	assert.Equal(t, with, st.Snapshot())
}

func TestState_ReverseOutOfOrderPanics(t *testing.T) {
	st := newTestState(5, p(0, 0), p(2, 0), p(0, 2))
	sq := cornerSquare(st)
	require.Len(t, st.PerformAdd(sq, false), 1)

	assert.Panics(t, func() { st.Reverse(model.DeleteCommand(sq)) })
}

func TestState_DeleteMissingPointPanics(t *testing.T) {
	st := newTestState(5, p(0, 0), p(2, 0), p(0, 2))
	var cmds []model.Command
	assert.Panics(t, func() { st.PerformDelete(cornerSquare(st), &cmds) })
	assert.Panics(t, func() { st.DeletionSize(p(4, 4), 10) })
}

func TestState_DeletionSizeIsBounded(t *testing.T) {
	st, _ := chainState(t, 40, 30)

	assert.Equal(t, 30, st.DeletionSize(p(1, 1), 100))
	assert.Equal(t, 10, st.DeletionSize(p(1, 1), 10))
	assert.Equal(t, 1, st.DeletionSize(p(30, 30), 10))
	assert.Equal(t, 1, st.DeletionSize(p(1, 1), 0))
	// Initial points count themselves plus everything built on them.
	assert.Equal(t, 31, st.DeletionSize(p(0, 0), 1000))
}

func TestState_DeletionSizeCountsSharedDependentPerPath(t *testing.T) {
	st := newTestState(6, p(0, 0), p(2, 0), p(0, 2), p(3, 2), p(2, 3), p(1, 3))
	require.Len(t, st.PerformAdd(cornerSquare(st), false), 1)
	require.Len(t, st.PerformAdd(st.NewSquare(p(3, 3), p(2, 2), [2]model.Pos{p(3, 2), p(2, 3)}), false), 1)
	// Diamond on (2,2) and (3,3): (2,4) hangs off both.
	require.Len(t, st.PerformAdd(st.NewSquare(p(2, 4), p(2, 2), [2]model.Pos{p(3, 3), p(1, 3)}), false), 1)
	require.NoError(t, st.Grid().CheckLinks())

	assert.Equal(t, 5, st.DeletionSize(p(0, 0), 10))
	assert.Equal(t, 4, st.DeletionSize(p(2, 2), 10))
	assert.Equal(t, 2, st.DeletionSize(p(3, 3), 10))
	assert.Equal(t, 4, st.DeletionSize(p(0, 0), 4))

	// Three distinct points but four paths: a limit of four refuses it.
	var sq model.Square
	for _, cand := range st.Squares() {
		if cand.NewPos == p(2, 2) {
			sq = cand
		}
	}
	st.DeletionLimit = 4
	assert.Empty(t, st.Apply(model.DeleteCommand(sq)))
	st.DeletionLimit = 5
	assert.Len(t, st.Apply(model.DeleteCommand(sq)), 3)
}

func TestState_ApplyGatesLargeCascades(t *testing.T) {
	st, squares := chainState(t, 12, 5)

	st.DeletionLimit = 3
	before := st.Snapshot()
	assert.Empty(t, st.Apply(model.DeleteCommand(squares[0])))
	assert.Equal(t, before, st.Snapshot())

	cmds := st.Apply(model.DeleteCommand(squares[3]))
	assert.Len(t, cmds, 2)

	st.DeletionLimit = 0
	assert.Len(t, st.Apply(model.DeleteCommand(squares[0])), 3)
	assert.Equal(t, 0, st.SquareCount())
}

func TestState_ApplyDeleteOfMissingSquareIsEmpty(t *testing.T) {
	st := newTestState(5, p(0, 0), p(2, 0), p(0, 2))
	assert.Empty(t, st.Apply(model.DeleteCommand(cornerSquare(st))))
}

func TestState_CloneIsIndependent(t *testing.T) {
	st := newTestState(5, p(0, 0), p(2, 0), p(0, 2))
	cp := st.Clone()
	require.Len(t, cp.PerformAdd(cornerSquare(cp), false), 1)

	assert.Equal(t, 0, st.SquareCount())
	assert.False(t, st.Grid().HasPoint(p(2, 2)))
	assert.Equal(t, 19, st.Score().Base)
	assert.Equal(t, 20, cp.Score().Base)
}

func TestState_SquaresSortedByID(t *testing.T) {
	st, squares := chainState(t, 10, 4)
	var cmds []model.Command
	st.PerformDelete(squares[1], &cmds)
	st.ReverseAll(cmds)

	got := st.Squares()
	require.Len(t, got, 4)
	for i := range got {
		assert.Equal(t, squares[i], got[i])
	}
}

func TestState_SolutionCarriesScore(t *testing.T) {
	st := newTestState(5, p(0, 0), p(2, 0), p(0, 2))
	require.Len(t, st.PerformAdd(cornerSquare(st), false), 1)

	sol := st.Solution(model.Instance{})
	assert.Equal(t, 5, sol.Instance.N)
	assert.Len(t, sol.Instance.Points, 3)
	assert.Len(t, sol.Squares, 1)
	assert.Equal(t, 20, sol.Score.Base)
	assert.Equal(t, model.RealScore(5, 3, 20), sol.RealScore())
}

func TestState_RealScoreCountsInitialAndCreatedPoints(t *testing.T) {
	st, squares := chainState(t, 8, 4)

	base := 0
	for _, pt := range st.initial {
		base += model.Weight(8, pt)
	}
	for _, sq := range squares {
		base += model.Weight(8, sq.NewPos)
	}
	assert.Equal(t, base, st.Score().Base)
	assert.Equal(t, recomputeScore(st), st.Score())

	sol := st.Solution(model.Instance{})
	assert.Equal(t, model.RealScore(8, len(st.initial), base), sol.RealScore())

	var cmds []model.Command
	st.PerformDelete(squares[0], &cmds)
	assert.Equal(t, recomputeScore(st), st.Score())
	st.ReverseAll(cmds)
	assert.Equal(t, base, st.Score().Base)
}

func TestState_SamplingOnEmptyState(t *testing.T) {
	st := newTestState(3)
	rng := NewXorShift(1)
	_, ok := st.SamplePoint(rng)
	assert.False(t, ok)
	_, ok = st.SampleSquare(rng)
	assert.False(t, ok)
}
