package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/SquareFill/internal/model"
)

func TestReplay_RebuildsSolvedState(t *testing.T) {
	inst := testInstance(13, 16, 5)
	solver := New(testSettings())
	solver.Clock = &stepClock{step: 0.01}
	report, err := solver.Solve(context.Background(), inst)
	require.NoError(t, err)

	st, err := Replay(inst, report.Solution.Squares)
	require.NoError(t, err)
	assert.Equal(t, report.Solution.Score, st.Score())
	assert.Equal(t, len(report.Solution.Squares), st.SquareCount())
	assert.NoError(t, st.Grid().CheckLinks())
}

func TestReplay_RejectsOutOfOrderSquares(t *testing.T) {
	st, squares := chainState(t, 8, 4)
	inst := model.Instance{N: st.N(), Points: st.initial}

	squares[0], squares[1] = squares[1], squares[0]
	_, err := Replay(inst, squares)
	assert.Error(t, err)
}

func TestReplay_RejectsInvalidInstance(t *testing.T) {
	_, err := Replay(model.Instance{N: 0}, nil)
	assert.Error(t, err)
}
