package history

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/SquareFill/internal/engine"
	"github.com/piwi3910/SquareFill/internal/model"
)

func benchmarkResult(scores ...int) engine.BenchmarkResult {
	var res engine.BenchmarkResult
	var solved []float64
	for i, base := range scores {
		inst := model.Instance{Name: string(rune('a' + i)), N: 5, Points: []model.Pos{{X: 2, Y: 2}}}
		if base < 0 {
			res.Cases = append(res.Cases, engine.BenchmarkCase{Instance: inst, Err: errors.New("boom")})
			continue
		}
		sol := model.Solution{RunID: "r", Instance: inst, Score: model.Score{Base: base}}
		res.Cases = append(res.Cases, engine.BenchmarkCase{
			Instance: inst,
			Report:   engine.Report{Solution: sol, Iterations: 100, Elapsed: 0.1},
		})
		solved = append(solved, float64(sol.RealScore()))
	}
	res.Summary = engine.Summarize(solved)
	return res
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "db", "history.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_RecordAndList(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	settings := model.DefaultSettings()
	settings.Seed = 1 << 63
	res := benchmarkResult(10, -1, 20)

	id, err := s.Record(ctx, "baseline", settings, res)
	require.NoError(t, err)
	assert.Positive(t, id)

	runs, err := s.Runs(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "baseline", runs[0].Label)
	assert.Equal(t, 1, runs[0].Failed)
	assert.Equal(t, res.Summary, runs[0].Summary)
	assert.Equal(t, settings, runs[0].Settings)
	assert.False(t, runs[0].RecordedAt.IsZero())

	cases, err := s.Cases(ctx, id)
	require.NoError(t, err)
	require.Len(t, cases, 3)
	assert.Equal(t, "a", cases[0].Instance)
	assert.Equal(t, 10, cases[0].Base)
	assert.Equal(t, "boom", cases[1].Err)
	assert.Equal(t, 20, cases[2].Base)
}

func TestStore_BestScoresAcrossRuns(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	first := benchmarkResult(10, 30)
	second := benchmarkResult(25, 5)
	_, err := s.Record(ctx, "one", model.DefaultSettings(), first)
	require.NoError(t, err)
	_, err = s.Record(ctx, "two", model.DefaultSettings(), second)
	require.NoError(t, err)

	best, err := s.BestScores(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.Cases[0].Report.Solution.RealScore(), best["a"])
	assert.Equal(t, first.Cases[1].Report.Solution.RealScore(), best["b"])

	runs, err := s.Runs(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "two", runs[0].Label)
}

func TestStore_DeleteCascades(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	id, err := s.Record(ctx, "gone", model.DefaultSettings(), benchmarkResult(1, 2))
	require.NoError(t, err)
	require.NoError(t, s.Delete(ctx, id))

	cases, err := s.Cases(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, cases)
	runs, err := s.Runs(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestOpen_EmptyPath(t *testing.T) {
	_, err := Open("")
	assert.Error(t, err)
}
