package export

import (
	"testing"

	"github.com/piwi3910/SquareFill/internal/engine"
	"github.com/piwi3910/SquareFill/internal/model"
)

func pos(x, y int) model.Pos { return model.Pos{X: x, Y: y} }

// buildTestReport replays two squares on a 7x7 grid: an axis square with its
// new corner at (2,2) and a second square stacked on that corner.
func buildTestReport(t *testing.T) engine.Report {
	t.Helper()
	inst := model.Instance{
		Name:   "test",
		N:      7,
		Points: []model.Pos{pos(0, 0), pos(2, 0), pos(0, 2), pos(4, 2), pos(2, 4)},
	}
	squares := []model.Square{
		model.NewSquare(1, pos(2, 2), pos(0, 0), [2]model.Pos{pos(2, 0), pos(0, 2)}),
		model.NewSquare(2, pos(4, 4), pos(2, 2), [2]model.Pos{pos(4, 2), pos(2, 4)}),
	}
	st, err := engine.Replay(inst, squares)
	if err != nil {
		t.Fatalf("Replay returned error: %v", err)
	}

	settings := model.DefaultSettings()
	settings.Seed = 42
	sol := st.Solution(inst)
	sol.RunID = "run-1"
	return engine.Report{
		Solution:   sol,
		Settings:   settings,
		Iterations: 1200,
		Elapsed:    0.5,
		Stats: []engine.NeighborhoodStats{
			{Neighborhood: engine.NeighborhoodAdd, Total: 900, Adopted: 300},
			{Neighborhood: engine.NeighborhoodDelete, Total: 60, Adopted: 10},
			{Neighborhood: engine.NeighborhoodChangeSquare, Total: 120, Adopted: 40},
			{Neighborhood: engine.NeighborhoodSplitSquare, Total: 120, Adopted: 20},
		},
		History: []engine.HistoryPoint{
			{Elapsed: 0, Iteration: 0, Base: 0, Value: 0, Temperature: 27.2, Squares: 0},
			{Elapsed: 0.25, Iteration: 600, Base: 10, Value: 10, Temperature: 14.3, Squares: 1},
			{Elapsed: 0.5, Iteration: 1200, Base: sol.Score.Base, Value: float64(sol.Score.Base), Temperature: 1.4, Squares: 2},
		},
	}
}
