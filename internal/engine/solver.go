package engine

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/piwi3910/SquareFill/internal/model"
)

// Solver runs the annealing search on a problem instance.
type Solver struct {
	Settings model.SolverSettings

	// Clock and Rng override the wall clock and the seeded XorShift.
	Clock Clock
	Rng   Random

	OnProgress func(Progress)
}

func New(settings model.SolverSettings) *Solver {
	return &Solver{Settings: settings}
}

// Report is a finished run: the best solution plus run statistics.
type Report struct {
	Solution   model.Solution
	Settings   model.SolverSettings
	Iterations int
	Elapsed    float64
	Stats      []NeighborhoodStats
	History    []HistoryPoint
}

// Solve searches until the time limit or context cancellation and returns
// the best solution seen.
func (s *Solver) Solve(ctx context.Context, inst model.Instance) (Report, error) {
	if err := inst.Validate(); err != nil {
		return Report{}, fmt.Errorf("invalid instance: %w", err)
	}
	objective, err := NewObjective(s.Settings)
	if err != nil {
		return Report{}, err
	}

	st := NewState(inst.N, inst.Points, objective)
	annealer := NewAnnealer(s.Settings, inst.N, s.Clock, s.Rng)
	annealer.OnProgress = s.OnProgress

	res := annealer.Anneal(ctx, st)

	sol := res.Best.Solution(inst)
	sol.RunID = uuid.New().String()
	return Report{
		Solution:   sol,
		Settings:   annealer.Settings,
		Iterations: res.Iterations,
		Elapsed:    res.Elapsed,
		Stats:      res.Stats,
		History:    res.History,
	}, nil
}
