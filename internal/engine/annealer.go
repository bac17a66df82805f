package engine

import (
	"context"
	"math"

	"github.com/piwi3910/SquareFill/internal/model"
)

// Progress is reported to Annealer.OnProgress once per check interval.
type Progress struct {
	Fraction    float64 // Elapsed share of the time budget, in [0, 1]
	Elapsed     float64
	Iteration   int
	Score       model.Score
	BestBase    int
	Temperature float64
	Squares     int
}

// HistoryPoint is one sample of the score trajectory.
type HistoryPoint struct {
	Elapsed     float64 `json:"elapsed"`
	Iteration   int     `json:"iteration"`
	Base        int     `json:"base"`
	Value       float64 `json:"value"`
	Temperature float64 `json:"temperature"`
	Squares     int     `json:"squares"`
}

// AnnealResult is what one annealing run produced.
type AnnealResult struct {
	Best       *State
	Iterations int
	Elapsed    float64
	Stats      []NeighborhoodStats
	History    []HistoryPoint
}

// Annealer runs simulated annealing over a State until the time budget is
// spent or the context is cancelled.
type Annealer struct {
	Settings model.SolverSettings
	Clock    Clock
	Rng      Random

	// OnProgress, if set, is called at every check interval.
	OnProgress func(Progress)

	startTemp, endTemp float64
	temp               float64
}

// NewAnnealer prepares an annealer for an n×n grid. A nil clock or rng falls
// back to a wall clock and a seeded XorShift.
func NewAnnealer(settings model.SolverSettings, n int, clock Clock, rng Random) *Annealer {
	if clock == nil {
		clock = NewWallClock()
	}
	if rng == nil {
		rng = NewXorShift(settings.Seed)
	}
	if settings.CheckInterval <= 0 {
		settings.CheckInterval = model.DefaultSettings().CheckInterval
	}
	start, end := settings.Temperatures(n)
	return &Annealer{
		Settings:  settings,
		Clock:     clock,
		Rng:       rng,
		startTemp: start,
		endTemp:   end,
		temp:      start,
	}
}

// Temperature is the current temperature.
func (a *Annealer) Temperature() float64 { return a.temp }

// UpdateTemp moves the temperature linearly from start to end.
func (a *Annealer) UpdateTemp(progress float64) {
	a.temp = a.startTemp + (a.endTemp-a.startTemp)*progress
}

// ShouldAdopt is the Metropolis criterion. Improvements are always kept.
func (a *Annealer) ShouldAdopt(diff float64) bool {
	if diff >= 0 {
		return true
	}
	return math.Exp(diff/a.temp) > a.Rng.Float64()
}

// Anneal improves st in place and returns the best state seen. st itself
// ends in whatever state the search was in when time ran out.
func (a *Annealer) Anneal(ctx context.Context, st *State) AnnealResult {
	limit := a.Settings.TimeLimit
	interval := a.Settings.CheckInterval
	st.DeletionLimit = a.Settings.DeletionLimit

	gen := NewGenerator(st, a.Rng, a.Settings.MultipleAddLimit)
	sel := NewSelector(a.Settings.Weights)

	best := st.Clone()
	bestValue := best.Eval(1)
	var history []HistoryPoint

	elapsed := a.Clock.Elapsed()
	progress := 0.0
	iter := 0
	for {
		if iter%interval == 0 {
			elapsed = a.Clock.Elapsed()
			if limit > 0 {
				progress = elapsed / limit
			} else {
				progress = 1
			}
			if progress >= 1 || ctx.Err() != nil {
				break
			}
			a.UpdateTemp(progress)
			gen.Progress = progress

			if v := st.Eval(1); v > bestValue {
				best = st.Clone()
				bestValue = v
			}
			history = append(history, HistoryPoint{
				Elapsed:     elapsed,
				Iteration:   iter,
				Base:        st.Score().Base,
				Value:       st.Eval(progress),
				Temperature: a.temp,
				Squares:     st.SquareCount(),
			})
			if a.OnProgress != nil {
				a.OnProgress(Progress{
					Fraction:    progress,
					Elapsed:     elapsed,
					Iteration:   iter,
					Score:       st.Score(),
					BestBase:    best.Score().Base,
					Temperature: a.temp,
					Squares:     st.SquareCount(),
				})
			}
		}
		iter++

		before := st.Eval(progress)
		n := sel.Select(a.Rng)
		cmds := gen.Perform(n)
		adopted := len(cmds) > 0 && a.ShouldAdopt(st.Eval(progress)-before)
		if len(cmds) > 0 && !adopted {
			st.ReverseAll(cmds)
		}
		sel.Record(n, adopted)
	}

	if st.Eval(1) > bestValue {
		best = st.Clone()
	}
	if progress > 1 {
		progress = 1
	}
	if a.OnProgress != nil {
		a.OnProgress(Progress{
			Fraction:    progress,
			Elapsed:     elapsed,
			Iteration:   iter,
			Score:       st.Score(),
			BestBase:    best.Score().Base,
			Temperature: a.temp,
			Squares:     st.SquareCount(),
		})
	}
	return AnnealResult{
		Best:       best,
		Iterations: iter,
		Elapsed:    elapsed,
		Stats:      sel.Stats(),
		History:    history,
	}
}
