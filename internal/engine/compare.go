package engine

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/piwi3910/SquareFill/internal/model"
)

// ComparisonScenario defines a named set of settings to compare.
type ComparisonScenario struct {
	Name     string
	Settings model.SolverSettings
}

// ComparisonResult holds the solver report and computed statistics
// for a single scenario.
type ComparisonResult struct {
	Scenario   ComparisonScenario
	Report     Report
	Squares    int
	BaseScore  int
	RealScore  int
	Iterations int
	Err        error
}

// CompareScenarios solves inst once per scenario and returns the results in
// scenario order. This enables side-by-side comparison of different solver
// parameters (objective, move weights, temperatures).
func CompareScenarios(ctx context.Context, scenarios []ComparisonScenario, inst model.Instance) []ComparisonResult {
	results := make([]ComparisonResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		report, err := New(scenario.Settings).Solve(ctx, inst)
		if err != nil {
			results = append(results, ComparisonResult{Scenario: scenario, Err: err})
			continue
		}
		results = append(results, ComparisonResult{
			Scenario:   scenario,
			Report:     report,
			Squares:    len(report.Solution.Squares),
			BaseScore:  report.Solution.Score.Base,
			RealScore:  report.Solution.RealScore(),
			Iterations: report.Iterations,
		})
	}

	return results
}

// RankResults orders results by real score, best first. Failed runs go last.
func RankResults(results []ComparisonResult) []ComparisonResult {
	ranked := append([]ComparisonResult(nil), results...)
	sort.SliceStable(ranked, func(i, j int) bool {
		if (ranked[i].Err == nil) != (ranked[j].Err == nil) {
			return ranked[i].Err == nil
		}
		return ranked[i].RealScore > ranked[j].RealScore
	})
	return ranked
}

// BuildDefaultScenarios generates a set of comparison scenarios based on
// the current settings, varying key parameters to show what-if alternatives.
func BuildDefaultScenarios(baseSettings model.SolverSettings) []ComparisonScenario {
	scenarios := []ComparisonScenario{
		{
			Name:     "Current Settings",
			Settings: baseSettings,
		},
	}

	// Scenario: Try the other objectives
	for _, kind := range []model.ObjectiveKind{model.ObjectiveCenter, model.ObjectiveEdge, model.ObjectiveParity} {
		if kind == baseSettings.Objective {
			continue
		}
		alt := baseSettings
		alt.Objective = kind
		scenarios = append(scenarios, ComparisonScenario{
			Name:     fmt.Sprintf("Objective %s", kind),
			Settings: alt,
		})
	}

	// Scenario: Enable multi-add when it is off
	if baseSettings.Weights.MultipleAdd == 0 {
		multi := baseSettings
		multi.Weights.MultipleAdd = 0.10
		multi.Weights.Add = baseSettings.Weights.Add - 0.10
		if multi.Weights.Add < 0 {
			multi.Weights.Add = 0
		}
		scenarios = append(scenarios, ComparisonScenario{
			Name:     "Multi-add 10%",
			Settings: multi,
		})
	}

	// Scenario: Hotter start (simulate more exploration)
	if baseSettings.StartTemp == 0 {
		hot := baseSettings
		hot.StartTemp = 1000
		scenarios = append(scenarios, ComparisonScenario{
			Name:     "Start temperature 1000",
			Settings: hot,
		})
	}

	return scenarios
}

// Summary condenses the real scores of a benchmark.
type Summary struct {
	Cases  int     `json:"cases"`
	Total  float64 `json:"total"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Summarize computes total, mean, standard deviation and extremes.
func Summarize(scores []float64) Summary {
	if len(scores) == 0 {
		return Summary{}
	}
	s := Summary{
		Cases: len(scores),
		Total: floats.Sum(scores),
		Min:   floats.Min(scores),
		Max:   floats.Max(scores),
	}
	if len(scores) > 1 {
		s.Mean, s.StdDev = stat.MeanStdDev(scores, nil)
	} else {
		s.Mean = scores[0]
	}
	return s
}

// BenchmarkCase is the outcome of one instance in a benchmark.
type BenchmarkCase struct {
	Instance model.Instance
	Report   Report
	Err      error
}

// BenchmarkResult is a whole benchmark run.
type BenchmarkResult struct {
	Cases   []BenchmarkCase
	Summary Summary
}

// Benchmark solves every instance with the same settings, up to workers at a
// time (0 = one per spare CPU). Cases keep the input order.
func Benchmark(ctx context.Context, instances []model.Instance, settings model.SolverSettings, workers int) BenchmarkResult {
	return BenchmarkWithProgress(ctx, instances, settings, workers, nil)
}

// BenchmarkWithProgress is Benchmark with a callback fired as each case
// finishes. onDone is called from worker goroutines, one call at a time.
func BenchmarkWithProgress(ctx context.Context, instances []model.Instance, settings model.SolverSettings, workers int, onDone func(BenchmarkCase)) BenchmarkResult {
	if workers <= 0 {
		workers = runtime.NumCPU() - 2
		if workers < 1 {
			workers = 1
		}
	}

	cases := make([]BenchmarkCase, len(instances))
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	var mu sync.Mutex
	for i, inst := range instances {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, inst model.Instance) {
			defer wg.Done()
			defer func() { <-sem }()
			report, err := New(settings).Solve(ctx, inst)
			cases[i] = BenchmarkCase{Instance: inst, Report: report, Err: err}
			if onDone != nil {
				mu.Lock()
				onDone(cases[i])
				mu.Unlock()
			}
		}(i, inst)
	}
	wg.Wait()

	var scores []float64
	for _, c := range cases {
		if c.Err == nil {
			scores = append(scores, float64(c.Report.Solution.RealScore()))
		}
	}
	return BenchmarkResult{Cases: cases, Summary: Summarize(scores)}
}
