package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/zeromicro/go-zero/core/logx"

	"github.com/piwi3910/SquareFill/internal/engine"
	"github.com/piwi3910/SquareFill/internal/history"
	"github.com/piwi3910/SquareFill/internal/importer"
	"github.com/piwi3910/SquareFill/internal/model"
	"github.com/piwi3910/SquareFill/internal/progress"
)

// loadCases reads dir/0000.txt .. dir/<n-1>.txt.
func loadCases(dir string, n int) ([]model.Instance, error) {
	instances := make([]model.Instance, 0, n)
	for i := 0; i < n; i++ {
		path := filepath.Join(dir, fmt.Sprintf("%04d.txt", i))
		res := importer.ImportText(path)
		if err := res.Err(); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", path, err)
		}
		instances = append(instances, res.Instance)
	}
	return instances, nil
}

func runBenchmark(ctx context.Context, o options, settings model.SolverSettings, showProgress bool) error {
	instances, err := loadCases(o.benchDir, o.cases)
	if err != nil {
		return err
	}

	var store *history.Store
	best := map[string]int{}
	if o.history != "" {
		store, err = history.Open(o.history)
		if err != nil {
			return err
		}
		defer store.Close()
		if best, err = store.BestScores(ctx); err != nil {
			return err
		}
	}

	logx.Infow("benchmark started",
		logx.Field("dir", o.benchDir),
		logx.Field("cases", len(instances)),
		logx.Field("time_limit", settings.TimeLimit))

	var onDone func(engine.BenchmarkCase)
	if showProgress {
		bar := progress.NewBar(len(instances), "benchmark")
		defer bar.Close()
		onDone = func(engine.BenchmarkCase) { bar.Add(1) }
	}
	res := engine.BenchmarkWithProgress(ctx, instances, settings, o.workers, onDone)

	if err := printCases(res, best); err != nil {
		return err
	}
	sum := res.Summary
	logx.Infow("benchmark finished",
		logx.Field("cases", sum.Cases),
		logx.Field("total", sum.Total),
		logx.Field("max", sum.Max),
		logx.Field("ave", sum.Mean),
		logx.Field("std", sum.StdDev),
		logx.Field("min", sum.Min))

	if store != nil {
		id, err := store.Record(ctx, o.label, settings, res)
		if err != nil {
			return err
		}
		logx.Infof("recorded benchmark run %d in %s", id, o.history)
	}

	for _, c := range res.Cases {
		if c.Err != nil {
			return fmt.Errorf("%d case(s) failed, first: %s: %w", len(res.Cases)-sum.Cases, c.Instance.Name, c.Err)
		}
	}
	return nil
}

// printCases writes one line per case, marking scores that beat the best
// previously recorded for that instance.
func printCases(res engine.BenchmarkResult, best map[string]int) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CASE\tN\tM\tSQUARES\tSCORE\tBEST\t")
	for _, c := range res.Cases {
		if c.Err != nil {
			fmt.Fprintf(w, "%s\t%d\t%d\t-\terror: %v\t\t\n", c.Instance.Name, c.Instance.N, len(c.Instance.Points), c.Err)
			continue
		}
		score := c.Report.Solution.RealScore()
		mark := ""
		if prev, ok := best[c.Instance.Name]; ok {
			mark = fmt.Sprintf("%d", prev)
			if score > prev {
				mark += " *"
			}
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%s\t\n",
			c.Instance.Name, c.Instance.N, len(c.Instance.Points), len(c.Report.Solution.Squares), score, mark)
	}
	return w.Flush()
}
