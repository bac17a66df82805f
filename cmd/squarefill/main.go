// SquareFill: rectangle placement by simulated annealing
//
// Reads an instance (N M, then M points) and writes the squares found within
// the time limit, one per line, in placement order.
//
// Usage:
//   squarefill [-t secs] [-s seed] [-p profile] [-c config] [-i input] [-o out]
//              [-r report.pdf] [-x report.xlsx] [-d drawing.dxf] [-g plot.gcode]
//              [-l scores.jsonl.zst] [-v level] [-q]
//   squarefill -b dir [-n cases] [-w workers] [-H history.db] [-L label]

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"

	"git.sr.ht/~sircmpwn/getopt"
	"github.com/zeromicro/go-zero/core/logx"

	"github.com/piwi3910/SquareFill/internal/engine"
	"github.com/piwi3910/SquareFill/internal/export"
	"github.com/piwi3910/SquareFill/internal/importer"
	"github.com/piwi3910/SquareFill/internal/model"
	"github.com/piwi3910/SquareFill/internal/progress"
	"github.com/piwi3910/SquareFill/internal/project"
)

type options struct {
	timeLimit  float64
	seed       uint64
	seedSet    bool
	profile    string
	configPath string
	input      string
	output     string
	pdf        string
	xlsx       string
	dxf        string
	plot       string
	scoreLog   string
	logLevel   string
	quiet      bool

	benchDir string
	cases    int
	workers  int
	history  string
	label    string
}

const optstring = "t:s:p:c:i:o:r:x:d:g:l:v:qb:n:w:H:L:"

func parseOptions(args []string) (options, error) {
	o := options{configPath: project.DefaultConfigPath(), cases: 100}
	opts, _, err := getopt.Getopts(args, optstring)
	if err != nil {
		return o, err
	}
	for _, opt := range opts {
		switch opt.Option {
		case 't':
			v, err := strconv.ParseFloat(opt.Value, 64)
			if err != nil || v <= 0 {
				return o, fmt.Errorf("invalid time limit %q", opt.Value)
			}
			o.timeLimit = v
		case 's':
			v, err := strconv.ParseUint(opt.Value, 10, 64)
			if err != nil {
				return o, fmt.Errorf("invalid seed %q", opt.Value)
			}
			o.seed, o.seedSet = v, true
		case 'p':
			o.profile = opt.Value
		case 'c':
			o.configPath = opt.Value
		case 'i':
			o.input = opt.Value
		case 'o':
			o.output = opt.Value
		case 'r':
			o.pdf = opt.Value
		case 'x':
			o.xlsx = opt.Value
		case 'd':
			o.dxf = opt.Value
		case 'g':
			o.plot = opt.Value
		case 'l':
			o.scoreLog = opt.Value
		case 'v':
			o.logLevel = opt.Value
		case 'q':
			o.quiet = true
		case 'b':
			o.benchDir = opt.Value
		case 'n':
			v, err := strconv.Atoi(opt.Value)
			if err != nil || v <= 0 {
				return o, fmt.Errorf("invalid case count %q", opt.Value)
			}
			o.cases = v
		case 'w':
			v, err := strconv.Atoi(opt.Value)
			if err != nil || v < 0 {
				return o, fmt.Errorf("invalid worker count %q", opt.Value)
			}
			o.workers = v
		case 'H':
			o.history = opt.Value
		case 'L':
			o.label = opt.Value
		}
	}
	return o, nil
}

func setupLogging(level string) {
	logx.MustSetup(logx.LogConf{
		ServiceName: "squarefill",
		Mode:        "console",
		Encoding:    "plain",
		Level:       level,
	})
	logx.DisableStat()
	// stdout carries the solution
	logx.SetWriter(logx.NewWriter(os.Stderr))
}

func main() {
	o, err := parseOptions(os.Args)
	if err != nil {
		fmt.Fprintln(os.Stderr, "squarefill:", err)
		os.Exit(2)
	}

	config, err := project.LoadAppConfig(o.configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "squarefill:", err)
		os.Exit(1)
	}
	if o.logLevel == "" {
		o.logLevel = config.LogLevel
	}
	setupLogging(o.logLevel)
	defer logx.Close()

	if _, err := project.LoadCustomProfilesFromDefault(); err != nil {
		logx.Errorf("failed to load custom profiles: %v", err)
	}

	profile := o.profile
	if profile == "" {
		profile = config.DefaultProfile
	}
	settings := project.ResolveSettings(config, profile)
	if o.timeLimit > 0 {
		settings.TimeLimit = o.timeLimit
	}
	if o.seedSet {
		settings.Seed = o.seed
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	showProgress := config.ShowProgress && !o.quiet
	if o.benchDir != "" {
		err = runBenchmark(ctx, o, settings, showProgress)
	} else {
		err = runSolve(ctx, o, settings, showProgress)
	}
	if err != nil {
		logx.Errorf("%v", err)
		logx.Close()
		os.Exit(1)
	}
}

func loadInstance(path string) (model.Instance, error) {
	var res importer.ImportResult
	if path == "" || path == "-" {
		res = importer.ImportTextFromReader(os.Stdin)
	} else {
		res = importer.Import(path, 0)
	}
	for _, w := range res.Warnings {
		logx.Infof("import: %s", w)
	}
	if err := res.Err(); err != nil {
		return model.Instance{}, fmt.Errorf("failed to import instance: %w", err)
	}
	return res.Instance, nil
}

func runSolve(ctx context.Context, o options, settings model.SolverSettings, showProgress bool) error {
	inst, err := loadInstance(o.input)
	if err != nil {
		return err
	}

	solver := engine.New(settings)
	if showProgress {
		bar := progress.NewBar(progress.Steps, displayName(inst))
		solver.OnProgress = bar.Tracker(displayName(inst))
		defer bar.Close()
	}

	logx.Infow("solve started",
		logx.Field("instance", displayName(inst)),
		logx.Field("n", inst.N),
		logx.Field("points", len(inst.Points)),
		logx.Field("time_limit", settings.TimeLimit),
		logx.Field("seed", settings.Seed))

	report, err := solver.Solve(ctx, inst)
	if err != nil {
		return err
	}

	logx.Infow("solve finished",
		logx.Field("run_id", report.Solution.RunID),
		logx.Field("squares", len(report.Solution.Squares)),
		logx.Field("base", report.Solution.Score.Base),
		logx.Field("score", report.Solution.RealScore()),
		logx.Field("iterations", report.Iterations),
		logx.Field("elapsed", report.Elapsed))

	if err := writeSolution(o.output, report.Solution); err != nil {
		return err
	}
	return writeReports(o, report)
}

func writeSolution(path string, sol model.Solution) error {
	if path == "" || path == "-" {
		return export.WriteSolution(os.Stdout, sol)
	}
	return export.SaveSolution(path, sol)
}

func writeReports(o options, report engine.Report) error {
	outputs := []struct {
		path string
		kind string
		fn   func(string, engine.Report) error
	}{
		{o.pdf, "PDF report", export.ExportPDF},
		{o.xlsx, "workbook", export.ExportWorkbook},
		{o.dxf, "DXF drawing", export.ExportDXFReport},
		{o.plot, "plotter G-code", export.ExportDefaultPlot},
		{o.scoreLog, "score log", export.WriteScoreLog},
	}
	for _, out := range outputs {
		if out.path == "" {
			continue
		}
		if err := out.fn(out.path, report); err != nil {
			return fmt.Errorf("failed to write %s: %w", out.kind, err)
		}
		logx.Infof("wrote %s to %s", out.kind, out.path)
	}
	return nil
}

func displayName(inst model.Instance) string {
	if inst.Name != "" {
		return inst.Name
	}
	return "stdin"
}
