package ui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	ttwidget "github.com/dweymouth/fyne-tooltip/widget"
	"github.com/zeromicro/go-zero/core/logx"

	"github.com/piwi3910/SquareFill/internal/engine"
	"github.com/piwi3910/SquareFill/internal/export"
	"github.com/piwi3910/SquareFill/internal/importer"
	"github.com/piwi3910/SquareFill/internal/model"
	"github.com/piwi3910/SquareFill/internal/project"
	"github.com/piwi3910/SquareFill/internal/ui/widgets"
)

const (
	canvasSide       = 640
	maxRecentEntries = 10
)

// App holds all viewer state and UI references.
type App struct {
	app     fyne.App
	window  fyne.Window
	config  model.AppConfig
	profile string

	settings model.SolverSettings
	instance model.Instance
	report   *engine.Report
	history  *History
	library  project.Library

	cancel context.CancelFunc

	// UI references for dynamic updates
	resultContainer *fyne.Container
	statsLabel      *widget.Label
	progressBar     *widget.ProgressBar
	solveBtn        *widget.Button
	stopBtn         *widget.Button
}

func NewApp(application fyne.App, window fyne.Window) *App {
	config, err := project.LoadAppConfig(project.DefaultConfigPath())
	if err != nil {
		logx.Errorf("failed to load config, using defaults: %v", err)
		config = model.DefaultAppConfig()
	}
	if _, err := project.LoadCustomProfilesFromDefault(); err != nil {
		logx.Errorf("failed to load custom profiles: %v", err)
	}
	lib, err := project.LoadLibrary(project.DefaultLibraryPath())
	if err != nil {
		logx.Errorf("failed to load instance library: %v", err)
		lib = project.NewLibrary()
	}

	return &App{
		app:      application,
		window:   window,
		config:   config,
		profile:  config.DefaultProfile,
		settings: project.ResolveSettings(config, config.DefaultProfile),
		history:  NewHistory(),
		library:  lib,
	}
}

// SetupMenus creates the native menu bar for the application.
func (a *App) SetupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Instance...", func() { a.openInstance() }),
		fyne.NewMenuItem("Open Solution...", func() { a.openSolution() }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Open from Library...", func() { a.showLibraryDialog() }),
		fyne.NewMenuItem("Save to Library...", func() { a.saveToLibrary() }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export Solution...", func() { a.exportFile("solution.txt", export.SaveSolutionReport) }),
		fyne.NewMenuItem("Export PDF Report...", func() { a.exportFile("report.pdf", export.ExportPDF) }),
		fyne.NewMenuItem("Export Workbook...", func() { a.exportFile("report.xlsx", export.ExportWorkbook) }),
		fyne.NewMenuItem("Export DXF...", func() { a.exportFile("solution.dxf", export.ExportDXFReport) }),
		fyne.NewMenuItem("Export Plotter G-code...", func() { a.exportFile("solution.gcode", export.ExportDefaultPlot) }),
		fyne.NewMenuItem("Export Score Log...", func() { a.exportFile("scores.jsonl.zst", export.WriteScoreLog) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Settings...", func() { a.showSettingsDialog() }),
		fyne.NewMenuItem("Import / Export Data...", func() { a.showImportExportDialog() }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { a.window.Close() }),
	)

	runMenu := fyne.NewMenu("Run",
		fyne.NewMenuItem("Solve", func() { a.runSolve() }),
		fyne.NewMenuItem("Stop", func() { a.stopSolve() }),
		fyne.NewMenuItem("Compare Scenarios", func() { a.runCompare() }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Solver Settings...", func() { a.showSolverSettingsDialog() }),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", func() { a.showAboutDialog() }),
	)

	a.window.SetMainMenu(fyne.NewMainMenu(fileMenu, runMenu, helpMenu))
}

func (a *App) showAboutDialog() {
	dialog.ShowInformation(
		"About SquareFill",
		"SquareFill: rectangle placement by simulated annealing\n\n"+
			"Grows axis- and diagonal-aligned rectangles on a grid of points\n"+
			"and scores them by distance from the grid centre.\n\n"+
			"Version 1.0.0",
		a.window,
	)
}

// Build constructs the full UI and returns the root container.
func (a *App) Build() fyne.CanvasObject {
	a.resultContainer = container.NewStack()
	a.refreshResults()

	split := container.NewHSplit(a.buildSidebar(), a.resultContainer)
	split.SetOffset(0.25)
	return split
}

// ─── Sidebar ───────────────────────────────────────────────

func (a *App) buildSidebar() fyne.CanvasObject {
	profileSelect := widget.NewSelect(model.GetProfileNames(), func(selected string) {
		a.profile = selected
		a.settings = project.ResolveSettings(a.config, selected)
	})
	profileSelect.SetSelected(a.profile)

	timeEntry := widget.NewEntry()
	timeEntry.SetText(strconv.FormatFloat(a.settings.TimeLimit, 'f', -1, 64))
	timeEntry.OnChanged = func(text string) {
		if v, err := strconv.ParseFloat(text, 64); err == nil && v > 0 {
			a.settings.TimeLimit = v
		}
	}

	seedEntry := widget.NewEntry()
	seedEntry.SetText(strconv.FormatUint(a.settings.Seed, 10))
	seedEntry.OnChanged = func(text string) {
		if v, err := strconv.ParseUint(text, 10, 64); err == nil {
			a.settings.Seed = v
		}
	}

	objectives := []string{string(model.ObjectiveCenter), string(model.ObjectiveEdge), string(model.ObjectiveParity)}
	objectiveSelect := widget.NewSelect(objectives, func(selected string) {
		a.settings.Objective = model.ObjectiveKind(selected)
	})
	objectiveSelect.SetSelected(string(a.settings.Objective))

	a.solveBtn = widget.NewButtonWithIcon("Solve", theme.MediaPlayIcon(), func() { a.runSolve() })
	a.solveBtn.Importance = widget.HighImportance
	a.stopBtn = widget.NewButtonWithIcon("Stop", theme.MediaStopIcon(), func() { a.stopSolve() })
	a.stopBtn.Disable()

	a.progressBar = widget.NewProgressBar()
	a.statsLabel = widget.NewLabel("")
	a.statsLabel.Wrapping = fyne.TextWrapWord

	nav := container.NewHBox(
		navButton(theme.NavigateBackIcon(), "Previous result", func() { a.stepHistory(true) }),
		navButton(theme.NavigateNextIcon(), "Next result", func() { a.stepHistory(false) }),
		layout.NewSpacer(),
		navButton(theme.SettingsIcon(), "Solver settings", func() { a.showSolverSettingsDialog() }),
	)

	form := widget.NewForm(
		widget.NewFormItem("Profile", profileSelect),
		widget.NewFormItem("Time limit (s)", timeEntry),
		widget.NewFormItem("Seed", seedEntry),
		widget.NewFormItem("Objective", objectiveSelect),
	)

	return container.NewVBox(
		widget.NewLabelWithStyle("Solver", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		form,
		container.NewGridWithColumns(2, a.solveBtn, a.stopBtn),
		a.progressBar,
		widget.NewSeparator(),
		nav,
		a.statsLabel,
	)
}

// navButton is an icon-only sidebar button that explains itself on hover.
func navButton(icon fyne.Resource, tip string, tapped func()) *ttwidget.Button {
	btn := ttwidget.NewButtonWithIcon("", icon, tapped)
	btn.SetToolTip(tip)
	return btn
}

// ─── Results ───────────────────────────────────────────────

func (a *App) currentSolution() *model.Solution {
	if a.report != nil {
		return &a.report.Solution
	}
	if a.instance.N > 0 {
		return &model.Solution{Instance: a.instance}
	}
	return nil
}

func (a *App) refreshResults() {
	a.resultContainer.Objects = []fyne.CanvasObject{widgets.RenderSolution(a.currentSolution(), canvasSide)}
	a.resultContainer.Refresh()
	if a.statsLabel != nil {
		a.statsLabel.SetText(a.statsText())
	}
}

func (a *App) statsText() string {
	if a.report == nil {
		if a.instance.N > 0 {
			return fmt.Sprintf("%s: %d points on %dx%d", displayName(a.instance), len(a.instance.Points), a.instance.N, a.instance.N)
		}
		return ""
	}
	r := a.report
	var b strings.Builder
	fmt.Fprintf(&b, "Squares: %d\nBase score: %d\nScore: %d\nIterations: %d\nElapsed: %.2fs\n",
		len(r.Solution.Squares), r.Solution.Score.Base, r.Solution.RealScore(), r.Iterations, r.Elapsed)
	for _, s := range r.Stats {
		fmt.Fprintf(&b, "%s: %d/%d\n", s.Neighborhood, s.Adopted, s.Total)
	}
	return b.String()
}

// setReport makes report current, remembering the previous one.
func (a *App) setReport(report engine.Report, label string) {
	if a.report != nil {
		a.history.Push(MakeSnapshot(*a.report, label))
	}
	a.report = &report
	a.instance = report.Solution.Instance
	a.refreshResults()
}

func (a *App) stepHistory(back bool) {
	if a.report == nil {
		return
	}
	current := MakeSnapshot(*a.report, "current")
	var snap Snapshot
	var ok bool
	if back {
		snap, ok = a.history.Undo(current)
	} else {
		snap, ok = a.history.Redo(current)
	}
	if !ok {
		return
	}
	a.report = &snap.Report
	a.instance = snap.Report.Solution.Instance
	a.refreshResults()
}

// ─── Solving ───────────────────────────────────────────────

func (a *App) runSolve() {
	if a.instance.N <= 0 {
		dialog.ShowInformation("Nothing to solve", "Open an instance first.", a.window)
		return
	}
	if a.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	a.solveBtn.Disable()
	a.stopBtn.Enable()
	a.progressBar.SetValue(0)

	inst := a.instance
	solver := engine.New(a.settings)
	last := -1.0
	solver.OnProgress = func(p engine.Progress) {
		if p.Fraction-last < 0.01 && p.Fraction < 1 {
			return
		}
		last = p.Fraction
		fyne.Do(func() {
			a.progressBar.SetValue(p.Fraction)
			a.statsLabel.SetText(fmt.Sprintf("Score: %d\nBest: %d\nSquares: %d\nT: %.1f",
				p.Score.Base, p.BestBase, p.Squares, p.Temperature))
		})
	}

	go func() {
		report, err := solver.Solve(ctx, inst)
		fyne.Do(func() {
			a.cancel = nil
			cancel()
			a.solveBtn.Enable()
			a.stopBtn.Disable()
			if err != nil {
				dialog.ShowError(err, a.window)
				return
			}
			a.progressBar.SetValue(1)
			logx.Infow("solve finished",
				logx.Field("instance", inst.Name),
				logx.Field("squares", len(report.Solution.Squares)),
				logx.Field("score", report.Solution.RealScore()))
			a.setReport(report, fmt.Sprintf("Solve %.2fs", report.Elapsed))
		})
	}()
}

func (a *App) stopSolve() {
	if a.cancel != nil {
		a.cancel()
	}
}

func (a *App) runCompare() {
	if a.instance.N <= 0 {
		dialog.ShowInformation("Nothing to compare", "Open an instance first.", a.window)
		return
	}
	scenarios := engine.BuildDefaultScenarios(a.settings)
	inst := a.instance
	progress := dialog.NewCustomWithoutButtons("Comparing",
		widget.NewLabel(fmt.Sprintf("Running %d scenarios...", len(scenarios))), a.window)
	progress.Show()

	go func() {
		results := engine.RankResults(engine.CompareScenarios(context.Background(), scenarios, inst))
		fyne.Do(func() {
			progress.Hide()
			a.showCompareResults(results)
		})
	}()
}

func (a *App) showCompareResults(results []engine.ComparisonResult) {
	rows := container.NewVBox(container.NewGridWithColumns(4,
		widget.NewLabelWithStyle("Scenario", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Squares", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Score", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{}),
	))
	for _, r := range results {
		res := r
		if res.Err != nil {
			rows.Add(container.NewGridWithColumns(4,
				widget.NewLabel(res.Scenario.Name), widget.NewLabel("-"), widget.NewLabel(res.Err.Error()), layout.NewSpacer()))
			continue
		}
		rows.Add(container.NewGridWithColumns(4,
			widget.NewLabel(res.Scenario.Name),
			widget.NewLabel(strconv.Itoa(res.Squares)),
			widget.NewLabel(strconv.Itoa(res.RealScore)),
			widget.NewButton("View", func() { a.setReport(res.Report, res.Scenario.Name) }),
		))
	}
	d := dialog.NewCustom("Scenario Comparison", "Close", container.NewVScroll(rows), a.window)
	d.Resize(fyne.NewSize(600, 350))
	d.Show()
}

// ─── Files ─────────────────────────────────────────────────

func (a *App) openInstance() {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		path := reader.URI().Path()
		reader.Close()
		a.handleImportResult(path, importer.Import(path, 0))
	}, a.window)
}

func (a *App) handleImportResult(path string, result importer.ImportResult) {
	if !result.OK() {
		dialog.ShowError(fmt.Errorf("%s", strings.Join(result.Errors, "\n")), a.window)
		return
	}
	for _, w := range result.Warnings {
		logx.Infof("import %s: %s", filepath.Base(path), w)
	}

	a.instance = result.Instance
	a.report = nil
	a.history.Clear()
	a.config.AddRecentInstance(path, maxRecentEntries)
	if err := a.saveConfig(); err != nil {
		logx.Errorf("failed to save config: %v", err)
	}
	a.refreshResults()

	if len(result.Warnings) > 0 {
		dialog.ShowInformation("Import Complete",
			fmt.Sprintf("Imported %d points with %d warning(s):\n%s",
				len(result.Instance.Points), len(result.Warnings), strings.Join(result.Warnings, "\n")),
			a.window)
	}
}

func (a *App) openSolution() {
	if a.instance.N <= 0 {
		dialog.ShowInformation("No instance", "Open the instance the solution belongs to first.", a.window)
		return
	}
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()
		squares, err := export.ReadSolution(reader)
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		st, err := engine.Replay(a.instance, squares)
		if err != nil {
			dialog.ShowError(fmt.Errorf("solution does not fit the instance: %w", err), a.window)
			return
		}
		a.setReport(engine.Report{Solution: st.Solution(a.instance), Settings: a.settings},
			filepath.Base(reader.URI().Path()))
	}, a.window)
}

// exportFile asks for a target path and writes the current report with fn.
func (a *App) exportFile(defaultName string, fn func(string, engine.Report) error) {
	if a.report == nil {
		dialog.ShowInformation("No results", "Solve or open a solution before exporting.", a.window)
		return
	}
	report := *a.report
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		path := writer.URI().Path()
		// the exporters create the file themselves
		writer.Close()
		if err := fn(path, report); err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		dialog.ShowInformation("Export Complete", fmt.Sprintf("Saved to:\n%s", path), a.window)
	}, a.window)
	d.SetFileName(defaultName)
	d.Show()
}

// ─── Library ───────────────────────────────────────────────

func (a *App) saveToLibrary() {
	if a.instance.N <= 0 {
		dialog.ShowInformation("Nothing to save", "Open an instance first.", a.window)
		return
	}
	nameEntry := widget.NewEntry()
	nameEntry.SetText(a.instance.Name)
	dialog.ShowForm("Save to Library", "Save", "Cancel",
		[]*widget.FormItem{widget.NewFormItem("Name", nameEntry)},
		func(ok bool) {
			if !ok {
				return
			}
			inst := a.instance
			inst.Name = strings.TrimSpace(nameEntry.Text)
			if err := a.library.Add(inst); err != nil {
				dialog.ShowError(err, a.window)
				return
			}
			if err := project.SaveLibrary(project.DefaultLibraryPath(), a.library); err != nil {
				dialog.ShowError(fmt.Errorf("failed to save library: %w", err), a.window)
				return
			}
			a.instance.Name = inst.Name
		}, a.window)
}

func (a *App) showLibraryDialog() {
	names := a.library.Names()
	if len(names) == 0 {
		dialog.ShowInformation("Library", "The instance library is empty.", a.window)
		return
	}
	var d dialog.Dialog
	list := widget.NewList(
		func() int { return len(names) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(i widget.ListItemID, o fyne.CanvasObject) { o.(*widget.Label).SetText(names[i]) },
	)
	list.OnSelected = func(i widget.ListItemID) {
		inst, ok := a.library.Find(names[i])
		if !ok {
			return
		}
		a.instance = inst
		a.report = nil
		a.history.Clear()
		a.refreshResults()
		d.Hide()
	}
	d = dialog.NewCustom("Instance Library", "Close", list, a.window)
	d.Resize(fyne.NewSize(360, 400))
	d.Show()
}

func displayName(inst model.Instance) string {
	if inst.Name != "" {
		return inst.Name
	}
	return "Instance"
}

// OpenPath loads an instance given on the command line.
func (a *App) OpenPath(path string) {
	if _, err := os.Stat(path); err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	a.handleImportResult(path, importer.Import(path, 0))
}
