package ui

import (
	"fmt"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/SquareFill/internal/model"
	"github.com/piwi3910/SquareFill/internal/project"
)

// showSolverSettingsDialog opens a dialog with the annealing parameters that
// are not shown in the quick settings sidebar.
func (a *App) showSolverSettingsDialog() {
	s := a.settings

	floatEntry := func(val *float64) *widget.Entry {
		e := widget.NewEntry()
		e.SetText(strconv.FormatFloat(*val, 'f', -1, 64))
		e.OnChanged = func(text string) {
			if v, err := strconv.ParseFloat(text, 64); err == nil && v >= 0 {
				*val = v
			}
		}
		return e
	}

	intEntry := func(val *int) *widget.Entry {
		e := widget.NewEntry()
		e.SetText(strconv.Itoa(*val))
		e.OnChanged = func(text string) {
			if v, err := strconv.Atoi(text); err == nil && v >= 0 {
				*val = v
			}
		}
		return e
	}

	weightsSection := widget.NewCard("Move Weights",
		"Relative selection probability of each move (0 = disabled)",
		container.NewGridWithColumns(2,
			widget.NewLabel("Add"), floatEntry(&s.Weights.Add),
			widget.NewLabel("Delete"), floatEntry(&s.Weights.Delete),
			widget.NewLabel("Change Square"), floatEntry(&s.Weights.ChangeSquare),
			widget.NewLabel("Split Square"), floatEntry(&s.Weights.SplitSquare),
			widget.NewLabel("Multiple Add"), floatEntry(&s.Weights.MultipleAdd),
		))

	limitsSection := widget.NewCard("Move Limits", "",
		container.NewGridWithColumns(2,
			widget.NewLabel("Deletion Cascade Limit"), intEntry(&s.DeletionLimit),
			widget.NewLabel("Multiple Add Budget"), intEntry(&s.MultipleAddLimit),
		))

	tempSection := widget.NewCard("Temperature Schedule",
		"0 derives the temperature from the grid size",
		container.NewGridWithColumns(2,
			widget.NewLabel("Start Temperature"), floatEntry(&s.StartTemp),
			widget.NewLabel("End Temperature"), floatEntry(&s.EndTemp),
			widget.NewLabel("Clock Check Interval"), intEntry(&s.CheckInterval),
		))

	scoringSection := widget.NewCard("Scoring",
		"Extra terms fade out as the run progresses",
		container.NewGridWithColumns(2,
			widget.NewLabel("Edge Length Weight"), floatEntry(&s.EdgeWeight),
			widget.NewLabel("Corner Parity Weight"), floatEntry(&s.PenaltyWeight),
		))

	saveProfileBtn := widget.NewButtonWithIcon("Save as Profile", theme.DocumentSaveIcon(), func() {
		a.saveSettingsAsProfile(s)
	})
	importProfileBtn := widget.NewButtonWithIcon("Import Profile", theme.FolderOpenIcon(), func() {
		a.importProfile()
	})
	exportProfileBtn := widget.NewButtonWithIcon("Export Profile", theme.UploadIcon(), func() {
		a.exportProfile(s)
	})

	content := container.NewVScroll(container.NewVBox(
		weightsSection,
		limitsSection,
		tempSection,
		scoringSection,
		container.NewGridWithColumns(3, saveProfileBtn, importProfileBtn, exportProfileBtn),
	))

	d := dialog.NewCustomConfirm("Solver Settings", "Apply", "Cancel", content, func(ok bool) {
		if !ok {
			return
		}
		if s.Weights.Total() <= 0 {
			dialog.ShowError(fmt.Errorf("at least one move weight must be positive"), a.window)
			return
		}
		a.settings = s
	}, a.window)
	d.Resize(fyne.NewSize(520, 620))
	d.Show()
}

func (a *App) saveSettingsAsProfile(s model.SolverSettings) {
	nameEntry := widget.NewEntry()
	descEntry := widget.NewEntry()
	dialog.ShowForm("Save as Profile", "Save", "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Name", nameEntry),
			widget.NewFormItem("Description", descEntry),
		},
		func(ok bool) {
			if !ok {
				return
			}
			name := strings.TrimSpace(nameEntry.Text)
			if name == "" {
				dialog.ShowError(fmt.Errorf("profile name is required"), a.window)
				return
			}
			a.storeProfile(model.Profile{Name: name, Description: descEntry.Text, Settings: s})
		}, a.window)
}

// storeProfile adds or replaces a custom profile and saves the profile file.
// Built-in names cannot be overwritten.
func (a *App) storeProfile(p model.Profile) {
	for _, b := range model.BuiltInProfiles {
		if b.Name == p.Name {
			dialog.ShowError(fmt.Errorf("%q is a built-in profile", p.Name), a.window)
			return
		}
	}
	p.IsBuiltIn = false
	replaced := false
	for i := range model.CustomProfiles {
		if model.CustomProfiles[i].Name == p.Name {
			model.CustomProfiles[i] = p
			replaced = true
		}
	}
	if !replaced {
		model.CustomProfiles = append(model.CustomProfiles, p)
	}
	if err := project.SaveCustomProfilesToDefault(model.CustomProfiles); err != nil {
		dialog.ShowError(fmt.Errorf("failed to save profiles: %w", err), a.window)
		return
	}
	dialog.ShowInformation("Profile Saved", fmt.Sprintf("Profile %q saved.", p.Name), a.window)
}

func (a *App) importProfile() {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		path := reader.URI().Path()
		reader.Close()
		p, err := project.ImportProfile(path)
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		a.storeProfile(p)
	}, a.window)
}

func (a *App) exportProfile(s model.SolverSettings) {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		path := writer.URI().Path()
		writer.Close()
		p := model.Profile{Name: a.profile, Settings: s}
		if err := project.ExportProfile(path, p); err != nil {
			dialog.ShowError(err, a.window)
		}
	}, a.window)
	d.SetFileName(a.profile + ".yaml")
	d.Show()
}
