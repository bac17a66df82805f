package ui

import (
	"fmt"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/SquareFill/internal/model"
	"github.com/piwi3910/SquareFill/internal/project"
)

// showSettingsDialog displays the application settings editor.
func (a *App) showSettingsDialog() {
	cfg := a.config

	timeEntry := widget.NewEntry()
	timeEntry.SetText(strconv.FormatFloat(cfg.DefaultTimeLimit, 'f', -1, 64))
	timeEntry.OnChanged = func(text string) {
		if v, err := strconv.ParseFloat(text, 64); err == nil && v >= 0 {
			cfg.DefaultTimeLimit = v
		}
	}

	seedEntry := widget.NewEntry()
	seedEntry.SetText(strconv.FormatUint(cfg.DefaultSeed, 10))
	seedEntry.OnChanged = func(text string) {
		if v, err := strconv.ParseUint(text, 10, 64); err == nil {
			cfg.DefaultSeed = v
		}
	}

	outputEntry := widget.NewEntry()
	outputEntry.SetText(cfg.OutputDir)
	outputEntry.OnChanged = func(text string) { cfg.OutputDir = text }

	profileSelect := widget.NewSelect(model.GetProfileNames(), func(selected string) {
		cfg.DefaultProfile = selected
	})
	profileSelect.SetSelected(cfg.DefaultProfile)

	themeSelect := widget.NewSelect([]string{"system", "light", "dark"}, func(selected string) {
		cfg.Theme = selected
	})
	themeSelect.SetSelected(cfg.Theme)

	logSelect := widget.NewSelect([]string{"debug", "info", "error", "severe"}, func(selected string) {
		cfg.LogLevel = selected
	})
	logSelect.SetSelected(cfg.LogLevel)

	progressCheck := widget.NewCheck("", func(b bool) { cfg.ShowProgress = b })
	progressCheck.Checked = cfg.ShowProgress

	formItems := []*widget.FormItem{
		widget.NewFormItem("Theme", themeSelect),
		widget.NewFormItem("Log Level", logSelect),
		widget.NewFormItem("Show CLI Progress", progressCheck),
		widget.NewFormItem("", widget.NewSeparator()),
		widget.NewFormItem("Default Profile", profileSelect),
		widget.NewFormItem("Default Time Limit (s, 0=profile)", timeEntry),
		widget.NewFormItem("Default Seed (0=fixed)", seedEntry),
		widget.NewFormItem("Output Directory", outputEntry),
	}

	d := dialog.NewForm("Settings", "Save", "Cancel", formItems,
		func(ok bool) {
			if !ok {
				return
			}
			a.config = cfg
			a.ApplyTheme()
			if err := a.saveConfig(); err != nil {
				dialog.ShowError(fmt.Errorf("failed to save settings: %w", err), a.window)
			} else {
				dialog.ShowInformation("Settings Saved", "Application settings have been saved.", a.window)
			}
		},
		a.window,
	)
	d.Resize(fyne.NewSize(500, 420))
	d.Show()
}

// showImportExportDialog displays the import/export data dialog.
func (a *App) showImportExportDialog() {
	exportBtn := widget.NewButton("Export All Data...", func() {
		d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
			if err != nil || writer == nil {
				return
			}
			defer writer.Close()
			path := writer.URI().Path()
			if err := project.ExportAllData(path, a.config, model.CustomProfiles, a.library); err != nil {
				dialog.ShowError(err, a.window)
			} else {
				dialog.ShowInformation("Export Complete",
					fmt.Sprintf("All application data exported to:\n%s", path), a.window)
			}
		}, a.window)
		d.SetFileName("squarefill-backup.json")
		d.Show()
	})

	importBtn := widget.NewButton("Import All Data...", func() {
		dialog.ShowConfirm("Import Data",
			"Importing data will replace your settings, custom profiles and instance library.\n\nAre you sure you want to continue?",
			func(ok bool) {
				if !ok {
					return
				}
				d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
					if err != nil || reader == nil {
						return
					}
					defer reader.Close()
					path := reader.URI().Path()
					backup, err := project.ImportAllData(path)
					if err != nil {
						dialog.ShowError(err, a.window)
						return
					}
					if err := a.applyBackup(backup); err != nil {
						dialog.ShowError(fmt.Errorf("failed to save imported data: %w", err), a.window)
						return
					}
					dialog.ShowInformation("Import Complete",
						fmt.Sprintf("Data imported successfully from backup created at %s.", backup.CreatedAt), a.window)
				}, a.window)
				d.Show()
			},
			a.window,
		)
	})

	content := container.NewVBox(
		widget.NewLabel("Export all application data (settings, profiles, instance library) to a backup file,\nor import from a previously exported backup."),
		widget.NewSeparator(),
		exportBtn,
		widget.NewSeparator(),
		importBtn,
	)

	d := dialog.NewCustom("Import / Export Data", "Close", content, a.window)
	d.Resize(fyne.NewSize(450, 250))
	d.Show()
}

// applyBackup replaces config, profiles and library and persists all three.
func (a *App) applyBackup(backup project.BackupData) error {
	a.config = backup.Config
	model.CustomProfiles = backup.Profiles
	a.library = backup.Library
	if err := a.saveConfig(); err != nil {
		return err
	}
	if err := project.SaveCustomProfilesToDefault(model.CustomProfiles); err != nil {
		return err
	}
	return project.SaveLibrary(project.DefaultLibraryPath(), a.library)
}

// ApplyTheme installs the theme named in the config.
func (a *App) ApplyTheme() {
	if v, ok := VariantForName(a.config.Theme); ok {
		a.app.Settings().SetTheme(NewSquareFillThemeWithVariant(v))
		return
	}
	a.app.Settings().SetTheme(NewSquareFillTheme())
}

// saveConfig persists the current app config to disk.
func (a *App) saveConfig() error {
	return project.SaveAppConfig(project.DefaultConfigPath(), a.config)
}
