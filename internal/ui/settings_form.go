package ui

import (
	"context"
	"errors"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/netwarden/netwarden/internal/settings"
)

var logLevelOptions = []string{"DEBUG", "INFO", "WARNING", "ERROR", "CRITICAL"}

// settingsForm renders one dashboard's backend settings draft. Both
// dashboards build the same form against their own reconciler, so
// validation, error gating and save/reset behavior stay identical.
type settingsForm struct {
	rec    *settings.Reconciler
	banner *statusBanner

	checks  map[string]*widget.Check
	selects map[string]*widget.Select
	entries map[string]*widget.Entry
	errors  map[string]*widget.Label

	saveButton  *widget.Button
	resetButton *widget.Button

	refreshing bool
}

func newSettingsForm(rec *settings.Reconciler, banner *statusBanner) (*settingsForm, fyne.CanvasObject) {
	f := &settingsForm{
		rec:     rec,
		banner:  banner,
		checks:  make(map[string]*widget.Check),
		selects: make(map[string]*widget.Select),
		entries: make(map[string]*widget.Entry),
		errors:  make(map[string]*widget.Label),
	}

	items := make([]*widget.FormItem, 0, len(settings.Fields()))
	for _, field := range settings.Fields() {
		control := f.buildControl(field)
		errLabel := widget.NewLabel("")
		errLabel.Importance = widget.DangerImportance
		errLabel.Hide()
		f.errors[field.Key] = errLabel

		item := widget.NewFormItem(field.Label, container.NewVBox(control, errLabel))
		item.HintText = field.Tooltip
		items = append(items, item)
	}

	f.saveButton = widget.NewButton("Save", f.onSave)
	f.saveButton.Importance = widget.HighImportance
	f.resetButton = widget.NewButton("Reset to defaults", f.onReset)
	f.resetButton.Disable()

	form := widget.NewForm(items...)
	content := container.NewVBox(
		form,
		container.NewHBox(f.saveButton, f.resetButton),
	)

	f.load()

	return f, content
}

func (f *settingsForm) buildControl(field settings.Field) fyne.CanvasObject {
	switch field.Key {
	case settings.KeySignaturesEnable, settings.KeyEnableFileLogging:
		check := widget.NewCheck("", func(value bool) {
			if f.refreshing {
				return
			}
			raw := "false"
			if value {
				raw = "true"
			}
			f.rec.SetValue(field.Key, raw)
			f.refreshErrors()
		})
		f.checks[field.Key] = check

		return check
	case settings.KeyLogLevel:
		sel := widget.NewSelect(logLevelOptions, func(value string) {
			if f.refreshing {
				return
			}
			f.rec.SetValue(field.Key, value)
			f.refreshErrors()
		})
		f.selects[field.Key] = sel

		return sel
	default:
		entry := widget.NewEntry()
		entry.SetPlaceHolder(field.Placeholder)
		entry.OnChanged = func(value string) {
			if f.refreshing {
				return
			}
			f.rec.SetValue(field.Key, value)
			f.refreshErrors()
		}
		f.entries[field.Key] = entry

		return entry
	}
}

func (f *settingsForm) load() {
	go func() {
		err := f.rec.Load(context.Background())
		fyne.Do(func() {
			if err != nil {
				f.banner.ShowError("Could not load settings: " + err.Error())

				return
			}
			f.refresh()
			f.resetButton.Enable()
		})
	}()
}

func (f *settingsForm) onSave() {
	f.saveButton.Disable()
	go func() {
		err := f.rec.Save(context.Background())
		fyne.Do(func() {
			f.saveButton.Enable()
			f.refresh()
			switch {
			case err == nil:
				f.banner.ShowSuccess("Settings saved")
			case errors.Is(err, settings.ErrValidationBlocked):
				f.banner.ShowError("Please fix the highlighted values before saving")
			case errors.Is(err, settings.ErrSaveInFlight):
				f.banner.ShowError("A save is already in progress")
			default:
				f.banner.ShowError("Save failed: " + err.Error())
			}
		})
	}()
}

func (f *settingsForm) onReset() {
	if err := f.rec.Reset(); err != nil {
		f.banner.ShowError(err.Error())

		return
	}
	f.refresh()
	f.banner.ShowSuccess("Restored server defaults (not saved yet)")
}

// refresh pulls the draft back into the widgets. Runs on the UI
// thread; OnChanged callbacks are muted while it rewrites values.
func (f *settingsForm) refresh() {
	f.refreshing = true
	for key, check := range f.checks {
		check.SetChecked(settings.BoolValue(f.rec.Value(key)))
	}
	for key, sel := range f.selects {
		value := f.rec.Value(key)
		if containsOption(logLevelOptions, value) {
			sel.SetSelected(value)
		} else {
			sel.ClearSelected()
		}
	}
	for key, entry := range f.entries {
		entry.SetText(f.rec.Value(key))
	}
	f.refreshing = false

	f.refreshErrors()
}

func (f *settingsForm) refreshErrors() {
	for key, label := range f.errors {
		message := f.rec.VisibleError(key)
		if message == "" {
			label.SetText("")
			label.Hide()

			continue
		}
		label.SetText(message)
		label.Show()
	}
}

func containsOption(options []string, value string) bool {
	for _, option := range options {
		if option == value {
			return true
		}
	}

	return false
}
