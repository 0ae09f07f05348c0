package ui

import (
	"context"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// newClientSettingsTab configures the client itself: backend address,
// local logging and desktop notification preferences. Backend-side
// settings live on the dashboard tabs.
func newClientSettingsTab(ctx context.Context, dep Dependencies, connStatusLabel *widget.Label) fyne.CanvasObject {
	current := dep.Data.Config
	current.FillMissingDefaults()

	status := widget.NewLabel("")

	baseURLEntry := widget.NewEntry()
	baseURLEntry.SetText(current.Backend.BaseURL)
	baseURLEntry.SetPlaceHolder("http://127.0.0.1:5000")

	usernameEntry := widget.NewEntry()
	usernameEntry.SetText(current.Backend.Username)
	usernameEntry.SetPlaceHolder("Username (optional)")

	levelSelect := widget.NewSelect([]string{"debug", "info", "warn", "error"}, nil)
	levelSelect.SetSelected(strings.ToLower(current.Logging.Level))
	if levelSelect.Selected == "" {
		levelSelect.SetSelected("info")
	}

	logToFile := widget.NewCheck("", nil)
	logToFile.SetChecked(current.Logging.LogToFile)

	notifyWhenFocused := widget.NewCheck("", nil)
	notifyWhenFocused.SetChecked(current.UI.Notifications.NotifyWhenFocused)

	notifyHighSeverity := widget.NewCheck("", nil)
	notifyHighSeverity.SetChecked(current.UI.Notifications.Events.HighSeverityAlert)

	notifyBlocks := widget.NewCheck("", nil)
	notifyBlocks.SetChecked(current.UI.Notifications.Events.BlockListChanged)

	notifyConnection := widget.NewCheck("", nil)
	notifyConnection.SetChecked(current.UI.Notifications.Events.ConnectionStatus)

	startOnLogin := widget.NewCheck("", nil)
	startOnLogin.SetChecked(current.UI.StartOnLogin)

	saveButton := widget.NewButton("Save", func() {
		cfg := current
		cfg.Backend.BaseURL = strings.TrimSpace(baseURLEntry.Text)
		cfg.Backend.Username = strings.TrimSpace(usernameEntry.Text)
		cfg.Logging.Level = levelSelect.Selected
		cfg.Logging.LogToFile = logToFile.Checked
		cfg.UI.Notifications.NotifyWhenFocused = notifyWhenFocused.Checked
		cfg.UI.Notifications.Events.HighSeverityAlert = notifyHighSeverity.Checked
		cfg.UI.Notifications.Events.BlockListChanged = notifyBlocks.Checked
		cfg.UI.Notifications.Events.ConnectionStatus = notifyConnection.Checked
		cfg.UI.StartOnLogin = startOnLogin.Checked

		if err := dep.Actions.OnSaveConfig(cfg); err != nil {
			status.SetText("Save failed: " + err.Error())

			return
		}
		current = cfg
		status.SetText("Saved. Backend address changes apply on next start.")
	})
	saveButton.Importance = widget.HighImportance

	clearCacheButton := widget.NewButton("Clear local cache", func() {
		if dep.Actions.OnClearCache == nil {
			status.SetText("Cache clear is not available")

			return
		}
		if err := dep.Actions.OnClearCache(ctx); err != nil {
			status.SetText("Cache clear failed: " + err.Error())

			return
		}
		status.SetText("Local cache cleared")
	})
	if dep.Actions.OnClearCache == nil {
		clearCacheButton.Disable()
	}

	openLogButton := widget.NewButton("Open log file", func() {
		if err := dep.Actions.OnOpenLogFile(); err != nil {
			status.SetText("Open log failed: " + err.Error())

			return
		}
		status.SetText("")
	})
	if dep.Actions.OnOpenLogFile == nil {
		openLogButton.Disable()
	}

	backendForm := widget.NewForm(
		widget.NewFormItem("Backend URL", baseURLEntry),
		widget.NewFormItem("Username", usernameEntry),
	)
	loggingForm := widget.NewForm(
		widget.NewFormItem("Log Level", levelSelect),
		widget.NewFormItem("Log to file", logToFile),
	)
	startupForm := widget.NewForm(
		widget.NewFormItem("Start on login", startOnLogin),
	)
	notificationsForm := widget.NewForm(
		widget.NewFormItem("Notify while focused", notifyWhenFocused),
		widget.NewFormItem("High severity alerts", notifyHighSeverity),
		widget.NewFormItem("New blocked addresses", notifyBlocks),
		widget.NewFormItem("Connection changes", notifyConnection),
	)

	backendBlock := widget.NewCard("Backend", "", container.NewVBox(connStatusLabel, backendForm))
	loggingBlock := widget.NewCard("Client logging", "", loggingForm)
	notificationsBlock := widget.NewCard("Notifications", "", notificationsForm)
	startupBlock := widget.NewCard("Startup", "", startupForm)
	maintenanceBlock := widget.NewCard("Maintenance", "", container.NewHBox(clearCacheButton, openLogButton))

	return container.NewVScroll(container.NewVBox(
		backendBlock,
		loggingBlock,
		notificationsBlock,
		startupBlock,
		maintenanceBlock,
		container.NewHBox(saveButton),
		status,
	))
}
