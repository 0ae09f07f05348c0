package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/netwarden/netwarden/internal/api"
	"github.com/netwarden/netwarden/internal/app"
	"github.com/netwarden/netwarden/internal/domain"
)

// newIDSTab builds the intrusion detection dashboard: live alerts,
// the scan engine state, block list management and the IDS settings.
func newIDSTab(ctx context.Context, dep Dependencies) fyne.CanvasObject {
	banner := newStatusBanner()
	scanStatus := widget.NewLabel("Scan engine: unknown")

	alerts := dep.Data.AlertStore.SnapshotSorted()
	var selectedAlert *domain.Alert

	alertList := widget.NewList(
		func() int { return len(alerts) },
		func() fyne.CanvasObject {
			return container.NewVBox(
				widget.NewLabel("severity source"),
				widget.NewLabel("description"),
			)
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			if id >= len(alerts) {
				return
			}
			alert := alerts[id]
			rows := obj.(*fyne.Container).Objects
			head := rows[0].(*widget.Label)
			head.SetText(fmt.Sprintf("[%s] %s -> %s (%s)", strings.ToUpper(string(alert.Severity)), alert.SourceIP, alert.DestIP, alert.CreatedAt.Format(time.DateTime)))
			body := rows[1].(*widget.Label)
			description := alert.Description
			if description == "" {
				description = fmt.Sprintf("%s score %.3f", alert.Kind, alert.Score)
			}
			body.SetText(description)
		},
	)
	alertList.OnSelected = func(id widget.ListItemID) {
		if id < len(alerts) {
			alert := alerts[id]
			selectedAlert = &alert
		}
	}
	alertList.OnUnselected = func(widget.ListItemID) {
		selectedAlert = nil
	}

	blockSelected := widget.NewButton("Block source", func() {
		if selectedAlert == nil {
			banner.ShowError("Select an alert first")

			return
		}
		alert := *selectedAlert
		go func() {
			reason := alert.Description
			if reason == "" {
				reason = fmt.Sprintf("%s alert %d", alert.Kind, alert.ID)
			}
			err := dep.Actions.OnBlock(ctx, alert.SourceIP, reason)
			fyne.Do(func() {
				if err != nil {
					banner.ShowError("Block failed: " + err.Error())

					return
				}
				banner.ShowSuccess("Blocked " + alert.SourceIP)
			})
		}()
	})
	trustSelected := widget.NewButton("Trust source", func() {
		if selectedAlert == nil {
			banner.ShowError("Select an alert first")

			return
		}
		alert := *selectedAlert
		go func() {
			err := dep.Actions.OnTrust(ctx, alert.SourceIP)
			fyne.Do(func() {
				if err != nil {
					banner.ShowError("Trust failed: " + err.Error())

					return
				}
				banner.ShowSuccess("Trusted " + alert.SourceIP)
			})
		}()
	})

	blocksPanel := newBlocksPanel(ctx, dep, banner)

	rec := dep.Data.SettingsReconciler(app.DashboardIDS)
	_, settingsContent := newSettingsForm(rec, banner)

	// Live refresh from the stores and the bus.
	go func() {
		scanSub := dep.Data.Bus.Subscribe(api.TopicScanStatus)
		defer dep.Data.Bus.Unsubscribe(scanSub, api.TopicScanStatus)
		for {
			select {
			case <-ctx.Done():
				return
			case <-dep.Data.AlertStore.Changes():
				fyne.Do(func() {
					alerts = dep.Data.AlertStore.SnapshotSorted()
					// The snapshot may have shifted indices, so the
					// selection is re-resolved by alert ID.
					if selectedAlert != nil {
						selectedAlert = resolveAlertSelection(alerts, selectedAlert.ID)
						if selectedAlert == nil {
							alertList.UnselectAll()
						}
					}
					alertList.Refresh()
				})
			case raw, ok := <-scanSub:
				if !ok {
					return
				}
				event, ok := raw.(api.ScanStatusEvent)
				if !ok {
					continue
				}
				fyne.Do(func() {
					scanStatus.SetText(formatScanStatus(event.Status))
				})
			}
		}
	}()

	alertActions := container.NewHBox(blockSelected, trustSelected)
	alertsCard := widget.NewCard("Alerts", "", container.NewBorder(scanStatus, alertActions, nil, nil, alertList))

	left := container.NewBorder(banner.Widget(), nil, nil, nil, alertsCard)
	right := container.NewVBox(
		blocksPanel,
		widget.NewCard("IDS Settings", "", settingsContent),
	)

	return container.NewHSplit(left, container.NewVScroll(right))
}

// resolveAlertSelection finds the alert with the given ID in a fresh
// snapshot and returns a copy, or nil when it aged out.
func resolveAlertSelection(alerts []domain.Alert, id int64) *domain.Alert {
	for _, alert := range alerts {
		if alert.ID == id {
			found := alert

			return &found
		}
	}

	return nil
}

func formatScanStatus(status api.ScanStatusInfo) string {
	if status.Running {
		return fmt.Sprintf("Scan engine: running (%.0f%%)", status.Progress*100)
	}
	if status.LastFinished > 0 {
		return "Scan engine: idle, last finished " + time.Unix(status.LastFinished, 0).Format(time.DateTime)
	}

	return "Scan engine: idle"
}
