package ui

import (
	"context"
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/netwarden/netwarden/internal/app"
)

// newComplianceTab builds the compliance dashboard: monitored devices
// with violations surfaced first, plus the compliance settings scope.
func newComplianceTab(ctx context.Context, dep Dependencies) fyne.CanvasObject {
	banner := newStatusBanner()
	summary := widget.NewLabel("No devices reported yet")

	devices := dep.Data.DeviceStore.SnapshotSorted()
	deviceList := widget.NewList(
		func() int { return len(devices) },
		func() fyne.CanvasObject {
			return widget.NewLabel("hostname state")
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			if id >= len(devices) {
				return
			}
			device := devices[id]
			state := "compliant"
			if !device.Compliant {
				state = "VIOLATION"
			}
			label := obj.(*widget.Label)
			label.SetText(fmt.Sprintf("%s (%s, %s) - %s, last seen %s",
				device.Hostname, device.IP, device.OS, state, device.LastSeen.Format(time.DateTime)))
		},
	)

	refreshSummary := func() {
		compliant, violating := dep.Data.DeviceStore.ComplianceCounts()
		if compliant+violating == 0 {
			summary.SetText("No devices reported yet")

			return
		}
		summary.SetText(fmt.Sprintf("%d devices compliant, %d in violation", compliant, violating))
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-dep.Data.DeviceStore.Changes():
				fyne.Do(func() {
					devices = dep.Data.DeviceStore.SnapshotSorted()
					deviceList.Refresh()
					refreshSummary()
				})
			}
		}
	}()

	rec := dep.Data.SettingsReconciler(app.DashboardCompliance)
	_, settingsContent := newSettingsForm(rec, banner)

	devicesCard := widget.NewCard("Monitored devices", "", container.NewBorder(summary, nil, nil, nil, deviceList))
	left := container.NewBorder(banner.Widget(), nil, nil, nil, devicesCard)
	right := container.NewVScroll(widget.NewCard("Compliance Settings", "", settingsContent))

	return container.NewHSplit(left, right)
}
