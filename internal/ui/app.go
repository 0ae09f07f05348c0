package ui

import (
	"context"
	"sync"
	"sync/atomic"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/netwarden/netwarden/internal/api"
	"github.com/netwarden/netwarden/internal/app"
)

var tabTitles = map[string]string{
	app.DashboardIDS:        "Intrusion Detection",
	app.DashboardCompliance: "Compliance",
}

func Run(ctx context.Context, dep Dependencies) error {
	fyApp := fyneapp.NewWithID("netwarden")
	window := fyApp.NewWindow(app.Name + " " + app.BuildVersionWithDate())
	window.Resize(fyne.NewSize(1100, 720))

	if dep.Actions.OnNotificationsReady != nil {
		var foreground atomic.Bool
		foreground.Store(true)
		fyApp.Lifecycle().SetOnEnteredForeground(func() {
			foreground.Store(true)
		})
		fyApp.Lifecycle().SetOnExitedForeground(func() {
			foreground.Store(false)
		})
		dep.Actions.OnNotificationsReady(NewFyneNotificationSender(fyApp), foreground.Load)
	}

	initialStatus := initialConnStatus(dep)
	settingsConnStatus := widget.NewLabel(formatConnStatus(initialStatus))
	footerConnStatus := widget.NewLabel(formatConnStatus(initialStatus))

	idsTab := newIDSTab(ctx, dep)
	complianceTab := newComplianceTab(ctx, dep)
	clientTab := newClientSettingsTab(ctx, dep, settingsConnStatus)

	dashboardItems := map[string]*container.TabItem{
		app.DashboardIDS:        container.NewTabItem(tabTitles[app.DashboardIDS], idsTab),
		app.DashboardCompliance: container.NewTabItem(tabTitles[app.DashboardCompliance], complianceTab),
	}
	settingsItem := container.NewTabItem("Settings", clientTab)

	tabs := container.NewAppTabs(
		dashboardItems[app.DashboardIDS],
		dashboardItems[app.DashboardCompliance],
		settingsItem,
	)
	if item, ok := dashboardItems[dep.Data.LastSelectedDashboard]; ok {
		tabs.Select(item)
	}
	tabs.OnSelected = func(item *container.TabItem) {
		if dep.Actions.OnDashboardSelected == nil {
			return
		}
		for name, dashboard := range dashboardItems {
			if dashboard == item {
				dep.Actions.OnDashboardSelected(name)

				return
			}
		}
	}

	if dep.Data.Bus != nil {
		sub := dep.Data.Bus.Subscribe(api.TopicConnStatus)
		go func() {
			defer dep.Data.Bus.Unsubscribe(sub, api.TopicConnStatus)
			for {
				select {
				case <-ctx.Done():
					return
				case raw, ok := <-sub:
					if !ok {
						return
					}
					event, ok := raw.(api.ConnStatusEvent)
					if !ok {
						continue
					}
					text := formatConnStatus(event)
					fyne.Do(func() {
						settingsConnStatus.SetText(text)
						footerConnStatus.SetText(text)
					})
				}
			}
		}()
	}

	content := container.NewBorder(nil, footerConnStatus, nil, nil, tabs)
	window.SetContent(content)

	if username := dep.Data.Config.Backend.Username; username != "" && dep.Actions.OnLogin != nil {
		password := widget.NewPasswordEntry()
		items := []*widget.FormItem{widget.NewFormItem("Password", password)}
		dialog.ShowForm("Sign in as "+username, "Login", "Skip", items, func(confirmed bool) {
			if !confirmed {
				return
			}
			go func() {
				if err := dep.Actions.OnLogin(ctx, username, password.Text); err != nil {
					fyne.Do(func() {
						dialog.ShowError(err, window)
					})
				}
			}()
		}, window)
	}

	var shutdownOnce sync.Once
	quit := func() {
		shutdownOnce.Do(func() {
			if dep.Actions.OnQuit != nil {
				dep.Actions.OnQuit()
			}
		})
	}
	window.SetCloseIntercept(func() {
		quit()
		fyApp.Quit()
	})

	window.Show()
	fyApp.Run()
	quit()

	return nil
}

func initialConnStatus(dep Dependencies) api.ConnStatusEvent {
	if dep.Data.CurrentConnStatus != nil {
		if status, ok := dep.Data.CurrentConnStatus(); ok {
			return status
		}
	}

	return api.ConnStatusEvent{State: api.ConnStateOffline, Reason: "not contacted yet"}
}

func formatConnStatus(status api.ConnStatusEvent) string {
	text := "Backend: " + string(status.State)
	if status.Reason != "" {
		text += " (" + status.Reason + ")"
	}

	return text
}
