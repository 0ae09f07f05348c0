package ui

import (
	"context"

	"github.com/netwarden/netwarden/internal/api"
	"github.com/netwarden/netwarden/internal/bus"
	"github.com/netwarden/netwarden/internal/config"
	"github.com/netwarden/netwarden/internal/domain"
	"github.com/netwarden/netwarden/internal/notifications"
	"github.com/netwarden/netwarden/internal/settings"
)

type DataDependencies struct {
	Config                config.AppConfig
	AlertStore            *domain.AlertStore
	BlockStore            *domain.BlockStore
	DeviceStore           *domain.DeviceStore
	Bus                   bus.MessageBus
	LastSelectedDashboard string
	CurrentConnStatus     func() (api.ConnStatusEvent, bool)
	SettingsReconciler    func(scope string) *settings.Reconciler
}

type ActionDependencies struct {
	OnSaveConfig        func(cfg config.AppConfig) error
	OnLogin             func(ctx context.Context, username, password string) error
	OnBlock             func(ctx context.Context, ip, reason string) error
	OnUnblock           func(ctx context.Context, ip string) error
	OnTrust             func(ctx context.Context, ip string) error
	OnDashboardSelected func(name string)
	OnClearCache        func(ctx context.Context) error
	OnOpenLogFile       func() error
	OnQuit              func()

	// OnNotificationsReady runs once the Fyne app exists so the caller
	// can start its notification service with a native sender and a
	// live foreground probe.
	OnNotificationsReady func(sender notifications.Sender, isForeground func() bool)
}

type Dependencies struct {
	Data    DataDependencies
	Actions ActionDependencies
}
