package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/netwarden/netwarden/internal/app"
	"github.com/netwarden/netwarden/internal/notifications"
	"github.com/netwarden/netwarden/internal/platform"
	"github.com/netwarden/netwarden/internal/ui"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	lock, err := platform.AcquireInstanceLock(app.Name)
	switch {
	case errors.Is(err, platform.ErrInstanceAlreadyRunning):
		slog.Error("another instance is already running")
		os.Exit(1)
	case errors.Is(err, platform.ErrInstanceLockUnsupported):
		slog.Warn("single instance lock unsupported on this platform")
	case err != nil:
		slog.Warn("acquire instance lock", "error", err)
	default:
		defer func() {
			_ = lock.Release()
		}()
	}

	rt, err := app.Initialize(ctx)
	if err != nil {
		slog.Error("initialize app runtime", "error", err)
		os.Exit(1)
	}

	var closeOnce sync.Once
	closeRuntime := func() {
		closeOnce.Do(func() {
			_ = rt.Close()
		})
	}
	defer closeRuntime()

	err = ui.Run(rt.Ctx, ui.Dependencies{
		Data: ui.DataDependencies{
			Config:                rt.Config,
			AlertStore:            rt.AlertStore,
			BlockStore:            rt.BlockStore,
			DeviceStore:           rt.DeviceStore,
			Bus:                   rt.Bus,
			LastSelectedDashboard: rt.Config.UI.LastSelectedDashboard,
			CurrentConnStatus:     rt.CurrentConnStatus,
			SettingsReconciler:    rt.Settings.Reconciler,
		},
		Actions: ui.ActionDependencies{
			OnSaveConfig:        rt.SaveAndApplyConfig,
			OnLogin:             rt.Client.Login,
			OnBlock:             rt.BlockIP,
			OnUnblock:           rt.UnblockIP,
			OnTrust:             rt.TrustIP,
			OnDashboardSelected: rt.RememberSelectedDashboard,
			OnClearCache:        rt.ClearCache,
			OnOpenLogFile:       rt.OpenLogFile,
			OnNotificationsReady: func(sender notifications.Sender, isForeground func() bool) {
				service := app.NewNotificationService(
					rt.Bus,
					rt.CurrentConfig,
					isForeground,
					sender,
					rt.LogManager.Logger("notifications"),
				)
				service.Start(rt.Ctx)
			},
			OnQuit: func() {
				stop()
				closeRuntime()
			},
		},
	})
	if err != nil {
		slog.Error("run ui", "error", err)
		os.Exit(1)
	}
}
