package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/netwarden/netwarden/internal/api"
	"github.com/netwarden/netwarden/internal/app"
	"github.com/netwarden/netwarden/internal/bus"
	"github.com/netwarden/netwarden/internal/config"
	"github.com/netwarden/netwarden/internal/domain"
	"github.com/netwarden/netwarden/internal/logging"
	"github.com/netwarden/netwarden/internal/notifications"
	"github.com/netwarden/netwarden/internal/persistence"
	"github.com/netwarden/netwarden/internal/settings"
)

const firstContactTimeout = 45 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("run debug tool", "error", err)
		os.Exit(1)
	}
}

func run() error {
	backend := flag.String("backend", "", "backend base URL override")
	username := flag.String("username", "", "backend username (password read from NETWARDEN_PASSWORD)")
	notify := flag.Bool("notify", false, "send desktop notifications for watched events")
	listenFor := flag.Duration("listen-for", 0, "listen duration, e.g. 30s")
	noWatch := flag.Bool("no-watch", false, "exit after the first successful backend contact")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	paths, err := app.ResolvePaths()
	if err != nil {
		return fmt.Errorf("resolve paths: %w", err)
	}
	cfg, err := config.Load(paths.ConfigFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg, err = applyBackendOverride(cfg, *backend)
	if err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	logMgr := logging.NewManager()
	cfg.Logging.LogToFile = false
	if err := logMgr.Configure(cfg.Logging, paths.LogFile); err != nil {
		return fmt.Errorf("configure logging: %w", err)
	}
	defer func() {
		if closeErr := logMgr.Close(); closeErr != nil {
			slog.Warn("close log manager", "error", closeErr)
		}
	}()
	logger := logMgr.Logger("cli")
	logger.Info("starting netwarden debug", "version", app.BuildVersion(), "build_date", app.BuildDateYMD(), "backend", cfg.Backend.BaseURL)

	db, err := persistence.Open(ctx, paths.DBFile)
	if err != nil {
		return fmt.Errorf("open sqlite: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			logger.Warn("close sqlite", "error", closeErr)
		}
	}()

	alertRepo := persistence.NewAlertRepo(db)
	blockRepo := persistence.NewBlockRepo(db)

	alertStore := domain.NewAlertStore()
	blockStore := domain.NewBlockStore()
	deviceStore := domain.NewDeviceStore()
	if err := domain.LoadStoresFromCache(ctx, alertRepo, blockRepo, alertStore, blockStore); err != nil {
		return fmt.Errorf("bootstrap stores: %w", err)
	}
	logger.Info("cached state", "alerts", len(alertStore.SnapshotSorted()), "blocks", len(blockStore.SnapshotSorted()))

	b := bus.New(logMgr.Logger("bus"))
	defer b.Close()
	alertStore.Start(ctx, b)
	blockStore.Start(ctx, b)
	deviceStore.Start(ctx, b)

	writer := persistence.NewWriterQueue(logMgr.Logger("persistence"), 256)
	writer.Start(ctx)
	domain.StartPersistenceProjection(ctx, b, writer, alertRepo, blockRepo)

	client := api.NewClient(cfg.Backend.BaseURL, cfg.Backend.InsecureSkipVerify, logMgr.Logger("api"))
	if strings.TrimSpace(*username) != "" {
		if err := client.Login(ctx, strings.TrimSpace(*username), os.Getenv("NETWARDEN_PASSWORD")); err != nil {
			return fmt.Errorf("login: %w", err)
		}
		logger.Info("authenticated", "username", strings.TrimSpace(*username))
	}

	sinceID, err := alertRepo.MaxID(ctx)
	if err != nil {
		logger.Warn("resume alert id from cache", "error", err)
		sinceID = 0
	}

	connSub := b.Subscribe(api.TopicConnStatus)
	defer b.Unsubscribe(connSub, api.TopicConnStatus)

	alertPoller := app.NewAlertPoller(app.AlertPollerConfig{
		Source:   client,
		Bus:      b,
		Interval: cfg.Backend.AlertPollInterval(),
		SinceID:  sinceID,
		Logger:   logMgr.Logger("alert_poller"),
	})
	statusPoller := app.NewStatusPoller(app.StatusPollerConfig{
		Source:   client,
		Bus:      b,
		Interval: cfg.Backend.StatusPollInterval(),
		Logger:   logMgr.Logger("status_poller"),
	})
	inventoryPoller := app.NewInventoryPoller(app.InventoryPollerConfig{
		Source:   client,
		Bus:      b,
		Interval: cfg.Backend.DevicePollInterval(),
		Logger:   logMgr.Logger("inventory_poller"),
	})

	alertPoller.Start(ctx)
	statusPoller.Start(ctx)
	inventoryPoller.Start(ctx)

	if *notify {
		currentConfig := func() config.AppConfig { return cfg }
		service := app.NewNotificationService(
			b,
			currentConfig,
			func() bool { return false },
			notifications.NewBeeepSender(app.Name, logMgr.Logger("notifications")),
			logMgr.Logger("notification_service"),
		)
		service.Start(ctx)
	}

	logger.Info("waiting for first backend contact", "timeout", firstContactTimeout)
	if err := waitForBackend(ctx, logger, connSub, firstContactTimeout); err != nil {
		return fmt.Errorf("backend did not answer: %w", err)
	}
	if stats, ok := statusPoller.Stats(); ok {
		logger.Info("backend stats", "version", stats.Version, "alerts_total", stats.AlertsTotal, "blocks_active", stats.BlocksActive)
	}
	if statusPoller.BackendUnsupported() {
		logger.Warn("backend version below supported minimum", "minimum", app.MinBackendVersion)
	}
	auditSettings(ctx, client, logger)

	if *noWatch {
		logger.Info("no-watch mode completed, exiting")

		return nil
	}

	watch(ctx, b, logger)

	if *listenFor > 0 {
		logger.Info("listen mode", "duration", *listenFor)
		select {
		case <-ctx.Done():
		case <-time.After(*listenFor):
		}

		return nil
	}

	logger.Info("listening until interrupt")
	<-ctx.Done()

	return nil
}

func applyBackendOverride(cfg config.AppConfig, override string) (config.AppConfig, error) {
	if trimmed := strings.TrimSpace(override); trimmed != "" {
		cfg.Backend.BaseURL = trimmed
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// auditSettings fetches every dashboard scope and runs the stored
// values through the validators, flagging anything the backend holds
// that the client would reject.
func auditSettings(ctx context.Context, client *api.Client, logger *slog.Logger) {
	for _, scope := range []string{app.DashboardIDS, app.DashboardCompliance} {
		stored, defaults, err := client.FetchSettings(ctx, scope)
		if err != nil {
			logger.Warn("fetch settings", "scope", scope, "error", err)

			continue
		}

		form := settings.NewForm()
		form.Seed(stored, defaults)
		canonical, errs := form.ValidateAll()
		if canonical != nil {
			logger.Info("settings valid", "scope", scope, "keys", len(canonical))

			continue
		}
		for key, message := range errs {
			if message == "" {
				continue
			}
			logger.Warn("settings invalid", "scope", scope, "key", key, "error", message)
		}
	}
}

func waitForBackend(ctx context.Context, logger *slog.Logger, connSub bus.Subscription, timeout time.Duration) error {
	timeoutCh := time.After(timeout)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timeoutCh:
			return fmt.Errorf("timeout waiting for backend contact after %s", timeout)
		case raw, ok := <-connSub:
			if !ok {
				return fmt.Errorf("status stream closed while waiting for backend contact")
			}
			status, ok := raw.(api.ConnStatusEvent)
			if !ok {
				continue
			}
			logger.Info("backend status", "state", status.State, "reason", status.Reason)
			if status.State == api.ConnStateOnline {
				return nil
			}
		}
	}
}

func watch(ctx context.Context, b bus.MessageBus, logger *slog.Logger) {
	alertSub := b.Subscribe(api.TopicAlert)
	blockSub := b.Subscribe(api.TopicBlockChanged)
	deviceSub := b.Subscribe(api.TopicDeviceList)
	scanSub := b.Subscribe(api.TopicScanStatus)
	connSub := b.Subscribe(api.TopicConnStatus)

	go func() {
		for {
			select {
			case <-ctx.Done():
				b.Unsubscribe(alertSub, api.TopicAlert)
				b.Unsubscribe(blockSub, api.TopicBlockChanged)
				b.Unsubscribe(deviceSub, api.TopicDeviceList)
				b.Unsubscribe(scanSub, api.TopicScanStatus)
				b.Unsubscribe(connSub, api.TopicConnStatus)

				return
			case raw := <-alertSub:
				if event, ok := raw.(domain.AlertReceived); ok {
					alert := event.Alert
					logger.Info("alert", "id", alert.ID, "kind", alert.Kind, "severity", alert.Severity, "src", alert.SourceIP, "dst", alert.DestIP, "score", alert.Score)
				}
			case raw := <-blockSub:
				if event, ok := raw.(domain.BlockListChanged); ok {
					logger.Info("block-list", "count", len(event.Entries))
				}
			case raw := <-deviceSub:
				if event, ok := raw.(domain.DeviceListChanged); ok {
					logger.Info("device-list", "count", len(event.Devices))
				}
			case raw := <-scanSub:
				if event, ok := raw.(api.ScanStatusEvent); ok {
					logger.Info("scan-status", "running", event.Status.Running, "progress", event.Status.Progress)
				}
			case raw := <-connSub:
				if status, ok := raw.(api.ConnStatusEvent); ok {
					logger.Info("backend status", "state", status.State, "reason", status.Reason)
				}
			}
		}
	}()
}
