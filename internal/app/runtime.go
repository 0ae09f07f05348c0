package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/netwarden/netwarden/internal/api"
	"github.com/netwarden/netwarden/internal/bus"
	"github.com/netwarden/netwarden/internal/config"
	"github.com/netwarden/netwarden/internal/domain"
	"github.com/netwarden/netwarden/internal/logging"
	"github.com/netwarden/netwarden/internal/persistence"
	"github.com/netwarden/netwarden/internal/platform"
)

type Runtime struct {
	mu sync.RWMutex

	Ctx    context.Context
	cancel context.CancelFunc

	Paths  Paths
	Config config.AppConfig

	LogManager *logging.Manager
	Bus        *bus.EventBus
	DB         *sql.DB

	Client *api.Client

	AlertRepo   *persistence.AlertRepo
	BlockRepo   *persistence.BlockRepo
	WriterQueue *persistence.WriterQueue

	AlertStore  *domain.AlertStore
	BlockStore  *domain.BlockStore
	DeviceStore *domain.DeviceStore

	Settings  *SettingsService
	Retention *RetentionService

	AlertPoller     *AlertPoller
	StatusPoller    *StatusPoller
	InventoryPoller *InventoryPoller

	autostart     platform.AutostartManager
	systemActions platform.SystemActions

	connStatusMu    sync.RWMutex
	connStatus      api.ConnStatusEvent
	connStatusKnown bool
}

func Initialize(parent context.Context) (*Runtime, error) {
	paths, err := ResolvePaths()
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(paths.ConfigFile)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(parent)
	rt := &Runtime{
		Ctx:    ctx,
		cancel: cancel,
		Paths:  paths,
		Config: cfg,
	}

	logMgr := logging.NewManager()
	if err := logMgr.Configure(cfg.Logging, paths.LogFile); err != nil {
		_ = logMgr.Close()
		cancel()

		return nil, fmt.Errorf("configure logging: %w", err)
	}
	rt.LogManager = logMgr
	slog.Info("starting netwarden runtime", "version", BuildVersion(), "build_date", BuildDateYMD(), "backend", cfg.Backend.BaseURL)

	db, err := persistence.Open(ctx, paths.DBFile)
	if err != nil {
		_ = rt.Close()

		return nil, err
	}
	rt.DB = db
	rt.AlertRepo = persistence.NewAlertRepo(db)
	rt.BlockRepo = persistence.NewBlockRepo(db)

	alertStore := domain.NewAlertStore()
	blockStore := domain.NewBlockStore()
	deviceStore := domain.NewDeviceStore()
	if err := domain.LoadStoresFromCache(ctx, rt.AlertRepo, rt.BlockRepo, alertStore, blockStore); err != nil {
		_ = rt.Close()

		return nil, err
	}
	rt.AlertStore = alertStore
	rt.BlockStore = blockStore
	rt.DeviceStore = deviceStore

	b := bus.New(logMgr.Logger("bus"))
	rt.Bus = b
	connSub := b.Subscribe(api.TopicConnStatus)
	go rt.captureConnStatus(ctx, connSub)
	alertStore.Start(ctx, b)
	blockStore.Start(ctx, b)
	deviceStore.Start(ctx, b)

	writerQueue := persistence.NewWriterQueue(logMgr.Logger("persistence"), 512)
	writerQueue.Start(ctx)
	rt.WriterQueue = writerQueue
	domain.StartPersistenceProjection(ctx, b, writerQueue, rt.AlertRepo, rt.BlockRepo)

	rt.Client = api.NewClient(cfg.Backend.BaseURL, cfg.Backend.InsecureSkipVerify, logMgr.Logger("api"))
	rt.Settings = NewSettingsService(rt.Client, b, logMgr, logMgr.Logger("settings"))

	sinceID, err := rt.AlertRepo.MaxID(ctx)
	if err != nil {
		slog.Warn("resume alert id from cache", "error", err)
		sinceID = 0
	}

	rt.AlertPoller = NewAlertPoller(AlertPollerConfig{
		Source:   rt.Client,
		Bus:      b,
		Interval: cfg.Backend.AlertPollInterval(),
		SinceID:  sinceID,
		Logger:   logMgr.Logger("alert_poller"),
	})
	rt.StatusPoller = NewStatusPoller(StatusPollerConfig{
		Source:   rt.Client,
		Bus:      b,
		Interval: cfg.Backend.StatusPollInterval(),
		Logger:   logMgr.Logger("status_poller"),
	})
	rt.InventoryPoller = NewInventoryPoller(InventoryPollerConfig{
		Source:   rt.Client,
		Bus:      b,
		Interval: cfg.Backend.DevicePollInterval(),
		Logger:   logMgr.Logger("inventory_poller"),
	})
	rt.Retention = NewRetentionService(RetentionServiceConfig{
		Alerts: rt.AlertRepo,
		Blocks: rt.BlockRepo,
		Bus:    b,
		Logger: logMgr.Logger("retention"),
	})

	rt.AlertPoller.Start(ctx)
	rt.StatusPoller.Start(ctx)
	rt.InventoryPoller.Start(ctx)
	rt.Retention.Start(ctx)

	rt.autostart = platform.NewAutostartManager()
	rt.systemActions = platform.NewSystemActions()
	if err := rt.autostart.Sync(cfg.UI.StartOnLogin); err != nil {
		slog.Warn("sync autostart entry", "error", err)
	}

	return rt, nil
}

func (r *Runtime) captureConnStatus(ctx context.Context, sub bus.Subscription) {
	for {
		select {
		case <-ctx.Done():
			return
		case raw, ok := <-sub:
			if !ok {
				return
			}
			status, ok := raw.(api.ConnStatusEvent)
			if !ok {
				continue
			}
			r.connStatusMu.Lock()
			r.connStatus = status
			r.connStatusKnown = true
			r.connStatusMu.Unlock()
		}
	}
}

func (r *Runtime) CurrentConnStatus() (api.ConnStatusEvent, bool) {
	r.connStatusMu.RLock()
	status := r.connStatus
	known := r.connStatusKnown
	r.connStatusMu.RUnlock()

	return status, known
}

// BlockIP asks the backend to block an address and refreshes the
// block list right away.
func (r *Runtime) BlockIP(ctx context.Context, ip, reason string) error {
	if err := r.Client.Block(ctx, ip, reason); err != nil {
		return err
	}
	r.InventoryPoller.RefreshNow()

	return nil
}

// UnblockIP removes an address from the block list.
func (r *Runtime) UnblockIP(ctx context.Context, ip string) error {
	if err := r.Client.Unblock(ctx, ip); err != nil {
		return err
	}
	r.InventoryPoller.RefreshNow()

	return nil
}

// TrustIP marks an address as trusted.
func (r *Runtime) TrustIP(ctx context.Context, ip string) error {
	if err := r.Client.Trust(ctx, ip); err != nil {
		return err
	}
	r.InventoryPoller.RefreshNow()

	return nil
}

func (r *Runtime) CurrentConfig() config.AppConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.Config
}

func (r *Runtime) SaveAndApplyConfig(cfg config.AppConfig) error {
	cfg.FillMissingDefaults()
	if err := cfg.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	cfg.UI.LastSelectedDashboard = r.Config.UI.LastSelectedDashboard
	if err := config.Save(r.Paths.ConfigFile, cfg); err != nil {
		r.mu.Unlock()

		return err
	}
	r.Config = cfg
	r.mu.Unlock()

	if err := r.LogManager.Configure(cfg.Logging, r.Paths.LogFile); err != nil {
		return err
	}
	if r.autostart != nil {
		if err := r.autostart.Sync(cfg.UI.StartOnLogin); err != nil {
			slog.Warn("sync autostart entry", "error", err)
		}
	}

	return nil
}

// OpenLogFile reveals the client log file with the OS default handler.
func (r *Runtime) OpenLogFile() error {
	if r.systemActions == nil {
		r.systemActions = platform.NewSystemActions()
	}

	return r.systemActions.OpenPath(r.Paths.LogFile)
}

// RememberSelectedDashboard persists the active dashboard tab so the
// next launch restores it.
func (r *Runtime) RememberSelectedDashboard(name string) {
	normalized := strings.TrimSpace(name)

	r.mu.Lock()
	if r.Config.UI.LastSelectedDashboard == normalized {
		r.mu.Unlock()

		return
	}
	cfg := r.Config
	cfg.UI.LastSelectedDashboard = normalized
	if err := config.Save(r.Paths.ConfigFile, cfg); err != nil {
		r.mu.Unlock()
		slog.Warn("save selected dashboard", "error", err)

		return
	}
	r.Config = cfg
	r.mu.Unlock()
}

// ClearCache empties the local alert and block cache and resets the
// in-memory stores.
func (r *Runtime) ClearCache(ctx context.Context) error {
	if err := persistence.ClearDatabase(ctx, r.DB); err != nil {
		return err
	}
	if r.AlertStore != nil {
		r.AlertStore.Reset()
	}
	if r.BlockStore != nil {
		r.BlockStore.Reset()
	}
	slog.Info("local cache cleared")

	return nil
}

func (r *Runtime) Close() error {
	if r.cancel != nil {
		r.cancel()
	}
	if r.Bus != nil {
		r.Bus.Close()
	}
	if r.DB != nil {
		_ = r.DB.Close()
	}
	if r.LogManager != nil {
		_ = r.LogManager.Close()
	}

	return nil
}
