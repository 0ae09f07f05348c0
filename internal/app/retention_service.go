package app

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/netwarden/netwarden/internal/api"
	"github.com/netwarden/netwarden/internal/bus"
	"github.com/netwarden/netwarden/internal/domain"
	"github.com/netwarden/netwarden/internal/settings"
)

const defaultRetentionSweepInterval = time.Hour

// Default retention windows, used until the backend settings arrive.
const (
	defaultAlertRetentionDays = 30
	defaultBlockRetentionDays = 90
)

// RetentionServiceConfig customizes retention sweep behavior.
type RetentionServiceConfig struct {
	Alerts   domain.AlertRepository
	Blocks   domain.BlockRepository
	Bus      bus.MessageBus
	Interval time.Duration
	Logger   *slog.Logger
}

// RetentionService prunes the local cache according to the retention
// settings. A retention of 0 days disables pruning for that table.
type RetentionService struct {
	alerts   domain.AlertRepository
	blocks   domain.BlockRepository
	bus      bus.MessageBus
	interval time.Duration
	logger   *slog.Logger

	mu        sync.Mutex
	alertDays int
	blockDays int

	startOnce sync.Once
}

func NewRetentionService(cfg RetentionServiceConfig) *RetentionService {
	interval := cfg.Interval
	if interval <= 0 {
		interval = defaultRetentionSweepInterval
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default().With("component", "app.retention")
	}

	return &RetentionService{
		alerts:    cfg.Alerts,
		blocks:    cfg.Blocks,
		bus:       cfg.Bus,
		interval:  interval,
		logger:    logger,
		alertDays: defaultAlertRetentionDays,
		blockDays: defaultBlockRetentionDays,
	}
}

func (s *RetentionService) Start(ctx context.Context) {
	if s == nil || s.alerts == nil || s.blocks == nil {
		return
	}

	s.startOnce.Do(func() {
		if s.bus != nil {
			go s.watchSettings(ctx)
		}
		go s.run(ctx)
	})
}

// ApplySettings picks the retention windows out of a canonical
// settings document. Keys that are absent keep their current value.
func (s *RetentionService) ApplySettings(values map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if raw, ok := values[settings.KeyRetentionAlerts]; ok {
		if days, valid := settings.DayCount(raw); valid {
			s.alertDays = days
		}
	}
	if raw, ok := values[settings.KeyRetentionBlocks]; ok {
		if days, valid := settings.DayCount(raw); valid {
			s.blockDays = days
		}
	}
}

// PruneNow runs one sweep immediately.
func (s *RetentionService) PruneNow(ctx context.Context) {
	s.mu.Lock()
	alertDays := s.alertDays
	blockDays := s.blockDays
	s.mu.Unlock()

	now := time.Now()
	if alertDays > 0 {
		cutoff := now.Add(-time.Duration(alertDays) * 24 * time.Hour)
		deleted, err := s.alerts.DeleteOlderThan(ctx, cutoff)
		if err != nil {
			s.logger.Warn("prune alerts", "error", err)
		} else if deleted > 0 {
			s.logger.Info("pruned cached alerts", "deleted", deleted, "retention_days", alertDays)
		}
	}
	if blockDays > 0 {
		cutoff := now.Add(-time.Duration(blockDays) * 24 * time.Hour)
		deleted, err := s.blocks.DeleteOlderThan(ctx, cutoff)
		if err != nil {
			s.logger.Warn("prune blocks", "error", err)
		} else if deleted > 0 {
			s.logger.Info("pruned cached blocks", "deleted", deleted, "retention_days", blockDays)
		}
	}
}

func (s *RetentionService) run(ctx context.Context) {
	s.logger.Info("retention service started", "interval", s.interval.String())

	s.PruneNow(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("retention service stopped")

			return
		case <-ticker.C:
			s.PruneNow(ctx)
		}
	}
}

func (s *RetentionService) watchSettings(ctx context.Context) {
	sub := s.bus.Subscribe(api.TopicSettingsApplied)
	defer s.bus.Unsubscribe(sub, api.TopicSettingsApplied)
	for {
		select {
		case <-ctx.Done():
			return
		case raw, ok := <-sub:
			if !ok {
				return
			}
			event, ok := raw.(api.SettingsAppliedEvent)
			if !ok {
				continue
			}
			s.ApplySettings(event.Values)
		}
	}
}
