package app

import (
	"context"
	"log/slog"
	"sync"

	"github.com/netwarden/netwarden/internal/api"
	"github.com/netwarden/netwarden/internal/bus"
	"github.com/netwarden/netwarden/internal/logging"
	"github.com/netwarden/netwarden/internal/settings"
)

// settingsBackend is the backend surface the settings service needs.
type settingsBackend interface {
	FetchSettings(ctx context.Context, scope string) (map[string]string, map[string]string, error)
	UpdateSettings(ctx context.Context, scope string, values map[string]string) error
}

// SettingsService hands out one reconciler per dashboard scope. Each
// reconciler keeps its own draft against the backend settings store;
// a successful save is broadcast so pollers and the retention sweep
// pick up the new values without re-fetching.
type SettingsService struct {
	backend settingsBackend
	bus     bus.MessageBus
	logMgr  *logging.Manager
	logger  *slog.Logger

	mu          sync.Mutex
	reconcilers map[string]*settings.Reconciler
}

func NewSettingsService(backend settingsBackend, messageBus bus.MessageBus, logMgr *logging.Manager, logger *slog.Logger) *SettingsService {
	if logger == nil {
		logger = slog.Default().With("component", "app.settings")
	}

	return &SettingsService{
		backend:     backend,
		bus:         messageBus,
		logMgr:      logMgr,
		logger:      logger,
		reconcilers: make(map[string]*settings.Reconciler),
	}
}

// Reconciler returns the reconciler for a dashboard scope, creating it
// on first use.
func (s *SettingsService) Reconciler(scope string) *settings.Reconciler {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec, ok := s.reconcilers[scope]; ok {
		return rec
	}

	load := func(ctx context.Context) (map[string]string, map[string]string, error) {
		return s.backend.FetchSettings(ctx, scope)
	}
	save := func(ctx context.Context, canonical map[string]string) error {
		if err := s.backend.UpdateSettings(ctx, scope, canonical); err != nil {
			return err
		}
		s.applySaved(scope, canonical)

		return nil
	}

	rec := settings.NewReconciler(load, save, s.logger.With("scope", scope))
	s.reconcilers[scope] = rec

	return rec
}

// applySaved broadcasts the saved document and applies the pieces that
// affect the client itself.
func (s *SettingsService) applySaved(scope string, canonical map[string]string) {
	if level, ok := canonical[settings.KeyLogLevel]; ok && s.logMgr != nil {
		if err := s.logMgr.SetLevel(level); err != nil {
			s.logger.Warn("apply saved log level", "level", level, "error", err)
		}
	}
	if s.bus != nil {
		s.bus.Publish(api.TopicSettingsApplied, api.SettingsAppliedEvent{Scope: scope, Values: canonical})
	}
}
