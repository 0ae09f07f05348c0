package app

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/netwarden/netwarden/internal/api"
	"github.com/netwarden/netwarden/internal/bus"
)

const defaultStatusPollInterval = 10 * time.Second

// statusSource is the backend surface the status poller needs.
type statusSource interface {
	ScanStatus(ctx context.Context) (api.ScanStatusInfo, error)
	Stats(ctx context.Context) (api.StatsInfo, error)
}

// StatusPollerConfig customizes status poller behavior.
type StatusPollerConfig struct {
	Source   statusSource
	Bus      bus.MessageBus
	Interval time.Duration
	Logger   *slog.Logger
}

// StatusPoller tracks backend reachability and the traffic analysis
// engine state. Reachability transitions are published once per edge,
// not on every poll.
type StatusPoller struct {
	source   statusSource
	bus      bus.MessageBus
	interval time.Duration
	logger   *slog.Logger

	mu           sync.RWMutex
	online       bool
	onlineKnown  bool
	stats        api.StatsInfo
	statsKnown   bool
	versionWarn  bool
	versionCheck bool

	startOnce sync.Once
}

func NewStatusPoller(cfg StatusPollerConfig) *StatusPoller {
	interval := cfg.Interval
	if interval <= 0 {
		interval = defaultStatusPollInterval
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default().With("component", "app.status_poller")
	}

	return &StatusPoller{
		source:   cfg.Source,
		bus:      cfg.Bus,
		interval: interval,
		logger:   logger,
	}
}

func (p *StatusPoller) Start(ctx context.Context) {
	if p == nil || p.source == nil || p.bus == nil {
		return
	}

	p.startOnce.Do(func() {
		go p.run(ctx)
	})
}

// Stats returns the last fetched backend counters.
func (p *StatusPoller) Stats() (api.StatsInfo, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.stats, p.statsKnown
}

// BackendUnsupported reports whether the backend version failed the
// compatibility check.
func (p *StatusPoller) BackendUnsupported() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.versionWarn
}

func (p *StatusPoller) run(ctx context.Context) {
	p.logger.Info("status poller started", "interval", p.interval.String())

	p.poll(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("status poller stopped")

			return
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

func (p *StatusPoller) poll(ctx context.Context) {
	status, err := p.source.ScanStatus(ctx)
	if err != nil {
		p.logger.Warn("poll scan status", "error", err)
		p.setOnline(false, err.Error())

		return
	}

	p.setOnline(true, "")
	p.bus.Publish(api.TopicScanStatus, api.ScanStatusEvent{Status: status})
	p.checkBackendVersion(ctx)
}

// checkBackendVersion runs once per connection after the first
// successful contact; setOnline re-arms it when the backend drops.
func (p *StatusPoller) checkBackendVersion(ctx context.Context) {
	p.mu.Lock()
	alreadyChecked := p.versionCheck
	p.versionCheck = true
	p.mu.Unlock()
	if alreadyChecked {
		return
	}

	stats, err := p.source.Stats(ctx)
	if err != nil {
		p.logger.Warn("fetch backend stats", "error", err)
		p.mu.Lock()
		p.versionCheck = false
		p.mu.Unlock()

		return
	}

	p.mu.Lock()
	p.stats = stats
	p.statsKnown = true
	p.versionWarn = !BackendSupported(stats.Version)
	warn := p.versionWarn
	p.mu.Unlock()

	if warn {
		p.logger.Warn("backend version is older than supported", "backend_version", stats.Version, "min_supported", MinBackendVersion)
	} else {
		p.logger.Info("backend version check passed", "backend_version", stats.Version)
	}
}

func (p *StatusPoller) setOnline(online bool, reason string) {
	p.mu.Lock()
	changed := !p.onlineKnown || p.online != online
	p.online = online
	p.onlineKnown = true
	if changed && !online {
		// The backend may come back upgraded or downgraded, so the
		// version check has to run again on the next contact.
		p.versionCheck = false
	}
	p.mu.Unlock()
	if !changed {
		return
	}

	state := api.ConnStateOffline
	if online {
		state = api.ConnStateOnline
		reason = ""
	}
	p.logger.Info("backend reachability changed", "state", state, "reason", reason)
	p.bus.Publish(api.TopicConnStatus, api.ConnStatusEvent{State: state, Reason: reason})
}
