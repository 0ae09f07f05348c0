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

const defaultAlertPollInterval = 5 * time.Second

// Default anomaly score cut points, used until the backend settings
// arrive.
const (
	defaultHighThreshold   = -0.10
	defaultMediumThreshold = -0.05
)

// alertSource is the backend surface the poller needs.
type alertSource interface {
	Alerts(ctx context.Context, sinceID int64) ([]api.AlertRecord, error)
}

// AlertPollerConfig customizes alert poller behavior.
type AlertPollerConfig struct {
	Source   alertSource
	Bus      bus.MessageBus
	Interval time.Duration
	SinceID  int64
	Logger   *slog.Logger
}

// AlertPoller periodically fetches new alerts and publishes them on
// the bus. Severity for anomaly alerts is derived locally from the
// configured score thresholds when the backend omits it.
type AlertPoller struct {
	source   alertSource
	bus      bus.MessageBus
	interval time.Duration
	logger   *slog.Logger

	mu      sync.Mutex
	sinceID int64
	high    float64
	medium  float64

	startOnce sync.Once
}

func NewAlertPoller(cfg AlertPollerConfig) *AlertPoller {
	interval := cfg.Interval
	if interval <= 0 {
		interval = defaultAlertPollInterval
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default().With("component", "app.alert_poller")
	}

	return &AlertPoller{
		source:   cfg.Source,
		bus:      cfg.Bus,
		interval: interval,
		logger:   logger,
		sinceID:  cfg.SinceID,
		high:     defaultHighThreshold,
		medium:   defaultMediumThreshold,
	}
}

func (p *AlertPoller) Start(ctx context.Context) {
	if p == nil || p.source == nil || p.bus == nil {
		return
	}

	p.startOnce.Do(func() {
		go p.watchSettings(ctx)
		go p.run(ctx)
	})
}

func (p *AlertPoller) run(ctx context.Context) {
	p.logger.Info("alert poller started", "interval", p.interval.String(), "since_id", p.currentSinceID())

	if err := p.poll(ctx); err != nil {
		p.logger.Warn("poll alerts", "error", err)
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("alert poller stopped")

			return
		case <-ticker.C:
			if err := p.poll(ctx); err != nil {
				p.logger.Warn("poll alerts", "error", err)
			}
		}
	}
}

func (p *AlertPoller) poll(ctx context.Context) error {
	sinceID := p.currentSinceID()
	records, err := p.source.Alerts(ctx, sinceID)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}

	high, medium := p.currentThresholds()
	maxID := sinceID
	for _, record := range records {
		alert := alertFromRecord(record, high, medium)
		p.bus.Publish(api.TopicAlert, domain.AlertReceived{Alert: alert})
		if alert.ID > maxID {
			maxID = alert.ID
		}
	}
	p.setSinceID(maxID)
	p.logger.Debug("published alerts", "count", len(records), "since_id", maxID)

	return nil
}

// watchSettings keeps the severity cut points in sync with saved
// backend settings.
func (p *AlertPoller) watchSettings(ctx context.Context) {
	sub := p.bus.Subscribe(api.TopicSettingsApplied)
	defer p.bus.Unsubscribe(sub, api.TopicSettingsApplied)
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
			thresholds, present := event.Values[settings.KeyAlertThresholds]
			if !present {
				continue
			}
			high, medium, valid := settings.Thresholds(thresholds)
			if !valid {
				continue
			}
			p.setThresholds(high, medium)
			p.logger.Info("alert thresholds updated", "high", high, "medium", medium)
		}
	}
}

func (p *AlertPoller) currentSinceID() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.sinceID
}

func (p *AlertPoller) setSinceID(id int64) {
	p.mu.Lock()
	if id > p.sinceID {
		p.sinceID = id
	}
	p.mu.Unlock()
}

func (p *AlertPoller) currentThresholds() (high, medium float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.high, p.medium
}

func (p *AlertPoller) setThresholds(high, medium float64) {
	p.mu.Lock()
	p.high = high
	p.medium = medium
	p.mu.Unlock()
}

func alertFromRecord(record api.AlertRecord, high, medium float64) domain.Alert {
	alert := domain.Alert{
		ID:          record.ID,
		Kind:        domain.AlertKind(record.Kind),
		Severity:    domain.Severity(record.Severity),
		SourceIP:    record.SourceIP,
		DestIP:      record.DestIP,
		Protocol:    record.Protocol,
		Score:       record.Score,
		Description: record.Description,
		CreatedAt:   record.Created(),
	}
	if alert.Severity == "" && alert.Kind == domain.AlertKindAnomaly {
		alert.Severity = domain.SeverityForScore(alert.Score, high, medium)
	}
	if alert.Severity == "" {
		alert.Severity = domain.SeverityLow
	}

	return alert
}
