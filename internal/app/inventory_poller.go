package app

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/netwarden/netwarden/internal/api"
	"github.com/netwarden/netwarden/internal/bus"
	"github.com/netwarden/netwarden/internal/domain"
)

const defaultInventoryPollInterval = 30 * time.Second

// inventorySource is the backend surface the inventory poller needs.
type inventorySource interface {
	Blocks(ctx context.Context) ([]api.BlockRecord, error)
	Devices(ctx context.Context) ([]api.DeviceRecord, error)
}

// InventoryPollerConfig customizes inventory poller behavior.
type InventoryPollerConfig struct {
	Source   inventorySource
	Bus      bus.MessageBus
	Interval time.Duration
	Logger   *slog.Logger
}

// InventoryPoller refreshes the block list and the compliance device
// list. Refresh can also be triggered on demand after a mutation so
// the UI does not wait a full interval.
type InventoryPoller struct {
	source   inventorySource
	bus      bus.MessageBus
	interval time.Duration
	logger   *slog.Logger

	kick chan struct{}

	startOnce sync.Once
}

func NewInventoryPoller(cfg InventoryPollerConfig) *InventoryPoller {
	interval := cfg.Interval
	if interval <= 0 {
		interval = defaultInventoryPollInterval
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default().With("component", "app.inventory_poller")
	}

	return &InventoryPoller{
		source:   cfg.Source,
		bus:      cfg.Bus,
		interval: interval,
		logger:   logger,
		kick:     make(chan struct{}, 1),
	}
}

func (p *InventoryPoller) Start(ctx context.Context) {
	if p == nil || p.source == nil || p.bus == nil {
		return
	}

	p.startOnce.Do(func() {
		go p.run(ctx)
	})
}

// RefreshNow schedules an immediate refresh. Used after block, unblock
// and trust mutations.
func (p *InventoryPoller) RefreshNow() {
	select {
	case p.kick <- struct{}{}:
	default:
	}
}

func (p *InventoryPoller) run(ctx context.Context) {
	p.logger.Info("inventory poller started", "interval", p.interval.String())

	p.poll(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("inventory poller stopped")

			return
		case <-ticker.C:
			p.poll(ctx)
		case <-p.kick:
			p.poll(ctx)
		}
	}
}

func (p *InventoryPoller) poll(ctx context.Context) {
	blocks, err := p.source.Blocks(ctx)
	if err != nil {
		p.logger.Warn("poll blocks", "error", err)
	} else {
		entries := make([]domain.BlockEntry, 0, len(blocks))
		for _, record := range blocks {
			entries = append(entries, domain.BlockEntry{
				IP:        record.IP,
				Reason:    record.Reason,
				Trusted:   record.Trusted,
				CreatedAt: time.Unix(record.CreatedAt, 0),
			})
		}
		p.bus.Publish(api.TopicBlockChanged, domain.BlockListChanged{Entries: entries})
	}

	devices, err := p.source.Devices(ctx)
	if err != nil {
		p.logger.Warn("poll devices", "error", err)

		return
	}
	converted := make([]domain.Device, 0, len(devices))
	for _, record := range devices {
		converted = append(converted, domain.Device{
			ID:        record.ID,
			Hostname:  record.Hostname,
			IP:        record.IP,
			OS:        record.OS,
			Compliant: record.Compliant,
			LastSeen:  time.Unix(record.LastSeen, 0),
		})
	}
	p.bus.Publish(api.TopicDeviceList, domain.DeviceListChanged{Devices: converted})
}
