package domain

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/netwarden/netwarden/internal/api"
	"github.com/netwarden/netwarden/internal/bus"
)

// DeviceStore keeps the monitored endpoints for the compliance
// dashboard in memory.
type DeviceStore struct {
	mu      sync.RWMutex
	devices map[string]Device
	changes chan struct{}
}

func NewDeviceStore() *DeviceStore {
	return &DeviceStore{
		devices: make(map[string]Device),
		changes: make(chan struct{}, 1),
	}
}

func (s *DeviceStore) Start(ctx context.Context, b bus.MessageBus) {
	sub := b.Subscribe(api.TopicDeviceList)
	go func() {
		defer b.Unsubscribe(sub, api.TopicDeviceList)
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-sub:
				if !ok {
					return
				}
				event, ok := msg.(DeviceListChanged)
				if !ok {
					continue
				}
				s.Replace(event.Devices)
			}
		}
	}()
}

func (s *DeviceStore) Replace(devices []Device) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.devices = make(map[string]Device, len(devices))
	for _, device := range devices {
		s.devices[device.ID] = device
	}
	s.notify()
}

// SnapshotSorted returns devices ordered by hostname, non-compliant
// first so violations surface at the top of the table.
func (s *DeviceStore) SnapshotSorted() []Device {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Device, 0, len(s.devices))
	for _, device := range s.devices {
		out = append(out, device)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Compliant != out[j].Compliant {
			return !out[i].Compliant
		}

		return strings.ToLower(out[i].Hostname) < strings.ToLower(out[j].Hostname)
	})

	return out
}

func (s *DeviceStore) Get(id string) (Device, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	device, ok := s.devices[id]

	return device, ok
}

// ComplianceCounts returns the compliant and violating device counts.
func (s *DeviceStore) ComplianceCounts() (compliant, violating int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, device := range s.devices {
		if device.Compliant {
			compliant++
		} else {
			violating++
		}
	}

	return compliant, violating
}

func (s *DeviceStore) Changes() <-chan struct{} {
	return s.changes
}

func (s *DeviceStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.devices = make(map[string]Device)
	s.notify()
}

func (s *DeviceStore) notify() {
	select {
	case s.changes <- struct{}{}:
	default:
	}
}
