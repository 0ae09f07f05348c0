package domain

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/netwarden/netwarden/internal/api"
	"github.com/netwarden/netwarden/internal/bus"
)

// maxCachedAlerts bounds the in-memory alert list; older alerts stay in
// the persistence cache and are dropped from the live view.
const maxCachedAlerts = 2000

// AlertStore keeps the latest alerts in memory for the dashboards.
type AlertStore struct {
	mu      sync.RWMutex
	alerts  map[int64]Alert
	changes chan struct{}
}

func NewAlertStore() *AlertStore {
	return &AlertStore{
		alerts:  make(map[int64]Alert),
		changes: make(chan struct{}, 1),
	}
}

func (s *AlertStore) Load(alerts []Alert) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, alert := range alerts {
		s.alerts[alert.ID] = alert
	}
	s.trimLocked()
	s.notify()
}

func (s *AlertStore) Start(ctx context.Context, b bus.MessageBus) {
	sub := b.Subscribe(api.TopicAlert)
	go func() {
		defer b.Unsubscribe(sub, api.TopicAlert)
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-sub:
				if !ok {
					return
				}
				event, ok := msg.(AlertReceived)
				if !ok {
					continue
				}
				s.Upsert(event.Alert)
			}
		}
	}()
}

func (s *AlertStore) Upsert(alert Alert) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.alerts[alert.ID]
	if ok {
		// Merge sparse updates without wiping cached fields.
		if alert.Description == "" {
			alert.Description = existing.Description
		}
		if alert.Severity == "" {
			alert.Severity = existing.Severity
		}
		if alert.CreatedAt.IsZero() {
			alert.CreatedAt = existing.CreatedAt
		}
	}
	if alert.CreatedAt.IsZero() {
		alert.CreatedAt = time.Now()
	}
	s.alerts[alert.ID] = alert
	s.trimLocked()
	s.notify()
}

// SnapshotSorted returns the cached alerts, newest first.
func (s *AlertStore) SnapshotSorted() []Alert {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Alert, 0, len(s.alerts))
	for _, alert := range s.alerts {
		out = append(out, alert)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}

		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	return out
}

func (s *AlertStore) Get(id int64) (Alert, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	alert, ok := s.alerts[id]

	return alert, ok
}

func (s *AlertStore) Changes() <-chan struct{} {
	return s.changes
}

func (s *AlertStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alerts = make(map[int64]Alert)
	s.notify()
}

func (s *AlertStore) trimLocked() {
	if len(s.alerts) <= maxCachedAlerts {
		return
	}
	ids := make([]int64, 0, len(s.alerts))
	for id := range s.alerts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids[:len(ids)-maxCachedAlerts] {
		delete(s.alerts, id)
	}
}

func (s *AlertStore) notify() {
	select {
	case s.changes <- struct{}{}:
	default:
	}
}
