package domain

import (
	"context"
	"sort"
	"sync"

	"github.com/netwarden/netwarden/internal/api"
	"github.com/netwarden/netwarden/internal/bus"
)

// BlockStore keeps the current firewall block list in memory.
type BlockStore struct {
	mu      sync.RWMutex
	entries map[string]BlockEntry
	changes chan struct{}
}

func NewBlockStore() *BlockStore {
	return &BlockStore{
		entries: make(map[string]BlockEntry),
		changes: make(chan struct{}, 1),
	}
}

func (s *BlockStore) Start(ctx context.Context, b bus.MessageBus) {
	sub := b.Subscribe(api.TopicBlockChanged)
	go func() {
		defer b.Unsubscribe(sub, api.TopicBlockChanged)
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-sub:
				if !ok {
					return
				}
				event, ok := msg.(BlockListChanged)
				if !ok {
					continue
				}
				s.Replace(event.Entries)
			}
		}
	}()
}

// Replace swaps the whole list. The backend is authoritative for
// blocks, so partial merges are never needed.
func (s *BlockStore) Replace(entries []BlockEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]BlockEntry, len(entries))
	for _, entry := range entries {
		s.entries[entry.IP] = entry
	}
	s.notify()
}

// SnapshotSorted returns the block list, newest first.
func (s *BlockStore) SnapshotSorted() []BlockEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]BlockEntry, 0, len(s.entries))
	for _, entry := range s.entries {
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].IP < out[j].IP
		}

		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	return out
}

func (s *BlockStore) Get(ip string) (BlockEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[ip]

	return entry, ok
}

// IsTrusted reports whether ip is on the list and marked trusted.
func (s *BlockStore) IsTrusted(ip string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[ip]

	return ok && entry.Trusted
}

func (s *BlockStore) Changes() <-chan struct{} {
	return s.changes
}

func (s *BlockStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]BlockEntry)
	s.notify()
}

func (s *BlockStore) notify() {
	select {
	case s.changes <- struct{}{}:
	default:
	}
}
