package domain

import (
	"context"
	"time"
)

// AlertRepository persists alerts in the local cache.
type AlertRepository interface {
	Insert(ctx context.Context, alert Alert) error
	ListRecent(ctx context.Context, limit int) ([]Alert, error)
	MaxID(ctx context.Context) (int64, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// BlockRepository persists the cached block list.
type BlockRepository interface {
	ReplaceAll(ctx context.Context, entries []BlockEntry) error
	List(ctx context.Context) ([]BlockEntry, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
