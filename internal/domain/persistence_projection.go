package domain

import (
	"context"

	"github.com/netwarden/netwarden/internal/api"
	"github.com/netwarden/netwarden/internal/bus"
)

// WriteQueue serializes persistence writes from async domain events.
type WriteQueue interface {
	Enqueue(name string, fn func(context.Context) error)
}

// StartPersistenceProjection mirrors alert and block events from the
// bus into the local cache so the dashboards have data before the
// backend answers after a restart.
func StartPersistenceProjection(ctx context.Context, b bus.MessageBus, queue WriteQueue, alertRepo AlertRepository, blockRepo BlockRepository) {
	alertSub := b.Subscribe(api.TopicAlert)
	blockSub := b.Subscribe(api.TopicBlockChanged)

	go func() {
		defer b.Unsubscribe(alertSub, api.TopicAlert)
		for {
			select {
			case <-ctx.Done():
				return
			case raw, ok := <-alertSub:
				if !ok {
					return
				}
				event, ok := raw.(AlertReceived)
				if !ok {
					continue
				}
				alert := event.Alert
				queue.Enqueue("insert_alert", func(writeCtx context.Context) error {
					return alertRepo.Insert(writeCtx, alert)
				})
			}
		}
	}()

	go func() {
		defer b.Unsubscribe(blockSub, api.TopicBlockChanged)
		for {
			select {
			case <-ctx.Done():
				return
			case raw, ok := <-blockSub:
				if !ok {
					return
				}
				event, ok := raw.(BlockListChanged)
				if !ok {
					continue
				}
				entries := event.Entries
				queue.Enqueue("replace_blocks", func(writeCtx context.Context) error {
					return blockRepo.ReplaceAll(writeCtx, entries)
				})
			}
		}
	}()
}
