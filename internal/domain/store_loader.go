package domain

import (
	"context"
	"fmt"
)

// LoadStoresFromCache hydrates the in-memory stores from the local
// cache at startup.
func LoadStoresFromCache(ctx context.Context, alertRepo AlertRepository, blockRepo BlockRepository, alerts *AlertStore, blocks *BlockStore) error {
	cachedAlerts, err := alertRepo.ListRecent(ctx, maxCachedAlerts)
	if err != nil {
		return fmt.Errorf("loading cached alerts: %w", err)
	}
	alerts.Load(cachedAlerts)

	cachedBlocks, err := blockRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("loading cached blocks: %w", err)
	}
	blocks.Replace(cachedBlocks)

	return nil
}
