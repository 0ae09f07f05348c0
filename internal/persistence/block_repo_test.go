package persistence

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/netwarden/netwarden/internal/domain"
)

func openBlockRepo(t *testing.T) *BlockRepo {
	t.Helper()
	db, err := Open(context.Background(), filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return NewBlockRepo(db)
}

func TestBlockRepoReplaceAllSwapsList(t *testing.T) {
	repo := openBlockRepo(t)
	ctx := context.Background()
	now := time.Now()

	first := []domain.BlockEntry{
		{IP: "10.0.0.1", Reason: "scan", CreatedAt: now},
		{IP: "10.0.0.2", Reason: "brute force", CreatedAt: now},
	}
	if err := repo.ReplaceAll(ctx, first); err != nil {
		t.Fatalf("first replace: %v", err)
	}

	second := []domain.BlockEntry{{IP: "10.0.0.3", Reason: "exfil", Trusted: false, CreatedAt: now}}
	if err := repo.ReplaceAll(ctx, second); err != nil {
		t.Fatalf("second replace: %v", err)
	}

	listed, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list blocks: %v", err)
	}
	if len(listed) != 1 || listed[0].IP != "10.0.0.3" {
		t.Fatalf("expected replaced list, got %v", listed)
	}
}

func TestBlockRepoRoundTripsTrustedFlag(t *testing.T) {
	repo := openBlockRepo(t)
	ctx := context.Background()

	entries := []domain.BlockEntry{
		{IP: "192.168.1.10", Reason: "admin workstation", Trusted: true, CreatedAt: time.Now()},
	}
	if err := repo.ReplaceAll(ctx, entries); err != nil {
		t.Fatalf("replace: %v", err)
	}

	listed, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 1 || !listed[0].Trusted {
		t.Fatalf("expected trusted flag to round-trip, got %v", listed)
	}
}

func TestBlockRepoDeleteOlderThanSparesTrustedEntries(t *testing.T) {
	repo := openBlockRepo(t)
	ctx := context.Background()
	now := time.Now()

	entries := []domain.BlockEntry{
		{IP: "10.0.0.1", CreatedAt: now.Add(-72 * time.Hour)},
		{IP: "10.0.0.2", Trusted: true, CreatedAt: now.Add(-72 * time.Hour)},
		{IP: "10.0.0.3", CreatedAt: now},
	}
	if err := repo.ReplaceAll(ctx, entries); err != nil {
		t.Fatalf("replace: %v", err)
	}

	deleted, err := repo.DeleteOlderThan(ctx, now.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("delete older than: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("expected 1 deleted row, got %d", deleted)
	}

	listed, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("expected trusted and fresh entries to survive, got %v", listed)
	}
	for _, entry := range listed {
		if entry.IP == "10.0.0.1" {
			t.Fatalf("expected stale untrusted entry to be pruned")
		}
	}
}

func TestClearDatabaseEmptiesAllTables(t *testing.T) {
	db, err := Open(context.Background(), filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	alertRepo := NewAlertRepo(db)
	blockRepo := NewBlockRepo(db)
	if err := alertRepo.Insert(ctx, domain.Alert{ID: 1, Kind: domain.AlertKindAnomaly, Severity: domain.SeverityLow, CreatedAt: time.Now()}); err != nil {
		t.Fatalf("insert alert: %v", err)
	}
	if err := blockRepo.ReplaceAll(ctx, []domain.BlockEntry{{IP: "10.0.0.1", CreatedAt: time.Now()}}); err != nil {
		t.Fatalf("replace blocks: %v", err)
	}

	if err := ClearDatabase(ctx, db); err != nil {
		t.Fatalf("clear database: %v", err)
	}

	alerts, err := alertRepo.ListRecent(ctx, 10)
	if err != nil {
		t.Fatalf("list alerts: %v", err)
	}
	blocks, err := blockRepo.List(ctx)
	if err != nil {
		t.Fatalf("list blocks: %v", err)
	}
	if len(alerts) != 0 || len(blocks) != 0 {
		t.Fatalf("expected empty tables, got %d alerts and %d blocks", len(alerts), len(blocks))
	}
}
