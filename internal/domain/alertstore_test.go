package domain

import (
	"testing"
	"time"
)

func TestAlertStoreUpsertMergesSparseUpdates(t *testing.T) {
	store := NewAlertStore()
	created := time.Now().Add(-time.Minute)
	store.Upsert(Alert{ID: 1, Kind: AlertKindAnomaly, Severity: SeverityHigh, Description: "port scan", CreatedAt: created})
	store.Upsert(Alert{ID: 1, Kind: AlertKindAnomaly, SourceIP: "10.0.0.9"})

	alert, ok := store.Get(1)
	if !ok {
		t.Fatalf("expected alert to exist")
	}
	if alert.Description != "port scan" {
		t.Fatalf("expected description to survive sparse update, got %q", alert.Description)
	}
	if alert.Severity != SeverityHigh {
		t.Fatalf("expected severity to survive sparse update, got %q", alert.Severity)
	}
	if alert.SourceIP != "10.0.0.9" {
		t.Fatalf("expected source IP from update, got %q", alert.SourceIP)
	}
	if !alert.CreatedAt.Equal(created) {
		t.Fatalf("expected original timestamp to survive, got %v", alert.CreatedAt)
	}
}

func TestAlertStoreSnapshotSortedNewestFirst(t *testing.T) {
	store := NewAlertStore()
	now := time.Now()
	store.Load([]Alert{
		{ID: 1, CreatedAt: now.Add(-2 * time.Hour)},
		{ID: 3, CreatedAt: now},
		{ID: 2, CreatedAt: now.Add(-time.Hour)},
	})

	snapshot := store.SnapshotSorted()
	if len(snapshot) != 3 {
		t.Fatalf("expected 3 alerts, got %d", len(snapshot))
	}
	if snapshot[0].ID != 3 || snapshot[1].ID != 2 || snapshot[2].ID != 1 {
		t.Fatalf("unexpected order: %d %d %d", snapshot[0].ID, snapshot[1].ID, snapshot[2].ID)
	}
}

func TestAlertStoreTrimsOldestBeyondCap(t *testing.T) {
	store := NewAlertStore()
	alerts := make([]Alert, 0, maxCachedAlerts+10)
	base := time.Now().Add(-time.Hour)
	for i := 0; i < maxCachedAlerts+10; i++ {
		alerts = append(alerts, Alert{ID: int64(i + 1), CreatedAt: base.Add(time.Duration(i) * time.Second)})
	}
	store.Load(alerts)

	snapshot := store.SnapshotSorted()
	if len(snapshot) != maxCachedAlerts {
		t.Fatalf("expected trim to %d alerts, got %d", maxCachedAlerts, len(snapshot))
	}
	if _, ok := store.Get(1); ok {
		t.Fatalf("expected oldest alert to be trimmed")
	}
	if _, ok := store.Get(int64(maxCachedAlerts + 10)); !ok {
		t.Fatalf("expected newest alert to survive")
	}
}

func TestAlertStoreNotifiesOnChange(t *testing.T) {
	store := NewAlertStore()
	store.Upsert(Alert{ID: 7})

	select {
	case <-store.Changes():
	default:
		t.Fatalf("expected change notification after upsert")
	}
}

func TestSeverityForScoreBuckets(t *testing.T) {
	tests := []struct {
		score float64
		want  Severity
	}{
		{score: -0.30, want: SeverityHigh},
		{score: -0.10, want: SeverityHigh},
		{score: -0.08, want: SeverityMedium},
		{score: -0.05, want: SeverityMedium},
		{score: -0.01, want: SeverityLow},
		{score: 0.40, want: SeverityLow},
	}
	for _, tc := range tests {
		if got := SeverityForScore(tc.score, -0.10, -0.05); got != tc.want {
			t.Fatalf("score %v: expected %s, got %s", tc.score, tc.want, got)
		}
	}
}
