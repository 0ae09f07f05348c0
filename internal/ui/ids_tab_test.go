package ui

import (
	"testing"
	"time"

	"github.com/netwarden/netwarden/internal/domain"
)

func TestResolveAlertSelection(t *testing.T) {
	now := time.Now()
	alerts := []domain.Alert{
		{ID: 3, SourceIP: "10.0.0.3", CreatedAt: now},
		{ID: 2, SourceIP: "10.0.0.2", CreatedAt: now.Add(-time.Minute)},
		{ID: 1, SourceIP: "10.0.0.1", CreatedAt: now.Add(-2 * time.Minute)},
	}

	found := resolveAlertSelection(alerts, 2)
	if found == nil {
		t.Fatalf("expected to resolve alert 2")
	}
	if found.ID != 2 || found.SourceIP != "10.0.0.2" {
		t.Fatalf("resolved wrong alert: %+v", found)
	}

	// The result must be a copy, not a pointer into the snapshot.
	found.SourceIP = "changed"
	if alerts[1].SourceIP != "10.0.0.2" {
		t.Fatalf("resolved alert aliases the snapshot")
	}

	if got := resolveAlertSelection(alerts, 99); got != nil {
		t.Fatalf("expected nil for an alert that aged out, got %+v", got)
	}
	if got := resolveAlertSelection(nil, 1); got != nil {
		t.Fatalf("expected nil for an empty snapshot, got %+v", got)
	}
}
