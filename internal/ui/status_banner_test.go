package ui

import (
	"testing"

	fynetest "fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/widget"

	"github.com/netwarden/netwarden/internal/api"
)

func TestStatusBannerShowAndClear(t *testing.T) {
	_ = fynetest.NewApp()
	banner := newStatusBanner()

	banner.ShowSuccess("Saved")
	if got := banner.label.Text; got != "Saved" {
		t.Fatalf("expected banner text %q, got %q", "Saved", got)
	}
	if banner.label.Importance != widget.SuccessImportance {
		t.Fatalf("expected success importance, got %v", banner.label.Importance)
	}

	banner.ShowError("Save failed")
	if got := banner.label.Text; got != "Save failed" {
		t.Fatalf("expected banner text %q, got %q", "Save failed", got)
	}
	if banner.label.Importance != widget.DangerImportance {
		t.Fatalf("expected danger importance, got %v", banner.label.Importance)
	}

	banner.Clear()
	if got := banner.label.Text; got != "" {
		t.Fatalf("expected cleared banner, got %q", got)
	}
}

func TestStatusBannerStaleTimerDoesNotClearNewerMessage(t *testing.T) {
	_ = fynetest.NewApp()
	banner := newStatusBanner()

	banner.ShowError("first")
	staleSeq := banner.seq
	banner.ShowError("second")

	banner.expire(staleSeq)
	if got := banner.label.Text; got != "second" {
		t.Fatalf("stale timer cleared newer message, got %q", got)
	}
}

func TestFormatConnStatus(t *testing.T) {
	tests := []struct {
		name   string
		status api.ConnStatusEvent
		want   string
	}{
		{
			name:   "online",
			status: api.ConnStatusEvent{State: api.ConnStateOnline},
			want:   "Backend: online",
		},
		{
			name:   "offline with reason",
			status: api.ConnStatusEvent{State: api.ConnStateOffline, Reason: "connection refused"},
			want:   "Backend: offline (connection refused)",
		},
	}

	for _, tt := range tests {
		got := formatConnStatus(tt.status)
		if got != tt.want {
			t.Fatalf("%s: expected %q, got %q", tt.name, tt.want, got)
		}
	}
}

func TestFormatScanStatus(t *testing.T) {
	running := formatScanStatus(api.ScanStatusInfo{Running: true, Progress: 0.42})
	if running != "Scan engine: running (42%)" {
		t.Fatalf("unexpected running status: %q", running)
	}

	idle := formatScanStatus(api.ScanStatusInfo{})
	if idle != "Scan engine: idle" {
		t.Fatalf("unexpected idle status: %q", idle)
	}
}
