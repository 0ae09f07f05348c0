package app

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/netwarden/netwarden/internal/api"
	"github.com/netwarden/netwarden/internal/bus"
)

type fakeStatusSource struct {
	scanErr    error
	version    string
	statsCalls int
}

func (s *fakeStatusSource) ScanStatus(_ context.Context) (api.ScanStatusInfo, error) {
	if s.scanErr != nil {
		return api.ScanStatusInfo{}, s.scanErr
	}

	return api.ScanStatusInfo{Running: true}, nil
}

func (s *fakeStatusSource) Stats(_ context.Context) (api.StatsInfo, error) {
	s.statsCalls++

	return api.StatsInfo{Version: s.version}, nil
}

func TestStatusPollerRechecksVersionAfterReconnect(t *testing.T) {
	b := bus.New(slog.Default())
	defer b.Close()

	source := &fakeStatusSource{version: "1.4.0"}
	poller := NewStatusPoller(StatusPollerConfig{Source: source, Bus: b})
	ctx := context.Background()

	poller.poll(ctx)
	if source.statsCalls != 1 {
		t.Fatalf("expected one version check after first contact, got %d", source.statsCalls)
	}
	if poller.BackendUnsupported() {
		t.Fatalf("expected %s to pass the version check", source.version)
	}

	// Further polls on the same connection must not hit the stats endpoint.
	poller.poll(ctx)
	if source.statsCalls != 1 {
		t.Fatalf("expected version check to run once per connection, got %d calls", source.statsCalls)
	}

	// The backend drops and comes back on an older version.
	source.scanErr = errors.New("connection refused")
	poller.poll(ctx)

	source.scanErr = nil
	source.version = "0.9.0"
	poller.poll(ctx)
	if source.statsCalls != 2 {
		t.Fatalf("expected a fresh version check after reconnect, got %d calls", source.statsCalls)
	}
	stats, known := poller.Stats()
	if !known || stats.Version != "0.9.0" {
		t.Fatalf("expected stats from the reconnected backend, got %+v known=%v", stats, known)
	}
	if !poller.BackendUnsupported() {
		t.Fatalf("expected %s to fail the version check", source.version)
	}
}
