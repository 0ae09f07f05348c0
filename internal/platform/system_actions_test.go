package platform

import (
	"errors"
	"testing"
)

func TestOpenPathCommandsForOS(t *testing.T) {
	windows, err := openPathCommandsForOS("windows", `C:\logs\netwarden.log`)
	if err != nil {
		t.Fatalf("unexpected windows commands error: %v", err)
	}
	if len(windows) == 0 {
		t.Fatalf("expected windows commands")
	}
	if windows[0].name != "rundll32" {
		t.Fatalf("unexpected first windows command: %q", windows[0].name)
	}

	linux, err := openPathCommandsForOS("linux", "/tmp/netwarden.log")
	if err != nil {
		t.Fatalf("unexpected linux commands error: %v", err)
	}
	if len(linux) == 0 {
		t.Fatalf("expected linux command fallbacks")
	}
	if linux[0].name != "xdg-open" {
		t.Fatalf("unexpected first linux command: %q", linux[0].name)
	}
}

func TestOpenPathCommandsForOSUnsupported(t *testing.T) {
	if _, err := openPathCommandsForOS("plan9", "/tmp/x"); err == nil {
		t.Fatalf("expected unsupported os error")
	}
}

func TestOpenPathForOSFallsBack(t *testing.T) {
	var attempts []string
	start := func(name string, args ...string) error {
		attempts = append(attempts, name)
		if len(attempts) == 1 {
			return errors.New("first command failed")
		}

		return nil
	}

	if err := openPathForOS("linux", "/tmp/netwarden.log", start); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(attempts) < 2 {
		t.Fatalf("expected fallback attempt, got %d", len(attempts))
	}
}

func TestOpenPathForOSAllFail(t *testing.T) {
	start := func(_ string, _ ...string) error {
		return errors.New("fail")
	}

	if err := openPathForOS("windows", `C:\logs\netwarden.log`, start); err == nil {
		t.Fatalf("expected aggregate error")
	}
}
