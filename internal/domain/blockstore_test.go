package domain

import (
	"testing"
	"time"
)

func TestBlockStoreReplaceSwapsWholeList(t *testing.T) {
	store := NewBlockStore()
	store.Replace([]BlockEntry{
		{IP: "10.0.0.1", Reason: "scan"},
		{IP: "10.0.0.2", Reason: "brute force"},
	})
	store.Replace([]BlockEntry{{IP: "10.0.0.3", Reason: "exfil"}})

	if _, ok := store.Get("10.0.0.1"); ok {
		t.Fatalf("expected replaced entry to be gone")
	}
	entry, ok := store.Get("10.0.0.3")
	if !ok || entry.Reason != "exfil" {
		t.Fatalf("expected new entry, got %v (ok=%v)", entry, ok)
	}
}

func TestBlockStoreSnapshotSortedNewestFirst(t *testing.T) {
	store := NewBlockStore()
	now := time.Now()
	store.Replace([]BlockEntry{
		{IP: "10.0.0.1", CreatedAt: now.Add(-time.Hour)},
		{IP: "10.0.0.2", CreatedAt: now},
	})

	snapshot := store.SnapshotSorted()
	if len(snapshot) != 2 || snapshot[0].IP != "10.0.0.2" {
		t.Fatalf("unexpected order: %v", snapshot)
	}
}

func TestBlockStoreIsTrusted(t *testing.T) {
	store := NewBlockStore()
	store.Replace([]BlockEntry{
		{IP: "192.168.1.10", Trusted: true},
		{IP: "192.168.1.11"},
	})

	if !store.IsTrusted("192.168.1.10") {
		t.Fatalf("expected trusted entry to report trusted")
	}
	if store.IsTrusted("192.168.1.11") {
		t.Fatalf("expected untrusted entry to report false")
	}
	if store.IsTrusted("192.168.1.12") {
		t.Fatalf("expected unknown entry to report false")
	}
}

func TestDeviceStoreSortsViolationsFirst(t *testing.T) {
	store := NewDeviceStore()
	store.Replace([]Device{
		{ID: "a", Hostname: "zeta", Compliant: true},
		{ID: "b", Hostname: "alpha", Compliant: true},
		{ID: "c", Hostname: "mike", Compliant: false},
	})

	snapshot := store.SnapshotSorted()
	if len(snapshot) != 3 {
		t.Fatalf("expected 3 devices, got %d", len(snapshot))
	}
	if snapshot[0].ID != "c" {
		t.Fatalf("expected violating device first, got %s", snapshot[0].ID)
	}
	if snapshot[1].Hostname != "alpha" || snapshot[2].Hostname != "zeta" {
		t.Fatalf("expected compliant devices sorted by hostname, got %v", snapshot)
	}

	compliant, violating := store.ComplianceCounts()
	if compliant != 2 || violating != 1 {
		t.Fatalf("expected counts (2, 1), got (%d, %d)", compliant, violating)
	}
}
