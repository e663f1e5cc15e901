package daemon

import (
	"testing"
	"time"
)

func TestDiffSnapshots(t *testing.T) {
	prev := Snapshot{
		Transfers:     40,
		NetWorthCents: 125_000,
	}
	curr := Snapshot{
		Transfers:     43,
		NetWorthCents: 119_500,
	}

	delta := diffSnapshots(prev, curr)
	if delta.Transfers != 3 {
		t.Fatalf("Transfers delta = %d, want 3", delta.Transfers)
	}
	if delta.NetWorthCents != -5_500 {
		t.Fatalf("NetWorth delta = %d, want -5500", delta.NetWorthCents)
	}
	if delta.isZero() {
		t.Fatal("delta unexpectedly reported as zero")
	}

	if !diffSnapshots(curr, curr).isZero() {
		t.Fatal("identical snapshots should produce a zero delta")
	}
}

func TestPublishEventRingBuffer(t *testing.T) {
	s := New(Config{
		DatabasePath: "ledger.db",
		Interval:     10 * time.Second,
		EventsBuffer: 2,
	})

	s.publishEvent(Event{ID: 1})
	s.publishEvent(Event{ID: 2})
	s.publishEvent(Event{ID: 3})

	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.events) != 2 {
		t.Fatalf("events len = %d, want 2", len(s.events))
	}
	if s.events[0].ID != 2 || s.events[1].ID != 3 {
		t.Fatalf("events ring contains IDs [%d, %d], want [2, 3]", s.events[0].ID, s.events[1].ID)
	}
}
