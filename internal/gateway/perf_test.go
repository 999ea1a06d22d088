package gateway

import (
	"testing"
	"time"
)

func TestPortCountersDropAccounting(t *testing.T) {
	pc := newPortCounters()
	pc.RecordSuccess(10, 0)
	pc.RecordSuccess(10, 3) // gap of 2 (seq 1 and 2 missing)
	snap := pc.Query()
	if snap.SuccCount != 2 {
		t.Fatalf("got succ_count=%d want 2", snap.SuccCount)
	}
	if snap.DropCount != 2 {
		t.Fatalf("got drop_count=%d want 2", snap.DropCount)
	}
	if snap.SuccBytes != 2*(10+FrameOverheadBytes) {
		t.Fatalf("got succ_bytes=%d want %d", snap.SuccBytes, 2*(10+FrameOverheadBytes))
	}
}

func TestPortCountersWrapAround(t *testing.T) {
	pc := newPortCounters()
	pc.RecordSuccess(1, 254)
	pc.RecordSuccess(1, 1) // wraps: 255, 0, 1 => gap of 2
	snap := pc.Query()
	if snap.DropCount != 2 {
		t.Fatalf("got drop_count=%d want 2 across sequence wraparound", snap.DropCount)
	}
}

func TestPortCountersQuerySubtractsSnapshot(t *testing.T) {
	pc := newPortCounters()
	pc.RecordSuccess(1, 0)
	first := pc.Query()
	if first.SuccCount != 1 {
		t.Fatalf("first query got %d want 1", first.SuccCount)
	}
	second := pc.Query()
	if second.SuccCount != 0 {
		t.Fatalf("second query with no new activity must report delta 0, got %d", second.SuccCount)
	}
	pc.RecordSuccess(1, 1)
	third := pc.Query()
	if third.SuccCount != 1 {
		t.Fatalf("third query must report only the new activity, got %d", third.SuccCount)
	}
}

func TestPortCountersPeekDoesNotDisturbQuery(t *testing.T) {
	pc := newPortCounters()
	pc.RecordSuccess(1, 0)

	peek1 := pc.Peek()
	if peek1.SuccCount != 1 {
		t.Fatalf("peek got %d want 1", peek1.SuccCount)
	}
	peek2 := pc.Peek()
	if peek2.SuccCount != 1 {
		t.Fatalf("a second peek must still report the live cumulative total, got %d", peek2.SuccCount)
	}

	// Query must still see the full delta: Peek must not have advanced
	// Query's snapshot baseline.
	q := pc.Query()
	if q.SuccCount != 1 {
		t.Fatalf("query after peeks got delta %d want 1", q.SuccCount)
	}
}

func TestExecCountersOnlyAddLoadWhenWorkDone(t *testing.T) {
	var ec ExecCounters
	ec.Record(5*time.Millisecond, false)
	ec.Record(5*time.Millisecond, true)
	snap := ec.Snapshot()
	if snap.Total != 2 {
		t.Fatalf("got total=%d want 2", snap.Total)
	}
	if snap.LoadUs != 5000 {
		t.Fatalf("load_us must accrue only from the pump that did work: got %d want 5000", snap.LoadUs)
	}
}
