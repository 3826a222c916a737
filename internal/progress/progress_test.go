package progress

import (
	"sync"
	"testing"

	"hoops-edge-lab/internal/domain"
)

// unthrottled returns a tracker that publishes on every merge, so tests
// never depend on wall-clock throttle windows.
func unthrottled(runID string, total int64, hub *Hub) *Tracker {
	return NewTracker(TrackerConfig{
		RunID:           runID,
		Total:           total,
		Hub:             hub,
		PushMinInterval: -1,
	})
}

func TestTracker_FinalCountMatchesTotal(t *testing.T) {
	tr := unthrottled("run1", 1000, nil)

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r := tr.Reporter()
			for i := 0; i < 250; i++ {
				r.Advance(1)
			}
			r.Flush()
		}()
	}
	wg.Wait()
	tr.Complete(domain.RunStatusComplete)

	snap := tr.Snapshot()
	if snap.Current != 1000 {
		t.Errorf("Current = %d, want 1000", snap.Current)
	}
	if snap.Status != domain.RunStatusComplete {
		t.Errorf("Status = %s, want complete", snap.Status)
	}
}

func TestTracker_BatchingDefersMerge(t *testing.T) {
	tr := NewTracker(TrackerConfig{RunID: "run1", Total: 100, FlushBatch: 50})
	r := tr.Reporter()

	for i := 0; i < 49; i++ {
		r.Advance(1)
	}
	if got := tr.Snapshot().Current; got != 0 {
		t.Errorf("Current = %d before batch threshold, want 0", got)
	}

	r.Advance(1) // 50th unit crosses the batch size
	if got := tr.Snapshot().Current; got != 50 {
		t.Errorf("Current = %d after batch threshold, want 50", got)
	}
}

func TestTracker_SnapshotsMonotonic(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe()
	defer sub.Close()

	tr := unthrottled("run1", 10, hub)
	r := tr.Reporter()
	for i := 0; i < 10; i++ {
		r.Advance(1)
		r.Flush()
	}
	tr.Complete(domain.RunStatusComplete)

	var prev int64 = -1
	for snap := range sub.C() {
		if snap.Current < prev {
			t.Errorf("Snapshot went backwards: %d after %d", snap.Current, prev)
		}
		prev = snap.Current
		if snap.Status == domain.RunStatusComplete {
			break
		}
	}
	if prev != 10 {
		t.Errorf("Final snapshot Current = %d, want 10", prev)
	}
}

func TestTracker_LabelPropagates(t *testing.T) {
	tr := unthrottled("run1", 10, nil)
	r := tr.Reporter()

	r.SetLabel("entry=0.0300 exit=0.0100")
	r.Flush()

	if got := tr.Snapshot().CurrentCombo; got != "entry=0.0300 exit=0.0100" {
		t.Errorf("CurrentCombo = %q", got)
	}
}

func TestHub_LateSubscriberGetsLatestOnly(t *testing.T) {
	hub := NewHub()
	hub.Publish(domain.ProgressSnapshot{RunID: "run1", Current: 3, Total: 10})
	hub.Publish(domain.ProgressSnapshot{RunID: "run1", Current: 7, Total: 10})

	sub := hub.Subscribe()
	defer sub.Close()

	snap := <-sub.C()
	if snap.Current != 7 {
		t.Errorf("Late subscriber got Current = %d, want latest (7)", snap.Current)
	}

	select {
	case extra := <-sub.C():
		t.Errorf("Unexpected replayed snapshot: %+v", extra)
	default:
	}
}

func TestHub_DropOldest(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe()
	defer sub.Close()

	// Subscriber consumes nothing while three snapshots arrive; only the
	// newest survives.
	hub.Publish(domain.ProgressSnapshot{Current: 1})
	hub.Publish(domain.ProgressSnapshot{Current: 2})
	hub.Publish(domain.ProgressSnapshot{Current: 3})

	snap := <-sub.C()
	if snap.Current != 3 {
		t.Errorf("Got Current = %d, want 3 (older snapshots dropped)", snap.Current)
	}
}

func TestHub_PublishWithoutSubscribers(t *testing.T) {
	hub := NewHub()
	hub.Publish(domain.ProgressSnapshot{Current: 5}) // must not block or panic

	if snap, ok := hub.Latest(); !ok || snap.Current != 5 {
		t.Errorf("Latest = %+v ok=%v, want Current 5", snap, ok)
	}
}

func TestHub_CloseIsIdempotent(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe()
	sub.Close()
	sub.Close()

	// Publishing after close must not reach the closed channel.
	hub.Publish(domain.ProgressSnapshot{Current: 1})

	if _, ok := <-sub.C(); ok {
		t.Error("Read from closed subscription should report closed")
	}
}

func TestNewRunID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := NewRunID()
		if id == "" {
			t.Fatal("Empty run id")
		}
		if seen[id] {
			t.Fatalf("Duplicate run id %s", id)
		}
		seen[id] = true
	}
}
