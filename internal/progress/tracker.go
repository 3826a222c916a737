package progress

import (
	"sync"
	"time"

	"hoops-edge-lab/internal/domain"
)

const (
	// defaultFlushBatch is how many units a worker accumulates locally
	// before merging into the shared counter.
	defaultFlushBatch = 250
	// defaultFlushInterval bounds how stale a worker's local batch can
	// get on slow tasks.
	defaultFlushInterval = 4 * time.Second
	// defaultPushMinInterval throttles snapshot publication.
	defaultPushMinInterval = 100 * time.Millisecond
)

// TrackerConfig configures a run's progress tracker.
type TrackerConfig struct {
	RunID string
	Total int64
	Hub   *Hub

	// PushMinInterval throttles publication; zero means the default.
	// Negative disables throttling (every merge publishes).
	PushMinInterval time.Duration
	// FlushBatch overrides the per-worker batch size; zero means the
	// default.
	FlushBatch int
}

// Tracker owns one run's progress state. Workers write through Reporters;
// readers either subscribe to the hub or query Snapshot directly.
type Tracker struct {
	runID           string
	total           int64
	hub             *Hub
	flushBatch      int
	flushInterval   time.Duration
	pushMinInterval time.Duration

	mu       sync.Mutex
	current  int64
	label    string
	status   domain.RunStatus
	lastPush time.Time
}

func NewTracker(cfg TrackerConfig) *Tracker {
	t := &Tracker{
		runID:           cfg.RunID,
		total:           cfg.Total,
		hub:             cfg.Hub,
		flushBatch:      cfg.FlushBatch,
		flushInterval:   defaultFlushInterval,
		pushMinInterval: cfg.PushMinInterval,
		status:          domain.RunStatusRunning,
	}
	if t.flushBatch <= 0 {
		t.flushBatch = defaultFlushBatch
	}
	if t.pushMinInterval == 0 {
		t.pushMinInterval = defaultPushMinInterval
	}
	return t
}

// Reporter hands out a batching write handle for one worker goroutine.
func (t *Tracker) Reporter() Reporter {
	return &workerReporter{tracker: t, lastFlush: time.Now()}
}

// Snapshot returns the current state. It always answers, attached
// subscribers or not.
func (t *Tracker) Snapshot() domain.ProgressSnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

// Complete marks the run finished and publishes a final snapshot
// unconditionally, bypassing the push throttle. Workers must have
// flushed their reporters first or the final count comes up short.
func (t *Tracker) Complete(status domain.RunStatus) {
	t.mu.Lock()
	t.status = status
	snap := t.snapshotLocked()
	t.lastPush = time.Now()
	t.mu.Unlock()

	if t.hub != nil {
		t.hub.Publish(snap)
	}
}

// Publish pushes the current snapshot regardless of the throttle. Used
// for the initial snapshot so subscribers see the total immediately.
func (t *Tracker) Publish() {
	t.mu.Lock()
	snap := t.snapshotLocked()
	t.lastPush = time.Now()
	t.mu.Unlock()

	if t.hub != nil {
		t.hub.Publish(snap)
	}
}

// merge folds a worker's batch into the shared counter and publishes if
// the throttle window has passed.
func (t *Tracker) merge(n int64, label string, labelSet bool) {
	t.mu.Lock()
	t.current += n
	if labelSet {
		t.label = label
	}

	now := time.Now()
	push := t.hub != nil && (t.pushMinInterval < 0 || now.Sub(t.lastPush) >= t.pushMinInterval)
	var snap domain.ProgressSnapshot
	if push {
		snap = t.snapshotLocked()
		t.lastPush = now
	}
	t.mu.Unlock()

	if push {
		t.hub.Publish(snap)
	}
}

func (t *Tracker) snapshotLocked() domain.ProgressSnapshot {
	return domain.ProgressSnapshot{
		RunID:        t.runID,
		Status:       t.status,
		Current:      t.current,
		Total:        t.total,
		CurrentCombo: t.label,
	}
}

// workerReporter batches advances locally. One per worker goroutine.
type workerReporter struct {
	tracker   *Tracker
	pending   int64
	label     string
	labelSet  bool
	lastFlush time.Time
}

func (w *workerReporter) Advance(n int) {
	w.pending += int64(n)
	if w.pending >= int64(w.tracker.flushBatch) || time.Since(w.lastFlush) >= w.tracker.flushInterval {
		w.Flush()
	}
}

func (w *workerReporter) SetLabel(label string) {
	w.label = label
	w.labelSet = true
}

func (w *workerReporter) Flush() {
	if w.pending == 0 && !w.labelSet {
		return
	}
	w.tracker.merge(w.pending, w.label, w.labelSet)
	w.pending = 0
	w.labelSet = false
	w.lastFlush = time.Now()
}

var _ Reporter = (*workerReporter)(nil)
