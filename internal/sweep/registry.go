package sweep

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"hoops-edge-lab/internal/domain"
	"hoops-edge-lab/internal/observability"
	"hoops-edge-lab/internal/progress"
)

// ErrRunNotFound is returned for run ids the registry does not know,
// including runs already evicted.
var ErrRunNotFound = errors.New("sweep: run not found")

// defaultMaxRuns bounds how many finished runs the registry retains.
const defaultMaxRuns = 64

// Registry owns the set of in-flight and recently finished runs. It is
// the explicit alternative to ambient process globals: everything a
// status query or a subscriber needs hangs off one instance.
type Registry struct {
	runner  *Runner
	metrics *observability.Metrics
	logger  *zap.Logger
	maxRuns int

	mu    sync.Mutex
	runs  map[string]*runEntry
	order []string // insertion order, oldest first, for eviction
}

type runEntry struct {
	state  *domain.RunState
	hub    *progress.Hub
	cancel context.CancelFunc
}

// RegistryOptions wires a Registry. MaxRuns of zero means the default.
type RegistryOptions struct {
	Runner  *Runner
	Metrics *observability.Metrics
	Logger  *zap.Logger
	MaxRuns int
}

func NewRegistry(opts RegistryOptions) *Registry {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	maxRuns := opts.MaxRuns
	if maxRuns <= 0 {
		maxRuns = defaultMaxRuns
	}
	return &Registry{
		runner:  opts.Runner,
		metrics: opts.Metrics,
		logger:  logger,
		maxRuns: maxRuns,
		runs:    make(map[string]*runEntry),
	}
}

// Start launches a sweep asynchronously and returns its run id
// immediately. The run detaches from the caller's context; cancellation
// is per-run via Cancel.
func (g *Registry) Start(cfg domain.SweepConfig) string {
	runID := progress.NewRunID()
	hub := progress.NewHub()
	ctx, cancel := context.WithCancel(context.Background())

	entry := &runEntry{
		state: &domain.RunState{
			RunID:  runID,
			Status: domain.RunStatusRunning,
			Config: cfg,
		},
		hub:    hub,
		cancel: cancel,
	}

	g.mu.Lock()
	g.runs[runID] = entry
	g.order = append(g.order, runID)
	g.evictLocked()
	g.mu.Unlock()

	if g.metrics != nil {
		g.metrics.ActiveRuns.Inc()
	}

	go func() {
		defer cancel()
		final, err := g.runner.Run(ctx, runID, cfg, hub)
		if err != nil {
			g.logger.Error("run finished with error",
				zap.String("run_id", runID),
				zap.Error(err))
		}

		g.mu.Lock()
		if e, ok := g.runs[runID]; ok {
			e.state = final
		}
		g.mu.Unlock()

		if g.metrics != nil {
			g.metrics.ActiveRuns.Dec()
		}
	}()

	return runID
}

// Get answers a synchronous status query. It always reflects the latest
// progress, attached subscribers or not, and returns a copy the caller
// may mutate freely.
func (g *Registry) Get(runID string) (domain.RunState, error) {
	g.mu.Lock()
	entry, ok := g.runs[runID]
	if !ok {
		g.mu.Unlock()
		return domain.RunState{}, ErrRunNotFound
	}
	state := *entry.state
	hub := entry.hub
	g.mu.Unlock()

	// Overlay live counters while the run is still going; the stored
	// state only catches up at completion.
	if state.Status == domain.RunStatusRunning {
		if snap, ok := hub.Latest(); ok {
			state.Current = snap.Current
			state.Total = snap.Total
			state.CurrentCombo = snap.CurrentCombo
		}
	}
	return state, nil
}

// Subscribe attaches a progress subscriber to a run. The caller must
// Close the subscription.
func (g *Registry) Subscribe(runID string) (*progress.Subscription, error) {
	g.mu.Lock()
	entry, ok := g.runs[runID]
	g.mu.Unlock()
	if !ok {
		return nil, ErrRunNotFound
	}
	return entry.hub.Subscribe(), nil
}

// Cancel stops a running sweep. Finished runs are left untouched.
func (g *Registry) Cancel(runID string) error {
	g.mu.Lock()
	entry, ok := g.runs[runID]
	g.mu.Unlock()
	if !ok {
		return ErrRunNotFound
	}
	entry.cancel()
	return nil
}

// evictLocked drops the oldest finished runs once the retention cap is
// exceeded. Running entries are never evicted.
func (g *Registry) evictLocked() {
	if len(g.runs) <= g.maxRuns {
		return
	}

	kept := g.order[:0]
	for _, id := range g.order {
		entry := g.runs[id]
		if entry == nil {
			continue
		}
		if len(g.runs) > g.maxRuns && entry.state.Status != domain.RunStatusRunning {
			delete(g.runs, id)
			continue
		}
		kept = append(kept, id)
	}
	g.order = kept
}
