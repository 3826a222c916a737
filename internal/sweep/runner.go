package sweep

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"hoops-edge-lab/internal/domain"
	"hoops-edge-lab/internal/grid"
	"hoops-edge-lab/internal/observability"
	"hoops-edge-lab/internal/progress"
	"hoops-edge-lab/internal/reporting"
	"hoops-edge-lab/internal/resultcache"
	"hoops-edge-lab/internal/selection"
	"hoops-edge-lab/internal/split"
	"hoops-edge-lab/internal/storage"
)

// RunnerOptions wires a Runner's collaborators. Cache and Metrics are
// optional; Games and Points are not.
type RunnerOptions struct {
	Games   storage.GameStore
	Points  storage.AlignedPointStore
	Cache   *resultcache.Cache
	Metrics *observability.Metrics
	Logger  *zap.Logger

	// ReportDir, when set, receives CSV and markdown summaries after
	// each completed run. Report writes are best-effort.
	ReportDir string
}

// Runner executes whole sweeps. It is stateless across runs and safe
// for concurrent use; per-run state lives on the stack of Run.
type Runner struct {
	games     storage.GameStore
	points    storage.AlignedPointStore
	cache     *resultcache.Cache
	metrics   *observability.Metrics
	logger    *zap.Logger
	reportDir string
}

func NewRunner(opts RunnerOptions) *Runner {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		games:     opts.Games,
		points:    opts.Points,
		cache:     opts.Cache,
		metrics:   opts.Metrics,
		logger:    logger,
		reportDir: opts.ReportDir,
	}
}

// Run executes one sweep to completion and returns its final state.
// Progress snapshots flow through hub (which may be nil for library
// callers that do not track progress).
//
// Cancellation is run-granular: a cancelled context stops workers from
// picking up further combinations, but a started combination always
// runs its current game list to completion boundaries.
func (r *Runner) Run(ctx context.Context, runID string, cfg domain.SweepConfig, hub *progress.Hub) (*domain.RunState, error) {
	started := time.Now()

	state := &domain.RunState{
		RunID:       runID,
		Status:      domain.RunStatusRunning,
		StartedAtMs: started.UnixMilli(),
		Config:      cfg,
	}

	if err := grid.Validate(cfg.Grid); err != nil {
		return r.fail(state, hub, err), err
	}
	if err := grid.ValidateRatios(cfg.Ratios); err != nil {
		return r.fail(state, hub, err), err
	}

	cacheKey, err := resultcache.Key(cfg)
	if err != nil {
		return r.fail(state, hub, err), err
	}
	state.CacheKey = cacheKey

	if cached := r.lookupCache(cacheKey, runID, started); cached != nil {
		r.publishFinal(hub, cached)
		return cached, nil
	}

	combos, err := grid.Generate(cfg.Grid)
	if err != nil {
		return r.fail(state, hub, err), err
	}

	gameIDs, err := r.games.ListIDsBySeason(ctx, cfg.Season)
	if err != nil {
		err = fmt.Errorf("list games for season %s: %w", cfg.Season, err)
		return r.fail(state, hub, err), err
	}
	splits := split.Partition(gameIDs, cfg.Ratios, cfg.SplitSeed)

	// One progress unit per (combination, game) pair.
	state.Total = int64(len(combos)) * int64(len(gameIDs))
	tracker := progress.NewTracker(progress.TrackerConfig{
		RunID: runID,
		Total: state.Total,
		Hub:   hub,
	})
	tracker.Publish()

	results := r.evaluateAll(ctx, combos, splits, cfg, tracker)
	if err := ctx.Err(); err != nil {
		return r.fail(state, hub, err), err
	}

	state.Results = results
	state.Current = state.Total

	sel, err := selection.Select(results, selection.Policy{
		TopN:          cfg.TopN,
		MinTradeCount: cfg.MinTradeCount,
	})
	if err != nil {
		return r.fail(state, hub, err), err
	}
	state.FinalSelection = sel

	state.Status = domain.RunStatusComplete
	state.CompletedAtMs = time.Now().UnixMilli()
	tracker.Complete(domain.RunStatusComplete)

	if r.cache != nil {
		r.cache.Put(cacheKey, state)
	}
	if r.reportDir != "" {
		gen := reporting.NewGenerator()
		if err := gen.WriteFiles(r.reportDir, gen.Build(state)); err != nil {
			// Reports are a convenience; the run already succeeded.
			r.logger.Warn("report write failed",
				zap.String("run_id", runID),
				zap.Error(err))
		}
	}
	if r.metrics != nil {
		r.metrics.SweepsCompleted.WithLabelValues("complete").Inc()
		r.metrics.SweepDuration.Observe(time.Since(started).Seconds())
	}

	r.logger.Info("sweep complete",
		zap.String("run_id", runID),
		zap.Int("combinations", len(combos)),
		zap.Int("games", len(gameIDs)),
		zap.Bool("degraded_selection", sel.Degraded),
		zap.Duration("elapsed", time.Since(started)))

	return state, nil
}

// evaluateAll fans combinations out to a bounded worker pool. Results
// merge under a lock keyed by combination identity, so submission order
// never matters. A combination that errors is logged and omitted; the
// rest of the sweep is unaffected.
func (r *Runner) evaluateAll(ctx context.Context, combos []domain.Combination, splits split.Splits, cfg domain.SweepConfig, tracker *progress.Tracker) []domain.CombinationResult {
	workers := cfg.Workers
	if workers <= 0 || workers > runtime.NumCPU() {
		workers = runtime.NumCPU()
	}
	if workers > len(combos) {
		workers = len(combos)
	}
	if workers < 1 {
		workers = 1
	}

	evaluator := NewEvaluator(newSeriesCache(r.points), splits, cfg, r.logger)

	var mu sync.Mutex
	merged := make(map[string]domain.CombinationResult, len(combos))
	jobs := make(chan domain.Combination)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rep := tracker.Reporter()
			defer rep.Flush()

			for combo := range jobs {
				result, err := evaluator.Evaluate(ctx, combo, rep)
				rep.Flush()
				if err != nil {
					r.logger.Error("combination failed, omitting from results",
						zap.String("combination", combo.Key()),
						zap.Error(err))
					if r.metrics != nil {
						r.metrics.CombinationErrors.Inc()
					}
					continue
				}

				mu.Lock()
				merged[combo.Key()] = result
				mu.Unlock()
				if r.metrics != nil {
					r.metrics.CombinationsEvaluated.Inc()
				}
			}
		}()
	}

	for _, combo := range combos {
		select {
		case jobs <- combo:
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return nil
		}
	}
	close(jobs)
	wg.Wait()

	results := make([]domain.CombinationResult, 0, len(merged))
	for _, res := range merged {
		results = append(results, res)
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].Combination.Key() < results[j].Combination.Key()
	})
	return results
}

// lookupCache serves a previous run's results under a fresh run id.
func (r *Runner) lookupCache(key, runID string, started time.Time) *domain.RunState {
	if r.cache == nil {
		return nil
	}
	cached, ok := r.cache.Get(key)
	if !ok {
		if r.metrics != nil {
			r.metrics.CacheMisses.Inc()
		}
		return nil
	}
	if r.metrics != nil {
		r.metrics.CacheHits.Inc()
	}
	r.logger.Info("serving sweep from result cache",
		zap.String("run_id", runID),
		zap.String("cache_key", key))

	cached.RunID = runID
	cached.StartedAtMs = started.UnixMilli()
	cached.CompletedAtMs = time.Now().UnixMilli()
	cached.Current = cached.Total
	cached.Status = domain.RunStatusComplete
	return cached
}

func (r *Runner) fail(state *domain.RunState, hub *progress.Hub, err error) *domain.RunState {
	state.Status = domain.RunStatusError
	state.Error = err.Error()
	state.CompletedAtMs = time.Now().UnixMilli()

	if r.metrics != nil {
		r.metrics.SweepsCompleted.WithLabelValues("error").Inc()
	}
	r.logger.Error("sweep failed",
		zap.String("run_id", state.RunID),
		zap.Error(err))

	r.publishFinal(hub, state)
	return state
}

func (r *Runner) publishFinal(hub *progress.Hub, state *domain.RunState) {
	if hub == nil {
		return
	}
	hub.Publish(domain.ProgressSnapshot{
		RunID:   state.RunID,
		Status:  state.Status,
		Current: state.Current,
		Total:   state.Total,
	})
}
