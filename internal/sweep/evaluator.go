// Package sweep coordinates a grid sweep: it expands the threshold grid,
// partitions the season, fans combinations out to a bounded worker pool
// and folds the per-combination metrics into a selectable result set.
package sweep

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"hoops-edge-lab/internal/domain"
	"hoops-edge-lab/internal/metrics"
	"hoops-edge-lab/internal/progress"
	"hoops-edge-lab/internal/simulator"
	"hoops-edge-lab/internal/split"
	"hoops-edge-lab/internal/storage"
)

// Evaluator scores one combination across all three splits. It is
// internally sequential; parallelism lives one level up, across
// combinations.
type Evaluator struct {
	points storage.AlignedPointStore
	splits split.Splits
	cfg    domain.SweepConfig
	logger *zap.Logger
}

func NewEvaluator(points storage.AlignedPointStore, splits split.Splits, cfg domain.SweepConfig, logger *zap.Logger) *Evaluator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Evaluator{points: points, splits: splits, cfg: cfg, logger: logger}
}

// Evaluate simulates every game of every split under one combination.
// A game whose series cannot be loaded is skipped and counted, not
// fatal: one bad game must not invalidate the rest of the split. The
// reporter advances once per game.
func (e *Evaluator) Evaluate(ctx context.Context, combo domain.Combination, rep progress.Reporter) (domain.CombinationResult, error) {
	rep.SetLabel(combo.Key())
	simCfg := simulator.FromSweep(e.cfg, combo)

	result := domain.CombinationResult{Combination: combo}
	for _, s := range []struct {
		name    string
		gameIDs []string
		out     *domain.SplitMetrics
	}{
		{"train", e.splits.Train, &result.Train},
		{"valid", e.splits.Valid, &result.Valid},
		{"test", e.splits.Test, &result.Test},
	} {
		m, err := e.evaluateSplit(ctx, s.gameIDs, simCfg, rep)
		if err != nil {
			return domain.CombinationResult{}, fmt.Errorf("evaluate %s split for %s: %w", s.name, combo.Key(), err)
		}
		*s.out = m
	}
	return result, nil
}

func (e *Evaluator) evaluateSplit(ctx context.Context, gameIDs []string, simCfg simulator.Config, rep progress.Reporter) (domain.SplitMetrics, error) {
	var (
		trades    []*domain.Trade
		evaluated int
		skipped   int
	)

	for _, gameID := range gameIDs {
		if err := ctx.Err(); err != nil {
			return domain.SplitMetrics{}, err
		}

		points, err := e.points.GetByGameID(ctx, gameID)
		if err != nil {
			e.logger.Warn("skipping game, aligned series unavailable",
				zap.String("game_id", gameID),
				zap.Error(err))
			skipped++
			rep.Advance(1)
			continue
		}

		trades = append(trades, simulator.Simulate(gameID, points, simCfg)...)
		evaluated++
		rep.Advance(1)
	}

	return metrics.ComputeSplit(trades, evaluated, skipped), nil
}
