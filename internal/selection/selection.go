// Package selection picks the reported best combination from a finished
// sweep. The two-stage rule ranks on training profit first and only then
// consults validation profit, which limits how directly the choice can
// overfit the validation split.
package selection

import (
	"errors"
	"sort"

	"hoops-edge-lab/internal/domain"
)

// ErrNoResults is returned when a sweep produced no combination results
// at all, so there is nothing to select from.
var ErrNoResults = errors.New("selection: no combination results")

// Policy carries the selection knobs of a sweep.
type Policy struct {
	// TopN bounds the first-stage cut over train net profit.
	TopN int
	// MinTradeCount drops combinations whose train split traded too
	// rarely to be statistically meaningful.
	MinTradeCount int
}

// Select applies the two-stage rule:
//
//  1. rank combinations by train net profit descending, keep the top N;
//  2. among those, pick the best validation net profit and report its
//     test metrics as the held-out estimate.
//
// When no candidate saw any validation games (an empty validation split
// on a small dataset), it falls back to the best training
// combination and marks the selection degraded instead of failing.
func Select(results []domain.CombinationResult, policy Policy) (*domain.Selection, error) {
	if len(results) == 0 {
		return nil, ErrNoResults
	}

	candidates := filterByTradeCount(results, policy.MinTradeCount)
	degraded := false
	if len(candidates) == 0 {
		// Every combination traded below the floor. A selection is
		// still owed, so relax the filter and flag it.
		candidates = results
		degraded = true
	}

	rankByTrainProfit(candidates)
	topN := policy.TopN
	if topN <= 0 || topN > len(candidates) {
		topN = len(candidates)
	}
	candidates = candidates[:topN]

	if best := bestByValidProfit(candidates); best != nil {
		return &domain.Selection{
			Combination:  best.Combination,
			TrainMetrics: best.Train,
			ValidMetrics: &best.Valid,
			TestMetrics:  &best.Test,
			Degraded:     degraded,
		}, nil
	}

	// No validation data anywhere in the top N: fall back to the train
	// winner and withhold the out-of-sample estimates.
	best := candidates[0]
	return &domain.Selection{
		Combination:  best.Combination,
		TrainMetrics: best.Train,
		Degraded:     true,
	}, nil
}

func filterByTradeCount(results []domain.CombinationResult, minTrades int) []domain.CombinationResult {
	kept := make([]domain.CombinationResult, 0, len(results))
	for _, r := range results {
		if r.Train.NumTrades >= minTrades {
			kept = append(kept, r)
		}
	}
	return kept
}

// rankByTrainProfit sorts descending by train net profit, breaking ties
// by combination key so the ranking is reproducible.
func rankByTrainProfit(results []domain.CombinationResult) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Train.NetProfitCents != results[j].Train.NetProfitCents {
			return results[i].Train.NetProfitCents > results[j].Train.NetProfitCents
		}
		return results[i].Combination.Key() < results[j].Combination.Key()
	})
}

// bestByValidProfit returns the candidate with the highest validation net
// profit, or nil when no candidate saw any validation games (an empty
// validation split). Zero trades over a non-empty split is still a valid
// result with zero profit.
func bestByValidProfit(candidates []domain.CombinationResult) *domain.CombinationResult {
	var best *domain.CombinationResult
	for i := range candidates {
		c := &candidates[i]
		if c.Valid.GamesEvaluated == 0 {
			continue
		}
		if best == nil || c.Valid.NetProfitCents > best.Valid.NetProfitCents {
			best = c
		}
	}
	return best
}
