// Package metrics folds closed trades into per-split aggregates.
package metrics

import (
	"sort"

	"hoops-edge-lab/internal/domain"
)

// ComputeSplit calculates all metrics for one split's trades.
// Trades are sorted by ExitTimeMs ASC, GameID ASC before computing
// order-dependent metrics (MaxDrawdown), so the result does not depend
// on per-game evaluation order.
//
// Ratio fields stay nil when their denominator is zero: a zero-trade
// split has no win rate, and a lossless split has no profit factor.
func ComputeSplit(trades []*domain.Trade, gamesEvaluated, gamesSkipped int) domain.SplitMetrics {
	m := domain.SplitMetrics{
		NumTrades:      len(trades),
		GamesEvaluated: gamesEvaluated,
		GamesSkipped:   gamesSkipped,
	}
	if len(trades) == 0 {
		return m
	}

	sorted := make([]*domain.Trade, len(trades))
	copy(sorted, trades)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].ExitTimeMs != sorted[j].ExitTimeMs {
			return sorted[i].ExitTimeMs < sorted[j].ExitTimeMs
		}
		return sorted[i].GameID < sorted[j].GameID
	})

	for _, t := range sorted {
		m.NetProfitCents += t.NetProfitCents
		switch {
		case t.NetProfitCents > 0:
			m.Wins++
			m.GrossProfitCents += t.NetProfitCents
		case t.NetProfitCents < 0:
			m.Losses++
			m.GrossLossCents += -t.NetProfitCents
		}
	}

	winRate := float64(m.Wins) / float64(m.NumTrades)
	m.WinRate = &winRate

	if m.GrossLossCents > 0 {
		pf := float64(m.GrossProfitCents) / float64(m.GrossLossCents)
		m.ProfitFactor = &pf
	}

	m.MaxDrawdownCents = computeMaxDrawdown(sorted)

	return m
}

// computeMaxDrawdown calculates worst peak-to-trough on the cumulative
// net profit curve. Trades must be in chronological order.
func computeMaxDrawdown(trades []*domain.Trade) int64 {
	var cumulative, peak, maxDrawdown int64
	for _, t := range trades {
		cumulative += t.NetProfitCents
		if cumulative > peak {
			peak = cumulative
		}
		if dd := peak - cumulative; dd > maxDrawdown {
			maxDrawdown = dd
		}
	}
	return maxDrawdown
}
