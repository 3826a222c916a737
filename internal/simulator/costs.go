package simulator

import (
	"math"

	"hoops-edge-lab/internal/domain"
)

// fillPrice applies symmetric slippage to a quoted price in cents. Buys fill
// above the quote, sells below, clamped to the contract's [0,100] range.
func fillPrice(quoteCents, slippageRate float64, buy bool) float64 {
	var fill float64
	if buy {
		fill = quoteCents * (1 + slippageRate)
	} else {
		fill = quoteCents * (1 - slippageRate)
	}
	return math.Min(100, math.Max(0, fill))
}

// contractsForStake converts a fixed stake into fractional contracts at the
// entry fill. A short is treated as buying the opposite side of the binary
// at (100 - fill). Returns 0 when the fill leaves nothing tradable.
func contractsForStake(betCents int64, fill float64, side domain.PositionSide) float64 {
	cost := fill
	if side == domain.PositionShortModel {
		cost = 100 - fill
	}
	if cost <= 0 || cost >= 100 {
		return 0
	}
	return float64(betCents) / cost
}

// feeCents charges the configured rate against the fill notional of one side.
// The exact exchange formula is an open integration question; the rate-based
// approximation lives here so swapping it touches nothing else.
func feeCents(notionalCents, feeRate float64) int64 {
	if feeRate <= 0 {
		return 0
	}
	return int64(math.Ceil(notionalCents * feeRate))
}

// roundCents rounds half away from zero, matching ledger arithmetic.
func roundCents(v float64) int64 {
	return int64(math.Round(v))
}
