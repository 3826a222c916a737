// Package simulator runs the divergence-threshold state machine over one
// game's aligned series. A run owns no shared state: it takes an immutable
// point slice and returns closed trades, so combinations can simulate the
// same game concurrently.
package simulator

import (
	"hoops-edge-lab/internal/domain"
)

// Config holds the thresholds, economics and windows for one simulation run.
type Config struct {
	EntryThreshold float64
	ExitThreshold  float64

	BetSizeCents int64
	FeeRate      float64
	SlippageRate float64

	ExcludeFirstSeconds int64
	ExcludeLastSeconds  int64
	MinHoldSeconds      int64
}

// FromSweep builds a simulation config for one combination of a sweep.
func FromSweep(cfg domain.SweepConfig, combo domain.Combination) Config {
	return Config{
		EntryThreshold:      combo.EntryThreshold,
		ExitThreshold:       combo.ExitThreshold,
		BetSizeCents:        cfg.BetSizeCents,
		FeeRate:             cfg.FeeRate,
		SlippageRate:        cfg.SlippageRate,
		ExcludeFirstSeconds: cfg.ExcludeFirstSeconds,
		ExcludeLastSeconds:  cfg.ExcludeLastSeconds,
		MinHoldSeconds:      cfg.MinHoldSeconds,
	}
}

// openPosition is the simulator's only mutable state between points.
type openPosition struct {
	side        domain.PositionSide
	entryTimeMs int64
	entryProb   float64
	entryCents  float64
	entryFill   float64
	contracts   float64
	entryFee    int64
}

// Simulate replays one game's aligned series through the state machine.
// Transitions:
//
//	FLAT -> LONG_MODEL   when d >= entry threshold
//	FLAT -> SHORT_MODEL  when d <= -entry threshold
//	open -> FLAT         when |d| <= exit threshold and held >= min hold
//
// Any position still open at the final point is force-closed at the last
// observed market price, so every game yields a closed set of trades.
// An empty series yields zero trades, not an error.
func Simulate(gameID string, points []*domain.AlignedPoint, cfg Config) []*domain.Trade {
	points = trimWindows(points, cfg.ExcludeFirstSeconds, cfg.ExcludeLastSeconds)
	if len(points) == 0 {
		return nil
	}

	var (
		trades []*domain.Trade
		open   *openPosition
	)

	last := points[len(points)-1]
	for _, p := range points {
		final := p == last

		if open == nil {
			if final || !p.QuotePresent {
				continue
			}
			open = tryEnter(p, cfg)
			continue
		}

		if final {
			trades = append(trades, closeTrade(gameID, open, p, cfg, domain.ExitReasonGameEnd))
			open = nil
			break
		}

		if !p.QuotePresent {
			continue
		}

		heldSeconds := (p.TimestampMs - open.entryTimeMs) / 1000
		if abs(p.Divergence()) <= cfg.ExitThreshold && heldSeconds >= cfg.MinHoldSeconds {
			trades = append(trades, closeTrade(gameID, open, p, cfg, domain.ExitReasonThreshold))
			open = nil
		}
	}

	return trades
}

// tryEnter opens a position if the divergence crosses the entry threshold
// and the fill price leaves the contract tradable. Returns nil otherwise.
func tryEnter(p *domain.AlignedPoint, cfg Config) *openPosition {
	d := p.Divergence()

	var side domain.PositionSide
	switch {
	case d >= cfg.EntryThreshold:
		side = domain.PositionLongModel
	case d <= -cfg.EntryThreshold:
		side = domain.PositionShortModel
	default:
		return nil
	}

	fill := fillPrice(p.MarketCents, cfg.SlippageRate, side == domain.PositionLongModel)
	contracts := contractsForStake(cfg.BetSizeCents, fill, side)
	if contracts <= 0 {
		return nil
	}

	return &openPosition{
		side:        side,
		entryTimeMs: p.TimestampMs,
		entryProb:   p.ModelProb,
		entryCents:  p.MarketCents,
		entryFill:   fill,
		contracts:   contracts,
		entryFee:    feeCents(contracts*fill, cfg.FeeRate),
	}
}

// closeTrade fills the exit and produces the immutable trade record.
func closeTrade(gameID string, open *openPosition, p *domain.AlignedPoint, cfg Config, reason string) *domain.Trade {
	// Closing is the opposite side of the entry fill.
	exitFill := fillPrice(p.MarketCents, cfg.SlippageRate, open.side == domain.PositionShortModel)
	exitFee := feeCents(open.contracts*exitFill, cfg.FeeRate)

	gross := open.contracts * (exitFill - open.entryFill)
	if open.side == domain.PositionShortModel {
		gross = -gross
	}

	return &domain.Trade{
		GameID:           gameID,
		Side:             open.side,
		EntryTimeMs:      open.entryTimeMs,
		ExitTimeMs:       p.TimestampMs,
		EntryModelProb:   open.entryProb,
		EntryMarketCents: open.entryCents,
		ExitModelProb:    p.ModelProb,
		ExitMarketCents:  p.MarketCents,
		BetCents:         cfg.BetSizeCents,
		Contracts:        open.contracts,
		FeeCents:         open.entryFee + exitFee,
		NetProfitCents:   roundCents(gross) - open.entryFee - exitFee,
		ExitReason:       reason,
	}
}

// trimWindows drops the warm-up and cool-down edges of the series before
// any transition is evaluated.
func trimWindows(points []*domain.AlignedPoint, excludeFirst, excludeLast int64) []*domain.AlignedPoint {
	if len(points) == 0 {
		return points
	}

	fromMs := points[0].TimestampMs + excludeFirst*1000
	toMs := points[len(points)-1].TimestampMs - excludeLast*1000

	lo := 0
	for lo < len(points) && points[lo].TimestampMs < fromMs {
		lo++
	}
	hi := len(points)
	for hi > lo && points[hi-1].TimestampMs > toMs {
		hi--
	}
	return points[lo:hi]
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
