package simulator

import (
	"testing"

	"hoops-edge-lab/internal/domain"
)

// pt builds an aligned point with a present quote.
func pt(tsMs int64, prob, cents float64) *domain.AlignedPoint {
	return &domain.AlignedPoint{
		GameID:       "g1",
		TimestampMs:  tsMs,
		ModelProb:    prob,
		MarketCents:  cents,
		QuotePresent: true,
	}
}

func baseConfig() Config {
	return Config{
		EntryThreshold: 0.05,
		ExitThreshold:  0.02,
		BetSizeCents:   10000,
		MinHoldSeconds: 60,
	}
}

func TestSimulate_LongEntryAndThresholdExit(t *testing.T) {
	points := []*domain.AlignedPoint{
		pt(0, 0.60, 50),      // d = +0.10, enter long
		pt(120000, 0.55, 54), // d = +0.01, exit
		pt(180000, 0.55, 55),
	}

	trades := Simulate("g1", points, baseConfig())
	if len(trades) != 1 {
		t.Fatalf("Expected 1 trade, got %d", len(trades))
	}

	tr := trades[0]
	if tr.Side != domain.PositionLongModel {
		t.Errorf("Side = %s, want LONG_MODEL", tr.Side)
	}
	if tr.ExitReason != domain.ExitReasonThreshold {
		t.Errorf("ExitReason = %s, want THRESHOLD_EXIT", tr.ExitReason)
	}
	// 200 contracts at 50c, closed at 54c: +800 cents, no costs configured.
	if tr.NetProfitCents != 800 {
		t.Errorf("NetProfitCents = %d, want 800", tr.NetProfitCents)
	}
	if tr.EntryTimeMs != 0 || tr.ExitTimeMs != 120000 {
		t.Errorf("Trade times = (%d, %d), want (0, 120000)", tr.EntryTimeMs, tr.ExitTimeMs)
	}
}

func TestSimulate_ShortEntry(t *testing.T) {
	points := []*domain.AlignedPoint{
		pt(0, 0.40, 50),      // d = -0.10, enter short
		pt(120000, 0.44, 45), // d = -0.01, exit
		pt(180000, 0.44, 45),
	}

	trades := Simulate("g1", points, baseConfig())
	if len(trades) != 1 {
		t.Fatalf("Expected 1 trade, got %d", len(trades))
	}

	tr := trades[0]
	if tr.Side != domain.PositionShortModel {
		t.Errorf("Side = %s, want SHORT_MODEL", tr.Side)
	}
	// 200 contracts of the opposite side: market dropped 5c, +1000 cents.
	if tr.NetProfitCents != 1000 {
		t.Errorf("NetProfitCents = %d, want 1000", tr.NetProfitCents)
	}
}

func TestSimulate_MinHoldSuppressesExit(t *testing.T) {
	cfg := baseConfig()
	cfg.MinHoldSeconds = 300

	points := []*domain.AlignedPoint{
		pt(0, 0.60, 50),      // enter long
		pt(120000, 0.55, 54), // exit condition met, but held only 120s
		pt(180000, 0.56, 55),
	}

	trades := Simulate("g1", points, cfg)
	if len(trades) != 1 {
		t.Fatalf("Expected 1 trade, got %d", len(trades))
	}
	if trades[0].ExitReason != domain.ExitReasonGameEnd {
		t.Errorf("ExitReason = %s, want GAME_END (forced closure)", trades[0].ExitReason)
	}
	if trades[0].ExitTimeMs != 180000 {
		t.Errorf("ExitTimeMs = %d, want 180000", trades[0].ExitTimeMs)
	}
}

func TestSimulate_ForcedCloseAtGameEnd(t *testing.T) {
	points := []*domain.AlignedPoint{
		pt(0, 0.60, 50), // enter long, divergence never reverts
		pt(120000, 0.65, 52),
		pt(240000, 0.70, 55),
	}

	trades := Simulate("g1", points, baseConfig())
	if len(trades) != 1 {
		t.Fatalf("Expected 1 trade, got %d", len(trades))
	}
	if trades[0].ExitReason != domain.ExitReasonGameEnd {
		t.Errorf("ExitReason = %s, want GAME_END", trades[0].ExitReason)
	}
	if trades[0].ExitMarketCents != 55 {
		t.Errorf("ExitMarketCents = %f, want 55 (last observed price)", trades[0].ExitMarketCents)
	}
}

func TestSimulate_NeverCrossesThreshold(t *testing.T) {
	points := []*domain.AlignedPoint{
		pt(0, 0.51, 50),
		pt(60000, 0.52, 51),
		pt(120000, 0.50, 50),
	}

	trades := Simulate("g1", points, baseConfig())
	if len(trades) != 0 {
		t.Errorf("Expected 0 trades, got %d", len(trades))
	}
}

func TestSimulate_EmptySeries(t *testing.T) {
	if trades := Simulate("g1", nil, baseConfig()); len(trades) != 0 {
		t.Errorf("Expected 0 trades for empty series, got %d", len(trades))
	}
}

func TestSimulate_ExclusionWindows(t *testing.T) {
	cfg := baseConfig()
	cfg.ExcludeFirstSeconds = 360
	cfg.ExcludeLastSeconds = 120

	// The only entry-triggering divergence sits inside the warm-up window.
	points := []*domain.AlignedPoint{
		pt(0, 0.70, 50), // excluded: first 360s
		pt(100000, 0.65, 55),
		pt(400000, 0.51, 50),
		pt(500000, 0.52, 51),
		pt(600000, 0.52, 51), // excluded: last 120s
	}

	trades := Simulate("g1", points, cfg)
	if len(trades) != 0 {
		t.Errorf("Expected 0 trades, got %d", len(trades))
	}
}

func TestSimulate_EverythingExcluded(t *testing.T) {
	cfg := baseConfig()
	cfg.ExcludeFirstSeconds = 600
	cfg.ExcludeLastSeconds = 600

	// Series shorter than the combined windows: zero points survive,
	// which is a valid zero-trade game, not an error.
	points := []*domain.AlignedPoint{
		pt(0, 0.70, 50),
		pt(60000, 0.70, 50),
	}

	trades := Simulate("g1", points, cfg)
	if len(trades) != 0 {
		t.Errorf("Expected 0 trades, got %d", len(trades))
	}
}

func TestSimulate_SkipsAbsentQuotes(t *testing.T) {
	noQuote := pt(0, 0.70, 50)
	noQuote.QuotePresent = false

	points := []*domain.AlignedPoint{
		noQuote, // would enter long if the quote were tradable
		pt(60000, 0.51, 50),
		pt(120000, 0.51, 50),
	}

	trades := Simulate("g1", points, baseConfig())
	if len(trades) != 0 {
		t.Errorf("Expected 0 trades, got %d", len(trades))
	}
}

func TestSimulate_FeesReduceProfit(t *testing.T) {
	cfg := baseConfig()
	cfg.FeeRate = 0.01

	points := []*domain.AlignedPoint{
		pt(0, 0.60, 50),
		pt(120000, 0.55, 54),
		pt(180000, 0.55, 55),
	}

	trades := Simulate("g1", points, cfg)
	if len(trades) != 1 {
		t.Fatalf("Expected 1 trade, got %d", len(trades))
	}

	// Entry notional 200*50=10000 -> 100c fee; exit notional 200*54=10800 -> 108c.
	tr := trades[0]
	if tr.FeeCents != 208 {
		t.Errorf("FeeCents = %d, want 208", tr.FeeCents)
	}
	if tr.NetProfitCents != 800-208 {
		t.Errorf("NetProfitCents = %d, want %d", tr.NetProfitCents, 800-208)
	}
}

func TestSimulate_SlippageWorsensFills(t *testing.T) {
	cfg := baseConfig()
	cfg.SlippageRate = 0.02

	points := []*domain.AlignedPoint{
		pt(0, 0.60, 50),
		pt(120000, 0.55, 54),
		pt(180000, 0.55, 55),
	}

	trades := Simulate("g1", points, cfg)
	if len(trades) != 1 {
		t.Fatalf("Expected 1 trade, got %d", len(trades))
	}

	// Entry fills at 51, exit at 52.92: (10000/51)*(52.92-51) rounds to 376.
	if trades[0].NetProfitCents != 376 {
		t.Errorf("NetProfitCents = %d, want 376", trades[0].NetProfitCents)
	}
}

func TestSimulate_PositionPairingInvariant(t *testing.T) {
	// Two full round trips; every entry must pair with exactly one exit
	// and trades must not overlap.
	points := []*domain.AlignedPoint{
		pt(0, 0.60, 50),      // enter long
		pt(120000, 0.55, 54), // exit
		pt(240000, 0.40, 50), // enter short
		pt(360000, 0.44, 45), // exit
		pt(420000, 0.44, 45),
	}

	trades := Simulate("g1", points, baseConfig())
	if len(trades) != 2 {
		t.Fatalf("Expected 2 trades, got %d", len(trades))
	}

	for i, tr := range trades {
		if tr.EntryTimeMs >= tr.ExitTimeMs {
			t.Errorf("trade %d: entry %d not before exit %d", i, tr.EntryTimeMs, tr.ExitTimeMs)
		}
		if tr.Side == domain.PositionFlat {
			t.Errorf("trade %d: FLAT side on a closed trade", i)
		}
	}
	if trades[0].ExitTimeMs > trades[1].EntryTimeMs {
		t.Errorf("overlapping positions: first exits at %d, second enters at %d",
			trades[0].ExitTimeMs, trades[1].EntryTimeMs)
	}
}
