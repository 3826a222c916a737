package domain

// SplitRatios divides a season's games between train, valid and test.
// Must sum to 1.0 within tolerance.
type SplitRatios struct {
	Train float64 `json:"train"`
	Valid float64 `json:"valid"`
	Test  float64 `json:"test"`
}

// SweepConfig carries every input that affects a sweep's numeric output,
// plus execution knobs (worker count) that do not. The cache key is derived
// from the output-affecting subset; see resultcache.Key.
type SweepConfig struct {
	Season string     `json:"season"`
	Grid   GridConfig `json:"grid"`

	// Economics
	BetSizeCents int64   `json:"bet_size_cents"`
	FeeRate      float64 `json:"fee_rate"`      // fraction of fill notional, both sides
	SlippageRate float64 `json:"slippage_rate"` // symmetric on entry and exit fills

	// Simulation windows
	ExcludeFirstSeconds int64 `json:"exclude_first_seconds"`
	ExcludeLastSeconds  int64 `json:"exclude_last_seconds"`
	MinHoldSeconds      int64 `json:"min_hold_seconds"`

	// Partitioning
	Ratios    SplitRatios `json:"ratios"`
	SplitSeed int64       `json:"split_seed"`

	// Selection policy
	TopN          int `json:"top_n"`
	MinTradeCount int `json:"min_trade_count"`

	// Optional scoring-model identity; part of the cache key because a
	// different model produces different aligned series.
	ModelRef string `json:"model_ref,omitempty"`

	// Execution only, excluded from the cache key.
	Workers int `json:"workers"`
}

// DefaultSweepConfig returns the baseline configuration used by the CLIs.
func DefaultSweepConfig() SweepConfig {
	return SweepConfig{
		Grid: GridConfig{
			EntryMin:  0.02,
			EntryMax:  0.10,
			EntryStep: 0.01,
			ExitMin:   0.00,
			ExitMax:   0.02,
			ExitStep:  0.005,
		},
		BetSizeCents:        10000, // $100 stake per trade
		ExcludeFirstSeconds: 360,
		ExcludeLastSeconds:  120,
		MinHoldSeconds:      60,
		Ratios:              SplitRatios{Train: 0.70, Valid: 0.15, Test: 0.15},
		SplitSeed:           42,
		TopN:                10,
		MinTradeCount:       5,
		Workers:             8,
	}
}
