// Package resultcache persists finished sweep results keyed by a content
// digest of everything that affects the numbers. Identical configuration
// always lands on the same key, so a repeated sweep is a lookup instead
// of hours of simulation.
package resultcache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"hoops-edge-lab/internal/domain"
)

// FormatVersion is folded into every cache key. Bump it whenever the
// evaluation algorithm changes so stale-format entries can never be
// served as current results.
const FormatVersion = 1

// keyInputs is the exact set of configuration that affects sweep output.
// Worker count is deliberately absent: parallelism changes wall time,
// never numbers.
type keyInputs struct {
	FormatVersion       int                `json:"format_version"`
	Season              string             `json:"season"`
	Grid                domain.GridConfig  `json:"grid"`
	BetSizeCents        int64              `json:"bet_size_cents"`
	FeeRate             float64            `json:"fee_rate"`
	SlippageRate        float64            `json:"slippage_rate"`
	ExcludeFirstSeconds int64              `json:"exclude_first_seconds"`
	ExcludeLastSeconds  int64              `json:"exclude_last_seconds"`
	MinHoldSeconds      int64              `json:"min_hold_seconds"`
	Ratios              domain.SplitRatios `json:"ratios"`
	SplitSeed           int64              `json:"split_seed"`
	TopN                int                `json:"top_n"`
	MinTradeCount       int                `json:"min_trade_count"`
	ModelRef            string             `json:"model_ref"`
}

// Key computes the cache key for a sweep configuration: SHA-256 over the
// sorted-key canonical JSON of the output-affecting inputs.
func Key(cfg domain.SweepConfig) (string, error) {
	inputs := keyInputs{
		FormatVersion:       FormatVersion,
		Season:              cfg.Season,
		Grid:                cfg.Grid,
		BetSizeCents:        cfg.BetSizeCents,
		FeeRate:             cfg.FeeRate,
		SlippageRate:        cfg.SlippageRate,
		ExcludeFirstSeconds: cfg.ExcludeFirstSeconds,
		ExcludeLastSeconds:  cfg.ExcludeLastSeconds,
		MinHoldSeconds:      cfg.MinHoldSeconds,
		Ratios:              cfg.Ratios,
		SplitSeed:           cfg.SplitSeed,
		TopN:                cfg.TopN,
		MinTradeCount:       cfg.MinTradeCount,
		ModelRef:            cfg.ModelRef,
	}

	canonical, err := canonicalJSON(inputs)
	if err != nil {
		return "", fmt.Errorf("canonicalize cache key inputs: %w", err)
	}

	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

// canonicalJSON re-marshals v through a generic map so keys serialize in
// sorted order regardless of struct field order.
func canonicalJSON(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var generic map[string]any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, err
	}
	return json.Marshal(generic)
}
