package domain

// SplitMetrics summarizes all trades a combination produced over one split.
// Ratio fields are nil when their denominator is zero.
type SplitMetrics struct {
	NumTrades        int      `json:"num_trades"`
	Wins             int      `json:"wins"`
	Losses           int      `json:"losses"`
	WinRate          *float64 `json:"win_rate"`           // wins / num_trades
	NetProfitCents   int64    `json:"net_profit_cents"`
	GrossProfitCents int64    `json:"gross_profit_cents"` // sum of winning trades
	GrossLossCents   int64    `json:"gross_loss_cents"`   // absolute sum of losing trades
	ProfitFactor     *float64 `json:"profit_factor"`      // gross profit / gross loss
	MaxDrawdownCents int64    `json:"max_drawdown_cents"` // worst peak-to-trough on cumulative profit
	GamesEvaluated   int      `json:"games_evaluated"`
	GamesSkipped     int      `json:"games_skipped"` // per-game errors, recorded and skipped
}

// NetProfitDollars converts the cent total at the presentation edge.
func (m *SplitMetrics) NetProfitDollars() float64 {
	return float64(m.NetProfitCents) / 100.0
}

// CombinationResult is the full train/valid/test outcome for one combination.
// Produced once per combination by a worker, merged under the run lock.
type CombinationResult struct {
	Combination Combination  `json:"combination"`
	Train       SplitMetrics `json:"train"`
	Valid       SplitMetrics `json:"valid"`
	Test        SplitMetrics `json:"test"`
}

// Selection is the reported best combination chosen by the two-stage
// train-then-validation rule. TestMetrics is nil when no held-out estimate
// exists; Degraded marks a fallback to train-only ranking.
type Selection struct {
	Combination  Combination   `json:"combination"`
	TrainMetrics SplitMetrics  `json:"train_metrics"`
	ValidMetrics *SplitMetrics `json:"valid_metrics,omitempty"`
	TestMetrics  *SplitMetrics `json:"test_metrics,omitempty"`
	Degraded     bool          `json:"degraded"`
}
