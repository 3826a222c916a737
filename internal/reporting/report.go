package reporting

import "time"

// Report is the human-facing summary of one finished sweep.
type Report struct {
	// Metadata
	GeneratedAt time.Time
	RunID       string
	Season      string
	Degraded    bool

	// Dataset
	TotalGames   int
	TrainGames   int
	ValidGames   int
	TestGames    int
	Combinations int

	// Selection outcome
	Selection SelectionRow

	// Per-combination metrics (sorted by combination key)
	Rows []CombinationRow
}

// SelectionRow summarizes the chosen combination across splits.
type SelectionRow struct {
	EntryThreshold float64
	ExitThreshold  float64

	TrainNetProfit float64 // dollars
	ValidNetProfit *float64
	TestNetProfit  *float64
	TestWinRate    *float64
	TestNumTrades  *int
}

// CombinationRow is one row of the full metrics table.
type CombinationRow struct {
	EntryThreshold float64
	ExitThreshold  float64

	TrainTrades    int
	TrainWinRate   *float64
	TrainNetProfit float64 // dollars
	TrainDrawdown  float64 // dollars

	ValidTrades    int
	ValidNetProfit float64

	TestTrades    int
	TestNetProfit float64
}
