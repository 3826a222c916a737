package domain

// PositionSide is the direction of an open position relative to the model.
type PositionSide string

// Position sides.
const (
	PositionFlat       PositionSide = "FLAT"
	PositionLongModel  PositionSide = "LONG_MODEL"  // model more bullish than market, buy the contract
	PositionShortModel PositionSide = "SHORT_MODEL" // model more bearish than market, sell the contract
)

// Exit reason codes.
const (
	ExitReasonThreshold = "THRESHOLD_EXIT"
	ExitReasonGameEnd   = "GAME_END" // forced closure at the last aligned point
)

// Trade is one closed round trip produced by a simulation run.
// Immutable once created; a trade exists only for closed positions, so every
// entry has exactly one matching exit.
type Trade struct {
	GameID string
	Side   PositionSide // LONG_MODEL or SHORT_MODEL, never FLAT

	EntryTimeMs     int64
	ExitTimeMs      int64
	EntryModelProb  float64
	EntryMarketCents float64
	ExitModelProb   float64
	ExitMarketCents float64

	BetCents       int64 // stake committed at entry
	Contracts      float64
	FeeCents       int64 // total fees across both fills
	NetProfitCents int64 // after fees and slippage
	ExitReason     string
}
