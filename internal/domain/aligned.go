package domain

// AlignedPoint is one sample of the model estimate matched against the
// market quote for the same game clock moment. Alignment happens upstream
// (nearest-neighbor within a fixed window); this system only consumes the
// result. Corresponds to the aligned_points table in ClickHouse.
//
// Sequences are ordered by TimestampMs, strictly increasing within a game.
type AlignedPoint struct {
	GameID       string
	TimestampMs  int64   // Unix timestamp in milliseconds
	ModelProb    float64 // model home-win probability, [0,1]
	MarketCents  float64 // market contract price in cents, [0,100]
	QuotePresent bool    // false when the market side was interpolated/carried
}

// Divergence is the signed gap between the model probability and the
// market-implied probability at this point.
func (p *AlignedPoint) Divergence() float64 {
	return p.ModelProb - p.MarketCents/100.0
}
