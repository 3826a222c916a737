package domain

// Game represents one basketball game eligible for backtesting.
// Corresponds to the games table in PostgreSQL.
type Game struct {
	GameID    string // PRIMARY KEY, external feed identifier
	Season    string // season label, e.g. "2023-24"
	HomeTeam  string
	AwayTeam  string
	TipoffMs  int64 // scheduled tipoff, Unix timestamp in milliseconds
	FinalMs   int64 // final whistle, Unix timestamp in milliseconds (0 if unknown)
	CreatedAt int64 // record creation timestamp (ms)
}
