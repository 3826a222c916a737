package storage

import (
	"context"

	"hoops-edge-lab/internal/domain"
)

// GameStore provides access to games storage.
type GameStore interface {
	// Insert adds a new game. Returns ErrDuplicateKey if game_id exists.
	Insert(ctx context.Context, g *domain.Game) error

	// GetByID retrieves a game by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, gameID string) (*domain.Game, error)

	// ListIDsBySeason retrieves all game ids for a season, ordered by tipoff
	// time ASC then game_id ASC so the split input is deterministic.
	ListIDsBySeason(ctx context.Context, season string) ([]string, error)
}

// AlignedPointStore provides access to aligned_points storage. One sweep
// issues |combinations| x |games| lookups against this store, so
// implementations are expected to sit on a pooled connection shared by
// every worker.
type AlignedPointStore interface {
	// InsertBulk adds multiple points. Fails the entire batch on duplicate
	// (game_id, timestamp_ms).
	InsertBulk(ctx context.Context, points []*domain.AlignedPoint) error

	// GetByGameID retrieves all points for a game, ordered by timestamp ASC.
	// A game with no points returns an empty slice, not an error.
	GetByGameID(ctx context.Context, gameID string) ([]*domain.AlignedPoint, error)
}
