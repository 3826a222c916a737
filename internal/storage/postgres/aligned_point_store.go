package postgres

import (
	"context"
	"fmt"

	"hoops-edge-lab/internal/domain"
	"hoops-edge-lab/internal/storage"
)

// AlignedPointStore implements storage.AlignedPointStore using PostgreSQL.
// Used when ClickHouse is not deployed; the sweep engine only sees the
// interface.
type AlignedPointStore struct {
	pool *Pool
}

// NewAlignedPointStore creates a new AlignedPointStore.
func NewAlignedPointStore(pool *Pool) *AlignedPointStore {
	return &AlignedPointStore{pool: pool}
}

// Compile-time interface check.
var _ storage.AlignedPointStore = (*AlignedPointStore)(nil)

// InsertBulk adds multiple points atomically. Fails entire batch on any
// duplicate (game_id, timestamp_ms).
func (s *AlignedPointStore) InsertBulk(ctx context.Context, points []*domain.AlignedPoint) error {
	if len(points) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO aligned_points (
			game_id, timestamp_ms, model_prob, market_cents, quote_present
		) VALUES ($1, $2, $3, $4, $5)
	`

	for _, p := range points {
		_, err := tx.Exec(ctx, query,
			p.GameID, p.TimestampMs, p.ModelProb, p.MarketCents, p.QuotePresent,
		)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert aligned point in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// GetByGameID retrieves all points for a game, ordered by timestamp ASC.
func (s *AlignedPointStore) GetByGameID(ctx context.Context, gameID string) ([]*domain.AlignedPoint, error) {
	query := `
		SELECT game_id, timestamp_ms, model_prob, market_cents, quote_present
		FROM aligned_points
		WHERE game_id = $1
		ORDER BY timestamp_ms ASC
	`

	rows, err := s.pool.Query(ctx, query, gameID)
	if err != nil {
		return nil, fmt.Errorf("query aligned points by game id: %w", err)
	}
	defer rows.Close()

	var points []*domain.AlignedPoint
	for rows.Next() {
		var p domain.AlignedPoint
		if err := rows.Scan(&p.GameID, &p.TimestampMs, &p.ModelProb, &p.MarketCents, &p.QuotePresent); err != nil {
			return nil, fmt.Errorf("scan aligned point: %w", err)
		}
		points = append(points, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate aligned points: %w", err)
	}
	return points, nil
}
