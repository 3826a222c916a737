package clickhouse

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"hoops-edge-lab/internal/domain"
	"hoops-edge-lab/internal/storage"
)

// AlignedPointStore implements storage.AlignedPointStore using ClickHouse.
// Aligned series are high-volume append-only data, which is what the
// MergeTree engine is for.
type AlignedPointStore struct {
	conn *Conn
}

// NewAlignedPointStore creates a new AlignedPointStore.
func NewAlignedPointStore(conn *Conn) *AlignedPointStore {
	return &AlignedPointStore{conn: conn}
}

// Compile-time interface check.
var _ storage.AlignedPointStore = (*AlignedPointStore)(nil)

// InsertBulk adds multiple points. Fails entire batch on duplicate
// (game_id, timestamp_ms). MergeTree does not enforce uniqueness, so
// duplicates are checked explicitly before the batch is sent.
func (s *AlignedPointStore) InsertBulk(ctx context.Context, points []*domain.AlignedPoint) error {
	if len(points) == 0 {
		return nil
	}

	// Check for intra-batch duplicates
	type key struct {
		gameID      string
		timestampMs int64
	}
	seen := make(map[key]struct{})
	for _, p := range points {
		k := key{p.GameID, p.TimestampMs}
		if _, exists := seen[k]; exists {
			return storage.ErrDuplicateKey
		}
		seen[k] = struct{}{}
	}

	// Check for duplicates against existing rows
	for _, p := range points {
		exists, err := s.exists(ctx, p.GameID, p.TimestampMs)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO aligned_points (
			game_id, timestamp_ms, model_prob, market_cents, quote_present
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, p := range points {
		err = batch.Append(
			p.GameID, uint64(p.TimestampMs), p.ModelProb, p.MarketCents, p.QuotePresent,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByGameID retrieves all points for a game, ordered by timestamp ASC.
func (s *AlignedPointStore) GetByGameID(ctx context.Context, gameID string) ([]*domain.AlignedPoint, error) {
	query := `
		SELECT game_id, timestamp_ms, model_prob, market_cents, quote_present
		FROM aligned_points
		WHERE game_id = ?
		ORDER BY timestamp_ms ASC
	`

	rows, err := s.conn.Query(ctx, query, gameID)
	if err != nil {
		return nil, fmt.Errorf("query aligned points by game id: %w", err)
	}
	defer rows.Close()

	return scanAlignedPoints(rows)
}

// exists checks if a point with the given key exists.
func (s *AlignedPointStore) exists(ctx context.Context, gameID string, timestampMs int64) (bool, error) {
	query := `
		SELECT count(*) FROM aligned_points
		WHERE game_id = ? AND timestamp_ms = ?
	`

	var count uint64
	if err := s.conn.QueryRow(ctx, query, gameID, uint64(timestampMs)).Scan(&count); err != nil {
		return false, fmt.Errorf("count aligned points: %w", err)
	}
	return count > 0, nil
}

// scanAlignedPoints reads all rows into domain points.
func scanAlignedPoints(rows driver.Rows) ([]*domain.AlignedPoint, error) {
	var points []*domain.AlignedPoint
	for rows.Next() {
		var (
			p           domain.AlignedPoint
			timestampMs uint64
		)
		if err := rows.Scan(&p.GameID, &timestampMs, &p.ModelProb, &p.MarketCents, &p.QuotePresent); err != nil {
			return nil, fmt.Errorf("scan aligned point: %w", err)
		}
		p.TimestampMs = int64(timestampMs)
		points = append(points, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate aligned points: %w", err)
	}
	return points, nil
}
