package memory

import (
	"context"
	"sort"
	"sync"

	"hoops-edge-lab/internal/domain"
	"hoops-edge-lab/internal/storage"
)

// AlignedPointStore is an in-memory implementation of storage.AlignedPointStore.
type AlignedPointStore struct {
	mu   sync.RWMutex
	data map[string][]*domain.AlignedPoint // keyed by game_id, kept sorted by timestamp
}

// NewAlignedPointStore creates a new in-memory aligned point store.
func NewAlignedPointStore() *AlignedPointStore {
	return &AlignedPointStore{
		data: make(map[string][]*domain.AlignedPoint),
	}
}

// InsertBulk adds multiple points. Fails entire batch on duplicate
// (game_id, timestamp_ms).
func (s *AlignedPointStore) InsertBulk(_ context.Context, points []*domain.AlignedPoint) error {
	if len(points) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	type key struct {
		gameID      string
		timestampMs int64
	}

	// First pass: validate and detect duplicates (existing + intra-batch).
	batchKeys := make(map[key]struct{}, len(points))
	for _, p := range points {
		if p == nil || p.GameID == "" {
			return storage.ErrInvalidInput
		}
		k := key{p.GameID, p.TimestampMs}
		if _, exists := batchKeys[k]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[k] = struct{}{}

		for _, existing := range s.data[p.GameID] {
			if existing.TimestampMs == p.TimestampMs {
				return storage.ErrDuplicateKey
			}
		}
	}

	// Second pass: insert all and restore timestamp order.
	touched := make(map[string]struct{})
	for _, p := range points {
		copy := *p
		s.data[p.GameID] = append(s.data[p.GameID], &copy)
		touched[p.GameID] = struct{}{}
	}
	for gameID := range touched {
		pts := s.data[gameID]
		sort.Slice(pts, func(i, j int) bool {
			return pts[i].TimestampMs < pts[j].TimestampMs
		})
	}

	return nil
}

// GetByGameID retrieves all points for a game, ordered by timestamp ASC.
func (s *AlignedPointStore) GetByGameID(_ context.Context, gameID string) ([]*domain.AlignedPoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pts := s.data[gameID]
	result := make([]*domain.AlignedPoint, len(pts))
	for i, p := range pts {
		copy := *p
		result[i] = &copy
	}
	return result, nil
}

var _ storage.AlignedPointStore = (*AlignedPointStore)(nil)
