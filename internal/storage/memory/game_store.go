package memory

import (
	"context"
	"sort"
	"sync"

	"hoops-edge-lab/internal/domain"
	"hoops-edge-lab/internal/storage"
)

// GameStore is an in-memory implementation of storage.GameStore.
type GameStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Game // keyed by game_id
}

// NewGameStore creates a new in-memory game store.
func NewGameStore() *GameStore {
	return &GameStore{
		data: make(map[string]*domain.Game),
	}
}

// Insert adds a new game. Returns ErrDuplicateKey if game_id exists.
func (s *GameStore) Insert(_ context.Context, g *domain.Game) error {
	if g == nil || g.GameID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[g.GameID]; exists {
		return storage.ErrDuplicateKey
	}

	copy := *g
	s.data[g.GameID] = &copy
	return nil
}

// GetByID retrieves a game by its ID. Returns ErrNotFound if not exists.
func (s *GameStore) GetByID(_ context.Context, gameID string) (*domain.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, exists := s.data[gameID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	copy := *g
	return &copy, nil
}

// ListIDsBySeason retrieves all game ids for a season, ordered by tipoff ASC
// then game_id ASC.
func (s *GameStore) ListIDsBySeason(_ context.Context, season string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var games []*domain.Game
	for _, g := range s.data {
		if g.Season == season {
			games = append(games, g)
		}
	}

	sort.Slice(games, func(i, j int) bool {
		if games[i].TipoffMs != games[j].TipoffMs {
			return games[i].TipoffMs < games[j].TipoffMs
		}
		return games[i].GameID < games[j].GameID
	})

	ids := make([]string, len(games))
	for i, g := range games {
		ids[i] = g.GameID
	}
	return ids, nil
}

var _ storage.GameStore = (*GameStore)(nil)
