package postgres

import (
	"context"
	"fmt"

	"hoops-edge-lab/internal/domain"
	"hoops-edge-lab/internal/storage"
)

// GameStore implements storage.GameStore using PostgreSQL.
type GameStore struct {
	pool *Pool
}

// NewGameStore creates a new GameStore.
func NewGameStore(pool *Pool) *GameStore {
	return &GameStore{pool: pool}
}

// Compile-time interface check.
var _ storage.GameStore = (*GameStore)(nil)

// Insert adds a new game. Returns ErrDuplicateKey if game_id exists.
func (s *GameStore) Insert(ctx context.Context, g *domain.Game) error {
	query := `
		INSERT INTO games (
			game_id, season, home_team, away_team, tipoff_ms, final_ms, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := s.pool.Exec(ctx, query,
		g.GameID, g.Season, g.HomeTeam, g.AwayTeam, g.TipoffMs, g.FinalMs, g.CreatedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert game: %w", err)
	}
	return nil
}

// GetByID retrieves a game by its ID. Returns ErrNotFound if not exists.
func (s *GameStore) GetByID(ctx context.Context, gameID string) (*domain.Game, error) {
	query := `
		SELECT game_id, season, home_team, away_team, tipoff_ms, final_ms, created_at
		FROM games
		WHERE game_id = $1
	`

	var g domain.Game
	err := s.pool.QueryRow(ctx, query, gameID).Scan(
		&g.GameID, &g.Season, &g.HomeTeam, &g.AwayTeam, &g.TipoffMs, &g.FinalMs, &g.CreatedAt,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get game by id: %w", err)
	}
	return &g, nil
}

// ListIDsBySeason retrieves all game ids for a season, ordered by tipoff ASC
// then game_id ASC.
func (s *GameStore) ListIDsBySeason(ctx context.Context, season string) ([]string, error) {
	query := `
		SELECT game_id
		FROM games
		WHERE season = $1
		ORDER BY tipoff_ms ASC, game_id ASC
	`

	rows, err := s.pool.Query(ctx, query, season)
	if err != nil {
		return nil, fmt.Errorf("list game ids by season: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan game id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate game ids: %w", err)
	}
	return ids, nil
}
