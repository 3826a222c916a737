package sweep

import (
	"context"
	"errors"
	"sync"

	"hoops-edge-lab/internal/domain"
	"hoops-edge-lab/internal/storage"
)

// seriesCache memoizes per-game aligned series for the duration of one
// run. Every combination replays the same games, so without it the
// store would be asked for each series once per combination.
//
// Load failures are memoized too: a game that failed once fails fast
// for every later combination instead of hammering the store.
type seriesCache struct {
	store storage.AlignedPointStore

	mu       sync.RWMutex
	series   map[string][]*domain.AlignedPoint
	failures map[string]error
}

var _ storage.AlignedPointStore = (*seriesCache)(nil)

func newSeriesCache(store storage.AlignedPointStore) *seriesCache {
	return &seriesCache{
		store:    store,
		series:   make(map[string][]*domain.AlignedPoint),
		failures: make(map[string]error),
	}
}

func (c *seriesCache) GetByGameID(ctx context.Context, gameID string) ([]*domain.AlignedPoint, error) {
	c.mu.RLock()
	points, ok := c.series[gameID]
	failure, failed := c.failures[gameID]
	c.mu.RUnlock()
	if ok {
		return points, nil
	}
	if failed {
		return nil, failure
	}

	points, err := c.store.GetByGameID(ctx, gameID)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		// Cancellation is about this caller, not the game; do not
		// poison the entry for the rest of the run.
		if !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
			c.failures[gameID] = err
		}
		return nil, err
	}
	// Two goroutines may race to load the same game; both results are
	// identical, last write wins.
	c.series[gameID] = points
	return points, nil
}

// InsertBulk only satisfies the store interface; the cache is read-only.
func (c *seriesCache) InsertBulk(ctx context.Context, points []*domain.AlignedPoint) error {
	return c.store.InsertBulk(ctx, points)
}
