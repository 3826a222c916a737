package resultcache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"hoops-edge-lab/internal/domain"
)

// defaultMemTTL bounds how long the in-process layer serves an entry
// before falling back to disk or recompute.
const defaultMemTTL = 24 * time.Hour

// Cache layers three sources per key: durable result files on disk, an
// in-process map, then recompute. Disk wins because result files retain
// full per-split detail even when a derived field was added later.
//
// Writes never fail the caller: a broken disk degrades the cache to
// "recompute next time".
type Cache struct {
	dir    string
	logger *zap.Logger
	memTTL time.Duration
	now    func() time.Time

	mu  sync.RWMutex
	mem map[string]memEntry

	// pending tracks in-flight background writes so Flush can wait for
	// them, mainly in tests and at shutdown.
	pending sync.WaitGroup
}

type memEntry struct {
	state    *domain.RunState
	storedAt time.Time
}

// Option adjusts cache construction.
type Option func(*Cache)

// WithTTL overrides the in-process entry lifetime. Zero or negative
// disables expiry. Disk files never expire; they are the durable record
// and version bumps invalidate them through the cache key.
func WithTTL(d time.Duration) Option {
	return func(c *Cache) { c.memTTL = d }
}

func withClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// New creates a cache rooted at dir. An empty dir disables the disk
// layer, leaving a process-local cache.
func New(dir string, logger *zap.Logger, opts ...Option) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Cache{
		dir:    dir,
		logger: logger,
		memTTL: defaultMemTTL,
		now:    time.Now,
		mem:    make(map[string]memEntry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get looks key up, disk first. A corrupt or unreadable file is treated
// as a miss, not an error, and so is an expired in-process entry.
func (c *Cache) Get(key string) (*domain.RunState, bool) {
	if state, ok := c.readFile(key); ok {
		return state, true
	}

	c.mu.RLock()
	entry, ok := c.mem[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if c.memTTL > 0 && c.now().Sub(entry.storedAt) > c.memTTL {
		c.mu.Lock()
		// Re-check: a concurrent Put may have refreshed the entry.
		if cur, ok := c.mem[key]; ok && c.now().Sub(cur.storedAt) > c.memTTL {
			delete(c.mem, key)
		}
		c.mu.Unlock()
		return nil, false
	}
	cp := *entry.state
	return &cp, true
}

// Put stores the finished state in memory synchronously and schedules
// the durable write in the background.
func (c *Cache) Put(key string, state *domain.RunState) {
	cp := *state
	c.mu.Lock()
	c.mem[key] = memEntry{state: &cp, storedAt: c.now()}
	c.mu.Unlock()

	if c.dir == "" {
		return
	}
	c.pending.Add(1)
	go func() {
		defer c.pending.Done()
		if err := c.writeFile(key, &cp); err != nil {
			c.logger.Warn("result cache write failed",
				zap.String("key", key),
				zap.Error(err))
		}
	}()
}

// Flush blocks until all background writes have settled.
func (c *Cache) Flush() {
	c.pending.Wait()
}

func (c *Cache) path(key string) string {
	return filepath.Join(c.dir, key+".json")
}

func (c *Cache) readFile(key string) (*domain.RunState, bool) {
	if c.dir == "" {
		return nil, false
	}

	raw, err := os.ReadFile(c.path(key))
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			c.logger.Warn("result cache read failed",
				zap.String("key", key),
				zap.Error(err))
		}
		return nil, false
	}

	var state domain.RunState
	if err := json.Unmarshal(raw, &state); err != nil {
		c.logger.Warn("result cache entry corrupt, ignoring",
			zap.String("key", key),
			zap.Error(err))
		return nil, false
	}
	return &state, true
}

// writeFile writes via a temp file and rename so readers never observe a
// partially written entry.
func (c *Cache) writeFile(key string, state *domain.RunState) error {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	raw, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal run state: %w", err)
	}

	tmp, err := os.CreateTemp(c.dir, key+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), c.path(key)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}
