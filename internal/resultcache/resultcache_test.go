package resultcache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"hoops-edge-lab/internal/domain"
)

func TestKey_Stable(t *testing.T) {
	cfg := domain.DefaultSweepConfig()

	a, err := Key(cfg)
	if err != nil {
		t.Fatalf("Key failed: %v", err)
	}
	b, err := Key(cfg)
	if err != nil {
		t.Fatalf("Key failed: %v", err)
	}
	if a != b {
		t.Errorf("Same config produced different keys: %s vs %s", a, b)
	}
	if len(a) != 64 {
		t.Errorf("Key length = %d, want 64 hex chars", len(a))
	}
}

func TestKey_WorkerCountIrrelevant(t *testing.T) {
	cfg := domain.DefaultSweepConfig()
	a, _ := Key(cfg)

	cfg.Workers = 32
	b, _ := Key(cfg)
	if a != b {
		t.Error("Worker count changed the cache key; parallelism must not affect results identity")
	}
}

func TestKey_SensitiveToOutputAffectingConfig(t *testing.T) {
	base := domain.DefaultSweepConfig()
	baseKey, _ := Key(base)

	mutations := map[string]func(*domain.SweepConfig){
		"season":     func(c *domain.SweepConfig) { c.Season = "2024-25" },
		"grid":       func(c *domain.SweepConfig) { c.Grid.EntryMax += 0.01 },
		"fee rate":   func(c *domain.SweepConfig) { c.FeeRate = 0.02 },
		"split seed": func(c *domain.SweepConfig) { c.SplitSeed++ },
		"top n":      func(c *domain.SweepConfig) { c.TopN++ },
		"model ref":  func(c *domain.SweepConfig) { c.ModelRef = "v2" },
	}

	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			cfg := base
			mutate(&cfg)
			key, err := Key(cfg)
			if err != nil {
				t.Fatalf("Key failed: %v", err)
			}
			if key == baseKey {
				t.Errorf("Changing %s did not change the cache key", name)
			}
		})
	}
}

func TestCache_MemoryLayer(t *testing.T) {
	c := New("", nil) // no disk layer

	if _, ok := c.Get("missing"); ok {
		t.Error("Expected miss on empty cache")
	}

	state := &domain.RunState{RunID: "r1", Status: domain.RunStatusComplete, Total: 54}
	c.Put("k1", state)

	got, ok := c.Get("k1")
	if !ok {
		t.Fatal("Expected hit after Put")
	}
	if got.RunID != "r1" || got.Total != 54 {
		t.Errorf("Got %+v", got)
	}

	// The cache hands out copies, not aliases.
	got.Total = 99
	again, _ := c.Get("k1")
	if again.Total != 54 {
		t.Error("Mutating a returned state leaked into the cache")
	}
}

func TestCache_DiskRoundTrip(t *testing.T) {
	dir := t.TempDir()

	c := New(dir, nil)
	c.Put("k1", &domain.RunState{RunID: "r1", Status: domain.RunStatusComplete, Current: 54, Total: 54})
	c.Flush()

	// A fresh cache over the same directory sees the durable entry.
	c2 := New(dir, nil)
	got, ok := c2.Get("k1")
	if !ok {
		t.Fatal("Expected disk hit in fresh cache instance")
	}
	if got.RunID != "r1" || got.Current != 54 {
		t.Errorf("Got %+v", got)
	}
}

func TestCache_CorruptFileIsAMiss(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	c := New(dir, nil)
	if _, ok := c.Get("bad"); ok {
		t.Error("Corrupt entry served as a hit")
	}
}

func TestCache_UnwritableDirDegrades(t *testing.T) {
	// A cache dir that cannot be created must degrade silently, never
	// fail the run.
	c := New(filepath.Join(string(os.PathSeparator), "dev", "null", "nope"), nil)
	c.Put("k1", &domain.RunState{RunID: "r1"})
	c.Flush()

	// The memory layer still works.
	if _, ok := c.Get("k1"); !ok {
		t.Error("Memory layer lost the entry after a failed disk write")
	}
}

func TestCache_MemoryEntryExpires(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	c := New("", nil, WithTTL(time.Hour), withClock(func() time.Time { return now }))

	c.Put("k1", &domain.RunState{RunID: "r1"})
	if _, ok := c.Get("k1"); !ok {
		t.Fatal("Expected hit before expiry")
	}

	now = now.Add(2 * time.Hour)
	if _, ok := c.Get("k1"); ok {
		t.Error("Expired entry served as a hit")
	}
}

func TestCache_DiskEntryOutlivesMemoryTTL(t *testing.T) {
	dir := t.TempDir()
	now := time.Unix(1_700_000_000, 0)
	c := New(dir, nil, WithTTL(time.Hour), withClock(func() time.Time { return now }))

	c.Put("k1", &domain.RunState{RunID: "r1", Status: domain.RunStatusComplete})
	c.Flush()

	now = now.Add(48 * time.Hour)
	got, ok := c.Get("k1")
	if !ok {
		t.Fatal("Durable entry must survive memory expiry")
	}
	if got.RunID != "r1" {
		t.Errorf("Got %+v", got)
	}
}

func TestCache_PutOverwrites(t *testing.T) {
	c := New("", nil)
	c.Put("k1", &domain.RunState{RunID: "r1", Status: domain.RunStatusRunning})
	c.Put("k1", &domain.RunState{RunID: "r1", Status: domain.RunStatusComplete})

	got, _ := c.Get("k1")
	if got.Status != domain.RunStatusComplete {
		t.Errorf("Status = %s, want complete", got.Status)
	}
}
