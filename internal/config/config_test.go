package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.HTTP.Addr != ":8080" {
		t.Errorf("HTTP.Addr = %q, want :8080", cfg.HTTP.Addr)
	}
	if cfg.Storage.Backend != "memory" {
		t.Errorf("Storage.Backend = %q, want memory", cfg.Storage.Backend)
	}
	if cfg.Sweep.Grid.EntryMin != 0.02 {
		t.Errorf("Sweep.Grid.EntryMin = %g, want 0.02", cfg.Sweep.Grid.EntryMin)
	}
	if cfg.Sweep.Ratios.Train != 0.70 {
		t.Errorf("Sweep.Ratios.Train = %g, want 0.70", cfg.Sweep.Ratios.Train)
	}
	if cfg.Sweep.Workers != 8 {
		t.Errorf("Sweep.Workers = %d, want 8", cfg.Sweep.Workers)
	}
}

func TestLoad_ExplicitMissingFileFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Expected an error for an explicit path that does not exist")
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
http:
  addr: ":9090"
storage:
  backend: clickhouse
sweep:
  season: "2025-26"
  top_n: 3
  grid:
    entry_min: 0.04
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.HTTP.Addr != ":9090" {
		t.Errorf("HTTP.Addr = %q, want :9090", cfg.HTTP.Addr)
	}
	if cfg.Storage.Backend != "clickhouse" {
		t.Errorf("Storage.Backend = %q, want clickhouse", cfg.Storage.Backend)
	}
	if cfg.Sweep.Season != "2025-26" {
		t.Errorf("Sweep.Season = %q, want 2025-26", cfg.Sweep.Season)
	}
	if cfg.Sweep.TopN != 3 {
		t.Errorf("Sweep.TopN = %d, want 3", cfg.Sweep.TopN)
	}
	if cfg.Sweep.Grid.EntryMin != 0.04 {
		t.Errorf("Sweep.Grid.EntryMin = %g, want 0.04", cfg.Sweep.Grid.EntryMin)
	}
	// Untouched keys keep their defaults.
	if cfg.Sweep.Grid.EntryMax != 0.10 {
		t.Errorf("Sweep.Grid.EntryMax = %g, want default 0.10", cfg.Sweep.Grid.EntryMax)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("HOOPS_HTTP_ADDR", ":7070")
	t.Setenv("HOOPS_SWEEP_TOP_N", "4")
	t.Setenv("HOOPS_SWEEP_SEASON", "2024-25")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.HTTP.Addr != ":7070" {
		t.Errorf("HTTP.Addr = %q, want :7070", cfg.HTTP.Addr)
	}
	if cfg.Sweep.TopN != 4 {
		t.Errorf("Sweep.TopN = %d, want 4", cfg.Sweep.TopN)
	}
	if cfg.Sweep.Season != "2024-25" {
		t.Errorf("Sweep.Season = %q, want 2024-25", cfg.Sweep.Season)
	}
}
