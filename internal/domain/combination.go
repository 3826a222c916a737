package domain

import "fmt"

// Combination is one (entry_threshold, exit_threshold) pair under evaluation.
// Entry opens a position when |divergence| reaches EntryThreshold; exit closes
// it when |divergence| falls back to ExitThreshold or below.
type Combination struct {
	EntryThreshold float64 `json:"entry_threshold"`
	ExitThreshold  float64 `json:"exit_threshold"`
}

// Key returns a stable identifier used for result merging and progress labels.
// Four decimals is finer than any grid step in practice.
func (c Combination) Key() string {
	return fmt.Sprintf("entry=%.4f exit=%.4f", c.EntryThreshold, c.ExitThreshold)
}

// GridConfig defines the threshold ranges swept by a run.
type GridConfig struct {
	EntryMin  float64 `json:"entry_min"`
	EntryMax  float64 `json:"entry_max"`
	EntryStep float64 `json:"entry_step"`
	ExitMin   float64 `json:"exit_min"`
	ExitMax   float64 `json:"exit_max"`
	ExitStep  float64 `json:"exit_step"`
}
