package domain

// RunStatus is the lifecycle state of a sweep run.
type RunStatus string

// Run statuses.
const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusError    RunStatus = "error"
)

// RunState is the authoritative record of one sweep run. It is created when
// the sweep starts, mutated only by the run's owner (workers report through
// the progress tracker, results merge under the runner's lock), read by
// status queries, and archived to the result cache on completion.
type RunState struct {
	RunID    string    `json:"run_id"`
	CacheKey string    `json:"cache_key"`
	Status   RunStatus `json:"status"`

	// Progress. Current counts simulated games and only ever grows.
	Current      int64  `json:"current"`
	Total        int64  `json:"total"`
	CurrentCombo string `json:"current_combo,omitempty"`

	StartedAtMs   int64 `json:"started_at_ms"`
	CompletedAtMs int64 `json:"completed_at_ms,omitempty"`

	Config         SweepConfig         `json:"config"`
	Results        []CombinationResult `json:"results,omitempty"`
	FinalSelection *Selection          `json:"final_selection,omitempty"`
	Error          string              `json:"error,omitempty"`
}

// ProgressSnapshot is the unit pushed to progress subscribers. Delivery is
// best-effort: late subscribers see only the latest snapshot, and snapshots
// produced with nobody attached are dropped.
type ProgressSnapshot struct {
	RunID        string    `json:"run_id"`
	Status       RunStatus `json:"status"`
	Current      int64     `json:"current"`
	Total        int64     `json:"total"`
	CurrentCombo string    `json:"current_combo,omitempty"`
}
