// Package progress tracks sweep completion and pushes snapshots to
// subscribers. Workers report through per-worker Reporters that batch
// locally, so the shared counter lock is touched a few times per task
// instead of once per game.
package progress

// Reporter is the write side handed to a worker. Implementations batch
// internally; a Reporter is owned by one goroutine and is not safe for
// concurrent use.
type Reporter interface {
	// Advance records n completed units of work.
	Advance(n int)
	// SetLabel names the unit currently being worked on.
	SetLabel(label string)
	// Flush pushes any batched units to the shared tracker. Workers
	// call it when a task finishes so no units are stranded.
	Flush()
}

// NopReporter discards all progress. Useful for library callers that do
// not track progress, and in tests.
type NopReporter struct{}

func (NopReporter) Advance(int)     {}
func (NopReporter) SetLabel(string) {}
func (NopReporter) Flush()          {}

var _ Reporter = NopReporter{}
