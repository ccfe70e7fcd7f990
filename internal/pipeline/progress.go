package pipeline

import (
	"fmt"
	"strings"
	"sync"
)

// Progress is a snapshot of the running counts for one batch.
type Progress struct {
	Total     int
	Completed int
	Failed    int
	Skipped   int
}

// Done reports how many units have produced an outcome.
func (p Progress) Done() int {
	return p.Completed + p.Failed + p.Skipped
}

// Percent returns completion as 0–100. An empty batch reports 100.
func (p Progress) Percent() int {
	if p.Total == 0 {
		return 100
	}
	return p.Done() * 100 / p.Total
}

// Sink receives a progress snapshot and the outcome that produced it,
// synchronously after every outcome. Rendering is pluggable so the pipeline
// can be tested by asserting on emitted events rather than captured text.
type Sink func(p Progress, o Outcome)

// Aggregator collects per-unit outcomes from concurrent workers and maintains
// the running counts. Safe for concurrent use.
type Aggregator struct {
	mu       sync.Mutex
	progress Progress
	failedID []string
	sink     Sink
}

// NewAggregator creates an Aggregator for a batch of total units. sink may be
// nil when no rendering is wanted (tests).
func NewAggregator(total int, sink Sink) *Aggregator {
	return &Aggregator{
		progress: Progress{Total: total},
		sink:     sink,
	}
}

// Record folds one outcome into the running counts and invokes the sink.
// Holding the lock across the sink call keeps event order consistent with
// the counts it reports.
func (a *Aggregator) Record(o Outcome) {
	a.mu.Lock()
	defer a.mu.Unlock()

	switch o.Status {
	case StatusSuccess:
		a.progress.Completed++
	case StatusFailure:
		a.progress.Failed++
		a.failedID = append(a.failedID, o.ID)
	case StatusSkipped:
		a.progress.Skipped++
	}

	if a.sink != nil {
		a.sink(a.progress, o)
	}
}

// Summary returns the final batch result.
func (a *Aggregator) Summary() Summary {
	a.mu.Lock()
	defer a.mu.Unlock()

	failed := make([]string, len(a.failedID))
	copy(failed, a.failedID)

	return Summary{
		Total:     a.progress.Total,
		Completed: a.progress.Completed,
		Skipped:   a.progress.Skipped,
		FailedIDs: failed,
	}
}

// Summary is the end-of-run report for one batch.
type Summary struct {
	Total     int
	Completed int
	Skipped   int
	FailedIDs []string
}

// Err returns a BatchError enumerating every failed identifier, or nil when
// the batch fully succeeded. Callers map a non-nil error to a non-zero
// process exit.
func (s Summary) Err() error {
	if len(s.FailedIDs) == 0 {
		return nil
	}
	return &BatchError{FailedIDs: s.FailedIDs}
}

// BatchError is raised only after all units finish, when the failure set is
// non-empty.
type BatchError struct {
	FailedIDs []string
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("batch finished with %d failed upload(s): %s",
		len(e.FailedIDs), strings.Join(e.FailedIDs, ", "))
}
