package withdrawal

import (
	"context"
	"sync"
	"time"
)

// Report summarizes one batch as seen by a Tracker.
type Report struct {
	ID         string      `json:"id,omitempty"`
	Succeeded  []Result    `json:"succeeded"`
	Failed     []ErrorKind `json:"failed"`
	Finished   bool        `json:"finished"`
	StartedAt  time.Time   `json:"started_at"`
	FinishedAt time.Time   `json:"finished_at,omitempty"`
}

// Callbacks returns how many outcome callbacks the batch produced.
func (r Report) Callbacks() int {
	return len(r.Succeeded) + len(r.Failed)
}

// Tracker is a Listener that records everything it is told. Its reads are
// safe while the batch is still running.
type Tracker struct {
	mu     sync.RWMutex
	report Report
	done   chan struct{}
	once   sync.Once
}

// NewTracker creates a Tracker whose report starts now.
func NewTracker() *Tracker {
	return &Tracker{
		report: Report{
			Succeeded: []Result{},
			Failed:    []ErrorKind{},
			StartedAt: time.Now(),
		},
		done: make(chan struct{}),
	}
}

// SetID labels the report with the batch ID returned by Coordinator.Start.
func (t *Tracker) SetID(id string) {
	t.mu.Lock()
	t.report.ID = id
	t.mu.Unlock()
}

func (t *Tracker) OnSubmitSuccess(result *Result) {
	if result == nil {
		return
	}
	t.mu.Lock()
	t.report.Succeeded = append(t.report.Succeeded, *result)
	t.mu.Unlock()
}

func (t *Tracker) OnFailed(kind ErrorKind) {
	t.mu.Lock()
	t.report.Failed = append(t.report.Failed, kind)
	t.mu.Unlock()
}

func (t *Tracker) OnSubmitFinish() {
	t.mu.Lock()
	t.report.Finished = true
	t.report.FinishedAt = time.Now()
	t.mu.Unlock()

	t.once.Do(func() { close(t.done) })
}

// Done is closed when OnSubmitFinish arrives.
func (t *Tracker) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the batch finishes or ctx ends.
func (t *Tracker) Wait(ctx context.Context) error {
	select {
	case <-t.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Report returns a copy of the current report.
func (t *Tracker) Report() Report {
	t.mu.RLock()
	defer t.mu.RUnlock()

	r := t.report
	r.Succeeded = make([]Result, len(t.report.Succeeded))
	copy(r.Succeeded, t.report.Succeeded)
	r.Failed = make([]ErrorKind, len(t.report.Failed))
	copy(r.Failed, t.report.Failed)
	return r
}
