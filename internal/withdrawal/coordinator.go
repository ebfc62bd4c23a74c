package withdrawal

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/naucourse/chooser/internal/course"
	"github.com/naucourse/chooser/internal/logging"
	"github.com/naucourse/chooser/internal/utils"
	"github.com/naucourse/chooser/internal/workerpool"
)

// Submitter performs a single withdrawal against the school server.
type Submitter interface {
	SubmitOne(ctx context.Context, unit Unit) (*Result, error)
}

// SubmitterFunc adapts a function to Submitter.
type SubmitterFunc func(ctx context.Context, unit Unit) (*Result, error)

func (f SubmitterFunc) SubmitOne(ctx context.Context, unit Unit) (*Result, error) {
	return f(ctx, unit)
}

// Stats is a point-in-time view of the Coordinator.
type Stats struct {
	BatchID    string `json:"batch_id,omitempty"`
	Active     bool   `json:"active"`
	Dispatched int    `json:"dispatched"`
	Completed  int    `json:"completed"`
	Abandoned  int    `json:"abandoned"`
}

// Coordinator runs one withdrawal batch at a time on a shared worker pool.
//
// Submit never blocks: a second batch is rejected while one is in flight.
// Cancel is cooperative and takes effect at the next group, course or
// drained result. The zero value is not usable; use NewCoordinator.
type Coordinator struct {
	pool      *workerpool.Pool
	submitter Submitter
	endpoint  string

	// submitting is held from an accepted Submit until the batch exits.
	submitting sync.Mutex

	// cancelRequested is cleared by whichever check observes it.
	cancelRequested atomic.Bool

	active     atomic.Bool
	dispatched atomic.Int64
	completed  atomic.Int64
	abandoned  atomic.Int64

	idMu    sync.RWMutex
	batchID string
}

// batch is the state of one accepted submission.
type batch struct {
	id       string
	plan     course.Plan
	listener guardedListener
	handles  []*workerpool.Future[*Result]

	// drained is the number of handles already awaited by the drain loop.
	drained int
}

// NewCoordinator creates a Coordinator that submits through submitter on pool.
func NewCoordinator(pool *workerpool.Pool, submitter Submitter, cfg *Config) (*Coordinator, error) {
	if pool == nil {
		return nil, errors.New("worker pool is required")
	}
	if submitter == nil {
		return nil, errors.New("submitter is required")
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid withdrawal config: %w", err)
	}

	return &Coordinator{
		pool:      pool,
		submitter: submitter,
		endpoint:  cfg.Endpoint,
	}, nil
}

// Submit starts plan in the background and reports whether it was accepted.
// It returns false without any callback when a batch is already in flight.
// A nil plan is accepted and answered synchronously with OnFailed(CourseList).
func (c *Coordinator) Submit(plan course.Plan, listener Listener) bool {
	_, ok := c.Start(plan, listener)
	return ok
}

// Start is Submit that also returns the ID assigned to an accepted batch.
// The ID is empty for a nil plan.
func (c *Coordinator) Start(plan course.Plan, listener Listener) (string, bool) {
	if !c.submitting.TryLock() {
		logging.Warn("Withdrawal batch rejected: another batch is in flight")
		return "", false
	}

	if plan == nil {
		c.submitting.Unlock()
		logging.Warn("Withdrawal batch has no course list")
		guardedListener{l: listener}.deliver(failureOutcome(CourseList))
		return "", true
	}

	id, err := utils.GenerateID()
	if err != nil {
		// Batches stay distinguishable in logs by their start time.
		id = fmt.Sprintf("%x", time.Now().UnixNano())
		logging.Warn("Batch ID generation failed, using timestamp: %v", err)
	}

	b := &batch{
		id:       id,
		plan:     plan,
		listener: guardedListener{l: listener},
		handles:  make([]*workerpool.Future[*Result], 0, plan.Len()),
	}
	b.listener.batchID = b.id

	c.cancelRequested.Store(false)
	c.dispatched.Store(0)
	c.completed.Store(0)
	c.abandoned.Store(0)
	c.setBatchID(b.id)
	c.active.Store(true)

	logging.Info("Batch %s: accepted %d withdrawal(s) in %d group(s)",
		logging.FormatBatchID(b.id), plan.Len(), len(plan))

	go c.run(b)
	return b.id, true
}

// Cancel asks the in-flight batch to stop. Units already running finish;
// queued ones are dropped without a callback.
func (c *Coordinator) Cancel() {
	c.cancelRequested.Store(true)
	logging.Debug("Withdrawal cancel requested")
}

// Busy reports whether a batch is in flight.
func (c *Coordinator) Busy() bool {
	return c.active.Load()
}

// Stats returns the counters of the current or most recent batch.
func (c *Coordinator) Stats() Stats {
	c.idMu.RLock()
	id := c.batchID
	c.idMu.RUnlock()

	return Stats{
		BatchID:    id,
		Active:     c.active.Load(),
		Dispatched: int(c.dispatched.Load()),
		Completed:  int(c.completed.Load()),
		Abandoned:  int(c.abandoned.Load()),
	}
}

func (c *Coordinator) setBatchID(id string) {
	c.idMu.Lock()
	c.batchID = id
	c.idMu.Unlock()
}

// stopRequested consumes a pending cancel request.
func (c *Coordinator) stopRequested() bool {
	return c.cancelRequested.CompareAndSwap(true, false)
}

func (c *Coordinator) run(b *batch) {
	defer c.finish(b)

	if !c.dispatch(b) {
		logging.Info("Batch %s: cancelled while dispatching after %d unit(s)",
			logging.FormatBatchID(b.id), len(b.handles))
	}
	if !c.drain(b) {
		logging.Info("Batch %s: cancelled after %d of %d result(s)",
			logging.FormatBatchID(b.id), b.drained, len(b.handles))
	}
}

// dispatch expands the plan into units and hands each to the pool. It
// returns false when a cancel request stopped the expansion.
func (c *Coordinator) dispatch(b *batch) bool {
	for _, group := range b.plan {
		if c.stopRequested() {
			return false
		}
		for _, sc := range group.Courses {
			if c.stopRequested() {
				return false
			}

			unit := NewUnit(group.Type, sc, c.endpoint)
			f, err := workerpool.Submit(c.pool, func(ctx context.Context) (*Result, error) {
				return c.submitter.SubmitOne(ctx, unit)
			})
			if err != nil {
				logging.Error("Batch %s: could not schedule %s: %v",
					logging.FormatBatchID(b.id), sc.Label(), err)
				f = workerpool.Resolved[*Result](nil, err)
			}

			b.handles = append(b.handles, f)
			c.dispatched.Add(1)
			logging.Debug("Batch %s: dispatched %s (%s)",
				logging.FormatBatchID(b.id), sc.Label(), group.Type.Name)
		}
	}
	return true
}

// drain awaits every handle in dispatch order and reports its outcome. It
// returns false when a cancel request stopped it early.
func (c *Coordinator) drain(b *batch) bool {
	total := int64(len(b.handles))

	for _, h := range b.handles {
		res, err := h.Await()
		b.drained++
		done := c.completed.Add(1)

		switch {
		case errors.Is(err, workerpool.ErrCancelled):
			logging.Debug("Batch %s: unit %d was cancelled before it ran",
				logging.FormatBatchID(b.id), b.drained)
		case err != nil:
			kind := classify(err)
			logging.Error("Batch %s: unit %d failed (%s): %v",
				logging.FormatBatchID(b.id), b.drained, kind, err)
			b.listener.deliver(failureOutcome(kind))
		case res == nil:
			logging.Error("Batch %s: unit %d returned no result",
				logging.FormatBatchID(b.id), b.drained)
			b.listener.deliver(failureOutcome(DataPost))
		default:
			b.listener.deliver(successOutcome(res))
		}

		if done >= total {
			return true
		}
		if c.stopRequested() {
			return false
		}
	}
	return true
}

// finish runs on every exit path: it settles leftover handles, releases the
// submission lock and then delivers OnSubmitFinish.
func (c *Coordinator) finish(b *batch) {
	if r := recover(); r != nil {
		logging.Error("Batch %s: orchestration panicked: %v", logging.FormatBatchID(b.id), r)
	}

	c.abandon(b)

	st := c.Stats()
	logging.Info("Batch %s: finished, %d dispatched, %d completed, %d abandoned",
		logging.FormatBatchID(b.id), st.Dispatched, st.Completed, st.Abandoned)

	c.active.Store(false)
	c.submitting.Unlock()

	b.listener.finish()
}

// abandon cancels the handles the drain loop never reached and waits for
// them so nothing from this batch is still running once it finishes.
func (c *Coordinator) abandon(b *batch) {
	rest := b.handles[b.drained:]
	if len(rest) == 0 {
		return
	}

	prevented := 0
	for _, h := range rest {
		if h.Cancel() {
			prevented++
		}
	}
	for _, h := range rest {
		_, _ = h.Await()
	}

	c.abandoned.Store(int64(len(rest)))
	logging.Debug("Batch %s: abandoned %d unit(s), %d never started",
		logging.FormatBatchID(b.id), len(rest), prevented)
}
