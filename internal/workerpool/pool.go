package workerpool

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/naucourse/chooser/internal/logging"
	"golang.org/x/sync/semaphore"
)

var (
	// ErrPoolClosed is returned by Submit after Close has been called.
	ErrPoolClosed = errors.New("worker pool is closed")

	// ErrCancelled resolves a future whose task never started.
	ErrCancelled = errors.New("task cancelled before it started")

	// ErrTaskPanic wraps a panic recovered from a task.
	ErrTaskPanic = errors.New("task panicked")
)

// Task is one unit of work run on the pool.
type Task[T any] func(ctx context.Context) (T, error)

// Pool runs tasks with at most Workers of them executing at once. Submitted
// tasks wait in a FIFO queue and a single dispatcher hands out worker slots
// in submission order, so the pool holds at most Workers+1 goroutines however
// many tasks are queued. A Pool is safe for concurrent use by several
// coordinators.
type Pool struct {
	sem     *semaphore.Weighted
	workers int

	// ctx lives as long as the pool; Close cancels it only when its own
	// deadline passes with tasks still outstanding.
	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.RWMutex // Protects closed against concurrent Submit
	closed bool
	wg     sync.WaitGroup

	qmu      sync.Mutex
	qcond    *sync.Cond
	queue    []job
	draining bool          // Set by Close; the dispatcher exits once the queue is empty
	stopped  chan struct{} // Closed when the dispatcher exits

	running atomic.Int64
	queued  atomic.Int64
}

// job is a queued task with its type erased for the dispatcher.
type job struct {
	ctx   context.Context // The future's context; done once it is cancelled
	start func()          // Runs the task on a held slot, releasing it after
	fail  func()          // Resolves the future when no slot could be had
}

// New creates a pool from cfg and starts its dispatcher.
func New(cfg *Config) (*Pool, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid worker pool config: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &Pool{
		sem:     semaphore.NewWeighted(int64(cfg.Workers)),
		workers: cfg.Workers,
		ctx:     ctx,
		cancel:  cancel,
		stopped: make(chan struct{}),
	}
	p.qcond = sync.NewCond(&p.qmu)

	go p.dispatch()
	return p, nil
}

// Submit queues task and returns its future without blocking.
func Submit[T any](p *Pool, task Task[T]) (*Future[T], error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return nil, ErrPoolClosed
	}

	f := newFuture[T](p.ctx)
	j := job{
		ctx: f.ctx,
		start: func() {
			defer p.wg.Done()
			defer p.sem.Release(1)
			run(p, f, task)
		},
		fail: func() {
			defer p.wg.Done()
			// Either Cancel already resolved the future, or the pool was torn down.
			if f.state.CompareAndSwap(statePending, stateCancelled) {
				var zero T
				f.resolve(zero, ErrPoolClosed)
			}
		},
	}

	p.wg.Add(1)
	p.queued.Add(1)

	p.qmu.Lock()
	p.queue = append(p.queue, j)
	p.qmu.Unlock()
	p.qcond.Signal()

	return f, nil
}

// dispatch pops jobs in submission order and blocks on a worker slot for
// each. A job cancelled while it waits gives up its turn to the next one.
func (p *Pool) dispatch() {
	defer close(p.stopped)

	for {
		p.qmu.Lock()
		for len(p.queue) == 0 && !p.draining {
			p.qcond.Wait()
		}
		if len(p.queue) == 0 {
			p.qmu.Unlock()
			return
		}
		j := p.queue[0]
		p.queue[0] = job{}
		p.queue = p.queue[1:]
		p.qmu.Unlock()

		err := p.sem.Acquire(j.ctx, 1)
		p.queued.Add(-1)
		if err != nil {
			j.fail()
			continue
		}
		go j.start()
	}
}

// run executes task on a held slot unless the future was cancelled first.
func run[T any](p *Pool, f *Future[T], task Task[T]) {
	if !f.state.CompareAndSwap(statePending, stateRunning) {
		return
	}

	p.running.Add(1)
	val, err := execute(f.ctx, task)
	p.running.Add(-1)

	f.state.Store(stateDone)
	f.resolve(val, err)
}

// execute runs task, converting a panic into ErrTaskPanic so the slot is
// always released.
func execute[T any](ctx context.Context, task Task[T]) (val T, err error) {
	defer func() {
		if r := recover(); r != nil {
			logging.Error("Worker pool: task panicked: %v", r)
			var zero T
			val, err = zero, fmt.Errorf("%w: %v", ErrTaskPanic, r)
		}
	}()
	return task(ctx)
}

// Workers returns the configured concurrency.
func (p *Pool) Workers() int {
	return p.workers
}

// Running returns the number of tasks executing right now.
func (p *Pool) Running() int {
	return int(p.running.Load())
}

// Queued returns the number of tasks waiting for a worker slot, including
// the one the dispatcher is blocked on.
func (p *Pool) Queued() int {
	return int(p.queued.Load())
}

// Close stops accepting tasks and waits for every submitted task to resolve.
// When ctx ends first the remaining tasks are cancelled through their context
// and ctx.Err() is returned. Close is idempotent.
func (p *Pool) Close(ctx context.Context) error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()

	p.qmu.Lock()
	p.draining = true
	p.qmu.Unlock()
	p.qcond.Broadcast()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		<-p.stopped
		close(done)
	}()

	select {
	case <-done:
		p.cancel()
		logging.Debug("Worker pool: closed")
		return nil
	case <-ctx.Done():
		p.cancel()
		<-done
		logging.Warn("Worker pool: close deadline passed, outstanding tasks were cancelled")
		return ctx.Err()
	}
}
