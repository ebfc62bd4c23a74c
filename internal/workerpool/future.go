package workerpool

import (
	"context"
	"sync/atomic"
)

// Future states. A future moves pending -> running -> done, or
// pending -> cancelled; the transitions are CAS guarded so exactly one party
// resolves it.
const (
	statePending int32 = iota
	stateRunning
	stateDone
	stateCancelled
)

// Future is the handle for one submitted task.
type Future[T any] struct {
	state atomic.Int32
	done  chan struct{}

	val T
	err error

	// ctx is handed to the task; cancel also unblocks a queued task.
	ctx    context.Context
	cancel context.CancelFunc
}

func newFuture[T any](parent context.Context) *Future[T] {
	ctx, cancel := context.WithCancel(parent)
	return &Future[T]{
		done:   make(chan struct{}),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Resolved returns a future that is already complete with val and err. Used
// where a task could not be scheduled but the caller still expects a handle.
func Resolved[T any](val T, err error) *Future[T] {
	f := &Future[T]{done: make(chan struct{}), cancel: func() {}}
	f.state.Store(stateDone)
	f.val, f.err = val, err
	close(f.done)
	return f
}

// resolve publishes the outcome. Callers must own the final state transition.
func (f *Future[T]) resolve(val T, err error) {
	f.val, f.err = val, err
	f.cancel()
	close(f.done)
}

// Await blocks until the task resolves and returns its outcome. A future
// cancelled before it started returns ErrCancelled.
func (f *Future[T]) Await() (T, error) {
	<-f.done
	return f.val, f.err
}

// AwaitContext is Await bounded by ctx. The task keeps running when ctx ends.
func (f *Future[T]) AwaitContext(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Done is closed once the future resolves.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Cancel prevents the task from running if it has not started yet and
// reports whether it did. A task that is already running is left alone.
func (f *Future[T]) Cancel() bool {
	if !f.state.CompareAndSwap(statePending, stateCancelled) {
		return false
	}
	var zero T
	f.resolve(zero, ErrCancelled)
	return true
}

// Cancelled reports whether Cancel stopped the task before it ran.
func (f *Future[T]) Cancelled() bool {
	return f.state.Load() == stateCancelled
}
