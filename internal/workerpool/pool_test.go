package workerpool

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPool(t *testing.T, workers int) *Pool {
	t.Helper()
	p, err := New(&Config{Workers: workers})
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = p.Close(ctx)
	})
	return p
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		workers int
		wantErr bool
	}{
		{"default", DefaultConfig().Workers, false},
		{"minimum", MinWorkers, false},
		{"maximum", MaxWorkers, false},
		{"zero", 0, true},
		{"negative", -1, true},
		{"too many", MaxWorkers + 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := (&Config{Workers: tt.workers}).Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	_, err := New(&Config{Workers: 0})
	assert.Error(t, err)
}

func TestSubmitAwait(t *testing.T) {
	p := newTestPool(t, 2)

	f, err := Submit(p, func(ctx context.Context) (int, error) {
		return 42, nil
	})
	require.NoError(t, err)

	val, err := f.Await()
	require.NoError(t, err)
	assert.Equal(t, 42, val)

	select {
	case <-f.Done():
	default:
		t.Fatal("Done() not closed after Await returned")
	}
}

func TestSubmitPropagatesError(t *testing.T) {
	p := newTestPool(t, 1)
	boom := errors.New("boom")

	f, err := Submit(p, func(ctx context.Context) (string, error) {
		return "", boom
	})
	require.NoError(t, err)

	_, err = f.Await()
	assert.ErrorIs(t, err, boom)
}

func TestConcurrencyBound(t *testing.T) {
	const workers = 3
	p := newTestPool(t, workers)

	var current, peak atomic.Int64
	release := make(chan struct{})

	futures := make([]*Future[struct{}], 0, 10)
	for i := 0; i < 10; i++ {
		f, err := Submit(p, func(ctx context.Context) (struct{}, error) {
			n := current.Add(1)
			for {
				old := peak.Load()
				if n <= old || peak.CompareAndSwap(old, n) {
					break
				}
			}
			<-release
			current.Add(-1)
			return struct{}{}, nil
		})
		require.NoError(t, err)
		futures = append(futures, f)
	}

	require.Eventually(t, func() bool { return p.Running() == workers }, time.Second, time.Millisecond)
	assert.Equal(t, workers, p.Workers())
	close(release)

	for _, f := range futures {
		_, err := f.Await()
		require.NoError(t, err)
	}
	assert.LessOrEqual(t, peak.Load(), int64(workers))
	assert.Equal(t, 0, p.Running())
}

func TestStartOrderIsFIFO(t *testing.T) {
	p := newTestPool(t, 1)
	release := make(chan struct{})

	var mu sync.Mutex
	var order []int
	futures := make([]*Future[int], 0, 5)
	for i := 0; i < 5; i++ {
		f, err := Submit(p, func(ctx context.Context) (int, error) {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			if i == 0 {
				<-release
			}
			return i, nil
		})
		require.NoError(t, err)
		futures = append(futures, f)
	}
	close(release)

	for _, f := range futures {
		_, err := f.Await()
		require.NoError(t, err)
	}
	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
}

func TestQueuedTasksHoldNoGoroutines(t *testing.T) {
	const workers = 2
	p := newTestPool(t, workers)
	block := make(chan struct{})
	defer close(block)

	before := runtime.NumGoroutine()
	for i := 0; i < 200; i++ {
		_, err := Submit(p, func(ctx context.Context) (int, error) {
			<-block
			return 0, nil
		})
		require.NoError(t, err)
	}
	require.Eventually(t, func() bool { return p.Running() == workers }, time.Second, time.Millisecond)

	assert.Equal(t, 200-workers, p.Queued())
	assert.LessOrEqual(t, runtime.NumGoroutine()-before, workers+2)
}

func TestCancelBeforeStart(t *testing.T) {
	p := newTestPool(t, 1)
	block := make(chan struct{})

	first, err := Submit(p, func(ctx context.Context) (int, error) {
		<-block
		return 1, nil
	})
	require.NoError(t, err)
	require.Eventually(t, func() bool { return p.Running() == 1 }, time.Second, time.Millisecond)

	var ran atomic.Bool
	queued, err := Submit(p, func(ctx context.Context) (int, error) {
		ran.Store(true)
		return 2, nil
	})
	require.NoError(t, err)

	assert.True(t, queued.Cancel())
	assert.True(t, queued.Cancelled())
	assert.False(t, queued.Cancel(), "second cancel should report false")

	_, err = queued.Await()
	assert.ErrorIs(t, err, ErrCancelled)

	close(block)
	val, err := first.Await()
	require.NoError(t, err)
	assert.Equal(t, 1, val)
	assert.False(t, ran.Load(), "cancelled task must not run")
}

func TestCancelRunningIsNoop(t *testing.T) {
	p := newTestPool(t, 1)
	started := make(chan struct{})
	block := make(chan struct{})

	f, err := Submit(p, func(ctx context.Context) (string, error) {
		close(started)
		<-block
		return "done", nil
	})
	require.NoError(t, err)

	<-started
	assert.False(t, f.Cancel())
	close(block)

	val, err := f.Await()
	require.NoError(t, err)
	assert.Equal(t, "done", val)
	assert.False(t, f.Cancelled())
}

func TestCancelCompletedIsNoop(t *testing.T) {
	p := newTestPool(t, 1)

	f, err := Submit(p, func(ctx context.Context) (int, error) { return 7, nil })
	require.NoError(t, err)
	_, _ = f.Await()

	assert.False(t, f.Cancel())
	val, err := f.Await()
	require.NoError(t, err)
	assert.Equal(t, 7, val)
}

func TestPanicIsRecovered(t *testing.T) {
	p := newTestPool(t, 1)

	f, err := Submit(p, func(ctx context.Context) (int, error) {
		panic("kaboom")
	})
	require.NoError(t, err)

	_, err = f.Await()
	require.ErrorIs(t, err, ErrTaskPanic)
	assert.Contains(t, err.Error(), "kaboom")

	// The slot must be usable again.
	next, err := Submit(p, func(ctx context.Context) (int, error) { return 1, nil })
	require.NoError(t, err)
	val, err := next.Await()
	require.NoError(t, err)
	assert.Equal(t, 1, val)
}

func TestSubmitAfterClose(t *testing.T) {
	p, err := New(DefaultConfig())
	require.NoError(t, err)
	require.NoError(t, p.Close(context.Background()))

	_, err = Submit(p, func(ctx context.Context) (int, error) { return 0, nil })
	assert.ErrorIs(t, err, ErrPoolClosed)

	// Close is idempotent.
	assert.NoError(t, p.Close(context.Background()))
}

func TestCloseWaitsForTasks(t *testing.T) {
	p, err := New(&Config{Workers: 2})
	require.NoError(t, err)

	var finished atomic.Int64
	for i := 0; i < 5; i++ {
		_, err := Submit(p, func(ctx context.Context) (int, error) {
			time.Sleep(10 * time.Millisecond)
			finished.Add(1)
			return 0, nil
		})
		require.NoError(t, err)
	}

	require.NoError(t, p.Close(context.Background()))
	assert.Equal(t, int64(5), finished.Load())
}

func TestCloseDeadlineCancelsTasks(t *testing.T) {
	p, err := New(&Config{Workers: 1})
	require.NoError(t, err)

	running, err := Submit(p, func(ctx context.Context) (int, error) {
		<-ctx.Done()
		return 0, ctx.Err()
	})
	require.NoError(t, err)
	queued, err := Submit(p, func(ctx context.Context) (int, error) { return 1, nil })
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, p.Close(ctx), context.DeadlineExceeded)

	_, err = running.Await()
	assert.ErrorIs(t, err, context.Canceled)

	// The queued task either lost the race for the freed slot or ran.
	_, err = queued.Await()
	if err != nil {
		assert.ErrorIs(t, err, ErrPoolClosed)
	}
}

func TestConcurrentSubmitters(t *testing.T) {
	p := newTestPool(t, 4)

	var wg sync.WaitGroup
	var total atomic.Int64
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 25; i++ {
				f, err := Submit(p, func(ctx context.Context) (int, error) { return 1, nil })
				if !assert.NoError(t, err) {
					return
				}
				v, err := f.Await()
				if assert.NoError(t, err) {
					total.Add(int64(v))
				}
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(200), total.Load())
}

func TestResolved(t *testing.T) {
	boom := errors.New("boom")
	f := Resolved(0, boom)

	_, err := f.Await()
	assert.ErrorIs(t, err, boom)
	assert.False(t, f.Cancel())
}

func TestAwaitContext(t *testing.T) {
	p := newTestPool(t, 1)
	block := make(chan struct{})
	defer close(block)

	f, err := Submit(p, func(ctx context.Context) (int, error) {
		<-block
		return 0, nil
	})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = f.AwaitContext(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
