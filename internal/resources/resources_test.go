package resources

import (
	"runtime"
	"testing"
	"time"
)

type fixedPool struct{ workers, running, queued int }

func (p fixedPool) Workers() int { return p.workers }
func (p fixedPool) Running() int { return p.running }
func (p fixedPool) Queued() int  { return p.queued }

// TestGather tests the core snapshot fields
func TestGather(t *testing.T) {
	startTime := time.Now().Add(-time.Hour)

	snap := Gather(startTime, fixedPool{workers: 8, running: 3, queued: 5})

	if time.Since(snap.Timestamp) > time.Minute {
		t.Error("Gather().Timestamp should be recent")
	}

	diff := snap.Uptime - time.Since(startTime)
	if diff < 0 {
		diff = -diff
	}
	if diff > time.Second {
		t.Errorf("Uptime = %v, want about one hour", snap.Uptime)
	}

	if snap.CPUCores != runtime.NumCPU() {
		t.Errorf("CPUCores = %d, want %d", snap.CPUCores, runtime.NumCPU())
	}
	if snap.MemoryTotal == 0 {
		t.Error("MemoryTotal should be positive")
	}
	if snap.GoRoutines <= 0 {
		t.Errorf("GoRoutines = %d, should be positive", snap.GoRoutines)
	}
	if snap.GoMemSys == 0 {
		t.Error("GoMemSys should be positive")
	}

	want := PoolStats{Workers: 8, Running: 3, Queued: 5}
	if snap.Pool == nil || *snap.Pool != want {
		t.Errorf("Pool = %+v, want %+v", snap.Pool, want)
	}
}

// TestGatherWithoutPool tests that pool gauges are optional
func TestGatherWithoutPool(t *testing.T) {
	if snap := Gather(time.Now(), nil); snap.Pool != nil {
		t.Errorf("Pool = %+v, want nil", snap.Pool)
	}
}
