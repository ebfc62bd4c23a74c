// Package resources takes point-in-time snapshots of the withdrawal daemon's
// process: Go runtime counters, host memory and the worker pool gauges. The
// status endpoint reports a snapshot so an operator can see why a batch is
// slow without attaching a profiler.
package resources

import (
	"runtime"
	"time"

	"github.com/naucourse/chooser/internal/logging"
	"github.com/shirou/gopsutil/v3/mem"
)

// PoolGauge is the part of workerpool.Pool a snapshot reads.
type PoolGauge interface {
	Workers() int
	Running() int
	Queued() int
}

// PoolStats are the worker pool gauges at snapshot time.
type PoolStats struct {
	Workers int `json:"workers"` // Concurrency bound
	Running int `json:"running"` // Tasks executing now
	Queued  int `json:"queued"`  // Tasks waiting for a slot
}

// Snapshot is the resource profile of the daemon process.
type Snapshot struct {
	Timestamp time.Time     `json:"timestamp"`
	Uptime    time.Duration `json:"uptime"`

	CPUCores int `json:"cpuCores"`

	// Host memory in bytes
	MemoryTotal     uint64  `json:"memoryTotal"`
	MemoryUsed      uint64  `json:"memoryUsed"`
	MemoryAvailable uint64  `json:"memoryAvailable"`
	MemoryUsage     float64 `json:"memoryUsage"` // Percentage 0-100

	// Go runtime
	GoRoutines int     `json:"goRoutines"`
	GoMemAlloc uint64  `json:"goMemAlloc"`
	GoMemSys   uint64  `json:"goMemSys"`
	GoGCCycles uint32  `json:"goGcCycles"`
	GoGCPause  float64 `json:"goGcPause"` // Most recent pause in milliseconds

	Pool *PoolStats `json:"pool,omitempty"`
}

// Gather takes a snapshot. pool may be nil. Host memory falls back to the Go
// runtime's view when the OS query fails.
func Gather(startTime time.Time, pool PoolGauge) *Snapshot {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	virtualMem, err := mem.VirtualMemory()
	if err != nil {
		logging.Warn("Failed to get system memory stats: %v", err)
		virtualMem = &mem.VirtualMemoryStat{
			Total:     memStats.Sys,
			Used:      memStats.Alloc,
			Available: memStats.Sys - memStats.Alloc,
		}
	}

	snap := &Snapshot{
		Timestamp: time.Now(),
		Uptime:    time.Since(startTime),
		CPUCores:  runtime.NumCPU(),

		MemoryTotal:     virtualMem.Total,
		MemoryUsed:      virtualMem.Used,
		MemoryAvailable: virtualMem.Available,
		MemoryUsage:     virtualMem.UsedPercent,

		GoRoutines: runtime.NumGoroutine(),
		GoMemAlloc: memStats.Alloc,
		GoMemSys:   memStats.Sys,
		GoGCCycles: memStats.NumGC,
		GoGCPause:  float64(memStats.PauseNs[(memStats.NumGC+255)%256]) / 1e6,
	}

	if pool != nil {
		snap.Pool = &PoolStats{
			Workers: pool.Workers(),
			Running: pool.Running(),
			Queued:  pool.Queued(),
		}
	}

	logging.Debug("Gathered resources: goroutines=%d, heap=%dKB, pool=%+v",
		snap.GoRoutines, snap.GoMemAlloc/1024, snap.Pool)

	return snap
}
