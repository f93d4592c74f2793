package monitor

import (
	"runtime"
	"time"
)

// RuntimeStats describes the host process
type RuntimeStats struct {
	Timestamp  int64       `json:"timestamp"`
	Memory     MemoryStats `json:"memory"`
	CPU        CPUStats    `json:"cpu"`
	Goroutines int         `json:"goroutines"`
	Uptime     float64     `json:"uptime_seconds"`
}

// MemoryStats represents memory usage
type MemoryStats struct {
	Allocated    uint64  `json:"allocated_bytes"`
	Total        uint64  `json:"total_bytes"`
	System       uint64  `json:"system_bytes"`
	GCPauseMS    uint64  `json:"gc_pause_ms"`
	NumGC        uint32  `json:"num_gc"`
	UsagePercent float64 `json:"usage_percent"`
}

// CPUStats represents CPU capacity
type CPUStats struct {
	Cores   int `json:"cores"`
	Threads int `json:"threads"`
}

var started = time.Now()

// Runtime reads the current process statistics
func Runtime() RuntimeStats {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	usage := 0.0
	if mem.Sys > 0 {
		usage = float64(mem.Alloc) / float64(mem.Sys) * 100
	}

	return RuntimeStats{
		Timestamp: time.Now().Unix(),
		Memory: MemoryStats{
			Allocated:    mem.Alloc,
			Total:        mem.TotalAlloc,
			System:       mem.Sys,
			GCPauseMS:    mem.PauseTotalNs / uint64(time.Millisecond),
			NumGC:        mem.NumGC,
			UsagePercent: usage,
		},
		CPU: CPUStats{
			Cores:   runtime.NumCPU(),
			Threads: runtime.GOMAXPROCS(0),
		},
		Goroutines: runtime.NumGoroutine(),
		Uptime:     time.Since(started).Seconds(),
	}
}
