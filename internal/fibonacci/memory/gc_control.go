// Package memory controls the Go garbage collector around a calculation.
//
// Every leaf of a decomposition tree grows its own pair of big integers up
// to the size of F(index), so a wide tree allocates many short-lived
// buffers at once. Pausing the collector for the duration of a large
// evaluation trades peak memory for fewer collection cycles.
package memory

import (
	"math"
	"runtime"
	"runtime/debug"

	"github.com/agbru/fibtree/internal/logging"
)

// GCMode controls the garbage collector behavior during calculation.
type GCMode string

const (
	GCModeAuto       GCMode = "auto"
	GCModeAggressive GCMode = "aggressive"
	GCModeDisabled   GCMode = "disabled"
)

// GCAutoThreshold is the minimum index for which auto mode pauses the
// collector.
const GCAutoThreshold uint64 = 250_000

// memoryLimitFactor bounds the heap while the collector is paused, as a
// multiple of the memory obtained from the OS when Begin was called.
const memoryLimitFactor = 3

// GCController pauses the garbage collector between Begin and End.
type GCController struct {
	mode              GCMode
	originalGCPercent int
	active            bool
	logger            logging.Logger
	startStats        runtime.MemStats
	endStats          runtime.MemStats
}

// GCStats holds GC statistics for a calculation.
type GCStats struct {
	HeapAlloc    uint64
	TotalAlloc   uint64
	NumGC        uint32
	PauseTotalNs uint64
}

// NewGCController creates a controller for mode and index n. Aggressive
// always pauses, auto pauses from GCAutoThreshold on, and disabled never
// touches the collector. Unknown modes behave like disabled.
func NewGCController(mode string, n uint64, logger logging.Logger) *GCController {
	if logger == nil {
		logger = logging.Nop()
	}
	gc := &GCController{mode: GCMode(mode), logger: logger}
	switch gc.mode {
	case GCModeAggressive:
		gc.active = true
	case GCModeAuto:
		gc.active = n >= GCAutoThreshold
	}
	return gc
}

// Active reports whether Begin will pause the collector.
func (gc *GCController) Active() bool { return gc.active }

// Begin pauses the collector and sets a soft memory limit as a safety net.
// Statistics are recorded whether or not the controller is active.
func (gc *GCController) Begin() {
	runtime.ReadMemStats(&gc.startStats)
	if !gc.active {
		return
	}
	gc.originalGCPercent = debug.SetGCPercent(-1)
	if gc.startStats.Sys > 0 {
		if limit := int64(gc.startStats.Sys) * memoryLimitFactor; limit > 0 {
			debug.SetMemoryLimit(limit)
		}
	}
	gc.logger.Debug("gc paused",
		logging.String("mode", string(gc.mode)),
		logging.Uint64("heap_alloc_bytes", gc.startStats.HeapAlloc))
}

// End restores the collector settings and runs a collection.
func (gc *GCController) End() {
	runtime.ReadMemStats(&gc.endStats)
	if !gc.active {
		return
	}
	debug.SetGCPercent(gc.originalGCPercent)
	debug.SetMemoryLimit(math.MaxInt64)
	runtime.GC()
	gc.logger.Debug("gc resumed",
		logging.String("mode", string(gc.mode)),
		logging.Uint64("heap_alloc_bytes", gc.endStats.HeapAlloc),
		logging.Uint64("total_alloc_bytes", gc.endStats.TotalAlloc-gc.startStats.TotalAlloc),
		logging.Uint64("gc_cycles", uint64(gc.endStats.NumGC-gc.startStats.NumGC)))
}

// Stats returns GC statistics delta between Begin and End.
func (gc *GCController) Stats() GCStats {
	return GCStats{
		HeapAlloc:    gc.endStats.HeapAlloc,
		TotalAlloc:   gc.endStats.TotalAlloc - gc.startStats.TotalAlloc,
		NumGC:        gc.endStats.NumGC - gc.startStats.NumGC,
		PauseTotalNs: gc.endStats.PauseTotalNs - gc.startStats.PauseTotalNs,
	}
}
