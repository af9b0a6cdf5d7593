package metrics

import "runtime"

// RuntimeSample is one reading of the Go runtime's heap and scheduler
// counters, taken while a tree is being evaluated.
type RuntimeSample struct {
	HeapAlloc    uint64
	HeapInuse    uint64
	HeapSys      uint64
	NumGC        uint32
	PauseTotalNs uint64
	Goroutines   int
}

// ReadRuntime takes a RuntimeSample. It stops the world briefly, so callers
// poll it at display rate rather than per leaf.
func ReadRuntime() RuntimeSample {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return RuntimeSample{
		HeapAlloc:    m.HeapAlloc,
		HeapInuse:    m.HeapInuse,
		HeapSys:      m.HeapSys,
		NumGC:        m.NumGC,
		PauseTotalNs: m.PauseTotalNs,
		Goroutines:   runtime.NumGoroutine(),
	}
}
