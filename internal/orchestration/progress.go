package orchestration

import (
	"time"

	"github.com/agbru/fibtree/internal/fibonacci"
	"github.com/agbru/fibtree/internal/format"
)

// ProgressSnapshot is the combined view of a run after one update.
type ProgressSnapshot struct {
	// Last is the update that produced this snapshot.
	Last fibonacci.ProgressUpdate
	// Average is the mean leaf fraction across calculators, 0.0 to 1.0.
	Average float64
	// ETA is the smoothed time remaining, zero until a rate is known.
	ETA time.Duration
}

// ProgressTracker merges the updates of concurrently running calculators.
// It is not safe for concurrent use; one reporter goroutine owns it.
type ProgressTracker struct {
	eta         *format.ProgressWithETA
	calculators int
}

// NewProgressTracker tracks n calculators. It returns nil when n is not
// positive, in which case the caller should Discard the channel instead.
func NewProgressTracker(n int) *ProgressTracker {
	if n <= 0 {
		return nil
	}
	return &ProgressTracker{eta: format.NewProgressWithETA(n), calculators: n}
}

// Observe records u and returns the resulting snapshot.
func (t *ProgressTracker) Observe(u fibonacci.ProgressUpdate) ProgressSnapshot {
	avg, eta := t.eta.UpdateWithETA(u.CalculatorIndex, u.Value)
	return ProgressSnapshot{Last: u, Average: avg, ETA: eta}
}

// Current returns the snapshot as of the last Observe without recording
// anything. Last is left zero.
func (t *ProgressTracker) Current() ProgressSnapshot {
	return ProgressSnapshot{Average: t.eta.CalculateAverage(), ETA: t.eta.GetETA()}
}

// Comparing reports whether more than one calculator is tracked.
func (t *ProgressTracker) Comparing() bool { return t.calculators > 1 }

// Discard reads progressChan until it is closed.
func Discard(progressChan <-chan fibonacci.ProgressUpdate) {
	for range progressChan {
	}
}
