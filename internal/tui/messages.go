package tui

import (
	"time"

	"github.com/agbru/fibtree/internal/orchestration"
)

// ProgressMsg carries one aggregated progress update.
type ProgressMsg struct {
	CalculatorIndex int
	Value           float64
	AverageProgress float64
	ETA             time.Duration
}

// ProgressDoneMsg is sent once the progress channel has been closed.
type ProgressDoneMsg struct{}

// ComparisonResultsMsg carries the results of a multi-calculator run.
type ComparisonResultsMsg struct {
	Results []orchestration.CalculationResult
}

// FinalResultMsg carries the result chosen for presentation.
type FinalResultMsg struct {
	Result orchestration.CalculationResult
	Opts   orchestration.PresentationOptions
}

// ErrorMsg reports a failed run.
type ErrorMsg struct {
	Err      error
	Duration time.Duration
}

// CalculationCompleteMsg is sent when orchestration has returned.
type CalculationCompleteMsg struct {
	ExitCode int
}

// TickMsg drives the periodic sampling of runtime and host statistics.
type TickMsg time.Time

// MemStatsMsg is a runtime memory sample.
type MemStatsMsg struct {
	Alloc        uint64
	HeapInuse    uint64
	NumGC        uint32
	PauseTotalNs uint64
	NumGoroutine int
}

// SysStatsMsg is a host CPU and memory sample, in percent.
type SysStatsMsg struct {
	CPUPercent float64
	MemPercent float64
}
