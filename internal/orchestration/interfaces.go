package orchestration

import (
	"io"
	"math/big"
	"sync"
	"time"

	"github.com/agbru/fibtree/internal/fibonacci"
)

// CalculationResult is what one calculator produced for one run.
type CalculationResult struct {
	Name     string
	Result   *big.Int // nil when Err is set
	Duration time.Duration
	Err      error
}

// Succeeded reports whether the calculator produced a value.
func (r CalculationResult) Succeeded() bool { return r.Err == nil && r.Result != nil }

// PresentationOptions selects what the final report shows.
type PresentationOptions struct {
	N         uint64
	Verbose   bool
	Details   bool
	ShowValue bool
}

// ProgressReporter consumes the shared progress channel of a run. An
// implementation must read progressChan until it is closed and call wg.Done
// on return; ExecuteCalculations blocks on both.
type ProgressReporter interface {
	DisplayProgress(wg *sync.WaitGroup, progressChan <-chan fibonacci.ProgressUpdate, numCalculators int, out io.Writer)
}

// ReporterFunc adapts a plain function to ProgressReporter.
type ReporterFunc func(wg *sync.WaitGroup, progressChan <-chan fibonacci.ProgressUpdate, numCalculators int, out io.Writer)

// DisplayProgress calls f.
func (f ReporterFunc) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan fibonacci.ProgressUpdate, numCalculators int, out io.Writer) {
	f(wg, progressChan, numCalculators, out)
}

// DiscardReporter reads and drops every update. Quiet runs use it.
type DiscardReporter struct{}

// DisplayProgress empties progressChan.
func (DiscardReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan fibonacci.ProgressUpdate, _ int, _ io.Writer) {
	defer wg.Done()
	Discard(progressChan)
}

// Presenter renders the outcome of a run and maps failures to exit codes.
// The CLI writes to out; the dashboard turns each call into a message.
type Presenter interface {
	// PresentComparisonTable shows every result of a multi-calculator run.
	PresentComparisonTable(results []CalculationResult, out io.Writer)
	// PresentResult shows the value chosen as the answer.
	PresentResult(result CalculationResult, opts PresentationOptions, out io.Writer)
	// HandleError reports err and returns the process exit code for it.
	HandleError(err error, duration time.Duration, out io.Writer) int
}
