//go:generate mockgen -source=ui.go -destination=mocks/mock_ui.go -package=mocks

package cli

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/briandowns/spinner"

	"github.com/agbru/fibtree/internal/fibonacci"
	"github.com/agbru/fibtree/internal/format"
	"github.com/agbru/fibtree/internal/orchestration"
)

const (
	// TruncationLimit is the digit count from which a displayed value is
	// truncated unless -verbose is set.
	TruncationLimit = 100
	// DisplayEdges is the number of digits kept at each end of a truncated
	// value.
	DisplayEdges = 25
	// ProgressRefreshRate is the spinner and progress bar refresh interval.
	ProgressRefreshRate = 200 * time.Millisecond
	// ProgressBarWidth is the width in cells of the progress bar.
	ProgressBarWidth = 40
)

// Spinner abstracts a terminal spinner so DisplayProgress can be tested
// without a terminal.
type Spinner interface {
	// Start begins the spinner animation.
	Start()
	// Stop halts the spinner animation.
	Stop()
	// UpdateSuffix sets the text that is displayed after the spinner.
	UpdateSuffix(suffix string)
}

// realSpinner adapts spinner.Spinner to Spinner.
type realSpinner struct {
	s *spinner.Spinner
}

func (rs *realSpinner) Start() { rs.s.Start() }

func (rs *realSpinner) Stop() { rs.s.Stop() }

func (rs *realSpinner) UpdateSuffix(suffix string) {
	rs.s.Lock()
	rs.s.Suffix = suffix
	rs.s.Unlock()
}

var newSpinner = func(options ...spinner.Option) Spinner {
	s := spinner.New(spinner.CharSets[11], ProgressRefreshRate, options...)
	return &realSpinner{s}
}

// DisplayProgress shows a spinner with the averaged progress of all
// calculators and an ETA, refreshed every ProgressRefreshRate, until
// progressChan is closed. It calls wg.Done before returning.
func DisplayProgress(wg *sync.WaitGroup, progressChan <-chan fibonacci.ProgressUpdate, numCalculators int, out io.Writer) {
	defer wg.Done()
	tracker := orchestration.NewProgressTracker(numCalculators)
	if tracker == nil {
		orchestration.Discard(progressChan)
		return
	}

	s := newSpinner(spinner.WithWriter(out))
	label := "Evaluating tree"
	if tracker.Comparing() {
		label = fmt.Sprintf("Comparing %d calculators", numCalculators)
	}
	render := func(snap orchestration.ProgressSnapshot) {
		s.UpdateSuffix(fmt.Sprintf(" %s %s", label, format.FormatProgressBarWithETA(snap.Average, snap.ETA, ProgressBarWidth)))
	}
	render(orchestration.ProgressSnapshot{})
	s.Start()
	defer s.Stop()

	ticker := time.NewTicker(ProgressRefreshRate)
	defer ticker.Stop()

	for {
		select {
		case update, ok := <-progressChan:
			if !ok {
				final := tracker.Current()
				final.ETA = 0
				render(final)
				return
			}
			tracker.Observe(update)
		case <-ticker.C:
			render(tracker.Current())
		}
	}
}

// CLIProgressReporter implements orchestration.ProgressReporter with
// DisplayProgress.
type CLIProgressReporter struct{}

var _ orchestration.ProgressReporter = CLIProgressReporter{}

// DisplayProgress displays a spinner and progress bar for ongoing calculations.
func (CLIProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan fibonacci.ProgressUpdate, numCalculators int, out io.Writer) {
	DisplayProgress(wg, progressChan, numCalculators, out)
}
