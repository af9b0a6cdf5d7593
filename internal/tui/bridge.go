package tui

import (
	"io"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	apperrors "github.com/agbru/fibtree/internal/errors"
	"github.com/agbru/fibtree/internal/fibonacci"
	"github.com/agbru/fibtree/internal/orchestration"
)

// programRef routes messages from calculation goroutines into the running
// program. The model is copied on every Update, so goroutines share this
// pointer rather than the model.
type programRef struct {
	mu   sync.RWMutex
	send func(tea.Msg)
}

// Attach routes later Send calls to send, usually (*tea.Program).Send.
func (r *programRef) Attach(send func(tea.Msg)) {
	r.mu.Lock()
	r.send = send
	r.mu.Unlock()
}

// Send delivers msg, or drops it when nothing is attached.
func (r *programRef) Send(msg tea.Msg) {
	r.mu.RLock()
	send := r.send
	r.mu.RUnlock()
	if send != nil {
		send(msg)
	}
}

// TUIProgressReporter implements orchestration.ProgressReporter by turning
// progress updates into bubbletea messages.
type TUIProgressReporter struct {
	ref *programRef
}

var _ orchestration.ProgressReporter = (*TUIProgressReporter)(nil)

// DisplayProgress drains progressChan and sends one ProgressMsg per update,
// then a ProgressDoneMsg.
func (t *TUIProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan fibonacci.ProgressUpdate, numCalculators int, _ io.Writer) {
	defer wg.Done()

	tracker := orchestration.NewProgressTracker(numCalculators)
	if tracker == nil {
		orchestration.Discard(progressChan)
		return
	}

	for update := range progressChan {
		snap := tracker.Observe(update)
		t.ref.Send(ProgressMsg{
			CalculatorIndex: snap.Last.CalculatorIndex,
			Value:           snap.Last.Value,
			AverageProgress: snap.Average,
			ETA:             snap.ETA,
		})
	}
	t.ref.Send(ProgressDoneMsg{})
}

// TUIResultPresenter implements the orchestration presentation interfaces by
// sending messages to the dashboard instead of writing to a terminal.
type TUIResultPresenter struct {
	ref *programRef
}

var _ orchestration.Presenter = (*TUIResultPresenter)(nil)

// PresentComparisonTable sends the comparison results to the dashboard.
func (t *TUIResultPresenter) PresentComparisonTable(results []orchestration.CalculationResult, _ io.Writer) {
	snapshot := make([]orchestration.CalculationResult, len(results))
	copy(snapshot, results)
	t.ref.Send(ComparisonResultsMsg{Results: snapshot})
}

// PresentResult sends the final result to the dashboard.
func (t *TUIResultPresenter) PresentResult(result orchestration.CalculationResult, opts orchestration.PresentationOptions, _ io.Writer) {
	t.ref.Send(FinalResultMsg{Result: result, Opts: opts})
}

// HandleError sends the error to the dashboard and returns its exit code.
func (t *TUIResultPresenter) HandleError(err error, duration time.Duration, _ io.Writer) int {
	t.ref.Send(ErrorMsg{Err: err, Duration: duration})
	return apperrors.HandleCalculationError(err, duration, io.Discard, plainColors{})
}

// plainColors satisfies apperrors.ColorProvider without emitting escapes.
type plainColors struct{}

func (plainColors) Red() string    { return "" }
func (plainColors) Yellow() string { return "" }
func (plainColors) Reset() string  { return "" }
