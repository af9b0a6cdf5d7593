package orchestration

import (
	"context"
	"errors"
	"io"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/agbru/fibtree/internal/config"
	"github.com/agbru/fibtree/internal/fibonacci"
)

// leafCalculator reports one progress update per leaf of a tree of the
// given size, like the tree calculator does, with a pause between leaves.
type leafCalculator struct {
	name   string
	leaves int
	pause  time.Duration
	fail   bool
}

func (c *leafCalculator) Name() string { return c.name }

func (c *leafCalculator) Calculate(ctx context.Context, progressChan chan<- fibonacci.ProgressUpdate, calcIndex int, n uint64, _ fibonacci.Options) (*big.Int, error) {
	for done := 1; done <= c.leaves; done++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		// Blocking send: the reporter must keep up or the run stalls.
		progressChan <- fibonacci.ProgressUpdate{CalculatorIndex: calcIndex, Value: float64(done) / float64(c.leaves)}
		if c.pause > 0 {
			time.Sleep(c.pause)
		}
	}
	if c.fail {
		return nil, errors.New("leaf failed")
	}
	return fibonacci.Compute(n), nil
}

// slowReporter reads updates with a delay so the progress buffer fills up.
func slowReporter(delay time.Duration) ReporterFunc {
	return func(wg *sync.WaitGroup, ch <-chan fibonacci.ProgressUpdate, _ int, _ io.Writer) {
		defer wg.Done()
		for range ch {
			time.Sleep(delay)
		}
	}
}

func runWithDeadline(t *testing.T, ctx context.Context, calcs []fibonacci.Calculator, reporter ProgressReporter) []CalculationResult {
	t.Helper()
	done := make(chan []CalculationResult, 1)
	go func() {
		done <- ExecuteCalculations(ctx, calcs, config.AppConfig{N: 90, Budget: 8}, reporter, io.Discard)
	}()
	select {
	case res := <-done:
		return res
	case <-time.After(10 * time.Second):
		t.Fatal("ExecuteCalculations did not return")
		return nil
	}
}

func TestExecuteCalculations_NoDeadlock(t *testing.T) {
	tests := []struct {
		name     string
		calcs    []fibonacci.Calculator
		reporter ProgressReporter
		failures int
	}{
		{
			name: "wide trees outrun the buffer",
			calcs: []fibonacci.Calculator{
				&leafCalculator{name: "a", leaves: 4096},
				&leafCalculator{name: "b", leaves: 4096},
			},
			reporter: DiscardReporter{},
		},
		{
			name: "slow reader",
			calcs: []fibonacci.Calculator{
				&leafCalculator{name: "a", leaves: 64},
				&leafCalculator{name: "b", leaves: 64},
			},
			reporter: slowReporter(100 * time.Microsecond),
		},
		{
			name: "one calculator fails",
			calcs: []fibonacci.Calculator{
				&leafCalculator{name: "ok", leaves: 32},
				&leafCalculator{name: "bad", leaves: 32, fail: true},
			},
			reporter: DiscardReporter{},
			failures: 1,
		},
		{
			name: "real calculators",
			calcs: []fibonacci.Calculator{
				&fibonacci.TreeCalculator{},
				fibonacci.IterativeCalculator{},
			},
			reporter: slowReporter(0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := runWithDeadline(t, context.Background(), tt.calcs, tt.reporter)
			failures := 0
			for _, r := range results {
				if r.Err != nil {
					failures++
				}
			}
			if failures != tt.failures {
				t.Errorf("failures = %d, want %d", failures, tt.failures)
			}
		})
	}
}

func TestExecuteCalculations_CancelMidRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calcs := []fibonacci.Calculator{
		&leafCalculator{name: "a", leaves: 1000, pause: 10 * time.Millisecond},
		&leafCalculator{name: "b", leaves: 1000, pause: 10 * time.Millisecond},
	}
	time.AfterFunc(30*time.Millisecond, cancel)

	results := runWithDeadline(t, ctx, calcs, DiscardReporter{})
	for _, r := range results {
		if !errors.Is(r.Err, context.Canceled) {
			t.Errorf("%s: err = %v, want context.Canceled", r.Name, r.Err)
		}
	}
}
