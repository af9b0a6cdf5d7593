package cli

import (
	"bytes"
	"io"
	"math/big"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/briandowns/spinner"
	"github.com/golang/mock/gomock"

	"github.com/agbru/fibtree/internal/cli/mocks"
	"github.com/agbru/fibtree/internal/fibonacci"
	"github.com/agbru/fibtree/internal/ui"
)

func TestDisplayResult(t *testing.T) {
	ui.InitTheme(true)
	t.Cleanup(func() { ui.InitTheme(false) })

	huge := new(big.Int).Exp(big.NewInt(10), big.NewInt(200), nil)

	tests := []struct {
		name      string
		result    *big.Int
		n         uint64
		verbose   bool
		details   bool
		showValue bool
		contains  []string
		excludes  []string
	}{
		{
			name:     "summary only",
			result:   big.NewInt(55),
			n:        10,
			contains: []string{"F(10) has 2 digits", "Took"},
			excludes: []string{"Calculated value", "Detailed result analysis"},
		},
		{
			name:     "details",
			result:   big.NewInt(12345),
			n:        10,
			details:  true,
			contains: []string{"Result binary size:", "Detailed result analysis", "Calculation time", "Number of digits", "1.2345 × 10^4"},
		},
		{
			name:      "value is grouped",
			result:    big.NewInt(12345),
			n:         10,
			showValue: true,
			contains:  []string{"Calculated value", "F(10) = 12,345"},
		},
		{
			name:      "large value is truncated",
			result:    huge,
			n:         100,
			showValue: true,
			contains:  []string{"(truncated)", "Tip: use", "F(100) = 1000000000000000000000000..."},
		},
		{
			name:      "verbose shows the whole value",
			result:    huge,
			n:         100,
			verbose:   true,
			showValue: true,
			contains:  []string{"F(100) = 100,000,000,000"},
			excludes:  []string{"(truncated)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			DisplayResult(tt.result, tt.n, time.Millisecond, tt.verbose, tt.details, tt.showValue, &buf)
			output := buf.String()
			for _, s := range tt.contains {
				if !strings.Contains(output, s) {
					t.Errorf("output does not contain %q:\n%s", s, output)
				}
			}
			for _, s := range tt.excludes {
				if strings.Contains(output, s) {
					t.Errorf("output unexpectedly contains %q:\n%s", s, output)
				}
			}
		})
	}
}

func TestFormatScientific(t *testing.T) {
	t.Parallel()
	tests := []struct {
		x    *big.Int
		want string
	}{
		{big.NewInt(7), ""},
		{big.NewInt(55), "5.5 × 10^1"},
		{big.NewInt(1234567), "1.23456 × 10^6"},
	}
	for _, tt := range tests {
		if got := FormatScientific(tt.x); got != tt.want {
			t.Errorf("FormatScientific(%s) = %q, want %q", tt.x, got, tt.want)
		}
	}
}

func TestRealSpinner(t *testing.T) {
	t.Parallel()
	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond, spinner.WithWriter(io.Discard))
	rs := &realSpinner{s}

	rs.Start()
	rs.UpdateSuffix(" test")
	rs.Stop()
	if s.Suffix != " test" {
		t.Errorf("suffix = %q, want %q", s.Suffix, " test")
	}
}

func TestDisplayProgress(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockSpinner := mocks.NewMockSpinner(ctrl)

	gomock.InOrder(
		mockSpinner.EXPECT().UpdateSuffix(gomock.Any()),
		mockSpinner.EXPECT().Start(),
	)
	var mu sync.Mutex
	var last string
	mockSpinner.EXPECT().UpdateSuffix(gomock.Any()).Do(func(s string) {
		mu.Lock()
		last = s
		mu.Unlock()
	}).AnyTimes()
	mockSpinner.EXPECT().Stop()

	original := newSpinner
	t.Cleanup(func() { newSpinner = original })
	newSpinner = func(...spinner.Option) Spinner { return mockSpinner }

	progressChan := make(chan fibonacci.ProgressUpdate)
	go func() {
		progressChan <- fibonacci.ProgressUpdate{CalculatorIndex: 0, Value: 0.5}
		progressChan <- fibonacci.ProgressUpdate{CalculatorIndex: 0, Value: 1}
		close(progressChan)
	}()

	var wg sync.WaitGroup
	wg.Add(1)
	DisplayProgress(&wg, progressChan, 1, io.Discard)
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	if !strings.Contains(last, "100.00%") {
		t.Errorf("final suffix = %q, want a completed bar", last)
	}
	if !strings.Contains(last, "Evaluating tree") {
		t.Errorf("final suffix = %q, want the single-calculator label", last)
	}
}

func TestDisplayProgress_ZeroCalculators(t *testing.T) {
	original := newSpinner
	t.Cleanup(func() { newSpinner = original })
	newSpinner = func(...spinner.Option) Spinner {
		t.Fatal("no spinner should be created without calculators")
		return nil
	}

	progressChan := make(chan fibonacci.ProgressUpdate, 1)
	progressChan <- fibonacci.ProgressUpdate{Value: 1}
	close(progressChan)

	var wg sync.WaitGroup
	wg.Add(1)
	DisplayProgress(&wg, progressChan, 0, io.Discard)
	wg.Wait()
}
