package orchestration

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/agbru/fibtree/internal/config"
	apperrors "github.com/agbru/fibtree/internal/errors"
	"github.com/agbru/fibtree/internal/fibonacci"
)

// ProgressBufferMultiplier sizes the shared progress channel per calculator
// so that a slow display rarely blocks a calculation.
const ProgressBufferMultiplier = 5

// ExecuteCalculations runs every calculator concurrently for cfg.N and
// returns one result per calculator, in input order.
//
// Calculator failures are recorded in the result, wrapped in an
// apperrors.CalculationError, and never stop the other calculators. The
// progress channel is closed only after every calculator has returned, and
// ExecuteCalculations returns only after the reporter has drained it.
func ExecuteCalculations(ctx context.Context, calculators []fibonacci.Calculator, cfg config.AppConfig, progressReporter ProgressReporter, out io.Writer) []CalculationResult {
	var g errgroup.Group
	results := make([]CalculationResult, len(calculators))
	progressChan := make(chan fibonacci.ProgressUpdate, len(calculators)*ProgressBufferMultiplier)

	var displayWg sync.WaitGroup
	displayWg.Add(1)
	go progressReporter.DisplayProgress(&displayWg, progressChan, len(calculators), out)

	opts := cfg.ToCalculationOptions()
	for i, calc := range calculators {
		g.Go(func() error {
			startTime := time.Now()
			res, err := calc.Calculate(ctx, progressChan, i, cfg.N, opts)
			if err != nil {
				err = apperrors.CalculationError{Calculator: calc.Name(), Cause: err}
				res = nil
			}
			results[i] = CalculationResult{
				Name: calc.Name(), Result: res, Duration: time.Since(startTime), Err: err,
			}
			return nil
		})
	}

	_ = g.Wait()
	close(progressChan)
	displayWg.Wait()

	return results
}

// AnalyzeComparisonResults sorts results (successes first, then by
// duration), prints the comparison table and checks that every successful
// result agrees. It returns the exit code: the error handler's code when
// everything failed, apperrors.ExitErrorMismatch when two successful results
// differ, and apperrors.ExitSuccess otherwise, after presenting the fastest
// result.
func AnalyzeComparisonResults(results []CalculationResult, opts PresentationOptions, p Presenter, out io.Writer) int {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Succeeded() != results[j].Succeeded() {
			return results[i].Succeeded()
		}
		return results[i].Duration < results[j].Duration
	})

	var firstValidResult *CalculationResult
	var firstError error
	successCount := 0

	for i := range results {
		if !results[i].Succeeded() {
			if firstError == nil {
				firstError = results[i].Err
			}
		} else {
			successCount++
			if firstValidResult == nil {
				firstValidResult = &results[i]
			}
		}
	}

	if len(results) > 1 {
		p.PresentComparisonTable(results, out)
	}

	if successCount == 0 {
		if len(results) > 1 {
			fmt.Fprintf(out, "\nGlobal Status: Failure. No algorithm could complete the calculation.\n")
		}
		if firstError == nil {
			firstError = apperrors.NewConfigError("no calculator selected")
		}
		return p.HandleError(firstError, 0, out)
	}

	for _, res := range results {
		if res.Succeeded() && res.Result.Cmp(firstValidResult.Result) != 0 {
			fmt.Fprintf(out, "\nGlobal Status: CRITICAL ERROR! %s and %s disagree on F(%d).\n",
				firstValidResult.Name, res.Name, opts.N)
			return apperrors.ExitErrorMismatch
		}
	}

	if len(results) > 1 {
		fmt.Fprintf(out, "\nGlobal Status: Success. All valid results are consistent.\n")
	}
	p.PresentResult(*firstValidResult, opts, out)
	return apperrors.ExitSuccess
}
