package app

import (
	"context"
	"fmt"
	"io"

	"github.com/agbru/fibtree/internal/cli"
	apperrors "github.com/agbru/fibtree/internal/errors"
	"github.com/agbru/fibtree/internal/fibonacci"
	"github.com/agbru/fibtree/internal/fibonacci/memory"
	"github.com/agbru/fibtree/internal/logging"
	"github.com/agbru/fibtree/internal/orchestration"
	"github.com/agbru/fibtree/internal/sysmon"
	"github.com/agbru/fibtree/internal/ui"
)

// runCalculate runs the selected calculators for the configured index and
// presents, verifies and saves the result.
func (a *Application) runCalculate(ctx context.Context, out io.Writer) int {
	calculatorsToRun := orchestration.GetCalculatorsToRun(a.Config.Algo, a.Factory)

	if !a.Config.Quiet {
		cli.PrintExecutionConfig(a.Config, out)
		cli.PrintExecutionMode(calculatorsToRun, out)
	}

	var progressReporter orchestration.ProgressReporter
	progressOut := out
	if a.Config.Quiet {
		progressOut = io.Discard
		progressReporter = orchestration.DiscardReporter{}
	} else {
		progressReporter = cli.CLIProgressReporter{}
	}

	gc := memory.NewGCController(a.Config.GCMode, a.Config.N, a.Logger)
	gc.Begin()
	results := orchestration.ExecuteCalculations(ctx, calculatorsToRun, a.Config, progressReporter, progressOut)
	gc.End()

	for _, res := range results {
		a.Metrics.ObserveCalculation(res.Name, res.Duration, fibonacci.Digits(res.Result), res.Err)
		if res.Err != nil {
			a.Logger.Error("calculation failed", res.Err, logging.String("calculator", res.Name))
		}
	}

	outputCfg := cli.OutputConfig{
		OutputFile: a.Config.OutputFile,
		Quiet:      a.Config.Quiet,
		Verbose:    a.Config.Verbose,
		Details:    a.Config.Details,
		ShowValue:  a.Config.ShowValue,
	}
	code := a.analyzeResultsWithOutput(results, outputCfg, out)
	if code != apperrors.ExitSuccess {
		return code
	}

	if a.Config.Details && !a.Config.Quiet {
		stats := gc.Stats()
		cli.DisplayTreeShape(a.Config.Budget, out)
		cli.DisplayMemoryStats(stats.HeapAlloc, stats.TotalAlloc, stats.NumGC, stats.PauseTotalNs, out)
		cli.DisplayHostStats(sysmon.Sample(), out)
	}
	return apperrors.ExitSuccess
}

func (a *Application) analyzeResultsWithOutput(results []orchestration.CalculationResult, outputCfg cli.OutputConfig, out io.Writer) int {
	bestResult := findBestResult(results)

	if outputCfg.Quiet && bestResult != nil {
		if code := a.verify(bestResult, a.ErrWriter); code != apperrors.ExitSuccess {
			return code
		}
		cli.DisplayQuietResult(out, bestResult.Result)
		if err := a.saveResultIfNeeded(bestResult, outputCfg); err != nil {
			return apperrors.ExitErrorGeneric
		}
		return apperrors.ExitSuccess
	}

	presOpts := orchestration.PresentationOptions{
		N:         a.Config.N,
		Verbose:   a.Config.Verbose,
		Details:   a.Config.Details,
		ShowValue: a.Config.ShowValue,
	}
	presenter := cli.CLIResultPresenter{}
	exitCode := orchestration.AnalyzeComparisonResults(results, presOpts, presenter, out)
	if bestResult == nil || exitCode != apperrors.ExitSuccess {
		return exitCode
	}

	if code := a.verify(bestResult, out); code != apperrors.ExitSuccess {
		return code
	}
	if err := a.saveResultIfNeeded(bestResult, outputCfg); err != nil {
		return apperrors.ExitErrorGeneric
	}
	if outputCfg.OutputFile != "" {
		fmt.Fprintf(out, "\n%s✓ Result saved to: %s%s%s\n",
			ui.ColorGreen(), ui.ColorCyan(), outputCfg.OutputFile, ui.ColorReset())
	}
	return apperrors.ExitSuccess
}

// verify cross-checks the trailing digits of res when -verify is set.
func (a *Application) verify(res *orchestration.CalculationResult, out io.Writer) int {
	if !a.Config.Verify {
		return apperrors.ExitSuccess
	}
	if err := fibonacci.VerifyLastDigits(a.Config.N, res.Result, a.Config.VerifyDigits); err != nil {
		a.Logger.Error("verification failed", err, logging.String("calculator", res.Name))
		fmt.Fprintf(out, "%sVerification failed%s: %v\n", ui.ColorRed(), ui.ColorReset(), err)
		return apperrors.ExitErrorMismatch
	}
	if !a.Config.Quiet {
		fmt.Fprintf(out, "%s✓ Verified%s: last %d digits match modular fast doubling.\n",
			ui.ColorGreen(), ui.ColorReset(), a.Config.VerifyDigits)
	}
	return apperrors.ExitSuccess
}

// findBestResult returns a copy of the fastest successful result, or nil.
// It is a copy because AnalyzeComparisonResults reorders results in place.
func findBestResult(results []orchestration.CalculationResult) *orchestration.CalculationResult {
	var best *orchestration.CalculationResult
	for i := range results {
		if results[i].Err == nil && (best == nil || results[i].Duration < best.Duration) {
			res := results[i]
			best = &res
		}
	}
	return best
}

func (a *Application) saveResultIfNeeded(res *orchestration.CalculationResult, cfg cli.OutputConfig) error {
	if cfg.OutputFile == "" {
		return nil
	}
	if err := cli.WriteResultToFile(res.Result, a.Config.N, res.Duration, res.Name, cfg); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error saving result: %v\n", err)
		return err
	}
	return nil
}
