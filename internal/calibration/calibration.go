// Package calibration benchmarks the decomposition tree across budgets to
// find the fastest one for the current host.
package calibration

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/agbru/fibtree/internal/config"
	apperrors "github.com/agbru/fibtree/internal/errors"
	"github.com/agbru/fibtree/internal/fibonacci"
	"github.com/agbru/fibtree/internal/logging"
	"github.com/agbru/fibtree/internal/sysmon"
)

// calibrationResult is the outcome of one benchmarked budget.
type calibrationResult struct {
	Budget   uint64
	Leaves   uint64
	Duration time.Duration
	Err      error
}

// Runner benchmarks a calculator over a sweep of budgets.
type Runner struct {
	Calculator fibonacci.Calculator
	Logger     logging.Logger
	// Budgets overrides the generated sweep when non-empty.
	Budgets []uint64
	// Quick limits the generated sweep to GenerateQuickBudgets.
	Quick bool
}

// Run times cfg.CalibrationN for each budget, prints the comparison table to
// out and returns the fastest budget.
func (r Runner) Run(ctx context.Context, cfg config.AppConfig, out io.Writer) (uint64, error) {
	n := cfg.CalibrationN
	budgets := r.Budgets
	switch {
	case len(budgets) > 0:
	case r.Quick:
		budgets = GenerateQuickBudgets(sysmon.LogicalCores(), n)
	default:
		budgets = GenerateBudgets(sysmon.LogicalCores(), n)
	}
	calc := r.Calculator
	if calc == nil {
		calc = &fibonacci.TreeCalculator{}
	}
	logger := r.Logger
	if logger == nil {
		logger = logging.Nop()
	}

	fmt.Fprintf(out, "Calibrating F(%d) over %d budgets...\n", n, len(budgets))

	results := make([]calibrationResult, 0, len(budgets))
	for _, budget := range budgets {
		opts := cfg.ToCalculationOptions()
		opts.Budget = budget
		start := time.Now()
		_, err := calc.Calculate(ctx, nil, 0, n, opts)
		res := calibrationResult{
			Budget:   budget,
			Leaves:   uint64(1) << fibonacci.LevelCount(budget),
			Duration: time.Since(start),
			Err:      err,
		}
		logger.Debug("calibration run",
			logging.Uint64("budget", budget),
			logging.Float64("seconds", res.Duration.Seconds()))
		results = append(results, res)
	}

	best, ok := fastest(results)
	if !ok {
		return 0, apperrors.WrapError(results[len(results)-1].Err, "calibration failed for every budget")
	}
	printCalibrationResults(out, results, best)
	printCalibrationOutput(best, out)
	return best, nil
}

// fastest returns the budget of the quickest successful run. Ties go to the
// earlier run.
func fastest(results []calibrationResult) (uint64, bool) {
	var best calibrationResult
	found := false
	for _, res := range results {
		if res.Err != nil {
			continue
		}
		if !found || res.Duration < best.Duration {
			best, found = res, true
		}
	}
	return best.Budget, found
}
