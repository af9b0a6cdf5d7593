package cli

import (
	"fmt"
	"io"
	"runtime"

	"github.com/agbru/fibtree/internal/config"
	"github.com/agbru/fibtree/internal/fibonacci"
	"github.com/agbru/fibtree/internal/ui"
)

// TreeSize returns the number of leaves Build would produce for budget, or
// one when the budget does not split.
func TreeSize(budget uint64) uint64 {
	return uint64(1) << fibonacci.LevelCount(budget)
}

// PrintExecutionConfig displays the index, the effective budget and the
// resulting tree size. When the budget was taken from the host, it says so
// first.
func PrintExecutionConfig(cfg config.AppConfig, out io.Writer) {
	fmt.Fprintf(out, "%s\n", ui.Heading("Execution Configuration"))
	if cfg.BudgetFromHost {
		fmt.Fprintf(out, "No core count specified, using %s%d%s logical processors.\n",
			ui.ColorCyan(), cfg.Budget, ui.ColorReset())
	}
	fmt.Fprintf(out, "Calculating %sF(%d)%s with %s%d%s cores [tree_size=%d]\n",
		ui.ColorMagenta(), cfg.N, ui.ColorReset(),
		ui.ColorCyan(), cfg.Budget, ui.ColorReset(), TreeSize(cfg.Budget))
	fmt.Fprintf(out, "Environment: %s%d%s logical processors, Go %s%s%s.\n",
		ui.ColorCyan(), runtime.NumCPU(), ui.ColorReset(), ui.ColorCyan(), runtime.Version(), ui.ColorReset())
	if cfg.Threshold > 0 {
		fmt.Fprintf(out, "Sequential threshold: subtrees of at most %s%d%s leaves run inline.\n",
			ui.ColorCyan(), cfg.Threshold, ui.ColorReset())
	}
}

// PrintExecutionMode displays whether one calculator runs or several are
// compared.
func PrintExecutionMode(calculators []fibonacci.Calculator, out io.Writer) {
	var modeDesc string
	if len(calculators) > 1 {
		modeDesc = "Parallel comparison of all algorithms"
	} else {
		modeDesc = fmt.Sprintf("Single calculation with the %s%s%s algorithm",
			ui.ColorGreen(), calculators[0].Name(), ui.ColorReset())
	}
	fmt.Fprintf(out, "Execution mode: %s.\n", modeDesc)
	fmt.Fprintf(out, "\n%s\n", ui.Heading("Starting Execution"))
}
