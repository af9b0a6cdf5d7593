package calibration

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/agbru/fibtree/internal/format"
	"github.com/agbru/fibtree/internal/ui"
)

// printCalibrationResults formats and prints the calibration results table.
func printCalibrationResults(out io.Writer, results []calibrationResult, bestBudget uint64) {
	fmt.Fprintf(out, "\n%s\n", ui.Heading("Calibration Summary"))
	tw := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintf(tw, "  %sBudget%s       │ %sLeaves%s │ %sExecution Time%s\n",
		ui.ColorUnderline(), ui.ColorReset(), ui.ColorUnderline(), ui.ColorReset(), ui.ColorUnderline(), ui.ColorReset())
	fmt.Fprintf(tw, "  %s┼%s┼%s\n", strings.Repeat("─", 14), strings.Repeat("─", 8), strings.Repeat("─", 25))
	for _, res := range results {
		budgetLabel := fmt.Sprintf("%d cores", res.Budget)
		if res.Budget <= 1 {
			budgetLabel = "Sequential"
		}
		durationStr := fmt.Sprintf("%sN/A%s", ui.ColorRed(), ui.ColorReset())
		if res.Err == nil {
			durationStr = format.FormatExecutionDuration(res.Duration)
			if res.Duration == 0 {
				durationStr = "< 1µs"
			}
		}
		highlight := ""
		if res.Budget == bestBudget && res.Err == nil {
			highlight = fmt.Sprintf(" %s(Optimal)%s", ui.ColorGreen(), ui.ColorReset())
		}
		fmt.Fprintf(tw, "  %s%-12s%s │ %6d │ %s%s%s%s\n",
			ui.ColorCyan(), budgetLabel, ui.ColorReset(), res.Leaves,
			ui.ColorYellow(), durationStr, ui.ColorReset(), highlight)
	}
	tw.Flush()
}

// printCalibrationOutput prints the recommended budget.
func printCalibrationOutput(best uint64, out io.Writer) {
	fmt.Fprintf(out, "%sCalibration%s: fastest budget=%s%d%s (use -budget %d or FIBTREE_BUDGET=%d)\n",
		ui.ColorGreen(), ui.ColorReset(),
		ui.ColorYellow(), best, ui.ColorReset(), best, best)
}
