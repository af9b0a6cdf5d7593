// # Naming Conventions
//
//   - Display* functions write formatted output to an [io.Writer].
//   - Format* functions return a formatted string without performing I/O.
//   - Write* functions write data to files on the filesystem.

package cli

import (
	"fmt"
	"io"
	"math/big"
	"os"
	"path/filepath"
	"time"

	"github.com/agbru/fibtree/internal/fibonacci"
	"github.com/agbru/fibtree/internal/format"
	"github.com/agbru/fibtree/internal/ui"
)

// OutputConfig holds configuration for result output.
type OutputConfig struct {
	// OutputFile is the path to save the result (empty for no file output).
	OutputFile string
	// Quiet prints only the value.
	Quiet bool
	// Verbose shows the full value without truncation.
	Verbose bool
	// Details adds the bit length and a scientific-notation summary.
	Details bool
	// ShowValue prints the calculated value.
	ShowValue bool
}

// WriteResultToFile writes result and its metadata to config.OutputFile,
// creating parent directories as needed. It does nothing when no file is
// configured.
func WriteResultToFile(result *big.Int, n uint64, duration time.Duration, algo string, config OutputConfig) error {
	if config.OutputFile == "" {
		return nil
	}

	dir := filepath.Dir(config.OutputFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(config.OutputFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	fmt.Fprintf(file, "# Fibonacci Calculation Result\n")
	fmt.Fprintf(file, "# Generated: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(file, "# Algorithm: %s\n", algo)
	fmt.Fprintf(file, "# Duration: %s\n", duration)
	fmt.Fprintf(file, "# N: %d\n", n)
	fmt.Fprintf(file, "# Bits: %d\n", result.BitLen())
	fmt.Fprintf(file, "# Digits: %d\n", fibonacci.Digits(result))
	fmt.Fprintf(file, "\n")
	fmt.Fprintf(file, "F(%d) =\n%s\n", n, result.String())

	return file.Close()
}

// FormatQuietResult formats a result for quiet mode: the bare decimal value.
func FormatQuietResult(result *big.Int) string {
	return result.String()
}

// DisplayQuietResult prints the bare value on one line.
func DisplayQuietResult(out io.Writer, result *big.Int) {
	fmt.Fprintln(out, FormatQuietResult(result))
}

// DisplayResult prints the digit count and elapsed time of F(n), followed
// by a detailed analysis when details is set and the value itself when
// showValue is set. Values longer than TruncationLimit digits are truncated
// unless verbose is set.
func DisplayResult(result *big.Int, n uint64, duration time.Duration, verbose, details, showValue bool, out io.Writer) {
	digits := fibonacci.Digits(result)

	fmt.Fprintf(out, "\n%s\n", ui.Heading("Result"))
	fmt.Fprintf(out, "F(%d) has %s%s%s digits\n", n, ui.ColorCyan(), format.FormatNumberString(fmt.Sprint(digits)), ui.ColorReset())
	fmt.Fprintf(out, "Took %s%s%s\n", ui.ColorYellow(), format.FormatExecutionDuration(duration), ui.ColorReset())

	if details {
		fmt.Fprintf(out, "\n%s\n", ui.Heading("Detailed result analysis"))
		fmt.Fprintf(out, "Calculation time        : %s%s%s\n", ui.ColorYellow(), duration, ui.ColorReset())
		fmt.Fprintf(out, "Result binary size:       %s%s%s bits\n", ui.ColorCyan(), format.FormatNumberString(fmt.Sprint(result.BitLen())), ui.ColorReset())
		fmt.Fprintf(out, "Number of digits        : %s%s%s\n", ui.ColorCyan(), format.FormatNumberString(fmt.Sprint(digits)), ui.ColorReset())
		if sci := FormatScientific(result); sci != "" {
			fmt.Fprintf(out, "Scientific notation     : %s%s%s\n", ui.ColorCyan(), sci, ui.ColorReset())
		}
	}

	if showValue {
		fmt.Fprintf(out, "\n%s\n", ui.Heading("Calculated value"))
		value := result.String()
		if !verbose && len(value) > TruncationLimit {
			fmt.Fprintf(out, "F(%d) = %s%s...%s%s (truncated)\n", n, ui.ColorGreen(),
				value[:DisplayEdges], value[len(value)-DisplayEdges:], ui.ColorReset())
			fmt.Fprintf(out, "Tip: use %s-v%s to display the full value.\n", ui.ColorBold(), ui.ColorReset())
		} else {
			fmt.Fprintf(out, "F(%d) = %s%s%s\n", n, ui.ColorGreen(), format.FormatNumberString(value), ui.ColorReset())
		}
	}
}

// FormatScientific renders a non-negative integer as "d.dddd × 10^e", or an
// empty string for values below 10.
func FormatScientific(x *big.Int) string {
	s := x.String()
	if len(s) < 2 {
		return ""
	}
	mantissa := s[:1] + "." + s[1:min(len(s), 6)]
	return fmt.Sprintf("%s × 10^%d", mantissa, len(s)-1)
}

// DisplayResultWithConfig displays a result in quiet or standard mode and
// saves it to a file when one is configured.
func DisplayResultWithConfig(out io.Writer, result *big.Int, n uint64, duration time.Duration, algo string, config OutputConfig) error {
	if config.Quiet {
		DisplayQuietResult(out, result)
	} else {
		DisplayResult(result, n, duration, config.Verbose, config.Details, config.ShowValue, out)
	}

	if config.OutputFile != "" {
		if err := WriteResultToFile(result, n, duration, algo, config); err != nil {
			return err
		}
		if !config.Quiet {
			fmt.Fprintf(out, "\n%s✓ Result saved to: %s%s%s\n",
				ui.ColorGreen(), ui.ColorCyan(), config.OutputFile, ui.ColorReset())
		}
	}

	return nil
}

// DisplayTreeShape describes the decomposition tree built for budget.
func DisplayTreeShape(budget uint64, out io.Writer) {
	levels := fibonacci.LevelCount(budget)
	leaves := TreeSize(budget)
	fmt.Fprintf(out, "\nDecomposition Tree:\n")
	fmt.Fprintf(out, "  Leaves:           %d\n", leaves)
	fmt.Fprintf(out, "  Levels:           %d\n", levels)
	fmt.Fprintf(out, "  Concurrent units: %d\n", leaves-1)
}
