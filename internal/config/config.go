// Package config resolves the application configuration from, in increasing
// priority, built-in defaults, FIBTREE_* environment variables, command-line
// flags and the positional arguments "number" and "core_count".
package config

import (
	"flag"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	apperrors "github.com/agbru/fibtree/internal/errors"
	"github.com/agbru/fibtree/internal/fibonacci"
)

// GC modes accepted by -gc.
const (
	GCModeAuto       = "auto"
	GCModeAggressive = "aggressive"
	GCModeDisabled   = "disabled"
)

// AppConfig aggregates the application's configuration parameters.
type AppConfig struct {
	// N is the index of the Fibonacci number to compute.
	N uint64 `env:"N" envDefault:"400000"`
	// Budget is the parallelism hint for the decomposition tree. Zero means
	// "use the host's logical CPU count" and is resolved by ApplyHostDefaults.
	Budget uint64 `env:"BUDGET"`
	// BudgetFromHost reports that Budget was derived from the host rather
	// than given by the user.
	BudgetFromHost bool
	// Threshold folds subtrees of at most this many leaves sequentially.
	Threshold uint64 `env:"THRESHOLD"`
	// Algo selects the calculator: "tree", "iterative" or "all".
	Algo string `env:"ALGO" envDefault:"tree"`

	ShowValue bool `env:"CALCULATE"`
	Verbose   bool `env:"VERBOSE"`
	Details   bool `env:"DETAILS"`
	Quiet     bool `env:"QUIET"`

	// OutputFile, when set, receives the result.
	OutputFile string `env:"OUTPUT"`
	// Verify cross-checks the last VerifyDigits digits with modular fast
	// doubling.
	Verify       bool `env:"VERIFY"`
	VerifyDigits int  `env:"VERIFY_DIGITS" envDefault:"64"`
	// MetricsFile, when set, receives the Prometheus metrics on exit.
	MetricsFile string `env:"METRICS_FILE"`
	// Calibrate runs the budget sweep instead of a single calculation.
	Calibrate bool `env:"CALIBRATE"`
	// CalibrateQuick runs the reduced sweep and implies Calibrate.
	CalibrateQuick bool `env:"CALIBRATE_QUICK"`
	// CalibrationN is the index used by the budget sweep.
	CalibrationN uint64 `env:"CALIBRATION_N" envDefault:"100000"`
	// TUI shows the interactive dashboard instead of the line-oriented
	// output.
	TUI bool `env:"TUI"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"warn"`
	NoColor  bool   `env:"NO_COLOR"`
	// GCMode controls the garbage collector during the calculation.
	GCMode string `env:"GC" envDefault:"auto"`
	// OTLPEndpoint, when set, exports trace spans over OTLP/HTTP.
	OTLPEndpoint string `env:"OTLP_ENDPOINT"`
}

// ToCalculationOptions converts the configuration into calculator options.
func (c AppConfig) ToCalculationOptions() fibonacci.Options {
	return fibonacci.Options{
		Budget:              c.Budget,
		SequentialThreshold: c.Threshold,
	}
}

// Validate checks the semantic consistency of the configuration. The
// budget's compatibility with N is not checked here; Build reports it.
func (c AppConfig) Validate(availableAlgos []string) error {
	if c.Algo != fibonacci.AlgoAll && !slices.Contains(availableAlgos, c.Algo) {
		return apperrors.NewConfigError("unknown algorithm %q (available: %s, %s)",
			c.Algo, strings.Join(availableAlgos, ", "), fibonacci.AlgoAll)
	}
	if c.Verify && c.VerifyDigits <= 0 {
		return apperrors.NewConfigError("-verify-digits must be positive, got %d", c.VerifyDigits)
	}
	if c.Calibrate && c.CalibrationN == 0 {
		return apperrors.NewConfigError("-calibration-n must be positive")
	}
	if c.TUI && (c.Quiet || c.Calibrate) {
		return apperrors.NewConfigError("-tui cannot be combined with -quiet or -calibrate")
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return apperrors.NewConfigError("invalid log level %q", c.LogLevel)
	}
	switch c.GCMode {
	case GCModeAuto, GCModeAggressive, GCModeDisabled:
	default:
		return apperrors.NewConfigError("invalid gc mode %q (expected %s, %s or %s)",
			c.GCMode, GCModeAuto, GCModeAggressive, GCModeDisabled)
	}
	return nil
}

// ParseConfig builds the configuration for programName from args. Parse and
// usage errors are written to errWriter. When -h is given the returned error
// wraps flag.ErrHelp.
func ParseConfig(programName string, args []string, errWriter io.Writer, availableAlgos []string) (AppConfig, error) {
	cfg, err := loadEnv()
	if err != nil {
		return AppConfig{}, err
	}

	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errWriter)
	fs.Usage = func() {
		fmt.Fprintf(errWriter, "Usage: %s [flags] [number [core_count]]\n\n", programName)
		fmt.Fprintf(errWriter, "Computes F(number) by splitting the work into a tree of at most\n")
		fmt.Fprintf(errWriter, "core_count leaves evaluated concurrently.\n\nFlags:\n")
		fs.PrintDefaults()
	}

	fs.Uint64Var(&cfg.N, "n", cfg.N, "Index of the Fibonacci number to calculate.")
	fs.Uint64Var(&cfg.Budget, "budget", cfg.Budget, "Parallelism budget (0 = number of logical CPUs).")
	fs.Uint64Var(&cfg.Budget, "cores", cfg.Budget, "Alias for -budget.")
	fs.Uint64Var(&cfg.Threshold, "threshold", cfg.Threshold, "Evaluate subtrees of at most this many leaves sequentially (0 = never).")
	fs.StringVar(&cfg.Algo, "algo", cfg.Algo, fmt.Sprintf("Algorithm: %s or %s.", strings.Join(availableAlgos, ", "), fibonacci.AlgoAll))
	fs.BoolVar(&cfg.ShowValue, "calculate", cfg.ShowValue, "Print the calculated value.")
	fs.BoolVar(&cfg.ShowValue, "c", cfg.ShowValue, "Shorthand for -calculate.")
	fs.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "Print the full value without truncation.")
	fs.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "Shorthand for -verbose.")
	fs.BoolVar(&cfg.Details, "details", cfg.Details, "Print bits, digits, tree shape, memory and host statistics.")
	fs.BoolVar(&cfg.Details, "d", cfg.Details, "Shorthand for -details.")
	fs.BoolVar(&cfg.Quiet, "quiet", cfg.Quiet, "Print only the value.")
	fs.BoolVar(&cfg.Quiet, "q", cfg.Quiet, "Shorthand for -quiet.")
	fs.StringVar(&cfg.OutputFile, "output", cfg.OutputFile, "Write the result to this file.")
	fs.StringVar(&cfg.OutputFile, "o", cfg.OutputFile, "Shorthand for -output.")
	fs.BoolVar(&cfg.Verify, "verify", cfg.Verify, "Cross-check the last digits with modular fast doubling.")
	fs.IntVar(&cfg.VerifyDigits, "verify-digits", cfg.VerifyDigits, "Number of trailing digits checked by -verify.")
	fs.StringVar(&cfg.MetricsFile, "metrics-file", cfg.MetricsFile, "Write Prometheus metrics in text format to this file on exit.")
	fs.BoolVar(&cfg.Calibrate, "calibrate", cfg.Calibrate, "Time the evaluator across budgets and report the fastest.")
	fs.BoolVar(&cfg.CalibrateQuick, "calibrate-quick", cfg.CalibrateQuick, "Like -calibrate, but only tries 1, the core count and twice the core count.")
	fs.Uint64Var(&cfg.CalibrationN, "calibration-n", cfg.CalibrationN, "Index used by -calibrate.")
	fs.BoolVar(&cfg.TUI, "tui", cfg.TUI, "Show the interactive dashboard.")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error.")
	fs.BoolVar(&cfg.NoColor, "no-color", cfg.NoColor, "Disable colored output.")
	fs.StringVar(&cfg.GCMode, "gc", cfg.GCMode, "Garbage collector control: auto, aggressive or disabled.")
	fs.StringVar(&cfg.OTLPEndpoint, "otlp-endpoint", cfg.OTLPEndpoint, "OTLP/HTTP endpoint URL for trace export.")

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}
	cfg.Calibrate = cfg.Calibrate || cfg.CalibrateQuick
	if err := applyPositional(&cfg, fs.Args()); err != nil {
		fmt.Fprintln(errWriter, err)
		fs.Usage()
		return AppConfig{}, err
	}
	if err := cfg.Validate(availableAlgos); err != nil {
		fmt.Fprintln(errWriter, err)
		return AppConfig{}, err
	}
	return cfg, nil
}

// applyPositional reads the optional "number" and "core_count" arguments.
func applyPositional(cfg *AppConfig, args []string) error {
	if len(args) > 2 {
		return apperrors.NewConfigError("too many arguments: %s", strings.Join(args, " "))
	}
	names := [...]string{"number", "core_count"}
	targets := [...]*uint64{&cfg.N, &cfg.Budget}
	for i, arg := range args {
		v, err := strconv.ParseUint(arg, 10, 64)
		if err != nil {
			return apperrors.NewConfigError("%s must be a non-negative integer, got %q", names[i], arg)
		}
		*targets[i] = v
	}
	return nil
}
