// Package app wires configuration, logging, metrics and tracing around the
// calculation and calibration commands.
package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/agbru/fibtree/internal/calibration"
	"github.com/agbru/fibtree/internal/cli"
	"github.com/agbru/fibtree/internal/config"
	apperrors "github.com/agbru/fibtree/internal/errors"
	"github.com/agbru/fibtree/internal/fibonacci"
	"github.com/agbru/fibtree/internal/logging"
	"github.com/agbru/fibtree/internal/metrics"
	"github.com/agbru/fibtree/internal/orchestration"
	"github.com/agbru/fibtree/internal/telemetry"
	"github.com/agbru/fibtree/internal/tui"
	"github.com/agbru/fibtree/internal/ui"
)

const (
	programName = "fibtree"
	// shutdownTimeout bounds the final span flush.
	shutdownTimeout = 5 * time.Second
)

// Application represents the fibtree application instance.
type Application struct {
	Config    config.AppConfig
	Factory   fibonacci.CalculatorFactory
	ErrWriter io.Writer
	Logger    logging.Logger
	Metrics   *metrics.Collector

	hostBudget uint64
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithFactory sets a custom CalculatorFactory for the application.
func WithFactory(f fibonacci.CalculatorFactory) AppOption {
	return func(a *Application) { a.Factory = f }
}

// WithHostBudget overrides the budget used when none is configured, which
// otherwise is the host's logical CPU count.
func WithHostBudget(budget uint64) AppOption {
	return func(a *Application) { a.hostBudget = budget }
}

// New creates an Application by parsing command-line arguments. args[0] is
// the program name.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	app := &Application{ErrWriter: errWriter}
	for _, opt := range opts {
		opt(app)
	}

	availableAlgos := fibonacci.NewDefaultFactory(nil, nil).List()
	if app.Factory != nil {
		availableAlgos = app.Factory.List()
	}

	name := programName
	var cmdArgs []string
	if len(args) > 0 {
		name = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(name, cmdArgs, errWriter, availableAlgos)
	if err != nil {
		return nil, err
	}
	if app.hostBudget == 0 {
		app.hostBudget = config.DefaultBudget()
	}
	app.Config = config.ApplyHostDefaults(cfg, app.hostBudget)

	level, err := zerolog.ParseLevel(app.Config.LogLevel)
	if err != nil {
		return nil, apperrors.NewConfigError("invalid log level %q", app.Config.LogLevel)
	}
	app.Logger = logging.NewConsole(errWriter, programName, level, app.Config.NoColor)
	app.Metrics = metrics.NewCollector()
	if app.Factory == nil {
		app.Factory = fibonacci.NewDefaultFactory(app.Logger, app.Metrics)
	}

	app.Logger.Debug("configuration resolved",
		logging.Uint64("n", app.Config.N),
		logging.Uint64("budget", app.Config.Budget),
		logging.String("algo", app.Config.Algo),
		logging.String("gc", app.Config.GCMode))
	return app, nil
}

// Run executes the configured command and returns the process exit code.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	ui.InitTheme(a.Config.NoColor)

	shutdown, err := telemetry.Setup(ctx, programName, Version, a.Config.OTLPEndpoint)
	if err != nil {
		a.Logger.Error("trace export disabled", err, logging.String("endpoint", a.Config.OTLPEndpoint))
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdown(flushCtx); err != nil {
			a.Logger.Error("trace flush failed", err)
		}
	}()

	var code int
	switch {
	case a.Config.Calibrate:
		code = a.runCalibration(ctx, out)
	case a.Config.TUI:
		code = tui.Run(ctx, orchestration.GetCalculatorsToRun(a.Config.Algo, a.Factory), a.Config, Version)
	default:
		code = a.runCalculate(ctx, out)
	}

	if err := a.writeMetrics(); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error writing metrics: %v\n", err)
		if code == apperrors.ExitSuccess {
			code = apperrors.ExitErrorGeneric
		}
	}
	return code
}

// runCalibration times the tree calculator across budgets.
func (a *Application) runCalibration(ctx context.Context, out io.Writer) int {
	calc, err := a.Factory.Get(fibonacci.AlgoTree)
	if err != nil {
		return cli.CLIResultPresenter{}.HandleError(err, 0, a.ErrWriter)
	}
	runner := calibration.Runner{Calculator: calc, Logger: a.Logger, Quick: a.Config.CalibrateQuick}
	if _, err := runner.Run(ctx, a.Config, out); err != nil {
		return cli.CLIResultPresenter{}.HandleError(err, 0, out)
	}
	return apperrors.ExitSuccess
}

func (a *Application) writeMetrics() error {
	if a.Config.MetricsFile == "" {
		return nil
	}
	if err := a.Metrics.WriteTextfile(a.Config.MetricsFile); err != nil {
		return err
	}
	a.Logger.Debug("metrics written", logging.String("path", a.Config.MetricsFile))
	return nil
}

// IsHelpError checks if the error is a help flag error (--help was used).
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
