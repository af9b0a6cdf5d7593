package app

import (
	"bytes"
	"context"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"testing"

	apperrors "github.com/agbru/fibtree/internal/errors"
	"github.com/agbru/fibtree/internal/fibonacci"
)

func newTestApp(t *testing.T, args ...string) (*Application, *bytes.Buffer) {
	t.Helper()
	var errBuf bytes.Buffer
	app, err := New(append([]string{"fibtree", "-no-color"}, args...), &errBuf, WithHostBudget(4))
	if err != nil {
		t.Fatalf("New(%v): %v\nstderr: %s", args, err, errBuf.String())
	}
	return app, &errBuf
}

func run(t *testing.T, args ...string) (int, string) {
	t.Helper()
	app, _ := newTestApp(t, args...)
	var out bytes.Buffer
	code := app.Run(context.Background(), &out)
	return code, out.String()
}

func TestNew_HostBudget(t *testing.T) {
	app, _ := newTestApp(t, "-n", "100")
	if app.Config.Budget != 4 || !app.Config.BudgetFromHost {
		t.Errorf("budget = %d (from host %v), want 4 from host", app.Config.Budget, app.Config.BudgetFromHost)
	}
}

func TestNew_PositionalArguments(t *testing.T) {
	app, _ := newTestApp(t, "50", "8")
	if app.Config.N != 50 || app.Config.Budget != 8 || app.Config.BudgetFromHost {
		t.Errorf("config = %+v, want N=50 budget=8", app.Config)
	}
}

func TestNew_BudgetClampedToN(t *testing.T) {
	app, _ := newTestApp(t, "3", "64")
	if app.Config.Budget != 3 {
		t.Errorf("budget = %d, want 3", app.Config.Budget)
	}
}

func TestNew_InvalidArguments(t *testing.T) {
	tests := [][]string{
		{"fibtree", "-algo", "fft"},
		{"fibtree", "abc"},
		{"fibtree", "1", "2", "3"},
		{"fibtree", "-gc", "sometimes"},
	}
	for _, args := range tests {
		var errBuf bytes.Buffer
		if _, err := New(args, &errBuf); err == nil {
			t.Errorf("New(%v) succeeded, want an error", args)
		}
	}
}

func TestNew_Help(t *testing.T) {
	var errBuf bytes.Buffer
	_, err := New([]string{"fibtree", "-h"}, &errBuf)
	if !IsHelpError(err) {
		t.Fatalf("New(-h) error = %v, want flag.ErrHelp", err)
	}
	if !strings.Contains(errBuf.String(), "[number [core_count]]") {
		t.Errorf("usage not printed:\n%s", errBuf.String())
	}
}

func TestRun_Calculate(t *testing.T) {
	code, out := run(t, "-c", "100", "4")
	if code != apperrors.ExitSuccess {
		t.Fatalf("exit code %d\n%s", code, out)
	}
	for _, want := range []string{
		"Calculating F(100) with 4 cores [tree_size=4]",
		"F(100) has 21 digits",
		"F(100) = 354,224,848,179,261,915,075",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output does not contain %q:\n%s", want, out)
		}
	}
}

func TestRun_HostBudgetMessage(t *testing.T) {
	_, out := run(t, "200")
	if !strings.Contains(out, "No core count specified, using 4 logical processors.") {
		t.Errorf("missing host budget message:\n%s", out)
	}
}

func TestRun_Quiet(t *testing.T) {
	code, out := run(t, "-q", "-verify", "93")
	if code != apperrors.ExitSuccess {
		t.Fatalf("exit code %d", code)
	}
	if out != "12200160415121876738\n" {
		t.Errorf("quiet output = %q", out)
	}
}

func TestRun_CompareAll(t *testing.T) {
	code, out := run(t, "-algo", "all", "-d", "-verify", "1000", "8")
	if code != apperrors.ExitSuccess {
		t.Fatalf("exit code %d\n%s", code, out)
	}
	for _, want := range []string{
		"Comparison Summary",
		"All valid results are consistent",
		"Verified",
		"Leaves:           8",
		"Memory Stats:",
		"Host Load:",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output does not contain %q:\n%s", want, out)
		}
	}
}

func TestRun_OutputAndMetricsFiles(t *testing.T) {
	dir := t.TempDir()
	resultPath := filepath.Join(dir, "f.txt")
	metricsPath := filepath.Join(dir, "fibtree.prom")

	code, _ := run(t, "-q", "-o", resultPath, "-metrics-file", metricsPath, "300", "8")
	if code != apperrors.ExitSuccess {
		t.Fatalf("exit code %d", code)
	}

	result, err := os.ReadFile(resultPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(result), fibonacci.Compute(300).String()) {
		t.Error("result file does not hold F(300)")
	}

	prom, err := os.ReadFile(metricsPath)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"fibtree_pairs_forked_total 7", "fibtree_tree_leaves 8"} {
		if !strings.Contains(string(prom), want) {
			t.Errorf("metrics do not contain %q", want)
		}
	}
}

func TestRun_Calibrate(t *testing.T) {
	code, out := run(t, "-calibrate", "-calibration-n", "2000")
	if code != apperrors.ExitSuccess {
		t.Fatalf("exit code %d\n%s", code, out)
	}
	if !strings.Contains(out, "(Optimal)") {
		t.Errorf("calibration table missing:\n%s", out)
	}
}

// brokenCalculator returns a value that is off by one.
type brokenCalculator struct{ err error }

func (brokenCalculator) Name() string { return "Broken" }

func (b brokenCalculator) Calculate(_ context.Context, _ chan<- fibonacci.ProgressUpdate, _ int, n uint64, _ fibonacci.Options) (*big.Int, error) {
	if b.err != nil {
		return nil, b.err
	}
	return new(big.Int).Add(fibonacci.Compute(n), big.NewInt(1)), nil
}

func runWithFactory(t *testing.T, factory fibonacci.CalculatorFactory, args ...string) int {
	t.Helper()
	var errBuf bytes.Buffer
	app, err := New(append([]string{"fibtree", "-no-color"}, args...), &errBuf, WithFactory(factory), WithHostBudget(2))
	if err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	return app.Run(context.Background(), &out)
}

func TestRun_ExitCodes(t *testing.T) {
	broken := fibonacci.NewFactory(map[string]fibonacci.Calculator{
		"broken":    brokenCalculator{},
		"iterative": fibonacci.IterativeCalculator{},
	})
	domain := fibonacci.NewFactory(map[string]fibonacci.Calculator{
		"tree": brokenCalculator{err: apperrors.DomainError{Index: 1, Offset: 2, Budget: 4}},
	})

	tests := []struct {
		name    string
		factory fibonacci.CalculatorFactory
		args    []string
		want    int
	}{
		{"results disagree", broken, []string{"-algo", "all", "100"}, apperrors.ExitErrorMismatch},
		{"verification fails", broken, []string{"-algo", "broken", "-verify", "100"}, apperrors.ExitErrorMismatch},
		{"quiet verification fails", broken, []string{"-algo", "broken", "-q", "-verify", "100"}, apperrors.ExitErrorMismatch},
		{"domain violation", domain, []string{"-algo", "tree", "100"}, apperrors.ExitErrorDomain},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := runWithFactory(t, tt.factory, tt.args...); got != tt.want {
				t.Errorf("exit code = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestHasVersionFlag(t *testing.T) {
	t.Parallel()
	tests := []struct {
		args []string
		want bool
	}{
		{nil, false},
		{[]string{"--version"}, true},
		{[]string{"-n", "10", "-V"}, true},
		{[]string{"100", "4"}, false},
	}
	for _, tt := range tests {
		if got := HasVersionFlag(tt.args); got != tt.want {
			t.Errorf("HasVersionFlag(%v) = %v, want %v", tt.args, got, tt.want)
		}
	}
}

func TestPrintVersion(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	PrintVersion(&buf)
	if !strings.HasPrefix(buf.String(), "fibtree "+Version) {
		t.Errorf("unexpected version output:\n%s", buf.String())
	}
}
