package apperrors

import (
	"errors"
	"fmt"
	"io"
	"time"
)

// Application exit codes define the standard exit statuses for the application.
// These codes are used to signal the outcome of the program execution to the OS.
const (
	ExitSuccess       = 0 // Indicates successful execution.
	ExitErrorGeneric  = 1 // Indicates a generic error.
	ExitErrorMismatch = 3 // Indicates a result mismatch between calculators or a failed verification.
	ExitErrorConfig   = 4 // Indicates a configuration error.
	ExitErrorDomain   = 5 // Indicates a decomposition index left the non-negative domain.
)

// ConfigError represents a user configuration error, such as invalid flags or
// values. It indicates that the application cannot proceed due to incorrect user input.
type ConfigError struct {
	// Message explains the specific configuration error.
	Message string
}

// Error returns the error message for a ConfigError.
func (e ConfigError) Error() string { return e.Message }

// NewConfigError creates a new ConfigError with a formatted message.
//
// Parameters:
//   - format: A format string (see fmt.Sprintf).
//   - a: Arguments to be formatted into the string.
//
// Returns:
//   - error: A new ConfigError instance containing the formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// CalculationError encapsulates a calculator failure while preserving the
// original cause.
type CalculationError struct {
	// Calculator is the name of the calculator that failed.
	Calculator string
	// Cause is the underlying error that triggered this calculation error.
	Cause error
}

// Error returns the calculator name followed by the underlying cause.
func (e CalculationError) Error() string {
	if e.Calculator == "" {
		return e.Cause.Error()
	}
	return fmt.Sprintf("%s: %v", e.Calculator, e.Cause)
}

// Unwrap returns the original wrapped error, allowing for error chain
// inspection (e.g., using errors.Is or errors.As).
func (e CalculationError) Unwrap() error { return e.Cause }

// ValidationError represents an input validation failure. It identifies which
// field failed validation and provides a human-readable explanation.
type ValidationError struct {
	// Field is the name of the field that failed validation.
	Field string
	// Message explains the validation failure.
	Message string
}

// Error returns a formatted message describing the validation failure.
func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error for %q: %s", e.Field, e.Message)
}

// DomainError reports a decomposition step whose index subtraction would
// leave the non-negative range. Index - Offset is the value that could not be
// represented.
type DomainError struct {
	// Index is the index of the node being split.
	Index uint64
	// Offset is the amount subtracted from Index (1 or 2).
	Offset uint64
	// Budget is the budget remaining at the node being split.
	Budget uint64
}

// Error returns a formatted message describing the domain violation.
func (e DomainError) Error() string {
	return fmt.Sprintf("domain violation: index %d - %d is negative (budget %d at this node)",
		e.Index, e.Offset, e.Budget)
}

// EvaluationError reports a failure discovered while evaluating a
// decomposition tree. The whole evaluation is aborted; no partial value is
// returned alongside it.
type EvaluationError struct {
	// Cause is the underlying failure.
	Cause error
}

// Error returns the evaluation failure message.
func (e EvaluationError) Error() string {
	return fmt.Sprintf("evaluation failed: %v", e.Cause)
}

// Unwrap returns the underlying failure.
func (e EvaluationError) Unwrap() error { return e.Cause }

// ErrMalformedTree is the cause of an EvaluationError raised for a tree node
// that is neither a leaf nor a pair (typically a nil subtree).
var ErrMalformedTree = errors.New("malformed decomposition tree")

// WrapError wraps an error with additional context using fmt.Errorf and %w.
// This allows the wrapped error to be unwrapped with errors.Unwrap() and
// checked with errors.Is() and errors.As().
//
// Parameters:
//   - err: The error to wrap.
//   - format: A format string for the context message.
//   - args: Arguments for the format string.
//
// Returns:
//   - error: The wrapped error, or nil if err is nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// ColorProvider supplies the escape sequences used when printing errors.
type ColorProvider interface {
	Red() string
	Yellow() string
	Reset() string
}

// HandleCalculationError prints a user-facing description of err and maps it
// to an exit code. A nil error yields ExitSuccess without output.
func HandleCalculationError(err error, duration time.Duration, out io.Writer, colors ColorProvider) int {
	if err == nil {
		return ExitSuccess
	}

	suffix := ""
	if duration > 0 {
		suffix = fmt.Sprintf(" after %s", duration)
	}

	var domainErr DomainError
	if errors.As(err, &domainErr) {
		fmt.Fprintf(out, "%sDomain violation%s%s: %v\n", colors.Red(), colors.Reset(), suffix, err)
		fmt.Fprintf(out, "%sHint:%s lower the budget or raise the index (index must be at least 2 at every split).\n",
			colors.Yellow(), colors.Reset())
		return ExitErrorDomain
	}

	var configErr ConfigError
	if errors.As(err, &configErr) {
		fmt.Fprintf(out, "%sConfiguration error%s: %v\n", colors.Red(), colors.Reset(), err)
		return ExitErrorConfig
	}

	fmt.Fprintf(out, "%sCalculation failed%s%s: %v\n", colors.Red(), colors.Reset(), suffix, err)
	return ExitErrorGeneric
}
