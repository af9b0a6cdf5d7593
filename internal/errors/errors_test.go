// Package apperrors provides tests for application error types.
package apperrors

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestConfigError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name        string
		err         error
		expected    string
		checkTypeAs bool
	}{
		{
			name:     "Error returns message",
			err:      ConfigError{Message: "invalid flag value"},
			expected: "invalid flag value",
		},
		{
			name:     "NewConfigError creates formatted error",
			err:      NewConfigError("invalid value %d for flag %s", 42, "--budget"),
			expected: "invalid value 42 for flag --budget",
		},
		{
			name:        "ConfigError type assertion",
			err:         NewConfigError("test error"),
			expected:    "test error",
			checkTypeAs: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if tt.err.Error() != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, tt.err.Error())
			}
			if tt.checkTypeAs {
				var configErr ConfigError
				if !errors.As(tt.err, &configErr) {
					t.Error("expected error to be ConfigError type")
				}
			}
		})
	}
}

func TestCalculationError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name        string
		calculator  string
		cause       error
		expectedMsg string
	}{
		{
			name:        "without calculator name",
			cause:       errors.New("division by zero"),
			expectedMsg: "division by zero",
		},
		{
			name:        "with calculator name",
			calculator:  "tree",
			cause:       errors.New("boom"),
			expectedMsg: "tree: boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := CalculationError{Calculator: tt.calculator, Cause: tt.cause}

			if err.Error() != tt.expectedMsg {
				t.Errorf("expected %q, got %q", tt.expectedMsg, err.Error())
			}
			if err.Unwrap() != tt.cause {
				t.Error("Unwrap should return the original cause")
			}
			if !errors.Is(err, tt.cause) {
				t.Errorf("errors.Is should find %v in the chain", tt.cause)
			}
		})
	}
}

func TestValidationError(t *testing.T) {
	t.Parallel()
	err := ValidationError{Field: "n", Message: "must be non-negative"}
	want := `validation error for "n": must be non-negative`
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}

	var validationErr ValidationError
	if !errors.As(WrapError(err, "config check failed"), &validationErr) {
		t.Fatal("errors.As should find ValidationError through WrapError")
	}
	if validationErr.Field != "n" {
		t.Errorf("expected Field %q, got %q", "n", validationErr.Field)
	}
}

func TestDomainError(t *testing.T) {
	t.Parallel()
	err := DomainError{Index: 1, Offset: 2, Budget: 4}
	want := "domain violation: index 1 - 2 is negative (budget 4 at this node)"
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}

	wrapped := EvaluationError{Cause: err}
	var domainErr DomainError
	if !errors.As(wrapped, &domainErr) {
		t.Fatal("errors.As should find DomainError through EvaluationError")
	}
	if domainErr.Index != 1 || domainErr.Offset != 2 {
		t.Errorf("unexpected DomainError fields: %+v", domainErr)
	}
}

func TestEvaluationError(t *testing.T) {
	t.Parallel()
	err := EvaluationError{Cause: ErrMalformedTree}
	if !errors.Is(err, ErrMalformedTree) {
		t.Error("errors.Is should find ErrMalformedTree in the chain")
	}
	if !strings.Contains(err.Error(), "evaluation failed") {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestWrapError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name        string
		original    error
		format      string
		args        []any
		expectedMsg string
		expectNil   bool
	}{
		{
			name:        "wraps error with context",
			original:    errors.New("file not found"),
			format:      "failed to load config",
			expectedMsg: "failed to load config: file not found",
		},
		{
			name:      "returns nil for nil error",
			original:  nil,
			format:    "some context",
			expectNil: true,
		},
		{
			name:        "supports format arguments",
			original:    errors.New("permission denied"),
			format:      "failed to write %s",
			args:        []any{"metrics.prom"},
			expectedMsg: "failed to write metrics.prom: permission denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			wrapped := WrapError(tt.original, tt.format, tt.args...)

			if tt.expectNil {
				if wrapped != nil {
					t.Error("WrapError(nil, ...) should return nil")
				}
				return
			}

			if wrapped == nil {
				t.Fatal("wrapped error should not be nil")
			}
			if wrapped.Error() != tt.expectedMsg {
				t.Errorf("expected %q, got %q", tt.expectedMsg, wrapped.Error())
			}
			if !errors.Is(wrapped, tt.original) {
				t.Errorf("wrapped error should preserve %v in the chain", tt.original)
			}
		})
	}
}

type plainColors struct{}

func (plainColors) Red() string    { return "" }
func (plainColors) Yellow() string { return "" }
func (plainColors) Reset() string  { return "" }

func TestHandleCalculationError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		err      error
		wantCode int
		contains string
	}{
		{"nil error", nil, ExitSuccess, ""},
		{"domain error", DomainError{Index: 0, Offset: 1, Budget: 2}, ExitErrorDomain, "Domain violation"},
		{"wrapped domain error", WrapError(DomainError{Index: 1, Offset: 2, Budget: 4}, "build"), ExitErrorDomain, "Hint"},
		{"config error", NewConfigError("bad algo"), ExitErrorConfig, "Configuration error"},
		{"evaluation error", EvaluationError{Cause: ErrMalformedTree}, ExitErrorGeneric, "Calculation failed after 1s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			code := HandleCalculationError(tt.err, time.Second, &buf, plainColors{})
			if code != tt.wantCode {
				t.Errorf("exit code = %d, want %d", code, tt.wantCode)
			}
			if tt.contains == "" {
				if buf.Len() != 0 {
					t.Errorf("expected no output, got %q", buf.String())
				}
				return
			}
			if !strings.Contains(buf.String(), tt.contains) {
				t.Errorf("output %q should contain %q", buf.String(), tt.contains)
			}
		})
	}
}

func TestExitCodes(t *testing.T) {
	t.Parallel()
	codes := map[string]int{
		"ExitSuccess":       ExitSuccess,
		"ExitErrorGeneric":  ExitErrorGeneric,
		"ExitErrorMismatch": ExitErrorMismatch,
		"ExitErrorConfig":   ExitErrorConfig,
		"ExitErrorDomain":   ExitErrorDomain,
	}

	if ExitSuccess != 0 {
		t.Errorf("ExitSuccess should be 0, got %d", ExitSuccess)
	}

	seen := make(map[int]string)
	for name, code := range codes {
		if existing, ok := seen[code]; ok {
			t.Errorf("duplicate exit code %d: %s and %s", code, existing, name)
		}
		seen[code] = name
	}
}
