package tui

import (
	"context"
	"errors"
	"math/big"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/agbru/fibtree/internal/config"
	apperrors "github.com/agbru/fibtree/internal/errors"
	"github.com/agbru/fibtree/internal/fibonacci"
	"github.com/agbru/fibtree/internal/orchestration"
)

func newTestModel(t *testing.T, cfg config.AppConfig) Model {
	t.Helper()
	calcs := []fibonacci.Calculator{&fibonacci.TreeCalculator{}, fibonacci.IterativeCalculator{}}
	m := NewModel(context.Background(), calcs, cfg, "v1.0.0")
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return updated.(Model)
}

func send(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

func TestModel_ProgressUpdatesBars(t *testing.T) {
	m := newTestModel(t, config.AppConfig{N: 100, Budget: 4})

	m, _ = send(t, m, ProgressMsg{CalculatorIndex: 1, Value: 0.5, AverageProgress: 0.25, ETA: time.Second})
	if m.progress[1] != 0.5 {
		t.Errorf("progress[1] = %f, want 0.5", m.progress[1])
	}
	if m.average != 0.25 {
		t.Errorf("average = %f, want 0.25", m.average)
	}

	// Out-of-range indices are ignored.
	m, _ = send(t, m, ProgressMsg{CalculatorIndex: 7, Value: 1})
	if len(m.progress) != 2 {
		t.Fatalf("progress grew to %d entries", len(m.progress))
	}

	view := m.View()
	for _, want := range []string{"Decomposition Tree", "Sequential Iteration", "average", "fibtree v1.0.0"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestModel_CompletionSetsExitCode(t *testing.T) {
	m := newTestModel(t, config.AppConfig{N: 10, Budget: 2})

	m, _ = send(t, m, FinalResultMsg{
		Result: orchestration.CalculationResult{Name: "Decomposition Tree", Result: big.NewInt(55), Duration: time.Millisecond},
		Opts:   orchestration.PresentationOptions{N: 10, ShowValue: true},
	})
	m, _ = send(t, m, CalculationCompleteMsg{ExitCode: apperrors.ExitSuccess})

	if !m.done || m.exitCode != apperrors.ExitSuccess {
		t.Errorf("done=%v exitCode=%d, want done with success", m.done, m.exitCode)
	}
	logs := strings.Join(m.logLines, "\n")
	if !strings.Contains(logs, "F(10) computed by Decomposition Tree") {
		t.Errorf("logs missing result line:\n%s", logs)
	}
	if !strings.Contains(logs, "value: 55") {
		t.Errorf("logs missing value:\n%s", logs)
	}
	if !strings.Contains(m.footerView(), "DONE") {
		t.Error("footer should report DONE")
	}

	// Ticks stop once the run is done.
	if _, cmd := send(t, m, TickMsg(time.Now())); cmd != nil {
		t.Error("tick after completion should not schedule more work")
	}
}

func TestModel_MismatchIsReported(t *testing.T) {
	m := newTestModel(t, config.AppConfig{N: 10, Budget: 2})
	m, _ = send(t, m, CalculationCompleteMsg{ExitCode: apperrors.ExitErrorMismatch})

	if m.exitCode != apperrors.ExitErrorMismatch || !m.failed {
		t.Errorf("exitCode=%d failed=%v, want mismatch", m.exitCode, m.failed)
	}
	if !strings.Contains(m.footerView(), "FAILED") {
		t.Error("footer should report FAILED")
	}
}

func TestModel_VerifyRunsOnFinalResult(t *testing.T) {
	m := newTestModel(t, config.AppConfig{N: 100, Budget: 4, Verify: true, VerifyDigits: 8})
	res := orchestration.CalculationResult{Name: "Decomposition Tree", Result: fibonacci.Compute(100)}

	m, cmd := send(t, m, FinalResultMsg{Result: res, Opts: orchestration.PresentationOptions{N: 100}})
	if cmd == nil {
		t.Fatal("expected a verification command")
	}
	msg, ok := cmd().(VerifyMsg)
	if !ok {
		t.Fatalf("command returned %T, want VerifyMsg", cmd())
	}
	if msg.Err != nil {
		t.Fatalf("verification of a correct value failed: %v", msg.Err)
	}
	m, _ = send(t, m, msg)
	m, _ = send(t, m, CalculationCompleteMsg{ExitCode: apperrors.ExitSuccess})
	if m.exitCode != apperrors.ExitSuccess {
		t.Errorf("exitCode = %d, want success", m.exitCode)
	}
}

func TestModel_FailedVerificationWins(t *testing.T) {
	m := newTestModel(t, config.AppConfig{N: 100, Budget: 4, Verify: true, VerifyDigits: 8})

	m, _ = send(t, m, VerifyMsg{Digits: 8, Err: errors.New("last 8 digits differ")})
	m, _ = send(t, m, CalculationCompleteMsg{ExitCode: apperrors.ExitSuccess})
	if m.exitCode != apperrors.ExitErrorMismatch {
		t.Errorf("exitCode = %d, want %d", m.exitCode, apperrors.ExitErrorMismatch)
	}
}

func TestModel_ErrorMsgMarksFailure(t *testing.T) {
	m := newTestModel(t, config.AppConfig{N: 1, Budget: 4})
	m, _ = send(t, m, ErrorMsg{Err: apperrors.DomainError{Index: 1, Offset: 2, Budget: 4}})
	if !m.failed {
		t.Error("error message should mark the run as failed")
	}
	if !strings.Contains(strings.Join(m.logLines, "\n"), "domain violation") {
		t.Error("logs should describe the domain violation")
	}
}

func TestModel_PauseStopsSampling(t *testing.T) {
	m := newTestModel(t, config.AppConfig{N: 10, Budget: 2})
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if !m.paused {
		t.Fatal("space should pause the dashboard")
	}
	if !strings.Contains(m.footerView(), "PAUSED") {
		t.Error("footer should report PAUSED")
	}
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'p'}})
	if m.paused {
		t.Error("p should resume the dashboard")
	}
}

func TestModel_QuitKey(t *testing.T) {
	m := newTestModel(t, config.AppConfig{N: 10, Budget: 2})
	_, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit the program")
	}
}

func TestModel_SysStatsFeedSparklines(t *testing.T) {
	m := newTestModel(t, config.AppConfig{N: 10, Budget: 2})
	m, _ = send(t, m, SysStatsMsg{CPUPercent: 50, MemPercent: 25})
	if m.metrics.cpu.Latest() != 50 || m.metrics.mem.Latest() != 25 {
		t.Errorf("sparklines = %f/%f, want 50/25", m.metrics.cpu.Latest(), m.metrics.mem.Latest())
	}
}

func TestStartCalculationCmd_RunsOrchestration(t *testing.T) {
	calcs := []fibonacci.Calculator{&fibonacci.TreeCalculator{}, fibonacci.IterativeCalculator{}}
	cmd := startCalculationCmd(&programRef{}, context.Background(), calcs, config.AppConfig{N: 200, Budget: 4})

	msg, ok := cmd().(CalculationCompleteMsg)
	if !ok {
		t.Fatal("expected a CalculationCompleteMsg")
	}
	if msg.ExitCode != apperrors.ExitSuccess {
		t.Errorf("exit code = %d, want success", msg.ExitCode)
	}
}

func TestStartCalculationCmd_DomainError(t *testing.T) {
	calcs := []fibonacci.Calculator{&fibonacci.TreeCalculator{}}
	cmd := startCalculationCmd(&programRef{}, context.Background(), calcs, config.AppConfig{N: 1, Budget: 4})

	msg := cmd().(CalculationCompleteMsg)
	if msg.ExitCode != apperrors.ExitErrorDomain {
		t.Errorf("exit code = %d, want %d", msg.ExitCode, apperrors.ExitErrorDomain)
	}
}
