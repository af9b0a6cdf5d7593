package tui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/fibtree/internal/config"
	apperrors "github.com/agbru/fibtree/internal/errors"
	"github.com/agbru/fibtree/internal/fibonacci"
	"github.com/agbru/fibtree/internal/format"
	"github.com/agbru/fibtree/internal/metrics"
	"github.com/agbru/fibtree/internal/orchestration"
	"github.com/agbru/fibtree/internal/sysmon"
)

// Layout constants for the dashboard.
const (
	headerHeight       = 1
	footerHeight       = 1
	metricsPanelHeight = 9
	minLogHeight       = 3
	progressBarWidth   = 30
	tickInterval       = 500 * time.Millisecond
)

// VerifyMsg reports the outcome of the trailing-digit cross-check.
type VerifyMsg struct {
	Digits int
	Err    error
}

// Model is the root bubbletea model of the dashboard.
type Model struct {
	header  HeaderModel
	metrics MetricsModel
	logs    viewport.Model
	help    help.Model
	keymap  KeyMap

	logLines []string
	names    []string
	progress []float64
	average  float64
	eta      time.Duration

	ctx         context.Context
	calculators []fibonacci.Calculator
	config      config.AppConfig
	ref         *programRef

	width    int
	height   int
	paused   bool
	done     bool
	failed   bool
	exitCode int
}

// NewModel creates the dashboard for one run of the given calculators.
func NewModel(ctx context.Context, calculators []fibonacci.Calculator, cfg config.AppConfig, version string) Model {
	names := make([]string, len(calculators))
	for i, c := range calculators {
		names[i] = c.Name()
	}

	m := Model{
		header:      NewHeaderModel(version, cfg.N, cfg.Budget),
		metrics:     NewMetricsModel(),
		logs:        viewport.New(0, minLogHeight),
		help:        help.New(),
		keymap:      DefaultKeyMap(),
		names:       names,
		progress:    make([]float64, len(calculators)),
		ctx:         ctx,
		calculators: calculators,
		config:      cfg,
		ref:         &programRef{},
		exitCode:    apperrors.ExitSuccess,
	}
	m.appendLog(dimStyle.Render(fmt.Sprintf("computing F(%d) with budget %d, threshold %d",
		cfg.N, cfg.Budget, cfg.Threshold)))
	if cfg.BudgetFromHost {
		m.appendLog(dimStyle.Render("budget derived from the host CPU count"))
	}
	return m
}

// Init starts the calculation and the sampling ticker.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		startCalculationCmd(m.ref, m.ctx, m.calculators, m.config),
	)
}

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil

	case ProgressMsg:
		if msg.CalculatorIndex >= 0 && msg.CalculatorIndex < len(m.progress) {
			m.progress[msg.CalculatorIndex] = msg.Value
		}
		m.average = msg.AverageProgress
		m.eta = msg.ETA
		m.metrics.UpdateProgress(msg.AverageProgress)
		return m, nil

	case ProgressDoneMsg:
		return m, nil

	case ComparisonResultsMsg:
		for _, res := range msg.Results {
			if res.Err != nil {
				m.appendLog(logErrorStyle.Render(fmt.Sprintf("✗ %s: %v", res.Name, res.Err)))
				continue
			}
			m.appendLog(fmt.Sprintf("✓ %s in %s", res.Name, format.FormatExecutionDuration(res.Duration)))
		}
		return m, nil

	case FinalResultMsg:
		m.appendResult(msg)
		if m.config.Verify && msg.Result.Result != nil {
			return m, verifyCmd(msg.Opts.N, msg.Result, m.config.VerifyDigits)
		}
		return m, nil

	case VerifyMsg:
		if msg.Err != nil {
			m.appendLog(logErrorStyle.Render(fmt.Sprintf("verification failed: %v", msg.Err)))
			m.failed = true
			m.exitCode = apperrors.ExitErrorMismatch
			return m, nil
		}
		m.appendLog(logSuccessStyle.Render(fmt.Sprintf("✓ last %d digits match modular fast doubling", msg.Digits)))
		return m, nil

	case ErrorMsg:
		m.appendLog(logErrorStyle.Render(fmt.Sprintf("error: %v", msg.Err)))
		m.failed = true
		return m, nil

	case CalculationCompleteMsg:
		m.done = true
		// A failed verification may already have set a non-zero code.
		if m.exitCode == apperrors.ExitSuccess {
			m.exitCode = msg.ExitCode
		}
		if msg.ExitCode == apperrors.ExitErrorMismatch {
			m.failed = true
			m.appendLog(logErrorStyle.Render("calculators disagree on the result"))
		}
		m.header.SetDone()
		return m, nil

	case TickMsg:
		if m.done {
			return m, nil
		}
		if m.paused {
			return m, tickCmd()
		}
		return m, tea.Batch(sampleMemStatsCmd(), sampleSysStatsCmd(), tickCmd())

	case MemStatsMsg:
		m.metrics.UpdateMemStats(msg)
		return m, nil

	case SysStatsMsg:
		m.metrics.UpdateSysStats(msg)
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Pause):
		m.paused = !m.paused
		return m, nil

	case key.Matches(msg, m.keymap.Up), key.Matches(msg, m.keymap.Down),
		key.Matches(msg, m.keymap.PageUp), key.Matches(msg, m.keymap.PageDown):
		var cmd tea.Cmd
		m.logs, cmd = m.logs.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}
	body := lipgloss.JoinVertical(lipgloss.Left,
		m.progressView(),
		m.metrics.View(),
		panelStyle.Width(max(m.width-2, 0)).Render(m.logs.View()),
	)
	return lipgloss.JoinVertical(lipgloss.Left, m.header.View(), body, m.footerView())
}

func (m Model) progressView() string {
	var b strings.Builder
	for i, name := range m.names {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, " %-22s %s %6.2f%%", name, format.ProgressBar(m.progress[i], progressBarWidth), m.progress[i]*100)
	}
	if len(m.names) > 1 {
		fmt.Fprintf(&b, "\n %-22s %s", "average", format.FormatProgressBarWithETA(m.average, m.eta, progressBarWidth))
	}
	return panelStyle.Width(max(m.width-2, 0)).Render(b.String())
}

func (m Model) footerView() string {
	var status string
	switch {
	case m.failed:
		status = statusErrorStyle.Render("FAILED")
	case m.done:
		status = statusDoneStyle.Render("DONE")
	case m.paused:
		status = statusPausedStyle.Render("PAUSED")
	default:
		status = statusRunningStyle.Render("RUNNING")
	}
	return " " + status + "  " + m.help.View(m.keymap)
}

func (m *Model) appendLog(line string) {
	m.logLines = append(m.logLines, line)
	m.logs.SetContent(strings.Join(m.logLines, "\n"))
	m.logs.GotoBottom()
}

func (m *Model) appendResult(msg FinalResultMsg) {
	res := msg.Result
	m.appendLog(logSuccessStyle.Render(fmt.Sprintf("F(%d) computed by %s in %s",
		msg.Opts.N, res.Name, format.FormatExecutionDuration(res.Duration))))
	if res.Result == nil {
		return
	}
	m.appendLog(fmt.Sprintf("digits: %s", format.FormatNumberString(fmt.Sprint(fibonacci.Digits(res.Result)))))
	if msg.Opts.ShowValue {
		value := res.Result.String()
		if !msg.Opts.Verbose && len(value) > 2*truncationEdge {
			value = value[:truncationEdge] + "..." + value[len(value)-truncationEdge:]
		}
		m.appendLog("value: " + value)
	}
}

// truncationEdge is how many leading and trailing digits a non-verbose
// value keeps.
const truncationEdge = 20

func (m *Model) layout() {
	m.header.SetWidth(m.width)
	m.metrics.SetSize(m.width, metricsPanelHeight)
	m.help.Width = m.width

	progressHeight := len(m.names) + 2
	if len(m.names) > 1 {
		progressHeight++
	}
	logHeight := m.height - headerHeight - footerHeight - metricsPanelHeight - progressHeight - 2
	m.logs.Width = max(m.width-4, 0)
	m.logs.Height = max(logHeight, minLogHeight)
}

// Run shows the dashboard while the calculators compute F(cfg.N) and returns
// the process exit code. Quitting before the run completes yields
// ExitErrorGeneric.
func Run(ctx context.Context, calculators []fibonacci.Calculator, cfg config.AppConfig, version string) int {
	initTUIStyles()

	model := NewModel(ctx, calculators, cfg, version)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	model.ref.Attach(p.Send)

	finalModel, err := p.Run()
	if err != nil {
		return apperrors.ExitErrorGeneric
	}
	m, ok := finalModel.(Model)
	if !ok || !m.done {
		return apperrors.ExitErrorGeneric
	}
	return m.exitCode
}

// startCalculationCmd runs the orchestration and reports its exit code.
func startCalculationCmd(ref *programRef, ctx context.Context, calculators []fibonacci.Calculator, cfg config.AppConfig) tea.Cmd {
	return func() tea.Msg {
		reporter := &TUIProgressReporter{ref: ref}
		presenter := &TUIResultPresenter{ref: ref}

		results := orchestration.ExecuteCalculations(ctx, calculators, cfg, reporter, io.Discard)
		presOpts := orchestration.PresentationOptions{
			N:         cfg.N,
			Verbose:   cfg.Verbose,
			Details:   cfg.Details,
			ShowValue: cfg.ShowValue,
		}
		exitCode := orchestration.AnalyzeComparisonResults(results, presOpts, presenter, io.Discard)
		return CalculationCompleteMsg{ExitCode: exitCode}
	}
}

func verifyCmd(n uint64, res orchestration.CalculationResult, digits int) tea.Cmd {
	return func() tea.Msg {
		return VerifyMsg{Digits: digits, Err: fibonacci.VerifyLastDigits(n, res.Result, digits)}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func sampleMemStatsCmd() tea.Cmd {
	return func() tea.Msg {
		s := metrics.ReadRuntime()
		return MemStatsMsg{
			Alloc:        s.HeapAlloc,
			HeapInuse:    s.HeapInuse,
			NumGC:        s.NumGC,
			PauseTotalNs: s.PauseTotalNs,
			NumGoroutine: s.Goroutines,
		}
	}
}

func sampleSysStatsCmd() tea.Cmd {
	return func() tea.Msg {
		s := sysmon.Sample()
		return SysStatsMsg{CPUPercent: s.CPUPercent, MemPercent: s.MemPercent}
	}
}
