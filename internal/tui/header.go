package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/fibtree/internal/fibonacci"
	"github.com/agbru/fibtree/internal/format"
)

// HeaderModel renders the top bar: title, run parameters and elapsed time.
type HeaderModel struct {
	startTime time.Time
	endTime   time.Time
	version   string
	n         uint64
	budget    uint64
	width     int
}

// NewHeaderModel creates a header for a run of F(n) with the given budget.
func NewHeaderModel(version string, n, budget uint64) HeaderModel {
	return HeaderModel{
		startTime: time.Now(),
		version:   version,
		n:         n,
		budget:    budget,
	}
}

// SetDone freezes the elapsed timer.
func (h *HeaderModel) SetDone() {
	if h.endTime.IsZero() {
		h.endTime = time.Now()
	}
}

// SetWidth updates the available width.
func (h *HeaderModel) SetWidth(w int) {
	h.width = w
}

// Elapsed returns the running or frozen elapsed time.
func (h HeaderModel) Elapsed() time.Duration {
	if !h.endTime.IsZero() {
		return h.endTime.Sub(h.startTime)
	}
	return time.Since(h.startTime)
}

// View renders the header.
func (h HeaderModel) View() string {
	titleText := "fibtree"
	if h.version != "" && h.version != "dev" {
		titleText += " " + h.version
	}

	leaves := uint64(1) << fibonacci.LevelCount(h.budget)
	params := fmt.Sprintf("F(%s)  budget %d  leaves %d",
		format.FormatNumberString(fmt.Sprint(h.n)), h.budget, leaves)
	elapsed := "elapsed " + format.FormatExecutionDuration(h.Elapsed())

	sep := dimStyle.Render(" | ")
	row := titleStyle.Render(titleText) + sep + accentStyle.Render(params) + sep + dimStyle.Render(elapsed)

	gap := max(h.width-2-lipgloss.Width(row), 0)
	return headerStyle.Render(row + spaces(gap))
}

// spaces returns a string of n space characters.
func spaces(n int) string {
	if n <= 0 {
		return ""
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}
