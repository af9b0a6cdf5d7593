package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/fibtree/internal/format"
)

// sparklineSamples is the default history kept for the host sparklines.
const sparklineSamples = 40

// MetricsModel is the dashboard panel for runtime and host statistics.
type MetricsModel struct {
	alloc        uint64
	heapInuse    uint64
	numGC        uint32
	pauseTotalNs uint64
	numGoroutine int
	rate         rateMeter
	cpu          *History
	mem          *History
	width        int
	height       int
}

// NewMetricsModel creates a new metrics panel.
func NewMetricsModel() MetricsModel {
	return MetricsModel{
		rate:       newRateMeter(time.Now),
		cpu:        NewHistory(sparklineSamples),
		mem:        NewHistory(sparklineSamples),
	}
}

// SetSize updates dimensions. The sparkline history follows the width.
func (m *MetricsModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	if samples := w - 18; samples > 0 {
		m.cpu.SetLimit(samples)
		m.mem.SetLimit(samples)
	}
}

// UpdateMemStats stores a runtime memory sample.
func (m *MetricsModel) UpdateMemStats(msg MemStatsMsg) {
	m.alloc = msg.Alloc
	m.heapInuse = msg.HeapInuse
	m.numGC = msg.NumGC
	m.pauseTotalNs = msg.PauseTotalNs
	m.numGoroutine = msg.NumGoroutine
}

// UpdateSysStats appends a host sample to the sparklines.
func (m *MetricsModel) UpdateSysStats(msg SysStatsMsg) {
	m.cpu.Add(msg.CPUPercent)
	m.mem.Add(msg.MemPercent)
}

// UpdateProgress feeds the average leaf fraction into the speed estimate.
func (m *MetricsModel) UpdateProgress(progress float64) { m.rate.observe(progress) }

// View renders the metrics panel.
func (m MetricsModel) View() string {
	var rows strings.Builder
	rows.WriteString(titleStyle.Render("Metrics"))

	colWidth := max((m.width-6)/2, 0)
	speed := "-"
	if r := m.rate.perSecond; r > 0 {
		speed = fmt.Sprintf("%.1f%%/s", r*100)
	}

	left := []string{
		formatMetricCol("Heap:", format.FormatBytes(m.alloc), colWidth),
		formatMetricCol("In use:", format.FormatBytes(m.heapInuse), colWidth),
		formatMetricCol("Speed:", speed, colWidth),
	}
	right := []string{
		formatMetricCol("GC Runs:", fmt.Sprintf("%d", m.numGC), colWidth),
		formatMetricCol("GC Pause:", fmt.Sprintf("%.1fms", float64(m.pauseTotalNs)/1e6), colWidth),
		formatMetricCol("Goroutines:", fmt.Sprintf("%d", m.numGoroutine), colWidth),
	}
	for i := range left {
		rows.WriteString("\n")
		rows.WriteString(left[i])
		rows.WriteString(right[i])
	}

	rows.WriteString("\n")
	rows.WriteString(sparkRow("CPU", m.cpu))
	rows.WriteString("\n")
	rows.WriteString(sparkRow("MEM", m.mem))

	return panelStyle.
		Width(max(m.width-2, 0)).
		Height(max(m.height-2, 0)).
		Render(rows.String())
}

func sparkRow(label string, h *History) string {
	return fmt.Sprintf(" %s %s %s",
		metricLabelStyle.Render(label),
		accentStyle.Render(RenderSparkline(h.Values())),
		metricValueStyle.Render(fmt.Sprintf("%5.1f%%", h.Latest())))
}

func formatMetricCol(label, value string, colWidth int) string {
	cell := fmt.Sprintf(" %s %s",
		metricLabelStyle.Render(fmt.Sprintf("%-12s", label)),
		metricValueStyle.Render(value))
	if visible := lipgloss.Width(cell); visible < colWidth {
		cell += strings.Repeat(" ", colWidth-visible)
	}
	return cell
}

// rateMeter estimates progress per second with an exponential moving
// average. Samples closer than minRateInterval are folded into the next one.
type rateMeter struct {
	now       func() time.Time
	last      time.Time
	progress  float64
	perSecond float64
}

const (
	minRateInterval = 50 * time.Millisecond
	rateSmoothing   = 0.3 // weight of the newest sample
)

func newRateMeter(now func() time.Time) rateMeter {
	return rateMeter{now: now, last: now()}
}

func (r *rateMeter) observe(progress float64) {
	t := r.now()
	dt := t.Sub(r.last)
	if dt < minRateInterval {
		return
	}
	if dp := progress - r.progress; dp > 0 {
		sample := dp / dt.Seconds()
		if r.perSecond == 0 {
			r.perSecond = sample
		} else {
			r.perSecond += rateSmoothing * (sample - r.perSecond)
		}
	}
	r.progress, r.last = progress, t
}
