package tui

import "strings"

// sparkBlocks are the eight block heights a sparkline is drawn with.
const sparkBlocks = "▁▂▃▄▅▆▇█"

// History keeps the most recent percentage samples of one gauge, oldest
// first. The zero value is unusable; use NewHistory.
type History struct {
	samples []float64
	limit   int
}

// NewHistory returns a history holding at most limit samples. Limits below
// one are raised to one.
func NewHistory(limit int) *History {
	limit = max(limit, 1)
	return &History{samples: make([]float64, 0, limit), limit: limit}
}

// Add appends v, dropping the oldest sample when the history is full.
func (h *History) Add(v float64) {
	if len(h.samples) == h.limit {
		copy(h.samples, h.samples[1:])
		h.samples = h.samples[:h.limit-1]
	}
	h.samples = append(h.samples, v)
}

// Len is the number of samples held.
func (h *History) Len() int { return len(h.samples) }

// Limit is the maximum number of samples held.
func (h *History) Limit() int { return h.limit }

// Latest returns the newest sample, or 0 when empty.
func (h *History) Latest() float64 {
	if len(h.samples) == 0 {
		return 0
	}
	return h.samples[len(h.samples)-1]
}

// Values returns a copy of the samples, oldest first.
func (h *History) Values() []float64 {
	return append([]float64(nil), h.samples...)
}

// SetLimit changes the capacity, keeping the newest samples that fit.
func (h *History) SetLimit(limit int) {
	limit = max(limit, 1)
	if drop := len(h.samples) - limit; drop > 0 {
		h.samples = append(h.samples[:0], h.samples[drop:]...)
	}
	h.limit = limit
}

// Clear removes every sample.
func (h *History) Clear() { h.samples = h.samples[:0] }

// RenderSparkline draws percentages (0..100) as block characters, one per
// value. Values outside the range are clamped.
func RenderSparkline(values []float64) string {
	blocks := []rune(sparkBlocks)
	top := len(blocks) - 1
	var b strings.Builder
	for _, v := range values {
		v = min(max(v, 0), 100)
		b.WriteRune(blocks[min(int(v/100*float64(top)), top)])
	}
	return b.String()
}
