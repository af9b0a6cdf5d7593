package tui

import (
	"strings"
	"testing"
	"time"
)

func TestHeaderModel_View(t *testing.T) {
	h := NewHeaderModel("v2.1.0", 1000, 8)
	h.SetWidth(120)

	view := h.View()
	for _, want := range []string{"fibtree v2.1.0", "F(1,000)", "budget 8", "leaves 8", "elapsed"} {
		if !strings.Contains(view, want) {
			t.Errorf("header %q missing %q", view, want)
		}
	}
}

func TestHeaderModel_DevVersionHidden(t *testing.T) {
	h := NewHeaderModel("dev", 10, 1)
	if strings.Contains(h.View(), "dev") {
		t.Error("dev version should not be shown")
	}
}

func TestHeaderModel_SetDoneFreezesElapsed(t *testing.T) {
	h := NewHeaderModel("", 10, 1)
	h.startTime = time.Now().Add(-time.Second)
	h.SetDone()
	first := h.Elapsed()
	time.Sleep(5 * time.Millisecond)
	if h.Elapsed() != first {
		t.Error("elapsed time kept running after SetDone")
	}
	h.SetDone()
	if h.Elapsed() != first {
		t.Error("a second SetDone moved the end time")
	}
}
