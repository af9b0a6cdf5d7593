package ui

import (
	"os"
	"sync/atomic"

	"github.com/charmbracelet/lipgloss"
)

// Palette holds the lipgloss colors of styled output such as headings and
// the dashboard panels.
type Palette struct {
	Accent  lipgloss.TerminalColor
	Success lipgloss.TerminalColor
	Error   lipgloss.TerminalColor
	Dim     lipgloss.TerminalColor
}

// Theme pairs the raw ANSI sequences used by line-oriented output with the
// Palette used by lipgloss-rendered output.
type Theme struct {
	Name string

	Accent, Muted             string
	Success, Warning, Failure string
	Highlight                 string
	Bold, Underline, Reset    string

	Palette Palette
}

// Enabled reports whether the theme emits any color.
func (t Theme) Enabled() bool { return t.Reset != "" }

var (
	// DarkTheme is the default: 256-color codes tuned for dark terminals.
	DarkTheme = Theme{
		Name:      "dark",
		Accent:    "\033[38;5;39m",
		Muted:     "\033[38;5;245m",
		Success:   "\033[38;5;82m",
		Warning:   "\033[38;5;220m",
		Failure:   "\033[38;5;196m",
		Highlight: "\033[38;5;141m",
		Bold:      "\033[1m",
		Underline: "\033[4m",
		Reset:     "\033[0m",
		Palette: Palette{
			Accent:  lipgloss.Color("#FF8C00"),
			Success: lipgloss.Color("#9ece6a"),
			Error:   lipgloss.Color("#FF4444"),
			Dim:     lipgloss.Color("#666666"),
		},
	}

	// PlainTheme emits no escape sequences at all.
	PlainTheme = Theme{
		Name: "none",
		Palette: Palette{
			Accent:  lipgloss.NoColor{},
			Success: lipgloss.NoColor{},
			Error:   lipgloss.NoColor{},
			Dim:     lipgloss.NoColor{},
		},
	}
)

var active atomic.Pointer[Theme]

func init() { UseTheme(DarkTheme) }

// CurrentTheme returns the theme output is rendered with.
func CurrentTheme() Theme { return *active.Load() }

// UseTheme switches the process-wide theme. Tests use it to restore state.
func UseTheme(t Theme) { active.Store(&t) }

// GetCurrentPalette returns the palette of the active theme.
func GetCurrentPalette() Palette { return CurrentTheme().Palette }

// InitTheme picks the startup theme: PlainTheme when noColor is set or
// NO_COLOR is present in the environment (https://no-color.org/), DarkTheme
// otherwise.
func InitTheme(noColor bool) {
	if _, set := os.LookupEnv("NO_COLOR"); noColor || set {
		UseTheme(PlainTheme)
		return
	}
	UseTheme(DarkTheme)
}
