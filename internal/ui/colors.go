package ui

import "github.com/charmbracelet/lipgloss"

// Escape-code accessors for the active theme. Each returns "" under
// PlainTheme so callers can interpolate them unconditionally.

func ColorReset() string     { return CurrentTheme().Reset }
func ColorRed() string       { return CurrentTheme().Failure }
func ColorGreen() string     { return CurrentTheme().Success }
func ColorYellow() string    { return CurrentTheme().Warning }
func ColorBlue() string      { return CurrentTheme().Accent }
func ColorMagenta() string   { return CurrentTheme().Highlight }
func ColorCyan() string      { return CurrentTheme().Accent }
func ColorGrey() string      { return CurrentTheme().Muted }
func ColorBold() string      { return CurrentTheme().Bold }
func ColorUnderline() string { return CurrentTheme().Underline }

// Heading renders a section title such as "--- Result ---", bold in the
// accent color when colors are on.
func Heading(title string) string {
	text := "--- " + title + " ---"
	t := CurrentTheme()
	if !t.Enabled() {
		return text
	}
	return lipgloss.NewStyle().Bold(true).Foreground(t.Palette.Accent).Render(text)
}
