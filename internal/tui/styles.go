package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/fibtree/internal/ui"
)

// Style variables for the dashboard, built from the ui palette by
// initTUIStyles.
var (
	panelStyle         lipgloss.Style
	headerStyle        lipgloss.Style
	titleStyle         lipgloss.Style
	dimStyle           lipgloss.Style
	accentStyle        lipgloss.Style
	logSuccessStyle    lipgloss.Style
	logErrorStyle      lipgloss.Style
	metricLabelStyle   lipgloss.Style
	metricValueStyle   lipgloss.Style
	statusRunningStyle lipgloss.Style
	statusPausedStyle  lipgloss.Style
	statusDoneStyle    lipgloss.Style
	statusErrorStyle   lipgloss.Style
)

func init() {
	initTUIStyles()
}

// initTUIStyles rebuilds all styles from the current palette. Run calls it
// again after the theme has been chosen.
func initTUIStyles() {
	p := ui.GetCurrentPalette()

	panelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Dim)

	headerStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Accent).
		Padding(0, 1)

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(p.Accent)
	dimStyle = lipgloss.NewStyle().Foreground(p.Dim)
	accentStyle = lipgloss.NewStyle().Foreground(p.Accent)
	logSuccessStyle = lipgloss.NewStyle().Foreground(p.Success)
	logErrorStyle = lipgloss.NewStyle().Foreground(p.Error)
	metricLabelStyle = lipgloss.NewStyle().Foreground(p.Dim)
	metricValueStyle = lipgloss.NewStyle().Foreground(p.Accent).Bold(true)

	statusRunningStyle = lipgloss.NewStyle().Foreground(p.Success).Bold(true)
	statusPausedStyle = lipgloss.NewStyle().Foreground(p.Accent).Bold(true)
	statusDoneStyle = lipgloss.NewStyle().Foreground(p.Accent).Bold(true)
	statusErrorStyle = lipgloss.NewStyle().Foreground(p.Error).Bold(true)
}
