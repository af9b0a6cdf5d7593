// Package ui provides theme and color support for console output: ANSI
// escape codes per theme, NO_COLOR handling and lipgloss-styled headings.
package ui
