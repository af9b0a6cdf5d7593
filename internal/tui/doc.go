// Package tui is the interactive terminal dashboard shown with -tui. It runs
// the same orchestration as the plain CLI and renders progress, runtime
// metrics, host load and results with bubbletea.
package tui
