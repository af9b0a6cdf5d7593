// Package orchestration runs one or more Fibonacci calculators concurrently,
// collects their results and compares them. Presentation is reached only
// through the ProgressReporter and Presenter interfaces.
package orchestration
