// Package metrics collects runtime memory snapshots and the Prometheus
// metrics of tree evaluations. Metrics live in a per-run registry and are
// exported as a textfile rather than served.
package metrics
