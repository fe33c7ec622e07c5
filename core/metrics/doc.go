// Package metrics exposes Prometheus collectors for reconciliation runs.
// Collectors register with the default registry on import; the start
// command serves them on /metrics.
package metrics
