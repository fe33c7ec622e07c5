package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Run outcomes used as the status label.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

var (
	// runsTotal counts reconciliation runs by outcome.
	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dog_inventory_runs_total",
		Help: "Total reconciliation runs by status",
	}, []string{"status"})

	// runDuration tracks end-to-end run latency.
	runDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dog_inventory_run_duration_seconds",
		Help:    "Reconciliation run duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 14), // 10ms to ~80s
	}, []string{"status"})

	// hostsTotal reports the host counts of the last successful run.
	hostsTotal = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "dog_inventory_hosts",
		Help: "Hosts in the last successful run by stage",
	}, []string{"stage"})

	// groupsTotal reports the group count of the last successful run.
	groupsTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "dog_inventory_groups",
		Help: "Groups in the last successful run",
	})

	// ruleFailures counts skipped rule evaluations by rule kind.
	ruleFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dog_inventory_rule_failures_total",
		Help: "Rule evaluations that failed for a host",
	}, []string{"kind"})
)

// RunStats carries the counts of one finished run.
type RunStats struct {
	Fetched  int
	Admitted int
	Filtered int
	Skipped  int
	Groups   int
}

// ObserveRun records the outcome and duration of a run. Host and group
// gauges only move on success.
func ObserveRun(status string, d time.Duration, stats RunStats) {
	runsTotal.WithLabelValues(status).Inc()
	runDuration.WithLabelValues(status).Observe(d.Seconds())
	if status != StatusSuccess {
		return
	}
	hostsTotal.WithLabelValues("fetched").Set(float64(stats.Fetched))
	hostsTotal.WithLabelValues("admitted").Set(float64(stats.Admitted))
	hostsTotal.WithLabelValues("filtered").Set(float64(stats.Filtered))
	hostsTotal.WithLabelValues("skipped").Set(float64(stats.Skipped))
	groupsTotal.Set(float64(stats.Groups))
}

// RuleFailed counts a rule evaluation failure.
func RuleFailed(kind string) {
	ruleFailures.WithLabelValues(kind).Inc()
}
