package checks

import (
	"context"
	"time"

	"dog-inventory/core/reconcile"
)

// SourceReport describes the reachability of the fleet API.
type SourceReport struct {
	Hosts       int    `json:"hosts"`
	ActiveHosts int    `json:"active_hosts"`
	Groups      int    `json:"groups"`
	LatencyMS   int64  `json:"latency_ms"`
	Status      string `json:"status"`
	Error       string `json:"error,omitempty"`
}

// CheckSource fetches hosts and groups once and reports their counts.
// A failing source is reported, not returned as an error.
func CheckSource(ctx context.Context, src reconcile.Source) *SourceReport {
	report := &SourceReport{Status: StatusOK}
	start := time.Now()
	defer func() { report.LatencyMS = time.Since(start).Milliseconds() }()

	hosts, err := src.FetchHosts(ctx, false)
	if err != nil {
		report.Status = StatusError
		report.Error = err.Error()
		return report
	}
	report.Hosts = len(hosts)
	report.ActiveHosts = len(reconcile.FilterActive(hosts))

	groups, err := src.FetchGroups(ctx)
	if err != nil {
		report.Status = StatusError
		report.Error = err.Error()
		return report
	}
	report.Groups = len(groups)

	return report
}
