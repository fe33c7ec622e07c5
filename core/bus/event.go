package bus

import (
	"context"
	"time"

	"dog-inventory/core/reconcile"
)

// Publisher sends a JSON event on a subject.
type Publisher interface {
	Publish(ctx context.Context, subj string, v any) error
}

// RunEvent summarizes a completed reconciliation run.
type RunEvent struct {
	RunID         string    `json:"run_id"`
	StartedAt     time.Time `json:"started_at"`
	DurationMS    int64     `json:"duration_ms"`
	HostsFetched  int       `json:"hosts_fetched"`
	HostsAdmitted int       `json:"hosts_admitted"`
	Hosts         int       `json:"hosts"`
	Groups        int       `json:"groups"`
	FactName      string    `json:"fact_name,omitempty"`
	FactUsed      bool      `json:"fact_used"`
}

// NewRunEvent builds the event for a run result.
func NewRunEvent(res *reconcile.Result) RunEvent {
	rep := res.Report
	ev := RunEvent{
		RunID:         rep.RunID,
		StartedAt:     rep.StartedAt,
		DurationMS:    rep.Duration.Milliseconds(),
		HostsFetched:  rep.HostsFetched,
		HostsAdmitted: rep.HostsAdmitted,
		Groups:        rep.Groups,
		FactName:      rep.FactName,
		FactUsed:      rep.FactUsed,
	}
	if res.Graph != nil {
		ev.Hosts, _ = res.Graph.Len()
	}
	return ev
}

// Hook publishes a RunEvent on subject after every successful run.
func Hook(p Publisher, subject string) reconcile.Hook {
	if subject == "" {
		subject = SubjectReconciled
	}
	return reconcile.Hook{
		Name: "bus",
		Fn: func(ctx context.Context, res *reconcile.Result) error {
			return p.Publish(ctx, subject, NewRunEvent(res))
		},
	}
}
