package audit

import (
	"context"
	"fmt"
	"sort"

	"dog-inventory/core/reconcile"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DefaultListLimit caps List when the caller passes no limit.
const DefaultListLimit = 20

// Recorder writes run metadata to the run-history table.
type Recorder struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewRecorder creates a recorder on an open database.
func NewRecorder(db *gorm.DB, logger *zap.Logger) *Recorder {
	return &Recorder{db: db, logger: logger}
}

// Migrate creates or updates the run-history table.
func (r *Recorder) Migrate(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(&RunRecord{}); err != nil {
		return fmt.Errorf("failed to migrate run history: %w", err)
	}
	return nil
}

// Record stores the report of a finished run together with the host and
// group changes since the previous recorded run.
func (r *Recorder) Record(ctx context.Context, res *reconcile.Result) (*RunRecord, error) {
	if res == nil || res.Graph == nil {
		return nil, fmt.Errorf("cannot record empty run result")
	}

	prev, err := r.Latest(ctx)
	if err != nil {
		return nil, err
	}

	hosts := res.Graph.HostNames()
	groups := res.Graph.GroupNames()

	var prevHosts, prevGroups []string
	if prev != nil {
		prevHosts = prev.HostNames()
		prevGroups = prev.GroupNames()
	}

	rep := res.Report
	rec := &RunRecord{
		ID:            uuid.New(),
		RunID:         rep.RunID,
		StartedAt:     rep.StartedAt,
		DurationMS:    rep.Duration.Milliseconds(),
		HostsFetched:  rep.HostsFetched,
		HostsAdmitted: rep.HostsAdmitted,
		HostsFiltered: rep.HostsFiltered,
		HostsSkipped:  rep.HostsSkipped,
		Groups:        rep.Groups,
		FactName:      rep.FactName,
		FactUsed:      rep.FactUsed,
		Inventory: datatypes.JSONMap{
			"hosts":  hosts,
			"groups": groups,
		},
		Changes: datatypes.JSONMap{
			"hosts":  computeDiff(prevHosts, hosts),
			"groups": computeDiff(prevGroups, groups),
		},
	}

	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		return nil, fmt.Errorf("failed to store run %s: %w", rep.RunID, err)
	}

	r.logger.Debug("Recorded reconcile run",
		zap.String("run_id", rep.RunID),
		zap.Int("hosts", len(hosts)),
		zap.Int("groups", len(groups)))
	return rec, nil
}

// Latest returns the most recent record, or nil when the history is empty.
func (r *Recorder) Latest(ctx context.Context) (*RunRecord, error) {
	recs, err := r.List(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, nil
	}
	return &recs[0], nil
}

// List returns up to limit records, newest first.
func (r *Recorder) List(ctx context.Context, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	var recs []RunRecord
	err := r.db.WithContext(ctx).
		Order("started_at DESC").
		Limit(limit).
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query run history: %w", err)
	}
	return recs, nil
}

// Hook adapts the recorder to a post-run hook.
func (r *Recorder) Hook() reconcile.Hook {
	return reconcile.Hook{
		Name: "audit",
		Fn: func(ctx context.Context, res *reconcile.Result) error {
			_, err := r.Record(ctx, res)
			return err
		},
	}
}

// computeDiff lists names that appear only in current (added) or only in
// previous (removed).
func computeDiff(previous, current []string) map[string]any {
	prev := make(map[string]struct{}, len(previous))
	for _, name := range previous {
		prev[name] = struct{}{}
	}
	cur := make(map[string]struct{}, len(current))
	for _, name := range current {
		cur[name] = struct{}{}
	}

	added := []string{}
	for name := range cur {
		if _, ok := prev[name]; !ok {
			added = append(added, name)
		}
	}
	removed := []string{}
	for name := range prev {
		if _, ok := cur[name]; !ok {
			removed = append(removed, name)
		}
	}
	sort.Strings(added)
	sort.Strings(removed)

	return map[string]any{"added": added, "removed": removed}
}
