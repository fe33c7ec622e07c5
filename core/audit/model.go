package audit

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// RunRecord is one row of the run history.
type RunRecord struct {
	ID            uuid.UUID         `gorm:"type:varchar(36);primaryKey" json:"id"`
	RunID         string            `gorm:"type:varchar(36);uniqueIndex;not null" json:"run_id"`
	StartedAt     time.Time         `gorm:"index;not null" json:"started_at"`
	DurationMS    int64             `json:"duration_ms"`
	HostsFetched  int               `json:"hosts_fetched"`
	HostsAdmitted int               `json:"hosts_admitted"`
	HostsFiltered int               `json:"hosts_filtered"`
	HostsSkipped  int               `json:"hosts_skipped"`
	Groups        int               `json:"groups"`
	FactName      string            `gorm:"type:varchar(255)" json:"fact_name,omitempty"`
	FactUsed      bool              `json:"fact_used"`
	Inventory     datatypes.JSONMap `json:"inventory"`
	Changes       datatypes.JSONMap `json:"changes"`
	CreatedAt     time.Time         `gorm:"autoCreateTime" json:"created_at"`
}

// TableName overrides the table name used by gorm.
func (RunRecord) TableName() string { return "inventory_runs" }

// HostNames returns the host names recorded for the run.
func (r RunRecord) HostNames() []string {
	return stringList(r.Inventory, "hosts")
}

// GroupNames returns the group names recorded for the run.
func (r RunRecord) GroupNames() []string {
	return stringList(r.Inventory, "groups")
}

// stringList reads a list of strings from a JSON column. Values that went
// through the database come back as []any.
func stringList(m datatypes.JSONMap, key string) []string {
	switch v := m[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
