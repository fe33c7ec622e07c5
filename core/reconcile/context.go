package reconcile

import (
	"dog-inventory/core/expression"
	"dog-inventory/core/inventory"

	"go.uber.org/zap"
)

// Context carries the state of one reconciliation run. It is built once per
// run, passed to every step and discarded with the run.
type Context struct {
	// RunID identifies the run in logs, events and audit records.
	RunID string
	// Config holds the inventory options of the run.
	Config Config
	// Evaluator evaluates filter and rule expressions.
	Evaluator expression.Evaluator
	// Logger is tagged with the run id.
	Logger *zap.Logger

	// Graph is the inventory being built.
	Graph *inventory.Graph
	// Groups is the merged group map.
	Groups map[string]GroupRecord
	// Admitted holds the identities of hosts that passed the filters.
	Admitted map[string]struct{}
}

// NewContext creates the context of a new run with an empty graph.
func NewContext(runID string, cfg Config, evaluator expression.Evaluator, logger *zap.Logger) *Context {
	if cfg.UniqueIDKey == "" {
		cfg.UniqueIDKey = FieldName
	}
	return &Context{
		RunID:     runID,
		Config:    cfg,
		Evaluator: evaluator,
		Logger:    logger,
		Graph:     inventory.New(),
		Groups:    map[string]GroupRecord{},
		Admitted:  map[string]struct{}{},
	}
}

// IsAdmitted reports whether the host passed the filters of this run.
func (c *Context) IsAdmitted(host string) bool {
	_, ok := c.Admitted[host]
	return ok
}
