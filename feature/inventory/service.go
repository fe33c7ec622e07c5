package inventory

import (
	"context"
	"errors"

	"dog-inventory/core/audit"
	"dog-inventory/core/reconcile"

	"go.uber.org/zap"
)

// ErrHistoryDisabled is returned by Runs when run auditing is off.
var ErrHistoryDisabled = errors.New("run history is disabled")

// History lists recorded runs.
type History interface {
	List(ctx context.Context, limit int) ([]audit.RunRecord, error)
}

// Service serves inventories built by a reconcile.Runner.
type Service struct {
	runner  *reconcile.Runner
	history History
	logger  *zap.Logger
}

// NewService creates a new inventory service. history may be nil.
func NewService(runner *reconcile.Runner, history History, logger *zap.Logger) *Service {
	return &Service{runner: runner, history: history, logger: logger}
}

// Inventory runs (or joins) a reconciliation and returns its result.
func (s *Service) Inventory(ctx context.Context) (*reconcile.Result, error) {
	return s.runner.Run(ctx)
}

// Runs returns the most recent recorded runs.
func (s *Service) Runs(ctx context.Context, limit int) ([]audit.RunRecord, error) {
	if s.history == nil {
		return nil, ErrHistoryDisabled
	}
	return s.history.List(ctx, limit)
}
