package reconcile

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Hook is called after every successful run, for example to record an
// audit entry or publish an event. Hook errors are logged, never returned.
type Hook struct {
	Name string
	Fn   func(ctx context.Context, res *Result) error
}

// Runner serializes concurrent reconciliation requests.
//
// Callers that arrive while a run is in flight share its result; the next
// caller after it completes starts a fresh run. Graphs are never cached.
type Runner struct {
	engine *Engine
	cfg    Config
	logger *zap.Logger
	hooks  []Hook
	sf     singleflight.Group
}

// NewRunner creates a runner for a fixed configuration.
func NewRunner(engine *Engine, cfg Config, logger *zap.Logger, hooks ...Hook) *Runner {
	return &Runner{engine: engine, cfg: cfg, logger: logger, hooks: hooks}
}

// Config returns the inventory options used by every run.
func (r *Runner) Config() Config {
	return r.cfg
}

// Run returns the result of the in-flight run, starting one if needed.
// The returned graph is shared between callers and must not be mutated.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	v, err, shared := r.sf.Do("run", func() (interface{}, error) {
		// The run outlives any single waiting caller
		runCtx := context.WithoutCancel(ctx)

		res, err := r.engine.Reconcile(runCtx, r.cfg)
		if err != nil {
			return nil, err
		}

		for _, h := range r.hooks {
			if herr := h.Fn(runCtx, res); herr != nil {
				r.logger.Warn("Post-run hook failed",
					zap.String("hook", h.Name), zap.String("run_id", res.Report.RunID), zap.Error(herr))
			}
		}
		return res, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		r.logger.Debug("Joined in-flight reconcile run")
	}
	return v.(*Result), nil
}
