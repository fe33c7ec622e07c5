package reconcile

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"dog-inventory/core/expression"
	"dog-inventory/core/logger"
	"dog-inventory/core/metrics"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("dog-inventory.reconcile")

// Engine runs reconciliations against a data source.
type Engine struct {
	source    Source
	evaluator expression.Evaluator
	logger    *zap.Logger
}

// NewEngine creates an engine. The evaluator is used for filters and rules.
func NewEngine(source Source, evaluator expression.Evaluator, logger *zap.Logger) *Engine {
	return &Engine{source: source, evaluator: evaluator, logger: logger}
}

// fetched holds the raw data of one run.
type fetched struct {
	hosts  []map[string]any
	groups []map[string]any
	fact   *FactDocument
}

// Reconcile performs one full run and returns a fresh graph.
// Any failure, including a panic, is returned as a *ReconcileError and no
// partial graph is handed out.
func (e *Engine) Reconcile(ctx context.Context, cfg Config) (res *Result, err error) {
	runID := uuid.NewString()
	start := time.Now()
	log := logger.WithRunID(e.logger, runID)

	ctx, span := tracer.Start(ctx, "Engine.Reconcile",
		trace.WithAttributes(attribute.String("run.id", runID)),
	)
	defer span.End()

	report := Report{RunID: runID, StartedAt: start, FactName: cfg.FactName}

	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = &ReconcileError{RunID: runID, Err: fmt.Errorf("%v", r), Stack: debug.Stack()}
			log.Error("Reconcile panicked", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
		}

		report.Duration = time.Since(start)
		status := metrics.StatusSuccess
		if err != nil {
			status = metrics.StatusFailure
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		metrics.ObserveRun(status, report.Duration, metrics.RunStats{
			Fetched:  report.HostsFetched,
			Admitted: report.HostsAdmitted,
			Filtered: report.HostsFiltered,
			Skipped:  report.HostsSkipped,
			Groups:   report.Groups,
		})
	}()

	if err := cfg.Validate(); err != nil {
		return nil, &ReconcileError{RunID: runID, Err: err}
	}

	rc := NewContext(runID, cfg, e.evaluator, log)

	data, err := e.fetch(ctx, rc)
	if err != nil {
		return nil, &ReconcileError{RunID: runID, Err: err}
	}
	report.HostsFetched = len(data.hosts)
	report.FactUsed = data.fact != nil

	if err := e.build(ctx, rc, data, &report); err != nil {
		return nil, &ReconcileError{RunID: runID, Err: err}
	}

	hosts, groups := rc.Graph.Len()
	report.Groups = groups
	report.Duration = time.Since(start)
	span.SetAttributes(
		attribute.Int("inventory.hosts", hosts),
		attribute.Int("inventory.groups", groups),
	)

	log.Info("Reconcile complete",
		zap.Int("fetched", report.HostsFetched),
		zap.Int("admitted", report.HostsAdmitted),
		zap.Int("filtered", report.HostsFiltered),
		zap.Int("skipped", report.HostsSkipped),
		zap.Int("groups", report.Groups),
		zap.Bool("fact_used", report.FactUsed),
		zap.Duration("duration", report.Duration),
	)

	return &Result{Report: report, Graph: rc.Graph}, nil
}

// fetch loads hosts, groups and the optional fact document.
func (e *Engine) fetch(ctx context.Context, rc *Context) (*fetched, error) {
	ctx, span := tracer.Start(ctx, "Engine.fetch")
	defer span.End()

	var data fetched
	var err error

	data.hosts, err = e.source.FetchHosts(ctx, rc.Config.OnlyIncludeActive)
	if err != nil {
		return nil, asUnavailable("hosts", err)
	}

	data.groups, err = e.source.FetchGroups(ctx)
	if err != nil {
		return nil, asUnavailable("groups", err)
	}

	if rc.Config.FactName == "" {
		return &data, nil
	}

	data.fact, err = e.source.FetchFact(ctx, rc.Config.FactName)
	if errors.Is(err, ErrFactNotFound) {
		rc.Logger.Warn("Fact document not found, using live groups only",
			zap.String("fact", rc.Config.FactName))
		data.fact = nil
		return &data, nil
	}
	if err != nil {
		return nil, asUnavailable("fact", err)
	}
	return &data, nil
}

// build admits hosts, merges groups and populates the graph.
func (e *Engine) build(ctx context.Context, rc *Context, data *fetched, report *Report) error {
	_, span := tracer.Start(ctx, "Engine.build")
	defer span.End()

	type admittedHost struct {
		id   string
		host HostRecord
	}

	filter := NewHostFilter(rc.Config.Filters, rc.Evaluator, rc.Logger)
	liveHosts := make(map[string]struct{}, len(data.hosts))
	admitted := make([]admittedHost, 0, len(data.hosts))

	for _, raw := range data.hosts {
		host, err := ParseHost(raw)
		if err != nil {
			return err
		}

		id, ok := host.Field(rc.Config.UniqueIDKey)
		if !ok || id == "" {
			report.HostsSkipped++
			rc.Logger.Warn("Skipping host without identity",
				zap.String("unique_id_key", rc.Config.UniqueIDKey), zap.Any("host", host.Name))
			continue
		}
		liveHosts[id] = struct{}{}

		if filter.Admit(id, host.Fields()) == Excluded {
			report.HostsFiltered++
			rc.Logger.Debug("Host excluded by filters", zap.String("host", id))
			continue
		}
		rc.Admitted[id] = struct{}{}
		admitted = append(admitted, admittedHost{id: id, host: host})
	}
	report.HostsAdmitted = len(admitted)

	var factGroups map[string]map[string]any
	if data.fact != nil {
		factGroups = data.fact.Groups
	}
	groups, err := MergeGroups(factGroups, IndexGroups(data.groups), liveHosts, rc.Config.GroupSuffix)
	if err != nil {
		return err
	}
	rc.Groups = groups

	for _, name := range sortedGroupNames(rc.Groups) {
		if err := parseGroup(rc, name, rc.Groups[name]); err != nil {
			return err
		}
	}

	for _, a := range admitted {
		if err := parseHost(rc, a.id, a.host); err != nil {
			return err
		}
	}
	return nil
}

// asUnavailable wraps err in a SourceUnavailableError unless it already is one.
func asUnavailable(op string, err error) error {
	var sue *SourceUnavailableError
	if errors.As(err, &sue) {
		return err
	}
	return &SourceUnavailableError{Op: op, Err: err}
}
