package reconcile

import (
	"errors"
	"reflect"

	"dog-inventory/core/expression"

	"go.uber.org/zap"
)

// Verdict is the outcome of running the filters over one host.
type Verdict int

const (
	// Admitted means every filter matched.
	Admitted Verdict = iota
	// Excluded means a filter evaluated to a different value.
	Excluded
	// Retained means evaluation stopped on an error; the host is kept.
	Retained
)

// HostFilter applies ordered key/value predicates to host records.
type HostFilter struct {
	rules     []FilterRule
	evaluator expression.Evaluator
	logger    *zap.Logger
}

// NewHostFilter creates a filter over the given rules.
func NewHostFilter(rules []FilterRule, evaluator expression.Evaluator, logger *zap.Logger) *HostFilter {
	return &HostFilter{rules: rules, evaluator: evaluator, logger: logger}
}

// Admit evaluates the rules in order against the host fields.
//
// The first mismatch excludes the host. An evaluation error stops the loop
// but keeps the host, so a host that lacks a filtered attribute is never
// dropped by that filter.
func (f *HostFilter) Admit(host string, fields map[string]any) Verdict {
	for _, rule := range f.rules {
		value, err := f.evaluator.Evaluate(rule.Key, fields)
		if err != nil {
			if !errors.Is(err, expression.ErrUndefined) {
				f.logger.Debug("Filter evaluation failed, keeping host",
					zap.String("host", host), zap.String("key", rule.Key), zap.Error(err))
			}
			return Retained
		}
		if !equalValues(value, rule.Value) {
			return Excluded
		}
	}
	return Admitted
}

// equalValues compares an evaluated value with a configured one. Numbers
// compare by value regardless of their Go type.
func equalValues(a, b any) bool {
	fa, aNum := toFloat(a)
	fb, bNum := toFloat(b)
	if aNum && bNum {
		return fa == fb
	}
	return reflect.DeepEqual(a, b)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
