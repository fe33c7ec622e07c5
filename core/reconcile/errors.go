package reconcile

import (
	"errors"
	"fmt"
)

// ErrFactNotFound is returned by a Source when the named fact document does
// not exist. It is a soft condition: the run continues with live groups only.
var ErrFactNotFound = errors.New("fact not found")

// SourceUnavailableError reports a failed fetch from the data source.
type SourceUnavailableError struct {
	// Op is the fetch that failed (hosts, groups, fact).
	Op string
	// Err is the underlying transport or status error.
	Err error
}

func (e *SourceUnavailableError) Error() string {
	return fmt.Sprintf("source unavailable: fetch %s: %v", e.Op, e.Err)
}

func (e *SourceUnavailableError) Unwrap() error { return e.Err }

// MalformedGroupError reports a group record whose hosts or vars field is not
// a mapping, or whose children field is not a list.
type MalformedGroupError struct {
	Group string
	Field string
}

func (e *MalformedGroupError) Error() string {
	return fmt.Sprintf("malformed group %q: field %q has the wrong shape", e.Group, e.Field)
}

// MalformedHostError reports a host record whose vars field is not a mapping.
type MalformedHostError struct {
	Host  string
	Field string
}

func (e *MalformedHostError) Error() string {
	return fmt.Sprintf("malformed host %q: field %q has the wrong shape", e.Host, e.Field)
}

// RuleError reports a compose, conditional group or keyed group rule that
// failed for a host while running in strict mode.
type RuleError struct {
	// Kind is one of compose, groups, keyed_groups.
	Kind string
	// Rule names the variable, group or key of the failing rule.
	Rule string
	Host string
	Err  error
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("%s rule %q failed for host %q: %v", e.Kind, e.Rule, e.Host, e.Err)
}

func (e *RuleError) Unwrap() error { return e.Err }

// ReconcileError is the single error surfaced by a failed run. No graph is
// returned alongside it.
type ReconcileError struct {
	RunID string
	Err   error
	// Stack is set when the run was aborted by a panic.
	Stack []byte
}

func (e *ReconcileError) Error() string {
	if e.Stack != nil {
		return fmt.Sprintf("reconcile run %s: unexpected error: %v", e.RunID, e.Err)
	}
	return fmt.Sprintf("reconcile run %s: %v", e.RunID, e.Err)
}

func (e *ReconcileError) Unwrap() error { return e.Err }
