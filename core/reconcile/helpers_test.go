package reconcile

import (
	"testing"

	"dog-inventory/core/expression"

	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// mockEvaluator records every expression it is asked to evaluate.
type mockEvaluator struct {
	mock.Mock
}

func (m *mockEvaluator) Evaluate(expr string, vars map[string]any) (any, error) {
	args := m.Called(expr, vars)
	return args.Get(0), args.Error(1)
}

// panicEvaluator fails every evaluation with a panic.
type panicEvaluator struct{}

func (panicEvaluator) Evaluate(string, map[string]any) (any, error) {
	panic("evaluator exploded")
}

func newTestContext(t *testing.T, cfg Config) *Context {
	t.Helper()
	return NewContext("test-run", cfg, expression.NewExpr(), zap.NewNop())
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

// scenarioSource is the two-host dataset used by the end-to-end tests.
func scenarioSource() *MemorySource {
	return &MemorySource{
		Hosts: []map[string]any{
			{
				"name":            "h1",
				"group":           "web_qa",
				"os_distribution": "ubuntu",
				"os_version":      "22.04",
				"active":          "active",
			},
			{
				"name":   "h2",
				"group":  "web_qa",
				"active": "inactive",
			},
		},
		Groups: []map[string]any{
			{
				"name":  "web_qa",
				"hosts": map[string]any{"h1": map[string]any{}, "h2": map[string]any{}},
				"vars":  map[string]any{"env": "qa"},
			},
		},
	}
}

func defaultConfig() Config {
	return Config{
		OnlyIncludeActive: true,
		UniqueIDKey:       FieldName,
		FactSource:        FactSourceDog,
	}
}
