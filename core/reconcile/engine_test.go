package reconcile

import (
	"context"
	"errors"
	"testing"

	"dog-inventory/core/expression"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestEngine(src Source) *Engine {
	return NewEngine(src, expression.NewExpr(), zap.NewNop())
}

func TestReconcile_Scenario(t *testing.T) {
	res, err := newTestEngine(scenarioSource()).Reconcile(context.Background(), defaultConfig())
	require.NoError(t, err)

	g := res.Graph
	assert.Equal(t, []string{"h1"}, g.HostNames())
	assert.ElementsMatch(t, []string{"web_qa", "os_ubuntu_22_04", "name_h1"}, g.GroupNames())

	h1, _ := g.Host("h1")
	assert.ElementsMatch(t, []string{"web_qa", "os_ubuntu_22_04", "name_h1"}, h1.Groups)
	assert.Equal(t, map[string]any{
		"dog_name":            "h1",
		"dog_group":           "web_qa",
		"dog_os_distribution": "ubuntu",
		"dog_os_version":      "22.04",
		"dog_active":          "active",
	}, h1.Vars)

	webQA, _ := g.Group("web_qa")
	assert.Equal(t, []string{"h1"}, webQA.Hosts)
	assert.Equal(t, "qa", webQA.Vars["env"])

	assert.Equal(t, 1, res.Report.HostsFetched)
	assert.Equal(t, 1, res.Report.HostsAdmitted)
	assert.Equal(t, 3, res.Report.Groups)
	assert.NotEmpty(t, res.Report.RunID)
}

func TestReconcile_InactiveIncluded(t *testing.T) {
	cfg := defaultConfig()
	cfg.OnlyIncludeActive = false

	res, err := newTestEngine(scenarioSource()).Reconcile(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, []string{"h1", "h2"}, res.Graph.HostNames())
	webQA, _ := res.Graph.Group("web_qa")
	assert.ElementsMatch(t, []string{"h1", "h2"}, webQA.Hosts)
}

func TestReconcile_Idempotent(t *testing.T) {
	cfg := defaultConfig()
	cfg.GroupSuffix = "_qa"
	cfg.Groups = map[string]string{"web_and_qa": "'web' in dog_group"}
	engine := newTestEngine(scenarioSource())

	first, err := engine.Reconcile(context.Background(), cfg)
	require.NoError(t, err)
	second, err := engine.Reconcile(context.Background(), cfg)
	require.NoError(t, err)

	assert.NotSame(t, first.Graph, second.Graph)
	assert.Equal(t, first.Graph.Export(), second.Graph.Export())
	assert.NotEqual(t, first.Report.RunID, second.Report.RunID)
}

func TestReconcile_ConditionalGroup(t *testing.T) {
	cfg := defaultConfig()
	cfg.Groups = map[string]string{"web_and_qa": "'web' in dog_group"}

	res, err := newTestEngine(scenarioSource()).Reconcile(context.Background(), cfg)
	require.NoError(t, err)

	grp, ok := res.Graph.Group("web_and_qa")
	require.True(t, ok)
	assert.Equal(t, []string{"h1"}, grp.Hosts)
}

func TestReconcile_SuffixSynthesis(t *testing.T) {
	cfg := defaultConfig()
	cfg.GroupSuffix = "_qa"

	res, err := newTestEngine(scenarioSource()).Reconcile(context.Background(), cfg)
	require.NoError(t, err)

	web, ok := res.Graph.Group("web")
	require.True(t, ok)
	assert.Equal(t, []string{"web_qa"}, web.Children)
	assert.Empty(t, web.Hosts)

	webQA, _ := res.Graph.Group("web_qa")
	assert.Equal(t, []string{"h1"}, webQA.Hosts)
	assert.Equal(t, "qa", webQA.Vars["env"])
}

func TestReconcile_FactMerge(t *testing.T) {
	src := scenarioSource()
	src.Facts = map[string]*FactDocument{
		"snap": {
			Name: "snap",
			Groups: map[string]map[string]any{
				"web_qa": {
					"vars":  map[string]any{"env": "old", "owner": "ops"},
					"hosts": map[string]any{"h1": map[string]any{}, "ghost": map[string]any{}},
				},
				"legacy": {
					"hosts": map[string]any{"ghost": map[string]any{}},
				},
			},
		},
	}
	cfg := defaultConfig()
	cfg.FactName = "snap"

	res, err := newTestEngine(src).Reconcile(context.Background(), cfg)
	require.NoError(t, err)

	assert.True(t, res.Report.FactUsed)
	webQA, _ := res.Graph.Group("web_qa")
	assert.Equal(t, "qa", webQA.Vars["env"])
	assert.Equal(t, "ops", webQA.Vars["owner"])
	assert.False(t, res.Graph.HasHost("ghost"))

	legacy, ok := res.Graph.Group("legacy")
	require.True(t, ok)
	assert.Empty(t, legacy.Hosts)
}

func TestReconcile_FactNotFound(t *testing.T) {
	cfg := defaultConfig()
	cfg.FactName = "missing"

	res, err := newTestEngine(scenarioSource()).Reconcile(context.Background(), cfg)
	require.NoError(t, err)

	assert.False(t, res.Report.FactUsed)
	assert.Equal(t, []string{"h1"}, res.Graph.HostNames())
}

func TestReconcile_Filters(t *testing.T) {
	src := &MemorySource{
		Hosts: []map[string]any{
			{"name": "a", "active": "active", "env": "qa", "tier": "web"},
			{"name": "b", "active": "active", "env": "qa", "tier": "db"},
			{"name": "c", "active": "active", "tier": "db"},
		},
		Groups: []map[string]any{
			{"name": "all_hosts", "hosts": map[string]any{"a": nil, "b": nil, "c": nil}},
		},
	}
	cfg := defaultConfig()
	cfg.Filters = []FilterRule{{Key: "env", Value: "qa"}, {Key: "tier", Value: "web"}}

	res, err := newTestEngine(src).Reconcile(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "c"}, res.Graph.HostNames())
	grp, _ := res.Graph.Group("all_hosts")
	assert.Equal(t, []string{"a", "c"}, grp.Hosts)
	assert.Equal(t, 1, res.Report.HostsFiltered)
}

func TestReconcile_NumericHostFields(t *testing.T) {
	src := &MemorySource{
		Hosts: []map[string]any{
			{"name": "h1", "id": float64(5), "version": float64(2), "port": float64(22), "active": "active"},
			{"name": "h2", "id": float64(6), "version": float64(1), "active": "active"},
		},
	}
	cfg := defaultConfig()
	cfg.Filters = []FilterRule{{Key: "id", Value: 5}}
	cfg.Groups = map[string]string{"v2plus": "dog_version >= 2"}

	res, err := newTestEngine(src).Reconcile(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, []string{"h1"}, res.Graph.HostNames())

	h1, _ := res.Graph.Host("h1")
	assert.Equal(t, float64(5), h1.Vars["dog_id"])
	assert.Equal(t, float64(2), h1.Vars["dog_version"])
	assert.Equal(t, float64(22), h1.Vars["dog_port"])
	assert.ElementsMatch(t, []string{"name_h1", "id_5", "version_2", "v2plus"}, h1.Groups)
}

func TestReconcile_HostkeyIdentity(t *testing.T) {
	src := &MemorySource{
		Hosts: []map[string]any{
			{"name": "h1", "hostkey": "k1", "active": "active"},
			{"name": "h2", "active": "active"},
		},
	}
	cfg := defaultConfig()
	cfg.UniqueIDKey = FieldHostkey

	res, err := newTestEngine(src).Reconcile(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, []string{"k1"}, res.Graph.HostNames())
	assert.Equal(t, 1, res.Report.HostsSkipped)
	k1, _ := res.Graph.Host("k1")
	assert.Equal(t, "h1", k1.Vars["dog_name"])
}

func TestReconcile_Errors(t *testing.T) {
	t.Run("SourceUnavailable", func(t *testing.T) {
		res, err := newTestEngine(&MemorySource{Err: errors.New("connection refused")}).
			Reconcile(context.Background(), defaultConfig())

		assert.Nil(t, res)
		var re *ReconcileError
		require.ErrorAs(t, err, &re)
		var sue *SourceUnavailableError
		require.ErrorAs(t, err, &sue)
		assert.Equal(t, "hosts", sue.Op)
		assert.Contains(t, err.Error(), "connection refused")
	})

	t.Run("MalformedGroup", func(t *testing.T) {
		src := scenarioSource()
		src.Groups = append(src.Groups, map[string]any{"name": "bad", "vars": "oops"})

		res, err := newTestEngine(src).Reconcile(context.Background(), defaultConfig())

		assert.Nil(t, res)
		var mge *MalformedGroupError
		require.ErrorAs(t, err, &mge)
		assert.Equal(t, "bad", mge.Group)
	})

	t.Run("StrictRule", func(t *testing.T) {
		cfg := defaultConfig()
		cfg.Strict = true
		cfg.Compose = map[string]string{"x": "nope"}

		res, err := newTestEngine(scenarioSource()).Reconcile(context.Background(), cfg)

		assert.Nil(t, res)
		var re *RuleError
		require.ErrorAs(t, err, &re)
		assert.ErrorIs(t, err, expression.ErrUndefined)
	})

	t.Run("InvalidConfig", func(t *testing.T) {
		cfg := defaultConfig()
		cfg.UniqueIDKey = "serial"

		res, err := newTestEngine(scenarioSource()).Reconcile(context.Background(), cfg)

		assert.Nil(t, res)
		var re *ReconcileError
		require.ErrorAs(t, err, &re)
	})

	t.Run("Panic", func(t *testing.T) {
		cfg := defaultConfig()
		cfg.Compose = map[string]string{"x": "dog_name"}

		res, err := NewEngine(scenarioSource(), panicEvaluator{}, zap.NewNop()).Reconcile(context.Background(), cfg)

		assert.Nil(t, res)
		var re *ReconcileError
		require.ErrorAs(t, err, &re)
		assert.NotEmpty(t, re.Stack)
		assert.Contains(t, err.Error(), "evaluator exploded")
	})
}
