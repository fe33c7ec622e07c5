package cmd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dogServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/hosts", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"name": "h1", "group": "web_qa", "os_distribution": "ubuntu", "os_version": "22.04", "active": "active"},
			{"name": "h2", "group": "web_qa", "active": "retired"},
		})
	})
	mux.HandleFunc("/groups", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"name": "web_qa", "hosts": map[string]any{"h1": map[string]any{}}, "vars": map[string]any{"env": "qa"}},
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// execute runs the root command against a fake dog API.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	srv := dogServer(t)
	t.Setenv("DOG_URL", srv.URL)
	t.Setenv("LOG_LEVEL", "error")

	resetFlags(RootCmd)
	t.Cleanup(func() { resetFlags(RootCmd) })

	var out bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetArgs(append([]string{"--config-path", t.TempDir()}, args...))
	err := RootCmd.Execute()
	return out.String(), err
}

func TestRoot_List(t *testing.T) {
	out, err := execute(t, "--list")
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Contains(t, doc, "web_qa")
	hostvars := doc["_meta"].(map[string]any)["hostvars"].(map[string]any)
	assert.Contains(t, hostvars, "h1")
	assert.NotContains(t, hostvars, "h2")
}

func TestRoot_Host(t *testing.T) {
	out, err := execute(t, "--host", "h1")
	require.NoError(t, err)

	var vars map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &vars))
	assert.Equal(t, "ubuntu", vars["dog_os_distribution"])

	out, err = execute(t, "--host", "unknown")
	require.NoError(t, err)
	assert.JSONEq(t, "{}", out)
}

func TestRoot_ListAndHostExclusive(t *testing.T) {
	_, err := execute(t, "--list", "--host", "h1")
	assert.Error(t, err)
}

func TestListCmd_YAML(t *testing.T) {
	out, err := execute(t, "list", "--yaml", "--hostvars=false")
	require.NoError(t, err)
	assert.Contains(t, out, "web_qa:")
	assert.Contains(t, out, "hostvars: {}")
}

func TestGraphCmd(t *testing.T) {
	out, err := execute(t, "graph")
	require.NoError(t, err)
	assert.Contains(t, out, "@all:")
	assert.Contains(t, out, "|--@web_qa:")
	assert.Contains(t, out, "h1")
}

func TestReconcileCmd_JSON(t *testing.T) {
	out, err := execute(t, "reconcile", "--json")
	require.NoError(t, err)

	var report map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, float64(1), report["hosts_admitted"])
	assert.NotEmpty(t, report["run_id"])
}

func TestSnapshotCmd_RequiresFlag(t *testing.T) {
	_, err := execute(t, "snapshot")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--name or --list")
}
