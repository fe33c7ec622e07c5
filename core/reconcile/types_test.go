package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHost(t *testing.T) {
	raw := map[string]any{
		"id":                "42",
		"name":              "h1",
		"version":           float64(3),
		"hostkey":           nil,
		"vars":              map[string]any{"role": "db"},
		"ec2_instance_tags": map[string]any{"env": "qa"},
		"unset":             nil,
	}

	h, err := ParseHost(raw)
	require.NoError(t, err)

	require.NotNil(t, h.ID)
	assert.Equal(t, "42", *h.ID)
	assert.Equal(t, "3", *h.Version)
	assert.Nil(t, h.Hostkey)
	assert.Nil(t, h.Group)
	assert.Equal(t, map[string]any{"role": "db"}, h.Vars)
	assert.Equal(t, map[string]any{"ec2_instance_tags": map[string]any{"env": "qa"}}, h.Extra)

	fields := h.Fields()
	assert.Equal(t, "h1", fields["name"])
	assert.Contains(t, fields, "vars")
	assert.NotContains(t, fields, "hostkey")
	assert.NotContains(t, fields, "unset")
}

func TestHostRecord_FieldsKeepFetchedTypes(t *testing.T) {
	h, err := ParseHost(map[string]any{"name": "h1", "id": float64(5), "version": float64(2), "port": float64(22)})
	require.NoError(t, err)

	assert.Equal(t, "5", *h.ID)
	assert.Equal(t, "2", *h.Version)

	fields := h.Fields()
	assert.Equal(t, float64(5), fields["id"])
	assert.Equal(t, float64(2), fields["version"])
	assert.Equal(t, float64(22), fields["port"])
	assert.Equal(t, "h1", fields["name"])
}

func TestParseHost_MalformedVars(t *testing.T) {
	_, err := ParseHost(map[string]any{"name": "h1", "vars": []any{"x"}})

	var mhe *MalformedHostError
	require.ErrorAs(t, err, &mhe)
	assert.Equal(t, "h1", mhe.Host)
	assert.Equal(t, "vars", mhe.Field)
}

func TestHostRecord_Field(t *testing.T) {
	h, err := ParseHost(map[string]any{"hostkey": "abc", "rack": float64(7)})
	require.NoError(t, err)

	v, ok := h.Field(FieldHostkey)
	assert.True(t, ok)
	assert.Equal(t, "abc", v)

	_, ok = h.Field(FieldName)
	assert.False(t, ok)

	v, ok = h.Field("rack")
	assert.True(t, ok)
	assert.Equal(t, "7", v)
}

func TestParseGroup(t *testing.T) {
	tests := []struct {
		name      string
		raw       map[string]any
		wantField string
	}{
		{"Valid", map[string]any{"hosts": map[string]any{}, "vars": map[string]any{}, "children": []any{"a"}}, ""},
		{"NullFields", map[string]any{"hosts": nil, "vars": nil}, ""},
		{"HostsList", map[string]any{"hosts": []any{"h1"}}, "hosts"},
		{"VarsString", map[string]any{"vars": "x"}, "vars"},
		{"ChildrenMap", map[string]any{"children": map[string]any{}}, "children"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseGroup("web", tt.raw)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var mge *MalformedGroupError
			require.ErrorAs(t, err, &mge)
			assert.Equal(t, "web", mge.Group)
			assert.Equal(t, tt.wantField, mge.Field)
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"Default", func(*Config) {}, false},
		{"Hostkey", func(c *Config) { c.UniqueIDKey = FieldHostkey }, false},
		{"BadIdentity", func(c *Config) { c.UniqueIDKey = "id" }, true},
		{"BadFactSource", func(c *Config) { c.FactSource = "s3" }, true},
		{"KeyedWithoutKey", func(c *Config) { c.KeyedGroups = []KeyedGroupRule{{Prefix: "x"}} }, true},
		{"KeyedExclusive", func(c *Config) {
			c.KeyedGroups = []KeyedGroupRule{{Key: "k", DefaultValue: strPtr("d"), TrailingSeparator: boolPtr(false)}}
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
