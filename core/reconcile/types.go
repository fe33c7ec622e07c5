package reconcile

import (
	"fmt"
	"time"

	"dog-inventory/core/inventory"
	"dog-inventory/core/utils"
)

// Host record field names as returned by the fleet service.
const (
	FieldID                  = "id"
	FieldName                = "name"
	FieldHostkey             = "hostkey"
	FieldGroup               = "group"
	FieldActive              = "active"
	FieldVersion             = "version"
	FieldOSDistribution      = "os_distribution"
	FieldOSVersion           = "os_version"
	FieldEC2InstanceID       = "ec2_instance_id"
	FieldEC2Region           = "ec2_region"
	FieldEC2VpcID            = "ec2_vpc_id"
	FieldEC2SubnetID         = "ec2_subnet_id"
	FieldEC2AvailabilityZone = "ec2_availability_zone"
	FieldVars                = "vars"
)

// ActiveStatus is the value of the active field for hosts in service.
const ActiveStatus = "active"

// HostRecord is one host as fetched from the fleet service.
// Known attributes are typed; nil means the field was absent.
type HostRecord struct {
	ID                  *string
	Name                *string
	Hostkey             *string
	Group               *string
	Active              *string
	Version             *string
	OSDistribution      *string
	OSVersion           *string
	EC2InstanceID       *string
	EC2Region           *string
	EC2VpcID            *string
	EC2SubnetID         *string
	EC2AvailabilityZone *string

	// Vars holds per-host variable overrides. Nil when absent.
	Vars map[string]any

	// Extra holds every other present field, passed through as facts.
	Extra map[string]any

	// raw holds the fetched value of each typed attribute.
	raw map[string]any
}

// knownFields maps each typed attribute to its field name.
func (h *HostRecord) knownFields() []struct {
	key string
	ptr **string
} {
	return []struct {
		key string
		ptr **string
	}{
		{FieldID, &h.ID},
		{FieldName, &h.Name},
		{FieldHostkey, &h.Hostkey},
		{FieldGroup, &h.Group},
		{FieldActive, &h.Active},
		{FieldVersion, &h.Version},
		{FieldOSDistribution, &h.OSDistribution},
		{FieldOSVersion, &h.OSVersion},
		{FieldEC2InstanceID, &h.EC2InstanceID},
		{FieldEC2Region, &h.EC2Region},
		{FieldEC2VpcID, &h.EC2VpcID},
		{FieldEC2SubnetID, &h.EC2SubnetID},
		{FieldEC2AvailabilityZone, &h.EC2AvailabilityZone},
	}
}

// ParseHost converts a raw host mapping into a HostRecord.
// Null values are treated as absent.
func ParseHost(raw map[string]any) (HostRecord, error) {
	var h HostRecord
	known := make(map[string]struct{})
	for _, f := range h.knownFields() {
		known[f.key] = struct{}{}
		if v, ok := raw[f.key]; ok && v != nil {
			s := utils.ToString(v)
			*f.ptr = &s
			if h.raw == nil {
				h.raw = make(map[string]any)
			}
			h.raw[f.key] = v
		}
	}

	if v, ok := raw[FieldVars]; ok && v != nil {
		vars, ok := v.(map[string]any)
		if !ok {
			return h, &MalformedHostError{Host: utils.ToString(raw[FieldName]), Field: FieldVars}
		}
		h.Vars = vars
	}

	for k, v := range raw {
		if _, ok := known[k]; ok || k == FieldVars || v == nil {
			continue
		}
		if h.Extra == nil {
			h.Extra = make(map[string]any)
		}
		h.Extra[k] = v
	}
	return h, nil
}

// Field returns the string value of a known attribute or extra field.
func (h HostRecord) Field(key string) (string, bool) {
	for _, f := range h.knownFields() {
		if f.key == key {
			if *f.ptr == nil {
				return "", false
			}
			return **f.ptr, true
		}
	}
	if v, ok := h.Extra[key]; ok {
		return utils.ToString(v), true
	}
	return "", false
}

// Fields returns the flat record with every present field, including vars.
// Values keep the type they were fetched with.
func (h HostRecord) Fields() map[string]any {
	out := make(map[string]any, len(h.Extra)+14)
	for k, v := range h.Extra {
		out[k] = v
	}
	for _, f := range h.knownFields() {
		if *f.ptr == nil {
			continue
		}
		if v, ok := h.raw[f.key]; ok {
			out[f.key] = v
			continue
		}
		out[f.key] = **f.ptr
	}
	if h.Vars != nil {
		out[FieldVars] = h.Vars
	}
	return out
}

// GroupRecord is one group from the live service, the fact snapshot or
// synthesized by the merger.
type GroupRecord struct {
	Name string
	// Hosts maps hostname to a membership payload. The payload is never
	// applied to the host.
	Hosts    map[string]any
	Vars     map[string]any
	Children []string
	Extra    map[string]any
}

// ParseGroup validates and converts a raw group mapping.
func ParseGroup(name string, raw map[string]any) (GroupRecord, error) {
	g := GroupRecord{Name: name}
	for k, v := range raw {
		switch k {
		case "name":
		case "hosts":
			if v == nil {
				continue
			}
			hosts, ok := v.(map[string]any)
			if !ok {
				return g, &MalformedGroupError{Group: name, Field: "hosts"}
			}
			g.Hosts = hosts
		case "vars":
			if v == nil {
				continue
			}
			vars, ok := v.(map[string]any)
			if !ok {
				return g, &MalformedGroupError{Group: name, Field: "vars"}
			}
			g.Vars = vars
		case "children":
			if v == nil {
				continue
			}
			children, ok := v.([]any)
			if !ok {
				return g, &MalformedGroupError{Group: name, Field: "children"}
			}
			for _, c := range children {
				g.Children = append(g.Children, utils.ToString(c))
			}
		default:
			if g.Extra == nil {
				g.Extra = make(map[string]any)
			}
			g.Extra[k] = v
		}
	}
	return g, nil
}

// FactDocument is a named point-in-time snapshot of the group map.
type FactDocument struct {
	Name   string                    `json:"name"`
	Groups map[string]map[string]any `json:"groups"`
}

// FilterRule admits a host only when Key evaluates to Value.
type FilterRule struct {
	Key   string `mapstructure:"key" json:"key" yaml:"key"`
	Value any    `mapstructure:"value" json:"value" yaml:"value"`
}

// KeyedGroupRule creates groups from the value of an expression.
type KeyedGroupRule struct {
	// Key is the expression whose value names the groups.
	Key string `mapstructure:"key" json:"key" yaml:"key"`
	// Prefix is prepended to every group name.
	Prefix string `mapstructure:"prefix" json:"prefix,omitempty" yaml:"prefix,omitempty"`
	// Separator joins prefix and value. Defaults to "_".
	Separator *string `mapstructure:"separator" json:"separator,omitempty" yaml:"separator,omitempty"`
	// DefaultValue replaces empty values.
	DefaultValue *string `mapstructure:"default_value" json:"default_value,omitempty" yaml:"default_value,omitempty"`
	// TrailingSeparator keeps the separator after a mapping key whose value is empty.
	TrailingSeparator *bool `mapstructure:"trailing_separator" json:"trailing_separator,omitempty" yaml:"trailing_separator,omitempty"`
	// LeadingSeparator keeps the separator when Prefix is empty.
	LeadingSeparator *bool `mapstructure:"leading_separator" json:"leading_separator,omitempty" yaml:"leading_separator,omitempty"`
	// ParentGroup, when set, becomes the parent of every generated group.
	ParentGroup string `mapstructure:"parent_group" json:"parent_group,omitempty" yaml:"parent_group,omitempty"`
}

func (r KeyedGroupRule) separator() string {
	if r.Separator == nil {
		return "_"
	}
	return *r.Separator
}

// Config holds the inventory options that drive one reconciliation run.
type Config struct {
	// AddEC2Groups enables the cloud-metadata groups.
	AddEC2Groups bool `mapstructure:"add_ec2_groups" default:"false"`
	// OnlyIncludeActive restricts the fetch to hosts whose active field is "active".
	OnlyIncludeActive bool `mapstructure:"only_include_active" default:"true"`
	// UniqueIDKey selects the host identity field (name or hostkey).
	UniqueIDKey string `mapstructure:"unique_id_key" default:"name"`
	// GroupSuffix enables suffix-parent synthesis when not empty.
	GroupSuffix string `mapstructure:"group_suffix" default:""`
	// Strict makes rule evaluation failures fatal.
	Strict bool `mapstructure:"strict" default:"false"`
	// FactName names the fact document merged with the live groups.
	FactName string `mapstructure:"fact_name" default:""`
	// FactSource selects where the fact document is read from (dog, storage).
	FactSource string `mapstructure:"fact_source" default:"dog"`

	Filters     []FilterRule      `mapstructure:"filters"`
	Compose     map[string]string `mapstructure:"compose"`
	Groups      map[string]string `mapstructure:"groups"`
	KeyedGroups []KeyedGroupRule  `mapstructure:"keyed_groups"`
}

const (
	FactSourceDog     = "dog"
	FactSourceStorage = "storage"
)

// Validate checks option values that cannot be expressed by defaults.
func (c Config) Validate() error {
	switch c.UniqueIDKey {
	case FieldName, FieldHostkey:
	default:
		return fmt.Errorf("unique_id_key must be %q or %q, got %q", FieldName, FieldHostkey, c.UniqueIDKey)
	}
	switch c.FactSource {
	case "", FactSourceDog, FactSourceStorage:
	default:
		return fmt.Errorf("fact_source must be %q or %q, got %q", FactSourceDog, FactSourceStorage, c.FactSource)
	}
	for i, k := range c.KeyedGroups {
		if k.Key == "" {
			return fmt.Errorf("keyed_groups[%d]: key is required", i)
		}
		if k.DefaultValue != nil && k.TrailingSeparator != nil {
			return fmt.Errorf("keyed_groups[%d]: default_value and trailing_separator are mutually exclusive", i)
		}
	}
	return nil
}

// Report summarizes a finished run.
type Report struct {
	RunID     string        `json:"run_id"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`

	// HostsFetched counts hosts returned by the source.
	HostsFetched int `json:"hosts_fetched"`
	// HostsAdmitted counts hosts that passed identity and filter checks.
	HostsAdmitted int `json:"hosts_admitted"`
	// HostsFiltered counts hosts excluded by a filter mismatch.
	HostsFiltered int `json:"hosts_filtered"`
	// HostsSkipped counts hosts without an identity value.
	HostsSkipped int `json:"hosts_skipped"`
	// Groups counts groups in the final graph.
	Groups int `json:"groups"`

	FactName string `json:"fact_name,omitempty"`
	FactUsed bool   `json:"fact_used"`
}

// Result is the outcome of a successful run.
type Result struct {
	Report Report
	Graph  *inventory.Graph
}
