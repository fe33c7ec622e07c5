package reconcile

import (
	"fmt"

	"dog-inventory/core/metrics"
	"dog-inventory/core/utils"

	"go.uber.org/zap"
)

const (
	ruleCompose     = "compose"
	ruleGroups      = "groups"
	ruleKeyedGroups = "keyed_groups"
)

// unknownDistribution names the OS group of hosts that report a version
// without a distribution.
const unknownDistribution = "unknown"

// parseGroup registers a merged group: members that passed the filters,
// group variables and child edges.
func parseGroup(rc *Context, name string, rec GroupRecord) error {
	rc.Graph.AddGroup(name)

	for _, host := range utils.SortedKeys(rec.Hosts) {
		if rc.IsAdmitted(host) {
			rc.Graph.AddHostToGroup(host, name)
		}
	}

	for _, key := range utils.SortedKeys(rec.Vars) {
		rc.Graph.SetGroupVar(name, key, rec.Vars[key])
	}

	for _, child := range rec.Children {
		if err := rc.Graph.AddChild(name, FixGroupName(child)); err != nil {
			return err
		}
	}
	return nil
}

// parseHost adds one admitted host to the graph. The steps run in a fixed
// order because later variable writes override earlier ones.
func parseHost(rc *Context, id string, host HostRecord) error {
	g := rc.Graph
	g.AddHost(id)

	// OS group
	if host.OSVersion != nil {
		dist := unknownDistribution
		if host.OSDistribution != nil {
			dist = *host.OSDistribution
		}
		g.AddHostToGroup(id, FixGroupName("os_"+dist+"_"+FixGroupName(*host.OSVersion)))
	}

	// Declared group, registered from the merged map when known
	if host.Group != nil && *host.Group != "" {
		name := FixGroupName(*host.Group)
		if rec, ok := rc.Groups[name]; ok {
			if err := parseGroup(rc, name, rec); err != nil {
				return err
			}
		}
		g.AddHostToGroup(id, name)
	}

	// Per-host overrides double as groups
	for _, key := range utils.SortedKeys(host.Vars) {
		value := host.Vars[key]
		g.SetHostVar(id, key, value)
		g.AddHostToGroup(id, FixGroupName(key+"_"+FixGroupName(value)))
	}

	// Identity groups
	for _, ig := range []struct {
		prefix string
		value  *string
	}{
		{"name_", host.Name},
		{"hostkey_", host.Hostkey},
		{"id_", host.ID},
		{"version_", host.Version},
	} {
		if ig.value != nil {
			g.AddHostToGroup(id, FixGroupName(ig.prefix+FixGroupName(*ig.value)))
		}
	}

	if rc.Config.AddEC2Groups {
		for _, eg := range []struct {
			prefix string
			value  *string
		}{
			{"ec2_instance_", host.EC2InstanceID},
			{"ec2_region_", host.EC2Region},
			{"ec2_", host.EC2VpcID},
			{"ec2_", host.EC2SubnetID},
			{"ec2_availability_zone_", host.EC2AvailabilityZone},
		} {
			if eg.value != nil {
				g.AddHostToGroup(id, FixGroupName(eg.prefix+*eg.value))
			}
		}
	}

	// Full facts
	fields := host.Fields()
	delete(fields, FieldVars)
	facts := make(map[string]any, len(fields))
	for _, key := range utils.SortedKeys(fields) {
		fact := SlugifyFact(key)
		facts[fact] = fields[key]
		g.SetHostVar(id, fact, fields[key])
	}

	composed, err := applyCompose(rc, id, facts)
	if err != nil {
		return err
	}

	vars := make(map[string]any, len(facts)+len(composed))
	for k, v := range facts {
		vars[k] = v
	}
	for k, v := range composed {
		vars[k] = v
	}

	if err := applyConditionalGroups(rc, id, vars); err != nil {
		return err
	}
	return applyKeyedGroups(rc, id, vars)
}

// ruleFailed returns a RuleError in strict mode and nil otherwise.
func ruleFailed(rc *Context, kind, rule, host string, err error) error {
	metrics.RuleFailed(kind)
	if rc.Config.Strict {
		return &RuleError{Kind: kind, Rule: rule, Host: host, Err: err}
	}
	rc.Logger.Debug("Skipping rule",
		zap.String("kind", kind), zap.String("rule", rule), zap.String("host", host), zap.Error(err))
	return nil
}

func applyCompose(rc *Context, id string, facts map[string]any) (map[string]any, error) {
	composed := make(map[string]any, len(rc.Config.Compose))
	for _, name := range utils.SortedKeys(rc.Config.Compose) {
		value, err := rc.Evaluator.Evaluate(rc.Config.Compose[name], facts)
		if err != nil {
			if ferr := ruleFailed(rc, ruleCompose, name, id, err); ferr != nil {
				return nil, ferr
			}
			continue
		}
		rc.Graph.SetHostVar(id, name, value)
		composed[name] = value
	}
	return composed, nil
}

func applyConditionalGroups(rc *Context, id string, vars map[string]any) error {
	for _, name := range utils.SortedKeys(rc.Config.Groups) {
		value, err := rc.Evaluator.Evaluate(rc.Config.Groups[name], vars)
		if err != nil {
			if ferr := ruleFailed(rc, ruleGroups, name, id, err); ferr != nil {
				return ferr
			}
			continue
		}
		if utils.Truthy(value) {
			rc.Graph.AddHostToGroup(id, FixGroupName(name))
		}
	}
	return nil
}

func applyKeyedGroups(rc *Context, id string, vars map[string]any) error {
	for _, rule := range rc.Config.KeyedGroups {
		value, err := rc.Evaluator.Evaluate(rule.Key, vars)
		if err != nil {
			if ferr := ruleFailed(rc, ruleKeyedGroups, rule.Key, id, err); ferr != nil {
				return ferr
			}
			continue
		}

		names := keyedGroupNames(rule, value)
		if len(names) == 0 {
			empty := fmt.Errorf("key %q resulted empty", rule.Key)
			if ferr := ruleFailed(rc, ruleKeyedGroups, rule.Key, id, empty); ferr != nil {
				return ferr
			}
			continue
		}

		for _, name := range names {
			rc.Graph.AddHostToGroup(id, name)
			if rule.ParentGroup != "" {
				if err := rc.Graph.AddChild(FixGroupName(rule.ParentGroup), name); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// keyedGroupNames derives the distinct group names of a keyed group rule.
func keyedGroupNames(rule KeyedGroupRule, value any) []string {
	emptyOK := rule.DefaultValue != nil
	if !utils.Truthy(value) && !(emptyOK && value == "") {
		return nil
	}

	sep := rule.separator()
	withDefault := func(v string) string {
		if v == "" && rule.DefaultValue != nil {
			return *rule.DefaultValue
		}
		return v
	}

	var bare []string
	switch v := value.(type) {
	case string:
		bare = append(bare, withDefault(v))
	case []any:
		for _, item := range v {
			bare = append(bare, withDefault(utils.ToString(item)))
		}
	case map[string]any:
		for _, k := range utils.SortedKeys(v) {
			s := utils.ToString(v[k])
			switch {
			case s != "":
				bare = append(bare, k+sep+s)
			case rule.DefaultValue != nil:
				bare = append(bare, k+sep+*rule.DefaultValue)
			case rule.TrailingSeparator != nil && !*rule.TrailingSeparator:
				bare = append(bare, k)
			default:
				bare = append(bare, k+sep)
			}
		}
	default:
		bare = append(bare, utils.ToString(v))
	}

	if rule.Prefix == "" && rule.LeadingSeparator != nil && !*rule.LeadingSeparator {
		sep = ""
	}

	seen := make(map[string]struct{}, len(bare))
	names := make([]string, 0, len(bare))
	for _, b := range bare {
		name := FixGroupName(rule.Prefix + sep + b)
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}
