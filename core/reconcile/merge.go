package reconcile

import (
	"reflect"
	"sort"
	"strings"

	"dog-inventory/core/utils"
)

// IndexGroups keys live group records by their normalized name. Records
// whose names collide after normalization are merged in fetch order.
func IndexGroups(list []map[string]any) map[string]map[string]any {
	out := make(map[string]map[string]any, len(list))
	for _, rec := range list {
		key := FixGroupName(rec["name"])
		if prev, ok := out[key]; ok {
			out[key] = mergeValues(prev, rec).(map[string]any)
			continue
		}
		out[key] = copyMap(rec)
	}
	return out
}

// MergeGroups deep-merges the fact group map into the live group map and
// returns the authoritative, validated group map.
//
// Fact group memberships are first restricted to liveHosts. On a scalar
// conflict the live value wins; mappings merge recursively and lists become
// an order-stable union. When suffix is set, every group ending with it gets
// a parent named without the suffix.
func MergeGroups(fact, live map[string]map[string]any, liveHosts map[string]struct{}, suffix string) (map[string]GroupRecord, error) {
	// Validate inputs before anything is combined
	for name, rec := range live {
		if _, err := ParseGroup(name, rec); err != nil {
			return nil, err
		}
	}

	factGroups := make(map[string]map[string]any, len(fact))
	for name, rec := range fact {
		if _, err := ParseGroup(name, rec); err != nil {
			return nil, err
		}
		key := FixGroupName(name)
		filtered := restrictHosts(rec, liveHosts)
		if prev, ok := factGroups[key]; ok {
			filtered = mergeValues(prev, filtered).(map[string]any)
		}
		factGroups[key] = filtered
	}

	merged := make(map[string]map[string]any, len(factGroups)+len(live))
	for name, rec := range factGroups {
		merged[name] = rec
	}
	for name, rec := range live {
		key := FixGroupName(name)
		if prev, ok := merged[key]; ok {
			merged[key] = mergeValues(prev, rec).(map[string]any)
			continue
		}
		merged[key] = copyMap(rec)
	}

	if suffix != "" {
		if err := synthesizeParents(merged, suffix); err != nil {
			return nil, err
		}
	}

	out := make(map[string]GroupRecord, len(merged))
	for name, rec := range merged {
		g, err := ParseGroup(name, rec)
		if err != nil {
			return nil, err
		}
		out[name] = g
	}
	return out, nil
}

// restrictHosts returns a copy of rec whose hosts mapping only names live hosts.
func restrictHosts(rec map[string]any, liveHosts map[string]struct{}) map[string]any {
	out := copyMap(rec)
	hosts, ok := rec["hosts"].(map[string]any)
	if !ok {
		return out
	}
	kept := make(map[string]any, len(hosts))
	for h, payload := range hosts {
		if _, live := liveHosts[h]; live {
			kept[h] = payload
		}
	}
	out["hosts"] = kept
	return out
}

// synthesizeParents adds the suffix-stripped parent of every suffixed group.
func synthesizeParents(merged map[string]map[string]any, suffix string) error {
	suffix = FixGroupName(suffix)
	names := utils.SortedKeys(merged)
	for _, name := range names {
		if len(name) <= len(suffix) || !strings.HasSuffix(name, suffix) {
			continue
		}
		parent := strings.TrimSuffix(name, suffix)

		rec, ok := merged[parent]
		if !ok {
			merged[parent] = map[string]any{
				"name":     parent,
				"children": []any{name},
			}
			continue
		}

		var children []any
		if raw, present := rec["children"]; present && raw != nil {
			list, ok := raw.([]any)
			if !ok {
				return &MalformedGroupError{Group: parent, Field: "children"}
			}
			children = append(children, list...)
		}
		rec = copyMap(rec)
		rec["children"] = unionLists(children, []any{name})
		merged[parent] = rec
	}
	return nil
}

// mergeValues combines a fact value with a live value.
func mergeValues(fact, live any) any {
	switch l := live.(type) {
	case map[string]any:
		f, ok := fact.(map[string]any)
		if !ok {
			return l
		}
		out := make(map[string]any, len(f)+len(l))
		for k, v := range f {
			out[k] = v
		}
		for k, lv := range l {
			if fv, ok := f[k]; ok {
				out[k] = mergeValues(fv, lv)
				continue
			}
			out[k] = lv
		}
		return out
	case []any:
		if f, ok := fact.([]any); ok {
			return unionLists(f, l)
		}
	}
	return live
}

// unionLists concatenates a and b and drops later duplicates.
func unionLists(a, b []any) []any {
	out := make([]any, 0, len(a)+len(b))
	for _, list := range [][]any{a, b} {
		for _, v := range list {
			dup := false
			for _, seen := range out {
				if reflect.DeepEqual(seen, v) {
					dup = true
					break
				}
			}
			if !dup {
				out = append(out, v)
			}
		}
	}
	return out
}

// sortedGroupNames returns the merged group names in ascending order.
func sortedGroupNames(groups map[string]GroupRecord) []string {
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
