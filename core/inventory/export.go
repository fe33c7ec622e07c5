package inventory

import (
	"fmt"
	"sort"
	"strings"
)

const (
	// GroupAll is the implicit root group.
	GroupAll = "all"
	// GroupUngrouped holds hosts that belong to no other group.
	GroupUngrouped = "ungrouped"
)

// GroupEntry is one group in the dynamic-inventory document.
type GroupEntry struct {
	Hosts    []string       `json:"hosts,omitempty" yaml:"hosts,omitempty"`
	Vars     map[string]any `json:"vars,omitempty" yaml:"vars,omitempty"`
	Children []string       `json:"children,omitempty" yaml:"children,omitempty"`
}

// Document is the Ansible dynamic-inventory representation of a graph.
// Groups are keyed by name; Meta carries the per-host variables.
type Document struct {
	Meta   Meta                   `json:"_meta" yaml:"_meta"`
	Groups map[string]*GroupEntry `json:"-" yaml:"-"`
}

// Meta is the `_meta` section of a dynamic-inventory document.
type Meta struct {
	HostVars map[string]map[string]any `json:"hostvars" yaml:"hostvars"`
}

// Map flattens the document into the top-level mapping emitted by `--list`.
func (d *Document) Map() map[string]any {
	out := make(map[string]any, len(d.Groups)+1)
	for name, entry := range d.Groups {
		out[name] = entry
	}
	out["_meta"] = d.Meta
	return out
}

// Export builds the dynamic-inventory document. Host and child lists are
// sorted so that identical graphs export identically.
func (g *Graph) Export() *Document {
	doc := &Document{
		Meta:   Meta{HostVars: make(map[string]map[string]any, len(g.hosts))},
		Groups: make(map[string]*GroupEntry, len(g.groups)+2),
	}

	for name, h := range g.hosts {
		doc.Meta.HostVars[name] = copyVars(h.Vars)
	}

	for name, grp := range g.groups {
		if name == GroupAll || name == GroupUngrouped {
			continue
		}
		doc.Groups[name] = &GroupEntry{
			Hosts:    sortedCopy(grp.Hosts),
			Vars:     copyVars(grp.Vars),
			Children: sortedCopy(grp.Children),
		}
	}

	all := &GroupEntry{Children: g.topLevel()}
	if grp, ok := g.groups[GroupAll]; ok {
		all.Vars = copyVars(grp.Vars)
		all.Hosts = sortedCopy(grp.Hosts)
	}
	doc.Groups[GroupAll] = all

	if ungrouped := g.ungrouped(); len(ungrouped) > 0 {
		doc.Groups[GroupUngrouped] = &GroupEntry{Hosts: ungrouped}
		all.Children = append(all.Children, GroupUngrouped)
		sort.Strings(all.Children)
	}

	return doc
}

// HostVars returns a copy of the variables of a host, or false if absent.
func (g *Graph) HostVars(name string) (map[string]any, bool) {
	h, ok := g.hosts[name]
	if !ok {
		return nil, false
	}
	return copyVars(h.Vars), true
}

// Tree renders the graph like `ansible-inventory --graph`.
func (g *Graph) Tree() string {
	var b strings.Builder
	b.WriteString("@" + GroupAll + ":\n")

	children := g.topLevel()
	if len(g.ungrouped()) > 0 {
		children = append(children, GroupUngrouped)
		sort.Strings(children)
	}
	for _, child := range children {
		g.writeTree(&b, child, 1, map[string]bool{})
	}
	if grp, ok := g.groups[GroupAll]; ok {
		for _, h := range sortedCopy(grp.Hosts) {
			fmt.Fprintf(&b, "%s|--%s\n", indent(1), h)
		}
	}
	return b.String()
}

func (g *Graph) writeTree(b *strings.Builder, name string, depth int, path map[string]bool) {
	fmt.Fprintf(b, "%s|--@%s:\n", indent(depth), name)
	if path[name] {
		return
	}
	path[name] = true
	defer delete(path, name)

	if name == GroupUngrouped {
		for _, h := range g.ungrouped() {
			fmt.Fprintf(b, "%s|--%s\n", indent(depth+1), h)
		}
		return
	}

	grp := g.groups[name]
	for _, child := range sortedCopy(grp.Children) {
		g.writeTree(b, child, depth+1, path)
	}
	for _, h := range sortedCopy(grp.Hosts) {
		fmt.Fprintf(b, "%s|--%s\n", indent(depth+1), h)
	}
}

// topLevel returns groups without a parent, excluding the implicit groups.
func (g *Graph) topLevel() []string {
	var out []string
	for name := range g.groups {
		if name == GroupAll || name == GroupUngrouped {
			continue
		}
		if len(g.parents[name]) == 0 {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// ungrouped returns hosts with no membership other than all/ungrouped.
func (g *Graph) ungrouped() []string {
	var out []string
	for name, h := range g.hosts {
		grouped := false
		for _, grp := range h.Groups {
			if grp != GroupAll && grp != GroupUngrouped {
				grouped = true
				break
			}
		}
		if !grouped {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

func indent(depth int) string {
	return "  " + strings.Repeat("|  ", depth-1)
}

func sortedCopy(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := append([]string(nil), in...)
	sort.Strings(out)
	return out
}

func copyVars(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
