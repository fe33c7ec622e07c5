package inventory

import (
	"errors"
	"fmt"
	"sort"
)

// ErrRecursiveGroup is returned by AddChild when the edge would make a group
// its own ancestor.
var ErrRecursiveGroup = errors.New("recursive group dependency")

// Group is a named collection of hosts with shared variables and child groups.
type Group struct {
	// Name is the unique group name.
	Name string `json:"name"`
	// Vars holds group variables.
	Vars map[string]any `json:"vars,omitempty"`
	// Children lists child group names in insertion order.
	Children []string `json:"children,omitempty"`
	// Hosts lists member host names in insertion order.
	Hosts []string `json:"hosts,omitempty"`
}

// Host is a single managed node.
type Host struct {
	// Name is the unique host identity.
	Name string `json:"name"`
	// Vars holds host variables.
	Vars map[string]any `json:"vars,omitempty"`
	// Groups lists the groups the host belongs to in join order.
	Groups []string `json:"groups,omitempty"`
}

// Graph accumulates hosts, groups, variables and child-group edges.
// All add operations are idempotent; variable writes are last-write-wins.
// A Graph is not safe for concurrent mutation.
type Graph struct {
	groups  map[string]*Group
	parents map[string]map[string]struct{}
	hosts   map[string]*Host
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		groups:  make(map[string]*Group),
		parents: make(map[string]map[string]struct{}),
		hosts:   make(map[string]*Host),
	}
}

// AddGroup inserts the group if absent and returns it.
func (g *Graph) AddGroup(name string) *Group {
	if grp, ok := g.groups[name]; ok {
		return grp
	}
	grp := &Group{Name: name, Vars: map[string]any{}}
	g.groups[name] = grp
	return grp
}

// AddHost inserts the host if absent and returns it.
func (g *Graph) AddHost(name string) *Host {
	if h, ok := g.hosts[name]; ok {
		return h
	}
	h := &Host{Name: name, Vars: map[string]any{}}
	g.hosts[name] = h
	return h
}

// AddHostToGroup joins host to group, creating either if needed.
func (g *Graph) AddHostToGroup(host, group string) {
	h := g.AddHost(host)
	grp := g.AddGroup(group)
	if contains(grp.Hosts, host) {
		return
	}
	grp.Hosts = append(grp.Hosts, host)
	h.Groups = append(h.Groups, group)
}

// AddChild records the parent->child edge, creating both groups if needed.
func (g *Graph) AddChild(parent, child string) error {
	if parent == child {
		return fmt.Errorf("adding group %q as child of itself: %w", child, ErrRecursiveGroup)
	}
	p := g.AddGroup(parent)
	g.AddGroup(child)
	if contains(p.Children, child) {
		return nil
	}
	if g.isAncestor(child, parent) {
		return fmt.Errorf("adding group %q as child of %q: %w", child, parent, ErrRecursiveGroup)
	}
	p.Children = append(p.Children, child)
	if g.parents[child] == nil {
		g.parents[child] = make(map[string]struct{})
	}
	g.parents[child][parent] = struct{}{}
	return nil
}

// isAncestor reports whether candidate is reachable by walking up from group.
func (g *Graph) isAncestor(candidate, group string) bool {
	seen := map[string]struct{}{}
	stack := []string{group}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for p := range g.parents[cur] {
			if p == candidate {
				return true
			}
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			stack = append(stack, p)
		}
	}
	return false
}

// SetHostVar sets a host variable, creating the host if needed.
func (g *Graph) SetHostVar(host, key string, value any) {
	g.AddHost(host).Vars[key] = value
}

// SetGroupVar sets a group variable, creating the group if needed.
func (g *Graph) SetGroupVar(group, key string, value any) {
	g.AddGroup(group).Vars[key] = value
}

// Group returns the named group.
func (g *Graph) Group(name string) (*Group, bool) {
	grp, ok := g.groups[name]
	return grp, ok
}

// Host returns the named host.
func (g *Graph) Host(name string) (*Host, bool) {
	h, ok := g.hosts[name]
	return h, ok
}

// HasGroup reports whether the group exists.
func (g *Graph) HasGroup(name string) bool {
	_, ok := g.groups[name]
	return ok
}

// HasHost reports whether the host exists.
func (g *Graph) HasHost(name string) bool {
	_, ok := g.hosts[name]
	return ok
}

// GroupNames returns all group names sorted.
func (g *Graph) GroupNames() []string {
	names := make([]string, 0, len(g.groups))
	for name := range g.groups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HostNames returns all host names sorted.
func (g *Graph) HostNames() []string {
	names := make([]string, 0, len(g.hosts))
	for name := range g.hosts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Parents returns the sorted parent group names of a group.
func (g *Graph) Parents(group string) []string {
	out := make([]string, 0, len(g.parents[group]))
	for p := range g.parents[group] {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of hosts and groups.
func (g *Graph) Len() (hosts, groups int) {
	return len(g.hosts), len(g.groups)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
