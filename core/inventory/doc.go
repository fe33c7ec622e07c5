// Package inventory holds the in-memory inventory graph produced by one
// reconciliation run.
//
// # Model
//
// A Graph is a set of groups and hosts. Groups carry variables, member hosts
// and child-group edges; hosts carry variables and their group memberships.
// Every add operation is idempotent and every variable write is
// last-write-wins, which lets the builder apply attribute groups, fact groups
// and rule groups in a fixed order without checking for existence first.
//
// Edges that would make a group its own ancestor are rejected with
// ErrRecursiveGroup.
//
// # Output
//
// Export produces the Ansible dynamic-inventory document:
//
//	{
//	  "_meta": {"hostvars": {"h1": {...}}},
//	  "all": {"children": ["ungrouped", "web"]},
//	  "web": {"hosts": ["h1"], "vars": {...}, "children": ["web_qa"]}
//	}
//
// Tree renders the same graph as the indented text of `ansible-inventory --graph`.
//
// A Graph is built once, never mutated concurrently and never reused across runs.
package inventory
