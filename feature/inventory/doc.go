// Package inventory serves the reconciled inventory over HTTP.
//
// Every request triggers a reconciliation through the shared runner, so
// concurrent requests collapse into one run and no graph outlives it.
//
// # Routes
//
//   - GET /inventory: the dynamic-inventory document (format=yaml, hostvars=false)
//   - GET /inventory/hosts/:name: variables and groups of one host
//   - GET /inventory/groups/:name: one group entry
//   - GET /inventory/graph: text tree of the group hierarchy
//   - GET /inventory/runs: recorded run history (limit), when auditing is on
package inventory
