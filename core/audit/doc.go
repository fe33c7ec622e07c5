// Package audit keeps a history of reconciliation runs.
//
// Each successful run stores its report counters, the host and group names
// it produced, and the names added or removed since the previous run. The
// graph itself is never stored; every run still rebuilds it from the
// sources. Auditing is optional and enabled through the database section of
// the configuration.
package audit
