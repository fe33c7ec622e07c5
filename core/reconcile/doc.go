// Package reconcile builds the inventory graph from the fleet service.
//
// One run fetches the host list, the live group list and an optional named
// fact document, merges the two group sets and assembles a fresh
// inventory.Graph. Nothing is kept between runs.
//
// # Architecture
//
// The run is split into small steps that share a Context:
//
// 1. Source: fetches raw hosts, groups and the fact document. The dog
// client and the object-storage fact store implement it; MemorySource
// serves captured data.
//
// 2. HostFilter: evaluates the configured key/value predicates. A mismatch
// excludes the host, an evaluation error keeps it.
//
// 3. MergeGroups: deep-merges fact groups into live groups. Live scalars win,
// mappings merge recursively and lists become an order-stable union. Fact
// memberships are restricted to hosts the service still reports. A
// configured suffix (for example "_qa") creates a parent group without it.
//
// 4. Builder: registers every merged group, then adds every admitted host
// with its attribute groups (OS, declared group, per-host vars, identity,
// EC2 metadata), its facts and the compose, groups and keyed_groups rules.
//
// # Normalization
//
// Group names pass through FixGroupName ("-", "+" and "." become "_").
// Host facts are keyed by SlugifyFact, which prefixes "dog_".
//
// # Errors
//
// Fetch failures (SourceUnavailableError), malformed records
// (MalformedGroupError, MalformedHostError) and rule failures in strict mode
// (RuleError) abort the run. They, and any panic, are returned wrapped in a
// single ReconcileError. A missing fact document only logs a warning.
//
// # Usage Example
//
//	engine := reconcile.NewEngine(dogClient, expression.NewExpr(), log)
//	res, err := engine.Reconcile(ctx, cfg.Inventory)
//	if err != nil {
//	    return err
//	}
//	doc := res.Graph.Export()
//
// Servers wrap the engine in a Runner so concurrent requests share one
// in-flight run.
package reconcile
