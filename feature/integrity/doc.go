// Package integrity provides system health checks.
//
// Unlike the 'inventory' package which serves reconciled inventories, this
// package validates the infrastructure the reconciler depends on.
//
// # Checks Provided
//
//   - Source: fetches hosts and groups from the dog API once and reports counts and latency.
//   - Storage: checks that the fact snapshot bucket exists and lists the stored fact documents.
//   - Database: validates that the run-history table matches the RunRecord model (columns, types).
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all checks (503 when any fails).
//   - GET /integrity/source : Runs the source check.
//   - GET /integrity/storage : Runs the storage check (supports ?fix=true).
//   - GET /integrity/database : Runs the schema check.
package integrity
