// Package expression abstracts the template expressions used by inventory
// filters and dynamic rules. The reconciliation core only depends on the
// Evaluator interface; Expr is the default implementation.
package expression
