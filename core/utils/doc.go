// Package utils provides common utility functions for dog-inventory.
// It includes helpers for coercing loosely typed inventory values to strings
// and booleans, and for iterating maps in a deterministic order.
package utils
