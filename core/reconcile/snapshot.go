package reconcile

import (
	"context"
	"fmt"
)

// Snapshot captures the live group map of src as a fact document named name.
// Groups are keyed by normalized name and validated the same way a run
// validates them, so a snapshot can always be merged back.
func Snapshot(ctx context.Context, src Source, name string) (*FactDocument, error) {
	if name == "" {
		return nil, fmt.Errorf("snapshot name is required")
	}

	list, err := src.FetchGroups(ctx)
	if err != nil {
		return nil, asUnavailable("groups", err)
	}

	groups := IndexGroups(list)
	for key, rec := range groups {
		if _, err := ParseGroup(key, rec); err != nil {
			return nil, err
		}
	}
	return &FactDocument{Name: name, Groups: groups}, nil
}
