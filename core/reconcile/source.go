package reconcile

import (
	"context"
	"fmt"
)

// Source fetches the raw inventory data for one run.
//
// Implementations wrap transport and status failures in
// SourceUnavailableError and report a missing fact document with
// ErrFactNotFound.
type Source interface {
	// FetchHosts returns every host, or only active ones when activeOnly is set.
	FetchHosts(ctx context.Context, activeOnly bool) ([]map[string]any, error)
	// FetchGroups returns every live group record.
	FetchGroups(ctx context.Context) ([]map[string]any, error)
	// FetchFact returns the named fact document.
	FetchFact(ctx context.Context, name string) (*FactDocument, error)
}

// FactSource fetches fact documents only.
type FactSource interface {
	FetchFact(ctx context.Context, name string) (*FactDocument, error)
}

// FilterActive keeps the hosts whose active field equals ActiveStatus.
func FilterActive(hosts []map[string]any) []map[string]any {
	out := make([]map[string]any, 0, len(hosts))
	for _, h := range hosts {
		if s, ok := h[FieldActive].(string); ok && s == ActiveStatus {
			out = append(out, h)
		}
	}
	return out
}

// WithFactSource returns a Source that reads hosts and groups from live and
// fact documents from facts.
func WithFactSource(live Source, facts FactSource) Source {
	return &splitSource{Source: live, facts: facts}
}

type splitSource struct {
	Source
	facts FactSource
}

func (s *splitSource) FetchFact(ctx context.Context, name string) (*FactDocument, error) {
	return s.facts.FetchFact(ctx, name)
}

// MemorySource serves a fixed dataset. It is used for offline runs from a
// captured dump and in tests.
type MemorySource struct {
	Hosts  []map[string]any          `json:"hosts"`
	Groups []map[string]any          `json:"groups"`
	Facts  map[string]*FactDocument `json:"facts,omitempty"`
	// Err, when set, is returned by FetchHosts and FetchGroups.
	Err error `json:"-"`
}

// FetchHosts implements Source.
func (m *MemorySource) FetchHosts(_ context.Context, activeOnly bool) ([]map[string]any, error) {
	if m.Err != nil {
		return nil, &SourceUnavailableError{Op: "hosts", Err: m.Err}
	}
	hosts := make([]map[string]any, 0, len(m.Hosts))
	for _, h := range m.Hosts {
		hosts = append(hosts, copyMap(h))
	}
	if activeOnly {
		hosts = FilterActive(hosts)
	}
	return hosts, nil
}

// FetchGroups implements Source.
func (m *MemorySource) FetchGroups(_ context.Context) ([]map[string]any, error) {
	if m.Err != nil {
		return nil, &SourceUnavailableError{Op: "groups", Err: m.Err}
	}
	groups := make([]map[string]any, 0, len(m.Groups))
	for _, g := range m.Groups {
		groups = append(groups, copyMap(g))
	}
	return groups, nil
}

// FetchFact implements Source.
func (m *MemorySource) FetchFact(_ context.Context, name string) (*FactDocument, error) {
	doc, ok := m.Facts[name]
	if !ok {
		return nil, fmt.Errorf("fact %q: %w", name, ErrFactNotFound)
	}
	return doc, nil
}

func copyMap(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
