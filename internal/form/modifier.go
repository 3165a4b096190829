// Package form builds the admin product form payload by running it through a
// sorted pool of modifiers.
package form

import (
	"context"
	"sort"
)

// Meta is the UI component tree of a form, keyed by component name.
type Meta map[string]any

// Data is the form data payload, keyed by entity id.
type Data map[string]any

// Modifier augments the metadata and data of a form. Implementations must not
// mutate their input.
type Modifier interface {
	ModifyMeta(ctx context.Context, meta Meta) Meta
	ModifyData(ctx context.Context, data Data) Data
}

// PoolEntry registers a modifier under a name and sort order.
type PoolEntry struct {
	Name      string
	SortOrder int
	Modifier  Modifier
}

// Pool applies its modifiers in ascending sort order. Entries with equal sort
// order keep their registration order.
type Pool struct {
	entries []PoolEntry
}

func NewPool(entries ...PoolEntry) *Pool {
	sorted := make([]PoolEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SortOrder < sorted[j].SortOrder
	})
	return &Pool{entries: sorted}
}

// Entries returns the registered modifiers in application order.
func (p *Pool) Entries() []PoolEntry {
	return p.entries
}

func (p *Pool) ModifyMeta(ctx context.Context, meta Meta) Meta {
	for _, e := range p.entries {
		meta = e.Modifier.ModifyMeta(ctx, meta)
	}
	return meta
}

func (p *Pool) ModifyData(ctx context.Context, data Data) Data {
	for _, e := range p.entries {
		data = e.Modifier.ModifyData(ctx, data)
	}
	return data
}
