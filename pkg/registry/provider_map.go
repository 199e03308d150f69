package registry

import (
	"fmt"
	"reflect"

	"iocc/pkg/key"
	"iocc/pkg/provider"
	"iocc/pkg/scope"
)

// Entry is a single binding.
type Entry struct {
	key      key.Key
	provider provider.Provider
	lifetime scope.Lifetime
}

func (e *Entry) Key() key.Key                { return e.key }
func (e *Entry) Provider() provider.Provider { return e.provider }
func (e *Entry) Lifetime() scope.Lifetime    { return e.lifetime }

// Shared reports whether objects of the entry are cached in a scope.
func (e *Entry) Shared() bool { return !e.lifetime.IsTransient() }

func (e *Entry) String() string {
	return fmt.Sprintf("%s => %v (%s)", e.key, e.provider, e.lifetime)
}

// ProviderMap is the frozen set of bindings of a container hierarchy.
type ProviderMap struct {
	hierarchy *scope.Hierarchy
	entries   map[key.Key]*Entry
	byTarget  map[reflect.Type][]key.Key
	sorted    []key.Key
}

func newProviderMap(h *scope.Hierarchy, entries map[key.Key]*Entry) *ProviderMap {
	m := &ProviderMap{
		hierarchy: h,
		entries:   make(map[key.Key]*Entry, len(entries)),
		byTarget:  make(map[reflect.Type][]key.Key),
	}
	for k, e := range entries {
		m.entries[k] = e
		m.byTarget[k.Target()] = append(m.byTarget[k.Target()], k)
		m.sorted = append(m.sorted, k)
	}
	for _, keys := range m.byTarget {
		key.Sort(keys)
	}
	key.Sort(m.sorted)
	return m
}

func (m *ProviderMap) Hierarchy() *scope.Hierarchy { return m.hierarchy }

// Get returns the entry bound to k.
func (m *ProviderMap) Get(k key.Key) (*Entry, bool) {
	e, ok := m.entries[k]
	return e, ok
}

// Keys lists the keys with the given target, in key order.
func (m *ProviderMap) Keys(target reflect.Type) []key.Key {
	return append([]key.Key(nil), m.byTarget[target]...)
}

// Entries lists every entry in key order.
func (m *ProviderMap) Entries() []*Entry {
	out := make([]*Entry, len(m.sorted))
	for i, k := range m.sorted {
		out[i] = m.entries[k]
	}
	return out
}

func (m *ProviderMap) Len() int { return len(m.entries) }
