package scope

import (
	"errors"
	"fmt"
	"strings"
)

// Scope is one level of a Hierarchy.
type Scope struct {
	h    *Hierarchy
	rank int
	name string
}

func (s Scope) String() string {
	if s.h == nil {
		return "<none>"
	}
	return s.name
}

// IsZero reports whether s is the zero Scope.
func (s Scope) IsZero() bool { return s.h == nil }

// Hierarchy returns the hierarchy s belongs to.
func (s Scope) Hierarchy() *Hierarchy { return s.h }

// Outlives reports whether s lives at least as long as o. Scopes from
// different hierarchies are unordered.
func (s Scope) Outlives(o Scope) bool {
	return s.h != nil && s.h == o.h && s.rank >= o.rank
}

// Within reports whether s lives at most as long as o.
func (s Scope) Within(o Scope) bool {
	return s.h != nil && s.h == o.h && s.rank <= o.rank
}

// Hierarchy is an ordered list of scopes, longest first.
type Hierarchy struct {
	name   string
	scopes []Scope
}

var (
	ErrEmptyHierarchy = errors.New("scope hierarchy has no scopes")
	ErrDuplicateScope = errors.New("duplicate scope name")
	ErrUnknownScope   = errors.New("unknown scope")
)

// NewHierarchy builds a hierarchy from scope names ordered from the longest
// lived to the shortest lived. The first name is the singleton scope.
func NewHierarchy(name string, names ...string) (*Hierarchy, error) {
	if len(names) == 0 {
		return nil, ErrEmptyHierarchy
	}
	h := &Hierarchy{name: name, scopes: make([]Scope, 0, len(names))}
	seen := make(map[string]bool, len(names))
	for i, n := range names {
		if seen[n] {
			return nil, fmt.Errorf("%w %q in %s", ErrDuplicateScope, n, name)
		}
		seen[n] = true
		h.scopes = append(h.scopes, Scope{h: h, rank: len(names) - i, name: n})
	}
	return h, nil
}

// MustHierarchy is like NewHierarchy but panics on error.
func MustHierarchy(name string, names ...string) *Hierarchy {
	h, err := NewHierarchy(name, names...)
	if err != nil {
		panic(err)
	}
	return h
}

func (h *Hierarchy) String() string { return h.name }

// Singleton is the longest scope, owned by root containers.
func (h *Hierarchy) Singleton() Scope { return h.scopes[0] }

// Min is the shortest scope.
func (h *Hierarchy) Min() Scope { return h.scopes[len(h.scopes)-1] }

// Scopes returns every scope, longest first.
func (h *Hierarchy) Scopes() []Scope {
	return append([]Scope(nil), h.scopes...)
}

// Contains reports whether s belongs to h.
func (h *Hierarchy) Contains(s Scope) bool { return s.h == h }

// Sub returns the longest scope strictly within s.
func (h *Hierarchy) Sub(s Scope) (Scope, bool) {
	i := h.index(s)
	if i < 0 || i+1 >= len(h.scopes) {
		return Scope{}, false
	}
	return h.scopes[i+1], true
}

// Super returns the shortest scope strictly outliving s.
func (h *Hierarchy) Super(s Scope) (Scope, bool) {
	i := h.index(s)
	if i <= 0 {
		return Scope{}, false
	}
	return h.scopes[i-1], true
}

// Parse looks a scope up by name, ignoring case.
func (h *Hierarchy) Parse(name string) (Scope, error) {
	for _, s := range h.scopes {
		if strings.EqualFold(s.name, name) {
			return s, nil
		}
	}
	return Scope{}, fmt.Errorf("%w %q in %s", ErrUnknownScope, name, h.name)
}

func (h *Hierarchy) index(s Scope) int {
	if s.h != h {
		return -1
	}
	return len(h.scopes) - s.rank
}

var (
	// SingletonOnly has a single scope; sub-containers cannot be created.
	SingletonOnly = MustHierarchy("singleton", "Singleton")

	// Web models web application lifetimes.
	Web = MustHierarchy("web", "Singleton", "Session", "Request")
)

var (
	Singleton    = SingletonOnly.Singleton()
	WebSingleton = Web.Singleton()
	Session, _   = Web.Sub(WebSingleton)
	Request      = Web.Min()
)
