package registry

import (
	"fmt"

	"iocc/pkg/key"
	"iocc/pkg/provider"
	"iocc/pkg/scope"
)

// Configurer is what modules register bindings with.
type Configurer interface {
	// Register binds k to p. Problems are recorded and surface from Finish.
	Register(k key.Key, p provider.Provider, lifetime scope.Lifetime)

	// ReportModuleError records a failure of the named module.
	ReportModuleError(module string, err error)

	// Hierarchy is the scope hierarchy bindings must use.
	Hierarchy() *scope.Hierarchy
}

// Registry is the Configurer used to build a container. It is not safe for
// concurrent use.
type Registry struct {
	hierarchy *scope.Hierarchy
	entries   map[key.Key]*Entry
	errs      []error
	finished  bool
}

var _ Configurer = (*Registry)(nil)

// New returns an empty registry for scopes of h.
func New(h *scope.Hierarchy) *Registry {
	return &Registry{hierarchy: h, entries: make(map[key.Key]*Entry)}
}

func (r *Registry) Hierarchy() *scope.Hierarchy { return r.hierarchy }

func (r *Registry) Register(k key.Key, p provider.Provider, lifetime scope.Lifetime) {
	if r.finished {
		r.errs = append(r.errs, fmt.Errorf("register %s: %w", k, ErrFinished))
		return
	}
	if p == nil {
		r.errs = append(r.errs, fmt.Errorf("register %s: %w", k, ErrNilProvider))
		return
	}
	if _, ok := r.entries[k]; ok {
		r.errs = append(r.errs, fmt.Errorf("register %s: %w", k, ErrKeyDuplicated))
		return
	}
	if out := p.Output(); !out.AssignableTo(k.Target()) {
		r.errs = append(r.errs, fmt.Errorf("register %s: %w: %s is not assignable to %s", k, ErrTypeMismatch, out, k.Target()))
		return
	}
	if s, ok := lifetime.Scope(); ok && !r.hierarchy.Contains(s) {
		r.errs = append(r.errs, fmt.Errorf("register %s: %w: %s is not in %s", k, ErrForeignScope, s, r.hierarchy))
		return
	}
	r.entries[k] = &Entry{key: k, provider: p, lifetime: lifetime}
}

func (r *Registry) ReportModuleError(module string, err error) {
	if err == nil {
		return
	}
	r.errs = append(r.errs, &ModuleError{Module: module, Err: err})
}

// Errors returns the errors recorded so far.
func (r *Registry) Errors() []error {
	return append([]error(nil), r.errs...)
}

// Finish freezes the registry. It fails with an *AggregateError listing
// every recorded problem.
func (r *Registry) Finish() (*ProviderMap, error) {
	r.finished = true
	if len(r.errs) > 0 {
		return nil, &AggregateError{Errs: r.Errors()}
	}
	return newProviderMap(r.hierarchy, r.entries), nil
}
