package registry

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrKeyDuplicated = errors.New("key is already registered")
	ErrTypeMismatch  = errors.New("provider output does not match key target")
	ErrForeignScope  = errors.New("scope belongs to another hierarchy")
	ErrNilProvider   = errors.New("provider is nil")
	ErrFinished      = errors.New("registry is already finished")
)

// ModuleError is a failure reported by a module while it configured the
// registry.
type ModuleError struct {
	Module string
	Err    error
}

func (e *ModuleError) Error() string {
	return fmt.Sprintf("module %s: %v", e.Module, e.Err)
}

func (e *ModuleError) Unwrap() error { return e.Err }

// AggregateError holds every error gathered during registration, in the
// order they were reported.
type AggregateError struct {
	Errs []error
}

func (e *AggregateError) Error() string {
	if len(e.Errs) == 1 {
		return e.Errs[0].Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d errors occurred:", len(e.Errs))
	for i, err := range e.Errs {
		fmt.Fprintf(&b, "\n  %d. %v", i+1, err)
	}
	return b.String()
}

func (e *AggregateError) Unwrap() []error { return e.Errs }
