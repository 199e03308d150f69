package injector

import (
	"errors"
	"fmt"
	"strings"

	"iocc/pkg/key"
)

var (
	ErrNotFound         = errors.New("object not found")
	ErrEmptyCollection  = errors.New("empty collection")
	ErrCyclicDependency = errors.New("cyclic dependency")
	ErrShortLifetime    = errors.New("lifetime shorter than scope")
	ErrConstruction     = errors.New("object construction failed")
	ErrTypeMismatch     = errors.New("type mismatch")
)

// Error describes a failed request. Kind is one of the Err* sentinels and is
// matched by errors.Is, as is Cause when set.
type Error struct {
	Kind error
	Key  key.Key

	// Path is the chain of keys that led to a cyclic dependency.
	Path []key.Key

	Lifetime string
	Scope    string

	Collection string
	Pattern    string

	Want string
	Got  string

	Cause error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	switch e.Kind {
	case ErrNotFound:
		return fmt.Sprintf("could not find the object identified by the given key %s", e.Key)
	case ErrEmptyCollection:
		return fmt.Sprintf("could not gather any object matching %s to a %s", e.Pattern, e.Collection)
	case ErrCyclicDependency:
		msg := fmt.Sprintf("could not construct the object %s which depends on itself somehow", e.Key)
		if len(e.Path) > 1 {
			msg += ": " + formatPath(e.Path)
		}
		return msg
	case ErrShortLifetime:
		return fmt.Sprintf("could not build a object %s of %s lifetime in a %s scope", e.Key, e.Lifetime, e.Scope)
	case ErrConstruction:
		return fmt.Sprintf("could not construct the object %s: %v", e.Key, e.Cause)
	case ErrTypeMismatch:
		if e.Key.IsZero() {
			return fmt.Sprintf("pattern %s targets %s, not %s", e.Pattern, e.Got, e.Want)
		}
		return fmt.Sprintf("object %s is a %s, not a %s", e.Key, e.Got, e.Want)
	default:
		return fmt.Sprintf("%v: %s", e.Kind, e.Key)
	}
}

func (e *Error) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

func formatPath(path []key.Key) string {
	parts := make([]string, len(path))
	for i, k := range path {
		parts[i] = k.String()
	}
	return strings.Join(parts, " -> ")
}

// NotFound reports that nothing is bound to k.
func NotFound(k key.Key) *Error {
	return &Error{Kind: ErrNotFound, Key: k}
}

// Cyclic reports that k depends on itself. call may be nil.
func Cyclic(k key.Key, call *Call) *Error {
	e := &Error{Kind: ErrCyclicDependency, Key: k}
	if call != nil {
		e.Path = call.Path()
	}
	return e
}

// ShortLifetime reports that k cannot be built in a container of scope s.
func ShortLifetime(k key.Key, lifetime, s fmt.Stringer) *Error {
	return &Error{Kind: ErrShortLifetime, Key: k, Lifetime: lifetime.String(), Scope: s.String()}
}

// Construction wraps a provider failure for k. Errors that already describe
// a failed request are returned unchanged so the innermost key is kept.
func Construction(k key.Key, cause error) error {
	var ie *Error
	if errors.As(cause, &ie) {
		return cause
	}
	return &Error{Kind: ErrConstruction, Key: k, Cause: cause}
}

// TypeMismatch reports that the object bound to k is not of the wanted type.
func TypeMismatch(k key.Key, want, got string) *Error {
	return &Error{Kind: ErrTypeMismatch, Key: k, Want: want, Got: got}
}

// EmptyCollection reports that no key matched pattern.
func EmptyCollection(collection string, pattern key.Pattern) *Error {
	return &Error{Kind: ErrEmptyCollection, Collection: collection, Pattern: pattern.String()}
}
