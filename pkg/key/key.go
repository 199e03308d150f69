package key

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Unit is the qualifier of unqualified keys.
type Unit struct{}

func (Unit) String() string { return "()" }

// Key identifies a managed object by its target type and qualifier.
type Key struct {
	target    reflect.Type
	qualifier any
}

// New builds a Key for target. A nil qualifier means Unit{}. It panics if the
// qualifier is not comparable, the same way a map would.
func New(target reflect.Type, qualifier any) Key {
	if target == nil {
		panic("key: nil target type")
	}
	if qualifier == nil {
		qualifier = Unit{}
	}
	if !reflect.TypeOf(qualifier).Comparable() {
		panic(fmt.Sprintf("key: qualifier of type %T is not comparable", qualifier))
	}
	return Key{target: target, qualifier: qualifier}
}

// Target returns the type of the object identified by k.
func (k Key) Target() reflect.Type { return k.target }

// Qualifier returns the qualifier value of k.
func (k Key) Qualifier() any { return k.qualifier }

// QualifierType returns the dynamic type of the qualifier.
func (k Key) QualifierType() reflect.Type { return reflect.TypeOf(k.qualifier) }

// IsZero reports whether k was never initialised.
func (k Key) IsZero() bool { return k.target == nil }

// Unqualified reports whether k carries the Unit qualifier.
func (k Key) Unqualified() bool {
	_, ok := k.qualifier.(Unit)
	return ok
}

func (k Key) String() string {
	if k.target == nil {
		return "<nil>"
	}
	return k.target.String() + "@" + formatQualifier(k.qualifier)
}

func formatQualifier(q any) string {
	switch v := q.(type) {
	case string:
		return strconv.Quote(v)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Typed is a Key whose target type is fixed to T.
type Typed[T any] struct {
	Key
}

// Of returns the unqualified key of T.
func Of[T any]() Typed[T] {
	return Typed[T]{Key: New(reflect.TypeFor[T](), nil)}
}

// Named returns the key of T qualified by name.
func Named[T any](name string) Typed[T] {
	return Typed[T]{Key: New(reflect.TypeFor[T](), name)}
}

// Qualified returns the key of T qualified by q.
func Qualified[T any](q any) Typed[T] {
	return Typed[T]{Key: New(reflect.TypeFor[T](), q)}
}

// Sort orders keys by their string form, which keeps listings and collected
// results stable between runs. Keys that print alike are ordered by the
// package paths of their types and then by the Go syntax of the qualifier.
func Sort(keys []Key) {
	sort.SliceStable(keys, func(i, j int) bool {
		return keys[i].compare(keys[j]) < 0
	})
}

func (k Key) compare(o Key) int {
	if c := strings.Compare(k.String(), o.String()); c != 0 {
		return c
	}
	if c := strings.Compare(typePath(k.target), typePath(o.target)); c != 0 {
		return c
	}
	qt, ot := k.QualifierType(), o.QualifierType()
	if c := strings.Compare(qt.String(), ot.String()); c != 0 {
		return c
	}
	if c := strings.Compare(typePath(qt), typePath(ot)); c != 0 {
		return c
	}
	return strings.Compare(fmt.Sprintf("%#v", k.qualifier), fmt.Sprintf("%#v", o.qualifier))
}

// typePath names the package of t, looking through pointers, slices and
// maps to the named type inside.
func typePath(t reflect.Type) string {
	for t != nil && t.Name() == "" {
		switch t.Kind() {
		case reflect.Pointer, reflect.Slice, reflect.Array, reflect.Chan:
			t = t.Elem()
		case reflect.Map:
			return typePath(t.Key()) + ":" + typePath(t.Elem())
		default:
			return ""
		}
	}
	if t == nil {
		return ""
	}
	return t.PkgPath()
}
