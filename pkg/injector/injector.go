package injector

import (
	"context"
	"fmt"
	"reflect"

	"iocc/pkg/key"
)

// Injector resolves keys to managed objects.
type Injector interface {
	// Resolve handles a top-level request for k.
	Resolve(ctx context.Context, k key.Key) (any, error)

	// ResolveDependency handles a request for k made while resolving call.
	ResolveDependency(ctx context.Context, k key.Key, call *Call) (any, error)

	// Keys lists the keys bound to objects of the target type.
	Keys(target reflect.Type) []key.Key
}

type forwarding struct {
	inner Injector
	call  *Call
}

// Forward returns an injector whose top-level requests are treated as
// dependencies of call.
func Forward(inj Injector, call *Call) Injector {
	return &forwarding{inner: inj, call: call}
}

func (f *forwarding) Resolve(ctx context.Context, k key.Key) (any, error) {
	return f.inner.ResolveDependency(ctx, k, f.call)
}

func (f *forwarding) ResolveDependency(ctx context.Context, k key.Key, call *Call) (any, error) {
	return f.inner.ResolveDependency(ctx, k, call)
}

func (f *forwarding) Keys(target reflect.Type) []key.Key {
	return f.inner.Keys(target)
}

// Get resolves k and returns the object as a T.
func Get[T any](ctx context.Context, inj Injector, k key.Typed[T]) (T, error) {
	obj, err := inj.Resolve(ctx, k.Key)
	if err != nil {
		var zero T
		return zero, err
	}
	return cast[T](k.Key, obj)
}

// MustGet is like Get but panics on error. It is meant for program setup.
func MustGet[T any](ctx context.Context, inj Injector, k key.Typed[T]) T {
	v, err := Get(ctx, inj, k)
	if err != nil {
		panic(err)
	}
	return v
}

func cast[T any](k key.Key, obj any) (T, error) {
	var zero T
	if obj == nil {
		return zero, nil
	}
	v, ok := obj.(T)
	if !ok {
		return zero, TypeMismatch(k, reflect.TypeFor[T]().String(), fmt.Sprintf("%T", obj))
	}
	return v, nil
}

// matching returns the sorted keys of inj accepted by p. It fails when p does
// not target T.
func matching[T any](inj Injector, p key.Pattern) ([]key.Key, error) {
	target := reflect.TypeFor[T]()
	if p.Target() != target {
		return nil, &Error{Kind: ErrTypeMismatch, Pattern: p.String(), Want: target.String(), Got: p.Target().String()}
	}
	var out []key.Key
	for _, k := range inj.Keys(target) {
		if k.Target() == target && p.Matches(k) {
			out = append(out, k)
		}
	}
	key.Sort(out)
	return out, nil
}

// Collect resolves every key matched by p, in key order.
func Collect[T any](ctx context.Context, inj Injector, p key.Pattern) ([]T, error) {
	keys, err := matching[T](inj, p)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(keys))
	for _, k := range keys {
		obj, err := inj.Resolve(ctx, k)
		if err != nil {
			return nil, err
		}
		v, err := cast[T](k, obj)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, EmptyCollection(reflect.TypeFor[[]T]().String(), p)
	}
	return out, nil
}

// CollectMap resolves every key matched by p whose qualifier is a Q and
// indexes the objects by qualifier.
func CollectMap[Q comparable, T any](ctx context.Context, inj Injector, p key.Pattern) (map[Q]T, error) {
	keys, err := matching[T](inj, p)
	if err != nil {
		return nil, err
	}
	out := make(map[Q]T, len(keys))
	for _, k := range keys {
		q, ok := k.Qualifier().(Q)
		if !ok {
			continue
		}
		obj, err := inj.Resolve(ctx, k)
		if err != nil {
			return nil, err
		}
		v, err := cast[T](k, obj)
		if err != nil {
			return nil, err
		}
		out[q] = v
	}
	if len(out) == 0 {
		return nil, EmptyCollection(reflect.TypeFor[map[Q]T]().String(), p)
	}
	return out, nil
}

// CollectAny resolves every key matched by p and indexes the objects by
// qualifier, whatever the qualifier types are.
func CollectAny[T any](ctx context.Context, inj Injector, p key.Pattern) (map[any]T, error) {
	keys, err := matching[T](inj, p)
	if err != nil {
		return nil, err
	}
	out := make(map[any]T, len(keys))
	for _, k := range keys {
		obj, err := inj.Resolve(ctx, k)
		if err != nil {
			return nil, err
		}
		v, err := cast[T](k, obj)
		if err != nil {
			return nil, err
		}
		out[k.Qualifier()] = v
	}
	if len(out) == 0 {
		return nil, EmptyCollection(reflect.TypeFor[map[any]T]().String(), p)
	}
	return out, nil
}
