package provider

import (
	"context"
	"fmt"
	"reflect"

	"iocc/pkg/injector"
	"iocc/pkg/key"
)

var errorType = reflect.TypeFor[error]()

type closureProvider struct {
	output  reflect.Type
	fn      reflect.Value
	withCtx bool
	deps    []key.Key
	withErr bool
}

// Closure returns a provider that calls fn with its parameters resolved by
// their unqualified keys. fn may take a leading context.Context and must
// return either a value assignable to T or such a value and an error.
//
//	provider.Closure[Pair](func(c int64, d float64) (Pair, error) { ... })
func Closure[T any](fn any) (Provider, error) {
	output := reflect.TypeFor[T]()
	v := reflect.ValueOf(fn)
	if !v.IsValid() || v.Kind() != reflect.Func || v.IsNil() {
		return nil, fmt.Errorf("%w: closure for %s is %T, not a function", ErrBadClosure, output, fn)
	}
	ft := v.Type()
	if ft.IsVariadic() {
		return nil, fmt.Errorf("%w: closure %s is variadic", ErrBadClosure, ft)
	}

	p := &closureProvider{output: output, fn: v}
	for i := 0; i < ft.NumIn(); i++ {
		in := ft.In(i)
		if i == 0 && in == contextType {
			p.withCtx = true
			continue
		}
		p.deps = append(p.deps, key.New(in, nil))
	}

	switch {
	case ft.NumOut() == 1:
	case ft.NumOut() == 2 && ft.Out(1) == errorType:
		p.withErr = true
	default:
		return nil, fmt.Errorf("%w: closure %s must return %s or (%s, error)", ErrBadClosure, ft, output, output)
	}
	if !ft.Out(0).AssignableTo(output) {
		return nil, fmt.Errorf("%w: closure %s returns %s, not assignable to %s", ErrBadClosure, ft, ft.Out(0), output)
	}
	return p, nil
}

// MustClosure is like Closure but panics on a malformed closure.
func MustClosure[T any](fn any) Provider {
	p, err := Closure[T](fn)
	if err != nil {
		panic(err)
	}
	return p
}

func (p *closureProvider) Provide(ctx context.Context, inj injector.Injector, call *injector.Call) (any, error) {
	fwd := injector.Forward(inj, call)
	ft := p.fn.Type()

	args := make([]reflect.Value, 0, ft.NumIn())
	if p.withCtx {
		args = append(args, reflect.ValueOf(&ctx).Elem())
	}
	for _, dep := range p.deps {
		obj, err := fwd.Resolve(ctx, dep)
		if err != nil {
			return nil, err
		}
		arg, err := valueOf(dep, obj)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}

	out := p.fn.Call(args)
	if p.withErr && !out[1].IsNil() {
		return nil, injector.Construction(call.Key(), out[1].Interface().(error))
	}
	return out[0].Interface(), nil
}

func (p *closureProvider) Output() reflect.Type { return p.output }

// Dependencies lists the keys the closure is called with.
func (p *closureProvider) Dependencies() []key.Key {
	return append([]key.Key(nil), p.deps...)
}

func (p *closureProvider) String() string {
	return fmt.Sprintf("closure(%s)", p.fn.Type())
}

// valueOf converts a resolved object to a value of the key's target type.
func valueOf(k key.Key, obj any) (reflect.Value, error) {
	if obj == nil {
		return reflect.Zero(k.Target()), nil
	}
	v := reflect.ValueOf(obj)
	if !v.Type().AssignableTo(k.Target()) {
		return reflect.Value{}, injector.TypeMismatch(k, k.Target().String(), v.Type().String())
	}
	if v.Type() != k.Target() {
		conv := reflect.New(k.Target()).Elem()
		conv.Set(v)
		return conv, nil
	}
	return v, nil
}
