package provider

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"iocc/pkg/injector"
)

// ErrBadClosure is returned when a closure or struct prototype has a shape
// that cannot be injected.
var ErrBadClosure = errors.New("unsupported provider shape")

// Provider builds objects of a single type.
type Provider interface {
	// Provide builds a new object. Dependencies are requested from inj as
	// part of call.
	Provide(ctx context.Context, inj injector.Injector, call *injector.Call) (any, error)

	// Output is the static type of the built objects.
	Output() reflect.Type
}

var contextType = reflect.TypeFor[context.Context]()

type instanceProvider[T any] struct {
	instance T
}

// Instance returns a provider that always yields v. For the one-new-object
// rule to hold, v should be immutable or a value type.
func Instance[T any](v T) Provider {
	return &instanceProvider[T]{instance: v}
}

func (p *instanceProvider[T]) Provide(context.Context, injector.Injector, *injector.Call) (any, error) {
	return p.instance, nil
}

func (p *instanceProvider[T]) Output() reflect.Type { return reflect.TypeFor[T]() }

func (p *instanceProvider[T]) String() string {
	return fmt.Sprintf("instance(%s)", p.Output())
}

type funcProvider[T any] struct {
	fn func(context.Context, injector.Injector) (T, error)
}

// Func returns a provider backed by fn. The injector handed to fn records
// every request as a dependency of the object being built.
func Func[T any](fn func(ctx context.Context, inj injector.Injector) (T, error)) Provider {
	return &funcProvider[T]{fn: fn}
}

func (p *funcProvider[T]) Provide(ctx context.Context, inj injector.Injector, call *injector.Call) (any, error) {
	obj, err := p.fn(ctx, injector.Forward(inj, call))
	if err != nil {
		return nil, injector.Construction(call.Key(), err)
	}
	return obj, nil
}

func (p *funcProvider[T]) Output() reflect.Type { return reflect.TypeFor[T]() }

func (p *funcProvider[T]) String() string {
	return fmt.Sprintf("func(%s)", p.Output())
}
