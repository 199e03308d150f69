package provider

import (
	"context"
	"fmt"
	"reflect"

	"iocc/pkg/injector"
)

// Component is implemented by types that build themselves from an injector.
type Component interface {
	Construct(ctx context.Context, inj injector.Injector) error
}

type componentProvider[C any, PC interface {
	*C
	Component
}, T any] struct {
	convert func(PC) T
}

// ComponentOf returns a provider that allocates a new C, lets it construct
// itself and hands it to convert, which typically returns it as an interface:
//
//	provider.ComponentOf[EnglishGreeter](func(g *EnglishGreeter) Greeter { return g })
func ComponentOf[C any, PC interface {
	*C
	Component
}, T any](convert func(PC) T) Provider {
	return &componentProvider[C, PC, T]{convert: convert}
}

// Self is the ComponentOf provider that yields the *C itself.
func Self[C any, PC interface {
	*C
	Component
}]() Provider {
	return ComponentOf[C, PC](func(c PC) PC { return c })
}

func (p *componentProvider[C, PC, T]) Provide(ctx context.Context, inj injector.Injector, call *injector.Call) (any, error) {
	c := PC(new(C))
	if err := c.Construct(ctx, injector.Forward(inj, call)); err != nil {
		return nil, injector.Construction(call.Key(), err)
	}
	return p.convert(c), nil
}

func (p *componentProvider[C, PC, T]) Output() reflect.Type { return reflect.TypeFor[T]() }

func (p *componentProvider[C, PC, T]) String() string {
	return fmt.Sprintf("component(*%s as %s)", reflect.TypeFor[C](), p.Output())
}
