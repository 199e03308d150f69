package module

import (
	"context"

	"iocc/pkg/injector"
	"iocc/pkg/key"
	"iocc/pkg/provider"
	"iocc/pkg/registry"
	"iocc/pkg/scope"
)

// Binding declares how objects of T are built. Without a To* call, T is
// built by a struct provider and must be a struct pointer. The lifetime is
// transient unless Within is called.
type Binding[T any] struct {
	key      key.Key
	lifetime scope.Lifetime
	provider provider.Provider
	err      error
}

// Bind starts an unqualified binding of T.
func Bind[T any]() *Binding[T] {
	return BindKey(key.Of[T]())
}

// BindKey starts a binding of k.
func BindKey[T any](k key.Typed[T]) *Binding[T] {
	return &Binding[T]{key: k.Key, lifetime: scope.Transient()}
}

func (b *Binding[T]) QualifiedBy(q any) *Binding[T] {
	b.key = key.New(b.key.Target(), q)
	return b
}

func (b *Binding[T]) Named(name string) *Binding[T] {
	return b.QualifiedBy(name)
}

// Within shares the built objects in containers of scope s.
func (b *Binding[T]) Within(s scope.Scope) *Binding[T] {
	b.lifetime = scope.Scoped(s)
	return b
}

func (b *Binding[T]) AsTransient() *Binding[T] {
	b.lifetime = scope.Transient()
	return b
}

func (b *Binding[T]) ToInstance(v T) *Binding[T] {
	return b.ToProvider(provider.Instance(v))
}

func (b *Binding[T]) ToFunc(fn func(ctx context.Context, inj injector.Injector) (T, error)) *Binding[T] {
	return b.ToProvider(provider.Func(fn))
}

// ToClosure binds to a function whose parameters are resolved by type. See
// provider.Closure.
func (b *Binding[T]) ToClosure(fn any) *Binding[T] {
	b.provider, b.err = provider.Closure[T](fn)
	return b
}

// ToStruct binds to a struct filled by its inject tags. See provider.Struct.
func (b *Binding[T]) ToStruct(prototype any) *Binding[T] {
	b.provider, b.err = provider.Struct[T](prototype)
	return b
}

func (b *Binding[T]) ToProvider(p provider.Provider) *Binding[T] {
	b.provider, b.err = p, nil
	return b
}

// Key is the key the binding registers.
func (b *Binding[T]) Key() key.Typed[T] {
	return key.Typed[T]{Key: b.key}
}

// SetOn registers the binding with c. A malformed provider is reported as
// an error of the binding's key.
func (b *Binding[T]) SetOn(c registry.Configurer) {
	p, err := b.provider, b.err
	if p == nil && err == nil {
		var zero T
		p, err = provider.Struct[T](zero)
	}
	if err != nil {
		c.ReportModuleError("bind "+b.key.String(), err)
		return
	}
	c.Register(b.key, p, b.lifetime)
}
