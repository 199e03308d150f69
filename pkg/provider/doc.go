// Package provider builds managed objects.
//
// A Provider is a stateless factory for objects of one type. Every call to
// Provide should yield a new object; caching and sharing are the container's
// business, driven by the lifetime the provider is registered with.
//
// The constructors cover the usual ways of describing an object:
//
//   - Instance returns a fixed value.
//   - Func calls a function that pulls its dependencies from an injector.
//   - Closure calls a function whose parameters are resolved by type.
//   - Struct fills the `inject`-tagged fields of a new struct.
//   - ComponentOf lets a type build itself through a Construct method.
package provider
