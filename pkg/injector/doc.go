// Package injector defines how managed objects are requested.
//
// An Injector resolves keys to objects. Top-level requests start a new Call
// trace; requests made by a provider while it builds an object extend the
// trace of the object being built, which is what lets a container tell a
// dependency cycle from an ordinary nested lookup. Providers never see the
// container directly: they receive the injector returned by Forward, which
// threads the trace through every request they make.
//
// Get, Collect, CollectMap and CollectAny are the typed entry points used by
// application code.
package injector
