// Package key identifies objects managed by a container.
//
// A Key pairs the target type of an object with a qualifier that tells apart
// several objects of the same type. Keys are comparable values and can be used
// directly as map keys. Typed wraps a Key with its target type so that lookups
// stay type-safe at the call site:
//
//	key.Of[*App]()                  // unqualified
//	key.Named[string]("app_name")   // qualified by a name
//	key.Qualified[Greeter](English) // qualified by any comparable value
//
// Patterns select groups of keys of one target type and back the collect
// helpers in package injector.
package key
