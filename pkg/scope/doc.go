// Package scope describes how long managed objects live.
//
// A Hierarchy is an ordered set of scopes, from the longest (the singleton
// scope of a root container) down to the shortest. Each container in a chain
// of sub-containers owns exactly one scope of its hierarchy. A Lifetime is
// either a scope or Transient: transient objects are built on every request
// and never cached.
package scope
