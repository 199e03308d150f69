// Package container resolves keys against a frozen set of bindings.
//
// Containers form a tree that follows a scope hierarchy. The root lives in
// the hierarchy's singleton scope and each Sub call opens a child in the next
// shorter scope, such as a session or a request. An object bound within a
// scope is built at most once per container of that scope and is shared by
// the container's descendants. Transient objects are built on every request.
//
// Containers are safe for concurrent use. When several goroutines request
// the same shared object, one builds it and the others wait for the result.
package container
