// Package report describes the bindings of a container and writes the
// description as JSON.
package report
