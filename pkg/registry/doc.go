// Package registry collects bindings from modules and freezes them into a
// ProviderMap. Registration errors are gathered rather than returned one by
// one, so a single Finish reports every misconfiguration at once.
package registry
