package container

import (
	"io"
	"log"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"iocc/pkg/scope"
)

type options struct {
	hierarchy *scope.Hierarchy
	logger    *log.Logger
	tracer    trace.TracerProvider
	strict    bool
}

// Option configures a root container.
type Option func(*options)

// WithHierarchy sets the scope hierarchy of the container tree. The default
// is scope.SingletonOnly.
func WithHierarchy(h *scope.Hierarchy) Option {
	return func(o *options) { o.hierarchy = h }
}

// WithLogger sets the logger for container lifecycle events. Nothing is
// logged by default.
func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithTracerProvider sets where provider spans are recorded. The default is
// the global provider at the time New is called.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) { o.tracer = tp }
}

// WithStrictLifetimes makes requests for objects bound within a scope
// shorter than the container's fail with injector.ErrShortLifetime instead
// of building them unshared.
func WithStrictLifetimes() Option {
	return func(o *options) { o.strict = true }
}

func defaultOptions() options {
	return options{
		hierarchy: scope.SingletonOnly,
		logger:    log.New(io.Discard, "", 0),
		tracer:    otel.GetTracerProvider(),
	}
}
