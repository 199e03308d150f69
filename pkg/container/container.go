package container

import (
	"context"
	"fmt"
	"log"
	"reflect"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"iocc/pkg/injector"
	"iocc/pkg/key"
	"iocc/pkg/module"
	"iocc/pkg/registry"
	"iocc/pkg/scope"
)

// tree is the state shared by all containers of one tree.
type tree struct {
	providers *registry.ProviderMap
	logger    *log.Logger
	tracer    trace.Tracer
	strict    bool
	waits     *waitGraph
}

const tracerName = "iocc/pkg/container"

type frameKey struct{}

// frame is the request a provider is running for, carried by the context
// handed to it.
type frame struct {
	tree *tree
	call *injector.Call
}

// callFrom returns the request running in ctx if it belongs to t.
func (t *tree) callFrom(ctx context.Context) *injector.Call {
	f, ok := ctx.Value(frameKey{}).(frame)
	if !ok || f.tree != t {
		return nil
	}
	return f.call
}

// Container resolves keys in one scope of a container tree.
type Container struct {
	id     uuid.UUID
	scope  scope.Scope
	parent *Container
	tree   *tree

	mu       sync.Mutex
	cache    map[key.Key]any
	building map[key.Key]*construction
}

var _ injector.Injector = (*Container)(nil)

// New configures m and returns the root container of a new tree. It fails
// with a *registry.AggregateError if any binding is invalid.
func New(m module.Module, opts ...Option) (*Container, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	r := registry.New(o.hierarchy)
	module.Setup(m, r)
	providers, err := r.Finish()
	if err != nil {
		return nil, err
	}

	t := &tree{
		providers: providers,
		logger:    o.logger,
		tracer:    o.tracer.Tracer(tracerName),
		strict:    o.strict,
		waits:     newWaitGraph(),
	}
	c := newContainer(t, o.hierarchy.Singleton(), nil)
	t.logger.Printf("container %s opened in %s scope with %d bindings", c.id, c.scope, providers.Len())
	return c, nil
}

func newContainer(t *tree, s scope.Scope, parent *Container) *Container {
	return &Container{
		id:       uuid.New(),
		scope:    s,
		parent:   parent,
		tree:     t,
		cache:    make(map[key.Key]any),
		building: make(map[key.Key]*construction),
	}
}

// Sub opens a child container in the next shorter scope. It returns false
// if the container is already in the hierarchy's shortest scope.
func (c *Container) Sub() (*Container, bool) {
	s, ok := c.scope.Hierarchy().Sub(c.scope)
	if !ok {
		return nil, false
	}
	child := newContainer(c.tree, s, c)
	c.tree.logger.Printf("container %s opened in %s scope under %s", child.id, s, c.id)
	return child, true
}

func (c *Container) ID() uuid.UUID { return c.id }

func (c *Container) Scope() scope.Scope { return c.scope }

// Parent returns the enclosing container, or nil for the root.
func (c *Container) Parent() *Container { return c.parent }

// Strict reports whether the tree was built WithStrictLifetimes.
func (c *Container) Strict() bool { return c.tree.strict }

// Keys lists the bound keys with the given target, in key order.
func (c *Container) Keys(target reflect.Type) []key.Key {
	return c.tree.providers.Keys(target)
}

// Bindings lists every binding of the tree, in key order.
func (c *Container) Bindings() []*registry.Entry {
	return c.tree.providers.Entries()
}

// Close releases the container. Cached objects are dropped with it.
func (c *Container) Close() error {
	c.mu.Lock()
	n := len(c.cache)
	c.mu.Unlock()
	c.tree.logger.Printf("container %s closed in %s scope with %d cached objects", c.id, c.scope, n)
	return nil
}

// Resolve handles a top-level request for k. Called from inside a provider
// of the same tree with the context it was given, the request joins the
// provider's trace, so asking for an object that is still being built
// reports a cycle instead of waiting on itself.
func (c *Container) Resolve(ctx context.Context, k key.Key) (any, error) {
	if call := c.tree.callFrom(ctx); call != nil {
		return c.resolve(ctx, call.Append(k))
	}
	return c.resolve(ctx, injector.NewCall(k))
}

func (c *Container) ResolveDependency(ctx context.Context, k key.Key, call *injector.Call) (any, error) {
	if call == nil {
		return c.Resolve(ctx, k)
	}
	return c.resolve(ctx, call.Append(k))
}

func (c *Container) resolve(ctx context.Context, call *injector.Call) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	k := call.Key()

	c.mu.Lock()
	obj, ok := c.cache[k]
	c.mu.Unlock()
	if ok {
		return obj, nil
	}

	e, ok := c.tree.providers.Get(k)
	if !ok {
		return nil, injector.NotFound(k)
	}
	s, shared := e.Lifetime().Scope()
	switch {
	case !shared:
		return c.build(ctx, e, call)
	case s == c.scope:
		return c.resolveShared(ctx, e, call)
	case s.Outlives(c.scope):
		if c.parent == nil {
			return nil, injector.ShortLifetime(k, e.Lifetime(), c.scope)
		}
		return c.parent.resolve(ctx, call)
	case c.tree.strict:
		return nil, injector.ShortLifetime(k, e.Lifetime(), c.scope)
	default:
		return c.build(ctx, e, call)
	}
}

// build creates a new unshared object.
func (c *Container) build(ctx context.Context, e *registry.Entry, call *injector.Call) (any, error) {
	if call.Contains(e.Key()) {
		return nil, injector.Cyclic(e.Key(), call)
	}
	return c.provide(ctx, e, call, false)
}

// provide runs the provider of e inside a span.
func (c *Container) provide(ctx context.Context, e *registry.Entry, call *injector.Call, shared bool) (any, error) {
	ctx, span := c.tree.tracer.Start(ctx, "iocc.provide", trace.WithAttributes(
		attribute.String("iocc.key", e.Key().String()),
		attribute.String("iocc.lifetime", e.Lifetime().String()),
		attribute.String("iocc.scope", c.scope.String()),
		attribute.String("iocc.container", c.id.String()),
		attribute.Bool("iocc.shared", shared),
		attribute.Int("iocc.depth", call.Depth()),
	))
	defer span.End()

	ctx = context.WithValue(ctx, frameKey{}, frame{tree: c.tree, call: call})
	obj, err := e.Provider().Provide(ctx, c, call)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return obj, err
}

// resolveShared returns the object of e cached in c, building it if no
// other resolution is doing so already.
func (c *Container) resolveShared(ctx context.Context, e *registry.Entry, call *injector.Call) (any, error) {
	k := e.Key()
	res := call.Resolution()

	c.mu.Lock()
	if obj, ok := c.cache[k]; ok {
		c.mu.Unlock()
		return obj, nil
	}
	if cons, ok := c.building[k]; ok {
		c.mu.Unlock()
		if cons.owner == res && call.Contains(k) {
			return nil, injector.Cyclic(k, call)
		}
		return c.await(ctx, k, cons, call)
	}
	cons := &construction{owner: res, done: make(chan struct{})}
	c.building[k] = cons
	c.mu.Unlock()

	var (
		obj      any
		err      error
		finished bool
	)
	defer func() {
		if finished {
			return
		}
		// The provider panicked; wake the waiters before unwinding.
		c.mu.Lock()
		delete(c.building, k)
		c.mu.Unlock()
		c.tree.waits.finish(cons, nil, fmt.Errorf("provider of %s panicked", k))
	}()

	obj, err = c.provide(ctx, e, call, true)

	c.mu.Lock()
	delete(c.building, k)
	if err == nil {
		c.cache[k] = obj
	}
	c.mu.Unlock()
	c.tree.waits.finish(cons, obj, err)
	finished = true

	if err != nil {
		c.tree.logger.Printf("container %s failed to build %s: %v", c.id, k, err)
	}
	return obj, err
}

// await waits for a construction owned by another resolution, or by a
// concurrent branch of the same one.
func (c *Container) await(ctx context.Context, k key.Key, cons *construction, call *injector.Call) (any, error) {
	res := call.Resolution()
	if cons.owner != res {
		if !c.tree.waits.add(res, cons) {
			return nil, injector.Cyclic(k, call)
		}
		defer c.tree.waits.remove(res, cons)
	}

	select {
	case <-cons.done:
		return cons.obj, cons.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
