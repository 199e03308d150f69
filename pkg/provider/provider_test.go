package provider_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"iocc/pkg/injector"
	"iocc/pkg/key"
	"iocc/pkg/provider"
)

type fakeInjector struct {
	objects map[key.Key]any
	deps    []key.Key
}

func newFakeInjector() *fakeInjector {
	return &fakeInjector{objects: map[key.Key]any{
		key.Of[int]().Key:                      7,
		key.Of[string]().Key:                   "seven",
		key.Named[string]("app_name").Key:      "greeter",
		key.Qualified[greeter](lang("en")).Key: english{},
		key.Qualified[greeter](lang("zh")).Key: chinese{},
	}}
}

func (f *fakeInjector) Resolve(ctx context.Context, k key.Key) (any, error) {
	return f.ResolveDependency(ctx, k, nil)
}

func (f *fakeInjector) ResolveDependency(_ context.Context, k key.Key, call *injector.Call) (any, error) {
	if call != nil {
		f.deps = append(f.deps, k)
	}
	obj, ok := f.objects[k]
	if !ok {
		return nil, injector.NotFound(k)
	}
	return obj, nil
}

func (f *fakeInjector) Keys(target reflect.Type) []key.Key {
	var out []key.Key
	for k := range f.objects {
		if k.Target() == target {
			out = append(out, k)
		}
	}
	return out
}

type lang string

type greeter interface{ Greet() string }

type english struct{}

func (english) Greet() string { return "hello" }

type chinese struct{}

func (chinese) Greet() string { return "ni hao" }

func provide(t *testing.T, p provider.Provider, inj injector.Injector, k key.Key) (any, error) {
	t.Helper()
	return p.Provide(context.Background(), inj, injector.NewCall(k))
}

func TestInstance(t *testing.T) {
	p := provider.Instance(42)
	obj, err := provide(t, p, newFakeInjector(), key.Of[int]().Key)
	require.NoError(t, err)
	assert.Equal(t, 42, obj)
	assert.Equal(t, reflect.TypeFor[int](), p.Output())
}

func TestFunc(t *testing.T) {
	inj := newFakeInjector()
	p := provider.Func(func(ctx context.Context, inj injector.Injector) (string, error) {
		n, err := injector.Get(ctx, inj, key.Of[int]())
		if err != nil {
			return "", err
		}
		return string(rune('0' + n)), nil
	})

	obj, err := provide(t, p, inj, key.Of[string]().Key)
	require.NoError(t, err)
	assert.Equal(t, "7", obj)
	assert.Equal(t, []key.Key{key.Of[int]().Key}, inj.deps, "requests are recorded as dependencies")
}

func TestFuncError(t *testing.T) {
	boom := errors.New("boom")
	p := provider.Func(func(context.Context, injector.Injector) (int, error) { return 0, boom })

	_, err := provide(t, p, newFakeInjector(), key.Named[int]("x").Key)
	require.Error(t, err)
	assert.ErrorIs(t, err, injector.ErrConstruction)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), `int@"x"`)
}

func TestFuncKeepsInnerError(t *testing.T) {
	p := provider.Func(func(ctx context.Context, inj injector.Injector) (int, error) {
		_, err := injector.Get(ctx, inj, key.Of[float64]())
		return 0, err
	})

	_, err := provide(t, p, newFakeInjector(), key.Of[int]().Key)
	assert.ErrorIs(t, err, injector.ErrNotFound)
	assert.NotErrorIs(t, err, injector.ErrConstruction)
}

func TestClosure(t *testing.T) {
	inj := newFakeInjector()
	p, err := provider.Closure[greeter](func(ctx context.Context, n int, s string) (english, error) {
		if ctx == nil || n != 7 || s != "seven" {
			return english{}, errors.New("bad arguments")
		}
		return english{}, nil
	})
	require.NoError(t, err)

	obj, err := provide(t, p, inj, key.Of[greeter]().Key)
	require.NoError(t, err)
	assert.Equal(t, english{}, obj)
	assert.Equal(t, []key.Key{key.Of[int]().Key, key.Of[string]().Key}, inj.deps)
}

func TestClosureShapes(t *testing.T) {
	cases := map[string]any{
		"not a function": 3,
		"nil function":   (func() int)(nil),
		"variadic":       func(...int) int { return 0 },
		"no result":      func() {},
		"second not err": func() (int, int) { return 0, 0 },
		"wrong result":   func() string { return "" },
	}
	for name, fn := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := provider.Closure[int](fn)
			assert.ErrorIs(t, err, provider.ErrBadClosure)
		})
	}
}

func TestClosureReturnsError(t *testing.T) {
	boom := errors.New("boom")
	p := provider.MustClosure[int](func() (int, error) { return 0, boom })

	_, err := provide(t, p, newFakeInjector(), key.Of[int]().Key)
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, err, injector.ErrConstruction)
}

func TestClosureMissingDependency(t *testing.T) {
	p := provider.MustClosure[int](func(f float64) int { return int(f) })

	_, err := provide(t, p, newFakeInjector(), key.Of[int]().Key)
	assert.ErrorIs(t, err, injector.ErrNotFound)
}

type app struct {
	Number   int              `inject:""`
	Name     string           `inject:"named=app_name"`
	Greeters map[lang]greeter `inject:"collect"`
	All      []greeter        `inject:"collect"`
	Missing  *float64         `inject:"optional"`
	Untagged string
	started  bool
}

func (a *app) PostConstruct(context.Context) error {
	a.started = true
	return nil
}

func TestStruct(t *testing.T) {
	p, err := provider.Struct[*app]((*app)(nil))
	require.NoError(t, err)

	obj, err := provide(t, p, newFakeInjector(), key.Of[*app]().Key)
	require.NoError(t, err)

	a := obj.(*app)
	assert.Equal(t, 7, a.Number)
	assert.Equal(t, "greeter", a.Name)
	assert.Equal(t, map[lang]greeter{"en": english{}, "zh": chinese{}}, a.Greeters)
	assert.Equal(t, []greeter{english{}, chinese{}}, a.All)
	assert.Nil(t, a.Missing)
	assert.Empty(t, a.Untagged)
	assert.True(t, a.started)
}

func TestStructDependencies(t *testing.T) {
	p := provider.MustStruct[*app](&app{})
	deps := p.(interface{ Dependencies() []key.Key }).Dependencies()
	assert.Equal(t, []key.Key{
		key.Of[int]().Key,
		key.Named[string]("app_name").Key,
		key.Of[*float64]().Key,
	}, deps)
}

type badPost struct {
	Number int `inject:""`
}

func (*badPost) PostConstruct(context.Context) error { return errors.New("not ready") }

func TestStructPostConstructError(t *testing.T) {
	p := provider.MustStruct[*badPost]((*badPost)(nil))
	_, err := provide(t, p, newFakeInjector(), key.Of[*badPost]().Key)
	assert.ErrorIs(t, err, injector.ErrConstruction)
	assert.ErrorContains(t, err, "not ready")
}

func TestStructMissingDependency(t *testing.T) {
	type needsFloat struct {
		F float64 `inject:""`
	}
	p := provider.MustStruct[*needsFloat]((*needsFloat)(nil))
	_, err := provide(t, p, newFakeInjector(), key.Of[*needsFloat]().Key)
	assert.ErrorIs(t, err, injector.ErrNotFound)
}

// brokenInjector fails every request for one key with a fixed error.
type brokenInjector struct {
	*fakeInjector
	broken key.Key
	err    error
}

func (b *brokenInjector) Resolve(ctx context.Context, k key.Key) (any, error) {
	return b.ResolveDependency(ctx, k, nil)
}

func (b *brokenInjector) ResolveDependency(ctx context.Context, k key.Key, call *injector.Call) (any, error) {
	if k == b.broken {
		return nil, b.err
	}
	return b.fakeInjector.ResolveDependency(ctx, k, call)
}

type optionalDeps struct {
	Ratio  *float64     `inject:"optional"`
	Floats []float64    `inject:"collect,optional"`
	Names  map[lang]int `inject:"collect,optional"`
}

func TestStructOptional(t *testing.T) {
	p := provider.MustStruct[*optionalDeps]((*optionalDeps)(nil))
	k := key.Of[*optionalDeps]().Key

	t.Run("absent", func(t *testing.T) {
		obj, err := provide(t, p, newFakeInjector(), k)
		require.NoError(t, err)
		d := obj.(*optionalDeps)
		assert.Nil(t, d.Ratio)
		assert.Nil(t, d.Floats)
		assert.Nil(t, d.Names)
	})

	t.Run("broken dependency", func(t *testing.T) {
		inj := &brokenInjector{
			fakeInjector: newFakeInjector(),
			broken:       key.Of[*float64]().Key,
			err:          injector.NotFound(key.Named[int]("missing").Key),
		}
		_, err := provide(t, p, inj, k)
		require.ErrorIs(t, err, injector.ErrNotFound)
		assert.ErrorContains(t, err, `int@"missing"`)
	})

	t.Run("other failure", func(t *testing.T) {
		boom := errors.New("boom")
		inj := &brokenInjector{
			fakeInjector: newFakeInjector(),
			broken:       key.Of[*float64]().Key,
			err:          injector.Construction(key.Of[*float64]().Key, boom),
		}
		_, err := provide(t, p, inj, k)
		assert.ErrorIs(t, err, boom)
	})
}

func TestStructShapes(t *testing.T) {
	type unexported struct {
		n int `inject:""`
	}
	type unknownOption struct {
		N int `inject:"eager"`
	}
	type namedCollect struct {
		N []int `inject:"collect,named=x"`
	}
	type collectScalar struct {
		N int `inject:"collect"`
	}

	assertBad := func(t *testing.T, p provider.Provider, err error) {
		t.Helper()
		assert.Nil(t, p)
		assert.ErrorIs(t, err, provider.ErrBadClosure)
	}

	t.Run("not a pointer", func(t *testing.T) {
		p, err := provider.Struct[app](app{})
		assertBad(t, p, err)
	})
	t.Run("not assignable", func(t *testing.T) {
		p, err := provider.Struct[greeter]((*app)(nil))
		assertBad(t, p, err)
	})
	t.Run("unexported", func(t *testing.T) {
		p, err := provider.Struct[*unexported]((*unexported)(nil))
		assertBad(t, p, err)
	})
	t.Run("unknown option", func(t *testing.T) {
		p, err := provider.Struct[*unknownOption]((*unknownOption)(nil))
		assertBad(t, p, err)
	})
	t.Run("named collect", func(t *testing.T) {
		p, err := provider.Struct[*namedCollect]((*namedCollect)(nil))
		assertBad(t, p, err)
	})
	t.Run("collect scalar", func(t *testing.T) {
		p, err := provider.Struct[*collectScalar]((*collectScalar)(nil))
		assertBad(t, p, err)
	})
}

type counter struct {
	start int
	name  string
}

func (c *counter) Construct(ctx context.Context, inj injector.Injector) error {
	n, err := injector.Get(ctx, inj, key.Of[int]())
	if err != nil {
		return err
	}
	c.start = n
	c.name, err = injector.Get(ctx, inj, key.Named[string]("app_name"))
	return err
}

func (c *counter) Greet() string { return c.name }

func TestComponent(t *testing.T) {
	inj := newFakeInjector()
	p := provider.ComponentOf[counter](func(c *counter) greeter { return c })
	assert.Equal(t, reflect.TypeFor[greeter](), p.Output())

	obj, err := provide(t, p, inj, key.Of[greeter]().Key)
	require.NoError(t, err)
	assert.Equal(t, "greeter", obj.(greeter).Greet())
	assert.Equal(t, 7, obj.(*counter).start)
	assert.Len(t, inj.deps, 2)
}

func TestSelf(t *testing.T) {
	p := provider.Self[counter]()
	assert.Equal(t, reflect.TypeFor[*counter](), p.Output())

	obj, err := provide(t, p, newFakeInjector(), key.Of[*counter]().Key)
	require.NoError(t, err)
	assert.Equal(t, "greeter", obj.(*counter).name)
}

func TestComponentError(t *testing.T) {
	inj := newFakeInjector()
	delete(inj.objects, key.Of[int]().Key)

	_, err := provide(t, provider.Self[counter](), inj, key.Of[*counter]().Key)
	assert.ErrorIs(t, err, injector.ErrNotFound)
}
