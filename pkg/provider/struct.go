package provider

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"iocc/pkg/injector"
	"iocc/pkg/key"
)

// PostConstructor is implemented by objects that finish their setup once
// every injected field is set.
type PostConstructor interface {
	PostConstruct(ctx context.Context) error
}

type fieldMode int

const (
	fieldSingle fieldMode = iota
	fieldSlice
	fieldMap
)

type injectField struct {
	index    int
	name     string
	mode     fieldMode
	key      key.Key
	pattern  key.Pattern
	optional bool
}

type structProvider struct {
	output reflect.Type
	elem   reflect.Type
	fields []injectField
}

// Struct returns a provider that allocates a new struct of the prototype's
// type and fills its exported fields tagged with `inject`:
//
//	Logger   Logger             `inject:""`
//	AppName  string             `inject:"named=app_name"`
//	Greeters map[Kind]Greeter   `inject:"collect"`
//	Metrics  Metrics            `inject:"optional"`
//
// A collected slice gathers every object of its element type; a collected map
// gathers those whose qualifier has the map's key type. Options are comma
// separated. The prototype is a pointer to the struct, nil or not, and the
// pointer type must be assignable to T. If the new object implements
// PostConstructor, PostConstruct runs last.
func Struct[T any](prototype any) (Provider, error) {
	output := reflect.TypeFor[T]()
	pt := reflect.TypeOf(prototype)
	if pt == nil || pt.Kind() != reflect.Pointer || pt.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: struct prototype for %s is %T, not a struct pointer", ErrBadClosure, output, prototype)
	}
	if !pt.AssignableTo(output) {
		return nil, fmt.Errorf("%w: %s is not assignable to %s", ErrBadClosure, pt, output)
	}

	p := &structProvider{output: output, elem: pt.Elem()}
	for i := 0; i < p.elem.NumField(); i++ {
		sf := p.elem.Field(i)
		tag, ok := sf.Tag.Lookup("inject")
		if !ok {
			continue
		}
		if !sf.IsExported() {
			return nil, fmt.Errorf("%w: field %s.%s is tagged but unexported", ErrBadClosure, p.elem, sf.Name)
		}
		f, err := parseField(i, sf, tag)
		if err != nil {
			return nil, err
		}
		p.fields = append(p.fields, f)
	}
	return p, nil
}

// MustStruct is like Struct but panics on a malformed prototype.
func MustStruct[T any](prototype any) Provider {
	p, err := Struct[T](prototype)
	if err != nil {
		panic(err)
	}
	return p
}

func parseField(index int, sf reflect.StructField, tag string) (injectField, error) {
	f := injectField{index: index, name: sf.Name}
	var (
		qualifier any
		collect   bool
	)
	for _, opt := range strings.Split(tag, ",") {
		opt = strings.TrimSpace(opt)
		switch {
		case opt == "":
		case opt == "optional":
			f.optional = true
		case opt == "collect":
			collect = true
		case strings.HasPrefix(opt, "named="):
			qualifier = strings.TrimPrefix(opt, "named=")
		default:
			return f, fmt.Errorf("%w: field %s has unknown inject option %q", ErrBadClosure, sf.Name, opt)
		}
	}

	if !collect {
		f.mode = fieldSingle
		f.key = key.New(sf.Type, qualifier)
		return f, nil
	}
	if qualifier != nil {
		return f, fmt.Errorf("%w: field %s cannot be both named and collected", ErrBadClosure, sf.Name)
	}
	switch sf.Type.Kind() {
	case reflect.Slice:
		f.mode = fieldSlice
		f.pattern = key.AnyOf(sf.Type.Elem())
	case reflect.Map:
		f.mode = fieldMap
		if sf.Type.Key().Kind() == reflect.Interface {
			f.pattern = key.AnyOf(sf.Type.Elem())
		} else {
			f.pattern = key.ByQualifierOf(sf.Type.Elem(), sf.Type.Key())
		}
	default:
		return f, fmt.Errorf("%w: collected field %s must be a slice or a map, not %s", ErrBadClosure, sf.Name, sf.Type)
	}
	return f, nil
}

func (p *structProvider) Provide(ctx context.Context, inj injector.Injector, call *injector.Call) (any, error) {
	fwd := injector.Forward(inj, call)
	ptr := reflect.New(p.elem)
	obj := ptr.Elem()

	for _, f := range p.fields {
		var (
			v   reflect.Value
			err error
		)
		switch f.mode {
		case fieldSingle:
			v, err = p.single(ctx, fwd, f)
		default:
			v, err = collectInto(ctx, fwd, obj.Field(f.index).Type(), f.pattern)
		}
		if err != nil {
			if f.optional && f.absent(err) {
				continue
			}
			return nil, err
		}
		obj.Field(f.index).Set(v)
	}

	if pc, ok := ptr.Interface().(PostConstructor); ok {
		if err := pc.PostConstruct(ctx); err != nil {
			return nil, injector.Construction(call.Key(), err)
		}
	}
	return ptr.Interface(), nil
}

// absent reports whether err says that nothing is bound for the field
// itself, as opposed to a failure further down its dependencies.
func (f injectField) absent(err error) bool {
	var ie *injector.Error
	if !errors.As(err, &ie) {
		return false
	}
	switch f.mode {
	case fieldSingle:
		return ie.Kind == injector.ErrNotFound && ie.Key == f.key
	default:
		return ie.Kind == injector.ErrEmptyCollection && ie.Pattern == f.pattern.String()
	}
}

func (p *structProvider) single(ctx context.Context, inj injector.Injector, f injectField) (reflect.Value, error) {
	obj, err := inj.Resolve(ctx, f.key)
	if err != nil {
		return reflect.Value{}, err
	}
	return valueOf(f.key, obj)
}

// collectInto gathers the objects matched by pattern into a new slice or map
// of type t.
func collectInto(ctx context.Context, inj injector.Injector, t reflect.Type, pattern key.Pattern) (reflect.Value, error) {
	var keys []key.Key
	for _, k := range inj.Keys(pattern.Target()) {
		if pattern.Matches(k) {
			keys = append(keys, k)
		}
	}
	key.Sort(keys)
	if len(keys) == 0 {
		return reflect.Value{}, injector.EmptyCollection(t.String(), pattern)
	}

	var out reflect.Value
	if t.Kind() == reflect.Slice {
		out = reflect.MakeSlice(t, 0, len(keys))
	} else {
		out = reflect.MakeMapWithSize(t, len(keys))
	}
	for _, k := range keys {
		obj, err := inj.Resolve(ctx, k)
		if err != nil {
			return reflect.Value{}, err
		}
		v, err := valueOf(k, obj)
		if err != nil {
			return reflect.Value{}, err
		}
		if t.Kind() == reflect.Slice {
			out = reflect.Append(out, v)
			continue
		}
		q := reflect.New(t.Key()).Elem()
		q.Set(reflect.ValueOf(k.Qualifier()))
		out.SetMapIndex(q, v)
	}
	return out, nil
}

func (p *structProvider) Output() reflect.Type { return p.output }

// Dependencies lists the keys of the single-valued injected fields.
func (p *structProvider) Dependencies() []key.Key {
	var deps []key.Key
	for _, f := range p.fields {
		if f.mode == fieldSingle {
			deps = append(deps, f.key)
		}
	}
	return deps
}

func (p *structProvider) String() string {
	return fmt.Sprintf("struct(*%s)", p.elem)
}
