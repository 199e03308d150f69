package demo

import (
	"errors"
	"io"
	"os"

	"iocc/pkg/module"
	"iocc/pkg/provider"
	"iocc/pkg/registry"
)

// Options configures the greeter module.
type Options struct {
	AppName   string
	Languages []GreeterKind
	Output    io.Writer // defaults to os.Stdout
}

// Module returns the greeter bindings. Singletons are bound within the
// singleton scope of the configurer's hierarchy. Session and Visit are only
// bound when the hierarchy has session and request scopes.
func Module(opts Options) module.Module {
	return module.Func("greeter", func(c registry.Configurer) error {
		if len(opts.Languages) == 0 {
			return errors.New("no greeter languages configured")
		}
		h := c.Hierarchy()
		singleton := h.Singleton()

		out := opts.Output
		if out == nil {
			out = os.Stdout
		}
		module.BindKey(AppNameKey).ToInstance(opts.AppName).SetOn(c)
		module.BindKey(OutputKey).ToInstance(out).SetOn(c)

		module.Bind[Logger]().Within(singleton).
			ToProvider(provider.ComponentOf[ConsoleLogger](func(l *ConsoleLogger) Logger { return l })).
			SetOn(c)

		for _, kind := range opts.Languages {
			b := module.Bind[Greeter]().QualifiedBy(kind).Within(singleton)
			switch kind {
			case English:
				b.ToClosure(NewEnglishGreeter)
			case Chinese:
				b.ToProvider(provider.ComponentOf[ChineseGreeter](func(g *ChineseGreeter) Greeter { return g }))
			}
			b.SetOn(c)
		}

		module.Bind[*App]().Within(singleton).SetOn(c)

		if session, ok := h.Sub(singleton); ok {
			module.Bind[*Session]().Within(session).ToClosure(NewSession).SetOn(c)
			if request, ok := h.Sub(session); ok {
				module.Bind[*Visit]().Within(request).ToProvider(provider.Self[Visit]()).SetOn(c)
			}
		}
		return nil
	})
}
