package module

import (
	"fmt"

	"iocc/pkg/registry"
)

// Module registers a set of bindings.
type Module interface {
	Configure(c registry.Configurer) error
}

// Named is implemented by modules that report errors under a chosen name.
type Named interface {
	Name() string
}

// Name returns the name errors of m are reported under.
func Name(m Module) string {
	if n, ok := m.(Named); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", m)
}

// Setup configures c with m and records a returned error against m.
func Setup(m Module, c registry.Configurer) {
	if err := m.Configure(c); err != nil {
		c.ReportModuleError(Name(m), err)
	}
}

type funcModule struct {
	name string
	fn   func(registry.Configurer) error
}

// Func adapts fn to a Module called name.
func Func(name string, fn func(c registry.Configurer) error) Module {
	return &funcModule{name: name, fn: fn}
}

func (m *funcModule) Name() string { return m.name }

func (m *funcModule) Configure(c registry.Configurer) error { return m.fn(c) }

// Configuration is an ordered list of modules. It is a Module itself.
type Configuration struct {
	modules []Module
}

// New returns a configuration of ms.
func New(ms ...Module) *Configuration {
	return &Configuration{modules: append([]Module(nil), ms...)}
}

// With appends m and returns the configuration.
func (c *Configuration) With(m Module) *Configuration {
	c.modules = append(c.modules, m)
	return c
}

// Compose appends the modules of other.
func (c *Configuration) Compose(other *Configuration) *Configuration {
	c.modules = append(c.modules, other.modules...)
	return c
}

func (c *Configuration) Modules() []Module {
	return append([]Module(nil), c.modules...)
}

// Configure sets up every module in order. Module failures are reported to
// r individually, so Configure itself never fails.
func (c *Configuration) Configure(r registry.Configurer) error {
	for _, m := range c.modules {
		Setup(m, r)
	}
	return nil
}
