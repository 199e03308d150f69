package report

import (
	"encoding/json"
	"fmt"
	"io"

	"iocc/pkg/container"
	"iocc/pkg/key"
)

// Binding describes one entry of a container's provider map.
type Binding struct {
	Key          string   `json:"key"`
	Fingerprint  string   `json:"fingerprint"`
	Target       string   `json:"target"`
	Qualifier    string   `json:"qualifier"`
	Lifetime     string   `json:"lifetime"`
	Provider     string   `json:"provider"`
	Dependencies []string `json:"dependencies,omitempty"`
}

// Report describes the bindings of a container tree.
type Report struct {
	Hierarchy string    `json:"hierarchy"`
	Scopes    []string  `json:"scopes"`
	Strict    bool      `json:"strict"`
	Bindings  []Binding `json:"bindings"`
}

type dependencyLister interface {
	Dependencies() []key.Key
}

// New builds the report of c's bindings, in key order.
func New(c *container.Container) *Report {
	h := c.Scope().Hierarchy()
	r := &Report{Hierarchy: h.String(), Strict: c.Strict()}
	for _, s := range h.Scopes() {
		r.Scopes = append(r.Scopes, s.String())
	}
	for _, e := range c.Bindings() {
		k := e.Key()
		b := Binding{
			Key:         k.String(),
			Fingerprint: Fingerprint(k),
			Target:      k.Target().String(),
			Qualifier:   fmt.Sprintf("%T", k.Qualifier()),
			Lifetime:    e.Lifetime().String(),
			Provider:    fmt.Sprint(e.Provider()),
		}
		if dl, ok := e.Provider().(dependencyLister); ok {
			for _, d := range dl.Dependencies() {
				b.Dependencies = append(b.Dependencies, d.String())
			}
		}
		r.Bindings = append(r.Bindings, b)
	}
	return r
}

// WriteText writes one line per binding.
func (r *Report) WriteText(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "hierarchy %s %v\n", r.Hierarchy, r.Scopes); err != nil {
		return err
	}
	for _, b := range r.Bindings {
		line := fmt.Sprintf("%s  %-10s %s => %s", b.Fingerprint, b.Lifetime, b.Key, b.Provider)
		if len(b.Dependencies) > 0 {
			line += fmt.Sprintf(" %v", b.Dependencies)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// WriteJSON writes the indented JSON form of r to w.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
