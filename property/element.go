package property

import (
	"fmt"
	"slices"

	"github.com/maruel/natural"
)

// Element hosts a set of named properties, remembering the last tuple each
// produced. It is confined to a single goroutine, like its bindings.
type Element struct {
	engine   *Engine
	bindings map[string]*Binding
	values   map[string][]float64
}

// NewElement creates an empty element served by e.
func (e *Engine) NewElement() *Element {
	return &Element{
		engine:   e,
		bindings: make(map[string]*Binding),
		values:   make(map[string][]float64),
	}
}

// Bind declares a property. The handler in cfg, if any, is called after the
// element records the new tuple.
func (el *Element) Bind(name string, cfg Config) error {
	if _, ok := el.bindings[name]; ok {
		return fmt.Errorf("property %q already bound", name)
	}
	handler := cfg.UpdateHandler
	cfg.UpdateHandler = func(values []float64) {
		el.values[name] = values
		if handler != nil {
			handler(values)
		}
	}
	el.bindings[name] = el.engine.Bind(name, cfg)
	return nil
}

// Set updates the source string of a bound property.
func (el *Element) Set(name, raw string) error {
	b, ok := el.bindings[name]
	if !ok {
		return fmt.Errorf("property %q is not bound", name)
	}
	b.Update(raw)
	return nil
}

// Binding returns the binding of a property.
func (el *Element) Binding(name string) (*Binding, bool) {
	b, ok := el.bindings[name]
	return b, ok
}

// Values returns the last tuple produced for name.
func (el *Element) Values(name string) ([]float64, bool) {
	v, ok := el.values[name]
	if !ok {
		return nil, false
	}
	return slices.Clone(v), true
}

// Names returns bound property names in natural order.
func (el *Element) Names() []string {
	names := make([]string, 0, len(el.bindings))
	for name := range el.bindings {
		names = append(names, name)
	}
	slices.SortFunc(names, func(a, b string) int {
		switch {
		case natural.Less(a, b):
			return -1
		case natural.Less(b, a):
			return 1
		}
		return 0
	})
	return names
}

// Attach re-evaluates every detached binding with its last value.
func (el *Element) Attach() {
	for _, b := range el.bindings {
		b.Attach()
	}
}

// Detach detaches every binding.
func (el *Element) Detach() {
	for _, b := range el.bindings {
		b.Detach()
	}
}
