package stats

import (
	"fmt"
	"sort"
)

// Registry is an immutable set of named definitions. It is safe for
// concurrent use once constructed.
type Registry struct {
	defs map[string]Definition
}

// NewRegistry validates every definition and indexes it by name.
func NewRegistry(defs ...Definition) (*Registry, error) {
	r := &Registry{defs: make(map[string]Definition, len(defs))}
	for _, def := range defs {
		if err := def.Validate(); err != nil {
			return nil, err
		}
		if _, dup := r.defs[def.Name]; dup {
			return nil, fmt.Errorf("%w: %q registered twice", ErrInvalidDefinition, def.Name)
		}
		r.defs[def.Name] = def.clone()
	}
	return r, nil
}

// MustNewRegistry is NewRegistry for package-level tables; it panics on an
// invalid definition.
func MustNewRegistry(defs ...Definition) *Registry {
	r, err := NewRegistry(defs...)
	if err != nil {
		panic(err)
	}
	return r
}

// Get returns a copy of the named definition, or an *UnknownDefinitionError.
func (r *Registry) Get(name string) (Definition, error) {
	def, ok := r.defs[name]
	if !ok {
		return Definition{}, &UnknownDefinitionError{Name: name}
	}
	return def.clone(), nil
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.defs))
	for name := range r.defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup reads from the Default registry.
func Lookup(name string) (Definition, error) {
	return Default.Get(name)
}
