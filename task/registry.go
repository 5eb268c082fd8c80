package task

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// Definition is the metadata for a registered template: its registry name,
// semver version and a short description.
type Definition struct {
	Name        string          `json:"name"`
	Version     *semver.Version `json:"version"`
	Description string          `json:"description"`
}

// Factory constructs a fresh Template instance. A new instance is created for
// every task execution so templates never carry state between tasks.
type Factory func() (Template, error)

// Registry is a store of template factories keyed by template name.
type Registry struct {
	entries map[string]registryEntry
}

type registryEntry struct {
	def     Definition
	factory Factory
}

// NewRegistry creates an empty template Registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]registryEntry)}
}

// Register adds a template factory under def.Name. Registering the same name
// twice is an error.
func (r *Registry) Register(def Definition, factory Factory) error {
	if def.Name == "" {
		return fmt.Errorf("template name: %w", ErrMissingField)
	}
	if _, exists := r.entries[def.Name]; exists {
		return fmt.Errorf("template %q is already registered", def.Name)
	}

	r.entries[def.Name] = registryEntry{def: def, factory: factory}

	return nil
}

// New instantiates a fresh Template for the given name.
func (r *Registry) New(name string) (Template, error) {
	entry, ok := r.entries[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrTemplateNotFound)
	}

	return entry.factory()
}

// Definition returns the metadata registered under name.
func (r *Registry) Definition(name string) (Definition, error) {
	entry, ok := r.entries[name]
	if !ok {
		return Definition{}, fmt.Errorf("%q: %w", name, ErrTemplateNotFound)
	}

	return entry.def, nil
}
