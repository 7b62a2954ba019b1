package binder

import (
	"fmt"
	"slices"
	"sync"

	"github.com/kart-io/logger"
)

// Registry maps schema names to compiled schemas so that declarative
// manifests can refer to a record type by name.
type Registry struct {
	mu      sync.RWMutex
	schemas map[string]*Schema
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{schemas: make(map[string]*Schema)}
}

// Register adds a schema under name.
func (r *Registry) Register(name string, s *Schema) error {
	if name == "" || s == nil {
		return fmt.Errorf("binder: schema registration needs a name and a schema")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.schemas[name]; ok {
		return fmt.Errorf("binder: schema %q already registered for %s", name, existing.Name())
	}
	r.schemas[name] = s
	logger.Debugw("registered config schema", "name", name, "type", s.Name())
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(name string, s *Schema) {
	if err := r.Register(name, s); err != nil {
		panic(err)
	}
}

// Lookup returns the schema registered under name.
func (r *Registry) Lookup(name string) (*Schema, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.schemas[name]
	return s, ok
}

// Names returns all registered names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.schemas))
	for name := range r.schemas {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
