package schema

import (
	"errors"
	"fmt"
	"sync"
)

// ErrModelNotFound indicates a lookup for a model that was never registered.
var ErrModelNotFound = errors.New("schema: model not found")

// Registry is the startup-built mapping from model name to its descriptor.
// Registration normally happens during wiring, before any resolution request,
// but the registry is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	models map[string]*Model
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{models: map[string]*Model{}}
}

// Register adds a model descriptor. Registering the same name twice is a
// wiring mistake and fails loudly.
func (r *Registry) Register(model *Model) error {
	if model == nil || model.Name == "" {
		return errors.New("schema: model requires a name")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.models[model.Name]; exists {
		return fmt.Errorf("schema: model %q already registered", model.Name)
	}
	r.models[model.Name] = model
	return nil
}

// Lookup returns the descriptor registered under name.
func (r *Registry) Lookup(name string) (*Model, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	model, ok := r.models[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrModelNotFound, name)
	}
	return model, nil
}

// Names returns the registered model names.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.models))
	for name := range r.models {
		names = append(names, name)
	}
	return names
}
