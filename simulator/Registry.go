package simulator

import (
	"fmt"
	"sort"
)

// Factory constructs a simulator with a given name and keyword options
type Factory func(name string, opts map[string]interface{}) (Simulator, error)

// Registry is a name-addressable collection of simulator factories
type Registry struct {
	factories map[string]Factory
	fallback  Factory
}

// NewRegistry returns a new, empty Registry
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register registers a factory under a name. Registering the same name
// twice is an error.
func (r *Registry) Register(name string, f Factory) error {
	if f == nil {
		return fmt.Errorf("register: nil factory for %v", name)
	}
	if _, ok := r.factories[name]; ok {
		return fmt.Errorf("register: simulator %v already registered", name)
	}
	r.factories[name] = f
	return nil
}

// SetFallback sets a factory used for names that have no factory of
// their own. Backends that can serve arbitrary names, such as a remote
// Gym server, are registered this way.
func (r *Registry) SetFallback(f Factory) {
	r.fallback = f
}

// Make constructs the simulator registered under name
func (r *Registry) Make(name string,
	opts map[string]interface{}) (Simulator, error) {
	f, ok := r.factories[name]
	if !ok {
		f = r.fallback
	}
	if f == nil {
		return nil, &Error{Op: "make", Name: name, Err: ErrUnknownSimulator}
	}

	sim, err := f(name, opts)
	if err != nil {
		return nil, &Error{Op: "make", Name: name, Err: err}
	}
	return sim, nil
}

// Names returns the sorted names of all explicitly registered
// simulators
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
