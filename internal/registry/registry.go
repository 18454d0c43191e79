// Package registry lets modules publish services during Register and find the
// services of other modules during Boot.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/nfrund/coursewizard/internal/config"
)

// ErrServiceNotFound is returned by Require when no service of the requested
// type is registered under the key.
var ErrServiceNotFound = errors.New("service not found")

// Key names a service and fixes its type, e.g. Key[*wizard.Controller]("wizard.controller").
type Key[T any] string

// Registry is shared by all modules of a server. It is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	services map[string]any
	cfg      config.Provider
}

// New creates an empty registry that hands out cfg to the modules.
func New(cfg config.Provider) *Registry {
	return &Registry{
		services: make(map[string]any),
		cfg:      cfg,
	}
}

// Config returns the configuration provider stored in the registry.
func (r *Registry) Config() config.Provider {
	return r.cfg
}

// Names lists the registered service names in order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.services))
	for name := range r.services {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Set registers value under key, replacing an earlier registration.
func Set[T any](r *Registry, key Key[T], value T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.services[string(key)] = value
}

// Get retrieves the service registered under key. A service of another type
// registered under the same name is not returned.
func Get[T any](r *Registry, key Key[T]) (T, bool) {
	r.mu.RLock()
	val, ok := r.services[string(key)]
	r.mu.RUnlock()
	if !ok {
		var zero T
		return zero, false
	}
	result, ok := val.(T)
	return result, ok
}

// Require is Get for dependencies a module cannot boot without.
func Require[T any](r *Registry, key Key[T]) (T, error) {
	val, ok := Get(r, key)
	if !ok {
		return val, fmt.Errorf("%w: %s", ErrServiceNotFound, string(key))
	}
	return val, nil
}

// MustGet is Require that panics, for wiring in tests and package init.
func MustGet[T any](r *Registry, key Key[T]) T {
	val, err := Require(r, key)
	if err != nil {
		panic(err)
	}
	return val
}
