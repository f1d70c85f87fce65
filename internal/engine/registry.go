package engine

import (
	"fmt"
	"sort"
	"sync"
)

// Factory is an interface for creating Engine instances.
// It allows for flexible engine instantiation and registration,
// enabling dependency injection and easier testing.
type Factory interface {
	// Get returns an existing Engine instance by name.
	// Returns an error if the engine type is not registered.
	Get(name string) (Engine, error)

	// List returns a sorted list of registered engine names.
	List() []string

	// Register adds a new engine type to the factory.
	Register(name string, creator func() Engine) error

	// Has checks if an engine with the given name is registered.
	Has(name string) bool
}

// DefaultFactory is the default implementation of Factory.
// It maintains a thread-safe registry of engine creators and
// caches Engine instances for reuse.
type DefaultFactory struct {
	mu       sync.RWMutex
	creators map[string]func() Engine
	engines  map[string]Engine
}

// NewDefaultFactory creates a new DefaultFactory with the standard engines
// pre-registered.
//
// Pre-registered engines:
//   - "big": the math/big reference engine (always available)
//   - "gmp": the GMP-backed engine (only with the "gmp" build tag, which
//     registers itself in the global factory)
//
// Returns:
//   - *DefaultFactory: A new factory with default engines registered.
func NewDefaultFactory() *DefaultFactory {
	f := &DefaultFactory{
		creators: make(map[string]func() Engine),
		engines:  make(map[string]Engine),
	}
	_ = f.Register("big", func() Engine { return &BigEngine{} })
	return f
}

// Register adds a new engine type to the factory.
// The creator function is called lazily when the engine is first requested.
// If an engine with the same name already exists, it will be replaced.
//
// Parameters:
//   - name: The unique identifier for the engine type.
//   - creator: A function that creates a new Engine instance.
func (f *DefaultFactory) Register(name string, creator func() Engine) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.creators[name] = creator
	// Clear cached engine if it exists, so it will be recreated with the new creator
	delete(f.engines, name)
	return nil
}

// Get returns an Engine instance by name.
// Instances are cached and reused for subsequent calls with the same name.
//
// Parameters:
//   - name: The name of the engine to retrieve.
//
// Returns:
//   - Engine: The Engine instance.
//   - error: An error if the engine type is not registered.
func (f *DefaultFactory) Get(name string) (Engine, error) {
	f.mu.RLock()
	if eng, exists := f.engines[name]; exists {
		f.mu.RUnlock()
		return eng, nil
	}
	f.mu.RUnlock()

	f.mu.Lock()
	defer f.mu.Unlock()

	// Double-check after acquiring write lock
	if eng, exists := f.engines[name]; exists {
		return eng, nil
	}

	creator, ok := f.creators[name]
	if !ok {
		return nil, fmt.Errorf("unknown engine: %s", name)
	}

	eng := creator()
	f.engines[name] = eng
	return eng, nil
}

// List returns a sorted list of all registered engine names.
// The list is sorted alphabetically for consistent ordering.
func (f *DefaultFactory) List() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	names := make([]string, 0, len(f.creators))
	for name := range f.creators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has checks if an engine with the given name is registered.
func (f *DefaultFactory) Has(name string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	_, exists := f.creators[name]
	return exists
}

// globalFactory is the default global factory instance.
var globalFactory = NewDefaultFactory()

// GlobalFactory returns the global factory instance.
// This is a convenience for applications that don't need
// multiple factory instances.
func GlobalFactory() *DefaultFactory {
	return globalFactory
}

// RegisterEngine registers an engine in the global factory.
// This is how conditionally compiled engines (e.g., the GMP engine)
// make themselves available.
//
// Parameters:
//   - name: The unique identifier for the engine type.
//   - creator: A function that creates a new Engine instance.
func RegisterEngine(name string, creator func() Engine) error {
	return globalFactory.Register(name, creator)
}
