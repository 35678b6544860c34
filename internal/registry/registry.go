// Package registry provides a global registry for scenario factories.
// Built-in scenarios register themselves in init() functions, allowing the
// platform to discover and instantiate them without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/tui-tanks/internal/scenario"
)

// Info contains metadata about a registered scenario.
type Info struct {
	ID          string
	Name        string
	Description string
	Actors      int
}

// Factory is a function that produces a fresh copy of a scenario.
type Factory func() (scenario.Scenario, error)

var (
	factories = make(map[string]Factory)
	infos     = make(map[string]Info)
	mu        sync.RWMutex
)

// Register adds a scenario factory to the registry.
// Typically called from an init() function.
// Panics if the ID is taken or the factory fails: built-ins are compiled in,
// so either is a programming error.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: scenario %q already registered", id))
	}

	s, err := f()
	if err != nil {
		panic(fmt.Sprintf("registry: scenario %q: %v", id, err))
	}

	factories[id] = f
	infos[id] = Info{
		ID:          id,
		Name:        s.Name,
		Description: s.Description,
		Actors:      len(s.Actors),
	}
}

// List returns information about all registered scenarios, sorted by ID.
func List() []Info {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]Info, 0, len(infos))
	for _, info := range infos {
		result = append(result, info)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create produces a scenario by its ID.
// Returns an error if the ID is not registered.
func Create(id string) (scenario.Scenario, error) {
	mu.RLock()
	f, ok := factories[id]
	mu.RUnlock()

	if !ok {
		return scenario.Scenario{}, fmt.Errorf("registry: unknown scenario %q", id)
	}
	return f()
}

// Exists checks if a scenario with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
