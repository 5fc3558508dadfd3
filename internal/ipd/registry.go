package ipd

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// registry holds the built-in and user-registered models by lower-cased name.
var registry = struct {
	sync.RWMutex
	models map[string]*Model
}{models: make(map[string]*Model)}

// Register adds a model to the registry. Names are case-insensitive;
// re-registering a name is an error.
func Register(m *Model) error {
	key := strings.ToLower(m.Name())
	registry.Lock()
	defer registry.Unlock()
	if _, ok := registry.models[key]; ok {
		return fmt.Errorf("model %q already registered", m.Name())
	}
	registry.models[key] = m
	return nil
}

// Get returns a registered model by name (case-insensitive).
func Get(name string) (*Model, error) {
	registry.RLock()
	defer registry.RUnlock()
	m, ok := registry.models[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown model %q (available: %s)", name, strings.Join(namesLocked(), ", "))
	}
	return m, nil
}

// Names returns the registered model names, sorted.
func Names() []string {
	registry.RLock()
	defer registry.RUnlock()
	return namesLocked()
}

func namesLocked() []string {
	names := make([]string, 0, len(registry.models))
	for _, m := range registry.models {
		names = append(names, m.Name())
	}
	sort.Strings(names)
	return names
}
