package plugin

import (
	"fmt"
	"sort"
	"sync"
)

// ErrNotRegistered is returned when a plugin ID is unknown.
var ErrNotRegistered = fmt.Errorf("plugin not registered")

// Registry holds the available review agent plugins keyed by ID.
type Registry struct {
	mu      sync.RWMutex
	plugins map[string]Plugin
}

// NewRegistry creates an empty plugin registry.
func NewRegistry() *Registry {
	return &Registry{plugins: map[string]Plugin{}}
}

// Register adds a plugin. Registering a duplicate or empty ID fails.
func (r *Registry) Register(p Plugin) error {
	if p == nil {
		return fmt.Errorf("plugin cannot be nil")
	}
	if p.ID() == "" {
		return fmt.Errorf("plugin id cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.plugins[p.ID()]; exists {
		return fmt.Errorf("plugin %s already registered", p.ID())
	}
	r.plugins[p.ID()] = p
	return nil
}

// Get returns the plugin with the given ID.
func (r *Registry) Get(id string) (Plugin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.plugins[id]
	if !ok {
		return nil, fmt.Errorf("plugin %s: %w", id, ErrNotRegistered)
	}
	return p, nil
}

// Summaries lists the registered plugins sorted by ID.
func (r *Registry) Summaries() []Summary {
	r.mu.RLock()
	defer r.mu.RUnlock()

	summaries := make([]Summary, 0, len(r.plugins))
	for _, p := range r.plugins {
		summaries = append(summaries, Summary{
			ID:           p.ID(),
			Label:        p.Label(),
			Capabilities: p.Capabilities(),
		})
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].ID < summaries[j].ID
	})
	return summaries
}
