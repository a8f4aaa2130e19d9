package registry

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
)

// Component is a single manifest-declared component: a unique ID, the kind
// that selects its loader, and the kind-specific configuration map.
type Component struct {
	UID    string
	Kind   string
	Config map[string]any
}

// Result is the materialized form of a component.
type Result struct {
	UID    string `json:"component"`
	Kind   string `json:"kind"`
	Source string `json:"source,omitempty"`
	Data   any    `json:"data"`
}

// Loader materializes components of a single kind.
type Loader interface {
	// Kind is the manifest kind string this loader serves.
	Kind() string
	// Build materializes the component. Failures are returned as errors,
	// never encoded into the Result.
	Build(ctx context.Context, c Component) (*Result, error)
}

// Registry holds the component set and the loader bindings for a single
// application instance. It is safe for concurrent use.
type Registry struct {
	mu         sync.RWMutex
	components map[string]Component
	loaders    map[string]Loader
	cache      *materializeCache
}

// New creates an empty Registry with the materialization cache enabled.
func New() *Registry {
	return &Registry{
		components: make(map[string]Component),
		loaders:    make(map[string]Loader),
		cache:      newMaterializeCache(),
	}
}

// Use binds a loader for its kind and returns the registry for chaining.
// Binding the same kind twice is a programmer error.
func (r *Registry) Use(l Loader) *Registry {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.loaders[l.Kind()]; exists {
		panic(fmt.Sprintf("loader for kind '%s' already registered", l.Kind()))
	}
	slog.Debug("Registering loader.", "kind", l.Kind())
	r.loaders[l.Kind()] = l
	return r
}

// Add registers a component, replacing any previous component with the
// same UID.
func (r *Registry) Add(c Component) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.components[c.UID] = c
	r.cache.invalidate(c.UID)
}

// Get returns the component with the given UID.
func (r *Registry) Get(uid string) (Component, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.components[uid]
	return c, ok
}

// List returns all registered component UIDs in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	uids := make([]string, 0, len(r.components))
	for uid := range r.components {
		uids = append(uids, uid)
	}
	sort.Strings(uids)
	return uids
}

// Count returns the number of registered components.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.components)
}

// Kinds returns the bound loader kinds in sorted order.
func (r *Registry) Kinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	kinds := make([]string, 0, len(r.loaders))
	for kind := range r.loaders {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds
}

// Replace swaps the entire component set. Loader bindings are kept and the
// materialization cache is flushed. Used by the manifest watcher on reload.
func (r *Registry) Replace(components []Component) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.components = make(map[string]Component, len(components))
	for _, c := range components {
		r.components[c.UID] = c
	}
	r.cache.invalidateAll()
}
