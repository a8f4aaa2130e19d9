package loader

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/tequmsa/ankhaten/internal/registry"
)

// FactoryFunc is a registered Go constructor invoked by the factory loader.
type FactoryFunc func(ctx context.Context, args map[string]any) (any, error)

// FactorySet holds the named factories compiled into the binary. It plays
// the role the dotted-path importer played in the reference system: the
// manifest names a constructor, the set resolves it.
type FactorySet struct {
	all map[string]FactoryFunc
}

// NewFactorySet creates an empty factory set.
func NewFactorySet() *FactorySet {
	return &FactorySet{all: make(map[string]FactoryFunc)}
}

// Register adds a named factory. Registering the same name twice is a
// programmer error.
func (s *FactorySet) Register(name string, fn FactoryFunc) {
	if _, exists := s.all[name]; exists {
		panic(fmt.Sprintf("factory with name '%s' already registered", name))
	}
	slog.Debug("Registering factory.", "name", name)
	s.all[name] = fn
}

// Names returns the registered factory names in sorted order.
func (s *FactorySet) Names() []string {
	names := make([]string, 0, len(s.all))
	for name := range s.all {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Factory materializes components by calling a registered Go constructor.
// Config:
//
//	factory: name of the registered constructor (required)
//	args:    map passed to the constructor (optional)
type Factory struct {
	set *FactorySet
}

// NewFactory creates the factory loader over the given set.
func NewFactory(set *FactorySet) *Factory {
	return &Factory{set: set}
}

// Kind implements registry.Loader.
func (l *Factory) Kind() string { return "factory" }

// Build implements registry.Loader.
func (l *Factory) Build(ctx context.Context, c registry.Component) (*registry.Result, error) {
	name := confString(c.Config, "factory", "")
	if name == "" {
		return nil, fmt.Errorf("component %s: factory loader requires a 'factory' setting", c.UID)
	}

	fn, ok := l.set.all[name]
	if !ok {
		return nil, fmt.Errorf("component %s: unknown factory '%s'", c.UID, name)
	}

	data, err := fn(ctx, confAnyMap(c.Config, "args"))
	if err != nil {
		return nil, fmt.Errorf("component %s: factory '%s' failed: %w", c.UID, name, err)
	}

	return &registry.Result{UID: c.UID, Kind: l.Kind(), Source: name, Data: data}, nil
}
