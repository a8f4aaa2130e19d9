package registry

import (
	"context"
	"errors"
	"fmt"

	"github.com/tequmsa/ankhaten/internal/ctxlog"
)

// Sentinel errors surfaced by Materialize. Callers (notably the REST API)
// branch on these to pick response codes.
var (
	ErrComponentNotFound = errors.New("component not found")
	ErrLoaderNotFound    = errors.New("no loader bound for kind")
)

// Materialize builds the component with the given UID through the loader
// bound to its kind. Successful results are cached per UID until the
// component set changes.
func (r *Registry) Materialize(ctx context.Context, uid string) (*Result, error) {
	logger := ctxlog.FromContext(ctx)

	if res, ok := r.cache.get(uid); ok {
		logger.Debug("Materialization cache hit.", "uid", uid)
		return res, nil
	}

	r.mu.RLock()
	c, ok := r.components[uid]
	if !ok {
		r.mu.RUnlock()
		return nil, fmt.Errorf("%w: %s", ErrComponentNotFound, uid)
	}
	l, ok := r.loaders[c.Kind]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: component %s has kind '%s'", ErrLoaderNotFound, uid, c.Kind)
	}

	logger.Debug("Materializing component.", "uid", uid, "kind", c.Kind)
	res, err := l.Build(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("failed to materialize component %s: %w", uid, err)
	}

	r.cache.put(uid, res)
	return res, nil
}

// CacheStats reports materialization cache hit accounting for diagnostics.
func (r *Registry) CacheStats() (hits, misses uint64) {
	return r.cache.stats()
}
