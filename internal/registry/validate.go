package registry

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/tequmsa/ankhaten/internal/ctxlog"
)

// Validate performs a strict parity check between the component set and the
// loader bindings: every component kind referenced by a manifest must have
// a bound loader. All failures are collected so the operator sees the full
// list at once.
func (r *Registry) Validate(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	r.mu.RLock()
	defer r.mu.RUnlock()

	var errs []string
	seen := make(map[string]struct{})
	for _, uid := range r.sortedUIDsLocked() {
		c := r.components[uid]
		if c.Kind == "" {
			errs = append(errs, fmt.Sprintf("component '%s': kind is empty", uid))
			continue
		}
		if _, ok := r.loaders[c.Kind]; !ok {
			if _, dup := seen[c.Kind]; !dup {
				seen[c.Kind] = struct{}{}
				errs = append(errs, fmt.Sprintf("component '%s': no loader bound for kind '%s'", uid, c.Kind))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}

	logger.Debug("Registry validation passed.", "components", len(r.components), "loaders", len(r.loaders))
	return nil
}

// sortedUIDsLocked returns UIDs in sorted order; callers hold r.mu.
func (r *Registry) sortedUIDsLocked() []string {
	uids := make([]string, 0, len(r.components))
	for uid := range r.components {
		uids = append(uids, uid)
	}
	sort.Strings(uids)
	return uids
}
