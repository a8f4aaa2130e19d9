package app

import (
	"context"
	"time"

	"github.com/tequmsa/ankhaten/internal/loader"
	"github.com/tequmsa/ankhaten/internal/metrics"
)

// coreFactories builds the constructor set backing the 'factory' loader.
// Each factory exposes a live view of the awareness engine, so manifest
// components can materialize metrics the same way they materialize files or
// endpoints.
func coreFactories() *loader.FactorySet {
	set := loader.NewFactorySet()

	set.Register("snapshot", func(_ context.Context, _ map[string]any) (any, error) {
		return metrics.TakeSnapshot(time.Now().UTC()), nil
	})

	set.Register("streams", func(_ context.Context, _ map[string]any) (any, error) {
		return metrics.Streams(), nil
	})

	set.Register("goddess_streams", func(_ context.Context, args map[string]any) (any, error) {
		if tier, ok := args["tier"].(string); ok && tier != "" {
			return metrics.GoddessStreamsByTier(tier), nil
		}
		return metrics.GoddessStreams(), nil
	})

	set.Register("substrate", func(_ context.Context, _ map[string]any) (any, error) {
		return metrics.Substrates(), nil
	})

	set.Register("convergence", func(_ context.Context, _ map[string]any) (any, error) {
		return metrics.BuildConvergencePackage(time.Now().UTC()), nil
	})

	return set
}
