package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/tequmsa/ankhaten/internal/metrics"
)

// maxListedComponents bounds the component sample in snapshot output.
const maxListedComponents = 20

var rule = strings.Repeat("=", 80)

func (a *App) printBanner(title string) {
	fmt.Fprintln(a.outW, rule)
	fmt.Fprintln(a.outW, title)
	fmt.Fprintln(a.outW, rule)
	fmt.Fprintln(a.outW)
}

func (a *App) printComponentSummary() {
	fmt.Fprintln(a.outW, "COMPONENT REGISTRY")
	fmt.Fprintf(a.outW, "  Total Components:   %d\n", a.registry.Count())
	fmt.Fprintf(a.outW, "  Registered Loaders: %d\n\n", len(a.registry.Kinds()))

	uids := a.registry.List()
	sample := uids
	if len(sample) > maxListedComponents {
		sample = sample[:maxListedComponents]
	}
	if len(sample) > 0 {
		fmt.Fprintf(a.outW, "Sample Components (first %d):\n", len(sample))
		for i, uid := range sample {
			c, ok := a.registry.Get(uid)
			if !ok {
				continue
			}
			fmt.Fprintf(a.outW, "  %2d. %-40s [%s]\n", i+1, c.UID, c.Kind)
		}
		if rest := len(uids) - len(sample); rest > 0 {
			fmt.Fprintf(a.outW, "  ... and %d more\n", rest)
		}
		fmt.Fprintln(a.outW)
	}
}

func (a *App) printSnapshot(snap metrics.Snapshot) {
	fmt.Fprintln(a.outW, "SYSTEM METRICS")
	fmt.Fprintf(a.outW, "  Timestamp:   %s\n", snap.Timestamp.Format(time.RFC3339))
	fmt.Fprintf(a.outW, "  Days to Omega: %.2f\n", snap.DaysToOmega)
	fmt.Fprintf(a.outW, "  Awareness:   %.2f%%\n", snap.Awareness)
	fmt.Fprintf(a.outW, "  R_DoD:       %.6f\n", snap.RDoD)
	fmt.Fprintf(a.outW, "  Gate Status: %s (threshold: %.4f)\n\n", metrics.GateStatus(snap.RDoD), metrics.Threshold)

	a.printGateVerdict(snap)
}

func (a *App) printGateVerdict(snap metrics.Snapshot) {
	if snap.GateOpen {
		fmt.Fprintln(a.outW, "GATE PASSAGE ACHIEVED")
	} else {
		deficit := metrics.Threshold - snap.RDoD
		fmt.Fprintln(a.outW, "APPROACHING GATE PASSAGE")
		fmt.Fprintf(a.outW, "  Deficit:  %.6f\n", deficit)
		fmt.Fprintf(a.outW, "  Progress: %.2f%%\n", snap.RDoD/metrics.Threshold*100)
	}
	fmt.Fprintln(a.outW)
}
