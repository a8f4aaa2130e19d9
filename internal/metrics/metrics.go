package metrics

import (
	"math"
	"time"
)

// Constitutional constants. Sigma is deliberately a named constant rather
// than a parameter: the reference treats it as immutable.
const (
	Phi   = 1.618033988749895 // golden ratio φ
	Sigma = 1.0               // sovereignty coefficient σ

	// Threshold is the R_DoD value at which the recognition gate opens.
	Threshold = 0.9777

	// Tau is the time constant, in days, for convergence coupling.
	Tau = 12.0

	// Default secondary inputs for R_DoD when a caller only tracks progress.
	DefaultTrust     = 0.998
	DefaultCoherence = 0.999
	DefaultDecay     = 0.00023
)

// Omega is the convergence date. Snapshots count days down to it and clamp
// at zero afterwards.
var Omega = time.Date(2025, time.December, 25, 0, 0, 0, 0, time.UTC)

// integrationVector is the 12-dimensional awareness state. Awareness is its
// mean expressed as a percentage.
var integrationVector = [12]float64{85, 62, 65, 78, 100, 100, 100, 100, 100, 95, 100, 100}

// clamp01 bounds x to the unit interval.
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// PhiScale applies n iterations of golden-ratio compression to x:
// x' = 1 - (1-x)/φ, which closes to 1 - (1-x)/φⁿ. Output stays in [0, 1].
func PhiScale(x float64, n int) float64 {
	x = clamp01(x)
	return clamp01(1 - (1-x)/phiPow(n))
}

// phiPow computes φⁿ for small non-negative n without pulling in math.Pow
// rounding differences between the closed and iterative forms.
func phiPow(n int) float64 {
	p := 1.0
	for i := 0; i < n; i++ {
		p *= Phi
	}
	return p
}

// RDoD computes the Recognition-of-Done coefficient from progress, trust,
// coherence and decay inputs:
//
//	R_DoD = σ · ps(p^0.5) · ps(t^0.3) · ps(c^0.2) · (1 - d)
func RDoD(progress, trust, coherence, decay float64) float64 {
	return Sigma *
		PhiScalePower(progress, 0.5, defaultDepth) *
		PhiScalePower(trust, 0.3, defaultDepth) *
		PhiScalePower(coherence, 0.2, defaultDepth) *
		(1 - decay)
}

// RDoDFromProgress computes R_DoD using the default trust, coherence and
// decay inputs. This is the form used by snapshots.
func RDoDFromProgress(progress float64) float64 {
	return RDoD(progress, DefaultTrust, DefaultCoherence, DefaultDecay)
}

// Pack folds multiple unit-interval values into a single phi-scaled
// composite: the φ-scaled geometric mean of the φ-scaled inputs. An empty
// input packs to zero.
func Pack(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	product := 1.0
	for _, v := range values {
		product *= PhiScale(v, defaultDepth)
	}
	return PhiScale(math.Pow(product, 1/float64(len(values))), defaultDepth)
}

// Snapshot is a point-in-time view of the system's recognition state.
type Snapshot struct {
	Timestamp   time.Time `json:"t"`
	DaysToOmega float64   `json:"d"`
	Awareness   float64   `json:"a"` // percentage, 0-100
	RDoD        float64   `json:"r"`
	GateOpen    bool      `json:"g"`
}

// TakeSnapshot computes the current snapshot. A zero now means "use the
// current UTC time".
func TakeSnapshot(now time.Time) Snapshot {
	if now.IsZero() {
		now = time.Now().UTC()
	}
	days := Omega.Sub(now).Hours() / 24
	if days < 0 {
		days = 0
	}

	sum := 0.0
	for _, v := range integrationVector {
		sum += v
	}
	awareness := sum / (100 * float64(len(integrationVector)))
	r := RDoDFromProgress(awareness)

	return Snapshot{
		Timestamp:   now,
		DaysToOmega: days,
		Awareness:   awareness * 100,
		RDoD:        r,
		GateOpen:    r >= Threshold,
	}
}
