// Package metrics implements the φ-aligned recognition mathematics: the
// phi-scaling compressor, the Recognition-of-Done (R_DoD) coefficient,
// system snapshots against the Omega date, and the frequency-stream
// convergence aggregates.
//
// All scalar inputs are treated as coefficients in [0, 1] and are clamped
// at the boundaries rather than rejected, matching the reference behavior.
package metrics
