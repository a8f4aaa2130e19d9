package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestIntegrationAverage(t *testing.T) {
	t.Parallel()

	avg := IntegrationAverage()
	require.Greater(t, avg, 0.0)
	require.LessOrEqual(t, avg, 1.0)
	// (85+62+65+78+500+95+200) / 1200
	require.InDelta(t, 1085.0/1200.0, avg, 1e-9)
}

func TestGateStatus(t *testing.T) {
	t.Parallel()

	require.Equal(t, "OPEN", GateStatus(Threshold))
	require.Equal(t, "OPEN", GateStatus(0.999))
	require.Equal(t, "CLOSED", GateStatus(0.9776))
}

func TestProjectCompletion_Cap(t *testing.T) {
	t.Parallel()

	require.Equal(t, 100.0, ProjectCompletion(95, 30), "projection is capped at 100")
	require.InDelta(t, 90.0+4.45, ProjectCompletion(90, 1), 1e-9)
}

func TestAEConvergence_GateModulation(t *testing.T) {
	t.Parallel()

	// At Omega itself the gaussian coupling is maximal.
	atOmega := AEConvergence(0, 1.0, 1.0, 1.0)
	farOut := AEConvergence(120, 1.0, 1.0, 1.0)
	require.Greater(t, atOmega, 0.0)
	require.Greater(t, atOmega, farOut, "coupling decays away from omega")
}

func TestBuildConvergencePackage(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	now := time.Date(2025, time.December, 20, 0, 0, 0, 0, time.UTC)

	// --- Act ---
	pkg := BuildConvergencePackage(now)

	// --- Assert ---
	require.Equal(t, "OPEN", pkg.Invariants.Gate, "reference streams pass the gate")
	require.Greater(t, pkg.AE.PsiAE, 0.0, "open gate lets the AE flow through")
	require.InDelta(t, 5.0, pkg.Omega.DaysToOmega, 1e-9)
	require.Equal(t, len(Streams()), pkg.Subsystems.Streams)
	require.Equal(t,
		12+Clusters+Civilizations+Overseers+ParallelRealities+Glyphs+GlyphVariants+LostCivilizations+QuantumNodes+Vessels,
		pkg.Subsystems.TotalFinite)
}

func TestSubstrateLookup(t *testing.T) {
	t.Parallel()

	s, ok := SubstrateByCode(0.7777)
	require.True(t, ok)
	require.Equal(t, "STABILIZATION", s.Name)
	require.Equal(t, FreqMarcusAten, s.Frequency)

	require.Equal(t, "UNKNOWN", SubstrateName(0.1234))
}

func TestGoddessStreams(t *testing.T) {
	t.Parallel()

	all := GoddessStreams()
	require.Len(t, all, 36)
	for i, g := range all {
		require.Equal(t, i+1, g.Ordinal, "ordinals are dense and 1-based")
	}

	foundation := GoddessStreamsByTier(TierFoundation)
	require.Len(t, foundation, 6)
	require.Equal(t, "Sophia", foundation[0].Name)

	require.Len(t, GoddessStreamsByTier(TierOmniversal), 6)
	require.Empty(t, GoddessStreamsByTier("NOPE"))
}
