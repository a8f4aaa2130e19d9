package metrics

import "math"

// defaultDepth is the standard phi-scaling depth. Depth 3 is the reference
// calibration; substrate-specific smoothing uses deeper recursion.
const defaultDepth = 3

// PhiScaleIterative applies the φ-compression step n times in a loop. It is
// numerically identical to PhiScale and exists for the equivalence suite
// that pins the closed form against the recursive definitions.
func PhiScaleIterative(x float64, n int) float64 {
	x = clamp01(x)
	for i := 0; i < n; i++ {
		x = 1 - (1-x)/Phi
	}
	return clamp01(x)
}

// PhiScaleRecursive is the explicit recursive form of phi-scaling.
func PhiScaleRecursive(x float64, n int) float64 {
	x = clamp01(x)
	if n <= 0 {
		return x
	}
	return PhiScaleRecursive(1-(1-x)/Phi, n-1)
}

// PhiScalePower raises x to the given exponent before phi-scaling. It is
// the building block of the R_DoD formula, where each input carries its own
// exponent weight.
func PhiScalePower(x, exponent float64, n int) float64 {
	if x < 0 {
		x = 0
	}
	return PhiScale(math.Pow(x, exponent), n)
}

// ConvergenceTrace returns the value of x after each of maxDepth
// φ-compression steps, including the clamped starting value. Useful for
// inspecting how quickly a coefficient approaches unity.
func ConvergenceTrace(x float64, maxDepth int) []float64 {
	current := clamp01(x)
	trace := make([]float64, 0, maxDepth+1)
	trace = append(trace, current)
	for i := 0; i < maxDepth; i++ {
		current = clamp01(1 - (1-current)/Phi)
		trace = append(trace, current)
	}
	return trace
}

// ConvergenceRate is the mean step size along the convergence trace. A
// higher rate means faster approach to the φ-harmonic fixed point.
func ConvergenceRate(x float64, iterations int) float64 {
	trace := ConvergenceTrace(x, iterations)
	if len(trace) < 2 {
		return 0
	}
	total := 0.0
	for i := 0; i < len(trace)-1; i++ {
		total += math.Abs(trace[i+1] - trace[i])
	}
	return total / float64(len(trace)-1)
}
