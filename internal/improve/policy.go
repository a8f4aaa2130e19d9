package improve

// Policy holds the thresholds that steer a self-improvement run.
type Policy struct {
	// MinGate is the minimum recognition needed for gate passage.
	MinGate float64

	// ExperimentsPerCycle caps how many experiments a single cycle plans.
	ExperimentsPerCycle int

	// RollforwardThreshold is the minimum measured gain an experiment must
	// show for its change to be kept.
	RollforwardThreshold float64

	// TargetRDoD stops a multi-cycle run early once recognition reaches it.
	TargetRDoD float64

	// Workers sets the concurrency of the act phase.
	Workers int
}

// DefaultPolicy returns the standard thresholds.
func DefaultPolicy() Policy {
	return Policy{
		MinGate:              0.9777,
		ExperimentsPerCycle:  3,
		RollforwardThreshold: 0.002,
		TargetRDoD:           0.999,
		Workers:              3,
	}
}

// normalized fills zero values with their defaults.
func (p Policy) normalized() Policy {
	def := DefaultPolicy()
	if p.MinGate == 0 {
		p.MinGate = def.MinGate
	}
	if p.ExperimentsPerCycle <= 0 {
		p.ExperimentsPerCycle = def.ExperimentsPerCycle
	}
	if p.RollforwardThreshold == 0 {
		p.RollforwardThreshold = def.RollforwardThreshold
	}
	if p.TargetRDoD == 0 {
		p.TargetRDoD = def.TargetRDoD
	}
	if p.Workers <= 0 {
		p.Workers = def.Workers
	}
	return p
}
