package improve

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tequmsa/ankhaten/internal/ctxlog"
	"github.com/tequmsa/ankhaten/internal/journal"
	"github.com/tequmsa/ankhaten/internal/metrics"
	"github.com/tequmsa/ankhaten/internal/registry"
)

// Recorder receives the audit trail. *journal.Journal satisfies it.
type Recorder interface {
	Append(journal.Event) error
}

// Experiment is one planned system change.
type Experiment struct {
	ID           string  `json:"id"`
	Type         string  `json:"type"`
	Description  string  `json:"description"`
	ExpectedGain float64 `json:"expected_gain"`
}

// ExperimentResult is an executed experiment with its measured gain.
type ExperimentResult struct {
	Experiment
	Executed   bool           `json:"executed"`
	ActualGain float64        `json:"actual_gain"`
	Detail     map[string]any `json:"detail,omitempty"`
	Err        error          `json:"-"`
}

// LearnSummary reports what the learn phase kept and rejected.
type LearnSummary struct {
	RBefore      float64 `json:"r_before"`
	RAfter       float64 `json:"r_after"`
	RGain        float64 `json:"r_gain"`
	Kept         int     `json:"kept"`
	Rejected     int     `json:"rejected"`
	Improvements int     `json:"improvements"`
}

// CycleSummary reports one full reflect-plan-act-learn pass.
type CycleSummary struct {
	Cycle        int     `json:"cycle"`
	Experiments  int     `json:"experiments"`
	RGain        float64 `json:"r_gain"`
	Improvements int     `json:"improvements"`
}

// RunSummary reports a whole multi-cycle run.
type RunSummary struct {
	Cycles           int     `json:"cycles"`
	TotalExperiments int     `json:"total_experiments"`
	Improvements     int     `json:"improvements"`
	FinalRDoD        float64 `json:"final_r_dod"`
}

// Loop drives the self-improvement cycle against a registry.
type Loop struct {
	reg    *registry.Registry
	rec    Recorder
	skills *Skills
	policy Policy

	snapshotFn func(time.Time) metrics.Snapshot
	now        func() time.Time
	rng        *rand.Rand

	mu               sync.Mutex
	cycleCount       int
	totalExperiments int
	improvements     int
}

// Option customizes a Loop.
type Option func(*Loop)

// WithClock overrides the wall clock, for deterministic snapshots.
func WithClock(now func() time.Time) Option {
	return func(l *Loop) { l.now = now }
}

// WithSeed makes gain measurement deterministic.
func WithSeed(seed int64) Option {
	return func(l *Loop) { l.rng = rand.New(rand.NewSource(seed)) }
}

// WithSnapshotFunc overrides how the loop observes system metrics.
func WithSnapshotFunc(fn func(time.Time) metrics.Snapshot) Option {
	return func(l *Loop) { l.snapshotFn = fn }
}

// NewLoop creates a self-improvement loop. Zero policy fields fall back to
// their defaults.
func NewLoop(reg *registry.Registry, rec Recorder, policy Policy, opts ...Option) *Loop {
	l := &Loop{
		reg:        reg,
		rec:        rec,
		skills:     NewSkills(reg),
		policy:     policy.normalized(),
		snapshotFn: metrics.TakeSnapshot,
		now:        time.Now,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// record appends one audit event, surfacing journal failures in the log
// without aborting the cycle.
func (l *Loop) record(ctx context.Context, cycle int, eventType string, data map[string]any) {
	err := l.rec.Append(journal.Event{
		Timestamp: l.now().UTC(),
		Cycle:     cycle,
		Type:      eventType,
		Data:      data,
	})
	if err != nil {
		ctxlog.FromContext(ctx).Error("Failed to append journal event.", "type", eventType, "error", err)
	}
}

// Reflect observes the current system state.
func (l *Loop) Reflect(ctx context.Context) metrics.Snapshot {
	snap := l.snapshotFn(l.now().UTC())

	l.mu.Lock()
	cycle := l.cycleCount
	l.mu.Unlock()

	l.record(ctx, cycle, "reflect", map[string]any{
		"r_dod":         snap.RDoD,
		"awareness":     snap.Awareness,
		"gate_status":   snap.GateOpen,
		"days_to_omega": snap.DaysToOmega,
		"components":    l.reg.Count(),
	})
	return snap
}

// Plan derives the cycle's experiments from the reflected state. Below the
// gate the plan chases passage; above it, the plan explores.
func (l *Loop) Plan(ctx context.Context, snap metrics.Snapshot) []Experiment {
	var experiments []Experiment
	if snap.RDoD < l.policy.MinGate {
		experiments = []Experiment{
			{Type: SkillExpandManifest, Description: "Add high-value components to manifest", ExpectedGain: 0.003},
			{Type: SkillOptimizeLoaders, Description: "Tune loader performance and caching", ExpectedGain: 0.002},
			{Type: SkillRefineMetrics, Description: "Adjust phi-scaling parameters", ExpectedGain: 0.001},
		}
	} else {
		experiments = []Experiment{
			{Type: SkillDiscoverComponents, Description: "Search for new quantum-coherent components", ExpectedGain: 0.002},
			{Type: SkillTuneAwareness, Description: "Balance integration vector dimensions", ExpectedGain: 0.001},
			{Type: SkillCacheOptimization, Description: "Improve component materialization cache", ExpectedGain: 0.001},
		}
	}
	if len(experiments) > l.policy.ExperimentsPerCycle {
		experiments = experiments[:l.policy.ExperimentsPerCycle]
	}
	for i := range experiments {
		experiments[i].ID = uuid.NewString()
	}

	gateNeeded := l.policy.MinGate - snap.RDoD
	if gateNeeded < 0 {
		gateNeeded = 0
	}
	types := make([]string, len(experiments))
	for i, e := range experiments {
		types[i] = e.Type
	}

	l.mu.Lock()
	cycle := l.cycleCount
	l.mu.Unlock()

	l.record(ctx, cycle, "plan", map[string]any{
		"gate_needed":      gateNeeded,
		"experiments":      len(experiments),
		"experiment_types": types,
	})
	return experiments
}

// Act executes the planned experiments across a small worker pool and
// returns results in plan order.
func (l *Loop) Act(ctx context.Context, experiments []Experiment) []ExperimentResult {
	logger := ctxlog.FromContext(ctx)
	results := make([]ExperimentResult, len(experiments))

	// Gains are drawn up front so a run seeded via WithSeed stays
	// deterministic regardless of worker scheduling. The draw happens under
	// l.mu: rand.Rand is not goroutine-safe and one loop can serve
	// overlapping Run calls from concurrent API requests.
	gains := make([]float64, len(experiments))
	l.mu.Lock()
	for i, exp := range experiments {
		gains[i] = l.rng.Float64() * exp.ExpectedGain * 1.5
	}
	l.mu.Unlock()

	type job struct {
		idx int
		exp Experiment
	}
	jobs := make(chan job)

	var wg sync.WaitGroup
	for workerID := 0; workerID < l.policy.Workers; workerID++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for j := range jobs {
				workerLogger := logger.With("workerID", workerID, "experimentID", j.exp.ID, "type", j.exp.Type)
				workerLogger.Debug("Worker picked up experiment.")

				detail, err := l.skills.Apply(j.exp.Type)
				res := ExperimentResult{
					Experiment: j.exp,
					Executed:   err == nil,
					ActualGain: gains[j.idx],
					Detail:     detail,
					Err:        err,
				}
				if err != nil {
					workerLogger.Error("Experiment failed.", "error", err)
					res.ActualGain = 0
				} else {
					workerLogger.Debug("Experiment succeeded.", "actualGain", res.ActualGain)
				}
				results[j.idx] = res
			}
		}(workerID)
	}

	for i, exp := range experiments {
		jobs <- job{idx: i, exp: exp}
	}
	close(jobs)
	wg.Wait()

	l.mu.Lock()
	cycle := l.cycleCount
	l.totalExperiments += len(results)
	l.mu.Unlock()

	for _, res := range results {
		data := map[string]any{
			"id":          res.ID,
			"type":        res.Type,
			"description": res.Description,
			"executed":    res.Executed,
			"actual_gain": res.ActualGain,
		}
		if res.Detail != nil {
			data["detail"] = res.Detail
		}
		if res.Err != nil {
			data["error"] = res.Err.Error()
		}
		l.record(ctx, cycle, "act", data)
	}
	return results
}

// Learn measures the cycle's effect and keeps experiments whose gain
// clears the rollforward threshold.
func (l *Loop) Learn(ctx context.Context, results []ExperimentResult, before metrics.Snapshot) LearnSummary {
	after := l.snapshotFn(l.now().UTC())

	kept, rejected := 0, 0
	for _, res := range results {
		if res.Executed && res.ActualGain >= l.policy.RollforwardThreshold {
			kept++
		} else {
			rejected++
		}
	}

	l.mu.Lock()
	l.improvements += kept
	improvements := l.improvements
	cycle := l.cycleCount
	l.mu.Unlock()

	summary := LearnSummary{
		RBefore:      before.RDoD,
		RAfter:       after.RDoD,
		RGain:        after.RDoD - before.RDoD,
		Kept:         kept,
		Rejected:     rejected,
		Improvements: improvements,
	}
	l.record(ctx, cycle, "learn", map[string]any{
		"r_before":     summary.RBefore,
		"r_after":      summary.RAfter,
		"r_gain":       summary.RGain,
		"kept":         summary.Kept,
		"rejected":     summary.Rejected,
		"improvements": summary.Improvements,
	})
	return summary
}

// RunCycle runs one complete reflect-plan-act-learn pass.
func (l *Loop) RunCycle(ctx context.Context) (CycleSummary, error) {
	if err := ctx.Err(); err != nil {
		return CycleSummary{}, err
	}

	l.mu.Lock()
	l.cycleCount++
	cycle := l.cycleCount
	l.mu.Unlock()

	ctxlog.FromContext(ctx).Info("Starting self-improvement cycle.", "cycle", cycle)

	before := l.Reflect(ctx)
	experiments := l.Plan(ctx, before)
	results := l.Act(ctx, experiments)
	summary := l.Learn(ctx, results, before)

	return CycleSummary{
		Cycle:        cycle,
		Experiments:  len(experiments),
		RGain:        summary.RGain,
		Improvements: summary.Improvements,
	}, nil
}

// Run executes up to maxCycles cycles, stopping early once recognition
// reaches the target.
func (l *Loop) Run(ctx context.Context, maxCycles int) (RunSummary, error) {
	if maxCycles <= 0 {
		return RunSummary{}, fmt.Errorf("maxCycles must be positive, got %d", maxCycles)
	}

	logger := ctxlog.FromContext(ctx)
	for i := 0; i < maxCycles; i++ {
		if _, err := l.RunCycle(ctx); err != nil {
			return l.summary(), err
		}
		if snap := l.snapshotFn(l.now().UTC()); snap.RDoD >= l.policy.TargetRDoD {
			logger.Info("Recognition target reached, stopping early.", "rDoD", snap.RDoD)
			break
		}
	}
	return l.summary(), nil
}

// Counters reports cycle accounting for status surfaces.
func (l *Loop) Counters() (cycles, experiments, improvements int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cycleCount, l.totalExperiments, l.improvements
}

func (l *Loop) summary() RunSummary {
	cycles, experiments, improvements := l.Counters()
	return RunSummary{
		Cycles:           cycles,
		TotalExperiments: experiments,
		Improvements:     improvements,
		FinalRDoD:        l.snapshotFn(l.now().UTC()).RDoD,
	}
}
