package induction

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/railops/inductd/core/audit"
	"github.com/railops/inductd/core/events"
	"github.com/railops/inductd/core/facts"
	"github.com/railops/inductd/core/fleetstatus"
	"github.com/railops/inductd/core/logger"
	"github.com/railops/inductd/core/metrics"
	"github.com/railops/inductd/core/model"
	"github.com/railops/inductd/internal/eventbus"
)

// WeightsProvider supplies the current scoring weights. Deployments without
// a configured weights table fall back to the documented defaults.
type WeightsProvider interface {
	Weights(ctx context.Context) (Weights, error)
}

// StaticWeights is a WeightsProvider returning a fixed table.
type StaticWeights Weights

func (w StaticWeights) Weights(context.Context) (Weights, error) { return Weights(w), nil }

// RunRecordError reports that a computed run could not be persisted. The
// run itself was still returned to the caller; the boundary decides whether
// to retry or just log.
type RunRecordError struct {
	RunID string
	Err   error
}

func (e *RunRecordError) Error() string {
	return fmt.Sprintf("record run %s: %v", e.RunID, e.Err)
}

func (e *RunRecordError) Unwrap() error { return e.Err }

// Options tunes one induction invocation.
type Options struct {
	// RevenueCap bounds the revenue partition; nil means every eligible
	// trainset may enter service.
	RevenueCap *int
	// Actor is the authenticated identity recorded on the run, if any.
	Actor string
}

// Engine is the induction decision engine: it loads a fact snapshot, runs
// the capacity-bounded pipeline over it and records the resulting run. It
// also serves what-if simulations through the overlay policy.
type Engine struct {
	loader  facts.Loader
	weights WeightsProvider
	sink    metrics.RunSink
	bus     eventbus.EventBus
	log     logger.Logger

	mu      sync.Mutex
	store   audit.RunStore
	status  fleetstatus.Store
	workers int
	now     func() time.Time
}

// NewEngine builds an engine. The loader is mandatory; a nil weights
// provider falls back to DefaultWeights, a nil sink disables metrics and a
// nil bus disables events. Stores are attached via SetRunStore and
// SetStatusStore.
func NewEngine(loader facts.Loader, weights WeightsProvider, sink metrics.RunSink, bus eventbus.EventBus, log logger.Logger) (*Engine, error) {
	if loader == nil {
		return nil, fmt.Errorf("engine: loader is required")
	}
	if weights == nil {
		weights = StaticWeights(DefaultWeights())
	}
	if sink == nil {
		sink = metrics.NopSink{}
	}
	return &Engine{
		loader:  loader,
		weights: weights,
		sink:    sink,
		bus:     bus,
		log:     log,
		now:     time.Now,
	}, nil
}

// SetRunStore configures the audit sink for completed runs.
func (e *Engine) SetRunStore(store audit.RunStore) {
	e.mu.Lock()
	e.store = store
	e.mu.Unlock()
}

// SetStatusStore configures the fleet status store updated after each run.
func (e *Engine) SetStatusStore(store fleetstatus.Store) {
	e.mu.Lock()
	e.status = store
	e.mu.Unlock()
}

// SetWorkers overrides the per-trainset evaluation pool size. Zero restores
// the default of min(GOMAXPROCS, fleet size).
func (e *Engine) SetWorkers(n int) {
	e.mu.Lock()
	e.workers = n
	e.mu.Unlock()
}

// SetClock overrides the engine clock, for tests.
func (e *Engine) SetClock(now func() time.Time) {
	e.mu.Lock()
	e.now = now
	e.mu.Unlock()
}

// RunInduction loads a snapshot for the filter, classifies and allocates the
// fleet, and records the run. A loader failure is fatal. A persistence
// failure is not: the run is still returned, wrapped in a *RunRecordError so
// the boundary can surface it as a side-channel warning.
func (e *Engine) RunInduction(ctx context.Context, filter facts.Filter, opts Options) (*model.InductionRun, error) {
	started := e.clock()()
	snap, err := e.loader.Load(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("load fact snapshot: %w", err)
	}
	w, err := e.weights.Weights(ctx)
	if err != nil {
		e.logf("weights provider failed, using defaults: %v", err)
		w = DefaultWeights()
	}

	var warnings []string
	cap := opts.RevenueCap
	if cap != nil && *cap < 0 {
		warnings = append(warnings, fmt.Sprintf("revenue cap %d is negative, clamped to 0", *cap))
		zero := 0
		cap = &zero
	}

	outcomes := e.evaluateAll(snap, w)
	alloc := Allocate(outcomes, cap)
	results := alloc.Results()

	for _, o := range results {
		if len(o.Blockers) == 1 && o.Blockers[0] == BlockerInvalidData {
			warnings = append(warnings, fmt.Sprintf("trainset %s excluded from scoring: invalid fitness data", o.TrainsetID))
		}
	}

	run := &model.InductionRun{
		ID:        model.NewRunID(started),
		CreatedAt: started,
		CreatedBy: opts.Actor,
		RuleSetID: "weights-" + w.Version,
		Depot:     filter.Depot,
		Results:   results,
		Counts:    alloc.Counts(),
		KPI:       FleetMileageKPI(eligibleFacts(snap.Facts, alloc)),
		Warnings:  warnings,
	}

	e.record(ctx, run, snap, started)
	return run, e.persist(ctx, run)
}

// RunSimulation derives what-if decisions for the filter under the given
// rule toggles. Nothing is persisted and the snapshot is not mutated; the
// result is display-only.
func (e *Engine) RunSimulation(ctx context.Context, filter facts.Filter, rules model.SimulationRuleSet) ([]model.DecisionOutcome, error) {
	snap, err := e.loader.Load(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("load fact snapshot: %w", err)
	}
	outcomes := OverlayPolicy{}.Decide(PolicyInput{Facts: snap.Facts, Rules: rules})
	if rec, ok := e.sink.(metrics.SimulationRecorder); ok {
		if err := rec.RecordSimulation(len(outcomes)); err != nil {
			e.logf("record simulation: %v", err)
		}
	}
	if e.bus != nil {
		e.bus.Publish(events.SimulationCompletedEvent{RuleSet: rules.Name, Outcomes: len(outcomes)})
	}
	return outcomes, nil
}

// evaluateAll runs classify→gate→score per trainset over a bounded worker
// pool. Evaluation is independent per trainset; only the allocator needs the
// complete set.
func (e *Engine) evaluateAll(snap *facts.Snapshot, w Weights) []model.DecisionOutcome {
	n := len(snap.Facts)
	if n == 0 {
		return nil
	}
	workers := e.poolSize(n)
	if workers <= 1 {
		out := make([]model.DecisionOutcome, n)
		for i, f := range snap.Facts {
			out[i] = Evaluate(f, snap.Slots, snap.At, w)
		}
		return out
	}

	out := make([]model.DecisionOutcome, n)
	jobs := make(chan int)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				out[idx] = Evaluate(snap.Facts[idx], snap.Slots, snap.At, w)
			}
		}()
	}
	for i := 0; i < n; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return out
}

// record publishes metrics, events and status updates for a completed run.
// None of these paths can fail the run.
func (e *Engine) record(_ context.Context, run *model.InductionRun, snap *facts.Snapshot, started time.Time) {
	finished := e.clock()()
	summary := metrics.RunSummary{
		RunID:    run.ID,
		Depot:    run.Depot,
		Counts:   run.Counts,
		KPI:      run.KPI,
		Duration: finished.Sub(started),
		At:       run.CreatedAt,
	}
	if err := e.sink.RecordRun(summary); err != nil {
		e.logf("record run metrics: %v", err)
	}
	decs := make([]metrics.DecisionEvent, 0, len(run.Results))
	for _, o := range run.Results {
		decs = append(decs, metrics.DecisionEvent{RunID: run.ID, Depot: run.Depot, Outcome: o, At: run.CreatedAt})
	}
	if err := e.sink.RecordDecisions(decs); err != nil {
		e.logf("record decision metrics: %v", err)
	}
	if rec, ok := e.sink.(metrics.FleetSizeRecorder); ok {
		if err := rec.RecordFleetSize(len(snap.Facts)); err != nil {
			e.logf("record fleet size: %v", err)
		}
	}

	e.mu.Lock()
	status := e.status
	e.mu.Unlock()
	if status != nil {
		status.RecordRun(run)
	}
	if e.bus != nil {
		e.bus.Publish(events.RunCompletedEvent{Run: run})
	}
}

// persist appends the run to the audit store, translating failure into a
// *RunRecordError side channel.
func (e *Engine) persist(ctx context.Context, run *model.InductionRun) error {
	e.mu.Lock()
	store := e.store
	e.mu.Unlock()
	if store == nil {
		return nil
	}
	if err := store.Append(ctx, *run); err != nil {
		e.logf("append run %s: %v", run.ID, err)
		if e.bus != nil {
			e.bus.Publish(events.RunRecordFailedEvent{RunID: run.ID, Err: err})
		}
		return &RunRecordError{RunID: run.ID, Err: err}
	}
	return nil
}

func (e *Engine) poolSize(fleet int) int {
	e.mu.Lock()
	workers := e.workers
	e.mu.Unlock()
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > fleet {
		workers = fleet
	}
	return workers
}

func (e *Engine) clock() func() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.now == nil {
		return time.Now
	}
	return e.now
}

func (e *Engine) logf(format string, args ...any) {
	if e.log != nil {
		e.log.Warnf(format, args...)
	}
}

// eligibleFacts returns the facts for trainsets that were not routed to IBL,
// the population the fleet KPI is computed over.
func eligibleFacts(all []model.TrainsetFact, alloc Allocation) []model.TrainsetFact {
	blocked := make(map[string]struct{}, len(alloc.IBL))
	for _, o := range alloc.IBL {
		blocked[o.TrainsetID] = struct{}{}
	}
	var out []model.TrainsetFact
	for _, f := range all {
		if _, ok := blocked[f.ID]; !ok {
			out = append(out, f)
		}
	}
	return out
}
