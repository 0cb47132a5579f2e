package induction

import (
	"time"

	"github.com/railops/inductd/core/model"
)

// PolicyInput carries everything a decision policy may consult. Policies
// read the fields they care about and ignore the rest.
type PolicyInput struct {
	Facts   []model.TrainsetFact
	Slots   []model.CleaningSlot
	Now     time.Time
	Weights Weights
	// RevenueCap bounds the revenue partition; nil means no cap. Only the
	// capacity-bounded policy honours it.
	RevenueCap *int
	// Rules holds what-if toggles. Only the overlay policy honours them.
	Rules model.SimulationRuleSet
}

// DecisionPolicy derives one decision per trainset from a fact snapshot.
// The two implementations share the fact model but are intentionally
// divergent: CapacityBoundedPolicy is the production pipeline
// (hard constraints, cleaning gate, scoring, capacity allocation) while
// OverlayPolicy is the what-if explorer (WARN-aware base decision plus rule
// toggles, no capacity, no scores). They are not expected to agree for the
// same snapshot.
type DecisionPolicy interface {
	Name() string
	Decide(in PolicyInput) []model.DecisionOutcome
}

// CapacityBoundedPolicy runs the full classify → gate → score → allocate
// pipeline over a snapshot.
type CapacityBoundedPolicy struct{}

func (CapacityBoundedPolicy) Name() string { return "capacity-bounded" }

func (CapacityBoundedPolicy) Decide(in PolicyInput) []model.DecisionOutcome {
	outcomes := make([]model.DecisionOutcome, 0, len(in.Facts))
	for _, fact := range in.Facts {
		outcomes = append(outcomes, Evaluate(fact, in.Slots, in.Now, in.Weights))
	}
	return Allocate(outcomes, in.RevenueCap).Results()
}

// Evaluate runs the per-trainset portion of the production pipeline: hard
// constraints first, then the cleaning-capacity gate, then scoring. The
// returned outcome carries no final decision for score-eligible trainsets;
// Allocate assigns revenue or standby once the whole fleet is evaluated.
func Evaluate(fact model.TrainsetFact, slots []model.CleaningSlot, now time.Time, w Weights) model.DecisionOutcome {
	if blockers := Classify(fact); len(blockers) > 0 {
		return blockedOutcome(fact.ID, blockers)
	}
	if fact.Cleaning == model.CleaningPending && !HasCleaningCapacity(fact.ID, slots, now) {
		return gateHeldOutcome(fact.ID)
	}
	score, reasons := Score(fact, w)
	return model.DecisionOutcome{TrainsetID: fact.ID, Score: score, Reasons: reasons}
}
