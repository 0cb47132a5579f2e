package induction

import (
	"github.com/railops/inductd/core/model"
)

// defaultLowMileageKm is the promotion threshold for the low-mileage rule
// when the rule set does not override it.
const defaultLowMileageKm = 20000

// OverlayPolicy derives what-if decisions under a set of rule toggles. It is
// a planning tool: no capacity cap, no scoring, nothing persisted, and the
// input facts are never modified. Its base decision differs from the
// production pipeline on purpose (WARN routes to standby here, while the
// production scorer ignores WARN entirely).
type OverlayPolicy struct{}

func (OverlayPolicy) Name() string { return "overlay" }

func (OverlayPolicy) Decide(in PolicyInput) []model.DecisionOutcome {
	out := make([]model.DecisionOutcome, 0, len(in.Facts))
	for _, fact := range in.Facts {
		out = append(out, Simulate(fact, in.Rules))
	}
	return out
}

// Simulate computes the overlay decision for one trainset: a fitness-based
// base decision, then the rule toggles applied in fixed order.
func Simulate(fact model.TrainsetFact, rules model.SimulationRuleSet) model.DecisionOutcome {
	out := model.DecisionOutcome{TrainsetID: fact.ID}
	acc := newReasonList()

	hardFailure := false
	warned := false
	for _, sub := range model.Subsystems {
		switch fact.Fitness[sub].Status {
		case model.FitnessFail:
			hardFailure = true
		case model.FitnessWarn:
			warned = true
		}
	}
	switch {
	case hardFailure:
		out.Decision = model.DecisionIBL
		acc.add("critical system failure detected")
	case warned:
		out.Decision = model.DecisionStandby
		acc.add("system warning detected")
	default:
		out.Decision = model.DecisionRevenue
		acc.add("all systems operational")
	}

	if !rules.IgnoreJobCards && fact.JobCardOpen {
		out.Decision = model.DecisionIBL
		acc.add("open job card requires attention")
	}
	if !rules.IgnoreCleaning && fact.Cleaning == model.CleaningOverdue && out.Decision == model.DecisionRevenue {
		out.Decision = model.DecisionStandby
		acc.add("cleaning overdue")
	}
	if rules.ForceHighBranding && out.Decision == model.DecisionStandby &&
		!hardFailure && !fact.JobCardOpen &&
		fact.Branding != nil && fact.Branding.Priority == model.BrandingHigh {
		out.Decision = model.DecisionRevenue
		acc.add("promoted: high branding priority override")
	}
	if rules.PrioritizeLowMileage && out.Decision == model.DecisionStandby &&
		!fact.JobCardOpen && fact.Mileage != nil {
		threshold := rules.LowMileageThresholdKm
		if threshold <= 0 {
			threshold = defaultLowMileageKm
		}
		if fact.Mileage.TotalKm < threshold {
			out.Decision = model.DecisionRevenue
			acc.add("promoted: low mileage priority")
		}
	}

	out.Reasons = acc.list()
	return out
}
