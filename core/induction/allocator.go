package induction

import (
	"sort"

	"github.com/railops/inductd/core/model"
)

// Allocation is the capacity-bounded partition of a fleet's outcomes.
// Every input trainset appears in exactly one of the three lists.
type Allocation struct {
	Revenue []model.DecisionOutcome
	Standby []model.DecisionOutcome
	IBL     []model.DecisionOutcome
}

// Results flattens the allocation in presentation order: revenue first,
// then standby, then IBL.
func (a Allocation) Results() []model.DecisionOutcome {
	out := make([]model.DecisionOutcome, 0, len(a.Revenue)+len(a.Standby)+len(a.IBL))
	out = append(out, a.Revenue...)
	out = append(out, a.Standby...)
	out = append(out, a.IBL...)
	return out
}

// Counts returns the partition sizes per category.
func (a Allocation) Counts() model.CategoryCounts {
	return model.CategoryCounts{Revenue: len(a.Revenue), Standby: len(a.Standby), IBL: len(a.IBL)}
}

// Allocate ranks the score-eligible outcomes and assigns the top revenueCap
// of them to revenue service; the rest become standby. Hard-constraint
// failures (blocked outcomes) go to IBL and gate-held outcomes (already
// standby) keep their standby decision. A nil cap means "no cap"; a negative
// cap is clamped to zero.
//
// Ordering is deterministic: eligible outcomes sort by score descending with
// ties broken by trainset id ascending, the standby list is re-sorted the
// same way for presentation, and IBL sorts by trainset id for stable audit
// output.
func Allocate(outcomes []model.DecisionOutcome, revenueCap *int) Allocation {
	var alloc Allocation
	var eligible []model.DecisionOutcome
	for _, o := range outcomes {
		switch {
		case o.Blocked():
			o.Decision = model.DecisionIBL
			alloc.IBL = append(alloc.IBL, o)
		case o.Decision == model.DecisionStandby:
			alloc.Standby = append(alloc.Standby, o)
		default:
			eligible = append(eligible, o)
		}
	}

	sortByScore(eligible)

	cap := len(eligible)
	if revenueCap != nil {
		cap = *revenueCap
	}
	if cap < 0 {
		cap = 0
	}
	if cap > len(eligible) {
		cap = len(eligible)
	}

	for i, o := range eligible {
		if i < cap {
			o.Decision = model.DecisionRevenue
			alloc.Revenue = append(alloc.Revenue, o)
		} else {
			o.Decision = model.DecisionStandby
			alloc.Standby = append(alloc.Standby, o)
		}
	}

	sortByScore(alloc.Standby)
	sort.Slice(alloc.IBL, func(i, j int) bool {
		return alloc.IBL[i].TrainsetID < alloc.IBL[j].TrainsetID
	})
	return alloc
}

func sortByScore(list []model.DecisionOutcome) {
	sort.Slice(list, func(i, j int) bool {
		if list[i].Score != list[j].Score {
			return list[i].Score > list[j].Score
		}
		return list[i].TrainsetID < list[j].TrainsetID
	})
}
