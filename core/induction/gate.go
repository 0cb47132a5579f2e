package induction

import (
	"time"

	"github.com/railops/inductd/core/model"
)

// ReasonNoCleaningCapacity explains a standby decision forced by the
// cleaning-capacity gate.
const ReasonNoCleaningCapacity = "Cleaning pending and no slot capacity available"

// HasCleaningCapacity reports whether a cleaning-pending trainset can be
// accommodated by any bay. A trainset already on a bay roster counts as
// accommodated. The check is deliberately lenient: bays with missing window
// data count as available, so incomplete rosters favour induction over
// spurious downgrades.
func HasCleaningCapacity(trainsetID string, slots []model.CleaningSlot, now time.Time) bool {
	for _, s := range slots {
		for _, id := range s.Assigned {
			if id == trainsetID {
				return true
			}
		}
	}
	for _, s := range slots {
		if s.HasSpare(now) {
			return true
		}
	}
	return false
}

// gateHeldOutcome builds the standby outcome for a trainset downgraded by
// the capacity gate. The score stays zero: the scorer never runs for it.
func gateHeldOutcome(id string) model.DecisionOutcome {
	return model.DecisionOutcome{
		TrainsetID: id,
		Decision:   model.DecisionStandby,
		Score:      0,
		Reasons:    []string{ReasonNoCleaningCapacity},
	}
}
