package induction

import (
	"fmt"

	"github.com/railops/inductd/core/model"
)

// BlockerInvalidData is the synthetic blocker attached when a trainset's
// snapshot cannot be interpreted. The trainset is routed to IBL instead of
// aborting the run.
const BlockerInvalidData = "invalid fitness data"

// Classify evaluates the hard safety and compliance constraints for one
// trainset. Every rule is evaluated; violations are collected rather than
// short-circuited so the returned blocker list is complete. An empty result
// means the trainset may proceed to scoring.
func Classify(fact model.TrainsetFact) []string {
	if err := fact.Validate(); err != nil {
		return []string{BlockerInvalidData}
	}
	var blockers []string
	for _, sub := range model.Subsystems {
		if fact.Fitness[sub].Status == model.FitnessFail {
			blockers = append(blockers, fmt.Sprintf("%s fitness certificate EXPIRED", sub))
		}
	}
	if fact.JobCardOpen {
		blockers = append(blockers, "Open job card present")
	}
	if fact.Cleaning == model.CleaningOverdue {
		blockers = append(blockers, "Cleaning OVERDUE")
	}
	if fact.Stabling != nil && !fact.Stabling.CanExitAtDawn {
		blockers = append(blockers, "Stabling constraint: cannot exit at dawn")
	}
	return blockers
}

// blockedOutcome builds the IBL outcome for a hard-constraint failure. The
// blockers double as reasons so the explanation is self-contained.
func blockedOutcome(id string, blockers []string) model.DecisionOutcome {
	return model.DecisionOutcome{
		TrainsetID: id,
		Decision:   model.DecisionIBL,
		Score:      0,
		Reasons:    append([]string(nil), blockers...),
		Blockers:   blockers,
	}
}
