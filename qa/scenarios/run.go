package scenarios

import (
	"fmt"

	"github.com/railops/inductd/core/induction"
	"github.com/railops/inductd/core/model"
)

// Result pairs a scenario with its computed allocation.
type Result struct {
	Scenario Scenario
	Counts   model.CategoryCounts
	Outcomes []model.DecisionOutcome
}

// Run replays one scenario through the capacity-bounded pipeline with
// default weights and checks the expected partition.
func Run(s Scenario) (Result, error) {
	facts := make([]model.TrainsetFact, 0, len(s.Trainsets))
	for _, t := range s.Trainsets {
		facts = append(facts, t.ToModel())
	}
	slots := make([]model.CleaningSlot, 0, len(s.Slots))
	for _, sl := range s.Slots {
		slots = append(slots, sl.ToModel())
	}

	outcomes := induction.CapacityBoundedPolicy{}.Decide(induction.PolicyInput{
		Facts:      facts,
		Slots:      slots,
		Now:        Now,
		Weights:    induction.DefaultWeights(),
		RevenueCap: s.RevenueCap,
	})

	res := Result{Scenario: s, Counts: model.Recount(outcomes), Outcomes: outcomes}
	want := model.CategoryCounts{Revenue: s.Expected.Revenue, Standby: s.Expected.Standby, IBL: s.Expected.IBL}
	if res.Counts != want {
		return res, fmt.Errorf("scenario %s: got %+v, expected %+v", s.Name, res.Counts, want)
	}
	return res, nil
}

// RunAll replays every scenario and returns the first mismatch.
func RunAll(scenarios []Scenario) ([]Result, error) {
	results := make([]Result, 0, len(scenarios))
	for _, s := range scenarios {
		res, err := Run(s)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}
