package induction

import (
	"fmt"
	"math"

	"github.com/railops/inductd/core/model"
)

// Score computes the desirability score and contributing reasons for a
// trainset that has passed the hard constraints and the cleaning gate. The
// function is pure and the accumulation order is fixed (branding, mileage,
// cleaning, stabling) so identical inputs always yield identical output,
// including reason ordering.
func Score(fact model.TrainsetFact, w Weights) (float64, []string) {
	var score float64
	acc := newReasonList()

	if b := fact.Branding; b != nil {
		switch b.Priority {
		case model.BrandingHigh:
			score += w.BrandingHigh
			acc.add("high branding priority")
		case model.BrandingMedium:
			score += w.BrandingMedium
			acc.add("medium branding priority")
		}
		if b.RemainingHours != nil && *b.RemainingHours < w.BrandingHoursFloor {
			score += w.BrandingHoursLow
			acc.add("branding hours running low")
		}
	}

	if m := fact.Mileage; m != nil {
		switch v := math.Abs(m.VarianceKm); {
		case v > w.MileageHighKm:
			score += w.MileageHigh
			acc.add("high mileage variance")
		case v > w.MileageModerateKm:
			score += w.MileageModerate
			acc.add("moderate mileage variance")
		}
	}

	switch fact.Cleaning {
	case model.CleaningCompleted:
		score += w.CleaningCompleted
		acc.add("cleaning completed")
	case model.CleaningPending:
		// No score contribution, but the pending state is still part of
		// the explanation.
		acc.add("cleaning pending")
	}

	if s := fact.Stabling; s != nil {
		if s.RequiresShunting {
			score -= w.ShuntingPenalty
			acc.add("requires shunting")
		}
		// A zero distance or turnaround means the geometry was not
		// measured, not that the trainset sits on the exit track.
		if s.ShuntingDistanceM > 0 {
			score += math.Max(0, w.DistanceBase-math.Floor(s.ShuntingDistanceM/w.DistancePerM))
		}
		if s.TurnaroundMin > 0 {
			score += math.Max(0, w.TurnaroundBase-math.Floor(s.TurnaroundMin/w.TurnaroundPerMin))
		}
		if s.BlockedBy != "" {
			score -= w.BlockedPenalty
			acc.add(fmt.Sprintf("exit path blocked by %s", s.BlockedBy))
		}
	}

	return score, acc.list()
}

// reasonList accumulates reason strings preserving first-seen order while
// dropping duplicates.
type reasonList struct {
	seen  map[string]struct{}
	order []string
}

func newReasonList() *reasonList {
	return &reasonList{seen: make(map[string]struct{})}
}

func (r *reasonList) add(reason string) {
	if _, ok := r.seen[reason]; ok {
		return
	}
	r.seen[reason] = struct{}{}
	r.order = append(r.order, reason)
}

func (r *reasonList) list() []string { return r.order }
