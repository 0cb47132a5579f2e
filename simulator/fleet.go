// Package simulator generates synthetic fleets for demos and scenario
// tests. Generation is seeded so a given seed always produces the same
// fleet.
package simulator

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/railops/inductd/core/model"
)

// FleetConfig tunes the generated fleet.
type FleetConfig struct {
	Size  int
	Depot string
	Seed  int64
	// FailRate is the probability of a FAIL certificate per subsystem.
	FailRate float64
	// WarnRate is the probability of a WARN certificate per subsystem.
	WarnRate float64
	// JobCardRate is the probability of an open job card.
	JobCardRate float64
}

// DefaultFleetConfig returns a plausible depot mix.
func DefaultFleetConfig(size int) FleetConfig {
	return FleetConfig{
		Size:        size,
		Depot:       "MUTTOM",
		Seed:        1,
		FailRate:    0.05,
		WarnRate:    0.1,
		JobCardRate: 0.15,
	}
}

// GenerateFleet produces facts for cfg.Size trainsets plus a cleaning bay
// roster sized to roughly a quarter of the fleet.
func GenerateFleet(cfg FleetConfig) ([]model.TrainsetFact, []model.CleaningSlot) {
	rng := rand.New(rand.NewSource(cfg.Seed))
	facts := make([]model.TrainsetFact, 0, cfg.Size)
	for i := 1; i <= cfg.Size; i++ {
		facts = append(facts, generateTrainset(rng, cfg, i))
	}

	bays := cfg.Size/8 + 1
	slots := make([]model.CleaningSlot, 0, bays)
	until := time.Now().Add(8 * time.Hour)
	for b := 1; b <= bays; b++ {
		slots = append(slots, model.CleaningSlot{
			BayID:          fmt.Sprintf("CB-%02d", b),
			Capacity:       2,
			Occupancy:      rng.Intn(3),
			AvailableUntil: &until,
		})
	}
	return facts, slots
}

func generateTrainset(rng *rand.Rand, cfg FleetConfig, i int) model.TrainsetFact {
	fitness := make(map[model.Subsystem]model.FitnessRecord, len(model.Subsystems))
	for _, sub := range model.Subsystems {
		fitness[sub] = model.FitnessRecord{Status: pickStatus(rng, cfg)}
	}

	cleaning := model.CleaningCompleted
	switch r := rng.Float64(); {
	case r < 0.15:
		cleaning = model.CleaningOverdue
	case r < 0.45:
		cleaning = model.CleaningPending
	}

	branding := &model.BrandingFact{Priority: model.BrandingLow}
	switch r := rng.Float64(); {
	case r < 0.2:
		branding.Priority = model.BrandingHigh
		hours := rng.Float64() * 300
		branding.RemainingHours = &hours
	case r < 0.5:
		branding.Priority = model.BrandingMedium
	}

	total := 100000 + rng.Float64()*80000
	variance := (rng.Float64() - 0.5) * 30000

	return model.TrainsetFact{
		ID:          fmt.Sprintf("TS-%03d", i),
		Depot:       cfg.Depot,
		Fitness:     fitness,
		JobCardOpen: rng.Float64() < cfg.JobCardRate,
		Cleaning:    cleaning,
		Branding:    branding,
		Mileage:     &model.MileageFact{TotalKm: total, VarianceKm: variance},
		Stabling: &model.StablingFact{
			CanExitAtDawn:     rng.Float64() > 0.05,
			RequiresShunting:  rng.Float64() < 0.3,
			ShuntingDistanceM: rng.Float64() * 400,
			TurnaroundMin:     10 + rng.Float64()*50,
		},
	}
}

func pickStatus(rng *rand.Rand, cfg FleetConfig) model.FitnessStatus {
	switch r := rng.Float64(); {
	case r < cfg.FailRate:
		return model.FitnessFail
	case r < cfg.FailRate+cfg.WarnRate:
		return model.FitnessWarn
	default:
		return model.FitnessPass
	}
}
