// Package scenarios replays YAML-defined depot situations through the
// decision engine and checks the resulting partition.
package scenarios

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/railops/inductd/core/model"
)

// TrainsetDef is the YAML shape of one trainset's facts.
type TrainsetDef struct {
	ID            string   `yaml:"id"`
	RollingStock  string   `yaml:"rolling_stock"`
	Signalling    string   `yaml:"signalling"`
	Telecom       string   `yaml:"telecom"`
	JobCardOpen   bool     `yaml:"job_card_open"`
	Cleaning      string   `yaml:"cleaning"`
	Branding      string   `yaml:"branding,omitempty"`
	BrandingHours *float64 `yaml:"branding_hours,omitempty"`
	TotalKm       *float64 `yaml:"total_km,omitempty"`
	VarianceKm    *float64 `yaml:"variance_km,omitempty"`
	CanExitAtDawn *bool    `yaml:"can_exit_at_dawn,omitempty"`
}

// ToModel converts the definition to a TrainsetFact.
func (t TrainsetDef) ToModel() model.TrainsetFact {
	fact := model.TrainsetFact{
		ID: t.ID,
		Fitness: map[model.Subsystem]model.FitnessRecord{
			model.SubsystemRollingStock: {Status: model.FitnessStatus(t.RollingStock)},
			model.SubsystemSignalling:   {Status: model.FitnessStatus(t.Signalling)},
			model.SubsystemTelecom:      {Status: model.FitnessStatus(t.Telecom)},
		},
		JobCardOpen: t.JobCardOpen,
		Cleaning:    model.CleaningStatus(t.Cleaning),
	}
	if t.Branding != "" {
		fact.Branding = &model.BrandingFact{
			Priority:       model.BrandingPriority(t.Branding),
			RemainingHours: t.BrandingHours,
		}
	}
	if t.TotalKm != nil || t.VarianceKm != nil {
		fact.Mileage = &model.MileageFact{}
		if t.TotalKm != nil {
			fact.Mileage.TotalKm = *t.TotalKm
		}
		if t.VarianceKm != nil {
			fact.Mileage.VarianceKm = *t.VarianceKm
		}
	}
	if t.CanExitAtDawn != nil {
		fact.Stabling = &model.StablingFact{CanExitAtDawn: *t.CanExitAtDawn}
	}
	return fact
}

// SlotDef is the YAML shape of one cleaning bay.
type SlotDef struct {
	BayID     string   `yaml:"bay_id"`
	Capacity  int      `yaml:"capacity"`
	Occupancy int      `yaml:"occupancy"`
	Assigned  []string `yaml:"assigned,omitempty"`
}

// ToModel converts the definition to a CleaningSlot with an open-ended
// availability window.
func (s SlotDef) ToModel() model.CleaningSlot {
	return model.CleaningSlot{
		BayID:     s.BayID,
		Capacity:  s.Capacity,
		Occupancy: s.Occupancy,
		Assigned:  s.Assigned,
	}
}

// Expected is the asserted partition for a scenario.
type Expected struct {
	Revenue int `yaml:"revenue"`
	Standby int `yaml:"standby"`
	IBL     int `yaml:"ibl"`
}

// Scenario is one replayable depot situation.
type Scenario struct {
	Name        string        `yaml:"name"`
	Description string        `yaml:"description,omitempty"`
	Trainsets   []TrainsetDef `yaml:"trainsets"`
	Slots       []SlotDef     `yaml:"slots,omitempty"`
	RevenueCap  *int          `yaml:"revenue_cap,omitempty"`
	Expected    Expected      `yaml:"expected"`
}

// Load reads a scenario file containing a list of scenarios.
func Load(path string) ([]Scenario, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var scenarios []Scenario
	if err := yaml.Unmarshal(b, &scenarios); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	for i, s := range scenarios {
		if s.Name == "" {
			return nil, fmt.Errorf("scenario %d in %s has no name", i, path)
		}
	}
	return scenarios, nil
}

// Now is the fixed evaluation instant scenarios run at, keeping cleaning
// window checks deterministic.
var Now = time.Date(2025, 6, 1, 4, 0, 0, 0, time.UTC)
