package model

import (
	"fmt"
	"strings"
	"time"
)

// FitnessStatus is the outcome of a subsystem fitness certificate check.
type FitnessStatus string

const (
	FitnessPass FitnessStatus = "PASS"
	FitnessWarn FitnessStatus = "WARN"
	FitnessFail FitnessStatus = "FAIL"
)

// ParseFitnessStatus converts a raw status string into a FitnessStatus.
// Unknown values are rejected so bad source data can be isolated per trainset
// instead of aborting a whole run.
func ParseFitnessStatus(s string) (FitnessStatus, error) {
	switch FitnessStatus(strings.ToUpper(strings.TrimSpace(s))) {
	case FitnessPass:
		return FitnessPass, nil
	case FitnessWarn:
		return FitnessWarn, nil
	case FitnessFail:
		return FitnessFail, nil
	}
	return "", fmt.Errorf("unknown fitness status %q", s)
}

// Valid reports whether the status is one of the recognised values.
func (s FitnessStatus) Valid() bool {
	return s == FitnessPass || s == FitnessWarn || s == FitnessFail
}

// Subsystem identifies one of the certificate-bearing trainset subsystems.
type Subsystem string

const (
	SubsystemRollingStock Subsystem = "ROLLING_STOCK"
	SubsystemSignalling   Subsystem = "SIGNALLING"
	SubsystemTelecom      Subsystem = "TELECOM"
)

// Subsystems lists the certificate-bearing subsystems in evaluation order.
// The order is fixed so blocker lists are reproducible across runs.
var Subsystems = []Subsystem{SubsystemRollingStock, SubsystemSignalling, SubsystemTelecom}

// FitnessRecord is one subsystem's certificate state.
type FitnessRecord struct {
	Status FitnessStatus `json:"status"`
	Detail string        `json:"detail,omitempty"`
}

// CleaningStatus describes where a trainset sits in the cleaning cycle.
type CleaningStatus string

const (
	CleaningCompleted CleaningStatus = "COMPLETED"
	CleaningPending   CleaningStatus = "PENDING"
	CleaningOverdue   CleaningStatus = "OVERDUE"
)

// Valid reports whether the status is one of the recognised values.
func (s CleaningStatus) Valid() bool {
	return s == CleaningCompleted || s == CleaningPending || s == CleaningOverdue
}

// BrandingPriority is the tier of an advertising contract.
type BrandingPriority string

const (
	BrandingHigh   BrandingPriority = "HIGH"
	BrandingMedium BrandingPriority = "MEDIUM"
	BrandingLow    BrandingPriority = "LOW"
)

// BrandingFact captures the advertising commitment attached to a trainset.
type BrandingFact struct {
	Priority BrandingPriority `json:"priority"`
	// RemainingHours is the contracted exposure still owed. Nil when the
	// contract has no hour budget.
	RemainingHours *float64 `json:"remaining_hours,omitempty"`
}

// MileageFact carries a trainset's accumulated mileage and its signed
// deviation, in km, from the fleet balancing target.
type MileageFact struct {
	TotalKm    float64 `json:"total_km"`
	VarianceKm float64 `json:"variance_km"`
}

// StablingFact describes the yard-geometry constraints for a trainset's
// current stabling position.
type StablingFact struct {
	CanExitAtDawn     bool    `json:"can_exit_at_dawn"`
	RequiresShunting  bool    `json:"requires_shunting"`
	ShuntingDistanceM float64 `json:"shunting_distance_m,omitempty"`
	TurnaroundMin     float64 `json:"turnaround_min,omitempty"`
	// BlockedBy names the trainset occupying the exit path, if any.
	BlockedBy string `json:"blocked_by,omitempty"`
}

// TrainsetFact is the per-run snapshot of one trainset. It is assembled by
// the snapshot loader and never mutated by the decision pipeline.
type TrainsetFact struct {
	ID          string                      `json:"id"`
	Depot       string                      `json:"depot,omitempty"`
	Fitness     map[Subsystem]FitnessRecord `json:"fitness"`
	JobCardOpen bool                        `json:"job_card_open"`
	Cleaning    CleaningStatus              `json:"cleaning"`
	Branding    *BrandingFact               `json:"branding,omitempty"`
	Mileage     *MileageFact                `json:"mileage,omitempty"`
	Stabling    *StablingFact               `json:"stabling,omitempty"`
}

// Validate checks that the snapshot carries interpretable fitness and
// cleaning data. A failing trainset is routed to IBL by the classifier
// rather than failing the run.
func (t TrainsetFact) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("trainset id is empty")
	}
	for _, sub := range Subsystems {
		rec, ok := t.Fitness[sub]
		if !ok {
			return fmt.Errorf("missing %s fitness record", sub)
		}
		if !rec.Status.Valid() {
			return fmt.Errorf("unknown %s fitness status %q", sub, rec.Status)
		}
	}
	if !t.Cleaning.Valid() {
		return fmt.Errorf("unknown cleaning status %q", t.Cleaning)
	}
	return nil
}

// CleaningSlot describes one cleaning bay's capacity over an availability
// window. Occupancy and assignments come from the depot's bay roster.
type CleaningSlot struct {
	BayID          string     `json:"bay_id"`
	Capacity       int        `json:"capacity"`
	Occupancy      int        `json:"occupancy"`
	AvailableFrom  *time.Time `json:"available_from,omitempty"`
	AvailableUntil *time.Time `json:"available_until,omitempty"`
	Assigned       []string   `json:"assigned,omitempty"`
}

// HasSpare reports whether the bay can take one more trainset at the given
// instant. Missing window data counts as available: incomplete rosters must
// not block induction.
func (s CleaningSlot) HasSpare(now time.Time) bool {
	if s.Occupancy >= s.Capacity {
		return false
	}
	if s.AvailableUntil != nil && now.After(*s.AvailableUntil) {
		return false
	}
	return true
}
