// Package facts assembles per-trainset snapshots from the depot's data
// sources. The loader is a pure read path: it fetches, merges and validates
// nothing beyond shape, leaving all decision logic to the induction engine.
package facts

import (
	"context"
	"time"

	"github.com/railops/inductd/core/model"
)

// Filter selects the portion of the fleet a snapshot covers.
type Filter struct {
	Depot string
	// IDs restricts the snapshot to specific trainsets when non-empty.
	IDs []string
}

// Snapshot is the immutable input to one induction or simulation run.
type Snapshot struct {
	At    time.Time
	Facts []model.TrainsetFact
	Slots []model.CleaningSlot
}

// Loader produces a fresh snapshot for a fleet filter. Loader failure is the
// one fatal error class in the system: without input there is nothing to
// decide.
type Loader interface {
	Load(ctx context.Context, f Filter) (*Snapshot, error)
}

// RosterEntry identifies one trainset known to the depot.
type RosterEntry struct {
	ID    string
	Depot string
}

// RosterSource lists the trainsets a filter covers.
type RosterSource interface {
	Roster(ctx context.Context, f Filter) ([]RosterEntry, error)
}

// FitnessSource returns subsystem certificate records keyed by trainset id.
type FitnessSource interface {
	Fitness(ctx context.Context, ids []string) (map[string]map[model.Subsystem]model.FitnessRecord, error)
}

// JobCardSource reports which trainsets have an open maintenance job card.
type JobCardSource interface {
	OpenJobCards(ctx context.Context, ids []string) (map[string]bool, error)
}

// CleaningSource returns the cleaning cycle state per trainset.
type CleaningSource interface {
	Cleaning(ctx context.Context, ids []string) (map[string]model.CleaningStatus, error)
}

// BrandingSource returns branding contracts for trainsets that carry one.
type BrandingSource interface {
	Branding(ctx context.Context, ids []string) (map[string]*model.BrandingFact, error)
}

// MileageSource returns mileage facts for trainsets with odometer data.
type MileageSource interface {
	Mileage(ctx context.Context, ids []string) (map[string]*model.MileageFact, error)
}

// StablingSource returns yard-geometry constraints for stabled trainsets.
type StablingSource interface {
	Stabling(ctx context.Context, ids []string) (map[string]*model.StablingFact, error)
}

// SlotSource returns the cleaning bay roster for a depot.
type SlotSource interface {
	CleaningSlots(ctx context.Context, depot string) ([]model.CleaningSlot, error)
}
