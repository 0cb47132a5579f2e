package facts

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/railops/inductd/core/model"
)

func fullFact(id, depot string) model.TrainsetFact {
	return model.TrainsetFact{
		ID:    id,
		Depot: depot,
		Fitness: map[model.Subsystem]model.FitnessRecord{
			model.SubsystemRollingStock: {Status: model.FitnessPass},
			model.SubsystemSignalling:   {Status: model.FitnessPass},
			model.SubsystemTelecom:      {Status: model.FitnessPass},
		},
		Cleaning: model.CleaningCompleted,
		Branding: &model.BrandingFact{Priority: model.BrandingMedium},
		Mileage:  &model.MileageFact{TotalKm: 42000, VarianceKm: 300},
		Stabling: &model.StablingFact{CanExitAtDawn: true},
	}
}

func TestCompositeLoader_AssemblesSnapshot(t *testing.T) {
	src := NewMemorySource(
		[]model.TrainsetFact{fullFact("TS-002", "MUTTOM"), fullFact("TS-001", "MUTTOM")},
		[]model.CleaningSlot{{BayID: "CB-01", Capacity: 2}},
	)
	loader := NewMemoryLoader(src)
	at := time.Date(2025, 6, 1, 4, 0, 0, 0, time.UTC)
	loader.Now = func() time.Time { return at }

	snap, err := loader.Load(context.Background(), Filter{Depot: "MUTTOM"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !snap.At.Equal(at) {
		t.Fatalf("snapshot time %v, want %v", snap.At, at)
	}
	if len(snap.Facts) != 2 {
		t.Fatalf("expected 2 facts, got %d", len(snap.Facts))
	}
	// Roster order is sorted by id regardless of source order.
	if snap.Facts[0].ID != "TS-001" || snap.Facts[1].ID != "TS-002" {
		t.Fatalf("roster not sorted: %s, %s", snap.Facts[0].ID, snap.Facts[1].ID)
	}
	f := snap.Facts[0]
	if f.Branding == nil || f.Mileage == nil || f.Stabling == nil {
		t.Fatalf("optional facts not merged: %+v", f)
	}
	if f.Cleaning != model.CleaningCompleted || len(f.Fitness) != 3 {
		t.Fatalf("mandatory facts not merged: %+v", f)
	}
	if len(snap.Slots) != 1 || snap.Slots[0].BayID != "CB-01" {
		t.Fatalf("slots not merged: %+v", snap.Slots)
	}
}

func TestCompositeLoader_FiltersByDepotAndIDs(t *testing.T) {
	src := NewMemorySource([]model.TrainsetFact{
		fullFact("TS-001", "MUTTOM"),
		fullFact("TS-002", "MUTTOM"),
		fullFact("TS-003", "ARUVIKKARA"),
	}, nil)
	loader := NewMemoryLoader(src)

	snap, err := loader.Load(context.Background(), Filter{Depot: "MUTTOM"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(snap.Facts) != 2 {
		t.Fatalf("depot filter: expected 2, got %d", len(snap.Facts))
	}

	snap, err = loader.Load(context.Background(), Filter{IDs: []string{"TS-003"}})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(snap.Facts) != 1 || snap.Facts[0].ID != "TS-003" {
		t.Fatalf("id filter: got %+v", snap.Facts)
	}
}

func TestCompositeLoader_MissingMandatorySource(t *testing.T) {
	src := NewMemorySource([]model.TrainsetFact{fullFact("TS-001", "MUTTOM")}, nil)
	loader := NewMemoryLoader(src)
	loader.Cleaning = nil

	if _, err := loader.Load(context.Background(), Filter{}); err == nil {
		t.Fatalf("expected misconfiguration error")
	} else if !strings.Contains(err.Error(), "misconfigured") {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestCompositeLoader_OptionalSourcesMayBeAbsent(t *testing.T) {
	src := NewMemorySource([]model.TrainsetFact{fullFact("TS-001", "MUTTOM")}, nil)
	loader := NewMemoryLoader(src)
	loader.Branding = nil
	loader.Mileage = nil
	loader.Stabling = nil

	snap, err := loader.Load(context.Background(), Filter{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	f := snap.Facts[0]
	if f.Branding != nil || f.Mileage != nil || f.Stabling != nil {
		t.Fatalf("absent sources must leave facts nil: %+v", f)
	}
}

type failingFitness struct{}

func (failingFitness) Fitness(context.Context, []string) (map[string]map[model.Subsystem]model.FitnessRecord, error) {
	return nil, errors.New("upstream down")
}

func TestCompositeLoader_SourceErrorIsFatal(t *testing.T) {
	src := NewMemorySource([]model.TrainsetFact{fullFact("TS-001", "MUTTOM")}, nil)
	loader := NewMemoryLoader(src)
	loader.Fitness = failingFitness{}

	_, err := loader.Load(context.Background(), Filter{})
	if err == nil {
		t.Fatalf("expected load failure")
	}
	if !strings.Contains(err.Error(), "load fitness") {
		t.Fatalf("error should name the failing source, got %v", err)
	}
}
