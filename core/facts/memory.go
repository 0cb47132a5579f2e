package facts

import (
	"context"
	"sync"

	"github.com/railops/inductd/core/model"
)

// MemorySource is an in-memory implementation of every source interface,
// used for fixtures, demos and tests. Facts are stored whole per trainset
// and sliced per concern on read.
type MemorySource struct {
	mu    sync.RWMutex
	facts map[string]model.TrainsetFact
	slots []model.CleaningSlot
}

// NewMemorySource builds a source pre-populated with the given facts.
func NewMemorySource(facts []model.TrainsetFact, slots []model.CleaningSlot) *MemorySource {
	s := &MemorySource{facts: make(map[string]model.TrainsetFact, len(facts))}
	for _, f := range facts {
		s.facts[f.ID] = f
	}
	s.slots = append(s.slots, slots...)
	return s
}

// Put inserts or replaces one trainset's facts.
func (s *MemorySource) Put(f model.TrainsetFact) {
	s.mu.Lock()
	s.facts[f.ID] = f
	s.mu.Unlock()
}

// SetSlots replaces the cleaning bay roster.
func (s *MemorySource) SetSlots(slots []model.CleaningSlot) {
	s.mu.Lock()
	s.slots = append([]model.CleaningSlot(nil), slots...)
	s.mu.Unlock()
}

func (s *MemorySource) Roster(_ context.Context, f Filter) ([]RosterEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	want := make(map[string]struct{}, len(f.IDs))
	for _, id := range f.IDs {
		want[id] = struct{}{}
	}
	var entries []RosterEntry
	for id, fact := range s.facts {
		if f.Depot != "" && fact.Depot != f.Depot {
			continue
		}
		if len(want) > 0 {
			if _, ok := want[id]; !ok {
				continue
			}
		}
		entries = append(entries, RosterEntry{ID: id, Depot: fact.Depot})
	}
	return entries, nil
}

func (s *MemorySource) Fitness(_ context.Context, ids []string) (map[string]map[model.Subsystem]model.FitnessRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]map[model.Subsystem]model.FitnessRecord, len(ids))
	for _, id := range ids {
		if f, ok := s.facts[id]; ok {
			out[id] = f.Fitness
		}
	}
	return out, nil
}

func (s *MemorySource) OpenJobCards(_ context.Context, ids []string) (map[string]bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]bool, len(ids))
	for _, id := range ids {
		if f, ok := s.facts[id]; ok {
			out[id] = f.JobCardOpen
		}
	}
	return out, nil
}

func (s *MemorySource) Cleaning(_ context.Context, ids []string) (map[string]model.CleaningStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]model.CleaningStatus, len(ids))
	for _, id := range ids {
		if f, ok := s.facts[id]; ok {
			out[id] = f.Cleaning
		}
	}
	return out, nil
}

func (s *MemorySource) Branding(_ context.Context, ids []string) (map[string]*model.BrandingFact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]*model.BrandingFact, len(ids))
	for _, id := range ids {
		if f, ok := s.facts[id]; ok && f.Branding != nil {
			out[id] = f.Branding
		}
	}
	return out, nil
}

func (s *MemorySource) Mileage(_ context.Context, ids []string) (map[string]*model.MileageFact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]*model.MileageFact, len(ids))
	for _, id := range ids {
		if f, ok := s.facts[id]; ok && f.Mileage != nil {
			out[id] = f.Mileage
		}
	}
	return out, nil
}

func (s *MemorySource) Stabling(_ context.Context, ids []string) (map[string]*model.StablingFact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]*model.StablingFact, len(ids))
	for _, id := range ids {
		if f, ok := s.facts[id]; ok && f.Stabling != nil {
			out[id] = f.Stabling
		}
	}
	return out, nil
}

func (s *MemorySource) CleaningSlots(_ context.Context, _ string) ([]model.CleaningSlot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.CleaningSlot(nil), s.slots...), nil
}

// NewMemoryLoader wires a MemorySource into a CompositeLoader, the usual
// arrangement for tests and the demo fleet.
func NewMemoryLoader(src *MemorySource) *CompositeLoader {
	return &CompositeLoader{
		Roster:   src,
		Fitness:  src,
		JobCards: src,
		Cleaning: src,
		Branding: src,
		Mileage:  src,
		Stabling: src,
		Slots:    src,
	}
}
