package facts

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/railops/inductd/core/model"
)

// CompositeLoader fans one snapshot request out to the per-concern sources
// concurrently and merges the answers into TrainsetFacts. Roster, Fitness,
// JobCards, Cleaning and Slots are mandatory; the remaining sources are
// optional and their absence simply leaves the corresponding fact nil.
type CompositeLoader struct {
	Roster   RosterSource
	Fitness  FitnessSource
	JobCards JobCardSource
	Cleaning CleaningSource
	Branding BrandingSource
	Mileage  MileageSource
	Stabling StablingSource
	Slots    SlotSource
	// Timeout bounds the whole fetch; zero means the caller's context
	// deadline applies unchanged.
	Timeout time.Duration
	// Now is overridable for tests; defaults to time.Now.
	Now func() time.Time
}

type fetched struct {
	fitness  map[string]map[model.Subsystem]model.FitnessRecord
	jobCards map[string]bool
	cleaning map[string]model.CleaningStatus
	branding map[string]*model.BrandingFact
	mileage  map[string]*model.MileageFact
	stabling map[string]*model.StablingFact
	slots    []model.CleaningSlot
}

// Load assembles a snapshot for the filter. Any source error is fatal: a
// partial snapshot would silently misclassify the missing trainsets.
func (l *CompositeLoader) Load(ctx context.Context, f Filter) (*Snapshot, error) {
	if l.Roster == nil || l.Fitness == nil || l.JobCards == nil || l.Cleaning == nil || l.Slots == nil {
		return nil, fmt.Errorf("loader misconfigured: roster, fitness, job card, cleaning and slot sources are required")
	}
	if l.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.Timeout)
		defer cancel()
	}

	roster, err := l.Roster.Roster(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}
	sort.Slice(roster, func(i, j int) bool { return roster[i].ID < roster[j].ID })
	ids := make([]string, len(roster))
	for i, r := range roster {
		ids[i] = r.ID
	}

	var data fetched
	errs := make(chan error, 7)
	run := func(name string, fn func() error) {
		go func() {
			if err := fn(); err != nil {
				errs <- fmt.Errorf("load %s: %w", name, err)
				return
			}
			errs <- nil
		}()
	}

	run("fitness", func() (err error) { data.fitness, err = l.Fitness.Fitness(ctx, ids); return })
	run("job cards", func() (err error) { data.jobCards, err = l.JobCards.OpenJobCards(ctx, ids); return })
	run("cleaning", func() (err error) { data.cleaning, err = l.Cleaning.Cleaning(ctx, ids); return })
	run("cleaning slots", func() (err error) { data.slots, err = l.Slots.CleaningSlots(ctx, f.Depot); return })
	run("branding", func() (err error) {
		if l.Branding == nil {
			return nil
		}
		data.branding, err = l.Branding.Branding(ctx, ids)
		return
	})
	run("mileage", func() (err error) {
		if l.Mileage == nil {
			return nil
		}
		data.mileage, err = l.Mileage.Mileage(ctx, ids)
		return
	})
	run("stabling", func() (err error) {
		if l.Stabling == nil {
			return nil
		}
		data.stabling, err = l.Stabling.Stabling(ctx, ids)
		return
	})

	for i := 0; i < 7; i++ {
		if err := <-errs; err != nil {
			return nil, err
		}
	}

	now := time.Now()
	if l.Now != nil {
		now = l.Now()
	}
	snap := &Snapshot{At: now, Slots: data.slots}
	for _, entry := range roster {
		snap.Facts = append(snap.Facts, model.TrainsetFact{
			ID:          entry.ID,
			Depot:       entry.Depot,
			Fitness:     data.fitness[entry.ID],
			JobCardOpen: data.jobCards[entry.ID],
			Cleaning:    data.cleaning[entry.ID],
			Branding:    data.branding[entry.ID],
			Mileage:     data.mileage[entry.ID],
			Stabling:    data.stabling[entry.ID],
		})
	}
	return snap, nil
}
