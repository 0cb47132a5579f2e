// Package fleetstatus tracks the most recent induction decision per
// trainset for dashboards and the fleet status API.
package fleetstatus

import (
	"sort"
	"sync"
	"time"

	"github.com/railops/inductd/core/model"
)

// LastDecision summarises the latest decision applied to a trainset.
type LastDecision struct {
	RunID    string         `json:"run_id"`
	Decision model.Decision `json:"decision"`
	Score    float64        `json:"score"`
	Reasons  []string       `json:"reasons,omitempty"`
	Blockers []string       `json:"blockers,omitempty"`
	At       time.Time      `json:"at"`
}

// Status is the current known state of one trainset.
type Status struct {
	TrainsetID   string       `json:"trainset_id"`
	Depot        string       `json:"depot,omitempty"`
	LastDecision LastDecision `json:"last_decision"`
}

// Filter narrows List results. Zero-value fields are ignored.
type Filter struct {
	Depot    string
	Decision model.Decision
}

// Store holds per-trainset status.
type Store interface {
	RecordRun(run *model.InductionRun)
	List(f Filter) []Status
}

// MemoryStore is the in-process Store implementation.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]Status
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: map[string]Status{}}
}

// RecordRun updates every trainset mentioned in the run.
func (s *MemoryStore) RecordRun(run *model.InductionRun) {
	if run == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range run.Results {
		s.data[o.TrainsetID] = Status{
			TrainsetID: o.TrainsetID,
			Depot:      run.Depot,
			LastDecision: LastDecision{
				RunID:    run.ID,
				Decision: o.Decision,
				Score:    o.Score,
				Reasons:  o.Reasons,
				Blockers: o.Blockers,
				At:       run.CreatedAt,
			},
		}
	}
}

// List returns matching statuses sorted by trainset id.
func (s *MemoryStore) List(f Filter) []Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]Status, 0, len(s.data))
	for _, st := range s.data {
		if f.Depot != "" && st.Depot != f.Depot {
			continue
		}
		if f.Decision != "" && st.LastDecision.Decision != f.Decision {
			continue
		}
		res = append(res, st)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].TrainsetID < res[j].TrainsetID })
	return res
}
