// Package audit persists induction runs. The store is an append-only sink:
// runs are written once, never updated, never deleted by this system.
package audit

import (
	"context"
	"errors"
	"time"

	"github.com/railops/inductd/core/model"
)

// ErrDuplicateRun is returned when a run id is appended twice. Run ids are
// time-derived and uuid-suffixed, so a duplicate indicates a caller bug.
var ErrDuplicateRun = errors.New("duplicate run id")

// Query filters recorded runs. Zero-value fields are ignored.
type Query struct {
	Start      time.Time
	End        time.Time
	Depot      string
	RuleSetID  string
	TrainsetID string
	// Limit bounds the number of runs returned, newest first; zero means
	// no limit.
	Limit int
}

// RunStore persists InductionRuns and supports querying them back for audit
// and replay.
type RunStore interface {
	Append(ctx context.Context, run model.InductionRun) error
	Query(ctx context.Context, q Query) ([]model.InductionRun, error)
	Close() error
}

// matches reports whether a run satisfies the non-limit filters.
func matches(r model.InductionRun, q Query) bool {
	if !q.Start.IsZero() && r.CreatedAt.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && r.CreatedAt.After(q.End) {
		return false
	}
	if q.Depot != "" && r.Depot != q.Depot {
		return false
	}
	if q.RuleSetID != "" && r.RuleSetID != q.RuleSetID {
		return false
	}
	if q.TrainsetID != "" {
		found := false
		for _, o := range r.Results {
			if o.TrainsetID == q.TrainsetID {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
