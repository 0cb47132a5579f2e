package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CategoryCounts is the partition size per decision category. The three
// counts always sum to the number of outcomes in the run.
type CategoryCounts struct {
	Revenue int `json:"revenue"`
	Standby int `json:"standby"`
	IBL     int `json:"ibl"`
}

// FleetKPI summarises mileage balance across the score-eligible fleet.
type FleetKPI struct {
	MileageMeanKm   float64 `json:"mileage_mean_km"`
	MileageStddevKm float64 `json:"mileage_stddev_km"`
	MileageMaxAbsKm float64 `json:"mileage_max_abs_km"`
}

// InductionRun is the immutable audit record of one classify+allocate
// invocation. It is created once, appended to the run store, and never
// mutated afterwards.
type InductionRun struct {
	ID        string            `json:"id"`
	CreatedAt time.Time         `json:"created_at"`
	CreatedBy string            `json:"created_by,omitempty"`
	RuleSetID string            `json:"rule_set_id"`
	Depot     string            `json:"depot,omitempty"`
	Results   []DecisionOutcome `json:"results"`
	Counts    CategoryCounts    `json:"counts"`
	KPI       FleetKPI          `json:"kpi"`
	// Warnings carries non-fatal degradations (clamped caps, trainsets
	// excluded for bad data) surfaced to the caller.
	Warnings []string `json:"warnings,omitempty"`
}

// NewRunID derives a unique run identifier from the creation time. The uuid
// suffix keeps two runs within the same second distinct.
func NewRunID(at time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("IR-%s-%s", at.UTC().Format("20060102-150405"), suffix)
}

// Recount recomputes category counts from the result list.
func Recount(results []DecisionOutcome) CategoryCounts {
	var c CategoryCounts
	for _, r := range results {
		switch r.Decision {
		case DecisionRevenue:
			c.Revenue++
		case DecisionStandby:
			c.Standby++
		case DecisionIBL:
			c.IBL++
		}
	}
	return c
}
