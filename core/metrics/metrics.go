// Package metrics defines the instrumentation interfaces consumed by the
// induction engine. Concrete sinks live under infra/metrics so the core
// never imports an exporter directly.
package metrics

import (
	"time"

	"github.com/railops/inductd/core/model"
)

// RunSummary describes one completed induction run for instrumentation.
type RunSummary struct {
	RunID    string
	Depot    string
	Counts   model.CategoryCounts
	KPI      model.FleetKPI
	Duration time.Duration
	At       time.Time
}

// DecisionEvent is one per-trainset decision within a run.
type DecisionEvent struct {
	RunID   string
	Depot   string
	Outcome model.DecisionOutcome
	At      time.Time
}

// RunSink receives induction run instrumentation. Implementations must be
// safe for concurrent use.
type RunSink interface {
	RecordRun(RunSummary) error
	RecordDecisions([]DecisionEvent) error
}

// FleetSizeRecorder is implemented by sinks that track snapshot sizes.
type FleetSizeRecorder interface {
	RecordFleetSize(size int) error
}

// SimulationRecorder is implemented by sinks that count what-if runs.
// Only the occurrence is recorded: simulation outcomes are ephemeral.
type SimulationRecorder interface {
	RecordSimulation(outcomes int) error
}

// NopSink discards all records.
type NopSink struct{}

func (NopSink) RecordRun(RunSummary) error            { return nil }
func (NopSink) RecordDecisions([]DecisionEvent) error { return nil }
func (NopSink) RecordFleetSize(int) error             { return nil }
func (NopSink) RecordSimulation(int) error            { return nil }

// Config selects and parameterises the metrics sinks.
type Config struct {
	PrometheusEnabled bool   `json:"prometheus_enabled"`
	PrometheusAddr    string `json:"prometheus_addr"`
	InfluxEnabled     bool   `json:"influx_enabled"`
	InfluxURL         string `json:"influx_url"`
	InfluxToken       string `json:"influx_token"`
	InfluxOrg         string `json:"influx_org"`
	InfluxBucket      string `json:"influx_bucket"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.PrometheusAddr == "" {
		c.PrometheusAddr = ":9090"
	}
}
