package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	coremetrics "github.com/railops/inductd/core/metrics"
	"github.com/railops/inductd/core/model"
)

func TestPromSink_RecordRun(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("NewPromSinkWithRegistry: %v", err)
	}

	sum := coremetrics.RunSummary{
		RunID:    "IR-test",
		Depot:    "MUTTOM",
		Counts:   model.CategoryCounts{Revenue: 18, Standby: 4, IBL: 2},
		KPI:      model.FleetKPI{MileageStddevKm: 4200},
		Duration: 120 * time.Millisecond,
	}
	if err := sink.RecordRun(sum); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}
	if err := sink.RecordRun(sum); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}

	if got := testutil.ToFloat64(sink.runs.WithLabelValues("MUTTOM")); got != 2 {
		t.Fatalf("runs counter %v, want 2", got)
	}
	if got := testutil.ToFloat64(sink.stddev); got != 4200 {
		t.Fatalf("stddev gauge %v, want 4200", got)
	}
}

func TestPromSink_RecordDecisions(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("NewPromSinkWithRegistry: %v", err)
	}

	events := []coremetrics.DecisionEvent{
		{Depot: "MUTTOM", Outcome: model.DecisionOutcome{TrainsetID: "TS-001", Decision: model.DecisionRevenue}},
		{Depot: "MUTTOM", Outcome: model.DecisionOutcome{TrainsetID: "TS-002", Decision: model.DecisionRevenue}},
		{Depot: "MUTTOM", Outcome: model.DecisionOutcome{TrainsetID: "TS-003", Decision: model.DecisionIBL}},
	}
	if err := sink.RecordDecisions(events); err != nil {
		t.Fatalf("RecordDecisions: %v", err)
	}

	if got := testutil.ToFloat64(sink.decisions.WithLabelValues("MUTTOM", "REVENUE")); got != 2 {
		t.Fatalf("revenue decisions %v, want 2", got)
	}
	if got := testutil.ToFloat64(sink.decisions.WithLabelValues("MUTTOM", "IBL")); got != 1 {
		t.Fatalf("ibl decisions %v, want 1", got)
	}
}

func TestPromSink_FleetSizeAndSimulations(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("NewPromSinkWithRegistry: %v", err)
	}
	if err := sink.RecordFleetSize(24); err != nil {
		t.Fatalf("RecordFleetSize: %v", err)
	}
	if got := testutil.ToFloat64(sink.fleet); got != 24 {
		t.Fatalf("fleet gauge %v, want 24", got)
	}
	_ = sink.RecordSimulation(24)
	_ = sink.RecordSimulation(24)
	if got := testutil.ToFloat64(sink.simulations); got != 2 {
		t.Fatalf("simulations counter %v, want 2", got)
	}
}

func TestNewPromSink_RepeatedConstructionOnSameRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("first construction: %v", err)
	}
	second, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("second construction must reuse collectors: %v", err)
	}

	// Every collector of the second sink must be the registered one, so
	// recording through either sink lands on what the registry scrapes.
	sum := coremetrics.RunSummary{Depot: "MUTTOM"}
	sum.KPI.MileageStddevKm = 7.5
	if err := second.RecordRun(sum); err != nil {
		t.Fatalf("RecordRun on reused collectors: %v", err)
	}
	if err := second.RecordSimulation(1); err != nil {
		t.Fatalf("RecordSimulation: %v", err)
	}
	if err := second.RecordFleetSize(24); err != nil {
		t.Fatalf("RecordFleetSize: %v", err)
	}
	if got := testutil.ToFloat64(first.runs.WithLabelValues("MUTTOM")); got != 1 {
		t.Errorf("runs counter not shared, got %v", got)
	}
	if got := testutil.ToFloat64(first.simulations); got != 1 {
		t.Errorf("simulations counter not shared, got %v", got)
	}
	if got := testutil.ToFloat64(first.fleet); got != 24 {
		t.Errorf("fleet gauge not shared, got %v", got)
	}
	if got := testutil.ToFloat64(first.stddev); got != 7.5 {
		t.Errorf("stddev gauge not shared, got %v", got)
	}
}

func TestMultiSink_FansOut(t *testing.T) {
	reg := prometheus.NewRegistry()
	prom, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("NewPromSinkWithRegistry: %v", err)
	}
	multi := NewMultiSink(prom, coremetrics.NopSink{})

	if err := multi.RecordRun(coremetrics.RunSummary{Depot: "MUTTOM"}); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}
	if got := testutil.ToFloat64(prom.runs.WithLabelValues("MUTTOM")); got != 1 {
		t.Fatalf("multi sink did not reach prom: %v", got)
	}
	if err := multi.RecordFleetSize(10); err != nil {
		t.Fatalf("RecordFleetSize: %v", err)
	}
	if got := testutil.ToFloat64(prom.fleet); got != 10 {
		t.Fatalf("fleet size not forwarded: %v", got)
	}
}
