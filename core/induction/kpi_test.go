package induction

import (
	"math"
	"testing"

	"github.com/railops/inductd/core/model"
)

func mileageFact(id string, variance float64) model.TrainsetFact {
	f := healthyFact(id)
	f.Mileage = &model.MileageFact{VarianceKm: variance}
	return f
}

func TestFleetMileageKPI(t *testing.T) {
	facts := []model.TrainsetFact{
		mileageFact("TS-001", -4000),
		mileageFact("TS-002", 2000),
		mileageFact("TS-003", 8000),
		healthyFact("TS-004"), // no mileage data, skipped
	}
	kpi := FleetMileageKPI(facts)
	if kpi.MileageMeanKm != 2000 {
		t.Fatalf("mean %v, want 2000", kpi.MileageMeanKm)
	}
	if kpi.MileageMaxAbsKm != 8000 {
		t.Fatalf("max abs %v, want 8000", kpi.MileageMaxAbsKm)
	}
	want := 6000.0 // sample stddev of {-4000, 2000, 8000}
	if math.Abs(kpi.MileageStddevKm-want) > 1e-9 {
		t.Fatalf("stddev %v, want %v", kpi.MileageStddevKm, want)
	}
}

func TestFleetMileageKPI_Empty(t *testing.T) {
	if kpi := FleetMileageKPI(nil); kpi != (model.FleetKPI{}) {
		t.Fatalf("expected zero KPI, got %+v", kpi)
	}
	facts := []model.TrainsetFact{healthyFact("TS-001")}
	if kpi := FleetMileageKPI(facts); kpi != (model.FleetKPI{}) {
		t.Fatalf("no mileage data: expected zero KPI, got %+v", kpi)
	}
}

func TestFleetMileageKPI_SinglePoint(t *testing.T) {
	kpi := FleetMileageKPI([]model.TrainsetFact{mileageFact("TS-001", 500)})
	if kpi.MileageMeanKm != 500 || kpi.MileageStddevKm != 0 || kpi.MileageMaxAbsKm != 500 {
		t.Fatalf("unexpected KPI %+v", kpi)
	}
}
