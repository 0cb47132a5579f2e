package model

import (
	"testing"
	"time"
)

func validFact() TrainsetFact {
	return TrainsetFact{
		ID: "TS-001",
		Fitness: map[Subsystem]FitnessRecord{
			SubsystemRollingStock: {Status: FitnessPass},
			SubsystemSignalling:   {Status: FitnessWarn},
			SubsystemTelecom:      {Status: FitnessPass},
		},
		Cleaning: CleaningCompleted,
	}
}

func TestParseFitnessStatus(t *testing.T) {
	cases := []struct {
		in   string
		want FitnessStatus
		ok   bool
	}{
		{"PASS", FitnessPass, true},
		{"pass", FitnessPass, true},
		{" warn ", FitnessWarn, true},
		{"FAIL", FitnessFail, true},
		{"EXPIRED", "", false},
		{"", "", false},
	}
	for _, c := range cases {
		got, err := ParseFitnessStatus(c.in)
		if c.ok && (err != nil || got != c.want) {
			t.Errorf("ParseFitnessStatus(%q) = %v, %v; want %v", c.in, got, err, c.want)
		}
		if !c.ok && err == nil {
			t.Errorf("ParseFitnessStatus(%q) should fail", c.in)
		}
	}
}

func TestTrainsetFactValidate(t *testing.T) {
	if err := validFact().Validate(); err != nil {
		t.Fatalf("valid fact rejected: %v", err)
	}

	f := validFact()
	f.ID = ""
	if err := f.Validate(); err == nil {
		t.Fatalf("empty id accepted")
	}

	f = validFact()
	delete(f.Fitness, SubsystemTelecom)
	if err := f.Validate(); err == nil {
		t.Fatalf("missing fitness record accepted")
	}

	f = validFact()
	f.Fitness[SubsystemSignalling] = FitnessRecord{Status: "EXPIRED"}
	if err := f.Validate(); err == nil {
		t.Fatalf("unknown fitness status accepted")
	}

	f = validFact()
	f.Cleaning = "DIRTY"
	if err := f.Validate(); err == nil {
		t.Fatalf("unknown cleaning status accepted")
	}
}

func TestCleaningSlotHasSpare(t *testing.T) {
	now := time.Date(2025, 6, 1, 4, 0, 0, 0, time.UTC)
	later := now.Add(time.Hour)
	earlier := now.Add(-time.Hour)

	if !(CleaningSlot{BayID: "CB-01", Capacity: 2, Occupancy: 1}).HasSpare(now) {
		t.Errorf("spare capacity not detected")
	}
	if (CleaningSlot{BayID: "CB-01", Capacity: 2, Occupancy: 2}).HasSpare(now) {
		t.Errorf("full bay reported spare")
	}
	if (CleaningSlot{BayID: "CB-01", Capacity: 2, AvailableUntil: &earlier}).HasSpare(now) {
		t.Errorf("expired window reported spare")
	}
	if !(CleaningSlot{BayID: "CB-01", Capacity: 2, AvailableUntil: &later}).HasSpare(now) {
		t.Errorf("open window not detected")
	}
	// Missing window data must not block induction.
	if !(CleaningSlot{BayID: "CB-01", Capacity: 1}).HasSpare(now) {
		t.Errorf("missing window treated as unavailable")
	}
}

func TestNewRunID(t *testing.T) {
	at := time.Date(2025, 6, 1, 4, 30, 15, 0, time.UTC)
	id := NewRunID(at)
	const prefix = "IR-20250601-043015-"
	if len(id) != len(prefix)+8 || id[:len(prefix)] != prefix {
		t.Fatalf("unexpected run id %q", id)
	}
	if NewRunID(at) == id {
		t.Fatalf("two ids for the same instant must differ")
	}
}

func TestRecount(t *testing.T) {
	counts := Recount([]DecisionOutcome{
		{Decision: DecisionRevenue},
		{Decision: DecisionRevenue},
		{Decision: DecisionStandby},
		{Decision: DecisionIBL},
	})
	if counts != (CategoryCounts{Revenue: 2, Standby: 1, IBL: 1}) {
		t.Fatalf("unexpected counts %+v", counts)
	}
}

func TestDecisionOutcomeBlocked(t *testing.T) {
	if (DecisionOutcome{Decision: DecisionIBL}).Blocked() {
		t.Errorf("no blockers must mean not blocked")
	}
	if !(DecisionOutcome{Blockers: []string{"Open job card present"}}).Blocked() {
		t.Errorf("blockers present must mean blocked")
	}
}
