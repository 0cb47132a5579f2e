package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/railops/inductd/core/model"
)

func exportRun() *model.InductionRun {
	return &model.InductionRun{
		ID:        "IR-20250601-040000-deadbeef",
		CreatedAt: time.Date(2025, 6, 1, 4, 0, 0, 0, time.UTC),
		RuleSetID: "weights-v1",
		Depot:     "MUTTOM",
		Results: []model.DecisionOutcome{
			{TrainsetID: "TS-001", Decision: model.DecisionRevenue, Score: 40, Reasons: []string{"high branding priority", "cleaning completed"}},
			{TrainsetID: "TS-002", Decision: model.DecisionIBL, Blockers: []string{"SIGNALLING fitness certificate EXPIRED", "Open job card present"}},
		},
		Counts: model.CategoryCounts{Revenue: 1, IBL: 1},
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, exportRun()); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	var decoded model.InductionRun
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.ID != "IR-20250601-040000-deadbeef" || len(decoded.Results) != 2 {
		t.Fatalf("round trip lost data: %+v", decoded)
	}
	if !strings.Contains(buf.String(), "\n  ") {
		t.Fatalf("expected indented output")
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, exportRun()); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "trainset_id" || rows[0][4] != "blockers" {
		t.Fatalf("unexpected header %v", rows[0])
	}
	if rows[1][0] != "TS-001" || rows[1][1] != "REVENUE" || rows[1][2] != "40" {
		t.Fatalf("unexpected first row %v", rows[1])
	}
	if rows[1][3] != "high branding priority; cleaning completed" {
		t.Fatalf("reasons not joined: %q", rows[1][3])
	}
	if rows[2][4] != "SIGNALLING fitness certificate EXPIRED; Open job card present" {
		t.Fatalf("blockers not joined: %q", rows[2][4])
	}
}

func TestWriteCSV_EmptyRun(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, &model.InductionRun{ID: "IR-empty"}); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected header only, got %d rows", len(rows))
	}
}
