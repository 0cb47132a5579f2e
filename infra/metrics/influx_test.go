package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	coremetrics "github.com/railops/inductd/core/metrics"
	"github.com/railops/inductd/core/model"
)

// fakeInflux answers the health check and captures line-protocol writes.
type fakeInflux struct {
	mu      sync.Mutex
	lines   []string
	healthy bool
}

func (f *fakeInflux) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if f.healthy {
			_, _ = w.Write([]byte(`{"name":"influxdb","status":"pass"}`))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"name":"influxdb","status":"fail"}`))
	})
	mux.HandleFunc("/api/v2/write", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		for _, line := range strings.Split(strings.TrimSpace(string(body)), "\n") {
			if line != "" {
				f.lines = append(f.lines, line)
			}
		}
		f.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	})
	return mux
}

func TestInfluxSink_WritesPoints(t *testing.T) {
	fake := &fakeInflux{healthy: true}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	cfg := coremetrics.Config{InfluxURL: srv.URL, InfluxOrg: "railops", InfluxBucket: "induction"}
	sink := NewInfluxSink(cfg)
	defer sink.Close()

	sum := coremetrics.RunSummary{
		RunID:    "IR-test",
		Depot:    "MUTTOM",
		Counts:   model.CategoryCounts{Revenue: 18, Standby: 4, IBL: 2},
		KPI:      model.FleetKPI{MileageStddevKm: 4200.1234},
		Duration: 80 * time.Millisecond,
		At:       time.Now().UTC(),
	}
	if err := sink.RecordRun(sum); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}
	if err := sink.RecordDecisions([]coremetrics.DecisionEvent{{
		RunID:   "IR-test",
		Depot:   "MUTTOM",
		Outcome: model.DecisionOutcome{TrainsetID: "TS-001", Decision: model.DecisionRevenue, Score: 40},
		At:      time.Now().UTC(),
	}}); err != nil {
		t.Fatalf("RecordDecisions: %v", err)
	}

	fake.mu.Lock()
	defer fake.mu.Unlock()
	if len(fake.lines) != 2 {
		t.Fatalf("expected 2 points, got %d: %v", len(fake.lines), fake.lines)
	}
	if !strings.HasPrefix(fake.lines[0], "induction_run,") || !strings.Contains(fake.lines[0], "depot=MUTTOM") {
		t.Fatalf("unexpected run point %q", fake.lines[0])
	}
	if !strings.HasPrefix(fake.lines[1], "induction_decision,") || !strings.Contains(fake.lines[1], "decision=REVENUE") {
		t.Fatalf("unexpected decision point %q", fake.lines[1])
	}
}

func TestNewInfluxSinkWithFallback(t *testing.T) {
	fake := &fakeInflux{healthy: true}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	cfg := coremetrics.Config{InfluxURL: srv.URL, InfluxOrg: "railops", InfluxBucket: "induction"}
	if _, ok := NewInfluxSinkWithFallback(cfg).(*InfluxSink); !ok {
		t.Fatalf("healthy instance must yield a real sink")
	}

	fake.healthy = false
	if _, ok := NewInfluxSinkWithFallback(cfg).(coremetrics.NopSink); !ok {
		t.Fatalf("failing health check must fall back to NopSink")
	}

	cfg.InfluxURL = "http://127.0.0.1:1" // nothing listens here
	if _, ok := NewInfluxSinkWithFallback(cfg).(coremetrics.NopSink); !ok {
		t.Fatalf("unreachable instance must fall back to NopSink")
	}
}
