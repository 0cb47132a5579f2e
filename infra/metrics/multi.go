package metrics

import (
	"net/http"
	"time"

	coremetrics "github.com/railops/inductd/core/metrics"
)

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: 5 * time.Second}
}

// MultiSink fans induction records out to several sinks, returning the
// first error encountered.
type MultiSink struct {
	Sinks []coremetrics.RunSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...coremetrics.RunSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

func (m *MultiSink) RecordRun(sum coremetrics.RunSummary) error {
	for _, s := range m.Sinks {
		if err := s.RecordRun(sum); err != nil {
			return err
		}
	}
	return nil
}

func (m *MultiSink) RecordDecisions(events []coremetrics.DecisionEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordDecisions(events); err != nil {
			return err
		}
	}
	return nil
}

// RecordSimulation forwards to sinks that count simulations.
func (m *MultiSink) RecordSimulation(outcomes int) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(coremetrics.SimulationRecorder); ok {
			if err := rec.RecordSimulation(outcomes); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordFleetSize forwards to sinks that track snapshot sizes.
func (m *MultiSink) RecordFleetSize(size int) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(coremetrics.FleetSizeRecorder); ok {
			if err := rec.RecordFleetSize(size); err != nil {
				return err
			}
		}
	}
	return nil
}
