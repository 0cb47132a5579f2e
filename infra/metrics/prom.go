package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/railops/inductd/core/metrics"
)

// PromSink records induction activity in Prometheus metrics.
type PromSink struct {
	runs        *prometheus.CounterVec
	decisions   *prometheus.CounterVec
	simulations prometheus.Counter
	duration    prometheus.Histogram
	fleet       prometheus.Gauge
	stddev      prometheus.Gauge
}

// NewPromSink registers induction metrics on the default Prometheus
// registerer. The metrics HTTP server is started separately.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global one.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "induction_runs_total",
		Help: "Total number of completed induction runs",
	}, []string{"depot"})
	decisions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "induction_decisions_total",
		Help: "Total number of per-trainset induction decisions",
	}, []string{"depot", "decision"})
	simulations := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "induction_simulations_total",
		Help: "Total number of what-if simulations served",
	})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "induction_run_duration_seconds",
		Help:    "Time spent computing one induction run",
		Buckets: prometheus.DefBuckets,
	})
	fleet := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "induction_fleet_size",
		Help: "Number of trainsets in the last loaded snapshot",
	})
	stddev := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "induction_mileage_stddev_km",
		Help: "Mileage variance spread across the eligible fleet in the last run",
	})

	s := &PromSink{}
	var err error
	if s.runs, err = adopt(reg, runs); err != nil {
		return nil, err
	}
	if s.decisions, err = adopt(reg, decisions); err != nil {
		return nil, err
	}
	if s.simulations, err = adopt(reg, simulations); err != nil {
		return nil, err
	}
	if s.duration, err = adopt(reg, duration); err != nil {
		return nil, err
	}
	if s.fleet, err = adopt(reg, fleet); err != nil {
		return nil, err
	}
	if s.stddev, err = adopt(reg, stddev); err != nil {
		return nil, err
	}
	return s, nil
}

// adopt registers the collector, swapping in the already registered
// instance when the registry has seen it before, so repeated sink
// construction (tests, restarts) records through the scraped collector.
func adopt[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	err := reg.Register(c)
	if err == nil {
		return c, nil
	}
	if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
		if existing, ok := are.ExistingCollector.(C); ok {
			return existing, nil
		}
	}
	var zero C
	return zero, err
}

// RecordRun updates the run counter, duration histogram and KPI gauges.
func (s *PromSink) RecordRun(sum coremetrics.RunSummary) error {
	s.runs.WithLabelValues(sum.Depot).Inc()
	s.duration.Observe(sum.Duration.Seconds())
	s.stddev.Set(sum.KPI.MileageStddevKm)
	return nil
}

// RecordDecisions increments the decision counter per outcome.
func (s *PromSink) RecordDecisions(events []coremetrics.DecisionEvent) error {
	for _, ev := range events {
		s.decisions.WithLabelValues(ev.Depot, string(ev.Outcome.Decision)).Inc()
	}
	return nil
}

// RecordSimulation counts one served simulation.
func (s *PromSink) RecordSimulation(int) error {
	s.simulations.Inc()
	return nil
}

// RecordFleetSize sets the fleet size gauge.
func (s *PromSink) RecordFleetSize(size int) error {
	s.fleet.Set(float64(size))
	return nil
}
