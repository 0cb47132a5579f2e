// Package app wires configuration into a running induction service.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	apiinduction "github.com/railops/inductd/api/induction"
	"github.com/railops/inductd/config"
	"github.com/railops/inductd/core/audit"
	"github.com/railops/inductd/core/facts"
	"github.com/railops/inductd/core/fleetstatus"
	"github.com/railops/inductd/core/induction"
	coremetrics "github.com/railops/inductd/core/metrics"
	"github.com/railops/inductd/infra/logger"
	"github.com/railops/inductd/infra/metrics"
	"github.com/railops/inductd/infra/telemetry"
	"github.com/railops/inductd/internal/eventbus"
	"github.com/railops/inductd/simulator"
)

// Service owns the engine and its collaborators for the daemon and the
// one-shot CLI commands.
type Service struct {
	Engine *induction.Engine
	Store  audit.RunStore
	Status *fleetstatus.MemoryStore
	Feed   *telemetry.MileageFeed

	cfg *config.Config
	bus *eventbus.Bus
	log logger.Logger
}

// New builds a Service from configuration. The loader argument lets the CLI
// inject fixture fleets; a nil loader selects the built-in demo fleet fed by
// the telemetry feed when one is configured.
func New(cfg *config.Config, loader facts.Loader) (*Service, error) {
	logg := logger.New("service")

	var sinks []coremetrics.RunSink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink()
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Metrics.InfluxEnabled {
		sinks = append(sinks, metrics.NewInfluxSinkWithFallback(cfg.Metrics))
	}
	var sink coremetrics.RunSink
	switch len(sinks) {
	case 0:
		sink = coremetrics.NopSink{}
	case 1:
		sink = sinks[0]
	default:
		sink = metrics.NewMultiSink(sinks...)
	}

	var feed *telemetry.MileageFeed
	if cfg.Telemetry.Enabled {
		feed = telemetry.NewMileageFeed(cfg.Telemetry)
	}
	if loader == nil {
		loader = demoLoader(cfg, feed)
	}

	bus := eventbus.New()
	engine, err := induction.NewEngine(loader, induction.StaticWeights(cfg.Weights.Weights()), sink, bus, logg)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	engine.SetWorkers(cfg.Induction.Workers)

	store, err := newRunStore(cfg.Audit)
	if err != nil {
		return nil, fmt.Errorf("audit store: %w", err)
	}
	engine.SetRunStore(store)

	status := fleetstatus.NewMemoryStore()
	engine.SetStatusStore(status)

	return &Service{
		Engine: engine,
		Store:  store,
		Status: status,
		Feed:   feed,
		cfg:    cfg,
		bus:    bus,
		log:    logg,
	}, nil
}

// Run starts the API server, the metrics endpoint and the telemetry feed,
// blocking until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	StartEventObserver(ctx, s.bus, s.log)
	if s.Feed != nil {
		if err := s.Feed.Start(ctx); err != nil {
			return fmt.Errorf("telemetry feed: %w", err)
		}
	}
	if s.cfg.Metrics.PrometheusEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.cfg.Metrics.PrometheusAddr); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	handler := &apiinduction.Handler{
		Engine:            s.Engine,
		Store:             s.Store,
		Status:            s.Status,
		Log:               s.log,
		DefaultRevenueCap: s.cfg.Induction.DefaultRevenueCap,
	}
	mux := http.NewServeMux()
	handler.Register(mux)
	srv := &http.Server{Addr: s.cfg.API.Addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	s.log.Infof("induction API listening on %s", s.cfg.API.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	if s.Feed != nil {
		s.Feed.Close()
	}
	s.bus.Close()
	if s.Store != nil {
		return s.Store.Close()
	}
	return nil
}

func newRunStore(cfg config.AuditConfig) (audit.RunStore, error) {
	switch cfg.Backend {
	case "sqlite":
		return audit.NewSQLiteStore(cfg.Path)
	default:
		return audit.NewJSONLStore(cfg.Path)
	}
}

// demoLoader assembles a loader over the built-in synthetic fleet. When a
// telemetry feed is configured it replaces the synthetic mileage source, so
// live odometer data flows into demo runs too.
func demoLoader(cfg *config.Config, feed *telemetry.MileageFeed) facts.Loader {
	fleet, slots := simulator.GenerateFleet(simulator.DefaultFleetConfig(24))
	if cfg.Induction.Depot != "" {
		for i := range fleet {
			fleet[i].Depot = cfg.Induction.Depot
		}
	}
	src := facts.NewMemorySource(fleet, slots)
	loader := facts.NewMemoryLoader(src)
	if feed != nil {
		loader.Mileage = feed
	}
	return loader
}
