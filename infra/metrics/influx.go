package metrics

import (
	"context"
	"math"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/railops/inductd/core/logger"
	coremetrics "github.com/railops/inductd/core/metrics"
	infralogger "github.com/railops/inductd/infra/logger"
)

// InfluxSink writes induction activity to InfluxDB using the official
// client's blocking write API.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a sink for the given InfluxDB endpoint.
func NewInfluxSink(cfg coremetrics.Config) *InfluxSink {
	base := strings.TrimSuffix(cfg.InfluxURL, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, cfg.InfluxToken,
		influxdb2.DefaultOptions().SetHTTPClient(newHTTPClient()))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.InfluxOrg, cfg.InfluxBucket),
		log:      infralogger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback health-checks the InfluxDB instance and returns
// a NopSink when it is unreachable, so a missing metrics backend never
// blocks inductions.
func NewInfluxSinkWithFallback(cfg coremetrics.Config) coremetrics.RunSink {
	sink := NewInfluxSink(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordRun writes one run summary point.
func (s *InfluxSink) RecordRun(sum coremetrics.RunSummary) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("induction_run").
		AddTag("run_id", sum.RunID).
		AddTag("depot", sum.Depot).
		AddField("revenue", sum.Counts.Revenue).
		AddField("standby", sum.Counts.Standby).
		AddField("ibl", sum.Counts.IBL).
		AddField("duration_ms", sum.Duration.Milliseconds()).
		AddField("mileage_stddev_km", round3(sum.KPI.MileageStddevKm)).
		AddField("mileage_max_abs_km", round3(sum.KPI.MileageMaxAbsKm)).
		SetTime(sum.At)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordDecisions writes one point per trainset decision.
func (s *InfluxSink) RecordDecisions(events []coremetrics.DecisionEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, ev := range events {
		p := write.NewPointWithMeasurement("induction_decision").
			AddTag("run_id", ev.RunID).
			AddTag("depot", ev.Depot).
			AddTag("trainset_id", ev.Outcome.TrainsetID).
			AddTag("decision", string(ev.Outcome.Decision)).
			AddField("score", round3(ev.Outcome.Score)).
			AddField("blockers", len(ev.Outcome.Blockers)).
			SetTime(ev.At)
		if err := s.writeAPI.WritePoint(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the underlying client.
func (s *InfluxSink) Close() {
	s.client.Close()
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
