// Package telemetry ingests live odometer readings published by trainsets
// over MQTT and serves them to the snapshot loader as mileage facts.
package telemetry

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/railops/inductd/core/logger"
	"github.com/railops/inductd/core/model"
	infralogger "github.com/railops/inductd/infra/logger"
)

// Config defines the connection parameters for the odometer feed.
type Config struct {
	Enabled  bool   `json:"enabled"`
	Broker   string `json:"broker"`
	ClientID string `json:"client_id"`
	Username string `json:"username"`
	Password string `json:"password"`
	// Topic is the subscription filter; readings are expected on one topic
	// per trainset, e.g. "fleet/+/odometer".
	Topic    string `json:"topic"`
	QoS      byte   `json:"qos"`
	UseTLS   bool   `json:"use_tls"`
	CABundle string `json:"ca_bundle"`
	// FleetTargetKm is the balancing target used to derive variance. When
	// zero the target is the mean of all known odometer readings.
	FleetTargetKm float64 `json:"fleet_target_km"`
	// StaleAfter discards readings older than this; zero keeps everything.
	StaleAfter time.Duration `json:"-"`
	StaleAfterSeconds int    `json:"stale_after_seconds"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.Topic == "" {
		c.Topic = "fleet/+/odometer"
	}
	if c.ClientID == "" {
		c.ClientID = fmt.Sprintf("inductd-telemetry-%s", uuid.NewString()[:8])
	}
	if c.StaleAfter == 0 && c.StaleAfterSeconds > 0 {
		c.StaleAfter = time.Duration(c.StaleAfterSeconds) * time.Second
	}
}

// Reading is the wire format of one odometer report.
type Reading struct {
	TrainsetID string    `json:"trainset_id"`
	TotalKm    float64   `json:"total_km"`
	At         time.Time `json:"at"`
}

type sample struct {
	totalKm float64
	at      time.Time
}

// mqttClient is the slice of the paho client the feed uses; a seam for
// tests.
type mqttClient interface {
	Connect() paho.Token
	Disconnect(quiesce uint)
	Subscribe(topic string, qos byte, callback paho.MessageHandler) paho.Token
}

var newMQTTClient = func(opts *paho.ClientOptions) mqttClient {
	return paho.NewClient(opts)
}

// MileageFeed subscribes to odometer readings and maintains the latest
// sample per trainset. It implements the loader's MileageSource.
type MileageFeed struct {
	cfg Config
	cli mqttClient
	log logger.Logger

	mu      sync.RWMutex
	samples map[string]sample
	now     func() time.Time
}

// NewMileageFeed builds a feed without connecting. Start connects and
// subscribes.
func NewMileageFeed(cfg Config) *MileageFeed {
	cfg.SetDefaults()
	return &MileageFeed{
		cfg:     cfg,
		log:     infralogger.New("mileage-feed"),
		samples: make(map[string]sample),
		now:     time.Now,
	}
}

// Start connects to the broker and subscribes to the odometer topic. The
// subscription lives until Close.
func (f *MileageFeed) Start(_ context.Context) error {
	opts := paho.NewClientOptions().
		AddBroker(f.cfg.Broker).
		SetClientID(f.cfg.ClientID).
		SetUsername(f.cfg.Username).
		SetPassword(f.cfg.Password).
		SetAutoReconnect(true)
	if f.cfg.UseTLS {
		tlsCfg, err := newTLSConfig(f.cfg.CABundle)
		if err != nil {
			return fmt.Errorf("tls config: %w", err)
		}
		opts.SetTLSConfig(tlsCfg)
	}
	cli := newMQTTClient(opts)
	if tok := cli.Connect(); tok.Wait() && tok.Error() != nil {
		return fmt.Errorf("connect %s: %w", f.cfg.Broker, tok.Error())
	}
	if tok := cli.Subscribe(f.cfg.Topic, f.cfg.QoS, f.handle); tok.Wait() && tok.Error() != nil {
		cli.Disconnect(250)
		return fmt.Errorf("subscribe %s: %w", f.cfg.Topic, tok.Error())
	}
	f.mu.Lock()
	f.cli = cli
	f.mu.Unlock()
	f.log.Infof("subscribed to %s on %s", f.cfg.Topic, f.cfg.Broker)
	return nil
}

// Close drops the broker connection.
func (f *MileageFeed) Close() {
	f.mu.Lock()
	cli := f.cli
	f.cli = nil
	f.mu.Unlock()
	if cli != nil {
		cli.Disconnect(250)
	}
}

func (f *MileageFeed) handle(_ paho.Client, msg paho.Message) {
	var r Reading
	if err := json.Unmarshal(msg.Payload(), &r); err != nil {
		f.log.Warnf("discarding malformed reading on %s: %v", msg.Topic(), err)
		return
	}
	if r.TrainsetID == "" || r.TotalKm < 0 {
		f.log.Warnf("discarding incomplete reading on %s", msg.Topic())
		return
	}
	if r.At.IsZero() {
		r.At = f.now()
	}
	f.Observe(r)
}

// Observe records one reading. Older readings never replace newer ones.
func (f *MileageFeed) Observe(r Reading) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if prev, ok := f.samples[r.TrainsetID]; ok && prev.at.After(r.At) {
		return
	}
	f.samples[r.TrainsetID] = sample{totalKm: r.TotalKm, at: r.At}
}

// Mileage implements facts.MileageSource. Variance is the deviation from
// the configured fleet target, or from the mean of known readings when no
// target is configured.
func (f *MileageFeed) Mileage(_ context.Context, ids []string) (map[string]*model.MileageFact, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	now := f.now()
	fresh := func(s sample) bool {
		return f.cfg.StaleAfter <= 0 || now.Sub(s.at) <= f.cfg.StaleAfter
	}

	target := f.cfg.FleetTargetKm
	if target <= 0 {
		var sum float64
		var n int
		for _, s := range f.samples {
			if fresh(s) {
				sum += s.totalKm
				n++
			}
		}
		if n == 0 {
			return map[string]*model.MileageFact{}, nil
		}
		target = sum / float64(n)
	}

	out := make(map[string]*model.MileageFact, len(ids))
	for _, id := range ids {
		s, ok := f.samples[id]
		if !ok || !fresh(s) {
			continue
		}
		out[id] = &model.MileageFact{TotalKm: s.totalKm, VarianceKm: s.totalKm - target}
	}
	return out, nil
}

func newTLSConfig(caBundle string) (*tls.Config, error) {
	cfg := &tls.Config{MinVersion: tls.VersionTLS12}
	if caBundle != "" {
		pem, err := os.ReadFile(caBundle)
		if err != nil {
			return nil, err
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("no certificates parsed from %s", caBundle)
		}
		cfg.RootCAs = pool
	}
	return cfg, nil
}
