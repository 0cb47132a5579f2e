package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/railops/inductd/core/metrics"
	"github.com/railops/inductd/infra/telemetry"
)

// Config is the full service configuration.
type Config struct {
	API       APIConfig        `json:"api"`
	Induction InductionConfig  `json:"induction"`
	Weights   WeightsConfig    `json:"weights"`
	Audit     AuditConfig      `json:"audit"`
	Metrics   metrics.Config   `json:"metrics"`
	Telemetry telemetry.Config `json:"telemetry"`
}

// APIConfig configures the HTTP boundary.
type APIConfig struct {
	Addr string `json:"addr"`
}

// SetDefaults applies sane defaults.
func (c *APIConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
}

// InductionConfig tunes the engine.
type InductionConfig struct {
	// DefaultRevenueCap applies when a request carries no cap; zero means
	// uncapped.
	DefaultRevenueCap int `json:"default_revenue_cap"`
	// Workers bounds the per-trainset evaluation pool; zero sizes it to
	// the available cores.
	Workers int `json:"workers"`
	// Depot is the home depot assigned to the built-in demo fleet when no
	// external fact sources are wired.
	Depot string `json:"depot"`
}

// Load reads the configuration file at path (yaml or json), applies
// environment overrides of the form INDUCTD_section__key, and validates the
// result.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", filepath.Ext(path))
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	if err := k.Load(env.Provider("INDUCTD_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "inductd_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.API.SetDefaults()
	cfg.Audit.SetDefaults()
	cfg.Weights.SetDefaults()
	cfg.Metrics.SetDefaults()
	cfg.Telemetry.SetDefaults()
	if err := cfg.Audit.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Weights.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
