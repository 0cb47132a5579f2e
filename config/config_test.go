package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_YAML(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
api:
  addr: ":9191"
induction:
  default_revenue_cap: 18
  workers: 4
  depot: MUTTOM
audit:
  backend: sqlite
  path: /var/lib/inductd/runs.db
metrics:
  prometheus_enabled: true
weights:
  branding_high: 35
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9191", cfg.API.Addr)
	assert.Equal(t, 18, cfg.Induction.DefaultRevenueCap)
	assert.Equal(t, 4, cfg.Induction.Workers)
	assert.Equal(t, "MUTTOM", cfg.Induction.Depot)
	assert.Equal(t, "sqlite", cfg.Audit.Backend)
	assert.True(t, cfg.Metrics.PrometheusEnabled)

	w := cfg.Weights.Weights()
	assert.Equal(t, 35.0, w.BrandingHigh)
	assert.Equal(t, 15.0, w.BrandingMedium, "absent overrides keep defaults")
	assert.Equal(t, "v1", w.Version)
}

func TestLoad_JSON(t *testing.T) {
	path := writeConfig(t, "config.json", `{"api": {"addr": ":7070"}, "audit": {"backend": "jsonl"}}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.API.Addr)
	assert.Equal(t, "jsonl", cfg.Audit.Backend)
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, "config.yaml", "induction:\n  depot: MUTTOM\n")
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.API.Addr)
	assert.Equal(t, "jsonl", cfg.Audit.Backend)
	assert.Equal(t, "induction-runs.jsonl", cfg.Audit.Path)
	assert.Equal(t, ":9090", cfg.Metrics.PrometheusAddr)
	assert.Equal(t, "fleet/+/odometer", cfg.Telemetry.Topic)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "config.yaml", "api:\n  addr: \":8080\"\n")
	t.Setenv("INDUCTD_api__addr", ":6060")
	t.Setenv("INDUCTD_audit__backend", "sqlite")
	t.Setenv("INDUCTD_audit__path", "runs.db")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":6060", cfg.API.Addr)
	assert.Equal(t, "sqlite", cfg.Audit.Backend)
	assert.Equal(t, "runs.db", cfg.Audit.Path)
}

func TestLoad_UnsupportedExtension(t *testing.T) {
	path := writeConfig(t, "config.toml", "")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported config format")
}

func TestLoad_InvalidAuditBackend(t *testing.T) {
	path := writeConfig(t, "config.yaml", "audit:\n  backend: etcd\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown audit backend")
}

func TestLoad_NegativeThresholdRejected(t *testing.T) {
	path := writeConfig(t, "config.yaml", "weights:\n  mileage_high_km: -1\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must not be negative")
}

func TestWeightsConfig_Materialise(t *testing.T) {
	v := 50.0
	c := WeightsConfig{Version: "v2", BrandingHigh: &v}
	c.SetDefaults()
	w := c.Weights()
	assert.Equal(t, "v2", w.Version)
	assert.Equal(t, 50.0, w.BrandingHigh)
	assert.Equal(t, 10.0, w.CleaningCompleted)
}

func TestWeightsConfig_StablingOverrides(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
weights:
  distance_base: 12
  distance_per_m: 60
  turnaround_base: 8
  turnaround_per_min: 5
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	w := cfg.Weights.Weights()
	assert.Equal(t, 12.0, w.DistanceBase)
	assert.Equal(t, 60.0, w.DistancePerM)
	assert.Equal(t, 8.0, w.TurnaroundBase)
	assert.Equal(t, 5.0, w.TurnaroundPerMin)
	assert.Equal(t, 5.0, w.ShuntingPenalty, "absent overrides keep defaults")
}

func TestWeightsConfig_NonPositiveDivisorRejected(t *testing.T) {
	path := writeConfig(t, "config.yaml", "weights:\n  distance_per_m: 0\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be positive")
}
