package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "config.yaml", `
solver:
  history_length: 500
  max_iterations: 1000
  seed: 42
  insertion_depth: 3
auction:
  seed: 7
scenario:
  vehicles: 4
  requests: 20
logging:
  level: debug
metrics:
  prometheus_enabled: true
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 500, cfg.Solver.HistoryLength)
	assert.Equal(t, 1000, cfg.Solver.MaxIterations)
	assert.Equal(t, int64(42), cfg.Solver.Seed)
	assert.Equal(t, 3, cfg.Solver.InsertionDepth)
	assert.Equal(t, int64(7), cfg.Auction.Seed)
	assert.Equal(t, 4, cfg.Scenario.Vehicles)
	assert.Equal(t, 20, cfg.Scenario.Requests)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Metrics.PrometheusEnabled)
	// Untouched sections pick up defaults.
	assert.Equal(t, float64(1), cfg.Solver.TravelWeight)
	assert.Equal(t, float64(1), cfg.Solver.TardinessWeight)
	assert.Equal(t, 2112, cfg.Metrics.PrometheusPort)
}

func TestLoadJSON(t *testing.T) {
	path := writeFile(t, "config.json", `{"scenario":{"vehicles":3}}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Scenario.Vehicles)
}

func TestLoadUnsupportedFormat(t *testing.T) {
	path := writeFile(t, "config.toml", "x = 1")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadEnvOverride(t *testing.T) {
	path := writeFile(t, "config.yaml", "solver:\n  seed: 1\n")
	t.Setenv("FM_SOLVER__SEED", "99")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, int64(99), cfg.Solver.Seed)
}

func TestLoadInvalidLogLevel(t *testing.T) {
	path := writeFile(t, "config.yaml", "logging:\n  level: loud\n")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, 2000, cfg.Solver.HistoryLength)
	assert.Equal(t, 200000, cfg.Solver.MaxIterations)
	assert.Equal(t, "info", cfg.Logging.Level)
}
