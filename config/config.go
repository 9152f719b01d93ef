// Package config loads the application configuration from a YAML or
// JSON file with optional environment overrides.
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

	"fleetmas/core/metrics"
	"fleetmas/infra/mqtt"
)

type Config struct {
	Solver   SolverConfig   `json:"solver"`
	Auction  AuctionConfig  `json:"auction"`
	Scenario ScenarioConfig `json:"scenario"`
	Metrics  metrics.Config `json:"metrics"`
	Logging  LoggingConfig  `json:"logging"`
	MQTT     mqtt.Config    `json:"mqtt"`
}

// SolverConfig tunes the optimization engines.
type SolverConfig struct {
	HistoryLength   int     `json:"history_length"`
	MaxIterations   int     `json:"max_iterations"`
	TravelWeight    float64 `json:"travel_weight"`
	TardinessWeight float64 `json:"tardiness_weight"`
	InsertionDepth  int     `json:"insertion_depth"`
	Seed            int64   `json:"seed"`
}

// SetDefaults fills in the standard solver parameters.
func (c *SolverConfig) SetDefaults() {
	if c.HistoryLength <= 0 {
		c.HistoryLength = 2000
	}
	if c.MaxIterations <= 0 {
		c.MaxIterations = 200000
	}
	if c.TravelWeight == 0 {
		c.TravelWeight = 1
	}
	if c.TardinessWeight == 0 {
		c.TardinessWeight = 1
	}
}

// Validate rejects parameter combinations the solvers cannot run with.
func (c SolverConfig) Validate() error {
	if c.TravelWeight < 0 || c.TardinessWeight < 0 {
		return fmt.Errorf("objective weights must be non-negative")
	}
	if c.InsertionDepth < 0 {
		return fmt.Errorf("insertion_depth must be >= 0")
	}
	return nil
}

// AuctionConfig tunes the allocation protocol.
type AuctionConfig struct {
	Seed int64 `json:"seed"`
}

// ScenarioConfig describes the synthetic scenario generator.
type ScenarioConfig struct {
	Vehicles        int   `json:"vehicles"`
	Requests        int   `json:"requests"`
	Seed            int64 `json:"seed"`
	PlaneSize       int64 `json:"plane_size"`
	Horizon         int64 `json:"horizon"`
	ServiceDuration int64 `json:"service_duration"`
}

// SetDefaults fills in a small but non-trivial scenario.
func (c *ScenarioConfig) SetDefaults() {
	if c.Vehicles <= 0 {
		c.Vehicles = 2
	}
	if c.Requests <= 0 {
		c.Requests = 10
	}
	if c.PlaneSize <= 0 {
		c.PlaneSize = 1000
	}
	if c.Horizon <= 0 {
		c.Horizon = 100000
	}
	if c.ServiceDuration <= 0 {
		c.ServiceDuration = 300
	}
}

// Validate rejects scenarios the runner cannot build.
func (c ScenarioConfig) Validate() error {
	if c.Horizon <= c.ServiceDuration {
		return fmt.Errorf("horizon must exceed service_duration")
	}
	return nil
}

// LoggingConfig configures the zerolog adapter.
type LoggingConfig struct {
	Level string `json:"level"`
}

// SetDefaults selects info level logging when unset.
func (c *LoggingConfig) SetDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
}

// Validate checks the level is one zerolog understands.
func (c LoggingConfig) Validate() error {
	switch strings.ToLower(c.Level) {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("unknown log level: %s", c.Level)
	}
}

// Load reads the configuration file at path, applies FM_-prefixed
// environment overrides and validates the result.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides, e.g. FM_SOLVER__SEED=42.
	if err := k.Load(env.Provider("FM_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "fm_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns a configuration with every default applied, used when
// no config file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills every section's zero values.
func (c *Config) ApplyDefaults() {
	c.Solver.SetDefaults()
	c.Scenario.SetDefaults()
	c.Logging.SetDefaults()
	c.Metrics.SetDefaults()
	c.MQTT.SetDefaults()
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.Solver.Validate(); err != nil {
		return err
	}
	if err := c.Scenario.Validate(); err != nil {
		return err
	}
	if err := c.Logging.Validate(); err != nil {
		return err
	}
	return nil
}
