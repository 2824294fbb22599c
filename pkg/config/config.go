// Package config loads entitygraph settings from YAML, an optional .env
// file and the environment, in that order of increasing precedence.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/dd0wney/entitygraph/pkg/logging"
	"github.com/dd0wney/entitygraph/pkg/validation"
)

// Environment variables
const (
	EnvLogLevel     = "ENTITYGRAPH_LOG_LEVEL"
	EnvLogLevelAlt  = "LOG_LEVEL"
	EnvMetricsAddr  = "ENTITYGRAPH_METRICS_ADDR"
	DefaultMetrics  = ":9090"
	DefaultLogLevel = "info"
)

// Config holds every setting of the entitygraph binary
type Config struct {
	LogLevel      string           `yaml:"log_level"`
	QueueCapacity int              `yaml:"queue_capacity"`
	FeedBuffer    int              `yaml:"feed_buffer"`
	Metrics       MetricsConfig    `yaml:"metrics"`
	Simulation    SimulationConfig `yaml:"simulation"`
}

// MetricsConfig controls the prometheus endpoint
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Address string `yaml:"address"`
}

// SimulationConfig drives the randomized simulate command
type SimulationConfig struct {
	Nodes           int           `yaml:"nodes"`
	Ticks           int           `yaml:"ticks"`
	EditsPerTick    int           `yaml:"edits_per_tick"`
	DisconnectRatio float64       `yaml:"disconnect_ratio"`
	DespawnRatio    float64       `yaml:"despawn_ratio"`
	Seed            int64         `yaml:"seed"`
	TickInterval    time.Duration `yaml:"tick_interval"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		LogLevel:      DefaultLogLevel,
		QueueCapacity: 64,
		FeedBuffer:    16,
		Metrics: MetricsConfig{
			Address: DefaultMetrics,
		},
		Simulation: SimulationConfig{
			Nodes:           64,
			Ticks:           100,
			EditsPerTick:    16,
			DisconnectRatio: 0.35,
			DespawnRatio:    0.02,
			Seed:            1,
		},
	}
}

// Load builds the configuration from defaults, the YAML file at path
// (skipped when empty), a .env file in the working directory if present,
// and the environment. The result is validated.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := cfg.decode(bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	// a missing .env is normal
	_ = godotenv.Load()
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults without consulting the environment
func Parse(r io.Reader) (*Config, error) {
	cfg := Default()
	if err := cfg.decode(r); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decode(r io.Reader) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := firstEnv(EnvLogLevel, EnvLogLevelAlt); v != "" {
		c.LogLevel = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvMetricsAddr)); v != "" {
		c.Metrics.Enabled = true
		c.Metrics.Address = v
	}
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
	}
	return ""
}

// Validate checks every field and reports all problems at once
func (c *Config) Validate() error {
	cv := validation.NewConfigValidator("config").
		Custom("log_level", func() error {
			if _, ok := logging.LookupLevel(c.LogLevel); !ok {
				return fmt.Errorf("unknown level %q", c.LogLevel)
			}
			return nil
		}).
		Positive("queue_capacity", c.QueueCapacity).
		Positive("feed_buffer", c.FeedBuffer).
		When(c.Metrics.Enabled, func(v *validation.ConfigValidator) {
			v.Required("metrics.address", c.Metrics.Address)
		})

	s := c.Simulation
	sv := validation.NewConfigValidator("simulation").
		Positive("nodes", s.Nodes).
		NonNegative("ticks", s.Ticks).
		NonNegative("edits_per_tick", s.EditsPerTick).
		Ratio("disconnect_ratio", s.DisconnectRatio).
		Ratio("despawn_ratio", s.DespawnRatio).
		NonNegativeDuration("tick_interval", s.TickInterval)

	return errors.Join(cv.Validate(), sv.Validate())
}

// Level returns the parsed log level
func (c *Config) Level() logging.Level {
	return logging.ParseLevel(c.LogLevel)
}
