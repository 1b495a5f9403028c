package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	BackendMemory = "memory"
	BackendRedis  = "redis"

	defaultRedisAddr   = "localhost:6379"
	defaultRedisPrefix = "skipdemo"
	defaultWorkers     = 4
)

// Config represents the top-level skipdemo.yml configuration
type Config struct {
	Version  string          `yaml:"version"`
	Tracker  TrackerConfig   `yaml:"tracker"`
	Pipeline *PipelineConfig `yaml:"pipeline,omitempty"`
	Log      *LogConfig      `yaml:"log,omitempty"`
}

// TrackerConfig selects where skip values are kept between stages
type TrackerConfig struct {
	Backend string       `yaml:"backend"` // "memory" or "redis"
	Redis   *RedisConfig `yaml:"redis,omitempty"`
}

// RedisConfig holds connection settings for the redis backend
type RedisConfig struct {
	Addr     string        `yaml:"addr,omitempty"`
	Password string        `yaml:"password,omitempty"`
	DB       int           `yaml:"db,omitempty"`
	Prefix   string        `yaml:"prefix,omitempty"`
	TTL      time.Duration `yaml:"ttl,omitempty"` // 0 = keep until popped or released
}

// PipelineConfig controls how many execution units run at once
type PipelineConfig struct {
	Workers int `yaml:"workers,omitempty"`
}

// LogConfig controls the slog handler
type LogConfig struct {
	Level  string `yaml:"level,omitempty"`  // debug, info, warn, error
	Format string `yaml:"format,omitempty"` // text or json
}

// Default returns the configuration used when no file is given
func Default() *Config {
	c := &Config{Version: "1.0", Tracker: TrackerConfig{Backend: BackendMemory}}
	_ = c.Validate()
	return c
}

// Validate performs strict validation and fills in defaults
func (c *Config) Validate() error {
	if c.Version != "1.0" {
		return fmt.Errorf("unsupported version: %s (expected: 1.0)", c.Version)
	}

	switch c.Tracker.Backend {
	case "":
		c.Tracker.Backend = BackendMemory
	case BackendMemory:
	case BackendRedis:
		if c.Tracker.Redis == nil {
			c.Tracker.Redis = &RedisConfig{}
		}
		if c.Tracker.Redis.Addr == "" {
			c.Tracker.Redis.Addr = defaultRedisAddr
		}
		if c.Tracker.Redis.Prefix == "" {
			c.Tracker.Redis.Prefix = defaultRedisPrefix
		}
		if c.Tracker.Redis.TTL < 0 {
			return fmt.Errorf("tracker.redis.ttl must be >= 0, got %s", c.Tracker.Redis.TTL)
		}
		if c.Tracker.Redis.DB < 0 {
			return fmt.Errorf("tracker.redis.db must be >= 0, got %d", c.Tracker.Redis.DB)
		}
	default:
		return fmt.Errorf("invalid tracker.backend: %s (must be 'memory' or 'redis')", c.Tracker.Backend)
	}

	if c.Pipeline == nil {
		c.Pipeline = &PipelineConfig{}
	}
	if c.Pipeline.Workers == 0 {
		c.Pipeline.Workers = defaultWorkers
	}
	if c.Pipeline.Workers < 1 {
		return fmt.Errorf("pipeline.workers must be >= 1, got %d", c.Pipeline.Workers)
	}

	if c.Log == nil {
		c.Log = &LogConfig{}
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("invalid log.format: %s (must be 'text' or 'json')", c.Log.Format)
	}

	return nil
}

// SlogLevel parses the configured level
func (l *LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("invalid log.level: %s", l.Level)
	}
	return level, nil
}

// Load reads and validates skipdemo.yml from the specified path
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}
