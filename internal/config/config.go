package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"anomaly-platform/internal/models"
	"anomaly-platform/internal/repository"
)

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// DetectionConfig holds the default detection parameters applied when a
// request omits them. The documented station-cadence preset is
// window_len 36 / stride 18 (six-hour windows advancing three hours at
// a ten-minute sampling interval); the shipped defaults suit ad hoc
// calls on short series.
type DetectionConfig struct {
	WindowLen int     `mapstructure:"window_len"`
	Stride    int     `mapstructure:"stride"`
	Threshold float64 `mapstructure:"threshold"`
}

// SampleDataConfig controls the sample dataset source. When Path points
// at an existing file it is loaded at startup; otherwise the dataset is
// generated from the seed.
type SampleDataConfig struct {
	Path             string  `mapstructure:"path"`
	Stations         int     `mapstructure:"stations"`
	PointsPerStation int     `mapstructure:"points_per_station"`
	IntervalSeconds  int64   `mapstructure:"interval_seconds"`
	StartTimestamp   int64   `mapstructure:"start_timestamp"`
	Seed             int64   `mapstructure:"seed"`
	AnomalyRate      float64 `mapstructure:"anomaly_rate"`
}

// RateLimitConfig holds per-IP rate limiter settings.
type RateLimitConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	RPS     float64 `mapstructure:"rps"`
	Burst   int     `mapstructure:"burst"`
}

// Config is the full application configuration.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Detection  DetectionConfig  `mapstructure:"detection"`
	SampleData SampleDataConfig `mapstructure:"sample_data"`
	RateLimit  RateLimitConfig  `mapstructure:"rate_limit"`
}

// LoadConfig builds the configuration from defaults, an optional YAML
// file named by ANOMALY_CONFIG_FILE, and ANOMALY_-prefixed environment
// variables (highest precedence).
func LoadConfig() (*Config, error) {
	v := viper.New()

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("logging.level", "info")
	v.SetDefault("detection.window_len", 10)
	v.SetDefault("detection.stride", 1)
	v.SetDefault("detection.threshold", 2.5)
	v.SetDefault("sample_data.path", "./api_test_data.json")
	v.SetDefault("sample_data.stations", 10)
	v.SetDefault("sample_data.points_per_station", 60)
	v.SetDefault("sample_data.interval_seconds", 600)
	v.SetDefault("sample_data.start_timestamp", 1729580400)
	v.SetDefault("sample_data.seed", 42)
	v.SetDefault("sample_data.anomaly_rate", 0.02)
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.rps", 50)
	v.SetDefault("rate_limit.burst", 100)

	v.SetEnvPrefix("ANOMALY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path := os.Getenv("ANOMALY_CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return &cfg, nil
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if err := c.DetectionDefaults().Validate(); err != nil {
		return fmt.Errorf("invalid detection defaults: %w", err)
	}
	if c.SampleData.Stations < 1 || c.SampleData.PointsPerStation < 1 {
		return fmt.Errorf("sample data requires at least one station and one point per station")
	}
	if c.SampleData.IntervalSeconds < 1 {
		return fmt.Errorf("invalid sample data interval: %d", c.SampleData.IntervalSeconds)
	}
	if c.SampleData.AnomalyRate < 0 || c.SampleData.AnomalyRate > 1 {
		return fmt.Errorf("anomaly rate must be within [0, 1], got %g", c.SampleData.AnomalyRate)
	}
	if c.RateLimit.Enabled && (c.RateLimit.RPS <= 0 || c.RateLimit.Burst < 1) {
		return fmt.Errorf("rate limiting enabled with invalid rps/burst: %g/%d", c.RateLimit.RPS, c.RateLimit.Burst)
	}
	return nil
}

// DetectionDefaults converts the configured defaults into the engine's
// parameter type.
func (c *Config) DetectionDefaults() models.DetectionConfig {
	return models.DetectionConfig{
		WindowLen: c.Detection.WindowLen,
		Stride:    c.Detection.Stride,
		Threshold: c.Detection.Threshold,
	}
}

// GeneratorSpec converts the sample data settings into a generator
// specification.
func (c *Config) GeneratorSpec() repository.GeneratorSpec {
	return repository.GeneratorSpec{
		Stations:         c.SampleData.Stations,
		PointsPerStation: c.SampleData.PointsPerStation,
		IntervalSeconds:  c.SampleData.IntervalSeconds,
		StartTimestamp:   c.SampleData.StartTimestamp,
		Seed:             c.SampleData.Seed,
		AnomalyRate:      c.SampleData.AnomalyRate,
	}
}
