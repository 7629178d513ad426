package app

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/roman-kulish/telemetry-bridge/internal/probe"
	"github.com/roman-kulish/telemetry-bridge/internal/telemetry"
)

const (
	defaultWorkers      = 1
	defaultRepeat       = 1
	defaultMaxBatchSize = 500
	defaultLogMaxSizeMB = 10
)

var validate = validator.New()

// Config represents the main application configuration
type Config struct {
	Settings  Settings      `yaml:"settings"`
	Run       RunConfig     `yaml:"run"`
	Storage   StorageConfig `yaml:"storage"`
	Scenarios []Scenario    `yaml:"scenarios" validate:"dive"`
}

// Settings represents global application settings
type Settings struct {
	LogLevel     slog.Level `yaml:"logLevel" env:"TRAMPOLINE_LOG_LEVEL"`
	LogFile      string     `yaml:"logFile" env:"TRAMPOLINE_LOG_FILE"`
	LogMaxSizeMB int        `yaml:"logMaxSizeMB" validate:"min=1"`
}

// RunConfig represents how scenarios are dispatched
type RunConfig struct {
	Name    string        `yaml:"name" env:"TRAMPOLINE_RUN_NAME" validate:"required"`
	Workers int           `yaml:"workers" env:"TRAMPOLINE_WORKERS" validate:"min=1"`
	Repeat  int           `yaml:"repeat" env:"TRAMPOLINE_REPEAT" validate:"min=1"`
	Timeout time.Duration `yaml:"timeout" env:"TRAMPOLINE_TIMEOUT"`
}

// StorageConfig represents storage settings
type StorageConfig struct {
	DataDirectory string `yaml:"dataDirectory" env:"TRAMPOLINE_DATA_DIR"`
	MaxBatchSize  int    `yaml:"maxBatchSize" validate:"min=1"`
	Disabled      bool   `yaml:"disabled" env:"TRAMPOLINE_STORAGE_DISABLED"`
}

// Scenario is a named argument tuple. Exactly one of the category fields is set.
type Scenario struct {
	Name      string               `yaml:"name" validate:"required"`
	LinkStats *telemetry.LinkStats `yaml:"linkStats,omitempty"`
	Battery   *telemetry.Battery   `yaml:"battery,omitempty"`
	GPS       *telemetry.GPS       `yaml:"gps,omitempty"`
	Attitude  *telemetry.Attitude  `yaml:"attitude,omitempty"`
}

// Frame returns the scenario's argument tuple.
func (s *Scenario) Frame() (telemetry.Frame, error) {
	var frames []telemetry.Frame
	if s.LinkStats != nil {
		frames = append(frames, *s.LinkStats)
	}
	if s.Battery != nil {
		frames = append(frames, *s.Battery)
	}
	if s.GPS != nil {
		frames = append(frames, *s.GPS)
	}
	if s.Attitude != nil {
		frames = append(frames, *s.Attitude)
	}

	if len(frames) != 1 {
		return nil, NewConfigError(fmt.Sprintf("scenario '%s': exactly one of linkStats, battery, gps, attitude is required, got %d", s.Name, len(frames)))
	}
	return frames[0], nil
}

// ConfigError is a custom error type for configuration errors
type ConfigError struct {
	msg string
}

func NewConfigError(msg string) *ConfigError {
	return &ConfigError{msg}
}

func (e *ConfigError) Error() string {
	return e.msg
}

// DefaultScenarios is one scenario per telemetry category.
func DefaultScenarios() []Scenario {
	return []Scenario{
		{Name: "link-stats", LinkStats: &telemetry.LinkStats{RSSI1: -42, RSSI2: -50, LinkQuality: 98, SNR: 12}},
		{Name: "battery", Battery: &telemetry.Battery{Voltage: 16.8, Current: -2.5, Remaining: 87.0}},
		{Name: "gps", GPS: &telemetry.GPS{Latitude: 37.7749, Longitude: -122.4194, Altitude: 30, Satellites: 9, GroundSpeed: 4.2}},
		{Name: "attitude", Attitude: &telemetry.Attitude{Pitch: 1.5, Roll: -0.3, Yaw: 179.9}},
	}
}

// NewConfig returns the configuration used when no file is given.
func NewConfig() *Config {
	return &Config{
		Settings: Settings{
			LogLevel:     slog.LevelInfo,
			LogMaxSizeMB: defaultLogMaxSizeMB,
		},
		Run: RunConfig{
			Name:    "conformance",
			Workers: defaultWorkers,
			Repeat:  defaultRepeat,
		},
		Storage: StorageConfig{
			MaxBatchSize: defaultMaxBatchSize,
		},
	}
}

// LoadConfig reads the YAML file at path over the defaults, applies
// environment overrides and validates the result. An empty path skips the file.
func LoadConfig(path string) (*Config, error) {
	config := NewConfig()

	if path != "" {
		p, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading configuration: %w", err)
		}
		if err = yaml.Unmarshal(p, config); err != nil {
			return nil, fmt.Errorf("parsing configuration: %w", err)
		}
	}

	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}

	if len(config.Scenarios) == 0 {
		config.Scenarios = DefaultScenarios()
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks field constraints and that every scenario holds exactly
// one finite argument tuple.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	if c.Run.Workers > probe.Slots {
		return NewConfigError(fmt.Sprintf("run.workers: at most %d workers are supported, got %d", probe.Slots, c.Run.Workers))
	}

	names := make(map[string]struct{}, len(c.Scenarios))
	var errs []error
	for i := range c.Scenarios {
		s := &c.Scenarios[i]
		if _, ok := names[s.Name]; ok {
			errs = append(errs, NewConfigError(fmt.Sprintf("scenario '%s' is defined more than once", s.Name)))
		}
		names[s.Name] = struct{}{}

		f, err := s.Frame()
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if !finite(f) {
			errs = append(errs, NewConfigError(fmt.Sprintf("scenario '%s': NaN and infinite values cannot be stored", s.Name)))
		}
	}

	return errors.Join(errs...)
}

func finite(f telemetry.Frame) bool {
	var values []float32
	switch v := f.(type) {
	case telemetry.LinkStats:
		return true
	case telemetry.Battery:
		values = []float32{v.Voltage, v.Current, v.Remaining}
	case telemetry.GPS:
		values = []float32{v.Latitude, v.Longitude, v.GroundSpeed}
	case telemetry.Attitude:
		values = []float32{v.Pitch, v.Roll, v.Yaw}
	}

	for _, x := range values {
		if math.IsNaN(float64(x)) || math.IsInf(float64(x), 0) {
			return false
		}
	}
	return true
}
