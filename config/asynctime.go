package config

import (
	"fmt"
	"time"

	"github.com/kbukum/asynctime/errors"
	"github.com/kbukum/asynctime/validation"
)

// ServiceName is the name the demo binary loads its files under.
const ServiceName = "asynctime"

// EnvPrefix scopes the environment variables the demo binary reads.
const EnvPrefix = "ASYNCTIME"

// Config is the configuration of the asynctime demo binary.
type Config struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`
	Timing        Timing    `yaml:"timing" mapstructure:"timing"`
	Telemetry     Telemetry `yaml:"telemetry" mapstructure:"telemetry"`
}

// Timing holds the spans each demo scenario runs with.
type Timing struct {
	Sleep    time.Duration `yaml:"sleep" mapstructure:"sleep" validate:"gte=0"`
	Work     time.Duration `yaml:"work" mapstructure:"work" validate:"gte=0"`
	Timeout  time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"gt=0"`
	Delay    time.Duration `yaml:"delay" mapstructure:"delay" validate:"gte=0"`
	Interval time.Duration `yaml:"interval" mapstructure:"interval" validate:"gt=0"`
	Ticks    int           `yaml:"ticks" mapstructure:"ticks" validate:"gte=1"`
	// Window is the per-item limit of the stream timeout scenario.
	Window time.Duration `yaml:"window" mapstructure:"window" validate:"gt=0"`
}

// Telemetry configures the optional OTLP exporters.
type Telemetry struct {
	Metrics        bool          `yaml:"metrics" mapstructure:"metrics"`
	Tracing        bool          `yaml:"tracing" mapstructure:"tracing"`
	Endpoint       string        `yaml:"endpoint" mapstructure:"endpoint" validate:"omitempty,hostname_port"`
	Insecure       bool          `yaml:"insecure" mapstructure:"insecure"`
	ExportInterval time.Duration `yaml:"export_interval" mapstructure:"export_interval" validate:"gte=0"`
	SampleRate     float64       `yaml:"sample_rate" mapstructure:"sample_rate" validate:"gte=0,lte=1"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = ServiceName
	}
	c.ServiceConfig.ApplyDefaults()

	t := &c.Timing
	if t.Sleep == 0 {
		t.Sleep = 200 * time.Millisecond
	}
	if t.Work == 0 {
		t.Work = 50 * time.Millisecond
	}
	if t.Timeout == 0 {
		t.Timeout = 100 * time.Millisecond
	}
	if t.Delay == 0 {
		t.Delay = 100 * time.Millisecond
	}
	if t.Interval == 0 {
		t.Interval = 50 * time.Millisecond
	}
	if t.Ticks == 0 {
		t.Ticks = 3
	}
	if t.Window == 0 {
		t.Window = 75 * time.Millisecond
	}

	if c.Telemetry.Endpoint == "" && (c.Telemetry.Metrics || c.Telemetry.Tracing) {
		c.Telemetry.Endpoint = "localhost:4318"
	}
	if c.Telemetry.ExportInterval == 0 {
		c.Telemetry.ExportInterval = 10 * time.Second
	}
	if c.Telemetry.SampleRate == 0 {
		c.Telemetry.SampleRate = 1
	}
}

// Validate checks field constraints and then the relations between fields.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := validation.Validate(c); err != nil {
		return err
	}
	if (c.Telemetry.Metrics || c.Telemetry.Tracing) && c.Telemetry.Endpoint == "" {
		return errors.MissingField("telemetry.endpoint")
	}
	return validation.New().
		Shorter("timing.work", c.Timing.Work, "timing.timeout", c.Timing.Timeout).
		Validate()
}

// Load reads the demo configuration, applies defaults and validates it.
func Load(opts ...LoaderOption) (*Config, error) {
	var cfg Config
	opts = append([]LoaderOption{WithEnvPrefix(EnvPrefix)}, opts...)
	if err := LoadConfig(ServiceName, &cfg, opts...); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s config: %w", ServiceName, err)
	}
	return &cfg, nil
}
