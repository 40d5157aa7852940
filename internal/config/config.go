package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/narvi-dev/narvi/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "narvi.yaml"

	// EnvPrefix prefixes every environment override.
	EnvPrefix = "NARVI_"

	// DefaultLogLevel is the default slog level name.
	DefaultLogLevel = "info"

	// DefaultLogFormat is the default log handler.
	DefaultLogFormat = "text"

	// DefaultMetricsAddr is the default listen address of the metrics endpoint.
	DefaultMetricsAddr = ":9464"

	// DefaultNamespace is the default Prometheus namespace.
	DefaultNamespace = "narvi"

	// DefaultTracer is the default OpenTelemetry tracer name.
	DefaultTracer = "narvi"
)

// Config is the narvi.yaml configuration.
type Config struct {
	// Log configures the process logger.
	Log LogConfig `yaml:"log" envPrefix:"LOG_"`

	// Metrics configures the Prometheus instrumentation.
	Metrics MetricsConfig `yaml:"metrics" envPrefix:"METRICS_"`

	// Tracing configures the OpenTelemetry instrumentation.
	Tracing TracingConfig `yaml:"tracing" envPrefix:"TRACING_"`

	configPath string
}

// LogConfig selects the slog handler and level.
type LogConfig struct {
	// Level is one of debug, info, warn or error.
	Level string `yaml:"level" env:"LEVEL"`

	// Format is text or json.
	Format string `yaml:"format" env:"FORMAT"`
}

// MetricsConfig controls the metrics endpoint.
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled" env:"ENABLED"`
	Addr      string `yaml:"addr" env:"ADDR"`
	Namespace string `yaml:"namespace" env:"NAMESPACE"`
}

// TracingConfig controls cascade tracing.
type TracingConfig struct {
	Enabled bool   `yaml:"enabled" env:"ENABLED"`
	Tracer  string `yaml:"tracer" env:"TRACER"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Metrics: MetricsConfig{
			Addr:      DefaultMetricsAddr,
			Namespace: DefaultNamespace,
		},
		Tracing: TracingConfig{
			Tracer: DefaultTracer,
		},
	}
}

// Load reads narvi.yaml from dir. A missing file is not an error: the
// defaults are used. Environment overrides are applied in both cases.
func Load(dir string) (*Config, error) {
	return load(dir, nil)
}

func load(dir string, environ map[string]string) (*Config, error) {
	path := filepath.Join(dir, ConfigFileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := Default()
		if err := cfg.applyEnv(environ); err != nil {
			return nil, err
		}
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	return loadFile(path, environ)
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	return loadFile(path, nil)
}

func loadFile(path string, environ map[string]string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("N030").
			WithDetail("Cannot read " + path).
			Wrap(err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("N031").
			WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error()).
			Wrap(err)
	}
	cfg.configPath = path
	cfg.applyDefaults()

	if err := cfg.applyEnv(environ); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overlays NARVI_* variables. A nil environ reads the process
// environment.
func (c *Config) applyEnv(environ map[string]string) error {
	opts := env.Options{Prefix: EnvPrefix, Environment: environ}
	if err := env.ParseWithOptions(c, opts); err != nil {
		return errors.New("N032").
			WithDetail("Invalid " + EnvPrefix + "* environment override").
			Wrap(err)
	}
	c.applyDefaults()
	return nil
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
	if c.Metrics.Addr == "" {
		c.Metrics.Addr = DefaultMetricsAddr
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Tracing.Tracer == "" {
		c.Tracing.Tracer = DefaultTracer
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if _, err := c.Log.level(); err != nil {
		return errors.New("N032").
			WithDetailf("log.level %q is not one of debug, info, warn, error", c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return errors.New("N032").
			WithDetailf("log.format %q is not text or json", c.Log.Format)
	}
	return nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.New("N030").Wrap(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.New("N030").
			WithDetail("Cannot write " + path).
			Wrap(err)
	}
	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

// Logger builds the slog logger described by c.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	level, err := c.Log.level()
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(c.Log.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func (l LogConfig) level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("log level: %w", err)
	}
	return level, nil
}
