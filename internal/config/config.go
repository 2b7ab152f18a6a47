// Package config loads nhparity settings from YAML files and NHPARITY_*
// environment variables.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

//go:embed defaults/nhparity.yaml
var defaultYAML []byte

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "NHPARITY_"

// Config is the full nhparity configuration.
type Config struct {
	Harness    HarnessConfig    `yaml:"harness" envPrefix:"HARNESS_"`
	Generation GenerationConfig `yaml:"generation" envPrefix:"GENERATION_"`
	Log        LogConfig        `yaml:"log" envPrefix:"LOG_"`
	Storage    StorageConfig    `yaml:"storage" envPrefix:"STORAGE_"`
	Telemetry  TelemetryConfig  `yaml:"telemetry" envPrefix:"TELEMETRY_"`

	// Source is the file the configuration was read from, or "embedded".
	Source string `yaml:"-"`
}

// HarnessConfig controls parity runs.
type HarnessConfig struct {
	Turns                int           `yaml:"turns" env:"TURNS"`
	Timeout              time.Duration `yaml:"timeout" env:"TIMEOUT"`
	Trace                bool          `yaml:"trace" env:"TRACE"`
	TraceCapacity        int           `yaml:"trace_capacity" env:"TRACE_CAPACITY"`
	ContinueOnDivergence bool          `yaml:"continue_on_divergence" env:"CONTINUE_ON_DIVERGENCE"`
	Reference            EngineConfig  `yaml:"reference" envPrefix:"REFERENCE_"`
	Candidate            EngineConfig  `yaml:"candidate" envPrefix:"CANDIDATE_"`
}

// EngineConfig names an engine and how to start it. An empty Command runs
// the built-in engine in process.
type EngineConfig struct {
	Name    string   `yaml:"name" env:"NAME"`
	Command string   `yaml:"command" env:"COMMAND"`
	Args    []string `yaml:"args" env:"ARGS" envSeparator:" "`
}

// InProcess reports whether the engine runs inside the harness.
func (e EngineConfig) InProcess() bool {
	return e.Command == ""
}

// GenerationConfig sets up the games the engines play.
type GenerationConfig struct {
	MaxAttempts int    `yaml:"max_attempts" env:"MAX_ATTEMPTS"`
	Depth       int    `yaml:"depth" env:"DEPTH"`
	Role        string `yaml:"role" env:"ROLE"`
	Race        string `yaml:"race" env:"RACE"`
}

// LogConfig configures the structured logger.
type LogConfig struct {
	Level      string `yaml:"level" env:"LEVEL"`
	Format     string `yaml:"format" env:"FORMAT"`
	File       string `yaml:"file" env:"FILE"`
	MaxSizeMB  int    `yaml:"max_size_mb" env:"MAX_SIZE_MB"`
	MaxBackups int    `yaml:"max_backups" env:"MAX_BACKUPS"`
	MaxAgeDays int    `yaml:"max_age_days" env:"MAX_AGE_DAYS"`
}

// StorageConfig locates the run database.
type StorageConfig struct {
	Enabled bool   `yaml:"enabled" env:"ENABLED"`
	Path    string `yaml:"path" env:"PATH"`
}

// TelemetryConfig controls the OTLP exporter.
type TelemetryConfig struct {
	Enabled     bool    `yaml:"enabled" env:"ENABLED"`
	ServiceName string  `yaml:"service_name" env:"SERVICE_NAME"`
	SampleRatio float64 `yaml:"sample_ratio" env:"SAMPLE_RATIO"`
}

var (
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"text", "json", "logfmt"}
)

// Default returns the embedded default configuration.
func Default() Config {
	var cfg Config
	if err := yaml.Unmarshal(defaultYAML, &cfg); err != nil {
		panic(fmt.Sprintf("config: embedded default: %v", err))
	}
	cfg.Source = "embedded"
	return cfg
}

// Load reads the configuration, then applies environment overrides.
// Search order: customPath -> ~/.nhparity/config.yaml ->
// ./configs/nhparity.yaml -> embedded default. Keys a file leaves out keep
// their default values.
func Load(customPath string) (Config, error) {
	cfg := Default()

	if customPath != "" {
		if err := readFile(customPath, &cfg); err != nil {
			return cfg, err
		}
	} else {
		for _, path := range []string{userConfigPath(), filepath.Join("configs", "nhparity.yaml")} {
			if path == "" {
				continue
			}
			err := readFile(path, &cfg)
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			if err != nil {
				return cfg, err
			}
			break
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return cfg, fmt.Errorf("config: parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func readFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.Source = path
	return nil
}

// userConfigPath returns the path to the user config file, or empty if
// home is unavailable.
func userConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".nhparity", "config.yaml")
}

// Validate reports the first setting that cannot be used.
func (c Config) Validate() error {
	switch {
	case c.Harness.Turns < 0:
		return fmt.Errorf("config: harness.turns must not be negative, got %d", c.Harness.Turns)
	case c.Harness.Timeout < 0:
		return fmt.Errorf("config: harness.timeout must not be negative, got %s", c.Harness.Timeout)
	case c.Harness.TraceCapacity < 0:
		return fmt.Errorf("config: harness.trace_capacity must not be negative, got %d", c.Harness.TraceCapacity)
	case c.Generation.Depth < 1:
		return fmt.Errorf("config: generation.depth must be at least 1, got %d", c.Generation.Depth)
	case c.Generation.MaxAttempts < 0:
		return fmt.Errorf("config: generation.max_attempts must not be negative, got %d", c.Generation.MaxAttempts)
	case !slices.Contains(logLevels, c.Log.Level):
		return fmt.Errorf("config: log.level %q is not one of %v", c.Log.Level, logLevels)
	case !slices.Contains(logFormats, c.Log.Format):
		return fmt.Errorf("config: log.format %q is not one of %v", c.Log.Format, logFormats)
	case c.Storage.Enabled && c.Storage.Path == "":
		return errors.New("config: storage.path is required when storage is enabled")
	case c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > 1:
		return fmt.Errorf("config: telemetry.sample_ratio must be within [0, 1], got %g", c.Telemetry.SampleRatio)
	}
	return nil
}
