package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apperrors "equitybins/internal/errors"
)

// Config represents the complete run configuration
type Config struct {
	Data      DataConfig      `yaml:"data" envconfig:"DATA"`
	Analysis  AnalysisConfig  `yaml:"analysis" envconfig:"ANALYSIS"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// DataConfig locates the input table
type DataConfig struct {
	Dir      string `yaml:"dir" envconfig:"DIR" validate:"required"`
	FileName string `yaml:"file_name" envconfig:"FILE_NAME" validate:"required"`
}

// AnalysisConfig holds the default factor selection.
// Bins is checked by the selector, not here, so a bad count reports as a selection error.
type AnalysisConfig struct {
	Factor      string `yaml:"factor" envconfig:"FACTOR" validate:"required"`
	Bins        int    `yaml:"bins" envconfig:"BINS"`
	Interactive bool   `yaml:"interactive" envconfig:"INTERACTIVE"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=stderr file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" validate:"required_unless=Output stderr"`
}

// TelemetryConfig switches on span export and the metrics textfile
type TelemetryConfig struct {
	ServiceName string `yaml:"service_name" envconfig:"SERVICE_NAME" validate:"required"`
	Tracing     bool   `yaml:"tracing" envconfig:"TRACING"`
	TraceFile   string `yaml:"trace_file" envconfig:"TRACE_FILE"`
	MetricsFile string `yaml:"metrics_file" envconfig:"METRICS_FILE"`
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Data: DataConfig{
			Dir:      DefaultDataDir,
			FileName: DefaultFileName,
		},
		Analysis: AnalysisConfig{
			Factor:      DefaultFactor,
			Bins:        DefaultBins,
			Interactive: true,
		},
		Logging: LoggingConfig{
			Level:    DefaultLogLevel,
			Format:   DefaultLogFormat,
			Output:   "stderr",
			FilePath: "logs/avgreturn.log",
		},
		Telemetry: TelemetryConfig{
			ServiceName: AppName,
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file and
// the environment, in increasing order of precedence. A .env file in the
// working directory is applied to the environment first.
// An empty configFile means "config.yaml if present".
func Load(configFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, apperrors.NewConfigError("failed to load .env", err)
	}

	cfg := Default()

	path, err := resolveConfigFile(configFile)
	if err != nil {
		return nil, err
	}
	if path != "" {
		if err := loadFromFile(path, cfg); err != nil {
			return nil, apperrors.NewConfigError(fmt.Sprintf("failed to load config from %s", path), err).
				WithContext("file", path)
		}
	}

	// Fields without a matching variable are left untouched
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, apperrors.NewConfigError("failed to load config from env", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFromFile overlays a YAML file on cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// resolveConfigFile returns the config file to read, or "" when none applies
func resolveConfigFile(configFile string) (string, error) {
	if configFile != "" {
		if _, err := os.Stat(configFile); err != nil {
			return "", apperrors.NewConfigError(fmt.Sprintf("config file %s not accessible", configFile), err).
				WithContext("file", configFile)
		}
		return configFile, nil
	}

	for _, location := range []string{"config.yaml", "configs/config.yaml"} {
		if FileExists(location) {
			return location, nil
		}
	}
	return "", nil
}

// Validate checks the configuration against its struct tags
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return apperrors.NewConfigError(
				fmt.Sprintf("field %s failed %q validation (value %v)", fe.Namespace(), fe.Tag(), fe.Value()), nil).
				WithContext("field", fe.Namespace())
		}
		return apperrors.NewConfigError("config validation failed", err)
	}
	return nil
}
