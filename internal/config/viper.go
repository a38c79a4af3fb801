// Package config provides Viper-based hierarchical configuration management
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"fjacquet/camt-qif/internal/logging"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by the configuration.
const EnvPrefix = "CAMTQIF"

// Worker bounds for processing.workers
const (
	MinWorkers = 1
	MaxWorkers = 64
)

// LogConfig controls the application logger.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// OutputConfig controls the written document.
type OutputConfig struct {
	Extension string `mapstructure:"extension" yaml:"extension"`
}

// ProcessingConfig controls how source files are processed.
type ProcessingConfig struct {
	Workers int `mapstructure:"workers" yaml:"workers"`
}

// Config represents the complete application configuration
type Config struct {
	Log        LogConfig        `mapstructure:"log" yaml:"log"`
	Output     OutputConfig     `mapstructure:"output" yaml:"output"`
	Processing ProcessingConfig `mapstructure:"processing" yaml:"processing"`
}

// InitializeConfig initializes Viper configuration with hierarchical loading:
// defaults, then the config file, then CAMTQIF_ environment variables.
//
// When configFile is empty, config.yaml is searched in $HOME/.camt-qif,
// .camt-qif and the working directory, and a missing file is not an error.
// An explicit configFile must exist.
func InitializeConfig(configFile string) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.camt-qif")
		v.AddConfigPath(".camt-qif")
		v.AddConfigPath(".")
	}

	// 3. Environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case configFile != "":
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		case !errors.As(err, &notFound):
			fmt.Fprintf(os.Stderr, "Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 5. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Default returns the configuration used when nothing overrides the defaults.
func Default() *Config {
	v := viper.New()
	setDefaults(v)

	var config Config
	_ = v.Unmarshal(&config)
	return &config
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("output.extension", ".qif")

	v.SetDefault("processing.workers", 1)
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if !strings.HasPrefix(config.Output.Extension, ".") || len(config.Output.Extension) < 2 {
		return fmt.Errorf("output.extension must start with a dot, got: %q", config.Output.Extension)
	}
	if strings.ContainsAny(config.Output.Extension, `/\`) {
		return fmt.Errorf("output.extension must not contain path separators, got: %q", config.Output.Extension)
	}

	if config.Processing.Workers < MinWorkers || config.Processing.Workers > MaxWorkers {
		return fmt.Errorf("processing.workers must be between %d and %d, got: %d",
			MinWorkers, MaxWorkers, config.Processing.Workers)
	}

	return nil
}

// ConfigureLoggingFromConfig builds the application logger from the Config struct
func ConfigureLoggingFromConfig(config *Config) logging.Logger {
	return logging.NewLogrusAdapter(config.Log.Level, config.Log.Format)
}
