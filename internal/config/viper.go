// Package config provides Viper-based hierarchical configuration management
package config

import (
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata" // engine.timezone must resolve on hosts without zoneinfo

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Database backends
const (
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Config represents the complete application configuration
type Config struct {
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`
	Engine   EngineConfig   `mapstructure:"engine" yaml:"engine"`
	Labels   LabelsConfig   `mapstructure:"labels" yaml:"labels"`
	CSV      CSVConfig      `mapstructure:"csv" yaml:"csv"`
	Report   ReportConfig   `mapstructure:"report" yaml:"report"`
}

// LogConfig controls the logrus adapter.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// DatabaseConfig selects the payment store.
type DatabaseConfig struct {
	Backend string `mapstructure:"backend" yaml:"backend"`
	Path    string `mapstructure:"path" yaml:"path"`
}

// EngineConfig holds the reconciliation settings.
type EngineConfig struct {
	Timezone    string `mapstructure:"timezone" yaml:"timezone"`
	TrendMonths int    `mapstructure:"trend_months" yaml:"trend_months"`
}

// LabelsConfig points at an optional display-name override file.
type LabelsConfig struct {
	File string `mapstructure:"file" yaml:"file"`
}

// CSVConfig controls CSV import and export.
type CSVConfig struct {
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
}

// ReportConfig holds report rendering defaults.
type ReportConfig struct {
	Format string `mapstructure:"format" yaml:"format"`
}

// InitializeConfig initializes Viper configuration with hierarchical loading.
// configFile, when set, replaces the search over the standard locations.
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
		v.AddConfigPath("$HOME/.aptfee")
		v.AddConfigPath(".aptfee")
		v.AddConfigPath(".")
	}

	// 3. Environment variables
	v.SetEnvPrefix("APTFEE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional unless given explicitly)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if configFile != "" {
				return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
			}
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

// Default returns the configuration built from defaults only.
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

	v.SetDefault("database.backend", BackendSQLite)
	v.SetDefault("database.path", "aptfee.db")

	v.SetDefault("engine.timezone", "UTC")
	v.SetDefault("engine.trend_months", 6)

	v.SetDefault("labels.file", "")

	v.SetDefault("csv.delimiter", ",")

	v.SetDefault("report.format", "text")
}

// Validate checks a configuration assembled outside InitializeConfig, for
// example after command-line overrides.
func (c *Config) Validate() error {
	return validateConfig(c)
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	switch config.Database.Backend {
	case BackendSQLite:
		if config.Database.Path == "" {
			return fmt.Errorf("database.path is required for the sqlite backend")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("invalid database backend: %s (must be 'sqlite' or 'memory')", config.Database.Backend)
	}

	if _, err := time.LoadLocation(config.Engine.Timezone); err != nil {
		return fmt.Errorf("invalid engine.timezone %q: %w", config.Engine.Timezone, err)
	}

	if config.Engine.TrendMonths < 1 || config.Engine.TrendMonths > 120 {
		return fmt.Errorf("engine.trend_months must be between 1 and 120, got: %d", config.Engine.TrendMonths)
	}

	if len([]rune(config.CSV.Delimiter)) != 1 {
		return fmt.Errorf("CSV delimiter must be a single character, got: %s", config.CSV.Delimiter)
	}

	switch config.Report.Format {
	case "text", "json", "csv":
	default:
		return fmt.Errorf("invalid report format: %s (must be 'text', 'json' or 'csv')", config.Report.Format)
	}

	return nil
}

// Location returns the engine's fixed time zone.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Engine.Timezone)
}

// Delimiter returns the CSV delimiter as a rune.
func (c *Config) Delimiter() rune {
	r := []rune(c.CSV.Delimiter)
	if len(r) == 0 {
		return ','
	}
	return r[0]
}
