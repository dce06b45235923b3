// Package config provides Viper-based configuration management for repo-report.
package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config represents the complete repo-report configuration.
type Config struct {
	GitHub  GitHubConfig  `mapstructure:"github"`
	Sample  SampleConfig  `mapstructure:"sample"`
	Output  OutputConfig  `mapstructure:"output"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// GitHubConfig contains settings for the gh CLI collaboration.
type GitHubConfig struct {
	Bin   string `mapstructure:"bin"`
	Limit int    `mapstructure:"limit"`
}

// SampleConfig contains line-count sampling settings.
type SampleConfig struct {
	Size int `mapstructure:"size"`
}

// OutputConfig contains report and terminal output settings.
type OutputConfig struct {
	Dir    string `mapstructure:"dir"`
	Colors bool   `mapstructure:"colors"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads configuration from file and environment variables.
func Load(cfgFile string) (*Config, error) {
	// A local .env may seed REPO_REPORT_* variables; absence is fine.
	_ = godotenv.Load()

	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		// Search paths for .repo-report.yaml
		v.SetConfigName(".repo-report")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/repo-report")
	}

	// Environment variables
	v.SetEnvPrefix("REPO_REPORT")
	v.AutomaticEnv()

	setDefaults(v)

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("github.bin", "gh")
	v.SetDefault("github.limit", 1000)

	v.SetDefault("sample.size", 5)

	v.SetDefault("output.dir", ".")
	v.SetDefault("output.colors", true)

	v.SetDefault("logging.level", "info")
}

// validate checks the configuration for errors.
func validate(cfg *Config) error {
	if cfg.GitHub.Bin == "" {
		return fmt.Errorf("github.bin must not be empty")
	}
	if cfg.GitHub.Limit < 1 || cfg.GitHub.Limit > 1000 {
		return fmt.Errorf("github.limit must be between 1 and 1000, got %d", cfg.GitHub.Limit)
	}
	if cfg.Sample.Size < 0 {
		return fmt.Errorf("sample.size must not be negative, got %d", cfg.Sample.Size)
	}
	if cfg.Output.Dir == "" {
		return fmt.Errorf("output.dir must not be empty")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s (must be debug, info, warn, or error)", cfg.Logging.Level)
	}

	return nil
}
