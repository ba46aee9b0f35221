// Package config handles configuration loading for upsweep.
// It supports XDG config paths, project-level overrides, and environment
// variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for upsweep.
type Config struct {
	Winget  WingetConfig  `mapstructure:"winget"`
	Run     RunConfig     `mapstructure:"run"`
	History HistoryConfig `mapstructure:"history"`
}

// WingetConfig holds settings for invoking the package manager.
type WingetConfig struct {
	// Binary is the command name, resolvable via PATH.
	Binary string `mapstructure:"binary"`
}

// RunConfig holds control-loop settings.
type RunConfig struct {
	// PollInterval is the pause between status polls.
	PollInterval time.Duration `mapstructure:"poll_interval"`
	// SkipFile points to the skip-list YAML. Empty means no skip list.
	SkipFile string `mapstructure:"skip_file"`
}

// HistoryConfig holds run-history persistence settings.
type HistoryConfig struct {
	// Enabled toggles recording runs to the local database.
	Enabled bool `mapstructure:"enabled"`
	// Path overrides the database location. Empty uses the XDG default.
	Path string `mapstructure:"path"`
}

// Load loads configuration from XDG paths, project overrides, and
// environment variables.
// Precedence (highest to lowest):
// 1. Environment variables (UPSWEEP_*)
// 2. Project config (.upsweep.yaml in current directory or parent)
// 3. User config (~/.config/upsweep/config.yaml)
// 4. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(getUserConfigDir())

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	if projectConfig := findProjectConfig(); projectConfig != "" {
		projectViper := viper.New()
		projectViper.SetConfigFile(projectConfig)
		if err := projectViper.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(projectViper.AllSettings()); err != nil {
				return nil, fmt.Errorf("merging project config: %w", err)
			}
		}
	}

	v.SetEnvPrefix("UPSWEEP")
	v.AutomaticEnv()
	v.BindEnv("winget.binary", "UPSWEEP_WINGET_BINARY")
	v.BindEnv("run.skip_file", "UPSWEEP_SKIP_FILE")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return cfg, nil
}

// LoadFromPath loads configuration from a specific path (for testing).
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return cfg, nil
}

// setDefaults configures default values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("winget.binary", "winget")
	v.SetDefault("run.poll_interval", "120ms")
	v.SetDefault("run.skip_file", "")
	v.SetDefault("history.enabled", true)
	v.SetDefault("history.path", "")
}

// GetUserConfigPath returns the path to the user config file.
func GetUserConfigPath() string {
	return filepath.Join(getUserConfigDir(), "config.yaml")
}

func getUserConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "upsweep")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "upsweep")
}

// findProjectConfig walks from the working directory upward looking for
// .upsweep.yaml.
func findProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		candidate := filepath.Join(dir, ".upsweep.yaml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
