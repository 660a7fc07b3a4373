// SPDX-License-Identifier: MPL-2.0

// Package config loads deckmerge configuration: defaults, an optional TOML
// config file, and DECKMERGE_* environment variables, in increasing
// precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"

	"deckmerge/internal/issue"
)

const (
	// AppName is the application name.
	AppName = "deckmerge"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "toml"
	// LocalConfigFileName is the working-directory fallback config file.
	LocalConfigFileName = "deckmerge.toml"
	// EnvPrefix is the prefix for environment variable overrides.
	EnvPrefix = "DECKMERGE"
)

// Config holds all deckmerge settings.
type Config struct {
	// Output is the default output filename when --output is not given.
	Output string `mapstructure:"output"`
	// ScanExt is the file extension used to discover candidate inputs in
	// interactive mode. Must start with a dot.
	ScanExt string `mapstructure:"scan_ext"`
	// UI groups presentation-layer settings.
	UI UIConfig `mapstructure:"ui"`
}

// UIConfig groups presentation-layer settings.
type UIConfig struct {
	// Verbose enables verbose output without passing --verbose.
	Verbose bool `mapstructure:"verbose"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Output:  "merged.pptx",
		ScanExt: ".pptx",
	}
}

var (
	// configDirOverride lets tests redirect the config directory.
	configDirOverride string
	// configFilePathOverride is set by the --config flag and wins over the
	// directory ladder.
	configFilePathOverride string
)

// SetConfigDirOverride overrides the platform config directory (tests).
func SetConfigDirOverride(dir string) {
	configDirOverride = dir
}

// SetConfigFilePathOverride points Load at an exact config file.
func SetConfigFilePathOverride(path string) {
	configFilePathOverride = path
}

// ConfigDir returns the deckmerge configuration directory using
// platform-specific conventions: Windows uses %APPDATA%, macOS uses
// ~/Library/Application Support, and Linux/others use $XDG_CONFIG_HOME
// (defaulting to ~/.config).
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default: // Linux and others
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// Load reads the configuration: defaults, then the config file (explicit
// override path, platform config dir, or local fallback), then environment
// variables.
func Load() (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("output", defaults.Output)
	v.SetDefault("scan_ext", defaults.ScanExt)
	v.SetDefault("ui.verbose", defaults.UI.Verbose)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFilePathOverride != "" {
		if !fileExists(configFilePathOverride) {
			return nil, issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(configFilePathOverride).
				WithSuggestion("Verify the file path is correct").
				Wrap(fmt.Errorf("config file not found: %s", configFilePathOverride)).
				BuildError()
		}
		v.SetConfigFile(configFilePathOverride)
		if err := v.ReadInConfig(); err != nil {
			return nil, issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(configFilePathOverride).
				WithSuggestion("Check that the file contains valid TOML syntax").
				Wrap(err).
				BuildError()
		}
	} else {
		cfgDir, err := ConfigDir()
		if err != nil {
			return nil, err
		}
		tomlPath := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt)
		switch {
		case fileExists(tomlPath):
			v.SetConfigFile(tomlPath)
		case fileExists(LocalConfigFileName):
			v.SetConfigFile(LocalConfigFileName)
		default:
			// No config file found, use defaults (no error).
		}
		if v.ConfigFileUsed() != "" {
			if err := v.ReadInConfig(); err != nil {
				return nil, issue.NewErrorContext().
					WithOperation("load configuration").
					WithResource(v.ConfigFileUsed()).
					WithSuggestion("Check that the file contains valid TOML syntax").
					Wrap(err).
					BuildError()
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if !strings.HasPrefix(cfg.ScanExt, ".") {
		return nil, issue.NewErrorContext().
			WithOperation("validate configuration").
			WithSuggestion("scan_ext must start with a dot, e.g. \".pptx\"").
			Wrap(fmt.Errorf("invalid scan_ext %q", cfg.ScanExt)).
			BuildError()
	}

	return &cfg, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
