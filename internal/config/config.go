// SPDX-License-Identifier: MPL-2.0

// Package config loads gotox's tool-level configuration.
//
// The config file is optional; when absent the defaults apply. It lives at
// the platform config dir (e.g. ~/.config/gotox/config.toml on Linux) and
// only carries knobs that are not per-project: the work directory name, the
// host interpreter used for current-env redirects, and UI preferences.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "gotox"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "toml"
)

// configDirOverride lets tests point Load at a temp directory.
var configDirOverride string

// SetConfigDirOverride overrides the config directory. Empty resets.
func SetConfigDirOverride(dir string) {
	configDirOverride = dir
}

type (
	// Config is gotox's tool-level configuration.
	Config struct {
		// WorkDirName is the per-project directory holding target
		// environments, relative to the targets file.
		WorkDirName string `mapstructure:"work_dir_name"`

		// HostPython is the interpreter name resolved for current-env and
		// print-deps redirects.
		HostPython string `mapstructure:"host_python"`

		// UI holds presentation preferences.
		UI UIConfig `mapstructure:"ui"`
	}

	// UIConfig holds presentation preferences.
	UIConfig struct {
		Verbose bool `mapstructure:"verbose"`
	}
)

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		WorkDirName: ".gotox",
		HostPython:  "python3",
	}
}

// ConfigDir returns the gotox configuration directory using platform
// conventions: Windows uses %APPDATA%, macOS uses ~/Library/Application
// Support, and Linux/others use $XDG_CONFIG_HOME (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
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

// Load reads the config file, falling back to defaults when no file exists.
func Load() (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("work_dir_name", defaults.WorkDirName)
	v.SetDefault("host_python", defaults.HostPython)
	v.SetDefault("ui.verbose", defaults.UI.Verbose)

	dir, err := ConfigDir()
	if err != nil {
		return defaults, err
	}

	v.SetConfigName(ConfigFileName)
	v.SetConfigType(ConfigFileExt)
	v.AddConfigPath(dir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return defaults, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return defaults, fmt.Errorf("parse config file: %w", err)
	}
	return cfg, nil
}
