// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package config loads archerlink settings from a YAML file.
//
// The file lives at $XDG_CONFIG_HOME/archerlink/config.yaml (or
// ~/.config/archerlink/config.yaml) unless --config points elsewhere.
// A missing file yields the defaults. Passwords are never stored here.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	appName    = "archerlink"
	configFile = "config.yaml"
)

// Defaults
const (
	DefaultBaud          = 115200
	DefaultPollInterval  = time.Second
	DefaultStatusRetries = 3
	DefaultRetryDelay    = 200 * time.Millisecond
)

// Config holds connection, polling and logging settings
type Config struct {
	Port        string `yaml:"port,omitempty"`
	Baud        int    `yaml:"baud"`
	URL         string `yaml:"url,omitempty"`
	Username    string `yaml:"username,omitempty"`
	NoSSLVerify bool   `yaml:"no_ssl_verify,omitempty"`

	PollInterval  time.Duration `yaml:"poll_interval"`
	StatusRetries int           `yaml:"status_retries"`
	RetryDelay    time.Duration `yaml:"retry_delay"`

	LogLevel string `yaml:"log_level,omitempty"`
}

// Default returns a config populated with default values
func Default() *Config {
	return &Config{
		Baud:          DefaultBaud,
		PollInterval:  DefaultPollInterval,
		StatusRetries: DefaultStatusRetries,
		RetryDelay:    DefaultRetryDelay,
	}
}

// GetConfigDir returns the OS-appropriate configuration directory:
//   - Windows: %LOCALAPPDATA%\archerlink
//   - elsewhere: $XDG_CONFIG_HOME/archerlink or $HOME/.config/archerlink
func GetConfigDir() (string, error) {
	if runtime.GOOS == "windows" {
		if localAppData := os.Getenv("LOCALAPPDATA"); localAppData != "" {
			return filepath.Join(localAppData, appName), nil
		}
		userProfile := os.Getenv("USERPROFILE")
		if userProfile == "" {
			return "", fmt.Errorf("cannot determine user profile directory (LOCALAPPDATA and USERPROFILE not set)")
		}
		return filepath.Join(userProfile, "AppData", "Local", appName), nil
	}

	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return filepath.Join(xdgConfigHome, appName), nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", appName), nil
}

// GetConfigPath returns the full path to the default configuration file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, configFile), nil
}

// Load reads the config at path, or the default path if path is empty.
// A missing default file is not an error; a missing explicit file is.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		var err error
		path, err = GetConfigPath()
		if err != nil {
			return nil, fmt.Errorf("failed to get config path: %w", err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes YAML config data on top of the defaults and validates it
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that would make the CLI misbehave
func (c *Config) Validate() error {
	if c.Port != "" && c.URL != "" {
		return fmt.Errorf("config: port and url are mutually exclusive")
	}
	if c.Baud <= 0 {
		return fmt.Errorf("config: invalid baud rate %d", c.Baud)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("config: poll_interval must be positive, got %s", c.PollInterval)
	}
	if c.StatusRetries < 0 {
		return fmt.Errorf("config: status_retries must not be negative, got %d", c.StatusRetries)
	}
	if c.RetryDelay < 0 {
		return fmt.Errorf("config: retry_delay must not be negative, got %s", c.RetryDelay)
	}
	return nil
}

// Marshal renders the config as commented YAML
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	header := []byte("# archerlink configuration\n# Passwords are never stored here; use ARCHERLINK_PASSWORD.\n\n")
	return append(header, data...), nil
}

// Save writes the config to path atomically with user-only permissions.
// An empty path means the default location.
func (c *Config) Save(path string) error {
	if path == "" {
		var err error
		path, err = GetConfigPath()
		if err != nil {
			return fmt.Errorf("failed to get config path: %w", err)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := c.Marshal()
	if err != nil {
		return err
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write temporary config file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to save config file: %w", err)
	}
	return nil
}
