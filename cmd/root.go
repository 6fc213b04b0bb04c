// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/Thermoquad/archerlink/internal/config"
	"github.com/Thermoquad/archerlink/internal/logging"
)

var (
	// settings is the effective configuration: the config file with any
	// explicitly set flags applied on top
	settings = config.Default()

	configPath string

	// Flag targets; copied into settings only when set on the command line
	portName      string
	baudRate      int
	wsURL         string
	wsUsername    string
	wsNoSSLVerify bool
	logLevel      string
)

var rootCmd = &cobra.Command{
	Use:   "archerlink",
	Short: "Archer thermal imaging device control",
	Long: `archerlink - A CLI tool for querying and controlling Archer thermal imaging devices.

Reads the device status and steps its zoom, AGC and palette settings to the
next supported value. Commands are encoded as CBOR payloads.

Connection modes:
  Serial:    --port /dev/ttyUSB0 [--baud 115200]
  WebSocket: --url ws://host/path [--username user]

Settings may also be read from $XDG_CONFIG_HOME/archerlink/config.yaml (or
--config). Flags given on the command line override the file.

For WebSocket authentication, the password is read from the ARCHERLINK_PASSWORD
environment variable, or prompted interactively if not set. The --password
flag is intentionally not provided to avoid leaking credentials in shell history.`,
	Version:           "1.0.0",
	SilenceUsage:      true,
	PersistentPreRunE: loadSettings,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
}

func init() {
	flags := rootCmd.PersistentFlags()

	flags.StringVarP(&configPath, "config", "c", "", "Config file (default $XDG_CONFIG_HOME/archerlink/config.yaml)")
	flags.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (default silent)")

	// Serial connection flags
	flags.StringVarP(&portName, "port", "p", "", "Serial port device")
	flags.IntVarP(&baudRate, "baud", "b", config.DefaultBaud, "Baud rate (serial only)")

	// WebSocket connection flags
	flags.StringVarP(&wsURL, "url", "u", "", "WebSocket URL (ws:// or wss://)")
	flags.StringVar(&wsUsername, "username", "", "Username for HTTP Basic auth")
	flags.BoolVar(&wsNoSSLVerify, "no-ssl-verify", false, "Skip TLS certificate verification (wss:// only)")
}

// loadSettings reads the config file, applies explicit flags and starts logging
func loadSettings(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	applyFlags(cfg, cmd.Flags())
	if err := cfg.Validate(); err != nil {
		return err
	}
	settings = cfg

	if err := logging.Initialize(settings.LogLevel); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	return nil
}

// applyFlags copies flags the user actually set over the file values.
// A connection flag of one kind clears the other so --port overrides a
// url from the config file and vice versa.
func applyFlags(cfg *config.Config, flags *pflag.FlagSet) {
	if flags.Changed("port") {
		cfg.Port = portName
		cfg.URL = ""
	}
	if flags.Changed("baud") {
		cfg.Baud = baudRate
	}
	if flags.Changed("url") {
		cfg.URL = wsURL
		if !flags.Changed("port") {
			cfg.Port = ""
		}
	}
	if flags.Changed("username") {
		cfg.Username = wsUsername
	}
	if flags.Changed("no-ssl-verify") {
		cfg.NoSSLVerify = wsNoSSLVerify
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}
