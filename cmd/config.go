// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Thermoquad/archerlink/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or save the effective settings",
	Long: `Inspect and persist archerlink settings.

The effective settings are the config file with any flags given on the
command line applied on top. Passwords are never written.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective settings as YAML",
	RunE:  runConfigShow,
}

var configSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Write the effective settings to the config file",
	Long: `Write the effective settings to --config, or to the default config file.

Example:
  archerlink --url ws://archer.local/ws --username admin config save`,
	RunE: runConfigSave,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSaveCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	data, err := settings.Marshal()
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func runConfigSave(cmd *cobra.Command, args []string) error {
	path := configPath
	if path == "" {
		var err error
		path, err = config.GetConfigPath()
		if err != nil {
			return err
		}
	}
	if err := settings.Save(path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved settings to %s\n", path)
	return nil
}
