// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Thermoquad/archerlink/pkg/archer"
)

var commandTimeout int

// deviceAction is one of the Device stepping or trigger methods
type deviceAction func(*Device, context.Context) (*archer.Command, error)

var zoomCmd = &cobra.Command{
	Use:   "zoom",
	Short: "Step the zoom to the next level",
	Long: `Read the current zoom and the device's maximum zoom, then select the next
zoom level, wrapping back to the lowest level after the maximum.`,
	RunE: actionRunner((*Device).CycleZoom),
}

var agcCmd = &cobra.Command{
	Use:   "agc",
	Short: "Step the AGC mode to the next mode",
	RunE:  actionRunner((*Device).CycleAGC),
}

var paletteCmd = &cobra.Command{
	Use:     "palette",
	Aliases: []string{"color"},
	Short:   "Step the color scheme to the next palette",
	RunE:    actionRunner((*Device).CycleColorScheme),
}

var ffcCmd = &cobra.Command{
	Use:   "ffc",
	Short: "Trigger a flat-field calibration",
	RunE:  actionRunner((*Device).TriggerFFC),
}

func init() {
	for _, c := range []*cobra.Command{zoomCmd, agcCmd, paletteCmd, ffcCmd} {
		rootCmd.AddCommand(c)
		c.Flags().IntVar(&commandTimeout, "timeout", 5, "Timeout in seconds")
	}
}

func actionRunner(action deviceAction) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), time.Duration(commandTimeout)*time.Second)
		defer cancel()

		dev, connInfo := openDevice(ctx)
		defer dev.Close()

		fmt.Printf("Connection: %s\n", connInfo)

		sent, err := action(dev, ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Sent %s\n", archer.FormatCommand(sent))
		return nil
	}
}
