// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/Thermoquad/archerlink/pkg/archer"
)

var (
	showAll       bool
	statsInterval int
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Poll the device status and report anomalies",
	Long: `Poll the device status at poll_interval and track errors with statistics.

Each status report is validated and the monitor detects:
  - Parse failures and CRC errors (serial)
  - Zoom above the device's maximum zoom
  - Enum values outside their known domains
  - Implausible charge and temperature values

By default, only problems are displayed. Use --show-all to print every status.
A statistics summary is printed every --stats-interval seconds and on exit.`,
	RunE: runMonitor,
}

func init() {
	rootCmd.AddCommand(monitorCmd)
	monitorCmd.Flags().BoolVar(&showAll, "show-all", false, "Show all status reports (not just errors)")
	monitorCmd.Flags().IntVar(&statsInterval, "stats-interval", 10, "Statistics update interval (seconds)")
}

func runMonitor(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	dev, connInfo := openDevice(ctx)
	defer dev.Close()

	fmt.Printf("archerlink - Monitor\n")
	fmt.Printf("Connection: %s\n", connInfo)
	fmt.Printf("Poll interval: %s\n", settings.PollInterval)
	if showAll {
		fmt.Printf("Mode: All reports\n")
	} else {
		fmt.Printf("Mode: Errors only\n")
	}
	fmt.Printf("Press Ctrl+C to exit\n\n")

	stats := archer.NewStatistics()
	defer func() {
		fmt.Println()
		fmt.Print(stats.String())
	}()

	pollTicker := time.NewTicker(settings.PollInterval)
	defer pollTicker.Stop()
	statsTicker := time.NewTicker(time.Duration(statsInterval) * time.Second)
	defer statsTicker.Stop()

	for {
		pollOnce(ctx, dev, stats)

		select {
		case <-ctx.Done():
			return nil
		case <-statsTicker.C:
			fmt.Println()
			fmt.Print(stats.String())
			fmt.Println()
			select {
			case <-ctx.Done():
				return nil
			case <-pollTicker.C:
			}
		case <-pollTicker.C:
		}
	}
}

// pollOnce reads one status, updates stats and prints what the mode asks for
func pollOnce(ctx context.Context, dev *Device, stats *archer.Statistics) {
	pollCtx, cancel := context.WithTimeout(ctx, settings.PollInterval*2)
	defer cancel()

	status, err := dev.Status(pollCtx)
	if ctx.Err() != nil {
		return
	}
	if err != nil {
		stats.Update(err, nil)
		printReadError(err)
		return
	}

	validationErrors := archer.ValidateStatus(status)
	stats.Update(nil, validationErrors)

	switch {
	case len(validationErrors) > 0:
		printValidationErrors(status, validationErrors)
	case showAll:
		fmt.Print(archer.FormatHostPayload(&archer.HostPayload{DevStatus: status}, time.Now()))
	}
}

// printReadError prints a failed status read in highlighted format
func printReadError(err error) {
	timestamp := time.Now().Format("15:04:05.000")
	fmt.Printf("[%s] \033[1;31mREAD ERROR:\033[0m %v\n", timestamp, err)
	fmt.Printf("  >>> STATUS UNAVAILABLE <<<\n\n")
}

// printValidationErrors prints the anomalies found in a status report
func printValidationErrors(status *archer.HostDevStatus, errors []archer.ValidationError) {
	timestamp := time.Now().Format("15:04:05.000")
	fmt.Printf("[%s] \033[1;33mVALIDATION ERROR:\033[0m HOST_DEV_STATUS\n", timestamp)

	for i, err := range errors {
		switch err.Type {
		case archer.AnomalyInvalidValue, archer.AnomalyZoomAboveMax:
			fmt.Printf("  Issue %d: \033[1;31m%s\033[0m\n", i+1, err.Message)
		default:
			fmt.Printf("  Issue %d: \033[1;33m%s\033[0m\n", i+1, err.Message)
		}
	}

	fmt.Print(archer.FormatDevStatus(status))
	fmt.Printf("  >>> REPORT REJECTED <<<\n\n")
}
