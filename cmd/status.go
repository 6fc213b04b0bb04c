// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Thermoquad/archerlink/pkg/archer"
)

var statusTimeout int

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Query the device status once and print it",
	Long: `Send a status query and print the decoded status report.

The query is retried on unparseable replies according to status_retries and
retry_delay in the config file.

Exit codes:
  0 - Status received
  1 - No valid status before timeout
  2 - Connection error`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().IntVar(&statusTimeout, "timeout", 5, "Timeout in seconds")
}

// openDevice opens the configured link or exits with code 2
func openDevice(ctx context.Context) (*Device, string) {
	link, connInfo, err := OpenLink(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Connection error: %v\n", err)
		os.Exit(2)
	}
	return NewDevice(link), connInfo
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), time.Duration(statusTimeout)*time.Second)
	defer cancel()

	dev, connInfo := openDevice(ctx)
	defer dev.Close()

	fmt.Printf("Connection: %s\n", connInfo)

	status, err := dev.Status(ctx)
	if err != nil {
		return err
	}

	fmt.Print(archer.FormatDevStatus(status))
	for _, v := range archer.ValidateStatus(status) {
		fmt.Printf("  \033[1;33mWARNING:\033[0m %s\n", v.Message)
	}
	return nil
}
