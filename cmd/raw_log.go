// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/Thermoquad/archerlink/internal/logging"
	"github.com/Thermoquad/archerlink/pkg/archer"
)

var rawLogCmd = &cobra.Command{
	Use:   "raw_log",
	Short: "Display every payload the device sends in human-readable format",
	Long: `Continuously decode and display host payloads as they arrive.

Nothing is sent to the device; this only listens. Each payload is printed
with a timestamp and its decoded status or command response. Payloads that
fail to decode are printed as a hex dump.

Supports both serial and WebSocket connections.`,
	RunE: runRawLog,
}

func init() {
	rootCmd.AddCommand(rawLogCmd)
}

func runRawLog(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	link, connInfo, err := OpenLink(ctx)
	if err != nil {
		return err
	}
	defer link.Close()

	fmt.Printf("archerlink - Raw Payload Log\n")
	fmt.Printf("Connection: %s\n", connInfo)
	fmt.Printf("Press Ctrl+C to exit\n\n")

	return rawLog(ctx, link, os.Stdout)
}

// rawLog prints payloads from src until the context ends or the link closes
func rawLog(ctx context.Context, src archer.ByteSource, w io.Writer) error {
	for {
		data, err := src.ReadPayload(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if errors.Is(err, ErrConnectionClosed) {
				logging.Info("Connection closed")
				fmt.Fprintln(w, "Connection closed")
				return nil
			}
			fmt.Fprintf(w, "[ERROR] %v\n", err)
			continue
		}

		payload, err := archer.ParseStatus(data)
		if err != nil {
			fmt.Fprintf(w, "[%s] [ERROR] %v\n", time.Now().Format("15:04:05.000"), err)
			fmt.Fprint(w, archer.FormatHex(data))
			continue
		}
		fmt.Fprint(w, archer.FormatHostPayload(payload, time.Now()))
	}
}
