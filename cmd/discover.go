// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Thermoquad/archerlink/internal/discovery"
)

var discoverTimeout int

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Find Archer devices on the local network",
	Long: `Browse mDNS for _archer._tcp services and print each device with the
WebSocket URL to pass to --url.

Exit codes:
  0 - At least one device found
  1 - No devices found before timeout`,
	RunE: runDiscover,
}

func init() {
	rootCmd.AddCommand(discoverCmd)
	discoverCmd.Flags().IntVar(&discoverTimeout, "timeout", 5, "Timeout in seconds for discovery")
}

func runDiscover(cmd *cobra.Command, args []string) error {
	fmt.Printf("archerlink - Device Discovery\n")
	fmt.Printf("Browsing %s for %d seconds...\n\n", discovery.ServiceType, discoverTimeout)

	scanner := discovery.NewScanner()
	scanner.Timeout = time.Duration(discoverTimeout) * time.Second

	devices, err := scanner.Scan(cmd.Context())
	if err != nil {
		return err
	}

	if len(devices) == 0 {
		fmt.Fprintf(os.Stderr, "No devices found\n")
		os.Exit(1)
	}

	for _, d := range devices {
		fmt.Print(formatDiscoveredDevice(d))
	}
	fmt.Printf("Found %d device(s)\n", len(devices))
	return nil
}

func formatDiscoveredDevice(d *discovery.Device) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", d.Instance)
	if d.Hostname != "" {
		fmt.Fprintf(&b, "  Host: %s\n", d.Hostname)
	}
	fmt.Fprintf(&b, "  URL:  %s\n", d.URL())

	keys := make([]string, 0, len(d.Metadata))
	for k := range d.Metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if v := d.Metadata[k]; v != "" {
			fmt.Fprintf(&b, "  %s=%s\n", k, v)
		} else {
			fmt.Fprintf(&b, "  %s\n", k)
		}
	}
	b.WriteString("\n")
	return b.String()
}
