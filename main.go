// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad
//
// archerlink - Archer thermal imaging device control
//
// A CLI tool for querying Archer device status and stepping its zoom,
// AGC and palette settings over serial or WebSocket.

package main

import (
	"os"

	"github.com/Thermoquad/archerlink/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
