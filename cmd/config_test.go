// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"bytes"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Thermoquad/archerlink/internal/config"
)

// withSettings swaps the global settings and config path for one test
func withSettings(t *testing.T, cfg *config.Config, path string) {
	t.Helper()
	oldSettings, oldPath := settings, configPath
	settings, configPath = cfg, path
	t.Cleanup(func() { settings, configPath = oldSettings, oldPath })
}

func TestConfigSave_PersistsMergedSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "archerlink.yaml")

	cfg := config.Default()
	applyFlags(cfg, parseFlags(t, "--url", "ws://archer.local/ws", "--username", "admin"))
	cfg.StatusRetries = 0
	cfg.RetryDelay = 0
	withSettings(t, cfg, path)

	var out bytes.Buffer
	c := &cobra.Command{}
	c.SetOut(&out)
	require.NoError(t, runConfigSave(c, nil))
	assert.Contains(t, out.String(), path)

	loaded, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "ws://archer.local/ws", loaded.URL)
	assert.Equal(t, "admin", loaded.Username)
	assert.Equal(t, 0, loaded.StatusRetries)
	assert.Equal(t, time.Duration(0), loaded.RetryDelay)
}

func TestConfigShow(t *testing.T) {
	cfg := config.Default()
	cfg.Port = "/dev/ttyUSB0"
	withSettings(t, cfg, "")

	var out bytes.Buffer
	c := &cobra.Command{}
	c.SetOut(&out)
	require.NoError(t, runConfigShow(c, nil))
	assert.Contains(t, out.String(), "port: /dev/ttyUSB0")
	assert.Contains(t, out.String(), "baud: 115200")
}

func TestControlLogPath(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("config dir comes from LOCALAPPDATA on Windows")
	}
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	assert.Equal(t, filepath.Join(dir, "archerlink", "control.log"), controlLogPath())
}
