// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Thermoquad/archerlink/internal/config"
	"github.com/Thermoquad/archerlink/internal/logging"
)

var controlCmd = &cobra.Command{
	Use:   "control",
	Short: "Interactive TUI for controlling an Archer device",
	Long: `Control an Archer device via an interactive terminal UI.

Features:
  - Live status display, polled every poll_interval
  - Single keys to step zoom, AGC and palette, or trigger a calibration
  - Statistics tracking and anomaly detection
  - Event logging
  - Automatic reconnection on connection loss

Press ? for the key bindings.

Supports both serial and WebSocket connections.`,
	RunE: runControl,
}

func init() {
	rootCmd.AddCommand(controlCmd)
}

// connectionManager owns the device link and replaces it after a loss
type connectionManager struct {
	dev      *Device
	connInfo string
	mu       sync.RWMutex
	p        *tea.Program
	ctx      context.Context
	cancel   context.CancelFunc
	open     func(context.Context) (Link, string, error)
}

func (cm *connectionManager) getDevice() *Device {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.dev
}

func (cm *connectionManager) setDevice(dev *Device, connInfo string) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.dev = dev
	cm.connInfo = connInfo
}

func runControl(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	password, err := linkPassword()
	if err != nil {
		return err
	}
	open := func(ctx context.Context) (Link, string, error) {
		return openLink(ctx, password)
	}

	link, connInfo, err := open(ctx)
	if err != nil {
		return err
	}

	// stderr belongs to the TUI from here on
	if err := logging.RedirectToFile(controlLogPath()); err != nil {
		link.Close()
		return fmt.Errorf("logging: %w", err)
	}

	cm := &connectionManager{
		dev:      NewDevice(link),
		connInfo: connInfo,
		ctx:      ctx,
		cancel:   cancel,
		open:     open,
	}

	m := initialControlModel(cm, connInfo)
	p := tea.NewProgram(m, tea.WithAltScreen())
	cm.p = p

	go cm.pollLoop()

	_, runErr := p.Run()
	cancel()
	cm.getDevice().Close()
	if runErr != nil {
		return fmt.Errorf("TUI error: %w", runErr)
	}
	return nil
}

// controlLogPath is where logs go while the TUI runs
func controlLogPath() string {
	dir, err := config.GetConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "control.log")
}

// pollLoop reads the status every poll interval and forwards it to the TUI.
// A closed link triggers reconnection.
func (cm *connectionManager) pollLoop() {
	ticker := time.NewTicker(settings.PollInterval)
	defer ticker.Stop()

	for {
		msg := cm.poll()
		cm.p.Send(msg)

		if errors.Is(msg.err, ErrConnectionClosed) {
			cm.p.Send(connectionLostMsg{})
			if !cm.reconnect() {
				return
			}
			continue
		}

		select {
		case <-cm.ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (cm *connectionManager) poll() statusMsg {
	ctx, cancel := context.WithTimeout(cm.ctx, settings.PollInterval*2)
	defer cancel()

	status, err := cm.getDevice().Status(ctx)
	return statusMsg{status: status, err: err, at: time.Now()}
}

// reconnect attempts to reconnect with exponential backoff.
// Returns false if shutdown was requested during reconnection.
func (cm *connectionManager) reconnect() bool {
	cm.getDevice().Close()

	backoff := 1 * time.Second
	maxBackoff := 30 * time.Second

	for {
		select {
		case <-cm.ctx.Done():
			return false
		case <-time.After(backoff):
		}

		link, connInfo, err := cm.open(cm.ctx)
		if err == nil {
			cm.setDevice(NewDevice(link), connInfo)
			cm.p.Send(reconnectedMsg{connInfo: connInfo})
			return true
		}
		logging.Warn("Reconnect failed", zap.Error(err), zap.Duration("backoff", backoff))

		backoff *= 2
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}
}

// runAction executes a device action off the UI goroutine
func (cm *connectionManager) runAction(name string, action deviceAction) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(cm.ctx, settings.PollInterval*2+time.Second)
		defer cancel()

		sent, err := action(cm.getDevice(), ctx)
		return commandResultMsg{name: name, sent: sent, err: err}
	}
}
