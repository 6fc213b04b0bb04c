// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Thermoquad/archerlink/internal/logging"
	"github.com/Thermoquad/archerlink/pkg/archer"
)

// errNoStatus is returned when the device answers a status query with a
// payload that carries only a command response
var errNoStatus = errors.New("payload carries no status")

// Device issues commands over a Link. A status read that fails to parse is
// retried up to Retries more times, waiting RetryDelay between attempts.
// Exchanges are serialized so the TUI can poll while sending commands.
type Device struct {
	link       Link
	Retries    int
	RetryDelay time.Duration

	mu sync.Mutex
}

// NewDevice creates a device client using the retry policy from settings
func NewDevice(link Link) *Device {
	return &Device{
		link:       link,
		Retries:    settings.StatusRetries,
		RetryDelay: settings.RetryDelay,
	}
}

// Close closes the underlying link
func (d *Device) Close() error {
	return d.link.Close()
}

// Status queries the device and returns its status report
func (d *Device) Status(ctx context.Context) (*archer.HostDevStatus, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.status(ctx)
}

func (d *Device) status(ctx context.Context) (*archer.HostDevStatus, error) {
	query, err := archer.BuildStatusQuery()
	if err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 0; attempt <= d.Retries; attempt++ {
		if attempt > 0 {
			logging.Debug("Retrying status query",
				zap.Int("attempt", attempt),
				zap.Error(lastErr),
			)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(d.RetryDelay):
			}
		}

		if err := d.link.Send(ctx, query); err != nil {
			return nil, err
		}

		payload, err := archer.ParseStatusFrom(ctx, d.link)
		switch {
		case err == nil && payload.DevStatus != nil:
			logging.LogStatus(payload.DevStatus)
			return payload.DevStatus, nil
		case err == nil:
			lastErr = errNoStatus
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return nil, err
		case errors.Is(err, ErrConnectionClosed):
			return nil, err
		default:
			lastErr = err
		}
	}

	return nil, fmt.Errorf("status unavailable after %d attempts: %w", d.Retries+1, lastErr)
}

// Send encodes and sends a built command payload. The returned command is
// the decoded payload, for display.
func (d *Device) Send(ctx context.Context, payload []byte) (*archer.Command, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.send(ctx, payload)
}

func (d *Device) send(ctx context.Context, payload []byte) (*archer.Command, error) {
	decoded, err := archer.DecodeClientPayload(payload)
	if err != nil {
		return nil, err
	}
	if err := d.link.Send(ctx, payload); err != nil {
		return nil, err
	}
	logging.LogCommand(decoded.Command, payload)
	return decoded.Command, nil
}

// cycle reads the current status, builds the next command from it and sends it
func (d *Device) cycle(ctx context.Context, build func(*archer.HostDevStatus) ([]byte, error)) (*archer.Command, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	status, err := d.status(ctx)
	if err != nil {
		return nil, err
	}
	payload, err := build(status)
	if err != nil {
		return nil, err
	}
	return d.send(ctx, payload)
}

// CycleZoom steps the zoom to the next level, bounded by the device's max zoom
func (d *Device) CycleZoom(ctx context.Context) (*archer.Command, error) {
	return d.cycle(ctx, func(s *archer.HostDevStatus) ([]byte, error) {
		return archer.BuildSetZoom(s.Zoom, s.MaxZoom)
	})
}

// CycleAGC steps the AGC mode to the next mode
func (d *Device) CycleAGC(ctx context.Context) (*archer.Command, error) {
	return d.cycle(ctx, func(s *archer.HostDevStatus) ([]byte, error) {
		return archer.BuildSetAGCMode(s.AGCMode)
	})
}

// CycleColorScheme steps the palette to the next scheme
func (d *Device) CycleColorScheme(ctx context.Context) (*archer.Command, error) {
	return d.cycle(ctx, func(s *archer.HostDevStatus) ([]byte, error) {
		return archer.BuildSetColorScheme(s.ColorScheme)
	})
}

// TriggerFFC requests a flat-field calibration
func (d *Device) TriggerFFC(ctx context.Context) (*archer.Command, error) {
	payload, err := archer.BuildTriggerFFC()
	if err != nil {
		return nil, err
	}
	return d.Send(ctx, payload)
}
