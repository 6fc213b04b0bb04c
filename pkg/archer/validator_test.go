// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package archer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestValidateStatus_Valid(t *testing.T) {
	if errs := ValidateStatus(sampleStatus()); len(errs) != 0 {
		t.Errorf("unexpected validation errors: %v", errs)
	}

	s := sampleStatus()
	s.MaxZoom = ZoomUnknown
	if errs := ValidateStatus(s); len(errs) != 0 {
		t.Errorf("unknown max zoom should be accepted: %v", errs)
	}

	if errs := ValidateStatus(nil); len(errs) != 0 {
		t.Errorf("nil status should produce no errors: %v", errs)
	}
}

func TestValidateStatus_Anomalies(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*HostDevStatus)
		want   []AnomalyType
	}{
		{"unknown zoom", func(s *HostDevStatus) { s.Zoom = ZoomUnknown }, []AnomalyType{AnomalyInvalidValue}},
		{"bad max zoom", func(s *HostDevStatus) { s.MaxZoom = Zoom(9) }, []AnomalyType{AnomalyInvalidValue}},
		{"zoom above max", func(s *HostDevStatus) { s.Zoom, s.MaxZoom = Zoom4x, Zoom2x }, []AnomalyType{AnomalyZoomAboveMax}},
		{"bad agc", func(s *HostDevStatus) { s.AGCMode = AGCMode(7) }, []AnomalyType{AnomalyInvalidValue}},
		{"bad palette", func(s *HostDevStatus) { s.ColorScheme = ColorSchemeUnknown }, []AnomalyType{AnomalyInvalidValue}},
		{"charge over 100", func(s *HostDevStatus) { s.Charge = 101 }, []AnomalyType{AnomalyInvalidCharge}},
		{"negative charge", func(s *HostDevStatus) { s.Charge = -1 }, []AnomalyType{AnomalyInvalidCharge}},
		{"hot object", func(s *HostDevStatus) { s.ObjectTemp = 1501 }, []AnomalyType{AnomalyInvalidTemp}},
		{"both temps cold", func(s *HostDevStatus) { s.ObjectTemp, s.DeviceTemp = -501, -900 }, []AnomalyType{AnomalyInvalidTemp, AnomalyInvalidTemp}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := sampleStatus()
			tt.mutate(s)

			errs := ValidateStatus(s)
			if len(errs) != len(tt.want) {
				t.Fatalf("got %d errors %v, want %d", len(errs), errs, len(tt.want))
			}
			for i, err := range errs {
				if err.Type != tt.want[i] {
					t.Errorf("error %d type = %d, want %d (%s)", i, err.Type, tt.want[i], err.Message)
				}
			}
		})
	}
}

// ============================================================
// Statistics Tests
// ============================================================

// A source that never answers must count as a timeout, not a parse error
func TestStatistics_SilentSourceCountsAsTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := ParseStatusFrom(ctx, silentSource{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want context.DeadlineExceeded", err)
	}

	stats := NewStatistics()
	stats.Update(err, nil)
	if stats.Timeouts != 1 || stats.ParseErrors != 0 {
		t.Errorf("Timeouts=%d ParseErrors=%d, want 1 and 0", stats.Timeouts, stats.ParseErrors)
	}
}

// Every anomaly type ValidateStatus can report has its own counter
func TestStatistics_EveryAnomalyTypeCounted(t *testing.T) {
	for typ := AnomalyInvalidValue; typ <= AnomalyInvalidCharge; typ++ {
		stats := NewStatistics()
		stats.Update(nil, []ValidationError{{Type: typ}})
		counted := stats.InvalidValues + stats.ZoomAboveMax + stats.InvalidTemp + stats.InvalidCharge
		if counted != 1 {
			t.Errorf("anomaly type %d counted %d times, want 1", typ, counted)
		}
	}
}

// silentSource blocks until the context ends
type silentSource struct{}

func (silentSource) ReadPayload(ctx context.Context) ([]byte, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestStatistics_Update(t *testing.T) {
	stats := NewStatistics()

	stats.Update(nil, nil)
	stats.Update(fmt.Errorf("frame: %w", ErrCRCMismatch), nil)
	stats.Update(&ParseError{Length: 3, Err: fmt.Errorf("bad")}, nil)
	stats.Update(fmt.Errorf("read timeout"), nil)
	stats.Update(nil, []ValidationError{{Type: AnomalyZoomAboveMax}, {Type: AnomalyInvalidTemp}})

	if stats.TotalReports != 5 {
		t.Errorf("TotalReports = %d, want 5", stats.TotalReports)
	}
	if stats.ValidReports != 1 {
		t.Errorf("ValidReports = %d, want 1", stats.ValidReports)
	}
	if stats.CRCErrors != 1 || stats.ParseErrors != 1 || stats.Timeouts != 1 {
		t.Errorf("CRC=%d Parse=%d Timeouts=%d, want 1 each", stats.CRCErrors, stats.ParseErrors, stats.Timeouts)
	}
	if stats.AnomalousValues != 1 || stats.ZoomAboveMax != 1 || stats.InvalidTemp != 1 {
		t.Errorf("anomaly counters wrong: %+v", stats)
	}
	if stats.ErrorCount() != 4 {
		t.Errorf("ErrorCount() = %d, want 4", stats.ErrorCount())
	}

	summary := stats.String()
	for _, want := range []string{"Total Reports:", "CRC Errors:", "Zoom Above Max:"} {
		if !strings.Contains(summary, want) {
			t.Errorf("summary missing %q:\n%s", want, summary)
		}
	}

	stats.Reset()
	if stats.TotalReports != 0 || stats.ErrorCount() != 0 {
		t.Errorf("Reset did not clear counters: %+v", stats)
	}
}

// ============================================================
// Formatter Tests
// ============================================================

func TestFormatHostPayload(t *testing.T) {
	ts := time.Date(2025, 1, 2, 13, 4, 5, 6_000_000, time.UTC)
	out := FormatHostPayload(&HostPayload{
		DevStatus: sampleStatus(),
		Response:  &CommandResponse{Status: ResponseOK},
	}, ts)

	for _, want := range []string{
		"[13:04:05.006] HOST_PAYLOAD",
		"Charge: 87%",
		"object 36.5°C, device 41.2°C",
		"Zoom: X2 (2), Max: X4 (4)",
		"Palette: WHITE_HOT (3)",
		"Max Distance: 1500 m",
		"Response: OK",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestFormatCommand(t *testing.T) {
	tests := []struct {
		cmd  *Command
		want string
	}{
		{NewStatusQueryCommand(), "GET_HOST_DEV_STATUS"},
		{NewTriggerCommand(TriggerFFC), "TRIGGER_CMD TRIGGER_FFC"},
		{NewSetZoomCommand(Zoom3x), "SET_ZOOM X3 (3)"},
		{&Command{}, "INVALID_COMMAND"},
	}

	for _, tt := range tests {
		if got := FormatCommand(tt.cmd); got != tt.want {
			t.Errorf("FormatCommand() = %q, want %q", got, tt.want)
		}
	}
}

func TestFormatHex(t *testing.T) {
	got := FormatHex([]byte{0xA1, 0x01})
	if got != "  Payload: A1 01 \n" {
		t.Errorf("FormatHex() = %q", got)
	}
}
