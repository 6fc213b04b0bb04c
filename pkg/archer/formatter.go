// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package archer

import (
	"fmt"
	"strings"
	"time"
)

// FormatHostPayload formats a decoded host payload into a human-readable
// string, prefixed with the receive timestamp
func FormatHostPayload(p *HostPayload, ts time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] HOST_PAYLOAD\n", ts.Format("15:04:05.000"))
	if p == nil {
		b.WriteString("  (empty)\n")
		return b.String()
	}
	if p.DevStatus != nil {
		b.WriteString(FormatDevStatus(p.DevStatus))
	}
	if p.Response != nil {
		b.WriteString(FormatResponse(p.Response))
	}
	return b.String()
}

// FormatDevStatus formats a status report, one field group per line
func FormatDevStatus(s *HostDevStatus) string {
	if s == nil {
		return "  Status: (none)\n"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "  Charge: %d%%\n", s.Charge)
	fmt.Fprintf(&b, "  Temperature: object %s, device %s\n",
		formatTemperature(s.ObjectTemp), formatTemperature(s.DeviceTemp))
	fmt.Fprintf(&b, "  Zoom: %s (%d), Max: %s (%d)\n", s.Zoom, s.Zoom, s.MaxZoom, s.MaxZoom)
	fmt.Fprintf(&b, "  AGC: %s (%d)\n", s.AGCMode, s.AGCMode)
	fmt.Fprintf(&b, "  Palette: %s (%d)\n", s.ColorScheme, s.ColorScheme)
	if s.MaxDistance > 0 {
		fmt.Fprintf(&b, "  Max Distance: %d m\n", s.MaxDistance)
	}
	return b.String()
}

// FormatResponse formats a command acknowledgement
func FormatResponse(r *CommandResponse) string {
	if r.Message != "" {
		return fmt.Sprintf("  Response: %s (%s)\n", r.Status, r.Message)
	}
	return fmt.Sprintf("  Response: %s\n", r.Status)
}

// FormatCommand returns a one-line description of a command
func FormatCommand(c *Command) string {
	switch c.Kind() {
	case KindStatusQuery:
		return "GET_HOST_DEV_STATUS"
	case KindTrigger:
		return fmt.Sprintf("TRIGGER_CMD %s", c.Trigger.Cmd)
	case KindSetZoom:
		return fmt.Sprintf("SET_ZOOM %s (%d)", c.SetZoom.ZoomLevel, c.SetZoom.ZoomLevel)
	case KindSetAGC:
		return fmt.Sprintf("SET_AGC %s (%d)", c.SetAGC.Mode, c.SetAGC.Mode)
	case KindSetColorScheme:
		return fmt.Sprintf("SET_COLOR_SCHEME %s (%d)", c.SetColorScheme.Scheme, c.SetColorScheme.Scheme)
	default:
		return "INVALID_COMMAND"
	}
}

// FormatHex formats bytes as a hex dump, 16 bytes per line
func FormatHex(data []byte) string {
	var b strings.Builder
	b.WriteString("  Payload: ")
	for i, v := range data {
		if i > 0 && i%16 == 0 {
			b.WriteString("\n           ")
		}
		fmt.Fprintf(&b, "%02X ", v)
	}
	b.WriteString("\n")
	return b.String()
}

// formatTemperature formats tenths of a degree Celsius
func formatTemperature(tenths int32) string {
	return fmt.Sprintf("%.1f°C", float64(tenths)/10.0)
}
