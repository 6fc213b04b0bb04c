// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package archer

import "fmt"

// AnomalyType represents different types of status anomalies
type AnomalyType int

const (
	AnomalyInvalidValue AnomalyType = iota
	AnomalyZoomAboveMax
	AnomalyInvalidTemp
	AnomalyInvalidCharge
)

// Plausible temperature range, tenths of a degree Celsius
const (
	minTemperature = -500
	maxTemperature = 1500
)

// ValidationError represents a status validation failure
type ValidationError struct {
	Type    AnomalyType
	Message string
	Details map[string]interface{}
}

// Error implements the error interface
func (v *ValidationError) Error() string {
	return v.Message
}

// ValidateStatus checks a status report for values the device should never
// report. Returns an empty slice if the status is plausible.
func ValidateStatus(s *HostDevStatus) []ValidationError {
	errors := []ValidationError{}
	if s == nil {
		return errors
	}

	if !ZoomDomain.Contains(s.Zoom) {
		errors = append(errors, ValidationError{
			Type:    AnomalyInvalidValue,
			Message: fmt.Sprintf("Invalid zoom=%d", s.Zoom),
			Details: map[string]interface{}{"zoom": s.Zoom},
		})
	}

	if s.MaxZoom != ZoomUnknown && !ZoomDomain.Contains(s.MaxZoom) {
		errors = append(errors, ValidationError{
			Type:    AnomalyInvalidValue,
			Message: fmt.Sprintf("Invalid max_zoom=%d", s.MaxZoom),
			Details: map[string]interface{}{"max_zoom": s.MaxZoom},
		})
	}

	if s.MaxZoom > ZoomUnknown && s.Zoom > s.MaxZoom {
		errors = append(errors, ValidationError{
			Type:    AnomalyZoomAboveMax,
			Message: fmt.Sprintf("Zoom above max (%s > %s)", s.Zoom, s.MaxZoom),
			Details: map[string]interface{}{"zoom": s.Zoom, "max_zoom": s.MaxZoom},
		})
	}

	if !AGCModeDomain.Contains(s.AGCMode) {
		errors = append(errors, ValidationError{
			Type:    AnomalyInvalidValue,
			Message: fmt.Sprintf("Invalid agc_mode=%d", s.AGCMode),
			Details: map[string]interface{}{"agc_mode": s.AGCMode},
		})
	}

	if !ColorSchemeDomain.Contains(s.ColorScheme) {
		errors = append(errors, ValidationError{
			Type:    AnomalyInvalidValue,
			Message: fmt.Sprintf("Invalid color_scheme=%d", s.ColorScheme),
			Details: map[string]interface{}{"color_scheme": s.ColorScheme},
		})
	}

	if s.Charge < 0 || s.Charge > 100 {
		errors = append(errors, ValidationError{
			Type:    AnomalyInvalidCharge,
			Message: fmt.Sprintf("Charge out of range (%d%%, valid: 0-100)", s.Charge),
			Details: map[string]interface{}{"charge": s.Charge, "min": 0, "max": 100},
		})
	}

	temps := []struct {
		name  string
		value int32
	}{
		{"object_temp", s.ObjectTemp},
		{"device_temp", s.DeviceTemp},
	}
	for _, t := range temps {
		name, temp := t.name, t.value
		if temp < minTemperature || temp > maxTemperature {
			errors = append(errors, ValidationError{
				Type:    AnomalyInvalidTemp,
				Message: fmt.Sprintf("Temperature %s out of range (%s, valid: -50 to 150°C)", name, formatTemperature(temp)),
				Details: map[string]interface{}{name: temp, "min": minTemperature, "max": maxTemperature},
			})
		}
	}

	return errors
}
