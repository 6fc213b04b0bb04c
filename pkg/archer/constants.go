// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package archer implements the command/status codec for Archer thermal
// imaging devices.
//
// Commands are assembled as complete Command values, wrapped in a
// ClientPayload and encoded once with CBOR. Status reports arrive as CBOR
// encoded HostPayload messages and are decoded by ParseStatus. Discrete
// device settings (zoom, AGC mode, color scheme) are advanced with the
// cyclic selector in cycle.go over the ordered domains in domain.go.
//
// A serial framing layer (frame.go, decoder.go) is provided for links that
// carry a byte stream rather than discrete messages.
//
// All functions in this package are stateless and safe for concurrent use.
package archer

// Serial framing bytes
const (
	StartByte = 0x7E
	EndByte   = 0x7F
	EscByte   = 0x7D
	EscXor    = 0x20
)

// Frame size limits
const (
	MaxPayloadSize = 1024
	LengthSize     = 2
	CRCSize        = 2
	MaxFrameSize   = LengthSize + MaxPayloadSize + CRCSize
)

// CRC-16-CCITT configuration
const (
	crcPolynomial = 0x1021
	crcInitial    = 0xFFFF
)

// Decoder states (internal)
const (
	stateIdle = iota
	stateLength1
	stateLength2
	statePayload
	stateCRC1
	stateCRC2
	stateEnd
)

// Zoom represents the digital zoom level of the device
type Zoom int32

// Zoom values
const (
	ZoomUnknown Zoom = 0
	Zoom1x      Zoom = 1
	Zoom2x      Zoom = 2
	Zoom3x      Zoom = 3
	Zoom4x      Zoom = 4
)

// String returns the zoom level name
func (z Zoom) String() string {
	switch z {
	case ZoomUnknown:
		return "UNKNOWN"
	case Zoom1x:
		return "X1"
	case Zoom2x:
		return "X2"
	case Zoom3x:
		return "X3"
	case Zoom4x:
		return "X4"
	default:
		return "INVALID"
	}
}

// AGCMode represents the automatic gain control mode
type AGCMode int32

// AGC mode values
const (
	AGCModeUnknown AGCMode = 0
	AGCMode1       AGCMode = 1
	AGCMode2       AGCMode = 2
	AGCMode3       AGCMode = 3
)

// String returns the AGC mode name
func (a AGCMode) String() string {
	switch a {
	case AGCModeUnknown:
		return "UNKNOWN"
	case AGCMode1:
		return "AUTO_1"
	case AGCMode2:
		return "AUTO_2"
	case AGCMode3:
		return "AUTO_3"
	default:
		return "INVALID"
	}
}

// ColorScheme represents the thermal color palette
type ColorScheme int32

// Color scheme values
const (
	ColorSchemeUnknown ColorScheme = 0
	ColorSchemeSepia   ColorScheme = 1
	ColorSchemeBlack   ColorScheme = 2
	ColorSchemeWhite   ColorScheme = 3
)

// String returns the color scheme name
func (c ColorScheme) String() string {
	switch c {
	case ColorSchemeUnknown:
		return "UNKNOWN"
	case ColorSchemeSepia:
		return "SEPIA"
	case ColorSchemeBlack:
		return "BLACK_HOT"
	case ColorSchemeWhite:
		return "WHITE_HOT"
	default:
		return "INVALID"
	}
}

// TriggerCommand represents a direct (parameterless) hardware command
type TriggerCommand int32

// Trigger command values
const (
	TriggerUnknown            TriggerCommand = 0
	TriggerCalibrateAccelGyro TriggerCommand = 1
	TriggerLRF                TriggerCommand = 2
	TriggerResetCM            TriggerCommand = 3
	TriggerFFC                TriggerCommand = 4
)

// String returns the trigger command name
func (t TriggerCommand) String() string {
	switch t {
	case TriggerUnknown:
		return "UNKNOWN"
	case TriggerCalibrateAccelGyro:
		return "CALIBRATE_ACCEL_GYRO"
	case TriggerLRF:
		return "LRF"
	case TriggerResetCM:
		return "RESET_CM"
	case TriggerFFC:
		return "TRIGGER_FFC"
	default:
		return "INVALID"
	}
}

// ResponseStatus is the device's acknowledgement of the last command
type ResponseStatus int32

// Response status values
const (
	ResponseUnknown ResponseStatus = 0
	ResponseOK      ResponseStatus = 1
	ResponseError   ResponseStatus = 2
)

// String returns the response status name
func (r ResponseStatus) String() string {
	switch r {
	case ResponseOK:
		return "OK"
	case ResponseError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}
