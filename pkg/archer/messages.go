// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package archer

import "fmt"

// Wire schema.
//
// Every message is a CBOR map with small integer keys:
//
//	ClientPayload  { 1: Command }
//	Command        { 1: GetHostDevStatus | 2: TriggerCmd | 3: SetZoomLevel |
//	                 4: SetAgcMode | 5: SetColorScheme }   (exactly one)
//	HostPayload    { 1: HostDevStatus, 2: CommandResponse }
//
// Unknown keys are ignored on decode so newer firmware stays readable.

// ClientPayload is the outbound envelope (controller -> device)
type ClientPayload struct {
	Command *Command `cbor:"1,keyasint,omitempty"`
}

// Command is a tagged union; exactly one field is set.
// Use the New*Command constructors to build one.
type Command struct {
	GetHostDevStatus *GetHostDevStatus `cbor:"1,keyasint,omitempty"`
	Trigger          *TriggerCmd       `cbor:"2,keyasint,omitempty"`
	SetZoom          *SetZoomLevel     `cbor:"3,keyasint,omitempty"`
	SetAGC           *SetAgcMode       `cbor:"4,keyasint,omitempty"`
	SetColorScheme   *SetColorScheme   `cbor:"5,keyasint,omitempty"`
}

// GetHostDevStatus requests a HostDevStatus report
type GetHostDevStatus struct{}

// TriggerCmd issues a direct hardware command
type TriggerCmd struct {
	Cmd TriggerCommand `cbor:"1,keyasint"`
}

// SetZoomLevel sets the digital zoom
type SetZoomLevel struct {
	ZoomLevel Zoom `cbor:"1,keyasint"`
}

// SetAgcMode sets the automatic gain control mode
type SetAgcMode struct {
	Mode AGCMode `cbor:"1,keyasint"`
}

// SetColorScheme sets the thermal color palette
type SetColorScheme struct {
	Scheme ColorScheme `cbor:"1,keyasint"`
}

// HostPayload is the inbound envelope (device -> controller)
type HostPayload struct {
	DevStatus *HostDevStatus   `cbor:"1,keyasint,omitempty"`
	Response  *CommandResponse `cbor:"2,keyasint,omitempty"`
}

// HostDevStatus is a device telemetry snapshot.
// Temperatures are in tenths of a degree Celsius.
type HostDevStatus struct {
	Charge      int32       `cbor:"1,keyasint"` // battery, percent
	ObjectTemp  int32       `cbor:"2,keyasint"`
	DeviceTemp  int32       `cbor:"3,keyasint"`
	Zoom        Zoom        `cbor:"4,keyasint"`
	MaxZoom     Zoom        `cbor:"5,keyasint"`
	AGCMode     AGCMode     `cbor:"6,keyasint"`
	ColorScheme ColorScheme `cbor:"7,keyasint"`
	MaxDistance int32       `cbor:"8,keyasint"` // rangefinder, meters
}

// CommandResponse acknowledges the last command
type CommandResponse struct {
	Status  ResponseStatus `cbor:"1,keyasint"`
	Message string         `cbor:"2,keyasint,omitempty"`
}

// CommandKind identifies which variant of Command is set
type CommandKind int

// Command kinds
const (
	KindNone CommandKind = iota
	KindStatusQuery
	KindTrigger
	KindSetZoom
	KindSetAGC
	KindSetColorScheme
)

// String returns the command kind name
func (k CommandKind) String() string {
	switch k {
	case KindStatusQuery:
		return "GET_HOST_DEV_STATUS"
	case KindTrigger:
		return "TRIGGER_CMD"
	case KindSetZoom:
		return "SET_ZOOM"
	case KindSetAGC:
		return "SET_AGC"
	case KindSetColorScheme:
		return "SET_COLOR_SCHEME"
	default:
		return "NONE"
	}
}

// Kind returns the variant that is set, or KindNone if zero or more than
// one variant is set.
func (c *Command) Kind() CommandKind {
	if c == nil {
		return KindNone
	}
	kind := KindNone
	set := 0
	if c.GetHostDevStatus != nil {
		kind, set = KindStatusQuery, set+1
	}
	if c.Trigger != nil {
		kind, set = KindTrigger, set+1
	}
	if c.SetZoom != nil {
		kind, set = KindSetZoom, set+1
	}
	if c.SetAGC != nil {
		kind, set = KindSetAGC, set+1
	}
	if c.SetColorScheme != nil {
		kind, set = KindSetColorScheme, set+1
	}
	if set != 1 {
		return KindNone
	}
	return kind
}

// Validate checks that exactly one variant is set and that its value is a
// member of the setting's domain.
func (c *Command) Validate() error {
	switch c.Kind() {
	case KindStatusQuery:
		return nil
	case KindTrigger:
		if !TriggerDomain.Contains(c.Trigger.Cmd) {
			return fmt.Errorf("invalid trigger command: %d", c.Trigger.Cmd)
		}
	case KindSetZoom:
		if !ZoomDomain.Contains(c.SetZoom.ZoomLevel) {
			return fmt.Errorf("invalid zoom level: %d", c.SetZoom.ZoomLevel)
		}
	case KindSetAGC:
		if !AGCModeDomain.Contains(c.SetAGC.Mode) {
			return fmt.Errorf("invalid agc mode: %d", c.SetAGC.Mode)
		}
	case KindSetColorScheme:
		if !ColorSchemeDomain.Contains(c.SetColorScheme.Scheme) {
			return fmt.Errorf("invalid color scheme: %d", c.SetColorScheme.Scheme)
		}
	default:
		return fmt.Errorf("command must set exactly one variant")
	}
	return nil
}

// Validate checks that the payload carries a valid command
func (p *ClientPayload) Validate() error {
	if p == nil || p.Command == nil {
		return fmt.Errorf("client payload has no command")
	}
	return p.Command.Validate()
}

// Validate checks that the payload carries a status or a response
func (p *HostPayload) Validate() error {
	if p == nil || (p.DevStatus == nil && p.Response == nil) {
		return fmt.Errorf("host payload has neither status nor response")
	}
	return nil
}
