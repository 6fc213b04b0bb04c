// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package archer

// Command constructors return complete Command values. Build* functions
// compute the target setting, construct the command and encode it once in
// a ClientPayload, returning bytes ready for the transport.

// NewStatusQueryCommand creates a GET_HOST_DEV_STATUS command
func NewStatusQueryCommand() *Command {
	return &Command{GetHostDevStatus: &GetHostDevStatus{}}
}

// NewTriggerCommand creates a TRIGGER_CMD command
func NewTriggerCommand(cmd TriggerCommand) *Command {
	return &Command{Trigger: &TriggerCmd{Cmd: cmd}}
}

// NewSetZoomCommand creates a SET_ZOOM command for the given level
func NewSetZoomCommand(level Zoom) *Command {
	return &Command{SetZoom: &SetZoomLevel{ZoomLevel: level}}
}

// NewSetAGCCommand creates a SET_AGC command for the given mode
func NewSetAGCCommand(mode AGCMode) *Command {
	return &Command{SetAGC: &SetAgcMode{Mode: mode}}
}

// NewSetColorSchemeCommand creates a SET_COLOR_SCHEME command
func NewSetColorSchemeCommand(scheme ColorScheme) *Command {
	return &Command{SetColorScheme: &SetColorScheme{Scheme: scheme}}
}

// EncodeCommand wraps cmd in a ClientPayload and encodes it
func EncodeCommand(cmd *Command) ([]byte, error) {
	return EncodeClientPayload(&ClientPayload{Command: cmd})
}

// BuildStatusQuery encodes a status request.
// The output is identical on every call.
func BuildStatusQuery() ([]byte, error) {
	return EncodeCommand(NewStatusQueryCommand())
}

// BuildTrigger encodes a direct hardware command.
// TriggerUnknown is rejected with a *SchemaError.
func BuildTrigger(cmd TriggerCommand) ([]byte, error) {
	return EncodeCommand(NewTriggerCommand(cmd))
}

// BuildTriggerFFC encodes a flat-field calibration trigger
func BuildTriggerFFC() ([]byte, error) {
	return BuildTrigger(TriggerFFC)
}

// BuildSetZoom encodes a SET_ZOOM command for the zoom level following
// current, limited to levels <= max. Pass ZoomUnknown as max for no limit.
// Selector errors (ErrEmptyDomain, ErrInvalidEnumValue) are returned as is.
func BuildSetZoom(current, max Zoom) ([]byte, error) {
	next, err := NextBounded(ZoomDomain, current, max)
	if err != nil {
		return nil, err
	}
	return EncodeCommand(NewSetZoomCommand(next))
}

// BuildSetAGCMode encodes a SET_AGC command for the mode following current
func BuildSetAGCMode(current AGCMode) ([]byte, error) {
	next, err := Next(AGCModeDomain, current)
	if err != nil {
		return nil, err
	}
	return EncodeCommand(NewSetAGCCommand(next))
}

// BuildSetColorScheme encodes a SET_COLOR_SCHEME command for the scheme
// following current
func BuildSetColorScheme(current ColorScheme) ([]byte, error) {
	next, err := Next(ColorSchemeDomain, current)
	if err != nil {
		return nil, err
	}
	return EncodeCommand(NewSetColorSchemeCommand(next))
}
