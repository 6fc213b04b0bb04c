// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package archer

import "errors"

// Codec errors
var (
	// ErrSchema matches any *SchemaError
	ErrSchema = errors.New("schema error")

	// ErrParse matches any *ParseError
	ErrParse = errors.New("parse error")

	// ErrCRCMismatch is returned by the frame decoder on checksum failure
	ErrCRCMismatch = errors.New("CRC mismatch")
)

// SchemaError is returned when a message cannot be encoded
type SchemaError struct {
	Message string // message type, e.g. "ClientPayload"
	Err     error
}

// Error implements the error interface
func (e *SchemaError) Error() string {
	return "encode " + e.Message + ": " + e.Err.Error()
}

// Unwrap returns the underlying error
func (e *SchemaError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrSchema) match
func (e *SchemaError) Is(target error) bool {
	return target == ErrSchema
}

// ParseError is returned when inbound bytes cannot be decoded into a
// status report. Callers should treat it as "status unavailable" and may
// query again.
type ParseError struct {
	Length int // number of input bytes
	Err    error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	return "parse status: " + e.Err.Error()
}

// Unwrap returns the underlying error
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrParse) match
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}
