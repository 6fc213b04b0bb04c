// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package archer

import (
	"context"
	"fmt"
	"io"
)

// ByteSource yields one complete inbound message as raw bytes.
// Implementations may block until the bytes are available.
type ByteSource interface {
	ReadPayload(ctx context.Context) ([]byte, error)
}

// Bytes is a ByteSource over an in-memory message
type Bytes []byte

// ReadPayload returns the bytes unchanged
func (b Bytes) ReadPayload(ctx context.Context) ([]byte, error) {
	return b, nil
}

// ReaderSource adapts an io.Reader holding exactly one message
// (e.g. an HTTP body or a WebSocket message reader).
type ReaderSource struct {
	R io.Reader
}

// ReadPayload reads r to EOF, limited to MaxPayloadSize+1 bytes
func (s ReaderSource) ReadPayload(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(io.LimitReader(s.R, MaxPayloadSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > MaxPayloadSize {
		return nil, &ParseError{Length: len(data), Err: fmt.Errorf("payload exceeds %d bytes", MaxPayloadSize)}
	}
	return data, nil
}

// ParseStatus decodes a HostPayload.
// Malformed or schema-incompatible input returns a *ParseError; it never
// panics.
func ParseStatus(data []byte) (payload *HostPayload, err error) {
	defer func() {
		if r := recover(); r != nil {
			payload = nil
			err = &ParseError{Length: len(data), Err: fmt.Errorf("decoder panic: %v", r)}
		}
	}()

	payload, err = DecodeHostPayload(data)
	if err != nil {
		return nil, &ParseError{Length: len(data), Err: err}
	}
	return payload, nil
}

// ParseStatusFrom reads one message from src and decodes it.
// Errors from src are wrapped but keep their identity, so a timeout or a
// closed link is not reported as a *ParseError.
func ParseStatusFrom(ctx context.Context, src ByteSource) (*HostPayload, error) {
	data, err := src.ReadPayload(ctx)
	if err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}
	return ParseStatus(data)
}
