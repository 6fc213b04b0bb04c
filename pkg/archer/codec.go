// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package archer

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// encMode produces deterministic output: identical messages always
// encode to identical bytes.
var encMode cbor.EncMode

// decMode tolerates unknown keys and duplicate keys for forward compatibility
var decMode cbor.DecMode

func init() {
	var err error

	encOpts := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
	}
	encMode, err = encOpts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("archer: failed to create CBOR encoder mode: %v", err))
	}

	decOpts := cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyQuiet,
		IndefLength:       cbor.IndefLengthAllowed,
		ExtraReturnErrors: cbor.ExtraDecErrorNone,
		MaxNestedLevels:   16,
	}
	decMode, err = decOpts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("archer: failed to create CBOR decoder mode: %v", err))
	}
}

// EncodeClientPayload validates and encodes an outbound payload.
// Failures are returned as *SchemaError.
func EncodeClientPayload(p *ClientPayload) ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, &SchemaError{Message: "ClientPayload", Err: err}
	}
	data, err := encMode.Marshal(p)
	if err != nil {
		return nil, &SchemaError{Message: "ClientPayload", Err: err}
	}
	return data, nil
}

// DecodeClientPayload decodes an outbound payload (device side, monitors)
func DecodeClientPayload(data []byte) (*ClientPayload, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty client payload")
	}
	var p ClientPayload
	if err := decMode.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to decode CBOR: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// EncodeHostPayload encodes an inbound payload (device side, simulators).
// Failures are returned as *SchemaError.
func EncodeHostPayload(p *HostPayload) ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, &SchemaError{Message: "HostPayload", Err: err}
	}
	data, err := encMode.Marshal(p)
	if err != nil {
		return nil, &SchemaError{Message: "HostPayload", Err: err}
	}
	return data, nil
}

// DecodeHostPayload decodes an inbound payload.
// Use ParseStatus for the error contract callers rely on.
func DecodeHostPayload(data []byte) (*HostPayload, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty host payload")
	}
	var p HostPayload
	if err := decMode.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to decode CBOR: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}
