// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package archer

import (
	"encoding/binary"
	"fmt"
)

// Serial frame layout:
//
//	START | stuffed( length(2, LE) | payload | crc(2, BE) ) | END
//
// The CRC covers the length and payload bytes. START, END and ESC inside
// the stuffed section are escaped as ESC, byte^EscXor.

// EncodeFrame wraps a CBOR payload for transmission over a byte stream
func EncodeFrame(payload []byte) ([]byte, error) {
	if len(payload) == 0 {
		return nil, fmt.Errorf("empty payload")
	}
	if len(payload) > MaxPayloadSize {
		return nil, fmt.Errorf("payload too large: %d bytes (max %d)", len(payload), MaxPayloadSize)
	}

	data := make([]byte, LengthSize+len(payload), LengthSize+len(payload)+CRCSize)
	binary.LittleEndian.PutUint16(data[0:LengthSize], uint16(len(payload)))
	copy(data[LengthSize:], payload)

	crc := CalculateCRC(data)
	data = append(data, byte(crc>>8), byte(crc&0xFF))

	stuffed := stuffBytes(data)

	frame := make([]byte, 0, len(stuffed)+2)
	frame = append(frame, StartByte)
	frame = append(frame, stuffed...)
	frame = append(frame, EndByte)

	return frame, nil
}

// EncodeCommandFrame encodes cmd and frames it in one step
func EncodeCommandFrame(cmd *Command) ([]byte, error) {
	payload, err := EncodeCommand(cmd)
	if err != nil {
		return nil, err
	}
	return EncodeFrame(payload)
}

// stuffBytes escapes START, END and ESC bytes
func stuffBytes(data []byte) []byte {
	result := make([]byte, 0, len(data)*2)

	for _, b := range data {
		if b == StartByte || b == EndByte || b == EscByte {
			result = append(result, EscByte, b^EscXor)
		} else {
			result = append(result, b)
		}
	}

	return result
}

// UnstuffBytes removes byte stuffing from escaped data.
// This is the inverse of stuffBytes.
func UnstuffBytes(data []byte) ([]byte, error) {
	result := make([]byte, 0, len(data))
	escapeNext := false

	for _, b := range data {
		if escapeNext {
			result = append(result, b^EscXor)
			escapeNext = false
		} else if b == EscByte {
			escapeNext = true
		} else {
			result = append(result, b)
		}
	}

	if escapeNext {
		return nil, fmt.Errorf("incomplete escape sequence at end of data")
	}

	return result, nil
}
