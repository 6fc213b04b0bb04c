// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package archer

import (
	"fmt"
	"time"
)

// Frame is a decoded serial frame
type Frame struct {
	Payload   []byte // CBOR message bytes
	CRC       uint16
	Timestamp time.Time
}

// Decoder implements the serial frame decoder state machine
type Decoder struct {
	state      int
	buffer     []byte // length + payload bytes, covered by the CRC
	escapeNext bool
	length     int
	crc        uint16
	rawBuffer  []byte // Accumulate raw bytes including framing
}

// NewDecoder creates a new frame decoder
func NewDecoder() *Decoder {
	return &Decoder{
		state:     stateIdle,
		buffer:    make([]byte, 0, LengthSize+MaxPayloadSize),
		rawBuffer: make([]byte, 0, MaxFrameSize*2),
	}
}

// Reset resets the decoder state to idle
func (d *Decoder) Reset() {
	d.state = stateIdle
	d.buffer = d.buffer[:0]
	d.escapeNext = false
	d.length = 0
	d.crc = 0
	d.rawBuffer = d.rawBuffer[:0]
}

// GetRawBytes returns the accumulated raw bytes since the last frame
func (d *Decoder) GetRawBytes() []byte {
	return d.rawBuffer
}

// Decode feeds a chunk of bytes and returns every frame completed by it.
// Decode errors do not stop processing; they are returned alongside the
// frames that were recovered.
func (d *Decoder) Decode(data []byte) ([]*Frame, []error) {
	var frames []*Frame
	var errs []error
	for _, b := range data {
		frame, err := d.DecodeByte(b)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if frame != nil {
			frames = append(frames, frame)
		}
	}
	return frames, errs
}

// DecodeByte processes a single byte through the decoder state machine.
// Returns a completed frame, or nil if the frame is incomplete.
// Returns an error if decoding fails.
func (d *Decoder) DecodeByte(b byte) (*Frame, error) {
	d.rawBuffer = append(d.rawBuffer, b)
	if len(d.rawBuffer) > MaxFrameSize*2+2 {
		d.Reset()
		return nil, fmt.Errorf("buffer overflow: frame exceeds max size")
	}

	// Framing bytes are never escaped, so they always resynchronize
	if b == StartByte {
		d.Reset()
		d.rawBuffer = append(d.rawBuffer, b)
		d.state = stateLength1
		return nil, nil
	}

	if b == EndByte {
		state := d.state
		if state == stateIdle {
			d.Reset()
			return nil, nil
		}
		if state != stateEnd {
			d.Reset()
			return nil, fmt.Errorf("unexpected END byte in state %d", state)
		}

		calculatedCRC := CalculateCRC(d.buffer)
		if d.crc != calculatedCRC {
			err := fmt.Errorf("%w: expected 0x%04X, got 0x%04X", ErrCRCMismatch, calculatedCRC, d.crc)
			d.Reset()
			return nil, err
		}

		payload := make([]byte, d.length)
		copy(payload, d.buffer[LengthSize:])
		frame := &Frame{
			Payload:   payload,
			CRC:       d.crc,
			Timestamp: time.Now(),
		}
		d.Reset()
		return frame, nil
	}

	if d.state == stateIdle {
		// Waiting for START byte
		return nil, nil
	}

	// Handle byte stuffing
	if b == EscByte && !d.escapeNext {
		d.escapeNext = true
		return nil, nil
	}
	if d.escapeNext {
		b ^= EscXor
		d.escapeNext = false
	}

	switch d.state {
	case stateLength1:
		d.buffer = append(d.buffer, b)
		d.length = int(b)
		d.state = stateLength2
		return nil, nil

	case stateLength2:
		d.buffer = append(d.buffer, b)
		d.length |= int(b) << 8
		if d.length == 0 || d.length > MaxPayloadSize {
			length := d.length
			d.Reset()
			return nil, fmt.Errorf("invalid length: %d (max %d)", length, MaxPayloadSize)
		}
		d.state = statePayload
		return nil, nil

	case statePayload:
		d.buffer = append(d.buffer, b)
		if len(d.buffer)-LengthSize >= d.length {
			d.state = stateCRC1
		}
		return nil, nil

	case stateCRC1:
		d.crc = uint16(b) << 8
		d.state = stateCRC2
		return nil, nil

	case stateCRC2:
		d.crc |= uint16(b)
		// Wait for END byte
		d.state = stateEnd
		return nil, nil

	default:
		d.Reset()
		return nil, fmt.Errorf("unexpected byte 0x%02X after CRC", b)
	}
}
