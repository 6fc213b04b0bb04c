// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Thermoquad/archerlink/pkg/archer"
)

func TestRawLog(t *testing.T) {
	bad := mustFrame(t, []byte{0x01, 0x02})
	bad[3] ^= 0xFF

	var data []byte
	data = append(data, mustFrame(t, encodedStatus(t, testStatus()))...)
	data = append(data, bad...)
	data = append(data, mustFrame(t, []byte{0xFF})...)

	var out bytes.Buffer
	err := rawLog(context.Background(), NewFramedLink(newFakeStream(data)), &out)
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "HOST_PAYLOAD")
	assert.Contains(t, text, "BLACK_HOT")
	assert.Contains(t, text, archer.ErrCRCMismatch.Error())
	assert.Contains(t, text, "Payload: FF")
	assert.Contains(t, text, "Connection closed")
}

func TestRawLog_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	assert.NoError(t, rawLog(ctx, NewFramedLink(newFakeStream(nil)), &out))
	assert.Empty(t, out.String())
}
