// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Thermoquad/archerlink/pkg/archer"
)

func newTestControlModel() controlModel {
	cm := &connectionManager{ctx: context.Background()}
	return initialControlModel(cm, "Serial: /dev/null @ 115200 baud")
}

func update(t *testing.T, m controlModel, msg tea.Msg) (controlModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(controlModel)
	require.True(t, ok, "Update returned %T", next)
	return model, cmd
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestControlModel_StatusUpdates(t *testing.T) {
	m := newTestControlModel()

	m, _ = update(t, m, statusMsg{status: testStatus(), at: time.Now()})
	require.NotNil(t, m.status)
	assert.Equal(t, uint64(1), m.stats.ValidReports)
	assert.Empty(t, m.anomalies)

	changed := testStatus()
	changed.Zoom = archer.Zoom1x
	m, _ = update(t, m, statusMsg{status: changed, at: time.Now()})
	assert.Equal(t, archer.Zoom1x, m.status.Zoom)
	require.NotEmpty(t, m.errorLog)
	assert.Equal(t, "Zoom X2 -> X1", m.errorLog[len(m.errorLog)-1].message)

	view := m.View()
	assert.Contains(t, view, "X1 / X2")
	assert.Contains(t, view, "BLACK_HOT")
}

func TestControlModel_AnomaliesLoggedOnce(t *testing.T) {
	m := newTestControlModel()
	bad := testStatus()
	bad.Charge = 140

	m, _ = update(t, m, statusMsg{status: bad, at: time.Now()})
	m, _ = update(t, m, statusMsg{status: bad, at: time.Now()})

	assert.Equal(t, uint64(2), m.stats.AnomalousValues)
	assert.Len(t, m.errorLog, 1)
	assert.True(t, m.errorLog[0].isError)
}

func TestControlModel_ReadErrorCounted(t *testing.T) {
	m := newTestControlModel()
	m, _ = update(t, m, statusMsg{err: &archer.ParseError{Err: errors.New("bad")}})

	assert.Equal(t, uint64(1), m.stats.ParseErrors)
	assert.Nil(t, m.status)
	assert.Contains(t, m.View(), "waiting for status")
}

func TestControlModel_ActionLifecycle(t *testing.T) {
	m := newTestControlModel()

	m, cmd := update(t, m, runeKey('z'))
	assert.NotNil(t, cmd)
	assert.Equal(t, "SET_ZOOM", m.pending)

	// Second action while one is in flight is refused
	m, cmd = update(t, m, runeKey('a'))
	assert.Nil(t, cmd)
	assert.Equal(t, "SET_ZOOM", m.pending)
	assert.True(t, strings.HasPrefix(m.errorLog[len(m.errorLog)-1].message, "Busy"))

	m, _ = update(t, m, commandResultMsg{name: "SET_ZOOM", sent: archer.NewSetZoomCommand(archer.Zoom1x)})
	assert.Empty(t, m.pending)
	assert.Equal(t, "Sent SET_ZOOM X1 (1)", m.errorLog[len(m.errorLog)-1].message)

	m, _ = update(t, m, runeKey('f'))
	assert.Equal(t, "TRIGGER_FFC", m.pending)
	m, _ = update(t, m, commandResultMsg{name: "TRIGGER_FFC", err: errors.New("timeout")})
	assert.Empty(t, m.pending)
	assert.True(t, m.errorLog[len(m.errorLog)-1].isError)
}

func TestControlModel_ConnectionLostBlocksActions(t *testing.T) {
	m := newTestControlModel()

	m, _ = update(t, m, connectionLostMsg{})
	assert.Contains(t, m.View(), "DISCONNECTED")

	m, cmd := update(t, m, runeKey('p'))
	assert.Nil(t, cmd)
	assert.Empty(t, m.pending)

	m, _ = update(t, m, reconnectedMsg{connInfo: "WebSocket: ws://archer/ws"})
	assert.False(t, m.connectionLost)
	assert.Equal(t, "WebSocket: ws://archer/ws", m.connInfo)
}

func TestControlModel_HelpAndQuit(t *testing.T) {
	m := newTestControlModel()

	m, _ = update(t, m, runeKey('?'))
	assert.True(t, m.help.ShowAll)

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.True(t, m.quitting)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
