// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Thermoquad/archerlink/pkg/archer"
)

//////////////////////////////////////////////////////////////
// Types
//////////////////////////////////////////////////////////////

// errorLogEntry is one line of the event log
type errorLogEntry struct {
	timestamp time.Time
	message   string
	isError   bool // true for errors, false for info
}

// controlKeyMap holds the TUI key bindings
type controlKeyMap struct {
	Zoom    key.Binding
	AGC     key.Binding
	Palette key.Binding
	FFC     key.Binding
	Refresh key.Binding
	Help    key.Binding
	Quit    key.Binding
}

// ShortHelp implements help.KeyMap
func (k controlKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Zoom, k.AGC, k.Palette, k.FFC, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k controlKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Zoom, k.AGC, k.Palette, k.FFC},
		{k.Refresh, k.Help, k.Quit},
	}
}

func defaultControlKeys() controlKeyMap {
	return controlKeyMap{
		Zoom:    key.NewBinding(key.WithKeys("z"), key.WithHelp("z", "next zoom")),
		AGC:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "next AGC")),
		Palette: key.NewBinding(key.WithKeys("p", "c"), key.WithHelp("p", "next palette")),
		FFC:     key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "calibrate (FFC)")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh status")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// controlModel is the Bubble Tea model for the control TUI
type controlModel struct {
	connMgr  *connectionManager
	connInfo string

	// Latest device state
	status       *archer.HostDevStatus
	lastStatusAt time.Time
	anomalies    []archer.ValidationError

	// Monitoring
	stats         *archer.Statistics
	errorLog      []errorLogEntry
	maxLogEntries int

	// Widgets
	keys    controlKeyMap
	help    help.Model
	spinner spinner.Model
	pending string // name of the command in flight, empty if none

	// UI state
	width          int
	height         int
	quitting       bool
	connectionLost bool
}

//////////////////////////////////////////////////////////////
// Messages
//////////////////////////////////////////////////////////////

type controlTickMsg time.Time

type statusMsg struct {
	status *archer.HostDevStatus
	err    error
	at     time.Time
}

type commandResultMsg struct {
	name string
	sent *archer.Command
	err  error
}

type connectionLostMsg struct{}

type reconnectedMsg struct {
	connInfo string
}

//////////////////////////////////////////////////////////////
// Model Initialization
//////////////////////////////////////////////////////////////

func initialControlModel(connMgr *connectionManager, connInfo string) controlModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))

	return controlModel{
		connMgr:       connMgr,
		connInfo:      connInfo,
		stats:         archer.NewStatistics(),
		errorLog:      make([]errorLogEntry, 0),
		maxLogEntries: 100,
		keys:          defaultControlKeys(),
		help:          help.New(),
		spinner:       s,
		width:         80,
		height:        24,
	}
}

//////////////////////////////////////////////////////////////
// Bubble Tea Interface
//////////////////////////////////////////////////////////////

func (m controlModel) Init() tea.Cmd {
	return controlTickCmd()
}

func controlTickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return controlTickMsg(t)
	})
}

func (m controlModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case controlTickMsg:
		m.stats.CalculateRates()
		return m, controlTickCmd()

	case statusMsg:
		m.processStatus(msg)

	case commandResultMsg:
		m.pending = ""
		if msg.err != nil {
			m.addLogEntry(fmt.Sprintf("%s failed: %v", msg.name, msg.err), true)
		} else {
			m.addLogEntry(fmt.Sprintf("Sent %s", archer.FormatCommand(msg.sent)), false)
		}

	case connectionLostMsg:
		m.connectionLost = true
		m.addLogEntry("Connection lost - reconnecting...", true)

	case reconnectedMsg:
		m.connectionLost = false
		m.connInfo = msg.connInfo
		m.addLogEntry("Reconnected", false)

	case spinner.TickMsg:
		if m.pending == "" {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m controlModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Zoom):
		return m.startAction("SET_ZOOM", (*Device).CycleZoom)

	case key.Matches(msg, m.keys.AGC):
		return m.startAction("SET_AGC", (*Device).CycleAGC)

	case key.Matches(msg, m.keys.Palette):
		return m.startAction("SET_COLOR_SCHEME", (*Device).CycleColorScheme)

	case key.Matches(msg, m.keys.FFC):
		return m.startAction("TRIGGER_FFC", (*Device).TriggerFFC)

	case key.Matches(msg, m.keys.Refresh):
		return m.startAction("GET_HOST_DEV_STATUS", refreshAction)
	}

	return m, nil
}

// refreshAction reads the status and reports it as a status query
func refreshAction(d *Device, ctx context.Context) (*archer.Command, error) {
	if _, err := d.Status(ctx); err != nil {
		return nil, err
	}
	return archer.NewStatusQueryCommand(), nil
}

// startAction runs a device action unless one is already in flight
func (m controlModel) startAction(name string, action deviceAction) (tea.Model, tea.Cmd) {
	if m.connectionLost {
		m.addLogEntry("Cannot send command: connection lost", true)
		return m, nil
	}
	if m.pending != "" {
		m.addLogEntry(fmt.Sprintf("Busy: %s still in flight", m.pending), true)
		return m, nil
	}
	m.pending = name
	return m, tea.Batch(m.connMgr.runAction(name, action), m.spinner.Tick)
}

func (m controlModel) View() string {
	if m.quitting {
		return "Shutting down...\n"
	}

	var s strings.Builder

	// Styles
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		Background(lipgloss.Color("235")).
		Padding(0, 1)

	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	statsLabelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("12")).
		Bold(true)

	statsValueStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("10"))

	errorStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("9")).
		Bold(true)

	warningStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("11"))

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	// Header
	s.WriteString(titleStyle.Render("archerlink control"))
	s.WriteString(" ")
	s.WriteString(headerStyle.Render(m.connInfo))
	if m.connectionLost {
		s.WriteString(" ")
		s.WriteString(errorStyle.Render("DISCONNECTED"))
	}
	if m.pending != "" {
		s.WriteString(fmt.Sprintf(" %s %s", m.spinner.View(), headerStyle.Render(m.pending)))
	}
	s.WriteString("\n\n")

	s.WriteString(m.renderStatus(statsLabelStyle, statsValueStyle, warningStyle, headerStyle, boxStyle))
	s.WriteString("\n")
	s.WriteString(m.renderStatisticsBar(statsLabelStyle, statsValueStyle, errorStyle, boxStyle))
	s.WriteString("\n")
	s.WriteString(m.renderEventLog(statsLabelStyle, warningStyle, errorStyle, headerStyle, boxStyle))
	s.WriteString("\n")
	s.WriteString(m.help.View(m.keys))

	return s.String()
}

//////////////////////////////////////////////////////////////
// Rendering
//////////////////////////////////////////////////////////////

func (m controlModel) renderStatus(labelStyle, valueStyle, warningStyle, headerStyle, boxStyle lipgloss.Style) string {
	var content strings.Builder
	content.WriteString(labelStyle.Render("STATUS"))

	if m.status == nil {
		content.WriteString(" | ")
		content.WriteString(headerStyle.Render("waiting for status..."))
		return boxStyle.Width(m.width - 4).Render(content.String())
	}

	content.WriteString(headerStyle.Render(fmt.Sprintf(" | %s", m.lastStatusAt.Format("15:04:05"))))
	content.WriteString("\n")

	field := func(label, value string) string {
		return fmt.Sprintf("%s %s  ", labelStyle.Render(label), valueStyle.Render(value))
	}

	st := m.status
	content.WriteString(field("Zoom:", fmt.Sprintf("%s / %s", st.Zoom, st.MaxZoom)))
	content.WriteString(field("AGC:", st.AGCMode.String()))
	content.WriteString(field("Palette:", st.ColorScheme.String()))
	content.WriteString("\n")
	content.WriteString(field("Charge:", fmt.Sprintf("%d%%", st.Charge)))
	content.WriteString(field("Object:", fmt.Sprintf("%.1f°C", float64(st.ObjectTemp)/10)))
	content.WriteString(field("Device:", fmt.Sprintf("%.1f°C", float64(st.DeviceTemp)/10)))
	if st.MaxDistance > 0 {
		content.WriteString(field("Range:", fmt.Sprintf("%d m", st.MaxDistance)))
	}

	for _, a := range m.anomalies {
		content.WriteString("\n")
		content.WriteString(warningStyle.Render("! " + a.Message))
	}

	return boxStyle.Width(m.width - 4).Render(content.String())
}

func (m controlModel) renderStatisticsBar(labelStyle, valueStyle, errorStyle, boxStyle lipgloss.Style) string {
	var validPercent, errorPercent float64
	if m.stats.TotalReports > 0 {
		validPercent = float64(m.stats.ValidReports) * 100.0 / float64(m.stats.TotalReports)
		errorPercent = float64(m.stats.ErrorCount()) * 100.0 / float64(m.stats.TotalReports)
	}

	errorText := valueStyle.Render("0.0%")
	if errorPercent > 0 {
		errorText = errorStyle.Render(fmt.Sprintf("%.1f%%", errorPercent))
	}

	content := fmt.Sprintf("%s %s  %s %s  %s %s  %s %s",
		labelStyle.Render("Total:"), valueStyle.Render(fmt.Sprintf("%d", m.stats.TotalReports)),
		labelStyle.Render("Valid:"), valueStyle.Render(fmt.Sprintf("%.1f%%", validPercent)),
		labelStyle.Render("Errors:"), errorText,
		labelStyle.Render("Rate:"), valueStyle.Render(fmt.Sprintf("%.1f/s", m.stats.ReportRate)),
	)

	return boxStyle.Width(m.width - 4).Render(content)
}

func (m controlModel) renderEventLog(labelStyle, warningStyle, errorStyle, headerStyle, boxStyle lipgloss.Style) string {
	var s strings.Builder
	s.WriteString(labelStyle.Render("EVENTS"))
	s.WriteString("\n")

	// Leave room for the status box, stats bar and help
	logHeight := m.height - 16
	if logHeight < 3 {
		logHeight = 3
	}
	if len(m.errorLog) < logHeight {
		logHeight = len(m.errorLog)
	}
	startIdx := len(m.errorLog) - logHeight

	if len(m.errorLog) == 0 {
		s.WriteString(headerStyle.Render("  (no events yet)"))
	} else {
		for i := startIdx; i < len(m.errorLog); i++ {
			entry := m.errorLog[i]
			icon := "i"
			style := warningStyle
			if entry.isError {
				icon = "x"
				style = errorStyle
			}
			s.WriteString(fmt.Sprintf("%s %s %s\n",
				headerStyle.Render(entry.timestamp.Format("15:04:05.000")),
				style.Render(icon),
				entry.message))
		}
	}

	return boxStyle.Width(m.width - 4).Render(s.String())
}

//////////////////////////////////////////////////////////////
// Data Processing
//////////////////////////////////////////////////////////////

func (m *controlModel) processStatus(msg statusMsg) {
	if msg.err != nil {
		m.stats.Update(msg.err, nil)
		m.addLogEntry(fmt.Sprintf("Status read failed: %v", msg.err), true)
		return
	}

	validationErrors := archer.ValidateStatus(msg.status)
	m.stats.Update(nil, validationErrors)

	// Log only changes so a steady anomaly doesn't flood the log
	if len(validationErrors) > 0 && !sameAnomalies(m.anomalies, validationErrors) {
		for _, v := range validationErrors {
			m.addLogEntry(v.Message, true)
		}
	}
	if m.status != nil {
		m.logSettingChanges(m.status, msg.status)
	}

	m.status = msg.status
	m.lastStatusAt = msg.at
	m.anomalies = validationErrors
}

func (m *controlModel) logSettingChanges(old, cur *archer.HostDevStatus) {
	if old.Zoom != cur.Zoom {
		m.addLogEntry(fmt.Sprintf("Zoom %s -> %s", old.Zoom, cur.Zoom), false)
	}
	if old.AGCMode != cur.AGCMode {
		m.addLogEntry(fmt.Sprintf("AGC %s -> %s", old.AGCMode, cur.AGCMode), false)
	}
	if old.ColorScheme != cur.ColorScheme {
		m.addLogEntry(fmt.Sprintf("Palette %s -> %s", old.ColorScheme, cur.ColorScheme), false)
	}
}

func sameAnomalies(a, b []archer.ValidationError) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Message != b[i].Message {
			return false
		}
	}
	return true
}

//////////////////////////////////////////////////////////////
// Helpers
//////////////////////////////////////////////////////////////

func (m *controlModel) addLogEntry(message string, isError bool) {
	entry := errorLogEntry{
		timestamp: time.Now(),
		message:   message,
		isError:   isError,
	}
	m.errorLog = append(m.errorLog, entry)

	if len(m.errorLog) > m.maxLogEntries {
		m.errorLog = m.errorLog[len(m.errorLog)-m.maxLogEntries:]
	}
}
