// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package logging

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Thermoquad/archerlink/pkg/archer"
)

var logger *zap.Logger

// activeLevel is the level name Initialize enabled, empty when silent
var activeLevel string

// LogLevelEnvVar is the environment variable that controls logging verbosity.
// When unset or empty, logging is silent.
// Valid values: "debug", "info", "warn", "error"
const LogLevelEnvVar = "ARCHERLINK_LOG_LEVEL"

// maxDumpBytes limits hex and ASCII dumps in log fields
const maxDumpBytes = 256

// ParseLevel maps a level name to a zap level. Unknown names map to info.
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Initialize creates the global logger with the specified level.
// If level is empty, ARCHERLINK_LOG_LEVEL is checked. If neither is set,
// logging is disabled. Logs go to stderr so command output stays clean.
func Initialize(level string) error {
	if level == "" {
		level = os.Getenv(LogLevelEnvVar)
	}

	if level == "" {
		logger = zap.NewNop()
		activeLevel = ""
		return nil
	}

	l, err := build(ParseLevel(level), "stderr", zapcore.CapitalColorLevelEncoder)
	if err != nil {
		return err
	}
	logger = l
	activeLevel = level
	return nil
}

// RedirectToFile reopens an enabled logger on path, appending. Used while a
// full screen TUI owns the terminal. Does nothing when logging is disabled.
func RedirectToFile(path string) error {
	if activeLevel == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	l, err := build(ParseLevel(activeLevel), path, zapcore.CapitalLevelEncoder)
	if err != nil {
		return err
	}
	_ = GetLogger().Sync()
	logger = l
	return nil
}

func build(level zapcore.Level, output string, encodeLevel zapcore.LevelEncoder) (*zap.Logger, error) {
	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Development:      false,
		Encoding:         "console",
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      []string{output},
		ErrorOutputPaths: []string{output},
	}

	config.EncoderConfig.EncodeLevel = encodeLevel
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder

	l, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return l, nil
}

// SetLogger replaces the global logger. Used by tests to capture output.
func SetLogger(l *zap.Logger) {
	logger = l
}

// GetLogger returns the global logger instance
func GetLogger() *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return logger
}

// Info logs an info message
func Info(msg string, fields ...zap.Field) {
	GetLogger().Info(msg, fields...)
}

// Debug logs a debug message
func Debug(msg string, fields ...zap.Field) {
	GetLogger().Debug(msg, fields...)
}

// Warn logs a warning message
func Warn(msg string, fields ...zap.Field) {
	GetLogger().Warn(msg, fields...)
}

// Error logs an error message
func Error(msg string, fields ...zap.Field) {
	GetLogger().Error(msg, fields...)
}

// LogConnection logs a transport event
func LogConnection(target string, event string) {
	Info("Connection event",
		zap.String("target", target),
		zap.String("event", event),
	)
}

// LogRawBytes logs raw bytes at debug level
func LogRawBytes(label string, data []byte) {
	Debug(label,
		zap.Int("length", len(data)),
		zap.String("hex", hexDump(data)),
		zap.String("ascii", asciiDump(data)),
	)
}

// LogCommand logs an outbound command
func LogCommand(cmd *archer.Command, payload []byte) {
	Debug("Command sent",
		zap.String("command", archer.FormatCommand(cmd)),
		zap.Int("length", len(payload)),
		zap.String("hex", hexDump(payload)),
	)
}

// LogStatus logs a decoded status report
func LogStatus(s *archer.HostDevStatus) {
	if s == nil {
		return
	}
	Debug("Status received",
		zap.Int32("charge", s.Charge),
		zap.Int32("object_temp", s.ObjectTemp),
		zap.Int32("device_temp", s.DeviceTemp),
		zap.Stringer("zoom", s.Zoom),
		zap.Stringer("max_zoom", s.MaxZoom),
		zap.Stringer("agc_mode", s.AGCMode),
		zap.Stringer("color_scheme", s.ColorScheme),
		zap.Int32("max_distance", s.MaxDistance),
	)
}

func hexDump(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	if len(data) > maxDumpBytes {
		return hex.EncodeToString(data[:maxDumpBytes]) + "..."
	}
	return hex.EncodeToString(data)
}

func asciiDump(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	if len(data) > maxDumpBytes {
		data = data[:maxDumpBytes]
	}

	result := make([]byte, len(data))
	for i, b := range data {
		if b >= 32 && b <= 126 {
			result[i] = b
		} else {
			result[i] = '.'
		}
	}
	return string(result)
}

// Sync flushes any buffered log entries
func Sync() {
	if logger != nil {
		_ = logger.Sync()
	}
}
