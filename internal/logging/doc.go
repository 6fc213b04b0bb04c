// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package logging provides structured logging for the archerlink CLI.
//
// It wraps a global zap logger. Logging is silent unless a level is given
// with --log-level, the config file, or the ARCHERLINK_LOG_LEVEL environment
// variable:
//
//	if err := logging.Initialize(level); err != nil {
//	    return err
//	}
//	defer logging.Sync()
//
// Protocol helpers log at debug level:
//
//	logging.LogCommand(cmd, payload)
//	logging.LogStatus(status)
//	logging.LogRawBytes("frame received", raw)
//
// Output goes to stderr in console format so it never mixes with the
// status output printed on stdout.
package logging
