// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package archer

import (
	"errors"
	"fmt"
	"time"
)

// Statistics tracks status report counts and error rates.
// It is not safe for concurrent use; each monitor owns one.
type Statistics struct {
	StartTime      time.Time
	LastUpdateTime time.Time

	// Counters
	TotalReports    uint64
	ValidReports    uint64
	CRCErrors       uint64
	ParseErrors     uint64
	Timeouts        uint64
	AnomalousValues uint64
	InvalidValues   uint64
	ZoomAboveMax    uint64
	InvalidTemp     uint64
	InvalidCharge   uint64

	// Rates (calculated)
	ReportRate float64 // reports/sec
	ErrorRate  float64 // errors/sec
}

// NewStatistics creates a new statistics tracker
func NewStatistics() *Statistics {
	now := time.Now()
	return &Statistics{
		StartTime:      now,
		LastUpdateTime: now,
	}
}

// Update updates statistics based on a read result and its anomalies
func (s *Statistics) Update(readErr error, validationErrors []ValidationError) {
	s.TotalReports++
	s.LastUpdateTime = time.Now()

	if readErr != nil {
		switch {
		case errors.Is(readErr, ErrCRCMismatch):
			s.CRCErrors++
		case errors.Is(readErr, ErrParse):
			s.ParseErrors++
		default:
			s.Timeouts++
		}
		return
	}

	if len(validationErrors) == 0 {
		s.ValidReports++
		return
	}

	s.AnomalousValues++
	for _, err := range validationErrors {
		switch err.Type {
		case AnomalyInvalidValue:
			s.InvalidValues++
		case AnomalyZoomAboveMax:
			s.ZoomAboveMax++
		case AnomalyInvalidTemp:
			s.InvalidTemp++
		case AnomalyInvalidCharge:
			s.InvalidCharge++
		}
	}
}

// ErrorCount returns the number of failed or anomalous reports
func (s *Statistics) ErrorCount() uint64 {
	return s.CRCErrors + s.ParseErrors + s.Timeouts + s.AnomalousValues
}

// CalculateRates calculates report and error rates
func (s *Statistics) CalculateRates() {
	elapsed := time.Since(s.StartTime).Seconds()
	if elapsed > 0 {
		s.ReportRate = float64(s.TotalReports) / elapsed
		s.ErrorRate = float64(s.ErrorCount()) / elapsed
	}
}

// String returns a formatted statistics summary
func (s *Statistics) String() string {
	s.CalculateRates()

	percent := func(n uint64) float64 {
		if s.TotalReports == 0 {
			return 0
		}
		return float64(n) * 100.0 / float64(s.TotalReports)
	}

	elapsed := time.Since(s.StartTime)

	result := fmt.Sprintf("=== Statistics (%.0f seconds) ===\n", elapsed.Seconds())
	result += fmt.Sprintf("Total Reports:   %8d\n", s.TotalReports)
	result += fmt.Sprintf("Valid Reports:   %8d (%.1f%%)\n", s.ValidReports, percent(s.ValidReports))

	if s.CRCErrors > 0 {
		result += fmt.Sprintf("CRC Errors:      %8d (%.1f%%)\n", s.CRCErrors, percent(s.CRCErrors))
	}
	if s.ParseErrors > 0 {
		result += fmt.Sprintf("Parse Errors:    %8d (%.1f%%)\n", s.ParseErrors, percent(s.ParseErrors))
	}
	if s.Timeouts > 0 {
		result += fmt.Sprintf("Timeouts:        %8d (%.1f%%)\n", s.Timeouts, percent(s.Timeouts))
	}
	if s.AnomalousValues > 0 {
		result += fmt.Sprintf("Anomalous:       %8d (%.1f%%)\n", s.AnomalousValues, percent(s.AnomalousValues))
		if s.InvalidValues > 0 {
			result += fmt.Sprintf("  Invalid Enum:     %5d\n", s.InvalidValues)
		}
		if s.ZoomAboveMax > 0 {
			result += fmt.Sprintf("  Zoom Above Max:   %5d\n", s.ZoomAboveMax)
		}
		if s.InvalidTemp > 0 {
			result += fmt.Sprintf("  Invalid Temp:     %5d\n", s.InvalidTemp)
		}
		if s.InvalidCharge > 0 {
			result += fmt.Sprintf("  Invalid Charge:   %5d\n", s.InvalidCharge)
		}
	}

	result += fmt.Sprintf("Report Rate:     %8.1f reports/sec\n", s.ReportRate)
	result += fmt.Sprintf("Error Rate:      %8.1f errors/sec\n", s.ErrorRate)
	result += "================================\n"

	return result
}

// Reset resets all statistics counters
func (s *Statistics) Reset() {
	*s = *NewStatistics()
}
