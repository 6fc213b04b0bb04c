// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package archer

import "slices"

// Setting is the set of enum types that can be cycled
type Setting interface {
	~int32
}

// Domain is the ordered set of valid values for one device setting.
// The sentinel value means "unknown" and is never part of Values.
type Domain[T Setting] struct {
	name     string
	sentinel T
	values   []T
}

// NewDomain creates a domain from the given values.
// Values are sorted ascending, duplicates and the sentinel are dropped, so
// the declaration order of the caller never affects cycling order.
func NewDomain[T Setting](name string, sentinel T, values ...T) Domain[T] {
	sorted := make([]T, 0, len(values))
	for _, v := range values {
		if v != sentinel {
			sorted = append(sorted, v)
		}
	}
	slices.Sort(sorted)
	return Domain[T]{
		name:     name,
		sentinel: sentinel,
		values:   slices.Compact(sorted),
	}
}

// Name returns the setting name (used in error messages)
func (d Domain[T]) Name() string {
	return d.name
}

// Sentinel returns the "unknown" value of the setting
func (d Domain[T]) Sentinel() T {
	return d.sentinel
}

// Values returns a copy of the ordered non-sentinel values
func (d Domain[T]) Values() []T {
	return slices.Clone(d.values)
}

// Len returns the number of non-sentinel values
func (d Domain[T]) Len() int {
	return len(d.values)
}

// Contains reports whether v is a valid non-sentinel value
func (d Domain[T]) Contains(v T) bool {
	_, found := slices.BinarySearch(d.values, v)
	return found
}

// Bounded returns the sub-domain of values <= max.
// A max at or below the sentinel means "no bound" and returns d unchanged.
func (d Domain[T]) Bounded(max T) Domain[T] {
	if max <= d.sentinel {
		return d
	}
	end, found := slices.BinarySearch(d.values, max)
	if found {
		end++
	}
	return Domain[T]{
		name:     d.name,
		sentinel: d.sentinel,
		values:   d.values[:end:end],
	}
}

// Setting domains
var (
	ZoomDomain = NewDomain("zoom", ZoomUnknown,
		Zoom1x, Zoom2x, Zoom3x, Zoom4x)

	AGCModeDomain = NewDomain("agc mode", AGCModeUnknown,
		AGCMode1, AGCMode2, AGCMode3)

	ColorSchemeDomain = NewDomain("color scheme", ColorSchemeUnknown,
		ColorSchemeSepia, ColorSchemeBlack, ColorSchemeWhite)

	TriggerDomain = NewDomain("trigger command", TriggerUnknown,
		TriggerCalibrateAccelGyro, TriggerLRF, TriggerResetCM, TriggerFFC)
)
