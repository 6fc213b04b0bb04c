// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package archer

import (
	"errors"
	"fmt"
	"slices"
)

// Cyclic selector errors
var (
	// ErrEmptyDomain is returned when no candidate value remains after
	// applying the max bound (e.g. max below the smallest valid value).
	ErrEmptyDomain = errors.New("empty setting domain")

	// ErrInvalidEnumValue is returned when the current value is not a
	// member of the (bounded) domain.
	ErrInvalidEnumValue = errors.New("invalid enum value")
)

// Next returns the value following current in d, wrapping from the last
// value to the first.
func Next[T Setting](d Domain[T], current T) (T, error) {
	if len(d.values) == 0 {
		var zero T
		return zero, fmt.Errorf("%w: %s has no values", ErrEmptyDomain, d.name)
	}

	idx := slices.Index(d.values, current)
	if idx < 0 {
		var zero T
		return zero, fmt.Errorf("%w: current %s %d not in %v", ErrInvalidEnumValue, d.name, current, d.values)
	}

	return d.values[(idx+1)%len(d.values)], nil
}

// NextBounded is Next over the values of d that are <= max.
// A max at or below the sentinel disables the bound.
// A current value above max fails with ErrInvalidEnumValue, it is never
// clamped.
func NextBounded[T Setting](d Domain[T], current, max T) (T, error) {
	return Next(d.Bounded(max), current)
}
