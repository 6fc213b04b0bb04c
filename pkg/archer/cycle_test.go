// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package archer

import (
	"errors"
	"slices"
	"testing"
)

// ============================================================
// Domain Tests
// ============================================================

func TestNewDomain_SortsAndDropsSentinel(t *testing.T) {
	d := NewDomain("test", Zoom(0), Zoom(3), Zoom(0), Zoom(1), Zoom(4), Zoom(1), Zoom(2))

	want := []Zoom{1, 2, 3, 4}
	if got := d.Values(); !slices.Equal(got, want) {
		t.Errorf("Values() = %v, want %v", got, want)
	}
	if d.Sentinel() != 0 {
		t.Errorf("Sentinel() = %d, want 0", d.Sentinel())
	}
	if d.Contains(0) {
		t.Error("Contains(sentinel) should be false")
	}
}

func TestDomain_ValuesReturnsCopy(t *testing.T) {
	values := ZoomDomain.Values()
	values[0] = Zoom(99)

	if ZoomDomain.Values()[0] != Zoom1x {
		t.Error("mutating Values() result changed the registry")
	}
}

func TestDomain_Registry(t *testing.T) {
	tests := []struct {
		name     string
		values   []int32
		sentinel int32
		want     []int32
	}{
		{"zoom", toInt32(ZoomDomain.Values()), int32(ZoomDomain.Sentinel()), []int32{1, 2, 3, 4}},
		{"agc", toInt32(AGCModeDomain.Values()), int32(AGCModeDomain.Sentinel()), []int32{1, 2, 3}},
		{"color", toInt32(ColorSchemeDomain.Values()), int32(ColorSchemeDomain.Sentinel()), []int32{1, 2, 3}},
		{"trigger", toInt32(TriggerDomain.Values()), int32(TriggerDomain.Sentinel()), []int32{1, 2, 3, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !slices.Equal(tt.values, tt.want) {
				t.Errorf("values = %v, want %v", tt.values, tt.want)
			}
			if tt.sentinel != 0 {
				t.Errorf("sentinel = %d, want 0", tt.sentinel)
			}
		})
	}
}

func TestDomain_Bounded(t *testing.T) {
	tests := []struct {
		name string
		max  Zoom
		want []Zoom
	}{
		{"sentinel means unbounded", ZoomUnknown, []Zoom{1, 2, 3, 4}},
		{"negative means unbounded", Zoom(-1), []Zoom{1, 2, 3, 4}},
		{"max 1", Zoom1x, []Zoom{1}},
		{"max 2", Zoom2x, []Zoom{1, 2}},
		{"max 4", Zoom4x, []Zoom{1, 2, 3, 4}},
		{"max above domain", Zoom(10), []Zoom{1, 2, 3, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ZoomDomain.Bounded(tt.max).Values()
			if !slices.Equal(got, tt.want) {
				t.Errorf("Bounded(%d) = %v, want %v", tt.max, got, tt.want)
			}
		})
	}
}

func TestDomain_BoundedBetweenValues(t *testing.T) {
	d := NewDomain("sparse", int32(0), 2, 4, 8)
	got := d.Bounded(5).Values()
	if !slices.Equal(got, []int32{2, 4}) {
		t.Errorf("Bounded(5) = %v, want [2 4]", got)
	}
	if d.Bounded(1).Len() != 0 {
		t.Errorf("Bounded(1) should be empty, got %v", d.Bounded(1).Values())
	}
}

// ============================================================
// Cyclic Selector Tests
// ============================================================

func TestNext_ZoomScenario(t *testing.T) {
	tests := []struct {
		name    string
		current Zoom
		max     Zoom
		want    Zoom
		wantErr error
	}{
		{"wraps from last to first", Zoom4x, ZoomUnknown, Zoom1x, nil},
		{"advances", Zoom1x, ZoomUnknown, Zoom2x, nil},
		{"bounded wrap", Zoom2x, Zoom2x, Zoom1x, nil},
		{"bounded advance", Zoom1x, Zoom2x, Zoom2x, nil},
		{"current above max", Zoom3x, Zoom2x, 0, ErrInvalidEnumValue},
		{"current is sentinel", ZoomUnknown, ZoomUnknown, 0, ErrInvalidEnumValue},
		{"current outside domain", Zoom(7), ZoomUnknown, 0, ErrInvalidEnumValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextBounded(ZoomDomain, tt.current, tt.max)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("NextBounded(%d, %d) = %d, want %d", tt.current, tt.max, got, tt.want)
			}
		})
	}
}

func TestNext_EmptyDomain(t *testing.T) {
	empty := NewDomain[Zoom]("empty", ZoomUnknown)

	_, err := NextBounded(empty, Zoom1x, ZoomUnknown)
	if !errors.Is(err, ErrEmptyDomain) {
		t.Errorf("err = %v, want ErrEmptyDomain", err)
	}

	// Max below the smallest value filters everything out
	sparse := NewDomain("sparse", int32(0), 5, 6)
	_, err = NextBounded(sparse, 5, 4)
	if !errors.Is(err, ErrEmptyDomain) {
		t.Errorf("err = %v, want ErrEmptyDomain", err)
	}
}

func TestNext_EmptyCheckedBeforeMembership(t *testing.T) {
	empty := NewDomain[AGCMode]("empty", AGCModeUnknown)
	_, err := Next(empty, AGCMode(42))
	if !errors.Is(err, ErrEmptyDomain) {
		t.Errorf("err = %v, want ErrEmptyDomain", err)
	}
	if errors.Is(err, ErrInvalidEnumValue) {
		t.Error("empty domain must not report ErrInvalidEnumValue")
	}
}

func TestNext_UnboundedSettings(t *testing.T) {
	agc := []AGCMode{AGCMode1, AGCMode2, AGCMode3}
	for i, cur := range agc {
		got, err := Next(AGCModeDomain, cur)
		if err != nil {
			t.Fatalf("Next(%s) error: %v", cur, err)
		}
		if want := agc[(i+1)%len(agc)]; got != want {
			t.Errorf("Next(%s) = %s, want %s", cur, got, want)
		}
	}

	colors := []ColorScheme{ColorSchemeSepia, ColorSchemeBlack, ColorSchemeWhite}
	for i, cur := range colors {
		got, err := Next(ColorSchemeDomain, cur)
		if err != nil {
			t.Fatalf("Next(%s) error: %v", cur, err)
		}
		if want := colors[(i+1)%len(colors)]; got != want {
			t.Errorf("Next(%s) = %s, want %s", cur, got, want)
		}
	}

	if _, err := Next(ColorSchemeDomain, ColorSchemeUnknown); !errors.Is(err, ErrInvalidEnumValue) {
		t.Errorf("Next(unknown color) err = %v, want ErrInvalidEnumValue", err)
	}
}

// Every value of every bounded zoom domain: next stays in the domain and
// len(domain) steps visit each value exactly once before returning.
func TestNext_FullCircularTour(t *testing.T) {
	maxes := []Zoom{ZoomUnknown, Zoom1x, Zoom2x, Zoom3x, Zoom4x}

	for _, max := range maxes {
		filtered := ZoomDomain.Bounded(max)
		for _, start := range filtered.Values() {
			seen := map[Zoom]bool{}
			cur := start
			for i := 0; i < filtered.Len(); i++ {
				next, err := NextBounded(ZoomDomain, cur, max)
				if err != nil {
					t.Fatalf("max=%d cur=%d: %v", max, cur, err)
				}
				if !filtered.Contains(next) {
					t.Fatalf("max=%d: next %d not in %v", max, next, filtered.Values())
				}
				if seen[next] {
					t.Fatalf("max=%d start=%d: %d visited twice", max, start, next)
				}
				seen[next] = true
				cur = next
			}
			if cur != start {
				t.Errorf("max=%d: tour from %d ended at %d", max, start, cur)
			}
			if len(seen) != filtered.Len() {
				t.Errorf("max=%d: visited %d values, want %d", max, len(seen), filtered.Len())
			}
		}
	}
}

func TestNext_DeclarationOrderIndependent(t *testing.T) {
	a := NewDomain("a", ColorSchemeUnknown, ColorSchemeWhite, ColorSchemeSepia, ColorSchemeBlack)
	b := NewDomain("b", ColorSchemeUnknown, ColorSchemeSepia, ColorSchemeBlack, ColorSchemeWhite)

	for _, cur := range a.Values() {
		na, errA := Next(a, cur)
		nb, errB := Next(b, cur)
		if errA != nil || errB != nil {
			t.Fatalf("errors: %v, %v", errA, errB)
		}
		if na != nb {
			t.Errorf("Next(%s) differs by declaration order: %s vs %s", cur, na, nb)
		}
	}
}

func toInt32[T Setting](values []T) []int32 {
	out := make([]int32, len(values))
	for i, v := range values {
		out[i] = int32(v)
	}
	return out
}
