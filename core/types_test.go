package core

import (
	"errors"
	"fmt"
	"testing"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		name            string
		v, lo, hi, want float64
	}{
		{"inside", 5, -180, 180, 5},
		{"below", -200, -180, 180, -180},
		{"above", 181, -180, 180, 180},
		{"on bound", 180, -180, 180, 180},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Clamp(tc.v, tc.lo, tc.hi); got != tc.want {
				t.Errorf("Clamp(%v, %v, %v) = %v, want %v", tc.v, tc.lo, tc.hi, got, tc.want)
			}
		})
	}

	if got := Clamp(12, 0, 10); got != 10 {
		t.Errorf("integer Clamp = %d, want 10", got)
	}
}

func TestElevationRange(t *testing.T) {
	g := &Globe{Points: []Point{{Elevation: 10}, {Elevation: -300}, {Elevation: 4000}}}
	lo, hi := g.ElevationRange()
	if lo != -300 || hi != 4000 {
		t.Errorf("ElevationRange() = (%v, %v), want (-300, 4000)", lo, hi)
	}

	empty := &Globe{}
	if lo, hi := empty.ElevationRange(); lo != 0 || hi != 0 {
		t.Errorf("empty ElevationRange() = (%v, %v), want (0, 0)", lo, hi)
	}
}

func TestErrorsUnwrapThroughWrapping(t *testing.T) {
	err := fmt.Errorf("building globe: %w", &MalformedGeometryError{Triangle: 3, Index: 99, Points: 12})

	var geomErr *MalformedGeometryError
	if !errors.As(err, &geomErr) {
		t.Fatalf("errors.As did not find MalformedGeometryError in %v", err)
	}
	if geomErr.Index != 99 {
		t.Errorf("Index = %d, want 99", geomErr.Index)
	}

	cfgErr := &ConfigurationError{Option: "triangle_coloring", Value: "median"}
	want := `unrecognized triangle_coloring setting "median"`
	if cfgErr.Error() != want {
		t.Errorf("Error() = %q, want %q", cfgErr.Error(), want)
	}
}
