// Package testutil provides shared test utilities and reference-path fixtures.
//
// This package centralises common test helpers to reduce code duplication
// across test files and improve test maintainability.
package testutil

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// AssertErrorIs fails the test unless err wraps target.
func AssertErrorIs(t *testing.T, err, target error) {
	t.Helper()
	if !errors.Is(err, target) {
		t.Fatalf("error = %v, want %v", err, target)
	}
}

// AssertInDelta checks that got is within delta of want.
func AssertInDelta(t *testing.T, name string, got, want, delta float64) {
	t.Helper()
	if math.IsNaN(got) || math.Abs(got-want) > delta {
		t.Errorf("%s = %.9f, want %.9f (±%g)", name, got, want, delta)
	}
}

// Vertices converts interleaved x, y pairs into vertices.
func Vertices(xy ...float64) []r2.Vec {
	if len(xy)%2 != 0 {
		panic("testutil.Vertices: odd number of coordinates")
	}
	out := make([]r2.Vec, len(xy)/2)
	for i := range out {
		out[i] = r2.Vec{X: xy[2*i], Y: xy[2*i+1]}
	}
	return out
}

// HorizontalLine is the collinear three-vertex path y = 1 from x = -2 to x = 2.
func HorizontalLine() []r2.Vec {
	return Vertices(-2, 1, 0, 1, 2, 1)
}

// SlopedLine is a collinear path with slope 4/3 and 5 m segments.
func SlopedLine() []r2.Vec {
	return Vertices(0, 0, 3, 4, 6, 8, 9, 12)
}

// Staircase alternates 45 degree and flat segments, so its vertex headings
// differ from the segment directions.
func Staircase() []r2.Vec {
	return Vertices(0, 0, 2, 2, 4, 2, 6, 4, 8, 4)
}

// ClosedRectangle is a U-turn outline: east along y = 31, down to y = 27 and
// back west.
func ClosedRectangle() []r2.Vec {
	return Vertices(141, 31, 152, 31, 163, 31, 163, 27, 152, 27, 141, 27)
}

// DenseRectangle is the ClosedRectangle outline with extra vertices near the
// corners, so fewer segments carry blended headings.
func DenseRectangle() []r2.Vec {
	return Vertices(141, 31, 142, 31, 152, 31, 158, 31, 163, 31, 163, 27, 158, 27, 152, 27, 142, 27, 141, 27)
}
