package frenet

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r2"
)

// Frenet is a position in the curvilinear frame of a path.
type Frenet struct {
	S float64 `json:"s"` // arc length, metres
	D float64 `json:"d"` // lateral offset, metres, left positive
}

// Transform converts batches of points between Cartesian and Frenet
// coordinates against one reference path.
type Transform struct {
	matcher *PathMatcher
}

// NewTransform wraps an existing matcher.
func NewTransform(m *PathMatcher) *Transform {
	return &Transform{matcher: m}
}

// Matcher returns the underlying matcher.
func (t *Transform) Matcher() *PathMatcher { return t.matcher }

// ToFrenet matches every point to the path.
func (t *Transform) ToFrenet(points []r2.Vec) ([]Frenet, error) {
	out := make([]Frenet, len(points))
	for i, p := range points {
		s, d, err := t.matcher.Match(p.X, p.Y)
		if err != nil {
			return nil, fmt.Errorf("point %d: %w", i, err)
		}
		out[i] = Frenet{S: s, D: d}
	}
	return out, nil
}

// ToCartesian reconstructs every Frenet coordinate.
func (t *Transform) ToCartesian(coords []Frenet) ([]r2.Vec, error) {
	out := make([]r2.Vec, len(coords))
	for i, c := range coords {
		x, y, err := t.matcher.Reconstruct(c.S, c.D)
		if err != nil {
			return nil, fmt.Errorf("coordinate %d: %w", i, err)
		}
		out[i] = r2.Vec{X: x, Y: y}
	}
	return out, nil
}

// Expand turns a longitudinal motion profile, given relative to start, into
// Cartesian points. Each profile value is shifted by the arc length of start.
// With taperOffset the lateral offset of start shrinks linearly to zero over
// the profile; otherwise every point lies on the path.
func (t *Transform) Expand(start r2.Vec, profile []float64, taperOffset bool) ([]r2.Vec, error) {
	s0, d0, err := t.matcher.Match(start.X, start.Y)
	if err != nil {
		return nil, fmt.Errorf("match start: %w", err)
	}
	if len(profile) == 0 {
		return []r2.Vec{}, nil
	}

	offsets := make([]float64, len(profile))
	if taperOffset {
		if len(profile) == 1 {
			offsets[0] = d0
		} else {
			floats.Span(offsets, d0, 0)
		}
	}

	coords := make([]Frenet, len(profile))
	for i, s := range profile {
		coords[i] = Frenet{S: s + s0, D: offsets[i]}
	}
	return t.ToCartesian(coords)
}
