package frenet

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/r2"
)

// PathMatcher matches points against a polyline reference path.
// It is immutable once New returns.
type PathMatcher struct {
	vertices   []r2.Vec
	headings   []float64
	segments   []PathSegment
	arcLengths []float64 // arcLengths[i] is the arc length at vertices[i]
}

// segmentMatch is the result of the closest-segment search.
type segmentMatch struct {
	index    int
	distance float64
	lambda   float64
}

// New builds a matcher from at least two vertices. Consecutive vertices must
// be distinct and every coordinate finite.
func New(vertices []r2.Vec) (*PathMatcher, error) {
	n := len(vertices)
	if n < 2 {
		return nil, fmt.Errorf("%w: need at least 2 vertices, got %d", ErrInvalidInput, n)
	}
	for i, v := range vertices {
		if !isFinite(v.X) || !isFinite(v.Y) {
			return nil, fmt.Errorf("%w: vertex %d is not finite (%g, %g)", ErrInvalidInput, i, v.X, v.Y)
		}
		if i > 0 && v == vertices[i-1] {
			return nil, fmt.Errorf("%w: vertices %d and %d coincide at (%g, %g)", ErrInvalidInput, i-1, i, v.X, v.Y)
		}
	}

	m := &PathMatcher{
		vertices: append([]r2.Vec(nil), vertices...),
		headings: vertexHeadings(vertices),
	}

	m.segments = make([]PathSegment, n-1)
	for i := 0; i < n-1; i++ {
		mode := SegmentMiddle
		if i == 0 {
			mode = SegmentFirst
		}
		if i == n-2 {
			mode = SegmentLast
		}
		m.segments[i] = newPathSegment(m.vertices[i], m.headings[i], m.vertices[i+1], m.headings[i+1], mode)
	}

	// Summed in path order so MaxArcLength equals the plain running sum of
	// segment lengths bit for bit.
	m.arcLengths = make([]float64, n)
	for i := 1; i < n; i++ {
		m.arcLengths[i] = m.arcLengths[i-1] + m.segments[i-1].Length(1)
	}
	for i := range m.segments {
		if !isFinite(m.segments[i].length) {
			return nil, fmt.Errorf("%w: segment %d length overflows", ErrInvalidInput, i)
		}
	}
	if total := m.arcLengths[n-1]; !isFinite(total) {
		return nil, fmt.Errorf("%w: total path length overflows", ErrInvalidInput)
	}

	return m, nil
}

// NewFromXY builds a matcher from separate, equal-length coordinate slices.
func NewFromXY(xs, ys []float64) (*PathMatcher, error) {
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("%w: %d x coordinates but %d y coordinates", ErrInvalidInput, len(xs), len(ys))
	}
	vertices := make([]r2.Vec, len(xs))
	for i := range xs {
		vertices[i] = r2.Vec{X: xs[i], Y: ys[i]}
	}
	return New(vertices)
}

// NewFromInterleaved builds a matcher from a flat [x0, y0, x1, y1, ...] slice.
func NewFromInterleaved(xy []float64) (*PathMatcher, error) {
	if len(xy)%2 != 0 {
		return nil, fmt.Errorf("%w: interleaved coordinates need an even length, got %d", ErrInvalidInput, len(xy))
	}
	vertices := make([]r2.Vec, len(xy)/2)
	for i := range vertices {
		vertices[i] = r2.Vec{X: xy[2*i], Y: xy[2*i+1]}
	}
	return New(vertices)
}

// vertexHeadings assigns each vertex a path tangent. Interior vertices use the
// central difference of their neighbours; the end vertices use the direction
// of their only segment.
func vertexHeadings(vertices []r2.Vec) []float64 {
	n := len(vertices)
	headings := make([]float64, n)
	for i := 1; i < n-1; i++ {
		d := r2.Sub(vertices[i+1], vertices[i-1])
		headings[i] = math.Atan2(d.Y, d.X)
	}
	first := r2.Sub(vertices[1], vertices[0])
	headings[0] = math.Atan2(first.Y, first.X)
	last := r2.Sub(vertices[n-1], vertices[n-2])
	headings[n-1] = math.Atan2(last.Y, last.X)
	return headings
}

// closestSegment scans every segment and keeps the smallest absolute distance,
// preferring the lowest index on ties.
func (m *PathMatcher) closestSegment(x, y float64) segmentMatch {
	best := segmentMatch{index: -1}
	for i := range m.segments {
		d, lambda, valid := m.segments[i].DistanceAndLambda(x, y)
		if !valid {
			continue
		}
		if best.index < 0 || math.Abs(d) < math.Abs(best.distance) {
			best = segmentMatch{index: i, distance: d, lambda: lambda}
		}
	}
	if best.index >= 0 {
		return best
	}
	return m.leastInvalid(x, y)
}

// leastInvalid handles points that no segment accepts: each segment's lambda
// is clamped onto the segment and the nearest candidate wins.
func (m *PathMatcher) leastInvalid(x, y float64) segmentMatch {
	best := segmentMatch{index: -1}
	for i := range m.segments {
		seg := &m.segments[i]
		_, lambda, _ := seg.DistanceAndLambda(x, y)
		if math.IsNaN(lambda) {
			xLocal, _ := seg.Project(x, y)
			lambda = xLocal / seg.length
		}
		lambda = math.Max(0, math.Min(1, lambda))
		d := seg.distanceAt(x, y, lambda)
		if best.index < 0 || math.Abs(d) < math.Abs(best.distance) {
			best = segmentMatch{index: i, distance: d, lambda: lambda}
		}
	}
	return best
}

func checkFinite(a, b float64) error {
	if !isFinite(a) || !isFinite(b) {
		return fmt.Errorf("%w: non-finite query (%g, %g)", ErrOutOfRange, a, b)
	}
	return nil
}

// SignedDistance returns the signed lateral distance of (x, y) to the path.
func (m *PathMatcher) SignedDistance(x, y float64) (float64, error) {
	if err := checkFinite(x, y); err != nil {
		return 0, err
	}
	return m.closestSegment(x, y).distance, nil
}

// Tangent returns the signed distance of (x, y) and the interpolated path
// heading at its projection, in radians.
func (m *PathMatcher) Tangent(x, y float64) (distance, angle float64, err error) {
	if err := checkFinite(x, y); err != nil {
		return 0, 0, err
	}
	c := m.closestSegment(x, y)
	return c.distance, m.segments[c.index].Tangent(x, y, c.distance, c.lambda), nil
}

// Match maps (x, y) to arc length and lateral offset.
func (m *PathMatcher) Match(x, y float64) (arcLength, offset float64, err error) {
	if err := checkFinite(x, y); err != nil {
		return 0, 0, err
	}
	c := m.closestSegment(x, y)
	return m.arcLengthAt(c), c.distance, nil
}

// OrientedMatch combines Match and Tangent using a single segment search.
func (m *PathMatcher) OrientedMatch(x, y float64) (arcLength, offset, angle float64, err error) {
	if err := checkFinite(x, y); err != nil {
		return 0, 0, 0, err
	}
	c := m.closestSegment(x, y)
	angle = m.segments[c.index].Tangent(x, y, c.distance, c.lambda)
	return m.arcLengthAt(c), c.distance, angle, nil
}

func (m *PathMatcher) arcLengthAt(c segmentMatch) float64 {
	return m.arcLengths[c.index] + m.segments[c.index].Length(c.lambda)
}

// Reconstruct maps arc length and lateral offset back to Cartesian
// coordinates.
//
// The point is placed along the containing segment's own direction, not the
// blended vertex headings used by Match, so on curved paths Reconstruct is
// only an approximate inverse of Match near the joins. Arc lengths past the
// end extrapolate along the last segment; arc lengths before the start are
// rejected with ErrOutOfRange.
func (m *PathMatcher) Reconstruct(arcLength, offset float64) (x, y float64, err error) {
	if err := checkFinite(arcLength, offset); err != nil {
		return 0, 0, err
	}

	index := m.segmentAt(arcLength)
	remainder := arcLength - m.arcLengths[index]
	if remainder < 0 {
		return 0, 0, fmt.Errorf("%w: arc length %g is before the path start", ErrOutOfRange, arcLength)
	}

	seg := &m.segments[index]
	x = seg.base.X + remainder*seg.cosTheta - offset*seg.sinTheta
	y = seg.base.Y + remainder*seg.sinTheta + offset*seg.cosTheta
	return x, y, nil
}

// segmentAt returns the index of the segment containing arcLength. A value
// exactly on a vertex belongs to the segment ending there.
func (m *PathMatcher) segmentAt(arcLength float64) int {
	if arcLength < m.arcLengths[1] {
		return 0
	}
	i := sort.SearchFloat64s(m.arcLengths, arcLength)
	if i >= len(m.arcLengths) {
		return len(m.segments) - 1
	}
	return i - 1
}

// MaxArcLength returns the total length of the path.
func (m *PathMatcher) MaxArcLength() float64 {
	return m.arcLengths[len(m.arcLengths)-1]
}

// Len returns the number of segments.
func (m *PathMatcher) Len() int { return len(m.segments) }

// Segment returns segment i. Segments expose no mutators.
func (m *PathMatcher) Segment(i int) *PathSegment { return &m.segments[i] }

// Vertices returns a copy of the path vertices.
func (m *PathMatcher) Vertices() []r2.Vec {
	return append([]r2.Vec(nil), m.vertices...)
}

// Headings returns a copy of the per-vertex tangent headings.
func (m *PathMatcher) Headings() []float64 {
	return append([]float64(nil), m.headings...)
}

// ArcLengths returns a copy of the cumulative arc length at each vertex.
func (m *PathMatcher) ArcLengths() []float64 {
	return append([]float64(nil), m.arcLengths...)
}
