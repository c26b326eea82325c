package frenet

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// SegmentMode is the positional role of a segment within its path. It decides
// how a projection that falls outside the segment is treated.
type SegmentMode int

const (
	// SegmentFirst clips projections before the path start to lambda 0.
	SegmentFirst SegmentMode = iota
	// SegmentMiddle rejects every projection outside [0, 1].
	SegmentMiddle
	// SegmentLast clips projections past the path end to lambda 1.
	SegmentLast
)

func (m SegmentMode) String() string {
	switch m {
	case SegmentFirst:
		return "first"
	case SegmentMiddle:
		return "middle"
	case SegmentLast:
		return "last"
	default:
		return "unknown"
	}
}

// invalidDistance is the magnitude reported for a rejected projection.
const invalidDistance = math.MaxFloat64

// PathSegment is one linear piece of a reference path, expressed in its own
// rotated frame. The tangents at both ends come from the path's per-vertex
// headings, so the tangent direction rotates smoothly along the segment.
type PathSegment struct {
	base        r2.Vec
	tip         r2.Vec
	headingBase float64
	headingTip  float64

	theta    float64
	cosTheta float64
	sinTheta float64
	length   float64

	// tan(heading - theta) at base and tip
	slopeBase float64
	slopeTip  float64

	mode SegmentMode
}

func newPathSegment(base r2.Vec, headingBase float64, tip r2.Vec, headingTip float64, mode SegmentMode) PathSegment {
	delta := r2.Sub(tip, base)
	theta := math.Atan2(delta.Y, delta.X)
	return PathSegment{
		base:        base,
		tip:         tip,
		headingBase: headingBase,
		headingTip:  headingTip,
		theta:       theta,
		cosTheta:    math.Cos(theta),
		sinTheta:    math.Sin(theta),
		length:      r2.Norm(delta),
		slopeBase:   math.Tan(headingBase - theta),
		slopeTip:    math.Tan(headingTip - theta),
		mode:        mode,
	}
}

// Base returns the segment's start vertex.
func (s *PathSegment) Base() r2.Vec { return s.base }

// Tip returns the segment's end vertex.
func (s *PathSegment) Tip() r2.Vec { return s.tip }

// Theta returns the direction of the segment itself, in radians.
func (s *PathSegment) Theta() float64 { return s.theta }

// Headings returns the path tangent headings assigned to base and tip.
func (s *PathSegment) Headings() (base, tip float64) { return s.headingBase, s.headingTip }

// Mode returns the segment's positional role.
func (s *PathSegment) Mode() SegmentMode { return s.mode }

// Length returns the arc length covered up to fraction lambda of the segment.
// Length(1) is the full segment length.
func (s *PathSegment) Length(lambda float64) float64 {
	return lambda * s.length
}

// Project transforms (x, y) into the segment frame: xLocal is the progress
// along the segment direction from the base and yLocal the perpendicular
// offset, positive to the left.
func (s *PathSegment) Project(x, y float64) (xLocal, yLocal float64) {
	xx := x - s.base.X
	yy := y - s.base.Y
	xLocal = xx*s.cosTheta + yy*s.sinTheta
	yLocal = -xx*s.sinTheta + yy*s.cosTheta
	return
}

// DistanceAndLambda returns the signed distance of (x, y) to the segment and
// the interpolation fraction lambda of its projection.
//
// Lambda accounts for the skew of the boundary tangents, so it differs from an
// orthogonal projection whenever the vertex headings differ from theta. When
// the projection falls outside what the segment mode accepts, valid is false,
// lambda is the unclipped value and the distance is the signed sentinel
// ±math.MaxFloat64.
func (s *PathSegment) DistanceAndLambda(x, y float64) (distance, lambda float64, valid bool) {
	xLocal, yLocal := s.Project(x, y)
	sign := side(yLocal)

	lambda = s.lambda(xLocal, yLocal)
	clipped, valid := s.clipLambda(lambda)
	if !valid {
		return sign * invalidDistance, lambda, false
	}
	return sign * s.normalDistance(xLocal, yLocal, clipped), clipped, true
}

// distanceAt evaluates the signed distance for an externally chosen lambda.
func (s *PathSegment) distanceAt(x, y, lambda float64) float64 {
	xLocal, yLocal := s.Project(x, y)
	return side(yLocal) * s.normalDistance(xLocal, yLocal, lambda)
}

// Tangent returns the interpolated path heading, in the global frame, for a
// point whose distance and lambda came from DistanceAndLambda.
func (s *PathSegment) Tangent(x, y, distance, lambda float64) float64 {
	if distance == 0 {
		// On the segment line the normal direction is undefined; blend the
		// boundary slopes instead.
		return lambda*s.slopeBase + (1-lambda)*s.slopeTip + s.theta
	}
	xLocal, yLocal := s.Project(x, y)
	dx := -(lambda*s.length - xLocal) / distance
	dy := yLocal / distance
	normal := math.Atan2(dy, dx)
	return normal - math.Pi/2 + s.theta
}

func (s *PathSegment) lambda(xLocal, yLocal float64) float64 {
	numerator := xLocal + yLocal*s.slopeBase
	denominator := s.length - yLocal*(s.slopeTip-s.slopeBase)
	return numerator / denominator
}

func (s *PathSegment) clipLambda(lambda float64) (float64, bool) {
	if math.IsNaN(lambda) {
		return lambda, false
	}
	if lambda >= 0 && lambda <= 1 {
		return lambda, true
	}
	switch s.mode {
	case SegmentFirst:
		if lambda < 0 {
			return 0, true
		}
	case SegmentLast:
		if lambda > 1 {
			return 1, true
		}
	}
	return lambda, false
}

func (s *PathSegment) normalDistance(xLocal, yLocal, lambda float64) float64 {
	return math.Hypot(lambda*s.length-xLocal, yLocal)
}

// side is +1 strictly left of the segment and -1 otherwise.
func side(yLocal float64) float64 {
	if yLocal > 0 {
		return 1
	}
	return -1
}
