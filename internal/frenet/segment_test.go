package frenet

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func straightSegment(mode SegmentMode) PathSegment {
	// 4 m segment along +x with headings equal to its direction.
	return newPathSegment(r2.Vec{X: 0, Y: 0}, 0, r2.Vec{X: 4, Y: 0}, 0, mode)
}

func TestSegmentMode_String(t *testing.T) {
	cases := map[SegmentMode]string{
		SegmentFirst:   "first",
		SegmentMiddle:  "middle",
		SegmentLast:    "last",
		SegmentMode(9): "unknown",
	}
	for mode, want := range cases {
		if got := mode.String(); got != want {
			t.Errorf("SegmentMode(%d).String() = %q, want %q", int(mode), got, want)
		}
	}
}

func TestNewPathSegment_Geometry(t *testing.T) {
	seg := newPathSegment(r2.Vec{X: 1, Y: 1}, 0, r2.Vec{X: 4, Y: 5}, math.Pi/2, SegmentMiddle)

	if seg.Length(1) != 5 {
		t.Errorf("Length(1) = %v, want 5", seg.Length(1))
	}
	if got := seg.Length(0.5); got != 2.5 {
		t.Errorf("Length(0.5) = %v, want 2.5", got)
	}
	if math.Abs(seg.Theta()-math.Atan2(4, 3)) > 1e-15 {
		t.Errorf("Theta() = %v, want %v", seg.Theta(), math.Atan2(4, 3))
	}
	if math.Abs(seg.slopeBase-math.Tan(-seg.theta)) > 1e-12 {
		t.Errorf("slopeBase = %v, want %v", seg.slopeBase, math.Tan(-seg.theta))
	}
	if math.Abs(seg.slopeTip-math.Tan(math.Pi/2-seg.theta)) > 1e-12 {
		t.Errorf("slopeTip = %v, want %v", seg.slopeTip, math.Tan(math.Pi/2-seg.theta))
	}
	hb, ht := seg.Headings()
	if hb != 0 || ht != math.Pi/2 {
		t.Errorf("Headings() = (%v, %v), want (0, %v)", hb, ht, math.Pi/2)
	}
	if seg.Base() != (r2.Vec{X: 1, Y: 1}) || seg.Tip() != (r2.Vec{X: 4, Y: 5}) {
		t.Errorf("unexpected endpoints base=%v tip=%v", seg.Base(), seg.Tip())
	}
	if seg.Mode() != SegmentMiddle {
		t.Errorf("Mode() = %v, want middle", seg.Mode())
	}
}

func TestPathSegment_Project(t *testing.T) {
	// Segment pointing along +y: left of travel is -x.
	seg := newPathSegment(r2.Vec{X: 2, Y: 0}, math.Pi/2, r2.Vec{X: 2, Y: 3}, math.Pi/2, SegmentMiddle)

	xLocal, yLocal := seg.Project(1, 2)
	if math.Abs(xLocal-2) > 1e-12 {
		t.Errorf("xLocal = %v, want 2", xLocal)
	}
	if math.Abs(yLocal-1) > 1e-12 {
		t.Errorf("yLocal = %v, want 1 (left of travel)", yLocal)
	}
}

func TestPathSegment_DistanceAndLambda_Inside(t *testing.T) {
	seg := straightSegment(SegmentMiddle)

	d, lambda, valid := seg.DistanceAndLambda(1, 2)
	if !valid {
		t.Fatal("expected a valid projection")
	}
	if lambda != 0.25 {
		t.Errorf("lambda = %v, want 0.25", lambda)
	}
	if d != 2 {
		t.Errorf("distance = %v, want 2", d)
	}

	d, _, _ = seg.DistanceAndLambda(3, -1.5)
	if d != -1.5 {
		t.Errorf("distance right of segment = %v, want -1.5", d)
	}
}

func TestPathSegment_DistanceAndLambda_OnLine(t *testing.T) {
	seg := straightSegment(SegmentMiddle)

	d, lambda, valid := seg.DistanceAndLambda(2, 0)
	if !valid || lambda != 0.5 {
		t.Fatalf("got lambda=%v valid=%v, want 0.5 true", lambda, valid)
	}
	if d != 0 {
		t.Errorf("distance = %v, want 0", d)
	}
}

func TestPathSegment_ClipByMode(t *testing.T) {
	tests := []struct {
		name       string
		mode       SegmentMode
		x, y       float64
		wantValid  bool
		wantLambda float64
		wantDist   float64
	}{
		{"middle before start", SegmentMiddle, -1, 1, false, -0.25, invalidDistance},
		{"middle past end", SegmentMiddle, 6, -1, false, 1.5, -invalidDistance},
		{"first before start clips", SegmentFirst, -3, 4, true, 0, 5},
		{"first past end rejects", SegmentFirst, 6, 1, false, 1.5, invalidDistance},
		{"last past end clips", SegmentLast, 7, -4, true, 1, -5},
		{"last before start rejects", SegmentLast, -1, -1, false, -0.25, -invalidDistance},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seg := straightSegment(tt.mode)
			d, lambda, valid := seg.DistanceAndLambda(tt.x, tt.y)
			if valid != tt.wantValid {
				t.Fatalf("valid = %v, want %v", valid, tt.wantValid)
			}
			if lambda != tt.wantLambda {
				t.Errorf("lambda = %v, want %v", lambda, tt.wantLambda)
			}
			if d != tt.wantDist {
				t.Errorf("distance = %v, want %v", d, tt.wantDist)
			}
		})
	}
}

func TestPathSegment_UndefinedLambda(t *testing.T) {
	seg := straightSegment(SegmentMiddle)
	seg.slopeTip = 0.5

	// xLocal + yLocal*slopeBase and length - yLocal*(slopeTip-slopeBase)
	// are both zero here.
	d, lambda, valid := seg.DistanceAndLambda(0, 8)
	if valid {
		t.Fatal("expected an invalid projection")
	}
	if !math.IsNaN(lambda) {
		t.Errorf("lambda = %v, want NaN", lambda)
	}
	if d != invalidDistance {
		t.Errorf("distance = %v, want %v", d, invalidDistance)
	}
}

func TestPathSegment_SkewedLambda(t *testing.T) {
	// Both boundary tangents tilted by atan(0.5): lambda follows the tilted
	// lines rather than an orthogonal projection.
	h := math.Atan(0.5)
	seg := newPathSegment(r2.Vec{X: 2, Y: 2}, h, r2.Vec{X: 4, Y: 2}, h, SegmentMiddle)

	d, lambda, valid := seg.DistanceAndLambda(3, 2.5)
	if !valid {
		t.Fatal("expected a valid projection")
	}
	if math.Abs(lambda-0.625) > 1e-12 {
		t.Errorf("lambda = %v, want 0.625", lambda)
	}
	if math.Abs(d-math.Hypot(0.25, 0.5)) > 1e-12 {
		t.Errorf("distance = %v, want %v", d, math.Hypot(0.25, 0.5))
	}
}

func TestPathSegment_Tangent(t *testing.T) {
	seg := straightSegment(SegmentMiddle)

	d, lambda, _ := seg.DistanceAndLambda(1, 1)
	if got := seg.Tangent(1, 1, d, lambda); math.Abs(got) > 1e-12 {
		t.Errorf("tangent off the line = %v, want 0", got)
	}

	// On the line the slope blend is used.
	tilted := newPathSegment(r2.Vec{X: 0, Y: 0}, math.Atan(0.5), r2.Vec{X: 2, Y: 0}, 0, SegmentLast)
	d, lambda, _ = tilted.DistanceAndLambda(1, 0)
	if d != 0 {
		t.Fatalf("distance = %v, want 0", d)
	}
	if got := tilted.Tangent(1, 0, d, lambda); math.Abs(got-0.25) > 1e-12 {
		t.Errorf("tangent on the line = %v, want 0.25", got)
	}
}
