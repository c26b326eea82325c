// Package visual renders the distance and tangent fields of a reference path
// as PNG plots (gonum/plot) and interactive HTML charts (go-echarts).
package visual

import (
	"context"
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/banshee-data/frenet/internal/config"
	"github.com/banshee-data/frenet/internal/frenet"
)

// Field is a regular mesh of signed distances and path headings around a
// reference path. Distance and Angle are indexed [row][col], rows following Ys.
type Field struct {
	Xs, Ys   []float64
	Distance [][]float64 // clipped to ±Bound
	Angle    [][]float64 // radians
	Bound    float64
}

// SampleField evaluates Tangent over a mesh covering the path extent plus
// the configured padding. Rows are sampled concurrently.
func SampleField(ctx context.Context, m *frenet.PathMatcher, cfg *config.ToolConfig) (*Field, error) {
	xs, ys := splitVertices(m.Vertices())
	pad := cfg.GetMeshPadding()
	n := cfg.GetMeshResolution()

	f := &Field{
		Xs:       floats.Span(make([]float64, n), floats.Min(xs)-pad, floats.Max(xs)+pad),
		Ys:       floats.Span(make([]float64, n), floats.Min(ys)-pad, floats.Max(ys)+pad),
		Distance: make([][]float64, n),
		Angle:    make([][]float64, n),
		Bound:    cfg.GetDistanceBound(),
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for r := range f.Ys {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			dist := make([]float64, len(f.Xs))
			angle := make([]float64, len(f.Xs))
			for c, x := range f.Xs {
				d, a, err := m.Tangent(x, f.Ys[r])
				if err != nil {
					return fmt.Errorf("sample (%g, %g): %w", x, f.Ys[r], err)
				}
				dist[c] = math.Max(-f.Bound, math.Min(f.Bound, d))
				angle[c] = a
			}
			f.Distance[r] = dist
			f.Angle[r] = angle
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return f, nil
}

// Dims, Z, X and Y let a Field act as a gonum plotter.GridXYZ of distances.
func (f *Field) Dims() (c, r int)   { return len(f.Xs), len(f.Ys) }
func (f *Field) Z(c, r int) float64 { return f.Distance[r][c] }
func (f *Field) X(c int) float64    { return f.Xs[c] }
func (f *Field) Y(r int) float64    { return f.Ys[r] }

// Min and Max pin the colour scale to the clip bound.
func (f *Field) Min() float64 { return -f.Bound }
func (f *Field) Max() float64 { return f.Bound }

func splitVertices(vs []r2.Vec) (xs, ys []float64) {
	xs = make([]float64, len(vs))
	ys = make([]float64, len(vs))
	for i, v := range vs {
		xs[i], ys[i] = v.X, v.Y
	}
	return xs, ys
}
