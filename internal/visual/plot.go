package visual

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/frenet/internal/config"
	"github.com/banshee-data/frenet/internal/frenet"
)

// tangentField exposes every stride-th mesh cell's heading as a unit vector.
type tangentField struct {
	f      *Field
	stride int
}

func (t tangentField) Dims() (c, r int) {
	return (len(t.f.Xs) + t.stride - 1) / t.stride, (len(t.f.Ys) + t.stride - 1) / t.stride
}

func (t tangentField) Vector(c, r int) plotter.XY {
	a := t.f.Angle[r*t.stride][c*t.stride]
	return plotter.XY{X: math.Cos(a), Y: math.Sin(a)}
}

func (t tangentField) X(c int) float64 { return t.f.Xs[c*t.stride] }
func (t tangentField) Y(r int) float64 { return t.f.Ys[r*t.stride] }

// NewFieldPlot draws the clipped distance as a diverging heat map, the zero
// distance contour, the tangent arrows and the reference polyline.
func NewFieldPlot(title string, m *frenet.PathMatcher, f *Field, cfg *config.ToolConfig) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "x (m)"
	p.Y.Label.Text = "y (m)"

	heat := plotter.NewHeatMap(f, moreland.SmoothBlueRed().Palette(255))
	heat.Rasterized = true
	p.Add(heat)

	zero := plotter.NewContour(f, []float64{0}, nil)
	zero.LineStyles[0].Color = color.Black
	zero.LineStyles[0].Width = vg.Points(1)
	zero.LineStyles[0].Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	p.Add(zero)

	arrows := plotter.NewField(tangentField{f: f, stride: cfg.GetArrowStride()})
	arrows.LineStyle.Color = color.Gray{Y: 64}
	arrows.LineStyle.Width = vg.Points(0.5)
	p.Add(arrows)

	pts := make(plotter.XYs, 0, m.Len()+1)
	for _, v := range m.Vertices() {
		pts = append(pts, plotter.XY{X: v.X, Y: v.Y})
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, fmt.Errorf("reference line: %w", err)
	}
	line.Width = vg.Points(2)
	line.Color = color.Black
	p.Add(line)
	p.Legend.Add("reference path", line)

	vertices, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, fmt.Errorf("reference vertices: %w", err)
	}
	vertices.GlyphStyle.Radius = vg.Points(2.5)
	p.Add(vertices)

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10
	return p, nil
}

// RenderPNG plots f and saves it to file at the configured size. The image
// format follows the file extension.
func RenderPNG(file, title string, m *frenet.PathMatcher, f *Field, cfg *config.ToolConfig) error {
	p, err := NewFieldPlot(title, m, f, cfg)
	if err != nil {
		return err
	}
	w := vg.Length(cfg.GetPlotWidthInches()) * vg.Inch
	h := vg.Length(cfg.GetPlotHeightInches()) * vg.Inch
	if err := p.Save(w, h, file); err != nil {
		return fmt.Errorf("failed to save field plot: %w", err)
	}
	return nil
}
