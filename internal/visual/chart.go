package visual

import (
	"fmt"
	"io"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/banshee-data/frenet/internal/frenet"
)

// Diverging blue to red, matching the PNG heat map.
var divergingColors = []string{"#3b4cc0", "#6f92f3", "#aac7fd", "#dddddd", "#f7b89c", "#e7745b", "#b40426"}

// RenderHTML writes an interactive scatter chart of the distance field,
// sampled every stride cells, with the reference vertices overlaid.
func RenderHTML(w io.Writer, title string, m *frenet.PathMatcher, f *Field, stride int) error {
	if stride < 1 {
		stride = 1
	}
	data := make([]opts.ScatterData, 0, (len(f.Xs)/stride+1)*(len(f.Ys)/stride+1))
	for r := 0; r < len(f.Ys); r += stride {
		for c := 0; c < len(f.Xs); c += stride {
			data = append(data, opts.ScatterData{Value: []interface{}{f.Xs[c], f.Ys[r], f.Distance[r][c]}})
		}
	}

	vertices := make([]opts.ScatterData, 0, m.Len()+1)
	for i, v := range m.Vertices() {
		vertices = append(vertices, opts.ScatterData{
			Name:   fmt.Sprintf("vertex %d", i),
			Value:  []interface{}{v.X, v.Y, 0},
			Symbol: "diamond",
		})
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "900px", Height: "900px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: fmt.Sprintf("segments=%d length=%.2fm cells=%d", m.Len(), m.MaxArcLength(), len(data))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Min: f.Xs[0], Max: f.Xs[len(f.Xs)-1], Name: "x (m)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Min: f.Ys[0], Max: f.Ys[len(f.Ys)-1], Name: "y (m)", NameLocation: "middle", NameGap: 30}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        float32(-f.Bound),
			Max:        float32(f.Bound),
			Dimension:  "2",
			InRange:    &opts.VisualMapInRange{Color: divergingColors},
		}),
	)
	scatter.AddSeries("signed distance", data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 4}))
	scatter.AddSeries("reference path", vertices, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 10}))

	if err := scatter.Render(w); err != nil {
		return fmt.Errorf("render field chart: %w", err)
	}
	return nil
}

// ProfileChart writes the Frenet profile of a point sequence: arc length on
// the x axis and lateral offset on the y axis, coloured by path heading.
func ProfileChart(w io.Writer, title string, m *frenet.PathMatcher, points []r2.Vec) error {
	data := make([]opts.ScatterData, 0, len(points))
	for i, p := range points {
		s, d, angle, err := m.OrientedMatch(p.X, p.Y)
		if err != nil {
			return fmt.Errorf("point %d: %w", i, err)
		}
		data = append(data, opts.ScatterData{Value: []interface{}{s, d, angle}})
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "1200px", Height: "480px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: fmt.Sprintf("points=%d", len(data))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Min: 0, Max: m.MaxArcLength(), Name: "s (m)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: "d (m)", NameLocation: "middle", NameGap: 30}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        -math.Pi,
			Max:        math.Pi,
			Dimension:  "2",
			InRange:    &opts.VisualMapInRange{Color: divergingColors},
		}),
	)
	scatter.AddSeries("profile", data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 6}))

	if err := scatter.Render(w); err != nil {
		return fmt.Errorf("render profile chart: %w", err)
	}
	return nil
}
