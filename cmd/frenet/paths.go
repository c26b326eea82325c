package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/banshee-data/frenet/internal/frenet"
	"github.com/banshee-data/frenet/internal/security"
	"github.com/banshee-data/frenet/internal/units"
	"github.com/banshee-data/frenet/internal/visual"
)

type pathInfo struct {
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	Vertices     int       `json:"vertices"`
	Segments     int       `json:"segments"`
	Units        string    `json:"units"`
	MaxArcLength float64   `json:"max_arc_length"`
	ArcLengths   []float64 `json:"arc_lengths"`
	Headings     []float64 `json:"headings"`
}

type matchResult struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	S       float64 `json:"s"`
	D       float64 `json:"d"`
	Heading float64 `json:"heading"`
}

type point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func newInfoCmd(a *app) *cobra.Command {
	var lengthUnits string
	cmd := &cobra.Command{
		Use:   "info <path>",
		Short: "Describe a reference path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !units.IsValid(lengthUnits) {
				return fmt.Errorf("invalid units %q, expected one of: %s", lengthUnits, units.GetValidUnitsString())
			}
			p, m, err := a.loadMatcher(args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), pathInfo{
				Name:         p.Name,
				Description:  p.Description,
				Vertices:     len(p.Vertices),
				Segments:     m.Len(),
				Units:        lengthUnits,
				MaxArcLength: units.ConvertLength(m.MaxArcLength(), lengthUnits),
				ArcLengths:   units.ConvertLengths(m.ArcLengths(), lengthUnits),
				Headings:     m.Headings(),
			})
		},
	}
	cmd.Flags().StringVar(&lengthUnits, "units", units.Metres, "length units for arc lengths ("+units.GetValidUnitsString()+")")
	return cmd
}

func newMatchCmd(a *app) *cobra.Command {
	var html string
	cmd := &cobra.Command{
		Use:   "match <path> x y [x y ...]",
		Short: "Map Cartesian points to arc length, offset and path heading",
		Args:  pairArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if html != "" {
				if err := security.ValidateOutputPath(html, a.cfg.GetAllowedDirs()); err != nil {
					return err
				}
			}
			p, m, err := a.loadMatcher(args[0])
			if err != nil {
				return err
			}
			values, err := parseFloats(args[1:])
			if err != nil {
				return err
			}
			results := make([]matchResult, 0, len(values)/2)
			points := make([]r2.Vec, 0, len(values)/2)
			for i := 0; i < len(values); i += 2 {
				x, y := values[i], values[i+1]
				s, d, heading, err := m.OrientedMatch(x, y)
				if err != nil {
					return err
				}
				results = append(results, matchResult{X: x, Y: y, S: s, D: d, Heading: heading})
				points = append(points, r2.Vec{X: x, Y: y})
			}
			if html != "" {
				err := writeHTML(html, func(w io.Writer) error {
					return visual.ProfileChart(w, fmt.Sprintf("%s profile", p.Name), m, points)
				})
				if err != nil {
					return err
				}
			}
			return writeJSON(cmd.OutOrStdout(), results)
		},
	}
	cmd.Flags().StringVar(&html, "html", "", "also write the (s, d) profile of the points as an HTML chart")
	return cmd
}

func newReconstructCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reconstruct <path> s d [s d ...]",
		Short: "Map arc length and offset pairs back to Cartesian points",
		Args:  pairArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, m, err := a.loadMatcher(args[0])
			if err != nil {
				return err
			}
			values, err := parseFloats(args[1:])
			if err != nil {
				return err
			}
			coords := make([]frenet.Frenet, 0, len(values)/2)
			for i := 0; i < len(values); i += 2 {
				coords = append(coords, frenet.Frenet{S: values[i], D: values[i+1]})
			}
			pts, err := frenet.NewTransform(m).ToCartesian(coords)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), toPoints(pts))
		},
	}
}

func newExpandCmd(a *app) *cobra.Command {
	var taper bool
	cmd := &cobra.Command{
		Use:   "expand <path> x y s [s ...]",
		Short: "Expand a longitudinal profile from a start point into Cartesian points",
		Args:  cobra.MinimumNArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, m, err := a.loadMatcher(args[0])
			if err != nil {
				return err
			}
			values, err := parseFloats(args[1:])
			if err != nil {
				return err
			}

			taperOffset := a.cfg.GetExpandTaperOffset()
			if cmd.Flags().Changed("taper") {
				taperOffset = taper
			}

			start := r2.Vec{X: values[0], Y: values[1]}
			pts, err := frenet.NewTransform(m).Expand(start, values[2:], taperOffset)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), toPoints(pts))
		},
	}
	cmd.Flags().BoolVar(&taper, "taper", true, "taper the start offset to zero along the profile; unset uses expand_taper_offset")
	return cmd
}

// pairArgs accepts a path followed by one or more coordinate pairs.
func pairArgs(cmd *cobra.Command, args []string) error {
	if len(args) < 3 || (len(args)-1)%2 != 0 {
		return fmt.Errorf("%s needs a path and coordinate pairs, got %d values", cmd.Name(), len(args)-1)
	}
	return nil
}

func parseFloats(args []string) ([]float64, error) {
	values := make([]float64, len(args))
	for i, arg := range args {
		v, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", arg)
		}
		values[i] = v
	}
	return values, nil
}

func toPoints(vs []r2.Vec) []point {
	pts := make([]point, len(vs))
	for i, v := range vs {
		pts[i] = point{X: v.X, Y: v.Y}
	}
	return pts
}
