package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/banshee-data/frenet/internal/monitoring"
	"github.com/banshee-data/frenet/internal/security"
	"github.com/banshee-data/frenet/internal/visual"
)

func newPlotCmd(a *app) *cobra.Command {
	var out, html string
	cmd := &cobra.Command{
		Use:   "plot <path>",
		Short: "Plot the signed distance and tangent field around a path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, m, err := a.loadMatcher(args[0])
			if err != nil {
				return err
			}
			if out == "" {
				out = security.SanitizeFilename(p.Name) + "_field.png"
			}
			allowed := a.cfg.GetAllowedDirs()
			if err := security.ValidateOutputPath(out, allowed); err != nil {
				return err
			}
			if html != "" {
				if err := security.ValidateOutputPath(html, allowed); err != nil {
					return err
				}
			}

			field, err := visual.SampleField(cmd.Context(), m, a.cfg)
			if err != nil {
				return err
			}
			title := fmt.Sprintf("%s signed distance", p.Name)
			if err := visual.RenderPNG(out, title, m, field, a.cfg); err != nil {
				return err
			}
			monitoring.Logf("wrote %s", out)
			fmt.Fprintln(cmd.OutOrStdout(), out)

			if html == "" {
				return nil
			}
			err = writeHTML(html, func(w io.Writer) error {
				return visual.RenderHTML(w, title, m, field, a.cfg.GetArrowStride())
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), html)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "PNG output file (default <name>_field.png)")
	cmd.Flags().StringVar(&html, "html", "", "also write an interactive HTML chart to this file")
	return cmd
}

// writeHTML renders a chart into file. The file is closed before returning so
// a failed flush is reported.
func writeHTML(file string, render func(w io.Writer) error) error {
	f, err := os.Create(file)
	if err != nil {
		return fmt.Errorf("create %s: %w", file, err)
	}
	if err := render(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", file, err)
	}
	monitoring.Logf("wrote %s", file)
	return nil
}
