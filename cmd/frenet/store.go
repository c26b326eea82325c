package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/banshee-data/frenet/internal/pathio"
	"github.com/banshee-data/frenet/internal/pathstore"
)

type storedSummary struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	Vertices     int       `json:"vertices"`
	MaxArcLength float64   `json:"max_arc_length"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func summarize(sp *pathstore.StoredPath) storedSummary {
	return storedSummary{
		ID:           sp.ID,
		Name:         sp.Name,
		Description:  sp.Description,
		Vertices:     len(sp.Vertices),
		MaxArcLength: sp.MaxArcLength,
		UpdatedAt:    sp.UpdatedAt,
	}
}

func newStoreCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Manage reference paths kept in the SQLite path store",
	}
	cmd.AddCommand(
		newStoreMigrateCmd(a),
		newStoreImportCmd(a),
		newStoreListCmd(a),
		newStoreShowCmd(a),
		newStoreDeleteCmd(a),
		newStoreExportCmd(a),
	)
	return cmd
}

func newStoreMigrateCmd(a *app) *cobra.Command {
	var down bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply schema migrations, or roll back the latest with --down",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := pathstore.Open(a.cfg.GetDatabasePath())
			if err != nil {
				return err
			}
			defer s.Close()

			if down {
				err = s.MigrateDown()
			} else {
				err = s.MigrateUp()
			}
			if err != nil {
				return err
			}
			version, dirty, err := s.MigrateVersion()
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), map[string]interface{}{"version": version, "dirty": dirty})
		},
	}
	cmd.Flags().BoolVar(&down, "down", false, "roll back the most recent migration")
	return cmd
}

func newStoreImportCmd(a *app) *cobra.Command {
	var replace bool
	cmd := &cobra.Command{
		Use:   "import <file> [file ...]",
		Short: "Import path files into the store",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			imported := make([]storedSummary, 0, len(args))
			for _, file := range args {
				p, err := pathio.Load(file, a.cfg.GetAllowedDirs())
				if err != nil {
					return err
				}
				sp := pathstore.FromPath(p)
				err = s.Insert(sp)
				if errors.Is(err, pathstore.ErrDuplicateName) && replace {
					sp, err = replaceVertices(s, p)
				}
				if err != nil {
					return fmt.Errorf("import %s: %w", file, err)
				}
				imported = append(imported, summarize(sp))
			}
			return writeJSON(cmd.OutOrStdout(), imported)
		},
	}
	cmd.Flags().BoolVar(&replace, "replace", false, "replace the vertices of paths that already exist")
	return cmd
}

func replaceVertices(s *pathstore.Store, p *pathio.Path) (*pathstore.StoredPath, error) {
	existing, err := s.GetByName(p.Name)
	if err != nil {
		return nil, err
	}
	if err := s.UpdateVertices(existing.ID, p.Vertices); err != nil {
		return nil, err
	}
	return s.Get(existing.ID)
}

func newStoreListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored paths",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			paths, err := s.List()
			if err != nil {
				return err
			}
			out := make([]storedSummary, len(paths))
			for i, sp := range paths {
				out[i] = summarize(sp)
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}
}

func newStoreShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Show a stored path with its vertices",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			sp, err := s.GetByName(args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), struct {
				storedSummary
				Points []point `json:"points"`
			}{summarize(sp), toPoints(sp.Vertices)})
		},
	}
}

func newStoreDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a stored path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			sp, err := s.GetByName(args[0])
			if err != nil {
				return err
			}
			if err := s.Delete(sp.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s (%s)\n", sp.Name, sp.ID)
			return nil
		},
	}
}

func newStoreExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export <name> <file>",
		Short: "Write a stored path to a JSON, YAML or CSV file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.loadPath(storePrefix + args[0])
			if err != nil {
				return err
			}
			if err := pathio.Save(args[1], p, a.cfg.GetAllowedDirs()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), args[1])
			return nil
		},
	}
}
