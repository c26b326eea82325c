package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/banshee-data/frenet/internal/config"
	"github.com/banshee-data/frenet/internal/frenet"
	"github.com/banshee-data/frenet/internal/monitoring"
	"github.com/banshee-data/frenet/internal/pathio"
	"github.com/banshee-data/frenet/internal/pathstore"
	"github.com/banshee-data/frenet/internal/version"
)

// storePrefix selects a stored path instead of a file, e.g. "store:main-street".
const storePrefix = "store:"

// app holds the state shared by every subcommand of one invocation.
type app struct {
	configPath string
	dbPath     string
	verbose    bool

	cfg *config.ToolConfig
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:          "frenet",
		Short:        "Curvilinear (Frenet) coordinates along polyline reference paths",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "tool config JSON file (defaults built in)")
	root.PersistentFlags().StringVar(&a.dbPath, "db", "", "path store database (overrides database_path)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "verbose logging")

	root.AddCommand(
		newInfoCmd(a),
		newMatchCmd(a),
		newReconstructCmd(a),
		newExpandCmd(a),
		newPlotCmd(a),
		newStoreCmd(a),
		&cobra.Command{
			Use:   "version",
			Short: "Print build information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "frenet %s\n", version.String())
			},
		},
	)
	return root
}

func (a *app) init() error {
	monitoring.SetVerbose(a.verbose)

	var err error
	if a.configPath != "" {
		a.cfg, err = config.Load(a.configPath)
	} else {
		a.cfg, err = config.LoadDefault()
	}
	if err != nil {
		return err
	}
	if a.dbPath != "" {
		a.cfg.DatabasePath = &a.dbPath
	}
	monitoring.Debugf("config: db=%s allowed=%v", a.cfg.GetDatabasePath(), a.cfg.GetAllowedDirs())
	return nil
}

func (a *app) openStore() (*pathstore.Store, error) {
	s, err := pathstore.Open(a.cfg.GetDatabasePath())
	if err != nil {
		return nil, err
	}
	if err := s.MigrateUp(); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// loadPath resolves ref to a path, either a file inside the allowed
// directories or a stored path named after the "store:" prefix.
func (a *app) loadPath(ref string) (*pathio.Path, error) {
	name, stored := strings.CutPrefix(ref, storePrefix)
	if !stored {
		return pathio.Load(ref, a.cfg.GetAllowedDirs())
	}

	s, err := a.openStore()
	if err != nil {
		return nil, err
	}
	defer s.Close()
	sp, err := s.GetByName(name)
	if err != nil {
		return nil, err
	}
	return sp.Path(), nil
}

func (a *app) loadMatcher(ref string) (*pathio.Path, *frenet.PathMatcher, error) {
	p, err := a.loadPath(ref)
	if err != nil {
		return nil, nil, err
	}
	m, err := p.Matcher()
	if err != nil {
		return nil, nil, err
	}
	return p, m, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
