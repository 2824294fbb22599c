package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dd0wney/entitygraph/pkg/config"
	"github.com/dd0wney/entitygraph/pkg/logging"
)

// app holds state shared by every subcommand
type app struct {
	cfgPath  string
	logLevel string

	cfg    *config.Config
	logger logging.Logger
	out    io.Writer
	errOut io.Writer
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, errOut: errOut}

	root := &cobra.Command{
		Use:   "entitygraph",
		Short: "Maintain connected components of an entity graph tick by tick",
		Long: `entitygraph keeps an undirected graph over simulation entities and tracks
its connected components incrementally. Each tick applies queued connect and
disconnect requests and recomputes only the components they touched.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	root.PersistentFlags().StringVar(&a.cfgPath, "config", "", "path to YAML config file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(newDemoCmd(a), newRunCmd(a), newSimulateCmd(a))
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.cfgPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("log-level") {
		if _, ok := logging.LookupLevel(a.logLevel); !ok {
			return fmt.Errorf("unknown log level %q", a.logLevel)
		}
		cfg.LogLevel = a.logLevel
	}

	a.cfg = cfg
	a.logger = logging.NewJSONLogger(a.errOut, cfg.Level())
	logging.SetDefaultLogger(a.logger)
	return nil
}
