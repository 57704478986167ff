// Package main provides the roguehammer command line: headless simulation
// runs, layout validation and level map dumps.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cory-johannsen/roguehammer/internal/config"
	"github.com/cory-johannsen/roguehammer/internal/observability"
)

// env is the state every subcommand shares once the root has loaded it.
type env struct {
	configPath string
	cfg        config.Config
	logger     *zap.Logger
}

func newRootCmd() *cobra.Command {
	e := &env{}
	root := &cobra.Command{
		Use:           "roguehammer",
		Short:         "Room-based dungeon crawler simulation",
		Long:          `roguehammer runs procedurally populated dungeon levels headlessly and inspects their layouts.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(e.configPath)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			logger, err := observability.NewLogger(cfg.Logging)
			if err != nil {
				return fmt.Errorf("initializing logger: %w", err)
			}
			e.cfg = cfg
			e.logger = logger
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if e.logger != nil {
				_ = e.logger.Sync()
			}
		},
	}
	root.PersistentFlags().StringVar(&e.configPath, "config", "", "path to configuration file (defaults and ROGUEHAMMER_* env only when empty)")

	root.AddCommand(newSimulateCmd(e))
	root.AddCommand(newLayoutsCmd(e))
	root.AddCommand(newMapCmd(e))
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
