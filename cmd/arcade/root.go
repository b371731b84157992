package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"arcade/internal/config"
)

type rootOptions struct {
	logLevel string
	cfgPath  string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "arcade",
		Short: "Route ordering and packing solvers",
		Long: `arcade orders errands into a short closed tour (2-opt or simulated
annealing) and picks items under budget, weight and category limits
(knapsack DP or greedy). It runs one-off problems from a file or serves
the HTTP API.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := config.ParseLevel(opts.logLevel)
			if err != nil {
				return err
			}
			handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
			slog.SetDefault(slog.New(handler))
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&opts.cfgPath, "config", "", "YAML config file (defaults to $ARCADE_CONFIG)")

	cmd.AddCommand(newRouteCmd(opts), newPackingCmd(), newServeCmd(opts), newVersionCmd())
	return cmd
}

// solverConfig loads the config for solver defaults. Only the solver section
// matters to one-off runs.
func solverConfig(opts *rootOptions) (config.Config, error) {
	return config.Load(opts.cfgPath)
}
