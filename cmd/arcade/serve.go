package main

import (
	"github.com/spf13/cobra"

	"arcade/internal/config"
	"arcade/internal/server"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long:  `Serves the solver API on $PORT (default 8000) until interrupted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(root.cfgPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = root.logLevel
			}
			return server.RunConfig(cfg)
		},
	}
}
