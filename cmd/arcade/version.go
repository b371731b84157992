package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"arcade/internal/buildinfo"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			info := buildinfo.Info()
			fmt.Fprintf(cmd.OutOrStdout(), "arcade version %s (commit %s, built %s)\n", info["version"], info["commit"], info["builtAt"])
		},
	}
}
