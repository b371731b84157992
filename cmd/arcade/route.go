package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"arcade/internal/model"
	"arcade/internal/planner"
)

func newRouteCmd(root *rootOptions) *cobra.Command {
	var (
		algorithm string
		compare   bool
		seed      int64
		example   bool
	)
	cmd := &cobra.Command{
		Use:   "route [problem.yaml|-]",
		Short: "Order errands into a closed tour from home",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := solverConfig(root)
			if err != nil {
				return err
			}
			var req model.RouteRequest
			switch {
			case example:
				req, err = planner.RouteExample()
			case len(args) == 1:
				err = readProblem(args[0], cmd.InOrStdin(), &req)
			default:
				return cmd.Usage()
			}
			if err != nil {
				return err
			}
			if algorithm != "" {
				req.Algorithm = algorithm
			}
			if seed != 0 {
				req.Seed = seed
			}

			p := planner.NewRoutePlanner(nil, cfg.Solver)
			if compare {
				cmp, err := p.Compare(cmd.Context(), req)
				if err != nil {
					return err
				}
				slog.Info("route compare", "stops", len(req.Stops), "2opt", cmp.TwoOpt.TotalDistance, "simulated_annealing", cmp.Annealing.TotalDistance)
				return printJSON(cmd.OutOrStdout(), cmp)
			}
			res, err := p.Solve(cmd.Context(), req)
			if err != nil {
				return err
			}
			slog.Info("route solved", "stops", len(req.Stops), "algorithm", res.Algorithm, "distance", res.TotalDistance, "elapsed_ms", res.ElapsedMs)
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().StringVar(&algorithm, "algorithm", "", "2opt or simulated_annealing (overrides the file)")
	cmd.Flags().BoolVar(&compare, "compare", false, "Run both algorithms and report the difference")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Annealing seed (0 uses the configured seed)")
	cmd.Flags().BoolVar(&example, "example", false, "Solve the built-in example instead of a file")
	return cmd
}
