package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"arcade/internal/model"
	"arcade/internal/planner"
)

func newPackingCmd() *cobra.Command {
	var (
		algorithm string
		compare   bool
		example   bool
	)
	cmd := &cobra.Command{
		Use:   "packing [problem.yaml|-]",
		Short: "Pick items under budget, weight and category limits",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				req model.PackingRequest
				err error
			)
			switch {
			case example:
				req, err = planner.PackingExample()
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

			p := planner.NewPackingPlanner()
			if compare {
				cmp, err := p.Compare(cmd.Context(), req)
				if err != nil {
					return err
				}
				slog.Info("packing compare", "items", len(req.Items), "dp", cmp.DP.TotalValue, "greedy", cmp.Greedy.TotalValue)
				return printJSON(cmd.OutOrStdout(), cmp)
			}
			res, err := p.Solve(cmd.Context(), req)
			if err != nil {
				return err
			}
			slog.Info("packing solved", "items", len(req.Items), "algorithm", res.Algorithm, "value", res.TotalValue)
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().StringVar(&algorithm, "algorithm", "", "dp or greedy (overrides the file)")
	cmd.Flags().BoolVar(&compare, "compare", false, "Run both algorithms and report the difference")
	cmd.Flags().BoolVar(&example, "example", false, "Solve the built-in example instead of a file")
	return cmd
}
