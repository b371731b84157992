package planner

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"arcade/internal/model"
	"arcade/internal/opt"
)

// PackingPlanner chooses which items to take under budget, weight and
// per-category limits.
type PackingPlanner struct{}

func NewPackingPlanner() *PackingPlanner { return &PackingPlanner{} }

// Solve runs the requested knapsack algorithm ("dp" by default).
func (p *PackingPlanner) Solve(ctx context.Context, req model.PackingRequest) (model.PackingResult, error) {
	if err := ctx.Err(); err != nil {
		return model.PackingResult{}, err
	}
	algo := req.Algorithm
	if algo == "" {
		algo = AlgoDP
	}
	var solve func([]opt.Item, opt.Limits) (opt.Selection, error)
	switch algo {
	case AlgoDP:
		solve = opt.KnapsackDP
	case AlgoGreedy:
		solve = opt.KnapsackGreedy
	default:
		return model.PackingResult{}, opt.UnsupportedAlgorithm(algo)
	}

	start := time.Now()
	sel, err := solve(req.Items, req.Limits())
	if err != nil {
		return model.PackingResult{}, err
	}
	return model.PackingResult{
		SelectedItems:   sel.Items,
		SelectedIndices: sel.Indices,
		TotalValue:      sel.TotalValue,
		TotalCost:       sel.TotalCost,
		TotalWeight:     sel.TotalWeight,
		BudgetUsedPct:   pct(sel.TotalCost, req.Budget),
		WeightUsedPct:   pct(sel.TotalWeight, req.MaxWeight),
		Algorithm:       algo,
		ElapsedMs:       float64(time.Since(start).Microseconds()) / 1000,
	}, nil
}

// Compare runs the exact and greedy solvers on the same request.
func (p *PackingPlanner) Compare(ctx context.Context, req model.PackingRequest) (model.PackingComparison, error) {
	var out model.PackingComparison
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r := req
		r.Algorithm = AlgoDP
		res, err := p.Solve(gctx, r)
		out.DP = res
		return err
	})
	g.Go(func() error {
		r := req
		r.Algorithm = AlgoGreedy
		res, err := p.Solve(gctx, r)
		out.Greedy = res
		return err
	})
	if err := g.Wait(); err != nil {
		return model.PackingComparison{}, err
	}
	diff := out.DP.TotalValue - out.Greedy.TotalValue
	out.Comparison = model.PackingDelta{
		ValueDifference: diff,
		ImprovementPct:  pct(diff, out.Greedy.TotalValue),
		DPBetter:        out.DP.TotalValue > out.Greedy.TotalValue,
	}
	return out, nil
}
