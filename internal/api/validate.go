package api

import (
	"errors"
	"fmt"
	"math"

	"arcade/internal/model"
	"arcade/internal/opt"
	"arcade/internal/planner"
)

var errValidation = errors.New("invalid request")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errValidation, fmt.Sprintf(format, args...))
}

func finite(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }

func validateRouteRequest(req *model.RouteRequest) error {
	switch req.Algorithm {
	case "", planner.AlgoTwoOpt, planner.AlgoAnnealing:
	default:
		return invalid("algorithm must be 2opt or simulated_annealing, got %q", req.Algorithm)
	}
	if req.MaxIterations < 0 {
		return invalid("max_iterations must be >= 0")
	}
	for i, st := range req.Stops {
		if st.Duration < 0 {
			return invalid("stops[%d].duration must be >= 0", i)
		}
		if st.Address == "" && st.Location == nil {
			return invalid("stops[%d] needs an address or a location", i)
		}
	}
	if req.Anneal != nil && req.Anneal.CoolingRate != nil {
		if c := *req.Anneal.CoolingRate; c <= 0 || c >= 1 {
			return invalid("anneal.cooling_rate must be in (0,1)")
		}
	}
	if req.Anneal != nil && req.Anneal.MaxIterations != nil && *req.Anneal.MaxIterations < 0 {
		return invalid("anneal.max_iterations must be >= 0")
	}
	return nil
}

func validatePackingRequest(req *model.PackingRequest) error {
	switch req.Algorithm {
	case "", planner.AlgoDP, planner.AlgoGreedy:
	default:
		return invalid("algorithm must be dp or greedy, got %q", req.Algorithm)
	}
	if !finite(req.Budget) || req.Budget <= 0 {
		return invalid("budget must be > 0")
	}
	if !finite(req.MaxWeight) || req.MaxWeight <= 0 {
		return invalid("max_weight must be > 0")
	}
	if req.Budget > opt.MaxAmount || req.MaxWeight > opt.MaxAmount {
		return invalid("budget and max_weight must be <= %d", opt.MaxAmount)
	}
	for i, it := range req.Items {
		if it.Cost > opt.MaxAmount || it.Weight > opt.MaxAmount {
			return invalid("items[%d] cost and weight must be <= %d", i, opt.MaxAmount)
		}
		if !finite(it.Value) || it.Value <= 0 {
			return invalid("items[%d].value must be > 0", i)
		}
		if !finite(it.Weight) || it.Weight < 0 {
			return invalid("items[%d].weight must be >= 0", i)
		}
		if !finite(it.Cost) || it.Cost < 0 {
			return invalid("items[%d].cost must be >= 0", i)
		}
	}
	for cat, n := range req.CategoryLimit {
		if n < 0 {
			return invalid("category_limit[%s] must be >= 0", cat)
		}
	}
	return nil
}
