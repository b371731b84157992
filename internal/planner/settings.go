package planner

import "arcade/internal/opt"

// Algorithm identifiers accepted by the planners.
const (
	AlgoTwoOpt    = "2opt"
	AlgoAnnealing = "simulated_annealing"
	AlgoDP        = "dp"
	AlgoGreedy    = "greedy"
)

// Settings are the solver defaults applied when a request leaves a knob unset.
type Settings struct {
	TwoOptMaxIterations int          `json:"two_opt_max_iterations" yaml:"two_opt_max_iterations"`
	Anneal              opt.Schedule `json:"anneal" yaml:"anneal"`
	// Seed for annealing when the request has none; 0 seeds from the clock.
	Seed int64 `json:"seed" yaml:"seed"`
}

func DefaultSettings() Settings {
	return Settings{
		TwoOptMaxIterations: 1000,
		Anneal: opt.Schedule{
			InitialTemp:   1000,
			CoolingRate:   0.995,
			MinTemp:       0.1,
			MaxIterations: 10000,
		},
	}
}

func pct(part, whole float64) float64 {
	if whole > 0 {
		return part / whole * 100
	}
	return 0
}
