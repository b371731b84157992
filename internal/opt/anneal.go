package opt

import (
	"math"
	"math/rand"
	"time"
)

// Schedule controls an annealing run. The loop runs while the temperature is
// above MinTemp and fewer than MaxIterations moves have been tried; the
// temperature is multiplied by CoolingRate after every move.
type Schedule struct {
	InitialTemp   float64 `json:"initial_temp" yaml:"initial_temp"`
	CoolingRate   float64 `json:"cooling_rate" yaml:"cooling_rate"`
	MinTemp       float64 `json:"min_temp" yaml:"min_temp"`
	MaxIterations int     `json:"max_iterations" yaml:"max_iterations"`
}

// Validate rejects schedules that cannot cool.
func (s Schedule) Validate() error {
	if s.CoolingRate <= 0 || s.CoolingRate >= 1 {
		return invalidf("cooling rate must be in (0,1), got %v", s.CoolingRate)
	}
	if s.MaxIterations < 0 {
		return invalidf("max iterations must be >= 0, got %d", s.MaxIterations)
	}
	if math.IsNaN(s.InitialTemp) || math.IsNaN(s.MinTemp) {
		return invalidf("temperatures must be numbers")
	}
	return nil
}

// NewRand returns a generator for seed. A zero seed is replaced by the clock.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// Anneal searches for a short route with simulated annealing over the 2-opt
// neighbourhood. When initial is nil a uniformly shuffled permutation drawn
// from rng is used. Cut points are drawn with i in [1,n-2] and k in [i+1,n-1]
// so position 0 never moves.
//
// A neighbour is accepted when it is shorter than the current route, or with
// probability exp(-delta/temp) otherwise. The best route ever seen is tracked
// apart from the current one, which may drift worse while the search goes on.
func Anneal(coords []Point, initial []int, s Schedule, rng *rand.Rand) (Tour, Metrics, error) {
	if err := s.Validate(); err != nil {
		return Tour{}, Metrics{}, err
	}
	if rng == nil {
		rng = NewRand(0)
	}
	n := len(coords)
	if n < 2 {
		return Tour{Route: identityRoute(n)}, Metrics{}, nil
	}

	var route []int
	if initial == nil {
		route = identityRoute(n)
		rng.Shuffle(n, func(i, j int) { route[i], route[j] = route[j], route[i] })
	} else {
		if err := ValidateRoute(initial, n); err != nil {
			return Tour{}, Metrics{}, err
		}
		route = append([]int(nil), initial...)
	}

	curDist := RouteLength(route, coords)
	best := route
	bestDist := curDist
	m := Metrics{InitialLength: curDist}
	temp := s.InitialTemp

	// With two stops there is no segment that excludes the anchor.
	if n > 2 {
		for temp > s.MinTemp && m.Iterations < s.MaxIterations {
			m.Iterations++
			i := 1 + rng.Intn(n-2)
			k := i + 1 + rng.Intn(n-1-i)
			cand := twoOptSwap(route, i, k)
			d := RouteLength(cand, coords)

			delta := d - curDist
			if delta < 0 || rng.Float64() < math.Exp(-delta/temp) {
				if delta > 0 {
					m.AcceptedWorse++
				}
				route = cand
				curDist = d
			}
			if d < bestDist {
				best = cand
				bestDist = d
				m.Improvements++
			}

			temp *= s.CoolingRate
			if m.Iterations%SnapshotEvery == 0 {
				m.Snapshots = append(m.Snapshots, Snapshot{Iteration: m.Iterations, Temp: temp, Current: curDist, BestLength: bestDist})
			}
		}
	}

	m.BestLength = bestDist
	m.FinalLength = curDist
	m.FinalTemp = temp
	return Tour{Route: append([]int(nil), best...), Length: bestDist}, m, nil
}
