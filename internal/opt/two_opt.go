package opt

// TwoOpt improves a route by first-improvement 2-opt. When initial is nil the
// identity permutation is used. Index 0 is the anchor and is never moved.
//
// Each iteration scans i ascending from 1 and, for each i, k ascending from
// i+1; the first reversal of [i,k] that strictly shortens the route is applied
// and the scan restarts from the top. The search stops when a full scan finds
// no improving move or maxIterations scans have run.
func TwoOpt(coords []Point, initial []int, maxIterations int) (Tour, Metrics, error) {
	n := len(coords)
	if n < 2 {
		return Tour{Route: identityRoute(n)}, Metrics{}, nil
	}
	route, err := startRoute(n, initial)
	if err != nil {
		return Tour{}, Metrics{}, err
	}

	bestDist := RouteLength(route, coords)
	m := Metrics{InitialLength: bestDist}
	improved := true
	for improved && m.Iterations < maxIterations {
		improved = false
		m.Iterations++
	scan:
		for i := 1; i < n-1; i++ {
			for k := i + 1; k < n; k++ {
				cand := twoOptSwap(route, i, k)
				d := RouteLength(cand, coords)
				if d < bestDist {
					route = cand
					bestDist = d
					improved = true
					m.Improvements++
					break scan
				}
			}
		}
	}
	m.BestLength = bestDist
	m.FinalLength = bestDist
	return Tour{Route: route, Length: bestDist}, m, nil
}
