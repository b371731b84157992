package opt

import "math"

// Point is a planar location. It has no identity beyond its index in the
// coordinate slice handed to a solver.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Distance returns the Euclidean distance between a and b.
func Distance(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// RouteLength sums the legs of route over coords, including the closing leg
// from the last index back to the first. Routes shorter than two stops have
// length zero.
func RouteLength(route []int, coords []Point) float64 {
	n := len(route)
	if n < 2 {
		return 0
	}
	total := 0.0
	for i := 0; i < n; i++ {
		total += Distance(coords[route[i]], coords[route[(i+1)%n]])
	}
	return total
}

// twoOptSwap returns a copy of ord with the segment [i,k] reversed.
func twoOptSwap(ord []int, i, k int) []int {
	out := make([]int, len(ord))
	copy(out, ord[:i])
	pos := i
	for j := k; j >= i; j-- {
		out[pos] = ord[j]
		pos++
	}
	copy(out[pos:], ord[k+1:])
	return out
}

func identityRoute(n int) []int {
	r := make([]int, n)
	for i := range r {
		r[i] = i
	}
	return r
}

// startRoute copies initial, or builds the identity permutation when initial
// is nil. A supplied route must be a permutation of 0..n-1.
func startRoute(n int, initial []int) ([]int, error) {
	if initial == nil {
		return identityRoute(n), nil
	}
	if err := ValidateRoute(initial, n); err != nil {
		return nil, err
	}
	return append([]int(nil), initial...), nil
}

// ValidateRoute reports whether route visits every index in 0..n-1 exactly once.
func ValidateRoute(route []int, n int) error {
	if len(route) != n {
		return invalidf("route has %d stops, want %d", len(route), n)
	}
	seen := make([]bool, n)
	for _, idx := range route {
		if idx < 0 || idx >= n {
			return invalidf("route index %d out of range [0,%d)", idx, n)
		}
		if seen[idx] {
			return invalidf("route visits index %d twice", idx)
		}
		seen[idx] = true
	}
	return nil
}
