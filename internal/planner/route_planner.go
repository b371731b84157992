package planner

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"arcade/internal/model"
	"arcade/internal/opt"
)

// RoutePlanner orders errands into a closed tour that starts and ends at home.
type RoutePlanner struct {
	Geocoder Geocoder
	Settings Settings
}

func NewRoutePlanner(g Geocoder, s Settings) *RoutePlanner {
	if g == nil {
		g = NewHashGeocoder()
	}
	return &RoutePlanner{Geocoder: g, Settings: s}
}

// Solve locates home (index 0) and the stops (1..n), runs the requested
// algorithm and returns the tour rotated to begin at home with home appended
// at the end. The reported distance is the cyclic route length, which already
// includes the leg back home. Earlier versions of this service added that leg a
// second time, so their total_distance figures are larger than these.
func (p *RoutePlanner) Solve(ctx context.Context, req model.RouteRequest) (model.RouteResult, error) {
	algo := req.Algorithm
	if algo == "" {
		algo = AlgoTwoOpt
	}
	if algo != AlgoTwoOpt && algo != AlgoAnnealing {
		return model.RouteResult{}, opt.UnsupportedAlgorithm(algo)
	}
	coords, err := p.locate(ctx, req)
	if err != nil {
		return model.RouteResult{}, err
	}
	res := model.RouteResult{Algorithm: algo, Coordinates: coords}
	if len(coords) < 2 {
		res.RouteOrder = []int{0}
		res.Route = []model.RouteStop{homeStop(req, coords[0])}
		return res, nil
	}

	start := time.Now()
	var (
		tour opt.Tour
		m    opt.Metrics
	)
	switch algo {
	case AlgoTwoOpt:
		maxIter := req.MaxIterations
		if maxIter <= 0 {
			maxIter = p.Settings.TwoOptMaxIterations
		}
		tour, m, err = opt.TwoOpt(coords, nil, maxIter)
	case AlgoAnnealing:
		seed := req.Seed
		if seed == 0 {
			seed = p.Settings.Seed
		}
		tour, m, err = opt.Anneal(coords, nil, p.schedule(req.Anneal), opt.NewRand(seed))
	}
	if err != nil {
		return model.RouteResult{}, err
	}
	res.ElapsedMs = float64(time.Since(start).Microseconds()) / 1000
	opt.RecordMetrics(algo, m)

	order := rotateToHome(tour.Route)
	order = append(order, 0)
	res.RouteOrder = order
	res.TotalDistance = tour.Length
	res.Metrics = m
	res.Route = make([]model.RouteStop, 0, len(order))
	for _, idx := range order {
		if idx == 0 {
			res.Route = append(res.Route, homeStop(req, coords[0]))
			continue
		}
		st := req.Stops[idx-1]
		res.Route = append(res.Route, model.RouteStop{
			Name:        st.Name,
			Address:     st.Address,
			Hours:       st.Hours,
			Duration:    st.Duration,
			Index:       idx,
			Coordinates: coords[idx],
		})
	}
	return res, nil
}

// Compare runs 2-opt and annealing on the same request concurrently.
func (p *RoutePlanner) Compare(ctx context.Context, req model.RouteRequest) (model.RouteComparison, error) {
	var out model.RouteComparison
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r := req
		r.Algorithm = AlgoTwoOpt
		res, err := p.Solve(gctx, r)
		out.TwoOpt = res
		return err
	})
	g.Go(func() error {
		r := req
		r.Algorithm = AlgoAnnealing
		res, err := p.Solve(gctx, r)
		out.Annealing = res
		return err
	})
	if err := g.Wait(); err != nil {
		return model.RouteComparison{}, err
	}
	diff := out.TwoOpt.TotalDistance - out.Annealing.TotalDistance
	out.Comparison = model.RouteDelta{
		DistanceDifference: diff,
		ImprovementPct:     pct(diff, out.TwoOpt.TotalDistance),
		SABetter:           out.Annealing.TotalDistance < out.TwoOpt.TotalDistance,
	}
	return out, nil
}

func (p *RoutePlanner) locate(ctx context.Context, req model.RouteRequest) ([]opt.Point, error) {
	coords := make([]opt.Point, 0, len(req.Stops)+1)
	if req.HomeLocation != nil {
		coords = append(coords, *req.HomeLocation)
	} else {
		pt, err := p.Geocoder.Geocode(ctx, req.Home)
		if err != nil {
			return nil, fmt.Errorf("geocode home: %w", err)
		}
		coords = append(coords, pt)
	}
	for i, st := range req.Stops {
		if st.Location != nil {
			coords = append(coords, *st.Location)
			continue
		}
		pt, err := p.Geocoder.Geocode(ctx, st.Address)
		if err != nil {
			return nil, fmt.Errorf("geocode stop %d: %w", i, err)
		}
		coords = append(coords, pt)
	}
	return coords, nil
}

func (p *RoutePlanner) schedule(o *model.AnnealOptions) opt.Schedule {
	s := p.Settings.Anneal
	if o == nil {
		return s
	}
	if o.InitialTemp != nil {
		s.InitialTemp = *o.InitialTemp
	}
	if o.CoolingRate != nil {
		s.CoolingRate = *o.CoolingRate
	}
	if o.MinTemp != nil {
		s.MinTemp = *o.MinTemp
	}
	if o.MaxIterations != nil {
		s.MaxIterations = *o.MaxIterations
	}
	return s
}

func homeStop(req model.RouteRequest, at opt.Point) model.RouteStop {
	return model.RouteStop{Name: "Home", Address: req.Home, Index: 0, Coordinates: at}
}

// rotateToHome returns route rotated so index 0 comes first.
func rotateToHome(route []int) []int {
	out := make([]int, 0, len(route)+1)
	for i, idx := range route {
		if idx == 0 {
			out = append(out, route[i:]...)
			return append(out, route[:i]...)
		}
	}
	return append(out, route...)
}
