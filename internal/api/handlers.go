package api

import (
	"context"
	"net/http"
	"sort"
	"time"

	"arcade/internal/buildinfo"
	"arcade/internal/metrics"
	"arcade/internal/model"
	"arcade/internal/opt"
	"arcade/internal/planner"
)

func (s *Server) RootHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Algorithms Arcade API",
		"status":  "running",
		"version": buildinfo.Version,
	})
}

func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) ReadyHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
	defer cancel()
	if err := s.Store.Ping(ctx); err != nil {
		writeProblem(w, http.StatusServiceUnavailable, "Not Ready", err.Error(), r.URL.Path)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// RouteSolveHandler handles POST /api/route/solve
func (s *Server) RouteSolveHandler(w http.ResponseWriter, r *http.Request) {
	var req model.RouteRequest
	if !s.decodeRoute(w, r, &req) {
		return
	}
	res, err := s.solveRoute(r.Context(), req)
	if err != nil {
		writeError(w, r, "Route solve failed", err)
		return
	}
	if id := s.recordRoute(r.Context(), req, res); id != "" {
		w.Header().Set("X-Run-Id", id)
	}
	writeJSON(w, http.StatusOK, res)
}

// RouteCompareHandler handles POST /api/route/compare
func (s *Server) RouteCompareHandler(w http.ResponseWriter, r *http.Request) {
	var req model.RouteRequest
	if !s.decodeRoute(w, r, &req) {
		return
	}
	cmp, err := s.Routes.Compare(r.Context(), req)
	if err != nil {
		metrics.ObserveSolve(model.KindRoute, "compare", 0, 0, err)
		writeError(w, r, "Route compare failed", err)
		return
	}
	for _, res := range []model.RouteResult{cmp.TwoOpt, cmp.Annealing} {
		metrics.ObserveSolve(model.KindRoute, res.Algorithm, res.TotalDistance, res.ElapsedMs, nil)
		s.recordRoute(r.Context(), req, res)
	}
	writeJSON(w, http.StatusOK, cmp)
}

func (s *Server) RouteExampleHandler(w http.ResponseWriter, r *http.Request) {
	req, err := planner.RouteExample()
	if err != nil {
		writeError(w, r, "Example unavailable", err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

// PackingSolveHandler handles POST /api/packing/solve
func (s *Server) PackingSolveHandler(w http.ResponseWriter, r *http.Request) {
	var req model.PackingRequest
	if !s.decodePacking(w, r, &req) {
		return
	}
	res, err := s.Packing.Solve(r.Context(), req)
	metrics.ObserveSolve(model.KindPacking, orDefault(req.Algorithm, planner.AlgoDP), res.TotalValue, res.ElapsedMs, err)
	if err != nil {
		writeError(w, r, "Packing solve failed", err)
		return
	}
	if id := s.recordPacking(r.Context(), req, res); id != "" {
		w.Header().Set("X-Run-Id", id)
	}
	writeJSON(w, http.StatusOK, res)
}

// PackingCompareHandler handles POST /api/packing/compare
func (s *Server) PackingCompareHandler(w http.ResponseWriter, r *http.Request) {
	var req model.PackingRequest
	if !s.decodePacking(w, r, &req) {
		return
	}
	cmp, err := s.Packing.Compare(r.Context(), req)
	if err != nil {
		metrics.ObserveSolve(model.KindPacking, "compare", 0, 0, err)
		writeError(w, r, "Packing compare failed", err)
		return
	}
	for _, res := range []model.PackingResult{cmp.DP, cmp.Greedy} {
		metrics.ObserveSolve(model.KindPacking, res.Algorithm, res.TotalValue, res.ElapsedMs, nil)
		s.recordPacking(r.Context(), req, res)
	}
	writeJSON(w, http.StatusOK, cmp)
}

func (s *Server) PackingExampleHandler(w http.ResponseWriter, r *http.Request) {
	req, err := planner.PackingExample()
	if err != nil {
		writeError(w, r, "Example unavailable", err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

// OptimizerConfigHandler returns the solver defaults applied to requests
// that leave a knob unset.
func (s *Server) OptimizerConfigHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"defaults": s.Config.Solver,
		"algorithms": map[string][]string{
			model.KindRoute:   {planner.AlgoTwoOpt, planner.AlgoAnnealing},
			model.KindPacking: {planner.AlgoDP, planner.AlgoGreedy},
		},
	})
}

// SolverMetricsHandler returns the iteration metrics of the last run of each
// route algorithm in this process. ?algo= narrows to one algorithm.
func (s *Server) SolverMetricsHandler(w http.ResponseWriter, r *http.Request) {
	algo := r.URL.Query().Get("algo")
	items := []map[string]any{}
	for a, m := range opt.LatestMetrics() {
		if algo != "" && a != algo {
			continue
		}
		items = append(items, map[string]any{"algorithm": a, "metrics": m})
	}
	sort.Slice(items, func(i, j int) bool { return items[i]["algorithm"].(string) < items[j]["algorithm"].(string) })
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (s *Server) decodeRoute(w http.ResponseWriter, r *http.Request, req *model.RouteRequest) bool {
	if err := decodeJSON(w, r, req); err != nil {
		writeError(w, r, "Invalid JSON", err)
		return false
	}
	if err := validateRouteRequest(req); err != nil {
		writeError(w, r, "Invalid route request", err)
		return false
	}
	return true
}

func (s *Server) decodePacking(w http.ResponseWriter, r *http.Request, req *model.PackingRequest) bool {
	if err := decodeJSON(w, r, req); err != nil {
		writeError(w, r, "Invalid JSON", err)
		return false
	}
	if err := validatePackingRequest(req); err != nil {
		writeError(w, r, "Invalid packing request", err)
		return false
	}
	return true
}

func (s *Server) solveRoute(ctx context.Context, req model.RouteRequest) (model.RouteResult, error) {
	res, err := s.Routes.Solve(ctx, req)
	metrics.ObserveSolve(model.KindRoute, orDefault(req.Algorithm, planner.AlgoTwoOpt), res.TotalDistance, res.ElapsedMs, err)
	return res, err
}

func (s *Server) recordRoute(ctx context.Context, req model.RouteRequest, res model.RouteResult) string {
	return s.recordRun(ctx, model.RunRecord{
		Kind:       model.KindRoute,
		Algorithm:  res.Algorithm,
		Objective:  res.TotalDistance,
		Size:       len(req.Stops),
		Iterations: res.Metrics.Iterations,
		DurationMs: res.ElapsedMs,
	})
}

func (s *Server) recordPacking(ctx context.Context, req model.PackingRequest, res model.PackingResult) string {
	return s.recordRun(ctx, model.RunRecord{
		Kind:       model.KindPacking,
		Algorithm:  res.Algorithm,
		Objective:  res.TotalValue,
		Size:       len(req.Items),
		DurationMs: res.ElapsedMs,
	})
}

// recordRun stores the summary and announces it on the runs topic. A store
// failure is logged and does not fail the request.
func (s *Server) recordRun(ctx context.Context, rec model.RunRecord) string {
	saved, err := s.Store.SaveRun(ctx, rec)
	if err != nil {
		s.Log.Warn("save run", "kind", rec.Kind, "algorithm", rec.Algorithm, "err", err)
		return ""
	}
	s.Broker.Publish(TopicRuns, Event{Type: EventRunComplete, Data: map[string]any{
		"id":          saved.ID,
		"kind":        saved.Kind,
		"algorithm":   saved.Algorithm,
		"objective":   saved.Objective,
		"size":        saved.Size,
		"iterations":  saved.Iterations,
		"duration_ms": saved.DurationMs,
		"created_at":  saved.CreatedAt.Format(time.RFC3339Nano),
	}})
	return saved.ID
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
