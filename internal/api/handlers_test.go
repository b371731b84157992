package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"arcade/internal/config"
	"arcade/internal/store"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.Default()
	cfg.RateRPS = 0
	cfg.Solver.Seed = 11
	return New(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), store.NewMemory(), NewBroker())
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", rr.Body.String(), err)
	}
}

const squareRoute = `{"home":"home","home_location":{"x":0,"y":0},"stops":[
	{"name":"far","address":"far","location":{"x":10,"y":10}},
	{"name":"north","address":"north","location":{"x":0,"y":10}},
	{"name":"east","address":"east","location":{"x":10,"y":0}}]}`

const classicPacking = `{"budget":50,"max_weight":5,"items":[
	{"name":"a","value":60,"cost":10,"weight":1},
	{"name":"b","value":100,"cost":20,"weight":2},
	{"name":"c","value":120,"cost":30,"weight":3}]}`

func TestHealthReady(t *testing.T) {
	h := newTestServer(t).Handler()
	for _, p := range []string{"/", "/health", "/healthz", "/readyz"} {
		if rr := do(t, h, http.MethodGet, p, ""); rr.Code != http.StatusOK {
			t.Fatalf("%s: got %d", p, rr.Code)
		}
	}
	if rr := do(t, h, http.MethodGet, "/nope", ""); rr.Code != http.StatusNotFound {
		t.Fatalf("unknown path: got %d", rr.Code)
	}
}

func TestRouteSolveRecordsRun(t *testing.T) {
	s := newTestServer(t)
	h := s.Handler()
	rr := do(t, h, http.MethodPost, "/api/route/solve", squareRoute)
	if rr.Code != http.StatusOK {
		t.Fatalf("solve: %d %s", rr.Code, rr.Body.String())
	}
	var res struct {
		TotalDistance float64 `json:"total_distance"`
		RouteOrder    []int   `json:"route_order"`
		Algorithm     string  `json:"algorithm"`
		Route         []struct {
			Name string `json:"name"`
		} `json:"route"`
	}
	decode(t, rr, &res)
	if res.TotalDistance != 40 {
		t.Fatalf("distance: got %v want 40", res.TotalDistance)
	}
	if len(res.RouteOrder) != 5 || res.RouteOrder[0] != 0 || res.RouteOrder[4] != 0 {
		t.Fatalf("route order: %v", res.RouteOrder)
	}
	if res.Algorithm != "2opt" || res.Route[0].Name != "Home" {
		t.Fatalf("unexpected result: %+v", res)
	}

	id := rr.Header().Get("X-Run-Id")
	if id == "" {
		t.Fatal("missing X-Run-Id")
	}
	rr = do(t, h, http.MethodGet, "/api/runs/"+id, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("get run: %d", rr.Code)
	}
	var run struct {
		Kind      string  `json:"kind"`
		Objective float64 `json:"objective"`
		Size      int     `json:"size"`
	}
	decode(t, rr, &run)
	if run.Kind != "route" || run.Objective != 40 || run.Size != 3 {
		t.Fatalf("run: %+v", run)
	}
}

func TestRouteCompare(t *testing.T) {
	h := newTestServer(t).Handler()
	rr := do(t, h, http.MethodPost, "/api/route/compare", squareRoute)
	if rr.Code != http.StatusOK {
		t.Fatalf("compare: %d %s", rr.Code, rr.Body.String())
	}
	var cmp map[string]json.RawMessage
	decode(t, rr, &cmp)
	for _, k := range []string{"2opt", "simulated_annealing", "comparison"} {
		if _, ok := cmp[k]; !ok {
			t.Fatalf("missing %q in %s", k, rr.Body.String())
		}
	}
	rr = do(t, h, http.MethodGet, "/api/runs?kind=route", "")
	var page struct {
		Items []json.RawMessage `json:"items"`
	}
	decode(t, rr, &page)
	if len(page.Items) != 2 {
		t.Fatalf("compare should record two runs, got %d", len(page.Items))
	}
}

func TestRouteValidation(t *testing.T) {
	h := newTestServer(t).Handler()
	cases := map[string]string{
		"bad algorithm": `{"home":"h","stops":[],"algorithm":"astar"}`,
		"bad json":      `{"home":`,
		"neg duration":  `{"home":"h","stops":[{"name":"a","address":"x","duration":-1}]}`,
		"no address":    `{"home":"h","stops":[{"name":"a"}]}`,
		"bad cooling":   `{"home":"h","stops":[],"anneal":{"cooling_rate":1.5}}`,
	}
	for name, body := range cases {
		rr := do(t, h, http.MethodPost, "/api/route/solve", body)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("%s: got %d", name, rr.Code)
		}
		var p Problem
		decode(t, rr, &p)
		if p.Status != http.StatusBadRequest || p.Detail == "" {
			t.Fatalf("%s: problem %+v", name, p)
		}
	}
	if rr := do(t, h, http.MethodPost, "/api/route/solve", ""); rr.Code != http.StatusBadRequest {
		t.Fatalf("empty body: got %d", rr.Code)
	}
	if rr := do(t, h, http.MethodGet, "/api/route/solve", ""); rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("GET solve: got %d", rr.Code)
	}
}

func TestPackingSolveAndCompare(t *testing.T) {
	h := newTestServer(t).Handler()
	rr := do(t, h, http.MethodPost, "/api/packing/solve", classicPacking)
	if rr.Code != http.StatusOK {
		t.Fatalf("solve: %d %s", rr.Code, rr.Body.String())
	}
	var res struct {
		TotalValue      float64 `json:"total_value"`
		SelectedIndices []int   `json:"selected_indices"`
		BudgetUsedPct   float64 `json:"budget_used_pct"`
		Algorithm       string  `json:"algorithm"`
	}
	decode(t, rr, &res)
	if res.TotalValue != 220 || res.Algorithm != "dp" || res.BudgetUsedPct != 100 {
		t.Fatalf("dp result: %+v", res)
	}

	rr = do(t, h, http.MethodPost, "/api/packing/compare", classicPacking)
	if rr.Code != http.StatusOK {
		t.Fatalf("compare: %d", rr.Code)
	}
	var cmp struct {
		Comparison struct {
			ValueDifference float64 `json:"value_difference"`
			DPBetter        bool    `json:"dp_better"`
		} `json:"comparison"`
	}
	decode(t, rr, &cmp)
	if cmp.Comparison.ValueDifference != 60 || !cmp.Comparison.DPBetter {
		t.Fatalf("comparison: %+v", cmp.Comparison)
	}

	rr = do(t, h, http.MethodGet, "/api/runs/stats", "")
	var stats struct {
		Items []struct {
			Algorithm string `json:"algorithm"`
			Runs      int    `json:"runs"`
		} `json:"items"`
	}
	decode(t, rr, &stats)
	if len(stats.Items) != 2 || stats.Items[0].Algorithm != "dp" || stats.Items[0].Runs != 2 {
		t.Fatalf("stats: %+v", stats.Items)
	}
}

func TestPackingValidation(t *testing.T) {
	h := newTestServer(t).Handler()
	cases := map[string]string{
		"zero budget":    `{"budget":0,"max_weight":5,"items":[]}`,
		"zero weight":    `{"budget":5,"max_weight":0,"items":[]}`,
		"zero value":     `{"budget":5,"max_weight":5,"items":[{"name":"a","value":0,"cost":1,"weight":1}]}`,
		"negative cost":  `{"budget":5,"max_weight":5,"items":[{"name":"a","value":1,"cost":-1,"weight":1}]}`,
		"bad algorithm":  `{"budget":5,"max_weight":5,"items":[],"algorithm":"ilp"}`,
		"negative limit": `{"budget":5,"max_weight":5,"items":[],"category_limit":{"x":-1}}`,
		"huge budget":    `{"budget":1e17,"max_weight":10,"items":[{"name":"a","value":10,"cost":1,"weight":1}]}`,
		"huge cost":      `{"budget":5,"max_weight":5,"items":[{"name":"a","value":1,"cost":1e17,"weight":1}]}`,
	}
	for name, body := range cases {
		if rr := do(t, h, http.MethodPost, "/api/packing/solve", body); rr.Code != http.StatusBadRequest {
			t.Fatalf("%s: got %d", name, rr.Code)
		}
	}
}

func TestRunsQueryErrors(t *testing.T) {
	h := newTestServer(t).Handler()
	for path, want := range map[string]int{
		"/api/runs?kind=lineup":  http.StatusBadRequest,
		"/api/runs?cursor=abc":   http.StatusBadRequest,
		"/api/runs?limit=-2":     http.StatusBadRequest,
		"/api/runs/missing":      http.StatusNotFound,
		"/api/runs?kind=packing": http.StatusOK,
	} {
		if rr := do(t, h, http.MethodGet, path, ""); rr.Code != want {
			t.Fatalf("%s: got %d want %d", path, rr.Code, want)
		}
	}
}

func TestExamplesAndConfig(t *testing.T) {
	h := newTestServer(t).Handler()
	rr := do(t, h, http.MethodGet, "/api/route/example", "")
	var route struct {
		Stops []json.RawMessage `json:"stops"`
	}
	decode(t, rr, &route)
	if rr.Code != http.StatusOK || len(route.Stops) == 0 {
		t.Fatalf("route example: %d %s", rr.Code, rr.Body.String())
	}
	rr = do(t, h, http.MethodGet, "/api/packing/example", "")
	if rr.Code != http.StatusOK || !bytes.Contains(rr.Body.Bytes(), []byte(`"max_weight"`)) {
		t.Fatalf("packing example: %d", rr.Code)
	}
	rr = do(t, h, http.MethodGet, "/api/optimizer/config", "")
	if rr.Code != http.StatusOK || !bytes.Contains(rr.Body.Bytes(), []byte(`"cooling_rate":0.995`)) {
		t.Fatalf("config: %d %s", rr.Code, rr.Body.String())
	}
}

func TestSolverMetricsAfterSolve(t *testing.T) {
	h := newTestServer(t).Handler()
	if rr := do(t, h, http.MethodPost, "/api/route/solve", squareRoute); rr.Code != http.StatusOK {
		t.Fatalf("solve: %d", rr.Code)
	}
	rr := do(t, h, http.MethodGet, "/api/admin/solver-metrics?algo=2opt", "")
	var out struct {
		Items []struct {
			Algorithm string `json:"algorithm"`
		} `json:"items"`
	}
	decode(t, rr, &out)
	if len(out.Items) != 1 || out.Items[0].Algorithm != "2opt" {
		t.Fatalf("solver metrics: %+v", out.Items)
	}

	rr = do(t, h, http.MethodGet, "/metrics", "")
	if !bytes.Contains(rr.Body.Bytes(), []byte(`http_requests_total{method="POST",path="POST /api/route/solve",status="200"}`)) {
		t.Fatalf("metrics missing request counter")
	}
}

func TestDocsAndDebug(t *testing.T) {
	h := newTestServer(t).Handler()
	rr := do(t, h, http.MethodGet, "/openapi.json", "")
	var doc map[string]any
	decode(t, rr, &doc)
	if doc["openapi"] != "3.0.3" {
		t.Fatalf("openapi: %v", doc["openapi"])
	}
	for _, p := range []string{"/openapi.yaml", "/docs", "/debug/info"} {
		if rr := do(t, h, http.MethodGet, p, ""); rr.Code != http.StatusOK {
			t.Fatalf("%s: %d", p, rr.Code)
		}
	}
}

func TestCORS(t *testing.T) {
	h := newTestServer(t).Handler()
	req := httptest.NewRequest(http.MethodOptions, "/api/route/solve", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusNoContent || rr.Header().Get("Access-Control-Allow-Origin") != "http://localhost:5173" {
		t.Fatalf("preflight: %d %v", rr.Code, rr.Header())
	}

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://evil.example")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Fatal("unexpected CORS header for unknown origin")
	}
}

func TestRateLimit(t *testing.T) {
	cfg := config.Default()
	cfg.RateRPS = 0.001
	cfg.RateBurst = 1
	h := New(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), store.NewMemory(), NewBroker()).Handler()
	if rr := do(t, h, http.MethodGet, "/health", ""); rr.Code != http.StatusOK {
		t.Fatalf("first: %d", rr.Code)
	}
	rr := do(t, h, http.MethodGet, "/health", "")
	if rr.Code != http.StatusTooManyRequests || rr.Header().Get("Retry-After") == "" {
		t.Fatalf("second: %d", rr.Code)
	}
}

// sseRecorder is a ResponseWriter that implements http.Flusher and can be
// read while the handler is still writing.
type sseRecorder struct {
	mu  sync.Mutex
	hdr http.Header
	buf bytes.Buffer
}

func (r *sseRecorder) Header() http.Header {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.hdr == nil {
		r.hdr = http.Header{}
	}
	return r.hdr
}
func (r *sseRecorder) WriteHeader(int) {}
func (r *sseRecorder) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buf.Write(p)
}
func (r *sseRecorder) Flush() {}
func (r *sseRecorder) contains(s string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return strings.Contains(r.buf.String(), s)
}

func waitFor(t *testing.T, rec *sseRecorder, s string) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if rec.contains(s) {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("stream never contained %q", s)
}

func TestRunEventsSSE(t *testing.T) {
	s := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/api/runs/events", nil).WithContext(ctx)

	rec := &sseRecorder{}
	done := make(chan struct{})
	go func() {
		s.RunEventsHandler(rec, req)
		close(done)
	}()
	// the first heartbeat is written after subscribing
	waitFor(t, rec, "event: heartbeat")

	if rr := do(t, s.Handler(), http.MethodPost, "/api/packing/solve", classicPacking); rr.Code != http.StatusOK {
		t.Fatalf("solve: %d", rr.Code)
	}
	waitFor(t, rec, "event: run.completed")
	waitFor(t, rec, `"kind":"packing"`)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("handler did not exit after cancel")
	}
}
