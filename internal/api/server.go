package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"golang.org/x/time/rate"

	"arcade/internal/config"
	"arcade/internal/metrics"
	"arcade/internal/planner"
	"arcade/internal/store"
)

type Server struct {
	Store   store.Store
	Broker  EventBroker
	Routes  *planner.RoutePlanner
	Packing *planner.PackingPlanner
	Config  config.Config
	Log     *slog.Logger

	limiter *rate.Limiter
}

// NewServer wires the store and broker named by cfg. An empty DatabaseURL
// selects the in-memory store and an empty RedisURL the in-process broker.
// A Redis broker that cannot connect falls back to the in-process one.
func NewServer(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	st, err := store.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	var broker EventBroker = NewBroker()
	if cfg.RedisURL != "" {
		rb, err := NewRedisBroker(ctx, cfg.RedisURL, logger)
		if err != nil {
			logger.Warn("redis broker unavailable, using in-process broker", "err", err)
		} else {
			broker = rb
		}
	}
	return New(cfg, logger, st, broker), nil
}

// New assembles a Server from ready dependencies.
func New(cfg config.Config, logger *slog.Logger, st store.Store, broker EventBroker) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		Store:   st,
		Broker:  broker,
		Routes:  planner.NewRoutePlanner(nil, cfg.Solver),
		Packing: planner.NewPackingPlanner(),
		Config:  cfg,
		Log:     logger,
	}
	if cfg.RateRPS > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RateRPS), max(cfg.RateBurst, 1))
	}
	metrics.RegisterDefault()
	return s
}

// Handler returns the routed mux wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.RootHandler)
	mux.HandleFunc("GET /health", s.HealthHandler)
	mux.HandleFunc("GET /healthz", s.HealthHandler)
	mux.HandleFunc("GET /readyz", s.ReadyHandler)

	// Route planning
	mux.HandleFunc("POST /api/route/solve", s.RouteSolveHandler)
	mux.HandleFunc("POST /api/route/compare", s.RouteCompareHandler)
	mux.HandleFunc("GET /api/route/example", s.RouteExampleHandler)

	// Packing
	mux.HandleFunc("POST /api/packing/solve", s.PackingSolveHandler)
	mux.HandleFunc("POST /api/packing/compare", s.PackingCompareHandler)
	mux.HandleFunc("GET /api/packing/example", s.PackingExampleHandler)

	mux.HandleFunc("GET /api/optimizer/config", s.OptimizerConfigHandler)

	// Run history
	mux.HandleFunc("GET /api/runs", s.RunsHandler)
	mux.HandleFunc("GET /api/runs/stats", s.RunStatsHandler)
	mux.HandleFunc("GET /api/runs/events", s.RunEventsHandler)
	mux.HandleFunc("GET /api/runs/ws", s.RunWSHandler)
	mux.HandleFunc("GET /api/runs/{id}", s.RunByIDHandler)

	// Admin
	mux.HandleFunc("GET /api/admin/solver-metrics", s.SolverMetricsHandler)
	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("GET /debug/info", s.DebugJSON)
	mux.HandleFunc("GET /openapi.yaml", s.OpenAPIHandler)
	mux.HandleFunc("GET /openapi.json", s.OpenAPIJSONHandler)
	mux.HandleFunc("GET /docs", s.DocsHandler)

	var h http.Handler = mux
	h = s.rateLimit(h)
	h = s.cors(h)
	h = metricsMiddleware(h)
	h = s.logMiddleware(h)
	return h
}

// Close releases the broker and the store.
func (s *Server) Close() error {
	return errors.Join(s.Broker.Close(), s.Store.Close())
}
