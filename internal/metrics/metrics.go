package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry is the dedicated Prometheus registry for the service.
	Registry = prometheus.NewRegistry()

	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "path", "status"},
	)
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"method", "path", "status"},
	)

	// SolverRuns counts solver invocations by problem kind, algorithm and outcome.
	SolverRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "solver_runs_total", Help: "Solver runs by kind, algorithm and status."},
		[]string{"kind", "algorithm", "status"},
	)
	SolverDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "solver_duration_ms", Help: "Solver wall time in ms.", Buckets: []float64{0.1, 0.5, 1, 5, 10, 50, 100, 500, 1000, 5000}},
		[]string{"kind", "algorithm"},
	)
	// SolverObjective is the objective of the most recent run: tour length for
	// routes, total value for packing.
	SolverObjective = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{Name: "solver_last_objective", Help: "Objective value of the last run."},
		[]string{"kind", "algorithm"},
	)
)

// RegisterDefault registers the collectors on Registry once.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(HTTPRequests)
		Registry.MustRegister(HTTPDuration)
		Registry.MustRegister(SolverRuns)
		Registry.MustRegister(SolverDuration)
		Registry.MustRegister(SolverObjective)
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}

var regOnce sync.Once

// ObserveSolve records one finished solver run. err marks the run failed.
func ObserveSolve(kind, algorithm string, objective, elapsedMs float64, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	SolverRuns.WithLabelValues(kind, algorithm, status).Inc()
	if err != nil {
		return
	}
	SolverDuration.WithLabelValues(kind, algorithm).Observe(elapsedMs)
	SolverObjective.WithLabelValues(kind, algorithm).Set(objective)
}

// Handler serves Registry in the Prometheus text format.
func Handler() http.Handler {
	RegisterDefault()
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
