package opt

import "sync"

var (
	mu     sync.Mutex
	latest = map[string]Metrics{}
)

// RecordMetrics keeps the metrics of the most recent run of algo.
func RecordMetrics(algo string, m Metrics) {
	mu.Lock()
	latest[algo] = m
	mu.Unlock()
}

// LatestMetrics returns a copy of the most recent metrics per algorithm.
func LatestMetrics() map[string]Metrics {
	mu.Lock()
	defer mu.Unlock()
	out := make(map[string]Metrics, len(latest))
	for k, v := range latest {
		out[k] = v
	}
	return out
}
