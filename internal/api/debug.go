package api

import (
	"net/http"
	"time"

	"arcade/internal/buildinfo"
)

// DebugJSON reports build info and the non-secret parts of the config.
func (s *Server) DebugJSON(w http.ResponseWriter, r *http.Request) {
	c := s.Config
	writeJSON(w, http.StatusOK, map[string]any{
		"build": buildinfo.Info(),
		"time":  time.Now().UTC().Format(time.RFC3339),
		"config": map[string]any{
			"PORT":             c.Port,
			"ALLOW_ORIGINS":    c.AllowOrigins,
			"RATE_RPS":         c.RateRPS,
			"RATE_BURST":       c.RateBurst,
			"LOG_LEVEL":        c.LogLevel,
			"HAS_DATABASE_URL": c.DatabaseURL != "",
			"HAS_REDIS_URL":    c.RedisURL != "",
			"SOLVER":           c.Solver,
		},
	})
}
