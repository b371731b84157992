package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"arcade/internal/model"
)

const heartbeatEvery = 15 * time.Second

// RunsHandler handles GET /api/runs?kind=&cursor=&limit=
func (s *Server) RunsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	kind := q.Get("kind")
	if kind != "" && kind != model.KindRoute && kind != model.KindPacking {
		writeProblem(w, http.StatusBadRequest, "Invalid kind", "kind must be route or packing", r.URL.Path)
		return
	}
	limit := 0
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeProblem(w, http.StatusBadRequest, "Invalid limit", "limit must be a non-negative integer", r.URL.Path)
			return
		}
		limit = n
	}
	items, next, err := s.Store.ListRuns(r.Context(), kind, q.Get("cursor"), limit)
	if err != nil {
		writeError(w, r, "List runs failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items, "next_cursor": next})
}

// RunByIDHandler handles GET /api/runs/{id}
func (s *Server) RunByIDHandler(w http.ResponseWriter, r *http.Request) {
	rec, err := s.Store.GetRun(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, "Run not found", err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) RunStatsHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := s.Store.RunStats(r.Context())
	if err != nil {
		writeError(w, r, "Run stats failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": stats})
}

// RunEventsHandler streams run.completed events as server-sent events.
func (s *Server) RunEventsHandler(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeProblem(w, http.StatusInternalServerError, "Streaming unsupported", "", r.URL.Path)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := s.Broker.Subscribe(TopicRuns)
	defer s.Broker.Unsubscribe(TopicRuns, ch)

	heartbeat := func() {
		fmt.Fprintf(w, "event: heartbeat\ndata: {\"ts\":%q}\n\n", time.Now().UTC().Format(time.RFC3339))
		flusher.Flush()
	}
	heartbeat()
	tick := time.NewTicker(heartbeatEvery)
	defer tick.Stop()
	for {
		select {
		case <-r.Context().Done():
			return
		case evt, ok := <-ch:
			if !ok {
				return
			}
			b, _ := json.Marshal(evt.Data)
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", evt.Type, b)
			flusher.Flush()
		case <-tick.C:
			heartbeat()
		}
	}
}
