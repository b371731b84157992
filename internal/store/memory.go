package store

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"arcade/internal/model"
)

// Memory is the store used when no DATABASE_URL is set.
type Memory struct {
	mu   sync.Mutex
	runs map[string]model.RunRecord
	seq  []string // ids in insertion order
}

func NewMemory() *Memory {
	return &Memory{runs: map[string]model.RunRecord{}}
}

func (m *Memory) SaveRun(ctx context.Context, rec model.RunRecord) (model.RunRecord, error) {
	rec = stamp(rec)
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.runs[rec.ID]; !ok {
		m.seq = append(m.seq, rec.ID)
	}
	m.runs[rec.ID] = rec
	return rec, nil
}

func (m *Memory) GetRun(ctx context.Context, id string) (model.RunRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.runs[id]
	if !ok {
		return model.RunRecord{}, ErrNotFound
	}
	return rec, nil
}

func (m *Memory) ListRuns(ctx context.Context, kind, cursor string, limit int) ([]model.RunRecord, string, error) {
	offset, err := parseCursor(cursor)
	if err != nil {
		return nil, "", err
	}
	limit = clampLimit(limit)

	m.mu.Lock()
	all := make([]model.RunRecord, 0, len(m.seq))
	for i := len(m.seq) - 1; i >= 0; i-- {
		rec := m.runs[m.seq[i]]
		if kind != "" && rec.Kind != kind {
			continue
		}
		all = append(all, rec)
	}
	m.mu.Unlock()

	sort.SliceStable(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	if offset >= len(all) {
		return []model.RunRecord{}, "", nil
	}
	end := offset + limit
	next := ""
	if end < len(all) {
		next = strconv.Itoa(end)
	} else {
		end = len(all)
	}
	return all[offset:end], next, nil
}

func (m *Memory) RunStats(ctx context.Context) ([]model.AlgoStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	type key struct{ kind, algo string }
	acc := map[key]*model.AlgoStats{}
	for _, id := range m.seq {
		rec := m.runs[id]
		k := key{rec.Kind, rec.Algorithm}
		st := acc[k]
		if st == nil {
			st = &model.AlgoStats{Kind: rec.Kind, Algorithm: rec.Algorithm}
			acc[k] = st
		}
		st.Runs++
		st.AvgObjective += rec.Objective
		st.AvgDurationMs += rec.DurationMs
	}
	out := make([]model.AlgoStats, 0, len(acc))
	for _, st := range acc {
		st.AvgObjective /= float64(st.Runs)
		st.AvgDurationMs /= float64(st.Runs)
		out = append(out, *st)
	}
	sortStats(out)
	return out, nil
}

func (m *Memory) Ping(ctx context.Context) error { return nil }
func (m *Memory) Close() error                   { return nil }

// stamp fills the id and creation time when unset.
func stamp(rec model.RunRecord) model.RunRecord {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	rec.CreatedAt = rec.CreatedAt.UTC()
	return rec
}

func sortStats(s []model.AlgoStats) {
	sort.Slice(s, func(i, j int) bool {
		if s[i].Kind != s[j].Kind {
			return s[i].Kind < s[j].Kind
		}
		return s[i].Algorithm < s[j].Algorithm
	})
}

func parseCursor(c string) (int, error) {
	if c == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(c)
	if err != nil || n < 0 {
		return 0, ErrBadCursor
	}
	return n, nil
}
