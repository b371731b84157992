//go:build postgres_integration

package store

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"arcade/internal/model"
)

func TestPostgresRoundTrip(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set; skipping integration test")
	}
	s, err := NewSQL(t.Context(), DialectPostgres, dsn)
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.Ping(t.Context()))

	rec, err := s.SaveRun(t.Context(), model.RunRecord{Kind: model.KindRoute, Algorithm: "2opt", Objective: 1, Size: 2})
	require.NoError(t, err)
	got, err := s.GetRun(t.Context(), rec.ID)
	require.NoError(t, err)
	require.Equal(t, rec.ID, got.ID)
	_, err = s.RunStats(t.Context())
	require.NoError(t, err)
}
