package store

import (
	"context"
	"errors"
	"strings"

	"arcade/internal/model"
)

// Store keeps a summary of every solver run.
type Store interface {
	SaveRun(ctx context.Context, rec model.RunRecord) (model.RunRecord, error)
	GetRun(ctx context.Context, id string) (model.RunRecord, error)
	// ListRuns returns runs newest first. kind filters when non-empty; cursor
	// is the value returned by the previous page.
	ListRuns(ctx context.Context, kind, cursor string, limit int) ([]model.RunRecord, string, error)
	RunStats(ctx context.Context) ([]model.AlgoStats, error)
	Ping(ctx context.Context) error
	Close() error
}

var (
	ErrNotFound  = errors.New("not found")
	ErrBadCursor = errors.New("invalid cursor")
)

const (
	defaultLimit = 50
	maxLimit     = 500
)

func clampLimit(n int) int {
	if n <= 0 {
		return defaultLimit
	}
	if n > maxLimit {
		return maxLimit
	}
	return n
}

// Open picks an implementation from dsn: empty means in memory,
// postgres:// and postgresql:// use Postgres, sqlite:// and file: use SQLite.
func Open(ctx context.Context, dsn string) (Store, error) {
	dsn = strings.TrimSpace(dsn)
	switch {
	case dsn == "":
		return NewMemory(), nil
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return NewSQL(ctx, DialectPostgres, dsn)
	case strings.HasPrefix(dsn, "sqlite://"):
		return NewSQL(ctx, DialectSQLite, strings.TrimPrefix(dsn, "sqlite://"))
	case strings.HasPrefix(dsn, "file:"), strings.HasSuffix(dsn, ".db"):
		return NewSQL(ctx, DialectSQLite, dsn)
	}
	return nil, errors.New("unsupported database url: want postgres://, sqlite:// or file:")
}
