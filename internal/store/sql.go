package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"arcade/internal/model"
)

type Dialect string

const (
	DialectPostgres Dialect = "pgx"
	DialectSQLite   Dialect = "sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

// SQL stores runs in Postgres or SQLite through database/sql.
type SQL struct {
	db      *sql.DB
	dialect Dialect
}

func NewSQL(ctx context.Context, d Dialect, dsn string) (*SQL, error) {
	db, err := sql.Open(string(d), dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", d, err)
	}
	if d == DialectSQLite {
		// one writer; concurrent writers on a pooled sqlite handle hit SQLITE_BUSY
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", d, err)
	}
	s := &SQL{db: db, dialect: d}
	if err := s.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Migrate applies the embedded migrations in file name order. Every
// statement is idempotent.
func (s *SQL) Migrate(ctx context.Context) error {
	names, err := fs.Glob(migrations, "migrations/*.sql")
	if err != nil {
		return err
	}
	sort.Strings(names)
	for _, name := range names {
		body, err := migrations.ReadFile(name)
		if err != nil {
			return err
		}
		for _, stmt := range strings.Split(string(body), ";") {
			if strings.TrimSpace(stmt) == "" {
				continue
			}
			if _, err := s.db.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("migrate %s: %w", name, err)
			}
		}
	}
	return nil
}

func (s *SQL) SaveRun(ctx context.Context, rec model.RunRecord) (model.RunRecord, error) {
	rec = stamp(rec)
	_, err := s.db.ExecContext(ctx, s.rebind(`INSERT INTO solver_runs (id, kind, algorithm, objective, size, iterations, duration_ms, created_at) VALUES (?,?,?,?,?,?,?,?)`),
		rec.ID, rec.Kind, rec.Algorithm, rec.Objective, rec.Size, rec.Iterations, rec.DurationMs, rec.CreatedAt)
	if err != nil {
		return model.RunRecord{}, fmt.Errorf("insert run: %w", err)
	}
	return rec, nil
}

const runColumns = `id, kind, algorithm, objective, size, iterations, duration_ms, created_at`

func (s *SQL) GetRun(ctx context.Context, id string) (model.RunRecord, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(`SELECT `+runColumns+` FROM solver_runs WHERE id = ?`), id)
	rec, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.RunRecord{}, ErrNotFound
	}
	return rec, err
}

func (s *SQL) ListRuns(ctx context.Context, kind, cursor string, limit int) ([]model.RunRecord, string, error) {
	offset, err := parseCursor(cursor)
	if err != nil {
		return nil, "", err
	}
	limit = clampLimit(limit)
	q := `SELECT ` + runColumns + ` FROM solver_runs`
	args := []any{}
	if kind != "" {
		q += ` WHERE kind = ?`
		args = append(args, kind)
	}
	// one extra row tells whether another page exists
	q += ` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`
	args = append(args, limit+1, offset)

	rows, err := s.db.QueryContext(ctx, s.rebind(q), args...)
	if err != nil {
		return nil, "", fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()
	out := []model.RunRecord{}
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, "", err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, "", err
	}
	next := ""
	if len(out) > limit {
		out = out[:limit]
		next = strconv.Itoa(offset + limit)
	}
	return out, next, nil
}

func (s *SQL) RunStats(ctx context.Context) ([]model.AlgoStats, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT kind, algorithm, COUNT(*), AVG(objective), AVG(duration_ms) FROM solver_runs GROUP BY kind, algorithm`)
	if err != nil {
		return nil, fmt.Errorf("run stats: %w", err)
	}
	defer rows.Close()
	out := []model.AlgoStats{}
	for rows.Next() {
		var st model.AlgoStats
		if err := rows.Scan(&st.Kind, &st.Algorithm, &st.Runs, &st.AvgObjective, &st.AvgDurationMs); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sortStats(out)
	return out, nil
}

func (s *SQL) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }
func (s *SQL) Close() error                   { return s.db.Close() }

type scanner interface{ Scan(dest ...any) error }

func scanRun(sc scanner) (model.RunRecord, error) {
	var rec model.RunRecord
	err := sc.Scan(&rec.ID, &rec.Kind, &rec.Algorithm, &rec.Objective, &rec.Size, &rec.Iterations, &rec.DurationMs, &rec.CreatedAt)
	if err != nil {
		return model.RunRecord{}, err
	}
	rec.CreatedAt = rec.CreatedAt.UTC()
	return rec, nil
}

// rebind rewrites ? placeholders to $1, $2, ... for Postgres.
func (s *SQL) rebind(q string) string {
	if s.dialect != DialectPostgres {
		return q
	}
	var b strings.Builder
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
