package infra

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// SQLExecutor is the query surface the repositories use. Every query must
// start with a "--sql <uuid>" marker line.
type SQLExecutor interface {
	Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, query string, args ...any) pgx.Row
	Query(ctx context.Context, query string, args ...any) (pgx.Rows, error)
}

var markerRegexp = regexp.MustCompile(`^--sql [0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

// ErrMissingMarker is returned before a query without a valid marker reaches the pool.
var ErrMissingMarker = errors.New("sql marker missing or invalid")

// SlowQuery is the duration above which a statement is logged at warn.
const SlowQuery = 500 * time.Millisecond

func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// SQLRunner checks markers and logs each statement by marker, never by text
// or arguments.
type SQLRunner struct {
	Pool   *pgxpool.Pool
	Logger zerolog.Logger
}

func NewSQLRunner(pool *pgxpool.Pool, logger zerolog.Logger) *SQLRunner {
	return &SQLRunner{Pool: pool, Logger: logger.With().Str("component", "sql").Logger()}
}

func (r *SQLRunner) Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	marker, body, err := extractMarker(query)
	if err != nil {
		return pgconn.CommandTag{}, err
	}
	start := time.Now()
	tag, err := r.Pool.Exec(ctx, body, args...)
	r.finish(marker, "exec", start, err)
	return tag, err
}

func (r *SQLRunner) QueryRow(ctx context.Context, query string, args ...any) pgx.Row {
	marker, body, err := extractMarker(query)
	if err != nil {
		return errorRow{err: err}
	}
	return loggedRow{row: r.Pool.QueryRow(ctx, body, args...), runner: r, marker: marker, start: time.Now()}
}

func (r *SQLRunner) Query(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
	marker, body, err := extractMarker(query)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	rows, err := r.Pool.Query(ctx, body, args...)
	if err != nil {
		r.finish(marker, "query", start, err)
		return nil, err
	}
	return &loggedRows{Rows: rows, runner: r, marker: marker, start: start}, nil
}

func (r *SQLRunner) finish(marker, op string, start time.Time, err error) {
	elapsed := time.Since(start)
	switch {
	case err != nil && !IsNoRows(err):
		r.Logger.Error().Err(err).Str("op", op).Dur("elapsed", elapsed).Msgf("sql[%s] error", marker)
	case elapsed > SlowQuery:
		r.Logger.Warn().Str("op", op).Dur("elapsed", elapsed).Msgf("sql[%s] slow", marker)
	default:
		r.Logger.Debug().Str("op", op).Dur("elapsed", elapsed).Msgf("sql[%s] ok", marker)
	}
}

type loggedRow struct {
	row    pgx.Row
	runner *SQLRunner
	marker string
	start  time.Time
}

func (l loggedRow) Scan(dest ...any) error {
	err := l.row.Scan(dest...)
	l.runner.finish(l.marker, "query_row", l.start, err)
	return err
}

type loggedRows struct {
	pgx.Rows
	runner *SQLRunner
	marker string
	start  time.Time
	done   bool
}

func (l *loggedRows) Close() {
	l.Rows.Close()
	if !l.done {
		l.done = true
		l.runner.finish(l.marker, "query", l.start, l.Rows.Err())
	}
}

type errorRow struct{ err error }

func (e errorRow) Scan(...any) error { return e.err }

// ExtractMarker splits a marked query into its marker and SQL body.
func ExtractMarker(query string) (string, string, error) { return extractMarker(query) }

func extractMarker(query string) (string, string, error) {
	first, rest, _ := strings.Cut(strings.TrimSpace(query), "\n")
	first = strings.TrimSpace(first)
	if !markerRegexp.MatchString(first) {
		return "", "", ErrMissingMarker
	}
	return strings.TrimPrefix(first, "--sql "), rest, nil
}

var _ SQLExecutor = (*SQLRunner)(nil)
