package store

import (
	"context"
	"fmt"
	"time"

	"ipclaim/internal/platform/logger"
	"ipclaim/internal/platform/store/pg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// seams for tests
var (
	pingPG      = func(ctx context.Context, p *pg.PG) error { return p.Ping(ctx) }
	pingBackoff = 250 * time.Millisecond
)

const maxPingBackoff = 4 * time.Second

// openPG opens the pool and waits for postgres to answer before publishing it
func openPG(ctx context.Context, cfg Config, log logger.Logger) (*pgStore, error) {
	p, err := pg.Open(ctx, pg.Config{
		URL:      cfg.PG.URL,
		AppName:  cfg.AppName,
		MaxConns: cfg.PG.MaxConns,
	})
	if err != nil {
		return nil, err
	}

	var lastErr error
	wait := pingBackoff
	for attempt := 1; attempt <= cfg.PG.retries(); attempt++ {
		pctx, cancel := context.WithTimeout(ctx, cfg.PG.pingTimeout())
		lastErr = pingPG(pctx, p)
		cancel()
		if lastErr == nil {
			return newPGStore(p, cfg.PG, log), nil
		}
		log.Warn().Err(lastErr).Int("attempt", attempt).Msg("postgres not ready")

		select {
		case <-ctx.Done():
			p.Close()
			return nil, ctx.Err()
		case <-time.After(wait):
		}
		wait = min(wait*2, maxPingBackoff)
	}
	p.Close()
	return nil, fmt.Errorf("postgres ping failed after %d attempts: %w", cfg.PG.retries(), lastErr)
}

// pgxQuerier is what *pgxpool.Pool and pgx.Tx have in common
type pgxQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// traced runs statements on q and reports each one to tracer
type traced struct {
	q      pgxQuerier
	tracer pg.QueryTracer
	slow   time.Duration
}

func (t traced) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	start := time.Now()
	ct, err := t.q.Exec(ctx, sql, args...)
	t.report(ctx, sql, args, start, err)
	return ct, err
}

func (t traced) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	start := time.Now()
	rs, err := t.q.Query(ctx, sql, args...)
	t.report(ctx, sql, args, start, err)
	if err != nil {
		return nil, err
	}
	return pgxRows{rs}, nil
}

// QueryRow reports once the row is scanned, so the scan error is part of the event
func (t traced) QueryRow(ctx context.Context, sql string, args ...any) Row {
	start := time.Now()
	r := t.q.QueryRow(ctx, sql, args...)
	return scanHook{r: r, done: func(err error) { t.report(ctx, sql, args, start, err) }}
}

func (t traced) report(ctx context.Context, sql string, args []any, start time.Time, err error) {
	if t.tracer == nil {
		return
	}
	d := time.Since(start)
	t.tracer.OnQuery(ctx, pg.QueryEvent{
		SQL:     sql,
		Args:    args,
		Elapsed: d,
		Err:     err,
		Slow:    t.slow > 0 && d >= t.slow,
	})
}

// pgStore is the TxRunner backed by a pgx pool
type pgStore struct {
	traced
	begin func(ctx context.Context) (pgx.Tx, error)
	ping  func(ctx context.Context) error
	close func()
}

func newPGStore(p *pg.PG, cfg PGConfig, log logger.Logger) *pgStore {
	var tracer pg.QueryTracer
	if cfg.LogSQL {
		tracer = pg.Tracer(log)
	}
	return &pgStore{
		traced: traced{q: p.Pool, tracer: tracer, slow: cfg.slow()},
		begin:  p.Pool.Begin,
		ping:   p.Ping,
		close:  p.Close,
	}
}

// Tx commits when fn returns nil and rolls back otherwise
func (s *pgStore) Tx(ctx context.Context, fn func(q RowQuerier) error) error {
	tx, err := s.begin(ctx)
	if err != nil {
		return err
	}
	if err := fn(traced{q: tx, tracer: s.tracer, slow: s.slow}); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

func (s *pgStore) Ping(ctx context.Context) error { return s.ping(ctx) }

func (s *pgStore) Close() error {
	s.close()
	return nil
}

type pgxRows struct{ pgx.Rows }

func (r pgxRows) Columns() []string {
	fds := r.FieldDescriptions()
	cols := make([]string, len(fds))
	for i, fd := range fds {
		cols[i] = fd.Name
	}
	return cols
}

type scanHook struct {
	r    pgx.Row
	done func(error)
}

func (h scanHook) Scan(dest ...any) error {
	err := h.r.Scan(dest...)
	h.done(err)
	return err
}
