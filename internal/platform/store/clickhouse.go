package store

import (
	"context"
	"errors"
	"fmt"

	"ipclaim/internal/platform/store/ch"
)

var openClickhouse = func(ctx context.Context, cfg ch.Config) (chConn, error) { return ch.Open(ctx, cfg) }

// chConn is the part of *ch.CH the store uses
type chConn interface {
	Insert(ctx context.Context, table string, rows [][]any) error
	Exec(ctx context.Context, sql string, args ...any) error
	Query(ctx context.Context, sql string, args ...any) (ch.Rows, error)
	Close() error
}

func openCH(ctx context.Context, cfg CHConfig) (*chStore, error) {
	c, err := openClickhouse(ctx, ch.Config{
		URL:        cfg.URL,
		ClientName: cfg.ClientName,
		ClientTag:  cfg.ClientTag,
	})
	if err != nil {
		return nil, err
	}
	return &chStore{c: c}, nil
}

// chStore adapts the clickhouse client to Clickhouse
type chStore struct {
	c chConn
}

// Insert takes rows as [][]any in table column order
func (s *chStore) Insert(ctx context.Context, table string, data any) error {
	rows, ok := data.([][]any)
	if !ok {
		return fmt.Errorf("store: clickhouse insert wants [][]any, got %T", data)
	}
	return s.c.Insert(ctx, table, rows)
}

func (s *chStore) Exec(ctx context.Context, sql string, args ...any) error {
	return s.c.Exec(ctx, sql, args...)
}

func (s *chStore) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	r, err := s.c.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return chRows{r}, nil
}

func (s *chStore) Close() error { return s.c.Close() }

// Ping round trips a constant select
func (s *chStore) Ping(ctx context.Context) (err error) {
	r, err := s.c.Query(ctx, "SELECT toInt32(1)")
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, r.Close()) }()

	if !r.Next() {
		return errors.Join(errors.New("store: clickhouse ping returned no rows"), r.Err())
	}
	var one int32
	return r.Scan(&one)
}

// chRows drops the Close error to fit Rows
type chRows struct{ ch.Rows }

func (r chRows) Close() { _ = r.Rows.Close() }
