// Package repokit is the vocabulary SQL repositories are written in, backed by the platform store seams
package repokit

import (
	"context"

	"ipclaim/internal/platform/store"
)

type (
	// Queryer runs statements, either on the pool or inside a transaction
	Queryer = store.RowQuerier
	// TxRunner is a Queryer that can also open a transaction
	TxRunner = store.TxRunner
	// Row is a single row result
	Row = store.Row
	// Rows is a result set
	Rows = store.Rows
	// CommandTag reports what a statement changed
	CommandTag = store.CommandTag
	// Clickhouse is the columnar seam used by analytics sinks
	Clickhouse = store.Clickhouse
)

// Binder produces a repository bound to a Queryer, so the same repo works on the pool and inside a transaction
type Binder[T any] interface {
	Bind(Queryer) T
}

// MustBind binds b to q, panicking on a nil q
func MustBind[T any](b Binder[T], q Queryer) T {
	if q == nil {
		panic("repokit: bind to nil Queryer")
	}
	return b.Bind(q)
}

// WithTx runs fn in a transaction on tx
func WithTx(ctx context.Context, tx TxRunner, fn func(Queryer) error) error {
	return tx.Tx(ctx, fn)
}

// BeginHook runs first in every transaction, e.g. to SET LOCAL a timeout
type BeginHook func(ctx context.Context, q Queryer) error

// WithBeginHooks wraps inner so each Tx runs hooks before fn; statements outside a Tx pass straight through
func WithBeginHooks(inner TxRunner, hooks ...BeginHook) TxRunner {
	return hooked{TxRunner: inner, hooks: hooks}
}

type hooked struct {
	TxRunner
	hooks []BeginHook
}

func (h hooked) Tx(ctx context.Context, fn func(Queryer) error) error {
	return h.TxRunner.Tx(ctx, func(q Queryer) error {
		for _, hook := range h.hooks {
			if err := hook(ctx, q); err != nil {
				return err
			}
		}
		return fn(q)
	})
}
