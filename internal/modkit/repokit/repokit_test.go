package repokit

import (
	"context"
	"errors"
	"testing"

	"ipclaim/internal/platform/testkit"
)

// fakeTx records statements; Tx runs fn against itself
type fakeTx struct {
	stmts []string
	txs   int
}

func (f *fakeTx) Exec(_ context.Context, sql string, _ ...any) (CommandTag, error) {
	f.stmts = append(f.stmts, sql)
	return nil, nil
}
func (f *fakeTx) Query(context.Context, string, ...any) (Rows, error) { return nil, nil }
func (f *fakeTx) QueryRow(context.Context, string, ...any) Row        { return nil }
func (f *fakeTx) Tx(_ context.Context, fn func(Queryer) error) error {
	f.txs++
	return fn(f)
}

type bound struct{ q Queryer }

type binder struct{}

func (binder) Bind(q Queryer) bound { return bound{q: q} }

func TestMustBind(t *testing.T) {
	t.Parallel()

	f := &fakeTx{}
	if got := MustBind[bound](binder{}, f); got.q != Queryer(f) {
		t.Fatalf("bound to wrong queryer")
	}
	testkit.MustPanic(t, func() { MustBind[bound](binder{}, nil) })
}

func TestWithBeginHooks_RunInsideTxInOrder(t *testing.T) {
	t.Parallel()

	f := &fakeTx{}
	hook := func(sql string) BeginHook {
		return func(ctx context.Context, q Queryer) error {
			_, err := q.Exec(ctx, sql)
			return err
		}
	}
	tx := WithBeginHooks(f, hook("set local lock_timeout = '2s'"), hook("set local statement_timeout = '5s'"))

	err := WithTx(context.Background(), tx, func(q Queryer) error {
		_, err := q.Exec(context.Background(), "insert")
		return err
	})
	if err != nil {
		t.Fatalf("tx: %v", err)
	}
	want := []string{"set local lock_timeout = '2s'", "set local statement_timeout = '5s'", "insert"}
	if f.txs != 1 || len(f.stmts) != 3 {
		t.Fatalf("txs=%d stmts=%v", f.txs, f.stmts)
	}
	for i := range want {
		if f.stmts[i] != want[i] {
			t.Fatalf("stmts = %v", f.stmts)
		}
	}

	// outside a tx nothing is prepended
	_, _ = tx.Exec(context.Background(), "select 1")
	if f.stmts[len(f.stmts)-1] != "select 1" || len(f.stmts) != 4 {
		t.Fatalf("stmts = %v", f.stmts)
	}
}

func TestWithBeginHooks_FailingHookSkipsFn(t *testing.T) {
	t.Parallel()

	boom := errors.New("lock_timeout rejected")
	tx := WithBeginHooks(&fakeTx{}, func(context.Context, Queryer) error { return boom })
	ran := false
	err := tx.Tx(context.Background(), func(Queryer) error { ran = true; return nil })
	if !errors.Is(err, boom) || ran {
		t.Fatalf("err=%v ran=%v", err, ran)
	}
}
