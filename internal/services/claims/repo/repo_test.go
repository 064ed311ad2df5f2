package repo

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"ipclaim/internal/modkit/repokit"
	perr "ipclaim/internal/platform/errors"
	"ipclaim/internal/platform/testkit"
	"ipclaim/internal/services/claims/domain"

	"github.com/jackc/pgx/v5/pgconn"
)

type fakeTag string

func (t fakeTag) String() string      { return string(t) }
func (t fakeTag) RowsAffected() int64 { return 1 }

type fakeRows struct {
	data [][]any
	i    int
	err  error
}

func (r *fakeRows) Next() bool {
	if r.i >= len(r.data) {
		return false
	}
	r.i++
	return true
}

func (r *fakeRows) Scan(dst ...any) error {
	row := r.data[r.i-1]
	for i := range dst {
		switch d := dst[i].(type) {
		case *string:
			*d = row[i].(string)
		case **string:
			if row[i] == nil {
				*d = nil
			} else {
				s := row[i].(string)
				*d = &s
			}
		case *float64:
			*d = row[i].(float64)
		case *time.Time:
			*d = row[i].(time.Time)
		default:
			return errors.New("unsupported scan target")
		}
	}
	return nil
}

func (r *fakeRows) Err() error        { return r.err }
func (r *fakeRows) Close()            {}
func (r *fakeRows) Columns() []string { return nil }

type fakeQ struct {
	sqls    []string
	args    [][]any
	rows    *fakeRows
	qErr    error
	execErr error
}

func (f *fakeQ) Exec(_ context.Context, sql string, args ...any) (repokit.CommandTag, error) {
	f.sqls = append(f.sqls, sql)
	f.args = append(f.args, args)
	return fakeTag("SELECT 1"), f.execErr
}

func (f *fakeQ) Query(_ context.Context, sql string, args ...any) (repokit.Rows, error) {
	f.sqls = append(f.sqls, sql)
	f.args = append(f.args, args)
	if f.qErr != nil {
		return nil, f.qErr
	}
	if f.rows == nil {
		return &fakeRows{}, nil
	}
	return f.rows, nil
}

func (f *fakeQ) QueryRow(context.Context, string, ...any) repokit.Row { return nil }

func (f *fakeQ) Tx(_ context.Context, fn func(q repokit.Queryer) error) error { return fn(f) }

func claimRow(id, hash string, owner any, at time.Time) []any {
	return []any{id, "T", "D", 2.5, owner, hash, at}
}

func TestPG_FindByFingerprint_OrdersEarliestFirst(t *testing.T) {
	t.Parallel()

	at := time.Date(2025, 9, 3, 13, 0, 0, 0, time.FixedZone("x", 7200))
	q := &fakeQ{rows: &fakeRows{data: [][]any{claimRow("id-1", "h", "alice", at)}}}
	r := NewPG().Bind(q)

	row, ok, err := r.FindByFingerprint(context.Background(), "h")
	if err != nil || !ok {
		t.Fatalf("FindByFingerprint = %v %v", ok, err)
	}
	if row.ID != "id-1" || row.Owner == nil || *row.Owner != "alice" {
		t.Fatalf("unexpected row %+v", row)
	}
	sql := q.sqls[0]
	if !strings.Contains(sql, "order by created_at asc, seq asc") || !strings.Contains(sql, "limit 1") {
		t.Fatalf("lookup must take the earliest row: %s", sql)
	}
	if q.args[0][0] != "h" {
		t.Fatalf("args = %v", q.args[0])
	}
	if d := row.ToDomain(); d.CreatedAt.Location() != time.UTC || !d.CreatedAt.Equal(at) {
		t.Fatalf("ToDomain created_at = %v", d.CreatedAt)
	}
}

func TestPG_FindByFingerprint_Miss(t *testing.T) {
	t.Parallel()

	r := NewPG().Bind(&fakeQ{})
	_, ok, err := r.FindByFingerprint(context.Background(), "h")
	if ok || err != nil {
		t.Fatalf("want clean miss, got ok=%v err=%v", ok, err)
	}
}

func TestPG_QueryErrorIsDB(t *testing.T) {
	t.Parallel()

	r := NewPG().Bind(&fakeQ{qErr: errors.New("conn refused")})
	_, _, err := r.FindByID(context.Background(), "3f0c6a6e-4a8f-4f5e-9a43-3b0b8a5d2c11")
	if !perr.IsCode(err, perr.ErrorCodeDB) {
		t.Fatalf("want DB error, got %v", err)
	}
}

func TestPG_FindByID_UsesUUIDColumn(t *testing.T) {
	t.Parallel()

	q := &fakeQ{}
	r := NewPG().Bind(q)
	if _, ok, err := r.FindByID(context.Background(), "3F0C6A6E-4A8F-4F5E-9A43-3B0B8A5D2C11"); ok || err != nil {
		t.Fatalf("want clean miss, got ok=%v err=%v", ok, err)
	}
	if len(q.sqls) != 1 || !strings.Contains(q.sqls[0], "where id = $1::uuid") || strings.Contains(q.sqls[0], "id::text =") {
		t.Fatalf("sql = %v", q.sqls)
	}
	if q.args[0][0] != "3f0c6a6e-4a8f-4f5e-9a43-3b0b8a5d2c11" {
		t.Fatalf("args = %v", q.args[0])
	}

	for _, id := range []string{"", "not-a-uuid", "x"} {
		if _, ok, err := r.FindByID(context.Background(), id); ok || err != nil {
			t.Fatalf("%q: ok=%v err=%v", id, ok, err)
		}
	}
	if len(q.sqls) != 1 {
		t.Fatalf("malformed ids reached the database: %v", q.sqls)
	}
}

func TestPG_InsertNilOwner(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	q := &fakeQ{rows: &fakeRows{data: [][]any{claimRow("id-9", "h", nil, now)}}}
	r := NewPG().Bind(q)

	row, err := r.Insert(context.Background(), InsertParams{Title: "T", Description: "D", Price: 2.5, ContentHash: "h"})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if row.Owner != nil || row.ID != "id-9" {
		t.Fatalf("unexpected row %+v", row)
	}
	if !strings.Contains(q.sqls[0], "returning") {
		t.Fatalf("insert should return the stored row")
	}
	if owner := q.args[0][3].(*string); owner != nil {
		t.Fatalf("owner arg should be nil")
	}
}

func TestPG_InsertUniqueViolation(t *testing.T) {
	t.Parallel()

	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "ip_claims_content_hash_key"}
	r := NewPG().Bind(&fakeQ{qErr: pgErr})
	_, err := r.Insert(context.Background(), InsertParams{ContentHash: "h"})
	if !perr.IsDuplicateKey(err) || !perr.IsCode(err, perr.ErrorCodeDuplicateKey) {
		t.Fatalf("want duplicate key, got %v", err)
	}
}

func TestPG_InsertNoRow(t *testing.T) {
	t.Parallel()

	r := NewPG().Bind(&fakeQ{})
	if _, err := r.Insert(context.Background(), InsertParams{ContentHash: "h"}); !perr.IsCode(err, perr.ErrorCodeDB) {
		t.Fatalf("want DB error, got %v", err)
	}
}

func TestPGStore_AtomicallyLocksFirst(t *testing.T) {
	t.Parallel()

	q := &fakeQ{}
	s := NewPGStore(q, NewPG())
	called := false
	err := s.Atomically(context.Background(), "h", func(st domain.Store) error {
		called = true
		_, ok, err := st.FindByFingerprint(context.Background(), "h")
		if ok || err != nil {
			t.Fatalf("view lookup = %v %v", ok, err)
		}
		return nil
	})
	if err != nil || !called {
		t.Fatalf("Atomically err=%v called=%v", err, called)
	}
	if len(q.sqls) != 2 || !strings.Contains(q.sqls[0], "pg_advisory_xact_lock") {
		t.Fatalf("advisory lock must run before the lookup: %v", q.sqls)
	}
	if q.args[0][0] != "h" {
		t.Fatalf("lock arg = %v", q.args[0])
	}
}

func TestPGStore_LockFailureAborts(t *testing.T) {
	t.Parallel()

	q := &fakeQ{execErr: errors.New("lock timeout")}
	s := NewPGStore(q, NewPG())
	err := s.Atomically(context.Background(), "h", func(domain.Store) error {
		t.Fatalf("callback must not run without the lock")
		return nil
	})
	if !perr.IsCode(err, perr.ErrorCodeDB) {
		t.Fatalf("want DB error, got %v", err)
	}
}

func TestNewPGStore_NilPanics(t *testing.T) {
	t.Parallel()
	testkit.MustPanic(t, func() { NewPGStore(nil, NewPG()) })
	testkit.MustPanic(t, func() { NewPGStore(&fakeQ{}, nil) })
}

func TestLockTimeoutHook(t *testing.T) {
	t.Parallel()

	q := &fakeQ{}
	if err := LockTimeoutHook(1500*time.Millisecond)(context.Background(), q); err != nil {
		t.Fatalf("hook: %v", err)
	}
	if len(q.sqls) != 1 || q.sqls[0] != "set local lock_timeout = 1500" {
		t.Fatalf("sql = %v", q.sqls)
	}

	q = &fakeQ{}
	if err := LockTimeoutHook(0)(context.Background(), q); err != nil || len(q.sqls) != 0 {
		t.Fatalf("zero timeout should be a no-op: %v %v", err, q.sqls)
	}
}

func TestPGStore_WithBeginHooks(t *testing.T) {
	t.Parallel()

	q := &fakeQ{}
	s := NewPGStore(repokit.WithBeginHooks(q, LockTimeoutHook(time.Second)), NewPG())
	if err := s.Atomically(context.Background(), "h", func(domain.Store) error { return nil }); err != nil {
		t.Fatalf("Atomically: %v", err)
	}
	if len(q.sqls) != 2 || !strings.HasPrefix(q.sqls[0], "set local lock_timeout") || !strings.Contains(q.sqls[1], "pg_advisory_xact_lock") {
		t.Fatalf("hook must run before the lock: %v", q.sqls)
	}
}
