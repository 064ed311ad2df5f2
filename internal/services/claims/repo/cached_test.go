package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"ipclaim/internal/services/claims/domain"
)

type countingStore struct {
	*Memory
	hashHits int
	idHits   int
}

func (c *countingStore) FindByFingerprint(ctx context.Context, h string) (domain.Claim, bool, error) {
	c.hashHits++
	return c.Memory.FindByFingerprint(ctx, h)
}

func (c *countingStore) FindByID(ctx context.Context, id string) (domain.Claim, bool, error) {
	c.idHits++
	return c.Memory.FindByID(ctx, id)
}

func TestNewCached_ZeroTTLReturnsInner(t *testing.T) {
	t.Parallel()

	inner := NewMemory()
	if got := NewCached(inner, 0); got != domain.Store(inner) {
		t.Fatalf("ttl 0 should return inner unchanged")
	}
}

// cachedAt wraps inner with a one minute cache whose clock reads at
func cachedAt(inner domain.Store, at *time.Time) *Cached {
	c := NewCached(inner, time.Minute).(*Cached)
	c.now = func() time.Time { return *at }
	return c
}

func TestCached_HitsAreServedFromCache(t *testing.T) {
	t.Parallel()

	inner := &countingStore{Memory: NewMemory()}
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	inner.Memory.now = func() time.Time { return created }
	now := created.Add(time.Minute)
	c := cachedAt(inner, &now)
	ctx := context.Background()

	ins, err := c.Insert(ctx, draft("h", "alice"))
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}

	for i := 0; i < 3; i++ {
		got, ok, err := c.FindByFingerprint(ctx, "h")
		if err != nil || !ok || got.ID != ins.ID {
			t.Fatalf("FindByFingerprint = %+v %v %v", got, ok, err)
		}
	}
	if inner.hashHits != 0 {
		t.Fatalf("inner lookups = %d, want 0 for a settled insert", inner.hashHits)
	}
	if _, ok, _ := c.FindByID(ctx, ins.ID); !ok || inner.idHits != 0 {
		t.Fatalf("id lookup should be cached after insert, ok=%v inner hits=%d", ok, inner.idHits)
	}
}

func TestCached_YoungHashHitsAreNotPinned(t *testing.T) {
	t.Parallel()

	inner := &countingStore{Memory: NewMemory()}
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	inner.Memory.now = func() time.Time { return created }
	now := created.Add(time.Second)
	c := cachedAt(inner, &now)
	ctx := context.Background()

	if _, err := inner.Memory.Insert(ctx, draft("h", "")); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	for i := 0; i < 2; i++ {
		if _, ok, _ := c.FindByFingerprint(ctx, "h"); !ok {
			t.Fatalf("lookup missed")
		}
	}
	if inner.hashHits != 2 {
		t.Fatalf("young row was cached, inner lookups = %d", inner.hashHits)
	}

	now = created.Add(hashGrace)
	for i := 0; i < 2; i++ {
		_, _, _ = c.FindByFingerprint(ctx, "h")
	}
	if inner.hashHits != 3 {
		t.Fatalf("settled row not cached, inner lookups = %d", inner.hashHits)
	}
}

func TestCached_MissesAreNotCached(t *testing.T) {
	t.Parallel()

	inner := &countingStore{Memory: NewMemory()}
	c := NewCached(inner, time.Minute)
	ctx := context.Background()

	if _, ok, _ := c.FindByFingerprint(ctx, "h"); ok {
		t.Fatalf("unexpected hit")
	}
	if _, err := inner.Memory.Insert(ctx, draft("h", "")); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if _, ok, _ := c.FindByFingerprint(ctx, "h"); !ok {
		t.Fatalf("a miss must not be cached")
	}
}

// failingCommit runs fn against a scratch store and then reports a failed commit, so nothing persists
type failingCommit struct{ *Memory }

func (f failingCommit) Atomically(_ context.Context, _ string, fn func(domain.Store) error) error {
	if err := fn(NewMemory()); err != nil {
		return err
	}
	return errors.New("commit failed")
}

func TestCached_AtomicallyCachesOnlyAfterCommit(t *testing.T) {
	t.Parallel()

	inner := &countingStore{Memory: NewMemory()}
	c := NewCached(inner, time.Minute).(domain.AtomicStore)
	ctx := context.Background()

	var ins domain.Claim
	err := c.Atomically(ctx, "h", func(st domain.Store) error {
		if _, ok := st.(*txView); !ok {
			t.Fatalf("view = %T", st)
		}
		var err error
		ins, err = st.Insert(ctx, draft("h", ""))
		return err
	})
	if err != nil {
		t.Fatalf("Atomically: %v", err)
	}
	if inner.Len() != 1 {
		t.Fatalf("rows = %d", inner.Len())
	}
	if _, ok, _ := c.FindByID(ctx, ins.ID); !ok || inner.idHits != 0 {
		t.Fatalf("committed insert should be cached, ok=%v inner hits=%d", ok, inner.idHits)
	}
}

func TestCached_RolledBackInsertIsNotServed(t *testing.T) {
	t.Parallel()

	c := NewCached(failingCommit{NewMemory()}, time.Minute).(domain.AtomicStore)
	ctx := context.Background()

	var ins domain.Claim
	err := c.Atomically(ctx, "h", func(st domain.Store) error {
		var err error
		ins, err = st.Insert(ctx, draft("h", ""))
		return err
	})
	if err == nil || err.Error() != "commit failed" {
		t.Fatalf("Atomically err = %v", err)
	}
	if _, ok, _ := c.FindByID(ctx, ins.ID); ok {
		t.Fatalf("rolled back claim %s served from cache", ins.ID)
	}
	if _, ok, _ := c.FindByFingerprint(ctx, "h"); ok {
		t.Fatalf("rolled back claim served by fingerprint")
	}
}
