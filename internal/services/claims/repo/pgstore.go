package repo

import (
	"context"
	"fmt"
	"time"

	"ipclaim/internal/modkit/repokit"
	perr "ipclaim/internal/platform/errors"
	"ipclaim/internal/services/claims/domain"
)

// PGStore adapts the sql Repo to domain.AtomicStore
type PGStore struct {
	db     repokit.TxRunner
	binder repokit.Binder[Repo]
	repo   Repo
}

var _ domain.AtomicStore = (*PGStore)(nil)

// NewPGStore binds the claims repo to db
func NewPGStore(db repokit.TxRunner, binder repokit.Binder[Repo]) *PGStore {
	if db == nil {
		panic("claims.PGStore requires a non nil TxRunner")
	}
	if binder == nil {
		panic("claims.PGStore requires a non nil Repo binder")
	}
	return &PGStore{db: db, binder: binder, repo: repokit.MustBind(binder, db)}
}

// FindByFingerprint implements domain.Store
func (s *PGStore) FindByFingerprint(ctx context.Context, hash string) (domain.Claim, bool, error) {
	return findByFingerprint(ctx, s.repo, hash)
}

// FindByID implements domain.Store
func (s *PGStore) FindByID(ctx context.Context, id string) (domain.Claim, bool, error) {
	row, ok, err := s.repo.FindByID(ctx, id)
	if err != nil || !ok {
		return domain.Claim{}, ok, err
	}
	return row.ToDomain(), true, nil
}

// Insert implements domain.Store
func (s *PGStore) Insert(ctx context.Context, d domain.Draft) (domain.Claim, error) {
	return insert(ctx, s.repo, d)
}

// Atomically runs fn inside one transaction holding an advisory lock on hash
// concurrent callers for the same hash queue on the lock until the first commits
func (s *PGStore) Atomically(ctx context.Context, hash string, fn func(domain.Store) error) error {
	return repokit.WithTx(ctx, s.db, func(q repokit.Queryer) error {
		r := s.binder.Bind(q)
		if err := r.LockFingerprint(ctx, hash); err != nil {
			return err
		}
		return fn(txStore{r: r})
	})
}

// txStore is the domain.Store view handed to Atomically callbacks
type txStore struct{ r Repo }

func (t txStore) FindByFingerprint(ctx context.Context, hash string) (domain.Claim, bool, error) {
	return findByFingerprint(ctx, t.r, hash)
}

func (t txStore) FindByID(ctx context.Context, id string) (domain.Claim, bool, error) {
	row, ok, err := t.r.FindByID(ctx, id)
	if err != nil || !ok {
		return domain.Claim{}, ok, err
	}
	return row.ToDomain(), true, nil
}

func (t txStore) Insert(ctx context.Context, d domain.Draft) (domain.Claim, error) {
	return insert(ctx, t.r, d)
}

func findByFingerprint(ctx context.Context, r Repo, hash string) (domain.Claim, bool, error) {
	row, ok, err := r.FindByFingerprint(ctx, hash)
	if err != nil || !ok {
		return domain.Claim{}, ok, err
	}
	return row.ToDomain(), true, nil
}

func insert(ctx context.Context, r Repo, d domain.Draft) (domain.Claim, error) {
	row, err := r.Insert(ctx, InsertParams{
		Title:       d.Title,
		Description: d.Description,
		Price:       d.Price,
		Owner:       d.Owner,
		ContentHash: d.ContentHash,
	})
	if err != nil {
		return domain.Claim{}, err
	}
	return row.ToDomain(), nil
}

// LockTimeoutHook bounds how long a transaction waits on the fingerprint lock
func LockTimeoutHook(d time.Duration) repokit.BeginHook {
	return func(ctx context.Context, q repokit.Queryer) error {
		if d <= 0 {
			return nil
		}
		_, err := q.Exec(ctx, fmt.Sprintf("set local lock_timeout = %d", d.Milliseconds()))
		return perr.FromPostgres(err, "set lock_timeout")
	}
}
