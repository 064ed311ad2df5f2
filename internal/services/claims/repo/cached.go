package repo

import (
	"context"
	"time"

	"ipclaim/internal/services/claims/domain"

	gocache "github.com/patrickmn/go-cache"
)

// hashGrace is how old a claim must be before its fingerprint lookup is cached
// a younger row may still lose "earliest" to a concurrent insert that commits later
const hashGrace = 5 * time.Second

// Cached is a read-through cache over a domain.Store
// it only ever holds committed claims, which are immutable, so a cached hit never goes stale
type Cached struct {
	inner domain.Store
	cache *gocache.Cache
	now   func() time.Time
}

var _ domain.AtomicStore = (*Cached)(nil)

// NewCached wraps inner with a ttl cache; ttl <= 0 returns inner unchanged
func NewCached(inner domain.Store, ttl time.Duration) domain.Store {
	if ttl <= 0 {
		return inner
	}
	return &Cached{inner: inner, cache: gocache.New(ttl, 2*ttl), now: time.Now}
}

func hashKey(h string) string { return "h:" + h }
func idKey(id string) string  { return "i:" + id }

// remember caches cl by id, and by fingerprint once it is past hashGrace
func (c *Cached) remember(cl domain.Claim) {
	c.cache.SetDefault(idKey(cl.ID), cl)
	if c.now().Sub(cl.CreatedAt) >= hashGrace {
		c.cache.SetDefault(hashKey(cl.ContentHash), cl)
	}
}

func (c *Cached) get(key string) (domain.Claim, bool) {
	if v, ok := c.cache.Get(key); ok {
		return v.(domain.Claim), true
	}
	return domain.Claim{}, false
}

// FindByFingerprint implements domain.Store
func (c *Cached) FindByFingerprint(ctx context.Context, hash string) (domain.Claim, bool, error) {
	if cl, ok := c.get(hashKey(hash)); ok {
		return cl, true, nil
	}
	cl, ok, err := c.inner.FindByFingerprint(ctx, hash)
	if err == nil && ok {
		c.remember(cl)
	}
	return cl, ok, err
}

// FindByID implements domain.Store
func (c *Cached) FindByID(ctx context.Context, id string) (domain.Claim, bool, error) {
	if cl, ok := c.get(idKey(id)); ok {
		return cl, true, nil
	}
	cl, ok, err := c.inner.FindByID(ctx, id)
	if err == nil && ok {
		c.remember(cl)
	}
	return cl, ok, err
}

// Insert implements domain.Store
func (c *Cached) Insert(ctx context.Context, d domain.Draft) (domain.Claim, error) {
	cl, err := c.inner.Insert(ctx, d)
	if err != nil {
		return cl, err
	}
	c.remember(cl)
	return cl, nil
}

// Atomically delegates to the inner store when it supports it; claims read or inserted
// inside fn reach the cache only once the inner Atomically has returned nil
// without atomic support fn runs against the cache directly
func (c *Cached) Atomically(ctx context.Context, hash string, fn func(domain.Store) error) error {
	at, ok := c.inner.(domain.AtomicStore)
	if !ok {
		return fn(c)
	}
	var seen []domain.Claim
	err := at.Atomically(ctx, hash, func(s domain.Store) error {
		v := &txView{inner: s, c: c}
		err := fn(v)
		seen = v.seen
		return err
	})
	if err != nil {
		return err
	}
	for _, cl := range seen {
		c.remember(cl)
	}
	return nil
}

// txView reads through the shared cache but keeps what it sees until commit
type txView struct {
	inner domain.Store
	c     *Cached
	seen  []domain.Claim
}

func (v *txView) FindByFingerprint(ctx context.Context, hash string) (domain.Claim, bool, error) {
	if cl, ok := v.c.get(hashKey(hash)); ok {
		return cl, true, nil
	}
	cl, ok, err := v.inner.FindByFingerprint(ctx, hash)
	if err == nil && ok {
		v.seen = append(v.seen, cl)
	}
	return cl, ok, err
}

func (v *txView) FindByID(ctx context.Context, id string) (domain.Claim, bool, error) {
	if cl, ok := v.c.get(idKey(id)); ok {
		return cl, true, nil
	}
	cl, ok, err := v.inner.FindByID(ctx, id)
	if err == nil && ok {
		v.seen = append(v.seen, cl)
	}
	return cl, ok, err
}

func (v *txView) Insert(ctx context.Context, d domain.Draft) (domain.Claim, error) {
	cl, err := v.inner.Insert(ctx, d)
	if err == nil {
		v.seen = append(v.seen, cl)
	}
	return cl, err
}
