package repo

import (
	"context"
	"sync"
	"time"

	"ipclaim/internal/services/claims/domain"

	"github.com/google/uuid"
)

// Memory is an in-process claim store for local runs and tests
// rows are kept in insertion order so the first hash match is the earliest
type Memory struct {
	mu     sync.RWMutex
	rows   []domain.Claim
	byHash map[string][]int
	byID   map[string]int

	lockMu sync.Mutex
	locks  map[string]*hashLock

	now   func() time.Time
	newID func() string
}

var _ domain.AtomicStore = (*Memory)(nil)

// NewMemory returns an empty in-memory store
func NewMemory() *Memory {
	return &Memory{
		byHash: map[string][]int{},
		byID:   map[string]int{},
		locks:  map[string]*hashLock{},
		now:    time.Now,
		newID:  func() string { return uuid.NewString() },
	}
}

// FindByFingerprint implements domain.Store
func (m *Memory) FindByFingerprint(_ context.Context, hash string) (domain.Claim, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	idx, ok := m.byHash[hash]
	if !ok || len(idx) == 0 {
		return domain.Claim{}, false, nil
	}
	return m.rows[idx[0]], true, nil
}

// FindByID implements domain.Store
func (m *Memory) FindByID(_ context.Context, id string) (domain.Claim, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	i, ok := m.byID[id]
	if !ok {
		return domain.Claim{}, false, nil
	}
	return m.rows[i], true, nil
}

// Insert implements domain.Store
func (m *Memory) Insert(ctx context.Context, d domain.Draft) (domain.Claim, error) {
	if err := ctx.Err(); err != nil {
		return domain.Claim{}, err
	}
	c := domain.Claim{
		ID:          m.newID(),
		Title:       d.Title,
		Description: d.Description,
		Price:       d.Price,
		Owner:       d.Owner,
		ContentHash: d.ContentHash,
		CreatedAt:   m.now().UTC(),
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, c)
	i := len(m.rows) - 1
	m.byHash[c.ContentHash] = append(m.byHash[c.ContentHash], i)
	m.byID[c.ID] = i
	return c, nil
}

// hashLock is a per fingerprint mutex shared by its current holders and waiters
type hashLock struct {
	mu   sync.Mutex
	refs int
}

// Atomically serializes fn per hash with a keyed mutex; the key is dropped once nobody holds or waits on it
func (m *Memory) Atomically(ctx context.Context, hash string, fn func(domain.Store) error) error {
	l := m.acquire(hash)
	defer m.release(hash, l)
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(m)
}

func (m *Memory) acquire(hash string) *hashLock {
	m.lockMu.Lock()
	l, ok := m.locks[hash]
	if !ok {
		l = &hashLock{}
		m.locks[hash] = l
	}
	l.refs++
	m.lockMu.Unlock()
	l.mu.Lock()
	return l
}

func (m *Memory) release(hash string, l *hashLock) {
	l.mu.Unlock()
	m.lockMu.Lock()
	if l.refs--; l.refs == 0 {
		delete(m.locks, hash)
	}
	m.lockMu.Unlock()
}

// heldLocks is the number of fingerprints with a live lock entry
func (m *Memory) heldLocks() int {
	m.lockMu.Lock()
	defer m.lockMu.Unlock()
	return len(m.locks)
}

// Len returns the number of stored claims
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rows)
}

// CountByFingerprint returns how many rows share hash
func (m *Memory) CountByFingerprint(hash string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byHash[hash])
}
