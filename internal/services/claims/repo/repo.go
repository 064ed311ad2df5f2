// Package repo provides claim persistence: postgres, in-memory and a read-through cache
package repo

import (
	"context"
	"time"

	"ipclaim/internal/modkit/repokit"
	perr "ipclaim/internal/platform/errors"
	"ipclaim/internal/services/claims/domain"

	"github.com/google/uuid"
)

// Repo defines the sql level contract for claims
type Repo interface {
	FindByFingerprint(ctx context.Context, hash string) (RowClaim, bool, error)
	FindByID(ctx context.Context, id string) (RowClaim, bool, error)
	Insert(ctx context.Context, in InsertParams) (RowClaim, error)
	// LockFingerprint takes a transaction scoped advisory lock on hash; only valid inside a tx
	LockFingerprint(ctx context.Context, hash string) error
}

// RowClaim is a claim row as stored in ip_claims
type RowClaim struct {
	ID          string
	Title       string
	Description string
	Price       float64
	Owner       *string
	ContentHash string
	CreatedAt   time.Time
}

// InsertParams are the columns supplied on insert; id and created_at come from defaults
type InsertParams struct {
	Title       string
	Description string
	Price       float64
	Owner       *string
	ContentHash string
}

type (
	// PG implements the Repo interface using Postgres
	PG struct{}

	// queries holds the database query methods
	queries struct{ q repokit.Queryer }
)

// NewPG creates a new Postgres repository binder
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind binds a Postgres queryer to the Repo implementation
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

const claimCols = `id::text, title, description, price::float8, owner, content_hash, created_at`

func scanClaim(r repokit.Row) (RowClaim, error) {
	var c RowClaim
	err := r.Scan(&c.ID, &c.Title, &c.Description, &c.Price, &c.Owner, &c.ContentHash, &c.CreatedAt)
	return c, err
}

// FindByFingerprint returns the earliest created row for hash
// seq breaks ties when two rows share a created_at
func (r *queries) FindByFingerprint(ctx context.Context, hash string) (RowClaim, bool, error) {
	const sql = `
select ` + claimCols + `
from ip_claims
where content_hash = $1
order by created_at asc, seq asc
limit 1
`
	return r.one(ctx, sql, hash)
}

// FindByID compares on the uuid column so the primary key index serves it; an id that is not a uuid is a miss
func (r *queries) FindByID(ctx context.Context, id string) (RowClaim, bool, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return RowClaim{}, false, nil
	}
	const sql = `
select ` + claimCols + `
from ip_claims
where id = $1::uuid
`
	return r.one(ctx, sql, uid.String())
}

func (r *queries) Insert(ctx context.Context, in InsertParams) (RowClaim, error) {
	const sql = `
insert into ip_claims (title, description, price, owner, content_hash)
values ($1, $2, $3, $4, $5)
returning ` + claimCols
	rows, err := r.q.Query(ctx, sql, in.Title, in.Description, in.Price, in.Owner, in.ContentHash)
	if err != nil {
		return RowClaim{}, perr.FromPostgresWithField(err, "insert claim")
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return RowClaim{}, perr.FromPostgresWithField(err, "insert claim")
		}
		return RowClaim{}, perr.DBf("insert claim returned no row")
	}
	c, err := scanClaim(rows)
	if err != nil {
		return RowClaim{}, perr.FromPostgres(err, "scan inserted claim")
	}
	return c, nil
}

func (r *queries) LockFingerprint(ctx context.Context, hash string) error {
	_, err := r.q.Exec(ctx, `select pg_advisory_xact_lock(hashtextextended($1, 0))`, hash)
	return perr.FromPostgres(err, "lock fingerprint")
}

func (r *queries) one(ctx context.Context, sql string, arg any) (RowClaim, bool, error) {
	rows, err := r.q.Query(ctx, sql, arg)
	if err != nil {
		return RowClaim{}, false, perr.FromPostgres(err, "query claim")
	}
	defer rows.Close()
	if !rows.Next() {
		return RowClaim{}, false, perr.FromPostgres(rows.Err(), "query claim")
	}
	c, err := scanClaim(rows)
	if err != nil {
		return RowClaim{}, false, perr.FromPostgres(err, "scan claim")
	}
	return c, true, nil
}

// ToDomain maps a row onto the domain claim
func (c RowClaim) ToDomain() domain.Claim {
	return domain.Claim{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		Price:       c.Price,
		Owner:       c.Owner,
		ContentHash: c.ContentHash,
		CreatedAt:   c.CreatedAt.UTC(),
	}
}
