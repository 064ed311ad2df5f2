// Package service contains the claim submission workflow
package service

import (
	"context"
	stderrs "errors"
	"strings"
	"time"

	"ipclaim/internal/core/fingerprint"
	perr "ipclaim/internal/platform/errors"
	"ipclaim/internal/platform/logger"
	pnet "ipclaim/internal/platform/net"
	pstrings "ipclaim/internal/platform/strings"
	"ipclaim/internal/services/claims/domain"
)

// Service defines the service contract for claims
type Service interface{ domain.ServicePort }

// Svc implements the Service interface
// it holds no per-call state; concurrent Submit calls are safe
type Svc struct {
	store      domain.Store
	recorder   domain.OutcomeRecorder
	strict     bool
	verifyHash bool
	now        func() time.Time
}

var _ Service = (*Svc)(nil)

// Option configures a Svc
type Option func(*Svc)

// WithStrict serializes check and insert per fingerprint when the store supports it
func WithStrict(on bool) Option { return func(s *Svc) { s.strict = on } }

// WithVerifyHash rejects submissions whose content_hash is not the fingerprint of title and description
func WithVerifyHash(on bool) Option { return func(s *Svc) { s.verifyHash = on } }

// WithRecorder sets the outcome recorder
func WithRecorder(r domain.OutcomeRecorder) Option {
	return func(s *Svc) {
		if r != nil {
			s.recorder = r
		}
	}
}

// WithClock overrides the clock used for elapsed timings
func WithClock(now func() time.Time) Option {
	return func(s *Svc) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates a new claims service
// a nil store yields a service that fails every call with MsgMisconfigured
func New(store domain.Store, opts ...Option) *Svc {
	s := &Svc{store: store, recorder: NopRecorder{}, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Strict reports whether check and insert run under a per fingerprint lock
func (s *Svc) Strict() bool {
	if !s.strict {
		return false
	}
	_, ok := s.store.(domain.AtomicStore)
	return ok
}

// Submit validates in, returns the earliest existing claim for its fingerprint or inserts a new one
func (s *Svc) Submit(ctx context.Context, in domain.SubmitInput) (domain.Result, error) {
	start := s.now()
	res, err := s.submit(ctx, in)
	s.record(ctx, in, res, err, start)
	return res, err
}

func (s *Svc) submit(ctx context.Context, in domain.SubmitInput) (domain.Result, error) {
	if s.store == nil {
		return domain.Result{}, perr.New(perr.ErrorCodeUnknown, domain.MsgMisconfigured)
	}

	hash := strings.TrimSpace(in.ContentHash)
	if f := firstMissing(in.Title, in.Description, hash); f != "" {
		return domain.Result{}, validation(domain.MsgMissingFields, f)
	}
	if s.verifyHash {
		if !fingerprint.Valid(hash) {
			return domain.Result{}, validation(domain.MsgInvalidHash, "content_hash")
		}
		if fingerprint.Normalize(hash) != fingerprint.OfTrimmed(in.Title, in.Description) {
			return domain.Result{}, validation(domain.MsgHashMismatch, "content_hash")
		}
	}

	d := domain.Draft{
		Title:       in.Title,
		Description: in.Description,
		Price:       float64(domain.CoercePrice(float64(in.Price))),
		Owner:       in.Owner,
		ContentHash: hash,
	}

	var res domain.Result
	var err error
	if at, ok := s.store.(domain.AtomicStore); ok && s.strict {
		var inner error
		err = at.Atomically(ctx, hash, func(st domain.Store) error {
			res, inner = checkThenInsert(ctx, st, d)
			return inner
		})
		if err != nil && (inner == nil || !stderrs.Is(err, inner)) {
			// begin, lock or commit failed outside the callback
			err = storeErr(err, domain.MsgDatabaseError, "atomically")
		}
	} else {
		res, err = checkThenInsert(ctx, s.store, d)
	}

	if err != nil && isConflict(err) {
		return s.resolveConflict(ctx, hash, err)
	}
	if err != nil {
		logger.C(ctx).Error().Err(err).Str("content_hash", hash).Msg("claim store failure")
		return domain.Result{}, err
	}

	if res.IsDuplicate() {
		logger.C(ctx).Info().
			Str("content_hash", hash).
			Str("claim_id", res.Duplicate.ID).
			Msg("duplicate claim")
	} else {
		logger.C(ctx).Info().
			Str("content_hash", hash).
			Str("claim_id", res.Claim.ID).
			Float64("price", res.Claim.Price).
			Msg("claim inserted")
	}
	return res, nil
}

// checkThenInsert is the best-effort dedup step; st may be a locked view
func checkThenInsert(ctx context.Context, st domain.Store, d domain.Draft) (domain.Result, error) {
	existing, ok, err := st.FindByFingerprint(ctx, d.ContentHash)
	if err != nil {
		return domain.Result{}, storeErr(err, domain.MsgDatabaseError, "lookup")
	}
	if ok {
		return domain.DuplicateOf(existing), nil
	}
	c, err := st.Insert(ctx, d)
	if err != nil {
		return domain.Result{}, storeErr(err, domain.MsgInsertFailed, "insert")
	}
	return domain.Accepted(c), nil
}

// resolveConflict turns a unique violation on insert into the duplicate it collided with
func (s *Svc) resolveConflict(ctx context.Context, hash string, cause error) (domain.Result, error) {
	existing, ok, err := s.store.FindByFingerprint(ctx, hash)
	if err != nil {
		logger.C(ctx).Error().Err(err).Str("content_hash", hash).Msg("lookup after conflict failed")
		return domain.Result{}, storeErr(err, domain.MsgDatabaseError, "lookup")
	}
	if !ok {
		return domain.Result{}, cause
	}
	logger.C(ctx).Info().Str("content_hash", hash).Str("claim_id", existing.ID).Msg("duplicate claim on insert conflict")
	return domain.DuplicateOf(existing), nil
}

// Lookup returns the earliest claim with hash
func (s *Svc) Lookup(ctx context.Context, hash string) (domain.Claim, error) {
	if s.store == nil {
		return domain.Claim{}, perr.New(perr.ErrorCodeUnknown, domain.MsgMisconfigured)
	}
	hash = strings.TrimSpace(hash)
	if hash == "" {
		return domain.Claim{}, validation(domain.MsgMissingFields, "content_hash")
	}
	if !fingerprint.Valid(hash) {
		return domain.Claim{}, validation(domain.MsgInvalidHash, "content_hash")
	}
	c, ok, err := s.store.FindByFingerprint(ctx, hash)
	if err != nil {
		return domain.Claim{}, storeErr(err, domain.MsgDatabaseError, "lookup")
	}
	if !ok {
		return domain.Claim{}, perr.New(perr.ErrorCodeNotFound, domain.MsgNotFound)
	}
	return c, nil
}

// Get returns the claim with id
func (s *Svc) Get(ctx context.Context, id string) (domain.Claim, error) {
	if s.store == nil {
		return domain.Claim{}, perr.New(perr.ErrorCodeUnknown, domain.MsgMisconfigured)
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Claim{}, validation(domain.MsgMissingFields, "id")
	}
	c, ok, err := s.store.FindByID(ctx, id)
	if err != nil {
		return domain.Claim{}, storeErr(err, domain.MsgDatabaseError, "get")
	}
	if !ok {
		return domain.Claim{}, perr.New(perr.ErrorCodeNotFound, domain.MsgNotFound)
	}
	return c, nil
}

func (s *Svc) record(ctx context.Context, in domain.SubmitInput, res domain.Result, err error, start time.Time) {
	ev := domain.SubmissionEvent{
		At:          start.UTC(),
		ContentHash: strings.TrimSpace(in.ContentHash),
		Price:       float64(domain.CoercePrice(float64(in.Price))),
		RequestID:   pnet.RequestID(ctx),
		Owner:       pstrings.Deref(in.Owner),
		ElapsedUS:   s.now().Sub(start).Microseconds(),
	}
	switch {
	case err != nil && perr.IsCode(err, perr.ErrorCodeValidation):
		ev.Outcome = domain.OutcomeRejected
	case err != nil:
		ev.Outcome = domain.OutcomeFailed
	case res.IsDuplicate():
		ev.Outcome = domain.OutcomeDuplicate
		ev.ClaimID = res.Duplicate.ID
	default:
		ev.Outcome = domain.OutcomeAccepted
		ev.ClaimID = res.Claim.ID
	}
	s.recorder.Record(ctx, ev)
}

func firstMissing(title, description, hash string) string {
	switch {
	case pstrings.Blank(title):
		return "title"
	case pstrings.Blank(description):
		return "description"
	case hash == "":
		return "content_hash"
	}
	return ""
}

// storeErr wraps a store failure under msg; a store that is unavailable or timed out on a lock keeps that code
func storeErr(err error, msg, op string) error {
	code := perr.ErrorCodeDB
	if perr.IsCode(err, perr.ErrorCodeUnavailable) || perr.IsLockTimeout(err) {
		code = perr.ErrorCodeUnavailable
	}
	return perr.WithOp(perr.Wrap(err, code, msg), op)
}

func validation(msg, field string) error {
	return perr.WithField(perr.New(perr.ErrorCodeValidation, msg), field)
}

// isConflict reports a unique violation anywhere in the chain
func isConflict(err error) bool {
	if perr.IsDuplicateKey(err) {
		return true
	}
	for e := err; e != nil; e = stderrs.Unwrap(e) {
		if pe, ok := e.(*perr.Error); ok && pe.Code() == perr.ErrorCodeDuplicateKey {
			return true
		}
	}
	return false
}
