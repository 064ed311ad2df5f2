package domain

import "context"

// ServicePort defines the claims service contract
type ServicePort interface {
	// Submit checks for an existing fingerprint and inserts when none matches
	Submit(ctx context.Context, in SubmitInput) (Result, error)
	// Lookup returns the earliest claim carrying hash
	Lookup(ctx context.Context, hash string) (Claim, error)
	// Get returns a claim by id
	Get(ctx context.Context, id string) (Claim, error)
}

// Store is the persistence contract the service needs
type Store interface {
	// FindByFingerprint returns the earliest-created claim with hash, ok=false when none exists
	FindByFingerprint(ctx context.Context, hash string) (Claim, bool, error)
	// FindByID returns a claim by id, ok=false when none exists
	FindByID(ctx context.Context, id string) (Claim, bool, error)
	// Insert persists d and returns the stored claim with id and created_at populated
	Insert(ctx context.Context, d Draft) (Claim, error)
}

// AtomicStore can serialize work on a single fingerprint
type AtomicStore interface {
	Store
	// Atomically runs fn with exclusive access to hash for the duration of fn
	Atomically(ctx context.Context, hash string, fn func(Store) error) error
}

// OutcomeRecorder receives submission outcomes; implementations must not block callers
type OutcomeRecorder interface {
	Record(ctx context.Context, ev SubmissionEvent)
}
