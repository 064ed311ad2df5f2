// Package domain holds claim types, DTOs and ports shared by the claims service and its transports
package domain

import (
	"time"
)

// Claim is a stored assertion of authorship over described content
type Claim struct {
	ID          string    `json:"id" example:"3f0c6a6e-4a8f-4f5e-9a43-3b0b8a5d2c11"`
	Title       string    `json:"title" example:"My Song"`
	Description string    `json:"description" example:"A short melody"`
	Price       float64   `json:"price" example:"10"`
	Owner       *string   `json:"owner" example:"0x1a2b"`
	ContentHash string    `json:"content_hash" example:"85885505404fbf0afe5c41fa957212e8553d012b56386197b03eaed362dc5f3e"`
	CreatedAt   time.Time `json:"created_at" example:"2025-09-03T13:00:00Z"`
}

// OwnerOr returns the owner or def when the claim has none
func (c Claim) OwnerOr(def string) string {
	if c.Owner == nil || *c.Owner == "" {
		return def
	}
	return *c.Owner
}

// Draft is a claim that has not been persisted yet
type Draft struct {
	Title       string
	Description string
	Price       float64
	Owner       *string
	ContentHash string
}

// Result is the outcome of a submission; exactly one of Claim or Duplicate is set
type Result struct {
	Claim     *Claim `json:"claim,omitempty"`
	Duplicate *Claim `json:"duplicate,omitempty"`
}

// Accepted builds a result for a freshly inserted claim
func Accepted(c Claim) Result { return Result{Claim: &c} }

// DuplicateOf builds a result pointing at an existing claim
func DuplicateOf(c Claim) Result { return Result{Duplicate: &c} }

// IsDuplicate reports whether the submission matched an existing claim
func (r Result) IsDuplicate() bool { return r.Duplicate != nil }

// Outcome labels a submission for analytics
type Outcome string

const (
	// OutcomeAccepted means a new claim was inserted
	OutcomeAccepted Outcome = "accepted"
	// OutcomeDuplicate means an existing claim matched the fingerprint
	OutcomeDuplicate Outcome = "duplicate"
	// OutcomeRejected means validation failed
	OutcomeRejected Outcome = "rejected"
	// OutcomeFailed means the store failed
	OutcomeFailed Outcome = "failed"
)

// SubmissionEvent is one recorded submission outcome
type SubmissionEvent struct {
	At          time.Time
	Outcome     Outcome
	ContentHash string
	ClaimID     string
	Owner       string
	Price       float64
	RequestID   string
	ElapsedUS   int64
}
