package repo

import (
	"context"
	"errors"

	"ipclaim/internal/modkit/repokit"
	"ipclaim/internal/services/claims/domain"
)

// SubmissionsTable is the clickhouse table receiving submission outcomes
const SubmissionsTable = "claim_submissions"

const submissionsDDL = `
CREATE TABLE IF NOT EXISTS ` + SubmissionsTable + ` (
  at           DateTime64(6, 'UTC'),
  outcome      LowCardinality(String),
  content_hash String,
  claim_id     String,
  owner        String,
  price        Float64,
  request_id   String,
  elapsed_us   Int64
) ENGINE = MergeTree
ORDER BY (at, content_hash)
`

// Outcomes writes submission events to clickhouse
type Outcomes struct {
	ch repokit.Clickhouse
}

// NewOutcomes binds the sink to a clickhouse seam
func NewOutcomes(ch repokit.Clickhouse) *Outcomes {
	if ch == nil {
		panic("claims.Outcomes requires a non nil Clickhouse")
	}
	return &Outcomes{ch: ch}
}

// EnsureTable creates the submissions table when missing
func (o *Outcomes) EnsureTable(ctx context.Context) error {
	return o.ch.Exec(ctx, submissionsDDL)
}

// WriteEvents appends evs as one batch
func (o *Outcomes) WriteEvents(ctx context.Context, evs []domain.SubmissionEvent) error {
	if len(evs) == 0 {
		return nil
	}
	rows := make([][]any, 0, len(evs))
	for _, ev := range evs {
		if ev.Outcome == "" {
			return errors.New("claims: submission event without outcome")
		}
		rows = append(rows, []any{
			ev.At.UTC(),
			string(ev.Outcome),
			ev.ContentHash,
			ev.ClaimID,
			ev.Owner,
			ev.Price,
			ev.RequestID,
			ev.ElapsedUS,
		})
	}
	return o.ch.Insert(ctx, SubmissionsTable, rows)
}
