package repo

import (
	"context"
	"strings"
	"testing"
	"time"

	"ipclaim/internal/modkit/repokit"
	"ipclaim/internal/platform/testkit"
	"ipclaim/internal/services/claims/domain"
)

type fakeCH struct {
	table string
	rows  [][]any
	execs []string
}

var _ repokit.Clickhouse = (*fakeCH)(nil)

func (f *fakeCH) Insert(_ context.Context, table string, data any) error {
	f.table = table
	f.rows = data.([][]any)
	return nil
}

func (f *fakeCH) Exec(_ context.Context, sql string, _ ...any) error {
	f.execs = append(f.execs, sql)
	return nil
}

func (f *fakeCH) Query(context.Context, string, ...any) (repokit.Rows, error) { return nil, nil }
func (f *fakeCH) Close() error                                                { return nil }

func TestOutcomes_WriteEvents(t *testing.T) {
	t.Parallel()

	ch := &fakeCH{}
	o := NewOutcomes(ch)
	at := time.Date(2025, 9, 3, 13, 0, 0, 0, time.FixedZone("x", 3600))
	err := o.WriteEvents(context.Background(), []domain.SubmissionEvent{
		{At: at, Outcome: domain.OutcomeAccepted, ContentHash: "h", ClaimID: "c1", Owner: "alice", Price: 10, RequestID: "r1", ElapsedUS: 42},
		{At: at, Outcome: domain.OutcomeDuplicate, ContentHash: "h", ClaimID: "c1"},
	})
	if err != nil {
		t.Fatalf("WriteEvents: %v", err)
	}
	if ch.table != SubmissionsTable || len(ch.rows) != 2 {
		t.Fatalf("table=%q rows=%d", ch.table, len(ch.rows))
	}
	r := ch.rows[0]
	if len(r) != 8 || r[1] != "accepted" || r[4] != "alice" || r[7] != int64(42) {
		t.Fatalf("unexpected row %#v", r)
	}
	if got := r[0].(time.Time); got.Location() != time.UTC {
		t.Fatalf("event time should be UTC, got %v", got.Location())
	}
}

func TestOutcomes_EmptyBatchNoop(t *testing.T) {
	t.Parallel()

	ch := &fakeCH{}
	if err := NewOutcomes(ch).WriteEvents(context.Background(), nil); err != nil {
		t.Fatalf("WriteEvents: %v", err)
	}
	if ch.table != "" {
		t.Fatalf("empty batch reached clickhouse")
	}
}

func TestOutcomes_RejectsUnlabeledEvent(t *testing.T) {
	t.Parallel()

	if err := NewOutcomes(&fakeCH{}).WriteEvents(context.Background(), []domain.SubmissionEvent{{}}); err == nil {
		t.Fatalf("expected error for event without outcome")
	}
}

func TestOutcomes_EnsureTable(t *testing.T) {
	t.Parallel()

	ch := &fakeCH{}
	if err := NewOutcomes(ch).EnsureTable(context.Background()); err != nil {
		t.Fatalf("EnsureTable: %v", err)
	}
	if len(ch.execs) != 1 {
		t.Fatalf("execs = %d", len(ch.execs))
	}
	testkit.MustContain(t, ch.execs[0], "CREATE TABLE IF NOT EXISTS claim_submissions")
	if !strings.Contains(ch.execs[0], "MergeTree") {
		t.Fatalf("missing engine clause")
	}
}

func TestNewOutcomes_NilPanics(t *testing.T) {
	t.Parallel()
	testkit.MustPanic(t, func() { NewOutcomes(nil) })
}
