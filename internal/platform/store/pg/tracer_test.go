package pg

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestCompact(t *testing.T) {
	t.Parallel()

	in := "\n select id\n\tfrom ip_claims\r\n  where content_hash = $1  "
	if got := compact(in); got != "select id from ip_claims where content_hash = $1" {
		t.Fatalf("compact = %q", got)
	}
}

func TestTracer_Levels(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	// root level is error, the tracer must still log
	root := zerolog.New(&buf).Level(zerolog.ErrorLevel)
	tr := Tracer(root)

	ctx := context.Background()
	tr.OnQuery(ctx, QueryEvent{SQL: "select 1", Elapsed: time.Millisecond})
	tr.OnQuery(ctx, QueryEvent{SQL: "select pg_sleep(1)", Args: []any{1, 2}, Elapsed: time.Second, Slow: true})
	tr.OnQuery(ctx, QueryEvent{SQL: "insert", Err: errors.New("boom")})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %s", len(lines), buf.String())
	}
	want := []string{"info", "warn", "error"}
	for i, line := range lines {
		var m map[string]any
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("line %d: %v", i, err)
		}
		if m["level"] != want[i] {
			t.Fatalf("line %d level = %v, want %s", i, m["level"], want[i])
		}
		if m["component"] != "pg" || m["message"] != "pg query" {
			t.Fatalf("line %d fields = %v", i, m)
		}
	}
	if !strings.Contains(lines[1], `"args":2`) {
		t.Fatalf("arg count missing: %s", lines[1])
	}
}

func TestTracerFunc(t *testing.T) {
	t.Parallel()

	var seen QueryEvent
	TracerFunc(func(_ context.Context, ev QueryEvent) { seen = ev }).OnQuery(context.Background(), QueryEvent{SQL: "x"})
	if seen.SQL != "x" {
		t.Fatalf("event not delivered")
	}
}
