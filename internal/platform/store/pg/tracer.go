package pg

import (
	"context"
	"strings"
	"time"

	"ipclaim/internal/platform/logger"

	"github.com/rs/zerolog"
)

// QueryEvent describes one finished statement
type QueryEvent struct {
	SQL     string
	Args    []any
	Elapsed time.Duration
	Err     error
	Slow    bool
}

// QueryTracer receives an event per statement
type QueryTracer interface {
	OnQuery(ctx context.Context, ev QueryEvent)
}

// TracerFunc adapts a func to QueryTracer
type TracerFunc func(ctx context.Context, ev QueryEvent)

// OnQuery calls f
func (f TracerFunc) OnQuery(ctx context.Context, ev QueryEvent) { f(ctx, ev) }

// Tracer logs every statement whatever the root level is
// slow statements go out at warn and failed ones at error; args are counted, not printed
func Tracer(root logger.Logger) QueryTracer {
	log := root.Level(zerolog.DebugLevel).With().Str("component", "pg").Logger()
	return TracerFunc(func(_ context.Context, ev QueryEvent) {
		evt := log.Info()
		switch {
		case ev.Err != nil:
			evt = log.Error().Err(ev.Err)
		case ev.Slow:
			evt = log.Warn()
		}
		evt.Dur("elapsed", ev.Elapsed).
			Bool("slow", ev.Slow).
			Str("sql", compact(ev.SQL)).
			Int("args", len(ev.Args)).
			Msg("pg query")
	})
}

// compact folds whitespace runs so multi line statements log on one line
func compact(s string) string { return strings.Join(strings.Fields(s), " ") }
