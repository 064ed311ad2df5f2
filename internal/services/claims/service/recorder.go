package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"ipclaim/internal/platform/logger"
	"ipclaim/internal/services/claims/domain"
)

// NopRecorder discards outcomes
type NopRecorder struct{}

// Record implements domain.OutcomeRecorder
func (NopRecorder) Record(context.Context, domain.SubmissionEvent) {}

// EventSink persists a batch of submission events
type EventSink interface {
	WriteEvents(ctx context.Context, evs []domain.SubmissionEvent) error
}

// RecorderConfig tunes the async recorder
type RecorderConfig struct {
	Buffer        int           // queued events before drops start, default 1024
	BatchSize     int           // events per write, default 256
	FlushInterval time.Duration // max wait before a partial batch is written, default 2s
	WriteTimeout  time.Duration // per write deadline, default 5s
}

func (c RecorderConfig) withDefaults() RecorderConfig {
	if c.Buffer <= 0 {
		c.Buffer = 1024
	}
	if c.BatchSize <= 0 {
		c.BatchSize = 256
	}
	if c.FlushInterval <= 0 {
		c.FlushInterval = 2 * time.Second
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = 5 * time.Second
	}
	return c
}

// AsyncRecorder queues events and writes them to a sink in batches from one goroutine
// Record never blocks; a full queue drops the event
type AsyncRecorder struct {
	sink EventSink
	cfg  RecorderConfig
	in   chan domain.SubmissionEvent

	dropped atomic.Int64
	written atomic.Int64

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

var _ domain.OutcomeRecorder = (*AsyncRecorder)(nil)

// NewAsyncRecorder starts the writer loop
func NewAsyncRecorder(sink EventSink, cfg RecorderConfig) *AsyncRecorder {
	if sink == nil {
		panic("claims.AsyncRecorder requires a non nil sink")
	}
	cfg = cfg.withDefaults()
	r := &AsyncRecorder{
		sink: sink,
		cfg:  cfg,
		in:   make(chan domain.SubmissionEvent, cfg.Buffer),
		done: make(chan struct{}),
	}
	go r.run()
	return r
}

// Record implements domain.OutcomeRecorder
func (r *AsyncRecorder) Record(_ context.Context, ev domain.SubmissionEvent) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		r.dropped.Add(1)
		return
	}
	select {
	case r.in <- ev:
	default:
		if n := r.dropped.Add(1); n == 1 || n%1000 == 0 {
			logger.Named("claims-recorder").Warn().Int64("dropped", n).Msg("outcome queue full, dropping events")
		}
	}
}

// Dropped returns how many events were discarded
func (r *AsyncRecorder) Dropped() int64 { return r.dropped.Load() }

// Written returns how many events reached the sink
func (r *AsyncRecorder) Written() int64 { return r.written.Load() }

// Close stops accepting events and flushes what is queued, bounded by ctx
func (r *AsyncRecorder) Close(ctx context.Context) error {
	r.mu.Lock()
	if !r.closed {
		r.closed = true
		close(r.in)
	}
	r.mu.Unlock()
	select {
	case <-r.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *AsyncRecorder) run() {
	defer close(r.done)
	log := logger.Named("claims-recorder")
	ticker := time.NewTicker(r.cfg.FlushInterval)
	defer ticker.Stop()

	batch := make([]domain.SubmissionEvent, 0, r.cfg.BatchSize)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), r.cfg.WriteTimeout)
		err := r.sink.WriteEvents(ctx, batch)
		cancel()
		if err != nil {
			log.Warn().Err(err).Int("events", len(batch)).Msg("write submission events failed")
		} else {
			r.written.Add(int64(len(batch)))
		}
		batch = batch[:0]
	}

	for {
		select {
		case ev, ok := <-r.in:
			if !ok {
				flush()
				return
			}
			batch = append(batch, ev)
			if len(batch) >= r.cfg.BatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		}
	}
}
