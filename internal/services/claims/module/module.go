// Package module wires claims into the API
package module

import (
	"context"
	"net/http"
	"time"

	"ipclaim/internal/modkit"
	"ipclaim/internal/modkit/httpkit"
	"ipclaim/internal/modkit/repokit"
	"ipclaim/internal/platform/logger"
	"ipclaim/internal/services/claims/domain"
	claimshttp "ipclaim/internal/services/claims/http"
	claimsrepo "ipclaim/internal/services/claims/repo"
	claimssvc "ipclaim/internal/services/claims/service"
)

// Closer flushes background work on shutdown
type Closer interface {
	Close(ctx context.Context) error
}

// Ports are what the claims module offers main; Recorder is nil when outcomes are not recorded
type Ports struct {
	Service  domain.ServicePort
	Recorder Closer
}

// Module serves claim submission and lookup
type Module struct {
	b     modkit.Built
	svc   claimssvc.Service
	ports Ports
}

// New builds the claims module from deps and o
func New(deps modkit.Deps, o Options, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("claims"), modkit.WithPrefix("/claims")}, opts...)...)
	log := logger.Named("claims")

	rec := buildRecorder(deps, o)
	svc := claimssvc.New(buildStore(deps, o),
		claimssvc.WithStrict(o.Strict),
		claimssvc.WithVerifyHash(o.VerifyHash),
		claimssvc.WithRecorder(rec),
	)
	log.Info().
		Str("store", o.Store).
		Bool("strict", svc.Strict()).
		Bool("verify_hash", o.VerifyHash).
		Dur("cache_ttl", o.CacheTTL).
		Msg("claims module ready")

	if o.RateRPS > 0 {
		limit := httpkit.RateLimit(o.RateRPS, o.RateBurst, domain.ErrorBody{Error: domain.MsgTooManyRequests})
		b.Mw = append([]func(http.Handler) http.Handler{limit}, b.Mw...)
	}

	m := &Module{b: b, svc: svc, ports: Ports{Service: svc}}
	if c, ok := rec.(Closer); ok {
		m.ports.Recorder = c
	}
	return m
}

func buildStore(deps modkit.Deps, o Options) domain.Store {
	if o.Store == StoreMemory {
		return claimsrepo.NewCached(claimsrepo.NewMemory(), o.CacheTTL)
	}
	if deps.PG == nil {
		// every call answers "Server misconfigured" until a database is wired
		logger.Named("claims").Error().Msg("claims store is pg but no postgres connection is configured")
		return nil
	}
	tx := deps.PG
	if o.LockTimeout > 0 {
		tx = repokit.WithBeginHooks(tx, claimsrepo.LockTimeoutHook(o.LockTimeout))
	}
	return claimsrepo.NewCached(claimsrepo.NewPGStore(tx, claimsrepo.NewPG()), o.CacheTTL)
}

func buildRecorder(deps modkit.Deps, o Options) domain.OutcomeRecorder {
	if !o.Record || deps.CH == nil {
		return claimssvc.NopRecorder{}
	}
	sink := claimsrepo.NewOutcomes(deps.CH)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := sink.EnsureTable(ctx); err != nil {
		logger.Named("claims").Warn().Err(err).Msg("submission outcome table unavailable, recording disabled")
		return claimssvc.NopRecorder{}
	}
	return claimssvc.NewAsyncRecorder(sink, claimssvc.RecorderConfig{
		BatchSize:     o.RecordBatch,
		FlushInterval: o.RecordFlush,
	})
}

// MountRoutes mounts the v1 claim routes under the module prefix
func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(sub httpkit.Router) { claimshttp.Register(sub, m.svc) })
}

// MountCompat mounts create-claim at its fixed path behind the module middleware
func (m *Module) MountCompat(r httpkit.Router) {
	r.Group(func(g httpkit.Router) {
		g.Use(m.b.Mw...)
		claimshttp.RegisterCompat(g, claimshttp.CompatPath, m.svc)
	})
}

func (m *Module) Name() string                                   { return m.b.Name }
func (m *Module) Prefix() string                                 { return m.b.Prefix }
func (m *Module) Middlewares() []func(http.Handler) http.Handler { return m.b.Mw }
func (m *Module) Ports() any                                     { return m.ports }
