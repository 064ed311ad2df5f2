// Package module mounts the meta endpoints
package module

import (
	"reflect"
	"time"

	"ipclaim/internal/core/version"
	"ipclaim/internal/modkit"
	"ipclaim/internal/modkit/httpkit"

	metahttp "ipclaim/internal/services/api/meta/http"
)

// Module serves health, readiness and build info
type Module struct {
	b    modkit.Built
	deps metahttp.Deps
}

// New builds the meta module; it mounts under /meta unless opts say otherwise
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("meta"),
		modkit.WithPrefix("/meta"),
	}, opts...)...)

	return &Module{
		b: b,
		deps: metahttp.Deps{
			ServiceName: version.Info().Service,
			StartedAt:   time.Now(),
			PG:          pingable(deps.PG),
			CH:          pingable(deps.CH),
		},
	}
}

// pingable drops typed nils so readiness reports them as skipped
func pingable(v any) any {
	if v == nil {
		return nil
	}
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer && rv.IsNil() {
		return nil
	}
	return v
}

func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(sub httpkit.Router) { metahttp.Register(sub, m.deps) })
}

func (m *Module) Name() string   { return m.b.Name }
func (m *Module) Prefix() string { return m.b.Prefix }
func (m *Module) Ports() any     { return nil }
