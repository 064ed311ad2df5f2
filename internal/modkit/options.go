package modkit

import (
	"net/http"

	"ipclaim/internal/modkit/httpkit"
	pstrings "ipclaim/internal/platform/strings"
)

// Option adjusts a module before it is built
type Option func(*Built)

// Built is a module's resolved name, mount point and middleware
type Built struct {
	Name     string
	Prefix   string
	Mw       []func(http.Handler) http.Handler
	Register func(httpkit.Router)
}

// WithName names the module for logs
func WithName(name string) Option { return func(b *Built) { b.Name = name } }

// WithPrefix is the path the module mounts under, e.g. "/claims"
func WithPrefix(prefix string) Option { return func(b *Built) { b.Prefix = prefix } }

// WithMiddlewares appends module scoped middleware
func WithMiddlewares(mw ...func(http.Handler) http.Handler) Option {
	return func(b *Built) { b.Mw = append(b.Mw, mw...) }
}

// WithRegister adds routes after the module's own
func WithRegister(fn func(httpkit.Router)) Option { return func(b *Built) { b.Register = fn } }

// Build applies opts in order; a blank name or prefix panics
func Build(opts ...Option) Built {
	var b Built
	for _, o := range opts {
		o(&b)
	}
	if pstrings.Blank(b.Name) {
		panic("modkit: module name is required")
	}
	b.Prefix = pstrings.MustPrefix(b.Prefix)
	return b
}

// Mount routes register, then any WithRegister routes, under b.Prefix behind b.Mw
func (b Built) Mount(r httpkit.Router, register func(httpkit.Router)) {
	r.Route(b.Prefix, func(sub httpkit.Router) {
		sub.Use(b.Mw...)
		register(sub)
		if b.Register != nil {
			b.Register(sub)
		}
	})
}
