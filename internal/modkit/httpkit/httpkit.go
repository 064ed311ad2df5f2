// Package httpkit is the HTTP surface modules build against
// it re-exports the platform router and response types so modules never import platform/net/http
package httpkit

import (
	"net/http"
	"strings"

	phttp "ipclaim/internal/platform/net/http"
	"ipclaim/internal/platform/net/http/bind"
)

type (
	// Router is the platform router seam
	Router = phttp.Router
	// Response is what return style handlers produce
	Response = phttp.Response
	// JSONOptions tunes ParseJSON
	JSONOptions = bind.JSONOptions
)

// Handle adapts a return style handler
func Handle(fn func(*http.Request) Response) http.HandlerFunc { return phttp.Handle(fn) }

// OK wraps data in the 200 envelope
func OK(data any) Response { return phttp.OK(data) }

// Raw writes body as is with status
func Raw(status int, body any) Response { return phttp.Raw(status, body) }

// Error maps err to its status and envelope
func Error(err error) Response { return phttp.Error(err) }

// Param is a path parameter
func Param(r *http.Request, key string) string { return phttp.URLParam(r, key) }

// ParseJSON decodes and validates the body into T
func ParseJSON[T any](r *http.Request, opts ...JSONOptions) (T, error) {
	return bind.ParseJSON[T](r, opts...)
}

// Get mounts a handler whose result or error goes out in the envelope
func Get(r Router, path string, fn func(*http.Request) (any, error)) {
	r.Get(path, Handle(func(req *http.Request) Response {
		out, err := fn(req)
		if err != nil {
			return Error(err)
		}
		if resp, ok := out.(Response); ok {
			return resp
		}
		return OK(out)
	}))
}

// MountAPI mounts mount under /api/<version> behind mw
func MountAPI(r Router, version string, mw []func(http.Handler) http.Handler, mount func(Router)) {
	r.Route("/api/"+strings.Trim(version, "/"), func(api Router) {
		api.Use(mw...)
		mount(api)
	})
}

// MountAPIV1 is MountAPI for v1
func MountAPIV1(r Router, mw []func(http.Handler) http.Handler, mount func(Router)) {
	MountAPI(r, "v1", mw, mount)
}
