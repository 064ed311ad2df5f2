// Package middleware is the HTTP middleware used by the API: thin chi and go-chi/cors adapters plus in house ones
package middleware

import (
	"net/http"
	"time"

	pstrings "ipclaim/internal/platform/strings"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RequestID reuses an incoming X-Request-Id or mints one, and echoes it on the response
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return chimw.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set(chimw.RequestIDHeader, chimw.GetReqID(r.Context()))
			next.ServeHTTP(w, r)
		}))
	}
}

// RealIP rewrites RemoteAddr from X-Real-IP / X-Forwarded-For
func RealIP() func(http.Handler) http.Handler { return chimw.RealIP }

// NoCache marks every response uncacheable
func NoCache() func(http.Handler) http.Handler { return chimw.NoCache }

// StripSlashes routes /claims/ as /claims
func StripSlashes() func(http.Handler) http.Handler { return chimw.StripSlashes }

// Heartbeat answers GET path with 200 before routing
func Heartbeat(path string) func(http.Handler) http.Handler { return chimw.Heartbeat(path) }

// Timeout cancels the request context after d
func Timeout(d time.Duration) func(http.Handler) http.Handler { return chimw.Timeout(d) }

// Compress gzips or deflates responses at level for clients that accept it
func Compress(level int) func(http.Handler) http.Handler { return chimw.Compress(level) }

// CORSOptions are the go-chi/cors knobs the API exposes
type CORSOptions struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
	MaxAge         int
}

var (
	corsMethods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}
	corsHeaders = []string{"Accept", "Content-Type", "X-Request-Id"}
)

// CORS applies go-chi/cors; empty method and header lists get the API defaults
func CORS(o CORSOptions) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: o.AllowedOrigins,
		AllowedMethods: pstrings.IfEmpty(o.AllowedMethods, corsMethods),
		AllowedHeaders: pstrings.IfEmpty(o.AllowedHeaders, corsHeaders),
		ExposedHeaders: []string{"X-Request-Id", "Retry-After"},
		MaxAge:         o.MaxAge,
	})
}
