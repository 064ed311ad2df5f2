package httpkit

import (
	"compress/flate"
	"net/http"
	"time"

	phttp "ipclaim/internal/platform/net/http"
	"ipclaim/internal/platform/net/middleware"
)

// StackOptions tunes CommonStackWith
type StackOptions struct {
	// CORSOrigins are the allowed origins, empty keeps the go-chi/cors default
	CORSOrigins []string
	// SlowRequest logs requests at warn level once they take this long, 0 disables
	SlowRequest time.Duration
}

// CommonStackWith is the middleware every API route runs behind, outermost first
// handlers mount behind it via MountAPIV1
func CommonStackWith(o StackOptions) []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		middleware.RequestID(),
		middleware.RealIP(),
		middleware.RequestScope(),
		middleware.RecoverJSON,
		middleware.NoCache(),
		middleware.AccessLogZerolog(middleware.AccessLogOptions{Slow: o.SlowRequest}),
		middleware.CORS(middleware.CORSOptions{AllowedOrigins: o.CORSOrigins}),
		middleware.Compress(flate.BestSpeed),
		middleware.Heartbeat("/health"),
		middleware.StripSlashes(),
		middleware.Timeout(30 * time.Second),
	}
}

// RateLimit wires the per client limiter to the platform JSON writer
// body is written as is with status 429
func RateLimit(rps float64, burst int, body any) func(http.Handler) http.Handler {
	return middleware.RateLimit(middleware.RateLimitOptions{RPS: rps, Burst: burst, Body: body}, phttp.JSON)
}
