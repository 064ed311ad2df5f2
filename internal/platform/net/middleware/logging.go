package middleware

import (
	"net/http"

	"ipclaim/internal/platform/logger"
	pnet "ipclaim/internal/platform/net"
)

// RequestScope copies the request id and client ip onto the context so logger.C picks them up
// mount after RequestID and RealIP
func RequestScope() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			rid, ip := pnet.RequestID(ctx), ClientIP(r)
			ctx = pnet.WithRequest(ctx, rid, ip)
			ctx = logger.WithRequest(ctx, rid, ip)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
