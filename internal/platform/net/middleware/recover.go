package middleware

import (
	"encoding/json"
	"net/http"
	"runtime/debug"

	perr "ipclaim/internal/platform/errors"
	"ipclaim/internal/platform/logger"
	pnet "ipclaim/internal/platform/net"
)

// RecoverJSON turns a panic into a logged stack and a JSON 500 envelope
// http.ErrAbortHandler is re-panicked so net/http can abort the connection
func RecoverJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			if v == http.ErrAbortHandler {
				panic(v)
			}
			rid := pnet.RequestID(r.Context())
			logger.C(r.Context()).Error().
				Interface("panic", v).
				Bytes("stack", debug.Stack()).
				Msg("panic recovered")

			wire := perr.WireFrom(perr.PanicErrf("internal error"))
			if rid != "" {
				w.Header().Set("X-Request-Id", rid)
			}
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"status_code": http.StatusInternalServerError,
				"status":      http.StatusText(http.StatusInternalServerError),
				"code":        wire.Code,
				"error":       wire.Message,
				"request_id":  rid,
			})
		}()
		next.ServeHTTP(w, r)
	})
}
