// Package net carries request scoped identifiers on a context
package net

import (
	"context"

	chimw "github.com/go-chi/chi/v5/middleware"
)

type clientIPKey struct{}

// WithRequest stores the request id (under chi's key) and the client address; empty values are skipped
func WithRequest(ctx context.Context, reqID, clientIP string) context.Context {
	if reqID != "" {
		ctx = context.WithValue(ctx, chimw.RequestIDKey, reqID)
	}
	if clientIP != "" {
		ctx = context.WithValue(ctx, clientIPKey{}, clientIP)
	}
	return ctx
}

// RequestID is the request id set by WithRequest or chi's RequestID middleware
func RequestID(ctx context.Context) string { return chimw.GetReqID(ctx) }

// ClientIP is the client address set by WithRequest
func ClientIP(ctx context.Context) string {
	ip, _ := ctx.Value(clientIPKey{}).(string)
	return ip
}
