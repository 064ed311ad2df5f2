package submit

import (
	"context"
	"strings"
)

// Identity resolves the owner to record on a claim, ok=false when the caller is anonymous
type Identity interface {
	Identity(ctx context.Context) (owner string, ok bool)
}

// IdentityFunc adapts a function to Identity
type IdentityFunc func(ctx context.Context) (string, bool)

// Identity implements Identity
func (f IdentityFunc) Identity(ctx context.Context) (string, bool) { return f(ctx) }

// StaticIdentity is a fixed owner; empty means anonymous
type StaticIdentity string

// Identity implements Identity
func (s StaticIdentity) Identity(context.Context) (string, bool) {
	v := strings.TrimSpace(string(s))
	return v, v != ""
}

// Anonymous never resolves an owner
var Anonymous Identity = StaticIdentity("")

// WalletState is the wallet connection as observed by the caller at submit time
type WalletState struct {
	Connected bool
	Account   string
}

// Identity implements Identity; a connected wallet owns the claim
func (w WalletState) Identity(context.Context) (string, bool) {
	a := strings.TrimSpace(w.Account)
	return a, w.Connected && a != ""
}

// resolveOwner prefers a connected wallet, then the fallback identity
func resolveOwner(ctx context.Context, w WalletState, fallback Identity) *string {
	if owner, ok := w.Identity(ctx); ok {
		return &owner
	}
	if fallback == nil {
		return nil
	}
	if owner, ok := fallback.Identity(ctx); ok && strings.TrimSpace(owner) != "" {
		owner = strings.TrimSpace(owner)
		return &owner
	}
	return nil
}
