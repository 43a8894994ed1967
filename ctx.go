package auth

import (
	"context"
)

var sessionCtxKey = &contextKey{"session"}
var claimsCtxKey = &contextKey{"claims"}

type contextKey struct {
	name string
}

// WithSessionContext sets the SessionObject in the given context
func WithSessionContext(ctx context.Context, session *SessionObject) context.Context {
	return context.WithValue(ctx, sessionCtxKey, session)
}

// SessionFromContext finds the session from the context.
func SessionFromContext(ctx context.Context) (*SessionObject, bool) {
	raw, ok := ctx.Value(sessionCtxKey).(*SessionObject)
	return raw, ok
}

// WithClaimsContext sets the JWTClaims in the given context
func WithClaimsContext(ctx context.Context, claims *JWTClaims) context.Context {
	return context.WithValue(ctx, claimsCtxKey, claims)
}

// ClaimsFromContext extracts the JWTClaims from the standard context
func ClaimsFromContext(ctx context.Context) (*JWTClaims, bool) {
	raw, ok := ctx.Value(claimsCtxKey).(*JWTClaims)
	return raw, ok
}
