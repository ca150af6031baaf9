package session

import (
	"context"

	"github.com/dmitrymomot/ssokit/pkg/claims"
)

type contextKey struct{}

// WithClaims returns a child context carrying the session claims.
func WithClaims(ctx context.Context, sc claims.SessionClaims) context.Context {
	return context.WithValue(ctx, contextKey{}, sc)
}

// ClaimsFromContext extracts the session claims stored by the middleware.
// The boolean is false for anonymous requests.
func ClaimsFromContext(ctx context.Context) (claims.SessionClaims, bool) {
	sc, ok := ctx.Value(contextKey{}).(claims.SessionClaims)
	if !ok || sc.IsZero() {
		return claims.SessionClaims{}, false
	}
	return sc, true
}
