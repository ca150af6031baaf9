package session

import (
	"context"

	"github.com/dmitrymomot/ssokit/pkg/claims"
	"github.com/dmitrymomot/ssokit/pkg/identity"
)

// IdentityStore is the slice of the identity store the session protocol
// depends on. Satisfied by *identity.Client.
type IdentityStore interface {
	// FindByEmail looks up an identity by normalized email.
	FindByEmail(ctx context.Context, email string) (*identity.Identity, error)

	// FindByID looks up an identity by hex id, rejecting malformed ids
	// without querying the store.
	FindByID(ctx context.Context, id string) (*identity.Identity, error)

	// VerifyPassword compares a plaintext credential against the stored
	// hash. Always a boolean; a mismatch is not an error.
	VerifyPassword(plain, hash string) bool

	// RecordUsage idempotently adds the service name to the identity's
	// service set and stamps last-login, returning the updated record.
	RecordUsage(ctx context.Context, id, serviceName string) (*identity.Identity, error)
}

// claimsFrom derives a session claim strictly from the current store
// record. This is the only place claims are built, which structurally
// prevents stale inbound fields from leaking into re-issued tokens.
func claimsFrom(ident *identity.Identity) claims.SessionClaims {
	return claims.SessionClaims{
		UserID: ident.ID.Hex(),
		Name:   ident.Name,
		Email:  ident.Email,
	}
}
