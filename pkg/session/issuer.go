package session

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/dmitrymomot/ssokit/pkg/claims"
	"github.com/dmitrymomot/ssokit/pkg/identity"
)

// Issuer converts credentials into session claims. Only the single service
// that owns the login flow runs one.
type Issuer struct {
	store   IdentityStore
	codec   *claims.Codec
	service string
	log     *slog.Logger
}

// IssuerOption configures an Issuer.
type IssuerOption func(*Issuer)

// WithIssuerLogger sets a custom logger for the issuer.
func WithIssuerLogger(log *slog.Logger) IssuerOption {
	return func(i *Issuer) {
		if log != nil {
			i.log = log
		}
	}
}

// NewIssuer creates the issuing-side validator for the named service.
func NewIssuer(store IdentityStore, codec *claims.Codec, serviceName string, opts ...IssuerOption) *Issuer {
	i := &Issuer{
		store:   store,
		codec:   codec,
		service: serviceName,
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Authenticate verifies the credentials and, on success, records this
// service's usage and issues a fresh claim with a full TTL. Every failure
// mode that the caller could use to probe for registered emails collapses
// into ErrRejected; only store unavailability is surfaced distinctly,
// because "cannot verify" must never read as "wrong credentials".
func (i *Issuer) Authenticate(ctx context.Context, email, password string) (claims.SessionClaims, string, error) {
	email = identity.NormalizeEmail(email)
	if email == "" || password == "" {
		return claims.SessionClaims{}, "", ErrRejected
	}

	ident, err := i.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, identity.ErrStoreUnavailable) {
			return claims.SessionClaims{}, "", err
		}
		i.log.Info("login rejected",
			slog.String("email", email),
			slog.String("reason", "unknown email"),
		)
		return claims.SessionClaims{}, "", ErrRejected
	}

	if !i.store.VerifyPassword(password, ident.PasswordHash) {
		i.log.Info("login rejected",
			slog.String("email", email),
			slog.String("reason", "credential mismatch"),
		)
		return claims.SessionClaims{}, "", ErrRejected
	}

	ident, err = i.store.RecordUsage(ctx, ident.ID.Hex(), i.service)
	if err != nil {
		if errors.Is(err, identity.ErrStoreUnavailable) {
			return claims.SessionClaims{}, "", err
		}
		// The account vanished between lookup and usage stamp.
		return claims.SessionClaims{}, "", ErrRejected
	}

	sc := claimsFrom(ident)
	token, err := i.codec.Encode(sc)
	if err != nil {
		return claims.SessionClaims{}, "", err
	}

	i.log.Info("login succeeded",
		slog.String("user_id", sc.UserID),
		slog.String("service", i.service),
	)
	return sc, token, nil
}
