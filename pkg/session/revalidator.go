package session

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/dmitrymomot/ssokit/pkg/claims"
	"github.com/dmitrymomot/ssokit/pkg/identity"
)

// Status describes the outcome of revalidating an inbound token.
type Status int

const (
	// StatusNoSession means no token was presented.
	StatusNoSession Status = iota

	// StatusRefreshed means the token was valid, the identity still
	// exists, and a fresh token was issued from the store record.
	StatusRefreshed

	// StatusInvalidated means the token was expired, malformed, or its
	// subject no longer exists. The caller should clear the session.
	StatusInvalidated

	// StatusRetained means the store was unreachable and the outage
	// policy chose to keep the inbound token as-is for its remaining
	// lifetime.
	StatusRetained
)

// String implements fmt.Stringer.
func (s Status) String() string {
	switch s {
	case StatusNoSession:
		return "no_session"
	case StatusRefreshed:
		return "refreshed"
	case StatusInvalidated:
		return "invalidated"
	case StatusRetained:
		return "retained"
	default:
		return "unknown"
	}
}

// OutagePolicy decides what happens to an otherwise-valid token when the
// identity store cannot be reached.
type OutagePolicy int

const (
	// FailClosed surfaces the store error so callers can return a
	// service-unavailable response instead of silently logging out.
	FailClosed OutagePolicy = iota

	// FailOpen keeps the inbound claims for the token's remaining
	// lifetime without contacting the store.
	FailOpen
)

// Result is the outcome of a revalidation pass.
type Result struct {
	Status Status
	Claims claims.SessionClaims
	Token  string
}

// Revalidator checks inbound tokens against the identity store on every
// request and re-issues them with refreshed claims. Every service in the
// cluster runs one; only the issuing service also runs an Issuer.
type Revalidator struct {
	store   IdentityStore
	codec   *claims.Codec
	service string
	policy  OutagePolicy
	log     *slog.Logger
}

// RevalidatorOption configures a Revalidator.
type RevalidatorOption func(*Revalidator)

// WithOutagePolicy sets the behavior when the store is unreachable.
// The default is FailClosed.
func WithOutagePolicy(p OutagePolicy) RevalidatorOption {
	return func(r *Revalidator) {
		r.policy = p
	}
}

// WithLogger sets a custom logger for the revalidator.
func WithLogger(log *slog.Logger) RevalidatorOption {
	return func(r *Revalidator) {
		if log != nil {
			r.log = log
		}
	}
}

// NewRevalidator creates a per-request session revalidator for the named
// service.
func NewRevalidator(store IdentityStore, codec *claims.Codec, serviceName string, opts ...RevalidatorOption) *Revalidator {
	r := &Revalidator{
		store:   store,
		codec:   codec,
		service: serviceName,
		policy:  FailClosed,
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Codec exposes the token codec so transports can learn the session TTL.
func (r *Revalidator) Codec() *claims.Codec {
	return r.codec
}

// Revalidate decodes the raw token, confirms its subject still exists in
// the store, and issues a replacement token whose claims are re-derived
// from the store record. An empty raw token is StatusNoSession. A token
// that fails decoding or names a missing identity is StatusInvalidated,
// which is an outcome, not an error. Only store outages return a non-nil
// error, and then only under FailClosed.
func (r *Revalidator) Revalidate(ctx context.Context, raw string) (Result, error) {
	if raw == "" {
		return Result{Status: StatusNoSession}, nil
	}

	inbound, err := r.codec.Decode(raw)
	if err != nil {
		r.log.Debug("session invalidated", slog.String("reason", "undecodable token"))
		return Result{Status: StatusInvalidated}, nil
	}

	ident, err := r.store.FindByID(ctx, inbound.UserID)
	if err != nil {
		if errors.Is(err, identity.ErrStoreUnavailable) {
			return r.outage(inbound, raw, err)
		}
		r.log.Info("session invalidated",
			slog.String("user_id", inbound.UserID),
			slog.String("reason", "identity gone"),
		)
		return Result{Status: StatusInvalidated}, nil
	}

	ident, err = r.store.RecordUsage(ctx, ident.ID.Hex(), r.service)
	if err != nil {
		if errors.Is(err, identity.ErrStoreUnavailable) {
			return r.outage(inbound, raw, err)
		}
		return Result{Status: StatusInvalidated}, nil
	}

	sc := claimsFrom(ident)
	token, err := r.codec.Encode(sc)
	if err != nil {
		return Result{}, err
	}
	return Result{Status: StatusRefreshed, Claims: sc, Token: token}, nil
}

func (r *Revalidator) outage(inbound claims.SessionClaims, raw string, cause error) (Result, error) {
	if r.policy == FailOpen {
		r.log.Warn("store unreachable, retaining session",
			slog.String("user_id", inbound.UserID),
		)
		return Result{Status: StatusRetained, Claims: inbound, Token: raw}, nil
	}
	return Result{}, cause
}
