package claims

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const minSigningKeyLength = 32

// SessionClaims is the signed, time-bounded assertion of user identity
// carried between services. It is the only channel a non-issuing service
// uses to learn who the caller is, and must be re-validated against the
// identity store before its fields are trusted.
type SessionClaims struct {
	UserID string `json:"uid"`
	Name   string `json:"name,omitempty"`
	Email  string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// IsZero reports whether the claim carries no identity.
func (c SessionClaims) IsZero() bool {
	return c.UserID == ""
}

// Codec encodes and decodes session claims as HS256 JWTs.
// Safe for concurrent use; the signing key is never exposed.
type Codec struct {
	signingKey []byte
	ttl        time.Duration
	issuer     string
	leeway     time.Duration
}

// CodecOption configures a Codec.
type CodecOption func(*Codec)

// WithIssuer stamps the given issuer into every encoded claim.
func WithIssuer(issuer string) CodecOption {
	return func(c *Codec) {
		c.issuer = issuer
	}
}

// WithLeeway tolerates the given clock skew when validating expiry.
func WithLeeway(leeway time.Duration) CodecOption {
	return func(c *Codec) {
		if leeway > 0 {
			c.leeway = leeway
		}
	}
}

// NewCodec creates a codec with the shared signing key and session TTL.
// The key must be at least 32 bytes for HMAC-SHA256.
func NewCodec(signingKey []byte, ttl time.Duration, opts ...CodecOption) (*Codec, error) {
	if len(signingKey) == 0 {
		return nil, ErrMissingSigningKey
	}
	if len(signingKey) < minSigningKeyLength {
		return nil, ErrSigningKeyTooShort
	}
	if ttl <= 0 {
		return nil, ErrInvalidTTL
	}

	c := &Codec{
		signingKey: signingKey,
		ttl:        ttl,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// TTL returns the session lifetime stamped into encoded claims.
func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// Encode signs the claim with a fresh issued-at and expiry. The caller's
// temporal fields are always overwritten so a re-issued claim gets a full
// new TTL.
func (c *Codec) Encode(sc SessionClaims) (string, error) {
	if sc.IsZero() {
		return "", ErrInvalidToken
	}

	now := time.Now()
	sc.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   sc.UserID,
		Issuer:    c.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, sc).SignedString(c.signingKey)
	if err != nil {
		return "", ErrInvalidToken
	}
	return token, nil
}

// Decode verifies the token signature and temporal claims. Any failure,
// including expiry, collapses to ErrInvalidToken so callers never act on a
// partially valid claim.
func (c *Codec) Decode(token string) (SessionClaims, error) {
	var sc SessionClaims
	if token == "" {
		return SessionClaims{}, ErrInvalidToken
	}

	_, err := jwt.ParseWithClaims(token, &sc, func(t *jwt.Token) (any, error) {
		return c.signingKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(c.leeway),
	)
	if err != nil {
		return SessionClaims{}, ErrInvalidToken
	}

	if sc.UserID == "" {
		sc.UserID = sc.Subject
	}
	if sc.IsZero() {
		return SessionClaims{}, ErrInvalidToken
	}
	return sc, nil
}
