package claims

import "errors"

var (
	// ErrInvalidToken covers tampered, malformed and expired tokens alike.
	// Callers treat all of them as "no valid session".
	ErrInvalidToken = errors.New("claims: invalid token")

	// ErrMissingSigningKey is returned when the codec is constructed without a key.
	ErrMissingSigningKey = errors.New("claims: missing signing key")

	// ErrSigningKeyTooShort is returned for keys below the HMAC-SHA256 minimum.
	ErrSigningKeyTooShort = errors.New("claims: signing key must be at least 32 bytes")

	// ErrInvalidTTL is returned for non-positive session lifetimes.
	ErrInvalidTTL = errors.New("claims: ttl must be positive")
)
