// Package claims encodes and decodes the signed session claim shared between
// services.
//
// The claim is a compact HS256 JWT carrying the user's id, display name and
// email together with issued-at and expiry timestamps. The codec is a pure
// transformation: it never touches the identity store, and decoding a
// tampered, malformed or expired token always fails with ErrInvalidToken —
// an expired claim is never partially trusted.
//
// Every service in the deployment must construct its codec with the same
// signing key, otherwise tokens issued by one service cannot be read by
// another and sharing breaks.
package claims
