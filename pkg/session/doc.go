// Package session implements the cross-service session protocol.
//
// Exactly one service in the deployment runs the Issuer: it converts
// verified credentials into a signed session claim. Every other service
// runs the Revalidator: on each request it decodes the inbound claim,
// re-checks it against the shared identity store and either refreshes the
// session with a full new TTL or invalidates it entirely.
//
// Two rules keep the protocol honest:
//
//   - The inbound claim is only ever a lookup key. Display fields (name,
//     email) of a refreshed claim are always re-derived from the current
//     store record, never copied from the inbound token, so stale data
//     cannot propagate between services.
//   - Store unavailability is distinct from authentication failure.
//     "Cannot verify" must never be presented as "not logged in": a
//     transient outage would otherwise destroy valid sessions. The
//     Revalidator's outage policy decides whether to fail closed (surface
//     the error) or fail open (retain the inbound claim for this request).
//
// Login rejections are deliberately undifferentiated: unknown email and
// wrong password produce the same ErrRejected so callers cannot probe for
// registered addresses. The internal log keeps the distinction.
package session
