// Package identity provides typed operations against the shared user record
// every participating service validates sessions with.
//
// The client never holds a database handle of its own: it asks the
// connection manager for the live database on every operation and fails fast
// with ErrStoreUnavailable while the store is unreachable, instead of
// blocking a request handler for the retry interval. Every operation runs
// under a bounded timeout; exceeding it is treated like any other network
// failure.
//
// The credential hash never leaves the store boundary: it is excluded from
// JSON serialization and only ever consumed by VerifyPassword.
package identity
