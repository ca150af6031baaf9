// Package mongoconn owns the lifecycle of the MongoDB connection backing the
// shared identity store.
//
// Every session validation depends on this connection, so the manager keeps
// an explicit state machine (Disconnected, Connecting, Connected,
// Disconnecting, Closed) instead of ambient global client state:
//
//   - Connect is idempotent while Connected and single-flight while
//     Connecting: concurrent callers share one underlying attempt.
//   - Failed attempts schedule a background retry after
//     RetryDelay × 2^(attempts-1); the retry wait never blocks a caller.
//     Request handlers arriving while Disconnected fail fast instead.
//   - After MaxRetries consecutive failures the manager reports
//     ErrConnectionExhausted exactly once and stops retrying. This is a
//     terminal condition a supervisor observes via the event stream; the
//     manager never exits the process itself, which keeps the logic
//     testable.
//   - Shutdown cancels any pending retry timer, closes the live client and
//     moves to the terminal Closed state. Concurrent termination signals
//     cannot double-run the drain, and Connect refuses new work once
//     shutting down.
//
// State transitions are announced on a push-style event stream so dependents
// (the identity store client) can short-circuit calls while disconnected
// rather than attempting doomed operations.
package mongoconn
