package mongoconn

import "errors"

var (
	// ErrMissingConnectionURL is returned when no MongoDB URI is configured.
	ErrMissingConnectionURL = errors.New("mongoconn: missing connection url")

	// ErrNotConnected is returned when the client is requested while the
	// manager is not in the Connected state.
	ErrNotConnected = errors.New("mongoconn: not connected")

	// ErrConnectionExhausted is reported after MaxRetries consecutive failed
	// attempts. It is terminal: the process cannot serve validations and a
	// supervisor should stop accepting new work.
	ErrConnectionExhausted = errors.New("mongoconn: connection attempts exhausted")

	// ErrShuttingDown rejects connect attempts during drain.
	ErrShuttingDown = errors.New("mongoconn: shutting down")
)
