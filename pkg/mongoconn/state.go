package mongoconn

// State is the connection lifecycle state. Transitions are driven only by
// the Manager; there is one manager instance per process.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
	StateDisconnecting
	StateClosed
)

// String returns the readyState name, matching the driver's vocabulary.
func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateDisconnecting:
		return "disconnecting"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// EventType classifies a health notification.
type EventType int

const (
	// EventConnected is published on the first successful connect.
	EventConnected EventType = iota
	// EventReconnected is published when a connection is re-established
	// after the manager had been connected before.
	EventReconnected
	// EventDisconnected is published when the live connection is closed.
	EventDisconnected
	// EventError is published on a failed attempt below the retry ceiling.
	EventError
	// EventExhausted is published exactly once when the retry ceiling is
	// reached. Terminal: a supervisor should begin shutdown.
	EventExhausted
)

// String returns the event name for logging.
func (t EventType) String() string {
	switch t {
	case EventConnected:
		return "connected"
	case EventReconnected:
		return "reconnected"
	case EventDisconnected:
		return "disconnected"
	case EventError:
		return "error"
	case EventExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// Event is a push-style health notification emitted on state transitions.
type Event struct {
	Type    EventType
	Err     error
	Attempt int
}

// Stats is a point-in-time snapshot of the connection lifecycle, suitable
// for a diagnostics endpoint.
type Stats struct {
	State     string
	Attempts  int
	Connected bool
}
