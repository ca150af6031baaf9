package mongoconn

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Conn is the subset of driver behavior the manager drives. The default
// dialer wraps *mongo.Client; tests substitute their own.
type Conn interface {
	Ping(ctx context.Context) error
	Disconnect(ctx context.Context) error
}

// Dialer establishes the underlying connection. It must block until the
// connection is usable or ctx expires.
type Dialer func(ctx context.Context, cfg Config) (Conn, error)

// Manager owns the single store connection for the process.
type Manager struct {
	cfg        Config
	log        *slog.Logger
	dial       Dialer
	newBackoff func() retry.Backoff

	mu            sync.Mutex
	state         State
	attempts      int
	connectedOnce bool
	conn          Conn
	waiters       []chan error
	retryTimer    *time.Timer
	backoff       retry.Backoff
	shutdown      bool
	exhausted     bool

	subMu      sync.RWMutex
	subs       map[<-chan Event]chan Event
	subsClosed bool
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets a custom logger for the manager.
func WithLogger(log *slog.Logger) Option {
	return func(m *Manager) {
		if log != nil {
			m.log = log
		}
	}
}

// WithDialer replaces the MongoDB dialer. Used by tests and by deployments
// that need custom client options.
func WithDialer(dial Dialer) Option {
	return func(m *Manager) {
		if dial != nil {
			m.dial = dial
		}
	}
}

// WithBackoff replaces the retry delay source. The factory is invoked on
// every successful connect so a new failure series starts from the base
// delay again.
func WithBackoff(factory func() retry.Backoff) Option {
	return func(m *Manager) {
		if factory != nil {
			m.newBackoff = factory
		}
	}
}

// New creates a connection manager in the Disconnected state. Nothing is
// dialed until Connect is called.
func New(cfg Config, opts ...Option) (*Manager, error) {
	cfg = cfg.withDefaults()

	m := &Manager{
		cfg:   cfg,
		log:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		state: StateDisconnected,
		subs:  make(map[<-chan Event]chan Event),
	}
	for _, opt := range opts {
		opt(m)
	}

	if m.dial == nil {
		if cfg.ConnectionURL == "" {
			return nil, ErrMissingConnectionURL
		}
		m.dial = mongoDialer
	}
	if m.newBackoff == nil {
		base := cfg.RetryDelay
		m.newBackoff = func() retry.Backoff {
			return retry.NewExponential(base)
		}
	}
	m.backoff = m.newBackoff()

	return m, nil
}

// Connect brings the manager to the Connected state. It returns immediately
// when already connected, awaits the in-flight attempt when one exists, and
// otherwise performs a single dial attempt. A failed attempt returns its
// error to the caller while the manager keeps retrying in the background
// until the retry ceiling is reached.
func (m *Manager) Connect(ctx context.Context) error {
	m.mu.Lock()
	switch {
	case m.shutdown:
		m.mu.Unlock()
		return ErrShuttingDown
	case m.exhausted:
		m.mu.Unlock()
		return ErrConnectionExhausted
	case m.state == StateConnected:
		m.mu.Unlock()
		m.log.Debug("mongodb already connected, reusing connection")
		return nil
	case m.state == StateConnecting:
		// Single-flight: await the in-flight attempt's outcome.
		ch := make(chan error, 1)
		m.waiters = append(m.waiters, ch)
		m.mu.Unlock()
		select {
		case err := <-ch:
			return err
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	m.state = StateConnecting
	m.mu.Unlock()

	return m.attempt(ctx)
}

// attempt performs one dial while the manager is in Connecting state.
func (m *Manager) attempt(ctx context.Context) error {
	m.mu.Lock()
	attempt := m.attempts + 1
	m.mu.Unlock()

	m.log.Info("connecting to mongodb", slog.Int("attempt", attempt))

	dialCtx, cancel := context.WithTimeout(ctx, m.cfg.ConnectTimeout)
	conn, dialErr := m.dial(dialCtx, m.cfg)
	cancel()

	m.mu.Lock()
	if m.shutdown {
		m.flushWaiters(ErrShuttingDown)
		m.mu.Unlock()
		if conn != nil {
			_ = conn.Disconnect(context.Background())
		}
		return ErrShuttingDown
	}

	if dialErr == nil {
		reconnected := m.connectedOnce
		m.conn = conn
		m.state = StateConnected
		m.attempts = 0
		m.connectedOnce = true
		m.backoff = m.newBackoff()
		m.flushWaiters(nil)
		m.mu.Unlock()

		if reconnected {
			m.log.Info("mongodb reconnected")
			m.publish(Event{Type: EventReconnected})
		} else {
			m.log.Info("mongodb connected")
			m.publish(Event{Type: EventConnected})
		}
		return nil
	}

	m.attempts++
	attempts := m.attempts
	m.state = StateDisconnected

	if attempts >= m.cfg.MaxRetries {
		m.exhausted = true
		err := errors.Join(ErrConnectionExhausted, dialErr)
		m.flushWaiters(err)
		m.mu.Unlock()

		m.log.Error("mongodb connection attempts exhausted",
			slog.Int("attempts", attempts),
			slog.Any("error", dialErr),
		)
		m.publish(Event{Type: EventExhausted, Err: dialErr, Attempt: attempts})
		return err
	}

	delay, _ := m.backoff.Next()
	m.retryTimer = time.AfterFunc(delay, m.retry)
	err := fmt.Errorf("mongoconn: connect attempt %d failed: %w", attempts, dialErr)
	m.flushWaiters(err)
	m.mu.Unlock()

	m.log.Warn("mongodb connect failed, retry scheduled",
		slog.Int("attempt", attempts),
		slog.Duration("retry_in", delay),
		slog.Any("error", dialErr),
	)
	m.publish(Event{Type: EventError, Err: dialErr, Attempt: attempts})
	return err
}

// retry runs on the manager's own timer goroutine; it never blocks callers.
func (m *Manager) retry() {
	m.mu.Lock()
	if m.shutdown || m.exhausted || m.state != StateDisconnected {
		m.mu.Unlock()
		return
	}
	m.state = StateConnecting
	m.retryTimer = nil
	m.mu.Unlock()

	_ = m.attempt(context.Background())
}

// flushWaiters delivers the attempt outcome to all single-flight waiters.
// Caller must hold m.mu; waiter channels are buffered.
func (m *Manager) flushWaiters(err error) {
	for _, ch := range m.waiters {
		ch <- err
	}
	m.waiters = nil
}

// Ready reports whether the store connection is live. The identity store
// client uses this gate to fail fast instead of attempting doomed
// operations.
func (m *Manager) Ready() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state == StateConnected
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Client returns the live driver client.
func (m *Manager) Client() (*mongo.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateConnected {
		return nil, ErrNotConnected
	}
	mc, ok := m.conn.(*mongoConn)
	if !ok {
		return nil, ErrNotConnected
	}
	return mc.client, nil
}

// Database returns a handle to the named database on the live client.
func (m *Manager) Database(name string) (*mongo.Database, error) {
	client, err := m.Client()
	if err != nil {
		return nil, err
	}
	return client.Database(name), nil
}

// Stats returns a snapshot of the connection lifecycle.
func (m *Manager) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Stats{
		State:     m.state.String(),
		Attempts:  m.attempts,
		Connected: m.state == StateConnected,
	}
}

// Healthcheck returns a probe function suitable for readiness endpoints.
func (m *Manager) Healthcheck() func(context.Context) error {
	return func(ctx context.Context) error {
		m.mu.Lock()
		conn := m.conn
		connected := m.state == StateConnected
		m.mu.Unlock()

		if !connected || conn == nil {
			return ErrNotConnected
		}
		if err := conn.Ping(ctx); err != nil {
			return fmt.Errorf("mongoconn: healthcheck: %w", err)
		}
		return nil
	}
}

// Subscribe returns a channel of health events. Sends are non-blocking;
// a slow subscriber misses events rather than stalling the manager. The
// channel is closed on shutdown.
func (m *Manager) Subscribe() <-chan Event {
	ch := make(chan Event, 8)

	m.subMu.Lock()
	defer m.subMu.Unlock()
	if m.subsClosed {
		close(ch)
		return ch
	}
	m.subs[ch] = ch
	return ch
}

// Unsubscribe removes and closes a subscription channel.
func (m *Manager) Unsubscribe(ch <-chan Event) {
	m.subMu.Lock()
	defer m.subMu.Unlock()
	if send, ok := m.subs[ch]; ok {
		delete(m.subs, ch)
		close(send)
	}
}

func (m *Manager) publish(e Event) {
	m.subMu.RLock()
	defer m.subMu.RUnlock()
	if m.subsClosed {
		return
	}
	for _, ch := range m.subs {
		select {
		case ch <- e:
		default:
		}
	}
}

func (m *Manager) closeSubs() {
	m.subMu.Lock()
	defer m.subMu.Unlock()
	if m.subsClosed {
		return
	}
	m.subsClosed = true
	for key, ch := range m.subs {
		delete(m.subs, key)
		close(ch)
	}
}

// ReportDisconnect informs the manager that the live connection was lost,
// typically because a store operation observed a network failure. The dead
// client is discarded and the retry cycle starts in the background; a later
// successful attempt publishes EventReconnected.
func (m *Manager) ReportDisconnect(cause error) {
	m.mu.Lock()
	if m.shutdown || m.state != StateConnected {
		m.mu.Unlock()
		return
	}
	conn := m.conn
	m.conn = nil
	m.state = StateDisconnected
	delay, _ := m.backoff.Next()
	m.retryTimer = time.AfterFunc(delay, m.retry)
	m.mu.Unlock()

	m.log.Warn("mongodb connection lost", slog.Any("error", cause))
	m.publish(Event{Type: EventDisconnected, Err: cause})
	if conn != nil {
		go func() { _ = conn.Disconnect(context.Background()) }()
	}
}

// Shutdown drains the manager on a termination signal: it cancels any
// pending retry timer, closes the live connection and moves to the terminal
// Closed state. Safe to call from concurrent signal handlers; only the
// first call performs the drain.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	if m.shutdown {
		m.mu.Unlock()
		return nil
	}
	m.shutdown = true
	if m.retryTimer != nil {
		m.retryTimer.Stop()
		m.retryTimer = nil
	}
	m.flushWaiters(ErrShuttingDown)
	conn := m.conn
	m.conn = nil
	m.state = StateDisconnecting
	m.mu.Unlock()

	var err error
	if conn != nil {
		m.log.Info("closing mongodb connection")
		err = conn.Disconnect(ctx)
		m.publish(Event{Type: EventDisconnected})
	}

	m.mu.Lock()
	m.state = StateClosed
	m.mu.Unlock()
	m.closeSubs()

	if err != nil {
		return fmt.Errorf("mongoconn: disconnect: %w", err)
	}
	m.log.Info("mongodb connection closed")
	return nil
}

// mongoConn adapts *mongo.Client to the Conn interface.
type mongoConn struct {
	client *mongo.Client
}

func (c *mongoConn) Ping(ctx context.Context) error {
	return c.client.Ping(ctx, nil)
}

func (c *mongoConn) Disconnect(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}

// mongoDialer connects a driver client with the configured pool options and
// verifies it with a ping before handing it to the manager.
func mongoDialer(ctx context.Context, cfg Config) (Conn, error) {
	client, err := mongo.Connect(
		options.Client().
			ApplyURI(cfg.ConnectionURL).
			SetAppName(cfg.AppName).
			SetConnectTimeout(cfg.ConnectTimeout).
			SetServerSelectionTimeout(cfg.ServerSelectionTimeout).
			SetMaxPoolSize(cfg.MaxPoolSize).
			SetMinPoolSize(cfg.MinPoolSize).
			SetMaxConnIdleTime(cfg.MaxConnIdleTime).
			SetRetryWrites(cfg.RetryWrites).
			SetRetryReads(cfg.RetryReads),
	)
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return &mongoConn{client: client}, nil
}
