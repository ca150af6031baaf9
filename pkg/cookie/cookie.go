package cookie

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Fixed cookie names shared by every service in the deployment. Renaming
// any of them is a breaking change for the whole deployment at once.
const (
	SessionCookieName  = "sso.session-token"
	CallbackCookieName = "sso.callback-url"
	CSRFCookieName     = "sso.csrf-token"
)

// Manager writes and reads the three SSO cookies with the fixed attribute
// set. Safe for concurrent use.
type Manager struct {
	domain string
	secure bool
}

// New creates a cookie manager for the shared parent domain.
func New(cfg Config) (*Manager, error) {
	if cfg.Domain == "" {
		return nil, ErrMissingDomain
	}
	return &Manager{
		domain: cfg.Domain,
		secure: cfg.Secure,
	}, nil
}

// Domain returns the configured shared parent domain.
func (m *Manager) Domain() string {
	return m.domain
}

// SetSession writes the session token cookie with a Max-Age matching the
// claim TTL.
func (m *Manager) SetSession(w http.ResponseWriter, token string, ttl time.Duration) {
	http.SetCookie(w, m.build(SessionCookieName, token, int(ttl.Seconds()), true))
}

// Session extracts the raw session token from the request. Absence is
// reported as ErrCookieNotFound and treated as anonymous by callers.
func (m *Manager) Session(r *http.Request) (string, error) {
	return m.get(r, SessionCookieName)
}

// ClearSession expires the session cookie. Used when a session is
// invalidated: the claim is dropped entirely, not patched.
func (m *Manager) ClearSession(w http.ResponseWriter) {
	http.SetCookie(w, m.expired(SessionCookieName, true))
}

// SetCallbackURL records where the user should land after completing login
// on the issuing service.
func (m *Manager) SetCallbackURL(w http.ResponseWriter, target string) {
	http.SetCookie(w, m.build(CallbackCookieName, target, 0, false))
}

// CallbackURL returns the recorded post-login destination, if any.
func (m *Manager) CallbackURL(r *http.Request) (string, error) {
	return m.get(r, CallbackCookieName)
}

// ClearCallbackURL removes the callback hint once it has been consumed.
func (m *Manager) ClearCallbackURL(w http.ResponseWriter) {
	http.SetCookie(w, m.expired(CallbackCookieName, false))
}

// IssueCSRF mints a fresh CSRF token, sets its cookie and returns the token
// so the caller can embed it in a form or header.
func (m *Manager) IssueCSRF(w http.ResponseWriter) string {
	token := uuid.NewString()
	http.SetCookie(w, m.build(CSRFCookieName, token, 0, true))
	return token
}

// CSRF returns the CSRF token presented by the request.
func (m *Manager) CSRF(r *http.Request) (string, error) {
	return m.get(r, CSRFCookieName)
}

// VerifyCSRF compares the submitted token against the cookie value in
// constant time.
func (m *Manager) VerifyCSRF(r *http.Request, submitted string) bool {
	stored, err := m.get(r, CSRFCookieName)
	if err != nil || stored == "" || submitted == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(submitted)) == 1
}

// ClearAll expires the full cookie set.
func (m *Manager) ClearAll(w http.ResponseWriter) {
	m.ClearSession(w)
	m.ClearCallbackURL(w)
	http.SetCookie(w, m.expired(CSRFCookieName, true))
}

func (m *Manager) build(name, value string, maxAge int, httpOnly bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Domain:   m.domain,
		Path:     "/",
		MaxAge:   maxAge,
		Secure:   m.secure,
		HttpOnly: httpOnly,
		SameSite: http.SameSiteLaxMode,
	}
}

func (m *Manager) expired(name string, httpOnly bool) *http.Cookie {
	c := m.build(name, "", -1, httpOnly)
	c.Expires = time.Unix(0, 0)
	return c
}

func (m *Manager) get(r *http.Request, name string) (string, error) {
	c, err := r.Cookie(name)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return "", ErrCookieNotFound
		}
		return "", err
	}
	return c.Value, nil
}
