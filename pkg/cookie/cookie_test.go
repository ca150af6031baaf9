package cookie_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/ssokit/pkg/cookie"
)

func newManager(t *testing.T, secure bool) *cookie.Manager {
	t.Helper()
	m, err := cookie.New(cookie.Config{Domain: ".local.a.com", Secure: secure})
	require.NoError(t, err)
	return m
}

func findCookie(t *testing.T, w *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("cookie %q not set", name)
	return nil
}

func TestNew_MissingDomain(t *testing.T) {
	t.Parallel()

	_, err := cookie.New(cookie.Config{})
	assert.ErrorIs(t, err, cookie.ErrMissingDomain)
}

func TestSetSession_Attributes(t *testing.T) {
	t.Parallel()

	m := newManager(t, true)
	w := httptest.NewRecorder()

	m.SetSession(w, "token-value", 24*time.Hour)

	c := findCookie(t, w, cookie.SessionCookieName)
	assert.Equal(t, "token-value", c.Value)
	assert.Equal(t, ".local.a.com", c.Domain)
	assert.Equal(t, "/", c.Path)
	assert.Equal(t, int((24 * time.Hour).Seconds()), c.MaxAge)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
}

func TestSetSession_InsecureEnvironment(t *testing.T) {
	t.Parallel()

	m := newManager(t, false)
	w := httptest.NewRecorder()

	m.SetSession(w, "token-value", time.Hour)

	c := findCookie(t, w, cookie.SessionCookieName)
	assert.False(t, c.Secure)
}

func TestSession_RoundTrip(t *testing.T) {
	t.Parallel()

	m := newManager(t, false)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: cookie.SessionCookieName, Value: "raw-token"})

	token, err := m.Session(r)
	require.NoError(t, err)
	assert.Equal(t, "raw-token", token)
}

func TestSession_Missing(t *testing.T) {
	t.Parallel()

	m := newManager(t, false)
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	_, err := m.Session(r)
	assert.ErrorIs(t, err, cookie.ErrCookieNotFound)
}

func TestClearSession(t *testing.T) {
	t.Parallel()

	m := newManager(t, false)
	w := httptest.NewRecorder()

	m.ClearSession(w)

	c := findCookie(t, w, cookie.SessionCookieName)
	assert.Empty(t, c.Value)
	assert.Equal(t, -1, c.MaxAge)
	assert.Equal(t, ".local.a.com", c.Domain)
}

func TestCallbackURL_NotHTTPOnly(t *testing.T) {
	t.Parallel()

	m := newManager(t, false)
	w := httptest.NewRecorder()

	m.SetCallbackURL(w, "https://b.local.a.com/dashboard")

	c := findCookie(t, w, cookie.CallbackCookieName)
	assert.False(t, c.HttpOnly)
	assert.Equal(t, "https://b.local.a.com/dashboard", c.Value)
}

func TestIssueCSRF(t *testing.T) {
	t.Parallel()

	m := newManager(t, false)
	w := httptest.NewRecorder()

	token := m.IssueCSRF(w)
	require.NotEmpty(t, token)

	c := findCookie(t, w, cookie.CSRFCookieName)
	assert.Equal(t, token, c.Value)
	assert.True(t, c.HttpOnly)
}

func TestVerifyCSRF(t *testing.T) {
	t.Parallel()

	m := newManager(t, false)

	r := httptest.NewRequest(http.MethodPost, "/", nil)
	r.AddCookie(&http.Cookie{Name: cookie.CSRFCookieName, Value: "csrf-token"})

	assert.True(t, m.VerifyCSRF(r, "csrf-token"))
	assert.False(t, m.VerifyCSRF(r, "other-token"))
	assert.False(t, m.VerifyCSRF(r, ""))

	empty := httptest.NewRequest(http.MethodPost, "/", nil)
	assert.False(t, m.VerifyCSRF(empty, "csrf-token"))
}

func TestClearAll(t *testing.T) {
	t.Parallel()

	m := newManager(t, false)
	w := httptest.NewRecorder()

	m.ClearAll(w)

	for _, name := range []string{cookie.SessionCookieName, cookie.CallbackCookieName, cookie.CSRFCookieName} {
		c := findCookie(t, w, name)
		assert.Equal(t, -1, c.MaxAge, name)
		assert.Empty(t, c.Value, name)
	}
}

// Cookies written by one service must be presentable to another service on
// the same parent domain; attributes are part of the sharing contract.
func TestSharedDomainContract(t *testing.T) {
	t.Parallel()

	a := newManager(t, false)
	b := newManager(t, false)

	wa := httptest.NewRecorder()
	a.SetSession(wa, "shared-token", time.Hour)
	ca := findCookie(t, wa, cookie.SessionCookieName)

	wb := httptest.NewRecorder()
	b.SetSession(wb, "shared-token", time.Hour)
	cb := findCookie(t, wb, cookie.SessionCookieName)

	assert.Equal(t, ca.Name, cb.Name)
	assert.Equal(t, ca.Domain, cb.Domain)
	assert.Equal(t, ca.Path, cb.Path)
	assert.Equal(t, ca.SameSite, cb.SameSite)
	assert.Equal(t, ca.HttpOnly, cb.HttpOnly)
}
