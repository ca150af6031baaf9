package session

import (
	"net/http"

	"github.com/dmitrymomot/ssokit/pkg/cookie"
)

// Middleware revalidates the session cookie on every request. A refreshed
// session gets a replacement cookie with a full TTL, an invalidated one is
// cleared, and a session retained through a store outage passes unchanged.
// A store outage under FailClosed answers 503 instead of logging the user
// out: a transient outage must never destroy valid sessions.
func (r *Revalidator) Middleware(cookies *cookie.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			raw, err := cookies.Session(req)
			if err != nil {
				raw = ""
			}

			res, err := r.Revalidate(req.Context(), raw)
			if err != nil {
				r.log.Error("session revalidation failed", "error", err)
				http.Error(w, "service unavailable", http.StatusServiceUnavailable)
				return
			}

			switch res.Status {
			case StatusRefreshed:
				cookies.SetSession(w, res.Token, r.codec.TTL())
				req = req.WithContext(WithClaims(req.Context(), res.Claims))
			case StatusRetained:
				req = req.WithContext(WithClaims(req.Context(), res.Claims))
			case StatusInvalidated:
				cookies.ClearSession(w)
			}

			next.ServeHTTP(w, req)
		})
	}
}

// RequireSession guards a handler chain behind an authenticated session.
// Anonymous requests get their original URL stored in the callback cookie
// and are redirected to the login page. Must run after Middleware.
func RequireSession(cookies *cookie.Manager, loginURL string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if _, ok := ClaimsFromContext(req.Context()); !ok {
				cookies.SetCallbackURL(w, req.URL.RequestURI())
				http.Redirect(w, req, loginURL, http.StatusFound)
				return
			}
			next.ServeHTTP(w, req)
		})
	}
}
