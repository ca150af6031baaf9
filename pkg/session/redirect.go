package session

import (
	"errors"
	"net/url"
	"path"
)

// Redirects resolves post-auth redirect targets against a service's base
// URL. Relative targets resolve against the base, foreign origins fall
// back to the base, and this service's own sign-in path is rewritten to
// the cluster-wide login URL so every service funnels logins through the
// issuing service.
type Redirects struct {
	base       *url.URL
	loginURL   string
	signInPath string
}

// RedirectsOption configures a Redirects resolver.
type RedirectsOption func(*Redirects)

// WithSignInPath overrides the local sign-in path that gets rewritten to
// the cluster login URL. Defaults to "/login".
func WithSignInPath(p string) RedirectsOption {
	return func(r *Redirects) {
		if p != "" {
			r.signInPath = p
		}
	}
}

// NewRedirects creates a redirect resolver for the service rooted at
// baseURL. loginURL is the absolute URL of the issuing service's login
// page.
func NewRedirects(baseURL, loginURL string, opts ...RedirectsOption) (*Redirects, error) {
	base, err := url.Parse(baseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, errors.Join(ErrInvalidBaseURL, err)
	}

	r := &Redirects{
		base:       base,
		loginURL:   loginURL,
		signInPath: "/login",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Resolve maps a requested redirect target onto a safe destination.
// It never returns an error: anything unusable degrades to the base URL.
func (r *Redirects) Resolve(target string) string {
	if target == "" {
		return r.base.String()
	}

	u, err := url.Parse(target)
	if err != nil {
		return r.base.String()
	}

	resolved := r.base.ResolveReference(u)
	if resolved.Scheme != r.base.Scheme || resolved.Host != r.base.Host {
		return r.base.String()
	}

	if path.Clean(resolved.Path) == path.Clean(r.signInPath) {
		return r.loginURL
	}
	return resolved.String()
}
