package cookie

import "errors"

var (
	ErrCookieNotFound = errors.New("cookie.not_found")
	ErrMissingDomain  = errors.New("cookie.missing_domain")
)
