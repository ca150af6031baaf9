package session

import "errors"

var (
	// ErrRejected is the single undifferentiated login failure. It covers
	// both unknown email and wrong password so the response does not reveal
	// whether the address is registered.
	ErrRejected = errors.New("session.rejected")

	// ErrInvalidBaseURL is returned when a redirect policy is constructed
	// with an unparseable base or login URL.
	ErrInvalidBaseURL = errors.New("session.invalid_base_url")
)
