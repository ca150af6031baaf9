package identity

import "errors"

var (
	// ErrNotFound means no identity matched the lookup.
	ErrNotFound = errors.New("identity: not found")

	// ErrInvalidID rejects malformed identifiers before they reach the store.
	ErrInvalidID = errors.New("identity: invalid id")

	// ErrInvalidName rejects display names outside the allowed length.
	ErrInvalidName = errors.New("identity: name must be between 2 and 50 characters")

	// ErrInvalidEmail rejects malformed email addresses.
	ErrInvalidEmail = errors.New("identity: invalid email address")

	// ErrPasswordTooShort rejects credentials below the minimum length.
	ErrPasswordTooShort = errors.New("identity: password must be at least 6 characters")

	// ErrEmailAlreadyExists is returned when the unique email index rejects
	// an insert. The check happens at the store, not just in memory, so
	// concurrent signups cannot race past it.
	ErrEmailAlreadyExists = errors.New("identity: email already exists")

	// ErrStoreUnavailable is the fast-fail result while the store connection
	// is down. It must never be presented to a user as "not logged in".
	ErrStoreUnavailable = errors.New("identity: store unavailable")
)
