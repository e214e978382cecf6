package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrUserAlreadyExists is returned when creating a user whose username is
	// already taken. Usernames double as KV key suffixes, so a second create
	// would silently overwrite the existing record.
	ErrUserAlreadyExists = errors.New("username already exists")

	// ErrNoUserWasFound is returned when a lookup by username matches no
	// stored record.
	ErrNoUserWasFound = errors.New("no user was found")

	// ErrRecordNotFound is returned when a lookup by ID matches no stored
	// record of the requested kind.
	ErrRecordNotFound = errors.New("record not found")

	// ErrInvalidTransition is returned when an appointment status change is
	// not allowed from the record's current status.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrLocalSessionNotFound is returned when no session blob is persisted
	// on this machine.
	ErrLocalSessionNotFound = errors.New("local session not found")

	// ErrLegacySession is returned when the persisted session blob predates
	// expiry tracking (a bare user snapshot). The blob is discarded; the
	// user must log in again.
	ErrLegacySession = errors.New("legacy session discarded")
)
