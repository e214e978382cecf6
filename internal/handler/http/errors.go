package http

import "errors"

var (
	// ErrEmptyAuthorizationHeader is returned when the Authorization header
	// is absent from the request.
	ErrEmptyAuthorizationHeader = errors.New("empty authorization header")

	// ErrInvalidAuthorizationHeader is returned when the header does not
	// follow the "Bearer <token>" format.
	ErrInvalidAuthorizationHeader = errors.New("invalid authorization header")

	// ErrEmptyToken is returned when the bearer token part is empty.
	ErrEmptyToken = errors.New("empty token")

	// ErrUnknownCommand is returned for command names outside the protocol.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrWrongArgumentCount is returned when a known command arrives with
	// the wrong number of arguments.
	ErrWrongArgumentCount = errors.New("wrong argument count")
)
