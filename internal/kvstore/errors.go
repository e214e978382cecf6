package kvstore

import "errors"

var (
	// ErrUnauthorized is returned when the store rejects the bearer token.
	ErrUnauthorized = errors.New("kv store unauthorized")

	// ErrKeyNotFound is returned by Get when the store answers with a null
	// result, i.e. the key does not exist.
	ErrKeyNotFound = errors.New("key not found")

	// ErrMalformedResponse is returned when the store's answer cannot be
	// decoded as a {"result": ...} envelope.
	ErrMalformedResponse = errors.New("malformed store response")
)
