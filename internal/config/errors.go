package config

import "errors"

// Validation errors returned when required configuration groups are
// incomplete for the binary being started.
var (
	// ErrInvalidKVStoreConfigs indicates missing hosted-store settings
	// (base URL or bearer token).
	ErrInvalidKVStoreConfigs = errors.New("invalid kv store configuration")

	// ErrInvalidAppConfigs indicates missing application-level secrets
	// (token sign key or issuer).
	ErrInvalidAppConfigs = errors.New("invalid app configuration")

	// ErrInvalidSessionConfigs indicates unusable session settings
	// (for example, a check interval longer than the session timeout).
	ErrInvalidSessionConfigs = errors.New("invalid session configuration")

	// ErrInvalidStorageConfigs indicates kvd storage settings that cannot
	// open a backend (empty DSN).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")

	// ErrInvalidFetchStrategy indicates an unknown BulkRead strategy name.
	ErrInvalidFetchStrategy = errors.New("invalid fetch strategy")
)
