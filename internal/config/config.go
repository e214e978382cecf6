// Package config loads the application configuration by merging three
// sources (environment variables, command-line flags, and an optional JSON
// file) and validating the result for the binary being started.
package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container for salon-desk.
// It aggregates all sub-configurations and is populated by merging values
// from environment variables, command-line flags, and an optional JSON file.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds application-level settings such as token keys and the
	// application version.
	App App `envPrefix:"APP_"`

	// KVStore holds the connection settings for the hosted key-value store.
	KVStore KVStore `envPrefix:"KVSTORE_"`

	// Session holds the session lifecycle settings of the client.
	Session Session `envPrefix:"SESSION_"`

	// Server holds network settings for the kvd daemon.
	Server Server `envPrefix:"SERVER_"`

	// Storage holds the kvd persistence settings.
	Storage Storage `envPrefix:"STORAGE_"`

	// JSONFilePath is the optional path to a JSON configuration file. When
	// non-empty, the file is parsed and merged on top of the values already
	// loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level configuration values.
type App struct {
	// TokenSignKey is the secret used to sign and verify session tokens.
	// Must be kept confidential.
	// Env: APP_TOKEN_SIGN_KEY
	TokenSignKey string `env:"TOKEN_SIGN_KEY"`

	// TokenIssuer is the "iss" claim embedded in every session token.
	// Env: APP_TOKEN_ISSUER
	TokenIssuer string `env:"TOKEN_ISSUER"`

	// HashKey is the HMAC key for integrity stamps on outbound payloads.
	// Distinct from the password hashing scheme, which is self-contained.
	// Env: APP_HASH_KEY
	HashKey string `env:"HASH_KEY"`

	// Version is the semantic version of the running application.
	// Env: APP_VERSION
	Version string `env:"VERSION"`
}

// Fetch strategies accepted by KVStore.FetchStrategy.
const (
	FetchSequential = "sequential"
	FetchParallel   = "parallel"
)

// KVStore holds the client settings for the hosted key-value store.
type KVStore struct {
	// BaseURL is the HTTPS endpoint of the store, e.g.
	// "https://picked-mullet-12345.upstash.io".
	// Env: KVSTORE_BASE_URL
	BaseURL string `env:"BASE_URL"`

	// Token is the bearer token sent on every command.
	// Env: KVSTORE_TOKEN
	Token string `env:"TOKEN"`

	// Timeout bounds a single command round trip. The original front-end
	// had no timeout at all; the default here is deliberately generous.
	// Env: KVSTORE_TIMEOUT
	Timeout time.Duration `env:"TIMEOUT"`

	// FetchStrategy selects how BulkRead issues its per-key GETs:
	// "sequential" (default, preserves the original issuance behavior and
	// stays inside the store's rate limits) or "parallel".
	// Env: KVSTORE_FETCH_STRATEGY
	FetchStrategy string `env:"FETCH_STRATEGY"`

	// FetchWorkers bounds the fan-out of the parallel strategy.
	// Env: KVSTORE_FETCH_WORKERS
	FetchWorkers int `env:"FETCH_WORKERS"`

	// RetryAttempts is the number of retries after a transport-level
	// failure of a single command.
	// Env: KVSTORE_RETRY_ATTEMPTS
	RetryAttempts int `env:"RETRY_ATTEMPTS"`
}

// Session holds the session lifecycle settings.
type Session struct {
	// Timeout is the inactivity window after which a session expires.
	// Env: SESSION_TIMEOUT
	Timeout time.Duration `env:"TIMEOUT"`

	// CheckInterval is how often the watchdog compares idle time against
	// Timeout.
	// Env: SESSION_CHECK_INTERVAL
	CheckInterval time.Duration `env:"CHECK_INTERVAL"`

	// FilePath is where the local session blob is persisted.
	// Env: SESSION_FILE_PATH
	FilePath string `env:"FILE_PATH"`

	// RecentLimit is the dashboard's top-N size for recent bookings.
	// Env: SESSION_RECENT_LIMIT
	RecentLimit int `env:"RECENT_LIMIT"`
}

// Server holds network settings for the kvd daemon.
type Server struct {
	// Address is the TCP address kvd listens on, "host:port".
	// Env: SERVER_ADDRESS
	Address string `env:"ADDRESS"`

	// RequestTimeout bounds a single inbound request.
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Storage holds the kvd persistence settings.
type Storage struct {
	// DSN selects and configures the backend: a "postgres://" URI opens the
	// pgx driver, anything else is treated as a sqlite file path.
	// Env: STORAGE_DSN
	DSN string `env:"DSN"`
}

// Defaults applied by normalize when a value is absent from every source.
const (
	DefaultSessionTimeout       = 30 * time.Minute
	DefaultSessionCheckInterval = time.Minute
	DefaultKVTimeout            = 15 * time.Second
	DefaultFetchWorkers         = 4
	DefaultRecentLimit          = 5
	DefaultRequestTimeout       = 30 * time.Second
	DefaultServerAddress        = "localhost:8080"
)

// GetServerConfig loads, merges, normalizes, and validates the configuration
// for the kvd daemon. Source priority (first non-zero value wins):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
func GetServerConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		build(validateServer)
}

// GetClientConfig loads the configuration for the salon desk client.
// Same source priority as GetServerConfig.
func GetClientConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		build(validateClient)
}
