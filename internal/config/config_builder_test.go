package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_DefaultsApplied(t *testing.T) {
	cfg, err := newConfigBuilder().build(func(*StructuredConfig) error { return nil })
	require.NoError(t, err)

	assert.Equal(t, DefaultSessionTimeout, cfg.Session.Timeout)
	assert.Equal(t, DefaultSessionCheckInterval, cfg.Session.CheckInterval)
	assert.Equal(t, DefaultRecentLimit, cfg.Session.RecentLimit)
	assert.Equal(t, DefaultKVTimeout, cfg.KVStore.Timeout)
	assert.Equal(t, FetchSequential, cfg.KVStore.FetchStrategy)
	assert.Equal(t, DefaultFetchWorkers, cfg.KVStore.FetchWorkers)
	assert.Equal(t, DefaultServerAddress, cfg.Server.Address)
}

func TestBuild_FirstNonZeroSourceWins(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs,
		&StructuredConfig{KVStore: KVStore{BaseURL: "https://from-env"}},
		&StructuredConfig{KVStore: KVStore{BaseURL: "https://from-flags", Token: "flag-token"}},
	)

	cfg, err := b.build(func(*StructuredConfig) error { return nil })
	require.NoError(t, err)

	// mergo keeps the value already set by an earlier source and only fills
	// fields the earlier sources left zero.
	assert.Equal(t, "https://from-env", cfg.KVStore.BaseURL)
	assert.Equal(t, "flag-token", cfg.KVStore.Token)
}

func TestBuild_ValidationErrorPropagates(t *testing.T) {
	_, err := newConfigBuilder().build(validateClient)
	require.ErrorIs(t, err, ErrInvalidKVStoreConfigs)
}

func TestValidateClient(t *testing.T) {
	valid := &StructuredConfig{
		App:     App{TokenSignKey: "k", TokenIssuer: "salon-desk"},
		KVStore: KVStore{BaseURL: "https://store", Token: "t", FetchStrategy: FetchSequential},
		Session: Session{Timeout: 30 * time.Minute, CheckInterval: time.Minute},
	}
	require.NoError(t, validateClient(valid))

	badInterval := *valid
	badInterval.Session.CheckInterval = time.Hour
	assert.ErrorIs(t, validateClient(&badInterval), ErrInvalidSessionConfigs)

	badStrategy := *valid
	badStrategy.KVStore.FetchStrategy = "bursty"
	assert.ErrorIs(t, validateClient(&badStrategy), ErrInvalidFetchStrategy)

	noApp := *valid
	noApp.App.TokenSignKey = ""
	assert.ErrorIs(t, validateClient(&noApp), ErrInvalidAppConfigs)
}

func TestValidateServer(t *testing.T) {
	require.NoError(t, validateServer(&StructuredConfig{
		Storage: Storage{DSN: "salon.db"},
		KVStore: KVStore{Token: "t"},
	}))

	assert.ErrorIs(t, validateServer(&StructuredConfig{KVStore: KVStore{Token: "t"}}), ErrInvalidStorageConfigs)
	assert.ErrorIs(t, validateServer(&StructuredConfig{Storage: Storage{DSN: "salon.db"}}), ErrInvalidKVStoreConfigs)
}
