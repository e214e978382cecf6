package config

// validateServer checks the groups the kvd daemon needs.
func validateServer(cfg *StructuredConfig) error {
	if cfg.Storage.DSN == "" {
		return ErrInvalidStorageConfigs
	}
	if cfg.KVStore.Token == "" {
		// kvd reuses the KVStore token as its accepted bearer token.
		return ErrInvalidKVStoreConfigs
	}

	return nil
}

// validateClient checks the groups the salon desk client needs.
func validateClient(cfg *StructuredConfig) error {
	if cfg.KVStore.BaseURL == "" || cfg.KVStore.Token == "" {
		return ErrInvalidKVStoreConfigs
	}
	if cfg.App.TokenSignKey == "" || cfg.App.TokenIssuer == "" {
		return ErrInvalidAppConfigs
	}
	if cfg.Session.CheckInterval > cfg.Session.Timeout {
		return ErrInvalidSessionConfigs
	}
	if cfg.KVStore.FetchStrategy != FetchSequential && cfg.KVStore.FetchStrategy != FetchParallel {
		return ErrInvalidFetchStrategy
	}

	return nil
}
