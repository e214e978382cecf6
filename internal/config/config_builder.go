package config

import (
	"errors"
	"fmt"

	"dario.cat/mergo"
)

type configBuilder struct {
	configs []*StructuredConfig
	err     error
}

func newConfigBuilder() *configBuilder {
	return &configBuilder{
		configs: make([]*StructuredConfig, 0, 3),
	}
}

// build merges all collected sources in order (later sources fill fields the
// earlier ones left zero), applies defaults, and runs the given validation.
func (b *configBuilder) build(validate func(*StructuredConfig) error) (*StructuredConfig, error) {
	if b.err != nil {
		return nil, fmt.Errorf("error occurred during building config: %w", b.err)
	}

	config := new(StructuredConfig)
	for _, cfg := range b.configs {
		if err := mergo.Merge(config, cfg); err != nil {
			return nil, fmt.Errorf("error merging configs: %w", err)
		}
	}

	config.normalize()

	return config, validate(config)
}

func (b *configBuilder) withEnv() *configBuilder {
	envCfg := &StructuredConfig{}
	if err := parseEnv(envCfg); err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}

	b.configs = append(b.configs, envCfg)
	return b
}

func (b *configBuilder) withFlags() *configBuilder {
	b.configs = append(b.configs, parseFlags())
	return b
}

func (b *configBuilder) withJSON() *configBuilder {
	jsonPath := ""
	for _, cfg := range b.configs {
		if cfg.JSONFilePath != "" {
			jsonPath = cfg.JSONFilePath
		}
	}

	if jsonPath != "" {
		jsonCfg, err := parseJSON(jsonPath)
		if err != nil {
			b.err = errors.Join(b.err, err)
			return b
		}
		b.configs = append(b.configs, jsonCfg)
	}

	return b
}

// normalize fills the documented defaults for every field left zero after
// the merge.
func (cfg *StructuredConfig) normalize() {
	if cfg.Session.Timeout == 0 {
		cfg.Session.Timeout = DefaultSessionTimeout
	}
	if cfg.Session.CheckInterval == 0 {
		cfg.Session.CheckInterval = DefaultSessionCheckInterval
	}
	if cfg.Session.RecentLimit == 0 {
		cfg.Session.RecentLimit = DefaultRecentLimit
	}
	if cfg.KVStore.Timeout == 0 {
		cfg.KVStore.Timeout = DefaultKVTimeout
	}
	if cfg.KVStore.FetchStrategy == "" {
		cfg.KVStore.FetchStrategy = FetchSequential
	}
	if cfg.KVStore.FetchWorkers == 0 {
		cfg.KVStore.FetchWorkers = DefaultFetchWorkers
	}
	if cfg.Server.Address == "" {
		cfg.Server.Address = DefaultServerAddress
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = DefaultRequestTimeout
	}
}
