package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors StructuredConfig with JSON tags and
// string-friendly durations, so config files can say "30m" instead of
// nanosecond integers.
type StructuredJSONConfig struct {
	App struct {
		TokenSignKey string `json:"token_sign_key"`
		TokenIssuer  string `json:"token_issuer"`
		HashKey      string `json:"hash_key"`
		Version      string `json:"version"`
	} `json:"app,omitempty"`

	KVStore struct {
		BaseURL       string   `json:"base_url"`
		Token         string   `json:"token"`
		Timeout       Duration `json:"timeout"`
		FetchStrategy string   `json:"fetch_strategy"`
		FetchWorkers  int      `json:"fetch_workers"`
		RetryAttempts int      `json:"retry_attempts"`
	} `json:"kv_store,omitempty"`

	Session struct {
		Timeout       Duration `json:"timeout"`
		CheckInterval Duration `json:"check_interval"`
		FilePath      string   `json:"file_path"`
		RecentLimit   int      `json:"recent_limit"`
	} `json:"session,omitempty"`

	Server struct {
		Address        string   `json:"address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"server,omitempty"`

	Storage struct {
		DSN string `json:"dsn"`
	} `json:"storage,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	return &StructuredConfig{
		App: App{
			TokenSignKey: jsonCfg.App.TokenSignKey,
			TokenIssuer:  jsonCfg.App.TokenIssuer,
			HashKey:      jsonCfg.App.HashKey,
			Version:      jsonCfg.App.Version,
		},
		KVStore: KVStore{
			BaseURL:       jsonCfg.KVStore.BaseURL,
			Token:         jsonCfg.KVStore.Token,
			Timeout:       time.Duration(jsonCfg.KVStore.Timeout),
			FetchStrategy: jsonCfg.KVStore.FetchStrategy,
			FetchWorkers:  jsonCfg.KVStore.FetchWorkers,
			RetryAttempts: jsonCfg.KVStore.RetryAttempts,
		},
		Session: Session{
			Timeout:       time.Duration(jsonCfg.Session.Timeout),
			CheckInterval: time.Duration(jsonCfg.Session.CheckInterval),
			FilePath:      jsonCfg.Session.FilePath,
			RecentLimit:   jsonCfg.Session.RecentLimit,
		},
		Server: Server{
			Address:        jsonCfg.Server.Address,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
		},
		Storage: Storage{
			DSN: jsonCfg.Storage.DSN,
		},
	}, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling
// from strings like "1h" or "30s".
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
