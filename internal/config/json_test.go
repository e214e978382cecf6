package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestParseJSON_FullConfig(t *testing.T) {
	path := writeTempJSON(t, `{
		"app": {"token_sign_key": "sign", "token_issuer": "salon-desk"},
		"kv_store": {"base_url": "https://store.example", "token": "tok", "timeout": "5s", "fetch_strategy": "parallel", "fetch_workers": 8},
		"session": {"timeout": "30m", "check_interval": "1m", "file_path": "/tmp/s.json", "recent_limit": 10},
		"server": {"address": "localhost:8080", "request_timeout": "30s"},
		"storage": {"dsn": "salon.db"}
	}`)

	cfg, err := parseJSON(path)
	require.NoError(t, err)

	assert.Equal(t, "sign", cfg.App.TokenSignKey)
	assert.Equal(t, "https://store.example", cfg.KVStore.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.KVStore.Timeout)
	assert.Equal(t, 30*time.Minute, cfg.Session.Timeout)
	assert.Equal(t, 10, cfg.Session.RecentLimit)
	assert.Equal(t, "salon.db", cfg.Storage.DSN)
}

func TestParseJSON_DurationAsNumber(t *testing.T) {
	path := writeTempJSON(t, `{"session": {"timeout": 1800000000000}}`)

	cfg, err := parseJSON(path)
	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, cfg.Session.Timeout)
}

func TestParseJSON_MissingFile(t *testing.T) {
	_, err := parseJSON("/nonexistent/config.json")
	assert.Error(t, err)
}

func TestParseJSON_MalformedJSON(t *testing.T) {
	path := writeTempJSON(t, `{"session": `)
	_, err := parseJSON(path)
	assert.Error(t, err)
}
