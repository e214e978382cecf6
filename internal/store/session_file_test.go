package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/salon-desk/internal/logger"
	"github.com/MKhiriev/salon-desk/models"
)

func newSessionStore(t *testing.T) (SessionStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.json")
	return NewFileSessionStore(path, logger.Nop()), path
}

func TestSessionStore_RoundTrip(t *testing.T) {
	store, _ := newSessionStore(t)

	now := time.Now().Truncate(time.Second)
	session := models.Session{
		User:         models.User{Username: "admin", Roles: []models.Role{models.RoleSuperAdmin}},
		LastActivity: now,
		ExpiresAt:    now.Add(30 * time.Minute),
		Token:        "jwt",
	}
	require.NoError(t, store.Save(session))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "admin", loaded.User.Username)
	assert.True(t, loaded.ExpiresAt.Equal(session.ExpiresAt))
	assert.Equal(t, "jwt", loaded.Token)
}

func TestSessionStore_LoadMissing(t *testing.T) {
	store, _ := newSessionStore(t)

	_, err := store.Load()
	assert.ErrorIs(t, err, ErrLocalSessionNotFound)
}

// TestSessionStore_LegacyBlobDiscarded verifies that a pre-expiry-tracking
// blob (a bare user snapshot) is deleted and reported as legacy.
func TestSessionStore_LegacyBlobDiscarded(t *testing.T) {
	store, path := newSessionStore(t)
	require.NoError(t, os.WriteFile(path, []byte(`{"user":{"username":"admin","role":"gerente"}}`), 0600))

	_, err := store.Load()
	assert.ErrorIs(t, err, ErrLegacySession)
	assert.NoFileExists(t, path)
}

func TestSessionStore_CorruptBlobDiscarded(t *testing.T) {
	store, path := newSessionStore(t)
	require.NoError(t, os.WriteFile(path, []byte(`{{{`), 0600))

	_, err := store.Load()
	assert.ErrorIs(t, err, ErrLocalSessionNotFound)
	assert.NoFileExists(t, path)
}

func TestSessionStore_ClearIdempotent(t *testing.T) {
	store, _ := newSessionStore(t)

	require.NoError(t, store.Clear())

	require.NoError(t, store.Save(models.Session{ExpiresAt: time.Now()}))
	require.NoError(t, store.Clear())

	_, err := store.Load()
	assert.ErrorIs(t, err, ErrLocalSessionNotFound)
}
