// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/MKhiriev/salon-desk/internal/logger"
	"github.com/MKhiriev/salon-desk/models"
)

// fileSessionStore persists the session blob as a single JSON file. The file
// carries the full authenticated user snapshot plus the expiry bookkeeping,
// so a restart inside the inactivity window restores the session without a
// network round trip.
type fileSessionStore struct {
	mu     sync.Mutex
	path   string
	logger *logger.Logger
}

// NewFileSessionStore constructs a [SessionStore] writing to path. When path
// is empty the blob lives next to the executable.
func NewFileSessionStore(path string, logger *logger.Logger) SessionStore {
	if path == "" {
		execPath, _ := os.Executable()
		path = filepath.Join(filepath.Dir(execPath), "session.json")
	}
	logger.Debug().Str("path", path).Msg("creating file session store")
	return &fileSessionStore{path: path, logger: logger}
}

// Load reads and decodes the persisted session.
//
// Blobs written before expiry tracking existed hold a bare user snapshot and
// therefore decode with a zero ExpiresAt. Such a blob cannot be trusted — it
// may be arbitrarily old — so it is deleted and ErrLegacySession returned,
// forcing a fresh login.
func (s *fileSessionStore) Load() (models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return models.Session{}, ErrLocalSessionNotFound
	}
	if err != nil {
		return models.Session{}, fmt.Errorf("read session file: %w", err)
	}

	var session models.Session
	if err = json.Unmarshal(raw, &session); err != nil {
		s.logger.Warn().Err(err).Msg("session file is not valid JSON, discarding")
		_ = os.Remove(s.path)
		return models.Session{}, ErrLocalSessionNotFound
	}

	if session.ExpiresAt.IsZero() {
		s.logger.Info().Msg("discarding pre-expiry-tracking session blob")
		_ = os.Remove(s.path)
		return models.Session{}, ErrLegacySession
	}

	return session, nil
}

func (s *fileSessionStore) Save(session models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err = os.WriteFile(s.path, payload, 0600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}

func (s *fileSessionStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}
