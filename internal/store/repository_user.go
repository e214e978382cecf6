// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"errors"
	"time"

	"github.com/MKhiriev/salon-desk/internal/kvstore"
	"github.com/MKhiriev/salon-desk/internal/logger"
	"github.com/MKhiriev/salon-desk/internal/utils"
	"github.com/MKhiriev/salon-desk/models"
)

// userRepository is the KV-backed implementation of [UserRepository].
// Account records are keyed by username, which makes the username immutable
// and gives Create a read-before-write uniqueness check instead of a real
// constraint.
type userRepository struct {
	kv     kvstore.Client
	reader kvstore.BulkReader
	logger *logger.Logger
}

// NewUserRepository constructs a [UserRepository] backed by the hosted
// key-value store.
func NewUserRepository(kv kvstore.Client, reader kvstore.BulkReader, logger *logger.Logger) UserRepository {
	logger.Debug().Msg("creating user repository")
	return &userRepository{
		kv:     kv,
		reader: reader,
		logger: logger,
	}
}

// FindByUsername retrieves one account record and reconciles its dual role
// representation before handing it to the caller.
func (r *userRepository) FindByUsername(ctx context.Context, username string) (models.User, error) {
	user, err := getRecord[models.User](ctx, r.kv, userKeyPrefix+username, ErrNoUserWasFound)
	if err != nil {
		return models.User{}, err
	}

	user.NormalizeRoles()
	return user, nil
}

// Create persists a new account after verifying the username is free. The
// check-then-set is not atomic; two simultaneous creates of the same username
// can race, which the single-desk deployment accepts.
func (r *userRepository) Create(ctx context.Context, user models.User) (models.User, error) {
	_, err := r.FindByUsername(ctx, user.Username)
	if err == nil {
		return models.User{}, ErrUserAlreadyExists
	}
	if !errors.Is(err, ErrNoUserWasFound) {
		return models.User{}, err
	}

	if user.ID == "" {
		user.ID = utils.NewID()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}

	if err = r.Save(ctx, user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// Save writes the full record back. The merged professional profile is
// stripped first: it lives under its own key and must never be embedded in
// the account record.
func (r *userRepository) Save(ctx context.Context, user models.User) error {
	user.NormalizeRoles()
	user.Professional = nil
	return putRecord(ctx, r.kv, userKeyPrefix+user.Username, user)
}

func (r *userRepository) List(ctx context.Context) ([]models.User, int, error) {
	users, skipped, err := listRecords[models.User](ctx, r.kv, r.reader, userKeyPrefix)
	if err != nil {
		return nil, 0, err
	}

	for i := range users {
		users[i].NormalizeRoles()
	}
	return users, skipped, nil
}
