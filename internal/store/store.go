// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package store holds the persistence layer of salon-desk: KV-backed
// repositories for the domain records (users, professionals, appointments,
// payments), the local session file, and the SQL storage behind the kvd
// daemon.
//
// Domain records are JSON documents stored under namespaced keys:
//
//	user:{username}         — account records
//	profissional:{id}       — professional profiles
//	agendamento:{id}        — appointments
//	pagamento:{id}          — payments
//
// Records written by older front-ends may miss fields or carry extra ones;
// decoding tolerates both. Writes are last-writer-wins full-record
// replacements.
package store

import (
	"context"

	"github.com/MKhiriev/salon-desk/models"
)

// UserRepository manages account records under "user:{username}".
type UserRepository interface {
	// FindByUsername returns the account stored for username.
	// Returns ErrNoUserWasFound when the key is absent.
	FindByUsername(ctx context.Context, username string) (models.User, error)

	// Create persists a new account. Returns ErrUserAlreadyExists when the
	// username is taken. Missing ID and CreatedAt are filled in.
	Create(ctx context.Context, user models.User) (models.User, error)

	// Save replaces the stored record with the given snapshot.
	Save(ctx context.Context, user models.User) error

	// List returns all decodable account records plus the number of records
	// skipped due to fetch or parse failures.
	List(ctx context.Context) ([]models.User, int, error)
}

// ProfessionalRepository manages profiles under "profissional:{id}".
type ProfessionalRepository interface {
	// FindByID returns the profile stored for id.
	// Returns ErrRecordNotFound when the key is absent.
	FindByID(ctx context.Context, id string) (models.Professional, error)

	// Create persists a new profile, filling in a missing ID and CreatedAt.
	Create(ctx context.Context, professional models.Professional) (models.Professional, error)

	// Save replaces the stored record with the given snapshot.
	Save(ctx context.Context, professional models.Professional) error

	// List returns all decodable profiles plus the skipped-record count.
	List(ctx context.Context) ([]models.Professional, int, error)
}

// AppointmentRepository manages bookings under "agendamento:{id}".
type AppointmentRepository interface {
	// FindByID returns the booking stored for id.
	// Returns ErrRecordNotFound when the key is absent.
	FindByID(ctx context.Context, id string) (models.Appointment, error)

	// Create persists a new booking. The stored record always starts in
	// status pendente regardless of the input, with a timestamp-derived ID.
	Create(ctx context.Context, appointment models.Appointment) (models.Appointment, error)

	// Save replaces the stored record with the given snapshot.
	Save(ctx context.Context, appointment models.Appointment) error

	// Delete removes the booking record outright. Deleting an absent id is
	// not an error.
	Delete(ctx context.Context, id string) error

	// List returns all decodable bookings plus the skipped-record count.
	List(ctx context.Context) ([]models.Appointment, int, error)
}

// PaymentRepository manages charges under "pagamento:{id}".
type PaymentRepository interface {
	// FindByID returns the payment stored for id.
	// Returns ErrRecordNotFound when the key is absent.
	FindByID(ctx context.Context, id string) (models.Payment, error)

	// Create persists a new payment, filling in a missing ID and CreatedAt.
	Create(ctx context.Context, payment models.Payment) (models.Payment, error)

	// Save replaces the stored record with the given snapshot.
	Save(ctx context.Context, payment models.Payment) error

	// List returns all decodable payments plus the skipped-record count.
	List(ctx context.Context) ([]models.Payment, int, error)
}

// SessionStore persists the client's session blob between program runs.
type SessionStore interface {
	// Load reads the persisted session. Returns ErrLocalSessionNotFound
	// when none exists and ErrLegacySession when the blob predates expiry
	// tracking (the blob is removed in that case).
	Load() (models.Session, error)

	// Save persists the session, replacing any previous blob.
	Save(session models.Session) error

	// Clear removes the persisted session. Clearing an absent blob is not
	// an error.
	Clear() error
}
