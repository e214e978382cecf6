package service

import (
	"context"
	"time"

	"github.com/MKhiriev/salon-desk/models"
)

// AuthState is the client's coarse authentication state.
type AuthState int

const (
	// StateLoggedOut means no session exists: either none was ever created
	// or the user logged out explicitly.
	StateLoggedOut AuthState = iota

	// StateAuthenticated means a live session exists and has not passed its
	// inactivity expiry.
	StateAuthenticated

	// StateIdleExpired means the session was invalidated by the inactivity
	// watchdog. Distinguished from StateLoggedOut so the UI can tell the
	// user why they were thrown back to the login screen.
	StateIdleExpired
)

// SessionManager owns the client's authentication lifecycle: login, restart
// restore, activity tracking, inactivity expiry, and the account operations
// that hang off the current session.
//
// Login, ChangePassword and CreateUser never return an error; every failure
// path is folded into the result value so the UI can render it inline.
type SessionManager interface {
	// Login authenticates username/password against the store, merges the
	// professional profile when one is linked, upgrades legacy password
	// records, persists the new session and starts tracking activity.
	Login(ctx context.Context, username, password string) models.LoginResult

	// Restore attempts to resume the session persisted on disk. It reports
	// false when there is nothing to resume: no blob, a legacy blob, an
	// expired session, a token that fails verification, or an account that
	// was deactivated since.
	Restore(ctx context.Context) bool

	// Touch records user activity, sliding the expiry window forward and
	// re-issuing the session token. No-op unless authenticated.
	Touch()

	// Logout discards the session locally. Idempotent.
	Logout()

	// ChangePassword verifies the current password and stores the new one
	// in the canonical scheme, clearing the first-login flag.
	ChangePassword(ctx context.Context, current, newPassword string) models.OpResult

	// CreateUser provisions a staff account with a temporary password and
	// the first-login flag set. Requires the manage_staff permission.
	CreateUser(ctx context.Context, user models.User, password string) models.OpResult

	// Snapshot returns the current session and state.
	Snapshot() (models.Session, AuthState)

	// HasPermission reports whether the authenticated user holds perm.
	// Always false when not authenticated.
	HasPermission(perm Permission) bool

	// StartWatchdog launches the background expiry check. The watchdog runs
	// until ctx is cancelled or StopWatchdog is called.
	StartWatchdog(ctx context.Context)

	// StopWatchdog stops the background expiry check and waits for it to
	// exit. Safe to call when not running.
	StopWatchdog()

	// ConsumeExpiryNotice reports (once) that the watchdog expired the
	// session since the last call.
	ConsumeExpiryNotice() bool
}

// Aggregator computes the dashboard numbers by re-scanning the store on
// every call. Scan failures never escape: the methods log and return an
// empty aggregate so the dashboard renders zeros instead of crashing.
type Aggregator interface {
	AppointmentStats(ctx context.Context) models.AppointmentStats

	// AppointmentStatsFor narrows the aggregate to one professional's
	// bookings; an empty id aggregates everything.
	AppointmentStatsFor(ctx context.Context, professionalID string) models.AppointmentStats

	PaymentStats(ctx context.Context) models.PaymentStats
	ProfessionalStats(ctx context.Context) models.ProfessionalStats
	UserStats(ctx context.Context) models.UserStats
}

// BookingService implements the staff-facing appointment workflow.
type BookingService interface {
	// CreateBooking stores a new booking in status pendente.
	CreateBooking(ctx context.Context, actor models.User, appointment models.Appointment) (models.Appointment, error)

	// UpdateStatus moves a booking along the allowed status transitions.
	UpdateStatus(ctx context.Context, actor models.User, id, to string) (models.Appointment, error)

	// DeleteBooking removes a booking record outright. Cancelling keeps the
	// record in the history; deletion is for entries created by mistake.
	DeleteBooking(ctx context.Context, actor models.User, id string) error

	// ListBookings returns all bookings, newest first, plus the number of
	// records skipped as undecodable.
	ListBookings(ctx context.Context) ([]models.Appointment, int, error)

	// ScheduleFor returns the bookings assigned to one professional,
	// honoring the view_own_schedule restriction of profissional users.
	ScheduleFor(ctx context.Context, actor models.User, professionalID string) ([]models.Appointment, error)

	// RegisterPayment creates a paid payment record from a booking.
	RegisterPayment(ctx context.Context, actor models.User, appointmentID, method string) (models.Payment, error)

	// MarkPaymentPaid settles a pendente payment.
	MarkPaymentPaid(ctx context.Context, actor models.User, paymentID string) (models.Payment, error)

	// CancelPayment voids a pendente or pago payment.
	CancelPayment(ctx context.Context, actor models.User, paymentID string) (models.Payment, error)
}

// clock is the time source injected into services so tests can pin it.
type clock func() time.Time
