package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/salon-desk/internal/logger"
	"github.com/MKhiriev/salon-desk/internal/mock"
	"github.com/MKhiriev/salon-desk/internal/store"
	"github.com/MKhiriev/salon-desk/internal/utils"
	"github.com/MKhiriev/salon-desk/models"
)

// newTestSessionManager builds a sessionManager over gomock repositories
// with a pinned clock.
func newTestSessionManager(
	t *testing.T,
	ctrl *gomock.Controller,
) (
	*sessionManager,
	*mock.MockUserRepository,
	*mock.MockProfessionalRepository,
	*mock.MockSessionStore,
) {
	t.Helper()
	users := mock.NewMockUserRepository(ctrl)
	professionals := mock.NewMockProfessionalRepository(ctrl)
	sessions := mock.NewMockSessionStore(ctrl)

	cfg := SessionManagerConfig{
		TokenSignKey:  "test-sign-key",
		TokenIssuer:   "salon-desk",
		Timeout:       30 * time.Minute,
		CheckInterval: time.Minute,
	}
	m := NewSessionManager(users, professionals, sessions, cfg, logger.Nop()).(*sessionManager)

	return m, users, professionals, sessions
}

func storedUser(t *testing.T, password string) models.User {
	t.Helper()
	hashed, err := utils.HashPassword(password)
	require.NoError(t, err)

	return models.User{
		ID:       "u1",
		Username: "admin",
		Name:     "Fabiane",
		Roles:    []models.Role{models.RoleSuperAdmin},
		Password: hashed,
		Active:   true,
	}
}

// ── Login ────────────────────────────────────────────────────────────────────

// TestLogin_Success walks the canonical first-day flow: the seeded admin
// account logs in with its temporary password and comes out with full staff
// management access.
func TestLogin_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m, users, _, sessions := newTestSessionManager(t, ctrl)
	user := storedUser(t, "fabiane2025temp")

	users.EXPECT().FindByUsername(gomock.Any(), "admin").Return(user, nil)
	users.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)
	sessions.EXPECT().Save(gomock.Any()).Return(nil)

	result := m.Login(context.Background(), "admin", "fabiane2025temp")

	require.True(t, result.Success)
	assert.Equal(t, models.AuthErrNone, result.Error)
	assert.Equal(t, "Fabiane", result.User.Name)
	assert.Empty(t, result.User.Password, "credential must not leak out of the manager")

	session, state := m.Snapshot()
	assert.Equal(t, StateAuthenticated, state)
	assert.Equal(t, session.LastActivity.Add(30*time.Minute), session.ExpiresAt)
	assert.NotEmpty(t, session.Token)

	assert.True(t, m.HasPermission(PermManageStaff))
}

// TestLogin_ClearsFirstLoginInWriteback checks both sides of the first-login
// handshake: the stored record loses the flag the moment the temporary
// password verifies, while the session snapshot keeps it so the UI still
// forces the password change.
func TestLogin_ClearsFirstLoginInWriteback(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m, users, _, sessions := newTestSessionManager(t, ctrl)
	user := storedUser(t, "fabiane2025temp")
	user.FirstLogin = true

	var saved models.User
	users.EXPECT().FindByUsername(gomock.Any(), "admin").Return(user, nil)
	users.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, u models.User) error {
			saved = u
			return nil
		})
	sessions.EXPECT().Save(gomock.Any()).Return(nil)

	result := m.Login(context.Background(), "admin", "fabiane2025temp")

	require.True(t, result.Success)
	assert.False(t, saved.FirstLogin, "stored record must drop the flag")
	assert.True(t, result.User.FirstLogin, "session snapshot must keep it for the forced change")

	session, _ := m.Snapshot()
	assert.True(t, session.User.FirstLogin)
}

func TestLogin_WrongPassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m, users, _, _ := newTestSessionManager(t, ctrl)
	users.EXPECT().FindByUsername(gomock.Any(), "admin").Return(storedUser(t, "correta"), nil)

	result := m.Login(context.Background(), "admin", "errada")

	assert.False(t, result.Success)
	assert.Equal(t, models.AuthErrBadCredentials, result.Error)

	_, state := m.Snapshot()
	assert.Equal(t, StateLoggedOut, state)
}

func TestLogin_UnknownUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m, users, _, _ := newTestSessionManager(t, ctrl)
	users.EXPECT().FindByUsername(gomock.Any(), "ghost").Return(models.User{}, store.ErrNoUserWasFound)

	result := m.Login(context.Background(), "ghost", "x")
	assert.Equal(t, models.AuthErrNotFound, result.Error)
}

func TestLogin_InactiveUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m, users, _, _ := newTestSessionManager(t, ctrl)
	user := storedUser(t, "senha123")
	user.Active = false
	users.EXPECT().FindByUsername(gomock.Any(), "admin").Return(user, nil)

	result := m.Login(context.Background(), "admin", "senha123")
	assert.Equal(t, models.AuthErrInactive, result.Error)
}

func TestLogin_NetworkFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m, users, _, _ := newTestSessionManager(t, ctrl)
	users.EXPECT().FindByUsername(gomock.Any(), "admin").Return(models.User{}, errors.New("connection refused"))

	result := m.Login(context.Background(), "admin", "senha123")
	assert.Equal(t, models.AuthErrNetworkFailure, result.Error)
}

// TestLogin_UpgradesLegacyPassword verifies that a record holding a bare
// SHA-256 digest is rewritten in the canonical scheme on successful login.
func TestLogin_UpgradesLegacyPassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m, users, _, sessions := newTestSessionManager(t, ctrl)

	user := storedUser(t, "whatever")
	user.Password = utils.SHA256Hex("senha123")
	users.EXPECT().FindByUsername(gomock.Any(), "admin").Return(user, nil)

	var saved models.User
	users.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, u models.User) error {
			saved = u
			return nil
		})
	sessions.EXPECT().Save(gomock.Any()).Return(nil)

	result := m.Login(context.Background(), "admin", "senha123")

	require.True(t, result.Success)
	assert.True(t, strings.HasPrefix(saved.Password, "argon2id$"), "legacy digest must be upgraded, got %q", saved.Password)
	assert.False(t, saved.LastLogin.IsZero())
}

// TestLogin_MergesProfessionalProfile verifies that a profissional-role user
// gets their extended profile attached to the session snapshot.
func TestLogin_MergesProfessionalProfile(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m, users, professionals, sessions := newTestSessionManager(t, ctrl)

	user := storedUser(t, "senha123")
	user.Username = "paula"
	user.Roles = []models.Role{models.RoleProfissional}
	user.ProfessionalID = "p1"

	users.EXPECT().FindByUsername(gomock.Any(), "paula").Return(user, nil)
	users.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)
	professionals.EXPECT().FindByID(gomock.Any(), "p1").
		Return(models.Professional{ID: "p1", Name: "Paula", Category: "cabelo"}, nil)
	sessions.EXPECT().Save(gomock.Any()).Return(nil)

	result := m.Login(context.Background(), "paula", "senha123")

	require.True(t, result.Success)
	require.NotNil(t, result.User.Professional)
	assert.Equal(t, "cabelo", result.User.Professional.Category)
}

// ── Expiry ───────────────────────────────────────────────────────────────────

// TestExpiry_Boundary pins the clock and checks the edge: a session is valid
// at its exact expiry instant and invalid one millisecond later.
func TestExpiry_Boundary(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m, users, _, sessions := newTestSessionManager(t, ctrl)

	start := time.Now()
	current := start
	m.now = func() time.Time { return current }

	users.EXPECT().FindByUsername(gomock.Any(), "admin").Return(storedUser(t, "senha123"), nil)
	users.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)
	sessions.EXPECT().Save(gomock.Any()).Return(nil)

	require.True(t, m.Login(context.Background(), "admin", "senha123").Success)

	// Exactly at the boundary: still valid.
	current = start.Add(30 * time.Minute)
	m.checkExpiry()
	_, state := m.Snapshot()
	assert.Equal(t, StateAuthenticated, state)
	assert.False(t, m.ConsumeExpiryNotice())

	// One millisecond past: expired.
	sessions.EXPECT().Clear().Return(nil)
	current = start.Add(30*time.Minute + time.Millisecond)
	m.checkExpiry()

	_, state = m.Snapshot()
	assert.Equal(t, StateIdleExpired, state)
	assert.True(t, m.ConsumeExpiryNotice())
	assert.False(t, m.ConsumeExpiryNotice(), "notice is consumed once")
	assert.False(t, m.HasPermission(PermViewReports))
}

// TestTouch_SlidesWindow verifies that activity pushes the expiry forward
// from the activity instant.
func TestTouch_SlidesWindow(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m, users, _, sessions := newTestSessionManager(t, ctrl)

	start := time.Now()
	current := start
	m.now = func() time.Time { return current }

	users.EXPECT().FindByUsername(gomock.Any(), "admin").Return(storedUser(t, "senha123"), nil)
	users.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)
	sessions.EXPECT().Save(gomock.Any()).Return(nil).Times(2)

	require.True(t, m.Login(context.Background(), "admin", "senha123").Success)

	current = start.Add(20 * time.Minute)
	m.Touch()

	session, _ := m.Snapshot()
	assert.True(t, session.LastActivity.Equal(current))
	assert.True(t, session.ExpiresAt.Equal(current.Add(30*time.Minute)))
}

func TestTouch_NoopWhenLoggedOut(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m, _, _, _ := newTestSessionManager(t, ctrl)
	m.Touch() // must not panic or persist anything
}

// ── Restore ──────────────────────────────────────────────────────────────────

func validStoredSession(t *testing.T, m *sessionManager, user models.User) models.Session {
	t.Helper()
	now := time.Now()
	expiresAt := now.Add(30 * time.Minute)
	token, err := utils.GenerateSessionToken("salon-desk", user.Username, expiresAt, "test-sign-key")
	require.NoError(t, err)

	return models.Session{
		User:         user,
		LastActivity: now,
		ExpiresAt:    expiresAt,
		Token:        token.SignedString,
	}
}

func TestRestore_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m, users, _, sessions := newTestSessionManager(t, ctrl)
	user := storedUser(t, "senha123")

	sessions.EXPECT().Load().Return(validStoredSession(t, m, user), nil)
	users.EXPECT().FindByUsername(gomock.Any(), "admin").Return(user, nil)
	sessions.EXPECT().Save(gomock.Any()).Return(nil)

	assert.True(t, m.Restore(context.Background()))

	session, state := m.Snapshot()
	assert.Equal(t, StateAuthenticated, state)
	assert.Equal(t, "admin", session.User.Username)
	assert.Empty(t, session.User.Password)
}

func TestRestore_NoBlob(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m, _, _, sessions := newTestSessionManager(t, ctrl)
	sessions.EXPECT().Load().Return(models.Session{}, store.ErrLocalSessionNotFound)

	assert.False(t, m.Restore(context.Background()))
}

func TestRestore_LegacyBlob(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m, _, _, sessions := newTestSessionManager(t, ctrl)
	sessions.EXPECT().Load().Return(models.Session{}, store.ErrLegacySession)

	assert.False(t, m.Restore(context.Background()))
}

func TestRestore_ExpiredSession(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m, _, _, sessions := newTestSessionManager(t, ctrl)

	session := validStoredSession(t, m, storedUser(t, "senha123"))
	session.ExpiresAt = time.Now().Add(-time.Millisecond)
	sessions.EXPECT().Load().Return(session, nil)
	sessions.EXPECT().Clear().Return(nil)

	assert.False(t, m.Restore(context.Background()))
}

func TestRestore_TamperedToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m, _, _, sessions := newTestSessionManager(t, ctrl)

	session := validStoredSession(t, m, storedUser(t, "senha123"))
	session.Token = session.Token + "tampered"
	sessions.EXPECT().Load().Return(session, nil)
	sessions.EXPECT().Clear().Return(nil)

	assert.False(t, m.Restore(context.Background()))
}

// TestRestore_DeactivatedAccount verifies that an account deactivated on
// another machine cannot resume its cached session.
func TestRestore_DeactivatedAccount(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m, users, _, sessions := newTestSessionManager(t, ctrl)
	user := storedUser(t, "senha123")

	sessions.EXPECT().Load().Return(validStoredSession(t, m, user), nil)
	deactivated := user
	deactivated.Active = false
	users.EXPECT().FindByUsername(gomock.Any(), "admin").Return(deactivated, nil)
	sessions.EXPECT().Clear().Return(nil)

	assert.False(t, m.Restore(context.Background()))
}

// TestRestore_StoreUnreachable verifies the desk stays usable offline: the
// cached snapshot is kept when revalidation cannot reach the store.
func TestRestore_StoreUnreachable(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m, users, _, sessions := newTestSessionManager(t, ctrl)
	user := storedUser(t, "senha123")

	sessions.EXPECT().Load().Return(validStoredSession(t, m, user), nil)
	users.EXPECT().FindByUsername(gomock.Any(), "admin").Return(models.User{}, errors.New("timeout"))
	sessions.EXPECT().Save(gomock.Any()).Return(nil)

	assert.True(t, m.Restore(context.Background()))
}

// ── Logout ───────────────────────────────────────────────────────────────────

func TestLogout_Idempotent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m, users, _, sessions := newTestSessionManager(t, ctrl)

	users.EXPECT().FindByUsername(gomock.Any(), "admin").Return(storedUser(t, "senha123"), nil)
	users.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)
	sessions.EXPECT().Save(gomock.Any()).Return(nil)
	sessions.EXPECT().Clear().Return(nil).Times(2)

	require.True(t, m.Login(context.Background(), "admin", "senha123").Success)

	m.Logout()
	_, state := m.Snapshot()
	assert.Equal(t, StateLoggedOut, state)

	m.Logout() // second call is a no-op beyond another Clear
}

// ── ChangePassword ───────────────────────────────────────────────────────────

func loginAs(t *testing.T, m *sessionManager, users *mock.MockUserRepository, sessions *mock.MockSessionStore, user models.User, password string) {
	t.Helper()
	users.EXPECT().FindByUsername(gomock.Any(), user.Username).Return(user, nil)
	users.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)
	sessions.EXPECT().Save(gomock.Any()).Return(nil)
	require.True(t, m.Login(context.Background(), user.Username, password).Success)
}

func TestChangePassword_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m, users, _, sessions := newTestSessionManager(t, ctrl)
	user := storedUser(t, "fabiane2025temp")
	user.FirstLogin = true
	loginAs(t, m, users, sessions, user, "fabiane2025temp")

	users.EXPECT().FindByUsername(gomock.Any(), "admin").Return(user, nil)
	var saved models.User
	users.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, u models.User) error {
			saved = u
			return nil
		})
	sessions.EXPECT().Save(gomock.Any()).Return(nil)

	result := m.ChangePassword(context.Background(), "fabiane2025temp", "nova-senha-123")

	require.True(t, result.Success)
	assert.True(t, strings.HasPrefix(saved.Password, "argon2id$"))
	assert.False(t, saved.FirstLogin)

	session, _ := m.Snapshot()
	assert.False(t, session.User.FirstLogin)
}

func TestChangePassword_WrongCurrent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m, users, _, sessions := newTestSessionManager(t, ctrl)
	user := storedUser(t, "senha123")
	loginAs(t, m, users, sessions, user, "senha123")

	users.EXPECT().FindByUsername(gomock.Any(), "admin").Return(user, nil)

	result := m.ChangePassword(context.Background(), "errada", "nova-senha-123")
	assert.Equal(t, models.AuthErrWrongCurrentPassword, result.Error)
}

func TestChangePassword_TooShort(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m, users, _, sessions := newTestSessionManager(t, ctrl)
	loginAs(t, m, users, sessions, storedUser(t, "senha123"), "senha123")

	result := m.ChangePassword(context.Background(), "senha123", "curta")
	assert.Equal(t, models.AuthErrInvalidData, result.Error)
}

func TestChangePassword_NotAuthenticated(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m, _, _, _ := newTestSessionManager(t, ctrl)

	result := m.ChangePassword(context.Background(), "a", "nova-senha-123")
	assert.Equal(t, models.AuthErrNotAuthenticated, result.Error)
}

// ── CreateUser ───────────────────────────────────────────────────────────────

func TestCreateUser_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m, users, _, sessions := newTestSessionManager(t, ctrl)
	loginAs(t, m, users, sessions, storedUser(t, "senha123"), "senha123")

	var created models.User
	users.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, u models.User) (models.User, error) {
			created = u
			return u, nil
		})

	result := m.CreateUser(context.Background(), models.User{
		Username: "paula",
		Name:     "Paula",
		Roles:    []models.Role{models.RoleProfissional},
	}, "senha-temporaria")

	require.True(t, result.Success)
	assert.True(t, created.FirstLogin, "new accounts must change password on first login")
	assert.True(t, created.Active)
	assert.True(t, strings.HasPrefix(created.Password, "argon2id$"))
	assert.Equal(t, models.RoleProfissional, created.Role)
}

func TestCreateUser_WithoutPermission(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m, users, _, sessions := newTestSessionManager(t, ctrl)

	atendente := storedUser(t, "senha123")
	atendente.Username = "recepcao"
	atendente.Roles = []models.Role{models.RoleAtendente}
	loginAs(t, m, users, sessions, atendente, "senha123")

	result := m.CreateUser(context.Background(), models.User{Username: "x"}, "senha-temporaria")
	assert.False(t, result.Success)
	assert.Equal(t, models.AuthErrNotAuthenticated, result.Error)
}

func TestCreateUser_DuplicateUsername(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m, users, _, sessions := newTestSessionManager(t, ctrl)
	loginAs(t, m, users, sessions, storedUser(t, "senha123"), "senha123")

	users.EXPECT().Create(gomock.Any(), gomock.Any()).Return(models.User{}, store.ErrUserAlreadyExists)

	result := m.CreateUser(context.Background(), models.User{Username: "admin"}, "senha-temporaria")
	assert.Equal(t, models.AuthErrAlreadyExists, result.Error)
}

// ── Watchdog ─────────────────────────────────────────────────────────────────

// TestWatchdog_StartStop verifies the job can be started, restarted and
// stopped without leaking its goroutine.
func TestWatchdog_StartStop(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m, _, _, _ := newTestSessionManager(t, ctrl)

	m.StartWatchdog(context.Background())
	m.StartWatchdog(context.Background()) // restart stops the previous run
	m.StopWatchdog()
	m.StopWatchdog() // safe when not running
}
