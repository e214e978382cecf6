// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/MKhiriev/salon-desk/internal/logger"
	"github.com/MKhiriev/salon-desk/internal/store"
	"github.com/MKhiriev/salon-desk/internal/utils"
	"github.com/MKhiriev/salon-desk/models"
)

// minPasswordLength applies to new passwords only; legacy records may hold
// anything and are still accepted at login.
const minPasswordLength = 6

// SessionManagerConfig carries the tunables of the session lifecycle.
type SessionManagerConfig struct {
	TokenSignKey  string
	TokenIssuer   string
	Timeout       time.Duration
	CheckInterval time.Duration
}

// sessionManager implements [SessionManager].
//
// All state transitions go through the mutex; the watchdog goroutine and the
// UI event loop race freely against each other otherwise.
type sessionManager struct {
	users         store.UserRepository
	professionals store.ProfessionalRepository
	sessions      store.SessionStore
	logger        *logger.Logger

	cfg SessionManagerConfig

	// now is swapped out in tests to pin the expiry arithmetic.
	now clock

	mu      sync.RWMutex
	state   AuthState
	session models.Session

	// expiredNotice holds at most one pending watchdog notification.
	expiredNotice chan struct{}

	jobMu     sync.Mutex
	jobCancel context.CancelFunc
	jobWG     sync.WaitGroup
}

// NewSessionManager constructs a [SessionManager]. The watchdog is idle
// until StartWatchdog is called.
func NewSessionManager(
	users store.UserRepository,
	professionals store.ProfessionalRepository,
	sessions store.SessionStore,
	cfg SessionManagerConfig,
	log *logger.Logger,
) SessionManager {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Minute
	}
	if cfg.CheckInterval <= 0 {
		cfg.CheckInterval = time.Minute
	}

	return &sessionManager{
		users:         users,
		professionals: professionals,
		sessions:      sessions,
		logger:        log,
		cfg:           cfg,
		now:           time.Now,
		expiredNotice: make(chan struct{}, 1),
	}
}

// Login runs the full authentication flow. The returned result always
// carries either a merged user snapshot or a code the login form can show.
func (m *sessionManager) Login(ctx context.Context, username, password string) models.LoginResult {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return failedLogin(models.AuthErrInvalidData, "informe usuário e senha")
	}

	user, err := m.users.FindByUsername(ctx, username)
	if errors.Is(err, store.ErrNoUserWasFound) {
		return failedLogin(models.AuthErrNotFound, "usuário não encontrado")
	}
	if err != nil {
		m.logger.Err(err).Str("username", username).Msg("login: user lookup failed")
		return failedLogin(models.AuthErrNetworkFailure, "falha de conexão, tente novamente")
	}

	if !user.Active {
		return failedLogin(models.AuthErrInactive, "usuário desativado")
	}

	ok, legacyScheme := utils.VerifyPassword(user.Password, password)
	if !ok {
		return failedLogin(models.AuthErrBadCredentials, "senha incorreta")
	}

	now := m.now()

	// Legacy credentials (bare SHA-256 digest or plaintext) are rewritten in
	// the canonical scheme the first time they verify.
	if legacyScheme {
		if upgraded, hashErr := utils.HashPassword(password); hashErr == nil {
			user.Password = upgraded
			m.logger.Info().Str("username", username).Msg("login: upgraded legacy password record")
		} else {
			m.logger.Err(hashErr).Str("username", username).Msg("login: password upgrade failed, keeping legacy record")
		}
	}

	// The stored record drops the first-login flag on a successful login;
	// the in-memory session keeps the pre-login value so the UI still walks
	// a fresh account through the forced password change.
	firstLogin := user.FirstLogin
	user.LastLogin = now
	user.FirstLogin = false
	if err = m.users.Save(ctx, user); err != nil {
		// The writeback is bookkeeping; a failed save must not block login.
		m.logger.Err(err).Str("username", username).Msg("login: last-login writeback failed")
	}

	merged := m.mergeProfessional(ctx, user)
	merged.Password = ""
	merged.FirstLogin = firstLogin

	session, err := m.newSession(merged, now)
	if err != nil {
		m.logger.Err(err).Str("username", username).Msg("login: session token issue failed")
		return failedLogin(models.AuthErrNetworkFailure, "falha ao criar sessão")
	}

	m.mu.Lock()
	m.state = StateAuthenticated
	m.session = session
	m.mu.Unlock()

	m.persist(session)
	m.logger.Info().Str("username", username).Str("role", string(merged.PrimaryRole())).Msg("login: authenticated")

	return models.LoginResult{Success: true, User: merged}
}

// Restore resumes the on-disk session after a restart.
func (m *sessionManager) Restore(ctx context.Context) bool {
	session, err := m.sessions.Load()
	if err != nil {
		if !errors.Is(err, store.ErrLocalSessionNotFound) {
			m.logger.Info().Err(err).Msg("restore: no usable session")
		}
		return false
	}

	now := m.now()
	if session.Expired(now) {
		m.logger.Info().Time("expiresAt", session.ExpiresAt).Msg("restore: session expired while away")
		_ = m.sessions.Clear()
		return false
	}

	if _, err = utils.ValidateAndParseSessionToken(session.Token, m.cfg.TokenSignKey, m.cfg.TokenIssuer); err != nil {
		m.logger.Warn().Err(err).Msg("restore: session token failed verification")
		_ = m.sessions.Clear()
		return false
	}

	// Re-validate against the store so a deactivation done elsewhere takes
	// effect on the next restart. A network failure keeps the cached
	// snapshot; the desk must stay usable through store hiccups.
	if fresh, err := m.users.FindByUsername(ctx, session.User.Username); err == nil {
		if !fresh.Active {
			m.logger.Info().Str("username", fresh.Username).Msg("restore: account deactivated, discarding session")
			_ = m.sessions.Clear()
			return false
		}
		fresh.Password = ""
		session.User = m.mergeProfessional(ctx, fresh)
	} else if !errors.Is(err, store.ErrNoUserWasFound) {
		m.logger.Warn().Err(err).Msg("restore: revalidation skipped, store unreachable")
	} else {
		_ = m.sessions.Clear()
		return false
	}

	session.LastActivity = now
	session.ExpiresAt = now.Add(m.cfg.Timeout)
	if token, err := utils.GenerateSessionToken(m.cfg.TokenIssuer, session.User.Username, session.ExpiresAt, m.cfg.TokenSignKey); err == nil {
		session.Token = token.SignedString
	}

	m.mu.Lock()
	m.state = StateAuthenticated
	m.session = session
	m.mu.Unlock()

	m.persist(session)
	m.logger.Info().Str("username", session.User.Username).Msg("restore: session resumed")
	return true
}

// Touch slides the inactivity window forward.
func (m *sessionManager) Touch() {
	m.mu.Lock()
	if m.state != StateAuthenticated {
		m.mu.Unlock()
		return
	}

	now := m.now()
	m.session.LastActivity = now
	m.session.ExpiresAt = now.Add(m.cfg.Timeout)
	if token, err := utils.GenerateSessionToken(m.cfg.TokenIssuer, m.session.User.Username, m.session.ExpiresAt, m.cfg.TokenSignKey); err == nil {
		m.session.Token = token.SignedString
	}
	session := m.session
	m.mu.Unlock()

	m.persist(session)
}

// Logout discards the session. Calling it while already logged out is a
// no-op.
func (m *sessionManager) Logout() {
	m.mu.Lock()
	wasAuthenticated := m.state == StateAuthenticated
	username := m.session.User.Username
	m.state = StateLoggedOut
	m.session = models.Session{}
	m.mu.Unlock()

	if err := m.sessions.Clear(); err != nil {
		m.logger.Err(err).Msg("logout: clearing session file failed")
	}
	if wasAuthenticated {
		m.logger.Info().Str("username", username).Msg("logout: session discarded")
	}
}

func (m *sessionManager) ChangePassword(ctx context.Context, current, newPassword string) models.OpResult {
	m.mu.RLock()
	state := m.state
	username := m.session.User.Username
	m.mu.RUnlock()

	if state != StateAuthenticated {
		return failedOp(models.AuthErrNotAuthenticated, "sessão expirada, entre novamente")
	}
	if len(newPassword) < minPasswordLength {
		return failedOp(models.AuthErrInvalidData, "a nova senha precisa de ao menos 6 caracteres")
	}

	user, err := m.users.FindByUsername(ctx, username)
	if err != nil {
		m.logger.Err(err).Str("username", username).Msg("change password: user lookup failed")
		return failedOp(models.AuthErrNetworkFailure, "falha de conexão, tente novamente")
	}

	if ok, _ := utils.VerifyPassword(user.Password, current); !ok {
		return failedOp(models.AuthErrWrongCurrentPassword, "senha atual incorreta")
	}

	hashed, err := utils.HashPassword(newPassword)
	if err != nil {
		m.logger.Err(err).Str("username", username).Msg("change password: hashing failed")
		return failedOp(models.AuthErrInvalidData, "não foi possível alterar a senha")
	}

	user.Password = hashed
	user.FirstLogin = false
	user.PasswordChangedAt = m.now()
	if err = m.users.Save(ctx, user); err != nil {
		m.logger.Err(err).Str("username", username).Msg("change password: save failed")
		return failedOp(models.AuthErrNetworkFailure, "falha ao salvar a nova senha")
	}

	m.mu.Lock()
	m.session.User.FirstLogin = false
	m.session.User.PasswordChangedAt = user.PasswordChangedAt
	session := m.session
	m.mu.Unlock()
	m.persist(session)

	m.logger.Info().Str("username", username).Msg("change password: done")
	return models.OpResult{Success: true}
}

func (m *sessionManager) CreateUser(ctx context.Context, user models.User, password string) models.OpResult {
	m.mu.RLock()
	state := m.state
	actor := m.session.User
	m.mu.RUnlock()

	if state != StateAuthenticated {
		return failedOp(models.AuthErrNotAuthenticated, "sessão expirada, entre novamente")
	}
	if !HasPermission(actor, PermManageStaff) {
		return failedOp(models.AuthErrNotAuthenticated, "sem permissão para gerenciar a equipe")
	}

	user.Username = strings.TrimSpace(user.Username)
	if user.Username == "" || len(password) < minPasswordLength {
		return failedOp(models.AuthErrInvalidData, "informe usuário e uma senha de ao menos 6 caracteres")
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		m.logger.Err(err).Msg("create user: hashing failed")
		return failedOp(models.AuthErrInvalidData, "não foi possível criar o usuário")
	}

	user.Password = hashed
	user.Active = true
	user.FirstLogin = true
	user.NormalizeRoles()

	if _, err = m.users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrUserAlreadyExists) {
			return failedOp(models.AuthErrAlreadyExists, "este usuário já existe")
		}
		m.logger.Err(err).Str("username", user.Username).Msg("create user: store write failed")
		return failedOp(models.AuthErrNetworkFailure, "falha de conexão, tente novamente")
	}

	m.logger.Info().Str("username", user.Username).Str("by", actor.Username).Msg("create user: account provisioned")
	return models.OpResult{Success: true}
}

func (m *sessionManager) Snapshot() (models.Session, AuthState) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session, m.state
}

func (m *sessionManager) HasPermission(perm Permission) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.state != StateAuthenticated {
		return false
	}
	return HasPermission(m.session.User, perm)
}

// StartWatchdog launches the periodic expiry check. A previously running
// watchdog is stopped first.
func (m *sessionManager) StartWatchdog(ctx context.Context) {
	m.StopWatchdog()

	m.jobMu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	m.jobCancel = cancel
	m.jobWG.Add(1)
	m.jobMu.Unlock()

	go func() {
		defer m.jobWG.Done()
		t := time.NewTicker(m.cfg.CheckInterval)
		defer t.Stop()

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				m.checkExpiry()
			}
		}
	}()
}

// StopWatchdog cancels the watchdog goroutine and blocks until it has fully
// exited. Safe to call when the watchdog is not running.
func (m *sessionManager) StopWatchdog() {
	m.jobMu.Lock()
	cancel := m.jobCancel
	m.jobCancel = nil
	m.jobMu.Unlock()

	if cancel != nil {
		cancel()
	}
	m.jobWG.Wait()
}

func (m *sessionManager) ConsumeExpiryNotice() bool {
	select {
	case <-m.expiredNotice:
		return true
	default:
		return false
	}
}

// checkExpiry is one watchdog tick.
func (m *sessionManager) checkExpiry() {
	m.mu.Lock()
	if m.state != StateAuthenticated || !m.session.Expired(m.now()) {
		m.mu.Unlock()
		return
	}

	username := m.session.User.Username
	m.state = StateIdleExpired
	m.session = models.Session{}
	m.mu.Unlock()

	if err := m.sessions.Clear(); err != nil {
		m.logger.Err(err).Msg("watchdog: clearing session file failed")
	}

	select {
	case m.expiredNotice <- struct{}{}:
	default:
	}

	m.logger.Info().Str("username", username).Msg("watchdog: session expired by inactivity")
}

// mergeProfessional attaches the linked professional profile to the user
// snapshot. A fetch failure degrades to the bare account; the profile is
// presentation data, not an authentication input.
func (m *sessionManager) mergeProfessional(ctx context.Context, user models.User) models.User {
	if user.ProfessionalID == "" {
		return user
	}

	professional, err := m.professionals.FindByID(ctx, user.ProfessionalID)
	if err != nil {
		m.logger.Warn().Err(err).Str("username", user.Username).
			Str("professionalId", user.ProfessionalID).Msg("professional profile fetch failed")
		return user
	}

	user.Professional = &professional
	return user
}

func (m *sessionManager) newSession(user models.User, now time.Time) (models.Session, error) {
	expiresAt := now.Add(m.cfg.Timeout)
	token, err := utils.GenerateSessionToken(m.cfg.TokenIssuer, user.Username, expiresAt, m.cfg.TokenSignKey)
	if err != nil {
		return models.Session{}, err
	}

	user.Password = ""
	return models.Session{
		User:         user,
		LastActivity: now,
		ExpiresAt:    expiresAt,
		Token:        token.SignedString,
	}, nil
}

// persist writes the session blob. Persistence failures are logged and
// swallowed; the in-memory session stays valid for this run.
func (m *sessionManager) persist(session models.Session) {
	if err := m.sessions.Save(session); err != nil {
		m.logger.Err(err).Msg("persisting session blob failed")
	}
}

func failedLogin(code models.AuthErrorCode, message string) models.LoginResult {
	return models.LoginResult{Error: code, Message: message}
}

func failedOp(code models.AuthErrorCode, message string) models.OpResult {
	return models.OpResult{Error: code, Message: message}
}
