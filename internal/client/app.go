// Package client wires the salon desk application together: the KV store
// client, the repositories, the services and the terminal UI.
package client

import (
	"context"
	"errors"

	"github.com/MKhiriev/salon-desk/internal/config"
	"github.com/MKhiriev/salon-desk/internal/kvstore"
	"github.com/MKhiriev/salon-desk/internal/logger"
	"github.com/MKhiriev/salon-desk/internal/service"
	"github.com/MKhiriev/salon-desk/internal/store"
	"github.com/MKhiriev/salon-desk/internal/tui"
)

type App struct {
	sessions service.SessionManager
	ui       *tui.TUI
	logger   *logger.Logger
}

// NewApp builds the whole dependency graph from the loaded configuration.
func NewApp(cfg *config.StructuredConfig, log *logger.Logger) (*App, error) {
	kv := kvstore.NewHTTPClient(kvstore.ClientConfig{
		BaseURL:       cfg.KVStore.BaseURL,
		Token:         cfg.KVStore.Token,
		Timeout:       cfg.KVStore.Timeout,
		RetryAttempts: cfg.KVStore.RetryAttempts,
	})
	reader := kvstore.NewBulkReader(kv, cfg.KVStore.FetchStrategy, cfg.KVStore.FetchWorkers, log)

	users := store.NewUserRepository(kv, reader, log)
	professionals := store.NewProfessionalRepository(kv, reader, log)
	appointments := store.NewAppointmentRepository(kv, reader, log)
	payments := store.NewPaymentRepository(kv, reader, log)
	sessionFile := store.NewFileSessionStore(cfg.Session.FilePath, log)

	sessions := service.NewSessionManager(users, professionals, sessionFile, service.SessionManagerConfig{
		TokenSignKey:  cfg.App.TokenSignKey,
		TokenIssuer:   cfg.App.TokenIssuer,
		Timeout:       cfg.Session.Timeout,
		CheckInterval: cfg.Session.CheckInterval,
	}, log)
	stats := service.NewAggregator(appointments, payments, professionals, users, cfg.Session.RecentLimit, log)
	bookings := service.NewBookingService(appointments, payments, log)

	ui, err := tui.New(sessions, stats, bookings, cfg.App.HashKey, log)
	if err != nil {
		return nil, err
	}

	return &App{sessions: sessions, ui: ui, logger: log}, nil
}

// Run drives the login-flow / main-loop cycle until the user quits. An
// inactivity expiry or an explicit logout loops back to the login screen.
func (a *App) Run(ctx context.Context) error {
	a.sessions.StartWatchdog(ctx)
	defer a.sessions.StopWatchdog()

	sessionExpired := false
	for {
		if !a.sessions.Restore(ctx) {
			err := a.ui.LoginFlow(ctx, sessionExpired)
			if errors.Is(err, tui.ErrUserQuit) {
				return nil
			}
			if err != nil {
				return err
			}
		}
		sessionExpired = false

		logout, expired, err := a.ui.MainLoop(ctx)
		if err != nil {
			return err
		}
		switch {
		case expired:
			sessionExpired = true
		case logout:
			// back to the login screen with a clean slate
		default:
			return nil
		}
	}
}
