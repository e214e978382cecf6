// Package tui is the terminal front desk of salon-desk, built on Bubble Tea.
// The UI is split in two programs: the login flow (login plus the forced
// first-login password change) and the authenticated main loop.
package tui

import (
	"context"
	"errors"

	"github.com/MKhiriev/salon-desk/internal/logger"
	"github.com/MKhiriev/salon-desk/internal/service"
	tea "github.com/charmbracelet/bubbletea"
)

var ErrUserQuit = errors.New("saiu do programa")

type TUI struct {
	sessions service.SessionManager
	stats    service.Aggregator
	bookings service.BookingService
	hashKey  string
}

func New(sessions service.SessionManager, stats service.Aggregator, bookings service.BookingService, hashKey string, _ *logger.Logger) (*TUI, error) {
	return &TUI{
		sessions: sessions,
		stats:    stats,
		bookings: bookings,
		hashKey:  hashKey,
	}, nil
}

// LoginFlow runs the login program until a session is fully established.
// sessionExpired annotates the form with why the user is back here.
// Returns [ErrUserQuit] when the user quits instead of logging in.
func (t *TUI) LoginFlow(ctx context.Context, sessionExpired bool) error {
	notice := ""
	if sessionExpired {
		notice = "Sessão expirada por inatividade. Entre novamente."
	}

	pages := map[string]tea.Model{
		"login": NewLoginModel(ctx, t.sessions, notice),
		"senha": NewChangePasswordModel(ctx, t.sessions),
	}

	root := NewRootModel(pages, "login")
	finalModel, runErr := tea.NewProgram(root, tea.WithAltScreen()).Run()
	if runErr != nil {
		return runErr
	}

	result, ok := finalModel.(RootModel)
	if !ok {
		return tea.ErrProgramKilled
	}
	if result.quitByUser || !result.authenticated {
		return ErrUserQuit
	}
	return nil
}

// MainLoop runs the authenticated program. logout reports an explicit
// logout; expired reports an inactivity expiry. Both send the caller back to
// the login flow; neither at once means the user quit the program.
func (t *TUI) MainLoop(ctx context.Context) (logout bool, expired bool, err error) {
	model := newMainLoopModel(ctx, t.sessions, t.stats, t.bookings, t.hashKey)
	finalModel, runErr := tea.NewProgram(model, tea.WithAltScreen()).Run()
	if runErr != nil {
		return false, false, runErr
	}

	result, ok := finalModel.(mainLoopModel)
	if !ok {
		return false, false, tea.ErrProgramKilled
	}
	return result.logout, result.expired, nil
}
