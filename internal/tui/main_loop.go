// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/MKhiriev/salon-desk/internal/service"
	"github.com/MKhiriev/salon-desk/models"
	tea "github.com/charmbracelet/bubbletea"
)

type screen int

const (
	screenMenu screen = iota
	screenDashboard
	screenBookings
	screenBookingForm
	screenSchedule
	screenStaffForm
	screenPassword
)

// expiryPollInterval is how often the UI asks the session manager whether
// the inactivity watchdog fired. The watchdog itself runs on its own
// interval; this poll only surfaces the verdict to the screen.
const expiryPollInterval = 2 * time.Second

type menuItem struct {
	label  string
	target screen
}

// mainLoopModel is the authenticated part of the UI. One model owns every
// screen; sub-forms are embedded models the loop delegates to.
//
// Every key press counts as activity and slides the session window via
// Touch. The expiry poll quits the program with the expired flag set, which
// sends the user back to the login flow.
type mainLoopModel struct {
	ctx      context.Context
	sessions service.SessionManager
	stats    service.Aggregator
	bookings service.BookingService
	hashKey  string

	screen  screen
	menu    []menuItem
	menuIdx int
	status  string
	errMsg  string

	dashboardLoading bool
	dashboardStats   statsLoadedMsg

	list        []models.Appointment
	listSkipped int
	listIdx     int
	listLoading bool

	bookingForm *bookingFormModel
	staffForm   *staffFormModel
	password    *ChangePasswordModel

	schedule scheduleModel

	logout  bool
	expired bool
}

func newMainLoopModel(ctx context.Context, sessions service.SessionManager, stats service.Aggregator, bookings service.BookingService, hashKey string) mainLoopModel {
	return mainLoopModel{
		ctx:      ctx,
		sessions: sessions,
		stats:    stats,
		bookings: bookings,
		hashKey:  hashKey,
		menu:     buildMenu(sessions),
		password: NewChangePasswordModel(ctx, sessions),
		schedule: newScheduleModel(sessions),
	}
}

// buildMenu lists only the screens the authenticated user may open. The
// services re-check permissions on every call anyway; hiding entries just
// keeps the menu honest.
func buildMenu(sessions service.SessionManager) []menuItem {
	session, _ := sessions.Snapshot()

	var items []menuItem
	if sessions.HasPermission(service.PermViewReports) {
		items = append(items, menuItem{label: "Painel", target: screenDashboard})
	}
	if sessions.HasPermission(service.PermManageAppointments) {
		items = append(items, menuItem{label: "Agendamentos", target: screenBookings})
	}
	if service.CanViewSchedule(session.User, session.User.ProfessionalID) {
		items = append(items, menuItem{label: "Agenda do profissional", target: screenSchedule})
	}
	if sessions.HasPermission(service.PermManageStaff) {
		items = append(items, menuItem{label: "Nova conta de funcionário", target: screenStaffForm})
	}
	items = append(items,
		menuItem{label: "Alterar senha", target: screenPassword},
		menuItem{label: "Sair da conta", target: screenMenu},
	)
	return items
}

func (m mainLoopModel) Init() tea.Cmd {
	return m.cmdExpiryPoll()
}

func (m mainLoopModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case expiryTickMsg:
		if m.sessions.ConsumeExpiryNotice() {
			m.expired = true
			return m, tea.Quit
		}
		if _, state := m.sessions.Snapshot(); state != service.StateAuthenticated {
			m.expired = true
			return m, tea.Quit
		}
		return m, m.cmdExpiryPoll()

	case statsLoadedMsg:
		m.dashboardLoading = false
		m.dashboardStats = msg
		return m, nil

	case bookingsLoadedMsg:
		m.listLoading = false
		if msg.err != nil {
			m.errMsg = fmt.Sprintf("Erro ao carregar agendamentos: %v", msg.err)
			return m, nil
		}
		m.errMsg = ""
		m.list = msg.bookings
		m.listSkipped = msg.skipped
		if m.listIdx >= len(m.list) {
			m.listIdx = len(m.list) - 1
		}
		if m.listIdx < 0 {
			m.listIdx = 0
		}
		return m, nil

	case bookingSavedMsg:
		if m.bookingForm != nil {
			m.bookingForm.submitting = false
		}
		if msg.err != nil {
			if m.bookingForm != nil {
				m.bookingForm.errMsg = fmt.Sprintf("Erro ao criar agendamento: %v", msg.err)
			}
			return m, nil
		}
		m.status = "Agendamento criado: " + msg.booking.ClientName
		m.errMsg = ""
		m.bookingForm = nil
		m.screen = screenBookings
		m.listLoading = true
		return m, m.cmdLoadBookings()

	case statusChangedMsg:
		if msg.err != nil {
			m.errMsg = fmt.Sprintf("Erro ao mudar status: %v", msg.err)
			return m, nil
		}
		m.status = fmt.Sprintf("Agendamento %s agora está %s", msg.booking.ID, msg.booking.Status)
		m.errMsg = ""
		m.listLoading = true
		return m, m.cmdLoadBookings()

	case bookingDeletedMsg:
		if msg.err != nil {
			m.errMsg = fmt.Sprintf("Erro ao apagar agendamento: %v", msg.err)
			return m, nil
		}
		m.status = "Agendamento apagado: " + msg.id
		m.errMsg = ""
		m.listLoading = true
		return m, m.cmdLoadBookings()

	case paymentDoneMsg:
		if msg.err != nil {
			m.errMsg = fmt.Sprintf("Erro ao registrar pagamento: %v", msg.err)
			return m, nil
		}
		m.status = fmt.Sprintf("Pagamento registrado: %s (%s)", formatMoney(msg.payment.Valor), msg.payment.MetodoPagamento)
		m.errMsg = ""
		return m, nil

	case exportDoneMsg:
		if msg.err != nil {
			m.errMsg = fmt.Sprintf("Erro ao exportar: %v", msg.err)
			return m, nil
		}
		m.status = "Exportado para " + msg.path
		m.errMsg = ""
		return m, nil

	case scheduleLoadedMsg:
		m.schedule.loading = false
		if msg.err != nil {
			m.errMsg = fmt.Sprintf("Erro ao carregar agenda: %v", msg.err)
			return m, nil
		}
		m.errMsg = ""
		m.schedule.items = msg.bookings
		m.schedule.loaded = true
		return m, nil

	case userCreatedMsg:
		if m.staffForm != nil {
			m.staffForm.submitting = false
		}
		if !msg.result.Success {
			if m.staffForm != nil {
				m.staffForm.errMsg = msg.result.Message
			}
			return m, nil
		}
		m.status = "Conta criada: " + msg.username
		m.errMsg = ""
		m.staffForm = nil
		m.screen = screenMenu
		return m, nil

	case passwordDoneMsg:
		if msg.result.Success {
			m.status = "Senha alterada"
			m.errMsg = ""
			m.screen = screenMenu
			m.password = NewChangePasswordModel(m.ctx, m.sessions)
			return m, nil
		}
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		// Any key press is user activity.
		m.sessions.Touch()

		if keyMsg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	switch m.screen {
	case screenMenu:
		return m.updateMenu(msg)
	case screenDashboard:
		return m.updateDashboard(msg)
	case screenBookings:
		return m.updateBookings(msg)
	case screenBookingForm:
		return m.updateBookingForm(msg)
	case screenSchedule:
		return m.updateSchedule(msg)
	case screenStaffForm:
		return m.updateStaffForm(msg)
	case screenPassword:
		return m.updatePassword(msg)
	}
	return m, nil
}

func (m mainLoopModel) View() string {
	switch m.screen {
	case screenDashboard:
		return m.viewDashboard()
	case screenBookings:
		return m.viewBookings()
	case screenBookingForm:
		if m.bookingForm != nil {
			return m.bookingForm.View()
		}
	case screenSchedule:
		return m.viewSchedule()
	case screenStaffForm:
		if m.staffForm != nil {
			return m.staffForm.View()
		}
	case screenPassword:
		return m.password.View()
	}
	return m.viewMenu()
}

func (m mainLoopModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "up", "k":
		if m.menuIdx > 0 {
			m.menuIdx--
		}
	case "down", "j":
		if m.menuIdx < len(m.menu)-1 {
			m.menuIdx++
		}
	case "q":
		return m, tea.Quit
	case "enter":
		item := m.menu[m.menuIdx]
		if item.label == "Sair da conta" {
			m.sessions.Logout()
			m.logout = true
			return m, tea.Quit
		}
		m.status = ""
		m.errMsg = ""
		return m.openScreen(item.target)
	}
	return m, nil
}

// openScreen switches to a screen and kicks off its initial load.
func (m mainLoopModel) openScreen(target screen) (tea.Model, tea.Cmd) {
	m.screen = target
	switch target {
	case screenDashboard:
		m.dashboardLoading = true
		return m, m.cmdLoadStats()
	case screenBookings:
		m.listLoading = true
		return m, m.cmdLoadBookings()
	case screenSchedule:
		m.schedule.prepare()
		return m, nil
	case screenStaffForm:
		m.staffForm = newStaffFormModel()
		return m, m.staffForm.Init()
	case screenPassword:
		return m, m.password.Init()
	}
	return m, nil
}

func (m mainLoopModel) viewMenu() string {
	var b strings.Builder

	session, _ := m.sessions.Snapshot()
	b.WriteString("Olá, ")
	b.WriteString(orDash(session.User.Name))
	b.WriteString(" (")
	b.WriteString(string(session.User.PrimaryRole()))
	b.WriteString(")\n\n")

	if m.status != "" {
		b.WriteString("OK: ")
		b.WriteString(m.status)
		b.WriteString("\n\n")
	}
	if m.errMsg != "" {
		b.WriteString(renderError(m.errMsg))
		b.WriteString("\n\n")
	}

	for i, item := range m.menu {
		cursor := " "
		if i == m.menuIdx {
			cursor = ">"
		}
		b.WriteString(fmt.Sprintf("%s %d. %s\n", cursor, i+1, item.label))
	}

	return renderPage("SALÃO — MENU", strings.TrimRight(b.String(), "\n"), "enter: abrir │ ↑/↓: navegação │ q: sair")
}

func (m mainLoopModel) updatePassword(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "esc" {
		m.screen = screenMenu
		m.password = NewChangePasswordModel(m.ctx, m.sessions)
		return m, nil
	}

	updated, cmd := m.password.Update(msg)
	m.password = updated.(*ChangePasswordModel)
	return m, cmd
}

func (m mainLoopModel) cmdExpiryPoll() tea.Cmd {
	return tea.Tick(expiryPollInterval, func(time.Time) tea.Msg {
		return expiryTickMsg{}
	})
}
