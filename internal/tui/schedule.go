package tui

import (
	"fmt"
	"strings"

	"github.com/MKhiriev/salon-desk/internal/service"
	"github.com/MKhiriev/salon-desk/models"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// scheduleModel is the per-professional agenda screen. A profissional user
// gets their own agenda prefilled; managers can type any professional id.
// The service enforces who may see whose schedule either way.
type scheduleModel struct {
	sessions service.SessionManager

	input   textinput.Model
	items   []models.Appointment
	loaded  bool
	loading bool
}

func newScheduleModel(sessions service.SessionManager) scheduleModel {
	input := textinput.New()
	input.Placeholder = "id do profissional"
	input.Width = 40
	input.CharLimit = 60

	return scheduleModel{sessions: sessions, input: input}
}

// prepare resets the screen and prefills the professional id with the
// authenticated user's own profile link, when one exists.
func (s *scheduleModel) prepare() {
	session, _ := s.sessions.Snapshot()
	if session.User.ProfessionalID != "" {
		s.input.SetValue(session.User.ProfessionalID)
	}
	s.input.Focus()
	s.items = nil
	s.loaded = false
	s.loading = false
}

func (m mainLoopModel) updateSchedule(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "esc":
			m.screen = screenMenu
			return m, nil
		case "enter":
			professionalID := strings.TrimSpace(m.schedule.input.Value())
			if professionalID == "" {
				m.errMsg = "Informe o id do profissional"
				return m, nil
			}
			m.errMsg = ""
			m.schedule.loading = true
			return m, m.cmdLoadSchedule(professionalID)
		}
	}

	var cmd tea.Cmd
	m.schedule.input, cmd = m.schedule.input.Update(msg)
	return m, cmd
}

func (m mainLoopModel) cmdLoadSchedule(professionalID string) tea.Cmd {
	ctx := m.ctx
	bookings := m.bookings
	actor := m.actor()

	return func() tea.Msg {
		items, err := bookings.ScheduleFor(ctx, actor, professionalID)
		return scheduleLoadedMsg{bookings: items, err: err}
	}
}

func (m mainLoopModel) viewSchedule() string {
	var b strings.Builder

	b.WriteString("Profissional │ [")
	b.WriteString(m.schedule.input.View())
	b.WriteString("]\n\n")

	switch {
	case m.schedule.loading:
		b.WriteString("Carregando...\n")
	case m.errMsg != "":
		b.WriteString(renderError(m.errMsg))
		b.WriteString("\n")
	case m.schedule.loaded && len(m.schedule.items) == 0:
		b.WriteString("Agenda vazia.\n")
	case m.schedule.loaded:
		b.WriteString(fmt.Sprintf("%-10s %-5s │ %-24s │ %-20s │ %s\n",
			"Data", "Hora", "Cliente", "Serviço", "Status"))
		b.WriteString(strings.Repeat("─", 80))
		b.WriteString("\n")
		for _, booking := range m.schedule.items {
			b.WriteString(fmt.Sprintf("%-10s %-5s │ %-24s │ %-20s │ %s\n",
				booking.Date, booking.Time,
				fitText(booking.ClientName, 24),
				fitText(booking.Service, 20),
				booking.Status))
		}
	}

	return renderPage("AGENDA", strings.TrimRight(b.String(), "\n"), "enter: carregar │ esc: menu")
}
