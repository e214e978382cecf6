// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/MKhiriev/salon-desk/internal/service"
	"github.com/MKhiriev/salon-desk/internal/utils"
	"github.com/MKhiriev/salon-desk/models"
	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
)

// Status transition hotkeys of the bookings screen.
var transitionKeys = map[string]string{
	"1": models.StatusAgendado,
	"2": models.StatusConfirmado,
	"3": models.StatusConcluido,
	"x": models.StatusCancelado,
}

func (m mainLoopModel) updateBookings(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if to, ok := transitionKeys[keyMsg.String()]; ok {
		booking, exists := m.currentBooking()
		if !exists {
			return m, nil
		}
		return m, m.cmdChangeStatus(booking.ID, to)
	}

	switch keyMsg.String() {
	case "esc":
		m.screen = screenMenu
	case "up", "k":
		if m.listIdx > 0 {
			m.listIdx--
		}
	case "down", "j":
		if m.listIdx < len(m.list)-1 {
			m.listIdx++
		}
	case "r":
		m.listLoading = true
		return m, m.cmdLoadBookings()
	case "a":
		m.bookingForm = newBookingFormModel()
		m.screen = screenBookingForm
		return m, m.bookingForm.Init()
	case "p":
		booking, exists := m.currentBooking()
		if !exists {
			return m, nil
		}
		return m, m.cmdRegisterPayment(booking.ID, "pix")
	case "c":
		booking, exists := m.currentBooking()
		if !exists {
			return m, nil
		}
		if booking.ClientPhone == "" {
			m.status = "Agendamento sem telefone"
			return m, nil
		}
		if err := clipboard.WriteAll(booking.ClientPhone); err != nil {
			m.errMsg = fmt.Sprintf("Erro ao copiar: %v", err)
			return m, nil
		}
		m.status = "Telefone copiado"
	case "ctrl+d":
		booking, exists := m.currentBooking()
		if !exists {
			return m, nil
		}
		return m, m.cmdDeleteBooking(booking.ID)
	case "ctrl+e":
		if !m.sessions.HasPermission(service.PermExportData) {
			m.errMsg = "Sem permissão para exportar"
			return m, nil
		}
		return m, m.cmdExportBookings()
	}
	return m, nil
}

func (m mainLoopModel) currentBooking() (models.Appointment, bool) {
	if m.listIdx < 0 || m.listIdx >= len(m.list) {
		return models.Appointment{}, false
	}
	return m.list[m.listIdx], true
}

func (m mainLoopModel) cmdLoadBookings() tea.Cmd {
	ctx := m.ctx
	bookings := m.bookings

	return func() tea.Msg {
		items, skipped, err := bookings.ListBookings(ctx)
		return bookingsLoadedMsg{bookings: items, skipped: skipped, err: err}
	}
}

func (m mainLoopModel) cmdChangeStatus(id, to string) tea.Cmd {
	ctx := m.ctx
	bookings := m.bookings
	actor := m.actor()

	return func() tea.Msg {
		booking, err := bookings.UpdateStatus(ctx, actor, id, to)
		return statusChangedMsg{booking: booking, err: err}
	}
}

func (m mainLoopModel) cmdDeleteBooking(id string) tea.Cmd {
	ctx := m.ctx
	bookings := m.bookings
	actor := m.actor()

	return func() tea.Msg {
		err := bookings.DeleteBooking(ctx, actor, id)
		return bookingDeletedMsg{id: id, err: err}
	}
}

func (m mainLoopModel) cmdRegisterPayment(appointmentID, method string) tea.Cmd {
	ctx := m.ctx
	bookings := m.bookings
	actor := m.actor()

	return func() tea.Msg {
		payment, err := bookings.RegisterPayment(ctx, actor, appointmentID, method)
		return paymentDoneMsg{payment: payment, err: err}
	}
}

// cmdExportBookings dumps the loaded list as JSON next to the binary and
// writes an HMAC stamp alongside, so a recipient can check the file was not
// edited after export.
func (m mainLoopModel) cmdExportBookings() tea.Cmd {
	items := m.list
	hashKey := m.hashKey

	return func() tea.Msg {
		data, err := json.MarshalIndent(items, "", "  ")
		if err != nil {
			return exportDoneMsg{err: err}
		}

		path := fmt.Sprintf("agendamentos-%s.json", time.Now().Format("20060102-150405"))
		if err = os.WriteFile(path, data, 0o644); err != nil {
			return exportDoneMsg{err: err}
		}
		if hashKey != "" {
			stamp := utils.HashString(string(data), hashKey)
			if err = os.WriteFile(path+".sig", []byte(stamp+"\n"), 0o644); err != nil {
				return exportDoneMsg{err: err}
			}
		}
		return exportDoneMsg{path: path}
	}
}

func (m mainLoopModel) actor() models.User {
	session, _ := m.sessions.Snapshot()
	return session.User
}

func (m mainLoopModel) viewBookings() string {
	if m.listLoading {
		return renderPage("AGENDAMENTOS", "Carregando...", "esc: menu")
	}

	var b strings.Builder

	if m.status != "" {
		b.WriteString("OK: ")
		b.WriteString(m.status)
		b.WriteString("\n\n")
	}
	if m.errMsg != "" {
		b.WriteString(renderError(m.errMsg))
		b.WriteString("\n\n")
	}

	if len(m.list) == 0 {
		b.WriteString("Nenhum agendamento.\n")
	} else {
		b.WriteString(fmt.Sprintf("%-26s │ %-16s │ %-20s │ %-10s │ %s\n",
			"Cliente", "Data", "Serviço", "Status", "Valor"))
		b.WriteString(strings.Repeat("─", 96))
		b.WriteString("\n")

		for i, booking := range m.list {
			cursor := " "
			if i == m.listIdx {
				cursor = ">"
			}
			b.WriteString(fmt.Sprintf("%s %-24s │ %-10s %-5s │ %-20s │ %-10s │ %s\n",
				cursor,
				fitText(booking.ClientName, 24),
				booking.Date, booking.Time,
				fitText(booking.Service, 20),
				booking.Status,
				formatMoney(booking.ServicePrice)))
		}
	}

	if m.listSkipped > 0 {
		b.WriteString(fmt.Sprintf("\nRegistros ilegíveis ignorados: %d\n", m.listSkipped))
	}

	hotKeys := "a: novo │ 1: agendar │ 2: confirmar │ 3: concluir │ x: cancelar │ p: pagamento │ c: copiar tel │ ctrl+d: apagar │ ctrl+e: exportar │ r: recarregar │ esc: menu"
	return renderPage("AGENDAMENTOS", strings.TrimRight(b.String(), "\n"), hotKeys)
}
