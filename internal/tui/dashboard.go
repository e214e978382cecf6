package tui

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

func (m mainLoopModel) updateDashboard(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "esc":
		m.screen = screenMenu
	case "r":
		m.dashboardLoading = true
		return m, m.cmdLoadStats()
	}
	return m, nil
}

// cmdLoadStats re-scans all four namespaces. The aggregator absorbs scan
// failures itself, so the command always produces a renderable message.
func (m mainLoopModel) cmdLoadStats() tea.Cmd {
	ctx := m.ctx
	stats := m.stats

	return func() tea.Msg {
		return statsLoadedMsg{
			appointments:  stats.AppointmentStats(ctx),
			payments:      stats.PaymentStats(ctx),
			professionals: stats.ProfessionalStats(ctx),
			users:         stats.UserStats(ctx),
		}
	}
}

func (m mainLoopModel) viewDashboard() string {
	if m.dashboardLoading {
		return renderPage("PAINEL", "Carregando...", "esc: menu")
	}

	var b strings.Builder
	s := m.dashboardStats

	b.WriteString(fmt.Sprintf("Agendamentos: %d  │  pendentes: %d  │  clientes únicos: %d\n",
		s.appointments.Total, s.appointments.PendingCount, s.appointments.UniqueClients))
	b.WriteString(fmt.Sprintf("Receita prevista: %s\n", formatMoney(s.appointments.TotalRevenue)))
	b.WriteString(fmt.Sprintf("Pagamentos: %d  │  recebido: %s  │  a receber: %s\n",
		s.payments.Total, formatMoney(s.payments.PaidTotal), formatMoney(s.payments.PendingTotal)))
	b.WriteString(fmt.Sprintf("Profissionais ativos: %d de %d  │  contas ativas: %d de %d\n",
		s.professionals.ActiveCount, s.professionals.Total, s.users.ActiveCount, s.users.Total))

	if len(s.appointments.StatusCounts) > 0 {
		b.WriteString("\nPor status:\n")
		statuses := make([]string, 0, len(s.appointments.StatusCounts))
		for status := range s.appointments.StatusCounts {
			statuses = append(statuses, status)
		}
		sort.Strings(statuses)
		for _, status := range statuses {
			b.WriteString(fmt.Sprintf("  %-12s %d\n", status, s.appointments.StatusCounts[status]))
		}
	}

	if len(s.appointments.Recent) > 0 {
		b.WriteString("\nÚltimos agendamentos:\n")
		for _, appointment := range s.appointments.Recent {
			b.WriteString(fmt.Sprintf("  %s  %s %s  %s (%s)\n",
				fitText(appointment.ClientName, 24), appointment.Date, appointment.Time,
				fitText(appointment.Service, 20), appointment.Status))
		}
	}

	if skipped := s.appointments.Skipped + s.payments.Skipped + s.professionals.Skipped + s.users.Skipped; skipped > 0 {
		b.WriteString(fmt.Sprintf("\nRegistros ilegíveis ignorados: %d\n", skipped))
	}

	return renderPage("PAINEL", strings.TrimRight(b.String(), "\n"), "r: recarregar │ esc: menu")
}
