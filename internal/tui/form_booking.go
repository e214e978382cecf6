package tui

import (
	"strconv"
	"strings"

	"github.com/MKhiriev/salon-desk/models"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// bookingFormModel collects the fields of a new booking. It is a sub-model:
// the main loop owns navigation and submission, the form owns its inputs.
type bookingFormModel struct {
	inputs     []textinput.Model
	focus      int
	submitting bool
	errMsg     string
}

const (
	bookingFieldClient = iota
	bookingFieldPhone
	bookingFieldService
	bookingFieldDate
	bookingFieldTime
	bookingFieldPrice
	bookingFieldProfessional
)

func newBookingFormModel() *bookingFormModel {
	placeholders := []string{
		"nome da cliente",
		"telefone (opcional)",
		"serviço",
		"data (2006-01-02)",
		"horário (15:04)",
		"valor (ex.: 120.00)",
		"id do profissional (opcional)",
	}

	inputs := make([]textinput.Model, len(placeholders))
	for i := range inputs {
		inputs[i] = textinput.New()
		inputs[i].Placeholder = placeholders[i]
		inputs[i].Width = 40
		inputs[i].CharLimit = 80
	}
	inputs[0].Focus()

	return &bookingFormModel{inputs: inputs}
}

func (f *bookingFormModel) Init() tea.Cmd {
	return textinput.Blink
}

// toAppointment validates the form and builds the booking. The service
// forces status pendente regardless of what the form sends.
func (f *bookingFormModel) toAppointment() (models.Appointment, string) {
	clientName := strings.TrimSpace(f.inputs[bookingFieldClient].Value())
	serviceName := strings.TrimSpace(f.inputs[bookingFieldService].Value())
	if clientName == "" || serviceName == "" {
		return models.Appointment{}, "Cliente e serviço são obrigatórios"
	}

	var price float64
	if raw := strings.TrimSpace(f.inputs[bookingFieldPrice].Value()); raw != "" {
		parsed, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
		if err != nil || parsed < 0 {
			return models.Appointment{}, "Valor inválido"
		}
		price = parsed
	}

	return models.Appointment{
		ClientName:     clientName,
		ClientPhone:    strings.TrimSpace(f.inputs[bookingFieldPhone].Value()),
		Service:        serviceName,
		Date:           strings.TrimSpace(f.inputs[bookingFieldDate].Value()),
		Time:           strings.TrimSpace(f.inputs[bookingFieldTime].Value()),
		ServicePrice:   price,
		ProfessionalID: strings.TrimSpace(f.inputs[bookingFieldProfessional].Value()),
	}, ""
}

func (m mainLoopModel) updateBookingForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.bookingForm == nil {
		m.screen = screenBookings
		return m, nil
	}
	f := m.bookingForm

	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "esc":
			m.bookingForm = nil
			m.screen = screenBookings
			return m, nil
		case "tab":
			f.focusNext()
			return m, nil
		case "shift+tab":
			f.focusPrev()
			return m, nil
		case "enter":
			if f.submitting {
				return m, nil
			}
			appointment, problem := f.toAppointment()
			if problem != "" {
				f.errMsg = problem
				return m, nil
			}
			f.errMsg = ""
			f.submitting = true
			return m, m.cmdCreateBooking(appointment)
		}
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return m, cmd
}

func (m mainLoopModel) cmdCreateBooking(appointment models.Appointment) tea.Cmd {
	ctx := m.ctx
	bookings := m.bookings
	actor := m.actor()

	return func() tea.Msg {
		created, err := bookings.CreateBooking(ctx, actor, appointment)
		return bookingSavedMsg{booking: created, err: err}
	}
}

func (f *bookingFormModel) View() string {
	labels := []string{
		"Cliente     ",
		"Telefone    ",
		"Serviço     ",
		"Data        ",
		"Horário     ",
		"Valor       ",
		"Profissional",
	}

	var b strings.Builder
	for i, label := range labels {
		b.WriteString(label)
		b.WriteString("│ [")
		b.WriteString(f.inputs[i].View())
		b.WriteString("]\n")
	}

	if f.submitting {
		b.WriteString("\n[Salvando...]\n")
	} else {
		b.WriteString("\n[Salvar]\n")
	}

	if f.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(renderError(f.errMsg))
		b.WriteString("\n")
	}

	return renderPage("NOVO AGENDAMENTO", strings.TrimRight(b.String(), "\n"), "esc: cancelar │ tab: próximo campo │ enter: salvar")
}

func (f *bookingFormModel) focusNext() {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + 1) % len(f.inputs)
	f.inputs[f.focus].Focus()
}

func (f *bookingFormModel) focusPrev() {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus - 1 + len(f.inputs)) % len(f.inputs)
	f.inputs[f.focus].Focus()
}
