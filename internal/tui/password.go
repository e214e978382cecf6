package tui

import (
	"context"
	"strings"

	"github.com/MKhiriev/salon-desk/internal/service"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// ChangePasswordModel is the password change form. It serves two situations:
// the forced change on first login (reached from the login screen, esc logs
// the user out) and the voluntary change from the main menu.
type ChangePasswordModel struct {
	ctx      context.Context
	sessions service.SessionManager

	inputs     []textinput.Model
	focus      int
	forced     bool
	submitting bool
	errMsg     string
}

// NewChangePasswordModel builds the three-field form: current password, new
// password and its confirmation. All fields use masked echo.
func NewChangePasswordModel(ctx context.Context, sessions service.SessionManager) *ChangePasswordModel {
	inputs := make([]textinput.Model, 3)
	for i := range inputs {
		inputs[i] = textinput.New()
		inputs[i].CharLimit = 256
		inputs[i].Width = 40
		inputs[i].EchoMode = textinput.EchoPassword
		inputs[i].EchoCharacter = '*'
	}
	inputs[0].Placeholder = "senha atual"
	inputs[1].Placeholder = "nova senha"
	inputs[2].Placeholder = "confirmar nova senha"
	inputs[0].Focus()

	return &ChangePasswordModel{
		ctx:      ctx,
		sessions: sessions,
		inputs:   inputs,
	}
}

func (m *ChangePasswordModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements [tea.Model]. On esc in forced mode the session is
// dropped and the user returns to the login screen; refusing the mandatory
// change must not leave a usable session behind.
func (m *ChangePasswordModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case forcedChangeNotice:
		m.forced = true
		m.reset()
		return m, textinput.Blink
	case passwordDoneMsg:
		m.submitting = false
		if !msg.result.Success {
			m.errMsg = msg.result.Message
			return m, nil
		}
		return m, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "esc":
			if m.forced {
				m.sessions.Logout()
				m.reset()
				m.forced = false
				return m, func() tea.Msg { return NavigateTo{Page: "login"} }
			}
			m.reset()
			return m, nil
		case "tab":
			m.focusNext()
			return m, nil
		case "shift+tab":
			m.focusPrev()
			return m, nil
		case "enter":
			if m.submitting {
				return m, nil
			}

			current := m.inputs[0].Value()
			newPassword := m.inputs[1].Value()
			confirm := m.inputs[2].Value()
			if newPassword != confirm {
				m.errMsg = "A confirmação não confere com a nova senha"
				return m, nil
			}

			m.errMsg = ""
			m.submitting = true
			return m, m.cmdChange(current, newPassword)
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *ChangePasswordModel) View() string {
	var b strings.Builder

	if m.forced {
		b.WriteString("Primeiro acesso: troque a senha temporária antes de continuar.\n\n")
	}

	b.WriteString("Senha atual     │ [")
	b.WriteString(m.inputs[0].View())
	b.WriteString("]\n")
	b.WriteString("Nova senha      │ [")
	b.WriteString(m.inputs[1].View())
	b.WriteString("]\n")
	b.WriteString("Confirmar senha │ [")
	b.WriteString(m.inputs[2].View())
	b.WriteString("]\n")

	if m.submitting {
		b.WriteString("\n[Salvando...]\n")
	} else {
		b.WriteString("\n[Salvar]\n")
	}

	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(renderError(m.errMsg))
		b.WriteString("\n")
	}

	hotKeys := "esc: cancelar │ tab: próximo campo │ enter: confirmar"
	return renderPage("ALTERAR SENHA", strings.TrimRight(b.String(), "\n"), hotKeys)
}

func (m *ChangePasswordModel) cmdChange(current, newPassword string) tea.Cmd {
	ctx := m.ctx
	sessions := m.sessions

	return func() tea.Msg {
		return passwordDoneMsg{result: sessions.ChangePassword(ctx, current, newPassword)}
	}
}

func (m *ChangePasswordModel) reset() {
	for i := range m.inputs {
		m.inputs[i].SetValue("")
		m.inputs[i].Blur()
	}
	m.focus = 0
	m.inputs[0].Focus()
	m.errMsg = ""
	m.submitting = false
}

func (m *ChangePasswordModel) focusNext() {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + 1) % len(m.inputs)
	m.inputs[m.focus].Focus()
}

func (m *ChangePasswordModel) focusPrev() {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus - 1 + len(m.inputs)) % len(m.inputs)
	m.inputs[m.focus].Focus()
}
