package tui

import (
	"strings"

	"github.com/MKhiriev/salon-desk/models"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// staffFormModel collects a new staff account: username, display name, role,
// a temporary password and, for profissional accounts, the linked profile id.
// The created account carries the first-login flag, so the temporary password
// must be changed on first use.
type staffFormModel struct {
	inputs     []textinput.Model
	focus      int
	submitting bool
	errMsg     string
}

const (
	staffFieldUsername = iota
	staffFieldName
	staffFieldRole
	staffFieldPassword
	staffFieldProfessional
)

func newStaffFormModel() *staffFormModel {
	placeholders := []string{
		"usuário (login)",
		"nome de exibição",
		"papel (gerente, atendente, profissional)",
		"senha temporária",
		"id do profissional (se papel profissional)",
	}

	inputs := make([]textinput.Model, len(placeholders))
	for i := range inputs {
		inputs[i] = textinput.New()
		inputs[i].Placeholder = placeholders[i]
		inputs[i].Width = 44
		inputs[i].CharLimit = 80
	}
	inputs[staffFieldPassword].EchoMode = textinput.EchoPassword
	inputs[staffFieldPassword].EchoCharacter = '*'
	inputs[0].Focus()

	return &staffFormModel{inputs: inputs}
}

func (f *staffFormModel) Init() tea.Cmd {
	return textinput.Blink
}

func (f *staffFormModel) toUser() (models.User, string, string) {
	username := strings.TrimSpace(f.inputs[staffFieldUsername].Value())
	name := strings.TrimSpace(f.inputs[staffFieldName].Value())
	role := models.Role(strings.TrimSpace(strings.ToLower(f.inputs[staffFieldRole].Value())))
	password := f.inputs[staffFieldPassword].Value()

	if username == "" || name == "" || role == "" || password == "" {
		return models.User{}, "", "Usuário, nome, papel e senha são obrigatórios"
	}

	switch role {
	case models.RoleProprietario, models.RoleSuperAdmin, models.RoleGerente, models.RoleAtendente, models.RoleProfissional:
	default:
		return models.User{}, "", "Papel desconhecido: " + string(role)
	}

	user := models.User{
		Username:       username,
		Name:           name,
		Roles:          []models.Role{role},
		ProfessionalID: strings.TrimSpace(f.inputs[staffFieldProfessional].Value()),
	}
	if role == models.RoleProfissional {
		user.UserType = models.UserTypeProfessional
	} else {
		user.UserType = models.UserTypeAdministrative
	}
	return user, password, ""
}

func (m mainLoopModel) updateStaffForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.staffForm == nil {
		m.screen = screenMenu
		return m, nil
	}
	f := m.staffForm

	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "esc":
			m.staffForm = nil
			m.screen = screenMenu
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
			user, password, problem := f.toUser()
			if problem != "" {
				f.errMsg = problem
				return m, nil
			}
			f.errMsg = ""
			f.submitting = true
			return m, m.cmdCreateUser(user, password)
		}
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return m, cmd
}

func (m mainLoopModel) cmdCreateUser(user models.User, password string) tea.Cmd {
	ctx := m.ctx
	sessions := m.sessions

	return func() tea.Msg {
		return userCreatedMsg{
			result:   sessions.CreateUser(ctx, user, password),
			username: user.Username,
		}
	}
}

func (f *staffFormModel) View() string {
	labels := []string{
		"Usuário     ",
		"Nome        ",
		"Papel       ",
		"Senha temp. ",
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
		b.WriteString("\n[Criando...]\n")
	} else {
		b.WriteString("\n[Criar conta]\n")
	}

	if f.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(renderError(f.errMsg))
		b.WriteString("\n")
	}

	return renderPage("NOVA CONTA", strings.TrimRight(b.String(), "\n"), "esc: cancelar │ tab: próximo campo │ enter: criar")
}

func (f *staffFormModel) focusNext() {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + 1) % len(f.inputs)
	f.inputs[f.focus].Focus()
}

func (f *staffFormModel) focusPrev() {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus - 1 + len(f.inputs)) % len(f.inputs)
	f.inputs[f.focus].Focus()
}
