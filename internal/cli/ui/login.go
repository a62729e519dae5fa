package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"grafanapdf/pkg/sdk"
)

type loginModel struct {
	inputs    []textinput.Model
	focus     int
	firstRun  bool
	message   string
	submitted bool
}

func newLoginModel(initial sdk.Credentials, firstRun bool, message string) loginModel {
	user := textinput.New()
	user.Placeholder = "username"
	user.CharLimit = 64
	user.Width = 30
	user.SetValue(initial.Username)

	pass := textinput.New()
	pass.Placeholder = "password"
	pass.EchoMode = textinput.EchoPassword
	pass.EchoCharacter = '•'
	pass.CharLimit = 128
	pass.Width = 30
	pass.SetValue(initial.Password)

	m := loginModel{
		inputs:   []textinput.Model{user, pass},
		firstRun: firstRun,
		message:  message,
	}
	if initial.Username != "" {
		m.focus = 1
	}
	m.inputs[m.focus].Focus()
	return m
}

func (m loginModel) credentials() sdk.Credentials {
	return sdk.Credentials{
		Username: strings.TrimSpace(m.inputs[0].Value()),
		Password: m.inputs[1].Value(),
	}
}

func (m loginModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m loginModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "tab", "shift+tab", "up", "down":
			if msg.String() == "shift+tab" || msg.String() == "up" {
				m.focus--
			} else {
				m.focus++
			}
			m.focus = (m.focus + len(m.inputs)) % len(m.inputs)
			for i := range m.inputs {
				if i == m.focus {
					m.inputs[i].Focus()
				} else {
					m.inputs[i].Blur()
				}
			}
			return m, nil
		case "enter":
			creds := m.credentials()
			if creds.Username == "" || creds.Password == "" {
				m.message = "Username and password are required"
				return m, nil
			}
			m.submitted = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m loginModel) View() string {
	title := "GRAFANA PDF REPORTS - LOGIN"
	hint := "Sign in with your account"
	if m.firstRun {
		title = "GRAFANA PDF REPORTS - SETUP"
		hint = "Create the administrator account"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(title) + "\n\n")
	b.WriteString(descStyle.Render(hint) + "\n\n")
	b.WriteString(keyStyle.Render("Username") + "\n" + m.inputs[0].View() + "\n\n")
	b.WriteString(keyStyle.Render("Password") + "\n" + m.inputs[1].View() + "\n\n")
	if m.message != "" {
		b.WriteString(errorStyle.Render(m.message) + "\n\n")
	}
	b.WriteString(descStyle.Render("tab: next field • enter: submit • esc: cancel"))

	return docStyle.Render(lipgloss.NewStyle().Width(50).Render(b.String()))
}

// RunLoginForm asks for credentials. It returns false when the user cancels.
func RunLoginForm(initial sdk.Credentials, firstRun bool, message string) (sdk.Credentials, bool) {
	p := tea.NewProgram(newLoginModel(initial, firstRun, message), tea.WithInput(os.Stdin), tea.WithOutput(os.Stderr))
	finalModel, err := p.Run()
	if err != nil {
		fmt.Printf("Error running login form: %v\n", err)
		return sdk.Credentials{}, false
	}

	m, ok := finalModel.(loginModel)
	if !ok || !m.submitted {
		return sdk.Credentials{}, false
	}
	return m.credentials(), true
}
