package ui

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"grafanapdf/internal/app"
	"grafanapdf/internal/router"
)

// Home menu entries that are not routes.
const (
	EntryServers = "servers"
	EntryLogout  = "logout"
)

type menuItem struct {
	name  string
	title string
	desc  string
}

func (i menuItem) Title() string       { return i.title }
func (i menuItem) Description() string { return i.desc }
func (i menuItem) FilterValue() string { return i.title }

var descriptions = map[string]string{
	router.ReportDesigner: "Pick panels and render a report",
	router.Templates:      "Headers, footers and page setup",
	router.Layouts:        "Saved report layouts",
	router.Schedules:      "Recurring exports",
	router.Settings:       "Application settings (administrators)",
}

func menuItems(admin bool) []list.Item {
	var items []list.Item
	for _, r := range router.Routes() {
		if r.Name == router.Login || r.Name == router.Home {
			continue
		}
		if r.AdminOnly && !admin {
			continue
		}
		items = append(items, menuItem{name: r.Name, title: r.Title, desc: descriptions[r.Name]})
	}
	items = append(items,
		menuItem{name: EntryServers, title: "Grafana Servers", desc: "Choose the active Grafana server"},
		menuItem{name: EntryLogout, title: "Log out", desc: "Forget the stored session"},
	)
	return items
}

type homeKeyMap struct {
	theme key.Binding
}

type homeModel struct {
	list   list.Model
	keys   homeKeyMap
	c      *app.Container
	choice string
}

type themeChangedMsg string

func (m homeModel) Init() tea.Cmd {
	return nil
}

func (m homeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch {
		case key.Matches(msg, m.keys.theme):
			return m, func() tea.Msg {
				mode, err := m.c.Prefs.ToggleTheme()
				if err != nil {
					return themeChangedMsg("Error: " + err.Error())
				}
				return themeChangedMsg(fmt.Sprintf("Theme set to %s", mode))
			}
		case msg.String() == "enter":
			if i, ok := m.list.SelectedItem().(menuItem); ok {
				m.choice = i.name
				return m, tea.Quit
			}
		case msg.String() == "q" || msg.String() == "ctrl+c":
			return m, tea.Quit
		}
	case themeChangedMsg:
		m.list.Styles.Title = titleStyle
		return m, m.list.NewStatusMessage(statusStyle.Render(string(msg)))
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m homeModel) View() string {
	return docStyle.Render(m.list.View())
}

// RunHome shows the main menu and returns the chosen route or entry, or "" to quit.
func RunHome(ctx context.Context, c *app.Container) string {
	st := c.Session.Snapshot()
	admin := st.User != nil && st.User.IsAdmin

	keys := homeKeyMap{
		theme: key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "toggle theme")),
	}

	l := list.New(menuItems(admin), list.NewDefaultDelegate(), 0, 0)
	l.Title = "Grafana PDF Reports"
	if st.User != nil {
		l.Title = fmt.Sprintf("Grafana PDF Reports - %s", st.User.Username)
	}
	l.Styles.Title = titleStyle
	l.AdditionalShortHelpKeys = func() []key.Binding { return []key.Binding{keys.theme} }
	l.AdditionalFullHelpKeys = func() []key.Binding { return []key.Binding{keys.theme} }

	p := tea.NewProgram(homeModel{list: l, keys: keys, c: c}, tea.WithAltScreen(), tea.WithContext(ctx), tea.WithInput(os.Stdin), tea.WithOutput(os.Stdout))
	finalModel, err := p.Run()
	if err != nil {
		fmt.Printf("Error running menu: %v\n", err)
		return ""
	}
	if m, ok := finalModel.(homeModel); ok {
		return m.choice
	}
	return ""
}
