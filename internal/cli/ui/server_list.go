package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"grafanapdf/internal/app"
	"grafanapdf/pkg/sdk"
)

type item struct {
	server   sdk.GrafanaServer
	selected bool
}

func (i item) Title() string {
	if i.selected {
		return "● " + i.server.Name
	}
	return "  " + i.server.Name
}

func (i item) Description() string {
	desc := fmt.Sprintf("ID: %s | %s", i.server.ID, i.server.URL)
	if i.server.IsDefault {
		desc += " | default"
	}
	return desc
}

func (i item) FilterValue() string { return i.server.Name + " " + i.server.URL }

type listKeyMap struct {
	test    key.Binding
	refresh key.Binding
}

func newListKeyMap() *listKeyMap {
	return &listKeyMap{
		test: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "test connection"),
		),
		refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
	}
}

type listModel struct {
	ctx  context.Context
	list list.Model
	c    *app.Container
	keys *listKeyMap
}

type statusMsg string
type serverListMsg struct{}

func (m listModel) Init() tea.Cmd {
	return refreshList(m.ctx, m.c)
}

func (m listModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch {
		case key.Matches(msg, m.keys.test):
			i, ok := m.list.SelectedItem().(item)
			if ok {
				return m, tea.Batch(
					func() tea.Msg {
						result, err := m.c.AppState.TestServerConnection(m.ctx, i.server.ID, nil)
						if err != nil {
							return statusMsg(fmt.Sprintf("Connection to %s failed: %v", i.server.Name, err))
						}
						return statusMsg(fmt.Sprintf("%s: %v", i.server.Name, summarize(result)))
					},
					m.list.NewStatusMessage(statusStyle.Render(fmt.Sprintf("Testing %s...", i.server.Name))),
				)
			}
		case key.Matches(msg, m.keys.refresh):
			return m, refreshList(m.ctx, m.c)
		case msg.String() == "enter":
			i, ok := m.list.SelectedItem().(item)
			if ok {
				return m, func() tea.Msg {
					if err := m.c.AppState.SelectServer(m.ctx, i.server.ID); err != nil {
						return statusMsg(fmt.Sprintf("Error selecting %s: %v", i.server.Name, err))
					}
					return serverListMsg{}
				}
			}
		}
	case statusMsg:
		return m, m.list.NewStatusMessage(statusStyle.Render(string(msg)))
	case serverListMsg:
		st := m.c.AppState.Snapshot()
		items := make([]list.Item, 0, len(st.Servers))
		for _, s := range st.Servers {
			items = append(items, item{server: s, selected: s.ID == st.SelectedServerID})
		}
		cmd := m.list.SetItems(items)
		if st.Error != "" {
			return m, tea.Batch(cmd, m.list.NewStatusMessage(errorStyle.Render(st.Error)))
		}
		return m, cmd
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m listModel) View() string {
	return docStyle.Render(m.list.View())
}

func refreshList(ctx context.Context, c *app.Container) tea.Cmd {
	return func() tea.Msg {
		c.AppState.ClearError()
		c.AppState.FetchServers(ctx)
		return serverListMsg{}
	}
}

func summarize(result sdk.ConnectionResult) string {
	if msg, ok := result["message"].(string); ok && msg != "" {
		return msg
	}
	if success, ok := result["success"].(bool); ok {
		if success {
			return "connection successful"
		}
		return "connection failed"
	}
	return fmt.Sprint(map[string]any(result))
}

// RunServerPicker lists the Grafana servers; enter makes the highlighted one active.
func RunServerPicker(ctx context.Context, c *app.Container) {
	keys := newListKeyMap()
	delegate := list.NewDefaultDelegate()

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Grafana Servers"
	l.Styles.Title = titleStyle
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.test, keys.refresh}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{keys.test, keys.refresh}
	}

	m := listModel{
		ctx:  ctx,
		list: l,
		c:    c,
		keys: keys,
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running list: %v\n", err)
		return
	}

	if id := c.AppState.SelectedServerID(); id != "" {
		fmt.Printf("Active server: %s\n", id)
	}
}
