package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/goccy/go-json"

	"grafanapdf/internal/app"
	"grafanapdf/internal/router"
)

// resourceView describes one backend collection shown as a table. The first column
// always holds the id of the row.
type resourceView struct {
	title   string
	columns []table.Column
	load    func(ctx context.Context, c *app.Container) ([]table.Row, error)

	// enter acts on the selected row and may name a route to continue with.
	enter  func(ctx context.Context, c *app.Container, id string) (status, next string, err error)
	remove func(ctx context.Context, c *app.Container, id string) error

	reloadOnEnter bool
}

func resourceViews() map[string]resourceView {
	return map[string]resourceView{
		router.Templates: {
			title: "Templates",
			columns: []table.Column{
				{Title: "ID", Width: 12},
				{Title: "Name", Width: 30},
				{Title: "Modified", Width: 22},
			},
			load: func(ctx context.Context, c *app.Container) ([]table.Row, error) {
				c.AppState.FetchTemplates(ctx)
				st := c.AppState.Snapshot()
				rows := make([]table.Row, 0, len(st.Templates))
				for _, t := range st.Templates {
					name := t.Name
					if t.ID == st.SelectedTemplate {
						name = "● " + name
					}
					rows = append(rows, table.Row{t.ID, name, t.Modified})
				}
				return rows, stateError(st.Error)
			},
			reloadOnEnter: true,
			enter: func(_ context.Context, c *app.Container, id string) (string, string, error) {
				c.AppState.SetSelectedTemplate(id)
				return fmt.Sprintf("Template %s will be used for reports", id), "", nil
			},
			remove: func(ctx context.Context, c *app.Container, id string) error {
				return c.AppState.DeleteTemplate(ctx, id)
			},
		},
		router.Layouts: {
			title: "Layouts",
			columns: []table.Column{
				{Title: "ID", Width: 12},
				{Title: "Name", Width: 26},
				{Title: "Grid", Width: 6},
				{Title: "Panels", Width: 7},
				{Title: "Server", Width: 12},
			},
			load: func(ctx context.Context, c *app.Container) ([]table.Row, error) {
				c.AppState.FetchLayouts(ctx)
				st := c.AppState.Snapshot()
				rows := make([]table.Row, 0, len(st.Layouts))
				for _, l := range st.Layouts {
					rows = append(rows, table.Row{
						l.ID,
						l.Name,
						fmt.Sprintf("%dx%d", l.Rows, l.Columns),
						fmt.Sprint(len(l.Panels)),
						l.ServerID,
					})
				}
				return rows, stateError(st.Error)
			},
			enter: func(ctx context.Context, c *app.Container, id string) (string, string, error) {
				l, err := c.AppState.GetLayout(ctx, id)
				if err != nil {
					return "", "", err
				}
				if l.ServerID != "" && l.ServerID != c.AppState.SelectedServerID() {
					if err := c.AppState.SelectServer(ctx, l.ServerID); err != nil {
						return "", "", err
					}
				}
				if err := c.AppState.LoadLayout(*l); err != nil {
					return "", "", err
				}
				return "", router.ReportDesigner, nil
			},
			remove: func(ctx context.Context, c *app.Container, id string) error {
				return c.AppState.DeleteLayout(ctx, id)
			},
		},
		router.Schedules: {
			title: "Schedules",
			columns: []table.Column{
				{Title: "ID", Width: 12},
				{Title: "Name", Width: 26},
				{Title: "Status", Width: 10},
				{Title: "Layout", Width: 12},
				{Title: "Recipients", Width: 30},
			},
			load: func(ctx context.Context, c *app.Container) ([]table.Row, error) {
				c.AppState.FetchSchedules(ctx)
				st := c.AppState.Snapshot()
				rows := make([]table.Row, 0, len(st.Schedules))
				for _, s := range st.Schedules {
					rows = append(rows, table.Row{s.ID, s.Name, s.Status, s.LayoutID, strings.Join(s.Recipients, ", ")})
				}
				return rows, stateError(st.Error)
			},
			enter: func(ctx context.Context, c *app.Container, id string) (string, string, error) {
				runs, err := c.AppState.FetchScheduleHistory(ctx, id)
				if err != nil {
					return "", "", err
				}
				if len(runs) == 0 {
					return fmt.Sprintf("Schedule %s has not run yet", id), "", nil
				}
				last := runs[len(runs)-1]
				return fmt.Sprintf("%d runs, last %s: %s %s", len(runs), last.Timestamp, last.Status, last.Message), "", nil
			},
			remove: func(ctx context.Context, c *app.Container, id string) error {
				return c.AppState.DeleteSchedule(ctx, id)
			},
		},
		router.Settings: {
			title: "Settings",
			columns: []table.Column{
				{Title: "Key", Width: 24},
				{Title: "Value", Width: 60},
			},
			load: func(ctx context.Context, c *app.Container) ([]table.Row, error) {
				settings, err := c.AppState.GetSettings(ctx)
				if err != nil {
					return nil, err
				}
				keys := make([]string, 0, len(settings))
				for k := range settings {
					keys = append(keys, k)
				}
				sort.Strings(keys)

				rows := make([]table.Row, 0, len(keys))
				for _, k := range keys {
					rows = append(rows, table.Row{k, compact(settings[k])})
				}
				return rows, nil
			},
		},
	}
}

func stateError(msg string) error {
	if msg == "" {
		return nil
	}
	return errors.New(msg)
}

// compact renders a settings value on a single line.
func compact(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}

type resourceModel struct {
	ctx     context.Context
	c       *app.Container
	view    resourceView
	table   table.Model
	loading bool
	message string
	err     error
	next    string
}

type resourceRowsMsg struct {
	rows []table.Row
	err  error
}

type resourceActionMsg struct {
	status string
	next   string
	err    error
	reload bool
}

type clearMessageMsg struct{}

func (m resourceModel) Init() tea.Cmd {
	return m.reload()
}

func (m resourceModel) reload() tea.Cmd {
	return func() tea.Msg {
		m.c.AppState.ClearError()
		rows, err := m.view.load(m.ctx, m.c)
		return resourceRowsMsg{rows: rows, err: err}
	}
}

func (m resourceModel) selectedID() string {
	row := m.table.SelectedRow()
	if len(row) == 0 {
		return ""
	}
	return row[0]
}

func (m resourceModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "r":
			m.loading = true
			return m, m.reload()
		case "enter":
			id := m.selectedID()
			if id == "" || m.view.enter == nil {
				return m, nil
			}
			return m, func() tea.Msg {
				status, next, err := m.view.enter(m.ctx, m.c, id)
				return resourceActionMsg{status: status, next: next, err: err, reload: m.view.reloadOnEnter}
			}
		case "d":
			id := m.selectedID()
			if id == "" || m.view.remove == nil {
				return m, nil
			}
			m.message = fmt.Sprintf("Deleting %s...", id)
			return m, func() tea.Msg {
				if err := m.view.remove(m.ctx, m.c, id); err != nil {
					return resourceActionMsg{err: err}
				}
				return resourceActionMsg{status: fmt.Sprintf("Deleted %s", id), reload: true}
			}
		}
	case resourceRowsMsg:
		m.loading = false
		m.err = msg.err
		m.table.SetRows(msg.rows)
		return m, nil
	case resourceActionMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.message = msg.status
		if msg.next != "" {
			m.next = msg.next
			return m, tea.Quit
		}
		cmds := []tea.Cmd{tea.Tick(3*time.Second, func(time.Time) tea.Msg { return clearMessageMsg{} })}
		if msg.reload {
			cmds = append(cmds, m.reload())
		}
		return m, tea.Batch(cmds...)
	case clearMessageMsg:
		m.message = ""
		return m, nil
	case tea.WindowSizeMsg:
		m.table.SetWidth(msg.Width - 10)
		m.table.SetHeight(msg.Height - 10)
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m resourceModel) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(m.view.title))
	b.WriteString("\n\n")

	if m.loading {
		b.WriteString(descStyle.Render("  Loading..."))
		b.WriteString("\n")
	} else {
		b.WriteString(baseStyle.Render(m.table.View()))
		b.WriteString("\n")
	}

	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render("  Error: " + m.err.Error()))
	case m.message != "":
		b.WriteString(statusStyle.Render("  " + m.message))
	}
	b.WriteString("\n")

	help := []string{keyStyle.Render("r") + descStyle.Render(" refresh")}
	if m.view.enter != nil {
		help = append(help, keyStyle.Render("enter")+descStyle.Render(" open"))
	}
	if m.view.remove != nil {
		help = append(help, keyStyle.Render("d")+descStyle.Render(" delete"))
	}
	help = append(help, keyStyle.Render("q")+descStyle.Render(" back"))
	b.WriteString(footerStyle.Render(strings.Join(help, "  •  ")))

	return docStyle.Render(b.String())
}

func newTable(columns []table.Column) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(current.border).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(current.highlight).
		Background(current.selected).
		Bold(false)
	t.SetStyles(s)
	return t
}

// RunResources shows the collection behind route. It returns the route to continue
// with, or "" to go back.
func RunResources(ctx context.Context, c *app.Container, route string) string {
	view, ok := resourceViews()[route]
	if !ok {
		fmt.Printf("No view for %s\n", route)
		return ""
	}

	m := resourceModel{
		ctx:     ctx,
		c:       c,
		view:    view,
		table:   newTable(view.columns),
		loading: true,
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx), tea.WithInput(os.Stdin), tea.WithOutput(os.Stdout))
	finalModel, err := p.Run()
	if err != nil {
		fmt.Printf("Error running %s: %v\n", view.title, err)
		return ""
	}
	if m, ok := finalModel.(resourceModel); ok {
		return m.next
	}
	return ""
}
