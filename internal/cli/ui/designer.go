package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"grafanapdf/internal/app"
	"grafanapdf/internal/appstate"
	"grafanapdf/pkg/sdk"
)

type stage int

const (
	stageOrganizations stage = iota
	stageDashboards
	stagePanels
)

func (s stage) String() string {
	switch s {
	case stageOrganizations:
		return "Organizations"
	case stageDashboards:
		return "Dashboards"
	default:
		return "Panels"
	}
}

type entry struct {
	id    string
	title string
	desc  string
	panel sdk.Panel
}

func (e entry) Title() string       { return e.title }
func (e entry) Description() string { return e.desc }
func (e entry) FilterValue() string { return e.title }

type designerKeyMap struct {
	back     key.Binding
	remove   key.Binding
	addRow   key.Binding
	dropRow  key.Binding
	addCol   key.Binding
	dropCol  key.Binding
	preview  key.Binding
	export   key.Binding
	save     key.Binding
	bindings []key.Binding
}

func newDesignerKeyMap() designerKeyMap {
	k := designerKeyMap{
		back:    key.NewBinding(key.WithKeys("backspace", "left"), key.WithHelp("←", "up")),
		remove:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "remove last panel")),
		addRow:  key.NewBinding(key.WithKeys("+"), key.WithHelp("+/-", "rows")),
		dropRow: key.NewBinding(key.WithKeys("-")),
		addCol:  key.NewBinding(key.WithKeys("]"), key.WithHelp("[/]", "columns")),
		dropCol: key.NewBinding(key.WithKeys("[")),
		preview: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "preview")),
		export:  key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export")),
		save:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save layout")),
	}
	k.bindings = []key.Binding{k.back, k.remove, k.addRow, k.addCol, k.preview, k.export, k.save}
	return k
}

type designerModel struct {
	ctx   context.Context
	c     *app.Container
	keys  designerKeyMap
	list  list.Model
	stage stage
	name  textinput.Model

	naming  bool
	busy    bool
	message string
	err     error
	width   int
}

type stageLoadedMsg struct {
	stage stage
	items []list.Item
	err   string
}

type designerStatusMsg struct {
	message string
	err     error
}

func newDesignerModel(ctx context.Context, c *app.Container) designerModel {
	keys := newDesignerKeyMap()

	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Styles.Title = titleStyle
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)

	ti := textinput.New()
	ti.Placeholder = "Layout name"
	ti.CharLimit = 64
	ti.Width = 40

	return designerModel{ctx: ctx, c: c, keys: keys, list: l, name: ti}
}

func (m designerModel) Init() tea.Cmd {
	return m.load(stageOrganizations, "")
}

// load fetches the entries of a stage. arg is the organization id for the dashboard
// stage and the dashboard uid for the panel stage.
func (m designerModel) load(s stage, arg string) tea.Cmd {
	return func() tea.Msg {
		state := m.c.AppState
		state.ClearError()

		switch s {
		case stageOrganizations:
			if state.SelectedServerID() == "" {
				state.FetchServers(m.ctx)
				if id := state.SelectedServerID(); id != "" {
					if err := state.SelectServer(m.ctx, id); err != nil {
						return stageLoadedMsg{stage: s, err: err.Error()}
					}
				}
			}
			if state.SelectedServerID() == "" {
				return stageLoadedMsg{stage: s, err: "no Grafana server configured"}
			}
			if len(state.Snapshot().Organizations) == 0 {
				state.FetchOrganizations(m.ctx, "")
			}
		case stageDashboards:
			orgID, err := strconv.ParseInt(arg, 10, 64)
			if err != nil {
				return stageLoadedMsg{stage: s, err: err.Error()}
			}
			state.FetchDashboards(m.ctx, orgID)
		case stagePanels:
			state.FetchPanels(m.ctx, arg)
		}

		st := state.Snapshot()
		return stageLoadedMsg{stage: s, items: stageItems(s, st), err: st.Error}
	}
}

func stageItems(s stage, st appstate.State) []list.Item {
	var items []list.Item
	switch s {
	case stageOrganizations:
		for _, o := range st.Organizations {
			items = append(items, entry{id: strconv.FormatInt(o.ID, 10), title: o.Name, desc: fmt.Sprintf("Org %d", o.ID)})
		}
	case stageDashboards:
		for _, d := range st.Dashboards {
			desc := d.UID
			if d.FolderTitle != "" {
				desc = d.FolderTitle + " | " + d.UID
			}
			items = append(items, entry{id: d.UID, title: d.Title, desc: desc})
		}
	case stagePanels:
		for _, p := range st.Panels {
			if p.DashboardUID == "" {
				p.DashboardUID = st.SelectedDashboard
			}
			items = append(items, entry{id: strconv.FormatInt(p.ID, 10), title: p.Title, desc: p.Type, panel: p})
		}
	}
	return items
}

// nextCell returns the first grid cell after the panels already placed, wrapping
// row by row.
func nextCell(d appstate.Draft) (x, y int) {
	if d.Columns <= 0 {
		return 0, len(d.Panels)
	}
	n := len(d.Panels)
	return n % d.Columns, n / d.Columns
}

func (m designerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.naming {
		return m.updateNaming(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		state := m.c.AppState
		switch {
		case msg.String() == "q" || msg.String() == "esc" || msg.String() == "ctrl+c":
			return m, tea.Quit
		case msg.String() == "enter":
			i, ok := m.list.SelectedItem().(entry)
			if !ok {
				return m, nil
			}
			switch m.stage {
			case stageOrganizations:
				m.busy = true
				return m, m.load(stageDashboards, i.id)
			case stageDashboards:
				m.busy = true
				return m, m.load(stagePanels, i.id)
			case stagePanels:
				x, y := nextCell(state.Snapshot().ReportLayout)
				state.AddPanelToLayout(sdk.PlacedPanel{Panel: i.panel, X: x, Y: y, W: 1, H: 1})
				m.message = fmt.Sprintf("Added %s", i.title)
				m.err = nil
				return m, nil
			}
		case key.Matches(msg, m.keys.back):
			if m.stage == stageOrganizations {
				return m, nil
			}
			st := state.Snapshot()
			m.stage--
			m.list.Title = m.stage.String()
			return m, m.list.SetItems(stageItems(m.stage, st))
		case key.Matches(msg, m.keys.remove):
			d := state.Snapshot().ReportLayout
			if len(d.Panels) == 0 {
				return m, nil
			}
			m.err = state.RemovePanelFromLayout(len(d.Panels) - 1)
			return m, nil
		case key.Matches(msg, m.keys.addRow, m.keys.dropRow, m.keys.addCol, m.keys.dropCol):
			d := state.Snapshot().ReportLayout
			rows, cols := d.Rows, d.Columns
			switch {
			case key.Matches(msg, m.keys.addRow):
				rows++
			case key.Matches(msg, m.keys.dropRow):
				rows--
			case key.Matches(msg, m.keys.addCol):
				cols++
			default:
				cols--
			}
			m.err = state.UpdateReportGrid(rows, cols)
			return m, nil
		case key.Matches(msg, m.keys.preview):
			m.busy = true
			m.message = "Rendering preview..."
			return m, m.render("preview", state.GeneratePreview)
		case key.Matches(msg, m.keys.export):
			m.busy = true
			m.message = "Exporting PDF..."
			return m, m.render("report", state.ExportPDF)
		case key.Matches(msg, m.keys.save):
			m.naming = true
			m.name.SetValue("")
			return m, m.name.Focus()
		}
	case stageLoadedMsg:
		m.busy = false
		if msg.err != "" {
			m.err = errors.New(msg.err)
		} else {
			m.err = nil
		}
		if msg.err != "" && len(msg.items) == 0 {
			return m, nil
		}
		m.stage = msg.stage
		m.list.Title = m.stage.String()
		m.list.ResetSelected()
		return m, m.list.SetItems(msg.items)
	case designerStatusMsg:
		m.busy = false
		m.err = msg.err
		m.message = msg.message
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		h, v := docStyle.GetFrameSize()
		m.list.SetSize((msg.Width-h)/2, msg.Height-v-4)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m designerModel) updateNaming(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "esc", "ctrl+c":
			m.naming = false
			m.name.Blur()
			return m, nil
		case "enter":
			name := strings.TrimSpace(m.name.Value())
			if name == "" {
				return m, nil
			}
			m.naming = false
			m.name.Blur()
			m.busy = true
			return m, func() tea.Msg {
				resp, err := m.c.AppState.SaveLayout(m.ctx, m.c.AppState.ToLayout(name))
				if err != nil {
					return designerStatusMsg{err: err}
				}
				if resp != nil && resp.ID != "" {
					return designerStatusMsg{message: fmt.Sprintf("Layout %s saved (%s)", name, resp.ID)}
				}
				return designerStatusMsg{message: fmt.Sprintf("Layout %s saved", name)}
			}
		}
	}

	var cmd tea.Cmd
	m.name, cmd = m.name.Update(msg)
	return m, cmd
}

func (m designerModel) render(name string, call func(context.Context) (*sdk.Document, error)) tea.Cmd {
	return func() tea.Msg {
		doc, err := call(m.ctx)
		if err != nil {
			return designerStatusMsg{err: err}
		}
		out := fmt.Sprintf("%s-%s.pdf", name, time.Now().Format("20060102-150405"))
		if err := os.WriteFile(out, doc.Data, 0644); err != nil {
			return designerStatusMsg{err: err}
		}
		abs, err := filepath.Abs(out)
		if err != nil {
			abs = out
		}
		return designerStatusMsg{message: fmt.Sprintf("Saved %s (%d bytes)", abs, len(doc.Data))}
	}
}

func (m designerModel) draftView() string {
	st := m.c.AppState.Snapshot()
	d := st.ReportLayout

	var b strings.Builder
	b.WriteString(headerStyle.Render("Report Layout"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("Server:   %s\n", valueOr(st.SelectedServerID, "-")))
	b.WriteString(fmt.Sprintf("Grid:     %d x %d\n", d.Rows, d.Columns))
	b.WriteString(fmt.Sprintf("Range:    %s .. %s\n", st.TimeRange.From, st.TimeRange.To))
	b.WriteString(fmt.Sprintf("Template: %s\n\n", valueOr(st.SelectedTemplate, "default")))

	if len(d.Panels) == 0 {
		b.WriteString(descStyle.Render("No panels yet. Pick one on the left."))
	}
	for i, p := range d.Panels {
		b.WriteString(fmt.Sprintf("%2d. %s %s\n", i+1, p.Title, descStyle.Render(fmt.Sprintf("(%d,%d %dx%d)", p.X, p.Y, p.W, p.H))))
	}
	return baseStyle.Render(b.String())
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func (m designerModel) View() string {
	body := lipgloss.JoinHorizontal(lipgloss.Top, m.list.View(), "  ", m.draftView())

	var status string
	switch {
	case m.naming:
		status = "Save as: " + m.name.View()
	case m.err != nil:
		status = errorStyle.Render("Error: " + m.err.Error())
	case m.busy:
		status = descStyle.Render(valueOr(m.message, "Loading..."))
	case m.message != "":
		status = statusStyle.Render(m.message)
	}

	help := make([]string, 0, len(m.keys.bindings)+1)
	for _, b := range m.keys.bindings {
		help = append(help, keyStyle.Render(b.Help().Key)+descStyle.Render(" "+b.Help().Desc))
	}
	help = append(help, keyStyle.Render("q")+descStyle.Render(" back"))

	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		body,
		"",
		status,
		footerStyle.Render(strings.Join(help, "  •  ")),
	))
}

// RunDesigner lets the user browse organizations, dashboards and panels of the active
// server and assemble a report layout from them.
func RunDesigner(ctx context.Context, c *app.Container) {
	p := tea.NewProgram(newDesignerModel(ctx, c), tea.WithAltScreen(), tea.WithContext(ctx), tea.WithInput(os.Stdin), tea.WithOutput(os.Stdout))
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running designer: %v\n", err)
	}
}
