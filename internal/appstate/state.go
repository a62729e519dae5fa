// Package appstate is the application state store: the Grafana selection (server,
// organization, dashboard, panels), cached copies of backend resources and the
// in-progress report layout draft.
//
// Every backend action sets Loading before its single gateway call and clears it
// when the call settles. List fetches record failures in Error only; all other
// actions record the failure and return it.
package appstate

import (
	"context"
	"sync"

	"grafanapdf/pkg/sdk"
)

// Gateway is the subset of *sdk.Client the store talks to.
type Gateway interface {
	ListServers(ctx context.Context) ([]sdk.GrafanaServer, error)
	GetServer(ctx context.Context, id string) (*sdk.GrafanaServer, error)
	CreateServer(ctx context.Context, server sdk.GrafanaServer) (*sdk.StatusResponse, error)
	UpdateServer(ctx context.Context, id string, server sdk.GrafanaServer) (*sdk.StatusResponse, error)
	DeleteServer(ctx context.Context, id string) error
	SelectServer(ctx context.Context, id string) (*sdk.StatusResponse, error)
	TestServerConnection(ctx context.Context, id string, settings map[string]any) (sdk.ConnectionResult, error)

	GetOrganizations(ctx context.Context, serverID string) ([]sdk.Organization, error)
	GetDashboards(ctx context.Context, orgID int64, serverID string) ([]sdk.Dashboard, error)
	GetPanels(ctx context.Context, dashboardUID, serverID string) ([]sdk.Panel, error)

	ListTemplates(ctx context.Context) ([]sdk.Template, error)
	GetTemplate(ctx context.Context, id string) (*sdk.Template, error)
	CreateTemplate(ctx context.Context, t sdk.Template) (*sdk.StatusResponse, error)
	UpdateTemplate(ctx context.Context, t sdk.Template) (*sdk.StatusResponse, error)
	DeleteTemplate(ctx context.Context, id string) error

	ListLayouts(ctx context.Context) ([]sdk.Layout, error)
	GetLayout(ctx context.Context, id string) (*sdk.Layout, error)
	CreateLayout(ctx context.Context, l sdk.Layout) (*sdk.StatusResponse, error)
	UpdateLayout(ctx context.Context, l sdk.Layout) (*sdk.StatusResponse, error)
	DeleteLayout(ctx context.Context, id string) error

	ListSchedules(ctx context.Context) ([]sdk.Schedule, error)
	CreateSchedule(ctx context.Context, s sdk.Schedule) (*sdk.StatusResponse, error)
	UpdateSchedule(ctx context.Context, s sdk.Schedule) (*sdk.StatusResponse, error)
	DeleteSchedule(ctx context.Context, id string) error
	GetScheduleHistory(ctx context.Context, id string) ([]sdk.ScheduleRun, error)

	GetSettings(ctx context.Context) (sdk.Settings, error)
	UpdateSettings(ctx context.Context, settings sdk.Settings) (*sdk.StatusResponse, error)
	ApplySettings(ctx context.Context) (*sdk.StatusResponse, error)
	CheckSettingsInitialized(ctx context.Context) (*sdk.SettingsInitialized, error)
	TestGrafanaConnection(ctx context.Context, settings sdk.Settings) (sdk.ConnectionResult, error)
	TestEmailSettings(ctx context.Context, settings sdk.Settings) (sdk.ConnectionResult, error)
	TestLdapConnection(ctx context.Context, settings sdk.Settings) (sdk.ConnectionResult, error)

	GeneratePreview(ctx context.Context, req sdk.ReportRequest) (*sdk.Document, error)
	ExportPDF(ctx context.Context, req sdk.ReportRequest) (*sdk.Document, error)
}

type Publisher interface {
	Publish(topic string, payload any)
}

// Draft is the unsaved report grid.
type Draft struct {
	Rows    int               `validate:"gt=0"`
	Columns int               `validate:"gt=0"`
	Panels  []sdk.PlacedPanel `validate:"dive"`
}

func NewDraft() Draft {
	return Draft{Rows: 2, Columns: 2, Panels: []sdk.PlacedPanel{}}
}

func DefaultTimeRange() sdk.TimeRange {
	return sdk.TimeRange{From: "now-6h", To: "now"}
}

// State is a snapshot of the store.
type State struct {
	Servers              []sdk.GrafanaServer
	SelectedServerID     string
	Organizations        []sdk.Organization
	SelectedOrganization *int64
	Dashboards           []sdk.Dashboard
	SelectedDashboard    string
	Panels               []sdk.Panel
	Templates            []sdk.Template
	SelectedTemplate     string
	Layouts              []sdk.Layout
	Schedules            []sdk.Schedule
	TimeRange            sdk.TimeRange
	ReportLayout         Draft
	Loading              bool
	Error                string
}

type Store struct {
	gw  Gateway
	bus Publisher

	mu sync.Mutex
	st State
}

func New(gw Gateway, bus Publisher) *Store {
	return &Store{
		gw:  gw,
		bus: bus,
		st: State{
			TimeRange:    DefaultTimeRange(),
			ReportLayout: NewDraft(),
		},
	}
}

// Snapshot returns a deep copy of the state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.st
	st.Servers = cloneSlice(st.Servers)
	st.Organizations = cloneSlice(st.Organizations)
	st.Dashboards = cloneSlice(st.Dashboards)
	st.Panels = cloneSlice(st.Panels)
	st.Templates = cloneSlice(st.Templates)
	st.Layouts = cloneSlice(st.Layouts)
	st.Schedules = cloneSlice(st.Schedules)
	st.ReportLayout = st.ReportLayout.clone()
	if st.SelectedOrganization != nil {
		id := *st.SelectedOrganization
		st.SelectedOrganization = &id
	}
	return st
}

func (d Draft) clone() Draft {
	d.Panels = cloneSlice(d.Panels)
	if d.Panels == nil {
		d.Panels = []sdk.PlacedPanel{}
	}
	return d
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	return append(make([]T, 0, len(in)), in...)
}

func (s *Store) HasError() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.Error != ""
}

func (s *Store) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.Error = ""
}

func (s *Store) SelectedServerID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.SelectedServerID
}

func (s *Store) begin() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.Loading = true
}

func (s *Store) end() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.Loading = false
}

// fail records err and returns it.
func (s *Store) fail(err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.Error = err.Error()
	return err
}

func (s *Store) update(fn func(st *State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.st)
}
