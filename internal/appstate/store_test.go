package appstate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grafanapdf/internal/events"
	"grafanapdf/pkg/sdk"
)

type testEnv struct {
	store *Store
	bus   *events.Bus
	mux   *http.ServeMux

	mu       sync.Mutex
	requests []string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{mux: http.NewServeMux(), bus: events.NewBus()}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		env.mu.Lock()
		env.requests = append(env.requests, r.Method+" "+r.URL.Path)
		env.mu.Unlock()
		env.mux.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)

	env.store = New(sdk.NewClient(srv.URL+"/api"), env.bus)
	return env
}

func (e *testEnv) handle(pattern string, status int, body any) {
	e.mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, status, body)
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

func TestInitialState(t *testing.T) {
	st := newTestEnv(t).store.Snapshot()
	assert.Equal(t, sdk.TimeRange{From: "now-6h", To: "now"}, st.TimeRange)
	assert.Equal(t, 2, st.ReportLayout.Rows)
	assert.Equal(t, 2, st.ReportLayout.Columns)
	assert.Empty(t, st.ReportLayout.Panels)
	assert.False(t, st.Loading)
}

func TestFetchServersSelectsDefault(t *testing.T) {
	env := newTestEnv(t)
	env.handle("GET /api/servers", http.StatusOK, []sdk.GrafanaServer{
		{ID: "a", Name: "A"},
		{ID: "b", Name: "B", IsDefault: true},
	})

	env.store.FetchServers(context.Background())
	st := env.store.Snapshot()
	assert.Len(t, st.Servers, 2)
	assert.Equal(t, "b", st.SelectedServerID)
	assert.False(t, st.Loading)
}

func TestFetchServersSelectsFirstWithoutDefault(t *testing.T) {
	env := newTestEnv(t)
	env.handle("GET /api/servers", http.StatusOK, []sdk.GrafanaServer{{ID: "a"}, {ID: "b"}})

	env.store.FetchServers(context.Background())
	assert.Equal(t, "a", env.store.SelectedServerID())
}

func TestListFetchSwallowsError(t *testing.T) {
	env := newTestEnv(t)
	env.handle("GET /api/templates", http.StatusInternalServerError, map[string]string{"detail": "db down"})

	env.store.FetchTemplates(context.Background())
	st := env.store.Snapshot()
	assert.True(t, env.store.HasError())
	assert.Equal(t, "API error (500): db down", st.Error)
	assert.False(t, st.Loading)
}

func TestMutationRecordsAndReturnsError(t *testing.T) {
	env := newTestEnv(t)
	env.handle("DELETE /api/layouts/{id}", http.StatusNotFound, map[string]string{"detail": "Layout not found"})

	err := env.store.DeleteLayout(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, err.Error(), env.store.Snapshot().Error)
	assert.False(t, env.store.Snapshot().Loading)
}

func TestLoadingHighDuringCall(t *testing.T) {
	env := newTestEnv(t)
	var during bool
	env.mux.HandleFunc("GET /api/schedules", func(w http.ResponseWriter, r *http.Request) {
		during = env.store.Snapshot().Loading
		writeJSON(w, http.StatusOK, []sdk.Schedule{{ID: "s1", Name: "daily"}})
	})

	env.store.FetchSchedules(context.Background())
	assert.True(t, during)
	assert.False(t, env.store.Snapshot().Loading)
	assert.Len(t, env.store.Snapshot().Schedules, 1)
}

func TestSelectServerClearsBeforeOrganizationFetch(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.handle("GET /api/servers", http.StatusOK, []sdk.GrafanaServer{{ID: "old", IsDefault: true}})
	env.handle("GET /api/organizations/{org}/dashboards", http.StatusOK, []sdk.Dashboard{{UID: "d1"}})
	env.handle("GET /api/servers/old/organizations/{org}/dashboards", http.StatusOK, []sdk.Dashboard{{UID: "d1"}})
	env.handle("GET /api/servers/old/dashboards/{uid}/panels", http.StatusOK, []sdk.Panel{{ID: 1}, {ID: 2}})
	env.handle("POST /api/servers/new/select", http.StatusOK, map[string]string{"status": "success"})

	var during State
	env.mux.HandleFunc("GET /api/servers/new/organizations", func(w http.ResponseWriter, r *http.Request) {
		during = env.store.Snapshot()
		writeJSON(w, http.StatusOK, []sdk.Organization{{ID: 7, Name: "Main"}})
	})

	env.store.FetchServers(ctx)
	env.store.FetchDashboards(ctx, 1)
	env.store.FetchPanels(ctx, "d1")
	before := env.store.Snapshot()
	require.NotNil(t, before.SelectedOrganization)
	require.Equal(t, "d1", before.SelectedDashboard)
	require.Len(t, before.Panels, 2)

	require.NoError(t, env.store.SelectServer(ctx, "new"))

	assert.Equal(t, "new", during.SelectedServerID)
	assert.Nil(t, during.SelectedOrganization)
	assert.Empty(t, during.SelectedDashboard)
	assert.Empty(t, during.Panels)
	assert.Empty(t, during.Dashboards)

	after := env.store.Snapshot()
	assert.Equal(t, []sdk.Organization{{ID: 7, Name: "Main"}}, after.Organizations)
	assert.Empty(t, after.Error)
}

func TestFetchServersAutoSelectClearsScope(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.handle("GET /api/organizations", http.StatusOK, []sdk.Organization{{ID: 9, Name: "Unscoped"}})
	env.handle("GET /api/organizations/{org}/dashboards", http.StatusOK, []sdk.Dashboard{{UID: "d9"}})
	env.handle("GET /api/dashboards/{uid}/panels", http.StatusOK, []sdk.Panel{{ID: 1}})
	env.handle("GET /api/servers", http.StatusOK, []sdk.GrafanaServer{{ID: "s1"}, {ID: "s2", IsDefault: true}})

	env.store.FetchOrganizations(ctx, "")
	env.store.FetchDashboards(ctx, 9)
	env.store.FetchPanels(ctx, "d9")
	before := env.store.Snapshot()
	require.Len(t, before.Organizations, 1)
	require.Equal(t, "d9", before.SelectedDashboard)

	env.store.FetchServers(ctx)

	st := env.store.Snapshot()
	assert.Equal(t, "s2", st.SelectedServerID)
	assert.Empty(t, st.Organizations)
	assert.Nil(t, st.SelectedOrganization)
	assert.Empty(t, st.Dashboards)
	assert.Empty(t, st.SelectedDashboard)
	assert.Empty(t, st.Panels)
}

func TestFetchServersKeepsScopeOfExistingSelection(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.handle("GET /api/servers", http.StatusOK, []sdk.GrafanaServer{{ID: "s1", IsDefault: true}})
	env.handle("GET /api/servers/s1/organizations/{org}/dashboards", http.StatusOK, []sdk.Dashboard{{UID: "d1"}})

	env.store.FetchServers(ctx)
	env.store.FetchDashboards(ctx, 1)
	env.store.FetchServers(ctx)

	st := env.store.Snapshot()
	assert.Equal(t, "s1", st.SelectedServerID)
	assert.Len(t, st.Dashboards, 1)
	require.NotNil(t, st.SelectedOrganization)
	assert.Equal(t, int64(1), *st.SelectedOrganization)
}

func TestDeleteSelectedServerClearsScope(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	var mu sync.Mutex
	servers := []sdk.GrafanaServer{{ID: "a", IsDefault: true}, {ID: "b"}}
	env.mux.HandleFunc("GET /api/servers", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		writeJSON(w, http.StatusOK, servers)
	})
	env.mux.HandleFunc("DELETE /api/servers/a", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		servers = []sdk.GrafanaServer{{ID: "b"}}
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	})
	env.handle("GET /api/servers/a/organizations/{org}/dashboards", http.StatusOK, []sdk.Dashboard{{UID: "d1"}})
	env.handle("GET /api/servers/a/dashboards/{uid}/panels", http.StatusOK, []sdk.Panel{{ID: 1}})

	env.store.FetchServers(ctx)
	env.store.FetchDashboards(ctx, 1)
	env.store.FetchPanels(ctx, "d1")
	require.Len(t, env.store.Snapshot().Panels, 1)

	require.NoError(t, env.store.DeleteServer(ctx, "a"))

	st := env.store.Snapshot()
	assert.Equal(t, "b", st.SelectedServerID)
	assert.Len(t, st.Servers, 1)
	assert.Nil(t, st.SelectedOrganization)
	assert.Empty(t, st.Dashboards)
	assert.Empty(t, st.SelectedDashboard)
	assert.Empty(t, st.Panels)
}

func TestSelectServerFailureKeepsSelection(t *testing.T) {
	env := newTestEnv(t)
	env.handle("GET /api/servers", http.StatusOK, []sdk.GrafanaServer{{ID: "old"}})
	env.handle("POST /api/servers/new/select", http.StatusNotFound, map[string]string{"detail": "Server not found"})

	env.store.FetchServers(context.Background())
	require.Error(t, env.store.SelectServer(context.Background(), "new"))
	assert.Equal(t, "old", env.store.SelectedServerID())
}

func TestFetchDashboardsChangingOrganizationDropsPanels(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.handle("GET /api/organizations/{org}/dashboards", http.StatusOK, []sdk.Dashboard{{UID: "d1"}})
	env.handle("GET /api/dashboards/{uid}/panels", http.StatusOK, []sdk.Panel{{ID: 1}})

	env.store.FetchDashboards(ctx, 1)
	env.store.FetchPanels(ctx, "d1")
	env.store.FetchDashboards(ctx, 1)
	assert.Len(t, env.store.Snapshot().Panels, 1)

	env.store.FetchDashboards(ctx, 2)
	st := env.store.Snapshot()
	assert.Empty(t, st.Panels)
	assert.Empty(t, st.SelectedDashboard)
	assert.Equal(t, int64(2), *st.SelectedOrganization)
}

func TestSaveLayoutFillsServer(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.handle("GET /api/servers", http.StatusOK, []sdk.GrafanaServer{{ID: "s1"}})

	var created sdk.Layout
	env.mux.HandleFunc("POST /api/layouts", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&created)
		writeJSON(w, http.StatusOK, map[string]string{"id": "l1"})
	})
	env.handle("PUT /api/layouts/l1", http.StatusOK, map[string]string{"status": "success"})

	env.store.FetchServers(ctx)
	resp, err := env.store.SaveLayout(ctx, sdk.Layout{Name: "weekly"})
	require.NoError(t, err)
	assert.Equal(t, "l1", resp.ID)
	assert.Equal(t, "s1", created.ServerID)

	_, err = env.store.SaveLayout(ctx, sdk.Layout{ID: "l1", Name: "weekly", ServerID: "other"})
	require.NoError(t, err)
	assert.Contains(t, env.requests, "PUT /api/layouts/l1")
}

func TestUpdateSettingsPublishes(t *testing.T) {
	env := newTestEnv(t)
	env.handle("POST /api/settings", http.StatusOK, map[string]string{"status": "success"})

	var got []any
	env.bus.Subscribe(events.TopicSettingsUpdated, func(e events.Event) { got = append(got, e.Payload) })

	settings := sdk.Settings{"grafana": map[string]any{"url": "http://grafana:3000"}}
	_, err := env.store.UpdateSettings(context.Background(), settings)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, settings, got[0])
}

func TestTestConnectionKinds(t *testing.T) {
	env := newTestEnv(t)
	env.handle("POST /api/settings/test/grafana", http.StatusOK, map[string]any{"success": true})
	env.handle("POST /api/settings/test/email", http.StatusOK, map[string]any{"success": true})
	env.handle("POST /api/settings/test/ldap", http.StatusOK, map[string]any{"success": true})
	ctx := context.Background()

	for _, kind := range []ConnectionKind{ConnectionGrafana, ConnectionEmail, ConnectionLdap} {
		result, err := env.store.TestConnection(ctx, kind, sdk.Settings{})
		require.NoError(t, err)
		assert.Equal(t, true, result["success"])
	}
}

func TestGeneratePreviewFromDraft(t *testing.T) {
	env := newTestEnv(t)
	var req sdk.ReportRequest
	env.mux.HandleFunc("POST /api/preview", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&req)
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF"))
	})
	ctx := context.Background()

	_, err := env.store.GeneratePreview(ctx)
	assert.ErrorIs(t, err, ErrEmptyReport)

	env.store.AddPanelToLayout(sdk.PlacedPanel{Panel: sdk.Panel{ID: 4, Title: "CPU"}, W: 1, H: 1})
	env.store.SetSelectedTemplate("t1")
	env.store.SetTimeRange(sdk.TimeRange{From: "now-24h", To: "now"})

	doc, err := env.store.GeneratePreview(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF"), doc.Data)
	assert.Equal(t, "t1", req.TemplateID)
	assert.Equal(t, "now-24h", req.TimeRange.From)
	require.Len(t, req.Panels, 1)
	assert.Equal(t, "CPU", req.Panels[0].Title)
	assert.NotEmpty(t, req.ClientJobID)
}
