package sdk

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL + "/api")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestResolveBaseURL(t *testing.T) {
	assert.Equal(t, DefaultBaseURL, ResolveBaseURL(""))
	assert.Equal(t, DefaultBaseURL, ResolveBaseURL("   "))
	assert.Equal(t, "https://reports.example.com/api", ResolveBaseURL("https://reports.example.com/api/"))
}

func TestLoginIsFormEncoded(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/auth/token", r.URL.Path)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "alice", r.PostForm.Get("username"))
		assert.Equal(t, "s3cret", r.PostForm.Get("password"))
		writeJSON(w, http.StatusOK, map[string]string{"access_token": "tok", "token_type": "bearer"})
	})

	token, err := client.Login(context.Background(), Credentials{Username: "alice", Password: "s3cret"})
	require.NoError(t, err)
	assert.Equal(t, "tok", token.AccessToken)
}

func TestAuthTokenHeader(t *testing.T) {
	var seen []string
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		writeJSON(w, http.StatusOK, map[string]any{"username": "alice", "is_admin": true})
	})
	ctx := context.Background()

	_, err := client.GetUserInfo(ctx)
	require.NoError(t, err)

	client.SetAuthToken("abc")
	assert.Equal(t, "abc", client.AuthToken())
	profile, err := client.GetUserInfo(ctx)
	require.NoError(t, err)
	assert.True(t, profile.IsAdmin)

	client.RemoveAuthToken()
	assert.Empty(t, client.AuthToken())
	_, err = client.GetUserInfo(ctx)
	require.NoError(t, err)

	assert.Equal(t, []string{"", "Bearer abc", ""}, seen)
}

func TestAPIErrorCarriesDetail(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "bad credentials"})
	})

	_, err := client.Login(context.Background(), Credentials{Username: "a", Password: "b"})
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "bad credentials", apiErr.Detail)

	detail, ok := DetailMessage(err)
	assert.True(t, ok)
	assert.Equal(t, "bad credentials", detail)
	assert.True(t, IsStatus(err, http.StatusUnauthorized))
}

func TestAPIErrorWithoutDetail(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, "boom")
	})

	_, err := client.ListServers(context.Background())
	require.Error(t, err)
	_, ok := DetailMessage(err)
	assert.False(t, ok)
	assert.Equal(t, "API error (500): boom", err.Error())

	// A structured detail that is not a string is not a message.
	client = newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": []any{map[string]string{"msg": "x"}}})
	})
	_, err = client.ListServers(context.Background())
	_, ok = DetailMessage(err)
	assert.False(t, ok)
}

func TestTransportErrorIsUnchanged(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	client := NewClient("http://" + addr + "/api")
	_, err = client.GetUserInfo(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}

func TestListUsersSortsKeyedObject(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/users", r.URL.Path)
		writeJSON(w, http.StatusOK, map[string]any{
			"zoe":   map[string]any{"is_admin": false, "auth_type": "local"},
			"admin": map[string]any{"is_admin": true, "display_name": "Admin"},
		})
	})

	users, err := client.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "admin", users[0].Username)
	assert.True(t, users[0].IsAdmin)
	assert.Equal(t, "zoe", users[1].Username)
	assert.Equal(t, "local", users[1].AuthType)
}

func TestSetupUserAlwaysAdmin(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		var req SetupRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.True(t, req.IsAdmin)
		assert.Equal(t, "root", req.Username)
		writeJSON(w, http.StatusOK, Token{AccessToken: "first"})
	})

	token, err := client.SetupUser(context.Background(), Credentials{Username: "root", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "first", token.AccessToken)
}

func TestServerScopedBrowsingPaths(t *testing.T) {
	var paths []string
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		writeJSON(w, http.StatusOK, []any{})
	})
	ctx := context.Background()

	_, _ = client.GetOrganizations(ctx, "")
	_, _ = client.GetOrganizations(ctx, "s1")
	_, _ = client.GetDashboards(ctx, 3, "")
	_, _ = client.GetDashboards(ctx, 3, "s1")
	_, _ = client.GetPanels(ctx, "abc", "")
	_, _ = client.GetPanels(ctx, "abc", "s1")

	assert.Equal(t, []string{
		"/api/organizations",
		"/api/servers/s1/organizations",
		"/api/organizations/3/dashboards",
		"/api/servers/s1/organizations/3/dashboards",
		"/api/dashboards/abc/panels",
		"/api/servers/s1/dashboards/abc/panels",
	}, paths)
}

func TestUpdateUsesEntityID(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/layouts/l-1", r.URL.Path)
		writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
	})

	resp, err := client.UpdateLayout(context.Background(), Layout{ID: "l-1", Name: "weekly"})
	require.NoError(t, err)
	assert.Equal(t, "success", resp.Status)
}

func TestGeneratePreviewReturnsBinary(t *testing.T) {
	pdf := []byte("%PDF-1.7 fake")
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/preview", r.URL.Path)
		var req ReportRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 2, req.Rows)
		assert.Equal(t, "now-6h", req.TimeRange.From)
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write(pdf)
	})

	doc, err := client.GeneratePreview(context.Background(), ReportRequest{
		Rows: 2, Columns: 2, TimeRange: TimeRange{From: "now-6h", To: "now"},
	})
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", doc.ContentType)
	assert.Equal(t, pdf, doc.Data)
}

func TestDeleteWithEmptyBody(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Empty(t, r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, client.DeleteSchedule(context.Background(), "s-1"))
}

func TestSettingsInitializedComplete(t *testing.T) {
	assert.True(t, SettingsInitialized{Initialized: true}.Complete())
	assert.False(t, SettingsInitialized{Initialized: false}.Complete())
	assert.False(t, SettingsInitialized{Initialized: true, Reason: "default_settings"}.Complete())
}
