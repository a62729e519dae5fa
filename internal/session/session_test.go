package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grafanapdf/pkg/sdk"
)

type memTokens struct {
	token string
}

func (m *memTokens) LoadToken() string { return m.token }

func (m *memTokens) SaveToken(token string) error {
	m.token = token
	return nil
}

func (m *memTokens) ClearToken() error {
	m.token = ""
	return nil
}

type recordingNavigator struct {
	mu     sync.Mutex
	routes []string
}

func (n *recordingNavigator) Navigate(_ context.Context, route string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.routes = append(n.routes, route)
	return nil
}

// fakeBackend answers the auth endpoints. A request to /auth/me succeeds only with
// the bearer token in validToken.
type fakeBackend struct {
	validToken  string
	loginStatus int
	loginBody   any
	meStatus    int
}

func (b *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	reply := func(status int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if v != nil {
			_ = json.NewEncoder(w).Encode(v)
		}
	}

	switch r.URL.Path {
	case "/api/auth/token", "/api/auth/setup":
		if b.loginStatus != 0 && b.loginStatus != http.StatusOK {
			reply(b.loginStatus, b.loginBody)
			return
		}
		reply(http.StatusOK, map[string]string{"access_token": b.validToken})
	case "/api/auth/me":
		if b.meStatus != 0 {
			reply(b.meStatus, nil)
			return
		}
		if r.Header.Get("Authorization") != "Bearer "+b.validToken {
			reply(http.StatusUnauthorized, map[string]string{"detail": "Could not validate credentials"})
			return
		}
		reply(http.StatusOK, map[string]any{"username": "alice", "is_admin": true})
	case "/api/auth/change-password":
		reply(http.StatusBadRequest, map[string]string{"detail": "Current password is incorrect"})
	case "/api/auth/users":
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("forbidden"))
	default:
		http.NotFound(w, r)
	}
}

func newTestSession(t *testing.T, backend *fakeBackend, tokens *memTokens) (*Session, *sdk.Client, *recordingNavigator) {
	t.Helper()
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	client := sdk.NewClient(srv.URL + "/api")
	s := New(client, tokens)
	nav := &recordingNavigator{}
	s.SetNavigator(nav)
	return s, client, nav
}

func TestNewRehydratesToken(t *testing.T) {
	s, client, _ := newTestSession(t, &fakeBackend{validToken: "t1"}, &memTokens{token: "t1"})

	assert.Equal(t, "t1", client.AuthToken())
	st := s.Snapshot()
	assert.Equal(t, "t1", st.Token)
	assert.False(t, st.IsAuthenticated)
}

func TestLoginSuccess(t *testing.T) {
	tokens := &memTokens{}
	s, client, _ := newTestSession(t, &fakeBackend{validToken: "t1"}, tokens)

	require.NoError(t, s.Login(context.Background(), sdk.Credentials{Username: "alice", Password: "pw"}))

	st := s.Snapshot()
	assert.True(t, st.IsAuthenticated)
	assert.Equal(t, "t1", st.Token)
	assert.Equal(t, "t1", tokens.token)
	assert.Equal(t, "t1", client.AuthToken())
	require.NotNil(t, st.User)
	assert.Equal(t, "alice", st.User.Username)
	assert.True(t, s.IsAdmin())
	assert.False(t, st.Loading)
	assert.Empty(t, st.Error)
}

func TestLoginFailureUsesDetail(t *testing.T) {
	backend := &fakeBackend{loginStatus: http.StatusUnauthorized, loginBody: map[string]string{"detail": "bad credentials"}}
	s, _, _ := newTestSession(t, backend, &memTokens{})

	err := s.Login(context.Background(), sdk.Credentials{Username: "alice", Password: "nope"})
	require.Error(t, err)
	assert.Equal(t, "bad credentials", s.Snapshot().Error)
	assert.False(t, s.IsAuthenticated())
}

func TestLoginFailureWithoutBody(t *testing.T) {
	backend := &fakeBackend{loginStatus: http.StatusInternalServerError}
	s, _, _ := newTestSession(t, backend, &memTokens{})

	err := s.Login(context.Background(), sdk.Credentials{Username: "alice", Password: "nope"})
	require.Error(t, err)
	assert.Equal(t, "Invalid credentials", s.Snapshot().Error)
}

func TestLoginKeepsTokenWhenProfileFails(t *testing.T) {
	tokens := &memTokens{}
	s, _, _ := newTestSession(t, &fakeBackend{validToken: "t1", meStatus: http.StatusBadGateway}, tokens)

	require.NoError(t, s.Login(context.Background(), sdk.Credentials{Username: "alice", Password: "pw"}))

	st := s.Snapshot()
	assert.Equal(t, "t1", st.Token)
	assert.Equal(t, "t1", tokens.token)
	assert.True(t, st.IsAuthenticated)
	assert.Nil(t, st.User)
	assert.Equal(t, "Failed to get user info", st.Error)
}

func TestSetupFailureFallback(t *testing.T) {
	backend := &fakeBackend{loginStatus: http.StatusInternalServerError}
	s, _, _ := newTestSession(t, backend, &memTokens{})

	require.Error(t, s.SetupUser(context.Background(), sdk.Credentials{Username: "root", Password: "pw"}))
	assert.Equal(t, "Setup failed", s.Snapshot().Error)
}

func TestCheckAuthWithoutToken(t *testing.T) {
	s, _, nav := newTestSession(t, &fakeBackend{validToken: "t1"}, &memTokens{})

	assert.False(t, s.CheckAuth(context.Background()))
	assert.Equal(t, State{}, s.Snapshot())
	assert.Empty(t, nav.routes)
}

func TestCheckAuthValidToken(t *testing.T) {
	tokens := &memTokens{token: "t1"}
	s, _, nav := newTestSession(t, &fakeBackend{validToken: "t1"}, tokens)

	assert.True(t, s.CheckAuth(context.Background()))
	st := s.Snapshot()
	assert.True(t, st.IsAuthenticated)
	assert.Equal(t, "t1", st.Token)
	assert.Equal(t, "t1", tokens.token)
	assert.Empty(t, nav.routes)
}

func TestCheckAuthRejectedTokenLogsOut(t *testing.T) {
	tokens := &memTokens{token: "stale"}
	s, client, nav := newTestSession(t, &fakeBackend{validToken: "t1"}, tokens)

	assert.False(t, s.CheckAuth(context.Background()))
	assert.Equal(t, State{}, s.Snapshot())
	assert.Empty(t, tokens.token)
	assert.Empty(t, client.AuthToken())
	assert.Equal(t, []string{LoginRoute}, nav.routes)
}

func TestRestore(t *testing.T) {
	s, _, _ := newTestSession(t, &fakeBackend{validToken: "t1"}, &memTokens{})
	assert.False(t, s.Restore(context.Background()))

	s, _, _ = newTestSession(t, &fakeBackend{validToken: "t1"}, &memTokens{token: "t1"})
	assert.True(t, s.Restore(context.Background()))
}

func TestLogoutIsIdempotent(t *testing.T) {
	tokens := &memTokens{}
	s, client, nav := newTestSession(t, &fakeBackend{validToken: "t1"}, tokens)
	ctx := context.Background()
	require.NoError(t, s.Login(ctx, sdk.Credentials{Username: "alice", Password: "pw"}))

	s.Logout(ctx)
	once := s.Snapshot()
	s.Logout(ctx)

	assert.Equal(t, once, s.Snapshot())
	assert.Equal(t, State{}, once)
	assert.Empty(t, tokens.token)
	assert.Empty(t, client.AuthToken())
	assert.Equal(t, []string{LoginRoute, LoginRoute}, nav.routes)
}

func TestChangePasswordDetail(t *testing.T) {
	s, _, _ := newTestSession(t, &fakeBackend{validToken: "t1"}, &memTokens{})

	require.Error(t, s.ChangePassword(context.Background(), "old", "new"))
	assert.Equal(t, "Current password is incorrect", s.Snapshot().Error)
}

func TestUserManagementRecordsRawError(t *testing.T) {
	s, _, _ := newTestSession(t, &fakeBackend{validToken: "t1"}, &memTokens{})

	_, err := s.FetchUsers(context.Background())
	require.Error(t, err)
	assert.Equal(t, err.Error(), s.Snapshot().Error)
	assert.Equal(t, "API error (403): forbidden", s.Snapshot().Error)
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("unknown-to-the-client"))
	require.NoError(t, err)

	s, _, _ := newTestSession(t, &fakeBackend{}, &memTokens{token: signed})
	got, ok := s.TokenExpiry()
	require.True(t, ok)
	assert.True(t, exp.Equal(got))

	s, _, _ = newTestSession(t, &fakeBackend{}, &memTokens{token: "not-a-jwt"})
	_, ok = s.TokenExpiry()
	assert.False(t, ok)
}
