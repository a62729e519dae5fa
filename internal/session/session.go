// Package session owns the authentication state of the client: the bearer token, the
// current user and the authenticated flag. It is the only component that installs or
// removes the token on the gateway.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"grafanapdf/internal/logging"
	"grafanapdf/pkg/sdk"
)

// LoginRoute is the route Logout navigates to.
const LoginRoute = "Login"

const (
	msgInvalidCredentials = "Invalid credentials"
	msgSetupFailed        = "Setup failed"
	msgUserInfoFailed     = "Failed to get user info"
	msgPasswordFailed     = "Failed to change password"
)

// Gateway is the subset of *sdk.Client the session talks to.
type Gateway interface {
	Login(ctx context.Context, creds sdk.Credentials) (*sdk.Token, error)
	SetupUser(ctx context.Context, creds sdk.Credentials) (*sdk.Token, error)
	GetUserInfo(ctx context.Context) (*sdk.UserProfile, error)
	ChangePassword(ctx context.Context, currentPassword, newPassword string) error
	ListUsers(ctx context.Context) ([]sdk.User, error)
	CreateUser(ctx context.Context, req sdk.UserCreate) (*sdk.User, error)
	UpdateUser(ctx context.Context, username string, req sdk.UserUpdate) (*sdk.User, error)
	DeleteUser(ctx context.Context, username string) error
	SetAuthToken(token string)
	RemoveAuthToken()
}

// TokenStore is the durable, write-through storage of the token.
type TokenStore interface {
	LoadToken() string
	SaveToken(token string) error
	ClearToken() error
}

type Navigator interface {
	Navigate(ctx context.Context, route string) error
}

// State is a snapshot of the session.
type State struct {
	Token           string
	User            *sdk.UserProfile
	IsAuthenticated bool
	Loading         bool
	Error           string
}

type Session struct {
	gw     Gateway
	tokens TokenStore

	mu    sync.Mutex
	state State
	nav   Navigator
}

// New rehydrates the token from the durable store and installs it on the gateway.
// The session is not authenticated until CheckAuth or Restore has validated it.
func New(gw Gateway, tokens TokenStore) *Session {
	s := &Session{gw: gw, tokens: tokens}
	if token := tokens.LoadToken(); token != "" {
		s.state.Token = token
		gw.SetAuthToken(token)
	}
	return s
}

func (s *Session) SetNavigator(nav Navigator) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nav = nav
}

func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state
	if st.User != nil {
		u := *st.User
		st.User = &u
	}
	return st
}

func (s *Session) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.IsAuthenticated
}

func (s *Session) IsAdmin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.User != nil && s.state.User.IsAdmin
}

func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Token
}

func (s *Session) begin(clearError bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Loading = true
	if clearError {
		s.state.Error = ""
	}
}

func (s *Session) end() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Loading = false
}

func (s *Session) setError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Error = msg
}

// detailOr prefers the detail message reported by the API.
func detailOr(err error, fallback string) string {
	if detail, ok := sdk.DetailMessage(err); ok {
		return detail
	}
	return fallback
}

// Login exchanges credentials for a token. A failing profile fetch afterwards is
// recorded in the state but does not fail the login.
func (s *Session) Login(ctx context.Context, creds sdk.Credentials) error {
	s.begin(true)
	defer s.end()

	token, err := s.gw.Login(ctx, creds)
	if err != nil {
		s.setError(detailOr(err, msgInvalidCredentials))
		logging.Warn().Err(err).Str("username", creds.Username).Msg("login failed")
		return err
	}

	s.establish(token.AccessToken)
	if _, err := s.GetUserInfo(ctx); err != nil {
		logging.Warn().Err(err).Msg("login succeeded but the profile could not be loaded")
	}
	return nil
}

// SetupUser creates the first administrator and signs in as that user.
func (s *Session) SetupUser(ctx context.Context, creds sdk.Credentials) error {
	s.begin(true)
	defer s.end()

	token, err := s.gw.SetupUser(ctx, creds)
	if err != nil {
		s.setError(detailOr(err, msgSetupFailed))
		logging.Warn().Err(err).Str("username", creds.Username).Msg("setup failed")
		return err
	}

	s.establish(token.AccessToken)
	if _, err := s.GetUserInfo(ctx); err != nil {
		logging.Warn().Err(err).Msg("setup succeeded but the profile could not be loaded")
	}
	return nil
}

// establish persists the token, installs it on the gateway and marks the session authenticated.
func (s *Session) establish(token string) {
	if err := s.tokens.SaveToken(token); err != nil {
		logging.Error().Err(err).Msg("failed to persist token")
	}
	s.gw.SetAuthToken(token)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Token = token
	s.state.IsAuthenticated = true
}

// GetUserInfo replaces the current user with the profile reported by the backend.
// Callers decide whether a failure means logging out.
func (s *Session) GetUserInfo(ctx context.Context) (*sdk.UserProfile, error) {
	s.begin(false)
	defer s.end()

	profile, err := s.gw.GetUserInfo(ctx)
	if err != nil {
		s.setError(detailOr(err, msgUserInfoFailed))
		return nil, err
	}

	u := *profile
	s.mu.Lock()
	s.state.User = &u
	s.mu.Unlock()
	return profile, nil
}

// CheckAuth validates the token against the backend. Without a token it returns false
// and clears the session; with a rejected token it logs out.
func (s *Session) CheckAuth(ctx context.Context) bool {
	token := s.Token()
	if token == "" {
		token = s.tokens.LoadToken()
	}
	if token == "" {
		s.reset()
		return false
	}

	s.mu.Lock()
	if s.state.Token == "" {
		s.state.Token = token
		s.gw.SetAuthToken(token)
	}
	s.mu.Unlock()

	if _, err := s.GetUserInfo(ctx); err != nil {
		logging.Info().Err(err).Msg("stored session is no longer valid")
		s.Logout(ctx)
		return false
	}

	s.mu.Lock()
	s.state.IsAuthenticated = true
	s.mu.Unlock()
	return true
}

// Restore validates a persisted token at startup and logs out when it is rejected.
func (s *Session) Restore(ctx context.Context) bool {
	if s.Token() == "" && s.tokens.LoadToken() == "" {
		return false
	}
	return s.CheckAuth(ctx)
}

// Logout clears the token everywhere, resets the session and navigates to the login
// route. It is safe to call in any state and more than once.
func (s *Session) Logout(ctx context.Context) {
	if err := s.tokens.ClearToken(); err != nil {
		logging.Error().Err(err).Msg("failed to clear persisted token")
	}
	s.gw.RemoveAuthToken()
	s.reset()

	s.mu.Lock()
	nav := s.nav
	s.mu.Unlock()
	if nav == nil {
		return
	}
	if err := nav.Navigate(ctx, LoginRoute); err != nil {
		logging.Warn().Err(err).Msg("navigation to login after logout failed")
	}
}

func (s *Session) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = State{}
}

func (s *Session) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	s.begin(true)
	defer s.end()

	if err := s.gw.ChangePassword(ctx, currentPassword, newPassword); err != nil {
		s.setError(detailOr(err, msgPasswordFailed))
		return err
	}
	return nil
}

// TokenExpiry reads the exp claim of the current token without verifying it.
// It is informational only and never decides whether the session is valid.
func (s *Session) TokenExpiry() (time.Time, bool) {
	token := s.Token()
	if token == "" {
		return time.Time{}, false
	}

	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
