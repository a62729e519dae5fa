package sdk

import "github.com/goccy/go-json"

type Credentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type SetupRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	IsAdmin  bool   `json:"is_admin"`
}

type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type,omitempty"`
}

type SetupStatus struct {
	NeedsSetup bool   `json:"needs_setup"`
	Error      string `json:"error,omitempty"`
}

// UserProfile is the authenticated user as reported by /auth/me.
type UserProfile struct {
	Username    string `json:"username"`
	IsAdmin     bool   `json:"is_admin"`
	DisplayName string `json:"display_name,omitempty"`
	AuthType    string `json:"auth_type,omitempty"`
	Created     string `json:"created,omitempty"`
}

// User is an entry of the admin user list.
type User struct {
	Username    string `json:"username"`
	IsAdmin     bool   `json:"is_admin"`
	DisplayName string `json:"display_name,omitempty"`
	AuthType    string `json:"auth_type,omitempty"`
	Created     string `json:"created,omitempty"`
}

type UserCreate struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	IsAdmin     bool   `json:"is_admin"`
	DisplayName string `json:"display_name,omitempty"`
	AuthType    string `json:"auth_type,omitempty"`
}

type UserUpdate struct {
	Password    *string `json:"password,omitempty"`
	IsAdmin     *bool   `json:"is_admin,omitempty"`
	DisplayName *string `json:"display_name,omitempty"`
	AuthType    *string `json:"auth_type,omitempty"`
}

type PasswordChange struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// GrafanaServer is a Grafana instance configured on the backend.
type GrafanaServer struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name"`
	URL       string `json:"url"`
	Username  string `json:"username,omitempty"`
	Password  string `json:"password,omitempty"`
	APIKey    string `json:"api_key,omitempty"`
	IsDefault bool   `json:"is_default"`
}

type Organization struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Dashboard struct {
	ID          int64    `json:"id,omitempty"`
	UID         string   `json:"uid"`
	Title       string   `json:"title"`
	URL         string   `json:"url,omitempty"`
	FolderTitle string   `json:"folderTitle,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

type Panel struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	Type         string `json:"type,omitempty"`
	DashboardUID string `json:"dashboard_uid,omitempty"`
}

// PlacedPanel is a panel positioned on the report grid.
type PlacedPanel struct {
	Panel
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

type Template struct {
	ID       string          `json:"id,omitempty"`
	Name     string          `json:"name"`
	Header   json.RawMessage `json:"header,omitempty"`
	Footer   json.RawMessage `json:"footer,omitempty"`
	Page     json.RawMessage `json:"page,omitempty"`
	Created  string          `json:"created,omitempty"`
	Modified string          `json:"modified,omitempty"`
}

type Layout struct {
	ID          string        `json:"id,omitempty"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Rows        int           `json:"rows,omitempty"`
	Columns     int           `json:"columns,omitempty"`
	Panels      []PlacedPanel `json:"panels,omitempty"`
	ServerID    string        `json:"server_id,omitempty"`
	Created     string        `json:"created,omitempty"`
	Modified    string        `json:"modified,omitempty"`
	CreatedBy   string        `json:"created_by,omitempty"`
	ModifiedBy  string        `json:"modified_by,omitempty"`
}

type Schedule struct {
	ID         string          `json:"id,omitempty"`
	Name       string          `json:"name"`
	LayoutID   string          `json:"layout_id,omitempty"`
	TemplateID string          `json:"template_id,omitempty"`
	Status     string          `json:"status,omitempty"`
	Schedule   json.RawMessage `json:"schedule,omitempty"`
	Recipients []string        `json:"recipients,omitempty"`
	ServerID   string          `json:"server_id,omitempty"`
	Created    string          `json:"created,omitempty"`
	Modified   string          `json:"modified,omitempty"`
	CreatedBy  string          `json:"created_by,omitempty"`
	ModifiedBy string          `json:"modified_by,omitempty"`
}

// ScheduleRun is one entry of a schedule's execution history.
type ScheduleRun struct {
	Timestamp string `json:"timestamp"`
	Status    string `json:"status"`
	Message   string `json:"message,omitempty"`
	FileName  string `json:"file_name,omitempty"`
}

// Settings are server-defined and handled as an opaque document.
type Settings map[string]any

type SettingsInitialized struct {
	Initialized bool   `json:"initialized"`
	Reason      string `json:"reason,omitempty"`
}

// Complete reports whether the backend has real, non-placeholder settings.
func (s SettingsInitialized) Complete() bool {
	return s.Initialized && s.Reason != "default_settings"
}

type TimeRange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type ReportRequest struct {
	Rows        int           `json:"rows"`
	Columns     int           `json:"columns"`
	Panels      []PlacedPanel `json:"panels"`
	TimeRange   TimeRange     `json:"time_range"`
	TemplateID  string        `json:"template_id,omitempty"`
	ServerID    string        `json:"server_id,omitempty"`
	ClientJobID string        `json:"client_job_id,omitempty"`
}

// Document is a binary response such as a rendered PDF.
type Document struct {
	ContentType string
	Data        []byte
}

// StatusResponse is the generic acknowledgement most mutations return.
type StatusResponse struct {
	ID      string `json:"id,omitempty"`
	Status  string `json:"status,omitempty"`
	Message string `json:"message,omitempty"`
	Success bool   `json:"success,omitempty"`
	Warning string `json:"warning,omitempty"`
}

// ConnectionResult is returned by the connection test endpoints.
type ConnectionResult map[string]any

type Health struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}
