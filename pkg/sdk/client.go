package sdk

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// DefaultBaseURL is used when no runtime override is configured. It can be replaced at
// build time with -ldflags "-X grafanapdf/pkg/sdk.DefaultBaseURL=...".
var DefaultBaseURL = "http://localhost:8080/api"

// DefaultTimeout covers large PDF preview and export generation.
const DefaultTimeout = 120 * time.Second

const (
	contentTypeJSON = "application/json"
	contentTypeForm = "application/x-www-form-urlencoded"
)

// ResolveBaseURL returns override when set, otherwise DefaultBaseURL.
func ResolveBaseURL(override string) string {
	if s := strings.TrimSpace(override); s != "" {
		return strings.TrimRight(s, "/")
	}
	return DefaultBaseURL
}

// Client is the single outbound gateway to the report backend.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu      sync.RWMutex
	headers http.Header
}

type Option func(*Client)

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client. Its timeout is kept as is.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.headers.Set("User-Agent", ua)
	}
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		headers:    http.Header{},
	}
	c.headers.Set("Accept", contentTypeJSON)
	c.headers.Set("Content-Type", contentTypeJSON)

	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// SetAuthToken installs the bearer token sent with every following request.
func (c *Client) SetAuthToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.headers.Set("Authorization", "Bearer "+token)
}

func (c *Client) RemoveAuthToken() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.headers.Del("Authorization")
}

// AuthToken returns the bearer token currently installed, or "".
func (c *Client) AuthToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return strings.TrimPrefix(c.headers.Get("Authorization"), "Bearer ")
}

// APIError is returned for every non-2xx response.
type APIError struct {
	StatusCode int
	Body       []byte
	// Detail is the "detail" message of a JSON error body, if any.
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("API error (%d): %s", e.StatusCode, e.Detail)
	}
	msg := strings.TrimSpace(string(e.Body))
	if msg != "" {
		return fmt.Sprintf("API error (%d): %s", e.StatusCode, msg)
	}
	return fmt.Sprintf("API error (%d)", e.StatusCode)
}

// DetailMessage returns the API-provided detail message carried by err.
func DetailMessage(err error) (string, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail, true
	}
	return "", false
}

// IsStatus reports whether err is an APIError with the given status code.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}

func newAPIError(resp *http.Response) *APIError {
	body, _ := io.ReadAll(resp.Body)
	apiErr := &APIError{StatusCode: resp.StatusCode, Body: body}

	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && len(payload.Detail) > 0 {
		var detail string
		if err := json.Unmarshal(payload.Detail, &detail); err == nil {
			apiErr.Detail = detail
		}
	}
	return apiErr
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}

	c.mu.RLock()
	for k, v := range c.headers {
		req.Header[k] = append([]string(nil), v...)
	}
	c.mu.RUnlock()

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if body == nil {
		req.Header.Del("Content-Type")
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	return req, nil
}

// do sends req and returns the response when the status is 2xx.
// Transport errors are returned unchanged.
func (c *Client) do(req *http.Request) (*http.Response, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, newAPIError(resp)
	}
	return resp, nil
}

func (c *Client) send(ctx context.Context, method, path string, body any, target any) error {
	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return err
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := c.newRequest(ctx, method, path, bodyReader, contentTypeJSON)
	if err != nil {
		return err
	}

	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return decodeInto(resp, target)
}

func decodeInto(resp *http.Response, target any) error {
	if target == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, target any) error {
	return c.send(ctx, http.MethodGet, path, nil, target)
}

func (c *Client) post(ctx context.Context, path string, body any, target any) error {
	return c.send(ctx, http.MethodPost, path, body, target)
}

func (c *Client) put(ctx context.Context, path string, body any, target any) error {
	return c.send(ctx, http.MethodPut, path, body, target)
}

func (c *Client) delete(ctx context.Context, path string, target any) error {
	return c.send(ctx, http.MethodDelete, path, nil, target)
}

func (c *Client) postForm(ctx context.Context, path string, form url.Values, target any) error {
	req, err := c.newRequest(ctx, http.MethodPost, path, strings.NewReader(form.Encode()), contentTypeForm)
	if err != nil {
		return err
	}

	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return decodeInto(resp, target)
}

// fetchBinary performs a request whose successful response is a document rather than JSON.
func (c *Client) fetchBinary(ctx context.Context, method, path string, body any) (*Document, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := c.newRequest(ctx, method, path, bodyReader, contentTypeJSON)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/pdf, application/octet-stream, */*")

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return &Document{ContentType: resp.Header.Get("Content-Type"), Data: data}, nil
}

func escape(segment string) string {
	return url.PathEscape(segment)
}
