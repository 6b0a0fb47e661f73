package inventory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-inventory-dashboard/components/dashboard"
	"github.com/goliatone/go-inventory-dashboard/components/session"
)

// Backend endpoints.
const (
	PathSession       = "/api/auth/v1/session"
	PathUserMe        = "/api/user/me/"
	PathUserRoles     = "/api/user/roles/"
	PathPluginWidgets = "/api/plugins/ui/features/dashboard/"
)

// CurrentUserTimeout bounds the identity request.
const CurrentUserTimeout = 2 * time.Second

// Config configures the inventory backend client.
type Config struct {
	BaseURL    string
	Token      string
	CSRFToken  string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// Client talks to the inventory backend. It implements session.Transport,
// session.TransportAuth and dashboard.RemoteWidgetSource.
type Client struct {
	baseURL string
	token   string
	csrf    string
	client  *http.Client

	mu      sync.RWMutex
	authed  bool
	headers http.Header
}

var (
	_ session.Transport            = (*Client)(nil)
	_ session.TransportAuth        = (*Client)(nil)
	_ dashboard.RemoteWidgetSource = (*Client)(nil)
)

// NewClient builds a backend client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("inventory: base url is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		csrf:    cfg.CSRFToken,
		client:  httpClient,
		headers: http.Header{},
	}, nil
}

// ConfigureTransportAuth toggles the session headers sent with every request.
// A configured token is the client's credential and is always sent.
func (c *Client) ConfigureTransportAuth(authenticated bool) {
	headers := http.Header{}
	if authenticated && c.csrf != "" {
		headers.Set("X-CSRFToken", c.csrf)
	}
	c.mu.Lock()
	c.authed = authenticated
	c.headers = headers
	c.mu.Unlock()
}

// Authenticated reports the last value passed to ConfigureTransportAuth.
func (c *Client) Authenticated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.authed
}

// SessionStatus reports whether the backend sees an authenticated session.
func (c *Client) SessionStatus(ctx context.Context) (bool, error) {
	var resp sessionResponse
	if err := c.get(ctx, PathSession, &resp); err != nil {
		return false, err
	}
	return resp.Meta.IsAuthenticated, nil
}

// CurrentUser loads the identity of the session user.
func (c *Client) CurrentUser(ctx context.Context) (*session.User, error) {
	ctx, cancel := context.WithTimeout(ctx, CurrentUserTimeout)
	defer cancel()
	var resp userResponse
	if err := c.get(ctx, PathUserMe, &resp); err != nil {
		return nil, err
	}
	return resp.toUser(), nil
}

// UserRoles loads the role and model permissions of the session user.
func (c *Client) UserRoles(ctx context.Context) (session.RoleDetail, error) {
	var resp rolesResponse
	if err := c.get(ctx, PathUserRoles, &resp); err != nil {
		return session.RoleDetail{}, err
	}
	return session.RoleDetail{
		Roles:       resp.Roles,
		Permissions: resp.Permissions,
		IsStaff:     resp.IsStaff,
		IsSuperuser: resp.IsSuperuser,
	}, nil
}

// RemoteWidgets lists dashboard widgets contributed by backend plugins.
func (c *Client) RemoteWidgets(ctx context.Context) ([]dashboard.WidgetDescriptor, error) {
	var resp []pluginWidget
	if err := c.get(ctx, PathPluginWidgets, &resp); err != nil {
		return nil, err
	}
	out := make([]dashboard.WidgetDescriptor, 0, len(resp))
	for _, item := range resp {
		out = append(out, item.toDescriptor())
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, path string, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("inventory: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Token "+c.token)
	}
	c.mu.RLock()
	for key, values := range c.headers {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	c.mu.RUnlock()
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("inventory: http request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(resp.Body)
		return &StatusError{Path: path, Code: resp.StatusCode, Body: strings.TrimSpace(buf.String())}
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("inventory: decode %s: %w", path, err)
	}
	return nil
}

// StatusError reports a non-2xx backend response.
type StatusError struct {
	Path string
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("inventory: %s returned %d: %s", e.Path, e.Code, e.Body)
}

type sessionResponse struct {
	Meta struct {
		IsAuthenticated bool `json:"is_authenticated"`
	} `json:"meta"`
}

type userResponse struct {
	PK        int             `json:"pk"`
	FirstName string          `json:"first_name"`
	LastName  string          `json:"last_name"`
	Email     string          `json:"email"`
	Username  string          `json:"username"`
	Groups    []session.Group `json:"groups"`
	Profile   map[string]any  `json:"profile"`
}

func (r userResponse) toUser() *session.User {
	return &session.User{
		PK:        r.PK,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		Username:  r.Username,
		Groups:    r.Groups,
		Profile:   r.Profile,
	}
}

type rolesResponse struct {
	Roles       map[string][]string `json:"roles"`
	Permissions map[string][]string `json:"permissions"`
	IsStaff     bool                `json:"is_staff"`
	IsSuperuser bool                `json:"is_superuser"`
}

type pluginWidget struct {
	Key         string               `json:"key"`
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Category    string               `json:"category"`
	MinWidth    int                  `json:"min_width"`
	MinHeight   int                  `json:"min_height"`
	Requires    *session.Requirement `json:"requires"`
}

func (w pluginWidget) toDescriptor() dashboard.WidgetDescriptor {
	return dashboard.WidgetDescriptor{
		Label:       w.Key,
		Name:        w.Title,
		Description: w.Description,
		Category:    w.Category,
		MinWidth:    w.MinWidth,
		MinHeight:   w.MinHeight,
		Requires:    w.Requires,
		Source:      dashboard.SourcePlugin,
	}
}
