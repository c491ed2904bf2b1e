package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	apperrors "postdeck/internal/errors"
	"postdeck/internal/log"
	"postdeck/pkg/types"
)

// defaultTimeout bounds every request; the source this console grew out
// of had none, which let a dead server hang the UI forever.
const defaultTimeout = 15 * time.Second

// Client talks to the collection API over HTTP and keeps the current
// session. It implements Backend.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	sessionPath string

	mu      sync.RWMutex
	session *Session
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithHTTPClient substitutes the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithSessionFile persists the session at path and restores any
// session already saved there.
func WithSessionFile(path string) ClientOption {
	return func(c *Client) {
		c.sessionPath = path
		s, err := LoadSession(path)
		if err != nil {
			log.LogWithError(err).Warn("ignoring unreadable session file")
			return
		}
		c.session = s
	}
}

// NewClient creates a client for the API at baseURL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Authenticated reports whether a session is present. The server may
// still reject the token; a 401 response clears the session.
func (c *Client) Authenticated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session != nil
}

// CurrentUser returns the logged-in account, or nil.
func (c *Client) CurrentUser() *User {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.session == nil {
		return nil
	}
	return &User{ID: c.session.UserID, Username: c.session.Username, Email: c.session.Email}
}

// Login authenticates against the API and stores the session.
func (c *Client) Login(ctx context.Context, email, password string) error {
	body := map[string]string{"email": email, "password": password}
	var data LoginData
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, body, &data, "login"); err != nil {
		return err
	}

	s := &Session{
		Token:    data.AccessToken,
		UserID:   data.User.ID,
		Username: data.User.Username,
		Email:    data.User.Email,
	}

	c.mu.Lock()
	c.session = s
	path := c.sessionPath
	c.mu.Unlock()

	if path != "" {
		if err := SaveSession(s, path); err != nil {
			log.LogWithError(err).Warn("session not persisted")
		}
	}
	return nil
}

// Register creates a new account. It does not sign in; callers log in
// afterwards with the new credentials.
func (c *Client) Register(ctx context.Context, username, email, password, confirm string) error {
	body := map[string]string{
		"username":         username,
		"email":            email,
		"password":         password,
		"confirm_password": confirm,
	}
	return c.do(ctx, http.MethodPost, "/auth/register", nil, body, nil, "register")
}

// Profile fetches the account behind the current session from the
// server, unlike CurrentUser which answers from the cached session.
func (c *Client) Profile(ctx context.Context) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/users/profile", nil, nil, &user, "profile"); err != nil {
		return nil, err
	}
	return &user, nil
}

// Logout ends the session locally and best-effort on the server.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.do(ctx, http.MethodDelete, "/auth/logout", nil, nil, nil, "logout"); err != nil {
		log.LogWithError(err).Warn("remote logout failed")
	}
	c.clearSession()
	return nil
}

// List fetches one page of posts honoring the given filters.
func (c *Client) List(ctx context.Context, params ListParams) (*ListResult, error) {
	query := url.Values{}
	if params.Page > 0 {
		query.Set("page", strconv.Itoa(params.Page))
	}
	if params.PerPage > 0 {
		query.Set("limit", strconv.Itoa(params.PerPage))
	}
	if params.Status != "" {
		query.Set("status", string(params.Status))
	}
	if params.Search != "" {
		query.Set("search", params.Search)
	}

	var result ListResult
	if err := c.do(ctx, http.MethodGet, "/posts", query, nil, &result, "list"); err != nil {
		return nil, err
	}
	return &result, nil
}

// Get fetches a single post.
func (c *Client) Get(ctx context.Context, id int) (*types.Post, error) {
	var post types.Post
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/posts/%d", id), nil, nil, &post, "get"); err != nil {
		return nil, err
	}
	return &post, nil
}

// Create submits a new post.
func (c *Client) Create(ctx context.Context, cmd types.CreatePost) (*types.Post, error) {
	var post types.Post
	if err := c.do(ctx, http.MethodPost, "/posts", nil, cmd, &post, "create"); err != nil {
		return nil, err
	}
	return &post, nil
}

// Update applies a partial update to a post.
func (c *Client) Update(ctx context.Context, id int, cmd types.UpdatePost) (*types.Post, error) {
	var post types.Post
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/posts/%d", id), nil, cmd, &post, "update"); err != nil {
		return nil, err
	}
	return &post, nil
}

// Delete removes a post.
func (c *Client) Delete(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/posts/%d", id), nil, nil, nil, "delete")
}

// Publish transitions a post to published.
func (c *Client) Publish(ctx context.Context, id int) (*types.Post, error) {
	var post types.Post
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/posts/%d/publish", id), nil, nil, &post, "publish"); err != nil {
		return nil, err
	}
	return &post, nil
}

// StatsSummary fetches the per-status post counts.
func (c *Client) StatsSummary(ctx context.Context) (*StatsSummary, error) {
	var stats StatsSummary
	if err := c.do(ctx, http.MethodGet, "/posts/stats/summary", nil, nil, &stats, "stats"); err != nil {
		return nil, err
	}
	return &stats, nil
}

// DashboardStats fetches the dashboard headline figures.
func (c *Client) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	var stats DashboardStats
	if err := c.do(ctx, http.MethodGet, "/dashboard/stats", nil, nil, &stats, "dashboard"); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *Client) clearSession() {
	c.mu.Lock()
	c.session = nil
	path := c.sessionPath
	c.mu.Unlock()

	if path != "" {
		if err := ClearSession(path); err != nil {
			log.LogWithError(err).Warn("session file not removed")
		}
	}
}

func (c *Client) token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.session == nil {
		return ""
	}
	return c.session.Token
}

// do performs one request/response round trip, decoding the envelope
// and unwrapping its data payload into out when non-nil.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}, op string) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var payload *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return apperrors.Wrapf(err, "failed to marshal %s request", op)
		}
		payload = bytes.NewReader(data)
	} else {
		payload = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, payload)
	if err != nil {
		return apperrors.Wrapf(err, "failed to create %s request", op)
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.NewRemoteError(op, "", apperrors.RemoteUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		// 401-equivalent: the host clears the session; the router
		// reacts by redirecting to the auth route.
		c.clearSession()
		return apperrors.NewAuthError("session expired", nil)
	}

	var env Envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return apperrors.NewRemoteError(op, "", apperrors.RemoteFailed, err)
	}

	if !env.Success {
		kind := apperrors.RemoteFailed
		if resp.StatusCode == http.StatusNotFound {
			kind = apperrors.NotFound
		}
		return apperrors.NewRemoteError(op, env.Message, kind, nil)
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return apperrors.NewRemoteError(op, "", apperrors.RemoteFailed, err)
		}
	}
	return nil
}
