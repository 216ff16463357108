// Package client is the consumer-side counterpart of the containers API: it
// mirrors the server's list in memory and re-fetches the whole list after
// every successful mutation. Correctness over efficiency; lists are small.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"

	"cargotrack/internal/api"
	"cargotrack/internal/model"
	"cargotrack/internal/report"
)

// Client talks to a cargotrack server. It keeps the session cookie in a jar,
// a cached copy of the container list, one loading flag, and the most recent
// error message. Concurrent mutations are not queued or deduplicated.
type Client struct {
	baseURL string
	http    *http.Client

	mu         sync.Mutex
	containers []model.Container
	loading    bool
	lastErr    string
}

// New creates a client for the server at baseURL.
func New(baseURL string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Jar: jar},
	}, nil
}

// SetToken installs an existing session token instead of logging in.
func (c *Client) SetToken(token string) error {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return fmt.Errorf("parsing base URL: %w", err)
	}
	c.http.Jar.SetCookies(u, []*http.Cookie{{
		Name:  api.SessionCookieName,
		Value: token,
		Path:  "/",
	}})
	return nil
}

// Login exchanges an authorization code for a session cookie. The cookie is
// captured from the response and installed directly, so it is replayed even
// when the server runs behind plain HTTP in development.
func (c *Client) Login(ctx context.Context, code string) error {
	data, err := json.Marshal(map[string]string{"code": code})
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/sessions", bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("creating session: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("creating session: status %d", resp.StatusCode)
	}

	for _, cookie := range resp.Cookies() {
		if cookie.Name == api.SessionCookieName && cookie.Value != "" {
			return c.SetToken(cookie.Value)
		}
	}
	return fmt.Errorf("no session cookie in response")
}

// LoginDev walks the full handshake against a server running the local
// identity provider: the redirect URL it hands out already carries the code.
func (c *Client) LoginDev(ctx context.Context) error {
	var out struct {
		RedirectURL string `json:"redirectUrl"`
	}
	if err := c.call(ctx, http.MethodGet, "/api/oauth/google/redirect_url", nil, &out); err != nil {
		return err
	}

	u, err := url.Parse(out.RedirectURL)
	if err != nil {
		return fmt.Errorf("parsing redirect URL: %w", err)
	}
	code := u.Query().Get("code")
	if code == "" {
		return fmt.Errorf("redirect URL carries no authorization code (server not in local identity mode?)")
	}
	return c.Login(ctx, code)
}

// Me returns the authenticated user.
func (c *Client) Me(ctx context.Context) (*model.User, error) {
	var user model.User
	if err := c.call(ctx, http.MethodGet, "/api/users/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Refresh re-fetches the container list from the server.
func (c *Client) Refresh(ctx context.Context) error {
	c.setLoading(true)
	defer c.setLoading(false)

	var containers []model.Container
	if err := c.call(ctx, http.MethodGet, "/api/containers", nil, &containers); err != nil {
		c.setErr(err)
		return err
	}

	c.mu.Lock()
	c.containers = containers
	c.lastErr = ""
	c.mu.Unlock()
	return nil
}

// Containers returns the cached list from the last Refresh.
func (c *Client) Containers() []model.Container {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.containers
}

// Loading reports whether a fetch is in flight.
func (c *Client) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Err returns the most recent error message, empty if the last call succeeded.
func (c *Client) Err() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Create adds a container and re-fetches the list.
func (c *Client) Create(ctx context.Context, payload model.CreateContainer) error {
	if err := c.call(ctx, http.MethodPost, "/api/containers", payload, nil); err != nil {
		c.setErr(err)
		return err
	}
	return c.Refresh(ctx)
}

// Update applies a partial update and re-fetches the list.
func (c *Client) Update(ctx context.Context, id int64, payload model.UpdateContainer) error {
	if err := c.call(ctx, http.MethodPut, fmt.Sprintf("/api/containers/%d", id), payload, nil); err != nil {
		c.setErr(err)
		return err
	}
	return c.Refresh(ctx)
}

// Delete removes a container and re-fetches the list.
func (c *Client) Delete(ctx context.Context, id int64) error {
	if err := c.call(ctx, http.MethodDelete, fmt.Sprintf("/api/containers/%d", id), nil, nil); err != nil {
		c.setErr(err)
		return err
	}
	return c.Refresh(ctx)
}

// Report fetches the transit status report.
func (c *Client) Report(ctx context.Context) (*report.Report, error) {
	var rep report.Report
	if err := c.call(ctx, http.MethodGet, "/api/reports/transit", nil, &rep); err != nil {
		c.setErr(err)
		return nil, err
	}
	return &rep, nil
}

func (c *Client) setLoading(v bool) {
	c.mu.Lock()
	c.loading = v
	c.mu.Unlock()
}

func (c *Client) setErr(err error) {
	c.mu.Lock()
	c.lastErr = err.Error()
	c.mu.Unlock()
}

func (c *Client) call(ctx context.Context, method, path string, in, out any) error {
	var body *bytes.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("calling %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s %s: %s (status %d)", method, path, apiErr.Error, resp.StatusCode)
		}
		return fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}
