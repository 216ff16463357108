package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"cargotrack/internal/model"
)

// Remote is a thin HTTP client for the hosted users service. Session tokens
// pass through it opaquely as bearer credentials. Calls are not retried.
type Remote struct {
	APIURL string
	APIKey string
	Client *http.Client
}

func (r *Remote) httpClient() *http.Client {
	if r.Client != nil {
		return r.Client
	}
	return http.DefaultClient
}

// RedirectURL asks the service where federated login for provider begins.
func (r *Remote) RedirectURL(ctx context.Context, provider string) (string, error) {
	var out struct {
		RedirectURL string `json:"redirect_url"`
	}
	if err := r.do(ctx, http.MethodGet, "/oauth/"+provider+"/redirect_url", "", nil, &out); err != nil {
		return "", err
	}
	return out.RedirectURL, nil
}

// ExchangeCode trades an authorization code for a session token.
func (r *Remote) ExchangeCode(ctx context.Context, code string) (string, error) {
	in := map[string]string{"code": code}
	var out struct {
		SessionToken string `json:"session_token"`
	}
	err := r.do(ctx, http.MethodPost, "/sessions", "", in, &out)
	if isDenied(err) {
		return "", ErrInvalidCode
	}
	if err != nil {
		return "", err
	}
	return out.SessionToken, nil
}

// Resolve returns the user the session token belongs to.
func (r *Remote) Resolve(ctx context.Context, token string) (*model.User, error) {
	var user model.User
	err := r.do(ctx, http.MethodGet, "/users/me", token, nil, &user)
	if isDenied(err) {
		return nil, ErrInvalidSession
	}
	if err != nil {
		return nil, err
	}
	if user.ID == "" {
		return nil, ErrInvalidSession
	}
	return &user, nil
}

// Revoke deletes the session on the service side. An already dead token is
// treated as success.
func (r *Remote) Revoke(ctx context.Context, token string) error {
	err := r.do(ctx, http.MethodDelete, "/sessions/current", token, nil, nil)
	if isDenied(err) {
		return nil
	}
	return err
}

// statusError carries a non-2xx response status.
type statusError struct {
	Status int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("users service returned status %d", e.Status)
}

// isDenied reports whether err is the service rejecting the credential rather
// than failing outright.
func isDenied(err error) bool {
	se, ok := err.(*statusError)
	return ok && (se.Status == http.StatusUnauthorized || se.Status == http.StatusForbidden || se.Status == http.StatusNotFound)
}

func (r *Remote) do(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.APIURL+path, body)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("x-api-key", r.APIKey)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := r.httpClient().Do(req)
	if err != nil {
		return fmt.Errorf("calling users service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &statusError{Status: resp.StatusCode}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding users service response: %w", err)
		}
	}
	return nil
}
