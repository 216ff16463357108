package identity

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

// fakeUsersService mimics the hosted identity service's API surface.
func fakeUsersService(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()

	checkKey := func(w http.ResponseWriter, r *http.Request) bool {
		if r.Header.Get("x-api-key") != "test-key" {
			w.WriteHeader(http.StatusForbidden)
			return false
		}
		return true
	}

	mux.HandleFunc("GET /oauth/{provider}/redirect_url", func(w http.ResponseWriter, r *http.Request) {
		if !checkKey(w, r) {
			return
		}
		json.NewEncoder(w).Encode(map[string]string{
			"redirect_url": "https://accounts.example.com/auth?provider=" + r.PathValue("provider"),
		})
	})

	mux.HandleFunc("POST /sessions", func(w http.ResponseWriter, r *http.Request) {
		if !checkKey(w, r) {
			return
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["code"] != "good-code" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"session_token": "tok-123"})
	})

	mux.HandleFunc("GET /users/me", func(w http.ResponseWriter, r *http.Request) {
		if !checkKey(w, r) {
			return
		}
		if r.Header.Get("Authorization") != "Bearer tok-123" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"id": "user-9", "email": "u@example.com"})
	})

	mux.HandleFunc("DELETE /sessions/current", func(w http.ResponseWriter, r *http.Request) {
		if !checkKey(w, r) {
			return
		}
		if r.Header.Get("Authorization") != "Bearer tok-123" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newRemote(t *testing.T) *Remote {
	return &Remote{APIURL: fakeUsersService(t).URL, APIKey: "test-key"}
}

func TestRemoteRedirectURL(t *testing.T) {
	r := newRemote(t)

	url, err := r.RedirectURL(context.Background(), "google")
	if err != nil {
		t.Fatalf("RedirectURL: %v", err)
	}
	if url != "https://accounts.example.com/auth?provider=google" {
		t.Errorf("unexpected redirect URL %q", url)
	}
}

func TestRemoteExchangeCode(t *testing.T) {
	r := newRemote(t)
	ctx := context.Background()

	token, err := r.ExchangeCode(ctx, "good-code")
	if err != nil {
		t.Fatalf("ExchangeCode: %v", err)
	}
	if token != "tok-123" {
		t.Errorf("unexpected token %q", token)
	}

	_, err = r.ExchangeCode(ctx, "bad-code")
	if !errors.Is(err, ErrInvalidCode) {
		t.Errorf("expected ErrInvalidCode, got %v", err)
	}
}

func TestRemoteResolve(t *testing.T) {
	r := newRemote(t)
	ctx := context.Background()

	user, err := r.Resolve(ctx, "tok-123")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if user.ID != "user-9" || user.Email != "u@example.com" {
		t.Errorf("unexpected user: %+v", user)
	}

	_, err = r.Resolve(ctx, "expired")
	if !errors.Is(err, ErrInvalidSession) {
		t.Errorf("expected ErrInvalidSession, got %v", err)
	}
}

func TestRemoteRevoke(t *testing.T) {
	r := newRemote(t)
	ctx := context.Background()

	if err := r.Revoke(ctx, "tok-123"); err != nil {
		t.Errorf("Revoke: %v", err)
	}
	// A dead token revokes quietly.
	if err := r.Revoke(ctx, "already-gone"); err != nil {
		t.Errorf("Revoke of dead token: %v", err)
	}
}

func TestRemoteRejectsBadAPIKey(t *testing.T) {
	r := &Remote{APIURL: fakeUsersService(t).URL, APIKey: "wrong-key"}

	_, err := r.Resolve(context.Background(), "tok-123")
	if !errors.Is(err, ErrInvalidSession) {
		t.Errorf("expected ErrInvalidSession on denied key, got %v", err)
	}
}
