// Package identity wraps the external users service that owns authentication.
// The backend never parses session tokens itself; it forwards them to a
// Service implementation and gets back a user identity.
package identity

import (
	"context"
	"errors"
	"time"

	"cargotrack/internal/model"
)

// SessionExpiry is the lifetime of an issued session.
const SessionExpiry = 60 * 24 * time.Hour

var (
	// ErrInvalidCode means the authorization code is unknown, expired, or reused.
	ErrInvalidCode = errors.New("invalid authorization code")
	// ErrInvalidSession means the session token is unknown, expired, or revoked.
	ErrInvalidSession = errors.New("invalid session")
)

// Service is the contract the API layer consumes. Remote talks to the hosted
// users service; Local is a self-contained provider for development and tests.
type Service interface {
	// RedirectURL returns the URL that begins federated login with provider.
	RedirectURL(ctx context.Context, provider string) (string, error)

	// ExchangeCode trades a one-shot authorization code for a session token.
	ExchangeCode(ctx context.Context, code string) (string, error)

	// Resolve returns the user a session token belongs to.
	Resolve(ctx context.Context, token string) (*model.User, error)

	// Revoke invalidates a session. Best-effort: revoking an unknown token
	// is not an error.
	Revoke(ctx context.Context, token string) error
}
