package identity

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"cargotrack/internal/model"
	"cargotrack/internal/store"
)

// codeExpiry bounds how long an unclaimed authorization code stays valid.
const codeExpiry = 10 * time.Minute

// sessionClaims is the signed content of a locally issued session token.
type sessionClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// Local is a self-contained identity provider: it mints HS256 session tokens
// and tracks them in the sessions table so revocation actually sticks. Every
// login resolves to the single configured user, which is all development and
// tests need.
type Local struct {
	DB      *sql.DB
	Secret  string
	BaseURL string     // app origin, used to build the callback URL
	User    model.User // the user every login authenticates as
}

// RedirectURL skips the federated hop entirely: it issues a one-shot code for
// the configured user and points the browser straight at the app's callback.
func (l *Local) RedirectURL(ctx context.Context, provider string) (string, error) {
	code := uuid.NewString()
	err := store.InsertAuthCode(ctx, l.DB, uuid.NewString(), code,
		l.User.ID, l.User.Email, l.User.Name, time.Now().Add(codeExpiry))
	if err != nil {
		return "", fmt.Errorf("issuing auth code: %w", err)
	}
	return l.BaseURL + "/auth/callback?code=" + url.QueryEscape(code), nil
}

// ExchangeCode claims a one-shot code and returns a signed session token.
func (l *Local) ExchangeCode(ctx context.Context, code string) (string, error) {
	session, err := store.ClaimAuthCode(ctx, l.DB, code, time.Now().Add(SessionExpiry))
	if err != nil {
		return "", err
	}
	if session == nil {
		return "", ErrInvalidCode
	}

	claims := sessionClaims{
		UserID: session.UserID,
		Email:  session.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        session.ID,
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(l.Secret))
	if err != nil {
		return "", fmt.Errorf("signing session token: %w", err)
	}
	return signed, nil
}

// Resolve validates the token signature, then checks the session row for
// expiry and revocation.
func (l *Local) Resolve(ctx context.Context, token string) (*model.User, error) {
	claims, err := l.parse(token)
	if err != nil {
		return nil, ErrInvalidSession
	}

	session, err := store.GetSession(ctx, l.DB, claims.ID)
	if err != nil {
		return nil, err
	}
	if session == nil || session.RevokedAt != nil || time.Now().After(session.ExpiresAt) {
		return nil, ErrInvalidSession
	}

	return &model.User{ID: session.UserID, Email: session.Email, Name: session.Name}, nil
}

// Revoke marks the token's session as revoked. Unknown or garbage tokens are
// ignored.
func (l *Local) Revoke(ctx context.Context, token string) error {
	claims, err := l.parse(token)
	if err != nil {
		return nil
	}
	return store.RevokeSession(ctx, l.DB, claims.ID)
}

func (l *Local) parse(token string) (*sessionClaims, error) {
	parsed, err := jwt.ParseWithClaims(token, &sessionClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(l.Secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parsing session token: %w", err)
	}

	claims, ok := parsed.Claims.(*sessionClaims)
	if !ok || !parsed.Valid {
		return nil, fmt.Errorf("invalid session token")
	}
	return claims, nil
}
