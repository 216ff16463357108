package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Session is one row of the local identity provider's session table. A row
// starts life as a pending authorization code and becomes an active session
// once the code is claimed.
type Session struct {
	ID        string
	UserID    string
	Email     string
	Name      *string
	CreatedAt time.Time
	ExpiresAt time.Time
	RevokedAt *time.Time
}

// InsertAuthCode records a pending authorization code for the given user.
func InsertAuthCode(ctx context.Context, db *sql.DB, id, code, userID, email string, name *string, expiresAt time.Time) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO sessions (id, user_id, email, name, code, expires_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, userID, email, name, code, expiresAt,
	)
	if err != nil {
		return fmt.Errorf("inserting auth code: %w", err)
	}
	return nil
}

// ClaimAuthCode promotes the session row holding code into an active session
// with the given expiry. Codes are one-shot: the code column is cleared on
// claim, so a second exchange finds nothing. Returns nil if the code is
// unknown, already claimed, or expired.
func ClaimAuthCode(ctx context.Context, db *sql.DB, code string, expiresAt time.Time) (*Session, error) {
	var id string
	err := db.QueryRowContext(ctx,
		`UPDATE sessions SET code = NULL, expires_at = ?
		 WHERE code = ? AND expires_at > CURRENT_TIMESTAMP AND revoked_at IS NULL
		 RETURNING id`,
		expiresAt, code,
	).Scan(&id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("claiming auth code: %w", err)
	}
	return GetSession(ctx, db, id)
}

// GetSession returns the session with the given id, or nil if absent.
func GetSession(ctx context.Context, db *sql.DB, id string) (*Session, error) {
	s := &Session{}
	var name sql.NullString
	var revoked sql.NullTime
	err := db.QueryRowContext(ctx,
		`SELECT id, user_id, email, name, created_at, expires_at, revoked_at
		 FROM sessions WHERE id = ?`, id,
	).Scan(&s.ID, &s.UserID, &s.Email, &name, &s.CreatedAt, &s.ExpiresAt, &revoked)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting session: %w", err)
	}
	if name.Valid {
		s.Name = &name.String
	}
	if revoked.Valid {
		s.RevokedAt = &revoked.Time
	}
	return s, nil
}

// RevokeSession marks the session as revoked. Revoking an unknown or already
// revoked session is a no-op.
func RevokeSession(ctx context.Context, db *sql.DB, id string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE sessions SET revoked_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND revoked_at IS NULL`, id,
	)
	if err != nil {
		return fmt.Errorf("revoking session: %w", err)
	}
	return nil
}

// PruneSessions deletes sessions (and unclaimed codes) past their expiry.
// Returns the number of rows removed.
func PruneSessions(ctx context.Context, db *sql.DB) (int64, error) {
	result, err := db.ExecContext(ctx,
		`DELETE FROM sessions WHERE expires_at < CURRENT_TIMESTAMP`,
	)
	if err != nil {
		return 0, fmt.Errorf("pruning sessions: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting pruned sessions: %w", err)
	}
	return n, nil
}
