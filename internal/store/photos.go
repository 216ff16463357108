package store

import (
	"context"
	"database/sql"
	"fmt"
)

// SetContainerPhoto stores (or replaces) the photo for owner's container.
// Returns false if the container doesn't exist or belongs to someone else.
func SetContainerPhoto(ctx context.Context, db *sql.DB, owner string, id int64, photo []byte, mime string) (bool, error) {
	var exists int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM containers WHERE user_id = ? AND id = ?`,
		owner, id,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking container: %w", err)
	}
	if exists == 0 {
		return false, nil
	}

	_, err = db.ExecContext(ctx,
		`INSERT INTO container_photos (container_id, photo, photo_mime)
		 VALUES (?, ?, ?)
		 ON CONFLICT (container_id) DO UPDATE SET
		     photo = excluded.photo,
		     photo_mime = excluded.photo_mime,
		     updated_at = CURRENT_TIMESTAMP`,
		id, photo, mime,
	)
	if err != nil {
		return false, fmt.Errorf("storing container photo: %w", err)
	}
	return true, nil
}

// GetContainerPhoto returns the photo for owner's container, or nil data if
// the container has no photo or isn't theirs.
func GetContainerPhoto(ctx context.Context, db *sql.DB, owner string, id int64) ([]byte, string, error) {
	var photo []byte
	var mime string
	err := db.QueryRowContext(ctx,
		`SELECT p.photo, p.photo_mime
		 FROM container_photos p
		 JOIN containers c ON c.id = p.container_id
		 WHERE c.user_id = ? AND c.id = ?`,
		owner, id,
	).Scan(&photo, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting container photo: %w", err)
	}
	return photo, mime, nil
}
