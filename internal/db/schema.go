package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema.
const schema = `
CREATE TABLE IF NOT EXISTS containers (
    id                    INTEGER PRIMARY KEY,
    user_id               TEXT NOT NULL,
    container_number      TEXT NOT NULL,
    departure_port        TEXT NOT NULL,
    arrival_port          TEXT NOT NULL,
    departure_date        TEXT,
    expected_arrival_date TEXT,
    actual_arrival_date   TEXT,
    status                TEXT NOT NULL DEFAULT 'pending'
        CHECK (status IN ('pending', 'departed', 'in_transit', 'arrived', 'delayed')),
    cargo_description     TEXT,
    tracking_number       TEXT,
    shipping_line         TEXT,
    notes                 TEXT,
    product_images        TEXT,
    created_at            DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at            DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_containers_user
    ON containers(user_id);

CREATE TABLE IF NOT EXISTS container_photos (
    container_id INTEGER PRIMARY KEY REFERENCES containers(id) ON DELETE CASCADE,
    photo        BLOB NOT NULL,
    photo_mime   TEXT NOT NULL,
    updated_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS sessions (
    id         TEXT PRIMARY KEY,
    user_id    TEXT NOT NULL,
    email      TEXT NOT NULL,
    name       TEXT,
    code       TEXT,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    expires_at DATETIME NOT NULL,
    revoked_at DATETIME
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_sessions_code
    ON sessions(code) WHERE code IS NOT NULL;

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
