package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"cargotrack/internal/model"
)

// ErrNoFields is returned by UpdateContainer when the payload carries no
// effective fields. Rejecting the write keeps updated_at honest.
var ErrNoFields = errors.New("no fields to update")

const containerColumns = `id, user_id, container_number, departure_port, arrival_port,
	departure_date, expected_arrival_date, actual_arrival_date, status,
	cargo_description, tracking_number, shipping_line, notes, product_images,
	created_at, updated_at`

// CreateContainer inserts a new container for owner and returns the stored row.
func CreateContainer(ctx context.Context, db *sql.DB, owner string, c *model.CreateContainer) (*model.Container, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO containers (
			user_id, container_number, departure_port, arrival_port,
			departure_date, expected_arrival_date, status, cargo_description,
			tracking_number, shipping_line, notes, product_images
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		owner, c.ContainerNumber, c.DeparturePort, c.ArrivalPort,
		c.DepartureDate, c.ExpectedArrivalDate, c.Status, c.CargoDescription,
		c.TrackingNumber, c.ShippingLine, c.Notes, c.ProductImages,
	)
	if err != nil {
		return nil, fmt.Errorf("creating container: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting container id: %w", err)
	}

	return GetContainer(ctx, db, owner, id)
}

// GetContainer returns the container with the given id if it belongs to owner,
// or nil if it doesn't exist (or belongs to someone else).
func GetContainer(ctx context.Context, db *sql.DB, owner string, id int64) (*model.Container, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+containerColumns+` FROM containers WHERE user_id = ? AND id = ?`,
		owner, id,
	)
	c, err := scanContainer(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting container: %w", err)
	}
	return c, nil
}

// ListContainers returns all of owner's containers, soonest expected arrival
// first. Rows without an expected arrival date sort last, newest-created first.
func ListContainers(ctx context.Context, db *sql.DB, owner string) ([]model.Container, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+containerColumns+` FROM containers
		 WHERE user_id = ?
		 ORDER BY expected_arrival_date ASC NULLS LAST, created_at DESC`,
		owner,
	)
	if err != nil {
		return nil, fmt.Errorf("listing containers: %w", err)
	}
	defer rows.Close()

	var containers []model.Container
	for rows.Next() {
		c, err := scanContainer(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning container: %w", err)
		}
		containers = append(containers, *c)
	}
	return containers, rows.Err()
}

// UpdateContainer applies exactly the fields present in the payload to the row
// matching (owner, id) and bumps updated_at. A payload with zero fields fails
// with ErrNoFields. A foreign or absent id updates zero rows and is not an
// error, so callers learn nothing about other owners' records.
func UpdateContainer(ctx context.Context, db *sql.DB, owner string, id int64, u *model.UpdateContainer) error {
	cols, vals := u.Fields()
	if len(cols) == 0 {
		return ErrNoFields
	}

	sets := make([]string, 0, len(cols)+1)
	for _, col := range cols {
		sets = append(sets, col+" = ?")
	}
	sets = append(sets, "updated_at = CURRENT_TIMESTAMP")
	vals = append(vals, owner, id)

	_, err := db.ExecContext(ctx,
		`UPDATE containers SET `+strings.Join(sets, ", ")+` WHERE user_id = ? AND id = ?`,
		vals...,
	)
	if err != nil {
		return fmt.Errorf("updating container: %w", err)
	}
	return nil
}

// DeleteContainer removes the row matching (owner, id). Deleting a missing or
// foreign-owned id is a no-op.
func DeleteContainer(ctx context.Context, db *sql.DB, owner string, id int64) error {
	_, err := db.ExecContext(ctx,
		`DELETE FROM containers WHERE user_id = ? AND id = ?`,
		owner, id,
	)
	if err != nil {
		return fmt.Errorf("deleting container: %w", err)
	}
	return nil
}

// scanContainer scans one container row in containerColumns order.
func scanContainer(scan func(dest ...any) error) (*model.Container, error) {
	var c model.Container
	var depDate, expDate, actDate, cargo, tracking, line, notes, images sql.NullString
	err := scan(
		&c.ID, &c.UserID, &c.ContainerNumber, &c.DeparturePort, &c.ArrivalPort,
		&depDate, &expDate, &actDate, &c.Status,
		&cargo, &tracking, &line, &notes, &images,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.DepartureDate = nullable(depDate)
	c.ExpectedArrivalDate = nullable(expDate)
	c.ActualArrivalDate = nullable(actDate)
	c.CargoDescription = nullable(cargo)
	c.TrackingNumber = nullable(tracking)
	c.ShippingLine = nullable(line)
	c.Notes = nullable(notes)
	c.ProductImages = nullable(images)
	return &c, nil
}

func nullable(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}
