package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/SHOB1KK/ResNet/internal/model"
)

// TableRepo provides CRUD operations for restaurant tables.  It is the
// table directory consumed by the booking service: bookings validate
// guest counts against the seat capacity stored here.  All timestamp
// fields are assumed to be stored in UTC.
type TableRepo struct {
	db *sql.DB
}

// NewTableRepo returns a new TableRepo bound to the given database.
func NewTableRepo(db *sql.DB) *TableRepo { return &TableRepo{db: db} }

// Create inserts a new table and populates the generated ID and
// timestamps on the provided model.  It verifies that the parent
// restaurant exists and returns ErrRestaurantNotFound otherwise.
func (r *TableRepo) Create(ctx context.Context, t *model.Table) error {
	var exists bool
	const chk = `SELECT EXISTS(SELECT 1 FROM restaurants WHERE id = ?)`
	if err := r.db.QueryRowContext(ctx, chk, t.RestaurantID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrRestaurantNotFound
	}
	const q = `INSERT INTO tables (restaurant_id, seats, status) VALUES (?, ?, ?)`
	result, err := r.db.ExecContext(ctx, q, t.RestaurantID, t.Seats, t.Status)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	// Query back the full row to populate timestamps and defaults
	const sel = `SELECT id, restaurant_id, seats, status, created_at, updated_at FROM tables WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, t.ID).Scan(
		&t.ID, &t.RestaurantID, &t.Seats, &t.Status, &t.CreatedAt, &t.UpdatedAt,
	)
}

// GetTable returns a single table by id.  When no table with the given
// id exists, ErrTableNotFound is returned.
func (r *TableRepo) GetTable(ctx context.Context, id uint64) (*model.Table, error) {
	const q = `SELECT id, restaurant_id, seats, status, created_at, updated_at FROM tables WHERE id = ?`
	var t model.Table
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&t.ID, &t.RestaurantID, &t.Seats, &t.Status, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTableNotFound
		}
		return nil, err
	}
	return &t, nil
}

// ListTables returns all tables that belong to the given restaurant,
// ordered by id for deterministic output.  When the restaurant has no
// tables an empty slice is returned.
func (r *TableRepo) ListTables(ctx context.Context, restaurantID uint64) ([]model.Table, error) {
	const q = `SELECT id, restaurant_id, seats, status, created_at, updated_at
	           FROM tables
	           WHERE restaurant_id = ?
	           ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	tables := make([]model.Table, 0)
	for rows.Next() {
		var t model.Table
		if err := rows.Scan(&t.ID, &t.RestaurantID, &t.Seats, &t.Status, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tables, nil
}

// Update replaces the mutable fields of a table (seats and status).
// The restaurant association is fixed at creation time.  It returns
// ErrTableNotFound when the table does not exist.
func (r *TableRepo) Update(ctx context.Context, t *model.Table) error {
	const q = `UPDATE tables SET seats = ?, status = ? WHERE id = ?`
	result, err := r.db.ExecContext(ctx, q, t.Seats, t.Status, t.ID)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Distinguish "missing" from "unchanged": an UPDATE with identical
		// values also reports zero affected rows on MySQL.
		var exists bool
		const chk = `SELECT EXISTS(SELECT 1 FROM tables WHERE id = ?)`
		if err := r.db.QueryRowContext(ctx, chk, t.ID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrTableNotFound
		}
	}
	const sel = `SELECT id, restaurant_id, seats, status, created_at, updated_at FROM tables WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, t.ID).Scan(
		&t.ID, &t.RestaurantID, &t.Seats, &t.Status, &t.CreatedAt, &t.UpdatedAt,
	)
}

// Delete removes a table.  It returns ErrTableNotFound when no row was
// deleted.  Bookings referencing the table cascade at the schema level.
func (r *TableRepo) Delete(ctx context.Context, id uint64) error {
	const q = `DELETE FROM tables WHERE id = ?`
	result, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrTableNotFound
	}
	return nil
}
