package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/SHOB1KK/ResNet/internal/model"
)

// RestaurantRepo provides CRUD operations for restaurants.  The
// booking engine never touches this repository directly; it exists for
// the staff management surface and to anchor tables to a venue.
type RestaurantRepo struct {
	db *sql.DB
}

// NewRestaurantRepo returns a new RestaurantRepo bound to the given database.
func NewRestaurantRepo(db *sql.DB) *RestaurantRepo { return &RestaurantRepo{db: db} }

// Create inserts a new restaurant and populates the generated ID and
// timestamps on the provided model.
func (r *RestaurantRepo) Create(ctx context.Context, rest *model.Restaurant) error {
	const q = `INSERT INTO restaurants (name, description, cuisine, address, phone, rating)
	           VALUES (?, ?, ?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, q,
		rest.Name, rest.Description, rest.Cuisine, rest.Address, rest.Phone, rest.Rating)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	rest.ID = uint64(id)
	return r.scanOne(ctx, rest.ID, rest)
}

// GetByID returns a single restaurant.  When no restaurant with the
// given id exists, ErrRestaurantNotFound is returned.
func (r *RestaurantRepo) GetByID(ctx context.Context, id uint64) (*model.Restaurant, error) {
	var rest model.Restaurant
	if err := r.scanOne(ctx, id, &rest); err != nil {
		return nil, err
	}
	return &rest, nil
}

// List returns all restaurants ordered by id.
func (r *RestaurantRepo) List(ctx context.Context) ([]model.Restaurant, error) {
	const q = `SELECT id, name, description, cuisine, address, phone, rating, created_at, updated_at
	           FROM restaurants
	           ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Restaurant, 0)
	for rows.Next() {
		var rest model.Restaurant
		if err := rows.Scan(&rest.ID, &rest.Name, &rest.Description, &rest.Cuisine,
			&rest.Address, &rest.Phone, &rest.Rating, &rest.CreatedAt, &rest.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, rest)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update replaces the descriptive fields of a restaurant.  It returns
// ErrRestaurantNotFound when the restaurant does not exist.
func (r *RestaurantRepo) Update(ctx context.Context, rest *model.Restaurant) error {
	const q = `UPDATE restaurants
	           SET name = ?, description = ?, cuisine = ?, address = ?, phone = ?, rating = ?
	           WHERE id = ?`
	result, err := r.db.ExecContext(ctx, q,
		rest.Name, rest.Description, rest.Cuisine, rest.Address, rest.Phone, rest.Rating, rest.ID)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var exists bool
		const chk = `SELECT EXISTS(SELECT 1 FROM restaurants WHERE id = ?)`
		if err := r.db.QueryRowContext(ctx, chk, rest.ID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrRestaurantNotFound
		}
	}
	return r.scanOne(ctx, rest.ID, rest)
}

// Delete removes a restaurant.  Tables and bookings below it cascade
// at the schema level.  It returns ErrRestaurantNotFound when no row
// was deleted.
func (r *RestaurantRepo) Delete(ctx context.Context, id uint64) error {
	const q = `DELETE FROM restaurants WHERE id = ?`
	result, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrRestaurantNotFound
	}
	return nil
}

func (r *RestaurantRepo) scanOne(ctx context.Context, id uint64, rest *model.Restaurant) error {
	const q = `SELECT id, name, description, cuisine, address, phone, rating, created_at, updated_at
	           FROM restaurants WHERE id = ?`
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&rest.ID, &rest.Name, &rest.Description, &rest.Cuisine,
		&rest.Address, &rest.Phone, &rest.Rating, &rest.CreatedAt, &rest.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrRestaurantNotFound
	}
	return err
}
