package model

import "time"

// Operational states a table can be in.  This reflects whether the
// table is physically usable, not whether it is currently booked.
const (
	TableStatusAvailable   = "Available"
	TableStatusUnavailable = "Unavailable"
)

// Table describes a physical table inside a restaurant.  The seat
// count bounds how many guests a booking on this table may declare.
//
// Fields:
//  ID           – primary key identifier.
//  RestaurantID – restaurant this table belongs to.
//  Seats        – seating capacity of the table.
//  Status       – operational state (Available, Unavailable).
//  CreatedAt    – creation timestamp.
//  UpdatedAt    – last update timestamp.
type Table struct {
	ID           uint64    `json:"id"`            // tables.id
	RestaurantID uint64    `json:"restaurant_id"` // tables.restaurant_id
	Seats        int       `json:"seats"`         // tables.seats
	Status       string    `json:"status"`        // tables.status
	CreatedAt    time.Time `json:"created_at"`    // tables.created_at
	UpdatedAt    time.Time `json:"updated_at"`    // tables.updated_at
}
