package model

import "time"

// Restaurant represents a single venue whose tables can be booked.
// Descriptive fields are optional and stored as nullable columns.
//
// Fields:
//  ID          – primary key identifier.
//  Name        – display name of the restaurant.
//  Description – optional free-form description.
//  Cuisine     – optional cuisine label (e.g. "Italian").
//  Address     – optional street address.
//  Phone       – optional contact phone.
//  Rating      – average rating between 0 and 5.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Restaurant struct {
	ID          uint64    `json:"id"`           // restaurants.id
	Name        string    `json:"name"`         // restaurants.name
	Description *string   `json:"description"`  // restaurants.description (nullable)
	Cuisine     *string   `json:"cuisine"`      // restaurants.cuisine (nullable)
	Address     *string   `json:"address"`      // restaurants.address (nullable)
	Phone       *string   `json:"phone"`        // restaurants.phone (nullable)
	Rating      float64   `json:"rating"`       // restaurants.rating
	CreatedAt   time.Time `json:"created_at"`   // restaurants.created_at
	UpdatedAt   time.Time `json:"updated_at"`   // restaurants.updated_at
}
