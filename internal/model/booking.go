package model

import "time"

// Booking lifecycle states.  Cancelled is terminal: a cancelled
// booking can never return to an active state.
const (
	BookingStatusPending   = "Pending"
	BookingStatusConfirmed = "Confirmed"
	BookingStatusCancelled = "Cancelled"
)

// Booking reserves a table for a half-open time interval
// [BookingFrom, BookingTo).  Guests manage their booking without an
// account using the BookingCode together with their phone number.
//
// Fields:
//  ID          – primary key identifier.
//  TableID     – table being reserved (immutable after creation).
//  FullName    – guest contact name.
//  PhoneNumber – guest contact phone; paired with BookingCode for lookup.
//  BookingFrom – inclusive start of the reserved interval, UTC.
//  BookingTo   – exclusive end of the reserved interval, UTC.
//  Guests      – declared party size, 1..table seats.
//  Status      – lifecycle state (Pending, Confirmed, Cancelled).
//  BookingCode – store-unique guest-facing code, assigned once.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Booking struct {
	ID          uint64    `json:"id"`           // bookings.id
	TableID     uint64    `json:"table_id"`     // bookings.table_id
	FullName    string    `json:"full_name"`    // bookings.full_name
	PhoneNumber string    `json:"phone_number"` // bookings.phone_number
	BookingFrom time.Time `json:"booking_from"` // bookings.booking_from
	BookingTo   time.Time `json:"booking_to"`   // bookings.booking_to
	Guests      int       `json:"guests"`       // bookings.guests
	Status      string    `json:"status"`       // bookings.status
	BookingCode string    `json:"booking_code"` // bookings.booking_code
	CreatedAt   time.Time `json:"created_at"`   // bookings.created_at
	UpdatedAt   time.Time `json:"updated_at"`   // bookings.updated_at
}

// Active reports whether the booking still occupies its time slot.
// Cancelled bookings never block other reservations.
func (b *Booking) Active() bool {
	return b.Status != BookingStatusCancelled
}
