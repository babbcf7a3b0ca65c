// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as the
// booking service to distinguish between different failure scenarios
// with errors.Is.  For example, ErrOverlap signals that a write lost
// the race for a time slot, while ErrDuplicateCode signals a collision
// on the unique booking code index.
package repository

import "errors"

// ErrRestaurantNotFound is returned when a restaurant id resolves to no row.
var ErrRestaurantNotFound = errors.New("restaurant not found")

// ErrTableNotFound is returned when a table id resolves to no row.
var ErrTableNotFound = errors.New("table not found")

// ErrBookingNotFound is returned when a booking cannot be located by
// id or by its (code, phone) pair.
var ErrBookingNotFound = errors.New("booking not found")

// ErrOverlap is returned by Insert and Update when the requested time
// range collides with an active booking on the same table.  The check
// runs inside a transaction that holds a lock on the table row, so a
// concurrent writer that loses the race receives this error instead of
// silently creating an overlapping booking.
var ErrOverlap = errors.New("booking overlaps an existing booking")

// ErrDuplicateCode is returned when an insert violates the unique
// index on bookings.booking_code.  Callers regenerate the code and
// retry the insert.
var ErrDuplicateCode = errors.New("booking code already exists")

// ErrBookingCancelled is returned by Update and UpdateStatus when the
// booking is already in the terminal Cancelled state.  The check runs
// against the row's current status at write time, so a cancel landing
// between a caller's read and its write cannot be overwritten.
var ErrBookingCancelled = errors.New("booking is already cancelled")
