// Package queue defines message payloads exchanged over the message
// broker together with the publisher and the background consumer.
package queue

// Queue names for booking lifecycle events.
const (
	BookingCreatedQueue   = "booking.created"
	BookingCancelledQueue = "booking.cancelled"
)

// BookingEvent is published whenever a booking is created or
// cancelled.  It contains enough information for downstream consumers
// to log, notify, or trigger analytics without querying the primary
// database.  The booking code is intentionally omitted from cancelled
// events; it is only meaningful while the booking is active.
type BookingEvent struct {
	EventID      string `json:"event_id"`
	BookingID    uint64 `json:"booking_id"`
	TableID      uint64 `json:"table_id"`
	RestaurantID uint64 `json:"restaurant_id,omitempty"`
	FullName     string `json:"full_name"`
	BookingFrom  string `json:"booking_from"`
	BookingTo    string `json:"booking_to"`
	Guests       int    `json:"guests"`
	Status       string `json:"status"`
	BookingCode  string `json:"booking_code,omitempty"`
	OccurredAt   string `json:"occurred_at"`
}
