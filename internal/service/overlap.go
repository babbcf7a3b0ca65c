package service

import (
	"time"

	"github.com/SHOB1KK/ResNet/internal/model"
)

// Interval is a half-open time range [From, To).  Because To is
// exclusive, two intervals that merely touch at an endpoint do not
// overlap: a booking ending at 12:00 leaves the table free for one
// starting at 12:00.
type Interval struct {
	From time.Time
	To   time.Time
}

// Overlaps reports whether two half-open intervals intersect:
// a.From < b.To AND a.To > b.From.
func Overlaps(a, b Interval) bool {
	return a.From.Before(b.To) && a.To.After(b.From)
}

// Conflicts decides whether the candidate interval collides with any
// of the existing bookings on the same table.  Cancelled bookings are
// skipped, as is the booking whose id equals excludeID (pass 0 when
// creating).  The function is pure: no store access, no clock.
func Conflicts(candidate Interval, existing []model.Booking, excludeID uint64) bool {
	for i := range existing {
		b := &existing[i]
		if !b.Active() {
			continue
		}
		if excludeID != 0 && b.ID == excludeID {
			continue
		}
		if Overlaps(candidate, Interval{From: b.BookingFrom, To: b.BookingTo}) {
			return true
		}
	}
	return false
}
