package service

import (
	"testing"
	"time"

	"github.com/SHOB1KK/ResNet/internal/model"
)

func interval(fromHour, toHour int) Interval {
	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	return Interval{From: day.Add(time.Duration(fromHour) * time.Hour), To: day.Add(time.Duration(toHour) * time.Hour)}
}

func TestOverlaps_Intersecting(t *testing.T) {
	if !Overlaps(interval(10, 12), interval(11, 13)) {
		t.Fatalf("expected overlap for partially intersecting intervals")
	}
	if !Overlaps(interval(11, 13), interval(10, 12)) {
		t.Fatalf("expected overlap to be symmetric")
	}
}

func TestOverlaps_Containment(t *testing.T) {
	if !Overlaps(interval(10, 14), interval(11, 12)) {
		t.Fatalf("expected overlap when one interval contains the other")
	}
	if !Overlaps(interval(11, 12), interval(10, 14)) {
		t.Fatalf("expected overlap when contained by the other")
	}
}

func TestOverlaps_TouchingEndpoints(t *testing.T) {
	// [10,12) and [12,14) share only the boundary instant, which the
	// first interval excludes.
	if Overlaps(interval(10, 12), interval(12, 14)) {
		t.Fatalf("intervals touching at an endpoint must not overlap")
	}
	if Overlaps(interval(12, 14), interval(10, 12)) {
		t.Fatalf("intervals touching at an endpoint must not overlap (reversed)")
	}
}

func TestOverlaps_Disjoint(t *testing.T) {
	if Overlaps(interval(8, 9), interval(12, 14)) {
		t.Fatalf("disjoint intervals must not overlap")
	}
}

func booking(id uint64, fromHour, toHour int, status string) model.Booking {
	iv := interval(fromHour, toHour)
	return model.Booking{ID: id, TableID: 1, BookingFrom: iv.From, BookingTo: iv.To, Status: status}
}

func TestConflicts_ActiveOverlap(t *testing.T) {
	existing := []model.Booking{booking(1, 10, 12, model.BookingStatusConfirmed)}
	if !Conflicts(interval(11, 13), existing, 0) {
		t.Fatalf("expected conflict with an overlapping confirmed booking")
	}
	existing[0].Status = model.BookingStatusPending
	if !Conflicts(interval(11, 13), existing, 0) {
		t.Fatalf("expected conflict with an overlapping pending booking")
	}
}

func TestConflicts_CancelledIgnored(t *testing.T) {
	existing := []model.Booking{booking(1, 10, 12, model.BookingStatusCancelled)}
	if Conflicts(interval(10, 12), existing, 0) {
		t.Fatalf("cancelled bookings must not block the slot")
	}
}

func TestConflicts_SelfExcluded(t *testing.T) {
	existing := []model.Booking{booking(7, 10, 12, model.BookingStatusConfirmed)}
	if Conflicts(interval(10, 12), existing, 7) {
		t.Fatalf("a booking must not conflict with itself during update")
	}
	if !Conflicts(interval(10, 12), existing, 8) {
		t.Fatalf("exclusion must only apply to the matching id")
	}
}

func TestConflicts_EmptyExisting(t *testing.T) {
	if Conflicts(interval(10, 12), nil, 0) {
		t.Fatalf("no existing bookings means no conflict")
	}
}
