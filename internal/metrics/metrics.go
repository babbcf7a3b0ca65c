// Package metrics exposes prometheus counters for the booking engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics for the service.
type Metrics struct {
	BookingsCreated   prometheus.Counter
	BookingsCancelled prometheus.Counter
	BookingConflicts  prometheus.Counter
}

// New registers and returns the booking metrics under the given
// namespace.
func New(namespace string) *Metrics {
	return &Metrics{
		BookingsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_created_total",
			Help:      "The total number of bookings created",
		}),
		BookingsCancelled: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_cancelled_total",
			Help:      "The total number of bookings cancelled",
		}),
		BookingConflicts: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_conflicts_total",
			Help:      "The total number of booking attempts rejected for a time-range conflict",
		}),
	}
}
