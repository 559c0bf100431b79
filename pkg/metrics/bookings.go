package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// BookingMetrics counts booking lifecycle activity.
type BookingMetrics struct {
	requested   prometheus.Counter
	transitions *prometheus.CounterVec
	conflicts   prometheus.Counter
}

// NewBookingMetrics registers the booking counters on the provided registerer.
func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	if reg == nil {
		return &BookingMetrics{}
	}
	requested := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bookings_requested_total",
		Help: "Borrow requests attempted, including ones that failed.",
	})
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "booking_transitions_total",
		Help: "Booking status transitions partitioned by from/to status.",
	}, []string{"from", "to"})
	conflicts := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "booking_availability_conflicts_total",
		Help: "Borrow requests rejected because the item was already claimed.",
	})
	reg.MustRegister(requested, transitions, conflicts)
	return &BookingMetrics{
		requested:   requested,
		transitions: transitions,
		conflicts:   conflicts,
	}
}

// IncRequested counts one borrow request attempt.
func (b *BookingMetrics) IncRequested() {
	if b == nil || b.requested == nil {
		return
	}
	b.requested.Inc()
}

// IncTransition counts one status transition.
func (b *BookingMetrics) IncTransition(from, to string) {
	if b == nil || b.transitions == nil {
		return
	}
	b.transitions.WithLabelValues(normalizeLabel(from), normalizeLabel(to)).Inc()
}

// IncConflict counts one availability race lost by a borrower.
func (b *BookingMetrics) IncConflict() {
	if b == nil || b.conflicts == nil {
		return
	}
	b.conflicts.Inc()
}
