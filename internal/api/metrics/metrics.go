// Package metrics defines and registers all custom Prometheus metrics for the
// GlamBook API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default registry via promauto at package
// load; the /metrics endpoint exposes them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "glambook"

// BookingsCreatedTotal counts successfully created bookings.
// Label:
//   - channel: "user" (authenticated) or "guest"
var BookingsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bookings_created_total",
		Help:      "Total number of bookings created, by channel.",
	},
	[]string{"channel"},
)

// SlotConflictsTotal counts booking attempts rejected because the slot was
// already claimed.
var SlotConflictsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "slot_conflicts_total",
		Help:      "Total number of booking attempts rejected due to an occupied slot.",
	},
)

// BookingStatusTotal counts status transitions applied to bookings.
// Label:
//   - status: the new booking status (e.g. "confirmed", "cancelled")
var BookingStatusTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "booking_status_total",
		Help:      "Total number of booking status transitions, by resulting status.",
	},
	[]string{"status"},
)

// ReviewsCreatedTotal counts created reviews.
// Label:
//   - rating: the star value, "1" through "5"
var ReviewsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reviews_created_total",
		Help:      "Total number of reviews created, by star rating.",
	},
	[]string{"rating"},
)

// RatingRecomputeDuration measures how long one salon rating recompute takes,
// from dequeue to the directory write.
var RatingRecomputeDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "rating_recompute_duration_seconds",
		Help:      "Duration of a salon rating recompute job.",
		Buckets:   prometheus.DefBuckets,
	},
)

// ChatMessagesTotal counts chat messages accepted.
// Label:
//   - sender_role: role of the sender ("user", "salonOwner", "admin")
var ChatMessagesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "chat_messages_total",
		Help:      "Total number of chat messages accepted, by sender role.",
	},
	[]string{"sender_role"},
)
