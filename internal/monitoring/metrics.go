// Package monitoring exposes Prometheus counters for the booking flow.
package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BookingCommits counts commit attempts by outcome. Outcomes are
	// "committed", "seat_conflict", "stock_conflict" and "error".
	BookingCommits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booking_commits_total",
			Help: "Total booking commit attempts by outcome",
		},
		[]string{"outcome"},
	)

	// SessionsStarted counts booking sessions created.
	SessionsStarted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "booking_sessions_started_total",
			Help: "Total booking sessions started",
		},
	)

	// SessionsExpired counts sessions reaped by the expiry janitor.
	SessionsExpired = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "booking_sessions_expired_total",
			Help: "Total booking sessions removed after expiry",
		},
	)

	// SeatSelections counts seat select/deselect operations by result.
	SeatSelections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booking_seat_selections_total",
			Help: "Total seat selection toggles by result",
		},
		[]string{"result"},
	)

	// CommitDuration observes end-to-end commit latency.
	CommitDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "booking_commit_duration_seconds",
			Help:    "Duration of booking commits",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
	)
)
