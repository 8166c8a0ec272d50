// Package metrics defines the Prometheus collectors the API exports on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "rentals"

// Metrics holds every collector. A nil *Metrics is valid and records nothing,
// which keeps service unit tests free of registry setup.
type Metrics struct {
	availabilityChecks *prometheus.CounterVec
	bookingConflicts   prometheus.Counter
	bookingWrites      *prometheus.CounterVec
	requestDuration    *prometheus.HistogramVec
}

// New registers the collectors with reg. Pass prometheus.NewRegistry() in
// tests so repeated construction does not collide on the default registry.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		availabilityChecks: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "availability_checks_total",
			Help:      "Availability checks by outcome.",
		}, []string{"result"}),

		bookingConflicts: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_conflicts_total",
			Help:      "Booking writes rejected because the trailer was already booked.",
		}),

		bookingWrites: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_writes_total",
			Help:      "Successful booking writes by operation.",
		}, []string{"op"}),

		requestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
}

// AvailabilityChecked records one trailer availability decision.
func (m *Metrics) AvailabilityChecked(available bool) {
	if m == nil {
		return
	}
	result := "booked"
	if available {
		result = "available"
	}
	m.availabilityChecks.WithLabelValues(result).Inc()
}

// BookingConflict records a rejected booking write.
func (m *Metrics) BookingConflict() {
	if m == nil {
		return
	}
	m.bookingConflicts.Inc()
}

// BookingWritten records a successful create, update or delete.
func (m *Metrics) BookingWritten(op string) {
	if m == nil {
		return
	}
	m.bookingWrites.WithLabelValues(op).Inc()
}

// ObserveRequest records the latency of one HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.requestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}
