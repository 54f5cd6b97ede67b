package auth

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	authRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_requests_total",
			Help: "Total token verifications by route mode and result",
		},
		[]string{"mode", "result"}, // mode: required | optional, result: success | failure
	)

	authDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "auth_duration_seconds",
			Help:    "Token verification duration",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01},
		},
		[]string{"mode"},
	)

	forbiddenAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forbidden_attempts_total",
			Help: "Changes rejected because the caller does not own the record",
		},
		[]string{"resource", "method"},
	)
)

// RecordAuthRequest counts one verification.
func RecordAuthRequest(mode, result string) {
	authRequestsTotal.WithLabelValues(mode, result).Inc()
}

// RecordAuthDuration observes the time spent verifying a token.
func RecordAuthDuration(mode string, durationSeconds float64) {
	authDuration.WithLabelValues(mode).Observe(durationSeconds)
}

// RecordForbiddenAttempt counts an owner mismatch on resource.
func RecordForbiddenAttempt(resource, method string) {
	forbiddenAttempts.WithLabelValues(resource, method).Inc()
}
