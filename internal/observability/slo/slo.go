// Package slo tracks the API's service level indicators over fixed windows
// and exports them as gauges next to their targets.
package slo

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Targets.
const (
	// AvailabilitySLO is the target share of non-5xx responses in percent
	AvailabilitySLO = 99.9

	// LatencyP95SLO is the p95 latency target in seconds
	LatencyP95SLO = 0.200

	// LatencyP99SLO is the p99 latency target in seconds.
	// Refresh requests wait for the function service and are excluded by the caller.
	LatencyP99SLO = 0.500

	// ErrorRateSLO is the maximum share of 5xx responses
	ErrorRateSLO = 0.001
)

// maxSamples bounds the latency samples kept per window.
const maxSamples = 10000

var (
	SLOAvailability = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "slo_availability_ratio",
		Help: "Share of non-5xx responses in the last window (0-1), target: 0.999",
	})

	SLOLatencyP95 = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "slo_latency_p95_seconds",
		Help: "p95 latency in the last window in seconds, target: 0.200",
	})

	SLOLatencyP99 = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "slo_latency_p99_seconds",
		Help: "p99 latency in the last window in seconds, target: 0.500",
	})

	SLOErrorRate = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "slo_error_rate_ratio",
		Help: "Share of 5xx responses in the last window (0-1), target: 0.001",
	})
)

// Snapshot is the indicator set of one window.
type Snapshot struct {
	Requests     int
	Availability float64
	ErrorRate    float64
	LatencyP95   time.Duration
	LatencyP99   time.Duration
}

// Tracker accumulates requests until Flush. The zero value is ready to use.
type Tracker struct {
	mu        sync.Mutex
	total     int
	errors    int
	latencies []time.Duration
}

// Default is fed by the HTTP metrics middleware.
var Default = &Tracker{}

// Observe records one response.
func (t *Tracker) Observe(status int, d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.total++
	if status >= 500 {
		t.errors++
	}
	if len(t.latencies) < maxSamples {
		t.latencies = append(t.latencies, d)
	}
}

// Flush computes the window, resets the tracker and updates the gauges.
// An empty window reports full availability and zero latency.
func (t *Tracker) Flush() Snapshot {
	t.mu.Lock()
	total, errs, lat := t.total, t.errors, t.latencies
	t.total, t.errors, t.latencies = 0, 0, nil
	t.mu.Unlock()

	s := Snapshot{Requests: total, Availability: 1}
	if total > 0 {
		s.ErrorRate = float64(errs) / float64(total)
		s.Availability = 1 - s.ErrorRate
	}
	sort.Slice(lat, func(i, j int) bool { return lat[i] < lat[j] })
	s.LatencyP95 = percentile(lat, 0.95)
	s.LatencyP99 = percentile(lat, 0.99)

	SLOAvailability.Set(s.Availability)
	SLOErrorRate.Set(s.ErrorRate)
	SLOLatencyP95.Set(s.LatencyP95.Seconds())
	SLOLatencyP99.Set(s.LatencyP99.Seconds())
	return s
}

// Run flushes every interval until ctx is done.
func (t *Tracker) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.Flush()
		}
	}
}

// percentile uses the nearest-rank method on sorted samples.
func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	rank := int(math.Ceil(p*float64(len(sorted)))) - 1
	if rank < 0 {
		rank = 0
	}
	return sorted[rank]
}
