// Package metrics provides centralized Prometheus metrics for the API and the worker.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics track request patterns and latency.
var (
	// HTTPRequestsTotal counts HTTP requests by method, normalized path and status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration buckets cover fast JSON reads (5ms) up to slow refresh calls (10s+)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "path", "status"},
	)

	// HTTPResponseSize measures HTTP response body size in bytes
	HTTPResponseSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_response_size_bytes",
			Help:    "HTTP response size in bytes",
			Buckets: prometheus.ExponentialBuckets(100, 10, 8),
		},
		[]string{"method", "path"},
	)

	// HTTPRequestsInFlight tracks the number of requests being served
	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests being served",
		},
	)
)

// Feed metrics track RSS documents served by the API.
var (
	// FeedRequestsTotal counts feed builds by scope (all, list, newspaper) and result
	FeedRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_requests_total",
			Help: "Total number of RSS feed requests",
		},
		[]string{"scope", "result"},
	)

	// FeedItemsServed counts items written into RSS documents
	FeedItemsServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_items_served_total",
			Help: "Total number of items written into RSS feeds",
		},
		[]string{"scope"},
	)

	// RefreshTriggersTotal counts refresh requests forwarded to the ingestion functions
	RefreshTriggersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "refresh_triggers_total",
			Help: "Total number of refresh triggers by scope and result",
		},
		[]string{"scope", "result"},
	)

	// RateLimitRejectionsTotal counts requests answered with 429
	RateLimitRejectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limit_rejections_total",
			Help: "Total number of requests rejected by a rate limiter",
		},
		[]string{"scope"},
	)
)

// Ingest metrics track the worker's feed processing.
var (
	// IngestFeedDuration measures time to fetch and store one newspaper feed
	IngestFeedDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ingest_feed_duration_seconds",
			Help:    "Time taken to ingest one newspaper feed",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		},
	)

	// IngestItemsUpserted counts rows written to parsed_news
	IngestItemsUpserted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ingest_items_upserted_total",
			Help: "Total number of articles inserted or updated",
		},
	)

	// IngestFeedErrors counts failed feeds by stage (fetch, store)
	IngestFeedErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_feed_errors_total",
			Help: "Total number of feed ingestion errors",
		},
		[]string{"error_type"},
	)

	// ContentFetchAttemptsTotal counts content enhancement attempts by result
	ContentFetchAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "content_fetch_attempts_total",
			Help: "Total number of content fetch attempts",
		},
		[]string{"result"}, // success, failure, skipped
	)

	// ContentFetchDuration measures time to fetch an article page
	ContentFetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "content_fetch_duration_seconds",
			Help:    "Time taken to fetch article content",
			Buckets: []float64{0.1, 0.2, 0.4, 0.8, 1.6, 3.2, 6.4, 12.8},
		},
	)
)

// Database metrics
var (
	// DBConnectionsOpen tracks open connections of the pool
	DBConnectionsOpen = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_open",
			Help: "Number of open database connections",
		},
	)

	// DBConnectionsIdle tracks idle connections of the pool
	DBConnectionsIdle = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_idle",
			Help: "Number of idle database connections",
		},
	)
)

// RecordHTTPRequest records an HTTP request with its metadata
func RecordHTTPRequest(method, path, status string, duration time.Duration, responseSize int) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
	if responseSize > 0 {
		HTTPResponseSize.WithLabelValues(method, path).Observe(float64(responseSize))
	}
}
