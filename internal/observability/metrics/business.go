package metrics

import (
	"database/sql"
	"time"
)

// RecordFeedServed records a successfully built feed and the number of its items.
func RecordFeedServed(scope string, items int) {
	FeedRequestsTotal.WithLabelValues(scope, "success").Inc()
	FeedItemsServed.WithLabelValues(scope).Add(float64(items))
}

// RecordFeedFailed records a feed request that ended in bad_request, not_found or error.
func RecordFeedFailed(scope, result string) {
	FeedRequestsTotal.WithLabelValues(scope, result).Inc()
}

// RecordRefresh records the outcome of a refresh trigger.
func RecordRefresh(scope string, success bool) {
	result := "success"
	if !success {
		result = "failure"
	}
	RefreshTriggersTotal.WithLabelValues(scope, result).Inc()
}

// RecordRateLimited records a request rejected by the limiter of scope.
func RecordRateLimited(scope string) {
	RateLimitRejectionsTotal.WithLabelValues(scope).Inc()
}

// RecordIngestFeed records the duration of one newspaper feed and the rows it wrote.
func RecordIngestFeed(duration time.Duration, upserted int) {
	IngestFeedDuration.Observe(duration.Seconds())
	if upserted > 0 {
		IngestItemsUpserted.Add(float64(upserted))
	}
}

// RecordIngestError records a failed feed. errorType is the failing stage, e.g. "fetch" or "store".
func RecordIngestError(errorType string) {
	IngestFeedErrors.WithLabelValues(errorType).Inc()
}

// RecordContentFetchSuccess records a successful content fetch.
func RecordContentFetchSuccess(duration time.Duration) {
	ContentFetchAttemptsTotal.WithLabelValues("success").Inc()
	ContentFetchDuration.Observe(duration.Seconds())
}

// RecordContentFetchFailed records a failed content fetch.
func RecordContentFetchFailed(duration time.Duration) {
	ContentFetchAttemptsTotal.WithLabelValues("failure").Inc()
	ContentFetchDuration.Observe(duration.Seconds())
}

// RecordContentFetchSkipped records an item whose feed content was long enough.
func RecordContentFetchSkipped() {
	ContentFetchAttemptsTotal.WithLabelValues("skipped").Inc()
}

// UpdateDBStats copies the pool statistics into the connection gauges.
func UpdateDBStats(stats sql.DBStats) {
	DBConnectionsOpen.Set(float64(stats.OpenConnections))
	DBConnectionsIdle.Set(float64(stats.Idle))
}
