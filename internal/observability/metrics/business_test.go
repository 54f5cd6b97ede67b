package metrics

import (
	"database/sql"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, g.Write(&m))
	return m.GetGauge().GetValue()
}

func TestRecordFeedServed(t *testing.T) {
	requests := FeedRequestsTotal.WithLabelValues("list", "success")
	items := FeedItemsServed.WithLabelValues("list")
	beforeReq, beforeItems := counterValue(t, requests), counterValue(t, items)

	RecordFeedServed("list", 12)

	assert.Equal(t, beforeReq+1, counterValue(t, requests))
	assert.Equal(t, beforeItems+12, counterValue(t, items))
}

func TestRecordFeedFailed(t *testing.T) {
	c := FeedRequestsTotal.WithLabelValues("newspaper", "not_found")
	before := counterValue(t, c)
	RecordFeedFailed("newspaper", "not_found")
	assert.Equal(t, before+1, counterValue(t, c))
}

func TestRecordRefresh(t *testing.T) {
	ok := RefreshTriggersTotal.WithLabelValues("one", "success")
	failed := RefreshTriggersTotal.WithLabelValues("one", "failure")
	beforeOK, beforeFailed := counterValue(t, ok), counterValue(t, failed)

	RecordRefresh("one", true)
	RecordRefresh("one", false)
	RecordRefresh("one", false)

	assert.Equal(t, beforeOK+1, counterValue(t, ok))
	assert.Equal(t, beforeFailed+2, counterValue(t, failed))
}

func TestRecordRateLimited(t *testing.T) {
	c := RateLimitRejectionsTotal.WithLabelValues("refresh")
	before := counterValue(t, c)
	RecordRateLimited("refresh")
	assert.Equal(t, before+1, counterValue(t, c))
}

func TestRecordIngest(t *testing.T) {
	before := counterValue(t, IngestItemsUpserted)
	RecordIngestFeed(250*time.Millisecond, 7)
	RecordIngestFeed(time.Second, 0)
	assert.Equal(t, before+7, counterValue(t, IngestItemsUpserted))

	fetchErrs := IngestFeedErrors.WithLabelValues("fetch")
	beforeErr := counterValue(t, fetchErrs)
	RecordIngestError("fetch")
	assert.Equal(t, beforeErr+1, counterValue(t, fetchErrs))
}

func TestRecordContentFetch(t *testing.T) {
	skipped := ContentFetchAttemptsTotal.WithLabelValues("skipped")
	before := counterValue(t, skipped)

	assert.NotPanics(t, func() {
		RecordContentFetchSuccess(100 * time.Millisecond)
		RecordContentFetchFailed(2 * time.Second)
	})
	RecordContentFetchSkipped()
	assert.Equal(t, before+1, counterValue(t, skipped))
}

func TestUpdateDBStats(t *testing.T) {
	UpdateDBStats(sql.DBStats{OpenConnections: 8, Idle: 3})
	assert.Equal(t, 8.0, gaugeValue(t, DBConnectionsOpen))
	assert.Equal(t, 3.0, gaugeValue(t, DBConnectionsIdle))
}

func TestRecordHTTPRequest(t *testing.T) {
	c := HTTPRequestsTotal.WithLabelValues("GET", "/api/rss/all", "200")
	before := counterValue(t, c)
	RecordHTTPRequest("GET", "/api/rss/all", "200", 30*time.Millisecond, 2048)
	assert.Equal(t, before+1, counterValue(t, c))
}
