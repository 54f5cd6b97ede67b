// Package metrics registers the application's Prometheus metrics with the default registry.
//
// HTTP metrics are recorded by the API middleware, feed and refresh metrics by the
// RSS and refresh handlers, ingest metrics by the worker. All of them are exposed on /metrics.
//
//	start := time.Now()
//	n, err := articles.Upsert(ctx, batch)
//	if err != nil {
//	    metrics.RecordIngestError("store")
//	}
//	metrics.RecordIngestFeed(time.Since(start), n)
package metrics
