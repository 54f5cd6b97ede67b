// Package observability groups the logging, metrics, tracing and SLO packages
// shared by the API and the ingestion worker.
//
//   - logging: slog setup (LOG_LEVEL, LOG_FORMAT) and request-scoped loggers
//   - metrics: Prometheus collectors for HTTP, feeds, refresh, ingestion and the DB pool
//   - tracing: OpenTelemetry spans for requests and feed builds
//   - slo: availability, error rate and latency percentiles per window
package observability
