package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"newsfeed-hub/internal/handler/http/pathutil"
	"newsfeed-hub/internal/handler/http/responsewriter"
	"newsfeed-hub/internal/observability/metrics"
	"newsfeed-hub/internal/observability/slo"
)

// MetricsMiddleware records request count, latency and response size per normalized route.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		metrics.HTTPRequestsInFlight.Inc()
		defer metrics.HTTPRequestsInFlight.Dec()

		rw := responsewriter.Wrap(w)
		next.ServeHTTP(rw, r)

		elapsed := time.Since(start)
		metrics.RecordHTTPRequest(
			r.Method,
			pathutil.NormalizePath(r.URL.Path),
			strconv.Itoa(rw.StatusCode()),
			elapsed,
			rw.BytesWritten(),
		)
		// refresh の所要時間は関数サービス次第なので SLO から除外
		if !strings.HasPrefix(r.URL.Path, "/api/refresh/") {
			slo.Default.Observe(rw.StatusCode(), elapsed)
		}
	})
}

// MetricsHandler serves the default Prometheus registry.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
