package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/vfg2006/bizpredict-api/pkg/metrics"
)

const unmatchedPath = "unmatched"

// MetricsMiddleware records request counts and latencies. Requests that hit
// no route share one path label.
func MetricsMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			lrw := newLoggingResponseWriter(w)

			next.ServeHTTP(lrw, r)

			path := r.URL.Path
			if lrw.statusCode == http.StatusNotFound || lrw.statusCode == http.StatusMethodNotAllowed {
				path = unmatchedPath
			}

			metrics.HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
			metrics.HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(lrw.statusCode)).Inc()
		})
	}
}
