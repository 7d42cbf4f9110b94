package restapi

import (
	"net/http"
	"strconv"
	"time"

	"nightshuttle.campusgo.org/internal/metrics"
)

// MetricsMiddleware returns middleware that records HTTP metrics. A nil
// metrics instance yields a pass-through.
func MetricsMiddleware(m *metrics.Metrics) func(http.Handler) http.Handler {
	if m == nil {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(wrapped, r)

			// r.Pattern keeps label cardinality bounded; unmatched
			// requests share one bucket.
			path := r.Pattern
			if path == "" {
				path = "unmatched"
			}

			m.HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.statusCode)).Inc()
			m.HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
		})
	}
}
