// Package restapi exposes the scheduling and reservation core over
// HTTP with an OBA-style JSON envelope.
package restapi

import (
	"net/http"

	"github.com/klauspost/compress/gzhttp"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"nightshuttle.campusgo.org/internal/app"
)

// RestAPI serves the JSON API.
type RestAPI struct {
	*app.Application
}

// New creates a RestAPI around the application dependencies.
func New(application *app.Application) *RestAPI {
	return &RestAPI{Application: application}
}

// Routes builds the full handler chain: request ID, request logging,
// metrics, rate limiting, and gzip compression around the route mux.
func (api *RestAPI) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/shuttle/status.json", api.requireKey(api.statusHandler))
	mux.HandleFunc("GET /api/shuttle/slots.json", api.requireKey(api.slotsHandler))
	mux.HandleFunc("GET /api/shuttle/schedule.json", api.requireKey(api.scheduleHandler))
	mux.HandleFunc("PUT /api/shuttle/schedule.json", api.requireKey(api.updateScheduleHandler))
	mux.HandleFunc("GET /api/shuttle/stops.json", api.requireKey(api.stopsHandler))
	mux.HandleFunc("GET /api/shuttle/transport.json", api.requireKey(api.transportHandler))
	mux.HandleFunc("POST /api/shuttle/transport.json", api.requireKey(api.onboardTransportHandler))
	mux.HandleFunc("GET /api/shuttle/reservations.json", api.requireKey(api.listReservationsHandler))
	mux.HandleFunc("POST /api/shuttle/reservations.json", api.requireKey(api.createReservationHandler))
	mux.HandleFunc("POST /api/shuttle/reservations/{id}/cancel.json", api.requireKey(api.cancelReservationHandler))

	mux.HandleFunc("GET /health", api.healthHandler)
	mux.Handle("GET /metrics", promhttp.HandlerFor(api.Metrics.Registry, promhttp.HandlerOpts{}))

	var handler http.Handler = mux
	handler = gzhttp.GzipHandler(handler)
	if api.Config.RateLimit > 0 {
		handler = NewRateLimitMiddleware(api.Config.RateLimit, api.Clock)(handler)
	}
	handler = MetricsMiddleware(api.Metrics)(handler)
	handler = NewRequestLoggingMiddleware(api.Logger)(handler)
	handler = RequestIDMiddleware(handler)

	return handler
}

// requireKey wraps a handler with API key validation.
func (api *RestAPI) requireKey(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if api.RequestHasInvalidAPIKey(r) {
			api.sendUnauthorized(w, r)
			return
		}
		next(w, r)
	}
}
