// Package metrics provides Prometheus metrics for the nightshuttle
// service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all Prometheus metrics for the application, registered
// against a private registry so tests never collide.
type Metrics struct {
	Registry *prometheus.Registry

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Reservation outcomes, labelled confirmed / rejected_quota /
	// rejected_window / rejected_no_profile / cancelled
	ReservationsTotal *prometheus.CounterVec

	// ServiceState carries 1 for the current state label and 0 for the rest
	ServiceState *prometheus.GaugeVec

	StoreErrorsTotal prometheus.Counter
	EventsConnected  prometheus.Gauge
	EventsPublished  prometheus.Counter
	EventsFailed     prometheus.Counter
}

// New creates and registers all application metrics with a new registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		Registry: registry,
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nightshuttle_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "nightshuttle_http_request_duration_seconds",
				Help:    "HTTP request latency distribution",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		ReservationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nightshuttle_reservations_total",
				Help: "Reservation attempts by outcome",
			},
			[]string{"outcome"},
		),
		ServiceState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "nightshuttle_service_state",
				Help: "Current service state (1 for the active state)",
			},
			[]string{"state"},
		),
		StoreErrorsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "nightshuttle_store_errors_total",
			Help: "Total number of key-value store errors",
		}),
		EventsConnected: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "nightshuttle_events_connected",
			Help: "Whether the NATS event connection is up",
		}),
		EventsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "nightshuttle_events_published_total",
			Help: "Total number of reservation events published",
		}),
		EventsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "nightshuttle_events_failed_total",
			Help: "Total number of reservation event publish failures",
		}),
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.ReservationsTotal,
		m.ServiceState,
		m.StoreErrorsTotal,
		m.EventsConnected,
		m.EventsPublished,
		m.EventsFailed,
	)

	return m
}

// SetServiceState sets the gauge for the given state to 1 and the other
// known states to 0.
func (m *Metrics) SetServiceState(state string) {
	for _, s := range []string{"running", "break", "ended"} {
		value := 0.0
		if s == state {
			value = 1.0
		}
		m.ServiceState.WithLabelValues(s).Set(value)
	}
}

// ReservationOutcome increments the reservation counter for an outcome.
func (m *Metrics) ReservationOutcome(outcome string) {
	m.ReservationsTotal.WithLabelValues(outcome).Inc()
}

// PublishedInc records one successfully published event.
func (m *Metrics) PublishedInc() { m.EventsPublished.Inc() }

// PublishErrInc records one failed event publish.
func (m *Metrics) PublishErrInc() { m.EventsFailed.Inc() }

// SetConnected records the event connection state.
func (m *Metrics) SetConnected(connected bool) {
	if connected {
		m.EventsConnected.Set(1)
	} else {
		m.EventsConnected.Set(0)
	}
}
