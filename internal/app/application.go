// Package app wires the service's dependencies together for handlers
// and middleware.
package app

import (
	"log/slog"

	"nightshuttle.campusgo.org/internal/appconf"
	"nightshuttle.campusgo.org/internal/clock"
	"nightshuttle.campusgo.org/internal/events"
	"nightshuttle.campusgo.org/internal/fleet"
	"nightshuttle.campusgo.org/internal/ledger"
	"nightshuttle.campusgo.org/internal/metrics"
	"nightshuttle.campusgo.org/internal/store"
)

// Application holds the dependencies for HTTP handlers, helpers, and
// middleware.
type Application struct {
	Config    appconf.Config
	Logger    *slog.Logger
	Clock     clock.Clock
	Metrics   *metrics.Metrics
	Store     store.Store
	Registry  *fleet.Registry
	Ledger    *ledger.Ledger
	Publisher *events.Publisher // nil when event publishing is disabled
}
