// Package fleet maps named stops to the bus routes serving them and
// resolves a rider's bus assignment at onboarding time.
package fleet

import (
	"fmt"
	"sort"
)

// BusID identifies one bus in the fleet.
type BusID string

// BusInfo is the static identity of a bus: its route and the ordered
// stops it serves.
type BusInfo struct {
	ID        BusID    `json:"id"`
	Name      string   `json:"name"`
	RouteName string   `json:"routeName"`
	Capacity  int      `json:"capacity"`
	Stops     []string `json:"stops"`
}

// StopInfo describes a served stop for listing to riders.
type StopInfo struct {
	Name   string  `json:"name"`
	Buses  []BusID `json:"buses"`
	Shared bool    `json:"shared"`
}

// NotServedError reports a stop that no bus serves.
type NotServedError struct {
	Stop string
}

func (e *NotServedError) Error() string {
	return fmt.Sprintf("no bus serves stop %q", e.Stop)
}

// AmbiguousStopError reports a shared stop presented without a
// disambiguating bus choice. The caller must re-prompt with Options.
type AmbiguousStopError struct {
	Stop    string
	Options []BusID
}

func (e *AmbiguousStopError) Error() string {
	return fmt.Sprintf("stop %q is served by %d buses, a choice is required", e.Stop, len(e.Options))
}

// Registry is the static stop-to-route mapping. Shared stops are an
// explicitly curated set rather than derived by counting memberships,
// so near-duplicate stop names across routes never silently count as
// shared.
type Registry struct {
	buses  []BusInfo
	shared map[string]bool
}

// NewRegistry builds a Registry from the bus roster and the curated
// shared-stop list.
func NewRegistry(buses []BusInfo, sharedStops []string) *Registry {
	shared := make(map[string]bool, len(sharedStops))
	for _, s := range sharedStops {
		shared[s] = true
	}
	return &Registry{buses: buses, shared: shared}
}

// DefaultRegistry returns the organization's two-route preset.
func DefaultRegistry() *Registry {
	return NewRegistry(
		[]BusInfo{
			{
				ID:        "shuttle-a",
				Name:      "Shuttle A",
				RouteName: "North Loop",
				Capacity:  50,
				Stops:     []string{"Library", "Science Hall", "North Dorms", "Student Union", "Rec Center"},
			},
			{
				ID:        "shuttle-b",
				Name:      "Shuttle B",
				RouteName: "South Loop",
				Capacity:  50,
				Stops:     []string{"Library", "Student Union", "South Dorms", "Gym Annex", "Medical Center"},
			},
		},
		[]string{"Library", "Student Union"},
	)
}

// Buses returns the full roster.
func (r *Registry) Buses() []BusInfo {
	out := make([]BusInfo, len(r.buses))
	copy(out, r.buses)
	return out
}

// Bus looks up a bus by ID.
func (r *Registry) Bus(id BusID) (BusInfo, bool) {
	for _, b := range r.buses {
		if b.ID == id {
			return b, true
		}
	}
	return BusInfo{}, false
}

// BusesServing returns the IDs of every bus whose stop list contains
// the stop. Stop names match exactly.
func (r *Registry) BusesServing(stop string) []BusID {
	var ids []BusID
	for _, b := range r.buses {
		for _, s := range b.Stops {
			if s == stop {
				ids = append(ids, b.ID)
				break
			}
		}
	}
	return ids
}

// IsSharedStop reports whether the stop is in the curated shared set.
func (r *Registry) IsSharedStop(stop string) bool {
	return r.shared[stop]
}

// Assign resolves the bus for a rider's chosen home stop. When exactly
// one bus serves the stop it is assigned regardless of choice. When the
// stop is shared the rider's explicit choice is required and must be
// one of the serving buses; the registry never guesses.
func (r *Registry) Assign(stop string, choice BusID) (BusID, error) {
	ids := r.BusesServing(stop)
	switch len(ids) {
	case 0:
		return "", &NotServedError{Stop: stop}
	case 1:
		return ids[0], nil
	}

	if choice != "" {
		for _, id := range ids {
			if id == choice {
				return id, nil
			}
		}
	}
	return "", &AmbiguousStopError{Stop: stop, Options: ids}
}

// Stops lists every served stop with its serving buses and shared flag,
// sorted by name.
func (r *Registry) Stops() []StopInfo {
	seen := make(map[string]bool)
	var stops []StopInfo
	for _, b := range r.buses {
		for _, s := range b.Stops {
			if seen[s] {
				continue
			}
			seen[s] = true
			stops = append(stops, StopInfo{
				Name:   s,
				Buses:  r.BusesServing(s),
				Shared: r.IsSharedStop(s),
			})
		}
	}
	sort.Slice(stops, func(i, j int) bool { return stops[i].Name < stops[j].Name })
	return stops
}
