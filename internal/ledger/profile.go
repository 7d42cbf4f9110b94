package ledger

import (
	"context"
	"encoding/json"

	"nightshuttle.campusgo.org/internal/fleet"
	"nightshuttle.campusgo.org/internal/store"
)

// StudentTransport is a rider's durable transport profile. It is
// created once at onboarding and mutated only by an explicit home-stop
// change; it is never auto-deleted.
type StudentTransport struct {
	HomeStop      string      `json:"homeStop"`
	BusAssignment fleet.BusID `json:"busAssignment"`
	SetupComplete bool        `json:"setupComplete"`
}

// Transport reads the persisted profile. It returns nil when no profile
// exists yet or the record is unparseable; either way onboarding is
// required before any reservation.
func (l *Ledger) Transport(ctx context.Context) (*StudentTransport, error) {
	raw, found, err := l.store.Get(ctx, store.KeyStudentTransport)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}

	var profile StudentTransport
	if err := json.Unmarshal(raw, &profile); err != nil {
		l.logger.Warn("corrupt transport profile, onboarding required", "error", err)
		return nil, nil
	}
	return &profile, nil
}

// SaveTransport persists the profile whole.
func (l *Ledger) SaveTransport(ctx context.Context, profile StudentTransport) error {
	raw, err := json.Marshal(profile)
	if err != nil {
		return err
	}
	return l.store.Set(ctx, store.KeyStudentTransport, raw)
}
